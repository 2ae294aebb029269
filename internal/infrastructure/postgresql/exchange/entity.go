package exchange

// Exchange is a trading venue the engine journals events from.
type Exchange struct {
	Name     string `json:"name"`
	FullName string `json:"fullName"`
}

// Symbol is an instrument listed on an exchange.
type Symbol struct {
	Symbol         string `json:"symbol"`
	Exchange       string `json:"exchange"`
	PrimaryListing string `json:"primaryListing"`
	Description    string `json:"description"`
}
