package client

// Client is a trading participant that submits orders.
type Client struct {
	Acronym  string `json:"acronym"`
	FullName string `json:"fullName"`
}
