package order

import "time"

// PlaceOrderRequest carries everything needed to admit a new client order.
type PlaceOrderRequest struct {
	Exchange  string    `json:"exchange"`
	Symbol    string    `json:"symbol"`
	Client    string    `json:"client"`
	Quantity  int64     `json:"quantity"`
	EventTime time.Time `json:"eventTime"`
}
