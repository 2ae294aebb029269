package journal

import (
	"encoding/json"
	"time"

	"github.com/muhammadchandra19/ome/pkg/errors"
)

// EventType classifies an exchange event.
type EventType string

const (
	// EventExchangeConnected signals the connectivity layer established a session.
	EventExchangeConnected EventType = "exchange_connected"
	// EventExchangeDisconnected signals the connectivity layer lost a session.
	EventExchangeDisconnected EventType = "exchange_disconnected"
	// EventMarketData carries a tick payload.
	EventMarketData EventType = "market_data"

	// EventOrderReceived records receipt of a new client order.
	EventOrderReceived EventType = "order_received"
	// EventOrderAck records an exchange acknowledgement of an order.
	EventOrderAck EventType = "order_ack"
	// EventOrderReject records an exchange rejection of an order.
	EventOrderReject EventType = "order_reject"
	// EventOrderCancel records a confirmed cancellation of an order.
	EventOrderCancel EventType = "order_cancel"
	// EventOrderFill records a full or partial execution of an order.
	EventOrderFill EventType = "order_fill"
)

// ExchangeEvent is a single append-only journal entry.
type ExchangeEvent struct {
	ID        int64     `json:"id"`
	Exchange  string    `json:"exchange"`
	EventType EventType `json:"eventType"`
	EventTime time.Time `json:"eventTime"`
	Timestamp time.Time `json:"timestamp"`
	Details   *string   `json:"details"`
}

// OrderDetails is the payload carried by order-scoped events.
type OrderDetails struct {
	OrderID  int64  `json:"order_id"`
	Quantity int64  `json:"quantity,omitempty"`
	Reason   string `json:"reason,omitempty"`
}

// MarketDataDetails is the payload carried by market_data events.
type MarketDataDetails struct {
	Symbol string  `json:"symbol"`
	Price  float64 `json:"price"`
	Volume int64   `json:"volume"`
	Side   string  `json:"side,omitempty"`
}

// IsOrderScoped reports whether the event targets a single order.
func (e *ExchangeEvent) IsOrderScoped() bool {
	switch e.EventType {
	case EventOrderReceived, EventOrderAck, EventOrderReject, EventOrderCancel, EventOrderFill:
		return true
	}
	return false
}

// OrderDetails parses the details payload of an order-scoped event.
func (e *ExchangeEvent) OrderDetails() (*OrderDetails, error) {
	if e.Details == nil {
		return nil, errors.NewErrorDetails("order event has no details payload", string(errors.GeneralBadRequestError), "details")
	}

	details := &OrderDetails{}
	if err := json.Unmarshal([]byte(*e.Details), details); err != nil {
		return nil, errors.TracerFromError(err)
	}

	return details, nil
}

// MarketDataDetails parses the details payload of a market_data event.
func (e *ExchangeEvent) MarketDataDetails() (*MarketDataDetails, error) {
	if e.Details == nil {
		return nil, errors.NewErrorDetails("market data event has no details payload", string(errors.GeneralBadRequestError), "details")
	}

	details := &MarketDataDetails{}
	if err := json.Unmarshal([]byte(*e.Details), details); err != nil {
		return nil, errors.TracerFromError(err)
	}

	return details, nil
}

// EncodeDetails marshals a details payload into the journal's text column.
func EncodeDetails(payload any) (*string, error) {
	raw, err := json.Marshal(payload)
	if err != nil {
		return nil, errors.TracerFromError(err)
	}

	encoded := string(raw)
	return &encoded, nil
}
