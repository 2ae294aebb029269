package v1

import (
	"time"

	journalInfra "github.com/muhammadchandra19/ome/internal/infrastructure/postgresql/journal"
)

// RawExchangeEvent represents a raw exchange event from the connectivity layer.
type RawExchangeEvent struct {
	EventID   int64     `json:"event_id,omitempty"`
	Exchange  string    `json:"exchange"`
	EventType string    `json:"event_type"` // "exchange_connected", "market_data", "order_fill", ...
	EventTime time.Time `json:"event_time"`
	Timestamp time.Time `json:"timestamp"`

	// For order-scoped events
	OrderID  int64  `json:"order_id,omitempty"`
	Quantity int64  `json:"quantity,omitempty"`
	Reason   string `json:"reason,omitempty"`

	// For market data events
	Symbol string  `json:"symbol,omitempty"`
	Price  float64 `json:"price,omitempty"`
	Volume int64   `json:"volume,omitempty"`
	Side   string  `json:"side,omitempty"`
}

// ToJournalEvent converts the raw event into a journal entry, encoding the
// type-specific payload into the details column.
func (e *RawExchangeEvent) ToJournalEvent() (*journalInfra.ExchangeEvent, error) {
	event := &journalInfra.ExchangeEvent{
		ID:        e.EventID,
		Exchange:  e.Exchange,
		EventType: journalInfra.EventType(e.EventType),
		EventTime: e.EventTime,
		Timestamp: e.Timestamp,
	}

	switch {
	case event.IsOrderScoped():
		details, err := journalInfra.EncodeDetails(journalInfra.OrderDetails{
			OrderID:  e.OrderID,
			Quantity: e.Quantity,
			Reason:   e.Reason,
		})
		if err != nil {
			return nil, err
		}
		event.Details = details
	case event.EventType == journalInfra.EventMarketData:
		details, err := journalInfra.EncodeDetails(journalInfra.MarketDataDetails{
			Symbol: e.Symbol,
			Price:  e.Price,
			Volume: e.Volume,
			Side:   e.Side,
		})
		if err != nil {
			return nil, err
		}
		event.Details = details
	}

	return event, nil
}
