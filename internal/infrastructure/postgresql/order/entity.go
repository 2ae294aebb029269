package order

import (
	"fmt"
	"time"

	"github.com/muhammadchandra19/ome/pkg/errors"
)

// State represents the lifecycle state of an order.
type State string

const (
	// OrderStateReceived is the initial state of a newly placed order.
	OrderStateReceived State = "received"

	// OrderStateProcessed is the state after the exchange acknowledged the order.
	OrderStateProcessed State = "processed"

	// OrderStatePartiallyFilled is the state of an order with some quantity executed.
	OrderStatePartiallyFilled State = "partially_filled"

	// OrderStateFilled is the terminal state of a fully executed order.
	OrderStateFilled State = "filled"

	// OrderStateRejected is the terminal state of an order the exchange refused.
	OrderStateRejected State = "rejected"

	// OrderStateCancelled is the terminal state of a confirmed cancellation.
	OrderStateCancelled State = "cancelled"
)

// IsTerminal reports whether no further transitions are legal from s.
func (s State) IsTerminal() bool {
	switch s {
	case OrderStateFilled, OrderStateRejected, OrderStateCancelled:
		return true
	}
	return false
}

// Order is the authoritative record of a client trading order.
// State, filled fields and the dedup cursor are mutated only through
// the transition methods below; everything else is set once at creation.
type Order struct {
	ReceivedEventID int64      `json:"receivedEventID"`
	Symbol          string     `json:"symbol"`
	Quantity        int64      `json:"quantity"`
	State           State      `json:"state"`
	ReceivedTime    time.Time  `json:"receivedTime"`
	ProcessedTime   *time.Time `json:"processedTime"`
	FilledTime      *time.Time `json:"filledTime"`
	Client          string     `json:"client"`
	FilledQuantity  *int64     `json:"filledQuantity"`
	LastEventID     int64      `json:"lastEventID"`
}

// OrderWithClient pairs an order with its owning client record,
// resolved by an explicit join.
type OrderWithClient struct {
	Order
	ClientFullName string `json:"clientFullName"`
}

// Filter represents the filter criteria for listing orders.
type Filter struct {
	Client        string     `json:"client"`
	Symbol        string     `json:"symbol"`
	State         string     `json:"state"`
	From          *time.Time `json:"from"`
	To            *time.Time `json:"to"`
	Limit         int        `json:"limit"`
	Offset        int        `json:"offset"`
	SortDirection string     `json:"sortDirection"`
}

// Acknowledge moves a received order to processed and stamps processed_time.
func (o *Order) Acknowledge(at time.Time) error {
	if o.State != OrderStateReceived {
		return o.invalidTransition("acknowledgement")
	}

	o.State = OrderStateProcessed
	o.ProcessedTime = &at
	return nil
}

// Reject terminally rejects an order. Legal from received or processed only.
func (o *Order) Reject() error {
	if o.State != OrderStateReceived && o.State != OrderStateProcessed {
		return o.invalidTransition("rejection")
	}

	o.State = OrderStateRejected
	return nil
}

// Cancel terminally cancels an order. Legal from received or processed only.
func (o *Order) Cancel() error {
	if o.State != OrderStateReceived && o.State != OrderStateProcessed {
		return o.invalidTransition("cancellation")
	}

	o.State = OrderStateCancelled
	return nil
}

// Fill accumulates an executed quantity. The order ends partially_filled
// unless the accumulated quantity reaches the requested quantity, in which
// case it ends filled. An over-fill fails without mutating the order.
func (o *Order) Fill(quantity int64, at time.Time) error {
	if o.State != OrderStateProcessed && o.State != OrderStatePartiallyFilled {
		return o.invalidTransition("fill")
	}

	if quantity <= 0 {
		return errors.NewErrorDetails(
			fmt.Sprintf("fill quantity must be positive, got %d", quantity),
			string(errors.GeneralBadRequestError),
			"quantity",
		)
	}

	var current int64
	if o.FilledQuantity != nil {
		current = *o.FilledQuantity
	}

	total := current + quantity
	if total > o.Quantity {
		return errors.NewErrorDetails(
			fmt.Sprintf("fill of %d would exceed order quantity %d (already filled %d)", quantity, o.Quantity, current),
			string(errors.OverfillError),
			"quantity",
		)
	}

	o.FilledQuantity = &total
	o.FilledTime = &at
	if total == o.Quantity {
		o.State = OrderStateFilled
	} else {
		o.State = OrderStatePartiallyFilled
	}
	return nil
}

func (o *Order) invalidTransition(event string) error {
	return errors.NewErrorDetails(
		fmt.Sprintf("%s is not legal for order %d in state %s", event, o.ReceivedEventID, o.State),
		string(errors.InvalidTransitionError),
		"state",
	)
}
