package tick

import (
	"time"
)

// Tick is a single market data point mirrored from the journal.
type Tick struct {
	Timestamp time.Time
	Symbol    string
	Price     float64
	Volume    int64
	Side      string // "buy" or "sell"
}

// Filter represents the filter criteria for tick data.
type Filter struct {
	Symbol string
	From   *time.Time
	To     *time.Time
	Limit  int
	Offset int
}
