package domain

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// DateLayout is the calendar-date format used by history stores
const DateLayout = "2006-01-02"

// NetWorthSnapshot is one entry of the history ledger.
// There is at most one snapshot per calendar date.
type NetWorthSnapshot struct {
	ID    uuid.UUID
	Date  time.Time // midnight UTC of the calendar day
	Total decimal.Decimal
}

// ResamplePoint is the last observed value in a resampling window
type ResamplePoint struct {
	PeriodEnd time.Time
	Value     decimal.Decimal
}

// Day truncates t to its calendar date in t's location and returns it as midnight UTC,
// so that dates compare equal regardless of where they were produced.
func Day(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// SameDay reports whether a and b fall on the same calendar date
func SameDay(a, b time.Time) bool {
	return Day(a).Equal(Day(b))
}
