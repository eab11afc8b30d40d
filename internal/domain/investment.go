package domain

import (
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// Reserved tags. The plan generator emits TagPlanned records and the
// reconciliation engine emits TagActual aggregates; user-supplied tags must
// never collide with either (enforced at the input boundary, not here).
const (
	TagPlanned = "Planned"
	TagActual  = "Actual"
)

// Investment is a point-in-time snapshot of money committed to a category
// and what that money is currently worth.
type Investment struct {
	InvestedAmount decimal.Decimal // cumulative principal contributed as of RecordDate
	CurrentValue   decimal.Decimal // market value as of RecordDate
	RecordDate     time.Time       // date-only, UTC midnight
	Tag            string
}

// InflationObservation is a recorded annualized inflation rate (in percent,
// 6.0 means 6%) as of a date.
type InflationObservation struct {
	Inflation  decimal.Decimal
	RecordDate time.Time
}

// IsReservedTag reports whether a tag collides (case-insensitively) with one
// of the synthetic tags. Boundary validators use this to reject user input;
// the core itself trusts its inputs.
func IsReservedTag(tag string) bool {
	return strings.EqualFold(tag, TagPlanned) || strings.EqualFold(tag, TagActual)
}

// DateOnly strips the time-of-day component, normalizing to UTC midnight.
// All record dates flow through this before entering the core.
func DateOnly(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}
