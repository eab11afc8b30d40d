package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// defaultHorizonYears is the horizon the session starts with before the user
// has generated any plan.
const defaultHorizonYears = 20

// State is the aggregate root for a planning session. It is a value that is
// replaced wholesale on every accepted action, never mutated in place;
// consumers may hold a *State and read it without synchronization.
type State struct {
	PlanParameters        PlanParameters
	Investments           []Investment           // actual records, sorted by CompareInvestments
	InflationObservations []InflationObservation // sorted by date
	InvestmentPlan        []Investment           // all TagPlanned, fully replaced on recompute
}

// DefaultState is the fixed baseline every session starts from: zero
// contributions, a 20-year horizon and empty histories. now supplies the
// session start date (injected so tests stay deterministic).
func DefaultState(now time.Time) *State {
	start := DateOnly(now)
	return &State{
		PlanParameters: PlanParameters{
			StartDate:                     start,
			StartingMonthlyContribution:   decimal.Zero,
			TargetMonthlyIncomeAtMaturity: decimal.Zero,
			Currency:                      "EUR",
			ExpectedAnnualInflationPct:    decimal.Zero,
			ExpectedAnnualGrowthRatePct:   decimal.Zero,
			AnnualContributionStepUpPct:   decimal.Zero,
			RetireDate:                    start.AddDate(defaultHorizonYears, 0, 0),
		},
		Investments:           []Investment{},
		InflationObservations: []InflationObservation{},
		InvestmentPlan:        []Investment{},
	}
}

// Clone returns a copy of the state with freshly allocated slices, so the
// reducer can derive a new state without touching the old one.
func (s *State) Clone() *State {
	next := &State{
		PlanParameters:        s.PlanParameters,
		Investments:           make([]Investment, len(s.Investments)),
		InflationObservations: make([]InflationObservation, len(s.InflationObservations)),
		InvestmentPlan:        make([]Investment, len(s.InvestmentPlan)),
	}
	copy(next.Investments, s.Investments)
	copy(next.InflationObservations, s.InflationObservations)
	copy(next.InvestmentPlan, s.InvestmentPlan)
	return next
}
