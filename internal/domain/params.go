package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// PlanParameters are the inputs to the plan generator plus the derived
// RetireDate, which is overwritten every time a plan is generated.
//
// Rates are annualized percentages (6.0 means 6% per year). The generator
// does not validate ranges; boundary validation is the adapter's job.
type PlanParameters struct {
	StartDate                     time.Time
	StartingMonthlyContribution   decimal.Decimal
	TargetMonthlyIncomeAtMaturity decimal.Decimal
	Currency                      string
	ExpectedAnnualInflationPct    decimal.Decimal
	ExpectedAnnualGrowthRatePct   decimal.Decimal
	AnnualContributionStepUpPct   decimal.Decimal

	// RetireDate is derived, not user input: the date the last generated
	// plan concluded at.
	RetireDate time.Time
}
