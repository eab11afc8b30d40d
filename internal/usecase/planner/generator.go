// Package planner contains the retirement plan projection engine: a
// monthly-stepped forward simulation that grows a portfolio by contributions
// and interest until the interest earned in a month clears an
// inflation-adjusted sustainability target.
package planner

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/fireplan/fireplan-backend/internal/domain"
)

// horizonYears is the hard safety bound on the simulation. If the target is
// never met the loop still stops here; it is the only termination guarantee
// when growth does not outpace inflation.
const horizonYears = 50

// rateDenominator converts an annual percentage to a simple daily rate
// (365-day year, proportional daily accrual rather than true compounding).
// Period lengths use real calendar day-counts, so leap years affect periods
// but not the denominator. Both halves of that asymmetry are deliberate and
// every projected number depends on them.
var rateDenominator = decimal.NewFromInt(36500)

// Projection is the generator output: the simulated monthly schedule, all
// tagged "Planned", and the date the simulation concluded at.
type Projection struct {
	Records    []domain.Investment
	RetireDate time.Time
}

// HorizonCapped reports whether the projection ran into the safety bound
// instead of meeting its target, i.e. the retire date sits at the last
// month-start inside startDate + 50 years. Presentation uses this to warn
// that the plan is not realistic.
func (p Projection) HorizonCapped(startDate time.Time) bool {
	limit := domain.DateOnly(startDate).AddDate(horizonYears, 0, 0)
	return !p.RetireDate.Before(limit.AddDate(0, -1, 0))
}

// Generate runs the projection for the given parameters. It never fails: any
// parameter combination yields a plan with at least one record, possibly a
// degenerate one that ends exactly at the 50-year bound.
//
// Every money amount is rounded to 2 decimal places immediately after it is
// updated, bounding accumulation noise to cent level across the up-to-600
// monthly steps.
func Generate(params domain.PlanParameters) Projection {
	startDate := domain.DateOnly(params.StartDate)
	limitDate := startDate.AddDate(horizonYears, 0, 0)

	dailyGrowth := params.ExpectedAnnualGrowthRatePct.Div(rateDenominator)
	dailyInflation := params.ExpectedAnnualInflationPct.Div(rateDenominator)
	dailyStepUp := params.AnnualContributionStepUpPct.Div(rateDenominator)

	// The first month carries its own contribution, and the target the
	// monthly interest has to clear starts at the desired income plus the
	// contribution that would no longer be made.
	contribution := params.StartingMonthlyContribution
	principal := contribution
	value := contribution
	target := params.TargetMonthlyIncomeAtMaturity.Add(params.StartingMonthlyContribution)

	currentDate := startDate
	nextDate := nextMonthStart(currentDate)
	periodDays := daysBetween(currentDate, nextDate)
	interest := value.Mul(periodDays).Mul(dailyGrowth)

	var records []domain.Investment
	for interest.LessThan(target) && nextDate.Before(limitDate) {
		records = append(records, domain.Investment{
			InvestedAmount: principal,
			CurrentValue:   value,
			RecordDate:     currentDate,
			Tag:            domain.TagPlanned,
		})

		value = value.Add(interest).Add(contribution).Round(2)
		principal = principal.Add(contribution).Round(2)

		// The step-up compounds against the original starting contribution,
		// not the current one: the raise is linear in elapsed days.
		contribution = contribution.Add(params.StartingMonthlyContribution.Mul(periodDays).Mul(dailyStepUp)).Round(2)
		target = target.Add(params.TargetMonthlyIncomeAtMaturity.Add(contribution).Mul(periodDays).Mul(dailyInflation)).Round(2)

		currentDate = nextDate
		nextDate = nextMonthStart(currentDate)
		periodDays = daysBetween(currentDate, nextDate)
		interest = value.Mul(periodDays).Mul(dailyGrowth)
	}

	records = append(records, domain.Investment{
		InvestedAmount: principal,
		CurrentValue:   value,
		RecordDate:     currentDate,
		Tag:            domain.TagPlanned,
	})

	return Projection{Records: records, RetireDate: currentDate}
}

// nextMonthStart returns the first day of the month after t. Built from an
// explicit day-1 date rather than AddDate so month-end start dates cannot
// spill an extra month over.
func nextMonthStart(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month()+1, 1, 0, 0, 0, 0, time.UTC)
}

// daysBetween counts whole calendar days from a to b. Both are UTC
// midnights, so the division is exact.
func daysBetween(a, b time.Time) decimal.Decimal {
	return decimal.NewFromInt(int64(b.Sub(a) / (24 * time.Hour)))
}
