package httpapi

import (
	"fmt"

	"github.com/go-playground/validator/v10"
	"github.com/shopspring/decimal"

	"github.com/fireplan/fireplan-backend/internal/adapter/fileio"
	"github.com/fireplan/fireplan-backend/internal/domain"
)

// Amounts travel as strings and are parsed with decimal.NewFromString, never
// as floats; dates travel as YYYY-MM-DD. The struct tags cover shape, the
// parse step covers types and signs.

type investmentRequest struct {
	InvestedAmount string `json:"investedAmount" validate:"required"`
	CurrentValue   string `json:"currentValue" validate:"required"`
	RecordDate     string `json:"recordDate" validate:"required"`
	Tag            string `json:"tag" validate:"required,notreserved"`
}

type investmentsRequest struct {
	Investments []investmentRequest `json:"investments" validate:"required,dive"`
}

type observationRequest struct {
	Inflation  string `json:"inflation" validate:"required"`
	RecordDate string `json:"recordDate" validate:"required"`
}

type observationsRequest struct {
	InflationObservations []observationRequest `json:"inflationObservations" validate:"required,dive"`
}

type planRequest struct {
	StartDate                     string `json:"startDate" validate:"required"`
	StartingMonthlyContribution   string `json:"startingMonthlyContribution" validate:"required"`
	TargetMonthlyIncomeAtMaturity string `json:"targetMonthlyIncomeAtMaturity" validate:"required"`
	Currency                      string `json:"currency" validate:"required"`
	ExpectedAnnualInflationPct    string `json:"expectedAnnualInflationPct" validate:"required"`
	ExpectedAnnualGrowthRatePct   string `json:"expectedAnnualGrowthRatePct" validate:"required"`
	AnnualContributionStepUpPct   string `json:"annualContributionStepUpPct" validate:"required"`
}

type planResponse struct {
	InvestmentPlan []fileio.InvestmentDoc `json:"investmentPlan"`
	RetireDate     string                 `json:"retireDate"`
	HorizonCapped  bool                   `json:"horizonCapped"`
	Warnings       []string               `json:"warnings,omitempty"`
}

type reportResponse struct {
	Records    []fileio.InvestmentDoc `json:"records"`
	Variances  []varianceDoc          `json:"variances"`
	RetireDate string                 `json:"retireDate"`
}

type varianceDoc struct {
	RecordDate string          `json:"recordDate"`
	ToPay      decimal.Decimal `json:"toPay"`
	ToEarn     decimal.Decimal `json:"toEarn"`
}

// newValidator wires the custom rules on top of the standard tag set.
// "notreserved" keeps user tags from colliding with the synthetic
// Planned/Actual tags, case-insensitively.
func newValidator() *validator.Validate {
	v := validator.New()
	_ = v.RegisterValidation("notreserved", func(fl validator.FieldLevel) bool {
		return !domain.IsReservedTag(fl.Field().String())
	})
	return v
}

// validationDetails flattens validator errors into a field -> rule map for
// the error envelope.
func validationDetails(err error) map[string]string {
	details := make(map[string]string)
	if errs, ok := err.(validator.ValidationErrors); ok {
		for _, fe := range errs {
			details[fe.Namespace()] = fe.Tag()
		}
	}
	return details
}

func (r investmentRequest) toDomain(index int) (domain.Investment, error) {
	invested, err := parseAmount(r.InvestedAmount, fmt.Sprintf("investments[%d].investedAmount", index))
	if err != nil {
		return domain.Investment{}, err
	}
	current, err := parseAmount(r.CurrentValue, fmt.Sprintf("investments[%d].currentValue", index))
	if err != nil {
		return domain.Investment{}, err
	}
	date, err := fileio.ParseDate(r.RecordDate)
	if err != nil {
		return domain.Investment{}, fmt.Errorf("investments[%d].recordDate: %w", index, err)
	}
	return domain.Investment{
		InvestedAmount: invested,
		CurrentValue:   current,
		RecordDate:     date,
		Tag:            r.Tag,
	}, nil
}

func (r observationRequest) toDomain(index int) (domain.InflationObservation, error) {
	rate, err := decimal.NewFromString(r.Inflation)
	if err != nil {
		return domain.InflationObservation{}, fmt.Errorf("inflationObservations[%d].inflation: not a number", index)
	}
	date, err := fileio.ParseDate(r.RecordDate)
	if err != nil {
		return domain.InflationObservation{}, fmt.Errorf("inflationObservations[%d].recordDate: %w", index, err)
	}
	return domain.InflationObservation{Inflation: rate, RecordDate: date}, nil
}

// toDomain parses and range-checks the plan parameters. It also returns the
// non-blocking warnings the boundary surfaces (growth below inflation is a
// discouraging projection, not an invalid one).
func (r planRequest) toDomain() (domain.PlanParameters, []string, error) {
	startDate, err := fileio.ParseDate(r.StartDate)
	if err != nil {
		return domain.PlanParameters{}, nil, fmt.Errorf("startDate: %w", err)
	}
	contribution, err := parseAmount(r.StartingMonthlyContribution, "startingMonthlyContribution")
	if err != nil {
		return domain.PlanParameters{}, nil, err
	}
	target, err := parseAmount(r.TargetMonthlyIncomeAtMaturity, "targetMonthlyIncomeAtMaturity")
	if err != nil {
		return domain.PlanParameters{}, nil, err
	}
	inflation, err := parseRate(r.ExpectedAnnualInflationPct, "expectedAnnualInflationPct", false)
	if err != nil {
		return domain.PlanParameters{}, nil, err
	}
	growth, err := parseRate(r.ExpectedAnnualGrowthRatePct, "expectedAnnualGrowthRatePct", true)
	if err != nil {
		return domain.PlanParameters{}, nil, err
	}
	stepUp, err := parseRate(r.AnnualContributionStepUpPct, "annualContributionStepUpPct", false)
	if err != nil {
		return domain.PlanParameters{}, nil, err
	}

	var warnings []string
	if growth.LessThan(inflation) {
		warnings = append(warnings, "expected growth rate is below expected inflation; the projection will likely run to the 50-year horizon")
	}

	return domain.PlanParameters{
		StartDate:                     startDate,
		StartingMonthlyContribution:   contribution,
		TargetMonthlyIncomeAtMaturity: target,
		Currency:                      r.Currency,
		ExpectedAnnualInflationPct:    inflation,
		ExpectedAnnualGrowthRatePct:   growth,
		AnnualContributionStepUpPct:   stepUp,
	}, warnings, nil
}

func parseAmount(s, field string) (decimal.Decimal, error) {
	d, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.Zero, fmt.Errorf("%s: not a number", field)
	}
	if d.IsNegative() {
		return decimal.Zero, fmt.Errorf("%s: must not be negative", field)
	}
	return d, nil
}

func parseRate(s, field string, allowNegative bool) (decimal.Decimal, error) {
	d, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.Zero, fmt.Errorf("%s: not a number", field)
	}
	if !allowNegative && d.IsNegative() {
		return decimal.Zero, fmt.Errorf("%s: must not be negative", field)
	}
	return d, nil
}
