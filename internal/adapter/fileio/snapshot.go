// Package fileio implements the file exchange formats: the JSON snapshot of
// a whole planning session and CSV for the tabular subsets. It is the only
// place where dates and amounts exist as strings; everything behind it works
// with time.Time and decimal.Decimal.
package fileio

import (
	"fmt"
	"time"

	json "github.com/goccy/go-json"
	"github.com/shopspring/decimal"

	"github.com/fireplan/fireplan-backend/internal/domain"
	"github.com/fireplan/fireplan-backend/internal/usecase/session"
)

const dateLayout = "2006-01-02"

// SnapshotDoc is the on-disk shape of an exported session. Field names are
// part of the format: an exported snapshot must import unchanged.
type SnapshotDoc struct {
	PlanParameters        *PlanParametersDoc `json:"planParameters,omitempty"`
	Investments           []InvestmentDoc    `json:"investments,omitempty"`
	InflationObservations []ObservationDoc   `json:"inflationObservations,omitempty"`
	InvestmentPlan        []InvestmentDoc    `json:"investmentPlan,omitempty"`
}

// PlanParametersDoc mirrors domain.PlanParameters with dates as strings.
type PlanParametersDoc struct {
	StartDate                     string          `json:"startDate"`
	StartingMonthlyContribution   decimal.Decimal `json:"startingMonthlyContribution"`
	TargetMonthlyIncomeAtMaturity decimal.Decimal `json:"targetMonthlyIncomeAtMaturity"`
	Currency                      string          `json:"currency"`
	ExpectedAnnualInflationPct    decimal.Decimal `json:"expectedAnnualInflationPct"`
	ExpectedAnnualGrowthRatePct   decimal.Decimal `json:"expectedAnnualGrowthRatePct"`
	AnnualContributionStepUpPct   decimal.Decimal `json:"annualContributionStepUpPct"`
	RetireDate                    string          `json:"retireDate,omitempty"`
}

// InvestmentDoc mirrors domain.Investment with the date as a string.
type InvestmentDoc struct {
	InvestedAmount decimal.Decimal `json:"investedAmount"`
	CurrentValue   decimal.Decimal `json:"currentValue"`
	RecordDate     string          `json:"recordDate"`
	Tag            string          `json:"tag"`
}

// ObservationDoc mirrors domain.InflationObservation.
type ObservationDoc struct {
	Inflation  decimal.Decimal `json:"inflation"`
	RecordDate string          `json:"recordDate"`
}

// EncodeSnapshot serializes the full session state to the download document.
func EncodeSnapshot(state *domain.State) ([]byte, error) {
	doc := SnapshotDoc{
		PlanParameters:        DocFromParams(state.PlanParameters),
		Investments:           DocsFromInvestments(state.Investments),
		InflationObservations: DocsFromObservations(state.InflationObservations),
		InvestmentPlan:        DocsFromInvestments(state.InvestmentPlan),
	}
	return json.MarshalIndent(doc, "", "  ")
}

// DecodeSnapshot parses an uploaded document and re-hydrates every
// date-valued field. Sections missing from the document come back nil so the
// LoadSnapshot action falls back to defaults for them.
func DecodeSnapshot(data []byte) (*session.SnapshotPayload, error) {
	var doc SnapshotDoc
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("malformed snapshot: %w", err)
	}

	payload := &session.SnapshotPayload{}

	if doc.PlanParameters != nil {
		params, err := docToParams(*doc.PlanParameters)
		if err != nil {
			return nil, err
		}
		payload.PlanParameters = params
	}
	if doc.Investments != nil {
		records, err := docToInvestments(doc.Investments)
		if err != nil {
			return nil, err
		}
		payload.Investments = records
	}
	if doc.InflationObservations != nil {
		records, err := docToObservations(doc.InflationObservations)
		if err != nil {
			return nil, err
		}
		payload.InflationObservations = records
	}
	if doc.InvestmentPlan != nil {
		records, err := docToInvestments(doc.InvestmentPlan)
		if err != nil {
			return nil, err
		}
		payload.InvestmentPlan = records
	}

	return payload, nil
}

// ParseDate accepts the snapshot date format plus RFC 3339 timestamps, which
// older exports used, and normalizes to a date-only value.
func ParseDate(s string) (time.Time, error) {
	if t, err := time.Parse(dateLayout, s); err == nil {
		return t, nil
	}
	t, err := time.Parse(time.RFC3339, s)
	if err != nil {
		return time.Time{}, fmt.Errorf("unparseable date %q", s)
	}
	return domain.DateOnly(t), nil
}

func formatDate(t time.Time) string {
	return t.Format(dateLayout)
}

// DocFromParams builds the string-dated document form of plan parameters.
// The HTTP adapter shares these conversions for its responses.
func DocFromParams(p domain.PlanParameters) *PlanParametersDoc {
	return &PlanParametersDoc{
		StartDate:                     formatDate(p.StartDate),
		StartingMonthlyContribution:   p.StartingMonthlyContribution,
		TargetMonthlyIncomeAtMaturity: p.TargetMonthlyIncomeAtMaturity,
		Currency:                      p.Currency,
		ExpectedAnnualInflationPct:    p.ExpectedAnnualInflationPct,
		ExpectedAnnualGrowthRatePct:   p.ExpectedAnnualGrowthRatePct,
		AnnualContributionStepUpPct:   p.AnnualContributionStepUpPct,
		RetireDate:                    formatDate(p.RetireDate),
	}
}

func docToParams(doc PlanParametersDoc) (*domain.PlanParameters, error) {
	start, err := ParseDate(doc.StartDate)
	if err != nil {
		return nil, fmt.Errorf("planParameters.startDate: %w", err)
	}
	params := &domain.PlanParameters{
		StartDate:                     start,
		StartingMonthlyContribution:   doc.StartingMonthlyContribution,
		TargetMonthlyIncomeAtMaturity: doc.TargetMonthlyIncomeAtMaturity,
		Currency:                      doc.Currency,
		ExpectedAnnualInflationPct:    doc.ExpectedAnnualInflationPct,
		ExpectedAnnualGrowthRatePct:   doc.ExpectedAnnualGrowthRatePct,
		AnnualContributionStepUpPct:   doc.AnnualContributionStepUpPct,
	}
	if doc.RetireDate != "" {
		retire, err := ParseDate(doc.RetireDate)
		if err != nil {
			return nil, fmt.Errorf("planParameters.retireDate: %w", err)
		}
		params.RetireDate = retire
	}
	return params, nil
}

// DocsFromInvestments converts investment records to their document form.
func DocsFromInvestments(records []domain.Investment) []InvestmentDoc {
	docs := make([]InvestmentDoc, len(records))
	for i, rec := range records {
		docs[i] = InvestmentDoc{
			InvestedAmount: rec.InvestedAmount,
			CurrentValue:   rec.CurrentValue,
			RecordDate:     formatDate(rec.RecordDate),
			Tag:            rec.Tag,
		}
	}
	return docs
}

func docToInvestments(docs []InvestmentDoc) ([]domain.Investment, error) {
	records := make([]domain.Investment, len(docs))
	for i, doc := range docs {
		date, err := ParseDate(doc.RecordDate)
		if err != nil {
			return nil, fmt.Errorf("investments[%d].recordDate: %w", i, err)
		}
		records[i] = domain.Investment{
			InvestedAmount: doc.InvestedAmount,
			CurrentValue:   doc.CurrentValue,
			RecordDate:     date,
			Tag:            doc.Tag,
		}
	}
	return records, nil
}

// DocsFromObservations converts inflation observations to their document form.
func DocsFromObservations(records []domain.InflationObservation) []ObservationDoc {
	docs := make([]ObservationDoc, len(records))
	for i, rec := range records {
		docs[i] = ObservationDoc{
			Inflation:  rec.Inflation,
			RecordDate: formatDate(rec.RecordDate),
		}
	}
	return docs
}

func docToObservations(docs []ObservationDoc) ([]domain.InflationObservation, error) {
	records := make([]domain.InflationObservation, len(docs))
	for i, doc := range docs {
		date, err := ParseDate(doc.RecordDate)
		if err != nil {
			return nil, fmt.Errorf("inflationObservations[%d].recordDate: %w", i, err)
		}
		records[i] = domain.InflationObservation{
			Inflation:  doc.Inflation,
			RecordDate: date,
		}
	}
	return records, nil
}
