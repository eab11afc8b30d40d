package fileio

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fireplan/fireplan-backend/internal/domain"
)

func sampleState() *domain.State {
	state := domain.DefaultState(time.Date(2023, time.June, 15, 0, 0, 0, 0, time.UTC))
	state.PlanParameters.StartingMonthlyContribution = decimal.NewFromInt(10000)
	state.PlanParameters.TargetMonthlyIncomeAtMaturity = decimal.NewFromInt(100000)
	state.PlanParameters.ExpectedAnnualInflationPct = decimal.NewFromInt(6)
	state.PlanParameters.ExpectedAnnualGrowthRatePct = decimal.NewFromInt(12)
	state.PlanParameters.AnnualContributionStepUpPct = decimal.NewFromInt(8)
	state.Investments = []domain.Investment{{
		InvestedAmount: decimal.RequireFromString("1000.50"),
		CurrentValue:   decimal.RequireFromString("1100.25"),
		RecordDate:     time.Date(2023, time.January, 1, 0, 0, 0, 0, time.UTC),
		Tag:            "Stocks",
	}}
	state.InflationObservations = []domain.InflationObservation{{
		Inflation:  decimal.RequireFromString("6.2"),
		RecordDate: time.Date(2023, time.February, 1, 0, 0, 0, 0, time.UTC),
	}}
	return state
}

func TestSnapshot_RoundTrip(t *testing.T) {
	state := sampleState()

	data, err := EncodeSnapshot(state)
	require.NoError(t, err)

	payload, err := DecodeSnapshot(data)
	require.NoError(t, err)

	require.NotNil(t, payload.PlanParameters)
	assert.Equal(t, state.PlanParameters.StartDate, payload.PlanParameters.StartDate)
	assert.True(t, payload.PlanParameters.StartingMonthlyContribution.Equal(decimal.NewFromInt(10000)))
	assert.Equal(t, state.PlanParameters.RetireDate, payload.PlanParameters.RetireDate)

	require.Len(t, payload.Investments, 1)
	assert.True(t, payload.Investments[0].InvestedAmount.Equal(decimal.RequireFromString("1000.50")))
	assert.Equal(t, time.Date(2023, time.January, 1, 0, 0, 0, 0, time.UTC), payload.Investments[0].RecordDate)
	assert.Equal(t, "Stocks", payload.Investments[0].Tag)

	require.Len(t, payload.InflationObservations, 1)
	assert.True(t, payload.InflationObservations[0].Inflation.Equal(decimal.RequireFromString("6.2")))
}

func TestDecodeSnapshot_RehydratesRFC3339Dates(t *testing.T) {
	doc := `{"investments":[{"investedAmount":"100","currentValue":"110","recordDate":"2023-03-05T17:30:00Z","tag":"Bonds"}]}`

	payload, err := DecodeSnapshot([]byte(doc))

	require.NoError(t, err)
	require.Len(t, payload.Investments, 1)
	assert.Equal(t, time.Date(2023, time.March, 5, 0, 0, 0, 0, time.UTC), payload.Investments[0].RecordDate)
}

func TestDecodeSnapshot_MissingSectionsStayNil(t *testing.T) {
	payload, err := DecodeSnapshot([]byte(`{"investments":[]}`))

	require.NoError(t, err)
	assert.Nil(t, payload.PlanParameters)
	assert.Nil(t, payload.InflationObservations)
	assert.Nil(t, payload.InvestmentPlan)
	assert.NotNil(t, payload.Investments)
}

func TestDecodeSnapshot_Malformed(t *testing.T) {
	cases := map[string]string{
		"invalid json":     `{"investments":`,
		"unparseable date": `{"investments":[{"investedAmount":"1","currentValue":"1","recordDate":"yesterday","tag":"X"}]}`,
	}
	for name, doc := range cases {
		t.Run(name, func(t *testing.T) {
			_, err := DecodeSnapshot([]byte(doc))
			assert.Error(t, err)
		})
	}
}
