package reconcile

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fireplan/fireplan-backend/internal/domain"
)

func date(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func record(d time.Time, tag string, invested, current int64) domain.Investment {
	return domain.Investment{
		InvestedAmount: decimal.NewFromInt(invested),
		CurrentValue:   decimal.NewFromInt(current),
		RecordDate:     d,
		Tag:            tag,
	}
}

func findByTag(records []domain.Investment, d time.Time, tag string) (domain.Investment, bool) {
	for _, rec := range records {
		if rec.Tag == tag && rec.RecordDate.Equal(d) {
			return rec, true
		}
	}
	return domain.Investment{}, false
}

func TestMerge_EmptyInputs(t *testing.T) {
	assert.Empty(t, Merge(nil, nil))
}

func TestMerge_ActualAggregateBeforePlannedOnSameDate(t *testing.T) {
	d := date(2023, time.January, 1)
	investments := []domain.Investment{record(d, "Stocks", 1000, 1100)}
	plan := []domain.Investment{record(d, domain.TagPlanned, 1200, 1300)}

	merged := Merge(investments, plan)

	actual, ok := findByTag(merged, d, domain.TagActual)
	require.True(t, ok, "expected an Actual aggregate at %s", d)
	assert.True(t, actual.InvestedAmount.Equal(decimal.NewFromInt(1000)))
	assert.True(t, actual.CurrentValue.Equal(decimal.NewFromInt(1100)))

	var actualIdx, plannedIdx int
	for i, rec := range merged {
		switch rec.Tag {
		case domain.TagActual:
			actualIdx = i
		case domain.TagPlanned:
			plannedIdx = i
		}
	}
	assert.Less(t, actualIdx, plannedIdx, "Actual must sort before Planned on the same date")
}

func TestMerge_SumsAcrossTagsWithAbsoluteOverwrite(t *testing.T) {
	investments := []domain.Investment{
		record(date(2023, time.January, 1), "Stocks", 1000, 1100),
		record(date(2023, time.February, 1), "Bonds", 500, 480),
		// Stocks reports new absolute totals, not a delta.
		record(date(2023, time.March, 1), "Stocks", 1500, 1700),
	}

	merged := Merge(investments, nil)

	jan, ok := findByTag(merged, date(2023, time.January, 1), domain.TagActual)
	require.True(t, ok)
	assert.True(t, jan.InvestedAmount.Equal(decimal.NewFromInt(1000)))

	feb, ok := findByTag(merged, date(2023, time.February, 1), domain.TagActual)
	require.True(t, ok)
	assert.True(t, feb.InvestedAmount.Equal(decimal.NewFromInt(1500)))
	assert.True(t, feb.CurrentValue.Equal(decimal.NewFromInt(1580)))

	mar, ok := findByTag(merged, date(2023, time.March, 1), domain.TagActual)
	require.True(t, ok)
	assert.True(t, mar.InvestedAmount.Equal(decimal.NewFromInt(2000)))
	assert.True(t, mar.CurrentValue.Equal(decimal.NewFromInt(2180)))
}

func TestMerge_SingleActualRowWhenTwoTagsShareADate(t *testing.T) {
	d := date(2023, time.May, 1)
	investments := []domain.Investment{
		record(d, "Bonds", 500, 520),
		record(d, "Stocks", 1000, 1100),
	}

	merged := Merge(investments, nil)

	count := 0
	var aggregate domain.Investment
	for _, rec := range merged {
		if rec.Tag == domain.TagActual {
			count++
			aggregate = rec
		}
	}
	require.Equal(t, 1, count, "two tags on one date must collapse into one Actual row")
	assert.True(t, aggregate.InvestedAmount.Equal(decimal.NewFromInt(1500)))
	assert.True(t, aggregate.CurrentValue.Equal(decimal.NewFromInt(1620)))
}

func TestMerge_EmptyPlanKeepsInvestmentsSorted(t *testing.T) {
	investments := []domain.Investment{
		record(date(2023, time.February, 1), "Stocks", 1500, 1500),
		record(date(2023, time.January, 1), "Stocks", 1000, 1000),
	}

	merged := Merge(investments, nil)

	// The raw records come through in canonical order; the only additions
	// are their per-date aggregates.
	var raw []domain.Investment
	for _, rec := range merged {
		if rec.Tag != domain.TagActual {
			raw = append(raw, rec)
		}
	}
	require.Len(t, raw, 2)
	assert.Equal(t, date(2023, time.January, 1), raw[0].RecordDate)
	assert.Equal(t, date(2023, time.February, 1), raw[1].RecordDate)
}

func TestMerge_PlanOnlyPassesThrough(t *testing.T) {
	plan := []domain.Investment{
		record(date(2023, time.January, 1), domain.TagPlanned, 1000, 1000),
		record(date(2023, time.February, 1), domain.TagPlanned, 2000, 2010),
	}

	merged := Merge(nil, plan)

	require.Len(t, merged, 2)
	for _, rec := range merged {
		assert.Equal(t, domain.TagPlanned, rec.Tag)
	}
}

func TestVariances_PairsPlannedWithSameDateActual(t *testing.T) {
	d := date(2023, time.January, 1)
	investments := []domain.Investment{record(d, "Stocks", 1000, 1100)}
	plan := []domain.Investment{
		record(d, domain.TagPlanned, 1200, 1300),
		record(date(2023, time.February, 1), domain.TagPlanned, 2400, 2600),
	}

	variances := Variances(Merge(investments, plan))

	// The February plan entry has no actual data yet: no variance, not an
	// error.
	require.Len(t, variances, 1)
	assert.Equal(t, d, variances[0].RecordDate)
	assert.True(t, variances[0].ToPay.Equal(decimal.NewFromInt(200)))
	assert.True(t, variances[0].ToEarn.Equal(decimal.NewFromInt(200)))
}

func TestVariances_EmptyMerge(t *testing.T) {
	assert.Empty(t, Variances(nil))
}
