// Package reconcile merges recorded investments with a generated plan into
// the single sorted sequence the presentation layer renders, synthesizing an
// "Actual" aggregate per date and computing plan-vs-actual variances.
package reconcile

import (
	"sort"
	"time"

	"github.com/shopspring/decimal"

	"github.com/fireplan/fireplan-backend/internal/domain"
)

// Variance is the gap between a planned record and the actual aggregate on
// the same date: how much principal is still to pay in and how much value is
// still to earn. Planned dates with no actual data yet produce no variance.
type Variance struct {
	RecordDate time.Time
	ToPay      decimal.Decimal
	ToEarn     decimal.Decimal
}

type tagTotals struct {
	invested decimal.Decimal
	current  decimal.Decimal
}

// Merge combines actual records with the generated plan and synthesizes one
// "Actual" row per date that has actual activity.
//
// Each actual record carries the absolute latest totals for its tag as of its
// date, not a delta, so the walk overwrites the tag's accumulator and re-sums
// across tags. A later record on the same date replaces the date's aggregate
// rather than appending a duplicate, so multiple tags updated on one day
// still yield a single "Actual" row.
//
// Empty inputs are fine: no investments means no "Actual" rows, no plan means
// the output is just the actuals plus their aggregates.
func Merge(investments, plan []domain.Investment) []domain.Investment {
	merged := make([]domain.Investment, 0, len(investments)+len(plan)+len(investments))
	merged = append(merged, investments...)
	merged = append(merged, plan...)
	sortInvestments(merged)

	acc := make(map[string]tagTotals)
	actuals := make(map[time.Time]domain.Investment)

	for _, rec := range merged {
		if rec.Tag == domain.TagPlanned {
			continue
		}

		acc[rec.Tag] = tagTotals{invested: rec.InvestedAmount, current: rec.CurrentValue}

		sumInvested := decimal.Zero
		sumCurrent := decimal.Zero
		for _, totals := range acc {
			sumInvested = sumInvested.Add(totals.invested)
			sumCurrent = sumCurrent.Add(totals.current)
		}

		actuals[rec.RecordDate] = domain.Investment{
			InvestedAmount: sumInvested,
			CurrentValue:   sumCurrent,
			RecordDate:     rec.RecordDate,
			Tag:            domain.TagActual,
		}
	}

	for _, rec := range actuals {
		merged = append(merged, rec)
	}
	sortInvestments(merged)

	return merged
}

// Variances pairs every "Planned" record in a merged sequence with the
// "Actual" aggregate of the same date. Results follow plan order; planned
// entries beyond the last actual date are simply absent.
func Variances(merged []domain.Investment) []Variance {
	actualByDate := make(map[time.Time]domain.Investment)
	for _, rec := range merged {
		if rec.Tag == domain.TagActual {
			actualByDate[rec.RecordDate] = rec
		}
	}

	var out []Variance
	for _, rec := range merged {
		if rec.Tag != domain.TagPlanned {
			continue
		}
		actual, ok := actualByDate[rec.RecordDate]
		if !ok {
			continue
		}
		out = append(out, Variance{
			RecordDate: rec.RecordDate,
			ToPay:      rec.InvestedAmount.Sub(actual.InvestedAmount),
			ToEarn:     rec.CurrentValue.Sub(actual.CurrentValue),
		})
	}
	return out
}

func sortInvestments(records []domain.Investment) {
	sort.SliceStable(records, func(i, j int) bool {
		return domain.CompareInvestments(records[i], records[j]) < 0
	})
}
