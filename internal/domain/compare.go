package domain

import "strings"

// CompareInvestments is the canonical ordering over investment records, used
// for every sort and for locating matching dates between plan and actuals:
//
//  1. Earlier RecordDate sorts first.
//  2. On equal dates a "Planned" record sorts after any non-Planned record,
//     so a day's synthetic plan row never precedes that day's real data.
//  3. On equal dates with no "Planned" side, tags compare lexicographically.
//
// The reconciliation walk depends on rule 2: an "Actual" aggregate must be
// encountered before the "Planned" record of the same date.
func CompareInvestments(a, b Investment) int {
	if a.RecordDate.Before(b.RecordDate) {
		return -1
	}
	if a.RecordDate.After(b.RecordDate) {
		return 1
	}

	aPlanned := a.Tag == TagPlanned
	bPlanned := b.Tag == TagPlanned
	switch {
	case aPlanned && bPlanned:
		return 0
	case aPlanned:
		return 1
	case bPlanned:
		return -1
	}

	return strings.Compare(a.Tag, b.Tag)
}

// CompareObservations orders inflation observations by date only.
func CompareObservations(a, b InflationObservation) int {
	if a.RecordDate.Before(b.RecordDate) {
		return -1
	}
	if a.RecordDate.After(b.RecordDate) {
		return 1
	}
	return 0
}
