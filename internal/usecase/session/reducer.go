// Package session holds the application state container: a reducer that maps
// the current state plus one of a closed set of actions to a fresh state.
package session

import (
	"sort"
	"time"

	"go.uber.org/zap"

	"github.com/fireplan/fireplan-backend/internal/domain"
	"github.com/fireplan/fireplan-backend/internal/usecase/planner"
)

// ActionType identifies one of the closed set of state transitions.
type ActionType string

const (
	ActionReset             ActionType = "Reset"
	ActionLoadSnapshot      ActionType = "LoadSnapshot"
	ActionRecordInvestments ActionType = "RecordInvestments"
	ActionRecordInflation   ActionType = "RecordInflation"
	ActionRecomputePlan     ActionType = "RecomputePlan"
)

// SnapshotPayload is a partially populated state, as decoded from an imported
// snapshot. Nil fields fall back to the session defaults when loaded; loading
// is always relative to the clean baseline, never to the current state.
type SnapshotPayload struct {
	PlanParameters        *domain.PlanParameters
	Investments           []domain.Investment
	InflationObservations []domain.InflationObservation
	InvestmentPlan        []domain.Investment
}

// Action is the tagged union consumed by Reduce. Only the field matching the
// Type is read.
type Action struct {
	Type         ActionType
	Snapshot     *SnapshotPayload
	Investments  []domain.Investment
	Observations []domain.InflationObservation
	Params       *domain.PlanParameters
}

// Reducer applies actions to immutable state snapshots. The logger is a
// diagnostics hook only; it carries no semantic weight and zap.NewNop() is a
// valid choice.
type Reducer struct {
	logger *zap.Logger
	now    func() time.Time
}

// NewReducer creates a Reducer. A nil logger is replaced with a no-op one and
// a nil clock with time.Now.
func NewReducer(logger *zap.Logger, now func() time.Time) *Reducer {
	if logger == nil {
		logger = zap.NewNop()
	}
	if now == nil {
		now = time.Now
	}
	return &Reducer{logger: logger, now: now}
}

// Initial returns the default state a session starts from.
func (r *Reducer) Initial() *domain.State {
	return domain.DefaultState(r.now())
}

// Reduce applies one action and returns the resulting state. The input state
// is never modified. Unknown action types return the input state itself, by
// reference, so callers can short-circuit on no-ops.
func (r *Reducer) Reduce(state *domain.State, action Action) *domain.State {
	switch action.Type {
	case ActionReset:
		r.logger.Debug("resetting session state")
		return domain.DefaultState(r.now())

	case ActionLoadSnapshot:
		return r.loadSnapshot(action.Snapshot)

	case ActionRecordInvestments:
		next := state.Clone()
		next.Investments = normalizeInvestments(action.Investments)
		r.logger.Debug("recorded investments", zap.Int("count", len(next.Investments)))
		return next

	case ActionRecordInflation:
		next := state.Clone()
		next.InflationObservations = normalizeObservations(action.Observations)
		r.logger.Debug("recorded inflation observations", zap.Int("count", len(next.InflationObservations)))
		return next

	case ActionRecomputePlan:
		next := state.Clone()
		if action.Params != nil {
			next.PlanParameters = *action.Params
			next.PlanParameters.StartDate = domain.DateOnly(action.Params.StartDate)
		}
		proj := planner.Generate(next.PlanParameters)
		next.InvestmentPlan = proj.Records
		next.PlanParameters.RetireDate = proj.RetireDate
		r.logger.Debug("recomputed plan",
			zap.Int("records", len(proj.Records)),
			zap.Time("retireDate", proj.RetireDate))
		return next

	default:
		r.logger.Debug("ignoring unknown action", zap.String("type", string(action.Type)))
		return state
	}
}

// loadSnapshot merges a payload over the default state. Fields the payload
// does not carry keep their defaults.
func (r *Reducer) loadSnapshot(payload *SnapshotPayload) *domain.State {
	next := domain.DefaultState(r.now())
	if payload == nil {
		return next
	}
	if payload.PlanParameters != nil {
		next.PlanParameters = *payload.PlanParameters
		next.PlanParameters.StartDate = domain.DateOnly(payload.PlanParameters.StartDate)
		next.PlanParameters.RetireDate = domain.DateOnly(payload.PlanParameters.RetireDate)
	}
	if payload.Investments != nil {
		next.Investments = normalizeInvestments(payload.Investments)
	}
	if payload.InflationObservations != nil {
		next.InflationObservations = normalizeObservations(payload.InflationObservations)
	}
	if payload.InvestmentPlan != nil {
		next.InvestmentPlan = normalizeInvestments(payload.InvestmentPlan)
	}
	return next
}

func normalizeInvestments(records []domain.Investment) []domain.Investment {
	out := make([]domain.Investment, len(records))
	for i, rec := range records {
		rec.RecordDate = domain.DateOnly(rec.RecordDate)
		out[i] = rec
	}
	sort.SliceStable(out, func(i, j int) bool {
		return domain.CompareInvestments(out[i], out[j]) < 0
	})
	return out
}

func normalizeObservations(records []domain.InflationObservation) []domain.InflationObservation {
	out := make([]domain.InflationObservation, len(records))
	for i, rec := range records {
		rec.RecordDate = domain.DateOnly(rec.RecordDate)
		out[i] = rec
	}
	sort.SliceStable(out, func(i, j int) bool {
		return domain.CompareObservations(out[i], out[j]) < 0
	})
	return out
}
