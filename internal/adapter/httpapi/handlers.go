package httpapi

import (
	"io"
	"net/http"

	json "github.com/goccy/go-json"
	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/fireplan/fireplan-backend/internal/adapter/fileio"
	"github.com/fireplan/fireplan-backend/internal/domain"
	"github.com/fireplan/fireplan-backend/internal/usecase/planner"
	"github.com/fireplan/fireplan-backend/internal/usecase/reconcile"
	"github.com/fireplan/fireplan-backend/internal/usecase/session"
)

// maxBodyBytes bounds uploads; snapshots of a full 50-year plan are well
// under 1 MiB.
const maxBodyBytes = 4 << 20

// StateStore is the handler's view of the session store.
type StateStore interface {
	Current() *domain.State
	Dispatch(action session.Action) *domain.State
}

// Handler serves the planning API. Everything it does is translate between
// wire documents and the core's domain values; the algorithmic work lives in
// the usecase packages.
type Handler struct {
	store    StateStore
	logger   *zap.Logger
	validate *validator.Validate
}

// NewHandler creates the API handler.
func NewHandler(store StateStore, logger *zap.Logger) *Handler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Handler{
		store:    store,
		logger:   logger,
		validate: newValidator(),
	}
}

// GetState returns the full session state in the snapshot document shape.
func (h *Handler) GetState(w http.ResponseWriter, r *http.Request) {
	data, err := fileio.EncodeSnapshot(h.store.Current())
	if err != nil {
		h.internalError(w, r, "encode state", err)
		return
	}
	respondJSON(w, http.StatusOK, json.RawMessage(data))
}

// ResetState drops the session back to the default baseline.
func (h *Handler) ResetState(w http.ResponseWriter, r *http.Request) {
	h.store.Dispatch(session.Action{Type: session.ActionReset})
	respondJSON(w, http.StatusOK, map[string]string{"status": "reset"})
}

// PutInvestments replaces the recorded investment history.
func (h *Handler) PutInvestments(w http.ResponseWriter, r *http.Request) {
	var req investmentsRequest
	if !h.decodeAndValidate(w, r, &req) {
		return
	}

	records := make([]domain.Investment, len(req.Investments))
	for i, in := range req.Investments {
		rec, err := in.toDomain(i)
		if err != nil {
			respondError(w, http.StatusBadRequest, "INVALID_FIELD", err.Error())
			return
		}
		records[i] = rec
	}

	state := h.store.Dispatch(session.Action{
		Type:        session.ActionRecordInvestments,
		Investments: records,
	})
	respondJSON(w, http.StatusOK, map[string]int{"count": len(state.Investments)})
}

// PutInflation replaces the recorded inflation history.
func (h *Handler) PutInflation(w http.ResponseWriter, r *http.Request) {
	var req observationsRequest
	if !h.decodeAndValidate(w, r, &req) {
		return
	}

	records := make([]domain.InflationObservation, len(req.InflationObservations))
	for i, in := range req.InflationObservations {
		rec, err := in.toDomain(i)
		if err != nil {
			respondError(w, http.StatusBadRequest, "INVALID_FIELD", err.Error())
			return
		}
		records[i] = rec
	}

	state := h.store.Dispatch(session.Action{
		Type:         session.ActionRecordInflation,
		Observations: records,
	})
	respondJSON(w, http.StatusOK, map[string]int{"count": len(state.InflationObservations)})
}

// RecomputePlan applies new plan parameters and regenerates the projection.
func (h *Handler) RecomputePlan(w http.ResponseWriter, r *http.Request) {
	var req planRequest
	if !h.decodeAndValidate(w, r, &req) {
		return
	}

	params, warnings, err := req.toDomain()
	if err != nil {
		respondError(w, http.StatusBadRequest, "INVALID_FIELD", err.Error())
		return
	}

	state := h.store.Dispatch(session.Action{
		Type:   session.ActionRecomputePlan,
		Params: &params,
	})

	proj := planner.Projection{
		Records:    state.InvestmentPlan,
		RetireDate: state.PlanParameters.RetireDate,
	}
	respondJSON(w, http.StatusOK, planResponse{
		InvestmentPlan: fileio.DocsFromInvestments(state.InvestmentPlan),
		RetireDate:     state.PlanParameters.RetireDate.Format("2006-01-02"),
		HorizonCapped:  proj.HorizonCapped(state.PlanParameters.StartDate),
		Warnings:       warnings,
	})
}

// GetReport returns the merged actual-vs-planned view with variances.
func (h *Handler) GetReport(w http.ResponseWriter, r *http.Request) {
	state := h.store.Current()
	merged := reconcile.Merge(state.Investments, state.InvestmentPlan)
	variances := reconcile.Variances(merged)

	docs := make([]varianceDoc, len(variances))
	for i, v := range variances {
		docs[i] = varianceDoc{
			RecordDate: v.RecordDate.Format("2006-01-02"),
			ToPay:      v.ToPay,
			ToEarn:     v.ToEarn,
		}
	}

	respondJSON(w, http.StatusOK, reportResponse{
		Records:    fileio.DocsFromInvestments(merged),
		Variances:  docs,
		RetireDate: state.PlanParameters.RetireDate.Format("2006-01-02"),
	})
}

// ExportSnapshot streams the session as a downloadable JSON document.
func (h *Handler) ExportSnapshot(w http.ResponseWriter, r *http.Request) {
	data, err := fileio.EncodeSnapshot(h.store.Current())
	if err != nil {
		h.internalError(w, r, "encode snapshot", err)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.Header().Set("Content-Disposition", `attachment; filename="fireplan-snapshot.json"`)
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(data)
}

// ImportSnapshot loads an uploaded snapshot over the default baseline.
func (h *Handler) ImportSnapshot(w http.ResponseWriter, r *http.Request) {
	body, err := io.ReadAll(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	if err != nil {
		respondError(w, http.StatusBadRequest, "INVALID_BODY", "could not read upload")
		return
	}
	payload, err := fileio.DecodeSnapshot(body)
	if err != nil {
		respondError(w, http.StatusBadRequest, "MALFORMED_SNAPSHOT", err.Error())
		return
	}

	h.store.Dispatch(session.Action{
		Type:     session.ActionLoadSnapshot,
		Snapshot: payload,
	})
	respondJSON(w, http.StatusOK, map[string]string{"status": "loaded"})
}

// ExportInvestmentsCSV downloads the investment history as CSV.
func (h *Handler) ExportInvestmentsCSV(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/csv")
	w.Header().Set("Content-Disposition", `attachment; filename="investments.csv"`)
	if err := fileio.WriteInvestmentsCSV(w, h.store.Current().Investments); err != nil {
		h.logger.Error("write investments csv", zap.Error(err))
	}
}

// ImportInvestmentsCSV replaces the investment history from an uploaded CSV.
func (h *Handler) ImportInvestmentsCSV(w http.ResponseWriter, r *http.Request) {
	records, err := fileio.ReadInvestmentsCSV(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	if err != nil {
		respondError(w, http.StatusBadRequest, "MALFORMED_CSV", err.Error())
		return
	}
	for _, rec := range records {
		if domain.IsReservedTag(rec.Tag) {
			respondError(w, http.StatusBadRequest, "RESERVED_TAG",
				"tag "+rec.Tag+" is reserved for generated records")
			return
		}
	}

	state := h.store.Dispatch(session.Action{
		Type:        session.ActionRecordInvestments,
		Investments: records,
	})
	respondJSON(w, http.StatusOK, map[string]int{"count": len(state.Investments)})
}

// ExportInflationCSV downloads the inflation history as CSV.
func (h *Handler) ExportInflationCSV(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/csv")
	w.Header().Set("Content-Disposition", `attachment; filename="inflation.csv"`)
	if err := fileio.WriteObservationsCSV(w, h.store.Current().InflationObservations); err != nil {
		h.logger.Error("write inflation csv", zap.Error(err))
	}
}

// ImportInflationCSV replaces the inflation history from an uploaded CSV.
func (h *Handler) ImportInflationCSV(w http.ResponseWriter, r *http.Request) {
	records, err := fileio.ReadObservationsCSV(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	if err != nil {
		respondError(w, http.StatusBadRequest, "MALFORMED_CSV", err.Error())
		return
	}

	state := h.store.Dispatch(session.Action{
		Type:         session.ActionRecordInflation,
		Observations: records,
	})
	respondJSON(w, http.StatusOK, map[string]int{"count": len(state.InflationObservations)})
}

// decodeAndValidate reads a JSON body into dst and runs the struct rules,
// responding on failure. Returns false when the request was already answered.
func (h *Handler) decodeAndValidate(w http.ResponseWriter, r *http.Request, dst interface{}) bool {
	if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes)).Decode(dst); err != nil {
		respondError(w, http.StatusBadRequest, "INVALID_BODY", "request body must be JSON")
		return false
	}
	if err := h.validate.Struct(dst); err != nil {
		respondErrorWithDetails(w, http.StatusBadRequest, "VALIDATION_FAILED",
			"request failed validation", validationDetails(err))
		return false
	}
	return true
}

func (h *Handler) internalError(w http.ResponseWriter, r *http.Request, op string, err error) {
	h.logger.Error(op,
		zap.Error(err),
		zap.String("request_id", RequestIDFrom(r.Context())),
	)
	respondError(w, http.StatusInternalServerError, "INTERNAL", "internal error")
}
