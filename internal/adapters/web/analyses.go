package web

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"statement-analyzer/internal/app"
	"statement-analyzer/internal/core"
)

// analyze handles POST /api/analyses. The company always comes from the
// authenticated session; the body carries only period and statement data.
func (h *Handler) analyze(w http.ResponseWriter, r *http.Request) {
	claims := authFromContext(r.Context())

	var req app.AnalyzeRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	if err := core.ValidatePeriod(req.Period); err != nil {
		writeError(w, r, err.Error(), "BAD_PERIOD", http.StatusBadRequest)
		return
	}
	req.CompanyCode = claims.CompanyCode

	result, err := h.svc.Analyze(r.Context(), req)
	if err != nil {
		writeDomainError(w, r, err)
		return
	}
	writeJSON(w, result)
}

// getAnalysis handles GET /api/analyses/{period}.
func (h *Handler) getAnalysis(w http.ResponseWriter, r *http.Request) {
	claims := authFromContext(r.Context())
	period := chi.URLParam(r, "period")

	if err := core.ValidatePeriod(period); err != nil {
		writeError(w, r, err.Error(), "BAD_PERIOD", http.StatusBadRequest)
		return
	}
	result, err := h.svc.GetAnalysis(r.Context(), claims.CompanyCode, period)
	if err != nil {
		writeDomainError(w, r, err)
		return
	}
	writeJSON(w, result)
}

// listAnalyses handles GET /api/analyses.
func (h *Handler) listAnalyses(w http.ResponseWriter, r *http.Request) {
	claims := authFromContext(r.Context())

	result, err := h.svc.ListAnalyses(r.Context(), claims.CompanyCode)
	if err != nil {
		writeDomainError(w, r, err)
		return
	}
	writeJSON(w, result)
}

// finalizeAnalysis handles POST /api/analyses/{period}/finalize.
func (h *Handler) finalizeAnalysis(w http.ResponseWriter, r *http.Request) {
	claims := authFromContext(r.Context())
	period := chi.URLParam(r, "period")

	if err := core.ValidatePeriod(period); err != nil {
		writeError(w, r, err.Error(), "BAD_PERIOD", http.StatusBadRequest)
		return
	}
	result, err := h.svc.FinalizeAnalysis(r.Context(), claims.CompanyCode, period)
	if err != nil {
		writeDomainError(w, r, err)
		return
	}
	writeJSON(w, result)
}

// summarizeAnalysis handles POST /api/analyses/{period}/summary.
func (h *Handler) summarizeAnalysis(w http.ResponseWriter, r *http.Request) {
	claims := authFromContext(r.Context())
	period := chi.URLParam(r, "period")

	if err := core.ValidatePeriod(period); err != nil {
		writeError(w, r, err.Error(), "BAD_PERIOD", http.StatusBadRequest)
		return
	}
	result, err := h.svc.SummarizeAnalysis(r.Context(), claims.CompanyCode, period)
	if err != nil {
		writeDomainError(w, r, err)
		return
	}
	writeJSON(w, result)
}
