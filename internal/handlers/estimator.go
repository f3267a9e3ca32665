package handlers

import (
	"encoding/json"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/buildquick/storefront/internal/platform/httpx"
	"github.com/buildquick/storefront/internal/services"
)

const maxEstimateBodySize = 8 * 1024

// EstimateHandlers exposes the material-quantity estimator endpoint.
type EstimateHandlers struct {
	estimator services.EstimatorService
}

// NewEstimateHandlers constructs handlers over the estimator service.
func NewEstimateHandlers(estimator services.EstimatorService) *EstimateHandlers {
	return &EstimateHandlers{estimator: estimator}
}

// Routes wires the /estimates endpoints onto the provided router.
func (h *EstimateHandlers) Routes(r chi.Router) {
	if r == nil {
		return
	}
	r.Post("/", h.createEstimate)
}

// createEstimate always answers 200 with displayable text; degraded upstream
// behaviour surfaces as fallback copy inside the answer, never as an error
// status.
func (h *EstimateHandlers) createEstimate(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	if h.estimator == nil {
		httpx.WriteError(ctx, w, httpx.NewError("estimator_unavailable", "estimator is unavailable", http.StatusServiceUnavailable))
		return
	}

	body, err := readLimitedBody(r, maxEstimateBodySize)
	if err != nil {
		writeBodyError(ctx, w, err)
		return
	}

	var req struct {
		Query string `json:"query"`
	}
	if err := json.Unmarshal(body, &req); err != nil {
		httpx.WriteError(ctx, w, httpx.NewError("invalid_request", "request body must be valid JSON", http.StatusBadRequest))
		return
	}
	if strings.TrimSpace(req.Query) == "" {
		httpx.WriteError(ctx, w, httpx.NewError("invalid_request", "query is required", http.StatusBadRequest))
		return
	}

	answer := h.estimator.Estimate(ctx, req.Query)
	writeJSONResponse(w, http.StatusOK, estimateResponse{Query: req.Query, Answer: answer})
}

type estimateResponse struct {
	Query  string `json:"query"`
	Answer string `json:"answer"`
}
