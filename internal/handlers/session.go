package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"

	domain "github.com/buildquick/storefront/internal/domain"
	"github.com/buildquick/storefront/internal/platform/httpx"
	"github.com/buildquick/storefront/internal/services"
)

// sessionIDHeader identifies the caller's session on /sessions/current routes.
const sessionIDHeader = "X-Session-ID"

const maxSessionBodySize = 4 * 1024

// SessionHandlers exposes the session lifecycle, basket, search, and tab endpoints.
type SessionHandlers struct {
	sessions services.SessionService
}

// NewSessionHandlers constructs handlers over the session service.
func NewSessionHandlers(sessions services.SessionService) *SessionHandlers {
	return &SessionHandlers{sessions: sessions}
}

// Routes wires the /sessions endpoints onto the provided router.
func (h *SessionHandlers) Routes(r chi.Router) {
	if r == nil {
		return
	}
	r.Post("/", h.startSession)
	r.Route("/current", func(current chi.Router) {
		current.Get("/", h.getSession)
		current.Get("/basket", h.getBasket)
		current.Post("/basket/items", h.addBasketItem)
		current.Delete("/basket/items/{productID}", h.removeBasketItem)
		current.Put("/search", h.setSearchQuery)
		current.Put("/tab", h.setActiveTab)
	})
}

func (h *SessionHandlers) startSession(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	if h.sessions == nil {
		httpx.WriteError(ctx, w, httpx.NewError("session_service_unavailable", "session service is unavailable", http.StatusServiceUnavailable))
		return
	}

	session, err := h.sessions.StartSession(ctx)
	if err != nil {
		writeSessionError(ctx, w, err)
		return
	}

	writeJSONResponse(w, http.StatusCreated, sessionResponse{Session: buildSessionPayload(session)})
}

func (h *SessionHandlers) getSession(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	sessionID, ok := h.requireSession(w, r)
	if !ok {
		return
	}

	session, err := h.sessions.GetSession(ctx, sessionID)
	if err != nil {
		writeSessionError(ctx, w, err)
		return
	}

	writeJSONResponse(w, http.StatusOK, sessionResponse{Session: buildSessionPayload(session)})
}

func (h *SessionHandlers) getBasket(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	sessionID, ok := h.requireSession(w, r)
	if !ok {
		return
	}

	session, err := h.sessions.GetSession(ctx, sessionID)
	if err != nil {
		writeSessionError(ctx, w, err)
		return
	}

	writeJSONResponse(w, http.StatusOK, buildBasketPayload(session.Basket))
}

func (h *SessionHandlers) addBasketItem(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	sessionID, ok := h.requireSession(w, r)
	if !ok {
		return
	}

	body, err := readLimitedBody(r, maxSessionBodySize)
	if err != nil {
		writeBodyError(ctx, w, err)
		return
	}

	var req struct {
		ProductID string `json:"product_id"`
	}
	if err := json.Unmarshal(body, &req); err != nil {
		httpx.WriteError(ctx, w, httpx.NewError("invalid_request", "request body must be valid JSON", http.StatusBadRequest))
		return
	}

	session, err := h.sessions.AddToCart(ctx, sessionID, req.ProductID)
	if err != nil {
		writeSessionError(ctx, w, err)
		return
	}

	writeJSONResponse(w, http.StatusOK, sessionResponse{Session: buildSessionPayload(session)})
}

func (h *SessionHandlers) removeBasketItem(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	sessionID, ok := h.requireSession(w, r)
	if !ok {
		return
	}

	productID := chi.URLParam(r, "productID")
	session, err := h.sessions.RemoveFromCart(ctx, sessionID, productID)
	if err != nil {
		writeSessionError(ctx, w, err)
		return
	}

	writeJSONResponse(w, http.StatusOK, sessionResponse{Session: buildSessionPayload(session)})
}

func (h *SessionHandlers) setSearchQuery(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	sessionID, ok := h.requireSession(w, r)
	if !ok {
		return
	}

	body, err := readLimitedBody(r, maxSessionBodySize)
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

	session, err := h.sessions.SetSearchQuery(ctx, sessionID, req.Query)
	if err != nil {
		writeSessionError(ctx, w, err)
		return
	}

	writeJSONResponse(w, http.StatusOK, sessionResponse{Session: buildSessionPayload(session)})
}

func (h *SessionHandlers) setActiveTab(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	sessionID, ok := h.requireSession(w, r)
	if !ok {
		return
	}

	body, err := readLimitedBody(r, maxSessionBodySize)
	if err != nil {
		writeBodyError(ctx, w, err)
		return
	}

	var req struct {
		Tab string `json:"tab"`
	}
	if err := json.Unmarshal(body, &req); err != nil {
		httpx.WriteError(ctx, w, httpx.NewError("invalid_request", "request body must be valid JSON", http.StatusBadRequest))
		return
	}

	tab, err := domain.ParseTab(req.Tab)
	if err != nil {
		httpx.WriteError(ctx, w, httpx.NewError("invalid_request", err.Error(), http.StatusBadRequest))
		return
	}

	session, err := h.sessions.SetActiveTab(ctx, sessionID, tab)
	if err != nil {
		writeSessionError(ctx, w, err)
		return
	}

	writeJSONResponse(w, http.StatusOK, sessionResponse{Session: buildSessionPayload(session)})
}

func (h *SessionHandlers) requireSession(w http.ResponseWriter, r *http.Request) (string, bool) {
	ctx := r.Context()
	if h.sessions == nil {
		httpx.WriteError(ctx, w, httpx.NewError("session_service_unavailable", "session service is unavailable", http.StatusServiceUnavailable))
		return "", false
	}

	sessionID := strings.TrimSpace(r.Header.Get(sessionIDHeader))
	if sessionID == "" {
		httpx.WriteError(ctx, w, httpx.NewError("session_required", "X-Session-ID header is required", http.StatusBadRequest))
		return "", false
	}
	return sessionID, true
}

func writeBodyError(ctx context.Context, w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, errBodyTooLarge):
		httpx.WriteError(ctx, w, httpx.NewError("payload_too_large", "request body exceeds allowed size", http.StatusRequestEntityTooLarge))
	default:
		httpx.WriteError(ctx, w, httpx.NewError("invalid_request", err.Error(), http.StatusBadRequest))
	}
}

func writeSessionError(ctx context.Context, w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, services.ErrSessionInvalidInput):
		httpx.WriteError(ctx, w, httpx.NewError("invalid_request", err.Error(), http.StatusBadRequest))
	case errors.Is(err, services.ErrSessionNotFound):
		httpx.WriteError(ctx, w, httpx.NewError("session_not_found", "session not found", http.StatusNotFound))
	default:
		httpx.WriteError(ctx, w, httpx.NewError("session_service_unavailable", "session service is unavailable", http.StatusServiceUnavailable))
	}
}

type sessionResponse struct {
	Session sessionPayload `json:"session"`
}

type sessionPayload struct {
	ID          string        `json:"id"`
	ActiveTab   string        `json:"active_tab"`
	SearchQuery string        `json:"search_query"`
	Basket      basketPayload `json:"basket"`
	CreatedAt   string        `json:"created_at"`
	UpdatedAt   string        `json:"updated_at"`
}

type basketPayload struct {
	Items []basketItemPayload `json:"items"`
	Total int64               `json:"total"`
	Count int                 `json:"count"`
}

type basketItemPayload struct {
	Product   productPayload `json:"product"`
	Quantity  int            `json:"quantity"`
	LineTotal int64          `json:"line_total"`
}

func buildSessionPayload(session services.Session) sessionPayload {
	return sessionPayload{
		ID:          session.ID,
		ActiveTab:   string(session.ActiveTab),
		SearchQuery: session.SearchQuery,
		Basket:      buildBasketPayload(session.Basket),
		CreatedAt:   formatTime(session.CreatedAt),
		UpdatedAt:   formatTime(session.UpdatedAt),
	}
}

func buildBasketPayload(basket domain.Basket) basketPayload {
	items := make([]basketItemPayload, 0, len(basket))
	for _, item := range basket {
		items = append(items, basketItemPayload{
			Product:   buildProductPayload(item.Product),
			Quantity:  item.Quantity,
			LineTotal: item.LineTotal(),
		})
	}
	return basketPayload{
		Items: items,
		Total: basket.Total(),
		Count: basket.Count(),
	}
}
