package api

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"github.com/example/storefront/internal/api/middleware"
	"github.com/example/storefront/internal/auth"
	"github.com/example/storefront/internal/catalog"
	"github.com/example/storefront/internal/domain/cart"
	"github.com/example/storefront/internal/domain/order"
	"github.com/example/storefront/internal/domain/session"
	"github.com/example/storefront/internal/gateway/httpgw"
	"github.com/example/storefront/internal/storefront"
	"go.uber.org/zap"
)

type Handlers struct {
	registry *storefront.Registry
	catalog  *catalog.Catalog
	logger   *zap.Logger
}

func NewHandlers(registry *storefront.Registry, c *catalog.Catalog, logger *zap.Logger) *Handlers {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Handlers{
		registry: registry,
		catalog:  c,
		logger:   logger.Named("api"),
	}
}

// workspace resolves the calling client's workspace, writing the error
// response itself when that fails.
func (h *Handlers) workspace(w http.ResponseWriter, r *http.Request) (*storefront.Workspace, bool) {
	clientID := middleware.GetClientID(r.Context())
	if clientID == "" {
		respondJSONError(w, "unknown client", http.StatusUnauthorized)
		return nil, false
	}
	ws, err := h.registry.Get(r.Context(), clientID)
	if err != nil {
		h.respondError(w, err)
		return nil, false
	}
	return ws, true
}

func (h *Handlers) Health(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// Helper functions

func respondJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(data)
}

func respondJSONError(w http.ResponseWriter, message string, status int) {
	respondJSON(w, status, map[string]string{"error": message})
}

func decodeJSON(w http.ResponseWriter, r *http.Request, v any) bool {
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		respondJSONError(w, "Invalid request body", http.StatusBadRequest)
		return false
	}
	return true
}

func extractPathParam(path, prefix string) string {
	return strings.Trim(strings.TrimPrefix(path, prefix), "/")
}

// statusFor maps domain errors onto HTTP statuses. Zero means the error
// is unexpected.
func statusFor(err error) int {
	switch {
	case errors.Is(err, session.ErrInvalidCredentials),
		errors.Is(err, session.ErrNotLoggedIn),
		errors.Is(err, storefront.ErrLoginRequired),
		errors.Is(err, httpgw.ErrUnauthorized):
		return http.StatusUnauthorized
	case errors.Is(err, session.ErrInvalidRegistration),
		errors.Is(err, session.ErrEmailRequired),
		errors.Is(err, session.ErrPasswordMismatch),
		errors.Is(err, session.ErrCurrentPasswordRequired),
		errors.Is(err, session.ErrInvalidCurrentPassword),
		errors.Is(err, auth.ErrPasswordTooShort),
		errors.Is(err, cart.ErrInvalidItem),
		errors.Is(err, cart.ErrInvalidType),
		errors.Is(err, cart.ErrNegativePrice):
		return http.StatusBadRequest
	case errors.Is(err, storefront.ErrForbidden):
		return http.StatusForbidden
	case errors.Is(err, storefront.ErrProductNotFound),
		errors.Is(err, storefront.ErrServiceNotFound),
		errors.Is(err, order.ErrOrderNotFound):
		return http.StatusNotFound
	case errors.Is(err, session.ErrIncompleteUser),
		errors.Is(err, session.ErrPasswordNotChanged):
		return http.StatusBadGateway
	}
	return 0
}

func (h *Handlers) respondError(w http.ResponseWriter, err error) {
	if status := statusFor(err); status != 0 {
		respondJSONError(w, err.Error(), status)
		return
	}
	h.logger.Error("request failed", zap.Error(err))
	respondJSONError(w, "Internal server error", http.StatusInternalServerError)
}
