package middleware

import (
	"context"
	"encoding/json"
	"net/http"
	"strings"
	"time"

	"github.com/example/storefront/internal/auth"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// ClientCookieName carries the signed client token for browsers.
const ClientCookieName = "storefront_client"

// ClientTokenHeader returns a freshly minted token to non-browser clients.
const ClientTokenHeader = "X-Client-Token"

// respondError writes a JSON error response
func respondError(w http.ResponseWriter, message string, status int) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(map[string]string{"error": message})
}

// ExtractToken extracts the client token from cookie or Authorization header
func ExtractToken(r *http.Request) string {
	if cookie, err := r.Cookie(ClientCookieName); err == nil && cookie.Value != "" {
		return cookie.Value
	}
	if authHeader := r.Header.Get("Authorization"); strings.HasPrefix(authHeader, "Bearer ") {
		return strings.TrimPrefix(authHeader, "Bearer ")
	}
	return ""
}

type contextKey string

const ClientContextKey contextKey = "client_id"

// ClientMiddleware resolves the calling client from its token. A request
// without a valid token is assigned a new client id and handed a token
// for it, both as a cookie and in the ClientTokenHeader header.
func ClientMiddleware(jwtService *auth.JWTService, logger *zap.Logger) func(http.Handler) http.Handler {
	if logger == nil {
		logger = zap.NewNop()
	}
	logger = logger.Named("client")

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			clientID := ""
			if token := ExtractToken(r); token != "" {
				claims, err := jwtService.ValidateClientToken(token)
				if err == nil {
					clientID = claims.ClientID
				} else {
					logger.Debug("replacing client token", zap.Error(err))
				}
			}

			if clientID == "" {
				clientID = uuid.New().String()
				token, expiresAt, err := jwtService.GenerateClientToken(clientID)
				if err != nil {
					logger.Error("failed to issue client token", zap.Error(err))
					respondError(w, "failed to issue client token", http.StatusInternalServerError)
					return
				}
				setClientCookie(w, r, token, expiresAt)
				w.Header().Set(ClientTokenHeader, token)
			}

			ctx := context.WithValue(r.Context(), ClientContextKey, clientID)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

func setClientCookie(w http.ResponseWriter, r *http.Request, token string, expiresAt time.Time) {
	http.SetCookie(w, &http.Cookie{
		Name:     ClientCookieName,
		Value:    token,
		Path:     "/",
		Expires:  expiresAt,
		HttpOnly: true,
		Secure:   r.TLS != nil,
		SameSite: http.SameSiteLaxMode,
	})
}

// GetClientID returns the client id placed by ClientMiddleware.
func GetClientID(ctx context.Context) string {
	id, _ := ctx.Value(ClientContextKey).(string)
	return id
}

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(status int) {
	r.status = status
	r.ResponseWriter.WriteHeader(status)
}

// Logging logs one line per request.
func Logging(logger *zap.Logger) func(http.Handler) http.Handler {
	if logger == nil {
		logger = zap.NewNop()
	}
	logger = logger.Named("http")

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
			next.ServeHTTP(rec, r)
			logger.Info("request",
				zap.String("method", r.Method),
				zap.String("path", r.URL.Path),
				zap.Int("status", rec.status),
				zap.Duration("elapsed", time.Since(start)),
			)
		})
	}
}
