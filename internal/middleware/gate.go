package middleware

import (
	"encoding/json"
	"errors"
	"net/http"

	"go.uber.org/zap"

	"github.com/vyrodovalexey/catalog-gateway/internal/auth"
	"github.com/vyrodovalexey/catalog-gateway/internal/model"
)

// Gate returns a middleware that guards a route with the shared-secret
// authenticator. A missing credential is rejected with 401, a wrong
// credential with 403. On success the caller identity is stored in the
// request context.
func Gate(authenticator auth.Authenticator, logger *zap.Logger) Middleware {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			info, err := authenticator.Authenticate(r)
			if err != nil {
				status := http.StatusForbidden
				message := "invalid API key"
				if errors.Is(err, auth.ErrUnauthenticated) {
					status = http.StatusUnauthorized
					message = "API key required"
				}

				logger.Warn("request rejected by access gate",
					zap.String("path", r.URL.Path),
					zap.String("method", r.Method),
					zap.String("remote_addr", r.RemoteAddr),
					zap.Error(err),
				)
				writeGateError(w, status, message)
				return
			}

			logger.Debug("access gate passed",
				zap.String("subject", info.Subject),
				zap.String("path", r.URL.Path),
			)

			ctx := auth.WithAuthInfo(r.Context(), info)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// writeGateError writes the gateway's JSON error body for a rejected
// request.
func writeGateError(w http.ResponseWriter, status int, message string) {
	w.Header().Set("Content-Type", "application/json")
	if status == http.StatusUnauthorized {
		w.Header().Set("WWW-Authenticate", "API-Key")
	}
	w.WriteHeader(status)

	_ = json.NewEncoder(w).Encode(model.ErrorResponse{Error: message})
}
