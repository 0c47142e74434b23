package middleware

import (
	"encoding/json"
	"net/http"
	"os"

	"go.uber.org/zap"

	"workhub-backend/pkg/auth"
)

// Authenticate validates the Authorization bearer token and places the
// resulting identity on the request context. Behind API Gateway the
// authorizer has already validated the token; there the identity comes
// from the forwarded headers instead.
func Authenticate(svc *auth.Service, logger *zap.Logger) func(next http.Handler) http.Handler {
	if os.Getenv("AWS_LAMBDA_FUNCTION_NAME") != "" {
		return authenticateFromGateway(logger)
	}

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			header := r.Header.Get("Authorization")
			if header == "" {
				respondUnauthorized(w, "missing authorization header")
				return
			}

			claims, err := svc.ValidateToken(header)
			if err != nil {
				logger.Debug("token rejected", zap.Error(err))
				respondUnauthorized(w, "invalid token")
				return
			}

			ctx := auth.SetUserInContext(r.Context(), &auth.UserContext{
				UserID: claims.UserID(),
				Phone:  claims.Phone,
				Role:   claims.Role,
			})
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

func authenticateFromGateway(logger *zap.Logger) func(next http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			userID := r.Header.Get("X-User-Id")
			if userID == "" {
				logger.Warn("request reached handler without authorizer identity",
					zap.String("path", r.URL.Path))
				respondUnauthorized(w, "unauthorized")
				return
			}
			ctx := auth.SetUserInContext(r.Context(), &auth.UserContext{
				UserID: userID,
				Phone:  r.Header.Get("X-User-Phone"),
				Role:   r.Header.Get("X-User-Role"),
			})
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

func respondUnauthorized(w http.ResponseWriter, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusUnauthorized)
	json.NewEncoder(w).Encode(map[string]string{"error": message})
}
