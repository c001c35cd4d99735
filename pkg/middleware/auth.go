package middleware

import (
	"context"
	"net/http"
	"strings"

	"yamdb/internal/data/entity"
	"yamdb/pkg/utils"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// UserFinder loads the account behind a token.
type UserFinder interface {
	FindByID(ctx context.Context, id uuid.UUID) (*entity.User, error)
}

// Authenticate resolves an optional bearer token into the request context.
// Requests without an Authorization header continue anonymously; a header that
// does not resolve to an existing user is rejected with 401.
func Authenticate(secret string, users UserFinder, logger *zap.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			authHeader := r.Header.Get("Authorization")
			if authHeader == "" {
				next.ServeHTTP(w, r)
				return
			}

			parts := strings.SplitN(authHeader, " ", 2)
			if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") || parts[1] == "" {
				utils.ResponseUnauthorized(w, "Invalid token format. Use: Bearer <token>")
				return
			}

			userID, err := utils.ParseAccessToken(parts[1], secret)
			if err != nil {
				logger.Warn("Rejected access token",
					zap.Error(err),
					zap.String("path", r.URL.Path))
				utils.ResponseUnauthorized(w, "Given token not valid for any token type")
				return
			}

			// Role is read from the store so promotions and demotions apply immediately.
			user, err := users.FindByID(r.Context(), userID)
			if err != nil {
				logger.Error("Failed to load token user",
					zap.Error(err), zap.String("user_id", userID.String()))
				utils.ResponseInternalError(w, "Internal server error")
				return
			}
			if user == nil {
				logger.Warn("Token for missing user", zap.String("user_id", userID.String()))
				utils.ResponseUnauthorized(w, "User not found")
				return
			}

			ctx := utils.SetUserContext(r.Context(), user.ID, string(user.Role))
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}
