package middleware

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"yamdb/internal/data/entity"
	"yamdb/pkg/utils"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type stubUsers map[uuid.UUID]*entity.User

func (s stubUsers) FindByID(ctx context.Context, id uuid.UUID) (*entity.User, error) {
	return s[id], nil
}

// echoIdentity reports what the middleware put into the context.
func echoIdentity(w http.ResponseWriter, r *http.Request) {
	userID, ok := utils.GetUserIDFromContext(r.Context())
	if !ok {
		w.Write([]byte("anonymous"))
		return
	}
	role, _ := utils.GetRoleFromContext(r.Context())
	w.Write([]byte(userID.String() + ":" + role))
}

func TestAuthenticate(t *testing.T) {
	moderator := &entity.User{Base: entity.Base{ID: uuid.New()}, Username: "mod", Role: entity.RoleModerator}
	users := stubUsers{moderator.ID: moderator}
	handler := Authenticate("secret", users, zap.NewNop())(http.HandlerFunc(echoIdentity))

	validToken, err := utils.GenerateAccessToken(moderator.ID, "mod", "moderator", "secret", time.Hour)
	require.NoError(t, err)
	deletedToken, err := utils.GenerateAccessToken(uuid.New(), "gone", "user", "secret", time.Hour)
	require.NoError(t, err)

	tests := []struct {
		name       string
		header     string
		wantStatus int
		wantBody   string
	}{
		{"no header", "", http.StatusOK, "anonymous"},
		{"valid token", "Bearer " + validToken, http.StatusOK, moderator.ID.String() + ":moderator"},
		{"wrong scheme", "Token " + validToken, http.StatusUnauthorized, ""},
		{"garbage token", "Bearer abc", http.StatusUnauthorized, ""},
		{"deleted user", "Bearer " + deletedToken, http.StatusUnauthorized, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/api/v1/titles", nil)
			if tt.header != "" {
				req.Header.Set("Authorization", tt.header)
			}
			rec := httptest.NewRecorder()

			handler.ServeHTTP(rec, req)

			assert.Equal(t, tt.wantStatus, rec.Code)
			if tt.wantBody != "" {
				assert.Equal(t, tt.wantBody, rec.Body.String())
			}
		})
	}
}
