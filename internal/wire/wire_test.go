package wire

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"yamdb/internal/data/repository"
	"yamdb/pkg/utils"

	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"
)

// newTestApp wires the router without a database. Only requests that are
// rejected before reaching storage are exercised here.
func newTestApp() *App {
	config := &utils.Config{JWT: utils.JWTConfig{Secret: "test-secret", ExpiryHours: 1}}
	return Wiring(&repository.Repository{}, nil, nil, config, zap.NewNop())
}

func TestRouter_RejectionsBeforeStorage(t *testing.T) {
	app := newTestApp()

	tests := []struct {
		method string
		path   string
		body   string
		auth   string
		want   int
	}{
		{http.MethodGet, "/health", "", "", http.StatusOK},
		{http.MethodGet, "/metrics", "", "", http.StatusOK},
		{http.MethodGet, "/api/v1/nowhere/", "", "", http.StatusNotFound},

		// PUT is not routed anywhere.
		{http.MethodPut, "/api/v1/titles/some-id/", `{}`, "", http.StatusMethodNotAllowed},
		{http.MethodPut, "/api/v1/titles/t/reviews/r/", `{}`, "", http.StatusMethodNotAllowed},

		// Genres and categories have no detail or update endpoint.
		{http.MethodGet, "/api/v1/genres/drama/", "", "", http.StatusMethodNotAllowed},
		{http.MethodPatch, "/api/v1/categories/film/", `{}`, "", http.StatusMethodNotAllowed},

		// The own-profile resource cannot be deleted, not even anonymously.
		{http.MethodDelete, "/api/v1/users/me/", "", "", http.StatusMethodNotAllowed},

		// Writes need credentials.
		{http.MethodPost, "/api/v1/titles/", `{"name":"Dune","year":1965}`, "", http.StatusUnauthorized},
		{http.MethodPost, "/api/v1/genres", `{"name":"Drama","slug":"drama"}`, "", http.StatusUnauthorized},
		{http.MethodGet, "/api/v1/users/", "", "", http.StatusUnauthorized},
		{http.MethodGet, "/api/v1/users/me/", "", "", http.StatusUnauthorized},
		{http.MethodPost, "/api/v1/titles/t/reviews/", `{"text":"x","score":5}`, "", http.StatusUnauthorized},

		// A malformed bearer header is refused outright.
		{http.MethodGet, "/api/v1/titles/", "", "Bearer not-a-jwt", http.StatusUnauthorized},
	}

	for _, tt := range tests {
		t.Run(tt.method+" "+tt.path, func(t *testing.T) {
			req := httptest.NewRequest(tt.method, tt.path, strings.NewReader(tt.body))
			if tt.auth != "" {
				req.Header.Set("Authorization", tt.auth)
			}
			rec := httptest.NewRecorder()

			app.Router.ServeHTTP(rec, req)

			assert.Equal(t, tt.want, rec.Code)
		})
	}
}
