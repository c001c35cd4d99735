package adaptor

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"yamdb/internal/data/entity"
	"yamdb/internal/dto/request"
	"yamdb/internal/dto/response"
	"yamdb/internal/usecase"
	"yamdb/pkg/utils"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

// MockReviewService mocks the ReviewService interface
type MockReviewService struct {
	mock.Mock
}

func (m *MockReviewService) ListReviews(ctx context.Context, titleID string, req *request.PaginatedRequest) (*response.PaginatedResponse[response.ReviewResponse], error) {
	args := m.Called(ctx, titleID, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*response.PaginatedResponse[response.ReviewResponse]), args.Error(1)
}

func (m *MockReviewService) GetReview(ctx context.Context, titleID, reviewID string) (*response.ReviewResponse, error) {
	args := m.Called(ctx, titleID, reviewID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*response.ReviewResponse), args.Error(1)
}

func (m *MockReviewService) CreateReview(ctx context.Context, actor usecase.Actor, titleID string, req *request.CreateReviewRequest) (*response.ReviewResponse, error) {
	args := m.Called(ctx, actor, titleID, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*response.ReviewResponse), args.Error(1)
}

func (m *MockReviewService) UpdateReview(ctx context.Context, actor usecase.Actor, titleID, reviewID string, req *request.UpdateReviewRequest) (*response.ReviewResponse, error) {
	args := m.Called(ctx, actor, titleID, reviewID, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*response.ReviewResponse), args.Error(1)
}

func (m *MockReviewService) DeleteReview(ctx context.Context, actor usecase.Actor, titleID, reviewID string) error {
	args := m.Called(ctx, actor, titleID, reviewID)
	return args.Error(0)
}

func (m *MockReviewService) GetTitleRating(ctx context.Context, titleID string) (*response.TitleRatingResponse, error) {
	args := m.Called(ctx, titleID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*response.TitleRatingResponse), args.Error(1)
}

func newReviewRouter(svc usecase.ReviewService) http.Handler {
	h := NewReviewHandler(svc, zap.NewNop())
	r := chi.NewRouter()
	r.Post("/titles/{title_id}/reviews", h.CreateReview)
	r.Delete("/titles/{title_id}/reviews/{review_id}", h.DeleteReview)
	r.Get("/titles/{title_id}/rating", h.GetTitleRating)
	return r
}

func decodeBody(t *testing.T, rec *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var body map[string]any
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&body))
	return body
}

func withActor(req *http.Request, actor usecase.Actor) *http.Request {
	ctx := utils.SetUserContext(req.Context(), actor.UserID, string(actor.Role))
	return req.WithContext(ctx)
}

func TestCreateReview_PassesActorAndBody(t *testing.T) {
	svc := new(MockReviewService)
	actor := usecase.Actor{UserID: uuid.New(), Role: entity.RoleUser}
	titleID := uuid.NewString()

	svc.On("CreateReview", mock.Anything, actor, titleID, &request.CreateReviewRequest{Text: "Great", Score: 10}).
		Return(&response.ReviewResponse{ID: "r1", Text: "Great", Author: "u1", Score: 10}, nil)

	req := httptest.NewRequest(http.MethodPost, "/titles/"+titleID+"/reviews", strings.NewReader(`{"text":"Great","score":10}`))
	rec := httptest.NewRecorder()
	newReviewRouter(svc).ServeHTTP(rec, withActor(req, actor))

	assert.Equal(t, http.StatusCreated, rec.Code)
	body := decodeBody(t, rec)
	assert.Equal(t, true, body["status"])
	assert.Equal(t, "u1", body["data"].(map[string]any)["author"])
	svc.AssertExpectations(t)
}

func TestCreateReview_DuplicateIsBadRequest(t *testing.T) {
	svc := new(MockReviewService)
	svc.On("CreateReview", mock.Anything, mock.Anything, mock.Anything, mock.Anything).Return(nil, usecase.ErrDuplicateReview)

	req := httptest.NewRequest(http.MethodPost, "/titles/"+uuid.NewString()+"/reviews", strings.NewReader(`{"text":"x","score":5}`))
	rec := httptest.NewRecorder()
	newReviewRouter(svc).ServeHTTP(rec, withActor(req, usecase.Actor{UserID: uuid.New(), Role: entity.RoleUser}))

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	body := decodeBody(t, rec)
	assert.Equal(t, false, body["status"])
	assert.Contains(t, body["errors"], "title")
}

func TestCreateReview_InvalidJSON(t *testing.T) {
	svc := new(MockReviewService)

	req := httptest.NewRequest(http.MethodPost, "/titles/"+uuid.NewString()+"/reviews", strings.NewReader(`{"text":`))
	rec := httptest.NewRecorder()
	newReviewRouter(svc).ServeHTTP(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	svc.AssertNotCalled(t, "CreateReview", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func TestHandleServiceError_StatusMapping(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want int
	}{
		{"validation", usecase.FieldError("score", "bad"), http.StatusBadRequest},
		{"authentication failed", usecase.AuthenticationFailedError("confirmation_code", "bad"), http.StatusBadRequest},
		{"not found", usecase.NotFoundError("Review"), http.StatusNotFound},
		{"forbidden", usecase.DecisionError(usecase.DenyForbidden), http.StatusForbidden},
		{"unauthenticated", usecase.DecisionError(usecase.DenyUnauthenticated), http.StatusUnauthorized},
		{"method", usecase.DecisionError(usecase.DenyMethod), http.StatusMethodNotAllowed},
		{"internal", errors.New("connection reset"), http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := new(MockReviewService)
			svc.On("DeleteReview", mock.Anything, mock.Anything, mock.Anything, mock.Anything).Return(tt.err)

			req := httptest.NewRequest(http.MethodDelete, "/titles/t/reviews/r", nil)
			rec := httptest.NewRecorder()
			newReviewRouter(svc).ServeHTTP(rec, req)

			assert.Equal(t, tt.want, rec.Code)
		})
	}
}

func TestInternalErrorHidesDetails(t *testing.T) {
	svc := new(MockReviewService)
	svc.On("GetTitleRating", mock.Anything, "t").Return(nil, errors.New("pq: password authentication failed"))

	rec := httptest.NewRecorder()
	newReviewRouter(svc).ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/titles/t/rating", nil))

	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.NotContains(t, rec.Body.String(), "password")
}

func TestActorFromRequest(t *testing.T) {
	anon := actorFromRequest(httptest.NewRequest(http.MethodGet, "/", nil))
	assert.False(t, anon.Authenticated())

	actor := usecase.Actor{UserID: uuid.New(), Role: entity.RoleModerator}
	got := actorFromRequest(withActor(httptest.NewRequest(http.MethodGet, "/", nil), actor))
	assert.Equal(t, actor, got)
}

func TestMethodGuard(t *testing.T) {
	h := NewGenreHandler(nil, zap.NewNop())
	r := chi.NewRouter()
	r.Get("/genres/{slug}", h.MethodNotAllowed(usecase.ActionRetrieve))

	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/genres/drama", nil))

	assert.Equal(t, http.StatusMethodNotAllowed, rec.Code)
}

func TestParsePagination(t *testing.T) {
	page := parsePagination(httptest.NewRequest(http.MethodGet, "/?page=3&per_page=500", nil))
	assert.Equal(t, 3, page.Page)
	assert.Equal(t, request.MaxPerPage, page.Limit())
	assert.Equal(t, 200, page.Offset())

	page = parsePagination(httptest.NewRequest(http.MethodGet, "/?page=abc", nil))
	assert.Equal(t, 1, page.Page)
	assert.Equal(t, request.DefaultPerPage, page.Limit())
}
