package usecase

import (
	"context"
	"fmt"
	"testing"

	"yamdb/internal/data/entity"
	"yamdb/internal/data/repository"
	"yamdb/internal/dto/request"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestCreateGenre_DuplicateSlug(t *testing.T) {
	m, repo := newMockRepos()
	svc := NewGenreService(repo, zap.NewNop())
	ctx := context.Background()

	m.Genre.On("FindBySlug", ctx, "drama").Return(nil, nil)
	m.Genre.On("Create", ctx, mock.AnythingOfType("*entity.Genre")).Return(fmt.Errorf("create genre: %w",
		&repository.ConstraintError{Constraint: repository.ConstraintGenreSlug, Err: repository.ErrDuplicate}))

	_, err := svc.CreateGenre(ctx, userActor(entity.RoleAdmin), &request.GenreRequest{Name: "Drama", Slug: "drama"})

	e, ok := AsError(err)
	require.True(t, ok)
	assert.Contains(t, e.Fields, "slug")
	m.assertExpectations(t)
}

func TestDeleteCategory_NotFound(t *testing.T) {
	m, repo := newMockRepos()
	svc := NewCategoryService(repo, zap.NewNop())
	ctx := context.Background()

	m.Category.On("DeleteBySlug", ctx, "missing").Return(fmt.Errorf("category missing: %w", repository.ErrNotFound))

	err := svc.DeleteCategory(ctx, userActor(entity.RoleAdmin), "missing")

	e, ok := AsError(err)
	require.True(t, ok)
	assert.Equal(t, KindNotFound, e.Kind)
}
