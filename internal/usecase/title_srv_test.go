package usecase

import (
	"context"
	"testing"
	"time"

	"yamdb/internal/data/entity"
	"yamdb/internal/data/repository"
	"yamdb/internal/dto/request"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func yearOf(year int) *int {
	return &year
}

func newTestTitleService() (*mockRepos, TitleService) {
	m, repo := newMockRepos()
	return m, NewTitleService(repo, zap.NewNop())
}

func TestCreateTitle_Success(t *testing.T) {
	m, svc := newTestTitleService()
	ctx := context.Background()

	film := &entity.Category{BaseSimple: entity.BaseSimple{ID: uuid.New()}, Name: "Film", Slug: "film"}
	drama := &entity.Genre{BaseSimple: entity.BaseSimple{ID: uuid.New()}, Name: "Drama", Slug: "drama"}
	scifi := &entity.Genre{BaseSimple: entity.BaseSimple{ID: uuid.New()}, Name: "Sci-Fi", Slug: "sci-fi"}

	var createdID uuid.UUID
	m.Category.On("FindBySlug", ctx, "film").Return(film, nil)
	m.Genre.On("FindBySlugs", ctx, []string{"drama", "sci-fi"}).Return([]*entity.Genre{drama, scifi}, nil)
	m.Title.On("Create", ctx, mock.MatchedBy(func(title *entity.Title) bool {
		createdID = title.ID
		return title.Name == "Dune" && title.Year == 1965 && *title.CategoryID == film.ID
	})).Return(nil)
	m.GenreTitle.On("CreateBatch", ctx, mock.MatchedBy(func(links []*entity.GenreTitle) bool {
		return len(links) == 2
	})).Return(nil)
	m.Title.On("FindByID", ctx, mock.AnythingOfType("uuid.UUID")).Return(&entity.TitleDetail{
		Title:    entity.Title{Base: entity.Base{ID: uuid.New()}, Name: "Dune", Year: 1965, CategoryID: &film.ID},
		Category: film,
		Genres:   []*entity.Genre{},
	}, nil)
	m.GenreTitle.On("FindGenresByTitleIDs", ctx, mock.Anything).Return(map[uuid.UUID][]*entity.Genre{}, nil)

	resp, err := svc.CreateTitle(ctx, userActor(entity.RoleAdmin), &request.CreateTitleRequest{
		Name:     "Dune",
		Year:     yearOf(1965),
		Genre:    []string{"sci-fi", "drama", "drama"},
		Category: "film",
	})

	require.NoError(t, err)
	assert.NotEqual(t, uuid.Nil, createdID)
	assert.Equal(t, "Dune", resp.Name)
	assert.Nil(t, resp.Rating)
	require.NotNil(t, resp.Category)
	assert.Equal(t, "film", resp.Category.Slug)
	m.assertExpectations(t)
}

func TestCreateTitle_UnknownGenre(t *testing.T) {
	m, svc := newTestTitleService()
	ctx := context.Background()
	drama := &entity.Genre{BaseSimple: entity.BaseSimple{ID: uuid.New()}, Slug: "drama"}

	m.Genre.On("FindBySlugs", ctx, []string{"drama", "western"}).Return([]*entity.Genre{drama}, nil)

	_, err := svc.CreateTitle(ctx, userActor(entity.RoleAdmin), &request.CreateTitleRequest{
		Name:  "Dune",
		Year:  yearOf(1965),
		Genre: []string{"drama", "western"},
	})

	e, ok := AsError(err)
	require.True(t, ok)
	assert.Equal(t, KindValidation, e.Kind)
	assert.Contains(t, e.Fields["genre"], "western")
	m.Title.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
}

func TestCreateTitle_FutureYear(t *testing.T) {
	m, svc := newTestTitleService()

	_, err := svc.CreateTitle(context.Background(), userActor(entity.RoleAdmin), &request.CreateTitleRequest{
		Name: "Later",
		Year: yearOf(time.Now().Year() + 1),
	})

	e, ok := AsError(err)
	require.True(t, ok)
	assert.Contains(t, e.Fields, "year")
	m.assertExpectations(t)
}

func TestCreateTitle_NegativeYear(t *testing.T) {
	for _, year := range []int{-1, -50000} {
		m, svc := newTestTitleService()

		_, err := svc.CreateTitle(context.Background(), userActor(entity.RoleAdmin), &request.CreateTitleRequest{
			Name: "Bad",
			Year: yearOf(year),
		})

		e, ok := AsError(err)
		require.True(t, ok, year)
		assert.Equal(t, KindValidation, e.Kind)
		assert.Contains(t, e.Fields, "year")
		m.Title.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
		m.GenreTitle.AssertNotCalled(t, "CreateBatch", mock.Anything, mock.Anything)
	}
}

func TestCreateTitle_MissingYear(t *testing.T) {
	m, svc := newTestTitleService()

	_, err := svc.CreateTitle(context.Background(), userActor(entity.RoleAdmin), &request.CreateTitleRequest{Name: "Dune"})

	e, ok := AsError(err)
	require.True(t, ok)
	assert.Equal(t, "This field is required", e.Fields["year"])
	m.assertExpectations(t)
}

func TestCreateTitle_YearZero(t *testing.T) {
	m, svc := newTestTitleService()
	ctx := context.Background()

	m.Title.On("Create", ctx, mock.MatchedBy(func(title *entity.Title) bool {
		return title.Year == 0
	})).Return(nil)
	m.GenreTitle.On("CreateBatch", ctx, mock.Anything).Return(nil)
	m.Title.On("FindByID", ctx, mock.AnythingOfType("uuid.UUID")).Return(&entity.TitleDetail{
		Title: entity.Title{Base: entity.Base{ID: uuid.New()}, Name: "Iliad", Year: 0},
	}, nil)
	m.GenreTitle.On("FindGenresByTitleIDs", ctx, mock.Anything).Return(map[uuid.UUID][]*entity.Genre{}, nil)

	resp, err := svc.CreateTitle(ctx, userActor(entity.RoleAdmin), &request.CreateTitleRequest{Name: "Iliad", Year: yearOf(0)})

	require.NoError(t, err)
	assert.Equal(t, 0, resp.Year)
	m.assertExpectations(t)
}

func TestUpdateTitle_NegativeYear(t *testing.T) {
	m, svc := newTestTitleService()
	titleID := uuid.New()

	_, err := svc.UpdateTitle(context.Background(), userActor(entity.RoleAdmin), titleID.String(),
		&request.UpdateTitleRequest{Year: yearOf(-50000)})

	e, ok := AsError(err)
	require.True(t, ok)
	assert.Equal(t, KindValidation, e.Kind)
	assert.Contains(t, e.Fields, "year")
	m.Title.AssertNotCalled(t, "Update", mock.Anything, mock.Anything)
}

func TestCreateTitle_RequiresAdmin(t *testing.T) {
	for _, role := range []entity.UserRole{entity.RoleUser, entity.RoleModerator} {
		m, svc := newTestTitleService()

		_, err := svc.CreateTitle(context.Background(), userActor(role), &request.CreateTitleRequest{Name: "Dune", Year: yearOf(1965)})

		e, ok := AsError(err)
		require.True(t, ok)
		assert.Equal(t, KindForbidden, e.Kind, role)
		m.assertExpectations(t)
	}
}

func TestUpdateTitle_ClearsCategory(t *testing.T) {
	m, svc := newTestTitleService()
	ctx := context.Background()
	categoryID := uuid.New()
	titleID := uuid.New()
	current := &entity.TitleDetail{
		Title: entity.Title{Base: entity.Base{ID: titleID}, Name: "Dune", Year: 1965, CategoryID: &categoryID},
	}
	empty := ""

	m.Title.On("FindByID", ctx, titleID).Return(current, nil)
	m.Title.On("Update", ctx, mock.MatchedBy(func(title *entity.Title) bool {
		return title.CategoryID == nil && title.Name == "Dune"
	})).Return(nil)
	m.GenreTitle.On("FindGenresByTitleIDs", ctx, []uuid.UUID{titleID}).Return(map[uuid.UUID][]*entity.Genre{}, nil)

	_, err := svc.UpdateTitle(ctx, userActor(entity.RoleAdmin), titleID.String(), &request.UpdateTitleRequest{Category: &empty})

	require.NoError(t, err)
	m.assertExpectations(t)
}

func TestListTitles_RoundsRatings(t *testing.T) {
	m, svc := newTestTitleService()
	ctx := context.Background()
	genre := "sci-fi"
	avg := 9.5
	titleID := uuid.New()
	scifi := &entity.Genre{Name: "Sci-Fi", Slug: "sci-fi"}

	filter := repository.TitleFilter{Genre: genre}
	m.Title.On("FindAll", ctx, filter, 10, 0).Return([]*entity.TitleDetail{{
		Title:        entity.Title{Base: entity.Base{ID: titleID}, Name: "Dune", Year: 1965},
		AverageScore: &avg,
	}}, nil)
	m.Title.On("CountAll", ctx, filter).Return(int64(1), nil)
	m.GenreTitle.On("FindGenresByTitleIDs", ctx, []uuid.UUID{titleID}).Return(map[uuid.UUID][]*entity.Genre{titleID: {scifi}}, nil)

	resp, err := svc.ListTitles(ctx, &request.TitleFilterRequest{Genre: genre}, &request.PaginatedRequest{Page: 1, PerPage: 10})

	require.NoError(t, err)
	require.Len(t, resp.Data, 1)
	require.NotNil(t, resp.Data[0].Rating)
	assert.Equal(t, 10, *resp.Data[0].Rating)
	require.Len(t, resp.Data[0].Genre, 1)
	assert.Equal(t, "sci-fi", resp.Data[0].Genre[0].Slug)
	assert.Equal(t, int64(1), resp.Pagination.Total)
	m.assertExpectations(t)
}

func TestGetTitle_NotFound(t *testing.T) {
	m, svc := newTestTitleService()
	ctx := context.Background()
	titleID := uuid.New()

	m.Title.On("FindByID", ctx, titleID).Return(nil, nil)

	_, err := svc.GetTitle(ctx, titleID.String())

	e, ok := AsError(err)
	require.True(t, ok)
	assert.Equal(t, KindNotFound, e.Kind)
}
