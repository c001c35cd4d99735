package usecase

import (
	"context"
	"time"

	"yamdb/internal/data/entity"
	"yamdb/internal/data/repository"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"
)

// MockUserRepository mocks the UserRepository interface
type MockUserRepository struct {
	mock.Mock
}

func (m *MockUserRepository) Create(ctx context.Context, user *entity.User) error {
	args := m.Called(ctx, user)
	return args.Error(0)
}

func (m *MockUserRepository) FindByID(ctx context.Context, id uuid.UUID) (*entity.User, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entity.User), args.Error(1)
}

func (m *MockUserRepository) FindByUsername(ctx context.Context, username string) (*entity.User, error) {
	args := m.Called(ctx, username)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entity.User), args.Error(1)
}

func (m *MockUserRepository) FindByEmail(ctx context.Context, email string) (*entity.User, error) {
	args := m.Called(ctx, email)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entity.User), args.Error(1)
}

func (m *MockUserRepository) FindAll(ctx context.Context, search string, limit, offset int) ([]*entity.User, error) {
	args := m.Called(ctx, search, limit, offset)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*entity.User), args.Error(1)
}

func (m *MockUserRepository) CountAll(ctx context.Context, search string) (int64, error) {
	args := m.Called(ctx, search)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockUserRepository) Update(ctx context.Context, user *entity.User) error {
	args := m.Called(ctx, user)
	return args.Error(0)
}

func (m *MockUserRepository) Delete(ctx context.Context, id uuid.UUID) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *MockUserRepository) SetConfirmationCode(ctx context.Context, id uuid.UUID, hash string, expiresAt time.Time) error {
	args := m.Called(ctx, id, hash, expiresAt)
	return args.Error(0)
}

func (m *MockUserRepository) ConsumeConfirmationCode(ctx context.Context, id uuid.UUID, hash string) (bool, error) {
	args := m.Called(ctx, id, hash)
	return args.Bool(0), args.Error(1)
}

func (m *MockUserRepository) ClearExpiredCodes(ctx context.Context, now time.Time) (int64, error) {
	args := m.Called(ctx, now)
	return args.Get(0).(int64), args.Error(1)
}

// MockTitleRepository mocks the TitleRepository interface
type MockTitleRepository struct {
	mock.Mock
}

func (m *MockTitleRepository) Create(ctx context.Context, title *entity.Title) error {
	args := m.Called(ctx, title)
	return args.Error(0)
}

func (m *MockTitleRepository) FindByID(ctx context.Context, id uuid.UUID) (*entity.TitleDetail, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entity.TitleDetail), args.Error(1)
}

func (m *MockTitleRepository) FindAll(ctx context.Context, filter repository.TitleFilter, limit, offset int) ([]*entity.TitleDetail, error) {
	args := m.Called(ctx, filter, limit, offset)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*entity.TitleDetail), args.Error(1)
}

func (m *MockTitleRepository) CountAll(ctx context.Context, filter repository.TitleFilter) (int64, error) {
	args := m.Called(ctx, filter)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockTitleRepository) Exists(ctx context.Context, id uuid.UUID) (bool, error) {
	args := m.Called(ctx, id)
	return args.Bool(0), args.Error(1)
}

func (m *MockTitleRepository) Update(ctx context.Context, title *entity.Title) error {
	args := m.Called(ctx, title)
	return args.Error(0)
}

func (m *MockTitleRepository) Delete(ctx context.Context, id uuid.UUID) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

// MockGenreRepository mocks the GenreRepository interface
type MockGenreRepository struct {
	mock.Mock
}

func (m *MockGenreRepository) Create(ctx context.Context, genre *entity.Genre) error {
	args := m.Called(ctx, genre)
	return args.Error(0)
}

func (m *MockGenreRepository) FindBySlug(ctx context.Context, slug string) (*entity.Genre, error) {
	args := m.Called(ctx, slug)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entity.Genre), args.Error(1)
}

func (m *MockGenreRepository) FindBySlugs(ctx context.Context, slugs []string) ([]*entity.Genre, error) {
	args := m.Called(ctx, slugs)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*entity.Genre), args.Error(1)
}

func (m *MockGenreRepository) FindAll(ctx context.Context, search string, limit, offset int) ([]*entity.Genre, error) {
	args := m.Called(ctx, search, limit, offset)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*entity.Genre), args.Error(1)
}

func (m *MockGenreRepository) CountAll(ctx context.Context, search string) (int64, error) {
	args := m.Called(ctx, search)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockGenreRepository) DeleteBySlug(ctx context.Context, slug string) error {
	args := m.Called(ctx, slug)
	return args.Error(0)
}

// MockCategoryRepository mocks the CategoryRepository interface
type MockCategoryRepository struct {
	mock.Mock
}

func (m *MockCategoryRepository) Create(ctx context.Context, category *entity.Category) error {
	args := m.Called(ctx, category)
	return args.Error(0)
}

func (m *MockCategoryRepository) FindByID(ctx context.Context, id uuid.UUID) (*entity.Category, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entity.Category), args.Error(1)
}

func (m *MockCategoryRepository) FindBySlug(ctx context.Context, slug string) (*entity.Category, error) {
	args := m.Called(ctx, slug)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entity.Category), args.Error(1)
}

func (m *MockCategoryRepository) FindAll(ctx context.Context, search string, limit, offset int) ([]*entity.Category, error) {
	args := m.Called(ctx, search, limit, offset)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*entity.Category), args.Error(1)
}

func (m *MockCategoryRepository) CountAll(ctx context.Context, search string) (int64, error) {
	args := m.Called(ctx, search)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockCategoryRepository) DeleteBySlug(ctx context.Context, slug string) error {
	args := m.Called(ctx, slug)
	return args.Error(0)
}

// MockGenreTitleRepository mocks the GenreTitleRepository interface
type MockGenreTitleRepository struct {
	mock.Mock
}

func (m *MockGenreTitleRepository) CreateBatch(ctx context.Context, links []*entity.GenreTitle) error {
	args := m.Called(ctx, links)
	return args.Error(0)
}

func (m *MockGenreTitleRepository) DeleteByTitleID(ctx context.Context, titleID uuid.UUID) error {
	args := m.Called(ctx, titleID)
	return args.Error(0)
}

func (m *MockGenreTitleRepository) FindGenresByTitleIDs(ctx context.Context, titleIDs []uuid.UUID) (map[uuid.UUID][]*entity.Genre, error) {
	args := m.Called(ctx, titleIDs)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(map[uuid.UUID][]*entity.Genre), args.Error(1)
}

// MockReviewRepository mocks the ReviewRepository interface
type MockReviewRepository struct {
	mock.Mock
}

func (m *MockReviewRepository) Create(ctx context.Context, review *entity.Review) error {
	args := m.Called(ctx, review)
	return args.Error(0)
}

func (m *MockReviewRepository) FindByID(ctx context.Context, titleID, id uuid.UUID) (*entity.Review, error) {
	args := m.Called(ctx, titleID, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entity.Review), args.Error(1)
}

func (m *MockReviewRepository) FindByTitleID(ctx context.Context, titleID uuid.UUID, limit, offset int) ([]*entity.Review, error) {
	args := m.Called(ctx, titleID, limit, offset)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*entity.Review), args.Error(1)
}

func (m *MockReviewRepository) FindByAuthorAndTitle(ctx context.Context, authorID, titleID uuid.UUID) (*entity.Review, error) {
	args := m.Called(ctx, authorID, titleID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entity.Review), args.Error(1)
}

func (m *MockReviewRepository) CountByTitleID(ctx context.Context, titleID uuid.UUID) (int64, error) {
	args := m.Called(ctx, titleID)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockReviewRepository) Update(ctx context.Context, review *entity.Review) error {
	args := m.Called(ctx, review)
	return args.Error(0)
}

func (m *MockReviewRepository) Delete(ctx context.Context, id uuid.UUID) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *MockReviewRepository) GetTitleReviewStats(ctx context.Context, titleID uuid.UUID) (*float64, int64, error) {
	args := m.Called(ctx, titleID)
	if args.Get(0) == nil {
		return nil, args.Get(1).(int64), args.Error(2)
	}
	return args.Get(0).(*float64), args.Get(1).(int64), args.Error(2)
}

// MockCommentRepository mocks the CommentRepository interface
type MockCommentRepository struct {
	mock.Mock
}

func (m *MockCommentRepository) Create(ctx context.Context, comment *entity.Comment) error {
	args := m.Called(ctx, comment)
	return args.Error(0)
}

func (m *MockCommentRepository) FindByID(ctx context.Context, reviewID, id uuid.UUID) (*entity.Comment, error) {
	args := m.Called(ctx, reviewID, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entity.Comment), args.Error(1)
}

func (m *MockCommentRepository) FindByReviewID(ctx context.Context, reviewID uuid.UUID, limit, offset int) ([]*entity.Comment, error) {
	args := m.Called(ctx, reviewID, limit, offset)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*entity.Comment), args.Error(1)
}

func (m *MockCommentRepository) CountByReviewID(ctx context.Context, reviewID uuid.UUID) (int64, error) {
	args := m.Called(ctx, reviewID)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockCommentRepository) Update(ctx context.Context, comment *entity.Comment) error {
	args := m.Called(ctx, comment)
	return args.Error(0)
}

func (m *MockCommentRepository) Delete(ctx context.Context, id uuid.UUID) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

// inlineTx runs the callback against the same mocked repositories.
type inlineTx struct {
	repo *repository.Repository
}

func (t *inlineTx) InTx(ctx context.Context, fn func(repos *repository.Repository) error) error {
	return fn(t.repo)
}

type mockRepos struct {
	User       *MockUserRepository
	Title      *MockTitleRepository
	Genre      *MockGenreRepository
	Category   *MockCategoryRepository
	GenreTitle *MockGenreTitleRepository
	Review     *MockReviewRepository
	Comment    *MockCommentRepository
}

func newMockRepos() (*mockRepos, *repository.Repository) {
	m := &mockRepos{
		User:       new(MockUserRepository),
		Title:      new(MockTitleRepository),
		Genre:      new(MockGenreRepository),
		Category:   new(MockCategoryRepository),
		GenreTitle: new(MockGenreTitleRepository),
		Review:     new(MockReviewRepository),
		Comment:    new(MockCommentRepository),
	}

	repo := &repository.Repository{
		User:       m.User,
		Title:      m.Title,
		Genre:      m.Genre,
		Category:   m.Category,
		GenreTitle: m.GenreTitle,
		Review:     m.Review,
		Comment:    m.Comment,
	}
	repo.Tx = &inlineTx{repo: repo}
	return m, repo
}

func (m *mockRepos) assertExpectations(t mock.TestingT) {
	m.User.AssertExpectations(t)
	m.Title.AssertExpectations(t)
	m.Genre.AssertExpectations(t)
	m.Category.AssertExpectations(t)
	m.GenreTitle.AssertExpectations(t)
	m.Review.AssertExpectations(t)
	m.Comment.AssertExpectations(t)
}

func userActor(role entity.UserRole) Actor {
	return Actor{UserID: uuid.New(), Role: role}
}
