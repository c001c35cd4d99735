package usecase

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"yamdb/internal/data/entity"
	"yamdb/internal/data/repository"
	"yamdb/internal/dto/request"
	"yamdb/internal/dto/response"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

type UserService interface {
	// Admin endpoints
	ListUsers(ctx context.Context, actor Actor, search string, req *request.PaginatedRequest) (*response.PaginatedResponse[response.UserResponse], error)
	CreateUser(ctx context.Context, actor Actor, req *request.CreateUserRequest) (*response.UserResponse, error)
	GetUser(ctx context.Context, actor Actor, username string) (*response.UserResponse, error)
	UpdateUser(ctx context.Context, actor Actor, username string, req *request.UpdateUserRequest) (*response.UserResponse, error)
	DeleteUser(ctx context.Context, actor Actor, username string) error

	// Self-service
	GetProfile(ctx context.Context, actor Actor) (*response.UserResponse, error)
	UpdateProfile(ctx context.Context, actor Actor, req *request.UpdateProfileRequest) (*response.UserResponse, error)

	// BootstrapAdmin creates or promotes an admin and returns a fresh confirmation code.
	BootstrapAdmin(ctx context.Context, username, email string) (string, error)
}

type userService struct {
	repo  *repository.Repository
	codes *codeIssuer
	log   *zap.Logger
}

func NewUserService(repo *repository.Repository, codes *codeIssuer, log *zap.Logger) UserService {
	return &userService{
		repo:  repo,
		codes: codes,
		log:   log.With(zap.String("service", "user")),
	}
}

func (s *userService) ListUsers(ctx context.Context, actor Actor, search string, req *request.PaginatedRequest) (*response.PaginatedResponse[response.UserResponse], error) {
	if err := authorize(actor, ResourceUser, ActionList, false); err != nil {
		return nil, err
	}

	users, err := s.repo.User.FindAll(ctx, search, req.Limit(), req.Offset())
	if err != nil {
		return nil, fmt.Errorf("list users: %w", err)
	}

	total, err := s.repo.User.CountAll(ctx, search)
	if err != nil {
		return nil, fmt.Errorf("count users: %w", err)
	}

	data := make([]response.UserResponse, len(users))
	for i, user := range users {
		data[i] = response.UserToResponse(user)
	}

	return response.NewPaginatedResponse(data, req.Page, req.Limit(), total), nil
}

// CreateUser is the admin workflow: the user gets a confirmation code but no email.
func (s *userService) CreateUser(ctx context.Context, actor Actor, req *request.CreateUserRequest) (*response.UserResponse, error) {
	if err := authorize(actor, ResourceUser, ActionCreate, false); err != nil {
		return nil, err
	}
	req.Email = normalizeEmail(req.Email)
	if err := validate(req); err != nil {
		return nil, err
	}

	if err := s.ensureUnique(ctx, uuid.Nil, req.Username, req.Email); err != nil {
		return nil, err
	}

	role := entity.RoleUser
	if req.Role != "" {
		role = entity.UserRole(req.Role)
	}

	now := time.Now()
	user := &entity.User{
		Base: entity.Base{
			ID:        uuid.New(),
			CreatedAt: now,
			UpdatedAt: now,
		},
		Username:  req.Username,
		Email:     req.Email,
		FirstName: req.FirstName,
		LastName:  req.LastName,
		Bio:       req.Bio,
		Role:      role,
	}

	if _, err := s.codes.prepare(user); err != nil {
		return nil, fmt.Errorf("generate confirmation code: %w", err)
	}

	if err := s.repo.User.Create(ctx, user); err != nil {
		if verr := userConstraintError(err); verr != nil {
			return nil, verr
		}
		return nil, fmt.Errorf("create user: %w", err)
	}

	s.log.Info("User created by admin",
		zap.String("user_id", user.ID.String()),
		zap.String("username", user.Username),
		zap.String("role", string(user.Role)),
		zap.String("admin_id", actor.UserID.String()),
	)

	resp := response.UserToResponse(user)
	return &resp, nil
}

func (s *userService) GetUser(ctx context.Context, actor Actor, username string) (*response.UserResponse, error) {
	if err := authorize(actor, ResourceUser, ActionRetrieve, false); err != nil {
		return nil, err
	}

	user, err := s.findByUsername(ctx, username)
	if err != nil {
		return nil, err
	}

	resp := response.UserToResponse(user)
	return &resp, nil
}

func (s *userService) UpdateUser(ctx context.Context, actor Actor, username string, req *request.UpdateUserRequest) (*response.UserResponse, error) {
	if err := authorize(actor, ResourceUser, ActionUpdate, false); err != nil {
		return nil, err
	}
	if req.Email != nil {
		*req.Email = normalizeEmail(*req.Email)
	}
	if err := validate(req); err != nil {
		return nil, err
	}

	user, err := s.findByUsername(ctx, username)
	if err != nil {
		return nil, err
	}

	applyProfileChanges(user, req.Username, req.Email, req.FirstName, req.LastName, req.Bio)
	if req.Role != nil {
		user.Role = entity.UserRole(*req.Role)
	}

	return s.save(ctx, user)
}

func (s *userService) DeleteUser(ctx context.Context, actor Actor, username string) error {
	if err := authorize(actor, ResourceUser, ActionDelete, false); err != nil {
		return err
	}

	user, err := s.findByUsername(ctx, username)
	if err != nil {
		return err
	}

	if err := s.repo.User.Delete(ctx, user.ID); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return NotFoundError("User")
		}
		return fmt.Errorf("delete user: %w", err)
	}

	s.log.Info("User deleted",
		zap.String("user_id", user.ID.String()),
		zap.String("admin_id", actor.UserID.String()))
	return nil
}

func (s *userService) GetProfile(ctx context.Context, actor Actor) (*response.UserResponse, error) {
	if err := authorize(actor, ResourceProfile, ActionRetrieve, true); err != nil {
		return nil, err
	}

	user, err := s.findByID(ctx, actor.UserID)
	if err != nil {
		return nil, err
	}

	resp := response.UserToResponse(user)
	return &resp, nil
}

// UpdateProfile never changes the role, whatever the caller's role is.
func (s *userService) UpdateProfile(ctx context.Context, actor Actor, req *request.UpdateProfileRequest) (*response.UserResponse, error) {
	if err := authorize(actor, ResourceProfile, ActionUpdate, true); err != nil {
		return nil, err
	}
	if req.Email != nil {
		*req.Email = normalizeEmail(*req.Email)
	}
	if err := validate(req); err != nil {
		return nil, err
	}

	user, err := s.findByID(ctx, actor.UserID)
	if err != nil {
		return nil, err
	}

	applyProfileChanges(user, req.Username, req.Email, req.FirstName, req.LastName, req.Bio)

	return s.save(ctx, user)
}

func (s *userService) BootstrapAdmin(ctx context.Context, username, email string) (string, error) {
	email = normalizeEmail(email)
	req := &request.SignupRequest{Username: username, Email: email}
	if err := validate(req); err != nil {
		return "", err
	}

	user, err := s.repo.User.FindByUsername(ctx, username)
	if err != nil {
		return "", fmt.Errorf("find user: %w", err)
	}

	if user == nil {
		now := time.Now()
		user = &entity.User{
			Base:     entity.Base{ID: uuid.New(), CreatedAt: now, UpdatedAt: now},
			Username: username,
			Email:    email,
			Role:     entity.RoleAdmin,
		}
		code, err := s.codes.prepare(user)
		if err != nil {
			return "", err
		}
		if err := s.repo.User.Create(ctx, user); err != nil {
			if verr := userConstraintError(err); verr != nil {
				return "", verr
			}
			return "", fmt.Errorf("create admin: %w", err)
		}
		s.log.Info("Admin created", zap.String("username", username))
		return code, nil
	}

	if user.Role != entity.RoleAdmin {
		user.Role = entity.RoleAdmin
		user.UpdatedAt = time.Now()
		if err := s.repo.User.Update(ctx, user); err != nil {
			return "", fmt.Errorf("promote admin: %w", err)
		}
		s.log.Info("User promoted to admin", zap.String("username", username))
	}

	return s.codes.rotate(ctx, user)
}

// ==================== HELPER METHODS ====================

func (s *userService) findByUsername(ctx context.Context, username string) (*entity.User, error) {
	user, err := s.repo.User.FindByUsername(ctx, username)
	if err != nil {
		return nil, fmt.Errorf("find user %s: %w", username, err)
	}
	if user == nil {
		return nil, NotFoundError("User")
	}
	return user, nil
}

func (s *userService) findByID(ctx context.Context, id uuid.UUID) (*entity.User, error) {
	user, err := s.repo.User.FindByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("find user %s: %w", id.String(), err)
	}
	if user == nil {
		return nil, NotFoundError("User")
	}
	return user, nil
}

func (s *userService) save(ctx context.Context, user *entity.User) (*response.UserResponse, error) {
	if err := s.ensureUnique(ctx, user.ID, user.Username, user.Email); err != nil {
		return nil, err
	}

	user.UpdatedAt = time.Now()
	if err := s.repo.User.Update(ctx, user); err != nil {
		if verr := userConstraintError(err); verr != nil {
			return nil, verr
		}
		if errors.Is(err, repository.ErrNotFound) {
			return nil, NotFoundError("User")
		}
		return nil, fmt.Errorf("update user: %w", err)
	}

	s.log.Info("User updated", zap.String("user_id", user.ID.String()))

	resp := response.UserToResponse(user)
	return &resp, nil
}

// ensureUnique rejects a username or email owned by another user.
func (s *userService) ensureUnique(ctx context.Context, self uuid.UUID, username, email string) error {
	byName, err := s.repo.User.FindByUsername(ctx, username)
	if err != nil {
		return fmt.Errorf("check username: %w", err)
	}
	if byName != nil && byName.ID != self {
		return FieldError("username", "A user with that username already exists")
	}

	byEmail, err := s.repo.User.FindByEmail(ctx, email)
	if err != nil {
		return fmt.Errorf("check email: %w", err)
	}
	if byEmail != nil && byEmail.ID != self {
		return FieldError("email", "A user with this email already exists")
	}

	return nil
}

// normalizeEmail is applied to every email before validation and storage.
func normalizeEmail(email string) string {
	return strings.TrimSpace(email)
}

func applyProfileChanges(user *entity.User, username, email, firstName, lastName, bio *string) {
	if username != nil {
		user.Username = *username
	}
	if email != nil {
		user.Email = normalizeEmail(*email)
	}
	if firstName != nil {
		user.FirstName = *firstName
	}
	if lastName != nil {
		user.LastName = *lastName
	}
	if bio != nil {
		user.Bio = *bio
	}
}

// userConstraintError maps unique violations on users to field errors, or returns nil.
func userConstraintError(err error) *Error {
	switch {
	case repository.IsConstraint(err, repository.ConstraintUserUsername):
		return FieldError("username", "A user with that username already exists")
	case repository.IsConstraint(err, repository.ConstraintUserEmail):
		return FieldError("email", "A user with this email already exists")
	}
	return nil
}
