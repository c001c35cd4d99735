package usecase

import (
	"context"
	"fmt"
	"strings"
	"time"

	"yamdb/internal/data/entity"
	"yamdb/internal/data/repository"
	"yamdb/internal/dto/request"
	"yamdb/internal/dto/response"
	"yamdb/pkg/metrics"
	"yamdb/pkg/utils"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

type AuthService interface {
	Signup(ctx context.Context, req *request.SignupRequest) (*response.SignupResponse, error)
	Token(ctx context.Context, req *request.TokenRequest) (*response.TokenResponse, error)
}

type authService struct {
	repo    *repository.Repository
	codes   *codeIssuer
	mailer  Mailer
	limiter Limiter
	config  *utils.Config
	log     *zap.Logger
}

func NewAuthService(
	repo *repository.Repository,
	codes *codeIssuer,
	mailer Mailer,
	limiter Limiter,
	config *utils.Config,
	log *zap.Logger,
) AuthService {
	return &authService{
		repo:    repo,
		codes:   codes,
		mailer:  mailer,
		limiter: limiter,
		config:  config,
		log:     log.With(zap.String("service", "auth")),
	}
}

// Signup registers a user, or re-issues the code when username and email match an existing one.
func (s *authService) Signup(ctx context.Context, req *request.SignupRequest) (*response.SignupResponse, error) {
	// 1. Validate input
	req.Email = normalizeEmail(req.Email)
	if err := validate(req); err != nil {
		s.log.Warn("Signup validation failed", zap.Error(err))
		return nil, err
	}

	// 2. Existing username: same email resends, different email is rejected
	user, err := s.repo.User.FindByUsername(ctx, req.Username)
	if err != nil {
		return nil, fmt.Errorf("check username: %w", err)
	}

	var code string
	if user != nil {
		if !strings.EqualFold(user.Email, req.Email) {
			return nil, FieldError("email", "Email does not match the one registered for this username")
		}
		if !s.allowResend(ctx, user.ID) {
			return nil, ValidationError("A confirmation code was sent recently, try again later", nil)
		}

		code, err = s.codes.rotate(ctx, user)
		if err != nil {
			s.log.Error("Failed to rotate confirmation code", zap.Error(err), zap.String("user_id", user.ID.String()))
			return nil, fmt.Errorf("rotate confirmation code: %w", err)
		}
	} else {
		// 3. New user: email must be free
		existing, err := s.repo.User.FindByEmail(ctx, req.Email)
		if err != nil {
			return nil, fmt.Errorf("check email: %w", err)
		}
		if existing != nil {
			return nil, FieldError("email", "A user with this email already exists")
		}

		now := time.Now()
		user = &entity.User{
			Base: entity.Base{
				ID:        uuid.New(),
				CreatedAt: now,
				UpdatedAt: now,
			},
			Username: req.Username,
			Email:    req.Email,
			Role:     entity.RoleUser,
		}

		// 4. Generate code, persist, then notify
		code, err = s.codes.prepare(user)
		if err != nil {
			return nil, fmt.Errorf("generate confirmation code: %w", err)
		}

		if err := s.repo.User.Create(ctx, user); err != nil {
			if verr := userConstraintError(err); verr != nil {
				return nil, verr
			}
			s.log.Error("Failed to create user", zap.Error(err), zap.String("username", req.Username))
			return nil, fmt.Errorf("create user: %w", err)
		}
		s.allowResend(ctx, user.ID)

		s.log.Info("User signed up",
			zap.String("user_id", user.ID.String()),
			zap.String("username", user.Username))
	}

	go s.sendConfirmationCode(user.Email, user.Username, code)

	return &response.SignupResponse{Email: user.Email, Username: user.Username}, nil
}

// Token exchanges a username and confirmation code for an access token.
func (s *authService) Token(ctx context.Context, req *request.TokenRequest) (*response.TokenResponse, error) {
	if err := validate(req); err != nil {
		return nil, err
	}

	user, err := s.repo.User.FindByUsername(ctx, req.Username)
	if err != nil {
		return nil, fmt.Errorf("find user: %w", err)
	}
	if user == nil {
		s.log.Warn("Token requested for unknown user", zap.String("username", req.Username))
		return nil, NotFoundError("User")
	}

	invalid := AuthenticationFailedError("confirmation_code", "Invalid or expired confirmation code")
	if !user.HasValidCode(time.Now()) || !utils.CheckCodeHash(req.ConfirmationCode, *user.ConfirmationCodeHash) {
		s.log.Warn("Invalid confirmation code", zap.String("user_id", user.ID.String()))
		return nil, invalid
	}

	consumed, err := s.repo.User.ConsumeConfirmationCode(ctx, user.ID, *user.ConfirmationCodeHash)
	if err != nil {
		return nil, fmt.Errorf("consume confirmation code: %w", err)
	}
	if !consumed {
		return nil, invalid
	}

	token, err := utils.GenerateAccessToken(user.ID, user.Username, string(user.Role), s.config.JWT.Secret, s.tokenTTL())
	if err != nil {
		s.log.Error("Failed to issue token", zap.Error(err), zap.String("user_id", user.ID.String()))
		return nil, err
	}

	s.log.Info("Access token issued",
		zap.String("user_id", user.ID.String()),
		zap.String("username", user.Username))

	return &response.TokenResponse{Token: token}, nil
}

// ==================== HELPER METHODS ====================

func (s *authService) tokenTTL() time.Duration {
	if s.config.JWT.ExpiryHours <= 0 {
		return 24 * time.Hour
	}
	return time.Duration(s.config.JWT.ExpiryHours) * time.Hour
}

// allowResend reserves the resend window for the user. Limiter failures do not block signup.
func (s *authService) allowResend(ctx context.Context, userID uuid.UUID) bool {
	if s.limiter == nil {
		return true
	}

	window := time.Duration(s.config.Code.ResendCooldownSeconds) * time.Second
	ok, err := s.limiter.Allow(ctx, "signup:"+userID.String(), window)
	if err != nil {
		s.log.Warn("Resend cooldown unavailable", zap.Error(err))
		return true
	}
	return ok
}

func (s *authService) sendConfirmationCode(email, username, code string) {
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	subject := "Your confirmation code"
	body := fmt.Sprintf("Hello, %s!\n\nYour confirmation code for API access: %s\n", username, code)

	if err := s.mailer.Send(ctx, email, subject, body); err != nil {
		metrics.EmailsSent.WithLabelValues("failed").Inc()
		s.log.Error("Failed to send confirmation code", zap.Error(err), zap.String("username", username))
		return
	}

	metrics.EmailsSent.WithLabelValues("sent").Inc()
	s.log.Debug("Confirmation code sent", zap.String("username", username))
}
