package usecase

import (
	"context"
	"fmt"
	"time"

	"yamdb/internal/data/entity"
	"yamdb/internal/data/repository"
	"yamdb/pkg/utils"

	"go.uber.org/zap"
)

// codeIssuer generates and persists confirmation codes. Delivery is left to the caller.
type codeIssuer struct {
	repo   *repository.Repository
	config utils.CodeConfig
	log    *zap.Logger
	now    func() time.Time
}

func newCodeIssuer(repo *repository.Repository, config utils.CodeConfig, log *zap.Logger) *codeIssuer {
	return &codeIssuer{
		repo:   repo,
		config: config,
		log:    log.With(zap.String("component", "confirmation_code")),
		now:    time.Now,
	}
}

func (c *codeIssuer) ttl() time.Duration {
	if c.config.TTLMinutes <= 0 {
		return 24 * time.Hour
	}
	return time.Duration(c.config.TTLMinutes) * time.Minute
}

// prepare generates a code and stores its hash on user without persisting.
func (c *codeIssuer) prepare(user *entity.User) (string, error) {
	code, err := utils.GenerateConfirmationCode(c.config.Length)
	if err != nil {
		return "", err
	}

	hash, err := utils.HashCode(code)
	if err != nil {
		return "", err
	}

	expiresAt := c.now().Add(c.ttl())
	user.ConfirmationCodeHash = &hash
	user.ConfirmationCodeExpiresAt = &expiresAt
	return code, nil
}

// rotate replaces the pending code of an existing user.
func (c *codeIssuer) rotate(ctx context.Context, user *entity.User) (string, error) {
	code, err := c.prepare(user)
	if err != nil {
		return "", err
	}

	if err := c.repo.User.SetConfirmationCode(ctx, user.ID, *user.ConfirmationCodeHash, *user.ConfirmationCodeExpiresAt); err != nil {
		return "", fmt.Errorf("store confirmation code: %w", err)
	}

	c.log.Debug("Confirmation code rotated", zap.String("user_id", user.ID.String()))
	return code, nil
}
