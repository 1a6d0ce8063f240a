package profile

import (
	"context"
	"strings"

	"go.uber.org/zap"

	"github.com/roomly/backend/domain"
	"github.com/roomly/backend/repository"
)

type UseCase struct {
	users  repository.UserRepository
	logger *zap.Logger
}

func New(users repository.UserRepository, logger *zap.Logger) *UseCase {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &UseCase{
		users:  users,
		logger: logger,
	}
}

func (uc *UseCase) GetProfile(ctx context.Context, userID string) (*domain.User, error) {
	return uc.users.GetByID(ctx, userID)
}

// UpdateProfile replaces name, email, and avatar. Password changes go through
// the auth use case, not here.
func (uc *UseCase) UpdateProfile(ctx context.Context, userID, name, email, avatar string) (*domain.User, error) {
	name = strings.TrimSpace(name)
	email = strings.ToLower(strings.TrimSpace(email))
	if name == "" || email == "" {
		return nil, domain.NewError(domain.ErrCodeInvalid, "name and email are required")
	}

	user, err := uc.users.GetByID(ctx, userID)
	if err != nil {
		return nil, err
	}

	user.Name = name
	user.Email = email
	user.Avatar = avatar
	if err := uc.users.Update(ctx, user); err != nil {
		return nil, err
	}
	return user, nil
}
