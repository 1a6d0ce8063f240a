package repository

import (
	"context"

	"github.com/roomly/backend/domain"
)

// ApartmentRepository persists apartments and their member rosters.
//
// UpdateMembers is a conditional write: it only applies when the stored
// version matches expectedVersion and returns domain.ErrVersionConflict
// otherwise. This is what makes concurrent joins safe.
type ApartmentRepository interface {
	GetByID(ctx context.Context, id string) (*domain.Apartment, error)
	GetByCode(ctx context.Context, code string) (*domain.Apartment, error)
	ListByMember(ctx context.Context, userID string) ([]domain.Apartment, error)
	Create(ctx context.Context, apartment *domain.Apartment) (*domain.Apartment, error)
	UpdateMembers(ctx context.Context, id string, members []string, expectedVersion int) error
	UpdateCode(ctx context.Context, id string, code string) error
	CodeExists(ctx context.Context, code string) (bool, error)
}
