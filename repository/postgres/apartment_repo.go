package postgres

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/roomly/backend/domain"
	"github.com/roomly/backend/repository"
)

type apartmentRepository struct {
	pool *pgxpool.Pool
}

// NewApartmentRepository returns a Postgres-backed implementation of ApartmentRepository.
func NewApartmentRepository(pool *pgxpool.Pool) repository.ApartmentRepository {
	return &apartmentRepository{pool: pool}
}

const apartmentColumns = `id, name, address, code, members, capacity, version, created_at, updated_at`

func (r *apartmentRepository) GetByID(ctx context.Context, id string) (*domain.Apartment, error) {
	const query = `
	SELECT ` + apartmentColumns + `
	FROM apartments
	WHERE id = $1
	`
	return scanApartment(r.pool.QueryRow(ctx, query, id))
}

func (r *apartmentRepository) GetByCode(ctx context.Context, code string) (*domain.Apartment, error) {
	const query = `
	SELECT ` + apartmentColumns + `
	FROM apartments
	WHERE code = $1
	`
	return scanApartment(r.pool.QueryRow(ctx, query, code))
}

func (r *apartmentRepository) ListByMember(ctx context.Context, userID string) ([]domain.Apartment, error) {
	const query = `
	SELECT ` + apartmentColumns + `
	FROM apartments
	WHERE $1 = ANY(members)
	ORDER BY created_at DESC
	`
	rows, err := r.pool.Query(ctx, query, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var apartments []domain.Apartment
	for rows.Next() {
		apt, err := scanApartment(rows)
		if err != nil {
			return nil, err
		}
		apartments = append(apartments, *apt)
	}
	return apartments, rows.Err()
}

func (r *apartmentRepository) Create(ctx context.Context, apartment *domain.Apartment) (*domain.Apartment, error) {
	if apartment == nil {
		return nil, domain.ErrInvalidPayload
	}
	if apartment.ID == "" {
		apartment.ID = uuid.NewString()
	}
	if apartment.Capacity <= 0 {
		apartment.Capacity = domain.DefaultCapacity
	}

	const query = `
	INSERT INTO apartments (id, name, address, code, members, capacity, version)
	VALUES ($1, $2, $3, $4, $5, $6, 1)
	RETURNING version, created_at, updated_at
	`

	if err := r.pool.QueryRow(ctx, query,
		apartment.ID,
		apartment.Name,
		apartment.Address,
		apartment.Code,
		apartment.Members,
		apartment.Capacity,
	).Scan(&apartment.Version, &apartment.CreatedAt, &apartment.UpdatedAt); err != nil {
		if isUniqueViolation(err) {
			return nil, domain.ErrCodeTaken
		}
		return nil, err
	}

	return apartment, nil
}

// UpdateMembers replaces the roster only when the row still carries
// expectedVersion, so two concurrent joins cannot both win.
func (r *apartmentRepository) UpdateMembers(ctx context.Context, id string, members []string, expectedVersion int) error {
	const query = `
	UPDATE apartments
	SET members = $2,
		version = version + 1,
		updated_at = NOW()
	WHERE id = $1 AND version = $3
	`
	tag, err := r.pool.Exec(ctx, query, id, members, expectedVersion)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		// Row gone or version moved; disambiguate for the caller.
		if _, err := r.GetByID(ctx, id); err != nil {
			return err
		}
		return domain.ErrVersionConflict
	}
	return nil
}

func (r *apartmentRepository) UpdateCode(ctx context.Context, id string, code string) error {
	const query = `
	UPDATE apartments
	SET code = $2,
		updated_at = NOW()
	WHERE id = $1
	`
	tag, err := r.pool.Exec(ctx, query, id, code)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrCodeTaken
		}
		return err
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrApartmentNotFound
	}
	return nil
}

func (r *apartmentRepository) CodeExists(ctx context.Context, code string) (bool, error) {
	const query = `SELECT EXISTS (SELECT 1 FROM apartments WHERE code = $1)`
	var exists bool
	if err := r.pool.QueryRow(ctx, query, code).Scan(&exists); err != nil {
		return false, err
	}
	return exists, nil
}

func scanApartment(row interface {
	Scan(dest ...interface{}) error
}) (*domain.Apartment, error) {
	var apt domain.Apartment
	if err := row.Scan(
		&apt.ID,
		&apt.Name,
		&apt.Address,
		&apt.Code,
		&apt.Members,
		&apt.Capacity,
		&apt.Version,
		&apt.CreatedAt,
		&apt.UpdatedAt,
	); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrApartmentNotFound
		}
		return nil, err
	}
	return &apt, nil
}
