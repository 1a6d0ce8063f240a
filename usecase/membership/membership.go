package membership

import (
	"context"
	"encoding/json"
	"regexp"
	"strings"

	"go.uber.org/zap"

	"github.com/roomly/backend/domain"
	"github.com/roomly/backend/repository"
	"github.com/roomly/backend/usecase"
)

var codePattern = regexp.MustCompile(`^[0-9]{6}$`)

// Config tunes roster capacity and the bounded retry budgets.
type Config struct {
	Capacity    int
	JoinRetries int
	CodeRetries int
}

// UseCase owns the apartment lifecycle: creation, join-code issuance,
// join-by-code resolution, and roster updates.
type UseCase struct {
	apartments repository.ApartmentRepository
	users      repository.UserRepository
	notifier   usecase.ChangeNotifier
	logger     *zap.Logger
	cfg        Config
}

func New(apartments repository.ApartmentRepository, users repository.UserRepository, notifier usecase.ChangeNotifier, logger *zap.Logger, cfg Config) *UseCase {
	if logger == nil {
		logger = zap.NewNop()
	}
	if cfg.Capacity <= 0 {
		cfg.Capacity = domain.DefaultCapacity
	}
	if cfg.JoinRetries <= 0 {
		cfg.JoinRetries = 3
	}
	if cfg.CodeRetries <= 0 {
		cfg.CodeRetries = 5
	}
	return &UseCase{
		apartments: apartments,
		users:      users,
		notifier:   notifier,
		logger:     logger,
		cfg:        cfg,
	}
}

// CreateApartment persists a new apartment with the creator as its only
// member and a collision-checked 6-digit join code.
func (uc *UseCase) CreateApartment(ctx context.Context, name, address, creatorID string) (*domain.Apartment, error) {
	name = strings.TrimSpace(name)
	address = strings.TrimSpace(address)
	if name == "" || address == "" {
		return nil, domain.NewError(domain.ErrCodeInvalid, "name and address are required")
	}
	if _, err := uc.users.GetByID(ctx, creatorID); err != nil {
		return nil, err
	}

	var lastErr error
	for attempt := 0; attempt < uc.cfg.CodeRetries; attempt++ {
		code, err := generateCode()
		if err != nil {
			return nil, domain.WrapError(domain.ErrCodeInternal, "join code generation failed", err)
		}
		if exists, err := uc.apartments.CodeExists(ctx, code); err != nil {
			return nil, err
		} else if exists {
			lastErr = domain.ErrCodeTaken
			continue
		}

		apartment := &domain.Apartment{
			Name:     name,
			Address:  address,
			Code:     code,
			Members:  []string{creatorID},
			Capacity: uc.cfg.Capacity,
		}
		created, err := uc.apartments.Create(ctx, apartment)
		if err != nil {
			// Another creator won the code between the existence check and
			// the insert; draw again.
			if domain.IsDomainError(err, domain.ErrCodeConflict) {
				lastErr = err
				continue
			}
			return nil, err
		}

		uc.emit(ctx, created.ID, domain.EntityApartment, domain.ActionCreated, creatorID, created)
		return created, nil
	}
	return nil, domain.WrapError(domain.ErrCodeInternal, "could not allocate a unique join code", lastErr)
}

// JoinApartment adds the joiner to the roster resolved by join code. The
// read-check-write runs as an optimistic-concurrency loop: a version conflict
// means another join landed first, so the roster is re-read and re-checked a
// bounded number of times.
func (uc *UseCase) JoinApartment(ctx context.Context, code, joinerID string) (*domain.Apartment, error) {
	code = strings.TrimSpace(code)
	if !codePattern.MatchString(code) {
		return nil, domain.NewError(domain.ErrCodeInvalid, "join code must be exactly 6 digits")
	}
	if _, err := uc.users.GetByID(ctx, joinerID); err != nil {
		return nil, err
	}

	for attempt := 0; attempt < uc.cfg.JoinRetries; attempt++ {
		apartment, err := uc.apartments.GetByCode(ctx, code)
		if err != nil {
			return nil, err
		}
		if apartment.HasMember(joinerID) {
			return nil, domain.ErrAlreadyMember
		}
		if apartment.IsFull() {
			return nil, domain.ErrApartmentFull
		}

		members := append(append([]string(nil), apartment.Members...), joinerID)
		err = uc.apartments.UpdateMembers(ctx, apartment.ID, members, apartment.Version)
		if err == nil {
			apartment.Members = members
			apartment.Version++
			uc.emit(ctx, apartment.ID, domain.EntityApartment, domain.ActionJoined, joinerID, apartment)
			return apartment, nil
		}
		if !domain.IsRetryable(err) {
			return nil, err
		}
		uc.logger.Debug("join lost roster race, retrying",
			zap.String("apartment_id", apartment.ID),
			zap.Int("attempt", attempt+1),
		)
	}
	return nil, domain.ErrVersionConflict
}

// SetCode replaces the apartment's join code. Only members may do this.
func (uc *UseCase) SetCode(ctx context.Context, apartmentID, newCode, callerID string) error {
	newCode = strings.TrimSpace(newCode)
	if !codePattern.MatchString(newCode) {
		return domain.NewError(domain.ErrCodeInvalid, "join code must be exactly 6 digits")
	}

	apartment, err := uc.apartments.GetByID(ctx, apartmentID)
	if err != nil {
		return err
	}
	if !apartment.HasMember(callerID) {
		return domain.ErrNotMember
	}
	if apartment.Code == newCode {
		return nil
	}

	if err := uc.apartments.UpdateCode(ctx, apartmentID, newCode); err != nil {
		return err
	}
	apartment.Code = newCode
	uc.emit(ctx, apartmentID, domain.EntityApartment, domain.ActionUpdated, callerID, apartment)
	return nil
}

// ListApartments returns every apartment the user belongs to.
func (uc *UseCase) ListApartments(ctx context.Context, userID string) ([]domain.Apartment, error) {
	return uc.apartments.ListByMember(ctx, userID)
}

// GetApartment resolves one apartment, members only.
func (uc *UseCase) GetApartment(ctx context.Context, apartmentID, callerID string) (*domain.Apartment, error) {
	apartment, err := uc.apartments.GetByID(ctx, apartmentID)
	if err != nil {
		return nil, err
	}
	if !apartment.HasMember(callerID) {
		return nil, domain.ErrNotMember
	}
	return apartment, nil
}

// Roster resolves the member ids of an apartment into user records, keeping
// roster order. Users that no longer resolve are skipped.
func (uc *UseCase) Roster(ctx context.Context, apartmentID, callerID string) ([]domain.User, error) {
	apartment, err := uc.GetApartment(ctx, apartmentID, callerID)
	if err != nil {
		return nil, err
	}

	roster := make([]domain.User, 0, len(apartment.Members))
	for _, memberID := range apartment.Members {
		user, err := uc.users.GetByID(ctx, memberID)
		if err != nil {
			if domain.IsDomainError(err, domain.ErrCodeNotFound) {
				uc.logger.Warn("roster references missing user",
					zap.String("apartment_id", apartmentID),
					zap.String("user_id", memberID),
				)
				continue
			}
			return nil, err
		}
		roster = append(roster, *user)
	}
	return roster, nil
}

func (uc *UseCase) emit(ctx context.Context, apartmentID, entity, action, actorID string, payload interface{}) {
	if uc.notifier == nil {
		return
	}
	raw, err := json.Marshal(payload)
	if err != nil {
		raw = nil
	}
	event := domain.Event{
		ApartmentID: apartmentID,
		Entity:      entity,
		Action:      action,
		ActorID:     actorID,
		Payload:     raw,
	}
	if err := uc.notifier.Notify(ctx, event); err != nil {
		uc.logger.Warn("change event dropped", zap.String("entity", entity), zap.Error(err))
	}
}
