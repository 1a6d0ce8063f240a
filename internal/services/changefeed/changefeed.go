package changefeed

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	redislib "github.com/redis/go-redis/v9"
	"github.com/robfig/cron/v3"
	"go.uber.org/zap"

	"github.com/roomly/backend/domain"
	"github.com/roomly/backend/internal/infrastructure/feed"
	"github.com/roomly/backend/usecase"
)

// Config controls event retention and how often old events are pruned.
type Config struct {
	Retention     time.Duration
	PruneInterval time.Duration
}

// Service is the change feed: committed mutations land in the Bolt event log
// and fan out over a Redis channel per apartment. Consumers either poll
// Recent for a refreshed snapshot or hold a Subscribe stream open.
type Service struct {
	store  *feed.Store
	redis  *redislib.Client
	logger *zap.Logger
	cron   *cron.Cron
	cfg    Config
}

func New(store *feed.Store, redisClient *redislib.Client, logger *zap.Logger, cfg Config) *Service {
	if cfg.Retention <= 0 {
		cfg.Retention = 24 * time.Hour
	}
	if cfg.PruneInterval <= 0 {
		cfg.PruneInterval = time.Hour
	}
	if logger == nil {
		logger = zap.NewNop()
	}

	s := &Service{
		store:  store,
		redis:  redisClient,
		logger: logger,
		cfg:    cfg,
		cron:   cron.New(),
	}

	schedule := fmt.Sprintf("@every %ds", int(cfg.PruneInterval.Seconds()))
	_, _ = s.cron.AddFunc(schedule, func() {
		if err := s.store.Prune(time.Now().Add(-s.cfg.Retention)); err != nil {
			s.logger.Error("feed prune failed", zap.Error(err))
		}
	})

	return s
}

// Start launches the retention scheduler.
func (s *Service) Start() {
	if s == nil || s.cron == nil {
		return
	}
	s.cron.Start()
	s.logger.Info("change feed started")
}

// Stop gracefully stops the scheduler.
func (s *Service) Stop(ctx context.Context) {
	if s == nil || s.cron == nil {
		return
	}
	stopCtx := s.cron.Stop()
	select {
	case <-stopCtx.Done():
	case <-ctx.Done():
	}
	s.logger.Info("change feed stopped")
}

// Notify persists the event and publishes it to the apartment's channel.
func (s *Service) Notify(ctx context.Context, event domain.Event) error {
	if event.ID == "" {
		event.ID = uuid.NewString()
	}
	if event.CreatedAt.IsZero() {
		event.CreatedAt = time.Now()
	}

	if err := s.store.Append(event); err != nil {
		return err
	}

	payload, err := json.Marshal(event)
	if err != nil {
		return err
	}
	if err := s.redis.Publish(ctx, channelFor(event.ApartmentID), payload).Err(); err != nil {
		// Log-level only: the event is durable in the log, live listeners
		// simply miss one push and catch up via Recent.
		s.logger.Warn("event publish failed",
			zap.String("apartment_id", event.ApartmentID),
			zap.Error(err),
		)
	}
	return nil
}

// Recent returns the apartment's events newer than since, oldest first.
func (s *Service) Recent(apartmentID string, since time.Time, limit int) ([]domain.Event, error) {
	return s.store.Recent(apartmentID, since, limit)
}

// Subscribe opens a live event stream for one apartment. The returned cancel
// function releases the underlying Redis subscription; callers must invoke it
// when the consumer goes away.
func (s *Service) Subscribe(ctx context.Context, apartmentID string) (<-chan domain.Event, func()) {
	sub := s.redis.Subscribe(ctx, channelFor(apartmentID))
	events := make(chan domain.Event, 16)

	go func() {
		defer close(events)
		for msg := range sub.Channel() {
			var event domain.Event
			if err := json.Unmarshal([]byte(msg.Payload), &event); err != nil {
				s.logger.Warn("malformed feed message", zap.Error(err))
				continue
			}
			select {
			case events <- event:
			case <-ctx.Done():
				return
			}
		}
	}()

	cancel := func() {
		if err := sub.Close(); err != nil {
			s.logger.Debug("subscription close", zap.Error(err))
		}
	}
	return events, cancel
}

// Size exposes the event-log size for monitoring.
func (s *Service) Size() (int, error) {
	return s.store.Size()
}

func channelFor(apartmentID string) string {
	return "feed:apartment:" + apartmentID
}

var _ usecase.ChangeNotifier = (*Service)(nil)
