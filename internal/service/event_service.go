package service

import (
	"context"
	"fmt"
	"time"

	"github.com/xxxsen/common/logutil"
	"go.uber.org/zap"

	"github.com/databridge/databridge/internal/events"
	"github.com/databridge/databridge/internal/model"
	appErr "github.com/databridge/databridge/internal/pkg/errors"
	"github.com/databridge/databridge/internal/repo"
)

type eventFetcher interface {
	FetchEvents(ctx context.Context, location string) ([]events.TicketmasterEvent, error)
}

type eventStore interface {
	UpsertBatch(ctx context.Context, items []model.Event) error
	ListByMonth(ctx context.Context, userID, yearMonth string) ([]model.Event, error)
}

// EventService syncs provider listings into the per-user monthly event store.
type EventService struct {
	fetcher eventFetcher
	store   eventStore
	now     func() time.Time
}

func NewEventService(fetcher eventFetcher, store eventStore) *EventService {
	return &EventService{
		fetcher: fetcher,
		store:   store,
		now:     time.Now,
	}
}

// Sync fetches the current month's listings around the given location and
// upserts them under the user. Returns the number of events written.
func (s *EventService) Sync(ctx context.Context, userID, location string) (int, error) {
	if userID == "" {
		return 0, fmt.Errorf("%w: user id is required", appErr.ErrInvalid)
	}
	if location == "" {
		return 0, fmt.Errorf("%w: location is required", appErr.ErrInvalid)
	}
	logger := logutil.GetLogger(ctx).With(zap.String("user_id", userID))

	listings, err := s.fetcher.FetchEvents(ctx, location)
	if err != nil {
		return 0, err
	}
	if len(listings) == 0 {
		logger.Info("no events found for location")
		return 0, nil
	}

	now := s.now().Unix()
	items := make([]model.Event, 0, len(listings))
	for _, ev := range listings {
		items = append(items, model.Event{
			UserID:      userID,
			EventID:     ev.EventID,
			YearMonth:   repo.YearMonthKey(ev.StartDate),
			Name:        ev.Name,
			Description: ev.Description,
			StartDate:   ev.StartDate,
			EndDate:     ev.EndDate,
			URL:         ev.URL,
			Venue:       ev.Venue,
			CreatedAt:   now,
		})
	}
	if err := s.store.UpsertBatch(ctx, items); err != nil {
		return 0, err
	}
	logger.Info("events synced", zap.Int("count", len(items)))
	return len(items), nil
}

// ListMonth returns the user's synced events for a given "YYYY-MM" key.
func (s *EventService) ListMonth(ctx context.Context, userID, yearMonth string) ([]model.Event, error) {
	if userID == "" || yearMonth == "" {
		return nil, fmt.Errorf("%w: user id and month are required", appErr.ErrInvalid)
	}
	return s.store.ListByMonth(ctx, userID, yearMonth)
}
