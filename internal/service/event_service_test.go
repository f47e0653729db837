package service

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/databridge/databridge/internal/events"
	"github.com/databridge/databridge/internal/model"
	appErr "github.com/databridge/databridge/internal/pkg/errors"
)

type stubEventFetcher struct {
	listings []events.TicketmasterEvent
	err      error
}

func (s *stubEventFetcher) FetchEvents(ctx context.Context, location string) ([]events.TicketmasterEvent, error) {
	if s.err != nil {
		return nil, s.err
	}
	return s.listings, nil
}

type stubEventStore struct {
	upserted []model.Event
}

func (s *stubEventStore) UpsertBatch(ctx context.Context, items []model.Event) error {
	s.upserted = append(s.upserted, items...)
	return nil
}

func (s *stubEventStore) ListByMonth(ctx context.Context, userID, yearMonth string) ([]model.Event, error) {
	var out []model.Event
	for _, item := range s.upserted {
		if item.UserID == userID && item.YearMonth == yearMonth {
			out = append(out, item)
		}
	}
	return out, nil
}

func TestEventSync_RequiresInput(t *testing.T) {
	svc := NewEventService(&stubEventFetcher{}, &stubEventStore{})
	_, err := svc.Sync(context.Background(), "", "Oakland, CA 94607")
	require.ErrorIs(t, err, appErr.ErrInvalid)
	_, err = svc.Sync(context.Background(), "u1", "")
	require.ErrorIs(t, err, appErr.ErrInvalid)
}

func TestEventSync_MapsListingsToMonthlyRows(t *testing.T) {
	now := time.Unix(1_760_000_000, 0)
	fetcher := &stubEventFetcher{listings: []events.TicketmasterEvent{
		{
			EventID:   "ev1",
			Name:      "Jazz Night",
			StartDate: "2026-09-12T20:00:00Z",
			URL:       "https://tickets.example.com/ev1",
			Venue:     "The Blue Note",
		},
		{
			EventID:   "ev2",
			Name:      "Unknown Date Show",
			StartDate: "",
		},
	}}
	store := &stubEventStore{}
	svc := NewEventService(fetcher, store)
	svc.now = func() time.Time { return now }

	count, err := svc.Sync(context.Background(), "u1", "Oakland, CA 94607")
	require.NoError(t, err)
	require.Equal(t, 2, count)
	require.Len(t, store.upserted, 2)

	require.Equal(t, "2026-09", store.upserted[0].YearMonth)
	require.Equal(t, "The Blue Note", store.upserted[0].Venue)
	require.Equal(t, now.Unix(), store.upserted[0].CreatedAt)
	require.Equal(t, "unknown", store.upserted[1].YearMonth)

	listed, err := svc.ListMonth(context.Background(), "u1", "2026-09")
	require.NoError(t, err)
	require.Len(t, listed, 1)
	require.Equal(t, "Jazz Night", listed[0].Name)
}

func TestEventSync_EmptyListings(t *testing.T) {
	store := &stubEventStore{}
	svc := NewEventService(&stubEventFetcher{}, store)
	count, err := svc.Sync(context.Background(), "u1", "Oakland, CA 94607")
	require.NoError(t, err)
	require.Zero(t, count)
	require.Empty(t, store.upserted)
}

func TestEventSync_FetchErrorPropagates(t *testing.T) {
	svc := NewEventService(&stubEventFetcher{err: appErr.ErrUpstream}, &stubEventStore{})
	_, err := svc.Sync(context.Background(), "u1", "Oakland, CA 94607")
	require.ErrorIs(t, err, appErr.ErrUpstream)
}
