package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/databridge/databridge/internal/model"
)

type stubFeedStore struct {
	seen  map[string]struct{}
	posts []model.FeedPost
}

func newStubFeedStore() *stubFeedStore {
	return &stubFeedStore{seen: make(map[string]struct{})}
}

func (s *stubFeedStore) InsertNew(ctx context.Context, posts []model.FeedPost) (int, error) {
	inserted := 0
	for _, post := range posts {
		if _, ok := s.seen[post.URL]; ok {
			continue
		}
		s.seen[post.URL] = struct{}{}
		s.posts = append(s.posts, post)
		inserted++
	}
	return inserted, nil
}

func (s *stubFeedStore) List(ctx context.Context) ([]model.FeedPost, error) {
	return s.posts, nil
}

func TestFeedIngest_AssignsIDsAndDedupes(t *testing.T) {
	store := newStubFeedStore()
	svc := NewFeedService(store)

	inserted, err := svc.Ingest(context.Background(), []model.FeedPost{
		{Title: "first", URL: "https://reddit.example.com/1"},
		{Title: "second", URL: "https://reddit.example.com/2"},
	})
	require.NoError(t, err)
	require.Equal(t, 2, inserted)
	for _, post := range store.posts {
		require.NotEmpty(t, post.ID)
	}

	inserted, err = svc.Ingest(context.Background(), []model.FeedPost{
		{Title: "first again", URL: "https://reddit.example.com/1"},
		{Title: "third", URL: "https://reddit.example.com/3"},
	})
	require.NoError(t, err)
	require.Equal(t, 1, inserted)
	require.Len(t, store.posts, 3)
}

func TestFeedIngest_EmptyBatch(t *testing.T) {
	svc := NewFeedService(newStubFeedStore())
	inserted, err := svc.Ingest(context.Background(), nil)
	require.NoError(t, err)
	require.Zero(t, inserted)
}

func TestFeedList_NeverNil(t *testing.T) {
	svc := NewFeedService(newStubFeedStore())
	posts, err := svc.List(context.Background())
	require.NoError(t, err)
	require.NotNil(t, posts)
	require.Empty(t, posts)
}
