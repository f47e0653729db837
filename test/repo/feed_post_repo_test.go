package repo_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/databridge/databridge/internal/model"
	"github.com/databridge/databridge/internal/repo"
	"github.com/databridge/databridge/test/testutil"
)

func TestFeedPostRepoDedupeByURL(t *testing.T) {
	db, cleanup := testutil.OpenTestDB(t)
	defer cleanup()

	posts := repo.NewFeedPostRepo(db)
	url := "https://reddit.example.com/" + uniqueID("post")

	inserted, err := posts.InsertNew(context.Background(), []model.FeedPost{
		{ID: uniqueID("id"), Title: "first", URL: url, Subreddit: "smallbusiness", Score: 10, CreatedUTC: 1700000000},
	})
	require.NoError(t, err)
	require.Equal(t, 1, inserted)

	inserted, err = posts.InsertNew(context.Background(), []model.FeedPost{
		{ID: uniqueID("id"), Title: "duplicate", URL: url, Subreddit: "smallbusiness", Score: 20, CreatedUTC: 1700000100},
		{ID: uniqueID("id"), Title: "fresh", URL: url + "-next", Subreddit: "smallbusiness", Score: 5, CreatedUTC: 1700000200},
	})
	require.NoError(t, err)
	require.Equal(t, 1, inserted)
}
