package repo

import (
	"context"
	"database/sql"

	"github.com/didi/gendry/builder"

	"github.com/databridge/databridge/internal/model"
	"github.com/databridge/databridge/internal/pkg/dbutil"
)

type FeedPostRepo struct {
	db *sql.DB
}

func NewFeedPostRepo(db *sql.DB) *FeedPostRepo {
	return &FeedPostRepo{db: db}
}

// InsertNew inserts posts whose URL has not been seen before and reports how
// many rows were actually added. The URL is the natural de-duplication key.
func (r *FeedPostRepo) InsertNew(ctx context.Context, posts []model.FeedPost) (int, error) {
	const query = `
		INSERT INTO feed_posts (id, title, url, subreddit, score, created_utc, content)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		ON CONFLICT (url) DO NOTHING
	`
	inserted := 0
	for _, post := range posts {
		res, err := r.db.ExecContext(ctx, query,
			post.ID,
			post.Title,
			post.URL,
			post.Subreddit,
			post.Score,
			post.CreatedUTC,
			post.Content,
		)
		if err != nil {
			return inserted, err
		}
		affected, err := res.RowsAffected()
		if err != nil {
			return inserted, err
		}
		inserted += int(affected)
	}
	return inserted, nil
}

func (r *FeedPostRepo) List(ctx context.Context) ([]model.FeedPost, error) {
	where := map[string]interface{}{
		"_orderby": "created_utc desc",
	}
	fields := []string{"id", "title", "url", "subreddit", "score", "created_utc", "content"}
	sqlStr, args, err := builder.BuildSelect("feed_posts", where, fields)
	if err != nil {
		return nil, err
	}
	sqlStr, args = dbutil.Finalize(sqlStr, args)
	rows, err := r.db.QueryContext(ctx, sqlStr, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var posts []model.FeedPost
	for rows.Next() {
		var post model.FeedPost
		if err := rows.Scan(
			&post.ID,
			&post.Title,
			&post.URL,
			&post.Subreddit,
			&post.Score,
			&post.CreatedUTC,
			&post.Content,
		); err != nil {
			return nil, err
		}
		posts = append(posts, post)
	}
	return posts, rows.Err()
}
