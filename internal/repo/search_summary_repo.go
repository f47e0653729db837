package repo

import (
	"context"
	"database/sql"

	"github.com/databridge/databridge/internal/model"
)

type SearchSummaryRepo struct {
	db *sql.DB
}

func NewSearchSummaryRepo(db *sql.DB) *SearchSummaryRepo {
	return &SearchSummaryRepo{db: db}
}

func (r *SearchSummaryRepo) Insert(ctx context.Context, summary *model.SearchSummary) error {
	const query = `
		INSERT INTO search_summaries (id, user_id, query, summary, created_at)
		VALUES ($1, $2, $3, $4, $5)
	`
	_, err := r.db.ExecContext(ctx, query,
		summary.ID,
		summary.UserID,
		summary.Query,
		summary.Summary,
		summary.CreatedAt,
	)
	return err
}

func (r *SearchSummaryRepo) ListByUser(ctx context.Context, userID string) ([]model.SearchSummary, error) {
	const query = `
		SELECT id, user_id, query, summary, created_at
		FROM search_summaries
		WHERE user_id = $1
		ORDER BY created_at DESC
	`
	rows, err := r.db.QueryContext(ctx, query, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var summaries []model.SearchSummary
	for rows.Next() {
		var item model.SearchSummary
		if err := rows.Scan(&item.ID, &item.UserID, &item.Query, &item.Summary, &item.CreatedAt); err != nil {
			return nil, err
		}
		summaries = append(summaries, item)
	}
	return summaries, rows.Err()
}
