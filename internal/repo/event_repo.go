package repo

import (
	"context"
	"database/sql"
	"strings"

	"github.com/didi/gendry/builder"

	"github.com/databridge/databridge/internal/model"
	"github.com/databridge/databridge/internal/pkg/dbutil"
)

type EventRepo struct {
	db *sql.DB
}

func NewEventRepo(db *sql.DB) *EventRepo {
	return &EventRepo{db: db}
}

// UpsertBatch writes the month's synced events; re-syncing the same month
// replaces existing rows by (user_id, year_month, event_id).
func (r *EventRepo) UpsertBatch(ctx context.Context, items []model.Event) error {
	const query = `
		INSERT INTO events (user_id, event_id, year_month, name, description, start_date, end_date, url, venue, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
		ON CONFLICT (user_id, year_month, event_id) DO UPDATE SET
			name = EXCLUDED.name,
			description = EXCLUDED.description,
			start_date = EXCLUDED.start_date,
			end_date = EXCLUDED.end_date,
			url = EXCLUDED.url,
			venue = EXCLUDED.venue,
			created_at = EXCLUDED.created_at
	`
	for _, item := range items {
		if _, err := r.db.ExecContext(ctx, query,
			item.UserID,
			item.EventID,
			item.YearMonth,
			item.Name,
			item.Description,
			item.StartDate,
			item.EndDate,
			item.URL,
			item.Venue,
			item.CreatedAt,
		); err != nil {
			return err
		}
	}
	return nil
}

func (r *EventRepo) ListByMonth(ctx context.Context, userID, yearMonth string) ([]model.Event, error) {
	where := map[string]interface{}{
		"user_id":    userID,
		"year_month": yearMonth,
		"_orderby":   "event_id",
	}
	fields := []string{"user_id", "event_id", "year_month", "name", "description", "start_date", "end_date", "url", "venue", "created_at"}
	sqlStr, args, err := builder.BuildSelect("events", where, fields)
	if err != nil {
		return nil, err
	}
	sqlStr, args = dbutil.Finalize(sqlStr, args)
	rows, err := r.db.QueryContext(ctx, sqlStr, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var items []model.Event
	for rows.Next() {
		var item model.Event
		if err := rows.Scan(
			&item.UserID,
			&item.EventID,
			&item.YearMonth,
			&item.Name,
			&item.Description,
			&item.StartDate,
			&item.EndDate,
			&item.URL,
			&item.Venue,
			&item.CreatedAt,
		); err != nil {
			return nil, err
		}
		items = append(items, item)
	}
	return items, rows.Err()
}

// YearMonthKey renders the sub-collection key for a start date, e.g. "2026-09".
func YearMonthKey(startDate string) string {
	if len(startDate) >= 7 && strings.Count(startDate[:7], "-") == 1 {
		return startDate[:7]
	}
	return "unknown"
}
