package repo

import (
	"context"
	"database/sql"
	"encoding/json"

	"github.com/databridge/databridge/internal/model"
)

type ReportRepo struct {
	db *sql.DB
}

func NewReportRepo(db *sql.DB) *ReportRepo {
	return &ReportRepo{db: db}
}

// Insert appends a new report row plus its nested event rows. Reports are
// never edited in place.
func (r *ReportRepo) Insert(ctx context.Context, report *model.Report) error {
	queries, err := json.Marshal(report.SearchQueries)
	if err != nil {
		return err
	}
	urls, err := json.Marshal(report.URLs)
	if err != nil {
		return err
	}
	const query = `
		INSERT INTO reports (id, user_id, email, search_queries, urls, content, events_summary, status, generated_at, valid_until)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
	`
	if _, err := r.db.ExecContext(ctx, query,
		report.ID,
		report.UserID,
		report.Email,
		queries,
		urls,
		report.Content,
		report.EventsSummary,
		report.Status,
		report.GeneratedAt,
		report.ValidUntil,
	); err != nil {
		return err
	}
	return r.insertEvents(ctx, report.ID, report.Events)
}

func (r *ReportRepo) insertEvents(ctx context.Context, reportID string, records []model.EventRecord) error {
	const query = `
		INSERT INTO report_events (report_id, position, title, url, description, extracted_date, extracted_location, source)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
	`
	for i, record := range records {
		if _, err := r.db.ExecContext(ctx, query,
			reportID,
			i,
			record.Title,
			record.URL,
			record.Description,
			record.ExtractedDate,
			record.ExtractedLocation,
			record.Source,
		); err != nil {
			return err
		}
	}
	return nil
}

// GetLatestSince returns the most recently generated report for the user with
// generated_at after cutoff, or (nil, nil) when none qualifies. Returning the
// newest match keeps the freshness gate deterministic when concurrent
// generations left multiple rows in the window.
func (r *ReportRepo) GetLatestSince(ctx context.Context, userID string, cutoff int64) (*model.Report, error) {
	const query = `
		SELECT id, user_id, email, search_queries, urls, content, events_summary, status, generated_at, valid_until
		FROM reports
		WHERE user_id = $1 AND generated_at > $2
		ORDER BY generated_at DESC
		LIMIT 1
	`
	row := r.db.QueryRowContext(ctx, query, userID, cutoff)
	report, err := scanReport(row)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, err
	}
	events, err := r.ListEvents(ctx, report.ID)
	if err != nil {
		return nil, err
	}
	report.Events = events
	return report, nil
}

func (r *ReportRepo) ListEvents(ctx context.Context, reportID string) ([]model.EventRecord, error) {
	const query = `
		SELECT title, url, description, extracted_date, extracted_location, source
		FROM report_events
		WHERE report_id = $1
		ORDER BY position
	`
	rows, err := r.db.QueryContext(ctx, query, reportID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var records []model.EventRecord
	for rows.Next() {
		var record model.EventRecord
		if err := rows.Scan(
			&record.Title,
			&record.URL,
			&record.Description,
			&record.ExtractedDate,
			&record.ExtractedLocation,
			&record.Source,
		); err != nil {
			return nil, err
		}
		records = append(records, record)
	}
	return records, rows.Err()
}

func scanReport(row *sql.Row) (*model.Report, error) {
	var report model.Report
	var queries, urls []byte
	if err := row.Scan(
		&report.ID,
		&report.UserID,
		&report.Email,
		&queries,
		&urls,
		&report.Content,
		&report.EventsSummary,
		&report.Status,
		&report.GeneratedAt,
		&report.ValidUntil,
	); err != nil {
		return nil, err
	}
	if err := json.Unmarshal(queries, &report.SearchQueries); err != nil {
		return nil, err
	}
	if err := json.Unmarshal(urls, &report.URLs); err != nil {
		return nil, err
	}
	return &report, nil
}
