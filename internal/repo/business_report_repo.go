package repo

import (
	"context"
	"database/sql"
	"encoding/json"

	"github.com/databridge/databridge/internal/model"
)

type BusinessReportRepo struct {
	db *sql.DB
}

func NewBusinessReportRepo(db *sql.DB) *BusinessReportRepo {
	return &BusinessReportRepo{db: db}
}

func (r *BusinessReportRepo) Insert(ctx context.Context, report *model.BusinessReport) error {
	competitors, err := json.Marshal(report.Competitors)
	if err != nil {
		return err
	}
	insights, err := json.Marshal(report.MarketInsights)
	if err != nil {
		return err
	}
	trends, err := json.Marshal(report.TrendingTopics)
	if err != nil {
		return err
	}
	const query = `
		INSERT INTO business_reports (id, user_id, competitors, market_insights, trending_topics, generated_at, valid_until)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
	`
	_, err = r.db.ExecContext(ctx, query,
		report.ID,
		report.UserID,
		competitors,
		insights,
		trends,
		report.GeneratedAt,
		report.ValidUntil,
	)
	return err
}

// GetLatestSince returns the newest insight report generated after cutoff, or
// (nil, nil) when the user has no report in the window.
func (r *BusinessReportRepo) GetLatestSince(ctx context.Context, userID string, cutoff int64) (*model.BusinessReport, error) {
	const query = `
		SELECT id, user_id, competitors, market_insights, trending_topics, generated_at, valid_until
		FROM business_reports
		WHERE user_id = $1 AND generated_at > $2
		ORDER BY generated_at DESC
		LIMIT 1
	`
	row := r.db.QueryRowContext(ctx, query, userID, cutoff)
	var report model.BusinessReport
	var competitors, insights, trends []byte
	if err := row.Scan(
		&report.ID,
		&report.UserID,
		&competitors,
		&insights,
		&trends,
		&report.GeneratedAt,
		&report.ValidUntil,
	); err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, err
	}
	if err := json.Unmarshal(competitors, &report.Competitors); err != nil {
		return nil, err
	}
	if err := json.Unmarshal(insights, &report.MarketInsights); err != nil {
		return nil, err
	}
	if err := json.Unmarshal(trends, &report.TrendingTopics); err != nil {
		return nil, err
	}
	return &report, nil
}
