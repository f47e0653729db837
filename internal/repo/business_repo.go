package repo

import (
	"context"
	"database/sql"

	"github.com/databridge/databridge/internal/model"
	appErr "github.com/databridge/databridge/internal/pkg/errors"
)

type BusinessRepo struct {
	db *sql.DB
}

func NewBusinessRepo(db *sql.DB) *BusinessRepo {
	return &BusinessRepo{db: db}
}

// Upsert merge-writes the profile: a second call for the same user overwrites
// the previous fields and leaves exactly one row.
func (r *BusinessRepo) Upsert(ctx context.Context, profile *model.BusinessProfile) error {
	const query = `
		INSERT INTO businesses (user_id, business_name, location, industry, website, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6)
		ON CONFLICT (user_id) DO UPDATE SET
			business_name = EXCLUDED.business_name,
			location = EXCLUDED.location,
			industry = EXCLUDED.industry,
			website = EXCLUDED.website,
			updated_at = EXCLUDED.updated_at
	`
	_, err := r.db.ExecContext(ctx, query,
		profile.UserID,
		profile.BusinessName,
		profile.Location,
		profile.Industry,
		profile.Website,
		profile.UpdatedAt,
	)
	return err
}

func (r *BusinessRepo) Get(ctx context.Context, userID string) (*model.BusinessProfile, error) {
	const query = `
		SELECT user_id, business_name, location, industry, website, updated_at
		FROM businesses
		WHERE user_id = $1
	`
	row := r.db.QueryRowContext(ctx, query, userID)
	var profile model.BusinessProfile
	if err := row.Scan(
		&profile.UserID,
		&profile.BusinessName,
		&profile.Location,
		&profile.Industry,
		&profile.Website,
		&profile.UpdatedAt,
	); err != nil {
		if err == sql.ErrNoRows {
			return nil, appErr.ErrNotFound
		}
		return nil, err
	}
	return &profile, nil
}
