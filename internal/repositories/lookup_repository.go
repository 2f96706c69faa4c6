package repositories

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"

	"tglive/internal/models"
)

// LookupRepository records successful channel resolutions for the recent
// lookups endpoint.
type LookupRepository interface {
	RecordLookup(ctx context.Context, info models.ChannelInfo) error
	RecentLookups(ctx context.Context, limit int) ([]models.ChannelLookup, error)
}

type lookupRepository struct {
	db *sqlx.DB
}

func NewLookupRepository(db *sqlx.DB) LookupRepository {
	return &lookupRepository{db: db}
}

func (r *lookupRepository) RecordLookup(ctx context.Context, info models.ChannelInfo) error {
	query := `
		INSERT INTO channel_lookups (username, channel_id, title, member_count, looked_up_at)
		VALUES ($1, $2, $3, $4, NOW())
		ON CONFLICT (username) DO UPDATE
		SET channel_id = EXCLUDED.channel_id,
		    title = EXCLUDED.title,
		    member_count = EXCLUDED.member_count,
		    looked_up_at = NOW()`
	if _, err := r.db.ExecContext(ctx, query, info.Username, info.ID, info.Title, info.MemberCount); err != nil {
		return fmt.Errorf("record lookup: %w", err)
	}
	return nil
}

func (r *lookupRepository) RecentLookups(ctx context.Context, limit int) ([]models.ChannelLookup, error) {
	if limit <= 0 || limit > 100 {
		limit = 20
	}
	query := `
		SELECT username, channel_id, title, member_count, looked_up_at
		FROM channel_lookups
		ORDER BY looked_up_at DESC
		LIMIT $1`
	lookups := []models.ChannelLookup{}
	if err := r.db.SelectContext(ctx, &lookups, query, limit); err != nil {
		return nil, fmt.Errorf("recent lookups: %w", err)
	}
	return lookups, nil
}
