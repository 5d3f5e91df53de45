package repository

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/explorewithme/ewm/shared/models"
	"github.com/lib/pq"
)

// StatsFilter selects the hits aggregated by Stats. An empty URIs slice
// means every URI.
type StatsFilter struct {
	Start  time.Time
	End    time.Time
	URIs   []string
	Unique bool
}

type HitRepository struct {
	db *sql.DB
}

func NewHitRepository(db *sql.DB) *HitRepository {
	return &HitRepository{db: db}
}

func (r *HitRepository) Save(ctx context.Context, hit *models.EndpointHit) error {
	err := r.db.QueryRowContext(ctx,
		`INSERT INTO hits (app, uri, ip, timestamp) VALUES ($1, $2, $3, $4) RETURNING id`,
		hit.App, hit.URI, hit.IP, hit.Timestamp,
	).Scan(&hit.ID)
	if err != nil {
		return fmt.Errorf("failed to save hit: %w", err)
	}
	return nil
}

// Stats counts hits per app and URI inside [Start, End], most viewed first.
// With Unique set, each IP counts once per group.
func (r *HitRepository) Stats(ctx context.Context, f StatsFilter) ([]models.ViewStats, error) {
	count := "COUNT(ip)"
	if f.Unique {
		count = "COUNT(DISTINCT ip)"
	}
	query := `SELECT app, uri, ` + count + ` AS hits FROM hits WHERE timestamp BETWEEN $1 AND $2`
	args := []any{f.Start, f.End}
	if len(f.URIs) > 0 {
		query += ` AND uri = ANY($3)`
		args = append(args, pq.Array(f.URIs))
	}
	query += ` GROUP BY app, uri ORDER BY hits DESC, app, uri`

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query stats: %w", err)
	}
	defer rows.Close()

	stats := []models.ViewStats{}
	for rows.Next() {
		var s models.ViewStats
		if err := rows.Scan(&s.App, &s.URI, &s.Hits); err != nil {
			return nil, fmt.Errorf("failed to scan stats: %w", err)
		}
		stats = append(stats, s)
	}
	return stats, rows.Err()
}
