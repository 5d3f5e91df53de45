package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/explorewithme/ewm/shared/apperrors"
	"github.com/explorewithme/ewm/shared/cqrs"
	"github.com/explorewithme/ewm/shared/database"
	"github.com/explorewithme/ewm/shared/models"
	"github.com/lib/pq"
)

type CompilationRepository struct {
	db *sql.DB
}

func NewCompilationRepository(db *sql.DB) *CompilationRepository {
	return &CompilationRepository{db: db}
}

func (r *CompilationRepository) Create(ctx context.Context, c *models.Compilation) error {
	return database.WithTx(ctx, r.db, func(tx *sql.Tx) error {
		err := tx.QueryRowContext(ctx,
			`INSERT INTO compilations (title, pinned) VALUES ($1, $2) RETURNING id`, c.Title, c.Pinned,
		).Scan(&c.ID)
		if err != nil {
			return fmt.Errorf("failed to create compilation: %w", err)
		}
		return replaceCompilationEvents(ctx, tx, c.ID, c.EventIDs)
	})
}

// Update writes title and pinned, and replaces the event set when
// replaceEvents is true.
func (r *CompilationRepository) Update(ctx context.Context, c *models.Compilation, replaceEvents bool) error {
	return database.WithTx(ctx, r.db, func(tx *sql.Tx) error {
		result, err := tx.ExecContext(ctx,
			`UPDATE compilations SET title = $2, pinned = $3 WHERE id = $1`, c.ID, c.Title, c.Pinned,
		)
		if err != nil {
			return fmt.Errorf("failed to update compilation: %w", err)
		}
		rows, err := result.RowsAffected()
		if err != nil {
			return fmt.Errorf("failed to check rows affected: %w", err)
		}
		if rows == 0 {
			return apperrors.NotFound("Compilation with id=%d was not found", c.ID)
		}
		if !replaceEvents {
			return nil
		}
		if _, err := tx.ExecContext(ctx, `DELETE FROM compilation_events WHERE compilation_id = $1`, c.ID); err != nil {
			return fmt.Errorf("failed to clear compilation events: %w", err)
		}
		return replaceCompilationEvents(ctx, tx, c.ID, c.EventIDs)
	})
}

func replaceCompilationEvents(ctx context.Context, tx *sql.Tx, compilationID int64, eventIDs []int64) error {
	if len(eventIDs) == 0 {
		return nil
	}
	_, err := tx.ExecContext(ctx, `
		INSERT INTO compilation_events (compilation_id, event_id)
		SELECT $1, UNNEST($2::BIGINT[])
		ON CONFLICT DO NOTHING
	`, compilationID, pq.Array(eventIDs))
	if database.IsForeignKeyViolation(err) {
		return apperrors.NotFound("Some events of the compilation were not found")
	}
	if err != nil {
		return fmt.Errorf("failed to link compilation events: %w", err)
	}
	return nil
}

func (r *CompilationRepository) Delete(ctx context.Context, id int64) error {
	result, err := r.db.ExecContext(ctx, `DELETE FROM compilations WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete compilation: %w", err)
	}
	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to check rows affected: %w", err)
	}
	if rows == 0 {
		return apperrors.NotFound("Compilation with id=%d was not found", id)
	}
	return nil
}

func (r *CompilationRepository) GetByID(ctx context.Context, id int64) (*models.Compilation, error) {
	var c models.Compilation
	err := r.db.QueryRowContext(ctx,
		`SELECT id, title, pinned FROM compilations WHERE id = $1`, id,
	).Scan(&c.ID, &c.Title, &c.Pinned)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, apperrors.NotFound("Compilation with id=%d was not found", id)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get compilation: %w", err)
	}

	list := []models.Compilation{c}
	if err := r.loadEventIDs(ctx, list); err != nil {
		return nil, err
	}
	return &list[0], nil
}

// List returns compilations ordered by id, filtered by pinned when set.
func (r *CompilationRepository) List(ctx context.Context, pinned *bool, page cqrs.Page) ([]models.Compilation, error) {
	var w whereBuilder
	if pinned != nil {
		w.add("pinned = $%d", *pinned)
	}
	query := `SELECT id, title, pinned FROM compilations` + w.where() + ` ORDER BY id` + w.limit(page)

	rows, err := r.db.QueryContext(ctx, query, w.args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list compilations: %w", err)
	}
	defer rows.Close()

	list := []models.Compilation{}
	for rows.Next() {
		var c models.Compilation
		if err := rows.Scan(&c.ID, &c.Title, &c.Pinned); err != nil {
			return nil, fmt.Errorf("failed to scan compilation: %w", err)
		}
		list = append(list, c)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	if err := r.loadEventIDs(ctx, list); err != nil {
		return nil, err
	}
	return list, nil
}

func (r *CompilationRepository) loadEventIDs(ctx context.Context, list []models.Compilation) error {
	if len(list) == 0 {
		return nil
	}
	index := make(map[int64]int, len(list))
	ids := make([]int64, len(list))
	for i := range list {
		index[list[i].ID] = i
		ids[i] = list[i].ID
		list[i].EventIDs = []int64{}
	}

	rows, err := r.db.QueryContext(ctx, `
		SELECT compilation_id, event_id FROM compilation_events
		WHERE compilation_id = ANY($1)
		ORDER BY compilation_id, event_id
	`, pq.Array(ids))
	if err != nil {
		return fmt.Errorf("failed to load compilation events: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var compilationID, eventID int64
		if err := rows.Scan(&compilationID, &eventID); err != nil {
			return fmt.Errorf("failed to scan compilation event: %w", err)
		}
		i := index[compilationID]
		list[i].EventIDs = append(list[i].EventIDs, eventID)
	}
	return rows.Err()
}
