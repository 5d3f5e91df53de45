package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/explorewithme/ewm/shared/apperrors"
	"github.com/explorewithme/ewm/shared/cqrs"
	"github.com/explorewithme/ewm/shared/models"
)

const commentSelect = `
	SELECT cm.id, cm.text, cm.event_id, cm.author_id, u.name, cm.created, cm.updated
	FROM comments cm
	JOIN users u ON u.id = cm.author_id`

type CommentRepository struct {
	db *sql.DB
}

func NewCommentRepository(db *sql.DB) *CommentRepository {
	return &CommentRepository{db: db}
}

func scanComment(row rowScanner) (*models.Comment, error) {
	var (
		c       models.Comment
		updated sql.NullTime
	)
	if err := row.Scan(&c.ID, &c.Text, &c.EventID, &c.AuthorID, &c.AuthorName, &c.Created, &updated); err != nil {
		return nil, err
	}
	c.Created = localTime(c.Created)
	if updated.Valid {
		t := localTime(updated.Time)
		c.Updated = &t
	}
	return &c, nil
}

func (r *CommentRepository) Create(ctx context.Context, c *models.Comment) error {
	err := r.db.QueryRowContext(ctx,
		`INSERT INTO comments (text, event_id, author_id, created) VALUES ($1, $2, $3, $4) RETURNING id`,
		c.Text, c.EventID, c.AuthorID, c.Created,
	).Scan(&c.ID)
	if err != nil {
		return fmt.Errorf("failed to create comment: %w", err)
	}
	return nil
}

func (r *CommentRepository) GetByID(ctx context.Context, id int64) (*models.Comment, error) {
	c, err := scanComment(r.db.QueryRowContext(ctx, commentSelect+` WHERE cm.id = $1`, id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, apperrors.NotFound("Comment with id=%d was not found", id)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get comment: %w", err)
	}
	return c, nil
}

func (r *CommentRepository) UpdateText(ctx context.Context, c *models.Comment) error {
	result, err := r.db.ExecContext(ctx,
		`UPDATE comments SET text = $2, updated = $3 WHERE id = $1`, c.ID, c.Text, c.Updated,
	)
	if err != nil {
		return fmt.Errorf("failed to update comment: %w", err)
	}
	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to check rows affected: %w", err)
	}
	if rows == 0 {
		return apperrors.NotFound("Comment with id=%d was not found", c.ID)
	}
	return nil
}

func (r *CommentRepository) Delete(ctx context.Context, id int64) error {
	result, err := r.db.ExecContext(ctx, `DELETE FROM comments WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete comment: %w", err)
	}
	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to check rows affected: %w", err)
	}
	if rows == 0 {
		return apperrors.NotFound("Comment with id=%d was not found", id)
	}
	return nil
}

func (r *CommentRepository) ListByAuthor(ctx context.Context, authorID int64, page cqrs.Page) ([]models.Comment, error) {
	return r.list(ctx, commentSelect+` WHERE cm.author_id = $1 ORDER BY cm.created DESC, cm.id DESC LIMIT $2 OFFSET $3`,
		authorID, page.Size, page.From)
}

// ListByEvent returns the comments of an event, newest first.
func (r *CommentRepository) ListByEvent(ctx context.Context, eventID int64, page cqrs.Page) ([]models.Comment, error) {
	return r.list(ctx, commentSelect+` WHERE cm.event_id = $1 ORDER BY cm.created DESC, cm.id DESC LIMIT $2 OFFSET $3`,
		eventID, page.Size, page.From)
}

func (r *CommentRepository) list(ctx context.Context, query string, args ...any) ([]models.Comment, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list comments: %w", err)
	}
	defer rows.Close()

	comments := []models.Comment{}
	for rows.Next() {
		c, err := scanComment(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan comment: %w", err)
		}
		comments = append(comments, *c)
	}
	return comments, rows.Err()
}
