package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/explorewithme/ewm/shared/apperrors"
	"github.com/explorewithme/ewm/shared/cqrs"
	"github.com/explorewithme/ewm/shared/database"
	"github.com/explorewithme/ewm/shared/models"
	"github.com/lib/pq"
)

const confirmedCountExpr = `(SELECT COUNT(*) FROM requests r WHERE r.event_id = e.id AND r.status = 'CONFIRMED')`

const eventSelect = `
	SELECT e.id, e.annotation, c.id, c.name, e.description, e.event_date, e.created_on, e.published_on,
	       u.id, u.name, u.email, e.lat, e.lon, e.paid, e.participant_limit, e.request_moderation,
	       e.state, e.title, ` + confirmedCountExpr + `
	FROM events e
	JOIN categories c ON c.id = e.category_id
	JOIN users u ON u.id = e.initiator_id`

// EventOrder selects the SQL ordering of a search.
type EventOrder int

const (
	OrderByID EventOrder = iota
	OrderByEventDate
)

// EventFilter narrows an event search. Zero values mean "no restriction".
// A nil Page returns every match.
type EventFilter struct {
	Initiators    []int64
	States        []models.EventState
	Categories    []int64
	RangeStart    *time.Time
	RangeEnd      *time.Time
	Text          string
	Paid          *bool
	OnlyAvailable bool
	Order         EventOrder
	Page          *cqrs.Page
}

type EventRepository struct {
	db *sql.DB
}

func NewEventRepository(db *sql.DB) *EventRepository {
	return &EventRepository{db: db}
}

func scanEvent(row rowScanner) (*models.Event, error) {
	var (
		e           models.Event
		publishedOn sql.NullTime
		state       string
	)
	err := row.Scan(
		&e.ID, &e.Annotation, &e.Category.ID, &e.Category.Name, &e.Description, &e.EventDate, &e.CreatedOn, &publishedOn,
		&e.Initiator.ID, &e.Initiator.Name, &e.Initiator.Email, &e.Location.Lat, &e.Location.Lon, &e.Paid,
		&e.ParticipantLimit, &e.RequestModeration, &state, &e.Title, &e.ConfirmedRequests,
	)
	if err != nil {
		return nil, err
	}
	e.State = models.EventState(state)
	e.EventDate = localTime(e.EventDate)
	e.CreatedOn = localTime(e.CreatedOn)
	if publishedOn.Valid {
		t := localTime(publishedOn.Time)
		e.PublishedOn = &t
	}
	return &e, nil
}

func (r *EventRepository) Create(ctx context.Context, e *models.Event) error {
	query := `
		INSERT INTO events (annotation, category_id, description, event_date, created_on, published_on,
		                    initiator_id, lat, lon, paid, participant_limit, request_moderation, state, title)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14)
		RETURNING id
	`
	err := r.db.QueryRowContext(ctx, query,
		e.Annotation, e.Category.ID, e.Description, e.EventDate, e.CreatedOn, e.PublishedOn,
		e.Initiator.ID, e.Location.Lat, e.Location.Lon, e.Paid, e.ParticipantLimit, e.RequestModeration,
		string(e.State), e.Title,
	).Scan(&e.ID)
	if database.IsForeignKeyViolation(err) {
		return apperrors.NotFound("Category with id=%d was not found", e.Category.ID)
	}
	if err != nil {
		return fmt.Errorf("failed to create event: %w", err)
	}
	return nil
}

// Update writes every mutable column of e.
func (r *EventRepository) Update(ctx context.Context, e *models.Event) error {
	query := `
		UPDATE events
		SET annotation = $2, category_id = $3, description = $4, event_date = $5, published_on = $6,
		    lat = $7, lon = $8, paid = $9, participant_limit = $10, request_moderation = $11,
		    state = $12, title = $13
		WHERE id = $1
	`
	result, err := r.db.ExecContext(ctx, query,
		e.ID, e.Annotation, e.Category.ID, e.Description, e.EventDate, e.PublishedOn,
		e.Location.Lat, e.Location.Lon, e.Paid, e.ParticipantLimit, e.RequestModeration,
		string(e.State), e.Title,
	)
	if database.IsForeignKeyViolation(err) {
		return apperrors.NotFound("Category with id=%d was not found", e.Category.ID)
	}
	if err != nil {
		return fmt.Errorf("failed to update event: %w", err)
	}
	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to check rows affected: %w", err)
	}
	if rows == 0 {
		return apperrors.NotFound("Event with id=%d was not found", e.ID)
	}
	return nil
}

func (r *EventRepository) GetByID(ctx context.Context, id int64) (*models.Event, error) {
	e, err := scanEvent(r.db.QueryRowContext(ctx, eventSelect+` WHERE e.id = $1`, id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, apperrors.NotFound("Event with id=%d was not found", id)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get event: %w", err)
	}
	return e, nil
}

// GetByIDs returns the events with the given ids in id order. Unknown ids
// are skipped.
func (r *EventRepository) GetByIDs(ctx context.Context, ids []int64) ([]models.Event, error) {
	if len(ids) == 0 {
		return []models.Event{}, nil
	}
	return r.query(ctx, eventSelect+` WHERE e.id = ANY($1) ORDER BY e.id`, pq.Array(ids))
}

func (r *EventRepository) Search(ctx context.Context, f EventFilter) ([]models.Event, error) {
	var w whereBuilder
	if len(f.Initiators) > 0 {
		w.add("e.initiator_id = ANY($%d)", pq.Array(f.Initiators))
	}
	if len(f.States) > 0 {
		states := make([]string, len(f.States))
		for i, s := range f.States {
			states[i] = string(s)
		}
		w.add("e.state = ANY($%d)", pq.Array(states))
	}
	if len(f.Categories) > 0 {
		w.add("e.category_id = ANY($%d)", pq.Array(f.Categories))
	}
	if f.RangeStart != nil {
		w.add("e.event_date >= $%d", *f.RangeStart)
	}
	if f.RangeEnd != nil {
		w.add("e.event_date <= $%d", *f.RangeEnd)
	}
	if f.Text != "" {
		w.add("(e.annotation ILIKE $%[1]d OR e.description ILIKE $%[1]d)", likePattern(f.Text))
	}
	if f.Paid != nil {
		w.add("e.paid = $%d", *f.Paid)
	}
	if f.OnlyAvailable {
		w.addRaw("(e.participant_limit = 0 OR " + confirmedCountExpr + " < e.participant_limit)")
	}

	query := eventSelect + w.where()
	switch f.Order {
	case OrderByEventDate:
		query += ` ORDER BY e.event_date, e.id`
	default:
		query += ` ORDER BY e.id`
	}
	if f.Page != nil {
		query += w.limit(*f.Page)
	}
	return r.query(ctx, query, w.args...)
}

func (r *EventRepository) query(ctx context.Context, query string, args ...any) ([]models.Event, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query events: %w", err)
	}
	defer rows.Close()

	events := []models.Event{}
	for rows.Next() {
		e, err := scanEvent(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan event: %w", err)
		}
		events = append(events, *e)
	}
	return events, rows.Err()
}
