package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/explorewithme/ewm/shared/apperrors"
	"github.com/explorewithme/ewm/shared/database"
	"github.com/explorewithme/ewm/shared/models"
	"github.com/lib/pq"
)

const requestColumns = `id, event_id, requester_id, created, status`

// StatusSnapshot is the locked state handed to a status update decision.
type StatusSnapshot struct {
	Event models.Event
	// Requested are the referenced requests in the order they were given.
	Requested []models.ParticipationRequest
	// OtherPending are the event's PENDING requests not referenced.
	OtherPending []models.ParticipationRequest
}

// StatusPlan lists the request ids to move to CONFIRMED and REJECTED.
type StatusPlan struct {
	Confirm []int64
	Reject  []int64
}

// StatusDecider turns a snapshot into a plan, or fails the whole update.
type StatusDecider func(StatusSnapshot) (StatusPlan, error)

// AdmissionDecider picks the status of a new request from the locked event,
// whose ConfirmedRequests is current, or refuses the request.
type AdmissionDecider func(models.Event) (models.RequestStatus, error)

type RequestRepository struct {
	db *sql.DB
}

func NewRequestRepository(db *sql.DB) *RequestRepository {
	return &RequestRepository{db: db}
}

func scanRequest(row rowScanner) (*models.ParticipationRequest, error) {
	var (
		req    models.ParticipationRequest
		status string
	)
	if err := row.Scan(&req.ID, &req.EventID, &req.RequesterID, &req.Created, &status); err != nil {
		return nil, err
	}
	req.Status = models.RequestStatus(status)
	req.Created = localTime(req.Created)
	return &req, nil
}

func (r *RequestRepository) Create(ctx context.Context, req *models.ParticipationRequest) error {
	return insertRequest(ctx, r.db, req)
}

// CreateLocked inserts req while holding the event row lock, so concurrent
// requests see each other's confirmations before admit sets the status.
func (r *RequestRepository) CreateLocked(ctx context.Context, req *models.ParticipationRequest, admit AdmissionDecider) error {
	return database.WithTx(ctx, r.db, func(tx *sql.Tx) error {
		e, err := lockEvent(ctx, tx, req.EventID)
		if err != nil {
			return err
		}
		if req.Status, err = admit(e); err != nil {
			return err
		}
		return insertRequest(ctx, tx, req)
	})
}

func insertRequest(ctx context.Context, db database.DBTX, req *models.ParticipationRequest) error {
	err := db.QueryRowContext(ctx,
		`INSERT INTO requests (event_id, requester_id, created, status) VALUES ($1, $2, $3, $4) RETURNING id`,
		req.EventID, req.RequesterID, req.Created, string(req.Status),
	).Scan(&req.ID)
	if database.IsUniqueViolation(err) {
		return apperrors.Conflict("Request of user id=%d to event id=%d already exists", req.RequesterID, req.EventID)
	}
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	return nil
}

func (r *RequestRepository) Exists(ctx context.Context, eventID, requesterID int64) (bool, error) {
	var exists bool
	err := r.db.QueryRowContext(ctx,
		`SELECT EXISTS (SELECT 1 FROM requests WHERE event_id = $1 AND requester_id = $2)`, eventID, requesterID,
	).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("failed to check request: %w", err)
	}
	return exists, nil
}

func (r *RequestRepository) GetByID(ctx context.Context, id int64) (*models.ParticipationRequest, error) {
	req, err := scanRequest(r.db.QueryRowContext(ctx, `SELECT `+requestColumns+` FROM requests WHERE id = $1`, id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, apperrors.NotFound("Request with id=%d was not found", id)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get request: %w", err)
	}
	return req, nil
}

func (r *RequestRepository) UpdateStatus(ctx context.Context, id int64, status models.RequestStatus) error {
	result, err := r.db.ExecContext(ctx, `UPDATE requests SET status = $2 WHERE id = $1`, id, string(status))
	if err != nil {
		return fmt.Errorf("failed to update request: %w", err)
	}
	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to check rows affected: %w", err)
	}
	if rows == 0 {
		return apperrors.NotFound("Request with id=%d was not found", id)
	}
	return nil
}

func (r *RequestRepository) ListByRequester(ctx context.Context, requesterID int64) ([]models.ParticipationRequest, error) {
	return listRequests(ctx, r.db, `SELECT `+requestColumns+` FROM requests WHERE requester_id = $1 ORDER BY id`, requesterID)
}

func (r *RequestRepository) ListByEvent(ctx context.Context, eventID int64) ([]models.ParticipationRequest, error) {
	return listRequests(ctx, r.db, `SELECT `+requestColumns+` FROM requests WHERE event_id = $1 ORDER BY id`, eventID)
}

func (r *RequestRepository) CountConfirmed(ctx context.Context, eventID int64) (int64, error) {
	return countConfirmed(ctx, r.db, eventID)
}

// ApplyStatusUpdate locks the event row, loads the referenced and the other
// pending requests, asks decide for a plan and applies it, all in one
// transaction. It returns the referenced requests split by their new status.
func (r *RequestRepository) ApplyStatusUpdate(
	ctx context.Context, eventID int64, requestIDs []int64, decide StatusDecider,
) (confirmed, rejected []models.ParticipationRequest, err error) {
	err = database.WithTx(ctx, r.db, func(tx *sql.Tx) error {
		var snap StatusSnapshot
		var err error
		if snap.Event, err = lockEvent(ctx, tx, eventID); err != nil {
			return err
		}

		found, err := listRequests(ctx, tx,
			`SELECT `+requestColumns+` FROM requests WHERE id = ANY($1) AND event_id = $2`, pq.Array(requestIDs), eventID)
		if err != nil {
			return err
		}
		byID := make(map[int64]models.ParticipationRequest, len(found))
		for _, req := range found {
			byID[req.ID] = req
		}
		seen := make(map[int64]bool, len(requestIDs))
		for _, id := range requestIDs {
			if seen[id] {
				continue
			}
			seen[id] = true
			req, ok := byID[id]
			if !ok {
				return apperrors.NotFound("Request with id=%d was not found", id)
			}
			snap.Requested = append(snap.Requested, req)
		}

		snap.OtherPending, err = listRequests(ctx, tx,
			`SELECT `+requestColumns+` FROM requests
			 WHERE event_id = $1 AND status = $2 AND NOT (id = ANY($3)) ORDER BY id`,
			eventID, string(models.RequestPending), pq.Array(requestIDs))
		if err != nil {
			return err
		}

		plan, err := decide(snap)
		if err != nil {
			return err
		}
		if err := setStatuses(ctx, tx, plan.Confirm, models.RequestConfirmed); err != nil {
			return err
		}
		if err := setStatuses(ctx, tx, plan.Reject, models.RequestRejected); err != nil {
			return err
		}

		status := make(map[int64]models.RequestStatus, len(plan.Confirm)+len(plan.Reject))
		for _, id := range plan.Confirm {
			status[id] = models.RequestConfirmed
		}
		for _, id := range plan.Reject {
			status[id] = models.RequestRejected
		}
		for _, req := range snap.Requested {
			switch status[req.ID] {
			case models.RequestConfirmed:
				req.Status = models.RequestConfirmed
				confirmed = append(confirmed, req)
			case models.RequestRejected:
				req.Status = models.RequestRejected
				rejected = append(rejected, req)
			}
		}
		return nil
	})
	if err != nil {
		return nil, nil, err
	}
	return confirmed, rejected, nil
}

// lockEvent takes the event row lock and returns the fields admission and
// status decisions read, with the confirmed count taken under the lock.
func lockEvent(ctx context.Context, tx *sql.Tx, eventID int64) (models.Event, error) {
	var limit int64
	var moderation bool
	err := tx.QueryRowContext(ctx,
		`SELECT participant_limit, request_moderation FROM events WHERE id = $1 FOR UPDATE`, eventID,
	).Scan(&limit, &moderation)
	if errors.Is(err, sql.ErrNoRows) {
		return models.Event{}, apperrors.NotFound("Event with id=%d was not found", eventID)
	}
	if err != nil {
		return models.Event{}, fmt.Errorf("failed to lock event: %w", err)
	}
	e := models.Event{ID: eventID, ParticipantLimit: limit, RequestModeration: moderation}
	if e.ConfirmedRequests, err = countConfirmed(ctx, tx, eventID); err != nil {
		return models.Event{}, err
	}
	return e, nil
}

func setStatuses(ctx context.Context, db database.DBTX, ids []int64, status models.RequestStatus) error {
	if len(ids) == 0 {
		return nil
	}
	if _, err := db.ExecContext(ctx,
		`UPDATE requests SET status = $1 WHERE id = ANY($2)`, string(status), pq.Array(ids),
	); err != nil {
		return fmt.Errorf("failed to update request statuses: %w", err)
	}
	return nil
}

func countConfirmed(ctx context.Context, db database.DBTX, eventID int64) (int64, error) {
	var n int64
	err := db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM requests WHERE event_id = $1 AND status = $2`, eventID, string(models.RequestConfirmed),
	).Scan(&n)
	if err != nil {
		return 0, fmt.Errorf("failed to count confirmed requests: %w", err)
	}
	return n, nil
}

func listRequests(ctx context.Context, db database.DBTX, query string, args ...any) ([]models.ParticipationRequest, error) {
	rows, err := db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list requests: %w", err)
	}
	defer rows.Close()

	reqs := []models.ParticipationRequest{}
	for rows.Next() {
		req, err := scanRequest(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan request: %w", err)
		}
		reqs = append(reqs, *req)
	}
	return reqs, rows.Err()
}
