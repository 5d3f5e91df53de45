package cqrs

import (
	"time"

	"github.com/explorewithme/ewm/shared/models"
)

type CreateCategoryCommand struct {
	Name string
}

type UpdateCategoryCommand struct {
	CategoryID int64
	Name       string
}

type DeleteCategoryCommand struct {
	CategoryID int64
}

type CreateUserCommand struct {
	Name  string
	Email string
}

type DeleteUserCommand struct {
	UserID int64
}

type CreateEventCommand struct {
	UserID            int64
	Annotation        string
	CategoryID        int64
	Description       string
	EventDate         time.Time
	Location          models.Location
	Paid              *bool
	ParticipantLimit  *int64
	RequestModeration *bool
	Title             string
}

// EventPatch holds the optional fields of an event update. Nil fields are
// left unchanged.
type EventPatch struct {
	Annotation        *string
	CategoryID        *int64
	Description       *string
	EventDate         *time.Time
	Location          *models.Location
	Paid              *bool
	ParticipantLimit  *int64
	RequestModeration *bool
	Title             *string
	StateAction       *string
}

// UpdateUserEventCommand is an update issued by the event initiator.
type UpdateUserEventCommand struct {
	UserID  int64
	EventID int64
	Patch   EventPatch
}

// UpdateAdminEventCommand is an update issued through the admin API.
type UpdateAdminEventCommand struct {
	EventID int64
	Patch   EventPatch
}

type CreateRequestCommand struct {
	UserID  int64
	EventID int64
}

type CancelRequestCommand struct {
	UserID    int64
	RequestID int64
}

type UpdateRequestStatusCommand struct {
	UserID     int64
	EventID    int64
	RequestIDs []int64
	Status     models.RequestStatus
}

type CreateCompilationCommand struct {
	Title    string
	Pinned   bool
	EventIDs []int64
}

// UpdateCompilationCommand replaces the event set only when EventIDs is
// non-nil; an empty non-nil slice clears it.
type UpdateCompilationCommand struct {
	CompilationID int64
	Title         *string
	Pinned        *bool
	EventIDs      []int64
}

type DeleteCompilationCommand struct {
	CompilationID int64
}

type CreateCommentCommand struct {
	UserID  int64
	EventID int64
	Text    string
}

type UpdateCommentCommand struct {
	UserID    int64
	CommentID int64
	Text      string
}

type DeleteCommentCommand struct {
	UserID    int64
	CommentID int64
}

type AdminDeleteCommentCommand struct {
	CommentID int64
}

type SaveHitCommand struct {
	App       string
	URI       string
	IP        string
	Timestamp time.Time
}
