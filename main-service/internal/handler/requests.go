package handler

import (
	"github.com/explorewithme/ewm/shared/cqrs"
	"github.com/explorewithme/ewm/shared/models"
)

type CategoryRequest struct {
	Name string `json:"name" validate:"required,notblank,max=50"`
}

type NewUserRequest struct {
	Name  string `json:"name" validate:"required,notblank,min=2,max=250"`
	Email string `json:"email" validate:"required,email,min=6,max=254"`
}

type NewEventRequest struct {
	Annotation        string           `json:"annotation" validate:"required,notblank,min=20,max=2000"`
	Category          int64            `json:"category" validate:"required,gt=0"`
	Description       string           `json:"description" validate:"required,notblank,min=20,max=7000"`
	EventDate         *models.DateTime `json:"eventDate" validate:"required"`
	Location          *models.Location `json:"location" validate:"required"`
	Paid              *bool            `json:"paid"`
	ParticipantLimit  *int64           `json:"participantLimit" validate:"omitempty,gte=0"`
	RequestModeration *bool            `json:"requestModeration"`
	Title             string           `json:"title" validate:"required,notblank,min=3,max=120"`
}

// UpdateEventRequest serves both the initiator and the admin update. Absent
// fields stay unchanged.
type UpdateEventRequest struct {
	Annotation        *string          `json:"annotation" validate:"omitempty,notblank,min=20,max=2000"`
	Category          *int64           `json:"category" validate:"omitempty,gt=0"`
	Description       *string          `json:"description" validate:"omitempty,notblank,min=20,max=7000"`
	EventDate         *models.DateTime `json:"eventDate"`
	Location          *models.Location `json:"location"`
	Paid              *bool            `json:"paid"`
	ParticipantLimit  *int64           `json:"participantLimit" validate:"omitempty,gte=0"`
	RequestModeration *bool            `json:"requestModeration"`
	StateAction       *string          `json:"stateAction"`
	Title             *string          `json:"title" validate:"omitempty,notblank,min=3,max=120"`
}

func (r UpdateEventRequest) patch() cqrs.EventPatch {
	return cqrs.EventPatch{
		Annotation:        r.Annotation,
		CategoryID:        r.Category,
		Description:       r.Description,
		EventDate:         r.EventDate.TimePtr(),
		Location:          r.Location,
		Paid:              r.Paid,
		ParticipantLimit:  r.ParticipantLimit,
		RequestModeration: r.RequestModeration,
		Title:             r.Title,
		StateAction:       r.StateAction,
	}
}

type StatusUpdateRequest struct {
	RequestIDs []int64 `json:"requestIds" validate:"required,min=1"`
	Status     string  `json:"status" validate:"required,oneof=CONFIRMED REJECTED"`
}

type NewCompilationRequest struct {
	Events []int64 `json:"events"`
	Pinned bool    `json:"pinned"`
	Title  string  `json:"title" validate:"required,notblank,max=50"`
}

// UpdateCompilationRequest replaces the event set only when events is sent.
type UpdateCompilationRequest struct {
	Events []int64 `json:"events"`
	Pinned *bool   `json:"pinned"`
	Title  *string `json:"title" validate:"omitempty,notblank,max=50"`
}

type CommentRequest struct {
	Text string `json:"text" validate:"required,notblank,max=2000"`
}
