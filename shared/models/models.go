package models

import "time"

type EventState string

const (
	EventPending   EventState = "PENDING"
	EventPublished EventState = "PUBLISHED"
	EventCanceled  EventState = "CANCELED"
)

// Valid reports whether s is a known lifecycle state.
func (s EventState) Valid() bool {
	switch s {
	case EventPending, EventPublished, EventCanceled:
		return true
	}
	return false
}

type RequestStatus string

const (
	RequestPending   RequestStatus = "PENDING"
	RequestConfirmed RequestStatus = "CONFIRMED"
	RequestRejected  RequestStatus = "REJECTED"
	RequestCanceled  RequestStatus = "CANCELED"
)

// State actions accepted on event updates.
const (
	ActionPublishEvent = "PUBLISH_EVENT"
	ActionRejectEvent  = "REJECT_EVENT"
	ActionSendToReview = "SEND_TO_REVIEW"
	ActionCancelReview = "CANCEL_REVIEW"
)

// Public event sort orders.
const (
	SortEventDate = "EVENT_DATE"
	SortViews     = "VIEWS"
)

type Category struct {
	ID   int64
	Name string
}

type User struct {
	ID    int64
	Name  string
	Email string
}

type Location struct {
	Lat float32 `json:"lat" validate:"gte=-90,lte=90"`
	Lon float32 `json:"lon" validate:"gte=-180,lte=180"`
}

// Event is the write model of an event. Category, Initiator and
// ConfirmedRequests are filled by repository reads.
type Event struct {
	ID                int64
	Annotation        string
	Category          Category
	Description       string
	EventDate         time.Time
	CreatedOn         time.Time
	PublishedOn       *time.Time
	Initiator         User
	Location          Location
	Paid              bool
	ParticipantLimit  int64
	RequestModeration bool
	State             EventState
	Title             string
	ConfirmedRequests int64
}

// NeedsModeration reports whether new requests to the event start PENDING.
func (e *Event) NeedsModeration() bool {
	return e.RequestModeration && e.ParticipantLimit > 0
}

// HasCapacity reports whether one more participant fits given the number of
// already confirmed requests. A zero limit means unlimited.
func (e *Event) HasCapacity(confirmed int64) bool {
	return e.ParticipantLimit == 0 || confirmed < e.ParticipantLimit
}

type ParticipationRequest struct {
	ID          int64
	EventID     int64
	RequesterID int64
	Created     time.Time
	Status      RequestStatus
}

type Compilation struct {
	ID       int64
	Title    string
	Pinned   bool
	EventIDs []int64
}

type Comment struct {
	ID         int64
	Text       string
	EventID    int64
	AuthorID   int64
	AuthorName string
	Created    time.Time
	Updated    *time.Time
}

// EndpointHit is one recorded request to a service endpoint.
type EndpointHit struct {
	ID        int64
	App       string
	URI       string
	IP        string
	Timestamp time.Time
}
