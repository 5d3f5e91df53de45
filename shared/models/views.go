package models

// CategoryDto is the API representation of a category.
type CategoryDto struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
}

type UserDto struct {
	ID    int64  `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email"`
}

type UserShortDto struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
}

// EventFullDto is the detailed projection of an event. ConfirmedRequests and
// Views are derived: the first from participation requests, the second from
// the stat service.
type EventFullDto struct {
	ID                int64        `json:"id"`
	Annotation        string       `json:"annotation"`
	Category          CategoryDto  `json:"category"`
	ConfirmedRequests int64        `json:"confirmedRequests"`
	CreatedOn         string       `json:"createdOn"`
	Description       string       `json:"description"`
	EventDate         string       `json:"eventDate"`
	Initiator         UserShortDto `json:"initiator"`
	Location          Location     `json:"location"`
	Paid              bool         `json:"paid"`
	ParticipantLimit  int64        `json:"participantLimit"`
	PublishedOn       *string      `json:"publishedOn"`
	RequestModeration bool         `json:"requestModeration"`
	State             EventState   `json:"state"`
	Title             string       `json:"title"`
	Views             int64        `json:"views"`
}

type EventShortDto struct {
	ID                int64        `json:"id"`
	Annotation        string       `json:"annotation"`
	Category          CategoryDto  `json:"category"`
	ConfirmedRequests int64        `json:"confirmedRequests"`
	EventDate         string       `json:"eventDate"`
	Initiator         UserShortDto `json:"initiator"`
	Paid              bool         `json:"paid"`
	Title             string       `json:"title"`
	Views             int64        `json:"views"`
}

type ParticipationRequestDto struct {
	ID        int64         `json:"id"`
	Event     int64         `json:"event"`
	Requester int64         `json:"requester"`
	Created   string        `json:"created"`
	Status    RequestStatus `json:"status"`
}

type EventRequestStatusUpdateResult struct {
	ConfirmedRequests []ParticipationRequestDto `json:"confirmedRequests"`
	RejectedRequests  []ParticipationRequestDto `json:"rejectedRequests"`
}

type CompilationDto struct {
	ID     int64           `json:"id"`
	Title  string          `json:"title"`
	Pinned bool            `json:"pinned"`
	Events []EventShortDto `json:"events"`
}

type CommentDto struct {
	ID         int64   `json:"id"`
	Text       string  `json:"text"`
	EventID    int64   `json:"eventId"`
	AuthorName string  `json:"authorName"`
	Created    string  `json:"created"`
	Updated    *string `json:"updated,omitempty"`
}

// EndpointHitDto is the wire form of a hit exchanged with the stat service.
type EndpointHitDto struct {
	ID        int64  `json:"id,omitempty"`
	App       string `json:"app" validate:"required,max=255"`
	URI       string `json:"uri" validate:"required,max=255"`
	IP        string `json:"ip" validate:"required,max=255"`
	Timestamp string `json:"timestamp" validate:"required,datetime=2006-01-02 15:04:05"`
}

// ViewStats is one aggregated row returned by the stat service.
type ViewStats struct {
	App  string `json:"app"`
	URI  string `json:"uri"`
	Hits int64  `json:"hits"`
}
