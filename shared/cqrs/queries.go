package cqrs

import "time"

// Page is an offset window: skip From rows, return at most Size.
type Page struct {
	From int
	Size int
}

// ---------- Category queries ----------

type ListCategoriesQuery struct {
	Page Page
}

type GetCategoryQuery struct {
	CategoryID int64
}

// ---------- User queries ----------

// ListUsersQuery lists users, restricted to IDs when it is non-empty.
type ListUsersQuery struct {
	IDs  []int64
	Page Page
}

// ---------- Event queries ----------

type ListUserEventsQuery struct {
	UserID int64
	Page   Page
}

type GetUserEventQuery struct {
	UserID  int64
	EventID int64
}

type AdminSearchEventsQuery struct {
	Users      []int64
	States     []string
	Categories []int64
	RangeStart *time.Time
	RangeEnd   *time.Time
	Page       Page
}

// Client identifies the caller of a public endpoint for hit recording.
type Client struct {
	IP  string
	URI string
}

type PublicSearchEventsQuery struct {
	Text          string
	Categories    []int64
	Paid          *bool
	RangeStart    *time.Time
	RangeEnd      *time.Time
	OnlyAvailable bool
	Sort          string
	Page          Page
	Client        Client
}

type GetPublishedEventQuery struct {
	EventID int64
	Client  Client
}

// ---------- Request queries ----------

type ListUserRequestsQuery struct {
	UserID int64
}

type ListEventRequestsQuery struct {
	UserID  int64
	EventID int64
}

// ---------- Compilation queries ----------

type ListCompilationsQuery struct {
	Pinned *bool
	Page   Page
}

type GetCompilationQuery struct {
	CompilationID int64
}

// ---------- Comment queries ----------

type ListUserCommentsQuery struct {
	UserID int64
	Page   Page
}

type ListEventCommentsQuery struct {
	EventID int64
	Page    Page
}

// ---------- Stat queries ----------

type GetStatsQuery struct {
	Start  time.Time
	End    time.Time
	URIs   []string
	Unique bool
}
