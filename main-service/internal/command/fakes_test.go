package command

import (
	"context"

	"github.com/explorewithme/ewm/main-service/internal/repository"
	"github.com/explorewithme/ewm/main-service/internal/service"
	"github.com/explorewithme/ewm/shared/apperrors"
	"github.com/explorewithme/ewm/shared/models"
)

// ---- in-memory stores ----

type fakeUsers map[int64]*models.User

func (f fakeUsers) GetByID(_ context.Context, id int64) (*models.User, error) {
	if u, ok := f[id]; ok {
		cp := *u
		return &cp, nil
	}
	return nil, apperrors.NotFound("User with id=%d was not found", id)
}

type fakeCategories map[int64]*models.Category

func (f fakeCategories) GetByID(_ context.Context, id int64) (*models.Category, error) {
	if c, ok := f[id]; ok {
		cp := *c
		return &cp, nil
	}
	return nil, apperrors.NotFound("Category with id=%d was not found", id)
}

type fakeEvents struct {
	byID   map[int64]*models.Event
	nextID int64
}

func newFakeEvents(events ...models.Event) *fakeEvents {
	f := &fakeEvents{byID: map[int64]*models.Event{}}
	for i := range events {
		e := events[i]
		f.byID[e.ID] = &e
		if e.ID > f.nextID {
			f.nextID = e.ID
		}
	}
	return f
}

func (f *fakeEvents) GetByID(_ context.Context, id int64) (*models.Event, error) {
	if e, ok := f.byID[id]; ok {
		cp := *e
		return &cp, nil
	}
	return nil, apperrors.NotFound("Event with id=%d was not found", id)
}

func (f *fakeEvents) GetByIDs(_ context.Context, ids []int64) ([]models.Event, error) {
	out := []models.Event{}
	for _, id := range ids {
		if e, ok := f.byID[id]; ok {
			out = append(out, *e)
		}
	}
	return out, nil
}

func (f *fakeEvents) Create(_ context.Context, e *models.Event) error {
	f.nextID++
	e.ID = f.nextID
	cp := *e
	f.byID[e.ID] = &cp
	return nil
}

func (f *fakeEvents) Update(_ context.Context, e *models.Event) error {
	if _, ok := f.byID[e.ID]; !ok {
		return apperrors.NotFound("Event with id=%d was not found", e.ID)
	}
	cp := *e
	f.byID[e.ID] = &cp
	return nil
}

type fakeRequests struct {
	byID   map[int64]*models.ParticipationRequest
	nextID int64
	events *fakeEvents
}

func newFakeRequests(events *fakeEvents, reqs ...models.ParticipationRequest) *fakeRequests {
	f := &fakeRequests{byID: map[int64]*models.ParticipationRequest{}, events: events}
	for i := range reqs {
		r := reqs[i]
		f.byID[r.ID] = &r
		if r.ID > f.nextID {
			f.nextID = r.ID
		}
	}
	return f
}

func (f *fakeRequests) CreateLocked(_ context.Context, req *models.ParticipationRequest, admit repository.AdmissionDecider) error {
	e, ok := f.events.byID[req.EventID]
	if !ok {
		return apperrors.NotFound("Event with id=%d was not found", req.EventID)
	}
	locked := *e
	locked.ConfirmedRequests = f.confirmed(req.EventID)
	status, err := admit(locked)
	if err != nil {
		return err
	}
	req.Status = status
	f.nextID++
	req.ID = f.nextID
	cp := *req
	f.byID[req.ID] = &cp
	return nil
}

func (f *fakeRequests) Exists(_ context.Context, eventID, requesterID int64) (bool, error) {
	for _, r := range f.byID {
		if r.EventID == eventID && r.RequesterID == requesterID {
			return true, nil
		}
	}
	return false, nil
}

func (f *fakeRequests) GetByID(_ context.Context, id int64) (*models.ParticipationRequest, error) {
	if r, ok := f.byID[id]; ok {
		cp := *r
		return &cp, nil
	}
	return nil, apperrors.NotFound("Request with id=%d was not found", id)
}

func (f *fakeRequests) UpdateStatus(_ context.Context, id int64, status models.RequestStatus) error {
	r, ok := f.byID[id]
	if !ok {
		return apperrors.NotFound("Request with id=%d was not found", id)
	}
	r.Status = status
	return nil
}

func (f *fakeRequests) confirmed(eventID int64) int64 {
	var n int64
	for _, r := range f.byID {
		if r.EventID == eventID && r.Status == models.RequestConfirmed {
			n++
		}
	}
	return n
}

func (f *fakeRequests) ApplyStatusUpdate(
	_ context.Context, eventID int64, requestIDs []int64, decide repository.StatusDecider,
) ([]models.ParticipationRequest, []models.ParticipationRequest, error) {
	e, ok := f.events.byID[eventID]
	if !ok {
		return nil, nil, apperrors.NotFound("Event with id=%d was not found", eventID)
	}
	snap := repository.StatusSnapshot{Event: *e}
	snap.Event.ConfirmedRequests = f.confirmed(eventID)

	referenced := map[int64]bool{}
	for _, id := range requestIDs {
		r, ok := f.byID[id]
		if !ok || r.EventID != eventID {
			return nil, nil, apperrors.NotFound("Request with id=%d was not found", id)
		}
		referenced[id] = true
		snap.Requested = append(snap.Requested, *r)
	}
	for id := int64(1); id <= f.nextID; id++ {
		if r, ok := f.byID[id]; ok && !referenced[id] && r.EventID == eventID && r.Status == models.RequestPending {
			snap.OtherPending = append(snap.OtherPending, *r)
		}
	}

	plan, err := decide(snap)
	if err != nil {
		return nil, nil, err
	}
	var confirmed, rejected []models.ParticipationRequest
	for _, id := range plan.Confirm {
		f.byID[id].Status = models.RequestConfirmed
		if referenced[id] {
			confirmed = append(confirmed, *f.byID[id])
		}
	}
	for _, id := range plan.Reject {
		f.byID[id].Status = models.RequestRejected
		if referenced[id] {
			rejected = append(rejected, *f.byID[id])
		}
	}
	return confirmed, rejected, nil
}

type fakeCategoryStore struct {
	names  map[int64]string
	nextID int64
	cached map[int64]models.CategoryDto
}

func newFakeCategoryStore() *fakeCategoryStore {
	return &fakeCategoryStore{names: map[int64]string{}, cached: map[int64]models.CategoryDto{}}
}

func (f *fakeCategoryStore) Create(_ context.Context, c *models.Category) error {
	for _, name := range f.names {
		if name == c.Name {
			return apperrors.Conflict("Category name %q is already in use", c.Name)
		}
	}
	f.nextID++
	c.ID = f.nextID
	f.names[c.ID] = c.Name
	return nil
}

func (f *fakeCategoryStore) Update(_ context.Context, c *models.Category) error {
	if _, ok := f.names[c.ID]; !ok {
		return apperrors.NotFound("Category with id=%d was not found", c.ID)
	}
	f.names[c.ID] = c.Name
	return nil
}

func (f *fakeCategoryStore) Delete(_ context.Context, id int64) error {
	if _, ok := f.names[id]; !ok {
		return apperrors.NotFound("Category with id=%d was not found", id)
	}
	delete(f.names, id)
	return nil
}

func (f *fakeCategoryStore) CacheCategoryView(_ context.Context, view *models.CategoryDto) {
	f.cached[view.ID] = *view
}

func (f *fakeCategoryStore) InvalidateCategoryView(_ context.Context, id int64) {
	delete(f.cached, id)
}

type fakeCompilations struct {
	byID   map[int64]models.Compilation
	nextID int64
}

func (f *fakeCompilations) Create(_ context.Context, c *models.Compilation) error {
	f.nextID++
	c.ID = f.nextID
	f.byID[c.ID] = *c
	return nil
}

func (f *fakeCompilations) Update(_ context.Context, c *models.Compilation, replaceEvents bool) error {
	old, ok := f.byID[c.ID]
	if !ok {
		return apperrors.NotFound("Compilation with id=%d was not found", c.ID)
	}
	if !replaceEvents {
		c.EventIDs = old.EventIDs
	}
	f.byID[c.ID] = *c
	return nil
}

func (f *fakeCompilations) Delete(_ context.Context, id int64) error {
	if _, ok := f.byID[id]; !ok {
		return apperrors.NotFound("Compilation with id=%d was not found", id)
	}
	delete(f.byID, id)
	return nil
}

func (f *fakeCompilations) GetByID(_ context.Context, id int64) (*models.Compilation, error) {
	c, ok := f.byID[id]
	if !ok {
		return nil, apperrors.NotFound("Compilation with id=%d was not found", id)
	}
	return &c, nil
}

type fakeComments struct {
	byID   map[int64]*models.Comment
	nextID int64
}

func (f *fakeComments) Create(_ context.Context, c *models.Comment) error {
	f.nextID++
	c.ID = f.nextID
	cp := *c
	f.byID[c.ID] = &cp
	return nil
}

func (f *fakeComments) GetByID(_ context.Context, id int64) (*models.Comment, error) {
	if c, ok := f.byID[id]; ok {
		cp := *c
		return &cp, nil
	}
	return nil, apperrors.NotFound("Comment with id=%d was not found", id)
}

func (f *fakeComments) UpdateText(_ context.Context, c *models.Comment) error {
	if _, ok := f.byID[c.ID]; !ok {
		return apperrors.NotFound("Comment with id=%d was not found", c.ID)
	}
	cp := *c
	f.byID[c.ID] = &cp
	return nil
}

func (f *fakeComments) Delete(_ context.Context, id int64) error {
	if _, ok := f.byID[id]; !ok {
		return apperrors.NotFound("Comment with id=%d was not found", id)
	}
	delete(f.byID, id)
	return nil
}

// ---- renderer ----

type zeroViews struct{}

func (zeroViews) Views(_ context.Context, ids []int64) map[int64]int64 {
	out := make(map[int64]int64, len(ids))
	for _, id := range ids {
		out[id] = 0
	}
	return out
}

func newRenderer() *service.EventAssembler {
	return service.NewEventAssembler(zeroViews{})
}

func ptr[T any](v T) *T { return &v }
