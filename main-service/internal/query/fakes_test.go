package query

import (
	"context"
	"errors"

	"github.com/explorewithme/ewm/main-service/internal/repository"
	"github.com/explorewithme/ewm/main-service/internal/service"
	"github.com/explorewithme/ewm/shared/apperrors"
	"github.com/explorewithme/ewm/shared/cqrs"
	"github.com/explorewithme/ewm/shared/models"
)

type fakeUsers map[int64]*models.User

func (f fakeUsers) GetByID(_ context.Context, id int64) (*models.User, error) {
	if u, ok := f[id]; ok {
		cp := *u
		return &cp, nil
	}
	return nil, apperrors.NotFound("User with id=%d was not found", id)
}

// fakeEvents returns its fixed result from Search and records the filter.
type fakeEvents struct {
	byID      map[int64]models.Event
	result    []models.Event
	filters   []repository.EventFilter
	searchErr error
}

func newFakeEvents(events ...models.Event) *fakeEvents {
	f := &fakeEvents{byID: map[int64]models.Event{}}
	for _, e := range events {
		f.byID[e.ID] = e
	}
	f.result = events
	return f
}

func (f *fakeEvents) GetByID(_ context.Context, id int64) (*models.Event, error) {
	if e, ok := f.byID[id]; ok {
		return &e, nil
	}
	return nil, apperrors.NotFound("Event with id=%d was not found", id)
}

func (f *fakeEvents) GetByIDs(_ context.Context, ids []int64) ([]models.Event, error) {
	out := []models.Event{}
	for _, id := range ids {
		if e, ok := f.byID[id]; ok {
			out = append(out, e)
		}
	}
	return out, nil
}

func (f *fakeEvents) Search(_ context.Context, filter repository.EventFilter) ([]models.Event, error) {
	f.filters = append(f.filters, filter)
	if f.searchErr != nil {
		return nil, f.searchErr
	}
	return f.result, nil
}

func (f *fakeEvents) lastFilter() repository.EventFilter {
	return f.filters[len(f.filters)-1]
}

type fixedViews map[int64]int64

func (v fixedViews) Views(_ context.Context, ids []int64) map[int64]int64 {
	out := make(map[int64]int64, len(ids))
	for _, id := range ids {
		out[id] = v[id]
	}
	return out
}

type recordedHits struct {
	clients []cqrs.Client
	err     error
}

func (h *recordedHits) Hit(_ context.Context, ip, uri string) error {
	h.clients = append(h.clients, cqrs.Client{IP: ip, URI: uri})
	return h.err
}

var errStatDown = errors.New("stat service unavailable")

func newRenderer(views fixedViews) *service.EventAssembler {
	return service.NewEventAssembler(views)
}

func ptr[T any](v T) *T { return &v }
