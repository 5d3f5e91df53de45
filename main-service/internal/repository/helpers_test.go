package repository

import (
	"context"
	"database/sql"
	"sync"
	"testing"
	"time"

	"github.com/explorewithme/ewm/main-service/migrations"
	"github.com/explorewithme/ewm/shared/database"
	"github.com/explorewithme/ewm/shared/models"
	"github.com/stretchr/testify/require"
	tcpostgres "github.com/testcontainers/testcontainers-go/modules/postgres"
)

var (
	sharedOnce    sync.Once
	sharedInitErr error
	sharedDB      *sql.DB
)

// setupDB starts one PostgreSQL container per package run and truncates all
// tables before each test.
func setupDB(t *testing.T) *sql.DB {
	t.Helper()
	if testing.Short() {
		t.Skip("repository tests need Docker; skipped with -short")
	}

	sharedOnce.Do(func() {
		ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
		defer cancel()

		container, err := tcpostgres.Run(ctx, "postgres:16-alpine",
			tcpostgres.WithDatabase("ewm"),
			tcpostgres.WithUsername("ewm"),
			tcpostgres.WithPassword("ewm"),
			tcpostgres.BasicWaitStrategies(),
		)
		if err != nil {
			sharedInitErr = err
			return
		}
		url, err := container.ConnectionString(ctx, "sslmode=disable")
		if err != nil {
			sharedInitErr = err
			return
		}
		if sharedInitErr = database.MigrateUp(url, migrations.FS); sharedInitErr != nil {
			return
		}
		sharedDB, sharedInitErr = database.Open(ctx, database.Config{URL: url, MaxConnections: 5})
	})
	if sharedInitErr != nil {
		t.Skipf("postgres container unavailable: %v", sharedInitErr)
	}

	_, err := sharedDB.Exec(`TRUNCATE comments, compilation_events, compilations, requests, events, users, categories RESTART IDENTITY CASCADE`)
	require.NoError(t, err)
	return sharedDB
}

// fixtures creates rows through the repositories under test.
type fixtures struct {
	t      *testing.T
	ctx    context.Context
	db     *sql.DB
	now    time.Time
	events *EventRepository
}

func newFixtures(t *testing.T) *fixtures {
	db := setupDB(t)
	return &fixtures{
		t:      t,
		ctx:    context.Background(),
		db:     db,
		now:    time.Date(2030, 3, 1, 10, 0, 0, 0, time.Local),
		events: NewEventRepository(db),
	}
}

func (f *fixtures) category(name string) *models.Category {
	c := &models.Category{Name: name}
	require.NoError(f.t, NewCategoryWriteRepository(f.db).Create(f.ctx, c))
	return c
}

func (f *fixtures) user(name, email string) *models.User {
	u := &models.User{Name: name, Email: email}
	require.NoError(f.t, NewUserRepository(f.db).Create(f.ctx, u))
	return u
}

func (f *fixtures) event(initiator *models.User, category *models.Category, mutate func(*models.Event)) *models.Event {
	e := &models.Event{
		Annotation:        "A long enough annotation for the event",
		Category:          *category,
		Description:       "A long enough description for the event",
		EventDate:         f.now.Add(48 * time.Hour),
		CreatedOn:         f.now,
		Initiator:         *initiator,
		Location:          models.Location{Lat: 55.75, Lon: 37.62},
		RequestModeration: true,
		State:             models.EventPublished,
		Title:             "Event",
	}
	if mutate != nil {
		mutate(e)
	}
	require.NoError(f.t, f.events.Create(f.ctx, e))
	return e
}

func (f *fixtures) request(e *models.Event, requester *models.User, status models.RequestStatus) *models.ParticipationRequest {
	r := &models.ParticipationRequest{EventID: e.ID, RequesterID: requester.ID, Created: f.now, Status: status}
	require.NoError(f.t, NewRequestRepository(f.db).Create(f.ctx, r))
	return r
}
