package handler

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"

	"github.com/explorewithme/ewm/shared/cqrs"
	"github.com/explorewithme/ewm/shared/models"
	"github.com/gin-gonic/gin"
)

var errNotConfigured = fmt.Errorf("not configured")

// ---- mock implementations ----

type mockCategoryCommander struct {
	createFn func(cqrs.CreateCategoryCommand) (*models.CategoryDto, error)
	updateFn func(cqrs.UpdateCategoryCommand) (*models.CategoryDto, error)
	deleteFn func(cqrs.DeleteCategoryCommand) error
}

func (m *mockCategoryCommander) CreateCategory(_ context.Context, cmd cqrs.CreateCategoryCommand) (*models.CategoryDto, error) {
	if m.createFn != nil {
		return m.createFn(cmd)
	}
	return nil, errNotConfigured
}
func (m *mockCategoryCommander) UpdateCategory(_ context.Context, cmd cqrs.UpdateCategoryCommand) (*models.CategoryDto, error) {
	if m.updateFn != nil {
		return m.updateFn(cmd)
	}
	return nil, errNotConfigured
}
func (m *mockCategoryCommander) DeleteCategory(_ context.Context, cmd cqrs.DeleteCategoryCommand) error {
	if m.deleteFn != nil {
		return m.deleteFn(cmd)
	}
	return errNotConfigured
}

type mockCategoryQuerier struct {
	listFn func(cqrs.ListCategoriesQuery) ([]models.CategoryDto, error)
	getFn  func(cqrs.GetCategoryQuery) (*models.CategoryDto, error)
}

func (m *mockCategoryQuerier) ListCategories(_ context.Context, q cqrs.ListCategoriesQuery) ([]models.CategoryDto, error) {
	if m.listFn != nil {
		return m.listFn(q)
	}
	return nil, errNotConfigured
}
func (m *mockCategoryQuerier) GetCategory(_ context.Context, q cqrs.GetCategoryQuery) (*models.CategoryDto, error) {
	if m.getFn != nil {
		return m.getFn(q)
	}
	return nil, errNotConfigured
}

type mockUserCommander struct {
	createFn func(cqrs.CreateUserCommand) (*models.UserDto, error)
	deleteFn func(cqrs.DeleteUserCommand) error
}

func (m *mockUserCommander) CreateUser(_ context.Context, cmd cqrs.CreateUserCommand) (*models.UserDto, error) {
	if m.createFn != nil {
		return m.createFn(cmd)
	}
	return nil, errNotConfigured
}
func (m *mockUserCommander) DeleteUser(_ context.Context, cmd cqrs.DeleteUserCommand) error {
	if m.deleteFn != nil {
		return m.deleteFn(cmd)
	}
	return errNotConfigured
}

type mockUserQuerier struct {
	listFn func(cqrs.ListUsersQuery) ([]models.UserDto, error)
}

func (m *mockUserQuerier) ListUsers(_ context.Context, q cqrs.ListUsersQuery) ([]models.UserDto, error) {
	if m.listFn != nil {
		return m.listFn(q)
	}
	return nil, errNotConfigured
}

type mockEventCommander struct {
	createFn      func(cqrs.CreateEventCommand) (*models.EventFullDto, error)
	updateUserFn  func(cqrs.UpdateUserEventCommand) (*models.EventFullDto, error)
	updateAdminFn func(cqrs.UpdateAdminEventCommand) (*models.EventFullDto, error)
}

func (m *mockEventCommander) CreateEvent(_ context.Context, cmd cqrs.CreateEventCommand) (*models.EventFullDto, error) {
	if m.createFn != nil {
		return m.createFn(cmd)
	}
	return nil, errNotConfigured
}
func (m *mockEventCommander) UpdateUserEvent(_ context.Context, cmd cqrs.UpdateUserEventCommand) (*models.EventFullDto, error) {
	if m.updateUserFn != nil {
		return m.updateUserFn(cmd)
	}
	return nil, errNotConfigured
}
func (m *mockEventCommander) UpdateAdminEvent(_ context.Context, cmd cqrs.UpdateAdminEventCommand) (*models.EventFullDto, error) {
	if m.updateAdminFn != nil {
		return m.updateAdminFn(cmd)
	}
	return nil, errNotConfigured
}

type mockEventQuerier struct {
	listUserFn    func(cqrs.ListUserEventsQuery) ([]models.EventShortDto, error)
	getUserFn     func(cqrs.GetUserEventQuery) (*models.EventFullDto, error)
	adminSearchFn func(cqrs.AdminSearchEventsQuery) ([]models.EventFullDto, error)
	searchFn      func(cqrs.PublicSearchEventsQuery) ([]models.EventShortDto, error)
	getFn         func(cqrs.GetPublishedEventQuery) (*models.EventFullDto, error)
}

func (m *mockEventQuerier) ListUserEvents(_ context.Context, q cqrs.ListUserEventsQuery) ([]models.EventShortDto, error) {
	if m.listUserFn != nil {
		return m.listUserFn(q)
	}
	return nil, errNotConfigured
}
func (m *mockEventQuerier) GetUserEvent(_ context.Context, q cqrs.GetUserEventQuery) (*models.EventFullDto, error) {
	if m.getUserFn != nil {
		return m.getUserFn(q)
	}
	return nil, errNotConfigured
}
func (m *mockEventQuerier) AdminSearchEvents(_ context.Context, q cqrs.AdminSearchEventsQuery) ([]models.EventFullDto, error) {
	if m.adminSearchFn != nil {
		return m.adminSearchFn(q)
	}
	return nil, errNotConfigured
}
func (m *mockEventQuerier) PublicSearchEvents(_ context.Context, q cqrs.PublicSearchEventsQuery) ([]models.EventShortDto, error) {
	if m.searchFn != nil {
		return m.searchFn(q)
	}
	return nil, errNotConfigured
}
func (m *mockEventQuerier) GetPublishedEvent(_ context.Context, q cqrs.GetPublishedEventQuery) (*models.EventFullDto, error) {
	if m.getFn != nil {
		return m.getFn(q)
	}
	return nil, errNotConfigured
}

type mockRequestCommander struct {
	createFn func(cqrs.CreateRequestCommand) (*models.ParticipationRequestDto, error)
	cancelFn func(cqrs.CancelRequestCommand) (*models.ParticipationRequestDto, error)
	statusFn func(cqrs.UpdateRequestStatusCommand) (*models.EventRequestStatusUpdateResult, error)
}

func (m *mockRequestCommander) CreateRequest(_ context.Context, cmd cqrs.CreateRequestCommand) (*models.ParticipationRequestDto, error) {
	if m.createFn != nil {
		return m.createFn(cmd)
	}
	return nil, errNotConfigured
}
func (m *mockRequestCommander) CancelRequest(_ context.Context, cmd cqrs.CancelRequestCommand) (*models.ParticipationRequestDto, error) {
	if m.cancelFn != nil {
		return m.cancelFn(cmd)
	}
	return nil, errNotConfigured
}
func (m *mockRequestCommander) UpdateRequestStatus(_ context.Context, cmd cqrs.UpdateRequestStatusCommand) (*models.EventRequestStatusUpdateResult, error) {
	if m.statusFn != nil {
		return m.statusFn(cmd)
	}
	return nil, errNotConfigured
}

type mockRequestQuerier struct {
	listUserFn  func(cqrs.ListUserRequestsQuery) ([]models.ParticipationRequestDto, error)
	listEventFn func(cqrs.ListEventRequestsQuery) ([]models.ParticipationRequestDto, error)
}

func (m *mockRequestQuerier) ListUserRequests(_ context.Context, q cqrs.ListUserRequestsQuery) ([]models.ParticipationRequestDto, error) {
	if m.listUserFn != nil {
		return m.listUserFn(q)
	}
	return nil, errNotConfigured
}
func (m *mockRequestQuerier) ListEventRequests(_ context.Context, q cqrs.ListEventRequestsQuery) ([]models.ParticipationRequestDto, error) {
	if m.listEventFn != nil {
		return m.listEventFn(q)
	}
	return nil, errNotConfigured
}

type mockCompilationCommander struct {
	createFn func(cqrs.CreateCompilationCommand) (*models.CompilationDto, error)
	updateFn func(cqrs.UpdateCompilationCommand) (*models.CompilationDto, error)
	deleteFn func(cqrs.DeleteCompilationCommand) error
}

func (m *mockCompilationCommander) CreateCompilation(_ context.Context, cmd cqrs.CreateCompilationCommand) (*models.CompilationDto, error) {
	if m.createFn != nil {
		return m.createFn(cmd)
	}
	return nil, errNotConfigured
}
func (m *mockCompilationCommander) UpdateCompilation(_ context.Context, cmd cqrs.UpdateCompilationCommand) (*models.CompilationDto, error) {
	if m.updateFn != nil {
		return m.updateFn(cmd)
	}
	return nil, errNotConfigured
}
func (m *mockCompilationCommander) DeleteCompilation(_ context.Context, cmd cqrs.DeleteCompilationCommand) error {
	if m.deleteFn != nil {
		return m.deleteFn(cmd)
	}
	return errNotConfigured
}

type mockCompilationQuerier struct {
	listFn func(cqrs.ListCompilationsQuery) ([]models.CompilationDto, error)
	getFn  func(cqrs.GetCompilationQuery) (*models.CompilationDto, error)
}

func (m *mockCompilationQuerier) ListCompilations(_ context.Context, q cqrs.ListCompilationsQuery) ([]models.CompilationDto, error) {
	if m.listFn != nil {
		return m.listFn(q)
	}
	return nil, errNotConfigured
}
func (m *mockCompilationQuerier) GetCompilation(_ context.Context, q cqrs.GetCompilationQuery) (*models.CompilationDto, error) {
	if m.getFn != nil {
		return m.getFn(q)
	}
	return nil, errNotConfigured
}

type mockCommentCommander struct {
	createFn      func(cqrs.CreateCommentCommand) (*models.CommentDto, error)
	updateFn      func(cqrs.UpdateCommentCommand) (*models.CommentDto, error)
	deleteFn      func(cqrs.DeleteCommentCommand) error
	adminDeleteFn func(cqrs.AdminDeleteCommentCommand) error
}

func (m *mockCommentCommander) CreateComment(_ context.Context, cmd cqrs.CreateCommentCommand) (*models.CommentDto, error) {
	if m.createFn != nil {
		return m.createFn(cmd)
	}
	return nil, errNotConfigured
}
func (m *mockCommentCommander) UpdateComment(_ context.Context, cmd cqrs.UpdateCommentCommand) (*models.CommentDto, error) {
	if m.updateFn != nil {
		return m.updateFn(cmd)
	}
	return nil, errNotConfigured
}
func (m *mockCommentCommander) DeleteComment(_ context.Context, cmd cqrs.DeleteCommentCommand) error {
	if m.deleteFn != nil {
		return m.deleteFn(cmd)
	}
	return errNotConfigured
}
func (m *mockCommentCommander) AdminDeleteComment(_ context.Context, cmd cqrs.AdminDeleteCommentCommand) error {
	if m.adminDeleteFn != nil {
		return m.adminDeleteFn(cmd)
	}
	return errNotConfigured
}

type mockCommentQuerier struct {
	listUserFn  func(cqrs.ListUserCommentsQuery) ([]models.CommentDto, error)
	listEventFn func(cqrs.ListEventCommentsQuery) ([]models.CommentDto, error)
}

func (m *mockCommentQuerier) ListUserComments(_ context.Context, q cqrs.ListUserCommentsQuery) ([]models.CommentDto, error) {
	if m.listUserFn != nil {
		return m.listUserFn(q)
	}
	return nil, errNotConfigured
}
func (m *mockCommentQuerier) ListEventComments(_ context.Context, q cqrs.ListEventCommentsQuery) ([]models.CommentDto, error) {
	if m.listEventFn != nil {
		return m.listEventFn(q)
	}
	return nil, errNotConfigured
}

// ---- helpers ----

// mocks holds one mock per port so tests only configure what they call.
type mocks struct {
	categoryCmds    mockCategoryCommander
	categoryQueries mockCategoryQuerier
	userCmds        mockUserCommander
	userQueries     mockUserQuerier
	eventCmds       mockEventCommander
	eventQueries    mockEventQuerier
	requestCmds     mockRequestCommander
	requestQueries  mockRequestQuerier
	compCmds        mockCompilationCommander
	compQueries     mockCompilationQuerier
	commentCmds     mockCommentCommander
	commentQueries  mockCommentQuerier
}

func newTestRouter(m *mocks, guards RouteGuards) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	RegisterRoutes(r, Handlers{
		Categories:   NewCategoryHandler(&m.categoryCmds, &m.categoryQueries),
		Users:        NewUserHandler(&m.userCmds, &m.userQueries),
		Events:       NewEventHandler(&m.eventCmds, &m.eventQueries),
		Requests:     NewRequestHandler(&m.requestCmds, &m.requestQueries),
		Compilations: NewCompilationHandler(&m.compCmds, &m.compQueries),
		Comments:     NewCommentHandler(&m.commentCmds, &m.commentQueries),
	}, guards)
	return r
}

func doRequest(router *gin.Engine, method, url string, body any) *httptest.ResponseRecorder {
	var req *http.Request
	switch b := body.(type) {
	case nil:
		req = httptest.NewRequest(method, url, nil)
	case string:
		req = httptest.NewRequest(method, url, strings.NewReader(b))
		req.Header.Set("Content-Type", "application/json")
	default:
		raw, _ := json.Marshal(b)
		req = httptest.NewRequest(method, url, strings.NewReader(string(raw)))
		req.Header.Set("Content-Type", "application/json")
	}
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func parseJSON(w *httptest.ResponseRecorder) map[string]any {
	var m map[string]any
	_ = json.Unmarshal(w.Body.Bytes(), &m)
	return m
}
