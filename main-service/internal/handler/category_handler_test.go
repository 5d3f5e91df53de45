package handler

import (
	"net/http"
	"strings"
	"testing"

	"github.com/explorewithme/ewm/shared/apperrors"
	"github.com/explorewithme/ewm/shared/cqrs"
	"github.com/explorewithme/ewm/shared/models"
)

func TestCreateCategory(t *testing.T) {
	tests := []struct {
		name           string
		body           any
		createFn       func(cqrs.CreateCategoryCommand) (*models.CategoryDto, error)
		expectedStatus int
	}{
		{
			name: "success",
			body: map[string]any{"name": "Concerts"},
			createFn: func(cmd cqrs.CreateCategoryCommand) (*models.CategoryDto, error) {
				return &models.CategoryDto{ID: 1, Name: cmd.Name}, nil
			},
			expectedStatus: http.StatusCreated,
		},
		{
			name:           "bad request - blank name",
			body:           map[string]any{"name": "   "},
			expectedStatus: http.StatusBadRequest,
		},
		{
			name:           "bad request - name too long",
			body:           map[string]any{"name": strings.Repeat("a", 51)},
			expectedStatus: http.StatusBadRequest,
		},
		{
			name:           "bad request - malformed json",
			body:           `{"name":`,
			expectedStatus: http.StatusBadRequest,
		},
		{
			name: "conflict - duplicate name",
			body: map[string]any{"name": "Concerts"},
			createFn: func(cmd cqrs.CreateCategoryCommand) (*models.CategoryDto, error) {
				return nil, apperrors.Conflict("category name %q already exists", cmd.Name)
			},
			expectedStatus: http.StatusConflict,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m := &mocks{categoryCmds: mockCategoryCommander{createFn: tt.createFn}}
			w := doRequest(newTestRouter(m, RouteGuards{}), http.MethodPost, "/admin/categories", tt.body)
			if w.Code != tt.expectedStatus {
				t.Errorf("[%s] expected %d got %d; body: %s", tt.name, tt.expectedStatus, w.Code, w.Body.String())
			}
		})
	}
}

func TestUpdateCategoryPassesPathID(t *testing.T) {
	var got cqrs.UpdateCategoryCommand
	m := &mocks{categoryCmds: mockCategoryCommander{updateFn: func(cmd cqrs.UpdateCategoryCommand) (*models.CategoryDto, error) {
		got = cmd
		return &models.CategoryDto{ID: cmd.CategoryID, Name: cmd.Name}, nil
	}}}
	w := doRequest(newTestRouter(m, RouteGuards{}), http.MethodPatch, "/admin/categories/7", map[string]any{"name": "Theatre"})
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d; body: %s", w.Code, w.Body.String())
	}
	if got.CategoryID != 7 || got.Name != "Theatre" {
		t.Errorf("unexpected command %+v", got)
	}
}

func TestDeleteCategory(t *testing.T) {
	tests := []struct {
		name           string
		path           string
		deleteFn       func(cqrs.DeleteCategoryCommand) error
		expectedStatus int
	}{
		{"success", "/admin/categories/1", func(cqrs.DeleteCategoryCommand) error { return nil }, http.StatusNoContent},
		{"not found", "/admin/categories/2", func(cmd cqrs.DeleteCategoryCommand) error {
			return apperrors.NotFound("Category with id=%d was not found", cmd.CategoryID)
		}, http.StatusNotFound},
		{"conflict - in use", "/admin/categories/3", func(cqrs.DeleteCategoryCommand) error {
			return apperrors.Conflict("The category is not empty")
		}, http.StatusConflict},
		{"bad request - invalid id", "/admin/categories/abc", nil, http.StatusBadRequest},
		{"internal error", "/admin/categories/4", func(cqrs.DeleteCategoryCommand) error {
			return errNotConfigured
		}, http.StatusInternalServerError},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m := &mocks{categoryCmds: mockCategoryCommander{deleteFn: tt.deleteFn}}
			w := doRequest(newTestRouter(m, RouteGuards{}), http.MethodDelete, tt.path, nil)
			if w.Code != tt.expectedStatus {
				t.Errorf("[%s] expected %d got %d; body: %s", tt.name, tt.expectedStatus, w.Code, w.Body.String())
			}
		})
	}
}

func TestListCategoriesPaging(t *testing.T) {
	var got cqrs.Page
	m := &mocks{categoryQueries: mockCategoryQuerier{listFn: func(q cqrs.ListCategoriesQuery) ([]models.CategoryDto, error) {
		got = q.Page
		return []models.CategoryDto{{ID: 1, Name: "Concerts"}}, nil
	}}}
	router := newTestRouter(m, RouteGuards{})

	w := doRequest(router, http.MethodGet, "/categories", nil)
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", w.Code)
	}
	if got.From != 0 || got.Size != 10 {
		t.Errorf("expected default page, got %+v", got)
	}

	w = doRequest(router, http.MethodGet, "/categories?from=20&size=5", nil)
	if w.Code != http.StatusOK || got.From != 20 || got.Size != 5 {
		t.Errorf("expected 200 with page 20/5, got %d %+v", w.Code, got)
	}

	w = doRequest(router, http.MethodGet, "/categories?size=0", nil)
	if w.Code != http.StatusBadRequest {
		t.Errorf("expected 400 for size=0, got %d", w.Code)
	}
}

func TestGetCategoryNotFoundBody(t *testing.T) {
	m := &mocks{categoryQueries: mockCategoryQuerier{getFn: func(q cqrs.GetCategoryQuery) (*models.CategoryDto, error) {
		return nil, apperrors.NotFound("Category with id=%d was not found", q.CategoryID)
	}}}
	w := doRequest(newTestRouter(m, RouteGuards{}), http.MethodGet, "/categories/9", nil)
	if w.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", w.Code)
	}
	body := parseJSON(w)
	if body["status"] != "NOT_FOUND" {
		t.Errorf("expected NOT_FOUND status, got %v", body["status"])
	}
	if body["message"] != "Category with id=9 was not found" {
		t.Errorf("unexpected message %v", body["message"])
	}
}
