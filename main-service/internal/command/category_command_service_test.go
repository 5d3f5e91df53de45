package command

import (
	"context"
	"testing"

	"github.com/explorewithme/ewm/shared/apperrors"
	"github.com/explorewithme/ewm/shared/cqrs"
	"github.com/explorewithme/ewm/shared/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCategoryCommands(t *testing.T) {
	store := newFakeCategoryStore()
	s := NewCategoryCommandService(store, store)
	ctx := context.Background()

	created, err := s.CreateCategory(ctx, cqrs.CreateCategoryCommand{Name: "Concerts"})
	require.NoError(t, err)
	assert.Equal(t, models.CategoryDto{ID: 1, Name: "Concerts"}, *created)
	assert.Equal(t, *created, store.cached[1], "read model is warmed on create")

	_, err = s.CreateCategory(ctx, cqrs.CreateCategoryCommand{Name: "Concerts"})
	assert.ErrorIs(t, err, apperrors.ErrConflict)

	updated, err := s.UpdateCategory(ctx, cqrs.UpdateCategoryCommand{CategoryID: 1, Name: "Gigs"})
	require.NoError(t, err)
	assert.Equal(t, "Gigs", updated.Name)
	assert.Equal(t, "Gigs", store.cached[1].Name)

	_, err = s.UpdateCategory(ctx, cqrs.UpdateCategoryCommand{CategoryID: 7, Name: "Nope"})
	assert.ErrorIs(t, err, apperrors.ErrNotFound)

	require.NoError(t, s.DeleteCategory(ctx, cqrs.DeleteCategoryCommand{CategoryID: 1}))
	assert.NotContains(t, store.cached, int64(1))
	assert.ErrorIs(t, s.DeleteCategory(ctx, cqrs.DeleteCategoryCommand{CategoryID: 1}), apperrors.ErrNotFound)
}
