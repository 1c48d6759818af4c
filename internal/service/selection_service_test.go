package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"fleettrack/internal/model"
	"fleettrack/internal/repository"
)

func newSelectionService(db *gorm.DB) SelectionService {
	return NewSelectionService(
		repository.NewSelectionRepository(db),
		repository.NewOptionRepository(db),
		repository.NewTransactionManager(db),
	)
}

func TestSaveSelection(t *testing.T) {
	db := newTestDB(t)
	svc := newSelectionService(db)
	user := seedUser(t, db, "driver@example.com")
	project := seedOption(t, db, model.OptionProject, "Highway 7")
	loading := seedOption(t, db, model.OptionLoadingPoint, "Quarry A")
	unloading := seedOption(t, db, model.OptionUnloadingPoint, "Site B")
	ctx := context.Background()

	first, err := svc.Save(ctx, user.ID, SaveSelectionRequest{
		ProjectID:     project.ID.String(),
		SelectionType: "loading_point",
		SelectionID:   loading.ID.String(),
	})
	require.NoError(t, err)
	assert.Equal(t, "Highway 7", first.ProjectName)
	assert.Equal(t, "Quarry A", first.SelectionName)
	assert.True(t, first.IsActive)

	t.Run("saving again swaps the active selection", func(t *testing.T) {
		second, err := svc.Save(ctx, user.ID, SaveSelectionRequest{
			ProjectID:     project.ID.String(),
			SelectionType: "unloading_point",
			SelectionID:   unloading.ID.String(),
		})
		require.NoError(t, err)

		current, err := svc.Current(ctx, user.ID)
		require.NoError(t, err)
		assert.Equal(t, second.ID, current.ID)

		var active int64
		require.NoError(t, db.Model(&model.UserSelection{}).
			Where("user_id = ? AND is_active = ?", user.ID, true).
			Count(&active).Error)
		assert.EqualValues(t, 1, active)
	})

	t.Run("history keeps superseded selections", func(t *testing.T) {
		history, total, err := svc.History(ctx, user.ID, 10, 0)
		require.NoError(t, err)
		assert.EqualValues(t, 2, total)
		assert.Len(t, history, 2)
	})

	t.Run("selection type must match the option's taxonomy", func(t *testing.T) {
		_, err := svc.Save(ctx, user.ID, SaveSelectionRequest{
			ProjectID:     project.ID.String(),
			SelectionType: "loading_point",
			SelectionID:   unloading.ID.String(),
		})
		assert.ErrorIs(t, err, ErrInvalidReference)
	})

	t.Run("unknown selection type", func(t *testing.T) {
		_, err := svc.Save(ctx, user.ID, SaveSelectionRequest{
			ProjectID:     project.ID.String(),
			SelectionType: "warehouse",
			SelectionID:   loading.ID.String(),
		})
		assert.ErrorIs(t, err, ErrInvalidSelection)
	})

	t.Run("deactivate hides without deleting", func(t *testing.T) {
		current, err := svc.Current(ctx, user.ID)
		require.NoError(t, err)

		require.NoError(t, svc.Deactivate(ctx, user.ID, current.ID))

		_, err = svc.Current(ctx, user.ID)
		assert.ErrorIs(t, err, ErrNotFound)

		_, total, err := svc.History(ctx, user.ID, 10, 0)
		require.NoError(t, err)
		assert.EqualValues(t, 2, total)
	})

	t.Run("deactivating another user's selection reads as not found", func(t *testing.T) {
		other := seedUser(t, db, "other@example.com")
		mine, err := svc.Save(ctx, user.ID, SaveSelectionRequest{
			ProjectID:     project.ID.String(),
			SelectionType: "loading_point",
			SelectionID:   loading.ID.String(),
		})
		require.NoError(t, err)

		assert.ErrorIs(t, svc.Deactivate(ctx, other.ID, mine.ID), ErrNotFound)
	})
}
