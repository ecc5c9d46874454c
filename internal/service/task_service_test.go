package service

import (
	"context"
	"errors"
	"testing"

	"github.com/Freeeeeet/court_bot/internal/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func selectSlots(t *testing.T, grid *model.AvailabilityGrid, cells ...[2]string) *model.Selection {
	t.Helper()
	selection := model.NewSelection()
	for _, c := range cells {
		slot, ok := grid.Slot(c[0], c[1])
		require.True(t, ok, c)
		selection.Toggle(slot)
	}
	return selection
}

func TestTaskServiceCommit(t *testing.T) {
	ctx := context.Background()
	grid := testGrid()
	grid.Add(model.NewVenueSlot("Court B", slotData("09:00", "B", "9", model.UpstreamBookable, "0", "")))
	store := &memoryStore{}
	svc := NewTaskService(store, false, zap.NewNop())

	selection := selectSlots(t, grid, [2]string{"Court A", "08:00"}, [2]string{"Court B", "09:00"})
	result, err := svc.Commit(ctx, grid, selection)
	require.NoError(t, err)
	assert.Equal(t, 2, result.Selected)
	assert.Equal(t, 2, result.Added)
	assert.Equal(t, 80.0, result.Total)
	assert.Equal(t, 0, selection.Len())

	tasks, err := svc.List(ctx)
	require.NoError(t, err)
	require.Len(t, tasks, 2)
	assert.Equal(t, model.BookingTask{
		Date:      "2025-11-21",
		Time:      "08:00",
		VenueName: "Court A",
		AreaName:  "North",
		Price:     40,
		Data:      slotData("08:00", "A", "8", model.UpstreamBookable, "0", ""),
		ItemType:  "20",
	}, tasks[0])

	// повторный коммит тех же слотов ничего не добавляет
	again := selectSlots(t, grid, [2]string{"Court A", "08:00"})
	result, err = svc.Commit(ctx, grid, again)
	require.NoError(t, err)
	assert.Equal(t, 0, result.Added)

	cells, err := svc.ScheduledCells(ctx, "North", "2025-11-21")
	require.NoError(t, err)
	assert.Equal(t, map[model.CellKey]struct{}{
		{Venue: "Court A", Time: "08:00"}: {},
		{Venue: "Court B", Time: "09:00"}: {},
	}, cells)

	times, err := svc.ScheduledTimes(ctx, "North", "2025-11-21")
	require.NoError(t, err)
	assert.Len(t, times, 2)
}

func TestTaskServiceCommitErrors(t *testing.T) {
	ctx := context.Background()

	t.Run("nothing selected", func(t *testing.T) {
		svc := NewTaskService(&memoryStore{}, false, zap.NewNop())
		_, err := svc.Commit(ctx, testGrid(), model.NewSelection())
		assert.ErrorIs(t, err, ErrNothingSelected)
	})

	t.Run("store failure keeps selection", func(t *testing.T) {
		grid := testGrid()
		storeErr := errors.New("disk full")
		svc := NewTaskService(&memoryStore{saveErr: storeErr}, false, zap.NewNop())
		selection := selectSlots(t, grid, [2]string{"Court A", "08:00"})

		_, err := svc.Commit(ctx, grid, selection)
		assert.ErrorIs(t, err, storeErr)
		assert.Equal(t, 1, selection.Len())
	})

	t.Run("synthetic grid", func(t *testing.T) {
		grid := SynthesizeGrid("20", "North", "2025-11-21")
		slot, _ := grid.Slot(grid.Venues[0], "07:00")
		selection := model.NewSelection()
		selection.Toggle(slot)

		_, err := NewTaskService(&memoryStore{}, false, zap.NewNop()).Commit(ctx, grid, selection)
		assert.ErrorIs(t, err, ErrSyntheticSlot)

		result, err := NewTaskService(&memoryStore{}, true, zap.NewNop()).Commit(ctx, grid, selection)
		require.NoError(t, err)
		assert.Equal(t, 1, result.Added)
	})
}

func TestTaskServiceCancel(t *testing.T) {
	ctx := context.Background()
	store := &memoryStore{}
	svc := NewTaskService(store, false, zap.NewNop())

	keep := model.BookingTask{Date: "2025-11-21", Time: "08:00", VenueName: "Court A", AreaName: "North"}
	drop := model.BookingTask{Date: "2025-11-21", Time: "09:00", VenueName: "Court A", AreaName: "North"}
	_, err := store.Save(ctx, []model.BookingTask{keep, drop})
	require.NoError(t, err)

	cancelled, err := svc.Cancel(ctx, drop.Key().Digest())
	require.NoError(t, err)
	assert.Equal(t, drop.Key(), cancelled.Key())

	_, err = svc.Cancel(ctx, drop.Key().Digest())
	assert.ErrorIs(t, err, ErrTaskNotFound)

	tasks, _ := svc.List(ctx)
	require.Len(t, tasks, 1)
	assert.Equal(t, keep.Key(), tasks[0].Key())

	assert.ErrorIs(t, svc.CancelAt(ctx, 5), ErrTaskNotFound)
	require.NoError(t, svc.CancelAt(ctx, 0))
	tasks, _ = svc.List(ctx)
	assert.Empty(t, tasks)
}
