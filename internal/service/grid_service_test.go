package service

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/Freeeeeet/court_bot/internal/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func slotData(label, typeNo, levelNo, c7, c8, desc string) model.SlotData {
	return model.SlotData{
		TicketLevelName: label,
		MemberPrice:     40,
		TicketTypeNo:    model.FlexString(typeNo),
		TicketLevelNo:   model.FlexString(levelNo),
		CDefault7:       model.FlexString(c7),
		CDefault8:       model.FlexString(c8),
		Description:     model.FlexString(desc),
	}
}

func testGrid() *model.AvailabilityGrid {
	grid := model.NewAvailabilityGrid("20", "North", "2025-11-21")
	grid.Add(model.NewVenueSlot("Court A", slotData("08:00", "A", "8", model.UpstreamBookable, "0", "")))
	grid.Add(model.NewVenueSlot("Court A", slotData("14:00", "A", "14", model.UpstreamBookable, model.UpstreamOccupied, "")))
	grid.Add(model.NewVenueSlot("Court A", slotData("15:00", "A", "15", model.UpstreamNotBookable, model.UpstreamOccupied, model.UpstreamAdminLock)))
	grid.Add(model.NewVenueSlot("Court B", slotData("08:00", "B", "8", model.UpstreamBookable, "0", model.UpstreamAdminLock)))
	return grid
}

type staticFetcher struct {
	grid *model.AvailabilityGrid
	err  error
	// block держит Fetch, пока тест не разрешит продолжить
	block chan struct{}
}

func (f *staticFetcher) Fetch(context.Context, string, string, string) (*model.AvailabilityGrid, error) {
	if f.block != nil {
		<-f.block
	}
	return f.grid, f.err
}

func TestClassifyGrid(t *testing.T) {
	grid := testGrid()
	selection := model.NewSelection()
	slot, _ := grid.Slot("Court A", "08:00")
	selection.Toggle(slot)

	classified := ClassifyGrid(grid, nil, selection)

	assert.Equal(t, model.CellSelected, classified.State("Court A", "08:00"))
	assert.Equal(t, model.CellOccupied, classified.State("Court A", "14:00"))
	// не бронируется важнее занятости и блокировки
	assert.Equal(t, model.CellUnavailable, classified.State("Court A", "15:00"))
	assert.Equal(t, model.CellLocked, classified.State("Court B", "08:00"))
	assert.Equal(t, model.CellAbsent, classified.State("Court B", "09:00"))
	assert.Equal(t, model.CellAbsent, classified.State("Court Z", "08:00"))

	assert.Len(t, classified.States, 2*15)
}

func TestClassifyGridScheduledWins(t *testing.T) {
	grid := testGrid()
	scheduled := map[model.CellKey]struct{}{
		{Venue: "Court A", Time: "14:00"}: {},
		{Venue: "Court B", Time: "21:00"}: {},
	}

	classified := ClassifyGrid(grid, scheduled, model.NewSelection())

	assert.Equal(t, model.CellScheduled, classified.State("Court A", "14:00"))
	assert.Equal(t, model.CellScheduled, classified.State("Court B", "21:00"))
	assert.Equal(t, model.CellAvailable, classified.State("Court A", "08:00"))
}

func TestGridServiceScheduledOccupiedCell(t *testing.T) {
	ctx := context.Background()
	grid := testGrid()
	store := &memoryStore{}
	tasks := NewTaskService(store, false, zap.NewNop())

	_, err := store.Save(ctx, []model.BookingTask{{
		Date: "2025-11-21", Time: "14:00", VenueName: "Court A", AreaName: "North", Price: 40,
	}})
	require.NoError(t, err)

	svc := NewGridService(&staticFetcher{grid: grid}, tasks, nil, false, zap.NewNop())
	classified, err := svc.Classify(ctx, grid, model.NewSelection())
	require.NoError(t, err)

	assert.Equal(t, model.CellScheduled, classified.State("Court A", "14:00"))
	assert.Equal(t, 1, classified.Count(model.CellScheduled))

	// задача другой зоны на ту же площадку и время не влияет
	_, err = store.Save(ctx, []model.BookingTask{{
		Date: "2025-11-21", Time: "08:00", VenueName: "Court A", AreaName: "South",
	}})
	require.NoError(t, err)
	classified, err = svc.Classify(ctx, grid, model.NewSelection())
	require.NoError(t, err)
	assert.Equal(t, model.CellAvailable, classified.State("Court A", "08:00"))
}

func TestGridServiceToggle(t *testing.T) {
	ctx := context.Background()
	grid := testGrid()
	svc := NewGridService(&staticFetcher{grid: grid}, NewTaskService(&memoryStore{}, false, zap.NewNop()), nil, false, zap.NewNop())
	selection := model.NewSelection()

	selected, err := svc.Toggle(ctx, grid, selection, "Court A", "08:00")
	require.NoError(t, err)
	assert.True(t, selected)
	assert.Equal(t, 1, selection.Len())

	selected, err = svc.Toggle(ctx, grid, selection, "Court A", "08:00")
	require.NoError(t, err)
	assert.False(t, selected)
	assert.Equal(t, 0, selection.Len())

	for _, cell := range [][2]string{
		{"Court A", "14:00"},
		{"Court A", "15:00"},
		{"Court B", "08:00"},
		{"Court B", "09:00"},
	} {
		_, err := svc.Toggle(ctx, grid, selection, cell[0], cell[1])
		assert.ErrorIs(t, err, ErrSlotNotSelectable, cell)
	}
	assert.Equal(t, 0, selection.Len())
}

func TestGridServiceToggleSynthetic(t *testing.T) {
	ctx := context.Background()
	grid := SynthesizeGrid("20", "North", "2025-11-21")

	var venue, tm string
	for _, v := range grid.Venues {
		for _, label := range model.TimeAxis() {
			slot, _ := grid.Slot(v, label)
			if model.ClassifyCell(&slot, false, false) == model.CellAvailable {
				venue, tm = v, label
				break
			}
		}
		if venue != "" {
			break
		}
	}
	require.NotEmpty(t, venue)

	strict := NewGridService(&staticFetcher{grid: grid}, NewTaskService(&memoryStore{}, false, zap.NewNop()), nil, false, zap.NewNop())
	_, err := strict.Toggle(ctx, grid, model.NewSelection(), venue, tm)
	assert.ErrorIs(t, err, ErrSyntheticSlot)

	lenient := NewGridService(&staticFetcher{grid: grid}, NewTaskService(&memoryStore{}, true, zap.NewNop()), nil, true, zap.NewNop())
	selected, err := lenient.Toggle(ctx, grid, model.NewSelection(), venue, tm)
	require.NoError(t, err)
	assert.True(t, selected)
}

func TestGridServiceLoadDiscardsStale(t *testing.T) {
	ctx := context.Background()
	slow := &staticFetcher{grid: testGrid(), block: make(chan struct{})}
	views := NewViewTracker()
	svc := NewGridService(slow, NewTaskService(&memoryStore{}, false, zap.NewNop()), views, false, zap.NewNop())

	var (
		wg       sync.WaitGroup
		staleErr error
	)
	wg.Add(1)
	go func() {
		defer wg.Done()
		_, staleErr = svc.Load(ctx, "chat:1", "20", "North", "2025-11-21")
	}()

	// ждём, пока первая загрузка получит поколение
	require.Eventually(t, func() bool { return views.Current("chat:1") == 1 }, time.Second, time.Millisecond)

	fast := NewGridService(&staticFetcher{grid: testGrid()}, NewTaskService(&memoryStore{}, false, zap.NewNop()), views, false, zap.NewNop())
	view, err := fast.Load(ctx, "chat:1", "20", "North", "2025-11-22")
	require.NoError(t, err)
	assert.Equal(t, uint64(2), view.Generation)

	close(slow.block)
	wg.Wait()
	assert.ErrorIs(t, staleErr, ErrStaleView)

	assert.True(t, svc.IsCurrent("chat:1", 2))
	assert.False(t, svc.IsCurrent("chat:1", 1))
}

func TestGridServiceLoadDiscardsStaleFailure(t *testing.T) {
	ctx := context.Background()
	slow := &staticFetcher{err: errors.New("timeout"), block: make(chan struct{})}
	views := NewViewTracker()
	svc := NewGridService(slow, NewTaskService(&memoryStore{}, false, zap.NewNop()), views, false, zap.NewNop())

	var (
		wg       sync.WaitGroup
		staleErr error
	)
	wg.Add(1)
	go func() {
		defer wg.Done()
		_, staleErr = svc.Load(ctx, "chat:1", "20", "North", "2025-11-21")
	}()

	require.Eventually(t, func() bool { return views.Current("chat:1") == 1 }, time.Second, time.Millisecond)

	fast := NewGridService(&staticFetcher{grid: testGrid()}, NewTaskService(&memoryStore{}, false, zap.NewNop()), views, false, zap.NewNop())
	_, err := fast.Load(ctx, "chat:1", "20", "North", "2025-11-22")
	require.NoError(t, err)

	close(slow.block)
	wg.Wait()
	assert.ErrorIs(t, staleErr, ErrStaleView)

	// ошибка актуальной загрузки возвращается как есть
	_, err = svc.Load(ctx, "chat:1", "20", "North", "2025-11-21")
	assert.EqualError(t, err, "timeout")
}

func TestGridServiceRestoreSkipsScheduled(t *testing.T) {
	ctx := context.Background()
	store := &memoryStore{}
	svc := NewGridService(nil, NewTaskService(store, false, zap.NewNop()), nil, false, zap.NewNop())

	old := testGrid()
	old.Add(model.NewVenueSlot("Court B", slotData("10:00", "B", "10", model.UpstreamBookable, "0", "")))
	keep := make([]model.VenueSlot, 0)
	for _, cell := range []model.CellKey{
		{Venue: "Court A", Time: "08:00"},
		{Venue: "Court A", Time: "14:00"},
		{Venue: "Court B", Time: "10:00"},
	} {
		slot, ok := old.Slot(cell.Venue, cell.Time)
		require.True(t, ok)
		keep = append(keep, slot)
	}

	// другой чат успел сохранить задачу на Court B 10:00
	_, err := store.Save(ctx, []model.BookingTask{{
		Date: "2025-11-21", Time: "10:00", VenueName: "Court B", AreaName: "North", Price: 40,
	}})
	require.NoError(t, err)

	fresh := testGrid()
	fresh.Add(model.NewVenueSlot("Court B", slotData("10:00", "B", "10", model.UpstreamBookable, "0", "")))
	selection := model.NewSelection()
	require.NoError(t, svc.Restore(ctx, fresh, selection, keep))

	require.Equal(t, 1, selection.Len())
	assert.True(t, selection.Contains(model.SlotID{TypeNo: "A", LevelNo: "8"}))
	assert.Equal(t, 40.0, selection.Total())

	require.NoError(t, svc.Restore(ctx, fresh, selection, nil))
	assert.Equal(t, 1, selection.Len())
}

func TestViewTrackerKeysAreIndependent(t *testing.T) {
	tracker := NewViewTracker()

	a := tracker.Begin("a")
	b := tracker.Begin("b")
	tracker.Begin("b")

	assert.True(t, tracker.IsCurrent("a", a))
	assert.False(t, tracker.IsCurrent("b", b))
	assert.Equal(t, uint64(0), tracker.Current("c"))
}
