package service

import (
	"context"
	"fmt"

	"github.com/Freeeeeet/court_bot/internal/model"
	"go.uber.org/zap"
)

// GridFetcher источник сетки доступности
type GridFetcher interface {
	Fetch(ctx context.Context, itemType, area, date string) (*model.AvailabilityGrid, error)
}

// ScheduledCellsProvider отдаёт ячейки, на которые уже есть задачи
type ScheduledCellsProvider interface {
	ScheduledCells(ctx context.Context, area, date string) (map[model.CellKey]struct{}, error)
}

// GridView загруженная сетка с поколением представления
type GridView struct {
	Grid       *model.AvailabilityGrid
	Generation uint64
}

// GridService загружает и классифицирует сетку, управляет выбором ячеек
type GridService struct {
	fetcher        GridFetcher
	tasks          ScheduledCellsProvider
	views          *ViewTracker
	allowSynthetic bool
	logger         *zap.Logger
}

func NewGridService(
	fetcher GridFetcher,
	tasks ScheduledCellsProvider,
	views *ViewTracker,
	allowSynthetic bool,
	logger *zap.Logger,
) *GridService {
	if views == nil {
		views = NewViewTracker()
	}
	return &GridService{
		fetcher:        fetcher,
		tasks:          tasks,
		views:          views,
		allowSynthetic: allowSynthetic,
		logger:         logger,
	}
}

// Load загружает сетку для представления viewKey. Если пока шёл запрос
// началась более новая загрузка того же представления, возвращает ErrStaleView,
// в том числе вместо ошибки запроса.
func (s *GridService) Load(ctx context.Context, viewKey, itemType, area, date string) (*GridView, error) {
	gen := s.views.Begin(viewKey)

	grid, err := s.fetcher.Fetch(ctx, itemType, area, date)

	if !s.views.IsCurrent(viewKey, gen) {
		s.logger.Debug("Discarding stale grid",
			zap.String("view", viewKey),
			zap.Uint64("generation", gen),
			zap.Error(err),
		)
		return nil, ErrStaleView
	}
	if err != nil {
		return nil, err
	}

	return &GridView{Grid: grid, Generation: gen}, nil
}

// IsCurrent проверяет, что поколение представления не устарело
func (s *GridService) IsCurrent(viewKey string, gen uint64) bool {
	return s.views.IsCurrent(viewKey, gen)
}

// Classify вычисляет состояния ячеек с учётом сохранённых задач и выбора
func (s *GridService) Classify(ctx context.Context, grid *model.AvailabilityGrid, selection *model.Selection) (*model.ClassifiedGrid, error) {
	scheduled, err := s.tasks.ScheduledCells(ctx, grid.Area, grid.Date)
	if err != nil {
		return nil, fmt.Errorf("get scheduled cells: %w", err)
	}
	return ClassifyGrid(grid, scheduled, selection), nil
}

// Toggle переключает выбор ячейки. Возвращает true, если ячейка стала выбранной.
func (s *GridService) Toggle(
	ctx context.Context,
	grid *model.AvailabilityGrid,
	selection *model.Selection,
	venue, time string,
) (bool, error) {
	if grid.Synthetic && !s.allowSynthetic {
		return false, ErrSyntheticSlot
	}

	classified, err := s.Classify(ctx, grid, selection)
	if err != nil {
		return false, err
	}

	if !classified.State(venue, time).Selectable() {
		return false, ErrSlotNotSelectable
	}

	slot, _ := grid.Slot(venue, time)
	return selection.Toggle(slot), nil
}

// Restore переносит прежний выбор в новую сетку. Остаются только слоты,
// которые по-прежнему свободны с учётом сохранённых задач.
func (s *GridService) Restore(
	ctx context.Context,
	grid *model.AvailabilityGrid,
	selection *model.Selection,
	keep []model.VenueSlot,
) error {
	if len(keep) == 0 {
		return nil
	}

	classified, err := s.Classify(ctx, grid, nil)
	if err != nil {
		return err
	}

	for _, old := range keep {
		slot, ok := grid.SlotByID(old.ID)
		if !ok || selection.Contains(slot.ID) {
			continue
		}
		if classified.State(slot.Venue, slot.Time) == model.CellAvailable {
			selection.Toggle(slot)
		}
	}
	return nil
}

// ClassifyGrid классифицирует все ячейки сетки по оси времени.
// Задачи на ячейки без данных портала тоже показываются как запланированные.
func ClassifyGrid(
	grid *model.AvailabilityGrid,
	scheduled map[model.CellKey]struct{},
	selection *model.Selection,
) *model.ClassifiedGrid {
	states := make(map[model.CellKey]model.CellState, len(grid.Venues)*len(grid.Times()))

	for _, venue := range grid.Venues {
		for _, t := range grid.Times() {
			key := model.CellKey{Venue: venue, Time: t}
			_, isScheduled := scheduled[key]

			var slotPtr *model.VenueSlot
			selected := false
			if slot, ok := grid.Slot(venue, t); ok {
				slotPtr = &slot
				selected = selection != nil && selection.Contains(slot.ID)
			}

			states[key] = model.ClassifyCell(slotPtr, isScheduled, selected)
		}
	}

	return &model.ClassifiedGrid{Grid: grid, States: states}
}
