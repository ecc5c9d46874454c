package service

import (
	"context"
	"fmt"

	"github.com/Freeeeeet/court_bot/internal/model"
	"go.uber.org/zap"
)

// TaskStore хранилище задач бронирования
type TaskStore interface {
	Load(ctx context.Context) ([]model.BookingTask, error)
	Save(ctx context.Context, tasks []model.BookingTask) (int, error)
	DeleteAt(ctx context.Context, index int) error
	DeleteByKey(ctx context.Context, key model.TaskKey) error
	ScheduledTimes(ctx context.Context, area, date string) (map[string]struct{}, error)
}

// CommitResult итог сохранения выбора
type CommitResult struct {
	Selected int
	Added    int
	Total    float64
}

// TaskService бизнес-логика задач бронирования
type TaskService struct {
	store          TaskStore
	allowSynthetic bool
	logger         *zap.Logger
}

func NewTaskService(store TaskStore, allowSynthetic bool, logger *zap.Logger) *TaskService {
	return &TaskService{
		store:          store,
		allowSynthetic: allowSynthetic,
		logger:         logger,
	}
}

// Commit превращает выбор в задачи и сохраняет их. Выбор очищается
// только после успешного сохранения.
func (s *TaskService) Commit(ctx context.Context, grid *model.AvailabilityGrid, selection *model.Selection) (*CommitResult, error) {
	if selection == nil || selection.Len() == 0 {
		return nil, ErrNothingSelected
	}
	if grid.Synthetic && !s.allowSynthetic {
		return nil, ErrSyntheticSlot
	}

	items := selection.Items()
	tasks := make([]model.BookingTask, 0, len(items))
	for _, slot := range items {
		tasks = append(tasks, model.NewTaskFromSlot(grid, slot))
	}

	added, err := s.store.Save(ctx, tasks)
	if err != nil {
		return nil, fmt.Errorf("save tasks: %w", err)
	}

	result := &CommitResult{
		Selected: len(items),
		Added:    added,
		Total:    selection.Total(),
	}
	selection.Clear()

	s.logger.Info("Booking tasks committed",
		zap.String("area", grid.Area),
		zap.String("date", grid.Date),
		zap.Int("selected", result.Selected),
		zap.Int("added", result.Added),
	)

	return result, nil
}

// List все задачи в порядке добавления
func (s *TaskService) List(ctx context.Context) ([]model.BookingTask, error) {
	tasks, err := s.store.Load(ctx)
	if err != nil {
		return nil, fmt.Errorf("load tasks: %w", err)
	}
	return tasks, nil
}

// Cancel удаляет задачу по дайджесту её ключа
func (s *TaskService) Cancel(ctx context.Context, digest string) (*model.BookingTask, error) {
	tasks, err := s.List(ctx)
	if err != nil {
		return nil, err
	}

	for _, t := range tasks {
		if t.Key().Digest() != digest {
			continue
		}
		if err := s.store.DeleteByKey(ctx, t.Key()); err != nil {
			return nil, err
		}
		s.logger.Info("Booking task cancelled",
			zap.String("date", t.Date),
			zap.String("time", t.Time),
			zap.String("venue", t.VenueName),
			zap.String("area", t.AreaName),
		)
		return &t, nil
	}

	return nil, ErrTaskNotFound
}

// CancelAt удаляет задачу по позиции в списке
func (s *TaskService) CancelAt(ctx context.Context, index int) error {
	return s.store.DeleteAt(ctx, index)
}

// ScheduledCells ячейки (площадка, время) с задачами для зоны и даты
func (s *TaskService) ScheduledCells(ctx context.Context, area, date string) (map[model.CellKey]struct{}, error) {
	tasks, err := s.List(ctx)
	if err != nil {
		return nil, err
	}

	cells := make(map[model.CellKey]struct{})
	for _, t := range tasks {
		if t.AreaName == area && t.Date == date {
			cells[t.Key().Cell()] = struct{}{}
		}
	}
	return cells, nil
}

// ScheduledTimes время задач для зоны и даты, без учёта площадки
func (s *TaskService) ScheduledTimes(ctx context.Context, area, date string) (map[string]struct{}, error) {
	times, err := s.store.ScheduledTimes(ctx, area, date)
	if err != nil {
		return nil, fmt.Errorf("get scheduled times: %w", err)
	}
	return times, nil
}
