package service

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/Freeeeeet/court_bot/internal/model"
	"go.uber.org/zap"
)

// Notifier сообщает пользователю, что слот задачи открылся
type Notifier interface {
	NotifyAvailable(ctx context.Context, task model.BookingTask) error
}

// WatchService периодически проверяет слоты сохранённых задач.
// Только уведомляет, бронирование не отправляет.
type WatchService struct {
	tasks    TaskStore
	fetcher  GridFetcher
	notifier Notifier
	location *time.Location
	now      func() time.Time
	logger   *zap.Logger

	mu       sync.Mutex
	notified map[model.TaskKey]struct{}
}

func NewWatchService(
	tasks TaskStore,
	fetcher GridFetcher,
	notifier Notifier,
	location *time.Location,
	logger *zap.Logger,
) *WatchService {
	if location == nil {
		location = time.Local
	}
	return &WatchService{
		tasks:    tasks,
		fetcher:  fetcher,
		notifier: notifier,
		location: location,
		now:      time.Now,
		logger:   logger,
		notified: make(map[model.TaskKey]struct{}),
	}
}

type watchGroup struct {
	itemType string
	area     string
	date     string
}

// Run выполняет один проход проверки и возвращает число отправленных уведомлений
func (s *WatchService) Run(ctx context.Context) (int, error) {
	tasks, err := s.tasks.Load(ctx)
	if err != nil {
		return 0, err
	}

	today := s.now().In(s.location).Format(time.DateOnly)
	order := make([]watchGroup, 0)
	groups := make(map[watchGroup][]model.BookingTask)
	for _, t := range tasks {
		// Даты в формате YYYY-MM-DD сравниваются как строки
		if t.ItemType == "" || t.Date < today || s.wasNotified(t.Key()) {
			continue
		}
		g := watchGroup{itemType: t.ItemType, area: t.AreaName, date: t.Date}
		if _, ok := groups[g]; !ok {
			order = append(order, g)
		}
		groups[g] = append(groups[g], t)
	}

	sent := 0
	var errs []error
	for _, g := range order {
		if err := ctx.Err(); err != nil {
			return sent, err
		}

		grid, err := s.fetcher.Fetch(ctx, g.itemType, g.area, g.date)
		if err != nil {
			s.logger.Warn("Watch fetch failed",
				zap.String("item_type", g.itemType),
				zap.String("area", g.area),
				zap.String("date", g.date),
				zap.Error(err),
			)
			errs = append(errs, err)
			continue
		}
		if grid.Synthetic {
			continue
		}

		for _, t := range groups[g] {
			slot, ok := grid.Slot(t.VenueName, t.Time)
			if !ok || model.ClassifyCell(&slot, false, false) != model.CellAvailable {
				continue
			}

			if err := s.notifier.NotifyAvailable(ctx, t); err != nil {
				// без получателей задача ждёт следующего прохода
				if errors.Is(err, ErrNoRecipients) {
					s.logger.Debug("Slot open but no chats to notify", zap.String("venue", t.VenueName))
					continue
				}
				s.logger.Error("Failed to send availability notification", zap.Error(err))
				errs = append(errs, err)
				continue
			}
			s.markNotified(t.Key())
			sent++
		}
	}

	if sent > 0 {
		s.logger.Info("Watch run finished", zap.Int("notified", sent))
	}

	return sent, errors.Join(errs...)
}

func (s *WatchService) wasNotified(key model.TaskKey) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	_, ok := s.notified[key]
	return ok
}

func (s *WatchService) markNotified(key model.TaskKey) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.notified[key] = struct{}{}
}
