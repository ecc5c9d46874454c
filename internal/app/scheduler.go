package app

import (
	"context"
	"fmt"
	"time"

	"github.com/robfig/cron/v3"
	"go.uber.org/zap"
)

// WatchRunner один проход проверки задач
type WatchRunner interface {
	Run(ctx context.Context) (int, error)
}

// Scheduler запускает проверку задач по cron расписанию
type Scheduler struct {
	cron   *cron.Cron
	runner WatchRunner
	spec   string
	logger *zap.Logger
}

// NewScheduler пустое расписание выключает проверку
func NewScheduler(spec string, location *time.Location, runner WatchRunner, logger *zap.Logger) (*Scheduler, error) {
	if location == nil {
		location = time.Local
	}
	if spec != "" {
		if _, err := cron.ParseStandard(spec); err != nil {
			return nil, fmt.Errorf("parse watch schedule %q: %w", spec, err)
		}
	}

	return &Scheduler{
		cron: cron.New(
			cron.WithLocation(location),
			cron.WithChain(cron.Recover(cron.DiscardLogger), cron.SkipIfStillRunning(cron.DiscardLogger)),
		),
		runner: runner,
		spec:   spec,
		logger: logger,
	}, nil
}

// Start регистрирует задачу и запускает cron
func (s *Scheduler) Start(ctx context.Context) error {
	if s.spec == "" {
		s.logger.Info("Task watcher disabled")
		return nil
	}

	_, err := s.cron.AddFunc(s.spec, func() { s.runWatch(ctx) })
	if err != nil {
		return fmt.Errorf("add watch job: %w", err)
	}

	s.logger.Info("Starting task watcher", zap.String("schedule", s.spec))
	s.cron.Start()
	return nil
}

// Stop останавливает cron и ждёт завершения текущего прохода
func (s *Scheduler) Stop() {
	s.logger.Info("Stopping task watcher")
	<-s.cron.Stop().Done()
}

func (s *Scheduler) runWatch(ctx context.Context) {
	if ctx.Err() != nil {
		return
	}

	notified, err := s.runner.Run(ctx)
	if err != nil {
		s.logger.Warn("Task watch finished with errors", zap.Int("notified", notified), zap.Error(err))
		return
	}
	s.logger.Debug("Task watch completed", zap.Int("notified", notified))
}
