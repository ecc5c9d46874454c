package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sync"

	"github.com/Freeeeeet/court_bot/internal/model"
	"go.uber.org/zap"
)

// ErrTaskNotFound задача не найдена (индекс вне диапазона или ключа нет)
var ErrTaskNotFound = errors.New("task not found")

// TaskFileRepository хранит задачи в одном JSON файле.
// Каждая мутация перечитывает файл и переписывает его целиком под мьютексом.
type TaskFileRepository struct {
	mu     sync.Mutex
	path   string
	logger *zap.Logger
}

func NewTaskFileRepository(path string, logger *zap.Logger) *TaskFileRepository {
	return &TaskFileRepository{
		path:   path,
		logger: logger,
	}
}

// Load возвращает все задачи. Нет файла или он битый - пустой список.
func (r *TaskFileRepository) Load(_ context.Context) ([]model.BookingTask, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	return r.load(), nil
}

// Save добавляет задачи, которых ещё нет по естественному ключу.
// Возвращает количество добавленных.
func (r *TaskFileRepository) Save(_ context.Context, tasks []model.BookingTask) (int, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	current := r.load()
	merged, added := mergeTasks(current, tasks)
	if added == 0 {
		return 0, nil
	}

	if err := r.persist(merged); err != nil {
		return 0, fmt.Errorf("save tasks: %w", err)
	}
	return added, nil
}

// DeleteAt удаляет задачу по позиции в только что перечитанном списке
func (r *TaskFileRepository) DeleteAt(_ context.Context, index int) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	tasks := r.load()
	if index < 0 || index >= len(tasks) {
		return ErrTaskNotFound
	}

	tasks = append(tasks[:index], tasks[index+1:]...)
	if err := r.persist(tasks); err != nil {
		return fmt.Errorf("delete task: %w", err)
	}
	return nil
}

// DeleteByKey удаляет задачу по естественному ключу
func (r *TaskFileRepository) DeleteByKey(_ context.Context, key model.TaskKey) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	tasks := r.load()
	for i, t := range tasks {
		if t.Key() == key {
			tasks = append(tasks[:i], tasks[i+1:]...)
			if err := r.persist(tasks); err != nil {
				return fmt.Errorf("delete task: %w", err)
			}
			return nil
		}
	}
	return ErrTaskNotFound
}

// ScheduledTimes время задач в указанной зоне и дате
func (r *TaskFileRepository) ScheduledTimes(_ context.Context, area, date string) (map[string]struct{}, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	return scheduledTimes(r.load(), area, date), nil
}

func (r *TaskFileRepository) load() []model.BookingTask {
	data, err := os.ReadFile(r.path)
	if err != nil {
		if !errors.Is(err, fs.ErrNotExist) {
			r.logger.Warn("Failed to read task file", zap.String("path", r.path), zap.Error(err))
		}
		return []model.BookingTask{}
	}

	var tasks []model.BookingTask
	if err := json.Unmarshal(data, &tasks); err != nil {
		r.logger.Warn("Task file is corrupt, treating as empty", zap.String("path", r.path), zap.Error(err))
		return []model.BookingTask{}
	}
	if tasks == nil {
		tasks = []model.BookingTask{}
	}
	return tasks
}

func (r *TaskFileRepository) persist(tasks []model.BookingTask) error {
	data, err := json.MarshalIndent(tasks, "", "    ")
	if err != nil {
		return err
	}

	dir := filepath.Dir(r.path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return err
	}

	tmp, err := os.CreateTemp(dir, ".booking-tasks-*.tmp")
	if err != nil {
		return err
	}
	tmpName := tmp.Name()
	defer os.Remove(tmpName)

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return err
	}
	if err := tmp.Sync(); err != nil {
		tmp.Close()
		return err
	}
	if err := tmp.Close(); err != nil {
		return err
	}
	return os.Rename(tmpName, r.path)
}

// mergeTasks дописывает новые задачи, пропуская дубликаты по ключу,
// в том числе внутри самой пачки
func mergeTasks(current, incoming []model.BookingTask) ([]model.BookingTask, int) {
	seen := make(map[model.TaskKey]struct{}, len(current)+len(incoming))
	for _, t := range current {
		seen[t.Key()] = struct{}{}
	}

	added := 0
	for _, t := range incoming {
		key := t.Key()
		if _, exists := seen[key]; exists {
			continue
		}
		seen[key] = struct{}{}
		current = append(current, t)
		added++
	}
	return current, added
}

func scheduledTimes(tasks []model.BookingTask, area, date string) map[string]struct{} {
	times := make(map[string]struct{})
	for _, t := range tasks {
		if t.AreaName == area && t.Date == date {
			times[t.Time] = struct{}{}
		}
	}
	return times
}
