package repository

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"

	"github.com/Freeeeeet/court_bot/internal/model"
	"github.com/Freeeeeet/court_bot/internal/repository/base"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// TaskPgRepository хранит задачи в PostgreSQL. Порядок задач - порядок вставки.
type TaskPgRepository struct {
	*base.Repository
	mu sync.Mutex
}

func NewTaskPgRepository(pool *pgxpool.Pool) *TaskPgRepository {
	return &TaskPgRepository{Repository: base.NewRepository(pool)}
}

// Load получает все задачи в порядке создания
func (r *TaskPgRepository) Load(ctx context.Context) ([]model.BookingTask, error) {
	query := `
		SELECT slot_date, slot_time, venue_name, area_name, price, item_type, data
		FROM booking_tasks
		ORDER BY id
	`

	rows, err := r.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("load tasks: %w", err)
	}
	defer rows.Close()

	tasks := make([]model.BookingTask, 0)
	for rows.Next() {
		task, err := scanTask(rows)
		if err != nil {
			return nil, fmt.Errorf("scan task: %w", err)
		}
		tasks = append(tasks, task)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate tasks: %w", err)
	}

	return tasks, nil
}

// Save вставляет задачи, пропуская существующие по естественному ключу
func (r *TaskPgRepository) Save(ctx context.Context, tasks []model.BookingTask) (int, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	query := `
		INSERT INTO booking_tasks (slot_date, slot_time, venue_name, area_name, price, item_type, data)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		ON CONFLICT ON CONSTRAINT booking_tasks_natural_key DO NOTHING
	`

	added := 0
	err := r.InTx(ctx, func(tx pgx.Tx) error {
		for _, t := range tasks {
			data, err := json.Marshal(t.Data)
			if err != nil {
				return fmt.Errorf("marshal task data: %w", err)
			}

			tag, err := tx.Exec(ctx, query,
				t.Date, t.Time, t.VenueName, t.AreaName, t.Price, t.ItemType, data,
			)
			if err != nil {
				return fmt.Errorf("insert task: %w", err)
			}
			added += int(tag.RowsAffected())
		}
		return nil
	})
	if err != nil {
		return 0, err
	}

	return added, nil
}

// DeleteAt удаляет задачу по позиции в порядке создания
func (r *TaskPgRepository) DeleteAt(ctx context.Context, index int) error {
	if index < 0 {
		return ErrTaskNotFound
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	query := `
		DELETE FROM booking_tasks
		WHERE id = (SELECT id FROM booking_tasks ORDER BY id OFFSET $1 LIMIT 1)
	`

	affected, err := r.ExecAffected(ctx, query, index)
	if err != nil {
		return fmt.Errorf("delete task at %d: %w", index, err)
	}
	if affected == 0 {
		return ErrTaskNotFound
	}
	return nil
}

// DeleteByKey удаляет задачу по естественному ключу
func (r *TaskPgRepository) DeleteByKey(ctx context.Context, key model.TaskKey) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	query := `
		DELETE FROM booking_tasks
		WHERE slot_date = $1 AND slot_time = $2 AND venue_name = $3 AND area_name = $4
	`

	affected, err := r.ExecAffected(ctx, query, key.Date, key.Time, key.VenueName, key.AreaName)
	if err != nil {
		return fmt.Errorf("delete task: %w", err)
	}
	if affected == 0 {
		return ErrTaskNotFound
	}
	return nil
}

// ScheduledTimes время задач в указанной зоне и дате
func (r *TaskPgRepository) ScheduledTimes(ctx context.Context, area, date string) (map[string]struct{}, error) {
	query := `
		SELECT DISTINCT slot_time
		FROM booking_tasks
		WHERE area_name = $1 AND slot_date = $2
	`

	rows, err := r.Query(ctx, query, area, date)
	if err != nil {
		return nil, fmt.Errorf("get scheduled times: %w", err)
	}
	defer rows.Close()

	times := make(map[string]struct{})
	for rows.Next() {
		var t string
		if err := rows.Scan(&t); err != nil {
			return nil, fmt.Errorf("scan time: %w", err)
		}
		times[t] = struct{}{}
	}

	return times, rows.Err()
}

func scanTask(row pgx.Row) (model.BookingTask, error) {
	var (
		task model.BookingTask
		data []byte
	)
	err := row.Scan(
		&task.Date,
		&task.Time,
		&task.VenueName,
		&task.AreaName,
		&task.Price,
		&task.ItemType,
		&data,
	)
	if err != nil {
		return task, err
	}
	if len(data) > 0 {
		if err := json.Unmarshal(data, &task.Data); err != nil {
			return task, fmt.Errorf("decode task data: %w", err)
		}
	}
	return task, nil
}
