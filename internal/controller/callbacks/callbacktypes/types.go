package callbacktypes

import (
	"context"

	"github.com/Freeeeeet/court_bot/internal/controller/state"
	"github.com/Freeeeeet/court_bot/internal/model"
	"github.com/Freeeeeet/court_bot/internal/service"
	"go.uber.org/zap"
)

// CatalogService меню портала и параметры пункта
type CatalogService interface {
	ListItems(ctx context.Context) ([]model.MenuItem, error)
	Resolve(ctx context.Context, itemType string) (*model.BookingOption, error)
	DateAxis() []string
}

// GridService загрузка сетки и выбор ячеек
type GridService interface {
	Load(ctx context.Context, viewKey, itemType, area, date string) (*service.GridView, error)
	IsCurrent(viewKey string, gen uint64) bool
	Classify(ctx context.Context, grid *model.AvailabilityGrid, selection *model.Selection) (*model.ClassifiedGrid, error)
	Toggle(ctx context.Context, grid *model.AvailabilityGrid, selection *model.Selection, venue, time string) (bool, error)
	Restore(ctx context.Context, grid *model.AvailabilityGrid, selection *model.Selection, keep []model.VenueSlot) error
}

// TaskService сохранённые задачи бронирования
type TaskService interface {
	Commit(ctx context.Context, grid *model.AvailabilityGrid, selection *model.Selection) (*service.CommitResult, error)
	List(ctx context.Context) ([]model.BookingTask, error)
	Cancel(ctx context.Context, digest string) (*model.BookingTask, error)
}

// Handler содержит общие зависимости для всех callback handlers
type Handler struct {
	Catalog      CatalogService
	Grid         GridService
	Tasks        TaskService
	StateManager *state.Manager
	Logger       *zap.Logger
}
