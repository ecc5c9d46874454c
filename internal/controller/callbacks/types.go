package callbacks

import (
	"context"

	"github.com/Freeeeeet/court_bot/internal/controller/callbacks/callbacktypes"
	"github.com/Freeeeeet/court_bot/internal/controller/state"
	"github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"
	"go.uber.org/zap"
)

// Handler обёртка для callbacktypes.Handler с методами
type Handler struct {
	*callbacktypes.Handler
}

func NewHandler(
	catalog callbacktypes.CatalogService,
	grid callbacktypes.GridService,
	tasks callbacktypes.TaskService,
	stateManager *state.Manager,
	logger *zap.Logger,
) *Handler {
	return &Handler{Handler: &callbacktypes.Handler{
		Catalog:      catalog,
		Grid:         grid,
		Tasks:        tasks,
		StateManager: stateManager,
		Logger:       logger,
	}}
}

// HandleCallbackQuery точка входа для всех callback query
func (h *Handler) HandleCallbackQuery(ctx context.Context, b *bot.Bot, update *models.Update) {
	if update.CallbackQuery == nil {
		return
	}
	Route(ctx, b, update.CallbackQuery, h.Handler)
}
