package callbacks

import (
	"context"
	"strings"

	"github.com/Freeeeeet/court_bot/internal/controller/callbacks/booking"
	"github.com/Freeeeeet/court_bot/internal/controller/callbacks/callbacktypes"
	"github.com/Freeeeeet/court_bot/internal/controller/callbacks/common"
	"github.com/Freeeeeet/court_bot/internal/controller/callbacks/tasks"
	"github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"
	"go.uber.org/zap"
)

// Route распределяет callback query по соответствующим обработчикам
func Route(ctx context.Context, b *bot.Bot, callback *models.CallbackQuery, h *callbacktypes.Handler) {
	data := callback.Data

	h.Logger.Debug("Routing callback",
		zap.String("data", data),
		zap.Int64("user_id", callback.From.ID))

	switch {
	case data == callbacktypes.Noop:
		common.AnswerCallback(ctx, b, callback.ID, "")

	// ===== Catalog =====
	case data == callbacktypes.BackToItems:
		booking.HandleBackToItems(ctx, b, callback, h)
	case strings.HasPrefix(data, callbacktypes.PickItem):
		booking.HandlePickItem(ctx, b, callback, h)
	case strings.HasPrefix(data, callbacktypes.PickArea):
		booking.HandlePickArea(ctx, b, callback, h)
	case strings.HasPrefix(data, callbacktypes.PickDate):
		booking.HandlePickDate(ctx, b, callback, h)

	// ===== Grid =====
	case strings.HasPrefix(data, callbacktypes.ToggleCell):
		booking.HandleToggleCell(ctx, b, callback, h)
	case strings.HasPrefix(data, callbacktypes.VenuePage):
		booking.HandleVenuePage(ctx, b, callback, h)
	case data == callbacktypes.Commit:
		booking.HandleCommit(ctx, b, callback, h)
	case data == callbacktypes.Clear:
		booking.HandleClear(ctx, b, callback, h)
	case data == callbacktypes.Refresh:
		booking.HandleRefresh(ctx, b, callback, h)

	// ===== Tasks =====
	case data == callbacktypes.TasksList:
		tasks.HandleTasksList(ctx, b, callback, h)
	case strings.HasPrefix(data, callbacktypes.TasksPage):
		tasks.HandleTasksPage(ctx, b, callback, h)
	case strings.HasPrefix(data, callbacktypes.ConfirmCancel):
		tasks.HandleConfirmCancel(ctx, b, callback, h)
	case strings.HasPrefix(data, callbacktypes.CancelTask):
		tasks.HandleCancelTask(ctx, b, callback, h)

	default:
		h.Logger.Warn("Unknown callback", zap.String("data", data))
		common.AnswerCallbackAlert(ctx, b, callback.ID, "❌ Неизвестная команда")
	}
}
