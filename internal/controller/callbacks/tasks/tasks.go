package tasks

import (
	"context"
	"strings"

	"github.com/Freeeeeet/court_bot/internal/controller/callbacks/callbacktypes"
	"github.com/Freeeeeet/court_bot/internal/controller/callbacks/common"
	"github.com/Freeeeeet/court_bot/internal/controller/state"
	"github.com/Freeeeeet/court_bot/internal/model"
	"github.com/Freeeeeet/court_bot/internal/service"
	"github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"
	"go.uber.org/zap"
)

// HandleTasksList показывает первую страницу задач
func HandleTasksList(ctx context.Context, b *bot.Bot, callback *models.CallbackQuery, h *callbacktypes.Handler) {
	common.WithMessage(ctx, b, callback, h, func(hc *common.HandlerContext) {
		showTasks(hc, 0)
		hc.Answer("")
	})
}

// HandleTasksPage листает список задач
func HandleTasksPage(ctx context.Context, b *bot.Bot, callback *models.CallbackQuery, h *callbacktypes.Handler) {
	common.WithMessage(ctx, b, callback, h, func(hc *common.HandlerContext) {
		page, err := common.ParseIndex(callback.Data, callbacktypes.TasksPage)
		if err != nil {
			common.HandleError(hc, err, "tasks_page")
			return
		}
		showTasks(hc, page)
		hc.Answer("")
	})
}

// HandleCancelTask спрашивает подтверждение удаления
func HandleCancelTask(ctx context.Context, b *bot.Bot, callback *models.CallbackQuery, h *callbacktypes.Handler) {
	common.WithMessage(ctx, b, callback, h, func(hc *common.HandlerContext) {
		digest := strings.TrimPrefix(callback.Data, callbacktypes.CancelTask)

		tasks, err := h.Tasks.List(ctx)
		if err != nil {
			common.HandleError(hc, err, "cancel_task")
			return
		}

		task, ok := findByDigest(tasks, digest)
		if !ok {
			// Задачу уже удалили из другого чата, показываем актуальный список
			common.HandleError(hc, service.ErrTaskNotFound, "cancel_task")
			showTasks(hc, currentPage(hc))
			return
		}

		text, kb := common.TaskConfirmScreen(task)
		common.Render(hc, text, kb, "cancel_task")
		hc.Answer("")
	})
}

// HandleConfirmCancel удаляет задачу по дайджесту ключа
func HandleConfirmCancel(ctx context.Context, b *bot.Bot, callback *models.CallbackQuery, h *callbacktypes.Handler) {
	common.WithMessage(ctx, b, callback, h, func(hc *common.HandlerContext) {
		digest := strings.TrimPrefix(callback.Data, callbacktypes.ConfirmCancel)

		task, err := h.Tasks.Cancel(ctx, digest)
		if err != nil {
			common.HandleError(hc, err, "confirm_cancel")
			showTasks(hc, currentPage(hc))
			return
		}

		h.Logger.Info("Task cancelled from chat",
			zap.Int64("chat_id", hc.ChatID),
			zap.String("date", task.Date),
			zap.String("time", task.Time),
			zap.String("venue", task.VenueName))

		showTasks(hc, currentPage(hc))
		hc.Answer("🗑 Задача удалена")
	})
}

func showTasks(hc *common.HandlerContext, page int) {
	tasks, err := hc.Handler.Tasks.List(hc.Ctx)
	if err != nil {
		common.HandleError(hc, err, "list_tasks")
		return
	}

	hc.With(func(s *state.Session) { s.TasksPage = page })
	text, kb := common.TasksScreen(tasks, page)
	common.Render(hc, text, kb, "list_tasks")
}

func currentPage(hc *common.HandlerContext) int {
	var page int
	hc.With(func(s *state.Session) { page = s.TasksPage })
	return page
}

func findByDigest(tasks []model.BookingTask, digest string) (model.BookingTask, bool) {
	for _, t := range tasks {
		if t.Key().Digest() == digest {
			return t, true
		}
	}
	return model.BookingTask{}, false
}
