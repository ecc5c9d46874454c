package common

import (
	"context"

	"github.com/Freeeeeet/court_bot/internal/controller/callbacks/callbacktypes"
	"github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"
	"go.uber.org/zap"
)

// WithMessage создаёт HandlerContext. Callback без сообщения отклоняется.
func WithMessage(
	ctx context.Context,
	b *bot.Bot,
	callback *models.CallbackQuery,
	h *callbacktypes.Handler,
	handler func(*HandlerContext),
) {
	hc := NewHandlerContext(ctx, b, callback, h)
	if hc.Message == nil {
		hc.AnswerAlert(ErrorMessage(ErrNoMessage))
		return
	}

	handler(hc)
}

// HandleError логирует ошибку и показывает её пользователю.
// Экран при этом не меняется.
func HandleError(hc *HandlerContext, err error, operation string) {
	hc.Handler.Logger.Warn("Operation failed",
		zap.String("operation", operation),
		zap.Int64("chat_id", hc.ChatID),
		zap.Error(err))
	hc.AnswerAlert(ErrorMessage(err))
}

// Render редактирует сообщение и логирует сбой отправки
func Render(hc *HandlerContext, text string, keyboard *models.InlineKeyboardMarkup, operation string) {
	if err := hc.EditMessage(text, keyboard); err != nil {
		hc.Handler.Logger.Error("Failed to edit message",
			zap.String("operation", operation),
			zap.Int64("chat_id", hc.ChatID),
			zap.Error(err))
	}
}
