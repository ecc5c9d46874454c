package handlers

import (
	"context"

	"github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"
	"go.uber.org/zap"
)

// AccessMiddleware пропускает только разрешённые чаты
func AccessMiddleware(isAllowed func(chatID int64) bool, logger *zap.Logger) bot.Middleware {
	return func(next bot.HandlerFunc) bot.HandlerFunc {
		return func(ctx context.Context, b *bot.Bot, update *models.Update) {
			chatID, ok := updateChatID(update)
			if !ok || isAllowed(chatID) {
				next(ctx, b, update)
				return
			}

			logger.Warn("Rejected update from chat outside allowlist", zap.Int64("chat_id", chatID))

			if update.CallbackQuery != nil {
				b.AnswerCallbackQuery(ctx, &bot.AnswerCallbackQueryParams{
					CallbackQueryID: update.CallbackQuery.ID,
					Text:            "⛔ Нет доступа",
					ShowAlert:       true,
				})
				return
			}
			b.SendMessage(ctx, &bot.SendMessageParams{
				ChatID: chatID,
				Text:   "⛔ У этого чата нет доступа к боту",
			})
		}
	}
}

// updateChatID чат, из которого пришло обновление
func updateChatID(update *models.Update) (int64, bool) {
	switch {
	case update.Message != nil:
		return update.Message.Chat.ID, true
	case update.CallbackQuery != nil && update.CallbackQuery.Message.Message != nil:
		return update.CallbackQuery.Message.Message.Chat.ID, true
	case update.CallbackQuery != nil:
		return update.CallbackQuery.From.ID, true
	}
	return 0, false
}
