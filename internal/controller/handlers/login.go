package handlers

import (
	"context"
	"html"
	"strings"

	"github.com/Freeeeeet/court_bot/internal/controller/callbacks/common"
	"github.com/Freeeeeet/court_bot/internal/controller/state"
	"github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"
	"go.uber.org/zap"
)

// HandleLogin начинает вход на портал
func (h *Handlers) HandleLogin(ctx context.Context, b *bot.Bot, update *models.Update) {
	if update.Message == nil {
		return
	}
	chatID := update.Message.Chat.ID

	h.stateManager.With(chatID, func(s *state.Session) {
		s.State = state.StateLoginPhone
		s.Phone = ""
	})

	h.sendMessage(ctx, b, chatID,
		"🔐 Вход на портал\n\n"+
			"Шаг 1 из 2: отправьте номер телефона (11 цифр).\n\n"+
			"Для отмены используйте /cancel")
}

// handleLoginPhone запрашивает SMS код на введённый номер
func (h *Handlers) handleLoginPhone(ctx context.Context, b *bot.Bot, update *models.Update) {
	chatID := update.Message.Chat.ID
	phone := strings.TrimSpace(update.Message.Text)

	if err := h.auth.SendCode(ctx, phone); err != nil {
		h.logger.Warn("Failed to send SMS code", zap.Int64("chat_id", chatID), zap.Error(err))
		h.sendError(ctx, b, chatID, common.ErrorMessage(err)+"\n\nПопробуйте ещё раз или /cancel")
		return
	}

	h.stateManager.With(chatID, func(s *state.Session) {
		s.State = state.StateLoginCode
		s.Phone = phone
	})

	h.sendMessage(ctx, b, chatID,
		"📨 Код отправлен на "+html.EscapeString(phone)+"\n\n"+
			"Шаг 2 из 2: отправьте код из SMS.")
}

// handleLoginCode проверяет SMS код
func (h *Handlers) handleLoginCode(ctx context.Context, b *bot.Bot, update *models.Update) {
	chatID := update.Message.Chat.ID
	code := strings.TrimSpace(update.Message.Text)

	var phone string
	h.stateManager.With(chatID, func(s *state.Session) { phone = s.Phone })

	msg, err := h.auth.CheckCode(ctx, phone, code)
	if err != nil {
		h.logger.Warn("Portal login failed", zap.Int64("chat_id", chatID), zap.Error(err))
		h.sendError(ctx, b, chatID, common.ErrorMessage(err)+"\n\nОтправьте код ещё раз или /cancel")
		return
	}

	h.stateManager.With(chatID, func(s *state.Session) {
		s.ResetDialog()
		// меню могло быть загружено без сессии
		s.Items = nil
	})

	h.sendMessage(ctx, b, chatID, "✅ Вход выполнен: "+html.EscapeString(msg)+"\n\nТеперь откройте /items")
}
