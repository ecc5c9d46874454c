package handlers

import (
	"context"
	"fmt"
	"html"
	"strings"

	"github.com/Freeeeeet/court_bot/internal/controller/callbacks/common"
	"github.com/Freeeeeet/court_bot/internal/controller/state"
	"github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"
	"go.uber.org/zap"
)

const helpText = "📚 Справка по командам:\n\n" +
	"/items - Выбрать вид спорта и открыть сетку площадок\n" +
	"/tasks - Сохранённые задачи бронирования\n" +
	"/login - Войти на портал по SMS\n" +
	"/cancel - Отменить текущий диалог\n" +
	"/help - Показать эту справку\n\n" +
	"В сетке нажмите на свободные ячейки 🟢, затем «💾 Сохранить». " +
	"Бот запомнит слоты и сообщит, когда они откроются для записи."

// HandleStart обрабатывает команду /start
func (h *Handlers) HandleStart(ctx context.Context, b *bot.Bot, update *models.Update) {
	if update.Message == nil {
		return
	}

	name := "друг"
	if update.Message.From != nil && update.Message.From.FirstName != "" {
		name = update.Message.From.FirstName
	}

	h.logger.Info("Start command", zap.Int64("chat_id", update.Message.Chat.ID))

	h.sendMessage(ctx, b, update.Message.Chat.ID, fmt.Sprintf(
		"👋 Привет, %s!\n\nЭтот бот показывает свободные площадки спорткомплекса и запоминает слоты, которые вы хотите забронировать.\n\n%s",
		html.EscapeString(name), helpText,
	))
}

// HandleHelp обрабатывает команду /help
func (h *Handlers) HandleHelp(ctx context.Context, b *bot.Bot, update *models.Update) {
	if update.Message == nil {
		return
	}
	h.sendMessage(ctx, b, update.Message.Chat.ID, helpText)
}

// HandleItems показывает меню видов спорта
func (h *Handlers) HandleItems(ctx context.Context, b *bot.Bot, update *models.Update) {
	if update.Message == nil {
		return
	}
	chatID := update.Message.Chat.ID

	items, err := h.catalog.ListItems(ctx)
	if err != nil {
		h.logger.Warn("Failed to list items", zap.Int64("chat_id", chatID), zap.Error(err))
		h.sendError(ctx, b, chatID, common.ErrorMessage(err))
		return
	}

	h.stateManager.With(chatID, func(s *state.Session) { s.Items = items })

	text, kb := common.MenuScreen(items)
	h.sendScreen(ctx, b, chatID, text, kb)
}

// HandleTasks показывает сохранённые задачи
func (h *Handlers) HandleTasks(ctx context.Context, b *bot.Bot, update *models.Update) {
	if update.Message == nil {
		return
	}
	chatID := update.Message.Chat.ID

	tasks, err := h.tasks.List(ctx)
	if err != nil {
		h.logger.Error("Failed to list tasks", zap.Int64("chat_id", chatID), zap.Error(err))
		h.sendError(ctx, b, chatID, common.ErrorMessage(err))
		return
	}

	h.stateManager.With(chatID, func(s *state.Session) { s.TasksPage = 0 })

	text, kb := common.TasksScreen(tasks, 0)
	h.sendScreen(ctx, b, chatID, text, kb)
}

// HandleCancel отменяет текущий диалог
func (h *Handlers) HandleCancel(ctx context.Context, b *bot.Bot, update *models.Update) {
	if update.Message == nil {
		return
	}
	chatID := update.Message.Chat.ID

	var active bool
	h.stateManager.With(chatID, func(s *state.Session) {
		active = s.State != state.StateNone
		s.ResetDialog()
	})

	if !active {
		h.sendMessage(ctx, b, chatID, "❌ Нет активных операций для отмены.")
		return
	}
	h.sendMessage(ctx, b, chatID, "✅ Операция отменена.\n\nИспользуйте /help для просмотра доступных команд.")
}

// HandleTextMessage обрабатывает текст в зависимости от шага диалога
func (h *Handlers) HandleTextMessage(ctx context.Context, b *bot.Bot, update *models.Update) {
	if update.Message == nil || update.Message.Text == "" {
		return
	}

	// Команды обрабатываются другими handlers
	if strings.HasPrefix(update.Message.Text, "/") {
		return
	}

	chatID := update.Message.Chat.ID
	switch current := h.stateManager.GetState(chatID); current {
	case state.StateNone:
		return
	case state.StateLoginPhone:
		h.handleLoginPhone(ctx, b, update)
	case state.StateLoginCode:
		h.handleLoginCode(ctx, b, update)
	default:
		h.logger.Warn("Unknown state", zap.String("state", string(current)))
	}
}
