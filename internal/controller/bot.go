package controller

import (
	"context"

	"github.com/Freeeeeet/court_bot/internal/controller/callbacks"
	"github.com/Freeeeeet/court_bot/internal/controller/handlers"
	"github.com/Freeeeeet/court_bot/internal/controller/state"
	"github.com/Freeeeeet/court_bot/internal/service"
	"github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"
	"go.uber.org/zap"
)

type BotController struct {
	bot             *bot.Bot
	handlers        *handlers.Handlers
	callbackHandler *callbacks.Handler
	stateManager    *state.Manager
	logger          *zap.Logger
}

func NewBotController(
	botInstance *bot.Bot,
	catalogService *service.CatalogService,
	gridService *service.GridService,
	taskService *service.TaskService,
	authService *service.AuthService,
	logger *zap.Logger,
) *BotController {
	stateManager := state.NewManager()

	cmdHandlers := handlers.NewHandlers(
		catalogService,
		taskService,
		authService,
		stateManager,
		logger,
	)

	callbackHandler := callbacks.NewHandler(
		catalogService,
		gridService,
		taskService,
		stateManager,
		logger,
	)

	return &BotController{
		bot:             botInstance,
		handlers:        cmdHandlers,
		callbackHandler: callbackHandler,
		stateManager:    stateManager,
		logger:          logger,
	}
}

// RegisterHandlers регистрирует все обработчики команд
func (c *BotController) RegisterHandlers(ctx context.Context) error {
	c.bot.RegisterHandler(bot.HandlerTypeMessageText, "/start", bot.MatchTypeExact, c.handlers.HandleStart)
	c.bot.RegisterHandler(bot.HandlerTypeMessageText, "/help", bot.MatchTypeExact, c.handlers.HandleHelp)
	c.bot.RegisterHandler(bot.HandlerTypeMessageText, "/items", bot.MatchTypeExact, c.handlers.HandleItems)
	c.bot.RegisterHandler(bot.HandlerTypeMessageText, "/tasks", bot.MatchTypeExact, c.handlers.HandleTasks)
	c.bot.RegisterHandler(bot.HandlerTypeMessageText, "/login", bot.MatchTypeExact, c.handlers.HandleLogin)
	c.bot.RegisterHandler(bot.HandlerTypeMessageText, "/cancel", bot.MatchTypeExact, c.handlers.HandleCancel)

	// Текст для диалога входа
	c.bot.RegisterHandler(bot.HandlerTypeMessageText, "", bot.MatchTypePrefix, c.handlers.HandleTextMessage)

	c.bot.RegisterHandler(bot.HandlerTypeCallbackQueryData, "", bot.MatchTypePrefix, c.callbackHandler.HandleCallbackQuery)

	return c.setCommands(ctx)
}

// setCommands устанавливает список команд в меню бота
func (c *BotController) setCommands(ctx context.Context) error {
	commands := []models.BotCommand{
		{Command: "items", Description: "🏟 Виды спорта и площадки"},
		{Command: "tasks", Description: "📋 Мои задачи бронирования"},
		{Command: "login", Description: "🔐 Войти на портал"},
		{Command: "cancel", Description: "❌ Отменить диалог"},
		{Command: "help", Description: "❓ Справка по командам"},
	}

	_, err := c.bot.SetMyCommands(ctx, &bot.SetMyCommandsParams{
		Commands: commands,
	})

	if err != nil {
		c.logger.Error("Failed to set bot commands", zap.Error(err))
		return err
	}

	c.logger.Info("✅ Bot commands menu set")
	return nil
}

// KnownChats чаты, которые общались с ботом с момента запуска
func (c *BotController) KnownChats() []int64 {
	return c.stateManager.ChatIDs()
}

// Start запускает бота, блокируется до отмены ctx
func (c *BotController) Start(ctx context.Context) {
	c.logger.Info("Starting bot...")
	c.bot.Start(ctx)
}
