package handlers

import (
	"context"

	"github.com/Freeeeeet/court_bot/internal/controller/callbacks/callbacktypes"
	"github.com/Freeeeeet/court_bot/internal/controller/state"
	"go.uber.org/zap"
)

// AuthService вход на портал по SMS
type AuthService interface {
	SendCode(ctx context.Context, phone string) error
	CheckCode(ctx context.Context, phone, code string) (string, error)
}

// Handlers содержит все зависимости для обработки команд
type Handlers struct {
	catalog      callbacktypes.CatalogService
	tasks        callbacktypes.TaskService
	auth         AuthService
	stateManager *state.Manager
	logger       *zap.Logger
}

func NewHandlers(
	catalog callbacktypes.CatalogService,
	tasks callbacktypes.TaskService,
	auth AuthService,
	stateManager *state.Manager,
	logger *zap.Logger,
) *Handlers {
	return &Handlers{
		catalog:      catalog,
		tasks:        tasks,
		auth:         auth,
		stateManager: stateManager,
		logger:       logger,
	}
}
