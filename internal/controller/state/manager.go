package state

import (
	"sync"

	"github.com/Freeeeeet/court_bot/internal/model"
)

// Manager хранит сессии чатов
type Manager struct {
	mu       sync.RWMutex
	sessions map[int64]*Session // chatID -> Session
}

func NewManager() *Manager {
	return &Manager{
		sessions: make(map[int64]*Session),
	}
}

func (sm *Manager) session(chatID int64) *Session {
	sm.mu.RLock()
	s, exists := sm.sessions[chatID]
	sm.mu.RUnlock()
	if exists {
		return s
	}

	sm.mu.Lock()
	defer sm.mu.Unlock()

	// Мог создать другой обработчик, пока ждали блокировку
	if s, exists = sm.sessions[chatID]; exists {
		return s
	}
	s = &Session{Selection: model.NewSelection()}
	sm.sessions[chatID] = s
	return s
}

// With выполняет fn под блокировкой сессии чата
func (sm *Manager) With(chatID int64, fn func(s *Session)) {
	s := sm.session(chatID)
	s.mu.Lock()
	defer s.mu.Unlock()
	fn(s)
}

// GetState текущий шаг диалога
func (sm *Manager) GetState(chatID int64) UserState {
	var st UserState
	sm.With(chatID, func(s *Session) { st = s.State })
	return st
}

// SetState устанавливает шаг диалога
func (sm *Manager) SetState(chatID int64, st UserState) {
	sm.With(chatID, func(s *Session) { s.State = st })
}

// ClearState удаляет сессию чата целиком
func (sm *Manager) ClearState(chatID int64) {
	sm.mu.Lock()
	defer sm.mu.Unlock()

	delete(sm.sessions, chatID)
}

// ChatIDs чаты, у которых есть сессия
func (sm *Manager) ChatIDs() []int64 {
	sm.mu.RLock()
	defer sm.mu.RUnlock()

	ids := make([]int64, 0, len(sm.sessions))
	for id := range sm.sessions {
		ids = append(ids, id)
	}
	return ids
}
