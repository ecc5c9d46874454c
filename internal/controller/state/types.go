package state

import (
	"sync"

	"github.com/Freeeeeet/court_bot/internal/model"
)

// UserState текущий шаг диалога пользователя
type UserState string

const (
	StateNone UserState = "" // Нет активного диалога

	// Вход на портал по SMS
	StateLoginPhone UserState = "login_phone"
	StateLoginCode  UserState = "login_code"
)

// Session состояние чата: выбранный пункт, зона, дата и загруженная сетка.
// Поля меняются только внутри Manager.With.
type Session struct {
	mu sync.Mutex

	State UserState
	Phone string // номер, на который отправлен код

	Items  []model.MenuItem
	Item   *model.MenuItem
	Option *model.BookingOption
	Dates  []string // ось дат на момент выбора пункта
	Area   string
	Date   string

	Grid       *model.AvailabilityGrid
	Generation uint64
	Selection  *model.Selection
	VenuePage  int

	TasksPage int
}

// HasGrid загружена ли сетка
func (s *Session) HasGrid() bool {
	return s.Grid != nil && s.Option != nil && s.Item != nil
}

// ResetDialog сбрасывает диалог входа, выбор и сетка сохраняются
func (s *Session) ResetDialog() {
	s.State = StateNone
	s.Phone = ""
}

// ReplaceGrid применяет новую сетку, выбор начинается заново
func (s *Session) ReplaceGrid(grid *model.AvailabilityGrid, generation uint64) {
	s.Grid = grid
	s.Generation = generation
	s.Area = grid.Area
	s.Date = grid.Date
	s.Selection = model.NewSelection()
	s.VenuePage = 0
}
