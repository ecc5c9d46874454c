package formatting

import "github.com/Freeeeeet/court_bot/internal/model"

// CellStateDisplay отображение состояния ячейки
type CellStateDisplay struct {
	Emoji string
	Text  string
}

var cellDisplays = map[model.CellState]CellStateDisplay{
	model.CellAvailable:   {"🟢", "свободно"},
	model.CellSelected:    {"✅", "выбрано"},
	model.CellScheduled:   {"📌", "задача"},
	model.CellOccupied:    {"🔴", "занято"},
	model.CellUnavailable: {"⛔", "недоступно"},
	model.CellLocked:      {"🔒", "блокировка"},
	model.CellAbsent:      {"·", "нет данных"},
}

// LegendOrder порядок состояний в легенде
var LegendOrder = []model.CellState{
	model.CellAvailable,
	model.CellSelected,
	model.CellScheduled,
	model.CellOccupied,
	model.CellUnavailable,
	model.CellLocked,
}

// GetCellStateDisplay возвращает emoji и текст для состояния ячейки
func GetCellStateDisplay(state model.CellState) CellStateDisplay {
	if display, ok := cellDisplays[state]; ok {
		return display
	}
	return CellStateDisplay{"❓", "неизвестно"}
}
