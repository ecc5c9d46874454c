package common

import (
	"strings"
	"testing"

	"github.com/Freeeeeet/court_bot/internal/config"
	"github.com/Freeeeeet/court_bot/internal/controller/callbacks/callbacktypes"
	"github.com/Freeeeeet/court_bot/internal/controller/callbacks/common/keyboard"
	"github.com/Freeeeeet/court_bot/internal/controller/state"
	"github.com/Freeeeeet/court_bot/internal/model"
	"github.com/Freeeeeet/court_bot/internal/service"
	"github.com/go-telegram/bot/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func gridSession(t *testing.T, grid *model.AvailabilityGrid) *state.Session {
	t.Helper()
	s := &state.Session{
		Item: &model.MenuItem{Name: "羽毛球", ItemType: "20"},
		Option: &model.BookingOption{
			ItemType: "20",
			Areas:    []string{"North", "South"},
			Dates:    []string{"2025-11-21"},
		},
		Dates: service.NextNDays(mustDate(t, "2025-11-21"), 7),
	}
	s.ReplaceGrid(grid, 4)
	return s
}

func allButtons(kb *models.InlineKeyboardMarkup) []models.InlineKeyboardButton {
	var out []models.InlineKeyboardButton
	for _, row := range kb.InlineKeyboard {
		out = append(out, row...)
	}
	return out
}

func TestGridScreenFitsTelegramLimits(t *testing.T) {
	grid := service.SynthesizeGrid("20", "North", "2025-11-21")
	s := gridSession(t, grid)
	classified := service.ClassifyGrid(grid, nil, s.Selection)

	text, kb := GridScreen(s, classified)
	assert.Contains(t, text, "тестовая сетка")
	assert.Contains(t, text, "Площадки 1-3 из 10")

	buttons := allButtons(kb)
	assert.LessOrEqual(t, len(buttons), keyboard.MaxButtons)
	for _, btn := range buttons {
		assert.LessOrEqual(t, len(btn.CallbackData), 64, btn.CallbackData)
	}

	s.VenuePage = 99
	text, _ = GridScreen(s, classified)
	assert.Contains(t, text, "Площадки 10-10 из 10")
	assert.Equal(t, 3, s.VenuePage)
}

func TestGridScreenLongDateAxisFits(t *testing.T) {
	grid := service.SynthesizeGrid("20", "North", "2025-11-21")
	s := gridSession(t, grid)
	s.Option.Areas = []string{"A1", "A2", "A3", "A4", "A5", "A6", "A7", "A8", "A9", "A10"}
	classified := service.ClassifyGrid(grid, nil, s.Selection)

	t.Run("largest allowed horizon keeps every date", func(t *testing.T) {
		s.Dates = service.NextNDays(mustDate(t, "2025-11-21"), config.MaxHorizonDays)

		_, kb := GridScreen(s, classified)
		buttons := allButtons(kb)
		assert.LessOrEqual(t, len(buttons), keyboard.MaxButtons)

		dates := 0
		for _, btn := range buttons {
			if strings.HasPrefix(btn.CallbackData, callbacktypes.PickDate) {
				dates++
			}
		}
		assert.Equal(t, config.MaxHorizonDays, dates)
	})

	t.Run("oversized axis is cut to the limit", func(t *testing.T) {
		s.Dates = service.NextNDays(mustDate(t, "2025-11-21"), 30)

		_, kb := GridScreen(s, classified)
		buttons := allButtons(kb)
		assert.Len(t, buttons, keyboard.MaxButtons)
		// сетка и действия на месте
		assert.Equal(t, callbacktypes.BackToItems, buttons[len(buttons)-1].CallbackData)
	})
}

func TestGridScreenCells(t *testing.T) {
	grid := model.NewAvailabilityGrid("20", "North", "2025-11-21")
	grid.Add(model.NewVenueSlot("Court A", model.SlotData{
		TicketLevelName: "08:00", MemberPrice: 40, TicketTypeNo: "A", TicketLevelNo: "8",
		CDefault7: model.UpstreamBookable, CDefault8: "0",
	}))
	grid.Add(model.NewVenueSlot("Court A", model.SlotData{
		TicketLevelName: "14:00", MemberPrice: 40, TicketTypeNo: "A", TicketLevelNo: "14",
		CDefault7: model.UpstreamBookable, CDefault8: model.UpstreamOccupied,
	}))
	s := gridSession(t, grid)
	scheduled := map[model.CellKey]struct{}{{Venue: "Court A", Time: "14:00"}: {}}
	classified := service.ClassifyGrid(grid, scheduled, s.Selection)

	_, kb := GridScreen(s, classified)

	byData := make(map[string]models.InlineKeyboardButton)
	for _, btn := range allButtons(kb) {
		byData[btn.CallbackData] = btn
	}

	// 08:00 - индекс 1 на оси, 14:00 - индекс 7
	free, ok := byData[callbacktypes.ToggleCell+"4:0:1"]
	require.True(t, ok)
	assert.Equal(t, "🟢40", free.Text)

	scheduledBtn, ok := byData[callbacktypes.ToggleCell+"4:0:7"]
	require.True(t, ok)
	assert.Equal(t, "📌", scheduledBtn.Text)

	// ячейки без данных не кликабельны
	_, ok = byData[callbacktypes.ToggleCell+"4:0:0"]
	assert.False(t, ok)

	assert.Contains(t, byData[callbacktypes.PickArea+"0"].Text, "•")
	assert.NotContains(t, byData[callbacktypes.PickArea+"1"].Text, "•")
	assert.Contains(t, byData[callbacktypes.PickDate+"0"].Text, "•")
}

func TestGridScreenSelectionSummary(t *testing.T) {
	grid := service.SynthesizeGrid("20", "North", "2025-11-21")
	s := gridSession(t, grid)
	slot, _ := grid.Slot(grid.Venues[0], "18:00")
	s.Selection.Toggle(slot)

	text, kb := GridScreen(s, service.ClassifyGrid(grid, nil, s.Selection))
	assert.Contains(t, text, "Выбрано: 1 слот, сумма ¥50")

	var commit string
	for _, btn := range allButtons(kb) {
		if btn.CallbackData == callbacktypes.Commit {
			commit = btn.Text
		}
	}
	assert.Equal(t, "💾 Сохранить (1)", commit)
}

func TestTasksScreen(t *testing.T) {
	text, kb := TasksScreen(nil, 0)
	assert.Contains(t, text, "Задач пока нет")
	assert.Len(t, allButtons(kb), 1)

	tasks := make([]model.BookingTask, 0, 10)
	for i := 0; i < 10; i++ {
		tasks = append(tasks, model.BookingTask{
			Date: "2025-11-21", Time: model.TimeAxis()[i], VenueName: "<Court>", AreaName: "North", Price: 40,
		})
	}

	text, kb = TasksScreen(tasks, 1)
	assert.Contains(t, text, "10 задач")
	assert.Contains(t, text, "9. ")
	assert.Contains(t, text, "&lt;Court&gt;")
	assert.False(t, strings.Contains(text, "\n1. "))

	var cancels []string
	for _, btn := range allButtons(kb) {
		if strings.HasPrefix(btn.CallbackData, callbacktypes.CancelTask) {
			cancels = append(cancels, btn.CallbackData)
		}
	}
	assert.Equal(t, []string{
		callbacktypes.CancelTask + tasks[8].Key().Digest(),
		callbacktypes.CancelTask + tasks[9].Key().Digest(),
	}, cancels)
}

func TestMenuScreen(t *testing.T) {
	_, kb := MenuScreen([]model.MenuItem{{Name: "羽毛球", ItemType: "20"}, {Name: "网球", ItemType: "21"}, {Name: "游泳", ItemType: "22"}})
	rows := kb.InlineKeyboard
	require.Len(t, rows, 3)
	assert.Equal(t, callbacktypes.PickItem+"2", rows[1][0].CallbackData)
	assert.Equal(t, callbacktypes.TasksList, rows[2][0].CallbackData)
}
