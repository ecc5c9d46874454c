package common

import (
	"fmt"
	"html"
	"strconv"
	"strings"

	"github.com/Freeeeeet/court_bot/internal/controller/callbacks/callbacktypes"
	"github.com/Freeeeeet/court_bot/internal/controller/callbacks/common/formatting"
	"github.com/Freeeeeet/court_bot/internal/controller/callbacks/common/keyboard"
	"github.com/Freeeeeet/court_bot/internal/controller/state"
	"github.com/Freeeeeet/court_bot/internal/model"
	"github.com/go-telegram/bot/models"
)

const (
	VenuesPerPage  = 3
	TasksPerPage   = 8
	itemsPerRow    = 2
	areasPerRow    = 3
	datesPerRow    = 4
	maxAreaButtons = 9
)

// MenuScreen список видов спорта
func MenuScreen(items []model.MenuItem) (string, *models.InlineKeyboardMarkup) {
	text := "🏟 <b>Выберите вид спорта</b>"

	buttons := make([]models.InlineKeyboardButton, 0, len(items))
	for i, item := range items {
		buttons = append(buttons, keyboard.Button(item.Name, callbacktypes.PickItem+strconv.Itoa(i)))
	}

	kb := keyboard.NewBuilder().
		Chunk(itemsPerRow, buttons).
		Row(keyboard.Button("📋 Мои задачи", callbacktypes.TasksList)).
		Build()

	return text, kb
}

// GridScreen сетка площадок текущей сессии. Вызывается под блокировкой сессии.
func GridScreen(s *state.Session, classified *model.ClassifiedGrid) (string, *models.InlineKeyboardMarkup) {
	grid := s.Grid
	totalPages := keyboard.TotalPages(len(grid.Venues), VenuesPerPage)
	page := keyboard.ClampPage(s.VenuePage, totalPages)
	s.VenuePage = page

	from := page * VenuesPerPage
	to := min(from+VenuesPerPage, len(grid.Venues))
	venues := grid.Venues[from:to]

	var sb strings.Builder
	fmt.Fprintf(&sb, "🏟 <b>%s</b>\n", html.EscapeString(s.Item.Name))
	fmt.Fprintf(&sb, "📍 Зона: %s\n", html.EscapeString(s.Area))
	fmt.Fprintf(&sb, "📅 Дата: %s\n", formatting.FormatDate(s.Date))
	if grid.Synthetic {
		sb.WriteString("\n⚠️ <i>Портал не вернул данных, показана тестовая сетка</i>\n")
	}

	if len(grid.Venues) == 0 {
		sb.WriteString("\nНет площадок на эту дату")
	} else {
		fmt.Fprintf(&sb, "\nПлощадки %d-%d из %d:\n", from+1, to, len(grid.Venues))
		for i, v := range venues {
			fmt.Fprintf(&sb, "%d. %s\n", from+i+1, html.EscapeString(v))
		}
	}

	legend := make([]string, 0, len(formatting.LegendOrder))
	for _, st := range formatting.LegendOrder {
		d := formatting.GetCellStateDisplay(st)
		legend = append(legend, d.Emoji+" "+d.Text)
	}
	sb.WriteString("\n" + strings.Join(legend, "  ") + "\n")

	if n := s.Selection.Len(); n > 0 {
		fmt.Fprintf(&sb, "\n🛒 Выбрано: %d %s, сумма %s", n, formatting.PluralizeSlots(n), formatting.FormatPrice(s.Selection.Total()))
	}

	body := keyboard.NewBuilder()
	if len(venues) > 0 {
		header := []models.InlineKeyboardButton{keyboard.Label("🕒")}
		for i := range venues {
			header = append(header, keyboard.Label(fmt.Sprintf("#%d", from+i+1)))
		}
		body.Row(header...)

		for ti, t := range grid.Times() {
			row := []models.InlineKeyboardButton{keyboard.Label(t)}
			for i, venue := range venues {
				row = append(row, cellButton(s, classified, from+i, venue, ti, t))
			}
			body.Row(row...)
		}

		body.AddPagination(callbacktypes.VenuePage, page, totalPages)
	}

	commitText := "💾 Сохранить"
	if n := s.Selection.Len(); n > 0 {
		commitText = fmt.Sprintf("💾 Сохранить (%d)", n)
	}
	body.Row(
		keyboard.Button(commitText, callbacktypes.Commit),
		keyboard.Button("🧹 Сбросить", callbacktypes.Clear),
		keyboard.Button("🔄 Обновить", callbacktypes.Refresh),
	)
	body.Row(keyboard.BackButton(callbacktypes.BackToItems))

	b := keyboard.NewBuilder()

	areas := make([]models.InlineKeyboardButton, 0, len(s.Option.Areas))
	for i, area := range s.Option.Areas {
		if i >= maxAreaButtons {
			break
		}
		areas = append(areas, keyboard.Button(markCurrent(area, area == s.Area), callbacktypes.PickArea+strconv.Itoa(i)))
	}
	b.Chunk(areasPerRow, areas)

	dates := make([]models.InlineKeyboardButton, 0, len(s.Dates))
	for i, date := range s.Dates {
		dates = append(dates, keyboard.Button(markCurrent(formatting.FormatDateShort(date), date == s.Date), callbacktypes.PickDate+strconv.Itoa(i)))
	}
	// даты, не влезающие в лимит Telegram, отбрасываются с конца
	for len(dates) > 0 && !b.Fits(len(dates)+body.Len()) {
		dates = dates[:len(dates)-1]
	}
	b.Chunk(datesPerRow, dates)
	b.Append(body)

	return sb.String(), b.Build()
}

func cellButton(s *state.Session, classified *model.ClassifiedGrid, venueIdx int, venue string, timeIdx int, t string) models.InlineKeyboardButton {
	st := classified.State(venue, t)
	display := formatting.GetCellStateDisplay(st)
	if st == model.CellAbsent {
		return keyboard.Label(display.Emoji)
	}

	text := display.Emoji
	if st.Selectable() {
		if slot, ok := s.Grid.Slot(venue, t); ok {
			text = display.Emoji + formatting.FormatPriceShort(slot.Price)
		}
	}

	data := fmt.Sprintf("%s%d:%d:%d", callbacktypes.ToggleCell, s.Generation, venueIdx, timeIdx)
	return keyboard.Button(text, data)
}

func markCurrent(label string, current bool) string {
	if current {
		return "• " + label + " •"
	}
	return label
}

// TasksScreen список сохранённых задач по страницам
func TasksScreen(tasks []model.BookingTask, page int) (string, *models.InlineKeyboardMarkup) {
	if len(tasks) == 0 {
		return "📋 <b>Задач пока нет</b>\n\nВыберите слоты в /items и сохраните их",
			keyboard.NewBuilder().Row(keyboard.Button("🏟 К видам спорта", callbacktypes.BackToItems)).Build()
	}

	totalPages := keyboard.TotalPages(len(tasks), TasksPerPage)
	page = keyboard.ClampPage(page, totalPages)
	from := page * TasksPerPage
	to := min(from+TasksPerPage, len(tasks))

	var sb strings.Builder
	fmt.Fprintf(&sb, "📋 <b>Задачи бронирования</b>: %d %s\n\n", len(tasks), formatting.PluralizeTasks(len(tasks)))

	b := keyboard.NewBuilder()
	for i := from; i < to; i++ {
		t := tasks[i]
		fmt.Fprintf(&sb, "%d. %s\n", i+1, FormatTask(t))
		b.Row(keyboard.Button(
			fmt.Sprintf("🗑 %d. %s %s", i+1, formatting.FormatDateShort(t.Date), t.Time),
			callbacktypes.CancelTask+t.Key().Digest(),
		))
	}

	b.AddPagination(callbacktypes.TasksPage, page, totalPages)
	b.Row(keyboard.Button("🏟 К видам спорта", callbacktypes.BackToItems))

	return sb.String(), b.Build()
}

// TaskConfirmScreen подтверждение удаления задачи
func TaskConfirmScreen(task model.BookingTask) (string, *models.InlineKeyboardMarkup) {
	text := "🗑 <b>Удалить задачу?</b>\n\n" + FormatTask(task)
	kb := keyboard.NewBuilder().
		Row(keyboard.ConfirmCancelButtons(
			callbacktypes.ConfirmCancel+task.Key().Digest(),
			callbacktypes.TasksList,
		)...).
		Build()
	return text, kb
}

// FormatTask одна строка с описанием задачи
func FormatTask(t model.BookingTask) string {
	return fmt.Sprintf("%s %s, %s / %s, %s",
		formatting.FormatDateShort(t.Date),
		t.Time,
		html.EscapeString(t.AreaName),
		html.EscapeString(t.VenueName),
		formatting.FormatPrice(t.Price),
	)
}
