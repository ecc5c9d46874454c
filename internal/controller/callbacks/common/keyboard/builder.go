package keyboard

import "github.com/go-telegram/bot/models"

// MaxButtons лимит Telegram на inline клавиатуру
const MaxButtons = 100

// Builder упрощает создание inline клавиатур
type Builder struct {
	rows    [][]models.InlineKeyboardButton
	buttons int
}

func NewBuilder() *Builder {
	return &Builder{
		rows: make([][]models.InlineKeyboardButton, 0),
	}
}

// Row добавляет новый ряд кнопок
func (b *Builder) Row(buttons ...models.InlineKeyboardButton) *Builder {
	if len(buttons) > 0 {
		b.rows = append(b.rows, buttons)
		b.buttons += len(buttons)
	}
	return b
}

// Fits поместится ли ещё n кнопок
func (b *Builder) Fits(n int) bool {
	return b.buttons+n <= MaxButtons
}

// Len количество кнопок
func (b *Builder) Len() int {
	return b.buttons
}

// Button создаёт кнопку
func Button(text, callbackData string) models.InlineKeyboardButton {
	return models.InlineKeyboardButton{
		Text:         text,
		CallbackData: callbackData,
	}
}

// Chunk раскладывает кнопки по рядам не длиннее perRow
func (b *Builder) Chunk(perRow int, buttons []models.InlineKeyboardButton) *Builder {
	for start := 0; start < len(buttons); start += perRow {
		end := min(start+perRow, len(buttons))
		b.Row(buttons[start:end]...)
	}
	return b
}

// Append дописывает ряды другого билдера
func (b *Builder) Append(other *Builder) *Builder {
	for _, row := range other.rows {
		b.Row(row...)
	}
	return b
}

// Build создаёт финальную клавиатуру
func (b *Builder) Build() *models.InlineKeyboardMarkup {
	return &models.InlineKeyboardMarkup{
		InlineKeyboard: b.rows,
	}
}
