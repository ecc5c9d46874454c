package common

import (
	"errors"
	"fmt"

	"github.com/Freeeeeet/court_bot/internal/service"
)

// Ошибки обработчиков
var (
	ErrNoMessage     = errors.New("no message in callback")
	ErrInvalidFormat = errors.New("invalid callback format")
	ErrNoGrid        = errors.New("no grid loaded")
	ErrNoMenu        = errors.New("menu not loaded")
)

// ErrorMessage возвращает пользовательское сообщение для ошибки
func ErrorMessage(err error) string {
	var upstream *service.UpstreamError

	switch {
	case errors.As(err, &upstream):
		return "❌ Портал: " + upstream.Msg
	case errors.Is(err, service.ErrTransport):
		return "❌ Портал недоступен. Попробуйте позже"
	case errors.Is(err, service.ErrMalformedResponse):
		return "❌ Портал вернул неожиданный ответ. Возможно, нужно войти заново: /login"
	case errors.Is(err, service.ErrEmptyMenu):
		return "❌ Меню пустое. Похоже, сессия истекла, выполните /login"
	case errors.Is(err, service.ErrEmptyDateList):
		return "❌ Для этого вида спорта нет доступных дат"
	case errors.Is(err, service.ErrEmptyAreaList):
		return "❌ Для этого вида спорта нет доступных зон"
	case errors.Is(err, service.ErrTaskNotFound):
		return "❌ Задача не найдена. Возможно, она уже удалена"
	case errors.Is(err, service.ErrStaleView):
		return "⚠️ Экран устарел, он уже обновлён"
	case errors.Is(err, service.ErrSyntheticSlot):
		return "⚠️ Это тестовая сетка, портал не вернул данных. Такие ячейки нельзя сохранить"
	case errors.Is(err, service.ErrSlotNotSelectable):
		return "⚠️ Эту ячейку нельзя выбрать"
	case errors.Is(err, service.ErrNothingSelected):
		return "⚠️ Сначала выберите хотя бы одну ячейку"
	case errors.Is(err, service.ErrPhoneMismatch):
		return "❌ Портал вернул другой номер телефона"
	case errors.Is(err, service.ErrInvalidPhone):
		return "❌ Неверный номер. Нужно 11 цифр, начиная с 1"
	case errors.Is(err, service.ErrEmptyCode):
		return "❌ Введите код из SMS"
	case errors.Is(err, service.ErrPipelinePanic):
		return "❌ Внутренняя ошибка. Попробуйте ещё раз"
	case errors.Is(err, ErrNoGrid), errors.Is(err, ErrNoMenu):
		return "⚠️ Сессия устарела. Начните заново: /items"
	case errors.Is(err, ErrNoMessage):
		return "❌ Ошибка обработки сообщения"
	case errors.Is(err, ErrInvalidFormat):
		return "❌ Неверный формат данных"
	default:
		return "❌ Произошла ошибка"
	}
}

// ViewKey ключ представления сетки чата
func ViewKey(chatID int64) string {
	return fmt.Sprintf("chat:%d", chatID)
}
