package formatting

import (
	"fmt"
	"time"
)

// FormatDate "2025-11-21" -> "21.11.2025 (Пт)". Некорректная дата возвращается как есть.
func FormatDate(date string) string {
	t, err := time.Parse(time.DateOnly, date)
	if err != nil {
		return date
	}
	return fmt.Sprintf("%s (%s)", t.Format("02.01.2006"), GetWeekdayShortName(int(t.Weekday())))
}

// FormatDateShort "2025-11-21" -> "21.11 Пт", для кнопок
func FormatDateShort(date string) string {
	t, err := time.Parse(time.DateOnly, date)
	if err != nil {
		return date
	}
	return fmt.Sprintf("%s %s", t.Format("02.01"), GetWeekdayShortName(int(t.Weekday())))
}

// GetWeekdayShortName краткое название дня недели на русском
func GetWeekdayShortName(weekday int) string {
	names := []string{"Вс", "Пн", "Вт", "Ср", "Чт", "Пт", "Сб"}
	if weekday >= 0 && weekday < len(names) {
		return names[weekday]
	}
	return "?"
}
