package formatting

func pluralize(count int, one, few, many string) string {
	if count%10 == 1 && count%100 != 11 {
		return one
	}
	if count%10 >= 2 && count%10 <= 4 && (count%100 < 10 || count%100 >= 20) {
		return few
	}
	return many
}

// PluralizeTasks склонение слова "задача"
func PluralizeTasks(count int) string {
	return pluralize(count, "задача", "задачи", "задач")
}

// PluralizeSlots склонение слова "слот"
func PluralizeSlots(count int) string {
	return pluralize(count, "слот", "слота", "слотов")
}

// PluralizeVenues склонение слова "площадка"
func PluralizeVenues(count int) string {
	return pluralize(count, "площадка", "площадки", "площадок")
}
