package callbacktypes

// Форматы callback data. Telegram ограничивает их 64 байтами,
// поэтому вместо названий передаются индексы.
const (
	Noop = "noop"

	PickItem  = "item:"  // item:<индекс в меню>
	PickArea  = "area:"  // area:<индекс зоны>
	PickDate  = "date:"  // date:<индекс даты>
	VenuePage = "vpage:" // vpage:<страница>

	ToggleCell = "c:" // c:<поколение>:<индекс площадки>:<индекс времени>

	Commit      = "commit"
	Clear       = "clear"
	Refresh     = "refresh"
	BackToItems = "items"

	TasksList     = "tasks"
	TasksPage     = "tasks_page:" // tasks_page:<страница>
	CancelTask    = "tdel:"       // tdel:<дайджест ключа>
	ConfirmCancel = "tdel_ok:"    // tdel_ok:<дайджест ключа>
)
