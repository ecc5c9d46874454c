package model

type CellState string

const (
	CellAvailable   CellState = "available"
	CellSelected    CellState = "selected"
	CellScheduled   CellState = "scheduled"   // есть сохранённая задача
	CellUnavailable CellState = "unavailable" // портал: "不可预约"
	CellOccupied    CellState = "occupied"
	CellLocked      CellState = "locked" // административная блокировка
	CellAbsent      CellState = "absent" // нет данных по ячейке
)

// Selectable можно ли переключать ячейку
func (s CellState) Selectable() bool {
	return s == CellAvailable || s == CellSelected
}

// ClassifyCell вычисляет состояние ячейки. Порядок проверок важен:
// задача > не бронируется > занято > блокировка > свободно.
func ClassifyCell(slot *VenueSlot, scheduled, selected bool) CellState {
	switch {
	case scheduled:
		return CellScheduled
	case slot == nil:
		return CellAbsent
	case !slot.Bookable:
		return CellUnavailable
	case slot.Occupied:
		return CellOccupied
	case slot.AdminLocked:
		return CellLocked
	case selected:
		return CellSelected
	default:
		return CellAvailable
	}
}

// ClassifiedGrid сетка вместе с вычисленными состояниями ячеек
type ClassifiedGrid struct {
	Grid   *AvailabilityGrid
	States map[CellKey]CellState
}

// State возвращает состояние ячейки, Absent для неизвестных координат
func (c *ClassifiedGrid) State(venue, time string) CellState {
	if state, ok := c.States[CellKey{Venue: venue, Time: time}]; ok {
		return state
	}
	return CellAbsent
}

// Count считает ячейки в указанном состоянии
func (c *ClassifiedGrid) Count(state CellState) int {
	n := 0
	for _, s := range c.States {
		if s == state {
			n++
		}
	}
	return n
}

// Selection выбранные в текущей сессии слоты, ключ - идентификатор провайдера.
// Не потокобезопасна, владелец обязан синхронизировать доступ.
type Selection struct {
	order []SlotID
	items map[SlotID]VenueSlot
}

func NewSelection() *Selection {
	return &Selection{
		order: make([]SlotID, 0),
		items: make(map[SlotID]VenueSlot),
	}
}

// Toggle переключает слот, возвращает true если слот теперь выбран
func (s *Selection) Toggle(slot VenueSlot) bool {
	if _, ok := s.items[slot.ID]; ok {
		delete(s.items, slot.ID)
		for i, id := range s.order {
			if id == slot.ID {
				s.order = append(s.order[:i], s.order[i+1:]...)
				break
			}
		}
		return false
	}
	s.items[slot.ID] = slot
	s.order = append(s.order, slot.ID)
	return true
}

func (s *Selection) Contains(id SlotID) bool {
	_, ok := s.items[id]
	return ok
}

// Items возвращает выбранные слоты в порядке выбора
func (s *Selection) Items() []VenueSlot {
	out := make([]VenueSlot, 0, len(s.order))
	for _, id := range s.order {
		out = append(out, s.items[id])
	}
	return out
}

func (s *Selection) Len() int {
	return len(s.order)
}

// Total суммарная стоимость выбранных слотов
func (s *Selection) Total() float64 {
	var total float64
	for _, slot := range s.items {
		total += slot.Price
	}
	return total
}

func (s *Selection) Clear() {
	s.order = s.order[:0]
	s.items = make(map[SlotID]VenueSlot)
}
