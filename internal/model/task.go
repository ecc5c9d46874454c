package model

import (
	"hash/fnv"
	"strconv"
)

// BookingTask сохранённое намерение забронировать слот, когда откроется запись.
// Задача не изменяется: обновление только через удаление и повторное создание.
type BookingTask struct {
	Date      string   `json:"date"`
	Time      string   `json:"time"`
	VenueName string   `json:"venue_name"`
	AreaName  string   `json:"area_name"`
	Price     float64  `json:"price"`
	Data      SlotData `json:"data"`
	ItemType  string   `json:"item_type,omitempty"`
}

// TaskKey естественный ключ задачи, уникален в хранилище
type TaskKey struct {
	Date      string `json:"date"`
	Time      string `json:"time"`
	VenueName string `json:"venue_name"`
	AreaName  string `json:"area_name"`
}

// NewTaskFromSlot создаёт задачу из выбранного слота сетки
func NewTaskFromSlot(grid *AvailabilityGrid, slot VenueSlot) BookingTask {
	return BookingTask{
		Date:      grid.Date,
		Time:      slot.Time,
		VenueName: slot.Venue,
		AreaName:  grid.Area,
		Price:     slot.Price,
		Data:      slot.Raw,
		ItemType:  grid.ItemType,
	}
}

func (t BookingTask) Key() TaskKey {
	return TaskKey{
		Date:      t.Date,
		Time:      t.Time,
		VenueName: t.VenueName,
		AreaName:  t.AreaName,
	}
}

// Cell координата задачи в сетке её зоны и даты
func (k TaskKey) Cell() CellKey {
	return CellKey{Venue: k.VenueName, Time: k.Time}
}

// Digest короткий стабильный хэш ключа, помещается в callback data
func (k TaskKey) Digest() string {
	h := fnv.New64a()
	for _, part := range []string{k.Date, k.Time, k.VenueName, k.AreaName} {
		h.Write([]byte(part))
		h.Write([]byte{0x1f})
	}
	return strconv.FormatUint(h.Sum64(), 36)
}
