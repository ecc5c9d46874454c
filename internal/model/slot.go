package model

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
)

// Значения статусов, которые присылает портал
const (
	UpstreamBookable    = "可预约"
	UpstreamNotBookable = "不可预约"
	UpstreamOccupied    = "1"
	UpstreamAdminLock   = "锁场"
)

const (
	firstSlotHour = 7
	lastSlotHour  = 21
)

// TimeAxis возвращает фиксированную ось времени 07:00 - 21:00 (15 слотов)
func TimeAxis() []string {
	times := make([]string, 0, lastSlotHour-firstSlotHour+1)
	for hour := firstSlotHour; hour <= lastSlotHour; hour++ {
		times = append(times, fmt.Sprintf("%02d:00", hour))
	}
	return times
}

// FlexString строка, которую портал иногда присылает числом или null
type FlexString string

func (s *FlexString) UnmarshalJSON(data []byte) error {
	raw := strings.TrimSpace(string(data))
	if raw == "null" {
		*s = ""
		return nil
	}
	if strings.HasPrefix(raw, `"`) {
		var v string
		if err := json.Unmarshal(data, &v); err != nil {
			return err
		}
		*s = FlexString(v)
		return nil
	}
	*s = FlexString(raw)
	return nil
}

// FlexFloat число, которое портал иногда присылает строкой
type FlexFloat float64

func (f *FlexFloat) UnmarshalJSON(data []byte) error {
	raw := strings.Trim(strings.TrimSpace(string(data)), `"`)
	if raw == "" || raw == "null" {
		*f = 0
		return nil
	}
	v, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return fmt.Errorf("parse number %q: %w", raw, err)
	}
	*f = FlexFloat(v)
	return nil
}

// SlotData элемент rtnlist из ответа GetDayPlay
type SlotData struct {
	TicketLevelName string     `json:"TicketLevelName"`
	MemberPrice     FlexFloat  `json:"MemberPrice"`
	TicketTypeNo    FlexString `json:"TicketTypeNo"`
	TicketLevelNo   FlexString `json:"TicketLevelNo"`
	CDefault7       FlexString `json:"CDefault7"`
	CDefault8       FlexString `json:"CDefault8"`
	Description     FlexString `json:"Description"`
}

// SlotID идентификатор слота, присвоенный провайдером
type SlotID struct {
	TypeNo  string
	LevelNo string
}

// CellKey координата ячейки сетки
type CellKey struct {
	Venue string
	Time  string
}

type VenueSlot struct {
	ID          SlotID
	Venue       string
	Time        string
	Price       float64
	Bookable    bool // CDefault7 != "不可预约"
	Occupied    bool // CDefault8 == "1"
	AdminLocked bool // Description == "锁场"
	LockReason  string
	Raw         SlotData
}

// NewVenueSlot собирает слот из сырых данных портала
func NewVenueSlot(venue string, d SlotData) VenueSlot {
	price := float64(d.MemberPrice)
	if price < 0 {
		price = 0
	}
	desc := strings.TrimSpace(string(d.Description))

	return VenueSlot{
		ID: SlotID{
			TypeNo:  string(d.TicketTypeNo),
			LevelNo: string(d.TicketLevelNo),
		},
		Venue:       venue,
		Time:        d.TicketLevelName,
		Price:       price,
		Bookable:    string(d.CDefault7) != UpstreamNotBookable,
		Occupied:    strings.TrimSpace(string(d.CDefault8)) == UpstreamOccupied,
		AdminLocked: desc == UpstreamAdminLock,
		LockReason:  desc,
		Raw:         d,
	}
}

// Cell возвращает координату слота в сетке
func (s VenueSlot) Cell() CellKey {
	return CellKey{Venue: s.Venue, Time: s.Time}
}

// AvailabilityGrid сетка площадок x время для одной тройки (пункт, зона, дата)
type AvailabilityGrid struct {
	ItemType  string
	Area      string
	Date      string
	Venues    []string
	Synthetic bool // сетка сгенерирована, портал не вернул данных

	slots map[CellKey]VenueSlot
	byID  map[SlotID]CellKey
}

func NewAvailabilityGrid(itemType, area, date string) *AvailabilityGrid {
	return &AvailabilityGrid{
		ItemType: itemType,
		Area:     area,
		Date:     date,
		Venues:   make([]string, 0),
		slots:    make(map[CellKey]VenueSlot),
		byID:     make(map[SlotID]CellKey),
	}
}

// AddVenue добавляет колонку, если её ещё нет
func (g *AvailabilityGrid) AddVenue(venue string) {
	for _, v := range g.Venues {
		if v == venue {
			return
		}
	}
	g.Venues = append(g.Venues, venue)
}

// Add кладёт слот в сетку. Повторная ячейка (venue, time) игнорируется,
// в этом случае возвращается false.
func (g *AvailabilityGrid) Add(slot VenueSlot) bool {
	g.AddVenue(slot.Venue)

	key := slot.Cell()
	if _, exists := g.slots[key]; exists {
		return false
	}
	g.slots[key] = slot
	if _, exists := g.byID[slot.ID]; !exists {
		g.byID[slot.ID] = key
	}
	return true
}

// Slot возвращает слот ячейки, false если данных нет
func (g *AvailabilityGrid) Slot(venue, time string) (VenueSlot, bool) {
	slot, ok := g.slots[CellKey{Venue: venue, Time: time}]
	return slot, ok
}

// SlotByID ищет слот по идентификатору провайдера
func (g *AvailabilityGrid) SlotByID(id SlotID) (VenueSlot, bool) {
	key, ok := g.byID[id]
	if !ok {
		return VenueSlot{}, false
	}
	return g.Slot(key.Venue, key.Time)
}

// Times возвращает ось времени сетки
func (g *AvailabilityGrid) Times() []string {
	return TimeAxis()
}

// Len количество слотов с данными
func (g *AvailabilityGrid) Len() int {
	return len(g.slots)
}
