package service

import (
	"fmt"
	"hash/fnv"
	"math/rand/v2"

	"github.com/Freeeeeet/court_bot/internal/model"
)

const (
	syntheticVenueCount   = 10
	syntheticFirstHour    = 7
	syntheticEveningHour  = 17
	syntheticDayPrice     = 40.0
	syntheticEveningPrice = 50.0
)

// SynthesizeGrid строит сетку-заглушку, когда портал не вернул площадок.
// Результат детерминирован для одной тройки (пункт, зона, дата).
func SynthesizeGrid(itemType, area, date string) *model.AvailabilityGrid {
	h := fnv.New64a()
	fmt.Fprintf(h, "%s\x1f%s\x1f%s", itemType, area, date)
	seed := h.Sum64()
	rng := rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15))

	grid := model.NewAvailabilityGrid(itemType, area, date)
	grid.Synthetic = true

	for i := 1; i <= syntheticVenueCount; i++ {
		venue := fmt.Sprintf("%s %d号场(模拟)", area, i)
		grid.AddVenue(venue)

		for idx, label := range model.TimeAxis() {
			hour := syntheticFirstHour + idx

			price := syntheticDayPrice
			if hour >= syntheticEveningHour {
				price = syntheticEveningPrice
			}

			c7 := model.UpstreamBookable
			c8 := "0"
			switch r := rng.Float64(); {
			case r > 0.9:
				c7 = model.UpstreamNotBookable
			case r > 0.8:
				c8 = model.UpstreamOccupied
			}

			grid.Add(model.NewVenueSlot(venue, model.SlotData{
				TicketLevelName: label,
				MemberPrice:     model.FlexFloat(price),
				TicketTypeNo:    model.FlexString(fmt.Sprintf("mock_type_%d", i)),
				TicketLevelNo:   model.FlexString(fmt.Sprintf("mock_level_%d", hour)),
				CDefault7:       model.FlexString(c7),
				CDefault8:       model.FlexString(c8),
			}))
		}
	}

	return grid
}
