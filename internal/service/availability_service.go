package service

import (
	"context"
	"encoding/json"
	"fmt"
	"net/url"

	"github.com/Freeeeeet/court_bot/internal/model"
	"go.uber.org/zap"
)

// venuePayload элемент Data ответа GetDayPlay
type venuePayload struct {
	Name    string           `json:"name"`
	Rtnlist []model.SlotData `json:"rtnlist"`
}

// AvailabilityService получает сетку площадок на дату
type AvailabilityService struct {
	gateway Gateway
	logger  *zap.Logger
}

func NewAvailabilityService(gateway Gateway, logger *zap.Logger) *AvailabilityService {
	return &AvailabilityService{
		gateway: gateway,
		logger:  logger,
	}
}

// Fetch возвращает сетку для (пункт, зона, дата). Если портал ответил
// успехом, но без данных, возвращается сгенерированная сетка.
func (s *AvailabilityService) Fetch(ctx context.Context, itemType, area, date string) (grid *model.AvailabilityGrid, err error) {
	defer recoverPipeline(&err)

	path := fmt.Sprintf("%s?type=%s&Evaluate=%s&Day=%s",
		pathDayPlay, escapeParam(itemType), escapeParam(area), escapeParam(date))
	referer := pathParticulars + "?type=" + url.QueryEscape(itemType)

	env, err := callAPI(ctx, s.gateway, path, referer)
	if err != nil {
		return nil, fmt.Errorf("get day play: %w", err)
	}

	if isEmptyData(env.Data) {
		s.logger.Warn("Portal returned no venue data, synthesizing grid",
			zap.String("item_type", itemType),
			zap.String("area", area),
			zap.String("date", date),
		)
		return SynthesizeGrid(itemType, area, date), nil
	}

	var venues []venuePayload
	if err := json.Unmarshal(env.Data, &venues); err != nil {
		return nil, fmt.Errorf("%w: decode venues: %v", ErrMalformedResponse, err)
	}
	if len(venues) == 0 {
		return SynthesizeGrid(itemType, area, date), nil
	}

	grid = model.NewAvailabilityGrid(itemType, area, date)
	for _, v := range venues {
		grid.AddVenue(v.Name)
		for _, d := range v.Rtnlist {
			if !grid.Add(model.NewVenueSlot(v.Name, d)) {
				s.logger.Debug("Duplicate slot ignored",
					zap.String("venue", v.Name),
					zap.String("time", d.TicketLevelName),
				)
			}
		}
	}

	s.logger.Info("Venue grid loaded",
		zap.String("item_type", itemType),
		zap.String("area", area),
		zap.String("date", date),
		zap.Int("venues", len(grid.Venues)),
		zap.Int("slots", grid.Len()),
	)

	return grid, nil
}
