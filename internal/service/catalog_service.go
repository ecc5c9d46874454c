package service

import (
	"context"
	"fmt"
	"net/url"
	"time"

	"github.com/Freeeeeet/court_bot/internal/model"
	"go.uber.org/zap"
)

// CatalogService получает меню портала и параметры бронирования пункта
type CatalogService struct {
	gateway     Gateway
	parser      PageParser
	horizonDays int
	location    *time.Location
	now         func() time.Time
	logger      *zap.Logger
}

func NewCatalogService(
	gateway Gateway,
	parser PageParser,
	horizonDays int,
	location *time.Location,
	logger *zap.Logger,
) *CatalogService {
	if location == nil {
		location = time.Local
	}
	return &CatalogService{
		gateway:     gateway,
		parser:      parser,
		horizonDays: horizonDays,
		location:    location,
		now:         time.Now,
		logger:      logger,
	}
}

// ListItems возвращает пункты меню (виды спорта)
func (s *CatalogService) ListItems(ctx context.Context) (items []model.MenuItem, err error) {
	defer recoverPipeline(&err)

	page, err := fetchPage(ctx, s.gateway, pathMenu, pathHome)
	if err != nil {
		return nil, fmt.Errorf("get menu page: %w", err)
	}

	items, err = s.parser.ExtractMenuItems(page)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformedResponse, err)
	}
	if len(items) == 0 {
		// Портал отдаёт страницу без меню, когда сессия протухла
		return nil, ErrEmptyMenu
	}

	s.logger.Info("Menu loaded", zap.Int("items", len(items)))
	return items, nil
}

// Resolve получает даты и зоны пункта. Пустой список дат или зон - ошибка,
// частичный результат не возвращается.
func (s *CatalogService) Resolve(ctx context.Context, itemType string) (opt *model.BookingOption, err error) {
	defer recoverPipeline(&err)

	path := pathParticulars + "?type=" + url.QueryEscape(itemType)
	page, err := fetchPage(ctx, s.gateway, path, pathMenu)
	if err != nil {
		return nil, fmt.Errorf("get particulars page: %w", err)
	}

	dates, areas, err := s.parser.ExtractDatesAndAreas(page)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformedResponse, err)
	}
	if len(dates) == 0 {
		return nil, ErrEmptyDateList
	}
	if len(areas) == 0 {
		return nil, ErrEmptyAreaList
	}

	s.logger.Info("Booking options resolved",
		zap.String("item_type", itemType),
		zap.Int("dates", len(dates)),
		zap.Int("areas", len(areas)),
	)

	return &model.BookingOption{
		ItemType:    itemType,
		Dates:       dates,
		Areas:       areas,
		DefaultDate: dates[0],
		DefaultArea: areas[0],
	}, nil
}

// DateAxis каноническая ось дат: горизонт дней начиная с сегодняшнего
func (s *CatalogService) DateAxis() []string {
	return NextNDays(s.now().In(s.location), s.horizonDays)
}

// Today сегодняшняя дата в часовом поясе портала
func (s *CatalogService) Today() string {
	return s.now().In(s.location).Format(time.DateOnly)
}

// NextNDays возвращает n подряд идущих дат YYYY-MM-DD начиная с today
func NextNDays(today time.Time, n int) []string {
	if n <= 0 {
		return []string{}
	}
	dates := make([]string, 0, n)
	y, m, d := today.Date()
	for i := 0; i < n; i++ {
		day := time.Date(y, m, d+i, 12, 0, 0, 0, today.Location())
		dates = append(dates, day.Format(time.DateOnly))
	}
	return dates
}
