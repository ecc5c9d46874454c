package booking

import (
	"context"
	"errors"
	"fmt"

	"github.com/Freeeeeet/court_bot/internal/controller/callbacks/callbacktypes"
	"github.com/Freeeeeet/court_bot/internal/controller/callbacks/common"
	"github.com/Freeeeeet/court_bot/internal/controller/state"
	"github.com/Freeeeeet/court_bot/internal/model"
	"github.com/Freeeeeet/court_bot/internal/service"
	"github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"
	"go.uber.org/zap"
)

// gridRequest параметры загрузки сетки
type gridRequest struct {
	item   model.MenuItem
	option *model.BookingOption
	dates  []string
	area   string
	date   string

	// выбор, который нужно перенести в новую сетку (обновление)
	keep []model.VenueSlot
}

// currentRequest параметры сетки, открытой в сессии
func currentRequest(hc *common.HandlerContext) (gridRequest, bool) {
	var (
		req gridRequest
		ok  bool
	)
	hc.With(func(s *state.Session) {
		if !s.HasGrid() {
			return
		}
		req = gridRequest{
			item:   *s.Item,
			option: s.Option,
			dates:  s.Dates,
			area:   s.Area,
			date:   s.Date,
		}
		ok = true
	})
	return req, ok
}

// loadGrid загружает сетку и заменяет ей экран. Сессия меняется только
// после успешной загрузки, поэтому при ошибке остаётся прежний экран.
func loadGrid(hc *common.HandlerContext, req gridRequest) {
	h := hc.Handler

	view, err := h.Grid.Load(hc.Ctx, hc.ViewKey(), req.item.ItemType, req.area, req.date)
	if errors.Is(err, service.ErrStaleView) {
		hc.Answer("")
		return
	}
	if err != nil {
		common.HandleError(hc, err, "load_grid")
		return
	}

	var (
		text    string
		kb      *models.InlineKeyboardMarkup
		applied bool
	)
	hc.With(func(s *state.Session) {
		// пока ждали блокировку, могла начаться более новая загрузка
		if !h.Grid.IsCurrent(hc.ViewKey(), view.Generation) {
			return
		}

		item := req.item
		s.Item = &item
		s.Option = req.option
		s.Dates = req.dates
		s.ReplaceGrid(view.Grid, view.Generation)
		applied = true
		if err = h.Grid.Restore(hc.Ctx, view.Grid, s.Selection, req.keep); err != nil {
			return
		}

		text, kb, err = renderGrid(hc.Ctx, h, s)
	})
	if !applied {
		hc.Answer("")
		return
	}
	if err != nil {
		common.HandleError(hc, err, "render_grid")
		return
	}

	common.Render(hc, text, kb, "load_grid")
	if view.Grid.Synthetic {
		hc.Answer("⚠️ Портал не вернул данных")
		return
	}
	hc.Answer("")
}

// renderGrid классифицирует сетку и строит экран. Вызывается под блокировкой сессии.
func renderGrid(ctx context.Context, h *callbacktypes.Handler, s *state.Session) (string, *models.InlineKeyboardMarkup, error) {
	classified, err := h.Grid.Classify(ctx, s.Grid, s.Selection)
	if err != nil {
		return "", nil, err
	}
	text, kb := common.GridScreen(s, classified)
	return text, kb, nil
}

// withGrid выполняет действие над открытой сеткой и перерисовывает экран
func withGrid(hc *common.HandlerContext, operation string, action func(s *state.Session) (string, error)) {
	var (
		text   string
		kb     *models.InlineKeyboardMarkup
		answer string
		err    error
	)
	hc.With(func(s *state.Session) {
		if !s.HasGrid() {
			err = common.ErrNoGrid
			return
		}
		if answer, err = action(s); err != nil {
			return
		}
		text, kb, err = renderGrid(hc.Ctx, hc.Handler, s)
	})
	if err != nil {
		common.HandleError(hc, err, operation)
		return
	}

	common.Render(hc, text, kb, operation)
	hc.Answer(answer)
}

// HandleToggleCell выбирает или снимает выбор ячейки
func HandleToggleCell(ctx context.Context, b *bot.Bot, callback *models.CallbackQuery, h *callbacktypes.Handler) {
	common.WithMessage(ctx, b, callback, h, func(hc *common.HandlerContext) {
		values, err := common.ParseInts(callback.Data, callbacktypes.ToggleCell, 3)
		if err != nil {
			common.HandleError(hc, err, "toggle_cell")
			return
		}
		gen, venueIdx, timeIdx := uint64(values[0]), values[1], values[2]

		withGrid(hc, "toggle_cell", func(s *state.Session) (string, error) {
			if gen != s.Generation {
				return "", service.ErrStaleView
			}
			times := s.Grid.Times()
			if venueIdx >= len(s.Grid.Venues) || timeIdx >= len(times) {
				return "", common.ErrInvalidFormat
			}

			selected, err := h.Grid.Toggle(ctx, s.Grid, s.Selection, s.Grid.Venues[venueIdx], times[timeIdx])
			if err != nil {
				return "", err
			}
			if selected {
				return "✅ Выбрано", nil
			}
			return "Выбор снят", nil
		})
	})
}

// HandleVenuePage листает площадки
func HandleVenuePage(ctx context.Context, b *bot.Bot, callback *models.CallbackQuery, h *callbacktypes.Handler) {
	common.WithMessage(ctx, b, callback, h, func(hc *common.HandlerContext) {
		page, err := common.ParseIndex(callback.Data, callbacktypes.VenuePage)
		if err != nil {
			common.HandleError(hc, err, "venue_page")
			return
		}

		withGrid(hc, "venue_page", func(s *state.Session) (string, error) {
			s.VenuePage = page
			return "", nil
		})
	})
}

// HandleCommit сохраняет выбранные ячейки как задачи
func HandleCommit(ctx context.Context, b *bot.Bot, callback *models.CallbackQuery, h *callbacktypes.Handler) {
	common.WithMessage(ctx, b, callback, h, func(hc *common.HandlerContext) {
		withGrid(hc, "commit", func(s *state.Session) (string, error) {
			result, err := h.Tasks.Commit(ctx, s.Grid, s.Selection)
			if err != nil {
				return "", err
			}

			h.Logger.Info("Selection committed",
				zap.Int64("chat_id", hc.ChatID),
				zap.Int("selected", result.Selected),
				zap.Int("added", result.Added))

			if result.Added < result.Selected {
				return fmt.Sprintf("💾 Сохранено: %d, уже были: %d", result.Added, result.Selected-result.Added), nil
			}
			return fmt.Sprintf("💾 Сохранено: %d", result.Added), nil
		})
	})
}

// HandleClear сбрасывает выбор
func HandleClear(ctx context.Context, b *bot.Bot, callback *models.CallbackQuery, h *callbacktypes.Handler) {
	common.WithMessage(ctx, b, callback, h, func(hc *common.HandlerContext) {
		withGrid(hc, "clear", func(s *state.Session) (string, error) {
			s.Selection.Clear()
			return "🧹 Выбор сброшен", nil
		})
	})
}

// HandleRefresh перезагружает сетку, сохраняя выбор там, где слот ещё свободен
func HandleRefresh(ctx context.Context, b *bot.Bot, callback *models.CallbackQuery, h *callbacktypes.Handler) {
	common.WithMessage(ctx, b, callback, h, func(hc *common.HandlerContext) {
		req, ok := currentRequest(hc)
		if !ok {
			common.HandleError(hc, common.ErrNoGrid, "refresh")
			return
		}
		hc.With(func(s *state.Session) { req.keep = s.Selection.Items() })

		loadGrid(hc, req)
	})
}
