package booking

import (
	"context"
	"slices"

	"github.com/Freeeeeet/court_bot/internal/controller/callbacks/callbacktypes"
	"github.com/Freeeeeet/court_bot/internal/controller/callbacks/common"
	"github.com/Freeeeeet/court_bot/internal/controller/state"
	"github.com/Freeeeeet/court_bot/internal/model"
	"github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"
	"go.uber.org/zap"
)

// HandleBackToItems показывает меню видов спорта
func HandleBackToItems(ctx context.Context, b *bot.Bot, callback *models.CallbackQuery, h *callbacktypes.Handler) {
	common.WithMessage(ctx, b, callback, h, func(hc *common.HandlerContext) {
		var items []model.MenuItem
		hc.With(func(s *state.Session) { items = s.Items })

		if len(items) == 0 {
			loaded, err := h.Catalog.ListItems(ctx)
			if err != nil {
				common.HandleError(hc, err, "list_items")
				return
			}
			items = loaded
			hc.With(func(s *state.Session) { s.Items = loaded })
		}

		text, kb := common.MenuScreen(items)
		common.Render(hc, text, kb, "back_to_items")
		hc.Answer("")
	})
}

// HandlePickItem выбирает вид спорта и открывает сетку на дату и зону по умолчанию
func HandlePickItem(ctx context.Context, b *bot.Bot, callback *models.CallbackQuery, h *callbacktypes.Handler) {
	common.WithMessage(ctx, b, callback, h, func(hc *common.HandlerContext) {
		idx, err := common.ParseIndex(callback.Data, callbacktypes.PickItem)
		if err != nil {
			common.HandleError(hc, err, "pick_item")
			return
		}

		var item *model.MenuItem
		hc.With(func(s *state.Session) {
			if idx < len(s.Items) {
				it := s.Items[idx]
				item = &it
			}
		})
		if item == nil {
			common.HandleError(hc, common.ErrNoMenu, "pick_item")
			return
		}

		option, err := h.Catalog.Resolve(ctx, item.ItemType)
		if err != nil {
			common.HandleError(hc, err, "resolve_item")
			return
		}

		dates := h.Catalog.DateAxis()
		date := option.DefaultDate
		if !slices.Contains(dates, date) && len(dates) > 0 {
			date = dates[0]
		}

		h.Logger.Info("Item picked",
			zap.Int64("chat_id", hc.ChatID),
			zap.String("item_type", item.ItemType),
			zap.String("area", option.DefaultArea),
			zap.String("date", date))

		loadGrid(hc, gridRequest{
			item:   *item,
			option: option,
			dates:  dates,
			area:   option.DefaultArea,
			date:   date,
		})
	})
}

// HandlePickArea меняет зону, дата сохраняется
func HandlePickArea(ctx context.Context, b *bot.Bot, callback *models.CallbackQuery, h *callbacktypes.Handler) {
	common.WithMessage(ctx, b, callback, h, func(hc *common.HandlerContext) {
		idx, err := common.ParseIndex(callback.Data, callbacktypes.PickArea)
		if err != nil {
			common.HandleError(hc, err, "pick_area")
			return
		}

		req, ok := currentRequest(hc)
		if !ok {
			common.HandleError(hc, common.ErrNoGrid, "pick_area")
			return
		}
		if idx >= len(req.option.Areas) {
			common.HandleError(hc, common.ErrInvalidFormat, "pick_area")
			return
		}

		req.area = req.option.Areas[idx]
		loadGrid(hc, req)
	})
}

// HandlePickDate меняет дату, зона сохраняется
func HandlePickDate(ctx context.Context, b *bot.Bot, callback *models.CallbackQuery, h *callbacktypes.Handler) {
	common.WithMessage(ctx, b, callback, h, func(hc *common.HandlerContext) {
		idx, err := common.ParseIndex(callback.Data, callbacktypes.PickDate)
		if err != nil {
			common.HandleError(hc, err, "pick_date")
			return
		}

		req, ok := currentRequest(hc)
		if !ok {
			common.HandleError(hc, common.ErrNoGrid, "pick_date")
			return
		}
		if idx >= len(req.dates) {
			common.HandleError(hc, common.ErrInvalidFormat, "pick_date")
			return
		}

		req.date = req.dates[idx]
		loadGrid(hc, req)
	})
}
