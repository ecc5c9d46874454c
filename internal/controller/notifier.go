package controller

import (
	"context"
	"errors"
	"fmt"
	"html"
	"sync"

	"github.com/Freeeeeet/court_bot/internal/controller/callbacks/common/formatting"
	"github.com/Freeeeeet/court_bot/internal/model"
	"github.com/Freeeeeet/court_bot/internal/service"
	"github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"
	"go.uber.org/zap"
)

// MessageSender часть API бота, нужная для уведомлений
type MessageSender interface {
	SendMessage(ctx context.Context, params *bot.SendMessageParams) (*models.Message, error)
}

// Notifier рассылает уведомления об открывшихся слотах.
// Получатели: разрешённые чаты, а если список пуст, то все известные чаты.
// Каждый чат получает уведомление о задаче один раз.
type Notifier struct {
	sender     MessageSender
	allowed    []int64
	knownChats func() []int64
	logger     *zap.Logger

	mu        sync.Mutex
	delivered map[delivery]struct{}
}

type delivery struct {
	chatID int64
	key    model.TaskKey
}

func NewNotifier(sender MessageSender, allowed []int64, knownChats func() []int64, logger *zap.Logger) *Notifier {
	return &Notifier{
		sender:     sender,
		allowed:    allowed,
		knownChats: knownChats,
		logger:     logger,
		delivered:  make(map[delivery]struct{}),
	}
}

func (n *Notifier) recipients() []int64 {
	if len(n.allowed) > 0 {
		return n.allowed
	}
	if n.knownChats == nil {
		return nil
	}
	return n.knownChats()
}

func (n *Notifier) wasDelivered(d delivery) bool {
	n.mu.Lock()
	defer n.mu.Unlock()
	_, ok := n.delivered[d]
	return ok
}

func (n *Notifier) markDelivered(d delivery) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.delivered[d] = struct{}{}
}

// NotifyAvailable сообщает, что слот задачи можно бронировать.
// Чаты, уже получившие это уведомление, пропускаются, поэтому после
// частичной ошибки повторная отправка уходит только в неудавшиеся чаты.
func (n *Notifier) NotifyAvailable(ctx context.Context, task model.BookingTask) error {
	chats := n.recipients()
	if len(chats) == 0 {
		return service.ErrNoRecipients
	}

	text := fmt.Sprintf(
		"🔔 <b>Слот открыт для записи</b>\n\n📅 %s %s\n📍 %s / %s\n💰 %s\n\nЗабронируйте его на портале.",
		formatting.FormatDate(task.Date),
		task.Time,
		html.EscapeString(task.AreaName),
		html.EscapeString(task.VenueName),
		formatting.FormatPrice(task.Price),
	)

	var errs []error
	key := task.Key()
	for _, chatID := range chats {
		d := delivery{chatID: chatID, key: key}
		if n.wasDelivered(d) {
			continue
		}

		_, err := n.sender.SendMessage(ctx, &bot.SendMessageParams{
			ChatID:    chatID,
			Text:      text,
			ParseMode: models.ParseModeHTML,
		})
		if err != nil {
			errs = append(errs, fmt.Errorf("notify chat %d: %w", chatID, err))
			continue
		}
		n.markDelivered(d)
	}
	return errors.Join(errs...)
}
