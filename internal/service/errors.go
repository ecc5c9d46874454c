package service

import (
	"errors"
	"fmt"

	"github.com/Freeeeeet/court_bot/internal/repository"
)

var (
	ErrTransport          = errors.New("portal transport failure")
	ErrMalformedResponse  = errors.New("malformed portal response")
	ErrEmptyDateList      = errors.New("no available dates found")
	ErrEmptyAreaList      = errors.New("no areas found")
	ErrEmptyMenu          = errors.New("menu is empty")
	ErrTaskNotFound       = repository.ErrTaskNotFound
	ErrStaleView          = errors.New("view superseded by a newer request")
	ErrSyntheticSlot      = errors.New("synthetic slot cannot be scheduled")
	ErrSlotNotSelectable  = errors.New("slot is not selectable")
	ErrNothingSelected    = errors.New("nothing selected")
	ErrPipelinePanic      = errors.New("retrieval pipeline panicked")
	ErrPhoneMismatch      = errors.New("portal returned another phone number")
	ErrUnexpectedHTTPCode = errors.New("unexpected HTTP status")
	ErrNoRecipients       = errors.New("no chats to notify")
)

// UpstreamError бизнес-ошибка портала (Code != 1), Msg передаётся как есть
type UpstreamError struct {
	Code int
	Msg  string
}

func (e *UpstreamError) Error() string {
	return fmt.Sprintf("portal error %d: %s", e.Code, e.Msg)
}

func transportError(err error) error {
	return fmt.Errorf("%w: %v", ErrTransport, err)
}

// recoverPipeline превращает панику в ошибку на границе сервиса
func recoverPipeline(err *error) {
	if r := recover(); r != nil {
		*err = fmt.Errorf("%w: %v", ErrPipelinePanic, r)
	}
}
