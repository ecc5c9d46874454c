package service

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"

	"github.com/Freeeeeet/court_bot/internal/model"
)

// Пути портала
const (
	pathHome        = "/cd/home"
	pathMenu        = "/CD/Index2"
	pathParticulars = "/cd/particulars"
	pathDayPlay     = "/cd/GetDayPlay"
	pathLogin       = "/JNMY/Login"
	pathSendSMS     = "/JNMY/SendSMSVerifyCode"
	pathCheckCode   = "/JNMY/CheckPhoneCode"
)

const upstreamSuccess = 1

// escapeParam кодирует значение параметра запроса. Пробел передаётся
// как %20: портал не декодирует + в названиях зон.
func escapeParam(v string) string {
	return strings.ReplaceAll(url.QueryEscape(v), "+", "%20")
}

// Gateway аутентифицированная HTTP сессия к порталу
type Gateway interface {
	Get(ctx context.Context, path, referer string) (int, []byte, error)
}

// PageParser извлекает данные из HTML страниц портала
type PageParser interface {
	ExtractDatesAndAreas(page []byte) ([]string, []string, error)
	ExtractMenuItems(page []byte) ([]model.MenuItem, error)
}

// envelope общий формат JSON ответов портала
type envelope struct {
	Code int             `json:"Code"`
	Msg  string          `json:"Msg"`
	Data json.RawMessage `json:"Data"`
}

// fetchPage загружает страницу; любой сбой сети или не-200 статус
// считается транспортной ошибкой
func fetchPage(ctx context.Context, gw Gateway, path, referer string) ([]byte, error) {
	status, body, err := gw.Get(ctx, path, referer)
	if err != nil {
		return nil, transportError(err)
	}
	if status != http.StatusOK {
		return nil, fmt.Errorf("%w: %w %d", ErrTransport, ErrUnexpectedHTTPCode, status)
	}
	return body, nil
}

// callAPI вызывает JSON метод портала и проверяет бизнес-код
func callAPI(ctx context.Context, gw Gateway, path, referer string) (*envelope, error) {
	body, err := fetchPage(ctx, gw, path, referer)
	if err != nil {
		return nil, err
	}

	var env envelope
	if err := json.Unmarshal(body, &env); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformedResponse, err)
	}

	if env.Code != upstreamSuccess {
		msg := env.Msg
		if msg == "" {
			msg = "未知错误"
		}
		return nil, &UpstreamError{Code: env.Code, Msg: msg}
	}

	return &env, nil
}

// isEmptyData проверяет что Data отсутствует, null или пустой список
func isEmptyData(raw json.RawMessage) bool {
	switch string(raw) {
	case "", "null", "[]", `""`:
		return true
	}
	return false
}
