// Package portal реализует HTTP сессию к порталу бронирования
package portal

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/time/rate"
)

const maxBodySize = 8 << 20

// Заголовки, которые портал ожидает от встроенного браузера WeChat
var baseHeaders = map[string]string{
	"User-Agent":       "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/132.0.0.0 Safari/537.36 NetType/WIFI MicroMessenger/7.0.20.1781(0x6700143B) WindowsWechat(0x63090a13) UnifiedPCWindowsWechat(0xf2541211) XWEB/16815 Flue",
	"Accept":           "application/json, text/javascript, */*; q=0.01",
	"X-Requested-With": "XMLHttpRequest",
	"Accept-Language":  "zh-CN,zh;q=0.9",
}

type Options struct {
	BaseURL    string
	CookieFile string
	Timeout    time.Duration
	RPS        float64
}

// Client аутентифицированная сессия к порталу
type Client struct {
	baseURL string
	http    *http.Client
	cookies *CookieStore
	limiter *rate.Limiter
	logger  *zap.Logger
}

func NewClient(opts Options, logger *zap.Logger) *Client {
	if opts.Timeout <= 0 {
		opts.Timeout = 10 * time.Second
	}
	limit := rate.Inf
	if opts.RPS > 0 {
		limit = rate.Limit(opts.RPS)
	}

	return &Client{
		baseURL: strings.TrimRight(opts.BaseURL, "/"),
		http: &http.Client{
			Timeout: opts.Timeout,
		},
		cookies: NewCookieStore(opts.CookieFile),
		limiter: rate.NewLimiter(limit, 1),
		logger:  logger,
	}
}

// URL превращает путь портала в абсолютный адрес
func (c *Client) URL(path string) string {
	if strings.HasPrefix(path, "http://") || strings.HasPrefix(path, "https://") {
		return path
	}
	if !strings.HasPrefix(path, "/") {
		path = "/" + path
	}
	return c.baseURL + path
}

// Get выполняет GET с cookies сессии и Referer. Новые cookies из ответа
// сохраняются в файл. Ошибка возвращается только при сбое транспорта.
func (c *Client) Get(ctx context.Context, path, referer string) (int, []byte, error) {
	requestID := uuid.NewString()
	target := c.URL(path)

	if err := c.limiter.Wait(ctx); err != nil {
		return 0, nil, fmt.Errorf("wait rate limiter: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, target, nil)
	if err != nil {
		return 0, nil, fmt.Errorf("build request: %w", err)
	}
	for k, v := range baseHeaders {
		req.Header.Set(k, v)
	}
	if referer != "" {
		req.Header.Set("Referer", c.URL(referer))
	}
	for name, value := range c.cookies.Cookies() {
		req.AddCookie(&http.Cookie{Name: name, Value: value})
	}

	started := time.Now()
	resp, err := c.http.Do(req)
	if err != nil {
		c.logger.Warn("Portal request failed",
			zap.String("request_id", requestID),
			zap.String("path", path),
			zap.Error(err),
		)
		return 0, nil, err
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBodySize))
	if err != nil {
		return resp.StatusCode, nil, fmt.Errorf("read body: %w", err)
	}

	if err := c.cookies.Merge(resp.Cookies()); err != nil {
		c.logger.Error("Failed to persist cookies", zap.String("request_id", requestID), zap.Error(err))
	}

	c.logger.Debug("Portal request done",
		zap.String("request_id", requestID),
		zap.String("path", path),
		zap.Int("status", resp.StatusCode),
		zap.Int("bytes", len(body)),
		zap.Duration("took", time.Since(started)),
	)

	return resp.StatusCode, body, nil
}
