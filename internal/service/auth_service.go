package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/url"
	"regexp"
	"strings"

	"go.uber.org/zap"
)

var (
	ErrInvalidPhone = errors.New("invalid phone number")
	ErrEmptyCode    = errors.New("verification code is empty")
)

var phonePattern = regexp.MustCompile(`^1\d{10}$`)

// AuthService вход на портал по SMS коду. Сессия остаётся в cookies клиента.
type AuthService struct {
	gateway Gateway
	logger  *zap.Logger
}

func NewAuthService(gateway Gateway, logger *zap.Logger) *AuthService {
	return &AuthService{
		gateway: gateway,
		logger:  logger,
	}
}

// ValidatePhone проверяет формат мобильного номера (11 цифр, начинается с 1)
func ValidatePhone(phone string) error {
	if !phonePattern.MatchString(phone) {
		return ErrInvalidPhone
	}
	return nil
}

// SendCode запрашивает SMS код. Портал должен вернуть тот же номер.
func (s *AuthService) SendCode(ctx context.Context, phone string) (err error) {
	defer recoverPipeline(&err)

	phone = strings.TrimSpace(phone)
	if err := ValidatePhone(phone); err != nil {
		return err
	}

	env, err := callAPI(ctx, s.gateway, pathSendSMS+"?Phone="+url.QueryEscape(phone), pathLogin)
	if err != nil {
		return fmt.Errorf("send sms code: %w", err)
	}

	var data struct {
		Phone string `json:"Phone"`
	}
	if !isEmptyData(env.Data) {
		if err := json.Unmarshal(env.Data, &data); err != nil {
			return fmt.Errorf("%w: decode sms response: %v", ErrMalformedResponse, err)
		}
	}
	if data.Phone != phone {
		return ErrPhoneMismatch
	}

	s.logger.Info("SMS code sent", zap.String("phone", maskPhone(phone)))
	return nil
}

// CheckCode проверяет SMS код и возвращает сообщение портала
func (s *AuthService) CheckCode(ctx context.Context, phone, code string) (msg string, err error) {
	defer recoverPipeline(&err)

	phone = strings.TrimSpace(phone)
	code = strings.TrimSpace(code)
	if err := ValidatePhone(phone); err != nil {
		return "", err
	}
	if code == "" {
		return "", ErrEmptyCode
	}

	query := url.Values{}
	query.Set("phone", phone)
	query.Set("code", code)

	env, err := callAPI(ctx, s.gateway, pathCheckCode+"?"+query.Encode(), pathLogin)
	if err != nil {
		return "", fmt.Errorf("check phone code: %w", err)
	}

	msg = env.Msg
	if msg == "" {
		msg = "登录成功"
	}

	s.logger.Info("Portal login succeeded", zap.String("phone", maskPhone(phone)))
	return msg, nil
}

func maskPhone(phone string) string {
	if len(phone) < 7 {
		return phone
	}
	return phone[:3] + "****" + phone[len(phone)-4:]
}
