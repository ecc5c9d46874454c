package config

import (
	"fmt"
	"log"
	"os"
	"strconv"
	"strings"
	"time"
	_ "time/tzdata"

	"github.com/joho/godotenv"
)

const (
	TaskStoreFile     = "file"
	TaskStorePostgres = "postgres"

	// MaxHorizonDays столько дат помещается в клавиатуру сетки вместе с 9 зонами
	MaxHorizonDays = 14
)

type Config struct {
	TelegramToken string `mapstructure:"TELEGRAM_TOKEN"`
	Environment   string `mapstructure:"ENV"`

	// Портал
	PortalBaseURL string        `mapstructure:"PORTAL_BASE_URL"`
	CookieFile    string        `mapstructure:"COOKIE_FILE"`
	HTTPTimeout   time.Duration `mapstructure:"HTTP_TIMEOUT"`
	PortalRPS     float64       `mapstructure:"PORTAL_RPS"`

	// Хранилище задач
	TaskStore      string `mapstructure:"TASK_STORE"`
	TaskFile       string `mapstructure:"TASK_FILE"`
	DBDSN          string `mapstructure:"DB_DSN"`
	MigrationsPath string `mapstructure:"MIGRATIONS_PATH"`

	HorizonDays           int            `mapstructure:"HORIZON_DAYS"`
	Location              *time.Location `mapstructure:"TIMEZONE"`
	WatchCron             string         `mapstructure:"WATCH_CRON"`
	AllowedChatIDs        []int64        `mapstructure:"ALLOWED_CHAT_IDS"`
	AllowSyntheticBooking bool           `mapstructure:"ALLOW_SYNTHETIC_BOOKING"`
}

// Load читает .env (если есть) и переменные окружения
func Load(envFile string) (*Config, error) {
	if envFile == "" {
		envFile = ".env"
	}

	// Пытаемся загрузить .env файл (игнорируем ошибку, если файла нет)
	if err := godotenv.Load(envFile); err != nil {
		log.Printf("⚠️  No %s file found, using environment variables", envFile)
	} else {
		log.Printf("✅ Loaded configuration from %s", envFile)
	}

	return FromEnv()
}

// FromEnv собирает конфиг из текущего окружения
func FromEnv() (*Config, error) {
	cfg := &Config{
		TelegramToken:  os.Getenv("TELEGRAM_TOKEN"),
		Environment:    getEnv("ENV", "development"),
		PortalBaseURL:  strings.TrimRight(getEnv("PORTAL_BASE_URL", "http://yyticket.jinanaoti.com"), "/"),
		CookieFile:     getEnv("COOKIE_FILE", "cookies.json"),
		TaskStore:      strings.ToLower(getEnv("TASK_STORE", TaskStoreFile)),
		TaskFile:       getEnv("TASK_FILE", "booking_tasks.json"),
		DBDSN:          os.Getenv("DB_DSN"),
		MigrationsPath: getEnv("MIGRATIONS_PATH", "migrations"),
		WatchCron:      getEnv("WATCH_CRON", "*/5 * * * *"),
	}

	var err error
	if cfg.HTTPTimeout, err = time.ParseDuration(getEnv("HTTP_TIMEOUT", "10s")); err != nil {
		return nil, fmt.Errorf("parse HTTP_TIMEOUT: %w", err)
	}
	if cfg.PortalRPS, err = strconv.ParseFloat(getEnv("PORTAL_RPS", "2"), 64); err != nil {
		return nil, fmt.Errorf("parse PORTAL_RPS: %w", err)
	}
	if cfg.HorizonDays, err = strconv.Atoi(getEnv("HORIZON_DAYS", "7")); err != nil {
		return nil, fmt.Errorf("parse HORIZON_DAYS: %w", err)
	}
	if cfg.Location, err = time.LoadLocation(getEnv("TIMEZONE", "Asia/Shanghai")); err != nil {
		return nil, fmt.Errorf("parse TIMEZONE: %w", err)
	}
	if cfg.AllowSyntheticBooking, err = strconv.ParseBool(getEnv("ALLOW_SYNTHETIC_BOOKING", "false")); err != nil {
		return nil, fmt.Errorf("parse ALLOW_SYNTHETIC_BOOKING: %w", err)
	}
	if cfg.AllowedChatIDs, err = parseIDs(os.Getenv("ALLOWED_CHAT_IDS")); err != nil {
		return nil, fmt.Errorf("parse ALLOWED_CHAT_IDS: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// Validate проверяет обязательные поля
func (c *Config) Validate() error {
	if c.TelegramToken == "" {
		return fmt.Errorf("TELEGRAM_TOKEN is required but not set")
	}
	switch c.TaskStore {
	case TaskStoreFile:
		if c.TaskFile == "" {
			return fmt.Errorf("TASK_FILE is required for file task store")
		}
	case TaskStorePostgres:
		if c.DBDSN == "" {
			return fmt.Errorf("DB_DSN is required for postgres task store")
		}
	default:
		return fmt.Errorf("unknown TASK_STORE %q", c.TaskStore)
	}
	if c.HTTPTimeout <= 0 {
		return fmt.Errorf("HTTP_TIMEOUT must be positive")
	}
	if c.PortalRPS <= 0 {
		return fmt.Errorf("PORTAL_RPS must be positive")
	}
	if c.HorizonDays <= 0 || c.HorizonDays > MaxHorizonDays {
		return fmt.Errorf("HORIZON_DAYS must be between 1 and %d", MaxHorizonDays)
	}
	return nil
}

// IsChatAllowed пустой список разрешает всех
func (c *Config) IsChatAllowed(chatID int64) bool {
	if len(c.AllowedChatIDs) == 0 {
		return true
	}
	for _, id := range c.AllowedChatIDs {
		if id == chatID {
			return true
		}
	}
	return false
}

func (c *Config) GetDBDSN() string {
	return c.DBDSN
}

func getEnv(key, fallback string) string {
	if v := strings.TrimSpace(os.Getenv(key)); v != "" {
		return v
	}
	return fallback
}

func parseIDs(raw string) ([]int64, error) {
	var ids []int64
	for _, part := range strings.Split(raw, ",") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		id, err := strconv.ParseInt(part, 10, 64)
		if err != nil {
			return nil, err
		}
		ids = append(ids, id)
	}
	return ids, nil
}
