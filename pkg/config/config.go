package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/kelseyhightower/envconfig"
)

const EnvPrefix = "somsa"

const (
	AppEnvDev  = "development"
	AppEnvProd = "production"
)

// Env variable names used by tests and deploy scripts.
const (
	EnvAppEnv        = "SOMSA_APP_ENV"
	EnvPort          = "SOMSA_APP_PORT"
	EnvAdminPassword = "SOMSA_ADMIN_PASSWORD"
	EnvRemoteBaseURL = "SOMSA_REMOTE_BASE_URL"
	EnvLocalStoreDSN = "SOMSA_LOCAL_STORE_DSN"
	EnvTelegramToken = "SOMSA_TELEGRAM_BOT_TOKEN"
	EnvTelegramChat  = "SOMSA_TELEGRAM_CHAT_ID"
	EnvRedisURL      = "SOMSA_REDIS_URL"
)

type Config struct {
	App        AppConfig
	Cart       CartConfig
	LocalStore LocalStoreConfig
	Remote     RemoteConfig
	Telegram   TelegramConfig
	Admin      AdminConfig
	Redis      RedisConfig
}

func Load() (*Config, error) {
	var cfg Config
	if err := envconfig.Process(EnvPrefix, &cfg); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}
	return &cfg, nil
}

type AppConfig struct {
	Env      string `envconfig:"SOMSA_APP_ENV" required:"true"`
	Port     string `envconfig:"SOMSA_APP_PORT" default:"8080"`
	LogLevel string `envconfig:"SOMSA_LOG_LEVEL" default:"info"`
}

func (a AppConfig) IsDev() bool {
	return strings.EqualFold(a.Env, AppEnvDev)
}

func (a AppConfig) IsProd() bool {
	return strings.EqualFold(a.Env, AppEnvProd)
}

// CartConfig carries the delivery pricing constants. Amounts are in the
// smallest currency unit (UZS sum).
type CartConfig struct {
	FreeDeliveryThreshold int `envconfig:"SOMSA_CART_FREE_DELIVERY_THRESHOLD" default:"100000"`
	DeliveryFee           int `envconfig:"SOMSA_CART_DELIVERY_FEE" default:"15000"`
}

type LocalStoreConfig struct {
	DSN string `envconfig:"SOMSA_LOCAL_STORE_DSN" default:"storefront.db"`
}

type RemoteConfig struct {
	BaseURL string        `envconfig:"SOMSA_REMOTE_BASE_URL" required:"true"`
	Timeout time.Duration `envconfig:"SOMSA_REMOTE_TIMEOUT" default:"10s"`
}

type TelegramConfig struct {
	BotToken       string        `envconfig:"SOMSA_TELEGRAM_BOT_TOKEN"`
	ChatID         string        `envconfig:"SOMSA_TELEGRAM_CHAT_ID"`
	DebounceWindow time.Duration `envconfig:"SOMSA_TELEGRAM_DEBOUNCE_WINDOW" default:"5s"`
}

// Enabled reports whether the dispatcher has enough config to send anything.
func (t TelegramConfig) Enabled() bool {
	return strings.TrimSpace(t.BotToken) != "" && strings.TrimSpace(t.ChatID) != ""
}

type AdminConfig struct {
	Password string `envconfig:"SOMSA_ADMIN_PASSWORD" required:"true"`
}

// RedisConfig is optional; without a URL the checkout idempotency guard is a
// passthrough.
type RedisConfig struct {
	URL            string        `envconfig:"SOMSA_REDIS_URL"`
	DialTimeout    time.Duration `envconfig:"SOMSA_REDIS_DIAL_TIMEOUT" default:"5s"`
	ReadTimeout    time.Duration `envconfig:"SOMSA_REDIS_READ_TIMEOUT" default:"5s"`
	WriteTimeout   time.Duration `envconfig:"SOMSA_REDIS_WRITE_TIMEOUT" default:"5s"`
	IdempotencyTTL time.Duration `envconfig:"SOMSA_REDIS_IDEMPOTENCY_TTL" default:"168h"`
}
