package config

import (
	"context"
	"fmt"
	"time"

	"github.com/sethvargo/go-envconfig"
)

type Config struct {
	Port      string `env:"PORT,      default=8080"`
	Env       string `env:"ENV,       default=development"`
	JWTSecret string `env:"JWT_SECRET"`
	LogLevel  string `env:"LOG_LEVEL, default=info"`

	// BaseURL is the externally visible origin used in verification and
	// password reset links.
	BaseURL string `env:"BASE_URL, default=http://localhost:8080"`

	Mongo  MongoConfig
	Redis  RedisConfig
	Assets AssetsConfig
	Mailer MailerConfig
	Notify NotifyConfig
}

type MongoConfig struct {
	URI      string `env:"MONGO_URI, default=mongodb://localhost:27017"`
	Database string `env:"MONGO_DB,  default=marketplace"`
}

type RedisConfig struct {
	Addr     string `env:"REDIS_ADDR, default=localhost:6379"`
	Password string `env:"REDIS_PASSWORD"`
	DB       int    `env:"REDIS_DB,   default=0"`
}

type AssetsConfig struct {
	// BaseURL is the asset store front door that serves signed build URLs.
	BaseURL string `env:"ASSETS_BASE_URL, default=http://localhost:8080/assets"`
	// SigningSecret signs expiring download URLs.
	SigningSecret string `env:"ASSETS_SIGNING_SECRET"`
	// LinkTTL bounds how long an issued download link stays valid.
	LinkTTL time.Duration `env:"ASSETS_LINK_TTL, default=15m"`
}

type MailerConfig struct {
	// ProviderURL is the HTTP endpoint of the transactional mail provider.
	// Empty disables outbound mail; notifications are logged instead.
	ProviderURL string `env:"MAILER_PROVIDER_URL"`
	APIKey      string `env:"MAILER_API_KEY"`
	From        string `env:"MAILER_FROM, default=no-reply@pyxolotl.dev"`
}

type NotifyConfig struct {
	Workers   int `env:"NOTIFY_WORKERS,    default=4"`
	QueueSize int `env:"NOTIFY_QUEUE_SIZE, default=256"`
}

// Load reads configuration from environment variables using go-envconfig.
func Load() *Config {
	var cfg Config
	if err := envconfig.Process(context.Background(), &cfg); err != nil {
		panic(fmt.Sprintf("config: failed to load configuration: %v", err))
	}
	return &cfg
}
