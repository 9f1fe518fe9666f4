// Package config loads process configuration from the environment.
package config

import (
	"errors"
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
)

// Config holds api process configuration.
type Config struct {
	Env      string `env:"ENV"       envDefault:"local"`
	HTTPAddr string `env:"HTTP_ADDR" envDefault:":8080"`

	DBURL      string `env:"DB_URL"`
	DBMaxConns int32  `env:"DB_MAX_CONNS" envDefault:"4"`
	DBMigrate  bool   `env:"DB_MIGRATE"   envDefault:"false"`

	RedisURL      string `env:"REDIS_URL"`
	AccessTokenDB int    `env:"ACCESS_TOKEN_DB" envDefault:"2"`
	PubSubDB      int    `env:"PUBSUB_DB"       envDefault:"3"`

	RelayDriver        string `env:"RELAY_DRIVER"         envDefault:"redis"`
	RelayChannelPrefix string `env:"RELAY_CHANNEL_PREFIX" envDefault:"chat_messages_"`

	AuthMode  string `env:"AUTH_MODE"  envDefault:"cache"`
	JWTSecret string `env:"JWT_SECRET"`

	WorkerEnabled    bool   `env:"WORKER_ENABLED"    envDefault:"true"`
	AsynqConcurrency int    `env:"ASYNQ_CONCURRENCY" envDefault:"10"`
	AsynqQueues      string `env:"ASYNQ_QUEUES"      envDefault:"notifications=1"`

	EmailProvider      string `env:"EMAIL_PROVIDER"       envDefault:"ses"`
	PushProvider       string `env:"PUSH_PROVIDER"        envDefault:"sns"`
	AWSRegion          string `env:"AWS_REGION"           envDefault:"ap-northeast-1"`
	EmailFrom          string `env:"EMAIL_FROM"           envDefault:"SENDER <from-address@test.com>"`
	EmailSubject       string `env:"EMAIL_SUBJECT"        envDefault:"[chat-service] posted message"`
	MailgunDomain      string `env:"MAILGUN_DOMAIN"`
	MailgunAPIKey      string `env:"MAILGUN_API_KEY"`
	FCMCredentialsFile string `env:"FCM_CREDENTIALS_FILE"`

	CORSAllowedOrigins []string      `env:"CORS_ALLOWED_ORIGINS" envDefault:"*" envSeparator:","`
	ShutdownTimeout    time.Duration `env:"SHUTDOWN_TIMEOUT"     envDefault:"10s"`
}

// Load reads an optional .env file, then parses and validates the environment.
func Load() (Config, error) {
	if err := godotenv.Load(); err != nil {
		log.Printf("config: .env file not loaded: %v", err)
	}
	return Parse()
}

// Parse populates a Config from the current environment without touching .env files.
func Parse() (Config, error) {
	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return Config{}, fmt.Errorf("parse env: %w", err)
	}
	cfg.DBURL = strings.TrimSpace(cfg.DBURL)
	cfg.RedisURL = strings.TrimSpace(cfg.RedisURL)
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Validate rejects configurations the api cannot start with.
func (c Config) Validate() error {
	var errs []error
	if c.DBURL == "" {
		errs = append(errs, errors.New("DB_URL is required"))
	}
	if c.RedisURL == "" {
		errs = append(errs, errors.New("REDIS_URL is required"))
	}
	switch c.RelayDriver {
	case "redis", "memory":
	default:
		errs = append(errs, fmt.Errorf("RELAY_DRIVER %q is not supported", c.RelayDriver))
	}
	switch c.AuthMode {
	case "cache":
	case "jwt":
		if c.JWTSecret == "" {
			errs = append(errs, errors.New("JWT_SECRET is required when AUTH_MODE=jwt"))
		}
	default:
		errs = append(errs, fmt.Errorf("AUTH_MODE %q is not supported", c.AuthMode))
	}
	switch c.EmailProvider {
	case "ses":
	case "mailgun":
		if !c.IsLocal() && (c.MailgunDomain == "" || c.MailgunAPIKey == "") {
			errs = append(errs, errors.New("MAILGUN_DOMAIN and MAILGUN_API_KEY are required when EMAIL_PROVIDER=mailgun"))
		}
	default:
		errs = append(errs, fmt.Errorf("EMAIL_PROVIDER %q is not supported", c.EmailProvider))
	}
	switch c.PushProvider {
	case "sns", "fcm":
	default:
		errs = append(errs, fmt.Errorf("PUSH_PROVIDER %q is not supported", c.PushProvider))
	}
	if c.RelayChannelPrefix == "" {
		errs = append(errs, errors.New("RELAY_CHANNEL_PREFIX must not be empty"))
	}
	return errors.Join(errs...)
}

// IsLocal reports whether notification providers should be replaced by log output.
func (c Config) IsLocal() bool {
	return c.Env == "local"
}
