package config

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/sethvargo/go-envconfig"
)

// Store drivers.
const (
	DriverMongo  = "mongo"
	DriverMemory = "memory"
)

type Config struct {
	Port        string        `env:"PORT,         default=8080"`
	Env         string        `env:"ENV,          default=development"`
	JWTSecret   string        `env:"JWT_SECRET"`
	TokenTTL    time.Duration `env:"TOKEN_TTL,    default=24h"`
	LogLevel    string        `env:"LOG_LEVEL,    default=info"`
	StoreDriver string        `env:"STORE_DRIVER, default=mongo"`

	Mongo MongoConfig
	Redis RedisConfig
	Mail  MailConfig
	App   AppConfig
}

type MongoConfig struct {
	URI      string `env:"MONGO_URI, default=mongodb://localhost:27017"`
	Database string `env:"MONGO_DB,  default=employee_manager"`
}

// RedisConfig points at the session generation store. An empty Addr keeps
// generations in process memory.
type RedisConfig struct {
	Addr     string `env:"REDIS_ADDR"`
	Password string `env:"REDIS_PASSWORD"`
	DB       int    `env:"REDIS_DB, default=0"`
}

// MailConfig selects the SMTP relay. With no Host, mail is only logged.
type MailConfig struct {
	Host         string `env:"SMTP_HOST"`
	Port         int    `env:"SMTP_PORT,     default=587"`
	Username     string `env:"SMTP_USERNAME"`
	Password     string `env:"SMTP_PASSWORD"`
	From         string `env:"MAIL_FROM,     default=no-reply@empresatop10.com.br"`
	ContactEmail string `env:"CONTACT_EMAIL, default=contato@empresatop10.com.br"`
}

type AppConfig struct {
	Name         string        `env:"APP_NAME,        default=Empresa Top 10 - Tasks"`
	ResetBaseURL string        `env:"RESET_BASE_URL,  default=http://localhost:8080/api/v1/reset-password"`
	ResetTTL     time.Duration `env:"RESET_TOKEN_TTL, default=48h"`
	DefaultGroup string        `env:"DEFAULT_GROUP,   default=Employees"`
	// SeedOnStart applies SeedFile, or the built-in fixture when it is empty,
	// before the server starts listening.
	SeedOnStart bool   `env:"SEED_ON_START, default=false"`
	SeedFile    string `env:"SEED_FILE"`
}

// IsDevelopment reports whether the service runs in the development environment.
func (c *Config) IsDevelopment() bool { return c.Env == "development" }

// Validate rejects settings the service cannot run with.
func (c *Config) Validate() error {
	var errs []error
	if c.JWTSecret == "" && !c.IsDevelopment() {
		errs = append(errs, errors.New("JWT_SECRET is required outside development"))
	}
	if c.StoreDriver != DriverMongo && c.StoreDriver != DriverMemory {
		errs = append(errs, fmt.Errorf("STORE_DRIVER must be %q or %q, got %q", DriverMongo, DriverMemory, c.StoreDriver))
	}
	if c.TokenTTL <= 0 {
		errs = append(errs, errors.New("TOKEN_TTL must be positive"))
	}
	if c.App.ResetTTL < 0 {
		errs = append(errs, errors.New("RESET_TOKEN_TTL cannot be negative"))
	}
	if c.Mail.Host != "" && (c.Mail.Port <= 0 || c.Mail.Port > 65535) {
		errs = append(errs, fmt.Errorf("SMTP_PORT out of range: %d", c.Mail.Port))
	}
	return errors.Join(errs...)
}

// Load reads configuration from environment variables using go-envconfig.
func Load(ctx context.Context) (*Config, error) {
	return load(ctx, envconfig.OsLookuper())
}

func load(ctx context.Context, lookuper envconfig.Lookuper) (*Config, error) {
	var cfg Config
	if err := envconfig.ProcessWith(ctx, &envconfig.Config{Target: &cfg, Lookuper: lookuper}); err != nil {
		return nil, fmt.Errorf("config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config: %w", err)
	}
	return &cfg, nil
}
