package config

import (
	"fmt"
	"time"

	"github.com/caarlos0/env/v10"
)

// Config centraliza la configuración del servicio.
type Config struct {
	HTTPPort      string `env:"HTTP_PORT" envDefault:"8080"`
	DatabaseURL   string `env:"DATABASE_URL,required,notEmpty"`
	RunMigrations bool   `env:"RUN_MIGRATIONS" envDefault:"true"`

	DBMaxConns        int32         `env:"DB_MAX_CONNS" envDefault:"10"`
	DBMinConns        int32         `env:"DB_MIN_CONNS" envDefault:"1"`
	DBMaxConnLifetime time.Duration `env:"DB_MAX_CONN_LIFETIME" envDefault:"30m"`
	DBMaxConnIdleTime time.Duration `env:"DB_MAX_CONN_IDLE_TIME" envDefault:"5m"`
	DBConnectTimeout  time.Duration `env:"DB_CONNECT_TIMEOUT" envDefault:"5s"`

	SiteHost   string `env:"SITE_HOST" envDefault:"localhost:8080"`
	SiteScheme string `env:"SITE_SCHEME" envDefault:"http"`

	EmailVerification bool          `env:"EMAIL_VERIFICATION" envDefault:"true"`
	ConfirmationTTL   time.Duration `env:"CONFIRMATION_TTL" envDefault:"0s"`

	SessionSecret       string        `env:"SESSION_SECRET,required,notEmpty"`
	SessionTTL          time.Duration `env:"SESSION_TTL" envDefault:"336h"`
	CookieSecure        bool          `env:"COOKIE_SECURE" envDefault:"false"`
	InactiveLoginPolicy string        `env:"INACTIVE_LOGIN_POLICY" envDefault:"distinct"`
	LoginMaxFailures    int           `env:"LOGIN_MAX_FAILURES" envDefault:"5"`
	LoginWindow         time.Duration `env:"LOGIN_WINDOW" envDefault:"10m"`

	SMTPHost     string `env:"SMTP_HOST"`
	SMTPPort     int    `env:"SMTP_PORT" envDefault:"587"`
	SMTPUser     string `env:"SMTP_USER"`
	SMTPPass     string `env:"SMTP_PASS"`
	SMTPFrom     string `env:"SMTP_FROM"`
	SMTPFromName string `env:"SMTP_FROM_NAME" envDefault:"Superlists"`
	SMTPUseTLS   bool   `env:"SMTP_USE_TLS" envDefault:"false"`

	RedisAddr     string `env:"REDIS_ADDR"`
	RedisPassword string `env:"REDIS_PASSWORD"`
	RedisDB       int    `env:"REDIS_DB" envDefault:"0"`
}

// LoadConfig carga la configuración desde variables de entorno.
func LoadConfig() (*Config, error) {
	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return nil, err
	}
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func (c *Config) validate() error {
	switch c.InactiveLoginPolicy {
	case "distinct", "generic":
	default:
		return fmt.Errorf("INACTIVE_LOGIN_POLICY must be distinct or generic, got %q", c.InactiveLoginPolicy)
	}
	if c.SiteScheme != "http" && c.SiteScheme != "https" {
		return fmt.Errorf("SITE_SCHEME must be http or https, got %q", c.SiteScheme)
	}
	if c.ConfirmationTTL < 0 {
		return fmt.Errorf("CONFIRMATION_TTL must not be negative")
	}
	if c.DBMaxConns <= 0 || c.DBMinConns < 0 || c.DBMinConns > c.DBMaxConns {
		return fmt.Errorf("DB_MIN_CONNS (%d) must be between 0 and DB_MAX_CONNS (%d)", c.DBMinConns, c.DBMaxConns)
	}
	return nil
}
