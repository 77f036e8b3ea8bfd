package config

import (
	"fmt"
	"log"
	"sync"
	"time"

	"github.com/ilyakaznacheev/cleanenv"
)

type Config struct {
	App struct {
		Env       string `env:"APP_ENV" env-default:"development"`
		Timezone  string `env:"APP_TIMEZONE" env-default:"UTC"`
		SentryUrl string `env:"SENTRY_URL"`
	}
	Postgres struct {
		Port     int    `env:"POSTGRES_PORT" env-default:"5432"`
		Host     string `env:"POSTGRES_HOST" env-default:"localhost"`
		User     string `env:"POSTGRES_USER"`
		Pass     string `env:"POSTGRES_PASS"`
		Name     string `env:"POSTGRES_NAME"`
		SslMode  string `env:"POSTGRES_SSL_MODE" env-default:"disable"`
		MaxConns int32  `env:"POSTGRES_MAX_CONNS" env-default:"4"`
	}
	VK struct {
		Token     string        `env:"VK_TOKEN"`
		Version   string        `env:"VK_API_VERSION" env-default:"5.131"`
		BaseURL   string        `env:"VK_API_BASE_URL" env-default:"https://api.vk.com/method"`
		Delay     time.Duration `env:"VK_API_DELAY" env-default:"350ms"`
		Hashtag   string        `env:"HASHTAG"`
		StartDate string        `env:"START_DATE"`
	}
	Telegram struct {
		Token  string `env:"TELEGRAM_BOT_TOKEN"`
		ChatID int64  `env:"TELEGRAM_CHAT_ID"`
	}
	Collector struct {
		Schedule      string        `env:"COLLECTOR_SCHEDULE"`
		RefreshMaxAge time.Duration `env:"COLLECTOR_REFRESH_MAX_AGE"`
	}
	Report struct {
		SheetPath string `env:"REPORT_SHEET_PATH" env-default:"data/report.xlsx"`
		TopLimit  int    `env:"REPORT_TOP_LIMIT" env-default:"10"`
	}
}

var (
	once sync.Once
	cfg  *Config
)

func New() (*Config, error) {
	once.Do(func() {
		cfg = &Config{}
		if err := cleanenv.ReadEnv(cfg); err != nil {
			help, _ := cleanenv.GetDescription(cfg, nil)
			log.Fatalf("Failed to read configuration: %v\n%v", err, help)
		}
	})
	return cfg, nil
}

// GetDSN returns the postgres connection string in keyword form, used by the
// goose migration connection.
func (c *Config) GetDSN() string {
	return fmt.Sprintf("dbname=%s user=%s password=%s host=%s port=%d sslmode=%s",
		c.Postgres.Name, c.Postgres.User, c.Postgres.Pass, c.Postgres.Host, c.Postgres.Port, c.Postgres.SslMode,
	)
}
