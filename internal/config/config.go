package config

import (
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/ilyakaznacheev/cleanenv"
)

type Config struct {
	Env       string    `yaml:"env" env:"APP_ENV" env-default:"local"`
	Postgres  Postgres  `yaml:"postgres"`
	Server    Server    `yaml:"server"`
	Jira      Jira      `yaml:"jira"`
	Sync      Sync      `yaml:"sync"`
	Scheduler Scheduler `yaml:"scheduler"`
}

type Postgres struct {
	Username        string        `yaml:"username" env:"POSTGRES_USER" env-required:"true"`
	Password        string        `yaml:"password" env:"POSTGRES_PASSWORD" env-required:"true"`
	Host            string        `yaml:"host" env:"POSTGRES_HOST" env-required:"true"`
	Port            string        `yaml:"port" env:"POSTGRES_PORT" env-default:"5432"`
	Database        string        `yaml:"database" env:"POSTGRES_DB" env-required:"true"`
	SSLMode         string        `yaml:"sslmode" env:"POSTGRES_SSLMODE" env-default:"disable"`
	MaxOpenConns    int           `yaml:"max_open_conns" env-default:"50"`
	MaxIdleConns    int           `yaml:"max_idle_conns" env-default:"10"`
	ConnMaxLifetime time.Duration `yaml:"conn_max_lifetime" env-default:"5m"`
	ConnMaxIdleTime time.Duration `yaml:"conn_max_idle_time" env-default:"1m"`
}

// DSN returns the lib/pq connection URL for the configured database.
func (p Postgres) DSN() string {
	return fmt.Sprintf("postgres://%s:%s@%s:%s/%s?sslmode=%s",
		p.Username, p.Password, p.Host, p.Port, p.Database, p.SSLMode,
	)
}

type Server struct {
	Host       string        `yaml:"host" env-default:"localhost"`
	Port       string        `yaml:"port" env:"SERVER_PORT" env-default:"8080"`
	Timeout    time.Duration `yaml:"timeout" env-default:"5s"`
	AdminToken string        `yaml:"admin_token" env:"ADMIN_TOKEN"`
}

type Jira struct {
	BaseURL  string        `yaml:"base_url" env:"JIRA_BASE_URL"`
	Username string        `yaml:"username" env:"JIRA_USERNAME"`
	Password string        `yaml:"password" env:"JIRA_PASSWORD"`
	Project  string        `yaml:"project" env:"JIRA_PROJECT" env-default:"SUM"`
	Timeout  time.Duration `yaml:"timeout" env-default:"30s"`
	// MaxResults bounds a single project-wide search (estimate sessions).
	MaxResults int `yaml:"max_results" env-default:"200"`
}

type Sync struct {
	BatchSize int `yaml:"batch_size" env:"SYNC_BATCH_SIZE" env-default:"49"`
}

type Scheduler struct {
	Enabled       bool          `yaml:"enabled" env:"SCHEDULER_ENABLED" env-default:"true"`
	Timezone      string        `yaml:"timezone" env-default:"UTC"`
	SyncCron      string        `yaml:"sync_cron" env-default:"*/30 * * * *"`
	RecomputeCron string        `yaml:"recompute_cron" env-default:"5,35 * * * *"`
	JobTimeout    time.Duration `yaml:"job_timeout" env-default:"10m"`
}

func Load() (*Config, error) {
	configPath := os.Getenv("CONFIG_PATH")
	if configPath == "" {
		return nil, errors.New("CONFIG_PATH is not set")
	}

	if _, err := os.Stat(configPath); err != nil {
		return nil, fmt.Errorf("config file does not exist: %w", err)
	}

	var cfg Config
	if err := cleanenv.ReadConfig(configPath, &cfg); err != nil {
		return nil, fmt.Errorf("cannot read config: %w", err)
	}

	return &cfg, nil
}

// MustLoad is Load for binaries that cannot start without configuration.
func MustLoad() *Config {
	cfg, err := Load()
	if err != nil {
		panic(err)
	}

	return cfg
}
