package config

import (
	"fmt"
	"log"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
)

const (
	StorageMongo  = "mongo"
	StorageMemory = "memory"

	envDevelopment = "development"
	devJWTSecret   = "your-secret-key-change-in-production"
)

type Config struct {
	Port        string   `env:"PORT" envDefault:"3000"`
	Env         string   `env:"ENV" envDefault:"development"`
	LogLevel    string   `env:"LOG_LEVEL" envDefault:"info"`
	LogFormat   string   `env:"LOG_FORMAT" envDefault:"json"`
	StaticDir   string   `env:"STATIC_DIR"`
	CORSOrigins []string `env:"CORS_ALLOWED_ORIGINS" envSeparator:"," envDefault:"*"`

	Storage  Storage
	JWT      JWT `envPrefix:"JWT_"`
	Upstream Upstream
	Redis    Redis `envPrefix:"REDIS_"`

	RateLimitRPS float64 `env:"RATE_LIMIT_RPS" envDefault:"20"`
}

// Storage selects and configures the document store.
type Storage struct {
	Driver        string        `env:"STORAGE_DRIVER" envDefault:"mongo"`
	MongoURI      string        `env:"MONGODB_URI" envDefault:"mongodb://localhost:27017/btl"`
	MongoDatabase string        `env:"MONGODB_DATABASE" envDefault:"btl"`
	Timeout       time.Duration `env:"STORE_TIMEOUT" envDefault:"5s"`
}

type JWT struct {
	Secret string `env:"SECRET"`
}

// Upstream holds the credentials and endpoints of the news and stats providers.
type Upstream struct {
	GuardianAPIKey      string        `env:"GUARDIAN_API_KEY"`
	GuardianBaseURL     string        `env:"GUARDIAN_BASE_URL" envDefault:"https://content.guardianapis.com"`
	FootballDataAPIKey  string        `env:"FOOTBALL_DATA_API_KEY"`
	FootballDataBaseURL string        `env:"FOOTBALL_DATA_BASE_URL" envDefault:"https://api.football-data.org/v4"`
	Timeout             time.Duration `env:"UPSTREAM_TIMEOUT" envDefault:"10s"`
}

// Redis configures the optional upstream response cache. An empty Addr disables it.
type Redis struct {
	Addr     string        `env:"ADDR"`
	Password string        `env:"PASSWORD"`
	DB       int           `env:"DB" envDefault:"0"`
	TTL      time.Duration `env:"TTL" envDefault:"5m"`
}

// Load reads the optional .env file and parses the environment into a Config.
func Load() (*Config, error) {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, assuming environment variables are set.")
	}
	return Parse()
}

// Parse builds a Config from the current environment only.
func Parse() (*Config, error) {
	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}

	if cfg.JWT.Secret == "" {
		if cfg.Env != envDevelopment {
			return nil, fmt.Errorf("JWT_SECRET environment variable not set")
		}
		cfg.JWT.Secret = devJWTSecret
	}

	switch cfg.Storage.Driver {
	case StorageMongo, StorageMemory:
	default:
		return nil, fmt.Errorf("unknown STORAGE_DRIVER %q", cfg.Storage.Driver)
	}

	if cfg.Upstream.Timeout <= 0 {
		return nil, fmt.Errorf("UPSTREAM_TIMEOUT must be positive")
	}

	return cfg, nil
}

func (c *Config) IsDevelopment() bool {
	return c.Env == envDevelopment
}
