package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/caarlos0/env/v11"
)

// Config is the full runtime configuration of the server
type Config struct {
	Server  ServerConfig
	Mongo   MongoConfig
	Redis   RedisConfig
	Auth    AuthConfig
	AI      AIConfig
	Chain   ChainConfig
	GitHub  GitHubConfig
	LogMode string `env:"LOG_MODE" envDefault:"development"`
}

// ServerConfig holds HTTP server and CORS settings
type ServerConfig struct {
	Port           string `env:"PORT" envDefault:"8080"`
	AllowedOrigins string `env:"CORS_ALLOWED_ORIGINS" envDefault:"*"`
	AllowedMethods string `env:"CORS_ALLOWED_METHODS" envDefault:"GET, POST, PUT, DELETE, OPTIONS"`
	AllowedHeaders string `env:"CORS_ALLOWED_HEADERS" envDefault:"Content-Type, Authorization"`
}

// MongoConfig holds the document database settings
type MongoConfig struct {
	URI      string `env:"MONGO_URI" envDefault:"mongodb://localhost:27017"`
	Database string `env:"MONGO_DATABASE" envDefault:"nishtha"`
}

// RedisConfig holds the cache settings
type RedisConfig struct {
	Addr     string `env:"REDIS_URI" envDefault:"localhost:6379"`
	Password string `env:"REDIS_PASSWORD"`
	DB       int    `env:"REDIS_DB" envDefault:"0"`
}

// AuthConfig holds learner token settings
type AuthConfig struct {
	JWTSecret string        `env:"JWT_SECRET" envDefault:"super-secret-key-change-in-production"`
	TokenTTL  time.Duration `env:"JWT_TTL" envDefault:"24h"`
}

// GitHubConfig holds the repository fetcher settings used by project review
type GitHubConfig struct {
	APIBaseURL  string `env:"GITHUB_API_URL" envDefault:"https://api.github.com"`
	RawBaseURL  string `env:"GITHUB_RAW_URL" envDefault:"https://raw.githubusercontent.com"`
	Token       string `json:"-" env:"GITHUB_TOKEN"`
	MaxFiles    int    `env:"GITHUB_MAX_FILES" envDefault:"150"`
	Concurrency int    `env:"GITHUB_FETCH_CONCURRENCY" envDefault:"8"`
}

// Load reads configuration from the environment
func Load() (*Config, error) {
	cfg, err := env.ParseAs[Config]()
	if err != nil {
		return nil, fmt.Errorf("parsing environment: %w", err)
	}
	cfg.Redis.Addr = strings.TrimPrefix(cfg.Redis.Addr, "redis://")
	return &cfg, nil
}
