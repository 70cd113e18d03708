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
	LogLevel  string `env:"LOG_LEVEL, default=info"`
	JWTSecret string `env:"JWT_SECRET"`

	Admin    AdminConfig
	Mongo    MongoConfig
	Redis    RedisConfig
	Webshare WebshareConfig
}

// AdminConfig holds the single administrative login accepted by /admin/login.
type AdminConfig struct {
	Username string `env:"ADMIN_USER, default=admin"`
	Password string `env:"ADMIN_PASS, default=secret"`
}

type MongoConfig struct {
	URI      string `env:"MONGO_URI, default=mongodb://localhost:27017"`
	Database string `env:"MONGO_DB,  default=streamgate"`
}

type RedisConfig struct {
	Addr string `env:"REDIS_ADDR, default=localhost:6379"`
	DB   int    `env:"REDIS_DB,   default=0"`
}

// WebshareConfig points the integration at the external file-search service.
// BaseURL is overridable so tests can aim the client at a local server.
type WebshareConfig struct {
	BaseURL string        `env:"WEBSHARE_BASE_URL, default=https://webshare.cz"`
	Timeout time.Duration `env:"WEBSHARE_TIMEOUT,  default=15s"`
}

// Load reads configuration from environment variables using go-envconfig.
func Load() *Config {
	var cfg Config
	if err := envconfig.Process(context.Background(), &cfg); err != nil {
		panic(fmt.Sprintf("config: failed to load configuration: %v", err))
	}
	return &cfg
}
