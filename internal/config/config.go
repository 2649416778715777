package config

import (
	"flag"
	"fmt"
	"log"
	"os"
	"time"

	"github.com/ilyakaznacheev/cleanenv"
)

type Config struct {
	Env        string           `yaml:"env" env-default:"development"` // environment
	HTTPServer HTTPServerConfig `yaml:"http_server"`
	Upstream   UpstreamConfig   `yaml:"upstream"`
	Database   DatabaseConfig   `yaml:"database"`
	Redis      RedisConfig      `yaml:"redis"`
	JWT        JWTConfig        `yaml:"jwt"`
	Migrations MigrationsConfig `yaml:"migrations"`
}

// HTTPServerConfig структура http сервера
type HTTPServerConfig struct {
	Address     string        `yaml:"address" env-default:"localhost:8080"`
	Timeout     time.Duration `yaml:"timeout" env-default:"30s"`
	IdleTimeout time.Duration `yaml:"idle_timeout" env-default:"60s"`
}

// UpstreamConfig - API маркетплейса, к которому ходит шлюз.
// Таймаут сервера должен вмещать Budget: все попытки одного вызова с паузами.
type UpstreamConfig struct {
	BaseURL       string        `yaml:"base_url" env:"UPSTREAM_BASE_URL" env-default:"http://localhost:8000"`
	Timeout       time.Duration `yaml:"timeout" env-default:"5s"`
	AuthScheme    string        `yaml:"auth_scheme" env-default:"Token"`
	RetryAttempts int           `yaml:"retry_attempts" env-default:"2"`
	RetryDelay    time.Duration `yaml:"retry_delay" env-default:"1s"`
}

// DatabaseConfig структура по работе с БД
type DatabaseConfig struct {
	Host     string `yaml:"host" env-default:"localhost"`
	Port     int    `yaml:"port" env-default:"5432"`
	User     string `yaml:"user" env-required:"true"`
	Password string `yaml:"-" env:"DB_PASSWORD" env-required:"true"`
	Name     string `yaml:"name" env-required:"true"`
}

// RedisConfig - сессии и кэш объявлений
type RedisConfig struct {
	Address    string        `yaml:"address" env-default:"localhost:6379"`
	Password   string        `yaml:"-" env:"REDIS_PASSWORD"`
	DB         int           `yaml:"db" env-default:"0"`
	ListingTTL time.Duration `yaml:"listing_ttl" env-default:"5m"`
	SessionTTL time.Duration `yaml:"session_ttl" env-default:"24h"`
}

// JWTConfig настройка jwt
type JWTConfig struct {
	Secret   string `yaml:"-" env:"JWT_SECRET" env-required:"true"`
	TokenTTL int    `yaml:"token_ttl" env-default:"60"`
}

type MigrationsConfig struct {
	Path string `yaml:"path" env-default:"./migrations"`
}

// MustLoad - если не загружаем - паникуем
func MustLoad() *Config {
	configPath := fetchConfigPath()
	if configPath == "" {
		log.Fatal("CONFIG_PATH not exists")
	}
	return MustLoadByPath(configPath)
}

func fetchConfigPath() string {
	var path string

	flag.StringVar(&path, "config", "", "path to config file")
	flag.Parse()

	if path == "" {
		path = os.Getenv("CONFIG_PATH")
	}
	return path
}

func MustLoadByPath(configPath string) *Config {
	if _, err := os.Stat(configPath); os.IsNotExist(err) {
		panic("config file not found: " + configPath)
	}

	var cfg Config
	if err := cleanenv.ReadConfig(configPath, &cfg); err != nil {
		log.Fatalf("can't read config file %s: %v", configPath, err)
	}

	if budget := cfg.Upstream.Budget(); cfg.HTTPServer.Timeout < budget {
		panic(fmt.Sprintf("http_server.timeout %s is less than upstream retry budget %s", cfg.HTTPServer.Timeout, budget))
	}

	return &cfg
}

// TTL - срок жизни JWT шлюза.
func (c JWTConfig) TTL() time.Duration {
	return time.Duration(c.TokenTTL) * time.Minute
}

// Budget - худшее время одного вызова upstream: первая попытка и все повторы.
func (c UpstreamConfig) Budget() time.Duration {
	attempts := time.Duration(c.RetryAttempts)
	return (attempts+1)*c.Timeout + attempts*c.RetryDelay
}
