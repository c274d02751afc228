// Package config — конфигурация архиватора: YAML + ENV с предсказуемым приоритетом.
package config

import (
	"errors"
	"fmt"
	"net"
	"net/url"
	"os"
	"time"

	"github.com/ilyakaznacheev/cleanenv"
)

// Config — корневая конфигурация архиватора.
// Приоритет источников:
//  1. явный путь, переданный в MustLoad/Load;
//  2. переменная окружения CONFIG_PATH;
//  3. файл ./local.yaml из рабочей директории;
//  4. переменные окружения.
type Config struct {
	Env      string        `yaml:"env" env:"ENV" env-default:"local"`
	GRPC     GRPCConfig    `yaml:"grpc"`
	HTTP     HTTPConfig    `yaml:"http"`
	API      APIConfig     `yaml:"api"`
	DB       DBConfig      `yaml:"db"`
	S3       S3Config      `yaml:"s3"`
	Cache    CacheConfig   `yaml:"cache"`
	Archive  ArchiveConfig `yaml:"archive"`
	Timeouts TimeoutConfig `yaml:"timeouts"`
}

// GRPCConfig — сетевые настройки gRPC-сервера.
type GRPCConfig struct {
	Host string `yaml:"host" env:"GRPC_HOST" env-default:"0.0.0.0"`
	Port string `yaml:"port" env:"GRPC_PORT" env-default:"50060"`
}

// HTTPConfig — HTTP для health и metrics.
type HTTPConfig struct {
	Host string `yaml:"host" env:"HTTP_HOST" env-default:"0.0.0.0"`
	Port string `yaml:"port" env:"HTTP_PORT" env-default:"50090"`
}

// Addr возвращает адрес в формате host:port.
func (g GRPCConfig) Addr() string {
	return net.JoinHostPort(g.Host, g.Port)
}

// Addr возвращает адрес в формате host:port.
func (h HTTPConfig) Addr() string {
	return net.JoinHostPort(h.Host, h.Port)
}

// APIConfig — клиент Reddit API.
type APIConfig struct {
	BaseURL   string        `yaml:"base_url" env:"API_BASE_URL" env-default:"https://oauth.reddit.com"`
	UserAgent string        `yaml:"user_agent" env:"API_USER_AGENT" env-required:"true"`
	Token     string        `yaml:"token" env:"API_TOKEN"`
	Timeout   time.Duration `yaml:"timeout" env:"API_TIMEOUT" env-default:"10s"`
	// Лимит тела ответа в байтах.
	MaxBody int64 `yaml:"max_body" env:"API_MAX_BODY" env-default:"33554432"`
}

// DBConfig — MongoDB с архивом комментариев.
type DBConfig struct {
	URL      string `yaml:"url" env:"DATABASE_URL" env-required:"true"`
	Database string `yaml:"database" env:"DATABASE_NAME" env-default:"jraw"`
}

// S3Config — MinIO с сырыми снимками ответов.
type S3Config struct {
	Endpoint     string `yaml:"endpoint" env:"S3_ENDPOINT" env-required:"true"`
	RootUser     string `yaml:"root_user" env:"S3_ROOT_USER" env-required:"true"`
	RootPassword string `yaml:"root_password" env:"S3_ROOT_PASSWORD" env-required:"true"`
	Bucket       string `yaml:"bucket" env:"S3_BUCKET" env-default:"jraw-snapshots"`
	UseSSL       bool   `yaml:"use_ssl" env:"S3_USE_SSL" env-default:"false"`
}

// CacheConfig — кэш ответов API в Redis. Пустой URL отключает кэш.
type CacheConfig struct {
	RedisURL string        `yaml:"redis_url" env:"REDIS_URL"`
	Prefix   string        `yaml:"prefix" env:"CACHE_PREFIX" env-default:"jraw:api:"`
	TTL      time.Duration `yaml:"ttl" env:"CACHE_TTL" env-default:"2m"`
}

// Enabled сообщает, включён ли кэш.
func (c CacheConfig) Enabled() bool { return c.RedisURL != "" }

// ArchiveConfig — параметры загрузки треда.
type ArchiveConfig struct {
	// Сколько комментариев просить у /comments/{id} за один запрос (API отдаёт не больше 500).
	CommentLimit int `yaml:"comment_limit" env:"ARCHIVE_COMMENT_LIMIT" env-default:"500"`
}

// TimeoutConfig — дедлайны обработки gRPC-запросов.
type TimeoutConfig struct {
	Service time.Duration `yaml:"service" env:"SERVICE_TIMEOUT" env-default:"5s"`
	// Архивирование треда ходит в API и хранилища, ему нужен свой дедлайн.
	Archive time.Duration `yaml:"archive" env:"ARCHIVE_TIMEOUT" env-default:"60s"`
}

// MustLoad — обёртка над Load с panic при ошибке.
func MustLoad(path string) *Config {
	cfg, err := Load(path)
	if err != nil {
		panic(err)
	}

	return cfg
}

// Load загружает конфигурацию по приоритету:
// 1) явный путь; 2) CONFIG_PATH; 3) ./local.yaml; 4) ENV.
// ENV накладывается поверх значений из YAML.
func Load(path string) (*Config, error) {
	const op = "config/Load"

	var cfg Config

	source := path
	if source == "" {
		source = os.Getenv("CONFIG_PATH")
	}

	switch {
	case source != "":
		if _, err := os.Stat(source); err != nil {
			return nil, fmt.Errorf("%s: config file %q stat failed: %w", op, source, err)
		}

		if err := readFile(source, &cfg); err != nil {
			return nil, fmt.Errorf("%s: %w", op, err)
		}
	case fileExists("local.yaml"):
		if err := readFile("local.yaml", &cfg); err != nil {
			return nil, fmt.Errorf("%s: %w", op, err)
		}
	default:
		if err := cleanenv.ReadEnv(&cfg); err != nil {
			return nil, fmt.Errorf("%s: config not found: provide --config, CONFIG_PATH, local.yaml or env vars: %w", op, err)
		}
	}

	if err := cfg.validate(); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return &cfg, nil
}

func readFile(path string, cfg *Config) error {
	if err := cleanenv.ReadConfig(path, cfg); err != nil {
		return fmt.Errorf("failed to read config %q: %w", path, err)
	}

	if err := cleanenv.ReadEnv(cfg); err != nil {
		return fmt.Errorf("failed to overlay env: %w", err)
	}

	return nil
}

func fileExists(path string) bool {
	_, err := os.Stat(path)

	return err == nil
}

// validate — базовая валидация значений.
func (c *Config) validate() error {
	var errs []error

	switch c.Env {
	case "local", "dev", "prod":
	default:
		errs = append(errs, fmt.Errorf("env must be one of local, dev, prod, got %q", c.Env))
	}

	if u, err := url.Parse(c.API.BaseURL); err != nil || u.Scheme == "" || u.Host == "" {
		errs = append(errs, fmt.Errorf("api.base_url must be an absolute URL"))
	}

	if c.API.UserAgent == "" {
		errs = append(errs, errors.New("api.user_agent is required"))
	}

	if c.API.Timeout <= 0 {
		errs = append(errs, errors.New("api.timeout must be > 0"))
	}

	if c.API.MaxBody <= 0 {
		errs = append(errs, errors.New("api.max_body must be > 0"))
	}

	if c.DB.URL == "" {
		errs = append(errs, errors.New("db.url is required"))
	}

	if c.S3.Endpoint == "" || c.S3.RootUser == "" || c.S3.RootPassword == "" {
		errs = append(errs, errors.New("s3.endpoint, s3.root_user and s3.root_password are required"))
	}

	if c.S3.Bucket == "" {
		errs = append(errs, errors.New("s3.bucket is required"))
	}

	if c.Cache.Enabled() && c.Cache.TTL <= 0 {
		errs = append(errs, errors.New("cache.ttl must be > 0 when cache is enabled"))
	}

	if c.Archive.CommentLimit <= 0 || c.Archive.CommentLimit > 500 {
		errs = append(errs, errors.New("archive.comment_limit must be in [1, 500]"))
	}

	if c.Timeouts.Service < 0 || c.Timeouts.Archive < 0 {
		errs = append(errs, errors.New("timeouts must be >= 0"))
	}

	return errors.Join(errs...)
}
