// config описывает конфигурацию forum-service и её загрузку из YAML/ENV
// с предсказуемым приоритетом источников.
package config

import (
	"fmt"
	"net"
	"os"
	"time"

	"github.com/ilyakaznacheev/cleanenv"
)

// Config - корневая конфигурация сервиса.
// Приоритет источников:
//  1. явный путь, переданный в MustLoad/Load (флаг --config);
//  2. переменная окружения CONFIG_PATH;
//  3. файл ./local.yaml из рабочей директории;
//  4. переменные окружения.
//
// Значения из файла всегда перекрываются переменными окружения.
type Config struct {
	Env        string           `yaml:"env" env:"ENV" env-default:"local"`
	HTTP       HTTPConfig       `yaml:"http"`
	GRPC       GRPCConfig       `yaml:"grpc"`
	Postgres   PostgresConfig   `yaml:"postgres"`
	Mongo      MongoConfig      `yaml:"mongo"`
	Redis      RedisConfig      `yaml:"redis"`
	S3         S3Config         `yaml:"s3"`
	Avatar     AvatarConfig     `yaml:"avatar"`
	Auth       AuthConfig       `yaml:"auth"`
	Kafka      KafkaConfig      `yaml:"kafka"`
	Limits     LimitsConfig     `yaml:"limits"`
	CORS       CORSConfig       `yaml:"cors"`
	RateLimit  RateLimitConfig  `yaml:"rate_limit"`
	Moderation ModerationConfig `yaml:"moderation"`
	Sessions   SessionsConfig   `yaml:"sessions"`
	Timeouts   TimeoutConfig    `yaml:"timeouts"`
}

// HTTPConfig - публичный HTTP API и служебные эндпойнты (/livez, /healthz, /metrics).
type HTTPConfig struct {
	Host     string `yaml:"host" env:"HTTP_HOST" env-default:"0.0.0.0"`
	Port     string `yaml:"port" env:"HTTP_PORT" env-default:"8080"`
	BasePath string `yaml:"base_path" env:"HTTP_BASE_PATH" env-default:"/api"`
}

// GRPCConfig - служебный gRPC-порт (grpc.health.v1).
type GRPCConfig struct {
	Host string `yaml:"host" env:"GRPC_HOST" env-default:"0.0.0.0"`
	Port string `yaml:"port" env:"GRPC_PORT" env-default:"50090"`
	// Период опроса зависимостей для health-статусов.
	HealthPeriod time.Duration `yaml:"health_period" env:"GRPC_HEALTH_PERIOD" env-default:"15s"`
}

// Addr возвращает адрес в формате host:port.
func (h HTTPConfig) Addr() string {
	return net.JoinHostPort(h.Host, h.Port)
}

// Addr возвращает адрес в формате host:port.
func (g GRPCConfig) Addr() string {
	return net.JoinHostPort(g.Host, g.Port)
}

// PostgresConfig - пользователи, токены, профили, категории, темы и голоса.
type PostgresConfig struct {
	URL string `yaml:"url" env:"POSTGRES_URL" env-required:"true"`
	// Каталог goose-миграций; пусто - миграции при старте не применяются.
	MigrationsDir string `yaml:"migrations_dir" env:"POSTGRES_MIGRATIONS_DIR" env-default:"migrations"`
}

// MongoConfig - хранилище комментариев.
type MongoConfig struct {
	URL string `yaml:"url" env:"MONGO_URL" env-required:"true"`
}

// RedisConfig - кэш refresh-токенов и агрегатов голосов. Пустой URL отключает кэш.
type RedisConfig struct {
	URL          string        `yaml:"url" env:"REDIS_URL"`
	Prefix       string        `yaml:"prefix" env:"REDIS_PREFIX" env-default:"forum:"`
	VoteCountTTL time.Duration `yaml:"vote_count_ttl" env:"REDIS_VOTE_COUNT_TTL" env-default:"5m"`
}

// S3Config - MinIO/S3 для аватаров. Пустой Endpoint отключает загрузку аватаров.
type S3Config struct {
	Endpoint      string        `yaml:"endpoint" env:"S3_ENDPOINT"`
	RootUser      string        `yaml:"root_user" env:"S3_ROOT_USER"`
	RootPassword  string        `yaml:"root_password" env:"S3_ROOT_PASSWORD"`
	Bucket        string        `yaml:"bucket" env:"S3_BUCKET" env-default:"avatars"`
	PresignTTL    time.Duration `yaml:"presign_ttl" env:"S3_PRESIGN_TTL" env-default:"10m"`
	PublicBaseURL string        `yaml:"public_base_url" env:"S3_PUBLIC_BASE_URL"`
}

// AvatarConfig - ограничения на загружаемые аватары.
type AvatarConfig struct {
	MaxSizeBytes        int64    `yaml:"max_size_bytes" env:"AVATAR_MAX_SIZE_BYTES" env-default:"5242880"`
	AllowedContentTypes []string `yaml:"allowed_content_types" env:"AVATAR_ALLOWED_CONTENT_TYPES" env-separator:"," env-default:"image/jpeg,image/png,image/webp"`
}

// AuthConfig - выпуск и проверка токенов.
type AuthConfig struct {
	JWTSecret       string        `yaml:"jwt_secret" env:"JWT_SECRET" env-required:"true"`
	AccessTokenTTL  time.Duration `yaml:"access_token_ttl" env:"ACCESS_TOKEN_TTL" env-default:"15m"`
	RefreshTokenTTL time.Duration `yaml:"refresh_token_ttl" env:"REFRESH_TOKEN_TTL" env-default:"720h"`
	Issuer          string        `yaml:"issuer" env:"JWT_ISSUER" env-default:"forum-service"`
	Audience        []string      `yaml:"audience" env:"JWT_AUDIENCE" env-separator:"," env-default:"forum-web"`
	// Период фоновой очистки просроченных refresh-токенов; 0 - выключено.
	JanitorPeriod time.Duration `yaml:"janitor_period" env:"REFRESH_JANITOR_PERIOD" env-default:"30m"`
}

// KafkaConfig - публикация доменных событий (уведомления). Пустой список брокеров отключает публикацию.
type KafkaConfig struct {
	Brokers      []string      `yaml:"brokers" env:"KAFKA_BROKERS" env-separator:","`
	Topic        string        `yaml:"topic" env:"KAFKA_TOPIC" env-default:"forum.events"`
	WriteTimeout time.Duration `yaml:"write_timeout" env:"KAFKA_WRITE_TIMEOUT" env-default:"5s"`
}

// LimitsConfig - лимиты выдачи и валидации контента.
type LimitsConfig struct {
	// Пагинация: limit=0 -> DefaultPage; верхняя граница - MaxPage.
	DefaultPage int `yaml:"default_page" env:"LIMIT_DEFAULT_PAGE" env-default:"10"`
	MaxPage     int `yaml:"max_page" env:"LIMIT_MAX_PAGE" env-default:"100"`
	// Максимальная глубина вложенности ответов (корень = 0).
	MaxDepth      int `yaml:"max_depth" env:"LIMIT_MAX_DEPTH" env-default:"8"`
	MaxTags       int `yaml:"max_tags" env:"LIMIT_MAX_TAGS" env-default:"5"`
	TitleMin      int `yaml:"title_min" env:"LIMIT_TITLE_MIN" env-default:"3"`
	TitleMax      int `yaml:"title_max" env:"LIMIT_TITLE_MAX" env-default:"200"`
	ThreadMaxBody int `yaml:"thread_max_body" env:"LIMIT_THREAD_MAX_BODY" env-default:"20000"`
	CommentMax    int `yaml:"comment_max" env:"LIMIT_COMMENT_MAX" env-default:"5000"`
}

// CORSConfig - заголовки CORS для браузерного фронтенда.
type CORSConfig struct {
	AllowedOrigins []string      `yaml:"allowed_origins" env:"CORS_ALLOWED_ORIGINS" env-separator:"," env-default:"*"`
	MaxAge         time.Duration `yaml:"max_age" env:"CORS_MAX_AGE" env-default:"10m"`
}

// RateLimitConfig - лимит запросов на IP.
type RateLimitConfig struct {
	PerMinute int           `yaml:"per_minute" env:"RATE_LIMIT_PER_MINUTE" env-default:"300"`
	Cleanup   time.Duration `yaml:"cleanup" env:"RATE_LIMIT_CLEANUP" env-default:"5m"`
}

// ModerationConfig - список запрещённых слов (регистр не учитывается).
type ModerationConfig struct {
	BannedWords []string `yaml:"banned_words" env:"MODERATION_BANNED_WORDS" env-separator:","`
}

// SessionsConfig - SSE-стрим событий сессии.
type SessionsConfig struct {
	Buffer    int           `yaml:"buffer" env:"SESSIONS_BUFFER" env-default:"16"`
	Heartbeat time.Duration `yaml:"heartbeat" env:"SESSIONS_HEARTBEAT" env-default:"25s"`
}

// TimeoutConfig - общий дедлайн обработки запроса и время на graceful shutdown.
type TimeoutConfig struct {
	Service  time.Duration `yaml:"service" env:"SERVICE_TIMEOUT" env-default:"5s"`
	Shutdown time.Duration `yaml:"shutdown" env:"SHUTDOWN_TIMEOUT" env-default:"10s"`
}

// MustLoad - обёртка над Load с panic при ошибке.
func MustLoad(path string) *Config {
	cfg, err := Load(path)
	if err != nil {
		panic(err)
	}

	return cfg
}

// Load загружает конфигурацию по приоритету:
// 1) явный путь; 2) CONFIG_PATH; 3) ./local.yaml; 4) ENV.
func Load(path string) (*Config, error) {
	var cfg Config

	// чтение файла + overlay ENV.
	readFile := func(p string) error {
		if _, err := os.Stat(p); err != nil {
			return fmt.Errorf("config file %q stat failed: %w", p, err)
		}

		if err := cleanenv.ReadConfig(p, &cfg); err != nil {
			return fmt.Errorf("failed to read config %q: %w", p, err)
		}

		if err := cleanenv.ReadEnv(&cfg); err != nil {
			return fmt.Errorf("failed to overlay env: %w", err)
		}

		return nil
	}

	switch {
	case path != "":
		if err := readFile(path); err != nil {
			return nil, err
		}
	case os.Getenv("CONFIG_PATH") != "":
		if err := readFile(os.Getenv("CONFIG_PATH")); err != nil {
			return nil, err
		}
	case fileExists("local.yaml"):
		if err := readFile("local.yaml"); err != nil {
			return nil, err
		}
	default:
		if err := cleanenv.ReadEnv(&cfg); err != nil {
			return nil, fmt.Errorf("config not found: provide --config, CONFIG_PATH, local.yaml or env vars: %w", err)
		}
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}

	return &cfg, nil
}

func fileExists(p string) bool {
	_, err := os.Stat(p)
	return err == nil
}

// validate - базовая валидация значений.
func (c *Config) validate() error {
	if c.Postgres.URL == "" {
		return fmt.Errorf("postgres.url is required")
	}

	if c.Mongo.URL == "" {
		return fmt.Errorf("mongo.url is required")
	}

	if c.Auth.JWTSecret == "" {
		return fmt.Errorf("auth.jwt_secret is required")
	}

	if c.Auth.AccessTokenTTL <= 0 {
		return fmt.Errorf("auth.access_token_ttl must be > 0")
	}

	if c.Auth.RefreshTokenTTL <= c.Auth.AccessTokenTTL {
		return fmt.Errorf("auth.refresh_token_ttl must be > auth.access_token_ttl")
	}

	if c.Limits.DefaultPage <= 0 {
		return fmt.Errorf("limits.default_page must be > 0")
	}

	if c.Limits.MaxPage <= 0 {
		return fmt.Errorf("limits.max_page must be > 0")
	}

	if c.Limits.DefaultPage > c.Limits.MaxPage {
		return fmt.Errorf("limits.default_page must be <= limits.max_page")
	}

	if c.Limits.MaxDepth <= 0 || c.Limits.MaxDepth > 32 {
		return fmt.Errorf("limits.max_depth must be in [1, 32]")
	}

	if c.Limits.TitleMin <= 0 || c.Limits.TitleMin > c.Limits.TitleMax {
		return fmt.Errorf("limits.title_min must be in [1, limits.title_max]")
	}

	if c.S3.Endpoint != "" && (c.S3.RootUser == "" || c.S3.RootPassword == "" || c.S3.Bucket == "") {
		return fmt.Errorf("s3.root_user, s3.root_password and s3.bucket are required when s3.endpoint is set")
	}

	if c.Avatar.MaxSizeBytes <= 0 {
		return fmt.Errorf("avatar.max_size_bytes must be > 0")
	}

	if len(c.Kafka.Brokers) > 0 && c.Kafka.Topic == "" {
		return fmt.Errorf("kafka.topic is required when kafka.brokers is set")
	}

	return nil
}
