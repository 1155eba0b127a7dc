package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/kelseyhightower/envconfig"
)

const (
	EnvPrefix = "portfolio"

	AppEnvDev  = "development"
	AppEnvProd = "production"

	EnvAppEnv     = "PORTFOLIO_APP_ENV"
	EnvAPIBaseURL = "PORTFOLIO_API_BASE_URL"

	CacheBackendMemory = "memory"
	CacheBackendRedis  = "redis"
)

type Config struct {
	App      AppConfig
	API      APIConfig
	Tokens   TokensConfig
	Cache    CacheConfig
	Redis    RedisConfig
	JWT      JWTConfig
	Password PasswordConfig
	Stub     StubConfig
}

func Load() (*Config, error) {
	var cfg Config
	if err := envconfig.Process(EnvPrefix, &cfg); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}
	if err := cfg.Cache.validate(); err != nil {
		return nil, err
	}
	if cfg.Cache.Backend == CacheBackendRedis && cfg.Redis.URL == "" && cfg.Redis.Address == "" {
		return nil, fmt.Errorf("redis cache backend requires PORTFOLIO_REDIS_URL or PORTFOLIO_REDIS_ADDR")
	}
	return &cfg, nil
}

type AppConfig struct {
	Env          string `envconfig:"PORTFOLIO_APP_ENV" default:"development"`
	LogLevel     string `envconfig:"PORTFOLIO_LOG_LEVEL" default:"info"`
	LogWarnStack bool   `envconfig:"PORTFOLIO_LOG_WARN_STACK" default:"false"`
}

func (a AppConfig) IsDev() bool {
	return strings.EqualFold(a.Env, AppEnvDev)
}

func (a AppConfig) IsProd() bool {
	return strings.EqualFold(a.Env, AppEnvProd)
}

// APIConfig points the client at the remote portfolio API. A zero timeout
// leaves the transport's default behavior in place.
type APIConfig struct {
	BaseURL string        `envconfig:"PORTFOLIO_API_BASE_URL"`
	Timeout time.Duration `envconfig:"PORTFOLIO_API_TIMEOUT" default:"0"`
}

type TokensConfig struct {
	Path string `envconfig:"PORTFOLIO_TOKENS_PATH"`
}

// CacheConfig holds the staleness window per read family. Lists and search
// results churn quickly; detail records and image metadata survive longer;
// the session entry is near-immediate so auth state stays honest.
type CacheConfig struct {
	Backend    string        `envconfig:"PORTFOLIO_CACHE_BACKEND" default:"memory"`
	ListTTL    time.Duration `envconfig:"PORTFOLIO_CACHE_LIST_TTL" default:"30s"`
	DetailTTL  time.Duration `envconfig:"PORTFOLIO_CACHE_DETAIL_TTL" default:"5m"`
	ImagesTTL  time.Duration `envconfig:"PORTFOLIO_CACHE_IMAGES_TTL" default:"5m"`
	SearchTTL  time.Duration `envconfig:"PORTFOLIO_CACHE_SEARCH_TTL" default:"30s"`
	StatsTTL   time.Duration `envconfig:"PORTFOLIO_CACHE_STATS_TTL" default:"1m"`
	SessionTTL time.Duration `envconfig:"PORTFOLIO_CACHE_SESSION_TTL" default:"5s"`
}

func (c CacheConfig) validate() error {
	switch c.Backend {
	case CacheBackendMemory, CacheBackendRedis:
		return nil
	default:
		return fmt.Errorf("cache backend must be %q or %q", CacheBackendMemory, CacheBackendRedis)
	}
}

type RedisConfig struct {
	URL          string        `envconfig:"PORTFOLIO_REDIS_URL"`
	Address      string        `envconfig:"PORTFOLIO_REDIS_ADDR"`
	Password     string        `envconfig:"PORTFOLIO_REDIS_PASSWORD"`
	DB           int           `envconfig:"PORTFOLIO_REDIS_DB" default:"0"`
	PoolSize     int           `envconfig:"PORTFOLIO_REDIS_POOL_SIZE" default:"10"`
	MinIdleConns int           `envconfig:"PORTFOLIO_REDIS_MIN_IDLE_CONNS" default:"2"`
	DialTimeout  time.Duration `envconfig:"PORTFOLIO_REDIS_DIAL_TIMEOUT" default:"5s"`
	ReadTimeout  time.Duration `envconfig:"PORTFOLIO_REDIS_READ_TIMEOUT" default:"5s"`
	WriteTimeout time.Duration `envconfig:"PORTFOLIO_REDIS_WRITE_TIMEOUT" default:"5s"`
}

// JWTConfig is consumed by the stub API's token minting.
type JWTConfig struct {
	Secret                 string `envconfig:"PORTFOLIO_JWT_SECRET" default:"stub-secret"`
	Issuer                 string `envconfig:"PORTFOLIO_JWT_ISSUER" default:"portfolio-stub"`
	ExpirationMinutes      int    `envconfig:"PORTFOLIO_JWT_EXPIRATION_MINUTES" default:"15"`
	RefreshTokenTTLMinutes int    `envconfig:"PORTFOLIO_REFRESH_TOKEN_TTL_MINUTES" default:"43200"`
}

// RefreshTokenTTL returns the refresh token TTL configured in minutes.
func (j JWTConfig) RefreshTokenTTL() time.Duration {
	if j.RefreshTokenTTLMinutes <= 0 {
		return 0
	}
	return time.Duration(j.RefreshTokenTTLMinutes) * time.Minute
}

type PasswordConfig struct {
	ArgonMemoryKB    int `envconfig:"PORTFOLIO_ARGON_MEMORY_KB" default:"65536"`
	ArgonTime        int `envconfig:"PORTFOLIO_ARGON_TIME" default:"3"`
	ArgonParallelism int `envconfig:"PORTFOLIO_ARGON_PARALLELISM" default:"2"`
	ArgonSaltLen     int `envconfig:"PORTFOLIO_ARGON_SALT_LEN" default:"16"`
	ArgonKeyLen      int `envconfig:"PORTFOLIO_ARGON_KEY_LEN" default:"32"`
}

// StubConfig drives the local development API.
type StubConfig struct {
	Port       string `envconfig:"PORTFOLIO_STUB_PORT" default:"8081"`
	DBPath     string `envconfig:"PORTFOLIO_STUB_DB_PATH" default:"file::memory:?cache=shared"`
	AssetBase  string `envconfig:"PORTFOLIO_STUB_ASSET_BASE" default:"https://assets.portfolio.local"`
	SeedAdmin  string `envconfig:"PORTFOLIO_STUB_SEED_ADMIN_EMAIL"`
	SeedSecret string `envconfig:"PORTFOLIO_STUB_SEED_ADMIN_PASSWORD"`
}
