package config

import (
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/kelseyhightower/envconfig"
)

const (
	EnvPrefix = "SLOTWISE"

	AppEnvDev  = "dev"
	AppEnvProd = "prod"

	EnvDBDSN  = "SLOTWISE_DB_DSN"
	EnvDBHost = "SLOTWISE_DB_HOST"
	EnvDBUser = "SLOTWISE_DB_USER"
	EnvDBName = "SLOTWISE_DB_NAME"
)

var legacyDBEnvVars = []string{EnvDBHost, EnvDBUser, EnvDBName}

type Config struct {
	App          AppConfig
	DB           DBConfig
	Redis        RedisConfig
	JWT          JWTConfig
	FeatureFlags FeatureFlagsConfig
	Idempotency  IdempotencyConfig
}

func Load() (*Config, error) {
	var cfg Config
	if err := envconfig.Process(EnvPrefix, &cfg); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}
	if err := cfg.DB.ensureDSN(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

type AppConfig struct {
	Env          string `envconfig:"SLOTWISE_APP_ENV" required:"true"`
	Port         string `envconfig:"SLOTWISE_APP_PORT" required:"true"`
	LogLevel     string `envconfig:"SLOTWISE_LOG_LEVEL" default:"info"`
	LogWarnStack bool   `envconfig:"SLOTWISE_LOG_WARN_STACK" default:"false"`
}

func (a AppConfig) IsDev() bool {
	return strings.EqualFold(a.Env, AppEnvDev)
}

func (a AppConfig) IsProd() bool {
	return strings.EqualFold(a.Env, AppEnvProd)
}

type DBConfig struct {
	DSN    string `envconfig:"SLOTWISE_DB_DSN"`
	Driver string `envconfig:"SLOTWISE_DB_DRIVER" default:"postgres"`

	LegacyHost     string `envconfig:"SLOTWISE_DB_HOST"`
	LegacyPort     int    `envconfig:"SLOTWISE_DB_PORT" default:"5432"`
	LegacyUser     string `envconfig:"SLOTWISE_DB_USER"`
	LegacyPassword string `envconfig:"SLOTWISE_DB_PASSWORD"`
	LegacyName     string `envconfig:"SLOTWISE_DB_NAME"`
	LegacySSLMode  string `envconfig:"SLOTWISE_DB_SSLMODE" default:"disable"`

	MaxOpenConns    int           `envconfig:"SLOTWISE_DB_MAX_OPEN_CONNS" default:"20"`
	MaxIdleConns    int           `envconfig:"SLOTWISE_DB_MAX_IDLE_CONNS" default:"10"`
	ConnMaxLifetime time.Duration `envconfig:"SLOTWISE_DB_CONN_MAX_LIFETIME" default:"1h"`
	ConnMaxIdleTime time.Duration `envconfig:"SLOTWISE_DB_CONN_MAX_IDLE_TIME" default:"10m"`
}

type RedisConfig struct {
	URL          string        `envconfig:"SLOTWISE_REDIS_URL" required:"true"`
	Address      string        `envconfig:"SLOTWISE_REDIS_ADDR"`
	Password     string        `envconfig:"SLOTWISE_REDIS_PASSWORD"`
	DB           int           `envconfig:"SLOTWISE_REDIS_DB" default:"0"`
	PoolSize     int           `envconfig:"SLOTWISE_REDIS_POOL_SIZE" default:"10"`
	MinIdleConns int           `envconfig:"SLOTWISE_REDIS_MIN_IDLE_CONNS" default:"2"`
	DialTimeout  time.Duration `envconfig:"SLOTWISE_REDIS_DIAL_TIMEOUT" default:"5s"`
	ReadTimeout  time.Duration `envconfig:"SLOTWISE_REDIS_READ_TIMEOUT" default:"5s"`
	WriteTimeout time.Duration `envconfig:"SLOTWISE_REDIS_WRITE_TIMEOUT" default:"5s"`
}

type JWTConfig struct {
	Secret            string `envconfig:"SLOTWISE_JWT_SECRET" required:"true"`
	Issuer            string `envconfig:"SLOTWISE_JWT_ISSUER" required:"true"`
	ExpirationMinutes int    `envconfig:"SLOTWISE_JWT_EXPIRATION_MINUTES" required:"true"`
}

type FeatureFlagsConfig struct {
	AutoMigrate bool `envconfig:"SLOTWISE_AUTO_MIGRATE" default:"false"`
}

// IdempotencyConfig tunes how long replayed mutation responses are retained.
type IdempotencyConfig struct {
	BookingTTL     time.Duration `envconfig:"SLOTWISE_IDEMPOTENCY_BOOKING_TTL" default:"168h"`
	DeclarationTTL time.Duration `envconfig:"SLOTWISE_IDEMPOTENCY_DECLARATION_TTL" default:"24h"`
}

func (db *DBConfig) ensureDSN() error {
	if db.DSN != "" {
		return nil
	}

	missing := []string{}
	legacyValues := map[string]string{
		EnvDBHost: db.LegacyHost,
		EnvDBUser: db.LegacyUser,
		EnvDBName: db.LegacyName,
	}
	for _, env := range legacyDBEnvVars {
		if legacyValues[env] == "" {
			missing = append(missing, env)
		}
	}

	if len(missing) > 0 {
		return fmt.Errorf("either %s or %s are required", EnvDBDSN, strings.Join(missing, ", "))
	}

	userInfo := url.User(db.LegacyUser)
	if db.LegacyPassword != "" {
		userInfo = url.UserPassword(db.LegacyUser, db.LegacyPassword)
	}

	u := &url.URL{
		Scheme: "postgres",
		User:   userInfo,
		Host:   fmt.Sprintf("%s:%d", db.LegacyHost, db.LegacyPort),
		Path:   db.LegacyName,
	}

	if db.LegacySSLMode != "" {
		q := u.Query()
		q.Set("sslmode", db.LegacySSLMode)
		u.RawQuery = q.Encode()
	}

	db.DSN = u.String()
	return nil
}
