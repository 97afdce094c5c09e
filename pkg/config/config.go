package config

import (
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/kelseyhightower/envconfig"
)

const (
	EnvPrefix = ""

	AppEnvDev  = "development"
	AppEnvProd = "production"
)

type Config struct {
	App           AppConfig
	DB            DBConfig
	Redis         RedisConfig
	IdP           IdPConfig
	AuthRateLimit AuthRateLimitConfig
	FeatureFlags  FeatureFlagsConfig
}

func Load() (*Config, error) {
	var cfg Config
	if err := envconfig.Process(EnvPrefix, &cfg); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}
	if err := cfg.DB.ensureDSN(); err != nil {
		return nil, err
	}
	if err := cfg.IdP.validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

type AppConfig struct {
	Env          string `envconfig:"GIFTWHEEL_APP_ENV" required:"true"`
	Port         string `envconfig:"GIFTWHEEL_APP_PORT" default:"8080"`
	LogLevel     string `envconfig:"GIFTWHEEL_LOG_LEVEL" default:"info"`
	LogWarnStack bool   `envconfig:"GIFTWHEEL_LOG_WARN_STACK" default:"false"`
}

func (a AppConfig) IsDev() bool {
	return strings.EqualFold(a.Env, AppEnvDev)
}

func (a AppConfig) IsProd() bool {
	return strings.EqualFold(a.Env, AppEnvProd)
}

type DBConfig struct {
	DSN    string `envconfig:"GIFTWHEEL_DB_DSN"`
	Driver string `envconfig:"GIFTWHEEL_DB_DRIVER" default:"postgres"`

	Host     string `envconfig:"GIFTWHEEL_DB_HOST"`
	Port     int    `envconfig:"GIFTWHEEL_DB_PORT" default:"5432"`
	User     string `envconfig:"GIFTWHEEL_DB_USER"`
	Password string `envconfig:"GIFTWHEEL_DB_PASSWORD"`
	Name     string `envconfig:"GIFTWHEEL_DB_NAME"`
	SSLMode  string `envconfig:"GIFTWHEEL_DB_SSLMODE" default:"disable"`

	MaxOpenConns    int           `envconfig:"GIFTWHEEL_DB_MAX_OPEN_CONNS" default:"20"`
	MaxIdleConns    int           `envconfig:"GIFTWHEEL_DB_MAX_IDLE_CONNS" default:"10"`
	ConnMaxLifetime time.Duration `envconfig:"GIFTWHEEL_DB_CONN_MAX_LIFETIME" default:"1h"`
	ConnMaxIdleTime time.Duration `envconfig:"GIFTWHEEL_DB_CONN_MAX_IDLE_TIME" default:"10m"`
}

type RedisConfig struct {
	URL          string        `envconfig:"GIFTWHEEL_REDIS_URL"`
	Address      string        `envconfig:"GIFTWHEEL_REDIS_ADDR"`
	Password     string        `envconfig:"GIFTWHEEL_REDIS_PASSWORD"`
	DB           int           `envconfig:"GIFTWHEEL_REDIS_DB" default:"0"`
	PoolSize     int           `envconfig:"GIFTWHEEL_REDIS_POOL_SIZE" default:"10"`
	MinIdleConns int           `envconfig:"GIFTWHEEL_REDIS_MIN_IDLE_CONNS" default:"2"`
	DialTimeout  time.Duration `envconfig:"GIFTWHEEL_REDIS_DIAL_TIMEOUT" default:"5s"`
	ReadTimeout  time.Duration `envconfig:"GIFTWHEEL_REDIS_READ_TIMEOUT" default:"5s"`
	WriteTimeout time.Duration `envconfig:"GIFTWHEEL_REDIS_WRITE_TIMEOUT" default:"5s"`
}

// IdPConfig points at the external OAuth/OIDC provider. The backend never
// issues or verifies tokens itself; it exchanges codes and introspects
// bearer tokens against these endpoints.
type IdPConfig struct {
	TokenURL      string        `envconfig:"GIFTWHEEL_IDP_TOKEN_URL" required:"true"`
	IntrospectURL string        `envconfig:"GIFTWHEEL_IDP_INTROSPECT_URL" required:"true"`
	ClientID      string        `envconfig:"GIFTWHEEL_IDP_CLIENT_ID" required:"true"`
	ClientSecret  string        `envconfig:"GIFTWHEEL_IDP_CLIENT_SECRET" required:"true"`
	RedirectURI   string        `envconfig:"GIFTWHEEL_IDP_REDIRECT_URI"`
	Timeout       time.Duration `envconfig:"GIFTWHEEL_IDP_TIMEOUT" default:"5s"`
}

func (c IdPConfig) validate() error {
	for name, raw := range map[string]string{
		"GIFTWHEEL_IDP_TOKEN_URL":      c.TokenURL,
		"GIFTWHEEL_IDP_INTROSPECT_URL": c.IntrospectURL,
	} {
		if _, err := url.ParseRequestURI(raw); err != nil {
			return fmt.Errorf("%s: %w", name, err)
		}
	}
	return nil
}

type AuthRateLimitConfig struct {
	Window  time.Duration `envconfig:"GIFTWHEEL_AUTH_RATE_LIMIT_WINDOW" default:"1m"`
	IPLimit int           `envconfig:"GIFTWHEEL_AUTH_RATE_LIMIT_IP_LIMIT" default:"20"`
}

type FeatureFlagsConfig struct {
	UseSQLite   bool `envconfig:"GIFTWHEEL_USE_SQLITE" default:"false"`
	AutoMigrate bool `envconfig:"GIFTWHEEL_AUTO_MIGRATE" default:"false"`
}

func (db *DBConfig) ensureDSN() error {
	if db.DSN != "" {
		return nil
	}

	missing := []string{}
	for name, value := range map[string]string{
		"GIFTWHEEL_DB_HOST": db.Host,
		"GIFTWHEEL_DB_USER": db.User,
		"GIFTWHEEL_DB_NAME": db.Name,
	} {
		if value == "" {
			missing = append(missing, name)
		}
	}
	if len(missing) > 0 {
		return fmt.Errorf("either GIFTWHEEL_DB_DSN or %s are required", strings.Join(missing, ", "))
	}

	userInfo := url.User(db.User)
	if db.Password != "" {
		userInfo = url.UserPassword(db.User, db.Password)
	}

	u := &url.URL{
		Scheme: "postgres",
		User:   userInfo,
		Host:   fmt.Sprintf("%s:%d", db.Host, db.Port),
		Path:   db.Name,
	}
	if db.SSLMode != "" {
		q := u.Query()
		q.Set("sslmode", db.SSLMode)
		u.RawQuery = q.Encode()
	}

	db.DSN = u.String()
	return nil
}
