package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
)

const (
	// EnvProduction is the APP_ENV value that selects the production profile.
	EnvProduction = "production"

	// DevJWTSecret is the development default; Load rejects it in production.
	DevJWTSecret = "dev-secret"

	developmentTokenLifetime = 24 * time.Hour
	productionTokenLifetime  = 7 * 24 * time.Hour
)

// Fallback identity modes.
const (
	FallbackOff         = "off"
	FallbackStoreOutage = "store-outage"
	FallbackLegacy      = "legacy"
)

// Database drivers.
const (
	DriverPostgres = "postgres"
	DriverSQLite   = "sqlite"
)

// Config aggregates runtime configuration for the service.
type Config struct {
	App      AppConfig      `envconfig:"APP"`
	DB       DBConfig       `envconfig:"DB"`
	Postgres PostgresConfig `envconfig:"POSTGRES"`
	SQLite   SQLiteConfig   `envconfig:"SQLITE"`
	Redis    RedisConfig    `envconfig:"REDIS"`
	Logger   LoggerConfig   `envconfig:"LOG"`
	Auth     AuthConfig     `envconfig:"AUTH"`
	Session  SessionConfig  `envconfig:"SESSION"`
	Media    MediaConfig    `envconfig:"MEDIA"`
	CORS     CORSConfig     `envconfig:"CORS"`
	Activity ActivityConfig `envconfig:"ACTIVITY"`
}

// AppConfig controls server level behavior.
type AppConfig struct {
	Name                  string `envconfig:"NAME" default:"portfolio-cms"`
	Env                   string `envconfig:"ENV" default:"development"`
	Host                  string `envconfig:"HOST" default:"0.0.0.0"`
	Port                  string `envconfig:"PORT" default:"8080"`
	Version               string `envconfig:"VERSION" default:"dev"`
	RequestTimeoutSeconds int    `envconfig:"REQUEST_TIMEOUT_SECONDS" default:"30"`
}

// DBConfig selects the storage backend.
type DBConfig struct {
	Driver string `envconfig:"DRIVER" default:"postgres"`
}

// PostgresConfig holds DB connection values.
type PostgresConfig struct {
	DSN            string `envconfig:"DSN"`
	MaxConns       int32  `envconfig:"MAX_CONNS" default:"10"`
	MinConns       int32  `envconfig:"MIN_CONNS" default:"2"`
	RunMigrations  bool   `envconfig:"RUN_MIGRATIONS" default:"true"`
	MigrationsDir  string `envconfig:"MIGRATIONS_DIR" default:"migrations"`
	ConnMaxIdleSec int32  `envconfig:"CONN_MAX_IDLE_SECONDS" default:"30"`
	ConnMaxLifeSec int32  `envconfig:"CONN_MAX_LIFE_SECONDS" default:"300"`
}

// SQLiteConfig configures the embedded driver used for local demos.
type SQLiteConfig struct {
	DSN string `envconfig:"DSN" default:"file:portfolio.db?cache=shared"`
}

// RedisConfig holds Redis connection values.
type RedisConfig struct {
	Addr     string `envconfig:"ADDR" default:"127.0.0.1:6379"`
	Password string `envconfig:"PASSWORD"`
	DB       int    `envconfig:"DB" default:"0"`
}

// LoggerConfig configures logging behavior.
type LoggerConfig struct {
	Level string `envconfig:"LEVEL" default:"info"`
}

// AuthConfig defines authentication parameters.
type AuthConfig struct {
	JWTSecret         string        `envconfig:"JWT_SECRET" default:"dev-secret"`
	TokenTTL          time.Duration `envconfig:"TOKEN_TTL"`
	RefreshThreshold  float64       `envconfig:"REFRESH_THRESHOLD" default:"0.2"`
	CookieName        string        `envconfig:"COOKIE_NAME" default:"token"`
	QueryParam        string        `envconfig:"QUERY_PARAM" default:"token"`
	RefreshHeader     string        `envconfig:"REFRESH_HEADER" default:"X-Auth-Token"`
	FallbackMode      string        `envconfig:"FALLBACK_MODE" default:"store-outage"`
	FallbackAdminID   int64         `envconfig:"FALLBACK_ADMIN_ID" default:"1"`
	BcryptCost        int           `envconfig:"BCRYPT_COST" default:"12"`
	AllowRegistration bool          `envconfig:"ALLOW_REGISTRATION" default:"false"`
	LoginRatePerMin   int           `envconfig:"LOGIN_RATE_PER_MINUTE" default:"10"`
	AdminUsername     string        `envconfig:"ADMIN_USERNAME" default:"admin"`
	AdminPassword     string        `envconfig:"ADMIN_PASSWORD"`
}

// SessionConfig controls the server-side session record and its cookie.
type SessionConfig struct {
	CookieName      string        `envconfig:"COOKIE_NAME" default:"sid"`
	CleanupSchedule string        `envconfig:"CLEANUP_SCHEDULE" default:"@every 1h"`
	RevocationKey   string        `envconfig:"REVOCATION_PREFIX" default:"auth:revoked:"`
	RevocationGrace time.Duration `envconfig:"REVOCATION_GRACE" default:"1m"`
}

// MediaConfig controls uploads.
type MediaConfig struct {
	Dir       string `envconfig:"DIR" default:"uploads"`
	URLPrefix string `envconfig:"URL_PREFIX" default:"/uploads"`
	MaxBytes  int64  `envconfig:"MAX_BYTES" default:"10485760"`
}

// CORSConfig lists browser origins allowed to call the API with credentials.
type CORSConfig struct {
	Origins string `envconfig:"ORIGINS" default:"http://localhost:3000"`
}

// ActivityConfig controls the activity log retention job.
type ActivityConfig struct {
	Retention     time.Duration `envconfig:"RETENTION" default:"2160h"`
	PruneSchedule string        `envconfig:"PRUNE_SCHEDULE" default:"@daily"`
}

// DeploymentProfile carries the lifetime/security tradeoffs that differ
// between development and production.
type DeploymentProfile struct {
	Name             string
	TokenLifetime    time.Duration
	CookieSecure     bool
	RefreshThreshold float64
}

// Load reads configuration from the environment (and an optional .env file),
// applying defaults where possible.
func Load() (*Config, error) {
	_ = godotenv.Load()

	var cfg Config
	if err := envconfig.Process("", &cfg); err != nil {
		return nil, fmt.Errorf("process env: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate checks cross-field constraints.
func (c *Config) Validate() error {
	if c.App.IsProduction() && (c.Auth.JWTSecret == "" || c.Auth.JWTSecret == DevJWTSecret) {
		return errors.New("AUTH_JWT_SECRET must be set in production")
	}
	if c.Auth.JWTSecret == "" {
		return errors.New("AUTH_JWT_SECRET must not be empty")
	}
	switch c.Auth.FallbackMode {
	case FallbackOff, FallbackStoreOutage, FallbackLegacy:
	default:
		return fmt.Errorf("invalid AUTH_FALLBACK_MODE %q", c.Auth.FallbackMode)
	}
	if c.Auth.RefreshThreshold < 0 || c.Auth.RefreshThreshold >= 1 {
		return fmt.Errorf("AUTH_REFRESH_THRESHOLD must be in [0,1), got %v", c.Auth.RefreshThreshold)
	}
	switch c.DB.Driver {
	case DriverPostgres, DriverSQLite:
	default:
		return fmt.Errorf("invalid DB_DRIVER %q", c.DB.Driver)
	}
	return nil
}

// Profile builds the deployment profile for the configured environment.
func (c *Config) Profile() DeploymentProfile {
	profile := DeploymentProfile{
		Name:             c.App.Env,
		TokenLifetime:    developmentTokenLifetime,
		RefreshThreshold: c.Auth.RefreshThreshold,
	}
	if c.App.IsProduction() {
		profile.TokenLifetime = productionTokenLifetime
		profile.CookieSecure = true
	}
	if c.Auth.TokenTTL > 0 {
		profile.TokenLifetime = c.Auth.TokenTTL
	}
	return profile
}

// IsProduction reports whether the app runs with the production profile.
func (a AppConfig) IsProduction() bool {
	return strings.EqualFold(a.Env, EnvProduction)
}

// Addr returns the HTTP bind address.
func (a AppConfig) Addr() string {
	return fmt.Sprintf("%s:%s", a.Host, a.Port)
}

// RequestTimeout returns the configured request timeout duration.
func (a AppConfig) RequestTimeout() time.Duration {
	if a.RequestTimeoutSeconds <= 0 {
		return 0
	}
	return time.Duration(a.RequestTimeoutSeconds) * time.Second
}

// AllowedOrigins splits the comma separated origin list.
func (c CORSConfig) AllowedOrigins() []string {
	var origins []string
	for _, part := range strings.Split(c.Origins, ",") {
		if o := strings.TrimRight(strings.TrimSpace(part), "/"); o != "" {
			origins = append(origins, o)
		}
	}
	return origins
}
