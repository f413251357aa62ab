package config

import (
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/kelseyhightower/envconfig"
)

const (
	EnvPrefix = "AURY"

	AppEnvDev  = "dev"
	AppEnvProd = "prod"

	EnvAppEnv                 = "AURY_APP_ENV"
	EnvPort                   = "AURY_APP_PORT"
	EnvDBDSN                  = "AURY_DB_DSN"
	EnvDBHost                 = "AURY_DB_HOST"
	EnvDBUser                 = "AURY_DB_USER"
	EnvDBName                 = "AURY_DB_NAME"
	EnvRedisURL               = "AURY_REDIS_URL"
	EnvJWTSecret              = "AURY_JWT_SECRET"
	EnvJWTIssuer              = "AURY_JWT_ISSUER"
	EnvJWTExpMins             = "AURY_JWT_EXPIRATION_MINUTES"
	EnvRefreshTokenTTLMinutes = "AURY_REFRESH_TOKEN_TTL_MINUTES"
)

var legacyDBEnvVars = []string{EnvDBHost, EnvDBUser, EnvDBName}

type Config struct {
	App           AppConfig
	Service       ServiceConfig
	DB            DBConfig
	Redis         RedisConfig
	JWT           JWTConfig
	Password      PasswordConfig
	AuthRateLimit AuthRateLimitConfig
	FeatureFlags  FeatureFlagsConfig
	CORS          CORSConfig
	Cart          CartConfig
	Chat          ChatConfig
	Cron          CronConfig
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
	Env          string `envconfig:"AURY_APP_ENV" required:"true"`
	Port         string `envconfig:"AURY_APP_PORT" required:"true"`
	LogLevel     string `envconfig:"AURY_LOG_LEVEL" default:"info"`
	LogWarnStack bool   `envconfig:"AURY_LOG_WARN_STACK" default:"false"`
}

func (a AppConfig) IsDev() bool {
	return strings.EqualFold(a.Env, AppEnvDev)
}

func (a AppConfig) IsProd() bool {
	return strings.EqualFold(a.Env, AppEnvProd)
}

type ServiceConfig struct {
	Kind string `envconfig:"AURY_SERVICE_KIND" default:"api"`
}

type DBConfig struct {
	DSN    string `envconfig:"AURY_DB_DSN"`
	Driver string `envconfig:"AURY_DB_DRIVER" default:"postgres"`

	LegacyHost     string `envconfig:"AURY_DB_HOST"`
	LegacyPort     int    `envconfig:"AURY_DB_PORT" default:"5432"`
	LegacyUser     string `envconfig:"AURY_DB_USER"`
	LegacyPassword string `envconfig:"AURY_DB_PASSWORD"`
	LegacyName     string `envconfig:"AURY_DB_NAME"`
	LegacySSLMode  string `envconfig:"AURY_DB_SSLMODE" default:"disable"`

	MaxOpenConns    int           `envconfig:"AURY_DB_MAX_OPEN_CONNS" default:"20"`
	MaxIdleConns    int           `envconfig:"AURY_DB_MAX_IDLE_CONNS" default:"10"`
	ConnMaxLifetime time.Duration `envconfig:"AURY_DB_CONN_MAX_LIFETIME" default:"1h"`
	ConnMaxIdleTime time.Duration `envconfig:"AURY_DB_CONN_MAX_IDLE_TIME" default:"10m"`
}

type RedisConfig struct {
	URL          string        `envconfig:"AURY_REDIS_URL" required:"true"`
	Address      string        `envconfig:"AURY_REDIS_ADDR"`
	Password     string        `envconfig:"AURY_REDIS_PASSWORD"`
	DB           int           `envconfig:"AURY_REDIS_DB" default:"0"`
	PoolSize     int           `envconfig:"AURY_REDIS_POOL_SIZE" default:"10"`
	MinIdleConns int           `envconfig:"AURY_REDIS_MIN_IDLE_CONNS" default:"2"`
	DialTimeout  time.Duration `envconfig:"AURY_REDIS_DIAL_TIMEOUT" default:"5s"`
	ReadTimeout  time.Duration `envconfig:"AURY_REDIS_READ_TIMEOUT" default:"5s"`
	WriteTimeout time.Duration `envconfig:"AURY_REDIS_WRITE_TIMEOUT" default:"5s"`
}

type JWTConfig struct {
	Secret                 string `envconfig:"AURY_JWT_SECRET" required:"true"`
	Issuer                 string `envconfig:"AURY_JWT_ISSUER" required:"true"`
	ExpirationMinutes      int    `envconfig:"AURY_JWT_EXPIRATION_MINUTES" required:"true"`
	RefreshTokenTTLMinutes int    `envconfig:"AURY_REFRESH_TOKEN_TTL_MINUTES" default:"43200"`
}

// RefreshTokenTTL returns the refresh token TTL configured in minutes.
func (j JWTConfig) RefreshTokenTTL() time.Duration {
	if j.RefreshTokenTTLMinutes <= 0 {
		return 0
	}
	return time.Duration(j.RefreshTokenTTLMinutes) * time.Minute
}

type PasswordConfig struct {
	ArgonMemoryKB    int `envconfig:"AURY_ARGON_MEMORY_KB" default:"65536"`
	ArgonTime        int `envconfig:"AURY_ARGON_TIME" default:"3"`
	ArgonParallelism int `envconfig:"AURY_ARGON_PARALLELISM" default:"2"`
	ArgonSaltLen     int `envconfig:"AURY_ARGON_SALT_LEN" default:"16"`
	ArgonKeyLen      int `envconfig:"AURY_ARGON_KEY_LEN" default:"32"`
}

type AuthRateLimitConfig struct {
	LoginWindow        time.Duration `envconfig:"AURY_AUTH_RATE_LIMIT_LOGIN_WINDOW" default:"1m"`
	LoginEmailLimit    int           `envconfig:"AURY_AUTH_RATE_LIMIT_LOGIN_EMAIL_LIMIT" default:"5"`
	LoginIPLimit       int           `envconfig:"AURY_AUTH_RATE_LIMIT_LOGIN_IP_LIMIT" default:"20"`
	RegisterWindow     time.Duration `envconfig:"AURY_AUTH_RATE_LIMIT_REGISTER_WINDOW" default:"5m"`
	RegisterEmailLimit int           `envconfig:"AURY_AUTH_RATE_LIMIT_REGISTER_EMAIL_LIMIT" default:"3"`
	RegisterIPLimit    int           `envconfig:"AURY_AUTH_RATE_LIMIT_REGISTER_IP_LIMIT" default:"20"`
}

type FeatureFlagsConfig struct {
	UseSQLite   bool `envconfig:"AURY_USE_SQLITE" default:"false"`
	AutoMigrate bool `envconfig:"AURY_AUTO_MIGRATE" default:"false"`
}

type CORSConfig struct {
	AllowedOrigins []string `envconfig:"AURY_CORS_ALLOWED_ORIGINS" default:"http://localhost:5173"`
}

type CartConfig struct {
	TTL      time.Duration `envconfig:"AURY_CART_TTL" default:"72h"`
	MaxLines int           `envconfig:"AURY_CART_MAX_LINES" default:"50"`
	MaxQty   int           `envconfig:"AURY_CART_MAX_QTY" default:"99"`
}

type ChatConfig struct {
	MaxBodyLen int           `envconfig:"AURY_CHAT_MAX_BODY_LEN" default:"2000"`
	Retention  time.Duration `envconfig:"AURY_CHAT_RETENTION" default:"720h"`
}

type CronConfig struct {
	ChatRetentionInterval time.Duration `envconfig:"AURY_CRON_CHAT_RETENTION_INTERVAL" default:"1h"`
	LockTTL               time.Duration `envconfig:"AURY_CRON_LOCK_TTL" default:"10m"`
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
