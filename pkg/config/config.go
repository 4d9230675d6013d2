package config

import (
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/kelseyhightower/envconfig"
)

const EnvPrefix = "MEALBRIDGE"

const (
	AppEnvDev  = "dev"
	AppEnvProd = "prod"
)

type Config struct {
	App           AppConfig
	DB            DBConfig
	Redis         RedisConfig
	JWT           JWTConfig
	Password      PasswordConfig
	Checkout      CheckoutConfig
	Notifier      NotifierConfig
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
	return &cfg, nil
}

type AppConfig struct {
	Env          string `envconfig:"MEALBRIDGE_APP_ENV" default:"dev"`
	Port         string `envconfig:"MEALBRIDGE_APP_PORT" default:"4000"`
	LogLevel     string `envconfig:"MEALBRIDGE_LOG_LEVEL" default:"info"`
	LogWarnStack bool   `envconfig:"MEALBRIDGE_LOG_WARN_STACK" default:"false"`
}

func (a AppConfig) IsDev() bool {
	return strings.EqualFold(a.Env, AppEnvDev)
}

func (a AppConfig) IsProd() bool {
	return strings.EqualFold(a.Env, AppEnvProd)
}

type DBConfig struct {
	DSN    string `envconfig:"MEALBRIDGE_DB_DSN"`
	Driver string `envconfig:"MEALBRIDGE_DB_DRIVER" default:"postgres"`

	Host     string `envconfig:"MEALBRIDGE_DB_HOST"`
	Port     int    `envconfig:"MEALBRIDGE_DB_PORT" default:"5432"`
	User     string `envconfig:"MEALBRIDGE_DB_USER"`
	Password string `envconfig:"MEALBRIDGE_DB_PASSWORD"`
	Name     string `envconfig:"MEALBRIDGE_DB_NAME"`
	SSLMode  string `envconfig:"MEALBRIDGE_DB_SSLMODE" default:"disable"`

	MaxOpenConns    int           `envconfig:"MEALBRIDGE_DB_MAX_OPEN_CONNS" default:"20"`
	MaxIdleConns    int           `envconfig:"MEALBRIDGE_DB_MAX_IDLE_CONNS" default:"10"`
	ConnMaxLifetime time.Duration `envconfig:"MEALBRIDGE_DB_CONN_MAX_LIFETIME" default:"1h"`
	ConnMaxIdleTime time.Duration `envconfig:"MEALBRIDGE_DB_CONN_MAX_IDLE_TIME" default:"10m"`
}

type RedisConfig struct {
	URL          string        `envconfig:"MEALBRIDGE_REDIS_URL"`
	Address      string        `envconfig:"MEALBRIDGE_REDIS_ADDR"`
	Password     string        `envconfig:"MEALBRIDGE_REDIS_PASSWORD"`
	DB           int           `envconfig:"MEALBRIDGE_REDIS_DB" default:"0"`
	PoolSize     int           `envconfig:"MEALBRIDGE_REDIS_POOL_SIZE" default:"10"`
	MinIdleConns int           `envconfig:"MEALBRIDGE_REDIS_MIN_IDLE_CONNS" default:"2"`
	DialTimeout  time.Duration `envconfig:"MEALBRIDGE_REDIS_DIAL_TIMEOUT" default:"5s"`
	ReadTimeout  time.Duration `envconfig:"MEALBRIDGE_REDIS_READ_TIMEOUT" default:"5s"`
	WriteTimeout time.Duration `envconfig:"MEALBRIDGE_REDIS_WRITE_TIMEOUT" default:"5s"`
}

type JWTConfig struct {
	Secret            string `envconfig:"MEALBRIDGE_JWT_SECRET" required:"true"`
	Issuer            string `envconfig:"MEALBRIDGE_JWT_ISSUER" default:"mealbridge"`
	ExpirationMinutes int    `envconfig:"MEALBRIDGE_JWT_EXPIRATION_MINUTES" default:"10080"`
}

// SessionTTL returns how long a minted session stays valid.
func (j JWTConfig) SessionTTL() time.Duration {
	if j.ExpirationMinutes <= 0 {
		return 0
	}
	return time.Duration(j.ExpirationMinutes) * time.Minute
}

type PasswordConfig struct {
	ArgonMemoryKB    int `envconfig:"MEALBRIDGE_ARGON_MEMORY_KB" default:"65536"`
	ArgonTime        int `envconfig:"MEALBRIDGE_ARGON_TIME" default:"3"`
	ArgonParallelism int `envconfig:"MEALBRIDGE_ARGON_PARALLELISM" default:"2"`
	ArgonSaltLen     int `envconfig:"MEALBRIDGE_ARGON_SALT_LEN" default:"16"`
	ArgonKeyLen      int `envconfig:"MEALBRIDGE_ARGON_KEY_LEN" default:"32"`
}

type CheckoutConfig struct {
	// FrontendURL is the base the payment confirmation redirect is built on.
	FrontendURL string `envconfig:"MEALBRIDGE_FRONTEND_URL" default:"http://localhost:5173"`
}

type NotifierConfig struct {
	// OfferWindow is how long each connected user gets to react to a
	// redistribution offer before the rotation advances.
	OfferWindow time.Duration `envconfig:"MEALBRIDGE_NOTIFIER_OFFER_WINDOW" default:"5s"`
}

type AuthRateLimitConfig struct {
	LoginWindow        time.Duration `envconfig:"MEALBRIDGE_AUTH_RL_LOGIN_WINDOW" default:"5m"`
	LoginIPLimit       int           `envconfig:"MEALBRIDGE_AUTH_RL_LOGIN_IP_LIMIT" default:"20"`
	LoginEmailLimit    int           `envconfig:"MEALBRIDGE_AUTH_RL_LOGIN_EMAIL_LIMIT" default:"5"`
	RegisterWindow     time.Duration `envconfig:"MEALBRIDGE_AUTH_RL_REGISTER_WINDOW" default:"1h"`
	RegisterIPLimit    int           `envconfig:"MEALBRIDGE_AUTH_RL_REGISTER_IP_LIMIT" default:"10"`
	RegisterEmailLimit int           `envconfig:"MEALBRIDGE_AUTH_RL_REGISTER_EMAIL_LIMIT" default:"3"`
}

type FeatureFlagsConfig struct {
	AutoMigrate bool `envconfig:"MEALBRIDGE_AUTO_MIGRATE" default:"false"`
}

func (db *DBConfig) ensureDSN() error {
	if db.DSN != "" {
		return nil
	}

	missing := []string{}
	for env, value := range map[string]string{
		"MEALBRIDGE_DB_HOST": db.Host,
		"MEALBRIDGE_DB_USER": db.User,
		"MEALBRIDGE_DB_NAME": db.Name,
	} {
		if value == "" {
			missing = append(missing, env)
		}
	}
	if len(missing) > 0 {
		return fmt.Errorf("either MEALBRIDGE_DB_DSN or %s are required", strings.Join(missing, ", "))
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
