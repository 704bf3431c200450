package config

import (
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/kelseyhightower/envconfig"
)

type Config struct {
	App           AppConfig
	DB            DBConfig
	Redis         RedisConfig
	JWT           JWTConfig
	Password      PasswordConfig
	AuthRateLimit AuthRateLimitConfig
	FeatureFlags  FeatureFlagsConfig
	Quotation     QuotationConfig
	Company       CompanyConfig
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
	Env          string `envconfig:"PRINTQUOTE_APP_ENV" required:"true"`
	Port         string `envconfig:"PRINTQUOTE_APP_PORT" required:"true"`
	LogLevel     string `envconfig:"PRINTQUOTE_LOG_LEVEL" default:"info"`
	LogWarnStack bool   `envconfig:"PRINTQUOTE_LOG_WARN_STACK" default:"false"`
}

func (a AppConfig) IsDev() bool {
	return strings.EqualFold(a.Env, AppEnvDev)
}

func (a AppConfig) IsProd() bool {
	return strings.EqualFold(a.Env, AppEnvProd)
}

type DBConfig struct {
	DSN    string `envconfig:"PRINTQUOTE_DB_DSN"`
	Driver string `envconfig:"PRINTQUOTE_DB_DRIVER" default:"postgres"`

	LegacyHost     string `envconfig:"PRINTQUOTE_DB_HOST"`
	LegacyPort     int    `envconfig:"PRINTQUOTE_DB_PORT" default:"5432"`
	LegacyUser     string `envconfig:"PRINTQUOTE_DB_USER"`
	LegacyPassword string `envconfig:"PRINTQUOTE_DB_PASSWORD"`
	LegacyName     string `envconfig:"PRINTQUOTE_DB_NAME"`
	LegacySSLMode  string `envconfig:"PRINTQUOTE_DB_SSLMODE" default:"disable"`

	MaxOpenConns    int           `envconfig:"PRINTQUOTE_DB_MAX_OPEN_CONNS" default:"20"`
	MaxIdleConns    int           `envconfig:"PRINTQUOTE_DB_MAX_IDLE_CONNS" default:"10"`
	ConnMaxLifetime time.Duration `envconfig:"PRINTQUOTE_DB_CONN_MAX_LIFETIME" default:"1h"`
	ConnMaxIdleTime time.Duration `envconfig:"PRINTQUOTE_DB_CONN_MAX_IDLE_TIME" default:"10m"`
}

type RedisConfig struct {
	URL          string        `envconfig:"PRINTQUOTE_REDIS_URL" required:"true"`
	Address      string        `envconfig:"PRINTQUOTE_REDIS_ADDR"`
	Password     string        `envconfig:"PRINTQUOTE_REDIS_PASSWORD"`
	DB           int           `envconfig:"PRINTQUOTE_REDIS_DB" default:"0"`
	PoolSize     int           `envconfig:"PRINTQUOTE_REDIS_POOL_SIZE" default:"10"`
	MinIdleConns int           `envconfig:"PRINTQUOTE_REDIS_MIN_IDLE_CONNS" default:"2"`
	DialTimeout  time.Duration `envconfig:"PRINTQUOTE_REDIS_DIAL_TIMEOUT" default:"5s"`
	ReadTimeout  time.Duration `envconfig:"PRINTQUOTE_REDIS_READ_TIMEOUT" default:"5s"`
	WriteTimeout time.Duration `envconfig:"PRINTQUOTE_REDIS_WRITE_TIMEOUT" default:"5s"`
}

type JWTConfig struct {
	Secret                 string `envconfig:"PRINTQUOTE_JWT_SECRET" required:"true"`
	Issuer                 string `envconfig:"PRINTQUOTE_JWT_ISSUER" required:"true"`
	ExpirationMinutes      int    `envconfig:"PRINTQUOTE_JWT_EXPIRATION_MINUTES" required:"true"`
	RefreshTokenTTLMinutes int    `envconfig:"PRINTQUOTE_REFRESH_TOKEN_TTL_MINUTES" default:"43200"`
}

// RefreshTokenTTL returns the refresh token TTL configured in minutes.
func (j JWTConfig) RefreshTokenTTL() time.Duration {
	if j.RefreshTokenTTLMinutes <= 0 {
		return 0
	}
	return time.Duration(j.RefreshTokenTTLMinutes) * time.Minute
}

type PasswordConfig struct {
	ArgonMemoryKB    int `envconfig:"PRINTQUOTE_ARGON_MEMORY_KB" default:"65536"`
	ArgonTime        int `envconfig:"PRINTQUOTE_ARGON_TIME" default:"3"`
	ArgonParallelism int `envconfig:"PRINTQUOTE_ARGON_PARALLELISM" default:"2"`
	ArgonSaltLen     int `envconfig:"PRINTQUOTE_ARGON_SALT_LEN" default:"16"`
	ArgonKeyLen      int `envconfig:"PRINTQUOTE_ARGON_KEY_LEN" default:"32"`
}

type AuthRateLimitConfig struct {
	LoginWindow        time.Duration `envconfig:"PRINTQUOTE_AUTH_RATE_LIMIT_LOGIN_WINDOW" default:"1m"`
	LoginEmailLimit    int           `envconfig:"PRINTQUOTE_AUTH_RATE_LIMIT_LOGIN_EMAIL_LIMIT" default:"5"`
	LoginIPLimit       int           `envconfig:"PRINTQUOTE_AUTH_RATE_LIMIT_LOGIN_IP_LIMIT" default:"20"`
	RegisterWindow     time.Duration `envconfig:"PRINTQUOTE_AUTH_RATE_LIMIT_REGISTER_WINDOW" default:"5m"`
	RegisterEmailLimit int           `envconfig:"PRINTQUOTE_AUTH_RATE_LIMIT_REGISTER_EMAIL_LIMIT" default:"3"`
	RegisterIPLimit    int           `envconfig:"PRINTQUOTE_AUTH_RATE_LIMIT_REGISTER_IP_LIMIT" default:"20"`
}

type FeatureFlagsConfig struct {
	AutoMigrate bool `envconfig:"PRINTQUOTE_AUTO_MIGRATE" default:"false"`
}

// QuotationConfig carries quotation numbering and refinement knobs.
type QuotationConfig struct {
	CounterSeed        int64         `envconfig:"PRINTQUOTE_QUOTATION_COUNTER_SEED" default:"10001"`
	NumberPrefix       string        `envconfig:"PRINTQUOTE_QUOTATION_NUMBER_PREFIX" default:"QT"`
	RefineWorkers      int           `envconfig:"PRINTQUOTE_VOLUME_REFINE_WORKERS" default:"4"`
	RefineQueueSize    int           `envconfig:"PRINTQUOTE_VOLUME_REFINE_QUEUE" default:"64"`
	RefineTimeout      time.Duration `envconfig:"PRINTQUOTE_VOLUME_REFINE_TIMEOUT" default:"30s"`
	PDFValidityDays    int           `envconfig:"PRINTQUOTE_QUOTATION_VALIDITY_DAYS" default:"15"`
	CurrencySymbol     string        `envconfig:"PRINTQUOTE_CURRENCY_SYMBOL" default:"Rs."`
	DefaultMailFrom    string        `envconfig:"PRINTQUOTE_MAIL_FROM" default:"quotes@printquote.local"`
	MailDeliveryEnable bool          `envconfig:"PRINTQUOTE_MAIL_DELIVERY_ENABLED" default:"false"`
}

// CompanyConfig is rendered on PDF headers.
type CompanyConfig struct {
	Name    string `envconfig:"PRINTQUOTE_COMPANY_NAME" default:"PrintQuote Manufacturing"`
	Address string `envconfig:"PRINTQUOTE_COMPANY_ADDRESS" default:""`
	GSTIN   string `envconfig:"PRINTQUOTE_COMPANY_GSTIN" default:""`
	Phone   string `envconfig:"PRINTQUOTE_COMPANY_PHONE" default:""`
	Email   string `envconfig:"PRINTQUOTE_COMPANY_EMAIL" default:""`
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
