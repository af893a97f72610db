package config

import (
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/kelseyhightower/envconfig"
)

const (
	EnvPrefix = "MEDIAVAULT"

	AppEnvDev  = "development"
	AppEnvProd = "production"

	EnvDBDSN  = "MEDIAVAULT_DB_DSN"
	EnvDBHost = "MEDIAVAULT_DB_HOST"
	EnvDBUser = "MEDIAVAULT_DB_USER"
	EnvDBName = "MEDIAVAULT_DB_NAME"
)

var legacyDBEnvVars = []string{EnvDBHost, EnvDBUser, EnvDBName}

type Config struct {
	App          AppConfig
	DB           DBConfig
	JWT          JWTConfig
	Admin        AdminConfig
	CDN          CDNConfig
	Media        MediaConfig
	FeatureFlags FeatureFlagsConfig
}

func Load() (*Config, error) {
	var cfg Config
	if err := envconfig.Process(EnvPrefix, &cfg); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}
	if err := cfg.DB.ensureDSN(); err != nil {
		return nil, err
	}
	if err := cfg.Admin.validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

type AppConfig struct {
	Env          string `envconfig:"MEDIAVAULT_APP_ENV" default:"development"`
	Port         string `envconfig:"MEDIAVAULT_APP_PORT" default:"8080"`
	LogLevel     string `envconfig:"MEDIAVAULT_LOG_LEVEL" default:"info"`
	LogWarnStack bool   `envconfig:"MEDIAVAULT_LOG_WARN_STACK" default:"false"`
}

func (a AppConfig) IsDev() bool {
	return strings.EqualFold(a.Env, AppEnvDev)
}

func (a AppConfig) IsProd() bool {
	return strings.EqualFold(a.Env, AppEnvProd)
}

type DBConfig struct {
	DSN    string `envconfig:"MEDIAVAULT_DB_DSN"`
	Driver string `envconfig:"MEDIAVAULT_DB_DRIVER" default:"postgres"`

	LegacyHost     string `envconfig:"MEDIAVAULT_DB_HOST"`
	LegacyPort     int    `envconfig:"MEDIAVAULT_DB_PORT" default:"5432"`
	LegacyUser     string `envconfig:"MEDIAVAULT_DB_USER"`
	LegacyPassword string `envconfig:"MEDIAVAULT_DB_PASSWORD"`
	LegacyName     string `envconfig:"MEDIAVAULT_DB_NAME"`
	LegacySSLMode  string `envconfig:"MEDIAVAULT_DB_SSLMODE" default:"disable"`

	MaxOpenConns    int           `envconfig:"MEDIAVAULT_DB_MAX_OPEN_CONNS" default:"10"`
	MaxIdleConns    int           `envconfig:"MEDIAVAULT_DB_MAX_IDLE_CONNS" default:"5"`
	ConnMaxLifetime time.Duration `envconfig:"MEDIAVAULT_DB_CONN_MAX_LIFETIME" default:"1h"`
	ConnMaxIdleTime time.Duration `envconfig:"MEDIAVAULT_DB_CONN_MAX_IDLE_TIME" default:"10m"`
}

type JWTConfig struct {
	Secret            string `envconfig:"MEDIAVAULT_JWT_SECRET" required:"true"`
	Issuer            string `envconfig:"MEDIAVAULT_JWT_ISSUER" default:"mediavault"`
	ExpirationMinutes int    `envconfig:"MEDIAVAULT_JWT_EXPIRATION_MINUTES" default:"60"`
}

// TokenTTL returns the access token lifetime configured in minutes.
func (j JWTConfig) TokenTTL() time.Duration {
	if j.ExpirationMinutes <= 0 {
		return time.Hour
	}
	return time.Duration(j.ExpirationMinutes) * time.Minute
}

// AdminConfig holds the static administrator credential pair. PasswordHash is
// an argon2id string; Password is a plaintext fallback accepted only so local
// setups work without pre-hashing, and is flagged as unsafe at boot.
type AdminConfig struct {
	Username     string `envconfig:"MEDIAVAULT_ADMIN_USERNAME" required:"true"`
	PasswordHash string `envconfig:"MEDIAVAULT_ADMIN_PASSWORD_HASH"`
	Password     string `envconfig:"MEDIAVAULT_ADMIN_PASSWORD"`
}

func (a AdminConfig) validate() error {
	if a.PasswordHash == "" && a.Password == "" {
		return fmt.Errorf("either MEDIAVAULT_ADMIN_PASSWORD_HASH or MEDIAVAULT_ADMIN_PASSWORD is required")
	}
	return nil
}

// UsesPlaintextPassword reports whether the insecure plaintext fallback is active.
func (a AdminConfig) UsesPlaintextPassword() bool {
	return a.PasswordHash == "" && a.Password != ""
}

type CDNConfig struct {
	AccountName   string        `envconfig:"MEDIAVAULT_CDN_ACCOUNT_NAME"`
	APIKey        string        `envconfig:"MEDIAVAULT_CDN_API_KEY"`
	APISecret     string        `envconfig:"MEDIAVAULT_CDN_API_SECRET"`
	BaseURL       string        `envconfig:"MEDIAVAULT_CDN_BASE_URL" default:"https://api.cloudinary.com"`
	RootFolder    string        `envconfig:"MEDIAVAULT_CDN_ROOT_FOLDER" default:"gallery"`
	UploadTimeout time.Duration `envconfig:"MEDIAVAULT_CDN_UPLOAD_TIMEOUT" default:"60s"`
}

// Configured reports whether every credential needed to reach the CDN is set.
func (c CDNConfig) Configured() bool {
	return c.AccountName != "" && c.APIKey != "" && c.APISecret != ""
}

type MediaConfig struct {
	MaxBatchFiles int `envconfig:"MEDIAVAULT_MEDIA_MAX_BATCH_FILES" default:"100"`
	MaxUploadMB   int `envconfig:"MEDIAVAULT_MEDIA_MAX_UPLOAD_MB" default:"50"`
}

// MaxUploadBytes converts the configured per-file ceiling to bytes.
func (m MediaConfig) MaxUploadBytes() int64 {
	return int64(m.MaxUploadMB) * 1024 * 1024
}

type FeatureFlagsConfig struct {
	AutoMigrate bool `envconfig:"MEDIAVAULT_AUTO_MIGRATE" default:"false"`
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
