package config

import (
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/kelseyhightower/envconfig"
)

type Config struct {
	App          AppConfig
	DB           DBConfig
	Redis        RedisConfig
	JWT          JWTConfig
	Password     PasswordConfig
	RateLimit    RateLimitConfig
	FeatureFlags FeatureFlagsConfig
	GCP          GCPConfig
	GCS          GCSConfig
	Media        MediaConfig
	PubSub       PubSubConfig
	Settings     SettingsConfig
	Replicate    ReplicateConfig
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
	Env          string `envconfig:"EXHIBIT_APP_ENV" required:"true"`
	Port         string `envconfig:"EXHIBIT_APP_PORT" required:"true"`
	LogLevel     string `envconfig:"EXHIBIT_LOG_LEVEL" default:"info"`
	LogWarnStack bool   `envconfig:"EXHIBIT_LOG_WARN_STACK" default:"false"`
}

func (a AppConfig) IsDev() bool {
	return strings.EqualFold(a.Env, AppEnvDev)
}

func (a AppConfig) IsProd() bool {
	return strings.EqualFold(a.Env, AppEnvProd)
}

type DBConfig struct {
	DSN    string `envconfig:"EXHIBIT_DB_DSN"`
	Driver string `envconfig:"EXHIBIT_DB_DRIVER" default:"postgres"`

	LegacyHost     string `envconfig:"EXHIBIT_DB_HOST"`
	LegacyPort     int    `envconfig:"EXHIBIT_DB_PORT" default:"5432"`
	LegacyUser     string `envconfig:"EXHIBIT_DB_USER"`
	LegacyPassword string `envconfig:"EXHIBIT_DB_PASSWORD"`
	LegacyName     string `envconfig:"EXHIBIT_DB_NAME"`
	LegacySSLMode  string `envconfig:"EXHIBIT_DB_SSLMODE" default:"disable"`

	MaxOpenConns    int           `envconfig:"EXHIBIT_DB_MAX_OPEN_CONNS" default:"20"`
	MaxIdleConns    int           `envconfig:"EXHIBIT_DB_MAX_IDLE_CONNS" default:"10"`
	ConnMaxLifetime time.Duration `envconfig:"EXHIBIT_DB_CONN_MAX_LIFETIME" default:"1h"`
	ConnMaxIdleTime time.Duration `envconfig:"EXHIBIT_DB_CONN_MAX_IDLE_TIME" default:"10m"`
}

// IsSQLite reports whether the sqlite driver was selected (local tooling only).
func (db DBConfig) IsSQLite() bool {
	return strings.EqualFold(db.Driver, "sqlite")
}

type RedisConfig struct {
	URL          string        `envconfig:"EXHIBIT_REDIS_URL" required:"true"`
	Address      string        `envconfig:"EXHIBIT_REDIS_ADDR"`
	Password     string        `envconfig:"EXHIBIT_REDIS_PASSWORD"`
	DB           int           `envconfig:"EXHIBIT_REDIS_DB" default:"0"`
	PoolSize     int           `envconfig:"EXHIBIT_REDIS_POOL_SIZE" default:"10"`
	MinIdleConns int           `envconfig:"EXHIBIT_REDIS_MIN_IDLE_CONNS" default:"2"`
	DialTimeout  time.Duration `envconfig:"EXHIBIT_REDIS_DIAL_TIMEOUT" default:"5s"`
	ReadTimeout  time.Duration `envconfig:"EXHIBIT_REDIS_READ_TIMEOUT" default:"5s"`
	WriteTimeout time.Duration `envconfig:"EXHIBIT_REDIS_WRITE_TIMEOUT" default:"5s"`
}

type JWTConfig struct {
	Secret            string `envconfig:"EXHIBIT_JWT_SECRET" required:"true"`
	Issuer            string `envconfig:"EXHIBIT_JWT_ISSUER" required:"true"`
	ExpirationMinutes int    `envconfig:"EXHIBIT_JWT_EXPIRATION_MINUTES" default:"60"`
	SessionTTLMinutes int    `envconfig:"EXHIBIT_SESSION_TTL_MINUTES" default:"720"`
}

// SessionTTL returns the admin session lifetime configured in minutes.
func (j JWTConfig) SessionTTL() time.Duration {
	if j.SessionTTLMinutes <= 0 {
		return 0
	}
	return time.Duration(j.SessionTTLMinutes) * time.Minute
}

type PasswordConfig struct {
	ArgonMemoryKB    int `envconfig:"EXHIBIT_ARGON_MEMORY_KB" default:"65536"`
	ArgonTime        int `envconfig:"EXHIBIT_ARGON_TIME" default:"3"`
	ArgonParallelism int `envconfig:"EXHIBIT_ARGON_PARALLELISM" default:"2"`
	ArgonSaltLen     int `envconfig:"EXHIBIT_ARGON_SALT_LEN" default:"16"`
	ArgonKeyLen      int `envconfig:"EXHIBIT_ARGON_KEY_LEN" default:"32"`
}

type RateLimitConfig struct {
	InquiryWindow  time.Duration `envconfig:"EXHIBIT_RATE_LIMIT_INQUIRY_WINDOW" default:"1m"`
	InquiryIPLimit int           `envconfig:"EXHIBIT_RATE_LIMIT_INQUIRY_IP_LIMIT" default:"10"`
	LoginWindow    time.Duration `envconfig:"EXHIBIT_RATE_LIMIT_LOGIN_WINDOW" default:"1m"`
	LoginIPLimit   int           `envconfig:"EXHIBIT_RATE_LIMIT_LOGIN_IP_LIMIT" default:"5"`
}

type FeatureFlagsConfig struct {
	AutoMigrate bool `envconfig:"EXHIBIT_AUTO_MIGRATE" default:"false"`
	Eventing    bool `envconfig:"EXHIBIT_FEATURE_EVENTING" default:"false"`
}

type GCPConfig struct {
	ProjectID              string `envconfig:"EXHIBIT_GCP_PROJECT_ID"`
	CredentialsJSON        string `envconfig:"EXHIBIT_GCP_CREDENTIALS_JSON"`
	ApplicationCredentials string `envconfig:"EXHIBIT_GOOGLE_APPLICATION_CREDENTIALS"`
}

type GCSConfig struct {
	BucketName      string        `envconfig:"EXHIBIT_GCS_BUCKET_NAME"`
	UploadURLExpiry time.Duration `envconfig:"EXHIBIT_GCS_UPLOAD_URL_EXPIRY" default:"15m"`
	PublicBaseURL   string        `envconfig:"EXHIBIT_GCS_PUBLIC_BASE_URL"`
}

type MediaConfig struct {
	MaxUploadMB int `envconfig:"EXHIBIT_MAX_UPLOAD_MB" default:"20"`
}

type PubSubConfig struct {
	InquiryTopic string `envconfig:"EXHIBIT_PUBSUB_INQUIRY_TOPIC" default:"exhibit-inquiry-events"`
}

type SettingsConfig struct {
	CacheTTL time.Duration `envconfig:"EXHIBIT_SETTINGS_CACHE_TTL" default:"5m"`
}

type ReplicateConfig struct {
	APIToken     string        `envconfig:"EXHIBIT_REPLICATE_API_TOKEN"`
	Model        string        `envconfig:"EXHIBIT_REPLICATE_MODEL" default:"black-forest-labs/flux-schnell"`
	PollInterval time.Duration `envconfig:"EXHIBIT_REPLICATE_POLL_INTERVAL" default:"2s"`
	PollTimeout  time.Duration `envconfig:"EXHIBIT_REPLICATE_POLL_TIMEOUT" default:"5m"`
}

func (db *DBConfig) ensureDSN() error {
	if db.DSN != "" || db.IsSQLite() {
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
