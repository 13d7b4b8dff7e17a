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
	Estimator    EstimatorConfig
	Clipboard    ClipboardConfig
	CORS         CORSConfig
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
	if err := cfg.Estimator.validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

type AppConfig struct {
	Env          string `envconfig:"BABYSTEPS_APP_ENV" required:"true"`
	Port         string `envconfig:"BABYSTEPS_APP_PORT" required:"true"`
	LogLevel     string `envconfig:"BABYSTEPS_LOG_LEVEL" default:"info"`
	LogWarnStack bool   `envconfig:"BABYSTEPS_LOG_WARN_STACK" default:"false"`
}

func (a AppConfig) IsDev() bool {
	return strings.EqualFold(a.Env, AppEnvDev)
}

func (a AppConfig) IsProd() bool {
	return strings.EqualFold(a.Env, AppEnvProd)
}

type DBConfig struct {
	DSN    string `envconfig:"BABYSTEPS_DB_DSN"`
	Driver string `envconfig:"BABYSTEPS_DB_DRIVER" default:"postgres"`

	LegacyHost     string `envconfig:"BABYSTEPS_DB_HOST"`
	LegacyPort     int    `envconfig:"BABYSTEPS_DB_PORT" default:"5432"`
	LegacyUser     string `envconfig:"BABYSTEPS_DB_USER"`
	LegacyPassword string `envconfig:"BABYSTEPS_DB_PASSWORD"`
	LegacyName     string `envconfig:"BABYSTEPS_DB_NAME"`
	LegacySSLMode  string `envconfig:"BABYSTEPS_DB_SSLMODE" default:"disable"`

	MaxOpenConns    int           `envconfig:"BABYSTEPS_DB_MAX_OPEN_CONNS" default:"10"`
	MaxIdleConns    int           `envconfig:"BABYSTEPS_DB_MAX_IDLE_CONNS" default:"5"`
	ConnMaxLifetime time.Duration `envconfig:"BABYSTEPS_DB_CONN_MAX_LIFETIME" default:"1h"`
	ConnMaxIdleTime time.Duration `envconfig:"BABYSTEPS_DB_CONN_MAX_IDLE_TIME" default:"10m"`
}

type RedisConfig struct {
	URL          string        `envconfig:"BABYSTEPS_REDIS_URL" required:"true"`
	Address      string        `envconfig:"BABYSTEPS_REDIS_ADDR"`
	Password     string        `envconfig:"BABYSTEPS_REDIS_PASSWORD"`
	DB           int           `envconfig:"BABYSTEPS_REDIS_DB" default:"0"`
	PoolSize     int           `envconfig:"BABYSTEPS_REDIS_POOL_SIZE" default:"5"`
	MinIdleConns int           `envconfig:"BABYSTEPS_REDIS_MIN_IDLE_CONNS" default:"1"`
	DialTimeout  time.Duration `envconfig:"BABYSTEPS_REDIS_DIAL_TIMEOUT" default:"5s"`
	ReadTimeout  time.Duration `envconfig:"BABYSTEPS_REDIS_READ_TIMEOUT" default:"5s"`
	WriteTimeout time.Duration `envconfig:"BABYSTEPS_REDIS_WRITE_TIMEOUT" default:"5s"`
}

// EstimatorConfig selects the default exhaustion projection policy and its
// windows. The two policies answer different questions, so the API also lets
// callers request one explicitly per request.
type EstimatorConfig struct {
	Policy            string `envconfig:"BABYSTEPS_ESTIMATOR_POLICY" default:"usage_average"`
	HistoryDays       int    `envconfig:"BABYSTEPS_ESTIMATOR_HISTORY_DAYS" default:"7"`
	PlanHorizonDays   int    `envconfig:"BABYSTEPS_ESTIMATOR_PLAN_HORIZON_DAYS" default:"30"`
	CriticalThreshold int    `envconfig:"BABYSTEPS_ESTIMATOR_CRITICAL_DAYS" default:"1"`
	WarningThreshold  int    `envconfig:"BABYSTEPS_ESTIMATOR_WARNING_DAYS" default:"3"`
}

func (e EstimatorConfig) validate() error {
	switch e.Policy {
	case PolicyUsageAverage, PolicyPlannedScan:
	default:
		return fmt.Errorf("invalid %s: %q", EnvEstimatorPolicy, e.Policy)
	}
	if e.HistoryDays <= 0 {
		return fmt.Errorf("%s must be positive", EnvEstimatorHistoryDays)
	}
	if e.PlanHorizonDays <= 0 {
		return fmt.Errorf("%s must be positive", EnvEstimatorPlanHorizonDays)
	}
	if e.CriticalThreshold > e.WarningThreshold {
		return fmt.Errorf("critical threshold cannot exceed warning threshold")
	}
	return nil
}

type ClipboardConfig struct {
	TTL time.Duration `envconfig:"BABYSTEPS_CLIPBOARD_TTL" default:"12h"`
}

type CORSConfig struct {
	AllowedOrigins []string `envconfig:"BABYSTEPS_CORS_ALLOWED_ORIGINS" default:"*"`
}

type FeatureFlagsConfig struct {
	AutoMigrate bool `envconfig:"BABYSTEPS_AUTO_MIGRATE" default:"false"`
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
