package config // package config loads application configuration from environment variables

import (
	"fmt"
	"time"

	"github.com/kelseyhightower/envconfig"
	"github.com/pkg/errors"
)

// DBConfig selects and locates the database.  The dataload CLI needs only
// this part of the configuration.
type DBConfig struct {
	DBDriver string `envconfig:"DB_DRIVER" default:"sqlite"` // sqlite or mysql
	DBDSN    string `envconfig:"DB_DSN"`                     // sqlite file path; empty means data/<app>.db
	DBUser   string `envconfig:"DB_USER"`                    // mysql user
	DBPass   string `envconfig:"DB_PASS"`                    // mysql password (optional)
	DBHost   string `envconfig:"DB_HOST" default:"127.0.0.1"`
	DBPort   string `envconfig:"DB_PORT" default:"3306"`
	DBName   string `envconfig:"DB_NAME"`
}

// Config holds all runtime configuration values of the iris and
// paralympics servers.  Each field corresponds to an environment variable;
// defaults keep a local SQLite setup working without any configuration
// beyond SECRET_KEY.
type Config struct {
	Env  string `envconfig:"APP_ENV" default:"dev"`   // application environment (dev, test, prod)
	Port string `envconfig:"APP_PORT" default:"5000"` // HTTP port to listen on

	DBConfig

	// SecretKey signs both the session cookie and the API tokens.
	SecretKey        string        `envconfig:"SECRET_KEY" required:"true"`
	TokenTTL         time.Duration `envconfig:"TOKEN_TTL" default:"5m"`
	RememberDuration time.Duration `envconfig:"REMEMBER_DURATION" default:"1m"`
	BcryptCost       int           `envconfig:"BCRYPT_COST" default:"10"`

	IrisModelPath string `envconfig:"IRIS_MODEL_PATH"` // empty selects the embedded reference model

	LogLevel  string `envconfig:"LOG_LEVEL" default:"info"`
	LogFormat string `envconfig:"LOG_FORMAT" default:"json"`

	AMQPURL string `envconfig:"AMQP_URL"` // empty disables catalog events
}

// Load reads the configuration from the environment.  A missing SECRET_KEY or
// an unparsable value is reported as an error so main can exit cleanly.
func Load() (Config, error) {
	var cfg Config
	if err := envconfig.Process("", &cfg); err != nil {
		return Config{}, errors.Wrap(err, "error loading configuration from environment")
	}
	if cfg.SecretKey == "" {
		return Config{}, errors.New("SECRET_KEY must not be empty")
	}
	if err := cfg.DBConfig.validate(); err != nil {
		return Config{}, err
	}
	if cfg.TokenTTL <= 0 {
		return Config{}, errors.New("TOKEN_TTL must be positive")
	}
	return cfg, nil
}

// LoadDB reads only the database settings from the environment.
func LoadDB() (DBConfig, error) {
	var dc DBConfig
	if err := envconfig.Process("", &dc); err != nil {
		return DBConfig{}, errors.Wrap(err, "error loading database configuration from environment")
	}
	if err := dc.validate(); err != nil {
		return DBConfig{}, err
	}
	return dc, nil
}

func (c DBConfig) validate() error {
	if c.DBDriver != "sqlite" && c.DBDriver != "mysql" {
		return errors.Errorf("unsupported DB_DRIVER %q", c.DBDriver)
	}
	return nil
}

// DSN returns the data source name for the configured driver.  For sqlite an
// empty DB_DSN falls back to data/<app>.db so each app keeps its own file.
func (c DBConfig) DSN(app string) string {
	if c.DBDriver == "mysql" {
		auth := c.DBUser
		if c.DBPass != "" {
			auth = fmt.Sprintf("%s:%s", c.DBUser, c.DBPass)
		}
		name := c.DBName
		if name == "" {
			name = app
		}
		// parseTime=true -> DATETIME -> time.Time | multiStatements for migrations
		return fmt.Sprintf("%s@tcp(%s:%s)/%s?charset=utf8mb4&parseTime=true&loc=UTC&multiStatements=true",
			auth, c.DBHost, c.DBPort, name)
	}
	if c.DBDSN != "" {
		return c.DBDSN
	}
	return fmt.Sprintf("data/%s.db", app)
}
