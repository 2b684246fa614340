package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"strings"
	"sync/atomic"
	"time"

	"github.com/kelseyhightower/envconfig"

	"github.com/jobinau/pg-partmaint/pkg/log"
)

const envPrefix = "PARTMAINT"

var cfgSingleton atomic.Value

var (
	ErrMissingDSN      = errors.New("a connection string is required")
	ErrMissingTable    = errors.New("a table in schema.tablename format is required")
	ErrMissingInterval = errors.New("an interval is required")
	ErrInvalidPremake  = errors.New("premake must be at least 1")
)

type DatabaseProvider string

const (
	// PostgresDatabaseProvider uses lib/pq
	PostgresDatabaseProvider DatabaseProvider = "postgres"
	// PgxDatabaseProvider uses the pgx stdlib driver
	PgxDatabaseProvider DatabaseProvider = "pgx"
)

const (
	DefaultConnectTimeout = Duration(5 * time.Second)
	DefaultLogLevel       = "info"
	DefaultLogFormat      = "text"
)

// Duration reads "5s" style strings from both json and the environment.
type Duration time.Duration

func (d Duration) Duration() time.Duration {
	return time.Duration(d)
}

func (d Duration) String() string {
	return time.Duration(d).String()
}

// Decode implements envconfig.Decoder.
func (d *Duration) Decode(value string) error {
	v, err := time.ParseDuration(value)
	if err != nil {
		return err
	}

	*d = Duration(v)
	return nil
}

func (d *Duration) UnmarshalJSON(b []byte) error {
	var s string
	if err := json.Unmarshal(b, &s); err != nil {
		var secs int64
		if nErr := json.Unmarshal(b, &secs); nErr != nil {
			return fmt.Errorf("duration must be a string like \"5s\" or a number of seconds: %v", err)
		}
		*d = Duration(time.Duration(secs) * time.Second)
		return nil
	}

	return d.Decode(s)
}

func (d Duration) MarshalJSON() ([]byte, error) {
	return json.Marshal(d.String())
}

type DatabaseConfiguration struct {
	Driver         DatabaseProvider `json:"driver" envconfig:"DRIVER"`
	Dsn            string           `json:"dsn" envconfig:"DSN"`
	ConnectTimeout Duration         `json:"connect_timeout" envconfig:"CONNECT_TIMEOUT"`
}

type LoggerConfiguration struct {
	Level  string `json:"level" envconfig:"LEVEL"`
	Format string `json:"format" envconfig:"FORMAT"`
}

type Configuration struct {
	Database DatabaseConfiguration `json:"database" envconfig:"DB"`
	Logger   LoggerConfiguration   `json:"logger" envconfig:"LOGGER"`
	NoColor  bool                  `json:"no_color" envconfig:"NO_COLOR"`

	Table       string `json:"table" envconfig:"TABLE"`
	Interval    string `json:"interval" envconfig:"INTERVAL"`
	Premake     uint   `json:"premake" envconfig:"PREMAKE"`
	AppendSQL   string `json:"append_sql" envconfig:"APPEND_SQL"`
	DDLFile     string `json:"ddl_file" envconfig:"DDL_FILE"`
	ErrorLog    string `json:"error_log" envconfig:"ERROR_LOG"`
	MetricsFile string `json:"metrics_file" envconfig:"METRICS_FILE"`
	DisplayDDL  bool   `json:"display_ddl" envconfig:"DISPLAY_DDL"`
	Execute     bool   `json:"execute" envconfig:"EXECUTE"`
	QuitOnError bool   `json:"quit_on_error" envconfig:"QUIT_ON_ERROR"`
	FailOnError bool   `json:"fail_on_error" envconfig:"FAIL_ON_ERROR"`
}

var DefaultConfiguration = Configuration{
	Database: DatabaseConfiguration{
		Driver:         PostgresDatabaseProvider,
		ConnectTimeout: DefaultConnectTimeout,
	},
	Logger: LoggerConfiguration{
		Level:  DefaultLogLevel,
		Format: DefaultLogFormat,
	},
}

// LoadConfig builds the configuration from defaults, the optional json file
// at p and PARTMAINT_* environment variables, in that order of precedence.
func LoadConfig(p string) error {
	c := DefaultConfiguration

	if p != "" {
		f, err := os.Open(p)
		if err != nil {
			return err
		}
		defer f.Close()

		if err := json.NewDecoder(f).Decode(&c); err != nil {
			return fmt.Errorf("failed to decode config file %s: %w", p, err)
		}
	}

	if err := envconfig.Process(envPrefix, &c); err != nil {
		return err
	}

	cfgSingleton.Store(&c)
	return nil
}

// Override applies the non-zero values of cfg, usually built from cli flags,
// on top of the loaded configuration.
func Override(cfg *Configuration) error {
	c, ok := cfgSingleton.Load().(*Configuration)
	if !ok {
		return errors.New("call Load before this function")
	}

	o := *c

	if cfg.Database.Driver != "" {
		o.Database.Driver = cfg.Database.Driver
	}

	if cfg.Database.Dsn != "" {
		o.Database.Dsn = cfg.Database.Dsn
	}

	if cfg.Database.ConnectTimeout != 0 {
		o.Database.ConnectTimeout = cfg.Database.ConnectTimeout
	}

	if cfg.Logger.Level != "" {
		o.Logger.Level = cfg.Logger.Level
	}

	if cfg.Logger.Format != "" {
		o.Logger.Format = cfg.Logger.Format
	}

	if cfg.Table != "" {
		o.Table = cfg.Table
	}

	if cfg.Interval != "" {
		o.Interval = cfg.Interval
	}

	if cfg.Premake != 0 {
		o.Premake = cfg.Premake
	}

	if cfg.AppendSQL != "" {
		o.AppendSQL = cfg.AppendSQL
	}

	if cfg.DDLFile != "" {
		o.DDLFile = cfg.DDLFile
	}

	if cfg.ErrorLog != "" {
		o.ErrorLog = cfg.ErrorLog
	}

	if cfg.MetricsFile != "" {
		o.MetricsFile = cfg.MetricsFile
	}

	// flags can only switch these on
	o.NoColor = o.NoColor || cfg.NoColor
	o.DisplayDDL = o.DisplayDDL || cfg.DisplayDDL
	o.Execute = o.Execute || cfg.Execute
	o.QuitOnError = o.QuitOnError || cfg.QuitOnError
	o.FailOnError = o.FailOnError || cfg.FailOnError

	cfgSingleton.Store(&o)
	return nil
}

// Get fetches the application configuration. LoadConfig must have been called
// previously for this to work.
func Get() (Configuration, error) {
	c, ok := cfgSingleton.Load().(*Configuration)
	if !ok {
		return Configuration{}, errors.New("call Load before this function")
	}

	return *c, nil
}

// Validate checks the settings every command needs.
func (c Configuration) Validate() error {
	switch c.Database.Driver {
	case PostgresDatabaseProvider, PgxDatabaseProvider:
	default:
		return fmt.Errorf("unsupported database driver %q, must be one of postgres or pgx", c.Database.Driver)
	}

	if strings.TrimSpace(c.Database.Dsn) == "" {
		return ErrMissingDSN
	}

	if c.Database.ConnectTimeout <= 0 {
		return fmt.Errorf("connect timeout must be positive, got %s", c.Database.ConnectTimeout)
	}

	if _, err := log.ParseLevel(c.Logger.Level); err != nil {
		return err
	}

	switch c.Logger.Format {
	case "json", "text":
	default:
		return fmt.Errorf("unsupported log format %q, must be one of json or text", c.Logger.Format)
	}

	return nil
}

// ValidateProvision checks the settings of the provision command. Resolving
// the interval token is left to the partition package.
func (c Configuration) ValidateProvision() error {
	if strings.TrimSpace(c.Table) == "" {
		return ErrMissingTable
	}

	if strings.TrimSpace(c.Interval) == "" {
		return ErrMissingInterval
	}

	if c.Premake < 1 {
		return ErrInvalidPremake
	}

	return nil
}
