package hooks

import (
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/jobinau/pg-partmaint/config"
	"github.com/jobinau/pg-partmaint/database/postgres"
	"github.com/jobinau/pg-partmaint/internal/pkg/cli"
	"github.com/jobinau/pg-partmaint/pkg/log"
	"github.com/jobinau/pg-partmaint/pkg/partition"
)

func PreRun(app *cli.App, db *postgres.Postgres) func(cmd *cobra.Command, args []string) error {
	return func(cmd *cobra.Command, args []string) error {
		cfgPath, err := cmd.Flags().GetString("config")
		if err != nil {
			return err
		}

		err = config.LoadConfig(cfgPath)
		if err != nil {
			return err
		}

		// Override with CLI Flags
		cliConfig, err := buildCliConfiguration(cmd)
		if err != nil {
			return err
		}

		if err = config.Override(cliConfig); err != nil {
			return err
		}

		cfg, err := config.Get()
		if err != nil {
			return err
		}

		if err = cfg.Validate(); err != nil {
			return err
		}

		lo, err := newLogger(cfg.Logger)
		if err != nil {
			return err
		}

		app.Logger = lo
		app.NoColor = cfg.NoColor

		if shouldCheckProvision(cmd) {
			if err = checkProvision(cfg); err != nil {
				return err
			}
		}

		postgresDB, err := postgres.NewDB(cfg)
		if err != nil {
			return err
		}

		*db = *postgresDB
		app.DB = postgresDB

		return nil
	}
}

func newLogger(c config.LoggerConfiguration) (*log.Logger, error) {
	lvl, err := log.ParseLevel(c.Level)
	if err != nil {
		return nil, err
	}

	lo := log.NewLogger(os.Stderr)
	lo.SetLevel(lvl)

	if err = lo.SetFormat(c.Format); err != nil {
		return nil, err
	}

	return lo, nil
}

// checkProvision rejects bad provision settings before any connection is made.
func checkProvision(cfg config.Configuration) error {
	if err := cfg.ValidateProvision(); err != nil {
		return err
	}

	if _, err := partition.ParseTable(cfg.Table); err != nil {
		return err
	}

	if _, err := partition.ResolveInterval(cfg.Interval); err != nil {
		return err
	}

	return nil
}

// buildCliConfiguration collects the flags the user actually set, so flag
// defaults never mask values from the file or the environment.
func buildCliConfiguration(cmd *cobra.Command) (*config.Configuration, error) {
	c := &config.Configuration{}

	// PARTMAINT_DB_DRIVER
	driver, err := stringFlag(cmd, "db-driver")
	if err != nil {
		return nil, err
	}
	c.Database.Driver = config.DatabaseProvider(driver)

	// PARTMAINT_DB_DSN
	if c.Database.Dsn, err = stringFlag(cmd, "connection"); err != nil {
		return nil, err
	}

	// PARTMAINT_DB_CONNECT_TIMEOUT
	if changed(cmd, "connect-timeout") {
		var timeout time.Duration
		if timeout, err = cmd.Flags().GetDuration("connect-timeout"); err != nil {
			return nil, err
		}
		c.Database.ConnectTimeout = config.Duration(timeout)
	}

	// PARTMAINT_LOGGER_LEVEL
	if c.Logger.Level, err = stringFlag(cmd, "log-level"); err != nil {
		return nil, err
	}

	// PARTMAINT_LOGGER_FORMAT
	if c.Logger.Format, err = stringFlag(cmd, "log-format"); err != nil {
		return nil, err
	}

	if c.NoColor, err = boolFlag(cmd, "no-color"); err != nil {
		return nil, err
	}

	if c.Table, err = stringFlag(cmd, "table"); err != nil {
		return nil, err
	}

	if c.Interval, err = stringFlag(cmd, "interval"); err != nil {
		return nil, err
	}

	if changed(cmd, "premake") {
		if c.Premake, err = cmd.Flags().GetUint("premake"); err != nil {
			return nil, err
		}
		if c.Premake == 0 {
			return nil, config.ErrInvalidPremake
		}
	}

	if c.AppendSQL, err = stringFlag(cmd, "append"); err != nil {
		return nil, err
	}

	if c.DDLFile, err = stringFlag(cmd, "ddlfile"); err != nil {
		return nil, err
	}

	if c.ErrorLog, err = stringFlag(cmd, "errorlog"); err != nil {
		return nil, err
	}

	if c.MetricsFile, err = stringFlag(cmd, "metrics-file"); err != nil {
		return nil, err
	}

	if c.DisplayDDL, err = boolFlag(cmd, "displayddl"); err != nil {
		return nil, err
	}

	if c.Execute, err = boolFlag(cmd, "execute"); err != nil {
		return nil, err
	}

	if c.QuitOnError, err = boolFlag(cmd, "quitonerror"); err != nil {
		return nil, err
	}

	if c.FailOnError, err = boolFlag(cmd, "fail-on-error"); err != nil {
		return nil, err
	}

	return c, nil
}

func changed(cmd *cobra.Command, name string) bool {
	f := cmd.Flags().Lookup(name)
	return f != nil && f.Changed
}

func stringFlag(cmd *cobra.Command, name string) (string, error) {
	if !changed(cmd, name) {
		return "", nil
	}
	return cmd.Flags().GetString(name)
}

func boolFlag(cmd *cobra.Command, name string) (bool, error) {
	if !changed(cmd, name) {
		return false, nil
	}
	return cmd.Flags().GetBool(name)
}

func shouldCheckProvision(cmd *cobra.Command) bool {
	if cmd.Annotations == nil {
		return false
	}

	return cmd.Annotations["CheckProvision"] == "true"
}
