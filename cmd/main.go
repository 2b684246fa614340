package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	_ "time/tzdata"

	partmaint "github.com/jobinau/pg-partmaint"
	"github.com/jobinau/pg-partmaint/cmd/hooks"
	"github.com/jobinau/pg-partmaint/cmd/provision"
	"github.com/jobinau/pg-partmaint/cmd/version"
	"github.com/jobinau/pg-partmaint/config"
	"github.com/jobinau/pg-partmaint/database/postgres"
	"github.com/jobinau/pg-partmaint/internal/pkg/cli"
	"github.com/jobinau/pg-partmaint/pkg/log"
)

func main() {
	err := os.Setenv("TZ", "") // Use UTC by default :)
	if err != nil {
		log.Fatal("failed to set env - ", err)
	}

	app := &cli.App{}
	app.Version = partmaint.GetVersion()
	db := &postgres.Postgres{}

	c := cli.NewCli(app)

	var configFile string
	var dbDriver string
	var connectTimeout = config.DefaultConnectTimeout.Duration()
	var logLevel string
	var logFormat string
	var noColor bool

	c.Flags().StringVar(&configFile, "config", "", "Configuration file for pg-partmaint")
	c.Flags().StringVar(&dbDriver, "db-driver", string(config.PostgresDatabaseProvider), "Database driver: postgres (lib/pq) or pgx")
	c.Flags().DurationVar(&connectTimeout, "connect-timeout", connectTimeout, "Time allowed to establish the database connection")
	c.Flags().StringVar(&logLevel, "log-level", config.DefaultLogLevel, "Log level: debug, info, warn, error")
	c.Flags().StringVar(&logFormat, "log-format", config.DefaultLogFormat, "Log format: text or json")
	c.Flags().BoolVar(&noColor, "no-color", false, "Disable colors in the execution report")

	c.PersistentPreRunE(hooks.PreRun(app, db))

	c.AddCommand(provision.AddProvisionCommand(app))
	c.AddCommand(version.AddVersionCommand())

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)

	err = c.ExecuteContext(ctx)
	stop()

	if cErr := db.Close(); cErr != nil {
		log.Error("failed to close database - ", cErr)
	}

	if err != nil {
		log.Fatal(err)
	}
}
