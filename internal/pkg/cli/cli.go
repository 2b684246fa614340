package cli

import (
	"context"

	"github.com/spf13/cobra"
	flag "github.com/spf13/pflag"

	"github.com/jobinau/pg-partmaint/database"
	"github.com/jobinau/pg-partmaint/pkg/log"
)

// App is the core dependency of the entire binary.
type App struct {
	Version string
	DB      database.Database
	Logger  log.StdLogger
	NoColor bool
}

type PartMaintCli struct {
	cmd *cobra.Command
}

func NewCli(app *App) *PartMaintCli {
	cmd := &cobra.Command{
		Use:           "pg-partmaint",
		Version:       app.Version,
		Short:         "Premake range partitions for PostgreSQL partitioned tables",
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	return &PartMaintCli{cmd: cmd}
}

func (c *PartMaintCli) Flags() *flag.FlagSet {
	return c.cmd.PersistentFlags()
}

func (c *PartMaintCli) PersistentPreRunE(fn func(*cobra.Command, []string) error) {
	c.cmd.PersistentPreRunE = fn
}

func (c *PartMaintCli) AddCommand(subCmd *cobra.Command) {
	c.cmd.AddCommand(subCmd)
}

func (c *PartMaintCli) ExecuteContext(ctx context.Context) error {
	return c.cmd.ExecuteContext(ctx)
}
