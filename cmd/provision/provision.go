package provision

import (
	"fmt"

	"github.com/oklog/ulid/v2"
	"github.com/spf13/cobra"

	"github.com/jobinau/pg-partmaint/config"
	"github.com/jobinau/pg-partmaint/database/postgres"
	"github.com/jobinau/pg-partmaint/datastore"
	"github.com/jobinau/pg-partmaint/internal/pkg/cli"
	"github.com/jobinau/pg-partmaint/internal/pkg/metrics"
	"github.com/jobinau/pg-partmaint/internal/pkg/script"
	"github.com/jobinau/pg-partmaint/pkg/log"
	"github.com/jobinau/pg-partmaint/pkg/partition"
	"github.com/jobinau/pg-partmaint/services"
)

func AddProvisionCommand(a *cli.App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "provision",
		Short: "Create the partitions a table is missing",
		Long: "provision measures how many empty partitions a range partitioned table has left and " +
			"generates enough new ones, extrapolated from the highest existing bound, to restore the premake target",
		Example: `  pg-partmaint provision -c "host=db1 dbname=sales user=postgres" -t sales.orders -i monthly -p 6 --displayddl
  pg-partmaint provision -c "host=db1 dbname=sales" -t ledger -i 100000 -p 4 --ddlfile=ddl.sql --errorlog=error.log --execute --quitonerror`,
		Args: cobra.NoArgs,
		Annotations: map[string]string{
			"CheckProvision": "true",
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Get()
			if err != nil {
				return err
			}

			return runProvision(cmd, a, postgres.NewPartitionRepo(a.DB), cfg)
		},
	}

	cmd.Flags().StringP("connection", "c", "", "Connection string containing host, username, password etc")
	cmd.Flags().StringP("table", "t", "", "Table name in schema.tablename format")
	cmd.Flags().StringP("interval", "i", "", "Interval: yearly | quarterly | monthly | weekly | daily | hourly, or a numeric step")
	cmd.Flags().UintP("premake", "p", 0, "Number of empty partitions to keep ahead")
	cmd.Flags().String("append", "", "SQL appended to every generated statement, e.g. \"TABLESPACE fast_ssd\"")
	cmd.Flags().String("ddlfile", "", "Write the generated DDL to this SQL script")
	cmd.Flags().String("errorlog", "", "Write failed statements and their errors to this file")
	cmd.Flags().String("metrics-file", "", "Write run metrics in Prometheus text format to this file")
	cmd.Flags().Bool("displayddl", false, "Display the generated DDL on stdout")
	cmd.Flags().Bool("quitonerror", false, "Stop at the first statement that fails")
	cmd.Flags().Bool("execute", false, "Execute the generated DDL against the database")
	cmd.Flags().Bool("fail-on-error", false, "Exit non-zero when any statement failed")

	return cmd
}

// runProvision plans, writes and optionally executes the partitions of one
// table. The DDL file and error log are reset up front so neither outlives
// the run that produced it.
func runProvision(cmd *cobra.Command, a *cli.App, repo datastore.PartitionRepository, cfg config.Configuration) (err error) {
	table, err := partition.ParseTable(cfg.Table)
	if err != nil {
		return err
	}

	interval, err := partition.ResolveInterval(cfg.Interval)
	if err != nil {
		return err
	}

	runID := ulid.Make().String()
	ctx := log.NewContext(cmd.Context(), a.Logger, log.Fields{"run_id": runID, "table": table.String()})
	lo := log.FromContext(ctx)

	lo.WithFields(log.Fields{"interval": interval.String(), "premake": cfg.Premake}).Debug("provisioning partitions")

	m := metrics.New()
	if cfg.MetricsFile != "" {
		defer func() {
			m.ObserveResult(table.String(), err)
			if wErr := m.WriteTextfile(cfg.MetricsFile); wErr != nil {
				lo.WithError(wErr).Error("failed to write metrics file")
			}
		}()
	}

	hdr := script.Header{RunID: runID, Table: table.String(), Interval: interval.String()}
	if cfg.DDLFile != "" {
		if err = script.WriteFile(cfg.DDLFile, hdr, nil); err != nil {
			return fmt.Errorf("failed to write ddl file: %w", err)
		}
	}

	var recorder services.FailureRecorder
	if cfg.ErrorLog != "" {
		el, oErr := script.OpenErrorLog(cfg.ErrorLog)
		if oErr != nil {
			return fmt.Errorf("failed to open error log: %w", oErr)
		}
		defer func() {
			if cErr := el.Close(); cErr != nil {
				lo.WithError(cErr).Error("failed to close error log")
			}
		}()
		recorder = el
	}

	ps := services.ProvisionPartitionsService{
		PartitionRepo: repo,
		Logger:        lo,
		Table:         table,
		Interval:      interval,
		Premake:       int(cfg.Premake),
		AppendSQL:     cfg.AppendSQL,
	}

	plan, err := ps.Run(ctx)
	if err != nil {
		return err
	}

	m.ObservePlan(table.String(), plan)

	if plan.Sufficient() {
		lo.WithFields(log.Fields{"empty": plan.EmptyCount, "premake": plan.Premake}).Info("sufficient partitions")
		return nil
	}

	if cfg.DisplayDDL {
		if err = script.Print(cmd.OutOrStdout(), plan.Statements); err != nil {
			return err
		}
	}

	if cfg.DDLFile != "" {
		if err = script.WriteFile(cfg.DDLFile, hdr, plan.Statements); err != nil {
			return fmt.Errorf("failed to write ddl file: %w", err)
		}
		lo.Infof("wrote %d statement(s) to %s", len(plan.Statements), cfg.DDLFile)
	}

	if !cfg.Execute {
		lo.Info("execute is disabled, no partitions were created")
		return nil
	}

	es := services.ExecutePartitionDDLService{
		PartitionRepo: repo,
		Logger:        lo,
		Recorder:      recorder,
		Statements:    plan.Statements,
		QuitOnError:   cfg.QuitOnError,
	}

	report, err := es.Run(ctx)
	if report != nil {
		m.ObserveReport(table.String(), report)
		script.PrintReport(cmd.OutOrStdout(), report, a.NoColor)
	}

	if err != nil {
		return err
	}

	if failed := report.Failed(); cfg.FailOnError && len(failed) > 0 {
		return fmt.Errorf("%d of %d statements failed: %w", len(failed), len(plan.Statements), report.Err())
	}

	return nil
}
