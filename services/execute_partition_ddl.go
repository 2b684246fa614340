package services

import (
	"context"
	"fmt"

	"go.uber.org/multierr"

	"github.com/jobinau/pg-partmaint/datastore"
	"github.com/jobinau/pg-partmaint/pkg/log"
	"github.com/jobinau/pg-partmaint/pkg/partition"
)

// FailureRecorder keeps a durable trace of statements the database rejected.
type FailureRecorder interface {
	RecordFailure(stmt partition.Statement, err error) error
}

type ExecutionOutcome struct {
	Statement partition.Statement
	SQLState  string
	Err       error
}

func (o ExecutionOutcome) Succeeded() bool {
	return o.Err == nil
}

type ExecutionReport struct {
	Outcomes []ExecutionOutcome

	// Aborted is set when quit-on-error stopped the run early
	Aborted bool

	// Skipped counts statements never attempted because of the abort
	Skipped int
}

func (r *ExecutionReport) Succeeded() []ExecutionOutcome {
	var out []ExecutionOutcome
	for _, o := range r.Outcomes {
		if o.Succeeded() {
			out = append(out, o)
		}
	}
	return out
}

func (r *ExecutionReport) Failed() []ExecutionOutcome {
	var out []ExecutionOutcome
	for _, o := range r.Outcomes {
		if !o.Succeeded() {
			out = append(out, o)
		}
	}
	return out
}

// Err combines every statement failure, or returns nil.
func (r *ExecutionReport) Err() error {
	var err error
	for _, o := range r.Failed() {
		err = multierr.Append(err, fmt.Errorf("%s: %w", o.Statement.Partition, o.Err))
	}
	return err
}

type ExecutePartitionDDLService struct {
	PartitionRepo datastore.PartitionRepository
	Logger        log.StdLogger

	// Recorder is optional
	Recorder FailureRecorder

	Statements  []partition.Statement
	QuitOnError bool
}

// Run executes the statements in order, each committed on its own. Failures
// are recorded and execution moves on unless QuitOnError is set.
func (e *ExecutePartitionDDLService) Run(ctx context.Context) (*ExecutionReport, error) {
	report := &ExecutionReport{Outcomes: make([]ExecutionOutcome, 0, len(e.Statements))}

	for i, stmt := range e.Statements {
		if err := ctx.Err(); err != nil {
			report.Aborted = true
			report.Skipped = len(e.Statements) - i
			return report, err
		}

		err := e.PartitionRepo.ExecStatement(ctx, stmt)
		if err == nil {
			e.Logger.WithFields(log.Fields{"partition": stmt.Partition}).Info("created partition")
			report.Outcomes = append(report.Outcomes, ExecutionOutcome{Statement: stmt})
			continue
		}

		outcome := ExecutionOutcome{Statement: stmt, SQLState: datastore.SQLState(err), Err: err}
		report.Outcomes = append(report.Outcomes, outcome)

		e.Logger.WithFields(log.Fields{
			"partition": stmt.Partition,
			"sql_state": outcome.SQLState,
		}).WithError(err).Error("failed to create partition")

		if e.Recorder != nil {
			if rErr := e.Recorder.RecordFailure(stmt, err); rErr != nil {
				e.Logger.WithError(rErr).Warn("failed to write error log entry")
			}
		}

		if e.QuitOnError {
			report.Aborted = true
			report.Skipped = len(e.Statements) - i - 1
			return report, fmt.Errorf("%w: %w", ErrExecutionAborted, err)
		}
	}

	return report, nil
}
