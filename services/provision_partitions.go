package services

import (
	"context"
	"fmt"

	"github.com/jobinau/pg-partmaint/datastore"
	"github.com/jobinau/pg-partmaint/pkg/log"
	"github.com/jobinau/pg-partmaint/pkg/partition"
)

// ProvisionPlan is the outcome of measuring a partition set against the
// premake target.
type ProvisionPlan struct {
	Table       *datastore.PartitionedTable
	Interval    partition.IntervalSpec
	EmptyCount  int
	Premake     int
	Required    int
	MaxBoundary partition.Boundary
	Definitions []partition.Definition
	Statements  []partition.Statement
}

// Sufficient reports whether enough spare partitions already exist.
func (p *ProvisionPlan) Sufficient() bool {
	return p.Required == 0
}

type ProvisionPartitionsService struct {
	PartitionRepo datastore.PartitionRepository
	Logger        log.StdLogger

	Table     partition.Table
	Interval  partition.IntervalSpec
	Premake   int
	AppendSQL string
}

func (p *ProvisionPartitionsService) Run(ctx context.Context) (*ProvisionPlan, error) {
	if p.Premake < 1 {
		return nil, &ServiceError{ErrMsg: "invalid premake", Err: partition.ErrInvalidCount}
	}

	pt, err := p.PartitionRepo.LoadPartitionedTable(ctx, p.Table)
	if err != nil {
		return nil, &ServiceError{ErrMsg: "failed to load partitioned table", Err: err}
	}

	p.Logger.WithFields(log.Fields{
		"table":      pt.Table.String(),
		"key_column": pt.KeyColumn,
		"key_type":   pt.KeyType,
		"strategy":   pt.Strategy.String(),
	}).Debug("loaded partition key")

	if err = checkIntervalKey(p.Interval, pt.KeyType); err != nil {
		return nil, &ServiceError{ErrMsg: "cannot provision partitions", Err: err}
	}

	empty, err := p.PartitionRepo.CountEmptyPartitions(ctx, pt)
	if err != nil {
		return nil, &ServiceError{ErrMsg: "failed to count empty partitions", Err: err}
	}

	plan := &ProvisionPlan{
		Table:      pt,
		Interval:   p.Interval,
		EmptyCount: empty,
		Premake:    p.Premake,
	}

	if empty >= p.Premake {
		return plan, nil
	}

	plan.Required = p.Premake - empty

	plan.MaxBoundary, err = p.PartitionRepo.FindMaxBoundary(ctx, pt, p.Interval)
	if err != nil {
		return nil, &ServiceError{ErrMsg: "failed to find the highest partition boundary", Err: err}
	}

	plan.Definitions, err = partition.Calculate(pt.Table, plan.MaxBoundary, p.Interval, plan.Required)
	if err != nil {
		return nil, &ServiceError{ErrMsg: "failed to calculate partition boundaries", Err: err}
	}

	plan.Statements, err = partition.GenerateDDL(pt.Table, pt.KeyType, plan.Definitions, p.AppendSQL)
	if err != nil {
		return nil, &ServiceError{ErrMsg: "failed to generate partition ddl", Err: err}
	}

	p.Logger.WithFields(log.Fields{
		"table":        pt.Table.String(),
		"empty":        empty,
		"premake":      p.Premake,
		"required":     plan.Required,
		"max_boundary": plan.MaxBoundary.String(),
	}).Info("planned new partitions")

	return plan, nil
}

// checkIntervalKey rejects intervals whose boundaries cannot be written for
// the key type: numeric steps need an integer key, calendar units a date or
// timestamp key, and hourly steps a timestamp key.
func checkIntervalKey(spec partition.IntervalSpec, keyType string) error {
	class := partition.ClassifyKeyType(keyType)
	if class == partition.UnsupportedKey {
		return fmt.Errorf("%w: %q", partition.ErrUnsupportedKeyType, keyType)
	}

	if spec.IsNumeric() {
		if class != partition.IntegerKey {
			return fmt.Errorf("%w: numeric interval %s on %s key", ErrIntervalKeyMismatch, spec, keyType)
		}
		return nil
	}

	if !class.IsTemporal() {
		return fmt.Errorf("%w: interval %s on %s key", ErrIntervalKeyMismatch, spec.Keyword, keyType)
	}

	if class == partition.DateKey && spec.Unit == partition.UnitHour {
		return fmt.Errorf("%w: interval %s on %s key", ErrIntervalKeyMismatch, spec.Keyword, keyType)
	}

	return nil
}
