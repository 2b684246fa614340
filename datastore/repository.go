package datastore

import (
	"context"

	"github.com/jobinau/pg-partmaint/pkg/partition"
)

type PartitionRepository interface {
	// LoadPartitionedTable resolves the partition key of a table.
	LoadPartitionedTable(ctx context.Context, table partition.Table) (*PartitionedTable, error)

	// CountEmptyPartitions counts direct children with no live rows.
	CountEmptyPartitions(ctx context.Context, table *PartitionedTable) (int, error)

	// FindMaxBoundary returns the highest upper bound among the non-default children.
	FindMaxBoundary(ctx context.Context, table *PartitionedTable, interval partition.IntervalSpec) (partition.Boundary, error)

	// ExecStatement runs a single statement in its own transaction.
	ExecStatement(ctx context.Context, stmt partition.Statement) error
}
