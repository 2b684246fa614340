package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"

	"github.com/jobinau/pg-partmaint/database"
	"github.com/jobinau/pg-partmaint/datastore"
	"github.com/jobinau/pg-partmaint/pkg/partition"
)

const (
	fetchPartitionKey = `
	SELECT c.oid, a.attname AS key_column, t.typname AS key_type,
	p.partstrat::text AS strategy, p.partnatts AS key_count
	FROM pg_catalog.pg_partitioned_table p
	JOIN pg_catalog.pg_class c ON c.oid = p.partrelid
	JOIN pg_catalog.pg_namespace n ON n.oid = c.relnamespace
	JOIN pg_catalog.pg_attribute a ON a.attrelid = c.oid
	JOIN pg_catalog.pg_type t ON t.oid = a.atttypid
	WHERE a.attnum IN (SELECT unnest(p.partattrs))
	AND n.nspname = $1 AND c.relname = $2
	ORDER BY a.attnum;
	`

	countEmptyPartitions = `
	SELECT count(*)
	FROM pg_catalog.pg_inherits i
	JOIN pg_catalog.pg_stat_user_tables s ON s.relid = i.inhrelid
	WHERE i.inhparent = $1 AND s.n_live_tup = 0;
	`

	// the upper bound of every bounded child, as text without quotes
	baseUpperBounds = `
	FROM (
		SELECT btrim((regexp_match(pg_catalog.pg_get_expr(c.relpartbound, c.oid), 'TO \((.+)\)$'))[1], '''') AS upper_bound
		FROM pg_catalog.pg_inherits i
		JOIN pg_catalog.pg_class c ON c.oid = i.inhrelid
		WHERE i.inhparent = $1
		AND c.relpartbound IS NOT NULL
		AND pg_catalog.pg_get_expr(c.relpartbound, c.oid) <> 'DEFAULT'
	) b
	WHERE b.upper_bound IS NOT NULL
	AND b.upper_bound NOT IN ('MINVALUE', 'MAXVALUE');
	`

	fetchMaxNumericBoundary     = `SELECT max(b.upper_bound::numeric)::bigint` + baseUpperBounds
	fetchMaxTimestampBoundary   = `SELECT max(b.upper_bound::timestamp)` + baseUpperBounds
	fetchMaxTimestampTZBoundary = `SELECT max(b.upper_bound::timestamptz) AS max_bound, current_setting('TimeZone') AS time_zone` + baseUpperBounds
)

type partitionKey struct {
	OID       uint32 `db:"oid"`
	KeyColumn string `db:"key_column"`
	KeyType   string `db:"key_type"`
	Strategy  string `db:"strategy"`
	KeyCount  int    `db:"key_count"`
}

type zonedBoundary struct {
	MaxBound sql.NullTime `db:"max_bound"`
	TimeZone string       `db:"time_zone"`
}

type partitionRepo struct {
	db *sqlx.DB
}

func NewPartitionRepo(db database.Database) datastore.PartitionRepository {
	return &partitionRepo{db: db.GetDB()}
}

func (p *partitionRepo) LoadPartitionedTable(ctx context.Context, table partition.Table) (*datastore.PartitionedTable, error) {
	var keys []partitionKey
	err := p.db.SelectContext(ctx, &keys, fetchPartitionKey, table.Schema, table.Name)
	if err != nil {
		return nil, err
	}

	if len(keys) == 0 {
		return nil, fmt.Errorf("%w: %s", datastore.ErrTableNotPartitioned, table)
	}

	key := keys[0]
	if len(keys) > 1 || key.KeyCount > 1 {
		return nil, fmt.Errorf("%w: %s", datastore.ErrCompositePartitionKey, table)
	}

	strategy := datastore.PartitionStrategy(key.Strategy)
	if strategy == datastore.HashStrategy {
		return nil, fmt.Errorf("%w: %s is %s partitioned", datastore.ErrUnsupportedStrategy, table, strategy)
	}

	return &datastore.PartitionedTable{
		Table:     table,
		OID:       key.OID,
		KeyColumn: key.KeyColumn,
		KeyType:   key.KeyType,
		Strategy:  strategy,
	}, nil
}

func (p *partitionRepo) CountEmptyPartitions(ctx context.Context, table *datastore.PartitionedTable) (int, error) {
	var count int
	err := p.db.GetContext(ctx, &count, countEmptyPartitions, table.OID)
	if err != nil {
		return 0, err
	}

	return count, nil
}

func (p *partitionRepo) FindMaxBoundary(ctx context.Context, table *datastore.PartitionedTable, interval partition.IntervalSpec) (partition.Boundary, error) {
	if interval.IsNumeric() {
		var max sql.NullInt64
		err := p.db.GetContext(ctx, &max, fetchMaxNumericBoundary, table.OID)
		if err != nil {
			return partition.Boundary{}, err
		}

		if !max.Valid {
			return partition.Boundary{}, fmt.Errorf("%w: %s", datastore.ErrNoBoundaryFound, table.Table)
		}

		return partition.NumericValue(max.Int64), nil
	}

	if table.KeyClass() == partition.TimestampTZKey {
		return p.findMaxZonedBoundary(ctx, table)
	}

	var max sql.NullTime
	err := p.db.GetContext(ctx, &max, fetchMaxTimestampBoundary, table.OID)
	if err != nil {
		return partition.Boundary{}, err
	}

	if !max.Valid {
		return partition.Boundary{}, fmt.Errorf("%w: %s", datastore.ErrNoBoundaryFound, table.Table)
	}

	return partition.TemporalValue(max.Time), nil
}

// findMaxZonedBoundary returns the highest timestamptz bound in the session
// time zone, which is the zone postgres uses for timestamptz + interval.
func (p *partitionRepo) findMaxZonedBoundary(ctx context.Context, table *datastore.PartitionedTable) (partition.Boundary, error) {
	var zb zonedBoundary
	err := p.db.GetContext(ctx, &zb, fetchMaxTimestampTZBoundary, table.OID)
	if err != nil {
		return partition.Boundary{}, err
	}

	if !zb.MaxBound.Valid {
		return partition.Boundary{}, fmt.Errorf("%w: %s", datastore.ErrNoBoundaryFound, table.Table)
	}

	loc, err := time.LoadLocation(zb.TimeZone)
	if err != nil {
		return partition.Boundary{}, fmt.Errorf("%w: %q: %v", datastore.ErrUnknownTimeZone, zb.TimeZone, err)
	}

	return partition.ZonedValue(zb.MaxBound.Time, loc), nil
}

// ExecStatement commits each statement on its own so earlier partitions
// survive a later failure.
func (p *partitionRepo) ExecStatement(ctx context.Context, stmt partition.Statement) error {
	tx, err := p.db.BeginTxx(ctx, &sql.TxOptions{})
	if err != nil {
		return &datastore.StatementError{Statement: stmt, SQLState: sqlState(err), Err: err}
	}

	_, err = tx.ExecContext(ctx, stmt.SQL)
	if err != nil {
		_ = tx.Rollback()
		return &datastore.StatementError{Statement: stmt, SQLState: sqlState(err), Err: err}
	}

	if err = tx.Commit(); err != nil {
		return &datastore.StatementError{Statement: stmt, SQLState: sqlState(err), Err: err}
	}

	return nil
}

// sqlState pulls the SQLSTATE code out of either driver's error type.
func sqlState(err error) string {
	var pqErr *pq.Error
	if errors.As(err, &pqErr) {
		return string(pqErr.Code)
	}

	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code
	}

	return ""
}
