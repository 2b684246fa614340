package datastore

import (
	"errors"

	"github.com/jobinau/pg-partmaint/pkg/partition"
)

var (
	ErrTableNotPartitioned   = errors.New("table is not partitioned or does not exist")
	ErrCompositePartitionKey = errors.New("table is partitioned on more than one column")
	ErrUnsupportedStrategy   = errors.New("only range and list partitioned tables are supported")
	ErrNoBoundaryFound       = errors.New("table has no bounded partition to extrapolate from")
	ErrUnknownTimeZone       = errors.New("session time zone is not a known location")
)

type PartitionStrategy string

const (
	RangeStrategy PartitionStrategy = "r"
	ListStrategy  PartitionStrategy = "l"
	HashStrategy  PartitionStrategy = "h"
)

func (s PartitionStrategy) String() string {
	switch s {
	case RangeStrategy:
		return "range"
	case ListStrategy:
		return "list"
	case HashStrategy:
		return "hash"
	default:
		return string(s)
	}
}

// PartitionedTable describes the parent table of a partition set.
type PartitionedTable struct {
	Table partition.Table `json:"table" db:"-"`

	// OID scopes catalog queries to this table and its children
	OID       uint32            `json:"oid" db:"oid"`
	KeyColumn string            `json:"key_column" db:"key_column"`
	KeyType   string            `json:"key_type" db:"key_type"`
	Strategy  PartitionStrategy `json:"strategy" db:"strategy"`
}

func (p *PartitionedTable) KeyClass() partition.KeyClass {
	return partition.ClassifyKeyType(p.KeyType)
}

// StatementError is returned when the database rejects a generated
// statement. Error returns the database message unchanged.
type StatementError struct {
	Statement partition.Statement
	SQLState  string
	Err       error
}

func (e *StatementError) Error() string {
	return e.Err.Error()
}

func (e *StatementError) Unwrap() error {
	return e.Err
}

// SQLState returns the SQLSTATE code carried by err, if any.
func SQLState(err error) string {
	var stmtErr *StatementError
	if errors.As(err, &stmtErr) {
		return stmtErr.SQLState
	}
	return ""
}
