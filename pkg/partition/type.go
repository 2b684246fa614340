package partition

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/lib/pq"
)

// DefaultSchema is used when a table name is given without a schema qualifier.
const DefaultSchema = "public"

// Delimiter terminates a statement when it is displayed or written to a script.
const Delimiter = ";"

// partitionNamingPattern is <table>_p<suffix>
const partitionNamingPattern = "%s_p%s"

var (
	ErrInvalidTableName     = errors.New("table name must be in schema.tablename format")
	ErrInvalidCount         = errors.New("partition count must be at least 1")
	ErrBoundaryOverflow     = errors.New("partition boundary overflows int64")
	ErrIntervalKindMismatch = errors.New("boundary kind does not match the interval kind")
	ErrUnsupportedKeyType   = errors.New("unsupported partition key type")
)

// Table identifies a relation by schema and name.
type Table struct {
	Schema string `json:"schema"`
	Name   string `json:"name"`
}

// ParseTable parses "schema.table" or "table". The schema defaults to public.
func ParseTable(s string) (Table, error) {
	s = strings.TrimSpace(s)
	parts := strings.Split(s, ".")

	switch len(parts) {
	case 1:
		if parts[0] == "" {
			return Table{}, fmt.Errorf("%w: %q", ErrInvalidTableName, s)
		}
		return Table{Schema: DefaultSchema, Name: parts[0]}, nil
	case 2:
		if parts[0] == "" || parts[1] == "" {
			return Table{}, fmt.Errorf("%w: %q", ErrInvalidTableName, s)
		}
		return Table{Schema: parts[0], Name: parts[1]}, nil
	default:
		return Table{}, fmt.Errorf("%w: %q", ErrInvalidTableName, s)
	}
}

func (t Table) String() string {
	return t.Schema + "." + t.Name
}

// Quoted renders the qualified name as a SQL identifier pair.
func (t Table) Quoted() string {
	return pq.QuoteIdentifier(t.Schema) + "." + pq.QuoteIdentifier(t.Name)
}

// Child returns the table holding the partition with the given suffix.
func (t Table) Child(suffix string) Table {
	return Table{Schema: t.Schema, Name: fmt.Sprintf(partitionNamingPattern, t.Name, suffix)}
}

type BoundaryKind int

const (
	NumericBoundary BoundaryKind = iota + 1
	TemporalBoundary
)

func (k BoundaryKind) String() string {
	switch k {
	case NumericBoundary:
		return "numeric"
	case TemporalBoundary:
		return "temporal"
	default:
		return "unknown"
	}
}

// Boundary is a partition bound value. Exactly one of Int or Time is
// meaningful, selected by Kind. Date and timestamp values are kept on the UTC
// wall clock; timestamptz values carry the session location.
type Boundary struct {
	Kind BoundaryKind `json:"kind"`
	Int  int64        `json:"int,omitempty"`
	Time time.Time    `json:"time,omitempty"`
}

func NumericValue(v int64) Boundary {
	return Boundary{Kind: NumericBoundary, Int: v}
}

// TemporalValue keeps the wall clock of t and drops its location.
func TemporalValue(t time.Time) Boundary {
	return Boundary{
		Kind: TemporalBoundary,
		Time: time.Date(t.Year(), t.Month(), t.Day(), t.Hour(), t.Minute(), t.Second(), t.Nanosecond(), time.UTC),
	}
}

// ZonedValue keeps the instant of t and moves it into loc, so calendar
// steps land on the day and month starts of loc.
func ZonedValue(t time.Time, loc *time.Location) Boundary {
	return Boundary{Kind: TemporalBoundary, Time: t.In(loc)}
}

func (b Boundary) IsZero() bool {
	return b.Kind == 0
}

func (b Boundary) Equal(o Boundary) bool {
	if b.Kind != o.Kind {
		return false
	}

	if b.Kind == TemporalBoundary {
		return b.Time.Equal(o.Time)
	}

	return b.Int == o.Int
}

func (b Boundary) Before(o Boundary) bool {
	if b.Kind == TemporalBoundary {
		return b.Time.Before(o.Time)
	}
	return b.Int < o.Int
}

func (b Boundary) String() string {
	switch b.Kind {
	case NumericBoundary:
		return strconv.FormatInt(b.Int, 10)
	case TemporalBoundary:
		return b.Time.Format(time.DateTime)
	default:
		return ""
	}
}

// Definition describes one partition to be created.
type Definition struct {
	// Ordinal is the 0-based position within the current run
	Ordinal int `json:"ordinal"`

	Lower Boundary `json:"lower"`

	// Upper is exclusive
	Upper Boundary `json:"upper"`

	Name Table `json:"name"`
}

// Statement is a rendered partition creation statement waiting to be displayed or executed.
type Statement struct {
	Table     string `json:"table"`
	Partition string `json:"partition"`
	SQL       string `json:"sql"`
}

// String returns the statement terminated with the delimiter.
func (s Statement) String() string {
	return s.SQL + Delimiter
}
