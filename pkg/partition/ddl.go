package partition

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/lib/pq"
)

const createRangePartition = `CREATE TABLE %s PARTITION OF %s FOR VALUES FROM (%s) TO (%s)`

const (
	dateLayout        = "2006-01-02"
	timestampLayout   = "2006-01-02 15:04:05.999999"
	timestampTZLayout = "2006-01-02 15:04:05.999999-07:00"
)

// KeyClass groups postgres type names by how their bounds are written.
type KeyClass int

const (
	UnsupportedKey KeyClass = iota
	IntegerKey
	DateKey
	TimestampKey
	TimestampTZKey
)

// ClassifyKeyType maps a pg_type.typname to a KeyClass.
func ClassifyKeyType(typname string) KeyClass {
	switch strings.ToLower(typname) {
	case "int2", "int4", "int8", "smallint", "integer", "bigint", "numeric":
		return IntegerKey
	case "date":
		return DateKey
	case "timestamp":
		return TimestampKey
	case "timestamptz":
		return TimestampTZKey
	default:
		return UnsupportedKey
	}
}

func (k KeyClass) IsTemporal() bool {
	return k == DateKey || k == TimestampKey || k == TimestampTZKey
}

// GenerateDDL renders one CREATE TABLE ... PARTITION OF statement per
// definition. appendSQL is attached verbatim.
func GenerateDDL(parent Table, keyType string, defs []Definition, appendSQL string) ([]Statement, error) {
	class := ClassifyKeyType(keyType)
	if class == UnsupportedKey {
		return nil, fmt.Errorf("%w: %q", ErrUnsupportedKeyType, keyType)
	}

	appendSQL = strings.TrimSpace(appendSQL)

	stmts := make([]Statement, 0, len(defs))
	for _, def := range defs {
		lower, err := literal(class, def.Lower)
		if err != nil {
			return nil, err
		}

		upper, err := literal(class, def.Upper)
		if err != nil {
			return nil, err
		}

		sql := fmt.Sprintf(createRangePartition, def.Name.Quoted(), parent.Quoted(), lower, upper)
		if appendSQL != "" {
			sql += " " + appendSQL
		}

		stmts = append(stmts, Statement{
			Table:     parent.String(),
			Partition: def.Name.String(),
			SQL:       sql,
		})
	}

	return stmts, nil
}

func literal(class KeyClass, b Boundary) (string, error) {
	switch {
	case class == IntegerKey && b.Kind == NumericBoundary:
		return strconv.FormatInt(b.Int, 10), nil
	case class.IsTemporal() && b.Kind == TemporalBoundary:
		return pq.QuoteLiteral(formatTemporal(class, b)), nil
	default:
		return "", fmt.Errorf("%w: %s bound for key class %d", ErrIntervalKindMismatch, b.Kind, class)
	}
}

func formatTemporal(class KeyClass, b Boundary) string {
	switch class {
	case DateKey:
		return b.Time.Format(dateLayout)
	case TimestampTZKey:
		return b.Time.Format(timestampTZLayout)
	default:
		return b.Time.Format(timestampLayout)
	}
}
