package partition

import (
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"
)

// Calculate extrapolates count partitions from max, the highest upper bound
// currently attached to the table. Every bound is computed from max directly
// so calendar clamping is applied the same way to all of them.
func Calculate(table Table, max Boundary, spec IntervalSpec, count int) ([]Definition, error) {
	if count < 1 {
		return nil, fmt.Errorf("%w: %d", ErrInvalidCount, count)
	}

	if max.Kind != spec.BoundaryKind() {
		return nil, fmt.Errorf("%w: %s boundary with %s interval", ErrIntervalKindMismatch, max.Kind, spec)
	}

	defs := make([]Definition, 0, count)

	lower := max
	for b := 0; b < count; b++ {
		upper, err := spec.Advance(max, int64(b+1))
		if err != nil {
			return nil, err
		}

		defs = append(defs, Definition{
			Ordinal: b,
			Lower:   lower,
			Upper:   upper,
			Name:    table.Child(spec.Suffix(upper)),
		})

		lower = upper
	}

	return defs, nil
}

// Advance returns base moved forward by n intervals.
func (s IntervalSpec) Advance(base Boundary, n int64) (Boundary, error) {
	if base.Kind != s.BoundaryKind() {
		return Boundary{}, fmt.Errorf("%w: %s boundary with %s interval", ErrIntervalKindMismatch, base.Kind, s)
	}

	if s.IsNumeric() {
		if n < 0 || (n > 0 && s.Step > math.MaxInt64/n) {
			return Boundary{}, fmt.Errorf("%w: %d + %d*%d", ErrBoundaryOverflow, base.Int, s.Step, n)
		}

		delta := s.Step * n
		if base.Int > math.MaxInt64-delta {
			return Boundary{}, fmt.Errorf("%w: %d + %d*%d", ErrBoundaryOverflow, base.Int, s.Step, n)
		}
		return NumericValue(base.Int + delta), nil
	}

	// arithmetic runs in the location of base, like timestamptz + interval
	t := base.Time
	steps := int(n) * s.Count

	switch s.Unit {
	case UnitYear:
		t = addMonths(t, 12*steps)
	case UnitMonth:
		t = addMonths(t, steps)
	case UnitWeek:
		t = t.AddDate(0, 0, 7*steps)
	case UnitDay:
		t = t.AddDate(0, 0, steps)
	case UnitHour:
		t = t.Add(time.Duration(steps) * time.Hour)
	default:
		return Boundary{}, fmt.Errorf("unknown calendar unit %d", s.Unit)
	}

	return Boundary{Kind: TemporalBoundary, Time: t}, nil
}

// Suffix formats a boundary for use in a partition name.
func (s IntervalSpec) Suffix(b Boundary) string {
	if b.Kind == NumericBoundary {
		return strings.Replace(strconv.FormatInt(b.Int, 10), "-", "m", 1)
	}
	return b.Time.Format(s.Granularity.layout())
}

// addMonths adds n months and clamps the day to the end of the target month,
// which is how postgres adds month intervals to dates.
func addMonths(t time.Time, n int) time.Time {
	y, m, d := t.Date()

	months := int(m) - 1 + n
	y += months / 12
	months %= 12
	if months < 0 {
		months += 12
		y--
	}

	month := time.Month(months + 1)
	if last := daysIn(y, month); d > last {
		d = last
	}

	return time.Date(y, month, d, t.Hour(), t.Minute(), t.Second(), t.Nanosecond(), t.Location())
}

func daysIn(year int, month time.Month) int {
	return time.Date(year, month+1, 0, 0, 0, 0, 0, time.UTC).Day()
}
