package partition

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
)

var ErrInvalidInterval = errors.New("interval must be one of yearly, quarterly, monthly, weekly, daily, hourly or a positive integer")

type IntervalKind int

const (
	NumericInterval IntervalKind = iota + 1
	CalendarInterval
)

type CalendarUnit int

const (
	UnitYear CalendarUnit = iota + 1
	UnitMonth
	UnitWeek
	UnitDay
	UnitHour
)

func (u CalendarUnit) String() string {
	switch u {
	case UnitYear:
		return "year"
	case UnitMonth:
		return "month"
	case UnitWeek:
		return "week"
	case UnitDay:
		return "day"
	case UnitHour:
		return "hour"
	default:
		return "unknown"
	}
}

// Granularity decides how much of a date goes into a partition name.
type Granularity int

const (
	YearGranularity Granularity = iota + 1
	MonthGranularity
	DayGranularity
	HourGranularity
)

func (g Granularity) layout() string {
	switch g {
	case YearGranularity:
		return "2006"
	case MonthGranularity:
		return "2006_01"
	case DayGranularity:
		return "2006_01_02"
	default:
		return "2006_01_02_15"
	}
}

// IntervalSpec is the resolved form of the interval option.
type IntervalSpec struct {
	Kind IntervalKind

	// Step is set for numeric intervals
	Step int64

	// Unit, Count and Granularity are set for calendar intervals
	Unit        CalendarUnit
	Count       int
	Granularity Granularity

	// Keyword is the token the spec was resolved from
	Keyword string
}

var calendarIntervals = map[string]IntervalSpec{
	"yearly":    {Kind: CalendarInterval, Unit: UnitYear, Count: 1, Granularity: YearGranularity},
	"quarterly": {Kind: CalendarInterval, Unit: UnitMonth, Count: 3, Granularity: MonthGranularity},
	"monthly":   {Kind: CalendarInterval, Unit: UnitMonth, Count: 1, Granularity: MonthGranularity},
	"weekly":    {Kind: CalendarInterval, Unit: UnitWeek, Count: 1, Granularity: DayGranularity},
	"daily":     {Kind: CalendarInterval, Unit: UnitDay, Count: 1, Granularity: DayGranularity},
	"hourly":    {Kind: CalendarInterval, Unit: UnitHour, Count: 1, Granularity: HourGranularity},
}

// ResolveInterval maps an interval keyword or a numeric step to an IntervalSpec.
func ResolveInterval(token string) (IntervalSpec, error) {
	key := strings.ToLower(strings.TrimSpace(token))

	if spec, ok := calendarIntervals[key]; ok {
		spec.Keyword = key
		return spec, nil
	}

	step, err := strconv.ParseInt(key, 10, 64)
	if err != nil || step <= 0 {
		return IntervalSpec{}, fmt.Errorf("%w: %q", ErrInvalidInterval, token)
	}

	return IntervalSpec{Kind: NumericInterval, Step: step, Keyword: key}, nil
}

func (s IntervalSpec) IsNumeric() bool {
	return s.Kind == NumericInterval
}

func (s IntervalSpec) BoundaryKind() BoundaryKind {
	if s.IsNumeric() {
		return NumericBoundary
	}
	return TemporalBoundary
}

// String renders the interval the way postgres would spell it.
func (s IntervalSpec) String() string {
	if s.IsNumeric() {
		return strconv.FormatInt(s.Step, 10)
	}

	if s.Count == 1 {
		return fmt.Sprintf("1 %s", s.Unit)
	}
	return fmt.Sprintf("%d %ss", s.Count, s.Unit)
}
