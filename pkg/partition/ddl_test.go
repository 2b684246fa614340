package partition

import (
	"testing"
	"time"
	_ "time/tzdata"

	"github.com/stretchr/testify/require"
)

func TestGenerateDDL(t *testing.T) {
	berlin, err := time.LoadLocation("Europe/Berlin")
	require.NoError(t, err)

	monthly := IntervalSpec{Kind: CalendarInterval, Unit: UnitMonth, Count: 1, Granularity: MonthGranularity}
	numeric := IntervalSpec{Kind: NumericInterval, Step: 1000}

	tests := []struct {
		name      string
		parent    Table
		keyType   string
		max       Boundary
		interval  IntervalSpec
		appendSQL string
		want      []string
	}{
		{
			name:     "date key",
			parent:   Table{Schema: "public", Name: "orders"},
			keyType:  "date",
			max:      date(2024, time.January, 1),
			interval: monthly,
			want: []string{
				`CREATE TABLE "public"."orders_p2024_02" PARTITION OF "public"."orders" FOR VALUES FROM ('2024-01-01') TO ('2024-02-01')`,
				`CREATE TABLE "public"."orders_p2024_03" PARTITION OF "public"."orders" FOR VALUES FROM ('2024-02-01') TO ('2024-03-01')`,
			},
		},
		{
			name:     "timestamp key",
			parent:   Table{Schema: "sales", Name: "events"},
			keyType:  "timestamp",
			max:      date(2024, time.January, 1),
			interval: monthly,
			want: []string{
				`CREATE TABLE "sales"."events_p2024_02" PARTITION OF "sales"."events" FOR VALUES FROM ('2024-01-01 00:00:00') TO ('2024-02-01 00:00:00')`,
				`CREATE TABLE "sales"."events_p2024_03" PARTITION OF "sales"."events" FOR VALUES FROM ('2024-02-01 00:00:00') TO ('2024-03-01 00:00:00')`,
			},
		},
		{
			name:     "timestamptz key",
			parent:   Table{Schema: "sales", Name: "events"},
			keyType:  "timestamptz",
			max:      date(2024, time.January, 1),
			interval: monthly,
			want: []string{
				`CREATE TABLE "sales"."events_p2024_02" PARTITION OF "sales"."events" FOR VALUES FROM ('2024-01-01 00:00:00+00:00') TO ('2024-02-01 00:00:00+00:00')`,
				`CREATE TABLE "sales"."events_p2024_03" PARTITION OF "sales"."events" FOR VALUES FROM ('2024-02-01 00:00:00+00:00') TO ('2024-03-01 00:00:00+00:00')`,
			},
		},
		{
			name:     "timestamptz key in a zone with daylight saving",
			parent:   Table{Schema: "sales", Name: "events"},
			keyType:  "timestamptz",
			max:      ZonedValue(time.Date(2024, time.February, 29, 23, 0, 0, 0, time.UTC), berlin),
			interval: monthly,
			want: []string{
				`CREATE TABLE "sales"."events_p2024_04" PARTITION OF "sales"."events" FOR VALUES FROM ('2024-03-01 00:00:00+01:00') TO ('2024-04-01 00:00:00+02:00')`,
				`CREATE TABLE "sales"."events_p2024_05" PARTITION OF "sales"."events" FOR VALUES FROM ('2024-04-01 00:00:00+02:00') TO ('2024-05-01 00:00:00+02:00')`,
			},
		},
		{
			name:     "sub-second timestamp bound",
			parent:   Table{Schema: "sales", Name: "events"},
			keyType:  "timestamp",
			max:      TemporalValue(time.Date(2024, time.January, 1, 0, 0, 0, 250000000, time.UTC)),
			interval: IntervalSpec{Kind: CalendarInterval, Unit: UnitHour, Count: 1, Granularity: HourGranularity},
			want: []string{
				`CREATE TABLE "sales"."events_p2024_01_01_01" PARTITION OF "sales"."events" FOR VALUES FROM ('2024-01-01 00:00:00.25') TO ('2024-01-01 01:00:00.25')`,
				`CREATE TABLE "sales"."events_p2024_01_01_02" PARTITION OF "sales"."events" FOR VALUES FROM ('2024-01-01 01:00:00.25') TO ('2024-01-01 02:00:00.25')`,
			},
		},
		{
			name:      "integer key with append fragment",
			parent:    Table{Schema: "public", Name: "ledger"},
			keyType:   "int8",
			max:       NumericValue(5000),
			interval:  numeric,
			appendSQL: " TABLESPACE fast_ssd ",
			want: []string{
				`CREATE TABLE "public"."ledger_p6000" PARTITION OF "public"."ledger" FOR VALUES FROM (5000) TO (6000) TABLESPACE fast_ssd`,
				`CREATE TABLE "public"."ledger_p7000" PARTITION OF "public"."ledger" FOR VALUES FROM (6000) TO (7000) TABLESPACE fast_ssd`,
			},
		},
		{
			name:     "reserved word schema",
			parent:   Table{Schema: "user", Name: "orders"},
			keyType:  "int4",
			max:      NumericValue(0),
			interval: numeric,
			want: []string{
				`CREATE TABLE "user"."orders_p1000" PARTITION OF "user"."orders" FOR VALUES FROM (0) TO (1000)`,
				`CREATE TABLE "user"."orders_p2000" PARTITION OF "user"."orders" FOR VALUES FROM (1000) TO (2000)`,
			},
		},
		{
			name:     "mixed case identifiers",
			parent:   Table{Schema: "Sales", Name: "Ledger"},
			keyType:  "int4",
			max:      NumericValue(0),
			interval: numeric,
			want: []string{
				`CREATE TABLE "Sales"."Ledger_p1000" PARTITION OF "Sales"."Ledger" FOR VALUES FROM (0) TO (1000)`,
				`CREATE TABLE "Sales"."Ledger_p2000" PARTITION OF "Sales"."Ledger" FOR VALUES FROM (1000) TO (2000)`,
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			defs, err := Calculate(tt.parent, tt.max, tt.interval, 2)
			require.NoError(t, err)

			stmts, err := GenerateDDL(tt.parent, tt.keyType, defs, tt.appendSQL)
			require.NoError(t, err)
			require.Len(t, stmts, len(tt.want))

			for i, stmt := range stmts {
				require.Equal(t, tt.want[i], stmt.SQL)
				require.Equal(t, tt.want[i]+";", stmt.String())
				require.Equal(t, tt.parent.String(), stmt.Table)
				require.Equal(t, defs[i].Name.String(), stmt.Partition)
			}
		})
	}
}

func TestGenerateDDL_Errors(t *testing.T) {
	defs := []Definition{{Lower: NumericValue(0), Upper: NumericValue(10), Name: Table{Schema: "public", Name: "t_p10"}}}

	_, err := GenerateDDL(Table{Schema: "public", Name: "t"}, "uuid", defs, "")
	require.ErrorIs(t, err, ErrUnsupportedKeyType)

	_, err = GenerateDDL(Table{Schema: "public", Name: "t"}, "date", defs, "")
	require.ErrorIs(t, err, ErrIntervalKindMismatch)
}

func TestClassifyKeyType(t *testing.T) {
	require.Equal(t, IntegerKey, ClassifyKeyType("int4"))
	require.Equal(t, IntegerKey, ClassifyKeyType("numeric"))
	require.Equal(t, DateKey, ClassifyKeyType("date"))
	require.Equal(t, TimestampKey, ClassifyKeyType("timestamp"))
	require.Equal(t, TimestampTZKey, ClassifyKeyType("timestamptz"))
	require.Equal(t, UnsupportedKey, ClassifyKeyType("text"))
	require.True(t, TimestampTZKey.IsTemporal())
	require.False(t, IntegerKey.IsTemporal())
}
