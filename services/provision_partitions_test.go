package services

import (
	"context"
	"io"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"github.com/jobinau/pg-partmaint/datastore"
	"github.com/jobinau/pg-partmaint/mocks"
	"github.com/jobinau/pg-partmaint/pkg/log"
	"github.com/jobinau/pg-partmaint/pkg/partition"
)

func provideProvisionPartitionsService(ctrl *gomock.Controller, interval string, premake int) *ProvisionPartitionsService {
	spec, err := partition.ResolveInterval(interval)
	if err != nil {
		panic(err)
	}

	return &ProvisionPartitionsService{
		PartitionRepo: mocks.NewMockPartitionRepository(ctrl),
		Logger:        log.NewLogger(io.Discard),
		Table:         partition.Table{Schema: "sales", Name: "orders"},
		Interval:      spec,
		Premake:       premake,
	}
}

func partitionedTable(keyType string) *datastore.PartitionedTable {
	return &datastore.PartitionedTable{
		Table:     partition.Table{Schema: "sales", Name: "orders"},
		OID:       16384,
		KeyColumn: "created_at",
		KeyType:   keyType,
		Strategy:  datastore.RangeStrategy,
	}
}

func date(y int, m time.Month, d int) partition.Boundary {
	return partition.TemporalValue(time.Date(y, m, d, 0, 0, 0, 0, time.UTC))
}

func TestProvisionPartitionsService_Run(t *testing.T) {
	ctx := context.Background()

	tests := []struct {
		name      string
		interval  string
		premake   int
		dbFn      func(ps *ProvisionPartitionsService)
		wantErr   error
		wantPlan  func(t *testing.T, plan *ProvisionPlan)
		wantNames []string
	}{
		{
			name:     "should_plan_monthly_partitions",
			interval: "monthly",
			premake:  3,
			dbFn: func(ps *ProvisionPartitionsService) {
				repo := ps.PartitionRepo.(*mocks.MockPartitionRepository)
				pt := partitionedTable("date")

				repo.EXPECT().LoadPartitionedTable(gomock.Any(), ps.Table).Times(1).Return(pt, nil)
				repo.EXPECT().CountEmptyPartitions(gomock.Any(), pt).Times(1).Return(0, nil)
				repo.EXPECT().FindMaxBoundary(gomock.Any(), pt, ps.Interval).Times(1).Return(date(2024, time.January, 1), nil)
			},
			wantPlan: func(t *testing.T, plan *ProvisionPlan) {
				require.False(t, plan.Sufficient())
				require.Equal(t, 3, plan.Required)
				require.Len(t, plan.Statements, 3)
				require.Equal(t, date(2024, time.January, 1), plan.Definitions[0].Lower)
				require.Equal(t, date(2024, time.April, 1), plan.Definitions[2].Upper)
				require.Equal(t,
					`CREATE TABLE "sales"."orders_p2024_02" PARTITION OF "sales"."orders" FOR VALUES FROM ('2024-01-01') TO ('2024-02-01')`,
					plan.Statements[0].SQL)
			},
			wantNames: []string{"sales.orders_p2024_02", "sales.orders_p2024_03", "sales.orders_p2024_04"},
		},
		{
			name:     "should_plan_numeric_partitions",
			interval: "1000",
			premake:  2,
			dbFn: func(ps *ProvisionPartitionsService) {
				repo := ps.PartitionRepo.(*mocks.MockPartitionRepository)
				pt := partitionedTable("int8")

				repo.EXPECT().LoadPartitionedTable(gomock.Any(), ps.Table).Times(1).Return(pt, nil)
				repo.EXPECT().CountEmptyPartitions(gomock.Any(), pt).Times(1).Return(0, nil)
				repo.EXPECT().FindMaxBoundary(gomock.Any(), pt, ps.Interval).Times(1).Return(partition.NumericValue(5000), nil)
			},
			wantPlan: func(t *testing.T, plan *ProvisionPlan) {
				require.Equal(t,
					`CREATE TABLE "sales"."orders_p7000" PARTITION OF "sales"."orders" FOR VALUES FROM (6000) TO (7000)`,
					plan.Statements[1].SQL)
			},
			wantNames: []string{"sales.orders_p6000", "sales.orders_p7000"},
		},
		{
			name:     "should_only_make_up_the_shortfall",
			interval: "daily",
			premake:  5,
			dbFn: func(ps *ProvisionPartitionsService) {
				repo := ps.PartitionRepo.(*mocks.MockPartitionRepository)
				pt := partitionedTable("timestamp")

				repo.EXPECT().LoadPartitionedTable(gomock.Any(), ps.Table).Times(1).Return(pt, nil)
				repo.EXPECT().CountEmptyPartitions(gomock.Any(), pt).Times(1).Return(3, nil)
				repo.EXPECT().FindMaxBoundary(gomock.Any(), pt, ps.Interval).Times(1).Return(date(2024, time.June, 30), nil)
			},
			wantNames: []string{"sales.orders_p2024_07_01", "sales.orders_p2024_07_02"},
		},
		{
			name:     "should_skip_when_enough_empty_partitions_exist",
			interval: "monthly",
			premake:  5,
			dbFn: func(ps *ProvisionPartitionsService) {
				repo := ps.PartitionRepo.(*mocks.MockPartitionRepository)
				pt := partitionedTable("date")

				repo.EXPECT().LoadPartitionedTable(gomock.Any(), ps.Table).Times(1).Return(pt, nil)
				repo.EXPECT().CountEmptyPartitions(gomock.Any(), pt).Times(1).Return(5, nil)
				repo.EXPECT().FindMaxBoundary(gomock.Any(), gomock.Any(), gomock.Any()).Times(0)
			},
			wantPlan: func(t *testing.T, plan *ProvisionPlan) {
				require.True(t, plan.Sufficient())
				require.Empty(t, plan.Statements)
				require.True(t, plan.MaxBoundary.IsZero())
			},
		},
		{
			name:     "should_skip_when_more_than_enough_empty_partitions_exist",
			interval: "1000",
			premake:  2,
			dbFn: func(ps *ProvisionPartitionsService) {
				repo := ps.PartitionRepo.(*mocks.MockPartitionRepository)
				pt := partitionedTable("int4")

				repo.EXPECT().LoadPartitionedTable(gomock.Any(), ps.Table).Times(1).Return(pt, nil)
				repo.EXPECT().CountEmptyPartitions(gomock.Any(), pt).Times(1).Return(7, nil)
			},
			wantPlan: func(t *testing.T, plan *ProvisionPlan) {
				require.True(t, plan.Sufficient())
			},
		},
		{
			name:     "should_fail_for_unpartitioned_table",
			interval: "monthly",
			premake:  3,
			dbFn: func(ps *ProvisionPartitionsService) {
				repo := ps.PartitionRepo.(*mocks.MockPartitionRepository)
				repo.EXPECT().LoadPartitionedTable(gomock.Any(), ps.Table).Times(1).Return(nil, datastore.ErrTableNotPartitioned)
			},
			wantErr: datastore.ErrTableNotPartitioned,
		},
		{
			name:     "should_reject_calendar_interval_on_integer_key",
			interval: "monthly",
			premake:  3,
			dbFn: func(ps *ProvisionPartitionsService) {
				repo := ps.PartitionRepo.(*mocks.MockPartitionRepository)
				repo.EXPECT().LoadPartitionedTable(gomock.Any(), ps.Table).Times(1).Return(partitionedTable("int8"), nil)
			},
			wantErr: ErrIntervalKeyMismatch,
		},
		{
			name:     "should_reject_numeric_interval_on_date_key",
			interval: "100",
			premake:  3,
			dbFn: func(ps *ProvisionPartitionsService) {
				repo := ps.PartitionRepo.(*mocks.MockPartitionRepository)
				repo.EXPECT().LoadPartitionedTable(gomock.Any(), ps.Table).Times(1).Return(partitionedTable("date"), nil)
			},
			wantErr: ErrIntervalKeyMismatch,
		},
		{
			name:     "should_reject_hourly_interval_on_date_key",
			interval: "hourly",
			premake:  3,
			dbFn: func(ps *ProvisionPartitionsService) {
				repo := ps.PartitionRepo.(*mocks.MockPartitionRepository)
				repo.EXPECT().LoadPartitionedTable(gomock.Any(), ps.Table).Times(1).Return(partitionedTable("date"), nil)
			},
			wantErr: ErrIntervalKeyMismatch,
		},
		{
			name:     "should_reject_text_key",
			interval: "monthly",
			premake:  3,
			dbFn: func(ps *ProvisionPartitionsService) {
				repo := ps.PartitionRepo.(*mocks.MockPartitionRepository)
				repo.EXPECT().LoadPartitionedTable(gomock.Any(), ps.Table).Times(1).Return(partitionedTable("text"), nil)
			},
			wantErr: partition.ErrUnsupportedKeyType,
		},
		{
			name:     "should_fail_without_a_bounded_partition",
			interval: "monthly",
			premake:  3,
			dbFn: func(ps *ProvisionPartitionsService) {
				repo := ps.PartitionRepo.(*mocks.MockPartitionRepository)
				pt := partitionedTable("date")

				repo.EXPECT().LoadPartitionedTable(gomock.Any(), ps.Table).Times(1).Return(pt, nil)
				repo.EXPECT().CountEmptyPartitions(gomock.Any(), pt).Times(1).Return(1, nil)
				repo.EXPECT().FindMaxBoundary(gomock.Any(), pt, ps.Interval).Times(1).Return(partition.Boundary{}, datastore.ErrNoBoundaryFound)
			},
			wantErr: datastore.ErrNoBoundaryFound,
		},
		{
			name:     "should_fail_for_zero_premake",
			interval: "monthly",
			premake:  0,
			wantErr:  partition.ErrInvalidCount,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctrl := gomock.NewController(t)
			defer ctrl.Finish()

			ps := provideProvisionPartitionsService(ctrl, tt.interval, tt.premake)

			if tt.dbFn != nil {
				tt.dbFn(ps)
			}

			plan, err := ps.Run(ctx)
			if tt.wantErr != nil {
				require.ErrorIs(t, err, tt.wantErr)
				require.Nil(t, plan)
				return
			}
			require.NoError(t, err)

			if tt.wantPlan != nil {
				tt.wantPlan(t, plan)
			}

			if tt.wantNames != nil {
				names := make([]string, 0, len(plan.Statements))
				for _, s := range plan.Statements {
					names = append(names, s.Partition)
				}
				require.Equal(t, tt.wantNames, names)
				require.Equal(t, tt.premake-plan.EmptyCount, len(plan.Statements))
			}
		})
	}
}
