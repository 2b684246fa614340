package metrics

import (
	"github.com/prometheus/client_golang/prometheus"

	"github.com/jobinau/pg-partmaint/services"
)

const (
	namespace  = "pg_partmaint"
	tableLabel = "table"
)

// Metrics describes the last provisioning run of each table, for the node
// exporter textfile collector.
type Metrics struct {
	reg *prometheus.Registry

	EmptyPartitions   *prometheus.GaugeVec
	PremakeTarget     *prometheus.GaugeVec
	PartitionsPlanned *prometheus.GaugeVec
	PartitionsCreated *prometheus.GaugeVec
	PartitionsFailed  *prometheus.GaugeVec
	LastRunSuccess    *prometheus.GaugeVec
	LastRunTimestamp  *prometheus.GaugeVec
}

func gauge(name, help string) *prometheus.GaugeVec {
	return prometheus.NewGaugeVec(
		prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      name,
			Help:      help,
		},
		[]string{tableLabel},
	)
}

func New() *Metrics {
	m := &Metrics{
		reg:               prometheus.NewPedanticRegistry(),
		EmptyPartitions:   gauge("empty_partitions", "Partitions without live rows at the start of the run"),
		PremakeTarget:     gauge("premake_target", "Number of empty partitions the run aims to keep ahead"),
		PartitionsPlanned: gauge("partitions_planned", "Partitions the run generated statements for"),
		PartitionsCreated: gauge("partitions_created", "Partitions created by the run"),
		PartitionsFailed:  gauge("partitions_failed", "Partition statements rejected by the database"),
		LastRunSuccess:    gauge("last_run_success", "1 if the last run finished without error"),
		LastRunTimestamp:  gauge("last_run_timestamp_seconds", "Unix time the last run finished"),
	}

	m.reg.MustRegister(
		m.EmptyPartitions,
		m.PremakeTarget,
		m.PartitionsPlanned,
		m.PartitionsCreated,
		m.PartitionsFailed,
		m.LastRunSuccess,
		m.LastRunTimestamp,
	)

	return m
}

func (m *Metrics) Registry() *prometheus.Registry {
	return m.reg
}

func (m *Metrics) ObservePlan(table string, plan *services.ProvisionPlan) {
	m.EmptyPartitions.WithLabelValues(table).Set(float64(plan.EmptyCount))
	m.PremakeTarget.WithLabelValues(table).Set(float64(plan.Premake))
	m.PartitionsPlanned.WithLabelValues(table).Set(float64(len(plan.Statements)))
}

func (m *Metrics) ObserveReport(table string, report *services.ExecutionReport) {
	m.PartitionsCreated.WithLabelValues(table).Set(float64(len(report.Succeeded())))
	m.PartitionsFailed.WithLabelValues(table).Set(float64(len(report.Failed())))
}

func (m *Metrics) ObserveResult(table string, err error) {
	success := 0.0
	if err == nil {
		success = 1
	}

	m.LastRunSuccess.WithLabelValues(table).Set(success)
	m.LastRunTimestamp.WithLabelValues(table).SetToCurrentTime()
}

// WriteTextfile atomically replaces path with the current values.
func (m *Metrics) WriteTextfile(path string) error {
	return prometheus.WriteToTextfile(path, m.reg)
}
