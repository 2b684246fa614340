package mocks

import (
	"github.com/jobinau/pg-partmaint/pkg/partition"
)

// MockFailureRecorder is a mock implementation of services.FailureRecorder
type MockFailureRecorder struct {
	RecordFailureFunc func(stmt partition.Statement, err error) error

	Recorded []partition.Statement
}

// RecordFailure keeps the statement and calls the mock function if set
func (m *MockFailureRecorder) RecordFailure(stmt partition.Statement, err error) error {
	m.Recorded = append(m.Recorded, stmt)
	if m.RecordFailureFunc != nil {
		return m.RecordFailureFunc(stmt, err)
	}
	return nil
}
