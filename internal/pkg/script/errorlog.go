package script

import (
	"fmt"
	"os"
	"sync"

	"github.com/jobinau/pg-partmaint/pkg/partition"
)

// ErrorLog appends one line per failed statement: the statement, its
// delimiter and the database error message.
type ErrorLog struct {
	mu sync.Mutex
	f  *os.File
}

// OpenErrorLog truncates path and returns a log writing to it.
func OpenErrorLog(path string) (*ErrorLog, error) {
	f, err := os.OpenFile(path, os.O_CREATE|os.O_TRUNC|os.O_WRONLY, 0o644)
	if err != nil {
		return nil, err
	}

	return &ErrorLog{f: f}, nil
}

func (e *ErrorLog) RecordFailure(stmt partition.Statement, err error) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	_, wErr := fmt.Fprintf(e.f, "%s %s\n", stmt.String(), err)
	return wErr
}

func (e *ErrorLog) Close() error {
	if e == nil || e.f == nil {
		return nil
	}
	return e.f.Close()
}
