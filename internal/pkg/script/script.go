package script

import (
	"bufio"
	"fmt"
	"io"
	"os"

	"github.com/jobinau/pg-partmaint/pkg/partition"
)

// Header identifies the run a script was generated by.
type Header struct {
	RunID    string
	Table    string
	Interval string
}

// Print writes each statement on its own line, terminated with the delimiter.
func Print(w io.Writer, stmts []partition.Statement) error {
	for _, stmt := range stmts {
		if _, err := fmt.Fprintln(w, stmt.String()); err != nil {
			return err
		}
	}
	return nil
}

// Write renders a runnable SQL script: a comment header followed by the
// statements.
func Write(w io.Writer, hdr Header, stmts []partition.Statement) error {
	bw := bufio.NewWriter(w)

	fmt.Fprintf(bw, "-- pg-partmaint run %s\n", hdr.RunID)
	fmt.Fprintf(bw, "-- table %s, interval %s, %d new partition(s)\n\n", hdr.Table, hdr.Interval, len(stmts))

	if err := Print(bw, stmts); err != nil {
		return err
	}

	return bw.Flush()
}

// WriteFile replaces the file at path with the script.
func WriteFile(path string, hdr Header, stmts []partition.Statement) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}

	if err = Write(f, hdr, stmts); err != nil {
		_ = f.Close()
		return err
	}

	return f.Close()
}
