package postgres

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func Test_withConnectTimeout(t *testing.T) {
	tests := []struct {
		name    string
		dsn     string
		timeout time.Duration
		want    string
	}{
		{
			name:    "keyword dsn",
			dsn:     "host=localhost dbname=sales",
			timeout: 5 * time.Second,
			want:    "host=localhost dbname=sales connect_timeout=5",
		},
		{
			name:    "keyword dsn keeps its own timeout",
			dsn:     "host=localhost connect_timeout=30",
			timeout: 5 * time.Second,
			want:    "host=localhost connect_timeout=30",
		},
		{
			name:    "url dsn",
			dsn:     "postgres://postgres@localhost:5432/sales?sslmode=disable",
			timeout: 10 * time.Second,
			want:    "postgres://postgres@localhost:5432/sales?connect_timeout=10&sslmode=disable",
		},
		{
			name:    "url dsn keeps its own timeout",
			dsn:     "postgresql://localhost/sales?connect_timeout=2",
			timeout: 10 * time.Second,
			want:    "postgresql://localhost/sales?connect_timeout=2",
		},
		{
			name:    "sub second rounds up to one",
			dsn:     "dbname=sales",
			timeout: 200 * time.Millisecond,
			want:    "dbname=sales connect_timeout=1",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := withConnectTimeout(tt.dsn, tt.timeout)
			require.NoError(t, err)
			require.Equal(t, tt.want, got)
		})
	}
}

func Test_Close_Nil(t *testing.T) {
	var p *Postgres
	require.NoError(t, p.Close())
}
