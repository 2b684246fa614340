package postgres

import (
	"context"
	"fmt"
	"net/url"
	"strconv"
	"strings"
	"time"

	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq"

	"github.com/jobinau/pg-partmaint/config"
)

const pkgName = "postgres"

type Postgres struct {
	dbx *sqlx.DB
}

// NewDB opens the single connection used for a run. The connect timeout is
// the only timeout the tool applies.
func NewDB(cfg config.Configuration) (*Postgres, error) {
	timeout := cfg.Database.ConnectTimeout.Duration()

	dsn, err := withConnectTimeout(cfg.Database.Dsn, timeout)
	if err != nil {
		return nil, fmt.Errorf("[%s]: invalid connection string - %v", pkgName, err)
	}

	db, err := sqlx.Open(string(cfg.Database.Driver), dsn)
	if err != nil {
		return nil, fmt.Errorf("[%s]: failed to open database - %v", pkgName, err)
	}

	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)

	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()

	if err = db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("[%s]: unable to connect to database - %v", pkgName, err)
	}

	return &Postgres{dbx: db}, nil
}

func New(db *sqlx.DB) *Postgres {
	return &Postgres{dbx: db}
}

func (p *Postgres) GetDB() *sqlx.DB {
	return p.dbx
}

func (p *Postgres) Close() error {
	if p == nil || p.dbx == nil {
		return nil
	}
	return p.dbx.Close()
}

// withConnectTimeout adds connect_timeout to a url or keyword/value dsn unless
// the caller already set one.
func withConnectTimeout(dsn string, timeout time.Duration) (string, error) {
	secs := int(timeout.Round(time.Second) / time.Second)
	if secs < 1 {
		secs = 1
	}

	if strings.HasPrefix(dsn, "postgres://") || strings.HasPrefix(dsn, "postgresql://") {
		u, err := url.Parse(dsn)
		if err != nil {
			return "", err
		}

		q := u.Query()
		if q.Get("connect_timeout") == "" {
			q.Set("connect_timeout", strconv.Itoa(secs))
		}
		u.RawQuery = q.Encode()
		return u.String(), nil
	}

	if strings.Contains(dsn, "connect_timeout=") {
		return dsn, nil
	}

	return strings.TrimSpace(dsn + " connect_timeout=" + strconv.Itoa(secs)), nil
}
