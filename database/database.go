package database

import (
	"github.com/jmoiron/sqlx"
)

// Database hands out the connection shared by the repositories of a run.
type Database interface {
	GetDB() *sqlx.DB
	Close() error
}
