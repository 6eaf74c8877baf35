package database

import (
	"database/sql"
	"errors"
	"sync"
)

// DriverSQLite is the driver name registered by go-sqlite3
const DriverSQLite = "sqlite3"

var (
	// ErrDatabaseNotConnected is returned when a query is attempted without a connection
	ErrDatabaseNotConnected = errors.New("database not connected")
	// ErrNoDatabaseProvided is returned when a connection is attempted without a path
	ErrNoDatabaseProvided = errors.New("no database provided")

	errNilInstance = errors.New("nil database instance")
)

// Instance holds the results database connection
type Instance struct {
	SQL       *sql.DB
	path      string
	connected bool
	m         sync.RWMutex
}
