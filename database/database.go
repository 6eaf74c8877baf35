package database

import (
	"context"
	"database/sql"
	"fmt"

	// import sqlite3 driver
	_ "github.com/mattn/go-sqlite3"

	"github.com/eventdriven/gobacktester/log"
)

// Connect opens the sqlite database at path and creates the results schema
// when it does not already exist
func Connect(ctx context.Context, path string) (*Instance, error) {
	if path == "" {
		return nil, ErrNoDatabaseProvided
	}
	dbConn, err := sql.Open(DriverSQLite, path)
	if err != nil {
		return nil, err
	}
	dbConn.SetMaxOpenConns(1)
	if err = dbConn.PingContext(ctx); err != nil {
		_ = dbConn.Close()
		return nil, err
	}
	if err = createSchema(ctx, dbConn); err != nil {
		_ = dbConn.Close()
		return nil, err
	}
	log.Debugf(log.Database, "connected to sqlite database %v", path)
	return &Instance{
		SQL:       dbConn,
		path:      path,
		connected: true,
	}, nil
}

func createSchema(ctx context.Context, db *sql.DB) error {
	for i := range schema {
		if _, err := db.ExecContext(ctx, schema[i]); err != nil {
			return fmt.Errorf("creating schema: %w", err)
		}
	}
	return nil
}

// IsConnected safely checks the SQL connection status
func (i *Instance) IsConnected() bool {
	if i == nil {
		return false
	}
	i.m.RLock()
	defer i.m.RUnlock()
	return i.connected
}

// Path returns the location of the database
func (i *Instance) Path() string {
	return i.path
}

// CloseConnection safely disconnects the database instance
func (i *Instance) CloseConnection() error {
	if i == nil {
		return errNilInstance
	}
	i.m.Lock()
	defer i.m.Unlock()
	if !i.connected {
		return nil
	}
	i.connected = false
	return i.SQL.Close()
}
