// Package sqlite opens sqlite databases that know the iso9075 name mapping
// as SQL functions: iso9075_encode(text), iso9075_decode(text) and
// ncname_valid(text).
package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"sync/atomic"

	sqlite3 "github.com/mattn/go-sqlite3"
	"golang.org/x/exp/maps"

	"github.com/niklasfasching/iso9075/iso9075"
	"github.com/niklasfasching/iso9075/ncname"
)

type DB struct {
	funcs map[string]Func
	*sql.DB
}

// Func is a Go function registered as SQL function. Pure functions must
// always return the same result for the same arguments.
type Func struct {
	F    any
	Pure bool
}

var driverIndex atomic.Int64
var defaultFuncs = map[string]Func{
	"iso9075_encode": {iso9075.Encode, true},
	"iso9075_decode": {iso9075.Decode, true},
	"ncname_valid":   {ncname.Valid, true},
}

// New opens the database name, registering the default functions and fs.
// migrations are applied in order; already applied ones are skipped.
func New(name string, migrations []string, fs map[string]Func) (*DB, error) {
	d := &DB{funcs: map[string]Func{}}
	maps.Copy(d.funcs, defaultFuncs)
	maps.Copy(d.funcs, fs)
	driver := fmt.Sprintf("sqlite3-iso9075-%d", driverIndex.Add(1))
	sql.Register(driver, &sqlite3.SQLiteDriver{ConnectHook: d.connectHook})
	db, err := sql.Open(driver, name)
	if err != nil {
		return nil, fmt.Errorf("failed to open: %w", err)
	}
	d.DB = db
	if err := d.migrate(migrations); err != nil {
		return nil, fmt.Errorf("failed to migrate: %w", errors.Join(err, db.Close()))
	}
	return d, nil
}

func (db *DB) Encode(ctx context.Context, name string) (string, error) {
	return db.call(ctx, "iso9075_encode", name)
}

func (db *DB) Decode(ctx context.Context, name string) (string, error) {
	return db.call(ctx, "iso9075_decode", name)
}

func (db *DB) call(ctx context.Context, f, arg string) (result string, err error) {
	if err := db.QueryRowContext(ctx, "SELECT "+f+"(?)", arg).Scan(&result); err != nil {
		return "", fmt.Errorf("%s(%q): %w", f, arg, err)
	}
	return result, nil
}

func (db *DB) connectHook(c *sqlite3.SQLiteConn) error {
	for name, f := range db.funcs {
		if err := c.RegisterFunc(name, f.F, f.Pure); err != nil {
			return fmt.Errorf("failed to register %s: %w", name, err)
		}
	}
	return nil
}

func (db *DB) migrate(migrations []string) error {
	tx, err := db.Begin()
	if err != nil {
		return err
	}
	defer tx.Rollback()
	if _, err := tx.Exec(`CREATE TABLE IF NOT EXISTS _migrations (sql TEXT)`); err != nil {
		return fmt.Errorf("failed to create _migrations table: %w", err)
	}
	rows, err := tx.Query("SELECT sql FROM _migrations ORDER BY rowid")
	if err != nil {
		return fmt.Errorf("failed to query _migrations: %w", err)
	}
	applied := []string{}
	for rows.Next() {
		var s string
		if err := rows.Scan(&s); err != nil {
			return errors.Join(err, rows.Close())
		}
		applied = append(applied, s)
	}
	if err := errors.Join(rows.Err(), rows.Close()); err != nil {
		return fmt.Errorf("failed to read _migrations: %w", err)
	}
	if len(migrations) < len(applied) {
		return fmt.Errorf("%d migrations applied but only %d given", len(applied), len(migrations))
	}
	for i := range applied {
		if migrations[i] != applied[i] {
			return fmt.Errorf("migration %d changed: %q != %q", i, migrations[i], applied[i])
		}
	}
	for _, stmt := range migrations[len(applied):] {
		if _, err := tx.Exec(stmt); err != nil {
			return fmt.Errorf("failed to apply migration %q: %w", stmt, err)
		}
		if _, err := tx.Exec("INSERT INTO _migrations (sql) VALUES (?)", stmt); err != nil {
			return fmt.Errorf("failed to record migration %q: %w", stmt, err)
		}
	}
	return tx.Commit()
}
