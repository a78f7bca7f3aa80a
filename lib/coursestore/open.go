package coursestore

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	devenv "seatwatch-backend/dev/env"
	"seatwatch-backend/lib/coursestore/db"

	_ "github.com/tursodatabase/libsql-client-go/libsql"
	_ "modernc.org/sqlite"
)

func wrapOpen(err error) error {
	return fmt.Errorf("open course store: %w", err)
}

func isRemote(path string) bool {
	return strings.HasPrefix(path, "libsql://") ||
		strings.HasPrefix(path, "https://") ||
		strings.HasPrefix(path, "http://")
}

// Open opens the database at path and applies the schema. path is either a
// local sqlite file (optionally under "<dev_state>"), ":memory:" or the url
// of a remote libsql database.
func Open(path string) (Store, error) {
	database, err := openDB(path)
	if err != nil {
		return Store{}, wrapOpen(err)
	}
	err = ApplySchema(database)
	if err != nil {
		database.Close()
		return Store{}, wrapOpen(err)
	}
	return NewStore(database), nil
}

func openDB(path string) (*sql.DB, error) {
	if path == "" {
		return nil, fmt.Errorf("a database path was not specified")
	}
	if isRemote(path) {
		return sql.Open("libsql", path)
	}

	if path != ":memory:" {
		resolved, err := devenv.ResolvePath(path)
		if err != nil {
			return nil, err
		}
		path = resolved
		err = os.MkdirAll(filepath.Dir(path), 0777)
		if err != nil {
			return nil, err
		}
	}

	// foreign keys are off by default in sqlite and the pragma only applies
	// to the connection it runs on.
	dsn := fmt.Sprintf("file:%s?_pragma=foreign_keys(1)&_pragma=busy_timeout(5000)", path)
	database, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, err
	}

	// see this stackoverflow post for information on why the following
	// lines exist: https://stackoverflow.com/questions/35804884/sqlite-concurrent-writing-performance
	database.SetMaxOpenConns(1)
	if path != ":memory:" {
		_, err = database.Exec("PRAGMA journal_mode=WAL")
		if err != nil {
			database.Close()
			return nil, err
		}
	}
	return database, nil
}

// ApplySchema creates any missing tables, it is safe to run on every start.
func ApplySchema(database *sql.DB) error {
	for _, stmt := range strings.Split(db.Schema, ";") {
		if strings.TrimSpace(stmt) == "" {
			continue
		}
		_, err := database.Exec(stmt)
		if err != nil {
			return err
		}
	}
	return nil
}
