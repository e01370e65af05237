package database

import (
	"database/sql"
	"errors"
	"fmt"

	"github.com/golang-migrate/migrate/v4"
	"github.com/golang-migrate/migrate/v4/database/sqlite3"
	_ "github.com/golang-migrate/migrate/v4/source/file"
)

// RunMigrations applies every pending up migration from migrationsPath to
// the database at dbPath. A fully migrated database is not an error.
func RunMigrations(dbPath, migrationsPath string) error {
	// golang-migrate registers the driver under its own sqlite3:// scheme;
	// the connection options ride along in the query string
	m, err := migrate.New(
		"file://"+migrationsPath,
		"sqlite3://"+dbPath+"?_foreign_keys=on&_busy_timeout=5000",
	)
	if err != nil {
		return fmt.Errorf("open migrations: %w", err)
	}
	defer m.Close()
	return runUp(m)
}

// RunMigrationsWithDB migrates through an already-open handle, which stays
// open and usable afterwards. Test fixtures migrate this way so the fixture
// and the code under test share one connection.
func RunMigrationsWithDB(db *sql.DB, migrationsPath string) error {
	driver, err := sqlite3.WithInstance(db, &sqlite3.Config{})
	if err != nil {
		return err
	}
	m, err := migrate.NewWithDatabaseInstance("file://"+migrationsPath, "sqlite3", driver)
	if err != nil {
		return fmt.Errorf("open migrations: %w", err)
	}
	// not m.Close(): the sqlite3 driver would close db with it
	return runUp(m)
}

func runUp(m *migrate.Migrate) error {
	if err := m.Up(); err != nil && !errors.Is(err, migrate.ErrNoChange) {
		return err
	}
	return nil
}
