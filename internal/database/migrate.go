// migrate.go applies the SQL files in migrations/ with golang-migrate.
// Applied versions are tracked in the schema_migrations table.
package database

import (
	"errors"
	"fmt"
	"log"
	"path/filepath"

	"github.com/golang-migrate/migrate/v4"
	"github.com/golang-migrate/migrate/v4/database/postgres"
	_ "github.com/golang-migrate/migrate/v4/source/file" // file:// source driver
)

// RunMigrations applies all pending migrations from migrationsPath.
// Called at startup so the extractions table exists before the first upload.
func (db *DB) RunMigrations(migrationsPath string) error {
	source, err := migrationSource(migrationsPath)
	if err != nil {
		return err
	}

	driver, err := postgres.WithInstance(db.DB.DB, &postgres.Config{})
	if err != nil {
		return fmt.Errorf("failed to create migration driver: %w", err)
	}

	// The driver wraps our shared connection pool, so m.Close is not called:
	// it would close db as well.
	m, err := migrate.NewWithDatabaseInstance(source, "postgres", driver)
	if err != nil {
		return fmt.Errorf("failed to create migrator: %w", err)
	}

	err = m.Up()
	switch {
	case errors.Is(err, migrate.ErrNoChange):
		log.Println("📦 Database: no new migrations to apply")
	case err != nil:
		return fmt.Errorf("migration failed: %w", err)
	default:
		version, dirty, _ := m.Version()
		log.Printf("📦 Database: migrated to version %d (dirty: %v)", version, dirty)
	}
	return nil
}

// migrationSource turns a directory into a file:// source URL. Relative
// paths are resolved against the working directory.
func migrationSource(path string) (string, error) {
	if path == "" {
		return "", fmt.Errorf("migrations path is empty")
	}
	abs, err := filepath.Abs(path)
	if err != nil {
		return "", fmt.Errorf("failed to resolve migrations path %s: %w", path, err)
	}
	return "file://" + filepath.ToSlash(abs), nil
}
