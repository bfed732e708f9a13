package database

import (
	"embed"
	"fmt"
	"io/fs"
	"log"
	"sort"
	"strconv"
	"strings"
	"sync"
)

//go:embed migrations/*.sql
var EmbeddedMigrationsFS embed.FS

// Global migration cache to avoid repeated filesystem reads
var (
	migrationCache     []*MigrationFile
	migrationCacheMux  sync.RWMutex
	migrationCacheInit bool
)

// MigrationFile represents a migration file with its metadata
type MigrationFile struct {
	FileName    string
	Version     int
	Description string
	FilePath    string
}

// parseMigrationFileName parses a migration file name to extract metadata
func parseMigrationFileName(fileName string) (*MigrationFile, error) {
	if !strings.HasSuffix(fileName, ".sql") {
		return nil, fmt.Errorf("migration file must have .sql extension: %s", fileName)
	}

	// Remove .sql extension
	name := strings.TrimSuffix(fileName, ".sql")
	parts := strings.SplitN(name, "_", 3)

	if len(parts) < 3 {
		return nil, fmt.Errorf("invalid migration file name format: %s (expected format: 0001_main_description.sql)", fileName)
	}

	// Parse version number
	version, err := strconv.Atoi(parts[0])
	if err != nil {
		return nil, fmt.Errorf("invalid version number in migration file: %s", fileName)
	}

	if parts[1] != "main" {
		return nil, fmt.Errorf("unknown migration type in filename %s: %s", fileName, parts[1])
	}

	return &MigrationFile{
		FileName:    fileName,
		Version:     version,
		Description: parts[2],
		FilePath:    "migrations/" + fileName,
	}, nil
}

// getMigrationFiles reads and parses all migration files from the embedded filesystem
func getMigrationFiles() ([]*MigrationFile, error) {
	// Check the cache first
	migrationCacheMux.RLock()
	if migrationCacheInit {
		// Return a copy of the cached slice to avoid concurrent access issues
		cachedMigrations := make([]*MigrationFile, len(migrationCache))
		copy(cachedMigrations, migrationCache)
		migrationCacheMux.RUnlock()
		return cachedMigrations, nil
	}
	migrationCacheMux.RUnlock()

	files, err := fs.ReadDir(EmbeddedMigrationsFS, "migrations")
	if err != nil {
		return nil, fmt.Errorf("failed to read embedded migrations directory: %w", err)
	}

	var migrations []*MigrationFile
	for _, f := range files {
		if f.IsDir() || !strings.HasSuffix(f.Name(), ".sql") {
			continue
		}

		migration, err := parseMigrationFileName(f.Name())
		if err != nil {
			// Log warning but continue with other migrations
			log.Printf("Warning: skipping invalid migration file %s: %v", f.Name(), err)
			continue
		}

		migrations = append(migrations, migration)
	}

	// Sort by version number
	sort.Slice(migrations, func(i, j int) bool {
		return migrations[i].Version < migrations[j].Version
	})

	// Update the cache
	migrationCacheMux.Lock()
	migrationCache = migrations
	migrationCacheInit = true
	migrationCacheMux.Unlock()

	return migrations, nil
}

// Migrate applies pending database migrations to the main database
func (db *Database) Migrate() error {
	// Ensure the migration tracking table exists
	_, err := retryableExec(db.mainDB, `CREATE TABLE IF NOT EXISTS schema_migrations (
		version INTEGER PRIMARY KEY,
		description TEXT NOT NULL,
		applied_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP
	)`)
	if err != nil {
		return fmt.Errorf("failed to create schema_migrations table: %w", err)
	}

	migrations, err := getMigrationFiles()
	if err != nil {
		return err
	}

	for _, migration := range migrations {
		applied, err := db.isMigrationApplied(migration.Version)
		if err != nil {
			return err
		}
		if applied {
			continue
		}

		content, err := fs.ReadFile(EmbeddedMigrationsFS, migration.FilePath)
		if err != nil {
			return fmt.Errorf("failed to read migration file %s: %w", migration.FilePath, err)
		}

		if _, err := retryableExec(db.mainDB, string(content)); err != nil {
			return fmt.Errorf("failed to apply migration %s: %w", migration.FileName, err)
		}

		_, err = retryableExec(db.mainDB, "INSERT INTO schema_migrations (version, description) VALUES (?, ?)",
			migration.Version, migration.Description)
		if err != nil {
			return fmt.Errorf("failed to record migration %s: %w", migration.FileName, err)
		}

		log.Printf("[DATABASE] Applied migration %s", migration.FileName)
	}

	return nil
}

// isMigrationApplied checks the schema_migrations table for a version
func (db *Database) isMigrationApplied(version int) (bool, error) {
	var count int
	err := retryableQueryRowScan(db.mainDB, "SELECT COUNT(*) FROM schema_migrations WHERE version = ?",
		[]interface{}{version}, &count)
	if err != nil {
		return false, fmt.Errorf("failed to check migration version %d: %w", version, err)
	}
	return count > 0, nil
}
