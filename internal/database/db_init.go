// Package database provides database abstraction and management for zoldermarkt
package database

import (
	"database/sql"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"sync"
	"time"

	_ "github.com/mattn/go-sqlite3" // SQLite3 driver
)

// Database represents the main database connection
type Database struct {
	// Main database connection for all system data
	mainDB *sql.DB

	MainMutex sync.RWMutex

	// Database configuration
	dbconfig *DBConfig

	StopChan chan struct{} // Channel to signal shutdown
}

// DBConfig represents database configuration
type DBConfig struct {
	// Directory to store database files
	DataDir string

	// Connection pool settings
	MaxOpenConns    int
	MaxIdleConns    int
	ConnMaxLifetime time.Duration

	// Performance settings
	WALMode   bool   // Write-Ahead Logging
	SyncMode  string // OFF, NORMAL, FULL
	CacheSize int    // KB
	TempStore string // MEMORY, FILE
}

// DefaultDBConfig returns default database configuration
func DefaultDBConfig() (dbconfig *DBConfig) {
	return &DBConfig{
		DataDir:         "./data",
		MaxOpenConns:    25,
		MaxIdleConns:    5,
		ConnMaxLifetime: 0, // Unlimited for SQLite - connections don't need to be recycled
		WALMode:         true,
		SyncMode:        "NORMAL",
		CacheSize:       -16384, // -16384 == 1024 KB * 16384 = 16MB cache
		TempStore:       "MEMORY",
	}
}

// OpenDatabase creates a new Database instance
func OpenDatabase(dbconfig *DBConfig) (*Database, error) {
	if dbconfig == nil {
		dbconfig = DefaultDBConfig()
	}

	db := &Database{
		dbconfig: dbconfig,
		StopChan: make(chan struct{}, 1), // Channel to signal shutdown (will get closed)
	}

	// Initialize main database
	if err := db.initMainDB(); err != nil {
		return nil, fmt.Errorf("failed to initialize main database: %w", err)
	}

	// Run migrations to ensure all tables exist
	if err := db.Migrate(); err != nil {
		return nil, fmt.Errorf("failed to run database migrations: %w", err)
	}

	// Check previous shutdown state and initialize system status
	if wasClean, err := db.CheckPreviousShutdown(); err != nil {
		log.Printf("Warning: Failed to check previous shutdown state: %v", err)
	} else if !wasClean {
		log.Printf("WARNING: Previous shutdown was not clean - database may need recovery")
	}

	// Initialize system status for this startup
	hostname, _ := os.Hostname()
	if err := db.InitializeSystemStatus("zoldermarkt", os.Getpid(), hostname); err != nil {
		log.Printf("Warning: Failed to initialize system status: %v", err)
	}

	return db, nil
}

// initMainDB opens the main database file and applies pragmas
func (db *Database) initMainDB() error {
	if err := createDirIfNotExists(db.dbconfig.DataDir); err != nil {
		return fmt.Errorf("failed to create data directory: %w", err)
	}

	// foreign_keys and busy_timeout go in the DSN so every pooled
	// connection gets them, not just the one that ran the pragma
	mainDBfile := filepath.Join(db.dbconfig.DataDir, "zoldermarkt.sq3")
	mainDB, err := sql.Open("sqlite3", mainDBfile+"?_foreign_keys=ON&_busy_timeout=5000")
	if err != nil {
		return fmt.Errorf("failed to open main database: %w", err)
	}

	mainDB.SetMaxOpenConns(db.dbconfig.MaxOpenConns)
	mainDB.SetMaxIdleConns(db.dbconfig.MaxIdleConns)
	mainDB.SetConnMaxLifetime(db.dbconfig.ConnMaxLifetime)

	if err := db.applySQLitePragmas(mainDB); err != nil {
		if cerr := mainDB.Close(); cerr != nil {
			log.Printf("Failed to close main database during pragma error: %v", cerr)
		}
		return err
	}

	db.mainDB = mainDB
	return nil
}

// applySQLitePragmas applies performance pragmas to a database connection
func (db *Database) applySQLitePragmas(sqlDB *sql.DB) error {
	pragmas := []string{
		fmt.Sprintf("PRAGMA synchronous = %s", db.dbconfig.SyncMode),
		fmt.Sprintf("PRAGMA cache_size = %d", db.dbconfig.CacheSize),
		fmt.Sprintf("PRAGMA temp_store = %s", db.dbconfig.TempStore),
	}
	if db.dbconfig.WALMode {
		pragmas = append(pragmas, "PRAGMA journal_mode = WAL")
	}

	for _, pragma := range pragmas {
		if _, err := sqlDB.Exec(pragma); err != nil {
			return fmt.Errorf("failed to apply pragma %q: %w", pragma, err)
		}
	}
	return nil
}

// GetMainDB returns the main database connection for direct access
// This should only be used by specialized tools like importers
func (db *Database) GetMainDB() *sql.DB {
	return db.mainDB
}

// GetDataDir returns the data directory path
func (db *Database) GetDataDir() string {
	return db.dbconfig.DataDir
}

// Shutdown closes the database connection after recording a clean shutdown
func (db *Database) Shutdown() error {
	// STEP 1: Mark shutdown as in progress
	if err := db.SetShutdownState(ShutdownStateInProgress); err != nil {
		log.Printf("[DATABASE] Warning: Failed to set shutdown state: %v", err)
		// Continue with shutdown even if we can't update the state
	}

	// STEP 2: Mark shutdown as clean BEFORE closing the database
	if err := db.SetShutdownState(ShutdownStateClean); err != nil {
		log.Printf("[DATABASE] Warning: Failed to mark shutdown as clean: %v", err)
		// Continue anyway
	}

	// STEP 3: Close main database last
	if db.mainDB != nil {
		if err := db.mainDB.Close(); err != nil {
			return fmt.Errorf("failed to close main database: %w", err)
		}
		log.Printf("[DATABASE] Main database closed")
	}

	return nil
}

// Stats returns database connection statistics
type Stats struct {
	MainDB struct {
		OpenConnections int
		IdleConnections int
		WaitCount       int64
		WaitDuration    time.Duration
	}
}

// GetStats returns database connection statistics
func (db *Database) GetStats() *Stats {
	stats := &Stats{}
	if db.mainDB != nil {
		dbStats := db.mainDB.Stats()
		stats.MainDB.OpenConnections = dbStats.OpenConnections
		stats.MainDB.IdleConnections = dbStats.Idle
		stats.MainDB.WaitCount = dbStats.WaitCount
		stats.MainDB.WaitDuration = dbStats.WaitDuration
	}
	return stats
}

// createDirIfNotExists creates a directory if it doesn't already exist
func createDirIfNotExists(dir string) error {
	if _, err := os.Stat(dir); os.IsNotExist(err) {
		return os.MkdirAll(dir, 0755)
	}
	return nil
}
