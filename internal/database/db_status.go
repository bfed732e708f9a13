package database

import (
	"fmt"
	"log"
	"time"
)

// Shutdown state constants
const (
	ShutdownStateRunning    = "running"
	ShutdownStateInProgress = "shutting_down"
	ShutdownStateClean      = "clean_shutdown"
	ShutdownStateCrashed    = "crashed"
)

// SetShutdownState updates the shutdown state in the database
func (db *Database) SetShutdownState(state string) error {
	if db.mainDB == nil {
		return fmt.Errorf("main database not initialized")
	}

	var query string
	var args []interface{}

	switch state {
	case ShutdownStateInProgress:
		query = `UPDATE system_status SET shutdown_state = ?, shutdown_started_at = CURRENT_TIMESTAMP, updated_at = CURRENT_TIMESTAMP WHERE id = 1`
		args = []interface{}{state}
	case ShutdownStateClean:
		query = `UPDATE system_status SET shutdown_state = ?, shutdown_completed_at = CURRENT_TIMESTAMP, updated_at = CURRENT_TIMESTAMP WHERE id = 1`
		args = []interface{}{state}
	default:
		query = `UPDATE system_status SET shutdown_state = ?, updated_at = CURRENT_TIMESTAMP WHERE id = 1`
		args = []interface{}{state}
	}

	_, err := retryableExec(db.mainDB, query, args...)
	if err != nil {
		return fmt.Errorf("failed to update shutdown state to %s: %w", state, err)
	}

	return nil
}

// GetShutdownState retrieves the current shutdown state from the database
func (db *Database) GetShutdownState() (string, error) {
	if db.mainDB == nil {
		return ShutdownStateCrashed, fmt.Errorf("main database not initialized")
	}

	var state string
	err := retryableQueryRowScan(db.mainDB, "SELECT shutdown_state FROM system_status WHERE id = 1", []interface{}{}, &state)
	if err != nil {
		return ShutdownStateCrashed, fmt.Errorf("failed to get shutdown state: %w", err)
	}

	return state, nil
}

// InitializeSystemStatus sets up the system status on startup
func (db *Database) InitializeSystemStatus(appName string, pid int, hostname string) error {
	if db.mainDB == nil {
		return fmt.Errorf("main database not initialized")
	}

	query := `UPDATE system_status SET
		shutdown_state = ?,
		app_name = ?,
		pid = ?,
		hostname = ?,
		shutdown_started_at = NULL,
		shutdown_completed_at = NULL,
		last_heartbeat = CURRENT_TIMESTAMP,
		updated_at = CURRENT_TIMESTAMP
		WHERE id = 1`

	_, err := retryableExec(db.mainDB, query, ShutdownStateRunning, appName, pid, hostname)
	if err != nil {
		return fmt.Errorf("failed to initialize system status: %w", err)
	}

	return nil
}

// CheckPreviousShutdown checks if the previous shutdown was clean
func (db *Database) CheckPreviousShutdown() (bool, error) {
	state, err := db.GetShutdownState()
	if err != nil {
		return false, err
	}

	wasClean := (state == ShutdownStateClean)
	if !wasClean {
		log.Printf("[DATABASE] WARNING: Previous shutdown was not clean. State was: %s", state)
	}

	return wasClean, nil
}

// UpdateHeartbeat periodically updates the last heartbeat timestamp until shutdown
func (db *Database) UpdateHeartbeat() {
	ticker := time.NewTicker(60 * time.Second)
	defer ticker.Stop()
	for {
		select {
		case <-ticker.C:
			if db.mainDB == nil {
				log.Printf("ERROR UpdateHeartbeat: main database not initialized")
				return
			}
			_, err := retryableExec(db.mainDB, "UPDATE system_status SET last_heartbeat = CURRENT_TIMESTAMP, updated_at = CURRENT_TIMESTAMP WHERE id = 1")
			if err != nil {
				log.Printf("ERROR UpdateHeartbeat: failed to update heartbeat: %v", err)
			}
		case <-db.StopChan:
			return
		}
	}
}
