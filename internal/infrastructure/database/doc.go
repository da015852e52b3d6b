// Package database provides SQLite connection management for Mattergate.
//
// This package manages:
//   - Opening the database with WAL mode and busy-timeout pragmas
//   - Schema bootstrap for the key-value settings table
//   - Health checks and lifecycle management
//
// Mattergate persists very little: enrollment records and the synced-device
// set, both as namespaced keys in a single kv_store table (see
// internal/store). The schema is therefore bootstrapped in place rather
// than carried through a migration framework.
//
// Usage:
//
//	db, err := database.Open(database.Config{Path: "./data/mattergate.db", WALMode: true})
//	if err != nil {
//	    return err
//	}
//	defer db.Close()
//	if err := db.Bootstrap(ctx); err != nil {
//	    return err
//	}
package database
