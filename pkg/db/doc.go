// Package db provides database connection utilities for the principal
// directory and the audit store.
package db
