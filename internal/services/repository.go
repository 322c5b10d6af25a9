// Package services provides repository interfaces and SQLite implementations
// for data access. This layer bridges the raw SQLite store with the cart
// ledger, providing a clean abstraction over persistence operations.
package services

import "errors"

// Sentinel errors returned by repositories.
var (
	ErrNotFound = errors.New("not found")
)
