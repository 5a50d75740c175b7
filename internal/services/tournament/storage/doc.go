// Package storage defines persistence interfaces for the tournament service.
//
// It covers the append-only event journal and the disciplinary sanction
// records consulted when barriers are evaluated. Implementations (e.g.,
// SQLite) live in subpackages.
//
// Common error types:
//   - ErrNotFound: requested record is missing
//   - ErrDuplicateUID: an event with the same uid is already journaled
package storage
