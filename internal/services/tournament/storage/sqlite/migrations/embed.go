// Package migrations contains embedded SQL migrations for the tournament
// sqlite store.
package migrations

import "embed"

// FS holds every migration at its root.
//
//go:embed *.sql
var FS embed.FS
