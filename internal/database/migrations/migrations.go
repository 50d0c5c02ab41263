// Package migrations embeds the canonical schema DDL applied by
// golang-migrate at startup.
package migrations

import "embed"

//go:embed *.sql
var FS embed.FS
