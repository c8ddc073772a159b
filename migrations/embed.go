// Package migrations embeds the schema for each supported SQL dialect.
package migrations

import "embed"

// FS holds <dialect>/<NNN>_<name>.up.sql files.
//
//go:embed sqlite/*.sql postgres/*.sql
var FS embed.FS
