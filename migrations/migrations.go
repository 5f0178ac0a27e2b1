// Package migrations embeds the versioned schema files for each supported
// database backend. Files are named NNN_name.sql and live under a directory
// per driver.
package migrations

import "embed"

//go:embed sqlite/*.sql postgres/*.sql
var FS embed.FS
