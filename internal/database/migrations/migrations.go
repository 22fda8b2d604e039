// Package migrations embeds the schema of both applications, one directory
// per app and driver (e.g. iris/sqlite).
package migrations

import "embed"

//go:embed iris paralympics
var FS embed.FS
