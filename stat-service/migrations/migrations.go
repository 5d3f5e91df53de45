// Package migrations embeds the stat service schema.
package migrations

import "embed"

//go:embed *.sql
var FS embed.FS
