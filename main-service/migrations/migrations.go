// Package migrations embeds the main service schema.
package migrations

import "embed"

//go:embed *.sql
var FS embed.FS
