// Package migrations embeds the SQL schema migrations for the media table.
package migrations

import "embed"

//go:embed *.sql
var Files embed.FS
