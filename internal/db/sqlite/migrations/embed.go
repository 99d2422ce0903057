// Package migrations embeds the SQLite schema for the question bank.
package migrations

import "embed"

//go:embed *.sql
var FS embed.FS
