// Package migrations embeds the goose SQL migrations so the server binary
// can bring a database up to date at startup.
package migrations

import "embed"

//go:embed *.sql
var FS embed.FS
