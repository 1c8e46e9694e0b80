// Package migrations embeds the server's SQL schema migrations so they
// can be applied with goose at startup.
package migrations

import "embed"

//go:embed *.sql
var Migrations embed.FS
