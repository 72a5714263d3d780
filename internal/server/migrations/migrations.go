// Package migrations embeds the goose SQL migrations creating the server
// schema (users, customers, invoices, refresh tokens).
package migrations

import "embed"

//go:embed *.sql
var Migrations embed.FS
