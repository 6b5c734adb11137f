// Package migrations embeds the SQL schema for the participants table.
package migrations

import "embed"

// FS holds the *.up.sql / *.down.sql files in lexical apply order.
//
//go:embed *.sql
var FS embed.FS
