// Package migrations embeds the person schema for every supported SQL dialect.
// Files are applied in lexical order and must be idempotent.
package migrations

import "embed"

//go:embed postgres/*.sql sqlite/*.sql mysql/*.sql
var FS embed.FS
