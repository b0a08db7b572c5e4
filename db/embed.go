// Package db embeds the database schema migrations.
package db

import "embed"

// Migrations holds the SQL migration files applied by "gatehousectl db migrate".
//
//go:embed migrations/*.sql
var Migrations embed.FS
