package db

import (
	"context"
	_ "embed"

	"github.com/jmoiron/sqlx"
)

// Schema holds the bootstrap SQL for local development and tests.
//
//go:embed schema.sql
var Schema string

// ApplySchema runs the bootstrap DDL. Statements are idempotent
// (CREATE ... IF NOT EXISTS) so this is safe to call on every boot.
func ApplySchema(ctx context.Context, db *sqlx.DB) error {
	_, err := db.ExecContext(ctx, Schema)
	return err
}
