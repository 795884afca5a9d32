package migrations

import (
	"context"
	_ "embed"

	"github.com/uptrace/bun"
	"github.com/uptrace/bun/dialect"
)

//go:embed 20261018000003_create_quiz_documents.sql
var createQuizDocumentsSQL string

// quiz_documents backs the Postgres quiz source; SQLite deployments read quizzes from files.
func init() {
	Migrations.MustRegister(
		func(ctx context.Context, db *bun.DB) error {
			if db.Dialect().Name() != dialect.PG {
				return nil
			}
			_, err := db.ExecContext(ctx, createQuizDocumentsSQL)
			return err
		},
		func(ctx context.Context, db *bun.DB) error {
			if db.Dialect().Name() != dialect.PG {
				return nil
			}
			_, err := db.ExecContext(ctx, `DROP TABLE IF EXISTS quiz_documents`)
			return err
		},
	)
}
