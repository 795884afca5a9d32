package migrations

import (
	"context"

	"codemcq-service/internal/infra/sqldb"
	"github.com/uptrace/bun"
)

func init() {
	Migrations.MustRegister(
		func(ctx context.Context, db *bun.DB) error {
			if _, err := db.NewCreateTable().Model((*sqldb.SubmissionRow)(nil)).IfNotExists().Exec(ctx); err != nil {
				return err
			}
			_, err := db.NewCreateIndex().Model((*sqldb.SubmissionRow)(nil)).
				Index("idx_coding_submissions_user_challenge").IfNotExists().
				Column("user_id", "challenge_id").
				Exec(ctx)
			return err
		},
		func(ctx context.Context, db *bun.DB) error {
			_, err := db.NewDropTable().Model((*sqldb.SubmissionRow)(nil)).IfExists().Exec(ctx)
			return err
		},
	)
}
