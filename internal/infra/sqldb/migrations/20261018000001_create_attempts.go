package migrations

import (
	"context"

	"codemcq-service/internal/infra/sqldb"
	"github.com/uptrace/bun"
)

func init() {
	Migrations.MustRegister(
		func(ctx context.Context, db *bun.DB) error {
			if _, err := db.NewCreateTable().Model((*sqldb.AttemptRow)(nil)).IfNotExists().Exec(ctx); err != nil {
				return err
			}
			if _, err := db.NewCreateIndex().Model((*sqldb.AttemptRow)(nil)).
				Index("idx_attempts_user").IfNotExists().
				Column("user_id", "started_at").
				Exec(ctx); err != nil {
				return err
			}
			if _, err := db.NewCreateTable().Model((*sqldb.AnswerRow)(nil)).IfNotExists().Exec(ctx); err != nil {
				return err
			}
			_, err := db.NewCreateIndex().Model((*sqldb.AnswerRow)(nil)).
				Index("uq_attempt_answers_attempt_question").Unique().IfNotExists().
				Column("attempt_id", "question_id").
				Exec(ctx)
			return err
		},
		func(ctx context.Context, db *bun.DB) error {
			if _, err := db.NewDropTable().Model((*sqldb.AnswerRow)(nil)).IfExists().Exec(ctx); err != nil {
				return err
			}
			_, err := db.NewDropTable().Model((*sqldb.AttemptRow)(nil)).IfExists().Exec(ctx)
			return err
		},
	)
}
