package postgres

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"codemcq-service/internal/domain"
	"github.com/jackc/pgx/v4"
	"github.com/jackc/pgx/v4/pgxpool"
)

// QuizLoader loads quiz JSONB documents from the quiz_documents table.
type QuizLoader struct {
	pool *pgxpool.Pool
}

func NewQuizLoader(pool *pgxpool.Pool) *QuizLoader {
	return &QuizLoader{pool: pool}
}

func (l *QuizLoader) LoadQuiz(ctx context.Context, language, level string) (domain.QuizDefinition, error) {
	var raw []byte
	err := l.pool.QueryRow(ctx,
		`SELECT data FROM quiz_documents WHERE language=$1 AND level=$2`,
		domain.Normalise(language), domain.Normalise(level),
	).Scan(&raw)
	if errors.Is(err, pgx.ErrNoRows) {
		return domain.QuizDefinition{}, domain.ErrQuizNotFound
	}
	if err != nil {
		return domain.QuizDefinition{}, fmt.Errorf("load quiz: %w", err)
	}
	return domain.DecodeQuiz(raw)
}

// SaveQuiz upserts a validated quiz document.
func (l *QuizLoader) SaveQuiz(ctx context.Context, quiz domain.QuizDefinition) error {
	if err := domain.ValidateQuiz(quiz); err != nil {
		return err
	}
	data, err := json.Marshal(quiz)
	if err != nil {
		return fmt.Errorf("marshal quiz: %w", err)
	}
	_, err = l.pool.Exec(ctx,
		`INSERT INTO quiz_documents (language, level, data, updated_at)
		VALUES ($1, $2, $3::jsonb, now())
		ON CONFLICT (language, level) DO UPDATE SET data=EXCLUDED.data, updated_at=EXCLUDED.updated_at`,
		domain.Normalise(quiz.Language), domain.Normalise(quiz.Level), string(data),
	)
	if err != nil {
		return fmt.Errorf("save quiz: %w", err)
	}
	return nil
}
