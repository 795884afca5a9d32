package fs

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	iofs "io/fs"
	"os"
	"path/filepath"

	"codemcq-service/internal/domain"
)

// QuizLoader reads quiz documents laid out as <root>/mcq/<language>/<level>.json.
type QuizLoader struct {
	root string
}

func NewQuizLoader(root string) *QuizLoader {
	return &QuizLoader{root: root}
}

func (l *QuizLoader) LoadQuiz(_ context.Context, language, level string) (domain.QuizDefinition, error) {
	raw, err := os.ReadFile(l.path(language, level))
	if err != nil {
		if errors.Is(err, iofs.ErrNotExist) {
			return domain.QuizDefinition{}, domain.ErrQuizNotFound
		}
		return domain.QuizDefinition{}, fmt.Errorf("read quiz: %w", err)
	}
	quiz, err := domain.DecodeQuiz(raw)
	if err != nil {
		return domain.QuizDefinition{}, fmt.Errorf("%s: %w", l.path(language, level), err)
	}
	return quiz, nil
}

// SaveQuiz writes a validated quiz document, replacing any existing file.
func (l *QuizLoader) SaveQuiz(_ context.Context, quiz domain.QuizDefinition) error {
	if err := domain.ValidateQuiz(quiz); err != nil {
		return err
	}
	dst := l.path(quiz.Language, quiz.Level)
	if err := os.MkdirAll(filepath.Dir(dst), 0o755); err != nil {
		return err
	}
	data, err := json.MarshalIndent(quiz, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(dst, append(data, '\n'), 0o644)
}

func (l *QuizLoader) path(language, level string) string {
	return filepath.Join(l.root, "mcq", domain.Normalise(language), domain.Normalise(level)+".json")
}
