package memory

import (
	"context"

	"codemcq-service/internal/domain"
)

// StaticQuizLoader serves a fixed set of quizzes from memory, keyed by their
// "<language>_<level>" pair. It backs the memory quiz source.
type StaticQuizLoader struct {
	quizzes map[string]domain.QuizDefinition
}

func NewStaticQuizLoader(quizzes ...domain.QuizDefinition) *StaticQuizLoader {
	l := &StaticQuizLoader{quizzes: make(map[string]domain.QuizDefinition, len(quizzes))}
	for _, quiz := range quizzes {
		l.quizzes[domain.QuizKey(quiz.Language, quiz.Level)] = quiz
	}
	return l
}

func (l *StaticQuizLoader) LoadQuiz(_ context.Context, language, level string) (domain.QuizDefinition, error) {
	quiz, ok := l.quizzes[domain.QuizKey(language, level)]
	if !ok {
		return domain.QuizDefinition{}, domain.ErrQuizNotFound
	}
	if err := domain.ValidateQuiz(quiz); err != nil {
		return domain.QuizDefinition{}, err
	}
	return quiz.Clone(), nil
}

// StaticChallengeLoader serves a fixed challenge list.
type StaticChallengeLoader struct {
	challenges []domain.Challenge
}

func NewStaticChallengeLoader(challenges ...domain.Challenge) *StaticChallengeLoader {
	return &StaticChallengeLoader{challenges: challenges}
}

func (l *StaticChallengeLoader) LoadChallenges(context.Context) ([]domain.Challenge, error) {
	return l.challenges, nil
}
