package randomize

import (
	"context"
	"math/rand"
	"sync"
	"time"

	"codemcq-service/internal/domain"
)

// Shuffler produces independent permutations of quizzes. It is safe for concurrent use.
type Shuffler struct {
	mu  sync.Mutex
	rnd *rand.Rand
}

// NewShuffler seeds from the clock.
func NewShuffler() *Shuffler {
	return NewShufflerWithSource(rand.NewSource(time.Now().UnixNano()))
}

// NewShufflerWithSource is used by tests that need a reproducible stream.
func NewShufflerWithSource(src rand.Source) *Shuffler {
	return &Shuffler{rnd: rand.New(src)}
}

// ShuffleOptions returns a copy of q with its options permuted. Correctness
// flags stay attached to their options; q is left untouched.
func (s *Shuffler) ShuffleOptions(q domain.Question) domain.Question {
	out := q.Clone()
	s.shuffle(len(out.Options), func(i, j int) {
		out.Options[i], out.Options[j] = out.Options[j], out.Options[i]
	})
	return out
}

// ShuffleQuestions returns a deep copy of quiz with questions permuted and
// every question's options shuffled.
func (s *Shuffler) ShuffleQuestions(quiz domain.QuizDefinition) domain.QuizDefinition {
	out := quiz.Clone()
	s.shuffle(len(out.Questions), func(i, j int) {
		out.Questions[i], out.Questions[j] = out.Questions[j], out.Questions[i]
	})
	for i := range out.Questions {
		out.Questions[i] = s.ShuffleOptions(out.Questions[i])
	}
	return out
}

// shuffle runs Fisher-Yates so every permutation is equally likely.
func (s *Shuffler) shuffle(n int, swap func(i, j int)) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := n - 1; i > 0; i-- {
		j := s.rnd.Intn(i + 1)
		swap(i, j)
	}
}

// QuizSource resolves canonical quizzes.
type QuizSource interface {
	LoadQuiz(ctx context.Context, language, level string) (domain.QuizDefinition, error)
	GetQuizByID(ctx context.Context, quizID string) (domain.QuizDefinition, error)
}

// Randomizer composes loading and shuffling.
type Randomizer struct {
	quizzes  QuizSource
	shuffler *Shuffler
}

func NewRandomizer(quizzes QuizSource, shuffler *Shuffler) *Randomizer {
	if shuffler == nil {
		shuffler = NewShuffler()
	}
	return &Randomizer{quizzes: quizzes, shuffler: shuffler}
}

func (r *Randomizer) GetRandomizedQuiz(ctx context.Context, language, level string) (domain.QuizDefinition, error) {
	quiz, err := r.quizzes.LoadQuiz(ctx, language, level)
	if err != nil {
		return domain.QuizDefinition{}, err
	}
	return r.shuffler.ShuffleQuestions(quiz), nil
}

func (r *Randomizer) GetRandomizedQuizByID(ctx context.Context, quizID string) (domain.QuizDefinition, error) {
	quiz, err := r.quizzes.GetQuizByID(ctx, quizID)
	if err != nil {
		return domain.QuizDefinition{}, err
	}
	return r.shuffler.ShuffleQuestions(quiz), nil
}
