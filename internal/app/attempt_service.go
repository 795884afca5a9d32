package app

import (
	"context"
	"fmt"
	"time"

	"codemcq-service/internal/domain"
	log "github.com/sirupsen/logrus"
)

// DefaultQuestionSetTTL bounds how long a randomized set stays cached.
const DefaultQuestionSetTTL = 2 * time.Hour

// AttemptService drives an attempt from start to finalize.
type AttemptService struct {
	attempts   AttemptStore
	sets       QuestionSetCache
	quizzes    QuizBank
	randomizer Randomizer
	setTTL     time.Duration
	now        func() time.Time
}

func NewAttemptService(attempts AttemptStore, sets QuestionSetCache, quizzes QuizBank, randomizer Randomizer, setTTL time.Duration) *AttemptService {
	if setTTL <= 0 {
		setTTL = DefaultQuestionSetTTL
	}
	return &AttemptService{
		attempts:   attempts,
		sets:       sets,
		quizzes:    quizzes,
		randomizer: randomizer,
		setTTL:     setTTL,
		now:        time.Now,
	}
}

// WithClock is test-only for deterministic timestamps.
func (s *AttemptService) WithClock(now func() time.Time) *AttemptService {
	s.now = now
	return s
}

// Start creates an attempt for a (language, level) pair and caches its randomized set.
func (s *AttemptService) Start(ctx context.Context, userID, language, level string) (domain.Attempt, error) {
	language, level = domain.Normalise(language), domain.Normalise(level)
	if !domain.IsKnownLanguage(language) || !domain.IsKnownLevel(level) {
		return domain.Attempt{}, domain.ErrInvalidSelection
	}

	quiz, err := s.randomizer.GetRandomizedQuiz(ctx, language, level)
	if err != nil {
		return domain.Attempt{}, err
	}

	now := s.now()
	attempt := domain.Attempt{UserID: userID, QuizID: quiz.ID, StartedAt: now}
	if err := s.attempts.CreateAttempt(ctx, &attempt); err != nil {
		return domain.Attempt{}, err
	}

	s.cacheSet(ctx, NewQuestionSet(userID, quiz, now, s.setTTL))
	log.WithFields(log.Fields{"attempt_id": attempt.ID, "user_id": userID, "quiz_id": quiz.ID}).Info("attempt started")
	return attempt, nil
}

// GetQuestion returns the question at position, or a finalize step when
// position is outside the set.
func (s *AttemptService) GetQuestion(ctx context.Context, attemptID int64, userID string, position int) (domain.QuestionStep, error) {
	attempt, err := s.openAttempt(ctx, attemptID, userID)
	if err != nil {
		return domain.QuestionStep{}, err
	}
	quiz, err := s.quizzes.GetQuizByID(ctx, attempt.QuizID)
	if err != nil {
		return domain.QuestionStep{}, err
	}
	set, err := s.questionSet(ctx, attempt)
	if err != nil {
		return domain.QuestionStep{}, err
	}

	if position < 0 || position >= len(set.Questions) {
		return domain.QuestionStep{Action: domain.ActionFinalize}, nil
	}
	question := set.Questions[position]

	answer, found, err := s.attempts.GetAnswer(ctx, attempt.ID, question.ID)
	if err != nil {
		return domain.QuestionStep{}, err
	}
	view := &domain.QuestionView{
		AttemptID:        attempt.ID,
		QuizID:           quiz.ID,
		Title:            quiz.DisplayTitle(),
		Position:         position,
		TotalQuestions:   len(set.Questions),
		Question:         domain.NewPublicQuestion(question),
		SecondsRemaining: remainingSeconds(quiz.Duration(), attempt.StartedAt, s.now()),
	}
	if found {
		view.SelectedOptionID = answer.SelectedOptionID
	}
	return domain.QuestionStep{Action: domain.ActionQuestion, View: view}, nil
}

// SubmitAnswer records (or replaces) the answer to one question and tells the
// caller where to go next. The next position is derived from where the
// question sits in the attempt's set; use SubmitAnswerAt when the caller
// knows the position it is on.
func (s *AttemptService) SubmitAnswer(ctx context.Context, attemptID int64, userID string, questionID domain.QuestionID, selectedOptionID *string) (domain.AnswerOutcome, error) {
	return s.submit(ctx, attemptID, userID, -1, questionID, selectedOptionID)
}

// SubmitAnswerAt records the answer given on page position and advances to
// position+1. Answering the last position finalizes the attempt.
func (s *AttemptService) SubmitAnswerAt(ctx context.Context, attemptID int64, userID string, position int, questionID domain.QuestionID, selectedOptionID *string) (domain.AnswerOutcome, error) {
	if position < 0 {
		return domain.AnswerOutcome{}, domain.ErrInvalidSelection
	}
	return s.submit(ctx, attemptID, userID, position, questionID, selectedOptionID)
}

func (s *AttemptService) submit(ctx context.Context, attemptID int64, userID string, position int, questionID domain.QuestionID, selectedOptionID *string) (domain.AnswerOutcome, error) {
	attempt, err := s.openAttempt(ctx, attemptID, userID)
	if err != nil {
		return domain.AnswerOutcome{}, err
	}
	quiz, err := s.quizzes.GetQuizByID(ctx, attempt.QuizID)
	if err != nil {
		return domain.AnswerOutcome{}, err
	}
	question, ok := quiz.Question(questionID)
	if !ok {
		return domain.AnswerOutcome{}, domain.ErrQuestionNotFound
	}

	if selectedOptionID != nil && *selectedOptionID == "" {
		selectedOptionID = nil
	}
	correct := selectedOptionID != nil && *selectedOptionID == question.CorrectOptionID()

	err = s.attempts.UpsertAnswer(ctx, domain.AttemptAnswer{
		AttemptID:        attempt.ID,
		QuizID:           attempt.QuizID,
		QuestionID:       questionID,
		SelectedOptionID: selectedOptionID,
		IsCorrect:        correct,
		AnsweredAt:       s.now(),
	})
	if err != nil {
		return domain.AnswerOutcome{}, err
	}

	set, regenerated, err := s.loadQuestionSet(ctx, attempt)
	if err != nil {
		return domain.AnswerOutcome{}, err
	}
	outcome := domain.AnswerOutcome{AttemptID: attempt.ID, QuestionID: questionID, IsCorrect: correct}

	next, err := s.nextPosition(ctx, attempt.ID, set, regenerated, position, questionID)
	if err != nil {
		return domain.AnswerOutcome{}, err
	}
	if next < len(set.Questions) {
		outcome.Action = domain.ActionQuestion
		outcome.NextPosition = next
		return outcome, nil
	}

	finalized, err := s.Finalize(ctx, attempt.ID, userID)
	if err != nil {
		return domain.AnswerOutcome{}, err
	}
	outcome.Action = domain.ActionResult
	outcome.Attempt = &finalized
	return outcome, nil
}

// nextPosition returns the page after the answered one. Without a known
// position, a set that was just regenerated has a new order, so the question's
// place in it says nothing about progress: the first unanswered position is
// used instead, and only a fully answered set finalizes.
func (s *AttemptService) nextPosition(ctx context.Context, attemptID int64, set QuestionSet, regenerated bool, position int, questionID domain.QuestionID) (int, error) {
	if position >= 0 {
		return position + 1, nil
	}
	if !regenerated {
		idx := set.Position(questionID)
		if idx < 0 {
			return 0, nil
		}
		return idx + 1, nil
	}
	answers, err := s.answersByQuestion(ctx, attemptID)
	if err != nil {
		return 0, err
	}
	for i, q := range set.Questions {
		if _, ok := answers[q.ID]; !ok {
			return i, nil
		}
	}
	return len(set.Questions), nil
}

// Finalize scores the attempt exactly once. Later calls return the stored result.
func (s *AttemptService) Finalize(ctx context.Context, attemptID int64, userID string) (domain.Attempt, error) {
	attempt, err := s.attempts.GetAttempt(ctx, attemptID, userID)
	if err != nil {
		return domain.Attempt{}, err
	}
	if attempt.Completed() {
		return attempt, nil
	}

	questions, err := s.reviewQuestions(ctx, attempt)
	if err != nil {
		return domain.Attempt{}, err
	}
	answers, err := s.answersByQuestion(ctx, attempt.ID)
	if err != nil {
		return domain.Attempt{}, err
	}

	var tally domain.Tally
	for _, q := range questions {
		answer, ok := answers[q.ID]
		switch {
		case !ok || answer.SelectedOptionID == nil:
			tally.Unanswered++
		case answer.IsCorrect:
			tally.Correct++
		default:
			tally.Wrong++
		}
	}

	completedAt := s.now()
	applied, err := s.attempts.CompleteAttempt(ctx, attempt.ID, tally, completedAt)
	if err != nil {
		return domain.Attempt{}, err
	}
	if applied {
		attempt.Score = tally.Correct
		attempt.TotalCorrect = tally.Correct
		attempt.TotalWrong = tally.Wrong
		attempt.TotalUnanswered = tally.Unanswered
		attempt.CompletedAt = &completedAt
	} else {
		// lost a race with a concurrent finalize; its aggregates win
		if attempt, err = s.attempts.GetAttempt(ctx, attemptID, userID); err != nil {
			return domain.Attempt{}, err
		}
	}

	if err := s.sets.Delete(ctx, userID, CacheKey(attempt.QuizID)); err != nil {
		log.WithError(err).WithField("attempt_id", attempt.ID).Warn("release question set")
	}
	log.WithFields(log.Fields{
		"attempt_id": attempt.ID,
		"user_id":    userID,
		"quiz_id":    attempt.QuizID,
		"score":      attempt.Score,
		"unanswered": attempt.TotalUnanswered,
	}).Info("attempt finalized")
	return attempt, nil
}

// TimeRemaining reports the advisory countdown of an attempt.
func (s *AttemptService) TimeRemaining(ctx context.Context, attemptID int64, userID string) (domain.TimerState, error) {
	attempt, err := s.attempts.GetAttempt(ctx, attemptID, userID)
	if err != nil {
		return domain.TimerState{}, err
	}
	now := s.now()
	state := domain.TimerState{AttemptID: attempt.ID, Completed: attempt.Completed(), At: now}
	if state.Completed {
		return state, nil
	}
	quiz, err := s.quizzes.GetQuizByID(ctx, attempt.QuizID)
	if err != nil {
		return domain.TimerState{}, err
	}
	state.SecondsRemaining = remainingSeconds(quiz.Duration(), attempt.StartedAt, now)
	return state, nil
}

func (s *AttemptService) openAttempt(ctx context.Context, attemptID int64, userID string) (domain.Attempt, error) {
	attempt, err := s.attempts.GetAttempt(ctx, attemptID, userID)
	if err != nil {
		return domain.Attempt{}, err
	}
	if attempt.Completed() {
		return attempt, domain.ErrAlreadyCompleted
	}
	return attempt, nil
}

// questionSet returns the cached randomized set, regenerating and re-caching
// it when the entry is gone. A regenerated set has a new order.
func (s *AttemptService) questionSet(ctx context.Context, attempt domain.Attempt) (QuestionSet, error) {
	set, _, err := s.loadQuestionSet(ctx, attempt)
	return set, err
}

// loadQuestionSet also reports whether the set had to be regenerated.
func (s *AttemptService) loadQuestionSet(ctx context.Context, attempt domain.Attempt) (QuestionSet, bool, error) {
	if set, ok := s.cachedSet(ctx, attempt); ok {
		return set, false, nil
	}
	quiz, err := s.randomizer.GetRandomizedQuizByID(ctx, attempt.QuizID)
	if err != nil {
		return QuestionSet{}, false, err
	}
	set := NewQuestionSet(attempt.UserID, quiz, s.now(), s.setTTL)
	// the cache key follows the id stored on the attempt
	set.QuizID, set.Key = attempt.QuizID, CacheKey(attempt.QuizID)
	s.cacheSet(ctx, set)
	log.WithFields(log.Fields{"attempt_id": attempt.ID, "quiz_id": attempt.QuizID}).Debug("question set regenerated")
	return set, true, nil
}

// reviewQuestions prefers the cached order and falls back to canonical order without re-caching.
func (s *AttemptService) reviewQuestions(ctx context.Context, attempt domain.Attempt) ([]domain.Question, error) {
	if set, ok := s.cachedSet(ctx, attempt); ok {
		return set.Questions, nil
	}
	quiz, err := s.quizzes.GetQuizByID(ctx, attempt.QuizID)
	if err != nil {
		return nil, err
	}
	return quiz.Questions, nil
}

func (s *AttemptService) cachedSet(ctx context.Context, attempt domain.Attempt) (QuestionSet, bool) {
	set, ok, err := s.sets.Get(ctx, attempt.UserID, CacheKey(attempt.QuizID))
	if err != nil {
		log.WithError(err).WithField("attempt_id", attempt.ID).Warn("question set cache read failed")
		return QuestionSet{}, false
	}
	if !ok || len(set.Questions) == 0 {
		return QuestionSet{}, false
	}
	return set, true
}

func (s *AttemptService) cacheSet(ctx context.Context, set QuestionSet) {
	if err := s.sets.Put(ctx, set); err != nil {
		log.WithError(err).WithField("key", set.Key).Warn("question set cache write failed")
	}
}

func (s *AttemptService) answersByQuestion(ctx context.Context, attemptID int64) (map[domain.QuestionID]domain.AttemptAnswer, error) {
	answers, err := s.attempts.ListAnswers(ctx, attemptID)
	if err != nil {
		return nil, fmt.Errorf("list answers: %w", err)
	}
	out := make(map[domain.QuestionID]domain.AttemptAnswer, len(answers))
	for _, a := range answers {
		out[a.QuestionID] = a
	}
	return out, nil
}

func remainingSeconds(limit time.Duration, startedAt, now time.Time) int {
	left := limit - now.Sub(startedAt)
	if left <= 0 {
		return 0
	}
	return int(left / time.Second)
}
