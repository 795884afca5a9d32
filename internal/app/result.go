package app

import (
	"context"

	"codemcq-service/internal/domain"
)

// BuildResult compiles the review of an attempt. It never mutates state.
func (s *AttemptService) BuildResult(ctx context.Context, attemptID int64, userID string) (domain.ResultView, error) {
	attempt, err := s.attempts.GetAttempt(ctx, attemptID, userID)
	if err != nil {
		return domain.ResultView{}, err
	}
	quiz, err := s.quizzes.GetQuizByID(ctx, attempt.QuizID)
	if err != nil {
		return domain.ResultView{}, err
	}
	questions, err := s.reviewQuestions(ctx, attempt)
	if err != nil {
		return domain.ResultView{}, err
	}
	answers, err := s.answersByQuestion(ctx, attempt.ID)
	if err != nil {
		return domain.ResultView{}, err
	}

	items := make([]domain.ResultItem, 0, len(questions))
	for _, q := range questions {
		canonical, ok := quiz.Question(q.ID)
		if !ok {
			canonical = q
		}
		correctID := canonical.CorrectOptionID()
		correctOpt, _ := canonical.Option(correctID)
		item := domain.ResultItem{
			QuestionID:        q.ID,
			Prompt:            canonical.Prompt,
			CorrectOptionID:   correctID,
			CorrectOptionText: correctOpt.Text,
		}
		if answer, ok := answers[q.ID]; ok && answer.SelectedOptionID != nil {
			selected := *answer.SelectedOptionID
			item.SelectedOptionID = &selected
			if opt, ok := canonical.Option(selected); ok {
				text := opt.Text
				item.SelectedOptionText = &text
			}
			item.IsCorrect = answer.IsCorrect
		}
		items = append(items, item)
	}

	return domain.ResultView{
		Attempt: domain.Summarize(attempt, quiz.DisplayTitle()),
		QuizID:  quiz.ID,
		Title:   quiz.DisplayTitle(),
		Items:   items,
	}, nil
}
