package domain

import "time"

// CatalogEntry is the lightweight listing form of a quiz.
type CatalogEntry struct {
	ID              string `json:"id"`
	Language        string `json:"language"`
	LanguageLabel   string `json:"language_label"`
	Level           string `json:"level"`
	Title           string `json:"title"`
	Description     string `json:"description"`
	DurationMinutes int    `json:"duration_minutes"`
	Difficulty      string `json:"difficulty"`
	QuestionsCount  int    `json:"questions_count"`
}

// Action tells the caller where to navigate next.
type Action string

const (
	ActionQuestion Action = "question"
	ActionFinalize Action = "finalize"
	ActionResult   Action = "result"
)

// PublicOption is an option as shown to the user, without its correctness flag.
type PublicOption struct {
	ID   string `json:"id"`
	Text string `json:"text"`
}

// PublicQuestion is a question as shown to the user.
type PublicQuestion struct {
	ID      QuestionID     `json:"id"`
	Prompt  string         `json:"question"`
	Options []PublicOption `json:"options"`
}

// NewPublicQuestion strips correctness flags, keeping option order.
func NewPublicQuestion(q Question) PublicQuestion {
	opts := make([]PublicOption, len(q.Options))
	for i, opt := range q.Options {
		opts[i] = PublicOption{ID: opt.ID, Text: opt.Text}
	}
	return PublicQuestion{ID: q.ID, Prompt: q.Prompt, Options: opts}
}

// QuestionView is one page of an in-progress attempt.
type QuestionView struct {
	AttemptID        int64          `json:"attempt_id"`
	QuizID           string         `json:"quiz_id"`
	Title            string         `json:"title"`
	Position         int            `json:"position"`
	TotalQuestions   int            `json:"total_questions"`
	Question         PublicQuestion `json:"question"`
	SelectedOptionID *string        `json:"selected_option_id"`
	SecondsRemaining int            `json:"seconds_remaining"`
}

// QuestionStep is the outcome of paging: either a question or a hand-off to finalize.
type QuestionStep struct {
	Action Action        `json:"action"`
	View   *QuestionView `json:"view,omitempty"`
}

// AnswerOutcome reports where to go after an answer was recorded.
type AnswerOutcome struct {
	AttemptID    int64      `json:"attempt_id"`
	QuestionID   QuestionID `json:"question_id"`
	IsCorrect    bool       `json:"-"`
	Action       Action     `json:"action"`
	NextPosition int        `json:"next_position"`
	Attempt      *Attempt   `json:"attempt,omitempty"`
}

// ResultItem is the review line for a single question.
type ResultItem struct {
	QuestionID         QuestionID `json:"question_id"`
	Prompt             string     `json:"question"`
	SelectedOptionID   *string    `json:"selected_option_id"`
	SelectedOptionText *string    `json:"selected_option_text"`
	CorrectOptionID    string     `json:"correct_option_id"`
	CorrectOptionText  string     `json:"correct_option_text"`
	IsCorrect          bool       `json:"is_correct"`
}

// ResultView is the review of an attempt.
type ResultView struct {
	Attempt AttemptSummary `json:"attempt"`
	QuizID  string         `json:"quiz_id"`
	Title   string         `json:"title"`
	Items   []ResultItem   `json:"items"`
}

// AttemptSummary adds the derived status to an attempt for presentation.
type AttemptSummary struct {
	Attempt
	Status    string `json:"status"`
	QuizTitle string `json:"quiz_title,omitempty"`
}

// TimerState is the advisory countdown of an attempt.
type TimerState struct {
	AttemptID        int64     `json:"attempt_id"`
	SecondsRemaining int       `json:"seconds_remaining"`
	Completed        bool      `json:"completed"`
	At               time.Time `json:"at"`
}

// UserStats aggregates a user's attempts.
type UserStats struct {
	TotalAttempts int     `json:"total_attempts"`
	BestScore     int     `json:"best_score"`
	AverageScore  float64 `json:"average_score"`
}

// Dashboard is the landing summary for a user.
type Dashboard struct {
	UserID         string           `json:"user_id"`
	Stats          UserStats        `json:"stats"`
	RecentAttempts []AttemptSummary `json:"recent_attempts"`
	Catalog        []CatalogEntry   `json:"catalog"`
}

// Summarize wraps an attempt with its derived status.
func Summarize(a Attempt, quizTitle string) AttemptSummary {
	return AttemptSummary{Attempt: a, Status: a.Status(), QuizTitle: quizTitle}
}
