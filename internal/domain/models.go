package domain

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strconv"
	"time"
)

// DefaultDurationMinutes applies when a quiz document omits duration_minutes.
const DefaultDurationMinutes = 15

// QuestionID identifies a question within a quiz. Documents may carry it as
// a JSON number or string; it is always handled as a string.
type QuestionID string

func (id *QuestionID) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) > 0 && data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*id = QuestionID(s)
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(data, &n); err != nil {
		return fmt.Errorf("question id: %w", err)
	}
	if _, err := strconv.ParseInt(n.String(), 10, 64); err != nil {
		return fmt.Errorf("question id must be an integer or string, got %s", n)
	}
	*id = QuestionID(n.String())
	return nil
}

func (id QuestionID) String() string { return string(id) }

// Option represents a possible answer for a question.
type Option struct {
	ID        string `json:"id" validate:"required"`
	Text      string `json:"text"`
	IsCorrect bool   `json:"is_correct"`
}

// Question models an MCQ question with exactly one correct option.
type Question struct {
	ID      QuestionID `json:"id" validate:"required"`
	Prompt  string     `json:"question" validate:"required"`
	Options []Option   `json:"options" validate:"min=2,dive"`
}

// CorrectOptionID returns the id of the option flagged correct, or "" if none is.
func (q Question) CorrectOptionID() string {
	for _, opt := range q.Options {
		if opt.IsCorrect {
			return opt.ID
		}
	}
	return ""
}

// Option looks up an option by id.
func (q Question) Option(id string) (Option, bool) {
	for _, opt := range q.Options {
		if opt.ID == id {
			return opt, true
		}
	}
	return Option{}, false
}

// Clone returns a deep copy.
func (q Question) Clone() Question {
	out := q
	out.Options = append([]Option(nil), q.Options...)
	return out
}

// QuizDefinition is the canonical, immutable content of a (language, level) quiz.
type QuizDefinition struct {
	ID              string     `json:"quiz_id"`
	Language        string     `json:"language,omitempty"`
	Level           string     `json:"level,omitempty"`
	Title           string     `json:"title"`
	Description     string     `json:"description"`
	DurationMinutes int        `json:"duration_minutes" validate:"gte=0"`
	Difficulty      string     `json:"difficulty"`
	Questions       []Question `json:"questions" validate:"min=1,dive"`
}

// Question looks up a question by id.
func (q QuizDefinition) Question(id QuestionID) (Question, bool) {
	for _, question := range q.Questions {
		if question.ID == id {
			return question, true
		}
	}
	return Question{}, false
}

// DisplayTitle falls back to "<Language> <Level> Quiz" when the document has no title.
func (q QuizDefinition) DisplayTitle() string {
	if q.Title != "" {
		return q.Title
	}
	return fmt.Sprintf("%s %s Quiz", LanguageLabel(q.Language), LanguageLabel(q.Level))
}

// Duration is the advisory time limit of the quiz.
func (q QuizDefinition) Duration() time.Duration {
	minutes := q.DurationMinutes
	if minutes <= 0 {
		minutes = DefaultDurationMinutes
	}
	return time.Duration(minutes) * time.Minute
}

// Clone returns a deep copy, so callers may reorder questions and options freely.
func (q QuizDefinition) Clone() QuizDefinition {
	out := q
	out.Questions = make([]Question, len(q.Questions))
	for i, question := range q.Questions {
		out.Questions[i] = question.Clone()
	}
	return out
}

// Attempt is one user's run through a quiz.
type Attempt struct {
	ID              int64      `json:"id"`
	UserID          string     `json:"user_id"`
	QuizID          string     `json:"quiz_id"`
	Score           int        `json:"score"`
	StartedAt       time.Time  `json:"started_at"`
	CompletedAt     *time.Time `json:"completed_at"`
	TotalCorrect    int        `json:"total_correct"`
	TotalWrong      int        `json:"total_wrong"`
	TotalUnanswered int        `json:"total_unanswered"`
}

const (
	AttemptInProgress = "in_progress"
	AttemptCompleted  = "completed"
)

// Completed reports whether the attempt has been finalized.
func (a Attempt) Completed() bool { return a.CompletedAt != nil }

// Status is derived from CompletedAt.
func (a Attempt) Status() string {
	if a.Completed() {
		return AttemptCompleted
	}
	return AttemptInProgress
}

// AttemptAnswer is the stored answer for one question of an attempt.
type AttemptAnswer struct {
	AttemptID        int64      `json:"attempt_id"`
	QuizID           string     `json:"quiz_id"`
	QuestionID       QuestionID `json:"question_id"`
	SelectedOptionID *string    `json:"selected_option_id"`
	IsCorrect        bool       `json:"is_correct"`
	AnsweredAt       time.Time  `json:"answered_at"`
}

// Tally holds the aggregate counts written at finalize.
type Tally struct {
	Correct    int
	Wrong      int
	Unanswered int
}

// Total is the number of questions counted.
func (t Tally) Total() int { return t.Correct + t.Wrong + t.Unanswered }

// Challenge is a coding exercise; submissions are stored but never executed.
type Challenge struct {
	ID          string `json:"id"`
	Title       string `json:"title"`
	Description string `json:"description"`
	Language    string `json:"language"`
	Level       string `json:"level"`
	StarterCode string `json:"starter_code,omitempty"`
}

// Submission is a verbatim code submission for a challenge.
type Submission struct {
	ID          int64     `json:"id"`
	UserID      string    `json:"user_id"`
	ChallengeID string    `json:"challenge_id"`
	Code        string    `json:"code"`
	SubmittedAt time.Time `json:"submitted_at"`
}
