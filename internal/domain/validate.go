package domain

import (
	"encoding/json"
	"fmt"

	"github.com/go-playground/validator/v10"
)

var validate = validator.New()

// Validator returns the shared validator instance.
func Validator() *validator.Validate { return validate }

// DecodeQuiz parses and validates a quiz document.
func DecodeQuiz(raw []byte) (QuizDefinition, error) {
	var quiz QuizDefinition
	if err := json.Unmarshal(raw, &quiz); err != nil {
		return QuizDefinition{}, fmt.Errorf("%w: %v", ErrMalformedQuiz, err)
	}
	if err := ValidateQuiz(quiz); err != nil {
		return QuizDefinition{}, err
	}
	return quiz, nil
}

// ValidateQuiz checks structural constraints plus the one-correct-option and
// unique-id rules the struct tags cannot express.
func ValidateQuiz(quiz QuizDefinition) error {
	if err := validate.Struct(quiz); err != nil {
		return fmt.Errorf("%w: %v", ErrMalformedQuiz, err)
	}
	seen := make(map[QuestionID]struct{}, len(quiz.Questions))
	for _, q := range quiz.Questions {
		if _, dup := seen[q.ID]; dup {
			return fmt.Errorf("%w: duplicate question id %q", ErrMalformedQuiz, q.ID)
		}
		seen[q.ID] = struct{}{}

		correct := 0
		optionIDs := make(map[string]struct{}, len(q.Options))
		for _, opt := range q.Options {
			if _, dup := optionIDs[opt.ID]; dup {
				return fmt.Errorf("%w: question %q has duplicate option id %q", ErrMalformedQuiz, q.ID, opt.ID)
			}
			optionIDs[opt.ID] = struct{}{}
			if opt.IsCorrect {
				correct++
			}
		}
		if correct != 1 {
			return fmt.Errorf("%w: question %q has %d correct options", ErrMalformedQuiz, q.ID, correct)
		}
	}
	return nil
}
