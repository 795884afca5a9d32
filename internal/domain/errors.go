package domain

import "errors"

var (
	// ErrAttemptNotFound is returned when an attempt does not exist or belongs to another user.
	ErrAttemptNotFound = errors.New("attempt not found")
	// ErrQuizNotFound indicates the quiz content could not be loaded.
	ErrQuizNotFound = errors.New("quiz not found")
	// ErrQuestionNotFound indicates a submitted question ID is not part of the quiz.
	ErrQuestionNotFound = errors.New("question not found")
	// ErrChallengeNotFound indicates an unknown coding challenge id.
	ErrChallengeNotFound = errors.New("challenge not found")
	// ErrInvalidSelection is returned for unknown language or level codes.
	ErrInvalidSelection = errors.New("invalid quiz selection")
	// ErrEmptySubmission is returned when a coding submission carries no code.
	ErrEmptySubmission = errors.New("submission code is empty")
	// ErrAlreadyCompleted is returned when mutating or paging a finalized attempt.
	ErrAlreadyCompleted = errors.New("attempt already completed")
	// ErrUnauthenticated is returned when no user identity accompanies a call.
	ErrUnauthenticated = errors.New("user not authenticated")
	// ErrMalformedQuiz wraps decode and validation failures of static quiz data.
	ErrMalformedQuiz = errors.New("malformed quiz definition")
)

// IsNotFound reports whether err belongs to the not-found class.
func IsNotFound(err error) bool {
	return errors.Is(err, ErrAttemptNotFound) ||
		errors.Is(err, ErrQuizNotFound) ||
		errors.Is(err, ErrQuestionNotFound) ||
		errors.Is(err, ErrChallengeNotFound)
}

// IsInvalidInput reports whether err was caused by the caller's payload.
func IsInvalidInput(err error) bool {
	return errors.Is(err, ErrInvalidSelection) || errors.Is(err, ErrEmptySubmission)
}
