package content

import (
	"errors"
	"fmt"
	"strings"

	"edulearn-server/internal/models"
)

// ErrInvalidQuiz marks quiz builder validation failures, so handlers can
// tell a bad submission (400) apart from a store failure (500). The
// wrapped message is what the admin form displays.
var ErrInvalidQuiz = errors.New("invalid quiz")

type validationError struct {
	msg string
}

func (e *validationError) Error() string { return e.msg }

func (e *validationError) Unwrap() error { return ErrInvalidQuiz }

func invalidf(format string, args ...interface{}) error {
	return &validationError{msg: fmt.Sprintf(format, args...)}
}

// ValidateQuiz checks a quiz as submitted by the admin builder. Errors
// name the offending question by its 1-based position, matching what the
// form shows the admin.
func ValidateQuiz(quiz models.QuizDTO) error {
	if len(quiz.Questions) == 0 {
		return invalidf("quiz needs at least one question")
	}
	for i, q := range quiz.Questions {
		n := i + 1
		if strings.TrimSpace(q.Text) == "" {
			return invalidf("question %d is empty", n)
		}
		filled := 0
		for _, opt := range q.Options {
			if strings.TrimSpace(opt) != "" {
				filled++
			}
		}
		if filled < 2 {
			return invalidf("question %d needs at least 2 options", n)
		}
		if q.CorrectAnswer < 0 || q.CorrectAnswer >= len(q.Options) ||
			strings.TrimSpace(q.Options[q.CorrectAnswer]) == "" {
			return invalidf("question %d needs a valid correct answer", n)
		}
	}
	return nil
}
