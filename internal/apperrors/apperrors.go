package apperrors

import (
	"errors"
	"fmt"
)

var (
	ErrNotFound      = errors.New("resource not found")
	ErrAlreadyExists = errors.New("resource already exists")
	ErrForbidden     = errors.New("operation is not allowed for this user")
	ErrUnauthorized  = errors.New("caller is not identified")

	ErrInvalidRequest = errors.New("invalid request body")
	ErrValidation     = errors.New("validation failed")

	ErrConnection = errors.New("issue tracker is unreachable")

	ErrNotManual     = errors.New("key result progress is driven by linked issues")
	ErrProgressAtMax = errors.New("progress already at highest (100%)")
	ErrProgressAtMin = errors.New("progress already at lowest (0%)")

	ErrNoSession         = errors.New("no estimate session is running for this team")
	ErrIssueNotInSession = errors.New("issue is not part of the estimate session")
)

type TeamAlreadyExistsError struct{ TeamName string }

func (e *TeamAlreadyExistsError) Error() string {
	return fmt.Sprintf("team '%s' already exists", e.TeamName)
}
func (e *TeamAlreadyExistsError) Is(target error) bool { return target == ErrAlreadyExists }

type UserAlreadyExistsError struct{ Username string }

func (e *UserAlreadyExistsError) Error() string {
	return fmt.Sprintf("user '%s' already exists", e.Username)
}
func (e *UserAlreadyExistsError) Is(target error) bool { return target == ErrAlreadyExists }

// ConnectionError reports that a job could not reach the issue tracker and
// did no work.
type ConnectionError struct {
	Tracker string
	Err     error
}

func (e *ConnectionError) Error() string {
	return fmt.Sprintf("failed to connect to %s: %v", e.Tracker, e.Err)
}
func (e *ConnectionError) Unwrap() error        { return e.Err }
func (e *ConnectionError) Is(target error) bool { return target == ErrConnection }

// SubmissionError is a rejected key result submission. Message is shown to
// the submitting user as is.
type SubmissionError struct{ Message string }

func (e *SubmissionError) Error() string        { return e.Message }
func (e *SubmissionError) Is(target error) bool { return target == ErrValidation }
