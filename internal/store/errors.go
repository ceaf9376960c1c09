package store

import (
	"errors"
	"fmt"

	"github.com/docscanhq/docscan/internal/store/model"
)

var (
	ErrRecordNotFound = errors.New("record not found")
)

// ErrInvalidTransition reports an attempt to move a job out of a state that
// does not admit the requested transition. Terminal states reject everything.
type ErrInvalidTransition struct {
	From model.JobStatus
	To   model.JobStatus
}

func NewErrInvalidTransition(from, to model.JobStatus) *ErrInvalidTransition {
	return &ErrInvalidTransition{From: from, To: to}
}

func (e *ErrInvalidTransition) Error() string {
	return fmt.Sprintf("invalid job transition from %q to %q", e.From, e.To)
}
