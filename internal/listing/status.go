// AngelaMos | 2026
// status.go

package listing

import (
	"fmt"
	"slices"

	"github.com/carterperez-dev/servicios-api/internal/core"
)

type Status string

const (
	StatusPending    Status = "pendiente"
	StatusInProgress Status = "en progreso"
	StatusCompleted  Status = "completado"
)

var Statuses = []Status{StatusPending, StatusInProgress, StatusCompleted}

// transitions lists every allowed move. Completed is terminal and a
// same-state request is never a transition.
var transitions = map[Status][]Status{
	StatusPending:    {StatusInProgress},
	StatusInProgress: {StatusCompleted, StatusPending},
}

func ParseStatus(s string) (Status, bool) {
	st := Status(s)
	if !slices.Contains(Statuses, st) {
		return "", false
	}
	return st, true
}

func (s Status) CanTransitionTo(to Status) bool {
	return slices.Contains(transitions[s], to)
}

// TransitionError names both ends of a rejected status change.
type TransitionError struct {
	From Status
	To   Status
}

func (e *TransitionError) Error() string {
	return fmt.Sprintf("no se puede cambiar el estado de '%s' a '%s'", e.From, e.To)
}

func (e *TransitionError) Unwrap() error {
	return core.ErrConflict
}

func (s Status) TransitionTo(to Status) error {
	if !s.CanTransitionTo(to) {
		return &TransitionError{From: s, To: to}
	}
	return nil
}
