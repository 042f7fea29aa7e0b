package domain

import "fmt"

type Status string

const (
	StatusPending   Status = "PENDING"
	StatusPreparing Status = "PREPARING"
	StatusReady     Status = "READY"
	StatusCompleted Status = "COMPLETED"
	StatusCancelled Status = "CANCELLED"
)

// transitions lists, per state, every state an order may move to next.
// Terminal states have no entry.
var transitions = map[Status][]Status{
	StatusPending:   {StatusPreparing, StatusReady, StatusCompleted, StatusCancelled},
	StatusPreparing: {StatusReady, StatusCompleted, StatusCancelled},
	StatusReady:     {StatusCompleted, StatusCancelled},
}

func ParseStatus(s string) (Status, error) {
	switch st := Status(s); st {
	case StatusPending, StatusPreparing, StatusReady, StatusCompleted, StatusCancelled:
		return st, nil
	}
	return "", NewInvalidArgumentf("unknown order status %q", s)
}

func (s Status) Terminal() bool { return s == StatusCompleted || s == StatusCancelled }

// Occupying reports whether an order in this state holds its table.
func (s Status) Occupying() bool { return s == StatusPending || s == StatusPreparing }

func (s Status) CanTransitionTo(next Status) bool {
	for _, st := range transitions[s] {
		if st == next {
			return true
		}
	}
	return false
}

// CheckTransition returns an InvalidStateTransition error when from -> to is not allowed.
func CheckTransition(from, to Status) error {
	if from.Terminal() {
		return NewInvalidTransitionf("order is already %s", from)
	}
	if !from.CanTransitionTo(to) {
		return NewInvalidTransition(fmt.Sprintf("cannot move order from %s to %s", from, to))
	}
	return nil
}
