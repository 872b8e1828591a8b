package order

import (
	"errors"
	"fmt"

	"github.com/kiwari-pos/dashboard/internal/enum"
)

// ErrInvalidTransition matches every *InvalidTransitionError via errors.Is.
var ErrInvalidTransition = errors.New("invalid status transition")

// InvalidTransitionError names both ends of a rejected status change.
type InvalidTransitionError struct {
	From string
	To   string
}

func (e *InvalidTransitionError) Error() string {
	return fmt.Sprintf("transisi status tidak valid: %s -> %s", e.From, e.To)
}

func (e *InvalidTransitionError) Is(target error) bool {
	return target == ErrInvalidTransition
}

// allowedTransitions defines valid status transitions.
// Key is current status, value is the set of statuses it can transition to.
// selesai and dibatalkan are terminal.
var allowedTransitions = map[string][]string{
	enum.OrderStatusMenunggu:   {enum.OrderStatusDiproses, enum.OrderStatusDibatalkan},
	enum.OrderStatusDiproses:   {enum.OrderStatusSelesai, enum.OrderStatusDibatalkan},
	enum.OrderStatusSelesai:    {},
	enum.OrderStatusDibatalkan: {},
}

// IsKnownStatus reports whether status is one of the four workflow states.
func IsKnownStatus(status string) bool {
	_, ok := allowedTransitions[status]
	return ok
}

// AllowedTransitions returns the statuses reachable from status. The result
// is empty, never nil, for terminal and unrecognized statuses.
func AllowedTransitions(status string) []string {
	allowed := allowedTransitions[status]
	out := make([]string, len(allowed))
	copy(out, allowed)
	return out
}

// CanTransition reports whether from -> to is in the table.
func CanTransition(from, to string) bool {
	for _, s := range allowedTransitions[from] {
		if s == to {
			return true
		}
	}
	return false
}

// IsTerminal reports whether status is a known state with no way out.
func IsTerminal(status string) bool {
	allowed, ok := allowedTransitions[status]
	return ok && len(allowed) == 0
}

// ValidateTransition checks from -> to against the table. A from status the
// table does not know carries no transition data and passes unchecked, so
// statuses added by the backend later are not blocked here.
func ValidateTransition(from, to string) error {
	if !IsKnownStatus(from) {
		return nil
	}
	if CanTransition(from, to) {
		return nil
	}
	return &InvalidTransitionError{From: from, To: to}
}
