package auth

import "github.com/garnizeh/carematch/internal/apperr"

// Guard checks that an actor owns a record of type T.
type Guard[T any] struct {
	Owner func(*T) int64
}

// Check fails with apperr.ErrNotFound when rec is nil and with
// apperr.ErrForbidden when actor is not its owner. Existence is checked first.
func (g Guard[T]) Check(actor int64, rec *T) error {
	if rec == nil {
		return apperr.ErrNotFound
	}
	if g.Owner(rec) != actor {
		return apperr.ErrForbidden
	}
	return nil
}

// CheckDeclared compares the owner a request body claims against the actor.
// Payload ids only detect tampering; they never select whose data is used.
func CheckDeclared(actor, declared int64) error {
	if actor != declared {
		return apperr.ErrForbidden
	}
	return nil
}
