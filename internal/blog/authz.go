package blog

import (
	"errors"
	"fmt"
)

// Actor identifies who is performing an operation. It is passed explicitly
// into every Service call; there is no ambient session state. The zero value
// is a guest.
type Actor struct {
	ID            int64
	Username      string
	IsAdmin       bool
	Authenticated bool
}

// Guest is the unauthenticated actor.
var Guest = Actor{}

// Action enumerates the operations the gate rules on.
type Action int

const (
	ActionCreate Action = iota
	ActionEdit
	ActionDelete
	ActionLike
	ActionRegister
	ActionLogin
)

func (a Action) String() string {
	switch a {
	case ActionCreate:
		return "create"
	case ActionEdit:
		return "edit"
	case ActionDelete:
		return "delete"
	case ActionLike:
		return "like"
	case ActionRegister:
		return "register"
	case ActionLogin:
		return "login"
	default:
		return "unknown"
	}
}

// ErrDenied is the sentinel all authorization failures unwrap to.
var ErrDenied = errors.New("denied")

// DeniedError carries the human-readable reason an action was refused.
type DeniedError struct {
	Reason string
}

func (e *DeniedError) Error() string { return "denied: " + e.Reason }

func (e *DeniedError) Unwrap() error { return ErrDenied }

func denied(format string, args ...any) error {
	return &DeniedError{Reason: fmt.Sprintf(format, args...)}
}

// authorize is the pure decision function over actor, action, and the
// target post's recorded author. It never mutates state.
func authorize(actor Actor, action Action, postAuthor string) error {
	switch action {
	case ActionCreate:
		if !actor.Authenticated {
			return denied("please log in to create posts")
		}
		return nil
	case ActionEdit:
		if !actor.Authenticated {
			return denied("please log in to edit posts")
		}
		if !actor.IsAdmin {
			return denied("only administrators can edit posts")
		}
		return nil
	case ActionDelete:
		if !actor.Authenticated {
			return denied("please log in to delete posts")
		}
		if !actor.IsAdmin && actor.Username != postAuthor {
			return denied("you can only delete your own posts or need admin privileges")
		}
		return nil
	case ActionLike:
		if !actor.Authenticated {
			return denied("please log in to like posts")
		}
		return nil
	case ActionRegister, ActionLogin:
		if actor.Authenticated {
			return denied("already logged in")
		}
		return nil
	default:
		return denied("unknown action")
	}
}

// requireAdmin gates the account-administration operations.
func requireAdmin(actor Actor) error {
	if !actor.Authenticated || !actor.IsAdmin {
		return denied("access denied, admin privileges required")
	}
	return nil
}
