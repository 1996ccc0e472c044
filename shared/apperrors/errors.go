// Package apperrors defines the error kinds shared by the store, the account
// services and the HTTP layer. Callers should match them with errors.Is.
package apperrors

import (
	"errors"
	"fmt"
)

var (
	// Store-level errors.
	ErrNotFound = errors.New("not found")

	// Service-level errors.
	ErrConflict     = errors.New("conflict")
	ErrUnauthorized = errors.New("unauthorized")
	ErrInvalidInput = errors.New("invalid input")

	// ErrInvalidCredentials is returned for both an unknown username and a wrong
	// password so that login never reveals whether an account exists.
	ErrInvalidCredentials = &Error{Kind: ErrUnauthorized, Msg: "Username or Password false"}

	ErrUserNotFound = &Error{Kind: ErrNotFound, Msg: "User not found"}

	// ErrPasswordTooLong reports a password over the 72 bytes bcrypt can hash.
	ErrPasswordTooLong = &Error{Kind: ErrInvalidInput, Msg: "The password must not be longer than 72 bytes"}
)

// Error is a client-facing message tagged with one of the error kinds above.
type Error struct {
	Kind error
	Msg  string
}

func (e *Error) Error() string { return e.Msg }

func (e *Error) Unwrap() error { return e.Kind }

// Operations a UniquenessError can report on.
const (
	OpCreate = "created"
	OpUpdate = "updated"
)

// UniquenessError reports which unique user fields collided with an existing user.
// Op is OpCreate or OpUpdate; empty means OpCreate.
type UniquenessError struct {
	Username bool
	Name     bool
	Op       string
}

func (e *UniquenessError) Fields() string {
	switch {
	case e.Username && e.Name:
		return "username and the name"
	case e.Username:
		return "username"
	default:
		return "name"
	}
}

func (e *UniquenessError) Error() string {
	verb := "is"
	if e.Username && e.Name {
		verb = "are"
	}
	op := e.Op
	if op == "" {
		op = OpCreate
	}
	return fmt.Sprintf("The %s provided %s not unique. Therefore, the user could not be %s!", e.Fields(), verb, op)
}

func (e *UniquenessError) Is(target error) bool {
	return target == ErrConflict
}

// Message returns the client-facing text of err, looking through any wrapping
// added on the way up from the store.
func Message(err error) string {
	var uerr *UniquenessError
	if errors.As(err, &uerr) {
		return uerr.Error()
	}
	var aerr *Error
	if errors.As(err, &aerr) {
		return aerr.Msg
	}
	return err.Error()
}
