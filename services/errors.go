package services

import "fmt"

// AuthorizationError indicates the caller lacks the capability or ownership an
// operation requires. Controllers render it as 403.
type AuthorizationError struct {
	Message string
}

func (e *AuthorizationError) Error() string { return e.Message }

// InvalidStateError indicates an operation was attempted outside its required
// status precondition. Controllers render it as 409.
type InvalidStateError struct {
	Message string
}

func (e *InvalidStateError) Error() string { return e.Message }

// NotFoundError indicates a referenced record does not exist.
type NotFoundError struct {
	Resource string
}

func (e *NotFoundError) Error() string { return fmt.Sprintf("%s não encontrado", e.Resource) }

// DispatchError wraps a failed email send. It is logged by the daily routines
// and never surfaced to their caller.
type DispatchError struct {
	Recipient string
	Err       error
}

func (e *DispatchError) Error() string {
	return fmt.Sprintf("falha no envio para %s: %v", e.Recipient, e.Err)
}

func (e *DispatchError) Unwrap() error { return e.Err }
