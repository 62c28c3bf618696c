// Package apperr defines the error kinds shared by the client and its dispatchers
package apperr

import (
	"errors"
	"fmt"
)

// Kind classifies a failure so dispatchers can render it without string matching
type Kind int

const (
	KindConfig Kind = iota + 1
	KindAuth
	KindReadonly
	KindRemoteAPI
	KindInput
)

func (k Kind) String() string {
	switch k {
	case KindConfig:
		return "config"
	case KindAuth:
		return "auth"
	case KindReadonly:
		return "readonly"
	case KindRemoteAPI:
		return "remote_api"
	case KindInput:
		return "input"
	default:
		return "unknown"
	}
}

// ErrReadonly matches every readonly violation via errors.Is
var ErrReadonly = errors.New("readonly mode")

// Error carries the kind and, for remote failures, the HTTP status and body
type Error struct {
	Kind   Kind
	Op     string // Operation name, e.g. deleteStream
	Status int    // HTTP status, 0 when no response was received
	Body   string // Response body text
	Msg    string
	Err    error
}

func (e *Error) Error() string {
	switch e.Kind {
	case KindReadonly:
		return fmt.Sprintf("operation %s is not permitted in readonly mode", e.Op)
	case KindRemoteAPI, KindAuth:
		prefix := e.Msg
		if prefix == "" {
			prefix = "API returned error"
		}
		if e.Op != "" {
			prefix = e.Op + ": " + prefix
		}
		if e.Status == 0 {
			if e.Err != nil {
				return fmt.Sprintf("%s: %v", prefix, e.Err)
			}
			return prefix
		}
		if e.Err != nil {
			return fmt.Sprintf("%s (status %d): %v", prefix, e.Status, e.Err)
		}
		return fmt.Sprintf("%s (status %d): %s", prefix, e.Status, e.Body)
	default:
		msg := e.Msg
		if e.Op != "" {
			msg = e.Op + ": " + msg
		}
		if e.Err != nil {
			return fmt.Sprintf("%s: %v", msg, e.Err)
		}
		return msg
	}
}

func (e *Error) Unwrap() error {
	return e.Err
}

// Is lets errors.Is(err, ErrReadonly) match readonly violations
func (e *Error) Is(target error) bool {
	return target == ErrReadonly && e.Kind == KindReadonly
}

// Config reports missing or invalid configuration
func Config(format string, args ...any) *Error {
	return &Error{Kind: KindConfig, Msg: fmt.Sprintf(format, args...)}
}

// Auth reports a failed token exchange
func Auth(status int, body string, err error) *Error {
	return &Error{Kind: KindAuth, Msg: "authentication failed", Status: status, Body: body, Err: err}
}

// Readonly reports a mutating operation attempted in readonly mode
func Readonly(op string) *Error {
	return &Error{Kind: KindReadonly, Op: op}
}

// Remote reports a non-2xx response or an undecodable body from a resource endpoint
func Remote(op string, status int, body string, err error) *Error {
	return &Error{Kind: KindRemoteAPI, Op: op, Status: status, Body: body, Err: err}
}

// Input reports malformed caller input
func Input(format string, args ...any) *Error {
	return &Error{Kind: KindInput, Msg: fmt.Sprintf(format, args...)}
}

// KindOf returns the kind of the first *Error in err's chain
func KindOf(err error) (Kind, bool) {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind, true
	}
	return 0, false
}

// Is reports whether err carries the given kind
func Is(err error, kind Kind) bool {
	k, ok := KindOf(err)
	return ok && k == kind
}
