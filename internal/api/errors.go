package api

import (
	"errors"
	"fmt"
	"sort"
	"strings"
)

// Kind tags the three failure shapes a caller has to handle.
type Kind int

const (
	// KindNetwork: no usable response (transport failure, timeout, undecodable body).
	KindNetwork Kind = iota + 1
	// KindValidation: 400 with a validationErrors map.
	KindValidation
	// KindDomain: any other non-2xx status, optionally with a server message.
	KindDomain
)

func (k Kind) String() string {
	switch k {
	case KindNetwork:
		return "network"
	case KindValidation:
		return "validation"
	case KindDomain:
		return "domain"
	default:
		return "unknown"
	}
}

// Error is returned by every Client call that did not succeed.
type Error struct {
	Kind   Kind
	Status int
	// Message is the server-provided human-readable message (may be empty).
	Message string
	// ValidationErrors maps field name to rejection reason (KindValidation only).
	ValidationErrors map[string]string
	Err              error
}

func (e *Error) Error() string {
	switch e.Kind {
	case KindNetwork:
		if e.Err != nil {
			return "network error: " + e.Err.Error()
		}
		return "network error"
	case KindValidation:
		fields := make([]string, 0, len(e.ValidationErrors))
		for f, msg := range e.ValidationErrors {
			fields = append(fields, f+": "+msg)
		}
		sort.Strings(fields)
		return fmt.Sprintf("validation failed (%d): %s", e.Status, strings.Join(fields, "; "))
	default:
		if e.Message != "" {
			return fmt.Sprintf("request failed (%d): %s", e.Status, e.Message)
		}
		return fmt.Sprintf("request failed (%d)", e.Status)
	}
}

func (e *Error) Unwrap() error { return e.Err }

// AsError classifies err. Errors that did not originate from a response
// (context cancellation, dial failures) are reported as KindNetwork.
func AsError(err error) *Error {
	if err == nil {
		return nil
	}
	var apiErr *Error
	if errors.As(err, &apiErr) {
		return apiErr
	}
	return &Error{Kind: KindNetwork, Err: err}
}

// errorBody is the JSON shape of every failure response.
type errorBody struct {
	Message          string            `json:"message"`
	ValidationErrors map[string]string `json:"validationErrors"`
}
