// Package form drives a single asynchronous submission to completion and
// splits server failures into field-level and general errors.
//
// A Controller lives inside a Bubble Tea model. Submit returns a tea.Cmd that
// performs the call off the update loop; the resulting Result is fed back
// through Apply from the model's Update.
package form

import (
	"context"
	"strings"
	"sync/atomic"
	"time"

	"userhub-cli/internal/api"
	"userhub-cli/internal/logging"

	tea "github.com/charmbracelet/bubbletea"
)

type Status int

const (
	Idle Status = iota
	Pending
	Success
	Failure
)

func (s Status) String() string {
	switch s {
	case Idle:
		return "idle"
	case Pending:
		return "pending"
	case Success:
		return "success"
	case Failure:
		return "failure"
	default:
		return "unknown"
	}
}

// DefaultTimeout bounds a single submission.
const DefaultTimeout = 10 * time.Second

var lastID atomic.Int64

// Call is the bound API function a form submits.
type Call[T any] func(ctx context.Context) (T, error)

// Result is the message a submission command delivers back to the update loop.
type Result[T any] struct {
	ID   int64
	Seq  int
	Data T
	Err  error
}

type Controller[T any] struct {
	id      int64
	seq     int
	timeout time.Duration
	generic func() string

	Status       Status
	FieldErrors  map[string]string
	GeneralError string
	Data         T
}

type Option func(*options)

type options struct {
	timeout time.Duration
	generic func() string
}

// WithTimeout overrides DefaultTimeout. d <= 0 disables the deadline.
func WithTimeout(d time.Duration) Option {
	return func(o *options) { o.timeout = d }
}

// WithGenericMessage sets the source of the message shown for network
// failures and failures without a server message.
func WithGenericMessage(f func() string) Option {
	return func(o *options) { o.generic = f }
}

func New[T any](opts ...Option) *Controller[T] {
	o := options{timeout: DefaultTimeout}
	for _, opt := range opts {
		opt(&o)
	}
	if o.generic == nil {
		o.generic = func() string { return "Unexpected error occurred, please try again" }
	}
	return &Controller[T]{
		id:          lastID.Add(1),
		timeout:     o.timeout,
		generic:     o.generic,
		FieldErrors: map[string]string{},
	}
}

func (c *Controller[T]) ID() int64 { return c.id }

func (c *Controller[T]) Pending() bool { return c.Status == Pending }

// CanSubmit reports whether a submit button should be enabled.
func (c *Controller[T]) CanSubmit(valid bool) bool {
	return valid && c.Status != Pending
}

// Submit starts call unless a submission is already in flight. The returned
// bool reports whether the submission was accepted.
func (c *Controller[T]) Submit(call Call[T]) (tea.Cmd, bool) {
	if c.Status == Pending {
		logging.Debugf("form %d: submit ignored while pending", c.id)
		return nil, false
	}
	c.Status = Pending
	c.GeneralError = ""
	c.FieldErrors = map[string]string{}
	c.seq++

	id, seq, timeout := c.id, c.seq, c.timeout
	return func() tea.Msg {
		ctx := context.Background()
		if timeout > 0 {
			var cancel context.CancelFunc
			ctx, cancel = context.WithTimeout(ctx, timeout)
			defer cancel()
		}
		data, err := call(ctx)
		return Result[T]{ID: id, Seq: seq, Data: data, Err: err}
	}, true
}

// Apply consumes msg if it is the result of this controller's current
// submission and reports whether it did.
func (c *Controller[T]) Apply(msg tea.Msg) bool {
	res, ok := msg.(Result[T])
	if !ok || res.ID != c.id {
		return false
	}
	if res.Seq != c.seq || c.Status != Pending {
		logging.Debugf("form %d: dropping stale result seq=%d current=%d", c.id, res.Seq, c.seq)
		return true
	}
	if res.Err == nil {
		c.Status = Success
		c.Data = res.Data
		return true
	}

	c.Status = Failure
	apiErr := api.AsError(res.Err)
	switch apiErr.Kind {
	case api.KindValidation:
		for field, msg := range apiErr.ValidationErrors {
			c.FieldErrors[field] = msg
		}
	case api.KindDomain:
		if strings.TrimSpace(apiErr.Message) != "" {
			c.GeneralError = apiErr.Message
		} else {
			c.GeneralError = c.generic()
		}
	default:
		logging.Warningf("form %d: %v", c.id, res.Err)
		c.GeneralError = c.generic()
	}
	return true
}

// Touch clears the error of one field; the others are left alone.
func (c *Controller[T]) Touch(field string) {
	delete(c.FieldErrors, field)
}

// FieldError returns the current error for field, or "".
func (c *Controller[T]) FieldError(field string) string {
	return c.FieldErrors[field]
}

// Reset returns the controller to Idle with no errors. A submission still in
// flight is abandoned: its result will be dropped.
func (c *Controller[T]) Reset() {
	var zero T
	c.seq++
	c.Status = Idle
	c.GeneralError = ""
	c.FieldErrors = map[string]string{}
	c.Data = zero
}
