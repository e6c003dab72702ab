// Package routefetch re-runs a fetch whenever a watched route parameter
// changes and exposes the outcome as a three-state request.
package routefetch

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
	Loading Status = iota
	Success
	Fail
)

func (s Status) String() string {
	switch s {
	case Loading:
		return "loading"
	case Success:
		return "success"
	case Fail:
		return "fail"
	default:
		return "unknown"
	}
}

const DefaultTimeout = 10 * time.Second

var lastID atomic.Int64

type Fetch[T any] func(ctx context.Context, param string) (T, error)

// Result is delivered to the update loop by the command Observe returns.
type Result[T any] struct {
	ID    int64
	Seq   int
	Param string
	Data  T
	Err   error
}

type Watcher[T any] struct {
	id       int64
	seq      int
	fetch    Fetch[T]
	timeout  time.Duration
	generic  func() string
	param    string
	observed bool

	Status Status
	Data   T
	Error  string
}

type Option func(*options)

type options struct {
	timeout time.Duration
	generic func() string
}

func WithTimeout(d time.Duration) Option {
	return func(o *options) { o.timeout = d }
}

func WithGenericMessage(f func() string) Option {
	return func(o *options) { o.generic = f }
}

func New[T any](fetch Fetch[T], opts ...Option) *Watcher[T] {
	o := options{timeout: DefaultTimeout}
	for _, opt := range opts {
		opt(&o)
	}
	if o.generic == nil {
		o.generic = func() string { return "Unexpected error occurred, please try again" }
	}
	return &Watcher[T]{
		id:      lastID.Add(1),
		fetch:   fetch,
		timeout: o.timeout,
		generic: o.generic,
	}
}

func (w *Watcher[T]) Param() string { return w.param }

// Observe reports the current parameter value. The first observation and
// every change start a new fetch; an unchanged value returns nil.
func (w *Watcher[T]) Observe(param string) tea.Cmd {
	if w.observed && param == w.param {
		return nil
	}
	w.observed = true
	w.param = param
	return w.start()
}

// Reload fetches the current parameter again.
func (w *Watcher[T]) Reload() tea.Cmd {
	if !w.observed {
		return nil
	}
	return w.start()
}

func (w *Watcher[T]) start() tea.Cmd {
	w.seq++
	w.Status = Loading
	w.Error = ""

	id, seq, param, fetch, timeout := w.id, w.seq, w.param, w.fetch, w.timeout
	logging.Debugf("routefetch %d: fetch %q seq=%d", id, param, seq)
	return func() tea.Msg {
		ctx := context.Background()
		if timeout > 0 {
			var cancel context.CancelFunc
			ctx, cancel = context.WithTimeout(ctx, timeout)
			defer cancel()
		}
		data, err := fetch(ctx, param)
		return Result[T]{ID: id, Seq: seq, Param: param, Data: data, Err: err}
	}
}

// Apply consumes msg if it belongs to this watcher. Results issued before the
// latest observation are dropped.
func (w *Watcher[T]) Apply(msg tea.Msg) bool {
	res, ok := msg.(Result[T])
	if !ok || res.ID != w.id {
		return false
	}
	if res.Seq != w.seq {
		logging.Debugf("routefetch %d: dropping stale result for %q", w.id, res.Param)
		return true
	}
	if res.Err == nil {
		w.Status = Success
		w.Data = res.Data
		w.Error = ""
		return true
	}
	var zero T
	w.Status = Fail
	w.Data = zero
	if e := api.AsError(res.Err); e.Kind == api.KindDomain && strings.TrimSpace(e.Message) != "" {
		w.Error = e.Message
	} else {
		w.Error = w.generic()
	}
	return true
}
