package routefetch

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"userhub-cli/internal/api"
	"userhub-cli/internal/apimock"
)

type enLocale struct{}

func (enLocale) Locale() string { return "en" }

func TestObserve_ChangeIssuesCallsInOrder(t *testing.T) {
	mock := apimock.New()
	srv := httptest.NewServer(mock.Handler())
	t.Cleanup(srv.Close)
	c := api.New(srv.URL, enLocale{})

	w := New[api.Message](c.Activate)
	cmd1 := w.Observe("123")
	if cmd1 == nil || w.Status != Loading {
		t.Fatalf("expected first observation to fetch")
	}
	_ = w.Apply(cmd1())
	cmd2 := w.Observe("456")
	if cmd2 == nil {
		t.Fatalf("expected change to fetch")
	}
	_ = w.Apply(cmd2())

	calls := mock.CallsTo(http.MethodPatch, "/api/v1/users/{token}/active")
	if len(calls) != 2 || calls[0].Params["token"] != "123" || calls[1].Params["token"] != "456" {
		t.Fatalf("unexpected calls: %+v", calls)
	}
	if w.Status != Fail || w.Error != "Activation failure" {
		t.Fatalf("unexpected state: %v %q", w.Status, w.Error)
	}
}

func TestObserve_SameValueDoesNotRefetch(t *testing.T) {
	n := 0
	w := New[string](func(ctx context.Context, p string) (string, error) { n++; return p, nil })
	_ = w.Apply(w.Observe("1")())
	if cmd := w.Observe("1"); cmd != nil {
		t.Fatalf("re-observing the same value must not fetch")
	}
	if n != 1 || w.Status != Success || w.Data != "1" {
		t.Fatalf("unexpected: n=%d status=%v data=%q", n, w.Status, w.Data)
	}
}

func TestApply_StaleResultIsDropped(t *testing.T) {
	w := New[string](func(ctx context.Context, p string) (string, error) { return "user " + p, nil })
	slow := w.Observe("123")
	fast := w.Observe("456")

	_ = w.Apply(fast())
	if !w.Apply(slow()) {
		t.Fatalf("stale result must still be consumed")
	}
	if w.Status != Success || w.Data != "user 456" || w.Param() != "456" {
		t.Fatalf("stale response overwrote state: %v %q", w.Status, w.Data)
	}
}

func TestApply_ErrorMessages(t *testing.T) {
	cases := []struct {
		name string
		err  error
		want string
	}{
		{"server message", &api.Error{Kind: api.KindDomain, Status: 404, Message: "User not found"}, "User not found"},
		{"no message", &api.Error{Kind: api.KindDomain, Status: 500}, "generic"},
		{"network", errors.New("connection refused"), "generic"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			w := New[int](func(context.Context, string) (int, error) { return 0, tc.err },
				WithGenericMessage(func() string { return "generic" }))
			_ = w.Apply(w.Observe("1")())
			if w.Status != Fail || w.Error != tc.want {
				t.Fatalf("got %v %q", w.Status, w.Error)
			}
		})
	}
}

func TestReload_RefetchesCurrentParam(t *testing.T) {
	var seen []string
	w := New[string](func(ctx context.Context, p string) (string, error) { seen = append(seen, p); return p, nil })
	if w.Reload() != nil {
		t.Fatalf("reload before observation must be a no-op")
	}
	_ = w.Apply(w.Observe("7")())
	cmd := w.Reload()
	if w.Status != Loading {
		t.Fatalf("reload must set loading")
	}
	_ = w.Apply(cmd())
	if len(seen) != 2 || seen[1] != "7" {
		t.Fatalf("unexpected fetches: %v", seen)
	}
}

func TestApply_ForeignResultIgnored(t *testing.T) {
	a := New[string](func(context.Context, string) (string, error) { return "a", nil })
	b := New[string](func(context.Context, string) (string, error) { return "b", nil })
	msg := a.Observe("x")()
	b.Observe("x")
	if b.Apply(msg) {
		t.Fatalf("b consumed a's result")
	}
}
