package form

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"reflect"
	"testing"

	"userhub-cli/internal/api"
	"userhub-cli/internal/apimock"
)

type enLocale struct{}

func (enLocale) Locale() string { return "en" }

func newClient(t *testing.T) (*api.Client, *apimock.Server) {
	t.Helper()
	mock := apimock.New()
	srv := httptest.NewServer(mock.Handler())
	t.Cleanup(srv.Close)
	return api.New(srv.URL, enLocale{}), mock
}

func generic() string { return "generic" }

func TestSubmit_DoubleSubmitWhilePendingIsSingleFlight(t *testing.T) {
	c, mock := newClient(t)
	f := New[api.Message](WithGenericMessage(generic))
	call := func(ctx context.Context) (api.Message, error) {
		return c.SignUp(ctx, api.SignUpRequest{Username: "user1", Email: "user1@mail.com", Password: "P4ssword"})
	}

	cmd, ok := f.Submit(call)
	if !ok || cmd == nil {
		t.Fatalf("expected first submit to be accepted")
	}
	if f.CanSubmit(true) {
		t.Fatalf("button must be disabled while pending")
	}
	if cmd2, ok := f.Submit(call); ok || cmd2 != nil {
		t.Fatalf("expected second submit to be ignored")
	}

	if !f.Apply(cmd()) {
		t.Fatalf("expected result to be consumed")
	}
	if got := len(mock.CallsTo(http.MethodPost, "/api/v1/users")); got != 1 {
		t.Fatalf("expected exactly one outbound call; got %d", got)
	}
	if f.Status != Success || f.Data.Message != "User create success" {
		t.Fatalf("unexpected state: %v %+v", f.Status, f.Data)
	}
}

func TestApply_ValidationFillsOnlyListedFields(t *testing.T) {
	c, mock := newClient(t)
	mock.Override(http.MethodPost, "/api/v1/users", apimock.Respond(http.StatusBadRequest, map[string]any{
		"validationErrors": map[string]string{"username": "Invalid username", "email": "E-mail in use"},
	}))
	f := New[api.Message](WithGenericMessage(generic))
	cmd, _ := f.Submit(func(ctx context.Context) (api.Message, error) {
		return c.SignUp(ctx, api.SignUpRequest{Username: "u", Email: "x@mail.com", Password: "P4ssword"})
	})
	f.Apply(cmd())

	want := map[string]string{"username": "Invalid username", "email": "E-mail in use"}
	if f.Status != Failure || !reflect.DeepEqual(f.FieldErrors, want) || f.GeneralError != "" {
		t.Fatalf("unexpected state: status=%v fields=%v general=%q", f.Status, f.FieldErrors, f.GeneralError)
	}
	// The button comes back once the failure is in.
	if !f.CanSubmit(true) {
		t.Fatalf("expected submit to be re-enabled after failure")
	}
}

func TestApply_FailureShapes(t *testing.T) {
	cases := []struct {
		name        string
		handler     http.HandlerFunc
		wantGeneral string
	}{
		{
			name:        "message only",
			handler:     apimock.Respond(http.StatusUnauthorized, map[string]string{"message": "Incorrect credentials"}),
			wantGeneral: "Incorrect credentials",
		},
		{
			name:        "domain without message",
			handler:     apimock.Respond(http.StatusInternalServerError, map[string]string{}),
			wantGeneral: "generic",
		},
		{
			name:        "network failure",
			handler:     apimock.NetworkError,
			wantGeneral: "generic",
		},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			c, mock := newClient(t)
			mock.Override(http.MethodPost, "/api/v1/auth", tc.handler)
			f := New[api.User](WithGenericMessage(generic))
			cmd, _ := f.Submit(func(ctx context.Context) (api.User, error) {
				return c.Login(ctx, api.Credentials{Email: "user1@mail.com", Password: "P4ssword"})
			})
			f.Apply(cmd())
			if f.Status != Failure || f.GeneralError != tc.wantGeneral || len(f.FieldErrors) != 0 {
				t.Fatalf("unexpected state: status=%v general=%q fields=%v", f.Status, f.GeneralError, f.FieldErrors)
			}
		})
	}
}

func TestTouch_ClearsOnlyThatField(t *testing.T) {
	f := New[api.Message]()
	cmd, _ := f.Submit(func(context.Context) (api.Message, error) {
		return api.Message{}, &api.Error{Kind: api.KindValidation, Status: 400, ValidationErrors: map[string]string{
			"username": "Invalid username",
			"email":    "E-mail in use",
		}}
	})
	f.Apply(cmd())

	f.Touch("username")
	if f.FieldError("username") != "" || f.FieldError("email") != "E-mail in use" {
		t.Fatalf("unexpected field errors after touch: %v", f.FieldErrors)
	}
	f.Touch("password")
	if len(f.FieldErrors) != 1 {
		t.Fatalf("touching an unset field must not change others: %v", f.FieldErrors)
	}
}

func TestSubmit_ResubmitClearsPreviousErrors(t *testing.T) {
	f := New[api.Message](WithGenericMessage(generic))
	fail := func(context.Context) (api.Message, error) {
		return api.Message{}, &api.Error{Kind: api.KindValidation, Status: 400, ValidationErrors: map[string]string{"email": "bad"}}
	}
	cmd, _ := f.Submit(fail)
	f.Apply(cmd())
	if f.FieldError("email") == "" {
		t.Fatalf("expected field error")
	}

	cmd, ok := f.Submit(func(context.Context) (api.Message, error) {
		return api.Message{}, errors.New("dial tcp: connection refused")
	})
	if !ok {
		t.Fatalf("expected resubmit to be accepted")
	}
	if len(f.FieldErrors) != 0 || f.GeneralError != "" || f.Status != Pending {
		t.Fatalf("expected errors cleared while pending: %+v", f)
	}
	f.Apply(cmd())
	if f.GeneralError != "generic" || len(f.FieldErrors) != 0 {
		t.Fatalf("unexpected state after second result: general=%q fields=%v", f.GeneralError, f.FieldErrors)
	}
}

func TestApply_IgnoresForeignAndStaleResults(t *testing.T) {
	a := New[api.Message]()
	b := New[api.Message]()
	if a.ID() == b.ID() {
		t.Fatalf("controllers must have distinct ids")
	}

	cmdA, _ := a.Submit(func(context.Context) (api.Message, error) { return api.Message{Message: "a"}, nil })
	msgA := cmdA()
	if b.Apply(msgA) {
		t.Fatalf("b must not consume a's result")
	}
	if a.Apply("unrelated") {
		t.Fatalf("non-result messages are not consumed")
	}

	a.Reset()
	if !a.Apply(msgA) || a.Status != Idle || a.Data.Message != "" {
		t.Fatalf("abandoned result must be dropped: status=%v data=%+v", a.Status, a.Data)
	}
}

func TestSubmit_AppliesTimeout(t *testing.T) {
	f := New[api.Message](WithTimeout(1))
	cmd, _ := f.Submit(func(ctx context.Context) (api.Message, error) {
		<-ctx.Done()
		return api.Message{}, ctx.Err()
	})
	res := cmd().(Result[api.Message])
	if !errors.Is(res.Err, context.DeadlineExceeded) {
		t.Fatalf("expected deadline error; got %v", res.Err)
	}
}
