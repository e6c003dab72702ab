package api

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"userhub-cli/internal/apimock"

	json "github.com/goccy/go-json"
)

type fixedLocale struct{ code string }

func (f *fixedLocale) Locale() string { return f.code }

func newTestClient(t *testing.T) (*Client, *apimock.Server, *fixedLocale) {
	t.Helper()
	mock := apimock.New()
	srv := httptest.NewServer(mock.Handler())
	t.Cleanup(srv.Close)
	loc := &fixedLocale{code: "en"}
	return New(srv.URL, loc, WithRateLimit(1000)), mock, loc
}

func TestDo_AcceptLanguageReadAtSendTime(t *testing.T) {
	c, mock, loc := newTestClient(t)
	ctx := context.Background()

	_, _ = c.GetUser(ctx, "1")
	loc.code = "pl"
	_, _ = c.GetUser(ctx, "1")

	calls := mock.CallsTo(http.MethodGet, "/api/v1/users/{id}")
	if len(calls) != 2 {
		t.Fatalf("expected 2 calls; got %d", len(calls))
	}
	if calls[0].AcceptLanguage != "en" || calls[1].AcceptLanguage != "pl" {
		t.Fatalf("unexpected Accept-Language sequence: %q, %q", calls[0].AcceptLanguage, calls[1].AcceptLanguage)
	}
	if calls[0].RequestID == "" || calls[0].RequestID == calls[1].RequestID {
		t.Fatalf("expected distinct request ids; got %q, %q", calls[0].RequestID, calls[1].RequestID)
	}
}

func TestLogin_SuccessDecodesUser(t *testing.T) {
	c, mock, _ := newTestClient(t)
	mock.Override(http.MethodPost, "/api/v1/auth", apimock.Respond(http.StatusOK, map[string]any{
		"id": 1, "username": "user1", "email": "user1@mail.com", "image": nil,
	}))

	u, err := c.Login(context.Background(), Credentials{Email: "user1@mail.com", Password: "P4ssword"})
	if err != nil {
		t.Fatalf("Login: %v", err)
	}
	if u.ID != 1 || u.Username != "user1" || u.Image != nil {
		t.Fatalf("unexpected user: %+v", u)
	}

	calls := mock.CallsTo(http.MethodPost, "/api/v1/auth")
	var body map[string]string
	if err := json.Unmarshal(calls[0].Body, &body); err != nil {
		t.Fatalf("unmarshal body: %v", err)
	}
	if body["email"] != "user1@mail.com" || body["password"] != "P4ssword" {
		t.Fatalf("unexpected request body: %v", body)
	}
}

func TestErrors_ThreeKinds(t *testing.T) {
	c, mock, _ := newTestClient(t)
	ctx := context.Background()

	mock.Override(http.MethodPost, "/api/v1/auth", apimock.Respond(http.StatusUnauthorized, map[string]string{"message": "Incorrect credentials"}))
	_, err := c.Login(ctx, Credentials{Email: "a@b.c", Password: "x"})
	apiErr := AsError(err)
	if apiErr == nil || apiErr.Kind != KindDomain || apiErr.Message != "Incorrect credentials" || apiErr.Status != 401 {
		t.Fatalf("expected domain error; got %#v", apiErr)
	}

	mock.Override(http.MethodPost, "/api/v1/users", apimock.Respond(http.StatusBadRequest, map[string]any{
		"validationErrors": map[string]string{"username": "Invalid username"},
	}))
	_, err = c.SignUp(ctx, SignUpRequest{Username: "u", Email: "a@b.c", Password: "P4ssword"})
	apiErr = AsError(err)
	if apiErr.Kind != KindValidation || apiErr.ValidationErrors["username"] != "Invalid username" || len(apiErr.ValidationErrors) != 1 {
		t.Fatalf("expected validation error; got %#v", apiErr)
	}

	mock.Override(http.MethodDelete, "/api/v1/users/{id}", apimock.NetworkError)
	err = c.DeleteUser(ctx, "3")
	apiErr = AsError(err)
	if apiErr.Kind != KindNetwork {
		t.Fatalf("expected network error; got %#v", apiErr)
	}
}

func TestErrors_NonJSONBodyIsDomainWithoutMessage(t *testing.T) {
	c, mock, _ := newTestClient(t)
	mock.Override(http.MethodGet, "/api/v1/users/{id}", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
		_, _ = w.Write([]byte("<html>bad gateway</html>"))
	})
	_, err := c.GetUser(context.Background(), "1")
	apiErr := AsError(err)
	if apiErr.Kind != KindDomain || apiErr.Message != "" || apiErr.Status != http.StatusBadGateway {
		t.Fatalf("unexpected error: %#v", apiErr)
	}
}

func TestAsError_WrapsForeignErrorsAsNetwork(t *testing.T) {
	base := context.Canceled
	got := AsError(base)
	if got.Kind != KindNetwork || !errors.Is(got, context.Canceled) {
		t.Fatalf("unexpected: %#v", got)
	}
	if AsError(nil) != nil {
		t.Fatalf("AsError(nil) should be nil")
	}
}

func TestListUsers_SendsPageAndSize(t *testing.T) {
	c, mock, _ := newTestClient(t)
	for _, name := range []string{"user1", "user2", "user3", "user4"} {
		mock.Seed(name, name+"@mail.com", "P4ssword", true)
	}

	page, err := c.ListUsers(context.Background(), 1, 3)
	if err != nil {
		t.Fatalf("ListUsers: %v", err)
	}
	if page.Page != 1 || page.Size != 3 || page.TotalPages != 2 || len(page.Content) != 1 || page.Content[0].Username != "user4" {
		t.Fatalf("unexpected page: %+v", page)
	}
	calls := mock.CallsTo(http.MethodGet, "/api/v1/users")
	if calls[0].Query != "page=1&size=3" {
		t.Fatalf("unexpected query: %q", calls[0].Query)
	}
}

func TestActivate_UsesTokenInPath(t *testing.T) {
	c, mock, _ := newTestClient(t)
	_, _ = c.Activate(context.Background(), "123")
	calls := mock.CallsTo(http.MethodPatch, "/api/v1/users/{token}/active")
	if len(calls) != 1 || calls[0].Path != "/api/v1/users/123/active" || calls[0].Params["token"] != "123" {
		t.Fatalf("unexpected calls: %+v", calls)
	}
}

func TestUpdateUser_EncodesImageAndOmitsWhenEmpty(t *testing.T) {
	c, mock, _ := newTestClient(t)
	mock.Override(http.MethodPut, "/api/v1/users/{id}", apimock.Respond(http.StatusOK, map[string]any{}))
	ctx := context.Background()

	if _, err := c.UpdateUser(ctx, "3", UpdateUserRequest{Username: "user3", Image: []byte("Hello")}); err != nil {
		t.Fatalf("UpdateUser: %v", err)
	}
	if _, err := c.UpdateUser(ctx, "3", UpdateUserRequest{Username: "user3-updated"}); err != nil {
		t.Fatalf("UpdateUser: %v", err)
	}

	calls := mock.CallsTo(http.MethodPut, "/api/v1/users/{id}")
	if got := string(calls[0].Body); got != `{"username":"user3","image":"SGVsbG8="}` {
		t.Fatalf("unexpected body with image: %s", got)
	}
	if got := string(calls[1].Body); got != `{"username":"user3-updated"}` {
		t.Fatalf("unexpected body without image: %s", got)
	}
}

func TestRequestPasswordReset_NotFoundMessage(t *testing.T) {
	c, mock, _ := newTestClient(t)
	mock.Seed("user1", "user1@mail.com", "P4ssword", true)

	msg, err := c.RequestPasswordReset(context.Background(), "user1@mail.com")
	if err != nil || msg.Message == "" {
		t.Fatalf("expected success message; msg=%+v err=%v", msg, err)
	}
	_, err = c.RequestPasswordReset(context.Background(), "nobody@mail.com")
	if apiErr := AsError(err); apiErr.Kind != KindDomain || apiErr.Message != "E-mail not found" {
		t.Fatalf("unexpected error: %#v", apiErr)
	}
}
