// Package apimock is an in-memory implementation of the user-account REST
// contract. Tests mount it on httptest servers; `userhub mock-server` serves
// it for local demos.
package apimock

import (
	"bytes"
	"io"
	"net/http"
	"sort"
	"strings"
	"sync"

	"userhub-cli/internal/logging"

	"github.com/go-chi/chi/v5"
	json "github.com/goccy/go-json"
	"github.com/google/uuid"
)

// Call is one recorded request.
type Call struct {
	Method         string
	Pattern        string
	Path           string
	Query          string
	AcceptLanguage string
	RequestID      string
	Params         map[string]string
	Body           []byte
}

type user struct {
	ID       int64
	Username string
	Email    string
	Password string
	Image    *string
	Active   bool
	Token    string
}

type Server struct {
	mu        sync.Mutex
	users     map[int64]*user
	nextID    int64
	calls     []Call
	overrides map[string]http.HandlerFunc
	router    chi.Router
}

func New() *Server {
	s := &Server{
		users:     map[int64]*user{},
		nextID:    1,
		overrides: map[string]http.HandlerFunc{},
	}
	r := chi.NewRouter()
	s.route(r, http.MethodPost, "/api/v1/auth", s.handleAuth)
	s.route(r, http.MethodPost, "/api/v1/users", s.handleSignUp)
	s.route(r, http.MethodGet, "/api/v1/users", s.handleList)
	s.route(r, http.MethodPost, "/api/v1/users/password-reset", s.handlePasswordReset)
	s.route(r, http.MethodPatch, "/api/v1/users/{token}/active", s.handleActivate)
	s.route(r, http.MethodGet, "/api/v1/users/{id}", s.handleGetUser)
	s.route(r, http.MethodPut, "/api/v1/users/{id}", s.handleUpdateUser)
	s.route(r, http.MethodDelete, "/api/v1/users/{id}", s.handleDeleteUser)
	s.router = r
	return s
}

func (s *Server) Handler() http.Handler { return s.router }

// Override replaces the handler for one route until Reset is called.
// pattern uses chi syntax, e.g. "/api/v1/users/{id}".
func (s *Server) Override(method, pattern string, h http.HandlerFunc) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.overrides[method+" "+pattern] = h
}

// Reset drops overrides and recorded calls. Seeded users are kept.
func (s *Server) Reset() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.overrides = map[string]http.HandlerFunc{}
	s.calls = nil
}

// Calls returns a copy of the recorded requests, oldest first.
func (s *Server) Calls() []Call {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]Call, len(s.calls))
	copy(out, s.calls)
	return out
}

// CallsTo filters Calls by method and route pattern.
func (s *Server) CallsTo(method, pattern string) []Call {
	var out []Call
	for _, c := range s.Calls() {
		if c.Method == method && c.Pattern == pattern {
			out = append(out, c)
		}
	}
	return out
}

// Seed inserts a user and returns its id. Inactive users get an activation token.
func (s *Server) Seed(username, email, password string, active bool) int64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.insertLocked(username, email, password, active).ID
}

// ActivationToken returns the pending token for email, if any.
func (s *Server) ActivationToken(email string) (string, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, u := range s.users {
		if strings.EqualFold(u.Email, email) && !u.Active {
			return u.Token, true
		}
	}
	return "", false
}

func (s *Server) insertLocked(username, email, password string, active bool) *user {
	u := &user{
		ID:       s.nextID,
		Username: username,
		Email:    email,
		Password: password,
		Active:   active,
	}
	if !active {
		u.Token = uuid.NewString()
	}
	s.nextID++
	s.users[u.ID] = u
	return u
}

func (s *Server) route(r chi.Router, method, pattern string, h http.HandlerFunc) {
	r.Method(method, pattern, http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
		body, _ := io.ReadAll(io.LimitReader(req.Body, 8<<20))
		_ = req.Body.Close()
		req.Body = io.NopCloser(bytes.NewReader(body))

		params := map[string]string{}
		if rc := chi.RouteContext(req.Context()); rc != nil {
			for i, k := range rc.URLParams.Keys {
				params[k] = rc.URLParams.Values[i]
			}
		}

		s.mu.Lock()
		s.calls = append(s.calls, Call{
			Method:         method,
			Pattern:        pattern,
			Path:           req.URL.Path,
			Query:          req.URL.RawQuery,
			AcceptLanguage: req.Header.Get("Accept-Language"),
			RequestID:      req.Header.Get("X-Request-ID"),
			Params:         params,
			Body:           body,
		})
		override := s.overrides[method+" "+pattern]
		s.mu.Unlock()

		logging.Debugf("mock %s %s lang=%q", method, req.URL.Path, req.Header.Get("Accept-Language"))
		if override != nil {
			override(w, req)
			return
		}
		h(w, req)
	}))
}

// JSON writes v with the given status.
func JSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// Respond returns a handler that always writes v with status.
func Respond(status int, v any) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) { JSON(w, status, v) }
}

// NetworkError drops the connection without a response.
func NetworkError(w http.ResponseWriter, r *http.Request) {
	hj, ok := w.(http.Hijacker)
	if !ok {
		panic(http.ErrAbortHandler)
	}
	conn, _, err := hj.Hijack()
	if err != nil {
		panic(http.ErrAbortHandler)
	}
	_ = conn.Close()
}

func message(msg string) map[string]string { return map[string]string{"message": msg} }

func validation(errs map[string]string) map[string]any {
	return map[string]any{"validationErrors": errs}
}

func userJSON(u *user) map[string]any {
	return map[string]any{"id": u.ID, "username": u.Username, "email": u.Email, "image": u.Image}
}

func sortedIDs(m map[int64]*user) []int64 {
	ids := make([]int64, 0, len(m))
	for id := range m {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	return ids
}
