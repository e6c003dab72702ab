package apimock

import (
	"encoding/base64"
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"
	json "github.com/goccy/go-json"
	"github.com/google/uuid"
)

const (
	minUsernameLen = 4
	maxUsernameLen = 32
	minPasswordLen = 6
)

func decode(r *http.Request, v any) bool {
	return json.NewDecoder(r.Body).Decode(v) == nil
}

func (s *Server) handleAuth(w http.ResponseWriter, r *http.Request) {
	var body struct {
		Email    string `json:"email"`
		Password string `json:"password"`
	}
	if !decode(r, &body) {
		JSON(w, http.StatusBadRequest, message("Malformed request"))
		return
	}
	errs := map[string]string{}
	if strings.TrimSpace(body.Email) == "" {
		errs["email"] = "Email cannot be null"
	}
	if body.Password == "" {
		errs["password"] = "Password cannot be null"
	}
	if len(errs) > 0 {
		JSON(w, http.StatusBadRequest, validation(errs))
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	for _, id := range sortedIDs(s.users) {
		u := s.users[id]
		if !strings.EqualFold(u.Email, body.Email) || u.Password != body.Password {
			continue
		}
		if !u.Active {
			JSON(w, http.StatusForbidden, message("Account is inactive"))
			return
		}
		JSON(w, http.StatusOK, userJSON(u))
		return
	}
	JSON(w, http.StatusUnauthorized, message("Incorrect credentials"))
}

func (s *Server) handleSignUp(w http.ResponseWriter, r *http.Request) {
	var body struct {
		Username string `json:"username"`
		Email    string `json:"email"`
		Password string `json:"password"`
	}
	if !decode(r, &body) {
		JSON(w, http.StatusBadRequest, message("Malformed request"))
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	errs := map[string]string{}
	if msg := validateUsername(body.Username); msg != "" {
		errs["username"] = msg
	}
	switch {
	case strings.TrimSpace(body.Email) == "":
		errs["email"] = "E-mail cannot be null"
	case !strings.Contains(body.Email, "@"):
		errs["email"] = "E-mail is not valid"
	case s.emailInUseLocked(body.Email):
		errs["email"] = "E-mail in use"
	}
	if len(body.Password) < minPasswordLen {
		errs["password"] = "Password must have at least 6 characters"
	}
	if len(errs) > 0 {
		JSON(w, http.StatusBadRequest, validation(errs))
		return
	}
	s.insertLocked(body.Username, body.Email, body.Password, false)
	JSON(w, http.StatusOK, message("User create success"))
}

func (s *Server) handleActivate(w http.ResponseWriter, r *http.Request) {
	token := chi.URLParam(r, "token")
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, u := range s.users {
		if !u.Active && u.Token != "" && u.Token == token {
			u.Active = true
			u.Token = ""
			JSON(w, http.StatusOK, message("Account is activated"))
			return
		}
	}
	JSON(w, http.StatusBadRequest, message("Activation failure"))
}

func (s *Server) handleList(w http.ResponseWriter, r *http.Request) {
	page, _ := strconv.Atoi(r.URL.Query().Get("page"))
	size, _ := strconv.Atoi(r.URL.Query().Get("size"))
	if page < 0 {
		page = 0
	}
	if size <= 0 {
		size = 10
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	var active []*user
	for _, id := range sortedIDs(s.users) {
		if s.users[id].Active {
			active = append(active, s.users[id])
		}
	}
	totalPages := (len(active) + size - 1) / size
	content := []map[string]any{}
	for i := page * size; i < len(active) && i < (page+1)*size; i++ {
		content = append(content, userJSON(active[i]))
	}
	JSON(w, http.StatusOK, map[string]any{
		"content":    content,
		"page":       page,
		"size":       size,
		"totalPages": totalPages,
	})
}

func (s *Server) handleGetUser(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	defer s.mu.Unlock()
	u, ok := s.lookupLocked(chi.URLParam(r, "id"))
	if !ok || !u.Active {
		JSON(w, http.StatusNotFound, message("User not found"))
		return
	}
	JSON(w, http.StatusOK, userJSON(u))
}

func (s *Server) handleUpdateUser(w http.ResponseWriter, r *http.Request) {
	var body struct {
		Username string `json:"username"`
		Image    string `json:"image"`
	}
	if !decode(r, &body) {
		JSON(w, http.StatusBadRequest, message("Malformed request"))
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	u, ok := s.lookupLocked(chi.URLParam(r, "id"))
	if !ok {
		JSON(w, http.StatusNotFound, message("User not found"))
		return
	}
	errs := map[string]string{}
	if msg := validateUsername(body.Username); msg != "" {
		errs["username"] = msg
	}
	var imageName *string
	if body.Image != "" {
		name, msg := storeImage(body.Image)
		if msg != "" {
			errs["image"] = msg
		} else {
			imageName = &name
		}
	}
	if len(errs) > 0 {
		JSON(w, http.StatusBadRequest, validation(errs))
		return
	}
	u.Username = body.Username
	if imageName != nil {
		u.Image = imageName
	}
	JSON(w, http.StatusOK, map[string]any{"username": u.Username, "image": u.Image})
}

func (s *Server) handleDeleteUser(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if u, ok := s.lookupLocked(chi.URLParam(r, "id")); ok {
		delete(s.users, u.ID)
	}
	JSON(w, http.StatusOK, map[string]any{})
}

func (s *Server) handlePasswordReset(w http.ResponseWriter, r *http.Request) {
	var body struct {
		Email string `json:"email"`
	}
	if !decode(r, &body) || strings.TrimSpace(body.Email) == "" {
		JSON(w, http.StatusBadRequest, validation(map[string]string{"email": "E-mail cannot be null"}))
		return
	}
	if !strings.Contains(body.Email, "@") {
		JSON(w, http.StatusBadRequest, validation(map[string]string{"email": "E-mail is not valid"}))
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.emailInUseLocked(body.Email) {
		JSON(w, http.StatusNotFound, message("E-mail not found"))
		return
	}
	JSON(w, http.StatusOK, message("Check your email for resetting your password"))
}

func (s *Server) lookupLocked(rawID string) (*user, bool) {
	id, err := strconv.ParseInt(rawID, 10, 64)
	if err != nil {
		return nil, false
	}
	u, ok := s.users[id]
	return u, ok
}

func (s *Server) emailInUseLocked(email string) bool {
	for _, u := range s.users {
		if strings.EqualFold(u.Email, email) {
			return true
		}
	}
	return false
}

func validateUsername(name string) string {
	name = strings.TrimSpace(name)
	if name == "" {
		return "Username cannot be null"
	}
	if len(name) < minUsernameLen || len(name) > maxUsernameLen {
		return "Must have min 4 and max 32 characters"
	}
	return ""
}

// storeImage validates a base64 png/jpeg upload and returns its generated file name.
func storeImage(b64 string) (string, string) {
	raw, err := base64.StdEncoding.DecodeString(b64)
	if err != nil {
		return "", "Only png or jpeg files are allowed"
	}
	switch http.DetectContentType(raw) {
	case "image/png":
		return uuid.NewString() + ".png", ""
	case "image/jpeg":
		return uuid.NewString() + ".jpg", ""
	default:
		return "", "Only png or jpeg files are allowed"
	}
}
