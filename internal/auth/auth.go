// Package auth holds the logged-in identity and keeps it in local storage.
//
// Every mutator writes the full state through to storage before returning.
package auth

import (
	"errors"
	"path"
	"strconv"
	"strings"

	"userhub-cli/internal/logging"

	json "github.com/goccy/go-json"
)

// StorageKey is the local storage key holding the JSON-encoded State.
const StorageKey = "auth"

// State is the persisted identity. ID == 0 means nobody is logged in.
type State struct {
	ID       int64   `json:"id"`
	Username string  `json:"username"`
	Email    string  `json:"email"`
	Image    *string `json:"image"`
}

func (s State) LoggedIn() bool { return s.ID != 0 }

// Patch is a partial update; nil fields are left unchanged.
type Patch struct {
	ID       *int64
	Username *string
	Email    *string
	// Image replaces the image when non-nil. A pointer to "" clears it.
	Image *string
}

// Full is a Patch that sets every field of st, clearing the image when st has none.
func Full(st State) Patch {
	img := ""
	if st.Image != nil {
		img = *st.Image
	}
	return Patch{ID: &st.ID, Username: &st.Username, Email: &st.Email, Image: &img}
}

type Storage interface {
	Get(key string) (string, bool, error)
	Set(key, value string) error
}

type Store struct {
	storage      Storage
	state        State
	defaultImage string
	imagesPath   string
}

type Option func(*Store)

// WithImagePaths configures how ImageURL resolves images.
func WithImagePaths(defaultImage, imagesPath string) Option {
	return func(s *Store) {
		s.defaultImage = defaultImage
		s.imagesPath = imagesPath
	}
}

// Load rehydrates the store from storage. Missing or malformed data yields
// the logged-out default; it is never an error.
func Load(storage Storage, opts ...Option) *Store {
	s := &Store{
		storage:      storage,
		defaultImage: "/assets/profile.png",
		imagesPath:   "/images",
	}
	for _, opt := range opts {
		opt(s)
	}
	s.state = s.read()
	return s
}

func (s *Store) read() State {
	if s.storage == nil {
		return State{}
	}
	raw, ok, err := s.storage.Get(StorageKey)
	if err != nil {
		logging.Errorf("read auth state: %v", err)
		return State{}
	}
	if !ok {
		return State{}
	}
	var st State
	if err := json.Unmarshal([]byte(raw), &st); err != nil {
		logging.Errorf("failed to parse stored auth state: %v", err)
		return State{}
	}
	return normalize(st)
}

func normalize(st State) State {
	if st.Image != nil && strings.TrimSpace(*st.Image) == "" {
		st.Image = nil
	}
	return st
}

// Get returns a copy of the current state.
func (s *Store) Get() State {
	st := s.state
	if st.Image != nil {
		img := *st.Image
		st.Image = &img
	}
	return st
}

// Update merges p into the current state field by field, then persists.
func (s *Store) Update(p Patch) error {
	if p.ID != nil {
		s.state.ID = *p.ID
	}
	if p.Username != nil {
		s.state.Username = *p.Username
	}
	if p.Email != nil {
		s.state.Email = *p.Email
	}
	if p.Image != nil {
		img := *p.Image
		s.state.Image = &img
	}
	s.state = normalize(s.state)
	return s.save()
}

// Logout resets to the logged-out default and persists.
func (s *Store) Logout() error {
	s.state = State{}
	return s.save()
}

func (s *Store) save() error {
	if s.storage == nil {
		return errors.New("auth: no storage")
	}
	b, err := json.Marshal(s.state)
	if err != nil {
		return err
	}
	return s.storage.Set(StorageKey, string(b))
}

// IsSelf reports whether id (a route parameter) is the logged-in user.
func (s *Store) IsSelf(id string) bool {
	if !s.state.LoggedIn() {
		return false
	}
	return strings.TrimSpace(id) == strconv.FormatInt(s.state.ID, 10)
}

// ImageURL resolves an image name to a displayable path, falling back to the
// default avatar.
func (s *Store) ImageURL(image *string) string {
	if image == nil || strings.TrimSpace(*image) == "" {
		return s.defaultImage
	}
	return path.Join(s.imagesPath, *image)
}
