// Package locale holds the active UI language and translated strings.
//
// The active locale is seeded from the "app-lang" storage key, then from
// $LANG, then defaults to English. Changing it persists the new code.
package locale

import (
	"embed"
	"io/fs"
	"os"
	"strings"

	"userhub-cli/internal/logging"

	"github.com/nicksnyder/go-i18n/v2/i18n"
	"github.com/pelletier/go-toml/v2"
	"golang.org/x/text/language"
)

// StorageKey is the local storage key holding the two-letter locale code.
const StorageKey = "app-lang"

const Default = "en"

//go:embed translations/*.toml
var translationsFS embed.FS

// Storage is the subset of local storage the localizer needs.
type Storage interface {
	Get(key string) (string, bool, error)
	Set(key, value string) error
}

type Localizer struct {
	storage   Storage
	bundle    *i18n.Bundle
	code      string
	localizer *i18n.Localizer
}

// New returns a Localizer seeded from storage, then envLang (e.g. "pl_PL.UTF-8"),
// then Default. storage may be nil.
func New(storage Storage, envLang string) (*Localizer, error) {
	bundle := i18n.NewBundle(language.English)
	bundle.RegisterUnmarshalFunc("toml", toml.Unmarshal)
	err := fs.WalkDir(translationsFS, "translations", func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			return nil
		}
		data, err := translationsFS.ReadFile(path)
		if err != nil {
			return err
		}
		_, err = bundle.ParseMessageFileBytes(data, path)
		return err
	})
	if err != nil {
		return nil, err
	}

	l := &Localizer{storage: storage, bundle: bundle}
	l.use(initialCode(storage, envLang))
	return l, nil
}

// NewFromEnv is New with envLang taken from $LANG.
func NewFromEnv(storage Storage) (*Localizer, error) {
	return New(storage, os.Getenv("LANG"))
}

func initialCode(storage Storage, envLang string) string {
	if storage != nil {
		v, ok, err := storage.Get(StorageKey)
		if err != nil {
			logging.Warningf("read %s: %v", StorageKey, err)
		}
		if ok {
			if code := Normalize(v); code != "" {
				return code
			}
		}
	}
	// LANG=C or POSIX carries no language.
	if code := Normalize(envLang); len(code) == 2 {
		return code
	}
	return Default
}

// Normalize reduces "pl-PL", "pl_PL.UTF-8" or " PL " to "pl".
func Normalize(s string) string {
	s = strings.ToLower(strings.TrimSpace(s))
	if i := strings.IndexAny(s, "-_."); i >= 0 {
		s = s[:i]
	}
	return s
}

// Supported lists the locales with bundled translations.
func (l *Localizer) Supported() []string {
	var out []string
	for _, tag := range l.bundle.LanguageTags() {
		base, _ := tag.Base()
		out = append(out, base.String())
	}
	return out
}

// Locale returns the active locale code. It is read on every outgoing request.
func (l *Localizer) Locale() string { return l.code }

// SetLocale switches the active locale and persists it under StorageKey.
func (l *Localizer) SetLocale(code string) error {
	code = Normalize(code)
	if code == "" {
		code = Default
	}
	l.use(code)
	if l.storage == nil {
		return nil
	}
	return l.storage.Set(StorageKey, code)
}

// Use switches the active locale for this process only.
func (l *Localizer) Use(code string) {
	code = Normalize(code)
	if code == "" {
		code = Default
	}
	l.use(code)
}

func (l *Localizer) use(code string) {
	l.code = code
	l.localizer = i18n.NewLocalizer(l.bundle, code, Default)
}

// T translates id. Optional data supplies template values ({{.Page}}).
// Unknown ids render as the id itself.
func (l *Localizer) T(id string, data ...map[string]any) string {
	cfg := &i18n.LocalizeConfig{MessageID: id}
	if len(data) > 0 {
		cfg.TemplateData = data[0]
	}
	msg, err := l.localizer.Localize(cfg)
	if err != nil {
		logging.Warningf("localize %q (%s): %v", id, l.code, err)
		return id
	}
	return msg
}

// GenericError is the fallback message for failures without a server message.
func (l *Localizer) GenericError() string { return l.T("genericError") }
