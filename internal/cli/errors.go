package cli

import (
	"fmt"
	"strings"
)

type notLoggedInError struct{}

func (notLoggedInError) Error() string {
	return "not logged in; run `userhub login --email <email>`"
}

func errNotLoggedIn() error {
	return notLoggedInError{}
}

type ownerOnlyError struct {
	actorID int64
	userID  string
}

func (e ownerOnlyError) Error() string {
	return fmt.Sprintf("permission denied: user %d cannot modify user %s", e.actorID, e.userID)
}

func errOwnerOnly(actorID int64, userID string) error {
	return ownerOnlyError{actorID: actorID, userID: userID}
}

type unsupportedLocaleError struct {
	code      string
	supported []string
}

func (e unsupportedLocaleError) Error() string {
	return fmt.Sprintf("unsupported locale %q (supported: %s)", e.code, strings.Join(e.supported, ", "))
}

func errUnsupportedLocale(code string, supported []string) error {
	return unsupportedLocaleError{code: code, supported: supported}
}
