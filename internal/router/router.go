// Package router maps application paths to named pages and keeps a
// navigation history.
package router

import (
	"strings"
)

type Page int

const (
	PageNotFound Page = iota
	PageHome
	PageSignUp
	PageLogin
	PageActivation
	PagePasswordResetRequest
	PagePasswordResetSet
	PageUser
)

func (p Page) String() string {
	switch p {
	case PageHome:
		return "home"
	case PageSignUp:
		return "signup"
	case PageLogin:
		return "login"
	case PageActivation:
		return "activation"
	case PagePasswordResetRequest:
		return "password-reset-request"
	case PagePasswordResetSet:
		return "password-reset-set"
	case PageUser:
		return "user"
	default:
		return "not-found"
	}
}

type route struct {
	page     Page
	segments []string
}

// Routes is the path table. ":name" segments capture a parameter.
var Routes = []struct {
	Pattern string
	Page    Page
}{
	{"/", PageHome},
	{"/signup", PageSignUp},
	{"/login", PageLogin},
	{"/activation/:token", PageActivation},
	{"/password-reset/request", PagePasswordResetRequest},
	{"/password-reset/set", PagePasswordResetSet},
	{"/user/:id", PageUser},
}

// Location is a resolved path.
type Location struct {
	Path   string
	Page   Page
	Params map[string]string
}

func (l Location) Param(name string) string { return l.Params[name] }

type Router struct {
	routes  []route
	history []Location
}

func New() *Router {
	r := &Router{}
	for _, rt := range Routes {
		r.routes = append(r.routes, route{page: rt.Page, segments: split(rt.Pattern)})
	}
	return r
}

func split(p string) []string {
	p = strings.Trim(strings.TrimSpace(p), "/")
	if p == "" {
		return nil
	}
	return strings.Split(p, "/")
}

// Resolve matches path against the table. Unknown paths resolve to
// PageNotFound.
func (r *Router) Resolve(path string) Location {
	if i := strings.IndexAny(path, "?#"); i >= 0 {
		path = path[:i]
	}
	segs := split(path)
	clean := "/" + strings.Join(segs, "/")
	for _, rt := range r.routes {
		if len(rt.segments) != len(segs) {
			continue
		}
		params := map[string]string{}
		ok := true
		for i, s := range rt.segments {
			if strings.HasPrefix(s, ":") {
				if segs[i] == "" {
					ok = false
					break
				}
				params[s[1:]] = segs[i]
				continue
			}
			if s != segs[i] {
				ok = false
				break
			}
		}
		if ok {
			return Location{Path: clean, Page: rt.page, Params: params}
		}
	}
	return Location{Path: clean, Page: PageNotFound, Params: map[string]string{}}
}

// Push navigates to path and records it in the history.
func (r *Router) Push(path string) Location {
	loc := r.Resolve(path)
	r.history = append(r.history, loc)
	return loc
}

// Back pops the current location. It reports false when there is nothing to
// go back to.
func (r *Router) Back() (Location, bool) {
	if len(r.history) < 2 {
		return r.Current(), false
	}
	r.history = r.history[:len(r.history)-1]
	return r.Current(), true
}

// Current returns the active location, or home if nothing was pushed yet.
func (r *Router) Current() Location {
	if len(r.history) == 0 {
		return r.Resolve("/")
	}
	return r.history[len(r.history)-1]
}

func (r *Router) Depth() int { return len(r.history) }

// UserPath and ActivationPath build parameterized paths.
func UserPath(id string) string { return "/user/" + id }

func ActivationPath(token string) string { return "/activation/" + token }
