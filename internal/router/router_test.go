package router

import "testing"

func TestResolve(t *testing.T) {
	r := New()
	cases := []struct {
		path  string
		page  Page
		param string
		value string
	}{
		{"/", PageHome, "", ""},
		{"", PageHome, "", ""},
		{"/signup", PageSignUp, "", ""},
		{"/login/", PageLogin, "", ""},
		{"/activation/abc-123", PageActivation, "token", "abc-123"},
		{"/password-reset/request", PagePasswordResetRequest, "", ""},
		{"/password-reset/set?token=x", PagePasswordResetSet, "", ""},
		{"/user/42", PageUser, "id", "42"},
		{"/user", PageNotFound, "", ""},
		{"/user/1/extra", PageNotFound, "", ""},
		{"/nope", PageNotFound, "", ""},
	}
	for _, tc := range cases {
		t.Run(tc.path, func(t *testing.T) {
			loc := r.Resolve(tc.path)
			if loc.Page != tc.page {
				t.Fatalf("page: want %v got %v", tc.page, loc.Page)
			}
			if tc.param != "" && loc.Param(tc.param) != tc.value {
				t.Fatalf("param %s: want %q got %q", tc.param, tc.value, loc.Param(tc.param))
			}
		})
	}
}

func TestHistory(t *testing.T) {
	r := New()
	if r.Current().Page != PageHome {
		t.Fatalf("empty history should be home")
	}
	r.Push("/")
	r.Push(UserPath("3"))
	r.Push("/login")

	if loc, ok := r.Back(); !ok || loc.Page != PageUser || loc.Param("id") != "3" {
		t.Fatalf("unexpected back: %+v %v", loc, ok)
	}
	if loc, ok := r.Back(); !ok || loc.Page != PageHome {
		t.Fatalf("unexpected back: %+v %v", loc, ok)
	}
	if _, ok := r.Back(); ok {
		t.Fatalf("back past the first entry must fail")
	}
	if r.Depth() != 1 {
		t.Fatalf("depth=%d", r.Depth())
	}
}
