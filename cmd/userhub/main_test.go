package main

import (
	"reflect"
	"testing"
)

func TestRewriteDirectRouteArgs(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		in   []string
		want []string
	}{
		{
			name: "no args",
			in:   []string{"userhub"},
			want: []string{"userhub"},
		},
		{
			name: "route first token",
			in:   []string{"userhub", "/user/1"},
			want: []string{"userhub", "--route", "/user/1"},
		},
		{
			name: "route after value flag",
			in:   []string{"userhub", "--api", "http://127.0.0.1:8080", "/login"},
			want: []string{"userhub", "--api", "http://127.0.0.1:8080", "--route", "/login"},
		},
		{
			name: "route after equals flag",
			in:   []string{"userhub", "--lang=pl", "/signup"},
			want: []string{"userhub", "--lang=pl", "--route", "/signup"},
		},
		{
			name: "route after bool flag",
			in:   []string{"userhub", "--pretty", "/"},
			want: []string{"userhub", "--pretty", "--route", "/"},
		},
		{
			name: "explicit route flag not rewritten",
			in:   []string{"userhub", "--route", "/user/2"},
			want: []string{"userhub", "--route", "/user/2"},
		},
		{
			name: "subcommand not rewritten",
			in:   []string{"userhub", "users", "show", "1"},
			want: []string{"userhub", "users", "show", "1"},
		},
		{
			name: "after double dash not rewritten",
			in:   []string{"userhub", "--", "/login"},
			want: []string{"userhub", "--", "/login"},
		},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			got := rewriteDirectRouteArgs(tt.in)
			if !reflect.DeepEqual(got, tt.want) {
				t.Fatalf("rewriteDirectRouteArgs:\n got: %#v\nwant: %#v", got, tt.want)
			}
		})
	}
}
