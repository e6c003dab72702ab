package main

import (
	"os"
	"strings"

	"userhub-cli/internal/cli"
)

func isRoute(s string) bool {
	return strings.HasPrefix(strings.TrimSpace(s), "/")
}

func rewriteDirectRouteArgs(argv []string) []string {
	// Convenience: `userhub /user/1` works like `userhub --route /user/1`.
	//
	// Cobra treats the first non-flag token as a subcommand, so we rewrite argv before parsing.
	// Persistent flags may come first (e.g. `userhub --api ... /login`), so we look for the
	// first positional token, not just argv[1].
	if len(argv) < 2 {
		return argv
	}

	valueFlags := map[string]bool{
		"--api":        true,
		"--config-dir": true,
		"--lang":       true,
		"--format":     true,
		"--route":      true,
	}

	for i := 1; i < len(argv); i++ {
		a := strings.TrimSpace(argv[i])
		if a == "" {
			continue
		}
		if a == "--" {
			return argv
		}
		if strings.HasPrefix(a, "-") {
			if !strings.Contains(a, "=") && valueFlags[a] {
				i++
			}
			continue
		}
		if isRoute(a) {
			out := make([]string, 0, len(argv)+1)
			out = append(out, argv[:i]...)
			out = append(out, "--route")
			out = append(out, argv[i:]...)
			return out
		}
		return argv
	}
	return argv
}

func main() {
	os.Args = rewriteDirectRouteArgs(os.Args)

	cmd := cli.NewRootCmd()
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
