package ctlgrepcli

import (
	"strings"

	"github.com/spf13/cobra"
)

// RewriteArgsForImplicitQ lets `ctlgrep "needle"` behave like
// `ctlgrep q "needle"` when the first positional argument is not a
// known subcommand.
func RewriteArgsForImplicitQ(root *cobra.Command, args []string) []string {
	if root == nil || len(args) == 0 {
		return args
	}

	first, ok := firstPositionalArgAfterFlags(args)
	if !ok {
		return args
	}

	known := knownTopLevelCommands(root)
	if known[strings.TrimSpace(first)] {
		return args
	}

	return append([]string{"q"}, args...)
}

func knownTopLevelCommands(root *cobra.Command) map[string]bool {
	known := map[string]bool{
		"help":       true,
		"completion": true,
	}

	if root == nil {
		return known
	}

	for _, c := range root.Commands() {
		if c == nil {
			continue
		}
		known[c.Name()] = true
		for _, a := range c.Aliases {
			known[a] = true
		}
	}

	return known
}

func firstPositionalArgAfterFlags(args []string) (string, bool) {
	skipNext := false
	positionalOnly := false

	for i := 0; i < len(args); i++ {
		a := strings.TrimSpace(args[i])
		if a == "" {
			continue
		}
		if skipNext {
			skipNext = false
			continue
		}

		if a == "--" {
			positionalOnly = true
			continue
		}

		if positionalOnly {
			return a, true
		}

		if strings.HasPrefix(a, "--") {
			if strings.Contains(a, "=") {
				continue
			}

			name := strings.TrimPrefix(a, "--")
			switch name {
			case "control", "design", "dir", "database", "backend", "exclude", "glob":
				skipNext = true
			}
			continue
		}

		if strings.HasPrefix(a, "-") && a != "-" {
			// Handle value-taking short flags: -n/-f/-D/-d/-x/-g
			if len(a) == 2 {
				switch a[1] {
				case 'n', 'f', 'D', 'd', 'x', 'g':
					skipNext = true
				}
				continue
			}

			// Inline values, e.g. -ncode / -n=code
			continue
		}

		return a, true
	}

	return "", false
}
