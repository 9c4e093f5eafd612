// Package config handles YAML config file loading for obsforge commands.
package config

import (
	"os"
	"regexp"
	"strings"
)

// envRefPattern matches ${NAME} and ${NAME:-fallback} references.
var envRefPattern = regexp.MustCompile(`\$\{[A-Za-z_][A-Za-z0-9_]*(?::-[^}]*)?\}`)

// ExpandEnv substitutes ${NAME} and ${NAME:-fallback} references in the
// input with environment variable values. A set, non-empty variable
// always wins; an unset or empty one takes the fallback when given and
// the empty string when not. Bare $NAME references and literal dollars
// pass through untouched, so shell snippets embedded in config values
// survive expansion.
func ExpandEnv(input string) string {
	return envRefPattern.ReplaceAllStringFunc(input, func(ref string) string {
		body := ref[2 : len(ref)-1]
		name, fallback, _ := strings.Cut(body, ":-")
		if value := os.Getenv(name); value != "" {
			return value
		}
		return fallback
	})
}
