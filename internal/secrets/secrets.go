// Package secrets resolves logical secret names to values. Absence of a
// value is not an error: it means the feature depending on it (a
// notification endpoint, for example) is disabled.
package secrets

import (
	"os"
	"strings"
)

// Resolver looks up a secret by its logical name. The boolean is false when
// no value is available.
type Resolver interface {
	Lookup(name string) (string, bool)
}

// Env resolves secrets from environment variables, the local-development
// path. A Prefix, when set, is prepended to every name.
type Env struct {
	Prefix string
}

// Lookup returns the trimmed value of the environment variable, or false
// when unset or empty.
func (e Env) Lookup(name string) (string, bool) {
	v, ok := os.LookupEnv(e.Prefix + name)
	v = strings.TrimSpace(v)
	if !ok || v == "" {
		return "", false
	}
	return v, true
}

// Static resolves from a fixed map, for tests and embedded configuration.
type Static map[string]string

// Lookup returns the mapped value, or false when absent or empty.
func (s Static) Lookup(name string) (string, bool) {
	v, ok := s[name]
	if !ok || v == "" {
		return "", false
	}
	return v, true
}
