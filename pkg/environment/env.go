// Package environment provides read-only views of process environment variables.
//
// Components that depend on environment variables take an Env instead of
// calling os.Getenv directly. Production code passes a snapshot captured at
// startup; tests pass a Map.
package environment

import (
	"os"
	"sort"
	"strings"
)

// Env looks up environment variables by name.
//
// Lookup reports whether the variable is set at all; a set but empty variable
// returns ("", true).
type Env interface {
	Lookup(name string) (string, bool)
}

// Map is an in-memory Env. A nil Map behaves as an empty environment.
type Map map[string]string

// Lookup implements Env.
func (m Map) Lookup(name string) (string, bool) {
	v, ok := m[name]
	return v, ok
}

// Names returns the variable names in sorted order.
func (m Map) Names() []string {
	names := make([]string, 0, len(m))
	for name := range m {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Capture takes a snapshot of the current process environment.
// Later changes to the process environment are not visible through the
// returned Map.
func Capture() Map {
	return FromList(os.Environ())
}

// FromList builds a Map from "KEY=value" entries as returned by os.Environ.
// Entries without "=" are ignored. When a key repeats, the last entry wins.
func FromList(entries []string) Map {
	m := make(Map, len(entries))
	for _, entry := range entries {
		name, value, ok := strings.Cut(entry, "=")
		if !ok || name == "" {
			continue
		}
		m[name] = value
	}
	return m
}

// OS returns an Env that reads the live process environment on every lookup.
func OS() Env {
	return osEnv{}
}

type osEnv struct{}

func (osEnv) Lookup(name string) (string, bool) {
	return os.LookupEnv(name)
}

// NonBlank returns the value of name when it is set and not just whitespace.
// The returned value is not trimmed.
func NonBlank(env Env, name string) (string, bool) {
	if env == nil {
		return "", false
	}
	v, ok := env.Lookup(name)
	if !ok || strings.TrimSpace(v) == "" {
		return "", false
	}
	return v, true
}

// Overlay returns an Env that consults override before base.
func Overlay(base Env, override Map) Env {
	return overlay{base: base, override: override}
}

type overlay struct {
	base     Env
	override Map
}

func (o overlay) Lookup(name string) (string, bool) {
	if v, ok := o.override[name]; ok {
		return v, true
	}
	if o.base == nil {
		return "", false
	}
	return o.base.Lookup(name)
}
