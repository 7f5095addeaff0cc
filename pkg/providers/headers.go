package providers

import (
	"net/http"
	"slices"

	"mercator-hq/switchboard/pkg/environment"
)

// ApplyHeaders sets the provider's headers on h and returns it. A nil h is
// allocated.
//
// Static headers are always set. Environment headers are set only when their
// variable is present and not blank, and then with the variable's untrimmed
// value. Headers set here replace existing values of the same name.
func (i Info) ApplyHeaders(h http.Header, env environment.Env) http.Header {
	if h == nil {
		h = make(http.Header)
	}

	for _, name := range sortedKeys(i.StaticHeaders) {
		h.Set(name, i.StaticHeaders[name])
	}

	for _, name := range sortedKeys(i.EnvHeaders) {
		if value, ok := environment.NonBlank(env, i.EnvHeaders[name]); ok {
			h.Set(name, value)
		}
	}

	return h
}

func sortedKeys(m map[string]string) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	slices.Sort(keys)
	return keys
}
