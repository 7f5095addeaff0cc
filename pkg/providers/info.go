package providers

import "maps"

// Info describes one provider: where requests go, how they authenticate,
// which headers they carry and how retries are bounded.
//
// Info is plain data. Empty strings and nil maps mean "not set". Once built
// an Info is never mutated, and Clone gives an independent copy when one is
// needed.
type Info struct {
	// Name is the human-friendly provider name.
	Name string `yaml:"name" json:"name" toml:"name"`

	// BaseURL is the endpoint prefix. When empty the public OpenAI API (or the
	// managed backend for managed logins) is used.
	BaseURL string `yaml:"base_url,omitempty" json:"base_url,omitempty" toml:"base_url,omitempty"`

	// EnvKey names the environment variable that holds the API key.
	EnvKey string `yaml:"env_key,omitempty" json:"env_key,omitempty" toml:"env_key,omitempty"`

	// EnvKeyInstructions is shown to the user when EnvKey is unset.
	EnvKeyInstructions string `yaml:"env_key_instructions,omitempty" json:"env_key_instructions,omitempty" toml:"env_key_instructions,omitempty"`

	// BearerTokenOverride is an explicit secret that takes precedence over
	// every other credential source.
	BearerTokenOverride string `yaml:"bearer_token_override,omitempty" json:"bearer_token_override,omitempty" toml:"bearer_token_override,omitempty"`

	// WireAPI is the protocol the provider speaks. Defaults to chat.
	WireAPI WireAPI `yaml:"wire_api" json:"wire_api" toml:"wire_api"`

	// QueryParams are appended to the URL verbatim.
	QueryParams map[string]string `yaml:"query_params,omitempty" json:"query_params,omitempty" toml:"query_params,omitempty"`

	// StaticHeaders are attached to every request.
	StaticHeaders map[string]string `yaml:"static_headers,omitempty" json:"static_headers,omitempty" toml:"static_headers,omitempty"`

	// EnvHeaders maps a header name to the environment variable holding its
	// value. The header is only attached when the variable is non-blank.
	EnvHeaders map[string]string `yaml:"env_headers,omitempty" json:"env_headers,omitempty" toml:"env_headers,omitempty"`

	// RequestMaxRetriesOverride, StreamMaxRetriesOverride and
	// StreamIdleTimeoutMSOverride replace the global defaults when set.
	RequestMaxRetriesOverride   *uint64 `yaml:"request_max_retries,omitempty" json:"request_max_retries,omitempty" toml:"request_max_retries,omitempty"`
	StreamMaxRetriesOverride    *uint64 `yaml:"stream_max_retries,omitempty" json:"stream_max_retries,omitempty" toml:"stream_max_retries,omitempty"`
	StreamIdleTimeoutMSOverride *uint64 `yaml:"stream_idle_timeout_ms,omitempty" json:"stream_idle_timeout_ms,omitempty" toml:"stream_idle_timeout_ms,omitempty"`

	// RequiresManagedAuth marks providers that take part in the interactive
	// login flow and may use a stored credential.
	RequiresManagedAuth bool `yaml:"requires_managed_auth,omitempty" json:"requires_managed_auth,omitempty" toml:"requires_managed_auth,omitempty"`
}

// Clone returns a deep copy of i.
func (i Info) Clone() Info {
	c := i
	c.QueryParams = maps.Clone(i.QueryParams)
	c.StaticHeaders = maps.Clone(i.StaticHeaders)
	c.EnvHeaders = maps.Clone(i.EnvHeaders)
	c.RequestMaxRetriesOverride = cloneUint64(i.RequestMaxRetriesOverride)
	c.StreamMaxRetriesOverride = cloneUint64(i.StreamMaxRetriesOverride)
	c.StreamIdleTimeoutMSOverride = cloneUint64(i.StreamIdleTimeoutMSOverride)
	return c
}

// Uint64 returns a pointer to v, for filling the override fields.
func Uint64(v uint64) *uint64 {
	return &v
}

func cloneUint64(p *uint64) *uint64 {
	if p == nil {
		return nil
	}
	v := *p
	return &v
}
