package providers

import (
	"mercator-hq/switchboard/pkg/credentials"
	"mercator-hq/switchboard/pkg/environment"
)

// AuthSource names the rule that picked a request's credential.
type AuthSource string

const (
	AuthSourceOverride AuthSource = "override"
	AuthSourceEnvKey   AuthSource = "env_key"
	AuthSourceStored   AuthSource = "stored"
	AuthSourceNone     AuthSource = "none"
)

// AuthDecision is the outcome of ResolveAuth.
type AuthDecision struct {
	// Credential is the credential to send, or nil when Source is
	// AuthSourceNone.
	Credential credentials.Credential

	Source AuthSource

	// Absorbed is the env_key lookup failure that a stored credential
	// replaced, if any. Callers should surface it as a warning.
	Absorbed error
}

// ResolveOptions tunes ResolveAuth.
type ResolveOptions struct {
	// StrictEnvKey fails resolution when env_key is declared but unset, even
	// if a stored credential could be used instead.
	StrictEnvKey bool
}

// authState is threaded through the rules. A rule may record an env_key
// failure in deferred for a later rule to absorb.
type authState struct {
	info     Info
	env      environment.Env
	stored   credentials.Credential
	opts     ResolveOptions
	deferred error
}

// authRule returns the credential it selects, or nil to pass to the next
// rule. A non-nil error stops resolution.
type authRule struct {
	source AuthSource
	match  func(s *authState) (credentials.Credential, error)
}

// authRules is the credential priority list, highest first.
var authRules = []authRule{
	{source: AuthSourceOverride, match: matchOverride},
	{source: AuthSourceEnvKey, match: matchEnvKey},
	{source: AuthSourceStored, match: matchStored},
}

// ResolveAuth picks the credential for a request to the provider described
// by info. stored is the externally stored credential, or nil.
//
// The rules are tried in order: the provider's bearer token override, the API
// key from env_key, then the stored credential. When env_key is declared but
// unset and no stored credential exists, the *MissingEnvVarError is
// returned. When nothing applies the decision has AuthSourceNone and the
// request is sent without Authorization.
func ResolveAuth(info Info, env environment.Env, stored credentials.Credential, opts ResolveOptions) (AuthDecision, error) {
	s := &authState{info: info, env: env, stored: stored, opts: opts}

	for _, rule := range authRules {
		cred, err := rule.match(s)
		if err != nil {
			return AuthDecision{}, err
		}
		if cred != nil {
			return AuthDecision{Credential: cred, Source: rule.source, Absorbed: s.deferred}, nil
		}
	}

	if s.deferred != nil {
		return AuthDecision{}, s.deferred
	}
	return AuthDecision{Source: AuthSourceNone}, nil
}

func matchOverride(s *authState) (credentials.Credential, error) {
	if s.info.BearerTokenOverride == "" {
		return nil, nil
	}
	return credentials.FromAPIKey(s.info.BearerTokenOverride), nil
}

func matchEnvKey(s *authState) (credentials.Credential, error) {
	key, err := s.info.APIKey(s.env)
	if err != nil {
		if s.opts.StrictEnvKey {
			return nil, err
		}
		s.deferred = err
		return nil, nil
	}
	if key == "" {
		return nil, nil
	}
	return credentials.FromAPIKey(key), nil
}

func matchStored(s *authState) (credentials.Credential, error) {
	if s.stored == nil {
		return nil, nil
	}
	return s.stored, nil
}

// APIKey reads the provider's API key from the environment variable named by
// EnvKey. It returns "" and no error when the provider declares no EnvKey,
// and a *MissingEnvVarError when the variable is unset or blank. The key is
// returned untrimmed.
func (i Info) APIKey(env environment.Env) (string, error) {
	if i.EnvKey == "" {
		return "", nil
	}
	key, ok := environment.NonBlank(env, i.EnvKey)
	if !ok {
		return "", &MissingEnvVarError{Var: i.EnvKey, Instructions: i.EnvKeyInstructions}
	}
	return key, nil
}
