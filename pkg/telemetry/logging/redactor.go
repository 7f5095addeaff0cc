package logging

import (
	"log/slog"
	"regexp"
	"strings"
)

// Redactor masks credentials in log attributes.
type Redactor struct {
	patterns []redactPattern
}

// redactPattern contains a compiled regex and replacement string.
type redactPattern struct {
	name        string
	regex       *regexp.Regexp
	replacement string
}

// Pattern names.
const (
	PatternBearerToken = "bearer_token"
	PatternAPIKey      = "api_key"
	PatternJWT         = "jwt"
	PatternPassword    = "password"
)

// sensitiveKeys are attribute key suffixes whose values are always masked.
var sensitiveKeys = []string{
	"password", "passwd", "secret",
	"token", "api_key", "api-key", "apikey",
	"authorization", "private_key", "bearer",
}

// NewRedactor creates a Redactor with the built-in patterns.
func NewRedactor() *Redactor {
	defs := []struct {
		name        string
		regex       string
		replacement string
	}{
		// Bearer tokens first so the token itself is not matched again
		{PatternBearerToken, `Bearer\s+[a-zA-Z0-9\-._~+/]+=*`, "Bearer ***"},
		// OpenAI and Anthropic style keys
		{PatternAPIKey, `sk-[a-zA-Z0-9_\-]+`, "sk-***"},
		// Three base64url segments starting with a JSON header
		{PatternJWT, `eyJ[a-zA-Z0-9_\-]+\.[a-zA-Z0-9_\-]+\.[a-zA-Z0-9_\-]*`, "***.jwt"},
		// Generic password fields
		{PatternPassword, `(password|passwd|pwd)[:=]\s*[^\s]+`, "$1: ***"},
	}

	r := &Redactor{patterns: make([]redactPattern, 0, len(defs))}
	for _, d := range defs {
		r.patterns = append(r.patterns, redactPattern{
			name:        d.name,
			regex:       regexp.MustCompile(d.regex),
			replacement: d.replacement,
		})
	}
	return r
}

// RedactString masks every credential pattern found in value.
func (r *Redactor) RedactString(value string) string {
	if value == "" {
		return value
	}

	redacted := value
	for _, p := range r.patterns {
		redacted = p.regex.ReplaceAllString(redacted, p.replacement)
	}
	return redacted
}

// ReplaceAttr is a slog.HandlerOptions.ReplaceAttr function. Values of
// sensitive keys are masked entirely; other string values are scanned for
// credential patterns.
func (r *Redactor) ReplaceAttr(_ []string, a slog.Attr) slog.Attr {
	v := a.Value.Resolve()

	if IsSensitiveKey(a.Key) {
		switch v.Kind() {
		case slog.KindString:
			return slog.String(a.Key, RedactSecret(v.String()))
		case slog.KindGroup:
			return a
		default:
			return slog.String(a.Key, "***")
		}
	}

	switch v.Kind() {
	case slog.KindString:
		if s := v.String(); s != "" {
			return slog.String(a.Key, r.RedactString(s))
		}
	case slog.KindAny:
		if err, ok := v.Any().(error); ok {
			return slog.String(a.Key, r.RedactString(err.Error()))
		}
	}
	return a
}

// IsSensitiveKey reports whether key names a secret, either exactly or as
// the last segment of a compound key such as "x-api-key" or "access_token".
func IsSensitiveKey(key string) bool {
	lowerKey := strings.ToLower(key)
	for _, s := range sensitiveKeys {
		if lowerKey == s ||
			strings.HasSuffix(lowerKey, "_"+s) ||
			strings.HasSuffix(lowerKey, "-"+s) ||
			strings.HasSuffix(lowerKey, "."+s) {
			return true
		}
	}
	return false
}

// RedactSecret masks a secret, keeping only a short prefix.
func RedactSecret(secret string) string {
	if secret == "" {
		return ""
	}
	if len(secret) <= 4 {
		return "***"
	}
	return secret[:4] + "***"
}

// RedactHeader masks an HTTP header value for display. Values of sensitive
// headers keep their auth scheme and a short prefix of the secret; other
// values only have embedded secrets masked.
func (r *Redactor) RedactHeader(name, value string) string {
	if !IsSensitiveKey(name) {
		return r.RedactString(value)
	}
	if scheme, secret, ok := strings.Cut(value, " "); ok && strings.EqualFold(scheme, "bearer") {
		return scheme + " " + RedactSecret(secret)
	}
	return RedactSecret(value)
}
