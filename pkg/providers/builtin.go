package providers

import (
	"fmt"
	"strconv"

	"mercator-hq/switchboard/pkg/environment"
)

// Ids of the built-in providers.
const (
	OpenAIProviderID      = "openai"
	OSSProviderID         = "oss"
	GoogleGenAIProviderID = "google_genai"
	AnthropicProviderID   = "anthropic"
)

// DefaultOSSPort is the port of a local Ollama-compatible server.
const DefaultOSSPort uint32 = 11434

// Default base URLs of the built-in providers.
const (
	GoogleGenAIBaseURL = "https://generativelanguage.googleapis.com/v1beta"
	AnthropicBaseURL   = "https://api.anthropic.com/v1"
	AnthropicVersion   = "2023-06-01"
)

// BuiltInProviders returns the built-in provider descriptions keyed by id.
//
// Base URL and port overrides are read from env once, here. version is sent
// to OpenAI in the "version" header.
func BuiltInProviders(env environment.Env, version string) map[string]Info {
	return map[string]Info{
		OpenAIProviderID:      NewOpenAIProvider(env, version),
		OSSProviderID:         NewOSSProvider(env),
		GoogleGenAIProviderID: NewGoogleGenAIProvider(env),
		AnthropicProviderID:   NewAnthropicProvider(env),
	}
}

// NewOpenAIProvider describes the OpenAI Responses API. OPENAI_BASE_URL
// points it at a proxy or mock server. It is the only built-in that uses the
// managed login.
func NewOpenAIProvider(env environment.Env, version string) Info {
	baseURL, _ := environment.NonBlank(env, "OPENAI_BASE_URL")
	return Info{
		Name:    "OpenAI",
		BaseURL: baseURL,
		WireAPI: WireAPIResponses,
		StaticHeaders: map[string]string{
			"version": version,
		},
		EnvHeaders: map[string]string{
			"OpenAI-Organization": "OPENAI_ORGANIZATION",
			"OpenAI-Project":      "OPENAI_PROJECT",
		},
		RequiresManagedAuth: true,
	}
}

// NewOSSProvider describes a local OpenAI-compatible server.
// SWITCHBOARD_OSS_BASE_URL replaces the base URL entirely; otherwise
// SWITCHBOARD_OSS_PORT selects the localhost port, falling back to
// DefaultOSSPort when unset or not a valid port number.
func NewOSSProvider(env environment.Env) Info {
	if baseURL, ok := environment.NonBlank(env, "SWITCHBOARD_OSS_BASE_URL"); ok {
		return NewOSSProviderWithBaseURL(baseURL)
	}

	port := DefaultOSSPort
	if raw, ok := environment.NonBlank(env, "SWITCHBOARD_OSS_PORT"); ok {
		if p, err := strconv.ParseUint(raw, 10, 32); err == nil {
			port = uint32(p)
		}
	}
	return NewOSSProviderWithBaseURL(fmt.Sprintf("http://localhost:%d/v1", port))
}

// NewOSSProviderWithBaseURL describes a local OpenAI-compatible server at
// baseURL.
func NewOSSProviderWithBaseURL(baseURL string) Info {
	return Info{
		Name:    "gpt-oss",
		BaseURL: baseURL,
		WireAPI: WireAPIChat,
	}
}

// NewGoogleGenAIProvider describes the Gemini models of Google's Generative
// Language API, authenticated with the x-goog-api-key header.
func NewGoogleGenAIProvider(env environment.Env) Info {
	baseURL, ok := environment.NonBlank(env, "GOOGLE_GENAI_BASE_URL")
	if !ok {
		baseURL = GoogleGenAIBaseURL
	}
	return Info{
		Name:               "Google GenAI",
		BaseURL:            baseURL,
		EnvKey:             "GOOGLE_GENAI_API_KEY",
		EnvKeyInstructions: "Get your API key from https://aistudio.google.com/app/apikey",
		WireAPI:            WireAPIGoogleGenAI,
		EnvHeaders: map[string]string{
			"x-goog-api-key": "GOOGLE_GENAI_API_KEY",
		},
	}
}

// NewAnthropicProvider describes the Anthropic Messages API, authenticated
// with the x-api-key header.
func NewAnthropicProvider(env environment.Env) Info {
	baseURL, ok := environment.NonBlank(env, "ANTHROPIC_BASE_URL")
	if !ok {
		baseURL = AnthropicBaseURL
	}
	return Info{
		Name:               "Anthropic",
		BaseURL:            baseURL,
		EnvKey:             "ANTHROPIC_API_KEY",
		EnvKeyInstructions: "Get your API key from https://console.anthropic.com/settings/keys",
		WireAPI:            WireAPIAnthropicMessages,
		StaticHeaders: map[string]string{
			"anthropic-version": AnthropicVersion,
		},
		EnvHeaders: map[string]string{
			"x-api-key": "ANTHROPIC_API_KEY",
		},
	}
}
