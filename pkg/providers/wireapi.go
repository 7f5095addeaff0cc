package providers

import (
	"fmt"
	"strings"
)

// WireAPI identifies the HTTP protocol family a provider speaks. It decides
// the URL path suffix and nothing else.
type WireAPI uint8

const (
	// WireAPIChat is the Chat Completions API. It is the zero value and the
	// default when a definition does not name a protocol.
	WireAPIChat WireAPI = iota

	// WireAPIResponses is the OpenAI Responses API.
	WireAPIResponses

	// WireAPIGoogleGenAI is Google's Generative Language API.
	WireAPIGoogleGenAI

	// WireAPIAnthropicMessages is the Anthropic Messages API.
	WireAPIAnthropicMessages
)

var wireAPINames = [...]string{
	WireAPIChat:              "chat",
	WireAPIResponses:         "responses",
	WireAPIGoogleGenAI:       "google_genai",
	WireAPIAnthropicMessages: "anthropic_messages",
}

// WireAPIs returns every supported protocol.
func WireAPIs() []WireAPI {
	all := make([]WireAPI, len(wireAPINames))
	for i := range wireAPINames {
		all[i] = WireAPI(i)
	}
	return all
}

// ParseWireAPI parses the configuration token of a protocol.
func ParseWireAPI(s string) (WireAPI, error) {
	for i, name := range wireAPINames {
		if s == name {
			return WireAPI(i), nil
		}
	}
	return 0, &ConfigError{
		Field:   "wire_api",
		Message: fmt.Sprintf("unknown wire api %q (supported: %s)", s, strings.Join(wireAPINames[:], ", ")),
	}
}

// String returns the configuration token.
func (w WireAPI) String() string {
	if w.valid() {
		return wireAPINames[w]
	}
	return fmt.Sprintf("WireAPI(%d)", uint8(w))
}

// MarshalText implements encoding.TextMarshaler.
func (w WireAPI) MarshalText() ([]byte, error) {
	if !w.valid() {
		return nil, &ConfigError{Field: "wire_api", Message: fmt.Sprintf("invalid wire api value %d", uint8(w))}
	}
	return []byte(wireAPINames[w]), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (w *WireAPI) UnmarshalText(text []byte) error {
	parsed, err := ParseWireAPI(string(text))
	if err != nil {
		return err
	}
	*w = parsed
	return nil
}

func (w WireAPI) valid() bool {
	return int(w) < len(wireAPINames)
}

// pathSuffix returns the endpoint path appended to the base URL.
func (w WireAPI) pathSuffix() string {
	switch w {
	case WireAPIResponses:
		return "/responses"
	case WireAPIChat:
		return "/chat/completions"
	case WireAPIGoogleGenAI:
		// The model is part of the path and is substituted by the caller.
		return "/models/{model}:streamGenerateContent"
	case WireAPIAnthropicMessages:
		return "/messages"
	}
	panic(fmt.Sprintf("providers: unhandled wire api %d", uint8(w)))
}
