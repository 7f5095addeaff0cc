package providers

import (
	"encoding/json"
	"errors"
	"strings"
	"testing"

	"github.com/BurntSushi/toml"
	"gopkg.in/yaml.v3"
)

func TestParseWireAPI(t *testing.T) {
	tests := []struct {
		token string
		want  WireAPI
	}{
		{"chat", WireAPIChat},
		{"responses", WireAPIResponses},
		{"google_genai", WireAPIGoogleGenAI},
		{"anthropic_messages", WireAPIAnthropicMessages},
	}

	for _, tt := range tests {
		t.Run(tt.token, func(t *testing.T) {
			got, err := ParseWireAPI(tt.token)
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if got != tt.want {
				t.Errorf("expected %v, got %v", tt.want, got)
			}
			if got.String() != tt.token {
				t.Errorf("expected String() %q, got %q", tt.token, got.String())
			}
		})
	}
}

func TestParseWireAPI_Unknown(t *testing.T) {
	for _, token := range []string{"", "Chat", "completions", "anthropic"} {
		t.Run(token, func(t *testing.T) {
			_, err := ParseWireAPI(token)
			var cfgErr *ConfigError
			if !errors.As(err, &cfgErr) {
				t.Fatalf("expected *ConfigError, got %T: %v", err, err)
			}
			if cfgErr.Field != "wire_api" {
				t.Errorf("expected field wire_api, got %q", cfgErr.Field)
			}
		})
	}
}

func TestWireAPI_ZeroValueIsChat(t *testing.T) {
	var w WireAPI
	if w != WireAPIChat {
		t.Errorf("expected zero value to be chat, got %v", w)
	}
}

func TestWireAPI_EveryVariantHasSuffix(t *testing.T) {
	seen := make(map[string]bool)
	for _, w := range WireAPIs() {
		suffix := w.pathSuffix()
		if !strings.HasPrefix(suffix, "/") {
			t.Errorf("%v: suffix %q does not start with /", w, suffix)
		}
		if seen[suffix] {
			t.Errorf("%v: duplicate suffix %q", w, suffix)
		}
		seen[suffix] = true
	}
	if len(seen) != 4 {
		t.Errorf("expected 4 wire apis, got %d", len(seen))
	}
}

func TestWireAPI_InvalidValue(t *testing.T) {
	invalid := WireAPI(200)
	if _, err := invalid.MarshalText(); err == nil {
		t.Error("expected error marshaling invalid wire api")
	}
	if got := invalid.String(); got != "WireAPI(200)" {
		t.Errorf("unexpected String(): %q", got)
	}

	defer func() {
		if recover() == nil {
			t.Error("expected panic for unhandled wire api")
		}
	}()
	invalid.pathSuffix()
}

func TestWireAPI_DocumentFormats(t *testing.T) {
	type doc struct {
		WireAPI WireAPI `yaml:"wire_api" json:"wire_api" toml:"wire_api"`
	}

	t.Run("yaml", func(t *testing.T) {
		var d doc
		if err := yaml.Unmarshal([]byte("wire_api: responses\n"), &d); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if d.WireAPI != WireAPIResponses {
			t.Errorf("expected responses, got %v", d.WireAPI)
		}
		if err := yaml.Unmarshal([]byte("wire_api: bogus\n"), &d); err == nil {
			t.Error("expected error for unknown token")
		}
	})

	t.Run("json", func(t *testing.T) {
		var d doc
		if err := json.Unmarshal([]byte(`{"wire_api":"anthropic_messages"}`), &d); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if d.WireAPI != WireAPIAnthropicMessages {
			t.Errorf("expected anthropic_messages, got %v", d.WireAPI)
		}
		if err := json.Unmarshal([]byte(`{"wire_api":"bogus"}`), &d); err == nil {
			t.Error("expected error for unknown token")
		}

		out, err := json.Marshal(doc{WireAPI: WireAPIGoogleGenAI})
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if string(out) != `{"wire_api":"google_genai"}` {
			t.Errorf("unexpected encoding: %s", out)
		}
	})

	t.Run("toml", func(t *testing.T) {
		var d doc
		if err := toml.Unmarshal([]byte(`wire_api = "google_genai"`), &d); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if d.WireAPI != WireAPIGoogleGenAI {
			t.Errorf("expected google_genai, got %v", d.WireAPI)
		}
		if err := toml.Unmarshal([]byte(`wire_api = "bogus"`), &d); err == nil {
			t.Error("expected error for unknown token")
		}
	})
}
