package oracle

import "testing"

func TestNew_EmptyProviderDisabled(t *testing.T) {
	o, err := New(Config{})
	if err != nil {
		t.Fatalf("empty provider must not error, got %v", err)
	}
	if o != nil {
		t.Errorf("expected nil oracle for empty provider, got %T", o)
	}
}

func TestNew_KnownProviders(t *testing.T) {
	tests := []struct {
		name   string
		config Config
		want   string
	}{
		{"openai", Config{Provider: "openai", APIKey: "k"}, "openai"},
		{"openai mixed case", Config{Provider: "OpenAI", APIKey: "k"}, "openai"},
		{"anthropic", Config{Provider: "anthropic", APIKey: "k"}, "anthropic"},
		{"claude alias", Config{Provider: "claude", APIKey: "k"}, "anthropic"},
		{"ollama", Config{Provider: "ollama"}, "ollama"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			o, err := New(tt.config)
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if o.Name() != tt.want {
				t.Errorf("expected provider %q, got %q", tt.want, o.Name())
			}
		})
	}
}

func TestNew_UnknownProvider(t *testing.T) {
	if _, err := New(Config{Provider: "bard"}); err == nil {
		t.Fatal("expected error for unknown provider")
	}
}

func TestNew_MissingAPIKey(t *testing.T) {
	for _, provider := range []string{"openai", "anthropic"} {
		if _, err := New(Config{Provider: provider}); err == nil {
			t.Errorf("provider %s: expected error for missing API key", provider)
		}
	}
}
