package config

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"
)

func writeCredentials(t *testing.T, path, content string) {
	t.Helper()
	if err := os.WriteFile(path, []byte(content), 0600); err != nil {
		t.Fatalf("failed to write credentials: %v", err)
	}
}

func TestEnvCredentialsReadAtCallTime(t *testing.T) {
	src := EnvCredentials{Var: "CHATWIRE_TEST_KEY"}

	t.Setenv("CHATWIRE_TEST_KEY", "")
	if got := src.APIKey(); got != "" {
		t.Errorf("APIKey() = %q with empty env, want empty", got)
	}

	t.Setenv("CHATWIRE_TEST_KEY", "  sk-first \n")
	if got := src.APIKey(); got != "sk-first" {
		t.Errorf("APIKey() = %q, want %q", got, "sk-first")
	}

	t.Setenv("CHATWIRE_TEST_KEY", "sk-rotated")
	if got := src.APIKey(); got != "sk-rotated" {
		t.Errorf("APIKey() = %q after rotation, want %q", got, "sk-rotated")
	}
}

func TestChainCredentials(t *testing.T) {
	tests := []struct {
		name  string
		chain ChainCredentials
		want  string
	}{
		{"empty", ChainCredentials{}, ""},
		{"first wins", ChainCredentials{StaticCredentials("a"), StaticCredentials("b")}, "a"},
		{"skips blank", ChainCredentials{StaticCredentials(""), StaticCredentials("b")}, "b"},
		{"skips nil", ChainCredentials{nil, StaticCredentials("c")}, "c"},
		{"all blank", ChainCredentials{StaticCredentials(""), EnvCredentials{}}, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.chain.APIKey(); got != tt.want {
				t.Errorf("APIKey() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestFileCredentialsLoad(t *testing.T) {
	path := filepath.Join(t.TempDir(), "credentials.toml")
	writeCredentials(t, path, `
[credentials]
openai = "sk-openai"
anthropic = "sk-ant"
`)

	fc, err := NewFileCredentials(path, ProviderAnthropic)
	if err != nil {
		t.Fatalf("NewFileCredentials() error = %v", err)
	}
	if got := fc.APIKey(); got != "sk-ant" {
		t.Errorf("APIKey() = %q, want %q", got, "sk-ant")
	}

	missing, err := NewFileCredentials(filepath.Join(t.TempDir(), "none.toml"), ProviderOpenAI)
	if err != nil {
		t.Fatalf("NewFileCredentials() on missing file error = %v", err)
	}
	if got := missing.APIKey(); got != "" {
		t.Errorf("APIKey() for missing file = %q, want empty", got)
	}
}

func TestFileCredentialsRejectsMalformedFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "credentials.toml")
	writeCredentials(t, path, "[credentials\nopenai = ")

	if _, err := NewFileCredentials(path, ProviderOpenAI); err == nil {
		t.Error("NewFileCredentials() error = nil for malformed TOML")
	}
}

func TestFileCredentialsReloadsOnChange(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "credentials.toml")
	writeCredentials(t, path, "[credentials]\nopenai = \"sk-old\"\n")

	fc, err := NewFileCredentials(path, ProviderOpenAI)
	if err != nil {
		t.Fatalf("NewFileCredentials() error = %v", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	if err := fc.Watch(ctx); err != nil {
		t.Fatalf("Watch() error = %v", err)
	}
	defer fc.Stop()

	writeCredentials(t, path, "[credentials]\nopenai = \"sk-new\"\n")

	deadline := time.Now().Add(3 * time.Second)
	for time.Now().Before(deadline) {
		if fc.APIKey() == "sk-new" {
			return
		}
		time.Sleep(20 * time.Millisecond)
	}
	t.Errorf("APIKey() = %q after rewrite, want %q", fc.APIKey(), "sk-new")
}

func TestNewCredentialSource(t *testing.T) {
	path := filepath.Join(t.TempDir(), "credentials.toml")
	writeCredentials(t, path, "[credentials]\ngemini = \"from-file\"\n")

	t.Setenv("GEMINI_API_KEY", "")
	src, fc, err := NewCredentialSource(ProviderGemini, path)
	if err != nil {
		t.Fatalf("NewCredentialSource() error = %v", err)
	}
	if fc == nil {
		t.Fatal("file source not returned for configured credentials_file")
	}
	if got := src.APIKey(); got != "from-file" {
		t.Errorf("APIKey() = %q, want file key", got)
	}

	t.Setenv("GEMINI_API_KEY", "from-env")
	if got := src.APIKey(); got != "from-env" {
		t.Errorf("APIKey() = %q, want env key to take precedence", got)
	}

	src, fc, err = NewCredentialSource(ProviderOllama, "")
	if err != nil {
		t.Fatalf("NewCredentialSource() error = %v", err)
	}
	if fc != nil {
		t.Error("file source returned without credentials_file")
	}
	if got := src.APIKey(); got != "" {
		t.Errorf("APIKey() for ollama = %q, want empty", got)
	}
}
