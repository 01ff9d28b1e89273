package config

import (
	"os"
	"path/filepath"
	"testing"
)

func newTestManager(t *testing.T) *Manager {
	t.Helper()
	return &Manager{configDir: filepath.Join(t.TempDir(), "synapse")}
}

func TestLoadMissingFileReturnsEmptyConfig(t *testing.T) {
	m := newTestManager(t)

	if m.Exists() {
		t.Fatal("config should not exist yet")
	}
	cfg, err := m.Load()
	if err != nil {
		t.Fatal(err)
	}
	if *cfg != (Config{}) {
		t.Errorf("expected zero config, got %+v", cfg)
	}
}

func TestSaveLoadRoundTrip(t *testing.T) {
	m := newTestManager(t)

	want := &Config{
		LLMProvider:    "anthropic",
		APIKey:         "sk-test",
		Model:          "claude-sonnet-4-20250514",
		MaxSteps:       20,
		MaxReflections: 2,
	}
	if err := m.Save(want); err != nil {
		t.Fatal(err)
	}
	if !m.Exists() {
		t.Fatal("config file missing after save")
	}

	info, err := os.Stat(m.GetConfigPath())
	if err != nil {
		t.Fatal(err)
	}
	if perm := info.Mode().Perm(); perm != 0600 {
		t.Errorf("permissions = %o, want 0600", perm)
	}

	got, err := m.Load()
	if err != nil {
		t.Fatal(err)
	}
	if *got != *want {
		t.Errorf("loaded = %+v, want %+v", got, want)
	}
}

func TestLoadRejectsCorruptFile(t *testing.T) {
	m := newTestManager(t)
	if err := os.MkdirAll(m.configDir, 0755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(m.GetConfigPath(), []byte("{not json"), 0600); err != nil {
		t.Fatal(err)
	}
	if _, err := m.Load(); err == nil {
		t.Fatal("expected parse error")
	}
}

func TestApplyEnvRespectsExistingVariables(t *testing.T) {
	t.Setenv("LLM_PROVIDER", "")
	t.Setenv("ANTHROPIC_API_KEY", "from-env")
	t.Setenv("ANTHROPIC_MODEL", "")

	cfg := &Config{LLMProvider: "anthropic", APIKey: "from-config", Model: "claude-3-5-haiku-latest"}
	cfg.ApplyEnv()

	if got := os.Getenv("LLM_PROVIDER"); got != "anthropic" {
		t.Errorf("LLM_PROVIDER = %q", got)
	}
	if got := os.Getenv("ANTHROPIC_API_KEY"); got != "from-env" {
		t.Errorf("ANTHROPIC_API_KEY = %q, env must win", got)
	}
	if got := os.Getenv("ANTHROPIC_MODEL"); got != "claude-3-5-haiku-latest" {
		t.Errorf("ANTHROPIC_MODEL = %q", got)
	}
}

func TestApplyEnvProviderPrefixes(t *testing.T) {
	tests := []struct {
		provider string
		wantVar  string
	}{
		{"openai", "OPENAI_API_KEY"},
		{"kimi", "KIMI_API_KEY"},
		{"groq", "GROQ_API_KEY"},
	}
	for _, tt := range tests {
		t.Run(tt.provider, func(t *testing.T) {
			t.Setenv("LLM_PROVIDER", "")
			t.Setenv(tt.wantVar, "")

			cfg := &Config{LLMProvider: tt.provider, APIKey: "key-" + tt.provider}
			cfg.ApplyEnv()

			if got := os.Getenv(tt.wantVar); got != "key-"+tt.provider {
				t.Errorf("%s = %q", tt.wantVar, got)
			}
		})
	}
}
