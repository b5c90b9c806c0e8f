package config

import (
	"bytes"
	"log"
	"os"
	"strings"
	"testing"
	"time"
)

func envOf(m map[string]string) func(string) string {
	return func(k string) string { return m[k] }
}

func TestFromEnvDefaults(t *testing.T) {
	cfg := FromEnv(envOf(nil))

	if cfg.Port != "8000" {
		t.Errorf("Port = %q", cfg.Port)
	}
	if cfg.LLMBackend != "gemini" || cfg.LLMModel != DefaultModel {
		t.Errorf("backend/model = %q/%q", cfg.LLMBackend, cfg.LLMModel)
	}
	if cfg.UpstreamTimeout != 0 || cfg.StrictSchema {
		t.Errorf("timeout/strict = %v/%v", cfg.UpstreamTimeout, cfg.StrictSchema)
	}
	if len(cfg.CORSOrigins) != 1 || cfg.CORSOrigins[0] != "*" {
		t.Errorf("CORSOrigins = %v", cfg.CORSOrigins)
	}
	if cfg.MaxUpload != "10M" {
		t.Errorf("MaxUpload = %q", cfg.MaxUpload)
	}
	if cfg.HasCredential() || cfg.AuditEnabled() {
		t.Error("empty env should have no credential and no audit store")
	}
}

func TestFromEnvOverrides(t *testing.T) {
	cfg := FromEnv(envOf(map[string]string{
		"GEMINI_API_KEY":   " secret-key ",
		"LLM_BACKEND":      "OLLAMA",
		"UPSTREAM_TIMEOUT": "45s",
		"STRICT_SCHEMA":    "true",
		"CORS_ORIGINS":     "http://a.test, ,http://b.test",
		"DB_PATH":          "audit.db",
	}))

	if cfg.APIKey != "secret-key" {
		t.Errorf("APIKey not trimmed: %q", cfg.APIKey)
	}
	if cfg.LLMBackend != "ollama" {
		t.Errorf("LLMBackend = %q", cfg.LLMBackend)
	}
	if cfg.UpstreamTimeout != 45*time.Second || !cfg.StrictSchema {
		t.Errorf("timeout/strict = %v/%v", cfg.UpstreamTimeout, cfg.StrictSchema)
	}
	if strings.Join(cfg.CORSOrigins, "|") != "http://a.test|http://b.test" {
		t.Errorf("CORSOrigins = %v", cfg.CORSOrigins)
	}
	if !cfg.AuditEnabled() {
		t.Error("DB_PATH should enable the audit store")
	}
}

func TestFromEnvBadTimeout(t *testing.T) {
	for _, v := range []string{"soon", "-5s"} {
		if got := FromEnv(envOf(map[string]string{"UPSTREAM_TIMEOUT": v})).UpstreamTimeout; got != 0 {
			t.Errorf("UPSTREAM_TIMEOUT=%q gave %v, want 0", v, got)
		}
	}
}

func TestFromEnvBadStrictSchema(t *testing.T) {
	for _, v := range []string{"yes please", "2"} {
		if FromEnv(envOf(map[string]string{"STRICT_SCHEMA": v})).StrictSchema {
			t.Errorf("STRICT_SCHEMA=%q should leave strict mode off", v)
		}
	}
	if !FromEnv(envOf(map[string]string{"STRICT_SCHEMA": "1"})).StrictSchema {
		t.Error("STRICT_SCHEMA=1 should enable strict mode")
	}
}

func TestBadStrictSchemaIsLogged(t *testing.T) {
	var buf bytes.Buffer
	log.SetOutput(&buf)
	t.Cleanup(func() { log.SetOutput(os.Stderr) })

	FromEnv(envOf(map[string]string{"STRICT_SCHEMA": "maybe"}))
	if !strings.Contains(buf.String(), `bad STRICT_SCHEMA "maybe"`) {
		t.Errorf("log = %q", buf.String())
	}
}

func TestCredentialEnv(t *testing.T) {
	for backend, want := range map[string]string{
		"gemini": "GEMINI_API_KEY",
		"":       "GEMINI_API_KEY",
		"openai": "LLM_API_KEY",
		"ollama": "",
		"mock":   "",
	} {
		if got := (AppConfig{LLMBackend: backend}).CredentialEnv(); got != want {
			t.Errorf("CredentialEnv(%q) = %q, want %q", backend, got, want)
		}
	}
}

func TestLoadWarnsAboutSelectedBackendKey(t *testing.T) {
	t.Chdir(t.TempDir())
	t.Setenv("LLM_BACKEND", "openai")
	t.Setenv("LLM_API_KEY", "")
	t.Setenv("GEMINI_API_KEY", "")

	var buf bytes.Buffer
	log.SetOutput(&buf)
	t.Cleanup(func() { log.SetOutput(os.Stderr) })

	Load()
	if !strings.Contains(buf.String(), "WARNING: LLM_API_KEY environment variable not found.") {
		t.Errorf("log = %q", buf.String())
	}
	if strings.Contains(buf.String(), "WARNING: GEMINI_API_KEY") {
		t.Errorf("warning names the wrong variable: %q", buf.String())
	}
}

func TestHasCredential(t *testing.T) {
	cases := []struct {
		cfg  AppConfig
		want bool
	}{
		{AppConfig{LLMBackend: "gemini"}, false},
		{AppConfig{LLMBackend: "gemini", APIKey: "k"}, true},
		{AppConfig{LLMBackend: "openai", APIKey: "k"}, false},
		{AppConfig{LLMBackend: "openai", LLMAPIKey: "k"}, true},
		{AppConfig{LLMBackend: "ollama"}, true},
		{AppConfig{LLMBackend: "mock"}, true},
	}
	for _, tc := range cases {
		if got := tc.cfg.HasCredential(); got != tc.want {
			t.Errorf("%s HasCredential() = %v, want %v", tc.cfg.LLMBackend, got, tc.want)
		}
	}
}

func TestStringRedactsKeys(t *testing.T) {
	cfg := AppConfig{APIKey: "AIzaSyVERYSECRET", LLMAPIKey: "abc"}
	s := cfg.String()
	if strings.Contains(s, "VERYSECRET") || strings.Contains(s, "abc") {
		t.Fatalf("secret leaked: %s", s)
	}
	if !strings.Contains(s, "AI****ET") || !strings.Contains(s, "****") {
		t.Errorf("unexpected redaction: %s", s)
	}
}
