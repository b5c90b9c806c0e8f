package config

import (
	"fmt"
	"log"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

type AppConfig struct {
	Port            string
	APIKey          string
	LLMBackend      string
	LLMEndpoint     string
	LLMAPIKey       string
	LLMModel        string
	UpstreamTimeout time.Duration
	StrictSchema    bool
	PromptsPath     string
	CORSOrigins     []string
	MaxUpload       string
	DBPath          string
	StaticDir       string
}

const DefaultModel = "gemini-2.5-flash-preview-09-2025"

func Load() AppConfig {
	// Load .env file if it exists
	if err := godotenv.Load(); err != nil {
		log.Printf("[cfg] No .env file found or error loading: %v", err)
	}
	cfg := FromEnv(os.Getenv)
	log.Printf("[cfg] %s", cfg)
	if !cfg.HasCredential() {
		log.Printf("[cfg] WARNING: %s environment variable not found.", cfg.CredentialEnv())
	}
	return cfg
}

// FromEnv builds the config from a lookup function so tests don't touch the
// process environment.
func FromEnv(getenv func(string) string) AppConfig {
	get := func(k, def string) string {
		if v := strings.TrimSpace(getenv(k)); v != "" {
			return v
		}
		return def
	}

	timeout, err := time.ParseDuration(get("UPSTREAM_TIMEOUT", "0s"))
	if err != nil || timeout < 0 {
		log.Printf("[cfg] bad UPSTREAM_TIMEOUT %q, using none", getenv("UPSTREAM_TIMEOUT"))
		timeout = 0
	}
	strict, err := strconv.ParseBool(get("STRICT_SCHEMA", "false"))
	if err != nil {
		log.Printf("[cfg] bad STRICT_SCHEMA %q, using false", getenv("STRICT_SCHEMA"))
		strict = false
	}

	cfg := AppConfig{
		Port:            get("PORT", "8000"),
		APIKey:          get("GEMINI_API_KEY", ""),
		LLMBackend:      strings.ToLower(get("LLM_BACKEND", "gemini")),
		LLMEndpoint:     get("LLM_ENDPOINT", ""),
		LLMAPIKey:       get("LLM_API_KEY", ""),
		LLMModel:        get("LLM_MODEL", DefaultModel),
		UpstreamTimeout: timeout,
		StrictSchema:    strict,
		PromptsPath:     get("PROMPTS_PATH", ""),
		CORSOrigins:     splitList(get("CORS_ORIGINS", "*")),
		MaxUpload:       get("MAX_UPLOAD", "10M"),
		DBPath:          get("DB_PATH", ""),
		StaticDir:       get("STATIC_DIR", ""),
	}
	return cfg
}

// HasCredential reports whether the selected backend has what it needs to
// authenticate. Local backends run without a key.
func (c AppConfig) HasCredential() bool {
	switch c.LLMBackend {
	case "openai":
		return c.LLMAPIKey != ""
	case "ollama", "mock":
		return true
	default:
		return c.APIKey != ""
	}
}

// CredentialEnv names the variable holding the selected backend's key, or ""
// when the backend needs none.
func (c AppConfig) CredentialEnv() string {
	switch c.LLMBackend {
	case "openai":
		return "LLM_API_KEY"
	case "ollama", "mock":
		return ""
	default:
		return "GEMINI_API_KEY"
	}
}

// AuditEnabled reports whether analyze calls are recorded in sqlite.
func (c AppConfig) AuditEnabled() bool { return c.DBPath != "" }

func (c AppConfig) String() string {
	r := c
	r.APIKey = redact(c.APIKey)
	r.LLMAPIKey = redact(c.LLMAPIKey)
	// plain drops the String method so %+v doesn't recurse
	type plain AppConfig
	return fmt.Sprintf("%+v", plain(r))
}

func redact(s string) string {
	if s == "" {
		return ""
	}
	if len(s) <= 4 {
		return "****"
	}
	return s[:2] + "****" + s[len(s)-2:]
}

func splitList(s string) []string {
	var out []string
	for _, p := range strings.Split(s, ",") {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}
