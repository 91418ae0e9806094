// Package config loads process configuration from the environment.
// All values are read once at startup. Optional settings degrade
// gracefully; a missing admin password or session secret is a hard
// misconfiguration.
package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
)

type Config struct {
	Server    ServerConfig
	Admin     AdminConfig
	Storage   StorageConfig
	Blob      BlobConfig
	Chat      ChatConfig
	Contact   ContactConfig
	Knowledge KnowledgeConfig
	Log       LogConfig
}

type ServerConfig struct {
	Port int
	// PublicURL is the externally visible site URL, used for absolute
	// links. DevMode disables the Secure cookie flag for local work.
	PublicURL string
	DevMode   bool
}

type AdminConfig struct {
	Password      string
	SessionSecret string
}

type StorageConfig struct {
	DataDir string
}

type BlobConfig struct {
	// Backend is "fs" (default) or "s3".
	Backend    string
	S3Bucket   string
	S3Region   string
	S3Endpoint string
	S3Prefix   string
	S3BaseURL  string
}

type ChatConfig struct {
	OpenRouterAPIKey string
	Model            string
}

type ContactConfig struct {
	// WhatsAppNumber is the concierge number in digits-only form. Empty is
	// allowed: checkout links then open without a target.
	WhatsAppNumber string
	Email          string
	InstagramURL   string
}

type KnowledgeConfig struct {
	// DocsDir optionally points at extra knowledge documents (.md, .txt,
	// .pdf) merged into the built-in corpus at startup.
	DocsDir string
}

type LogConfig struct {
	Level string
}

func defaults() Config {
	return Config{
		Server: ServerConfig{
			Port:      4000,
			PublicURL: "http://localhost:4000",
			DevMode:   true,
		},
		Storage: StorageConfig{
			DataDir: "./data",
		},
		Blob: BlobConfig{
			Backend:  "fs",
			S3Region: "eu-west-1",
		},
		Chat: ChatConfig{
			Model: "anthropic/claude-sonnet-4",
		},
		Log: LogConfig{
			Level: "info",
		},
	}
}

// Load reads configuration from MAISON_* environment variables over the
// defaults and validates the required settings.
func Load() (Config, error) {
	cfg := defaults()

	envInt("MAISON_PORT", &cfg.Server.Port)
	envStr("MAISON_PUBLIC_URL", &cfg.Server.PublicURL)
	envBool("MAISON_DEV_MODE", &cfg.Server.DevMode)

	envStr("MAISON_ADMIN_PASSWORD", &cfg.Admin.Password)
	envStr("MAISON_SESSION_SECRET", &cfg.Admin.SessionSecret)

	envStr("MAISON_DATA_DIR", &cfg.Storage.DataDir)

	envStr("MAISON_BLOB_BACKEND", &cfg.Blob.Backend)
	envStr("MAISON_S3_BUCKET", &cfg.Blob.S3Bucket)
	envStr("MAISON_S3_REGION", &cfg.Blob.S3Region)
	envStr("MAISON_S3_ENDPOINT", &cfg.Blob.S3Endpoint)
	envStr("MAISON_S3_PREFIX", &cfg.Blob.S3Prefix)
	envStr("MAISON_S3_BASE_URL", &cfg.Blob.S3BaseURL)

	envStr("MAISON_OPENROUTER_API_KEY", &cfg.Chat.OpenRouterAPIKey)
	envStr("MAISON_CHAT_MODEL", &cfg.Chat.Model)

	envStr("MAISON_WHATSAPP_NUMBER", &cfg.Contact.WhatsAppNumber)
	envStr("MAISON_CONTACT_EMAIL", &cfg.Contact.Email)
	envStr("MAISON_INSTAGRAM_URL", &cfg.Contact.InstagramURL)

	envStr("MAISON_KNOWLEDGE_DIR", &cfg.Knowledge.DocsDir)
	envStr("MAISON_LOG_LEVEL", &cfg.Log.Level)

	cfg.Contact.WhatsAppNumber = digitsOnly(cfg.Contact.WhatsAppNumber)

	if cfg.Admin.Password == "" {
		return Config{}, fmt.Errorf("missing required config: admin password (set MAISON_ADMIN_PASSWORD)")
	}
	if cfg.Admin.SessionSecret == "" {
		return Config{}, fmt.Errorf("missing required config: session signing secret (set MAISON_SESSION_SECRET)")
	}
	if cfg.Blob.Backend != "fs" && cfg.Blob.Backend != "s3" {
		return Config{}, fmt.Errorf("invalid MAISON_BLOB_BACKEND %q: expected \"fs\" or \"s3\"", cfg.Blob.Backend)
	}
	if cfg.Blob.Backend == "s3" && cfg.Blob.S3Bucket == "" {
		return Config{}, fmt.Errorf("missing required config: MAISON_S3_BUCKET for the s3 blob backend")
	}

	return cfg, nil
}

func envStr(key string, dst *string) {
	if v, ok := os.LookupEnv(key); ok && v != "" {
		*dst = v
	}
}

func envInt(key string, dst *int) {
	if v, ok := os.LookupEnv(key); ok && v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			*dst = n
		}
	}
}

func envBool(key string, dst *bool) {
	if v, ok := os.LookupEnv(key); ok && v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			*dst = b
		}
	}
}

func digitsOnly(s string) string {
	return strings.Map(func(r rune) rune {
		if r >= '0' && r <= '9' {
			return r
		}
		return -1
	}, s)
}
