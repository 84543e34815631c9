package config

import (
	"errors"
	"testing"
	"time"

	cerrors "github.com/park285/llm-kakao-bots/potato-bot-go/internal/common/errors"
)

func clearEnv(t *testing.T) {
	t.Helper()
	for _, key := range []string{
		"BOTS", "BOT_TOKEN", "BOT_USERNAME", "BOT_DEFAULT", "BOT_ANY_MENTION", "UPDATE_TYPED_CAST",
		"BOTAN_MODE", "BOTAN_TOKEN", "BOTAN_TRACK_URI", "BOTAN_TIMEOUT_SECONDS", "BOTAN_STREAM_KEY",
		"VALKEY_ADDR", "REDIS_ADDR", "VALKEY_HOST", "REDIS_HOST",
		"SERVER_PORT", "PORT", "LOG_DIR", "LOG_LEVEL",
	} {
		t.Setenv(key, "")
	}
}

func TestLoadFromEnv_SingleBot(t *testing.T) {
	clearEnv(t)
	t.Setenv("BOT_TOKEN", "secret")
	t.Setenv("BOT_USERNAME", "@potato_bot")
	t.Setenv("BOTAN_TOKEN", "botan-secret")

	cfg, err := LoadFromEnv()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(cfg.Bots) != 1 || cfg.Bots[0].ID != "main" || cfg.Bots[0].Username != "potato_bot" {
		t.Fatalf("unexpected bots: %+v", cfg.Bots)
	}
	if cfg.Server.Port != DefaultServerPort {
		t.Fatalf("unexpected port: %d", cfg.Server.Port)
	}
	if cfg.Botan.Mode != BotanHTTP || cfg.Botan.Timeout != DefaultBotanTimeout {
		t.Fatalf("unexpected botan config: %+v", cfg.Botan)
	}
	if cfg.Botan.Tokens["main"] != "botan-secret" {
		t.Fatalf("expected botan token for main, got %v", cfg.Botan.Tokens)
	}
	if cfg.Botan.Stream.StreamKey != DefaultBotanStreamKey || cfg.Botan.Stream.BatchSize != DefaultBotanBatchSize {
		t.Fatalf("unexpected stream defaults: %+v", cfg.Botan.Stream)
	}
	if cfg.Dispatch.AnyMention || cfg.Dispatch.TypedCast {
		t.Fatalf("unexpected dispatch config: %+v", cfg.Dispatch)
	}
}

func TestLoadFromEnv_MultipleBots(t *testing.T) {
	clearEnv(t)
	t.Setenv("BOTS", "main, side-bot")
	t.Setenv("BOT_MAIN_TOKEN", "t1")
	t.Setenv("BOT_SIDE_BOT_TOKEN", "t2")
	t.Setenv("BOT_SIDE_BOT_USERNAME", "side")
	t.Setenv("BOT_DEFAULT", "side-bot")
	t.Setenv("BOTAN_SIDE_BOT_TOKEN", "b2")
	t.Setenv("BOTAN_TOKEN", "ignored")
	t.Setenv("BOTAN_MODE", "Debug")
	t.Setenv("UPDATE_TYPED_CAST", "true")
	t.Setenv("BOT_ANY_MENTION", "yes")

	cfg, err := LoadFromEnv()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(cfg.Bots) != 2 || cfg.Bots[1].ID != "side-bot" || cfg.Bots[1].Username != "side" {
		t.Fatalf("unexpected bots: %+v", cfg.Bots)
	}
	if cfg.DefaultBot != "side-bot" {
		t.Fatalf("unexpected default bot: %q", cfg.DefaultBot)
	}
	if cfg.Botan.Mode != BotanDebug {
		t.Fatalf("unexpected mode: %q", cfg.Botan.Mode)
	}
	if len(cfg.Botan.Tokens) != 1 || cfg.Botan.Tokens["side-bot"] != "b2" {
		t.Fatalf("unexpected botan tokens: %v", cfg.Botan.Tokens)
	}
	if !cfg.Dispatch.AnyMention || !cfg.Dispatch.TypedCast {
		t.Fatalf("unexpected dispatch config: %+v", cfg.Dispatch)
	}
}

func TestLoadFromEnv_Errors(t *testing.T) {
	tests := []struct {
		name string
		env  map[string]string
		key  string
	}{
		{name: "no bots", env: map[string]string{}, key: "BOTS"},
		{name: "missing token", env: map[string]string{"BOTS": "main"}, key: "BOT_MAIN_TOKEN"},
		{name: "unknown default", env: map[string]string{"BOT_TOKEN": "t", "BOT_DEFAULT": "other"}, key: "BOT_DEFAULT"},
		{name: "unknown botan mode", env: map[string]string{"BOT_TOKEN": "t", "BOTAN_MODE": "carrier-pigeon"}, key: "BOTAN_MODE"},
		{name: "async without valkey", env: map[string]string{"BOT_TOKEN": "t", "BOTAN_MODE": "async"}, key: "BOTAN_MODE"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			clearEnv(t)
			for k, v := range tt.env {
				t.Setenv(k, v)
			}

			_, err := LoadFromEnv()
			var cfgErr cerrors.ConfigError
			if !errors.As(err, &cfgErr) {
				t.Fatalf("expected ConfigError, got %v", err)
			}
			if cfgErr.Key != tt.key {
				t.Fatalf("expected key %s, got %s", tt.key, cfgErr.Key)
			}
		})
	}
}

func TestLoadFromEnv_AsyncWithValkey(t *testing.T) {
	clearEnv(t)
	t.Setenv("BOT_TOKEN", "t")
	t.Setenv("BOTAN_MODE", "async")
	t.Setenv("VALKEY_ADDR", "localhost:6379")
	t.Setenv("BOTAN_BLOCK_TIMEOUT_MILLIS", "250")

	cfg, err := LoadFromEnv()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.Botan.Stream.BlockTimeout != 250*time.Millisecond {
		t.Fatalf("unexpected block timeout: %v", cfg.Botan.Stream.BlockTimeout)
	}
}

func TestEnvKey(t *testing.T) {
	if got := EnvKey("side-bot.v2"); got != "SIDE_BOT_V2" {
		t.Fatalf("unexpected env key: %s", got)
	}
}
