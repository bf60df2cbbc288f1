package pipeline

import (
	"context"
	"io"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/sirupsen/logrus"
)

func quietLogger() *logrus.Logger {
	l := logrus.New()
	l.SetOutput(io.Discard)
	return l
}

func TestNormalizePathSegment(t *testing.T) {
	tests := map[string]string{
		"  My Cool.Video  ": "my-cool-video",
		"___":               "",
		"abc123":            "abc123",
		"Name (v2)!":        "name-v2",
	}
	for in, want := range tests {
		t.Run(in, func(t *testing.T) {
			if got := normalizePathSegment(in); got != want {
				t.Fatalf("normalizePathSegment(%q) = %q, want %q", in, got, want)
			}
		})
	}
}

func TestPlanFileName(t *testing.T) {
	if got := PlanFileName("out", "Dave's Best Bits!"); got != filepath.Join("out", "dave-s-best-bits.yaml") {
		t.Fatalf("unexpected plan name: %s", got)
	}
	if got := PlanFileName("out", "***"); got != filepath.Join("out", "plan.yaml") {
		t.Fatalf("unexpected fallback plan name: %s", got)
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr string
	}{
		{name: "defaults", mutate: func(*Config) {}},
		{name: "empty out dir", mutate: func(c *Config) { c.OutDir = " " }, wantErr: "output directory"},
		{name: "zero min", mutate: func(c *Config) { c.MinClipSec = 0 }, wantErr: "min clip must be > 0"},
		{name: "zero max", mutate: func(c *Config) { c.MaxClipSec = 0 }, wantErr: "max clip must be > 0"},
		{name: "min above max", mutate: func(c *Config) { c.MinClipSec = 90 }, wantErr: "min clip must be <= max clip"},
		{name: "zero count", mutate: func(c *Config) { c.ClipCount = 0 }, wantErr: "clip count"},
		{name: "zero results", mutate: func(c *Config) { c.MaxResults = 0 }, wantErr: "max results"},
		{name: "zero tokens", mutate: func(c *Config) { c.OpenRouterMaxTokens = 0 }, wantErr: "OPENROUTER_MAX_TOKENS"},
		{name: "unknown backend", mutate: func(c *Config) { c.SearchBackend = "bing" }, wantErr: "unknown search backend"},
		{name: "api without key", mutate: func(c *Config) { c.SearchBackend = BackendAPI }, wantErr: "YOUTUBE_API_KEY"},
		{name: "api with key", mutate: func(c *Config) { c.SearchBackend = BackendAPI; c.YouTubeAPIKey = "k" }},
		{name: "http base url", mutate: func(c *Config) { c.OpenRouterBaseURL = "http://openrouter.ai" }, wantErr: "https is required"},
		{name: "foreign host", mutate: func(c *Config) { c.OpenRouterBaseURL = "https://evil.example" }, wantErr: "OPENROUTER_ALLOWED_HOSTS"},
		{
			name: "allowed custom host",
			mutate: func(c *Config) {
				c.OpenRouterBaseURL = "https://proxy.internal"
				c.OpenRouterAllowedHosts = []string{"proxy.internal"}
			},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := Defaults()
			tt.mutate(&c)
			err := c.Validate()
			if tt.wantErr == "" {
				if err != nil {
					t.Fatalf("unexpected error: %v", err)
				}
				return
			}
			if err == nil || !strings.Contains(err.Error(), tt.wantErr) {
				t.Fatalf("expected error containing %q, got %v", tt.wantErr, err)
			}
		})
	}
}

func TestFromEnv(t *testing.T) {
	t.Setenv("YTDLP_PATH", "/opt/yt-dlp")
	t.Setenv("OPENROUTER_API_KEY", "  sk-env  ")
	t.Setenv("OPENROUTER_MODEL", "openai/gpt-4o")
	t.Setenv("OPENROUTER_MAX_TOKENS", "900")
	t.Setenv("OPENROUTER_ALLOWED_HOSTS", "a.example,b.example")
	t.Setenv("COMEDYCLIP_VERIFY_SEGMENTS", "false")
	t.Setenv("COMEDYCLIP_VERIFY_TOLERANCE", "5s")
	t.Setenv("SEARCH_RATE_LIMIT", "12")

	c := FromEnv(quietLogger(), func() string { return "sk-keyring" })
	if c.YtDlpPath != "/opt/yt-dlp" || c.FFmpegPath != "ffmpeg" || c.FFprobePath != "ffprobe" {
		t.Fatalf("unexpected tool paths: %+v", c)
	}
	if c.OpenRouterAPIKey != "sk-env" {
		t.Fatalf("env key should win and be trimmed, got %q", c.OpenRouterAPIKey)
	}
	if c.OpenRouterModel != "openai/gpt-4o" || c.OpenRouterMaxTokens != 900 {
		t.Fatalf("unexpected model config: %q %d", c.OpenRouterModel, c.OpenRouterMaxTokens)
	}
	if len(c.OpenRouterAllowedHosts) != 2 || c.OpenRouterAllowedHosts[1] != "b.example" {
		t.Fatalf("unexpected hosts: %v", c.OpenRouterAllowedHosts)
	}
	if c.VerifySegments || c.VerifyTolerance != 5*time.Second || c.SearchRatePerMin != 12 {
		t.Fatalf("unexpected verify/rate config: %+v", c)
	}
}

func TestFromEnvKeyringFallback(t *testing.T) {
	t.Setenv("OPENROUTER_API_KEY", "")
	c := FromEnv(quietLogger(), func() string { return "sk-keyring" })
	if c.OpenRouterAPIKey != "sk-keyring" {
		t.Fatalf("expected keyring key, got %q", c.OpenRouterAPIKey)
	}
}

func TestFromEnvInvalidNumbersKeepDefaults(t *testing.T) {
	t.Setenv("OPENROUTER_MAX_TOKENS", "lots")
	t.Setenv("COMEDYCLIP_VERIFY_SEGMENTS", "maybe")
	t.Setenv("COMEDYCLIP_VERIFY_TOLERANCE", "soon")

	c := FromEnv(quietLogger(), nil)
	d := Defaults()
	if c.OpenRouterMaxTokens != d.OpenRouterMaxTokens || c.VerifySegments != d.VerifySegments || c.VerifyTolerance != d.VerifyTolerance {
		t.Fatalf("invalid values should fall back to defaults: %+v", c)
	}
}

func TestBuild(t *testing.T) {
	c := Defaults()
	if _, err := Build(context.Background(), c, quietLogger()); err != nil {
		t.Fatalf("scrape build: %v", err)
	}
	c.SearchBackend = BackendAPI
	c.YouTubeAPIKey = "k"
	if _, err := Build(context.Background(), c, quietLogger()); err != nil {
		t.Fatalf("api build: %v", err)
	}
}

func TestMissingTools(t *testing.T) {
	c := Config{YtDlpPath: "comedyclip-no-such-binary", FFmpegPath: ""}
	got := MissingTools(c)
	if len(got) != 1 || got[0] != "comedyclip-no-such-binary" {
		t.Fatalf("unexpected missing tools: %v", got)
	}
}
