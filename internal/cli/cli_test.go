package cli

import (
	"bytes"
	"context"
	"path/filepath"
	"strings"
	"testing"

	"github.com/zalando/go-keyring"

	"github.com/forPelevin/comedyclip/internal/credentials"
	"github.com/forPelevin/comedyclip/internal/types"
)

func runCLI(t *testing.T, stdin string, args ...string) (string, error) {
	t.Helper()
	keyring.MockInit()
	for _, k := range []string{"OPENROUTER_BASE_URL", "OPENROUTER_ALLOWED_HOSTS", "LOG_LEVEL", "OPENROUTER_MAX_TOKENS"} {
		t.Setenv(k, "")
	}
	root := NewRootCmd()
	var out bytes.Buffer
	root.SetOut(&out)
	root.SetErr(&out)
	root.SetIn(strings.NewReader(stdin))
	args = append(args, "--log-file", filepath.Join(t.TempDir(), "test.log"))
	root.SetArgs(args)
	err := root.ExecuteContext(context.Background())
	return out.String(), err
}

func TestArgsValidation(t *testing.T) {
	tests := []struct {
		name    string
		args    []string
		wantErr string
	}{
		{name: "search without query", args: []string{"search"}, wantErr: "requires at least 1 arg(s)"},
		{name: "bad duration", args: []string{"search", "dave", "--duration", "huge"}, wantErr: "duration must be one of"},
		{name: "bad max", args: []string{"search", "dave", "--max", "many"}, wantErr: "invalid argument"},
		{name: "unknown backend", args: []string{"search", "dave", "--backend", "bing"}, wantErr: "unknown search backend"},
		{name: "details without url", args: []string{"details"}, wantErr: "accepts 1 arg(s), received 0"},
		{name: "clip without source", args: []string{"clip"}, wantErr: "a video url or --plan is required"},
		{name: "clip url and plan", args: []string{"clip", "u", "--plan", "p.yaml"}, wantErr: "not both"},
		{name: "clip empty range", args: []string{"clip", "u", "--start", "30", "--end", "30"}, wantErr: "invalid clip range"},
		{name: "clip missing plan", args: []string{"clip", "--plan", "/nonexistent/plan.yaml"}, wantErr: "plan.yaml"},
		{name: "suggest min above max", args: []string{"suggest", "u", "--min", "90", "--max", "30"}, wantErr: "min clip must be <= max clip"},
		{name: "download bad quality", args: []string{"download", "u", "--quality", "0"}, wantErr: "quality must be > 0"},
		{name: "vertical missing input", args: []string{"vertical", "/nonexistent/in.mp4"}, wantErr: "stat input"},
		{name: "bad log level", args: []string{"details", "u", "--log-level", "chatty"}, wantErr: "invalid log level"},
		{name: "unknown flag", args: []string{"search", "dave", "--wat"}, wantErr: "unknown flag: --wat"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := runCLI(t, "", tt.args...)
			if err == nil || !strings.Contains(err.Error(), tt.wantErr) {
				t.Fatalf("expected error containing %q, got %v", tt.wantErr, err)
			}
		})
	}
}

func TestBaseURLRejected(t *testing.T) {
	keyring.MockInit()
	t.Setenv("OPENROUTER_BASE_URL", "http://evil.example")
	root := NewRootCmd()
	root.SetOut(&bytes.Buffer{})
	root.SetErr(&bytes.Buffer{})
	root.SetArgs([]string{"details", "u", "--log-file", filepath.Join(t.TempDir(), "x.log")})
	err := root.ExecuteContext(context.Background())
	if err == nil || !strings.Contains(err.Error(), "https is required") {
		t.Fatalf("expected base url error, got %v", err)
	}
}

func TestSuggestWithoutKeyFailsBeforeFetching(t *testing.T) {
	t.Setenv("OPENROUTER_API_KEY", "")
	t.Setenv("YTDLP_PATH", filepath.Join(t.TempDir(), "missing-yt-dlp"))
	out, err := runCLI(t, "", "suggest", "https://www.youtube.com/watch?v=abc")
	if err == nil || !strings.Contains(err.Error(), "OPENROUTER_API_KEY not set") {
		t.Fatalf("expected missing key error, got %v", err)
	}
	if strings.Contains(out, "details unavailable") || strings.Contains(out, "no transcript") {
		t.Fatalf("expected no video lookups before the key check, got %q", out)
	}
}

func TestKeySetAndDelete(t *testing.T) {
	out, err := runCLI(t, "sk-test\n", "key", "set")
	if err != nil {
		t.Fatalf("key set: %v", err)
	}
	if !strings.Contains(out, "API key saved.") {
		t.Fatalf("unexpected output: %q", out)
	}
	if got := credentials.Lookup(); got != "sk-test" {
		t.Fatalf("stored key = %q", got)
	}

	if _, err := runCLI(t, "", "key", "delete"); err != nil {
		t.Fatalf("key delete: %v", err)
	}
}

func TestKeySetRejectsEmpty(t *testing.T) {
	if _, err := runCLI(t, "\n", "key", "set"); err == nil {
		t.Fatalf("expected error for empty key")
	}
}

func TestPrintVideos(t *testing.T) {
	var b bytes.Buffer
	printVideos(&b, nil)
	if !strings.Contains(b.String(), "No videos found.") {
		t.Fatalf("unexpected empty output: %q", b.String())
	}

	b.Reset()
	printVideos(&b, []types.Video{{Title: "Dave Live", Channel: "Netflix", Duration: 754, ViewCount: 1_200_000, URL: "https://www.youtube.com/watch?v=abc"}})
	for _, want := range []string{" 1. Dave Live", "Netflix | 12:34 | 1.2M views", "watch?v=abc"} {
		if !strings.Contains(b.String(), want) {
			t.Fatalf("output missing %q:\n%s", want, b.String())
		}
	}
}

func TestPrintSuggestions(t *testing.T) {
	var b bytes.Buffer
	printSuggestions(&b, []types.ClipSuggestion{{StartSeconds: 65, EndSeconds: 100, Description: "crowd work", SuggestedCaption: "lol"}})
	for _, want := range []string{"1. [01:05 - 01:40] 35s", "crowd work", "Caption: lol"} {
		if !strings.Contains(b.String(), want) {
			t.Fatalf("output missing %q:\n%s", want, b.String())
		}
	}
}
