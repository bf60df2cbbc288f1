package ytdlp

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"runtime"
	"slices"
	"strings"
	"testing"

	"github.com/forPelevin/comedyclip/internal/types"
)

func TestSectionArgs(t *testing.T) {
	got := sectionArgs("https://youtu.be/x", 30, 75, "out/a.mp4")
	want := []string{
		"https://youtu.be/x",
		"-f", "bestvideo[height<=720]+bestaudio/best[height<=720]",
		"--merge-output-format", "mp4",
		"--download-sections", "*30-75",
		"-o", "out/a.mp4",
		"--force-keyframes-at-cuts",
	}
	if !slices.Equal(got, want) {
		t.Fatalf("sectionArgs mismatch:\n got %v\nwant %v", got, want)
	}
}

func TestToDirArgs_UsesQuality(t *testing.T) {
	got := toDirArgs("u", "clips", 1080)
	if got[2] != "bestvideo[height<=1080]+bestaudio/best[height<=1080]" {
		t.Fatalf("unexpected format selector %q", got[2])
	}
	if !slices.Contains(got, "after_move:filepath") {
		t.Fatalf("expected --print after_move:filepath in %v", got)
	}
	if !slices.Contains(got, filepath.Join("clips", "%(title)s.%(ext)s")) {
		t.Fatalf("expected title template in %v", got)
	}
}

func TestFormatSelector_DefaultsHeight(t *testing.T) {
	if got := formatSelector(0); !strings.Contains(got, "height<=720") {
		t.Fatalf("expected 720 default, got %q", got)
	}
}

func TestParseDetails(t *testing.T) {
	raw := `{"id":"abc","title":"Set","duration":612.4,"uploader":"Club","view_count":1200,
		"description":"d","upload_date":"20240102","categories":["Comedy"],"tags":["standup"]}`
	v, err := parseDetails([]byte(raw), "https://www.youtube.com/watch?v=abc")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if v.Duration != 612 || v.Channel != "Club" || v.ViewCount != 1200 || v.UploadDate != "20240102" {
		t.Fatalf("unexpected video: %+v", v)
	}
	if v.URL != "https://www.youtube.com/watch?v=abc" || len(v.Tags) != 1 {
		t.Fatalf("unexpected video: %+v", v)
	}
	if _, err := parseDetails([]byte("not json"), ""); err == nil {
		t.Fatalf("expected decode error")
	}
}

func TestLastLine(t *testing.T) {
	if got := lastLine("[info] merging\n/tmp/out/Set.mp4\n"); got != "/tmp/out/Set.mp4" {
		t.Fatalf("unexpected last line %q", got)
	}
	if got := lastLine(""); got != "" {
		t.Fatalf("expected empty, got %q", got)
	}
}

const fakeSubsScript = `#!/bin/sh
while [ $# -gt 0 ]; do
  if [ "$1" = "--output" ]; then shift; out=$1; fi
  shift
done
printf '1\n00:00:01,000 --> 00:00:02,000\nHello\n' > "$out.en.vtt"
`

func TestFetchSubtitles_ReadsAndRemovesFile(t *testing.T) {
	if runtime.GOOS == "windows" {
		t.Skip("shell script fake")
	}
	dir := t.TempDir()
	tmp := filepath.Join(dir, "tmp")
	if err := os.MkdirAll(tmp, 0o755); err != nil {
		t.Fatalf("mkdir: %v", err)
	}
	a := New(writeScript(t, dir, "yt-dlp", fakeSubsScript), tmp)

	got, err := a.FetchSubtitles(context.Background(), "https://youtu.be/x")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !strings.Contains(got, "Hello") {
		t.Fatalf("unexpected content %q", got)
	}
	left, _ := os.ReadDir(tmp)
	if len(left) != 0 {
		t.Fatalf("expected caption files removed, found %d", len(left))
	}
}

func TestFetchSubtitles_FailuresAreNoTranscript(t *testing.T) {
	if runtime.GOOS == "windows" {
		t.Skip("shell script fake")
	}
	cases := map[string]string{
		"non-zero exit": "#!/bin/sh\necho 'no subtitles' >&2\nexit 1\n",
		"no file":       "#!/bin/sh\nexit 0\n",
	}
	for name, script := range cases {
		t.Run(name, func(t *testing.T) {
			dir := t.TempDir()
			a := New(writeScript(t, dir, "yt-dlp", script), dir)
			_, err := a.FetchSubtitles(context.Background(), "u")
			if !errors.Is(err, types.ErrNoTranscript) {
				t.Fatalf("expected ErrNoTranscript, got %v", err)
			}
		})
	}
}

func TestDownloadSection_ExitZeroWithoutFile(t *testing.T) {
	if runtime.GOOS == "windows" {
		t.Skip("shell script fake")
	}
	dir := t.TempDir()
	a := New(writeScript(t, dir, "yt-dlp", "#!/bin/sh\nexit 0\n"), dir)
	err := a.DownloadSection(context.Background(), "u", 0, 10, filepath.Join(dir, "c.mp4"))
	if !errors.Is(err, types.ErrNoOutput) {
		t.Fatalf("expected ErrNoOutput, got %v", err)
	}
}

func TestDownloadToDir_ReturnsPrintedPath(t *testing.T) {
	if runtime.GOOS == "windows" {
		t.Skip("shell script fake")
	}
	dir := t.TempDir()
	target := filepath.Join(dir, "Late Night Set.mp4")
	script := "#!/bin/sh\n: > '" + target + "'\necho '[download] done'\necho '" + target + "'\n"
	a := New(writeScript(t, dir, "yt-dlp", script), dir)

	got, err := a.DownloadToDir(context.Background(), "u", dir, 720)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got != target {
		t.Fatalf("expected %q, got %q", target, got)
	}
}

func writeScript(t *testing.T, dir, name, body string) string {
	t.Helper()
	p := filepath.Join(dir, name)
	if err := os.WriteFile(p, []byte(body), 0o755); err != nil {
		t.Fatalf("write script: %v", err)
	}
	return p
}
