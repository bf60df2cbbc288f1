package ytdlp

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/forPelevin/comedyclip/internal/types"
)

const (
	detailsTimeout   = 30 * time.Second
	subtitlesTimeout = 60 * time.Second
	sectionTimeout   = 180 * time.Second
	fullTimeout      = 300 * time.Second

	// DefaultMaxHeight caps the vertical resolution of every download.
	DefaultMaxHeight = 720
)

// subtitleExts lists the files yt-dlp may leave behind, in probe order.
var subtitleExts = []string{".en.srt", ".en.vtt", ".srt", ".vtt"}

type Adapter struct {
	bin     string
	tempDir string
}

func New(binPath, tempDir string) *Adapter {
	if binPath == "" {
		binPath = "yt-dlp"
	}
	if tempDir == "" {
		tempDir = os.TempDir()
	}
	return &Adapter{bin: binPath, tempDir: tempDir}
}

func (a *Adapter) Details(ctx context.Context, url string) (types.Video, error) {
	ctx, cancel := context.WithTimeout(ctx, detailsTimeout)
	defer cancel()

	var stderr bytes.Buffer
	cmd := exec.CommandContext(ctx, a.bin, url, "--dump-json", "--no-download")
	cmd.Stderr = &stderr
	out, err := cmd.Output()
	if err != nil {
		return types.Video{}, fmt.Errorf("yt-dlp details: %w\n%s", err, stderr.String())
	}
	return parseDetails(out, url)
}

// FetchSubtitles returns the raw English auto-caption file for url. Every
// failure mode collapses into types.ErrNoTranscript.
func (a *Adapter) FetchSubtitles(ctx context.Context, url string) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, subtitlesTimeout)
	defer cancel()

	prefix := filepath.Join(a.tempDir, "comedyclip_subs_"+uuid.NewString()[:8])
	b, err := exec.CommandContext(ctx, a.bin, subtitleArgs(url, prefix)...).CombinedOutput()
	if err != nil {
		removeSubtitleFiles(prefix)
		if errors.Is(ctx.Err(), context.DeadlineExceeded) {
			return "", fmt.Errorf("yt-dlp subtitles: timeout after %s: %w", subtitlesTimeout, types.ErrNoTranscript)
		}
		return "", fmt.Errorf("yt-dlp subtitles: %v: %w\n%s", err, types.ErrNoTranscript, types.Truncate(string(b), 400))
	}

	defer removeSubtitleFiles(prefix)
	for _, ext := range subtitleExts {
		content, err := os.ReadFile(prefix + ext)
		if err != nil {
			continue
		}
		return string(content), nil
	}
	return "", fmt.Errorf("yt-dlp subtitles: no caption file: %w", types.ErrNoTranscript)
}

// DownloadSection fetches only [start, end) of url into outPath.
func (a *Adapter) DownloadSection(ctx context.Context, url string, start, end int, outPath string) error {
	return a.download(ctx, "section", sectionTimeout, sectionArgs(url, start, end, outPath), outPath)
}

// DownloadFull fetches the whole video into outPath.
func (a *Adapter) DownloadFull(ctx context.Context, url, outPath string) error {
	return a.download(ctx, "full", fullTimeout, fullArgs(url, outPath), outPath)
}

// DownloadToDir saves the whole video under dir named after its title and
// returns the final path reported by yt-dlp.
func (a *Adapter) DownloadToDir(ctx context.Context, url, dir string, maxHeight int) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, fullTimeout)
	defer cancel()

	var stderr bytes.Buffer
	cmd := exec.CommandContext(ctx, a.bin, toDirArgs(url, dir, maxHeight)...)
	cmd.Stderr = &stderr
	out, err := cmd.Output()
	if err != nil {
		if errors.Is(ctx.Err(), context.DeadlineExceeded) {
			return "", fmt.Errorf("yt-dlp download: timeout after %s: %w", fullTimeout, types.ErrNoOutput)
		}
		return "", fmt.Errorf("yt-dlp download: %v: %w\n%s", err, types.ErrNoOutput, types.Truncate(stderr.String(), 400))
	}
	path := lastLine(string(out))
	if path == "" {
		return "", fmt.Errorf("yt-dlp download: empty path: %w", types.ErrNoOutput)
	}
	if _, err := os.Stat(path); err != nil {
		return "", fmt.Errorf("yt-dlp download: %w: %s", types.ErrNoOutput, path)
	}
	return path, nil
}

func (a *Adapter) download(ctx context.Context, op string, timeout time.Duration, args []string, outPath string) error {
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	b, err := exec.CommandContext(ctx, a.bin, args...).CombinedOutput()
	if err != nil {
		if errors.Is(ctx.Err(), context.DeadlineExceeded) {
			return fmt.Errorf("yt-dlp %s: timeout after %s: %w", op, timeout, types.ErrNoOutput)
		}
		return fmt.Errorf("yt-dlp %s: %v: %w\n%s", op, err, types.ErrNoOutput, types.Truncate(string(b), 400))
	}
	if _, err := os.Stat(outPath); err != nil {
		return fmt.Errorf("yt-dlp %s: %w: %s", op, types.ErrNoOutput, outPath)
	}
	return nil
}

func formatSelector(maxHeight int) string {
	if maxHeight <= 0 {
		maxHeight = DefaultMaxHeight
	}
	h := strconv.Itoa(maxHeight)
	return "bestvideo[height<=" + h + "]+bestaudio/best[height<=" + h + "]"
}

func subtitleArgs(url, prefix string) []string {
	return []string{
		url,
		"--write-auto-sub",
		"--sub-lang", "en",
		"--skip-download",
		"--output", prefix,
		"--convert-subs", "srt",
	}
}

func sectionArgs(url string, start, end int, out string) []string {
	return []string{
		url,
		"-f", formatSelector(DefaultMaxHeight),
		"--merge-output-format", "mp4",
		"--download-sections", fmt.Sprintf("*%d-%d", start, end),
		"-o", out,
		"--force-keyframes-at-cuts",
	}
}

func fullArgs(url, out string) []string {
	return []string{
		url,
		"-f", formatSelector(DefaultMaxHeight),
		"--merge-output-format", "mp4",
		"-o", out,
	}
}

func toDirArgs(url, dir string, maxHeight int) []string {
	return []string{
		url,
		"-f", formatSelector(maxHeight),
		"--merge-output-format", "mp4",
		"-o", filepath.Join(dir, "%(title)s.%(ext)s"),
		"--print", "after_move:filepath",
	}
}

type videoJSON struct {
	ID          string   `json:"id"`
	Title       string   `json:"title"`
	Duration    float64  `json:"duration"`
	Channel     string   `json:"channel"`
	Uploader    string   `json:"uploader"`
	ViewCount   int64    `json:"view_count"`
	Description string   `json:"description"`
	Thumbnail   string   `json:"thumbnail"`
	UploadDate  string   `json:"upload_date"`
	Categories  []string `json:"categories"`
	Tags        []string `json:"tags"`
}

func parseDetails(b []byte, url string) (types.Video, error) {
	var v videoJSON
	if err := json.Unmarshal(b, &v); err != nil {
		return types.Video{}, fmt.Errorf("decode yt-dlp json: %w", err)
	}
	channel := v.Channel
	if channel == "" {
		channel = v.Uploader
	}
	return types.Video{
		ID:          v.ID,
		Title:       v.Title,
		URL:         url,
		Duration:    int(v.Duration),
		Channel:     channel,
		ViewCount:   v.ViewCount,
		Description: v.Description,
		Thumbnail:   v.Thumbnail,
		UploadDate:  v.UploadDate,
		Categories:  v.Categories,
		Tags:        v.Tags,
	}, nil
}

func removeSubtitleFiles(prefix string) {
	for _, ext := range subtitleExts {
		_ = os.Remove(prefix + ext)
	}
}

func lastLine(s string) string {
	lines := strings.Split(strings.TrimSpace(s), "\n")
	return strings.TrimSpace(lines[len(lines)-1])
}
