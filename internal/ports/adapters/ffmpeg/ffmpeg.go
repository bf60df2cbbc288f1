package ffmpeg

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/forPelevin/comedyclip/internal/types"
)

const (
	transcodeTimeout = 120 * time.Second
	probeTimeout     = 10 * time.Second

	verticalFilter = "scale=1080:1920:force_original_aspect_ratio=decrease,pad=1080:1920:(ow-iw)/2:(oh-ih)/2"
)

type Adapter struct {
	ffmpeg  string
	ffprobe string
}

func New(ffmpegPath, ffprobePath string) *Adapter {
	if ffmpegPath == "" {
		ffmpegPath = "ffmpeg"
	}
	if ffprobePath == "" {
		ffprobePath = "ffprobe"
	}
	return &Adapter{ffmpeg: ffmpegPath, ffprobe: ffprobePath}
}

// Trim re-encodes [start, end) of in into out and returns out.
func (a *Adapter) Trim(ctx context.Context, in string, start, end int, out string) (string, error) {
	if end <= start {
		return "", fmt.Errorf("ffmpeg trim: end %d must be after start %d", end, start)
	}
	if err := a.run(ctx, "trim", trimArgs(in, start, end, out)); err != nil {
		return "", err
	}
	return produced(out, "trim")
}

// OptimizeForVertical letterboxes in onto a 1080x1920 frame. An empty out
// becomes <in base>_vertical<ext>.
func (a *Adapter) OptimizeForVertical(ctx context.Context, in, out string) (string, error) {
	if out == "" {
		out = VerticalPath(in)
	}
	if err := a.run(ctx, "vertical", verticalArgs(in, out)); err != nil {
		return "", err
	}
	return produced(out, "vertical")
}

func (a *Adapter) ProbeDuration(ctx context.Context, in string) (time.Duration, error) {
	ctx, cancel := context.WithTimeout(ctx, probeTimeout)
	defer cancel()

	cmd := exec.CommandContext(ctx, a.ffprobe,
		"-v", "error",
		"-show_entries", "format=duration",
		"-of", "default=noprint_wrappers=1:nokey=1",
		in,
	)
	b, err := cmd.CombinedOutput()
	if err != nil {
		return 0, fmt.Errorf("ffprobe duration: %w\n%s", err, string(b))
	}
	return parseProbeSeconds(string(b))
}

// VerticalPath derives the default vertical export path for in.
func VerticalPath(in string) string {
	ext := filepath.Ext(in)
	return strings.TrimSuffix(in, ext) + "_vertical" + ext
}

func (a *Adapter) run(ctx context.Context, op string, args []string) error {
	ctx, cancel := context.WithTimeout(ctx, transcodeTimeout)
	defer cancel()

	b, err := exec.CommandContext(ctx, a.ffmpeg, args...).CombinedOutput()
	if err != nil {
		if errors.Is(ctx.Err(), context.DeadlineExceeded) {
			return fmt.Errorf("ffmpeg %s: timeout after %s: %w", op, transcodeTimeout, types.ErrNoOutput)
		}
		return fmt.Errorf("ffmpeg %s: %w: %v\n%s", op, types.ErrNoOutput, err, string(b))
	}
	return nil
}

func trimArgs(in string, start, end int, out string) []string {
	return []string{
		"-y",
		"-ss", strconv.Itoa(start),
		"-i", in,
		"-t", strconv.Itoa(end - start),
		"-c:v", "libx264",
		"-c:a", "aac",
		"-preset", "fast",
		"-crf", "23",
		"-movflags", "+faststart",
		"-loglevel", "error",
		out,
	}
}

func verticalArgs(in, out string) []string {
	return []string{
		"-y",
		"-i", in,
		"-vf", verticalFilter,
		"-c:v", "libx264",
		"-c:a", "aac",
		"-preset", "fast",
		"-crf", "23",
		"-loglevel", "error",
		out,
	}
}

func produced(path, op string) (string, error) {
	if _, err := os.Stat(path); err != nil {
		return "", fmt.Errorf("ffmpeg %s: %w: %s", op, types.ErrNoOutput, path)
	}
	return path, nil
}

func parseProbeSeconds(s string) (time.Duration, error) {
	s = strings.TrimSpace(s)
	sec, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, fmt.Errorf("parse duration %q: %w", s, err)
	}
	return time.Duration(sec * float64(time.Second)), nil
}
