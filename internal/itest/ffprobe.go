//go:build integration

package itest

import (
	"fmt"
	"os/exec"
	"strconv"
	"strings"
)

func probeDurationSeconds(mp4Path string) (float64, error) {
	s, err := probe(mp4Path, "format=duration")
	if err != nil {
		return 0, err
	}
	sec, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, fmt.Errorf("parse duration %q: %w", s, err)
	}
	return sec, nil
}

// probeDimensions returns "WIDTHxHEIGHT" of the first video stream.
func probeDimensions(mp4Path string) (string, error) {
	return probe(mp4Path, "stream=width,height", "-select_streams", "v:0", "-of", "csv=s=x:p=0")
}

func probe(path, entries string, extra ...string) (string, error) {
	args := []string{"-v", "error", "-show_entries", entries}
	if len(extra) > 0 {
		args = append(args, extra...)
	} else {
		args = append(args, "-of", "default=noprint_wrappers=1:nokey=1")
	}
	args = append(args, path)
	b, err := exec.Command("ffprobe", args...).CombinedOutput()
	if err != nil {
		return "", fmt.Errorf("ffprobe: %w\n%s", err, string(b))
	}
	return strings.TrimSpace(string(b)), nil
}

// makeFixture renders a silent test pattern of the given length.
func makeFixture(path string, seconds int) error {
	cmd := exec.Command("ffmpeg",
		"-y",
		"-f", "lavfi",
		"-i", fmt.Sprintf("testsrc=size=1280x720:rate=25:duration=%d", seconds),
		"-f", "lavfi",
		"-i", fmt.Sprintf("sine=frequency=440:duration=%d", seconds),
		"-shortest",
		"-c:v", "libx264",
		"-pix_fmt", "yuv420p",
		"-c:a", "aac",
		path,
	)
	if b, err := cmd.CombinedOutput(); err != nil {
		return fmt.Errorf("ffmpeg fixture: %w\n%s", err, string(b))
	}
	return nil
}
