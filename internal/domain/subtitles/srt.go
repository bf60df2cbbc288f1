package subtitles

import (
	"strings"

	"github.com/forPelevin/comedyclip/internal/types"
)

var tagReplacer = strings.NewReplacer("<i>", "", "</i>", "")

// ParseSRT flattens SRT cues into one line per caption, each tagged with the
// start timestamp of the cue it belongs to. End timestamps and styling are dropped.
func ParseSRT(content string) []types.TranscriptLine {
	var (
		out     []types.TranscriptLine
		current string
	)
	for _, raw := range strings.Split(strings.TrimSpace(content), "\n") {
		line := strings.TrimSpace(raw)
		switch {
		case strings.Contains(line, "-->"):
			current = strings.TrimSpace(strings.SplitN(line, "-->", 2)[0])
		case line == "", isDigits(line), current == "":
			continue
		default:
			out = append(out, types.TranscriptLine{Timestamp: current, Text: tagReplacer.Replace(line)})
		}
	}
	return out
}

// FormatTranscript renders lines as "[timestamp] text", newline-joined.
func FormatTranscript(lines []types.TranscriptLine) string {
	parts := make([]string, 0, len(lines))
	for _, l := range lines {
		parts = append(parts, "["+l.Timestamp+"] "+l.Text)
	}
	return strings.Join(parts, "\n")
}

// TimestampSeconds converts "HH:MM:SS,mmm" (or the VTT "." form) to whole seconds.
func TimestampSeconds(ts string) (int, bool) {
	ts = strings.TrimSpace(ts)
	if i := strings.IndexAny(ts, ",."); i >= 0 {
		ts = ts[:i]
	}
	parts := strings.Split(ts, ":")
	if len(parts) < 2 || len(parts) > 3 {
		return 0, false
	}
	total := 0
	for _, p := range parts {
		if !isDigits(p) {
			return 0, false
		}
		n := 0
		for _, r := range p {
			n = n*10 + int(r-'0')
		}
		total = total*60 + n
	}
	return total, true
}

func isDigits(s string) bool {
	if s == "" {
		return false
	}
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}
