package highlights

import (
	"sort"
	"strings"

	"github.com/forPelevin/comedyclip/internal/domain/subtitles"
	"github.com/forPelevin/comedyclip/internal/types"
)

type timedLine struct {
	At   int
	Text string
}

// Hotspots proposes up to n non-overlapping windows between minSec and maxSec
// long, ranked by comedy cues. Windows end on the line after a reaction when
// one exists, so the punchline stays inside the clip.
func Hotspots(lines []types.TranscriptLine, videoDuration, minSec, maxSec, n int) []types.Hotspot {
	if n <= 0 || minSec <= 0 || maxSec < minSec {
		return nil
	}
	timed := collectTimed(lines)
	if len(timed) == 0 {
		return nil
	}

	var cands []types.Hotspot
	for i := range timed {
		start := timed[i].At
		var parts []string
		for j := i; j < len(timed); j++ {
			parts = append(parts, timed[j].Text)
			end := lineEnd(timed, j, videoDuration)
			win := end - start
			if win > maxSec {
				break
			}
			if win < minSec {
				continue
			}
			text := strings.Join(parts, " ")
			if sc := Score(text); sc > 0 {
				cands = append(cands, types.Hotspot{StartSeconds: start, EndSeconds: end, Text: text, Score: sc})
			}
		}
	}

	sort.SliceStable(cands, func(i, j int) bool {
		if cands[i].Score == cands[j].Score {
			return cands[i].StartSeconds < cands[j].StartSeconds
		}
		return cands[i].Score > cands[j].Score
	})

	out := make([]types.Hotspot, 0, n)
	for _, c := range cands {
		if len(out) >= n {
			break
		}
		if overlaps(out, c) {
			continue
		}
		out = append(out, c)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].StartSeconds < out[j].StartSeconds })
	return out
}

// AsSuggestion converts a hotspot into a user-owned clip entry.
func AsSuggestion(h types.Hotspot) types.ClipSuggestion {
	return types.ClipSuggestion{
		StartSeconds: h.StartSeconds,
		EndSeconds:   h.EndSeconds,
		Description:  "Heuristic: " + types.Truncate(h.Text, 120),
		Manual:       true,
	}
}

func collectTimed(lines []types.TranscriptLine) []timedLine {
	out := make([]timedLine, 0, len(lines))
	for _, l := range lines {
		at, ok := subtitles.TimestampSeconds(l.Timestamp)
		if !ok || strings.TrimSpace(l.Text) == "" {
			continue
		}
		// Auto-captions repeat rolling lines; keep the first occurrence.
		if k := len(out); k > 0 && out[k-1].Text == l.Text {
			continue
		}
		out = append(out, timedLine{At: at, Text: strings.TrimSpace(l.Text)})
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].At < out[j].At })
	return out
}

func lineEnd(timed []timedLine, j, videoDuration int) int {
	if j+1 < len(timed) {
		return timed[j+1].At
	}
	end := timed[j].At + 3
	if videoDuration > 0 && end > videoDuration {
		end = videoDuration
	}
	return end
}

func overlaps(existing []types.Hotspot, c types.Hotspot) bool {
	for _, e := range existing {
		if c.StartSeconds < e.EndSeconds && c.EndSeconds > e.StartSeconds {
			return true
		}
	}
	return false
}
