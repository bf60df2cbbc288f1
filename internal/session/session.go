// Package session holds the state of one interactive run: the last search,
// the chosen video, its clip list and what has been downloaded so far.
package session

import (
	"errors"
	"fmt"

	"github.com/google/uuid"

	"github.com/forPelevin/comedyclip/internal/types"
)

const (
	// ReviewDurationFallback bounds clip editing when the video length is unknown.
	ReviewDurationFallback = 600

	manualDefaultEnd  = 60
	manualDescription = "Manual selection - adjust times below"
)

var ErrNoSelection = errors.New("no video selected")

type Session struct {
	ID          string
	Results     []types.Video
	Selected    *types.Video
	Transcript  []types.TranscriptLine
	Suggestions []types.ClipSuggestion
	Downloaded  []string
}

func New() *Session {
	return &Session{ID: uuid.NewString()}
}

// ReplaceResults stores a fresh search and forgets the previous selection.
func (s *Session) ReplaceResults(videos []types.Video) {
	s.Results = videos
	s.Selected = nil
	s.Transcript = nil
	s.Suggestions = nil
}

func (s *Session) Select(i int) error {
	if i < 0 || i >= len(s.Results) {
		return fmt.Errorf("result %d out of range", i)
	}
	v := s.Results[i]
	s.SelectVideo(v)
	return nil
}

// SelectVideo selects a video that did not come from the result list.
func (s *Session) SelectVideo(v types.Video) {
	s.Selected = &v
	s.Transcript = nil
	s.Suggestions = nil
}

func (s *Session) SetTranscript(lines []types.TranscriptLine) { s.Transcript = lines }

func (s *Session) SetSuggestions(list []types.ClipSuggestion) {
	s.Suggestions = append([]types.ClipSuggestion(nil), list...)
}

// AddManual appends a default manual entry and returns its index.
func (s *Session) AddManual() (int, error) {
	if s.Selected == nil {
		return 0, ErrNoSelection
	}
	return s.AddSuggestion(ManualClip(s.Selected.Duration))
}

func (s *Session) AddSuggestion(c types.ClipSuggestion) (int, error) {
	if s.Selected == nil {
		return 0, ErrNoSelection
	}
	s.Suggestions = append(s.Suggestions, c)
	return len(s.Suggestions) - 1, nil
}

// UpdateRange edits a clip's bounds. start is clamped to [0, dur-1], end to
// [1, dur]; a range that ends up empty is rejected.
func (s *Session) UpdateRange(i, start, end int) error {
	if i < 0 || i >= len(s.Suggestions) {
		return fmt.Errorf("clip %d out of range", i)
	}
	if s.Suggestions[i].IsError() {
		return fmt.Errorf("clip %d is an error entry", i)
	}
	dur := s.EffectiveDuration()
	start = clamp(start, 0, dur-1)
	end = clamp(end, 1, dur)
	if end <= start {
		return fmt.Errorf("end %d must be after start %d", end, start)
	}
	s.Suggestions[i].StartSeconds = start
	s.Suggestions[i].EndSeconds = end
	return nil
}

func (s *Session) RecordDownload(path string) {
	s.Downloaded = append(s.Downloaded, path)
}

// RecentDownloads returns up to n of the latest downloads, oldest first.
func (s *Session) RecentDownloads(n int) []string {
	if n <= 0 {
		return nil
	}
	if len(s.Downloaded) <= n {
		return append([]string(nil), s.Downloaded...)
	}
	return append([]string(nil), s.Downloaded[len(s.Downloaded)-n:]...)
}

// EffectiveDuration is the selected video's length, or ReviewDurationFallback
// when it is unknown.
func (s *Session) EffectiveDuration() int {
	if s.Selected == nil || s.Selected.Duration <= 0 {
		return ReviewDurationFallback
	}
	return s.Selected.Duration
}

// ValidSuggestions drops error entries and ranges outside the video.
func (s *Session) ValidSuggestions() []types.ClipSuggestion {
	dur := s.EffectiveDuration()
	out := make([]types.ClipSuggestion, 0, len(s.Suggestions))
	for _, c := range s.Suggestions {
		if c.Valid(dur) {
			out = append(out, c)
		}
	}
	return out
}

// ManualClip is the editable placeholder offered when the model has nothing.
func ManualClip(duration int) types.ClipSuggestion {
	end := manualDefaultEnd
	if duration > 0 {
		end = min(manualDefaultEnd, duration)
	}
	return types.ClipSuggestion{
		StartSeconds: 0,
		EndSeconds:   end,
		Description:  manualDescription,
		Manual:       true,
	}
}

func clamp(x, lo, hi int) int {
	if hi < lo {
		hi = lo
	}
	return max(lo, min(hi, x))
}
