package types

import "errors"

var (
	// ErrNoTranscript means the video has no usable auto-generated captions.
	ErrNoTranscript = errors.New("no transcript available")
	// ErrNoOutput means an external tool exited without producing the expected file.
	ErrNoOutput = errors.New("no file produced")
	// ErrMissingCredential means the language model API key is not configured.
	ErrMissingCredential = errors.New("OPENROUTER_API_KEY not set")
	// ErrNoInitialData means the search page carried no embedded result blob.
	ErrNoInitialData = errors.New("could not find ytInitialData in response")
)

type Video struct {
	ID          string   `json:"id" yaml:"id"`
	Title       string   `json:"title" yaml:"title"`
	URL         string   `json:"url" yaml:"url"`
	Duration    int      `json:"duration" yaml:"duration"`
	Channel     string   `json:"channel" yaml:"channel"`
	ViewCount   int64    `json:"view_count" yaml:"viewCount"`
	Description string   `json:"description" yaml:"description,omitempty"`
	Thumbnail   string   `json:"thumbnail" yaml:"thumbnail,omitempty"`
	UploadDate  string   `json:"upload_date,omitempty" yaml:"uploadDate,omitempty"`
	Categories  []string `json:"categories,omitempty" yaml:"categories,omitempty"`
	Tags        []string `json:"tags,omitempty" yaml:"tags,omitempty"`
}

type ClipSuggestion struct {
	StartSeconds     int    `json:"start_seconds" yaml:"startSeconds"`
	EndSeconds       int    `json:"end_seconds" yaml:"endSeconds"`
	Description      string `json:"description,omitempty" yaml:"description,omitempty"`
	SuggestedCaption string `json:"suggested_caption,omitempty" yaml:"suggestedCaption,omitempty"`
	Manual           bool   `json:"manual,omitempty" yaml:"manual,omitempty"`
	Error            string `json:"error,omitempty" yaml:"error,omitempty"`
	Hint             string `json:"suggestion,omitempty" yaml:"hint,omitempty"`
}

// IsError reports whether the entry marks a failed suggestion rather than a clip.
func (c ClipSuggestion) IsError() bool { return c.Error != "" }

// Valid reports 0 <= start < end <= duration. A non-positive duration skips the upper bound.
func (c ClipSuggestion) Valid(duration int) bool {
	if c.IsError() || c.StartSeconds < 0 || c.EndSeconds <= c.StartSeconds {
		return false
	}
	return duration <= 0 || c.EndSeconds <= duration
}

func (c ClipSuggestion) Length() int { return c.EndSeconds - c.StartSeconds }

type TranscriptLine struct {
	Timestamp string
	Text      string
}

// DurationBucket is a coarse filter over video length.
type DurationBucket string

const (
	BucketAny    DurationBucket = ""
	BucketShort  DurationBucket = "short"
	BucketMedium DurationBucket = "medium"
	BucketLong   DurationBucket = "long"
)

func ParseBucket(s string) (DurationBucket, error) {
	switch b := DurationBucket(s); b {
	case BucketAny, BucketShort, BucketMedium, BucketLong:
		return b, nil
	case "any":
		return BucketAny, nil
	default:
		return BucketAny, errors.New(`duration must be one of "short", "medium", "long"`)
	}
}

// Hotspot is a transcript window scored by comedy cues.
type Hotspot struct {
	StartSeconds int
	EndSeconds   int
	Text         string
	Score        float64
}
