package ports

import (
	"context"
	"time"

	"github.com/forPelevin/comedyclip/internal/types"
)

// Searcher lists videos for a free-text query.
type Searcher interface {
	Search(ctx context.Context, query string, bucket types.DurationBucket, max int) ([]types.Video, error)
}

// VideoSource talks to the hosting platform through the downloader tool.
type VideoSource interface {
	Details(ctx context.Context, url string) (types.Video, error)
	FetchSubtitles(ctx context.Context, url string) (string, error)
	DownloadSection(ctx context.Context, url string, start, end int, outPath string) error
	DownloadFull(ctx context.Context, url, outPath string) error
	DownloadToDir(ctx context.Context, url, dir string, maxHeight int) (string, error)
}

// MediaTool re-encodes local media files.
type MediaTool interface {
	Trim(ctx context.Context, in string, start, end int, out string) (string, error)
	OptimizeForVertical(ctx context.Context, in, out string) (string, error)
	ProbeDuration(ctx context.Context, in string) (time.Duration, error)
}

type CompletionRequest struct {
	Prompt    string
	MaxTokens int
}

// Completer sends one prompt to a language model and returns the raw reply text.
// HasKey reports whether a credential is configured, without any network call.
type Completer interface {
	HasKey() bool
	Complete(ctx context.Context, req CompletionRequest) (string, error)
}
