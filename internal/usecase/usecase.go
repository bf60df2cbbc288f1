package usecase

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/forPelevin/comedyclip/internal/domain/discovery"
	"github.com/forPelevin/comedyclip/internal/domain/highlights"
	"github.com/forPelevin/comedyclip/internal/domain/subtitles"
	"github.com/forPelevin/comedyclip/internal/ports"
	"github.com/forPelevin/comedyclip/internal/types"
)

const (
	// FullDownloadName is the fixed temp file used by the clip fallback path.
	FullDownloadName = "comedyclip_full_download.mp4"

	// SuggestDurationFallback stands in for an unknown video length when prompting.
	SuggestDurationFallback = 300

	DefaultVerifyTolerance = 2 * time.Second

	missingKeyHint = "Set your API key in the .env file"
)

type Deps struct {
	Search ports.Searcher
	Video  ports.VideoSource
	Media  ports.MediaTool
	LLM    ports.Completer
	Log    logrus.FieldLogger
}

type Options struct {
	TempDir         string
	VerifySegments  bool
	VerifyTolerance time.Duration
	Now             func() time.Time
}

type Usecase struct {
	d   Deps
	o   Options
	log logrus.FieldLogger
}

func New(d Deps, o Options) Usecase {
	if o.TempDir == "" {
		o.TempDir = os.TempDir()
	}
	if o.VerifyTolerance <= 0 {
		o.VerifyTolerance = DefaultVerifyTolerance
	}
	if o.Now == nil {
		o.Now = time.Now
	}
	log := d.Log
	if log == nil {
		l := logrus.New()
		l.SetOutput(io.Discard)
		log = l
	}
	return Usecase{d: d, o: o, log: log}
}

type SearchInput struct {
	Query  string
	Bucket types.DurationBucket
	Max    int
}

// Search never fails: extraction problems are logged and yield an empty list.
func (u Usecase) Search(ctx context.Context, in SearchInput) []types.Video {
	log := u.log.WithFields(logrus.Fields{"query": in.Query, "duration": string(in.Bucket)})
	videos, err := u.d.Search.Search(ctx, in.Query, in.Bucket, in.Max)
	if err != nil {
		log.WithError(err).Warn("search failed")
		return []types.Video{}
	}
	videos = discovery.FilterByDuration(videos, in.Bucket)
	log.WithField("results", len(videos)).Info("search finished")
	return videos
}

func (u Usecase) Details(ctx context.Context, url string) (types.Video, error) {
	v, err := u.d.Video.Details(ctx, url)
	if err != nil {
		u.log.WithError(err).WithField("url", url).Warn("details lookup failed")
		return types.Video{}, err
	}
	return v, nil
}

type Transcript struct {
	Lines []types.TranscriptLine
	Text  string
}

// Transcript returns types.ErrNoTranscript when the video has no usable captions.
func (u Usecase) Transcript(ctx context.Context, url string) (Transcript, error) {
	log := u.log.WithField("url", url)
	raw, err := u.d.Video.FetchSubtitles(ctx, url)
	if err != nil {
		log.WithError(err).Info("no transcript")
		if errors.Is(err, types.ErrNoTranscript) {
			return Transcript{}, err
		}
		return Transcript{}, fmt.Errorf("%w: %v", types.ErrNoTranscript, err)
	}
	lines := subtitles.ParseSRT(raw)
	if len(lines) == 0 {
		log.Info("caption file had no cues")
		return Transcript{}, types.ErrNoTranscript
	}
	log.WithField("lines", len(lines)).Debug("transcript parsed")
	return Transcript{Lines: lines, Text: subtitles.FormatTranscript(lines)}, nil
}

type SuggestInput struct {
	Video      types.Video
	Transcript string
	MinSec     int
	MaxSec     int
	Count      int
}

// Suggest asks the language model for clip ranges. It never returns an
// error: a missing key yields a single error entry, anything else an empty
// list. A blank transcript is never sent to the model.
func (u Usecase) Suggest(ctx context.Context, in SuggestInput) []types.ClipSuggestion {
	duration := in.Video.Duration
	if duration <= 0 {
		duration = SuggestDurationFallback
	}
	log := u.log.WithFields(logrus.Fields{"url": in.Video.URL, "duration": duration})

	if !u.HasLLMKey() {
		log.Warn("language model key not configured")
		return u.MissingKey()
	}
	if strings.TrimSpace(in.Transcript) == "" {
		log.Info("no transcript, skipping analysis")
		return []types.ClipSuggestion{}
	}

	prompt := highlights.BuildPrompt(highlights.PromptInput{
		Title:       in.Video.Title,
		DurationSec: duration,
		Transcript:  in.Transcript,
		MinClipSec:  in.MinSec,
		MaxClipSec:  in.MaxSec,
		Count:       in.Count,
	})
	reply, err := u.d.LLM.Complete(ctx, ports.CompletionRequest{Prompt: prompt})
	if errors.Is(err, types.ErrMissingCredential) {
		log.Warn("language model rejected the key")
		return u.MissingKey()
	}
	if err != nil {
		log.WithError(err).Warn("suggestion request failed")
		return []types.ClipSuggestion{}
	}

	out, err := highlights.ParseSuggestions(reply, duration)
	if err != nil {
		log.WithError(err).Warn("could not parse suggestions")
		return []types.ClipSuggestion{}
	}
	log.WithField("suggestions", len(out)).Info("suggestions ready")
	return out
}

// HasLLMKey reports whether Suggest can reach the language model at all.
func (u Usecase) HasLLMKey() bool { return u.d.LLM != nil && u.d.LLM.HasKey() }

// MissingKey is the single error entry Suggest returns without a key.
func (u Usecase) MissingKey() []types.ClipSuggestion {
	return []types.ClipSuggestion{{Error: types.ErrMissingCredential.Error(), Hint: missingKeyHint}}
}

type Analysis struct {
	Transcript  Transcript
	Suggestions []types.ClipSuggestion
	// TranscriptErr is set when no captions could be fetched; Suggestions is
	// then empty and the caller should offer manual clips.
	TranscriptErr error
}

// Analyze checks the key, fetches the transcript and asks for suggestions,
// in that order. Each step that fails skips the ones after it.
func (u Usecase) Analyze(ctx context.Context, in SuggestInput) Analysis {
	if !u.HasLLMKey() {
		u.log.WithField("url", in.Video.URL).Warn("language model key not configured")
		return Analysis{Suggestions: u.MissingKey()}
	}
	tr, err := u.Transcript(ctx, in.Video.URL)
	if err != nil {
		return Analysis{Suggestions: []types.ClipSuggestion{}, TranscriptErr: err}
	}
	in.Transcript = tr.Text
	return Analysis{Transcript: tr, Suggestions: u.Suggest(ctx, in)}
}

type ClipRequest struct {
	URL   string
	Start int
	End   int
	Dir   string
	Name  string
}

// DownloadClip saves [Start, End) of URL to <Dir>/<Name>.mp4. A failed or
// inaccurate section download falls back once to a full download plus trim.
func (u Usecase) DownloadClip(ctx context.Context, req ClipRequest) (string, error) {
	if req.Start < 0 || req.End <= req.Start {
		return "", fmt.Errorf("invalid clip range %d-%d", req.Start, req.End)
	}
	if err := os.MkdirAll(req.Dir, 0o755); err != nil {
		return "", err
	}
	name := CleanName(req.Name)
	if name == "" {
		name = DefaultName(u.o.Now())
	}
	out := filepath.Join(req.Dir, name+".mp4")
	log := u.log.WithFields(logrus.Fields{"url": req.URL, "path": out})

	// yt-dlp skips the download when the target already exists.
	if err := os.Remove(out); err != nil && !os.IsNotExist(err) {
		return "", fmt.Errorf("remove stale clip: %w", err)
	}

	err := u.d.Video.DownloadSection(ctx, req.URL, req.Start, req.End, out)
	if err == nil {
		if _, statErr := os.Stat(out); statErr != nil {
			err = fmt.Errorf("%w: %v", types.ErrNoOutput, statErr)
		}
	}
	if err == nil {
		if u.segmentMatches(ctx, out, req.Start, req.End) {
			log.WithField("attempt", "section").Info("clip saved")
			return out, nil
		}
		_ = os.Remove(out)
		log.WithField("attempt", "section").Warn("section length off, retrying via full download")
	} else {
		log.WithField("attempt", "section").WithError(err).Warn("section download failed, retrying via full download")
	}

	path, err := u.downloadAndTrim(ctx, req, out)
	if err != nil {
		_ = os.Remove(out)
		log.WithField("attempt", "fallback").WithError(err).Error("clip not produced")
		return "", err
	}
	log.WithField("attempt", "fallback").Info("clip saved")
	return path, nil
}

func (u Usecase) downloadAndTrim(ctx context.Context, req ClipRequest, out string) (string, error) {
	tmp := filepath.Join(u.o.TempDir, FullDownloadName)
	// A leftover file would make yt-dlp skip the download.
	_ = os.Remove(tmp)
	defer os.Remove(tmp)

	if err := u.d.Video.DownloadFull(ctx, req.URL, tmp); err != nil {
		if errors.Is(err, types.ErrNoOutput) {
			return "", fmt.Errorf("full download: %w", err)
		}
		return "", fmt.Errorf("full download: %w: %v", types.ErrNoOutput, err)
	}
	return u.d.Media.Trim(ctx, tmp, req.Start, req.End, out)
}

func (u Usecase) segmentMatches(ctx context.Context, path string, start, end int) bool {
	if !u.o.VerifySegments {
		return true
	}
	got, err := u.d.Media.ProbeDuration(ctx, path)
	if err != nil {
		u.log.WithError(err).WithField("path", path).Debug("probe failed, accepting section")
		return true
	}
	want := time.Duration(end-start) * time.Second
	diff := got - want
	if diff < 0 {
		diff = -diff
	}
	return diff <= u.o.VerifyTolerance
}

// ExportVertical downloads the clip to a temp name and letterboxes it to
// <Dir>/<Name>_vertical.mp4. The temp clip never survives the call.
func (u Usecase) ExportVertical(ctx context.Context, req ClipRequest) (string, error) {
	name := CleanName(req.Name)
	if name == "" {
		name = DefaultName(u.o.Now())
	}
	tmpReq := req
	tmpReq.Name = name + "_temp"

	clip, err := u.DownloadClip(ctx, tmpReq)
	if err != nil {
		return "", err
	}
	defer os.Remove(clip)

	out, err := u.d.Media.OptimizeForVertical(ctx, clip, filepath.Join(req.Dir, name+"_vertical.mp4"))
	if err != nil {
		u.log.WithError(err).WithField("path", clip).Error("vertical export failed")
		return "", err
	}
	u.log.WithField("path", out).Info("vertical clip saved")
	return out, nil
}

// Verticalize letterboxes an existing local file.
func (u Usecase) Verticalize(ctx context.Context, in, out string) (string, error) {
	if _, err := os.Stat(in); err != nil {
		return "", fmt.Errorf("stat input: %w", err)
	}
	return u.d.Media.OptimizeForVertical(ctx, in, out)
}

// DownloadFull saves the whole video under dir and returns its path.
func (u Usecase) DownloadFull(ctx context.Context, url, dir string, maxHeight int) (string, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", err
	}
	path, err := u.d.Video.DownloadToDir(ctx, url, dir, maxHeight)
	if err != nil {
		u.log.WithError(err).WithField("url", url).Error("full download failed")
		return "", err
	}
	u.log.WithField("path", path).Info("video saved")
	return path, nil
}
