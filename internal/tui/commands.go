package tui

import (
	"context"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/forPelevin/comedyclip/internal/domain/highlights"
	"github.com/forPelevin/comedyclip/internal/types"
	"github.com/forPelevin/comedyclip/internal/usecase"
)

type searchDoneMsg struct {
	videos []types.Video
}

type analyzeDoneMsg struct {
	lines         []types.TranscriptLine
	suggestions   []types.ClipSuggestion
	transcriptErr error
}

type hotspotsMsg struct {
	lines []types.TranscriptLine
	spots []types.Hotspot
}

type clipSavedMsg struct {
	path     string
	vertical bool
}

type errorMsg struct {
	op  string
	err error
}

func searchCmd(ctx context.Context, svc Service, in usecase.SearchInput) tea.Cmd {
	return func() tea.Msg {
		return searchDoneMsg{videos: svc.Search(ctx, in)}
	}
}

// analyzeCmd asks for suggestions. Without a transcript no request is made.
func analyzeCmd(ctx context.Context, svc Service, v types.Video, minSec, maxSec, count int) tea.Cmd {
	return func() tea.Msg {
		a := svc.Analyze(ctx, usecase.SuggestInput{
			Video:  v,
			MinSec: minSec,
			MaxSec: maxSec,
			Count:  count,
		})
		return analyzeDoneMsg{lines: a.Transcript.Lines, suggestions: a.Suggestions, transcriptErr: a.TranscriptErr}
	}
}

func hotspotsCmd(ctx context.Context, svc Service, v types.Video, lines []types.TranscriptLine, minSec, maxSec, count int) tea.Cmd {
	return func() tea.Msg {
		if len(lines) == 0 {
			tr, err := svc.Transcript(ctx, v.URL)
			if err != nil {
				return errorMsg{op: "transcript", err: err}
			}
			lines = tr.Lines
		}
		return hotspotsMsg{lines: lines, spots: highlights.Hotspots(lines, v.Duration, minSec, maxSec, count)}
	}
}

func downloadCmd(ctx context.Context, svc Service, req usecase.ClipRequest, vertical bool) tea.Cmd {
	return func() tea.Msg {
		var (
			path string
			err  error
		)
		if vertical {
			path, err = svc.ExportVertical(ctx, req)
		} else {
			path, err = svc.DownloadClip(ctx, req)
		}
		if err != nil {
			return errorMsg{op: "download", err: err}
		}
		return clipSavedMsg{path: path, vertical: vertical}
	}
}
