// Package tui is the interactive session: search, pick a video, review clip
// suggestions and download them. One operation runs at a time.
package tui

import (
	"context"
	"errors"
	"fmt"
	"io"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/charmbracelet/bubbles/list"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/sirupsen/logrus"

	"github.com/forPelevin/comedyclip/internal/domain/discovery"
	"github.com/forPelevin/comedyclip/internal/domain/highlights"
	"github.com/forPelevin/comedyclip/internal/domain/subtitles"
	"github.com/forPelevin/comedyclip/internal/session"
	"github.com/forPelevin/comedyclip/internal/types"
	"github.com/forPelevin/comedyclip/internal/usecase"
)

const (
	maxStatuses    = 6
	recentShown    = 5
	resultsStep    = 5
	maxResultLimit = 50
)

// Service is the part of usecase.Usecase the session drives.
type Service interface {
	Search(ctx context.Context, in usecase.SearchInput) []types.Video
	Transcript(ctx context.Context, url string) (usecase.Transcript, error)
	Analyze(ctx context.Context, in usecase.SuggestInput) usecase.Analysis
	DownloadClip(ctx context.Context, req usecase.ClipRequest) (string, error)
	ExportVertical(ctx context.Context, req usecase.ClipRequest) (string, error)
}

type Options struct {
	Service Service
	Session *session.Session
	Log     logrus.FieldLogger
	OutDir  string

	MinClipSec int
	MaxClipSec int
	ClipCount  int
	MaxResults int
}

type screen int

const (
	screenSearch screen = iota
	screenResults
	screenVideo
	screenClips
)

type inputMode int

const (
	inputNone inputMode = iota
	inputRange
	inputRename
)

var buckets = []types.DurationBucket{types.BucketAny, types.BucketShort, types.BucketMedium, types.BucketLong}

type model struct {
	ctx  context.Context
	opts Options
	sess *session.Session
	log  logrus.FieldLogger

	screen     screen
	mode       inputMode
	search     textinput.Model
	edit       textinput.Model
	bucket     int
	maxResults int

	results list.Model
	clips   list.Model
	names   map[int]string

	spinner    spinner.Model
	loading    bool
	loadingMsg string
	statuses   []string
	width      int
	height     int
	quitting   bool
}

func New(ctx context.Context, o Options) tea.Model {
	return newModel(ctx, o)
}

func newModel(ctx context.Context, o Options) model {
	if o.Session == nil {
		o.Session = session.New()
	}
	log := o.Log
	if log == nil {
		l := logrus.New()
		l.SetOutput(io.Discard)
		log = l
	}
	if o.MaxResults <= 0 {
		o.MaxResults = 10
	}

	s := spinner.New()
	s.Spinner = spinner.Dot
	s.Style = SpinnerStyle

	in := textinput.New()
	in.Placeholder = "search stand-up comedy"
	in.CharLimit = 200
	in.Width = 50
	in.Focus()

	edit := textinput.New()
	edit.CharLimit = 100
	edit.Width = 40

	return model{
		ctx:        ctx,
		opts:       o,
		sess:       o.Session,
		log:        log,
		search:     in,
		edit:       edit,
		maxResults: o.MaxResults,
		results:    newList(nil, videoDelegate{}, 80, 16, true, resultKeys...),
		clips:      newList(nil, clipDelegate{}, 80, 12, false, clipKeys...),
		names:      map[int]string{},
		spinner:    s,
		width:      80,
		height:     24,
	}
}

// Run blocks until the user quits or ctx is cancelled.
func Run(ctx context.Context, o Options) error {
	p := tea.NewProgram(New(ctx, o), tea.WithAltScreen(), tea.WithContext(ctx))
	_, err := p.Run()
	if errors.Is(err, tea.ErrProgramKilled) && ctx.Err() != nil {
		return nil
	}
	return err
}

func (m model) Init() tea.Cmd {
	return textinput.Blink
}

func (m model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width, m.height = msg.Width, msg.Height
		m.results.SetSize(msg.Width, max(4, msg.Height-12))
		m.clips.SetSize(msg.Width, max(4, msg.Height-16))
		return m, nil

	case tea.KeyMsg:
		if msg.String() == "ctrl+c" {
			m.quitting = true
			return m, tea.Quit
		}
		if m.loading {
			return m, nil
		}
		if m.mode != inputNone {
			return m.updateInput(msg)
		}
		switch m.screen {
		case screenSearch:
			return m.updateSearch(msg)
		case screenResults:
			return m.updateResults(msg)
		case screenVideo:
			return m.updateVideo(msg)
		case screenClips:
			return m.updateClips(msg)
		}
		return m, nil

	case searchDoneMsg:
		m.loading = false
		m.sess.ReplaceResults(msg.videos)
		m.names = map[int]string{}
		if len(msg.videos) == 0 {
			m.status("No videos found.")
			return m, nil
		}
		m.results.ResetFilter()
		cmd := m.results.SetItems(videoItems(msg.videos))
		m.results.Select(0)
		m.status(fmt.Sprintf("Found %d videos.", len(msg.videos)))
		m.screen = screenResults
		m.search.Blur()
		return m, cmd

	case analyzeDoneMsg:
		m.loading = false
		if msg.transcriptErr != nil {
			m.status("No transcript available, AI analysis unavailable. Press m to add a manual clip.")
			return m, nil
		}
		m.sess.SetTranscript(msg.lines)
		if len(msg.suggestions) == 1 && msg.suggestions[0].IsError() {
			m.status(msg.suggestions[0].Error + ". " + msg.suggestions[0].Hint)
			return m, nil
		}
		if len(msg.suggestions) == 0 {
			m.status("No clip suggestions. Press m to add a manual clip.")
			return m, nil
		}
		m.sess.SetSuggestions(msg.suggestions)
		m.names = map[int]string{}
		m.status(fmt.Sprintf("%d clip suggestions ready.", len(msg.suggestions)))
		m.screen = screenClips
		return m, m.refreshClips(0)

	case hotspotsMsg:
		m.loading = false
		m.sess.SetTranscript(msg.lines)
		if len(msg.spots) == 0 {
			m.status("No laugh hotspots found in the transcript.")
			return m, nil
		}
		first := len(m.sess.Suggestions)
		for _, h := range msg.spots {
			if _, err := m.sess.AddSuggestion(highlights.AsSuggestion(h)); err != nil {
				m.status(err.Error())
				return m, nil
			}
		}
		m.status(fmt.Sprintf("Added %d hotspot hints as manual clips.", len(msg.spots)))
		m.screen = screenClips
		return m, m.refreshClips(first)

	case clipSavedMsg:
		m.loading = false
		m.sess.RecordDownload(msg.path)
		m.log.WithFields(logrus.Fields{"path": msg.path, "vertical": msg.vertical}).Info("clip downloaded")
		m.status("Saved " + msg.path)
		return m, nil

	case errorMsg:
		m.loading = false
		m.log.WithError(msg.err).Warn(msg.op + " failed")
		m.status(msg.err.Error())
		return m, nil

	case spinner.TickMsg:
		if m.loading {
			var cmd tea.Cmd
			m.spinner, cmd = m.spinner.Update(msg)
			return m, cmd
		}
		return m, nil
	}

	var cmd tea.Cmd
	switch {
	case m.mode != inputNone:
		m.edit, cmd = m.edit.Update(msg)
	case m.screen == screenSearch:
		m.search, cmd = m.search.Update(msg)
	}
	return m, cmd
}

func (m model) updateSearch(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "esc":
		if len(m.sess.Results) > 0 {
			m.screen = screenResults
			m.search.Blur()
			return m, nil
		}
		m.quitting = true
		return m, tea.Quit
	case "enter":
		q := strings.TrimSpace(m.search.Value())
		if q == "" {
			return m, nil
		}
		m.log.WithFields(logrus.Fields{"query": q, "bucket": string(buckets[m.bucket]), "max": m.maxResults}).Info("search")
		return m, m.startLoading("Searching YouTube...", searchCmd(m.ctx, m.opts.Service, usecase.SearchInput{
			Query:  q,
			Bucket: buckets[m.bucket],
			Max:    m.maxResults,
		}))
	case "tab":
		m.bucket = (m.bucket + 1) % len(buckets)
		return m, nil
	case "up":
		m.maxResults = min(maxResultLimit, m.maxResults+resultsStep)
		return m, nil
	case "down":
		m.maxResults = max(resultsStep, m.maxResults-resultsStep)
		return m, nil
	}
	var cmd tea.Cmd
	m.search, cmd = m.search.Update(msg)
	return m, cmd
}

func (m model) updateResults(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if m.results.FilterState() == list.Filtering {
		var cmd tea.Cmd
		m.results, cmd = m.results.Update(msg)
		return m, cmd
	}
	switch msg.String() {
	case "q":
		m.quitting = true
		return m, tea.Quit
	case "esc", "s":
		m.screen = screenSearch
		return m, m.search.Focus()
	case "enter":
		it, ok := m.results.SelectedItem().(videoItem)
		if !ok {
			return m, nil
		}
		if err := m.sess.Select(it.index); err != nil {
			m.status(err.Error())
			return m, nil
		}
		m.names = map[int]string{}
		m.screen = screenVideo
		return m, nil
	}
	var cmd tea.Cmd
	m.results, cmd = m.results.Update(msg)
	return m, cmd
}

func (m model) updateVideo(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	v := m.sess.Selected
	if v == nil {
		m.screen = screenResults
		return m, nil
	}
	switch msg.String() {
	case "q":
		m.quitting = true
		return m, tea.Quit
	case "esc":
		m.screen = screenResults
		return m, nil
	case "a":
		m.log.WithField("url", v.URL).Info("analyze")
		return m, m.startLoading("Analyzing transcript with AI...",
			analyzeCmd(m.ctx, m.opts.Service, *v, m.opts.MinClipSec, m.opts.MaxClipSec, m.opts.ClipCount))
	case "h":
		return m, m.startLoading("Looking for laugh hotspots...",
			hotspotsCmd(m.ctx, m.opts.Service, *v, m.sess.Transcript, m.opts.MinClipSec, m.opts.MaxClipSec, m.opts.ClipCount))
	case "m":
		i, err := m.sess.AddManual()
		if err != nil {
			m.status(err.Error())
			return m, nil
		}
		m.status("Manual clip added. Press e to set its range.")
		m.screen = screenClips
		return m, m.refreshClips(i)
	case "c":
		if len(m.sess.Suggestions) > 0 {
			m.screen = screenClips
		}
		return m, nil
	}
	return m, nil
}

func (m model) updateClips(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	i := m.clips.Index()
	has := i >= 0 && i < len(m.sess.Suggestions)
	switch msg.String() {
	case "q":
		m.quitting = true
		return m, tea.Quit
	case "esc":
		m.screen = screenVideo
		return m, nil
	case "m":
		idx, err := m.sess.AddManual()
		if err != nil {
			m.status(err.Error())
			return m, nil
		}
		return m, m.refreshClips(idx)
	case "e":
		if !has {
			return m, nil
		}
		c := m.sess.Suggestions[i]
		return m, m.openInput(inputRange, discovery.FormatTimestamp(c.StartSeconds)+"-"+discovery.FormatTimestamp(c.EndSeconds))
	case "n":
		if !has {
			return m, nil
		}
		return m, m.openInput(inputRename, m.clipName(i))
	case "d", "v":
		if !has {
			return m, nil
		}
		c := m.sess.Suggestions[i]
		vertical := msg.String() == "v"
		req := usecase.ClipRequest{
			URL:   m.sess.Selected.URL,
			Start: c.StartSeconds,
			End:   c.EndSeconds,
			Dir:   m.opts.OutDir,
			Name:  m.clipName(i),
		}
		label := "Downloading clip..."
		if vertical {
			label = "Exporting vertical clip..."
		}
		m.log.WithFields(logrus.Fields{"url": req.URL, "start": req.Start, "end": req.End, "vertical": vertical}).Info("download requested")
		return m, m.startLoading(label, downloadCmd(m.ctx, m.opts.Service, req, vertical))
	}
	var cmd tea.Cmd
	m.clips, cmd = m.clips.Update(msg)
	return m, cmd
}

func (m model) updateInput(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "esc":
		m.closeInput()
		return m, nil
	case "enter":
		i := m.clips.Index()
		value := strings.TrimSpace(m.edit.Value())
		mode := m.mode
		m.closeInput()
		switch mode {
		case inputRange:
			start, end, err := parseRange(value)
			if err == nil {
				err = m.sess.UpdateRange(i, start, end)
			}
			if err != nil {
				m.status(err.Error())
				return m, nil
			}
			c := m.sess.Suggestions[i]
			m.status(fmt.Sprintf("Clip %d: %s - %s", i+1, discovery.FormatTimestamp(c.StartSeconds), discovery.FormatTimestamp(c.EndSeconds)))
		case inputRename:
			if name := usecase.CleanName(value); name != "" {
				m.names[i] = name
			} else {
				delete(m.names, i)
			}
			m.status(fmt.Sprintf("Clip %d will be saved as %s.mp4", i+1, m.clipName(i)))
		}
		return m, m.refreshClips(i)
	}
	var cmd tea.Cmd
	m.edit, cmd = m.edit.Update(msg)
	return m, cmd
}

func (m *model) openInput(mode inputMode, value string) tea.Cmd {
	m.mode = mode
	m.edit.SetValue(value)
	m.edit.CursorEnd()
	return m.edit.Focus()
}

func (m *model) closeInput() {
	m.mode = inputNone
	m.edit.Blur()
	m.edit.SetValue("")
}

func (m *model) startLoading(label string, cmd tea.Cmd) tea.Cmd {
	m.loading = true
	m.loadingMsg = label
	return tea.Batch(m.spinner.Tick, cmd)
}

func (m *model) status(s string) {
	m.statuses = append(m.statuses, s)
	if len(m.statuses) > maxStatuses {
		m.statuses = m.statuses[len(m.statuses)-maxStatuses:]
	}
}

func (m *model) refreshClips(selected int) tea.Cmd {
	items := make([]list.Item, len(m.sess.Suggestions))
	for i, c := range m.sess.Suggestions {
		items[i] = clipItem{clip: c, name: m.clipName(i)}
	}
	cmd := m.clips.SetItems(items)
	if selected >= 0 && selected < len(items) {
		m.clips.Select(selected)
	}
	return cmd
}

func (m model) clipName(i int) string {
	if name, ok := m.names[i]; ok {
		return name
	}
	title := ""
	if m.sess.Selected != nil {
		title = m.sess.Selected.Title
	}
	c := m.sess.Suggestions[i]
	return usecase.ClipFileName(title, i+1, c.StartSeconds, c.EndSeconds)
}

// parseRange reads "START-END" where each side is seconds, MM:SS or HH:MM:SS.
func parseRange(s string) (int, int, error) {
	a, b, ok := strings.Cut(s, "-")
	if !ok {
		return 0, 0, fmt.Errorf("range %q must look like 01:05-01:40", s)
	}
	start, err := parseTime(a)
	if err != nil {
		return 0, 0, err
	}
	end, err := parseTime(b)
	if err != nil {
		return 0, 0, err
	}
	return start, end, nil
}

func parseTime(s string) (int, error) {
	s = strings.TrimSpace(s)
	if n, err := strconv.Atoi(s); err == nil && n >= 0 {
		return n, nil
	}
	if n, ok := subtitles.TimestampSeconds(s); ok {
		return n, nil
	}
	return 0, fmt.Errorf("invalid time %q", s)
}

func (m model) View() string {
	if m.quitting {
		return styleOutput(m.statuses)
	}
	var b strings.Builder
	b.WriteString(TitleStyle.Render("comedyclip") + "\n\n")

	switch m.screen {
	case screenSearch:
		b.WriteString(m.search.View() + "\n")
		b.WriteString(MetaStyle.Render(fmt.Sprintf("duration: %s | max results: %d", bucketLabel(buckets[m.bucket]), m.maxResults)) + "\n")
		b.WriteString(HelpStyle.Render("enter search • tab duration • ↑/↓ max results • esc quit") + "\n")
	case screenResults:
		b.WriteString(m.results.View() + "\n")
	case screenVideo:
		b.WriteString(m.videoView())
	case screenClips:
		b.WriteString(m.clipsView())
	}

	b.WriteString("\n" + styleOutput(m.statuses))
	if m.loading {
		b.WriteString(m.spinner.View() + m.loadingMsg + "\n")
	}
	b.WriteString(m.footer())
	return b.String()
}

func (m model) videoView() string {
	v := m.sess.Selected
	if v == nil {
		return ""
	}
	var b strings.Builder
	b.WriteString(TextStyle.Render(v.Title) + "\n")
	b.WriteString(MetaStyle.Render(fmt.Sprintf("%s | %s | %s", v.Channel, discovery.FormatDuration(v.Duration), discovery.FormatViews(v.ViewCount))) + "\n")
	b.WriteString(MetaStyle.Render(v.URL) + "\n")
	if v.Description != "" {
		b.WriteString(MetaStyle.Render(ellipsize(v.Description, 200)) + "\n")
	}
	b.WriteString("\n")
	help := "a analyze with AI • m manual clip • h laugh hotspots"
	if len(m.sess.Suggestions) > 0 {
		help += " • c clips"
	}
	b.WriteString(HelpStyle.Render(help+" • esc back") + "\n")
	return b.String()
}

func (m model) clipsView() string {
	var b strings.Builder
	if m.sess.Selected != nil {
		b.WriteString(TextStyle.Render(m.sess.Selected.Title) + "\n\n")
	}
	if len(m.sess.Suggestions) == 0 {
		b.WriteString(MetaStyle.Render("No clips yet.") + "\n")
	} else {
		b.WriteString(m.clips.View() + "\n")
	}
	switch m.mode {
	case inputRange:
		b.WriteString("Range: " + m.edit.View() + "\n")
	case inputRename:
		b.WriteString("Name: " + m.edit.View() + "\n")
	}
	return b.String()
}

func (m model) footer() string {
	recent := m.sess.RecentDownloads(recentShown)
	if len(recent) == 0 {
		return ""
	}
	var b strings.Builder
	b.WriteString("\n" + TitleStyle.Render("Recent downloads") + "\n")
	for i, p := range recent {
		bullet := "├"
		if i == len(recent)-1 {
			bullet = "└"
		}
		b.WriteString(BulletStyle.Render(bullet) + SuccessStyle.Render(filepath.Base(p)) + "\n")
	}
	return b.String()
}

func bucketLabel(b types.DurationBucket) string {
	switch b {
	case types.BucketShort:
		return "short (<4 min)"
	case types.BucketMedium:
		return "medium (4-20 min)"
	case types.BucketLong:
		return "long (>20 min)"
	}
	return "any"
}
