package tui

import (
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/list"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/forPelevin/comedyclip/internal/domain/discovery"
	"github.com/forPelevin/comedyclip/internal/types"
)

// videoItem keeps the result index so selection survives list filtering.
type videoItem struct {
	index int
	video types.Video
}

func (i videoItem) FilterValue() string { return i.video.Title + " " + i.video.Channel }

type clipItem struct {
	clip types.ClipSuggestion
	name string
}

func (i clipItem) FilterValue() string { return i.clip.Description }

type videoDelegate struct{}

func (d videoDelegate) Height() int                             { return 2 }
func (d videoDelegate) Spacing() int                            { return 0 }
func (d videoDelegate) Update(_ tea.Msg, _ *list.Model) tea.Cmd { return nil }
func (d videoDelegate) Render(w io.Writer, m list.Model, index int, listItem list.Item) {
	i, ok := listItem.(videoItem)
	if !ok {
		return
	}
	meta := MetaStyle.Render(fmt.Sprintf("%s | %s | %s",
		i.video.Channel, discovery.FormatDuration(i.video.Duration), discovery.FormatViews(i.video.ViewCount)))
	fmt.Fprintf(w, "%s\n%s", renderLine(m, index, i.video.Title), meta)
}

type clipDelegate struct{}

func (d clipDelegate) Height() int                             { return 2 }
func (d clipDelegate) Spacing() int                            { return 0 }
func (d clipDelegate) Update(_ tea.Msg, _ *list.Model) tea.Cmd { return nil }
func (d clipDelegate) Render(w io.Writer, m list.Model, index int, listItem list.Item) {
	i, ok := listItem.(clipItem)
	if !ok {
		return
	}
	c := i.clip
	line := fmt.Sprintf("%s - %s (%ds)", discovery.FormatTimestamp(c.StartSeconds), discovery.FormatTimestamp(c.EndSeconds), c.Length())
	if c.Manual {
		line += " [manual]"
	}
	desc := c.Description
	if c.SuggestedCaption != "" {
		desc += " | " + c.SuggestedCaption
	}
	meta := MetaStyle.Render(i.name + "  " + desc)
	fmt.Fprintf(w, "%s\n%s", renderLine(m, index, line), meta)
}

func renderLine(m list.Model, index int, s string) string {
	if index == m.Index() {
		return SelectedItemStyle.Render("> " + s)
	}
	return ItemStyle.Render(s)
}

func newList(items []list.Item, d list.ItemDelegate, width, height int, filtering bool, extra ...key.Binding) list.Model {
	l := list.New(items, d, width, height)
	l.SetShowTitle(false)
	l.SetShowStatusBar(false)
	l.SetFilteringEnabled(filtering)
	l.SetShowHelp(true)
	l.SetShowPagination(true)
	l.AdditionalShortHelpKeys = func() []key.Binding { return extra }
	// d downloads on the clip list
	l.KeyMap.NextPage.SetKeys("right", "l", "pgdown", "f")
	return l
}

func binding(k, help string) key.Binding {
	return key.NewBinding(key.WithKeys(k), key.WithHelp(k, help))
}

var (
	resultKeys = []key.Binding{
		binding("enter", "select"),
		binding("s", "new search"),
	}
	clipKeys = []key.Binding{
		binding("e", "edit range"),
		binding("n", "rename"),
		binding("d", "download"),
		binding("v", "vertical"),
		binding("m", "add manual"),
		binding("esc", "back"),
	}
)

func videoItems(videos []types.Video) []list.Item {
	items := make([]list.Item, len(videos))
	for i, v := range videos {
		items[i] = videoItem{index: i, video: v}
	}
	return items
}

func ellipsize(s string, n int) string {
	r := []rune(strings.TrimSpace(s))
	if len(r) <= n {
		return string(r)
	}
	return string(r[:n-3]) + "..."
}
