package discovery

import (
	"encoding/json"
	"fmt"
	"regexp"
	"strings"

	"github.com/forPelevin/comedyclip/internal/types"
)

const (
	watchURLPrefix    = "https://www.youtube.com/watch?v="
	maxDescriptionLen = 500
)

var (
	reInitialData    = regexp.MustCompile(`var ytInitialData = (\{.*?\});</script>`)
	reInitialDataAlt = regexp.MustCompile(`ytInitialData\s*=\s*(\{.*?\});\s*</script>`)
)

type initialData struct {
	Contents struct {
		TwoColumnSearchResultsRenderer struct {
			PrimaryContents struct {
				SectionListRenderer struct {
					Contents []section `json:"contents"`
				} `json:"sectionListRenderer"`
			} `json:"primaryContents"`
		} `json:"twoColumnSearchResultsRenderer"`
	} `json:"contents"`
}

type section struct {
	ItemSectionRenderer *struct {
		Contents []struct {
			VideoRenderer *videoRenderer `json:"videoRenderer"`
		} `json:"contents"`
	} `json:"itemSectionRenderer"`
}

type textRuns struct {
	Runs []struct {
		Text string `json:"text"`
	} `json:"runs"`
}

type simpleText struct {
	SimpleText string `json:"simpleText"`
}

type videoRenderer struct {
	VideoID       string      `json:"videoId"`
	Title         textRuns    `json:"title"`
	LengthText    *simpleText `json:"lengthText"`
	ViewCountText *simpleText `json:"viewCountText"`
	OwnerText     textRuns    `json:"ownerText"`
	Snippets      []struct {
		SnippetText textRuns `json:"snippetText"`
	} `json:"detailedMetadataSnippets"`
	Thumbnail struct {
		Thumbnails []struct {
			URL string `json:"url"`
		} `json:"thumbnails"`
	} `json:"thumbnail"`
}

// FindInitialData returns the embedded result blob of a search page.
func FindInitialData(html string) (string, bool) {
	if m := reInitialData.FindStringSubmatch(html); m != nil {
		return m[1], true
	}
	if m := reInitialDataAlt.FindStringSubmatch(html); m != nil {
		return m[1], true
	}
	return "", false
}

// ExtractVideos parses up to limit video records out of a search-results page.
// Structural drift degrades to fewer (or zero) records, never a panic.
func ExtractVideos(html string, limit int) ([]types.Video, error) {
	blob, ok := FindInitialData(html)
	if !ok {
		return []types.Video{}, types.ErrNoInitialData
	}

	var data initialData
	if err := json.Unmarshal([]byte(blob), &data); err != nil {
		return []types.Video{}, fmt.Errorf("decode ytInitialData: %w", err)
	}

	videos := []types.Video{}
	if limit <= 0 {
		return videos, nil
	}
	sections := data.Contents.TwoColumnSearchResultsRenderer.PrimaryContents.SectionListRenderer.Contents
	for _, s := range sections {
		if s.ItemSectionRenderer == nil {
			continue
		}
		for _, it := range s.ItemSectionRenderer.Contents {
			if it.VideoRenderer == nil || it.VideoRenderer.VideoID == "" {
				continue
			}
			videos = append(videos, toVideo(it.VideoRenderer))
			if len(videos) >= limit {
				return videos, nil
			}
		}
	}
	return videos, nil
}

func toVideo(r *videoRenderer) types.Video {
	durationText := "0:00"
	if r.LengthText != nil && r.LengthText.SimpleText != "" {
		durationText = r.LengthText.SimpleText
	}
	viewText := "0 views"
	if r.ViewCountText != nil && r.ViewCountText.SimpleText != "" {
		viewText = r.ViewCountText.SimpleText
	}
	return types.Video{
		ID:          r.VideoID,
		Title:       firstRun(r.Title, "Unknown"),
		URL:         watchURLPrefix + r.VideoID,
		Duration:    ParseDuration(durationText),
		Channel:     firstRun(r.OwnerText, "Unknown"),
		ViewCount:   ParseViewCount(viewText),
		Description: description(r),
		Thumbnail:   thumbnail(r),
	}
}

func firstRun(t textRuns, def string) string {
	if len(t.Runs) == 0 || t.Runs[0].Text == "" {
		return def
	}
	return t.Runs[0].Text
}

func description(r *videoRenderer) string {
	if len(r.Snippets) == 0 {
		return ""
	}
	var b strings.Builder
	for _, run := range r.Snippets[0].SnippetText.Runs {
		b.WriteString(run.Text)
	}
	return types.Truncate(b.String(), maxDescriptionLen)
}

func thumbnail(r *videoRenderer) string {
	th := r.Thumbnail.Thumbnails
	if len(th) == 0 {
		return ""
	}
	return th[len(th)-1].URL
}

// WatchURL returns the canonical watch page for a video id.
func WatchURL(id string) string { return watchURLPrefix + id }
