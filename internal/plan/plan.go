// Package plan reads and writes clip plans: the reviewed suggestions for
// one video, saved as YAML so they can be edited and cut later.
package plan

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"

	"github.com/forPelevin/comedyclip/internal/domain/discovery"
	"github.com/forPelevin/comedyclip/internal/types"
)

type Plan struct {
	SourceVideo Source `yaml:"sourceVideo"`
	Clips       []Clip `yaml:"clips"`
}

type Source struct {
	URL      string `yaml:"url"`
	Title    string `yaml:"title"`
	Duration int    `yaml:"duration"`
}

type Clip struct {
	Name         string `yaml:"name,omitempty"`
	StartSeconds int    `yaml:"startSeconds"`
	EndSeconds   int    `yaml:"endSeconds"`
	StartTime    string `yaml:"startTime,omitempty"`
	EndTime      string `yaml:"endTime,omitempty"`
	Description  string `yaml:"description,omitempty"`
	Caption      string `yaml:"caption,omitempty"`
	Vertical     bool   `yaml:"vertical,omitempty"`
}

// FromSuggestions builds a plan, dropping error entries. nameFor may be nil.
func FromSuggestions(v types.Video, list []types.ClipSuggestion, nameFor func(i int, c types.ClipSuggestion) string) Plan {
	p := Plan{SourceVideo: Source{URL: v.URL, Title: v.Title, Duration: v.Duration}}
	for _, c := range list {
		if c.IsError() {
			continue
		}
		clip := Clip{
			StartSeconds: c.StartSeconds,
			EndSeconds:   c.EndSeconds,
			StartTime:    discovery.FormatTimestamp(c.StartSeconds),
			EndTime:      discovery.FormatTimestamp(c.EndSeconds),
			Description:  c.Description,
			Caption:      c.SuggestedCaption,
		}
		if nameFor != nil {
			clip.Name = nameFor(len(p.Clips)+1, c)
		}
		p.Clips = append(p.Clips, clip)
	}
	return p
}

func (p Plan) Validate() error {
	if p.SourceVideo.URL == "" {
		return fmt.Errorf("plan: sourceVideo.url is required")
	}
	for i, c := range p.Clips {
		s := types.ClipSuggestion{StartSeconds: c.StartSeconds, EndSeconds: c.EndSeconds}
		if !s.Valid(p.SourceVideo.Duration) {
			return fmt.Errorf("plan: clip %d has invalid range %d-%d", i+1, c.StartSeconds, c.EndSeconds)
		}
	}
	return nil
}

func Save(path string, p Plan) error {
	b, err := yaml.Marshal(p)
	if err != nil {
		return fmt.Errorf("failed to encode plan: %w", err)
	}
	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return err
		}
	}
	return os.WriteFile(path, b, 0o644)
}

func Load(path string) (Plan, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return Plan{}, fmt.Errorf("failed to read plan file: %w", err)
	}
	var p Plan
	if err := yaml.Unmarshal(b, &p); err != nil {
		return Plan{}, fmt.Errorf("failed to parse plan file: %w", err)
	}
	if err := p.Validate(); err != nil {
		return Plan{}, err
	}
	return p, nil
}
