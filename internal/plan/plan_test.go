package plan

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/forPelevin/comedyclip/internal/types"
)

func TestSaveLoad(t *testing.T) {
	v := types.Video{URL: "https://www.youtube.com/watch?v=x", Title: "Set", Duration: 300}
	p := FromSuggestions(v, []types.ClipSuggestion{
		{StartSeconds: 65, EndSeconds: 95, Description: "airport bit", SuggestedCaption: "POV"},
		{Error: "OPENROUTER_API_KEY not set"},
	}, func(i int, c types.ClipSuggestion) string { return "bit" })

	path := filepath.Join(t.TempDir(), "plans", "set.yaml")
	if err := Save(path, p); err != nil {
		t.Fatalf("save: %v", err)
	}
	raw, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read: %v", err)
	}
	for _, want := range []string{"sourceVideo:", "startSeconds: 65", "startTime:", "01:05", "caption: POV"} {
		if !strings.Contains(string(raw), want) {
			t.Fatalf("expected %q in:\n%s", want, raw)
		}
	}

	got, err := Load(path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if len(got.Clips) != 1 || got.Clips[0].Name != "bit" || got.Clips[0].EndSeconds != 95 {
		t.Fatalf("unexpected plan: %+v", got)
	}
}

func TestLoad_RejectsBadRanges(t *testing.T) {
	dir := t.TempDir()
	cases := map[string]string{
		"missing url": "clips:\n  - startSeconds: 1\n    endSeconds: 5\n",
		"reversed":    "sourceVideo:\n  url: u\n  duration: 100\nclips:\n  - startSeconds: 50\n    endSeconds: 10\n",
		"past end":    "sourceVideo:\n  url: u\n  duration: 100\nclips:\n  - startSeconds: 50\n    endSeconds: 110\n",
		"not yaml":    "sourceVideo: [unclosed\n",
	}
	for name, body := range cases {
		t.Run(name, func(t *testing.T) {
			path := filepath.Join(dir, strings.ReplaceAll(name, " ", "_")+".yaml")
			if err := os.WriteFile(path, []byte(body), 0o644); err != nil {
				t.Fatalf("write: %v", err)
			}
			if _, err := Load(path); err == nil {
				t.Fatalf("expected error")
			}
		})
	}
}
