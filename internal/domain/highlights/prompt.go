package highlights

import (
	"fmt"
	"strings"

	"github.com/forPelevin/comedyclip/internal/types"
)

// MaxTranscriptChars caps how much transcript text is sent to the model.
const MaxTranscriptChars = 8000

type PromptInput struct {
	Title       string
	DurationSec int
	Transcript  string
	MinClipSec  int
	MaxClipSec  int
	Count       int
}

func BuildPrompt(in PromptInput) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Analyze this comedy video transcript and identify the %d best moments that would make engaging short clips for TikTok/social media.\n\n", in.Count)
	fmt.Fprintf(&b, "VIDEO TITLE: %s\n", in.Title)
	fmt.Fprintf(&b, "TOTAL DURATION: %d seconds\n", in.DurationSec)
	fmt.Fprintf(&b, "TARGET CLIP LENGTH: %d-%d seconds\n\n", in.MinClipSec, in.MaxClipSec)
	b.WriteString("TRANSCRIPT:\n")
	b.WriteString(types.Truncate(in.Transcript, MaxTranscriptChars))
	b.WriteString("\n\n")
	b.WriteString(`For each suggested clip, provide:
1. Start timestamp (in seconds)
2. End timestamp (in seconds)
3. A brief description of why this moment is clip-worthy
4. Suggested caption/hook for TikTok

Return your response as a JSON array with this structure:
[
  {
    "start_seconds": 45,
    "end_seconds": 72,
    "description": "Comedian delivers perfect punchline about...",
    "suggested_caption": "When your mom says..."
  }
]

Focus on:
- Complete jokes/bits (don't cut mid-punchline)
- Moments with strong reactions or punchlines
- Self-contained segments that make sense without full context
- Engaging openings that hook viewers

Return ONLY the JSON array, no other text.`)
	return b.String()
}
