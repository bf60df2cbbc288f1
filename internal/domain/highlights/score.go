package highlights

import (
	"regexp"
	"strings"
)

var (
	reLaugh    = regexp.MustCompile(`(?i)\[(laughter|laughing|laughs|audience laughing)\]|\b(ha){2,}\b|\blol\b`)
	reApplause = regexp.MustCompile(`(?i)\[(applause|cheering|cheers)\]`)
	reSetup    = regexp.MustCompile(`(?i)\b(so my|my wife|my husband|my mom|my dad|you ever|you know what|have you ever|true story|the thing is)\b`)
	reMusic    = regexp.MustCompile(`(?i)\[(music|silence)\]`)
)

// Score returns a comedy cue score in range [0..10] for a block of transcript text.
func Score(text string) float64 {
	t := strings.TrimSpace(text)
	if t == "" {
		return 0
	}

	// reaction markers weigh most
	s := float64(len(reLaugh.FindAllStringIndex(t, -1))) * 2.0
	s += float64(len(reApplause.FindAllStringIndex(t, -1))) * 1.5
	s += float64(len(reSetup.FindAllStringIndex(t, -1))) * 0.6
	s += float64(strings.Count(t, "?")) * 0.4
	s += float64(strings.Count(t, "!")) * 0.3
	s -= float64(len(reMusic.FindAllStringIndex(t, -1))) * 1.0

	return clamp(s, 0, 10)
}

func clamp(x, a, b float64) float64 {
	if x < a {
		return a
	}
	if x > b {
		return b
	}
	return x
}
