package usecase

import (
	"fmt"
	"path/filepath"
	"strings"
	"time"
	"unicode"
)

const safeTitleLen = 30

// DefaultName is used when the caller supplies no clip name.
func DefaultName(now time.Time) string {
	return "clip_" + now.Format("20060102_150405")
}

// SafeTitle keeps letters, digits, spaces, '-' and '_' from the first 30
// characters of title.
func SafeTitle(title string) string {
	r := []rune(title)
	if len(r) > safeTitleLen {
		r = r[:safeTitleLen]
	}
	var b strings.Builder
	for _, c := range r {
		if unicode.IsLetter(c) || unicode.IsDigit(c) || c == ' ' || c == '-' || c == '_' {
			b.WriteRune(c)
		}
	}
	return strings.TrimSpace(b.String())
}

// ClipFileName is the suggested name for the index-th (1-based) clip of a video.
func ClipFileName(title string, index, start, end int) string {
	safe := SafeTitle(title)
	if safe == "" {
		safe = "clip"
	}
	return fmt.Sprintf("%s_clip%d_%ds-%ds", safe, index, start, end)
}

// CleanName reduces a user-supplied name to a bare file stem.
func CleanName(name string) string {
	name = strings.TrimSpace(name)
	if name == "" {
		return ""
	}
	name = filepath.Base(filepath.Clean(name))
	name = strings.TrimSuffix(name, ".mp4")
	if name == "." || name == ".." || name == string(filepath.Separator) {
		return ""
	}
	return name
}
