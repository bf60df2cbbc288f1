package highlights

import (
	"encoding/json"
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/forPelevin/comedyclip/internal/types"
)

// ExtractJSONArray returns the JSON array embedded in a model reply, which may
// be wrapped in prose. ok is false when the reply holds no bracket pair.
func ExtractJSONArray(reply string) (string, bool) {
	t := strings.TrimSpace(reply)
	if strings.HasPrefix(t, "[") {
		return t, true
	}
	start := strings.Index(t, "[")
	end := strings.LastIndex(t, "]")
	if start < 0 || end <= start {
		return "", false
	}
	return t[start : end+1], true
}

// ParseSuggestions turns a model reply into clamped, validated suggestions.
// A reply with no array yields an empty list and no error.
func ParseSuggestions(reply string, videoDuration int) ([]types.ClipSuggestion, error) {
	raw, ok := ExtractJSONArray(reply)
	if !ok {
		return []types.ClipSuggestion{}, nil
	}

	var entries []json.RawMessage
	if err := json.Unmarshal([]byte(raw), &entries); err != nil {
		return []types.ClipSuggestion{}, fmt.Errorf("decode suggestions: %w", err)
	}

	out := make([]types.ClipSuggestion, 0, len(entries))
	for i, e := range entries {
		var obj map[string]any
		if err := json.Unmarshal(e, &obj); err != nil {
			continue
		}
		startV, okStart := obj["start_seconds"]
		endV, okEnd := obj["end_seconds"]
		if !okStart || !okEnd {
			continue
		}
		st, err := toSeconds(startV)
		if err != nil {
			return []types.ClipSuggestion{}, fmt.Errorf("suggestion %d start_seconds: %w", i, err)
		}
		en, err := toSeconds(endV)
		if err != nil {
			return []types.ClipSuggestion{}, fmt.Errorf("suggestion %d end_seconds: %w", i, err)
		}

		st = max(0, st)
		en = min(videoDuration, en)
		if en <= st {
			continue
		}
		out = append(out, types.ClipSuggestion{
			StartSeconds:     st,
			EndSeconds:       en,
			Description:      stringField(obj, "description"),
			SuggestedCaption: stringField(obj, "suggested_caption"),
		})
	}
	return out, nil
}

func toSeconds(v any) (int, error) {
	switch x := v.(type) {
	case float64:
		if math.IsNaN(x) || math.IsInf(x, 0) {
			return 0, fmt.Errorf("not a finite number")
		}
		return int(x), nil
	case string:
		s := strings.TrimSpace(x)
		if n, err := strconv.Atoi(s); err == nil {
			return n, nil
		}
		return 0, fmt.Errorf("invalid number %q", x)
	default:
		return 0, fmt.Errorf("unexpected type %T", v)
	}
}

func stringField(obj map[string]any, key string) string {
	s, _ := obj[key].(string)
	return strings.TrimSpace(s)
}
