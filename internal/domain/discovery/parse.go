package discovery

import (
	"math"
	"strconv"
	"strings"
)

// ParseDuration converts "M:SS" or "H:MM:SS" to seconds. Malformed input yields 0.
func ParseDuration(s string) int {
	parts := strings.Split(s, ":")
	nums := make([]int, 0, len(parts))
	for _, p := range parts {
		n, err := strconv.Atoi(strings.TrimSpace(p))
		if err != nil {
			return 0
		}
		nums = append(nums, n)
	}
	switch len(nums) {
	case 2:
		return nums[0]*60 + nums[1]
	case 3:
		return nums[0]*3600 + nums[1]*60 + nums[2]
	default:
		return 0
	}
}

// ParseViewCount converts text like "1.2M views" or "500K views" to a count.
// Anything it cannot interpret yields 0.
func ParseViewCount(s string) int64 {
	t := strings.ToLower(s)
	t = strings.ReplaceAll(t, "views", "")
	t = strings.ReplaceAll(t, ",", "")
	t = strings.TrimSpace(t)

	switch {
	case strings.Contains(t, "m"):
		return scaled(strings.ReplaceAll(t, "m", ""), 1_000_000)
	case strings.Contains(t, "k"):
		return scaled(strings.ReplaceAll(t, "k", ""), 1_000)
	case isDigits(t):
		n, err := strconv.ParseInt(t, 10, 64)
		if err != nil {
			return 0
		}
		return n
	default:
		return 0
	}
}

func scaled(num string, mul float64) int64 {
	f, err := strconv.ParseFloat(strings.TrimSpace(num), 64)
	if err != nil {
		return 0
	}
	v := f * mul
	// ParseFloat accepts "inf" and "nan"; int64 of those is undefined.
	if math.IsNaN(v) || v < 0 || v >= math.MaxInt64 {
		return 0
	}
	return int64(v)
}

func isDigits(s string) bool {
	if s == "" {
		return false
	}
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}
