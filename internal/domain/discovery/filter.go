package discovery

import "github.com/forPelevin/comedyclip/internal/types"

const (
	shortMaxSec  = 240
	mediumMaxSec = 1200
)

// InBucket reports whether a duration in seconds falls in the named bucket.
// The empty bucket matches everything; unknown names match nothing.
func InBucket(durationSec int, b types.DurationBucket) bool {
	switch b {
	case types.BucketAny:
		return true
	case types.BucketShort:
		return durationSec < shortMaxSec
	case types.BucketMedium:
		return durationSec >= shortMaxSec && durationSec <= mediumMaxSec
	case types.BucketLong:
		return durationSec > mediumMaxSec
	default:
		return false
	}
}

// FilterByDuration keeps videos in the bucket. When nothing matches it returns
// the input unchanged so the caller still has something to show.
func FilterByDuration(videos []types.Video, b types.DurationBucket) []types.Video {
	out := make([]types.Video, 0, len(videos))
	for _, v := range videos {
		if InBucket(v.Duration, b) {
			out = append(out, v)
		}
	}
	if len(out) == 0 {
		return videos
	}
	return out
}

// BucketParam returns the opaque search-page query value for a bucket.
func BucketParam(b types.DurationBucket) string {
	switch b {
	case types.BucketShort:
		return "EgIYAQ%3D%3D"
	case types.BucketMedium:
		return "EgIYAw%3D%3D"
	case types.BucketLong:
		return "EgIYAg%3D%3D"
	default:
		return ""
	}
}
