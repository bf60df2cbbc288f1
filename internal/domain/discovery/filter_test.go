package discovery

import (
	"testing"

	"github.com/forPelevin/comedyclip/internal/types"
)

func testVideos() []types.Video {
	return []types.Video{
		{ID: "a", Duration: 100},
		{ID: "b", Duration: 500},
		{ID: "c", Duration: 1500},
	}
}

func TestFilterByDuration(t *testing.T) {
	tests := []struct {
		bucket types.DurationBucket
		want   []string
	}{
		{types.BucketShort, []string{"a"}},
		{types.BucketMedium, []string{"b"}},
		{types.BucketLong, []string{"c"}},
		{types.BucketAny, []string{"a", "b", "c"}},
	}
	for _, tt := range tests {
		t.Run(string(tt.bucket), func(t *testing.T) {
			got := FilterByDuration(testVideos(), tt.bucket)
			if len(got) != len(tt.want) {
				t.Fatalf("expected %d videos, got %d", len(tt.want), len(got))
			}
			for i, id := range tt.want {
				if got[i].ID != id {
					t.Fatalf("video %d: expected %q, got %q", i, id, got[i].ID)
				}
			}
		})
	}
}

func TestFilterByDuration_NoMatchReturnsInput(t *testing.T) {
	in := []types.Video{{ID: "a", Duration: 100}, {ID: "b", Duration: 200}}
	got := FilterByDuration(in, types.BucketLong)
	if len(got) != 2 {
		t.Fatalf("expected unfiltered list, got %d videos", len(got))
	}
}

func TestInBucket_Boundaries(t *testing.T) {
	if InBucket(240, types.BucketShort) || !InBucket(240, types.BucketMedium) {
		t.Fatalf("240s must be medium")
	}
	if !InBucket(1200, types.BucketMedium) || InBucket(1200, types.BucketLong) {
		t.Fatalf("1200s must be medium")
	}
	if InBucket(10, types.DurationBucket("tiny")) {
		t.Fatalf("unknown bucket must match nothing")
	}
}
