package ytapi

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"google.golang.org/api/option"
	"google.golang.org/api/youtube/v3"

	"github.com/forPelevin/comedyclip/internal/types"
)

func TestParseISODuration(t *testing.T) {
	tests := map[string]int{
		"PT5M30S":  330,
		"PT1H2M3S": 3723,
		"PT45S":    45,
		"P1DT1S":   86401,
		"":         0,
		"5:30":     0,
	}
	for in, want := range tests {
		if got := ParseISODuration(in); got != want {
			t.Fatalf("ParseISODuration(%q) = %d, want %d", in, got, want)
		}
	}
}

func TestBestThumbnail(t *testing.T) {
	td := &youtube.ThumbnailDetails{
		Default: &youtube.Thumbnail{Url: "lo"},
		High:    &youtube.Thumbnail{Url: "hi"},
	}
	if got := bestThumbnail(td); got != "hi" {
		t.Fatalf("expected highest available thumbnail, got %q", got)
	}
	if got := bestThumbnail(nil); got != "" {
		t.Fatalf("expected empty for nil details, got %q", got)
	}
}

func TestToVideo_Defaults(t *testing.T) {
	v := toVideo(&youtube.Video{Id: "x1"})
	if v.Title != "Unknown" || v.Channel != "Unknown" || v.URL != "https://www.youtube.com/watch?v=x1" {
		t.Fatalf("unexpected defaults: %+v", v)
	}
}

func TestSearch_AgainstFakeAPI(t *testing.T) {
	var searchQuery string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		switch {
		case strings.HasSuffix(r.URL.Path, "/search"):
			searchQuery = r.URL.RawQuery
			_, _ = w.Write([]byte(`{"items":[{"id":{"kind":"youtube#video","videoId":"b"}},{"id":{"kind":"youtube#video","videoId":"a"}}]}`))
		case strings.HasSuffix(r.URL.Path, "/videos"):
			_, _ = w.Write([]byte(`{"items":[
				{"id":"a","snippet":{"title":"A","channelTitle":"Club"},"contentDetails":{"duration":"PT3M"},"statistics":{"viewCount":"42"}},
				{"id":"b","snippet":{"title":"B"},"contentDetails":{"duration":"PT2M"}}]}`))
		default:
			t.Errorf("unexpected path %q", r.URL.Path)
			w.WriteHeader(http.StatusNotFound)
		}
	}))
	defer srv.Close()

	s, err := New(context.Background(), "key", option.WithEndpoint(srv.URL+"/"), option.WithHTTPClient(srv.Client()))
	if err != nil {
		t.Fatalf("new: %v", err)
	}
	videos, err := s.Search(context.Background(), "crowd work", types.BucketShort, 5)
	if err != nil {
		t.Fatalf("search: %v", err)
	}
	if len(videos) != 2 || videos[0].ID != "b" || videos[1].ID != "a" {
		t.Fatalf("expected search order preserved, got %+v", videos)
	}
	if videos[1].Duration != 180 || videos[1].ViewCount != 42 || videos[1].Channel != "Club" {
		t.Fatalf("unexpected mapping: %+v", videos[1])
	}
	if !strings.Contains(searchQuery, "videoDuration=short") {
		t.Fatalf("expected duration filter in query %q", searchQuery)
	}
}

func TestNew_RequiresKey(t *testing.T) {
	if _, err := New(context.Background(), ""); err == nil {
		t.Fatalf("expected error without api key")
	}
}
