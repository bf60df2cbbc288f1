package ytapi

import (
	"context"
	"fmt"
	"regexp"
	"strconv"

	"google.golang.org/api/option"
	"google.golang.org/api/youtube/v3"

	"github.com/forPelevin/comedyclip/internal/domain/discovery"
	"github.com/forPelevin/comedyclip/internal/types"
)

// Searcher queries the YouTube Data API v3. It needs only an API key.
type Searcher struct {
	svc *youtube.Service
}

func New(ctx context.Context, apiKey string, opts ...option.ClientOption) (*Searcher, error) {
	if apiKey == "" {
		return nil, fmt.Errorf("YOUTUBE_API_KEY is required for the api search backend")
	}
	opts = append([]option.ClientOption{option.WithAPIKey(apiKey)}, opts...)
	svc, err := youtube.NewService(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to create YouTube service: %w", err)
	}
	return &Searcher{svc: svc}, nil
}

func (s *Searcher) Search(ctx context.Context, query string, bucket types.DurationBucket, max int) ([]types.Video, error) {
	if max <= 0 {
		return []types.Video{}, nil
	}
	call := s.svc.Search.List([]string{"id"}).
		Q(query).
		Type("video").
		MaxResults(int64(min(max, 50))).
		Context(ctx)
	if d := apiDuration(bucket); d != "" {
		call = call.VideoDuration(d)
	}
	searchResp, err := call.Do()
	if err != nil {
		return []types.Video{}, fmt.Errorf("youtube search: %w", err)
	}

	ids := make([]string, 0, len(searchResp.Items))
	for _, it := range searchResp.Items {
		if it.Id != nil && it.Id.VideoId != "" {
			ids = append(ids, it.Id.VideoId)
		}
	}
	if len(ids) == 0 {
		return []types.Video{}, nil
	}

	videosResp, err := s.svc.Videos.List([]string{"snippet", "contentDetails", "statistics"}).
		Id(ids...).
		Context(ctx).
		Do()
	if err != nil {
		return []types.Video{}, fmt.Errorf("youtube videos: %w", err)
	}

	byID := make(map[string]*youtube.Video, len(videosResp.Items))
	for _, v := range videosResp.Items {
		byID[v.Id] = v
	}
	out := make([]types.Video, 0, len(ids))
	for _, id := range ids {
		if v, ok := byID[id]; ok {
			out = append(out, toVideo(v))
		}
	}
	return out, nil
}

func apiDuration(b types.DurationBucket) string {
	switch b {
	case types.BucketShort, types.BucketMedium, types.BucketLong:
		return string(b)
	default:
		return ""
	}
}

func toVideo(v *youtube.Video) types.Video {
	out := types.Video{
		ID:      v.Id,
		Title:   "Unknown",
		URL:     discovery.WatchURL(v.Id),
		Channel: "Unknown",
	}
	if sn := v.Snippet; sn != nil {
		if sn.Title != "" {
			out.Title = sn.Title
		}
		if sn.ChannelTitle != "" {
			out.Channel = sn.ChannelTitle
		}
		out.Description = types.Truncate(sn.Description, 500)
		out.Thumbnail = bestThumbnail(sn.Thumbnails)
		out.UploadDate = sn.PublishedAt
		out.Tags = sn.Tags
	}
	if cd := v.ContentDetails; cd != nil {
		out.Duration = ParseISODuration(cd.Duration)
	}
	if st := v.Statistics; st != nil {
		out.ViewCount = int64(st.ViewCount)
	}
	return out
}

func bestThumbnail(t *youtube.ThumbnailDetails) string {
	if t == nil {
		return ""
	}
	for _, th := range []*youtube.Thumbnail{t.Maxres, t.High, t.Medium, t.Default} {
		if th != nil && th.Url != "" {
			return th.Url
		}
	}
	return ""
}

var isoDurationRE = regexp.MustCompile(`^P(?:(\d+)D)?(?:T(?:(\d+)H)?(?:(\d+)M)?(?:(\d+)S)?)?$`)

// ParseISODuration converts "PT1H2M3S" style values to seconds; 0 when malformed.
func ParseISODuration(s string) int {
	m := isoDurationRE.FindStringSubmatch(s)
	if m == nil {
		return 0
	}
	mul := []int{86400, 3600, 60, 1}
	total := 0
	for i, part := range m[1:] {
		if part == "" {
			continue
		}
		n, err := strconv.Atoi(part)
		if err != nil {
			return 0
		}
		total += n * mul[i]
	}
	return total
}
