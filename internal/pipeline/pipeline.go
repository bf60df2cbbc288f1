package pipeline

import (
	"context"
	"os"
	"os/exec"
	"path/filepath"
	"strconv"
	"strings"
	"time"
	"unicode"

	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"

	"github.com/forPelevin/comedyclip/internal/ports"
	"github.com/forPelevin/comedyclip/internal/ports/adapters/ffmpeg"
	"github.com/forPelevin/comedyclip/internal/ports/adapters/openrouter"
	"github.com/forPelevin/comedyclip/internal/ports/adapters/webscrape"
	"github.com/forPelevin/comedyclip/internal/ports/adapters/ytapi"
	"github.com/forPelevin/comedyclip/internal/ports/adapters/ytdlp"
	"github.com/forPelevin/comedyclip/internal/usecase"
)

const (
	BackendScrape = "scrape"
	BackendAPI    = "api"
)

var (
	_ ports.Searcher    = (*webscrape.Searcher)(nil)
	_ ports.Searcher    = (*ytapi.Searcher)(nil)
	_ ports.VideoSource = (*ytdlp.Adapter)(nil)
	_ ports.MediaTool   = (*ffmpeg.Adapter)(nil)
	_ ports.Completer   = (*openrouter.Adapter)(nil)
)

type Config struct {
	OutDir  string
	TempDir string

	MinClipSec int
	MaxClipSec int
	ClipCount  int
	MaxResults int

	SearchBackend     string
	SearchRatePerMin  int
	YouTubeAPIKey     string
	VerifySegments    bool
	VerifyTolerance   time.Duration
	DownloadMaxHeight int

	YtDlpPath   string
	FFmpegPath  string
	FFprobePath string

	OpenRouterAPIKey       string
	OpenRouterModel        string
	OpenRouterBaseURL      string
	OpenRouterAllowedHosts []string
	OpenRouterMaxTokens    int
}

// Defaults returns the configuration used when nothing is set.
func Defaults() Config {
	return Config{
		OutDir:              "./output",
		TempDir:             os.TempDir(),
		MinClipSec:          15,
		MaxClipSec:          60,
		ClipCount:           3,
		MaxResults:          10,
		SearchBackend:       BackendScrape,
		SearchRatePerMin:    30,
		VerifySegments:      true,
		VerifyTolerance:     usecase.DefaultVerifyTolerance,
		DownloadMaxHeight:   ytdlp.DefaultMaxHeight,
		OpenRouterModel:     openrouter.DefaultModel,
		OpenRouterMaxTokens: openrouter.DefaultMaxTokens,
	}
}

// FromEnv overlays environment variables on Defaults. Malformed numbers and
// booleans are logged and ignored. lookupKey, when set, supplies the
// OpenRouter key if the environment has none.
func FromEnv(log logrus.FieldLogger, lookupKey func() string) Config {
	c := Defaults()
	c.TempDir = getEnv("COMEDYCLIP_TEMP_DIR", c.TempDir)
	c.YtDlpPath = getEnv("YTDLP_PATH", "yt-dlp")
	c.FFmpegPath = getEnv("FFMPEG_PATH", "ffmpeg")
	c.FFprobePath = getEnv("FFPROBE_PATH", "ffprobe")
	c.YouTubeAPIKey = getEnv("YOUTUBE_API_KEY", "")
	c.SearchRatePerMin = getEnvAsInt(log, "SEARCH_RATE_LIMIT", c.SearchRatePerMin)
	c.VerifySegments = getEnvAsBool(log, "COMEDYCLIP_VERIFY_SEGMENTS", c.VerifySegments)
	c.VerifyTolerance = getEnvAsDuration(log, "COMEDYCLIP_VERIFY_TOLERANCE", c.VerifyTolerance)

	c.OpenRouterAPIKey = strings.TrimSpace(getEnv("OPENROUTER_API_KEY", ""))
	if c.OpenRouterAPIKey == "" && lookupKey != nil {
		c.OpenRouterAPIKey = lookupKey()
	}
	c.OpenRouterModel = getEnv("OPENROUTER_MODEL", c.OpenRouterModel)
	c.OpenRouterBaseURL = getEnv("OPENROUTER_BASE_URL", "")
	c.OpenRouterAllowedHosts = getEnvAsStringSlice("OPENROUTER_ALLOWED_HOSTS", nil)
	c.OpenRouterMaxTokens = getEnvAsInt(log, "OPENROUTER_MAX_TOKENS", c.OpenRouterMaxTokens)
	return c
}

func (c Config) Validate() error {
	if strings.TrimSpace(c.OutDir) == "" {
		return errors.New("output directory is required")
	}
	if c.MinClipSec <= 0 {
		return errors.New("min clip must be > 0")
	}
	if c.MaxClipSec <= 0 {
		return errors.New("max clip must be > 0")
	}
	if c.MinClipSec > c.MaxClipSec {
		return errors.New("min clip must be <= max clip")
	}
	if c.ClipCount <= 0 {
		return errors.New("clip count must be > 0")
	}
	if c.MaxResults <= 0 {
		return errors.New("max results must be > 0")
	}
	if c.OpenRouterMaxTokens <= 0 {
		return errors.New("OPENROUTER_MAX_TOKENS must be > 0")
	}
	switch c.SearchBackend {
	case BackendScrape:
	case BackendAPI:
		if c.YouTubeAPIKey == "" {
			return errors.New("YOUTUBE_API_KEY is required for the api search backend")
		}
	default:
		return errors.Errorf("unknown search backend %q (use %s or %s)", c.SearchBackend, BackendScrape, BackendAPI)
	}
	return openrouter.ValidateBaseURL(c.OpenRouterBaseURL, c.OpenRouterAllowedHosts)
}

// Build wires adapters into a Usecase. The config must already be valid.
func Build(ctx context.Context, c Config, log logrus.FieldLogger) (usecase.Usecase, error) {
	search, err := newSearcher(ctx, c)
	if err != nil {
		return usecase.Usecase{}, err
	}
	deps := usecase.Deps{
		Search: search,
		Video:  ytdlp.New(c.YtDlpPath, c.TempDir),
		Media:  ffmpeg.New(c.FFmpegPath, c.FFprobePath),
		LLM:    openrouter.New(c.OpenRouterAPIKey, c.OpenRouterModel, c.OpenRouterBaseURL, c.OpenRouterMaxTokens),
		Log:    log,
	}
	return usecase.New(deps, usecase.Options{
		TempDir:         c.TempDir,
		VerifySegments:  c.VerifySegments,
		VerifyTolerance: c.VerifyTolerance,
	}), nil
}

func newSearcher(ctx context.Context, c Config) (ports.Searcher, error) {
	if c.SearchBackend == BackendAPI {
		return ytapi.New(ctx, c.YouTubeAPIKey)
	}
	return webscrape.New(webscrape.WithRateLimit(c.SearchRatePerMin)), nil
}

// MissingTools lists external binaries that cannot be found on PATH.
func MissingTools(c Config) []string {
	var missing []string
	for _, bin := range []string{c.YtDlpPath, c.FFmpegPath, c.FFprobePath} {
		if bin == "" {
			continue
		}
		if _, err := exec.LookPath(bin); err != nil {
			missing = append(missing, bin)
		}
	}
	return missing
}

// PlanFileName is the default plan path for a video under dir.
func PlanFileName(dir, title string) string {
	name := normalizePathSegment(title)
	if name == "" {
		name = "plan"
	}
	return filepath.Join(dir, name+".yaml")
}

func normalizePathSegment(s string) string {
	var b strings.Builder
	prevDash := false
	for _, r := range strings.ToLower(strings.TrimSpace(s)) {
		switch {
		case unicode.IsLetter(r), unicode.IsDigit(r):
			b.WriteRune(r)
			prevDash = false
		default:
			if !prevDash {
				b.WriteByte('-')
				prevDash = true
			}
		}
	}
	return strings.Trim(b.String(), "-")
}

func getEnv(key, defaultValue string) string {
	if value, ok := os.LookupEnv(key); ok && strings.TrimSpace(value) != "" {
		return value
	}
	return defaultValue
}

func getEnvAsInt(log logrus.FieldLogger, key string, defaultValue int) int {
	value, ok := os.LookupEnv(key)
	if !ok || value == "" {
		return defaultValue
	}
	n, err := strconv.Atoi(strings.TrimSpace(value))
	if err != nil {
		warnInvalid(log, key, value, defaultValue, "integer")
		return defaultValue
	}
	return n
}

func getEnvAsBool(log logrus.FieldLogger, key string, defaultValue bool) bool {
	value, ok := os.LookupEnv(key)
	if !ok || value == "" {
		return defaultValue
	}
	b, err := strconv.ParseBool(strings.TrimSpace(value))
	if err != nil {
		warnInvalid(log, key, value, defaultValue, "boolean")
		return defaultValue
	}
	return b
}

func getEnvAsDuration(log logrus.FieldLogger, key string, defaultValue time.Duration) time.Duration {
	value, ok := os.LookupEnv(key)
	if !ok || value == "" {
		return defaultValue
	}
	d, err := time.ParseDuration(strings.TrimSpace(value))
	if err != nil {
		warnInvalid(log, key, value, defaultValue, "duration")
		return defaultValue
	}
	return d
}

func getEnvAsStringSlice(key string, defaultValue []string) []string {
	value, ok := os.LookupEnv(key)
	if !ok || strings.TrimSpace(value) == "" {
		return defaultValue
	}
	return strings.Split(value, ",")
}

func warnInvalid(log logrus.FieldLogger, key, value string, defaultValue any, kind string) {
	if log == nil {
		return
	}
	log.WithFields(logrus.Fields{
		"key":          key,
		"value":        value,
		"defaultValue": defaultValue,
	}).Warnf("Invalid %s, using default", kind)
}
