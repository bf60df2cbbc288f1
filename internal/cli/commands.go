package cli

import (
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"github.com/forPelevin/comedyclip/internal/domain/discovery"
	"github.com/forPelevin/comedyclip/internal/domain/highlights"
	"github.com/forPelevin/comedyclip/internal/pipeline"
	"github.com/forPelevin/comedyclip/internal/plan"
	"github.com/forPelevin/comedyclip/internal/types"
	"github.com/forPelevin/comedyclip/internal/usecase"
)

func newSearchCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "search <query>",
		Short: "Search for comedy videos",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			bucketFlag, _ := cmd.Flags().GetString("duration")
			bucket, err := types.ParseBucket(bucketFlag)
			if err != nil {
				return err
			}
			maxN, _ := cmd.Flags().GetInt("max")
			backend, _ := cmd.Flags().GetString("backend")

			a, err := setup(cmd, false, func(c *pipeline.Config) {
				c.MaxResults = maxN
				if backend != "" {
					c.SearchBackend = backend
				}
			})
			if err != nil {
				return err
			}
			defer a.Close()

			videos := a.uc.Search(cmd.Context(), usecase.SearchInput{
				Query:  strings.Join(args, " "),
				Bucket: bucket,
				Max:    a.cfg.MaxResults,
			})
			printVideos(cmd.OutOrStdout(), videos)
			return nil
		},
	}
	cmd.Flags().String("duration", "", "Duration filter: short, medium, long")
	cmd.Flags().Int("max", 10, "Maximum number of results")
	cmd.Flags().String("backend", "", "Search backend: scrape or api")
	return cmd
}

func newDetailsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "details <url>",
		Short: "Show metadata for a video",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := setup(cmd, false, nil)
			if err != nil {
				return err
			}
			defer a.Close()

			v, err := a.uc.Details(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			w := cmd.OutOrStdout()
			fmt.Fprintf(w, "Title:    %s\n", v.Title)
			fmt.Fprintf(w, "Channel:  %s\n", v.Channel)
			fmt.Fprintf(w, "Duration: %s\n", discovery.FormatDuration(v.Duration))
			fmt.Fprintf(w, "Views:    %s\n", discovery.FormatViews(v.ViewCount))
			if v.UploadDate != "" {
				fmt.Fprintf(w, "Uploaded: %s\n", v.UploadDate)
			}
			if len(v.Tags) > 0 {
				fmt.Fprintf(w, "Tags:     %s\n", strings.Join(v.Tags, ", "))
			}
			fmt.Fprintf(w, "URL:      %s\n", v.URL)
			return nil
		},
	}
}

func newTranscriptCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "transcript <url>",
		Short: "Print the English transcript of a video",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			withHotspots, _ := cmd.Flags().GetBool("hotspots")
			a, err := setup(cmd, false, nil)
			if err != nil {
				return err
			}
			defer a.Close()

			tr, err := a.uc.Transcript(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			w := cmd.OutOrStdout()
			fmt.Fprintln(w, tr.Text)
			if !withHotspots {
				return nil
			}

			duration := 0
			if v, err := a.uc.Details(cmd.Context(), args[0]); err == nil {
				duration = v.Duration
			}
			spots := highlights.Hotspots(tr.Lines, duration, a.cfg.MinClipSec, a.cfg.MaxClipSec, a.cfg.ClipCount)
			fmt.Fprintln(w)
			if len(spots) == 0 {
				fmt.Fprintln(w, "No hotspots found.")
				return nil
			}
			fmt.Fprintln(w, "Hotspots:")
			for _, h := range spots {
				fmt.Fprintf(w, "  [%s - %s] score %.2f  %s\n",
					discovery.FormatTimestamp(h.StartSeconds), discovery.FormatTimestamp(h.EndSeconds), h.Score, shorten(h.Text, 80))
			}
			return nil
		},
	}
	cmd.Flags().Bool("hotspots", false, "Also list heuristic laugh hotspots")
	return cmd
}

func newSuggestCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "suggest <url>",
		Short: "Ask the language model for clip suggestions",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			minSec, _ := cmd.Flags().GetInt("min")
			maxSec, _ := cmd.Flags().GetInt("max")
			count, _ := cmd.Flags().GetInt("count")
			planPath, _ := cmd.Flags().GetString("out")

			a, err := setup(cmd, false, func(c *pipeline.Config) {
				c.MinClipSec, c.MaxClipSec, c.ClipCount = minSec, maxSec, count
			})
			if err != nil {
				return err
			}
			defer a.Close()

			if !a.uc.HasLLMKey() {
				return missingKeyError(a.uc.MissingKey())
			}

			ctx := cmd.Context()
			url := args[0]
			v, err := a.uc.Details(ctx, url)
			if err != nil {
				a.log.WithError(err).Warn("details unavailable, continuing with url only")
				v = types.Video{URL: url, Title: "Unknown Title"}
			}

			res := a.uc.Analyze(ctx, usecase.SuggestInput{
				Video:  v,
				MinSec: a.cfg.MinClipSec,
				MaxSec: a.cfg.MaxClipSec,
				Count:  a.cfg.ClipCount,
			})
			w := cmd.OutOrStdout()
			if res.TranscriptErr != nil {
				a.log.WithError(res.TranscriptErr).Warn("skipping analysis")
				fmt.Fprintf(w, "No transcript available, AI analysis unavailable.\nAdd a clip manually: comedyclip clip %s --start S --end E\n", url)
				return nil
			}
			list := res.Suggestions
			if len(list) == 1 && list[0].IsError() {
				return missingKeyError(list)
			}
			printSuggestions(w, list)

			if planPath == "" {
				return nil
			}
			p := plan.FromSuggestions(v, list, func(i int, c types.ClipSuggestion) string {
				return usecase.ClipFileName(v.Title, i, c.StartSeconds, c.EndSeconds)
			})
			if err := plan.Save(planPath, p); err != nil {
				return err
			}
			fmt.Fprintf(w, "Plan written to %s\n", planPath)
			return nil
		},
	}
	cmd.Flags().Int("min", 15, "Minimum clip length in seconds")
	cmd.Flags().Int("max", 60, "Maximum clip length in seconds")
	cmd.Flags().Int("count", 3, "Number of clips to suggest")
	cmd.Flags().String("out", "", "Write the suggestions as a YAML plan to this path")
	return cmd
}

func newClipCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "clip [url]",
		Short: "Download a clip, or every clip in a plan",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			planPath, _ := cmd.Flags().GetString("plan")
			vertical, _ := cmd.Flags().GetBool("vertical")
			if planPath == "" && len(args) == 0 {
				return errors.New("a video url or --plan is required")
			}
			if planPath != "" && len(args) > 0 {
				return errors.New("use either a video url or --plan, not both")
			}

			a, err := setup(cmd, false, nil)
			if err != nil {
				return err
			}
			defer a.Close()

			if planPath != "" {
				return runPlan(cmd, a, planPath, vertical)
			}

			start, _ := cmd.Flags().GetInt("start")
			end, _ := cmd.Flags().GetInt("end")
			name, _ := cmd.Flags().GetString("name")
			if start < 0 || end <= start {
				return fmt.Errorf("invalid clip range: --start %d --end %d", start, end)
			}
			url := args[0]
			if name == "" {
				if v, err := a.uc.Details(cmd.Context(), url); err == nil {
					name = usecase.ClipFileName(v.Title, 1, start, end)
				}
			}
			path, err := downloadOne(cmd, a, usecase.ClipRequest{URL: url, Start: start, End: end, Dir: a.cfg.OutDir, Name: name}, vertical)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Saved %s\n", path)
			return nil
		},
	}
	cmd.Flags().Int("start", 0, "Clip start in seconds")
	cmd.Flags().Int("end", 0, "Clip end in seconds")
	cmd.Flags().String("name", "", "Output file name without extension")
	cmd.Flags().Bool("vertical", false, "Export as 1080x1920 vertical video")
	cmd.Flags().String("plan", "", "Cut every clip listed in a YAML plan")
	return cmd
}

// runPlan cuts the plan's clips one after another and stops at the first failure.
func runPlan(cmd *cobra.Command, a *app, path string, vertical bool) error {
	p, err := plan.Load(path)
	if err != nil {
		return err
	}
	w := cmd.OutOrStdout()
	for i, c := range p.Clips {
		name := c.Name
		if name == "" {
			name = usecase.ClipFileName(p.SourceVideo.Title, i+1, c.StartSeconds, c.EndSeconds)
		}
		req := usecase.ClipRequest{URL: p.SourceVideo.URL, Start: c.StartSeconds, End: c.EndSeconds, Dir: a.cfg.OutDir, Name: name}
		out, err := downloadOne(cmd, a, req, vertical || c.Vertical)
		if err != nil {
			return fmt.Errorf("clip %d: %w", i+1, err)
		}
		fmt.Fprintf(w, "Saved %s\n", out)
	}
	return nil
}

func downloadOne(cmd *cobra.Command, a *app, req usecase.ClipRequest, vertical bool) (string, error) {
	var (
		path string
		err  error
	)
	if vertical {
		path, err = a.uc.ExportVertical(cmd.Context(), req)
	} else {
		path, err = a.uc.DownloadClip(cmd.Context(), req)
	}
	if err != nil {
		return "", err
	}
	a.sess.RecordDownload(path)
	return path, nil
}

func newVerticalCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "vertical <input.mp4>",
		Short: "Letterbox a local video to 1080x1920",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			out, _ := cmd.Flags().GetString("out")
			a, err := setup(cmd, false, nil)
			if err != nil {
				return err
			}
			defer a.Close()

			path, err := a.uc.Verticalize(cmd.Context(), args[0], out)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Saved %s\n", path)
			return nil
		},
	}
	cmd.Flags().String("out", "", "Output path (default <input>_vertical.mp4)")
	return cmd
}

func newDownloadCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "download <url>",
		Short: "Download a whole video",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			quality, _ := cmd.Flags().GetInt("quality")
			if quality <= 0 {
				return fmt.Errorf("quality must be > 0, got %d", quality)
			}
			a, err := setup(cmd, false, nil)
			if err != nil {
				return err
			}
			defer a.Close()

			path, err := a.uc.DownloadFull(cmd.Context(), args[0], a.cfg.OutDir, quality)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Saved %s\n", path)
			return nil
		},
	}
	cmd.Flags().Int("quality", 720, "Maximum video height")
	return cmd
}

func printVideos(w io.Writer, videos []types.Video) {
	if len(videos) == 0 {
		fmt.Fprintln(w, "No videos found.")
		return
	}
	for i, v := range videos {
		fmt.Fprintf(w, "%2d. %s\n", i+1, v.Title)
		fmt.Fprintf(w, "    %s | %s | %s\n", v.Channel, discovery.FormatDuration(v.Duration), discovery.FormatViews(v.ViewCount))
		fmt.Fprintf(w, "    %s\n", v.URL)
	}
}

func printSuggestions(w io.Writer, list []types.ClipSuggestion) {
	if len(list) == 0 {
		fmt.Fprintln(w, "No clip suggestions.")
		return
	}
	for i, c := range list {
		fmt.Fprintf(w, "%d. [%s - %s] %ds\n", i+1,
			discovery.FormatTimestamp(c.StartSeconds), discovery.FormatTimestamp(c.EndSeconds), c.Length())
		if c.Description != "" {
			fmt.Fprintf(w, "   %s\n", c.Description)
		}
		if c.SuggestedCaption != "" {
			fmt.Fprintf(w, "   Caption: %s\n", c.SuggestedCaption)
		}
	}
}

func shorten(s string, n int) string {
	r := []rune(strings.TrimSpace(s))
	if len(r) <= n {
		return string(r)
	}
	return string(r[:n-3]) + "..."
}

func missingKeyError(list []types.ClipSuggestion) error {
	return fmt.Errorf("%s: %s", list[0].Error, list[0].Hint)
}
