package cli

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/mkotas/dualsub/internal/batch"
	"github.com/mkotas/dualsub/internal/config"
	"github.com/mkotas/dualsub/internal/dualsub"
	"github.com/mkotas/dualsub/internal/language"
	"github.com/mkotas/dualsub/internal/plex"
)

var batchCmd = &cobra.Command{
	Use:   "batch [directory]",
	Short: "Create dual subtitles for every video in a directory",
	Long: `Scan a directory tree for video files, pair their sidecar subtitle
files by language, and create a dual-language subtitle next to each video.

Videos that already have a .dual subtitle, or that lack a subtitle in
either language, are skipped. Jobs run through a bounded worker pool; one
failure never stops the rest.

Examples:
  dualsub batch /media/anime
  dualsub batch /media/anime --primary-lang ja --secondary-lang en
  dualsub batch /media/anime --workers 8 --format srt`,
	Args: cobra.ExactArgs(1),
	RunE: runBatch,
}

func init() {
	rootCmd.AddCommand(batchCmd)

	batchCmd.Flags().
		String("primary-lang", "", "Primary track language (default from environment)")
	batchCmd.Flags().
		String("secondary-lang", "", "Secondary track language (default from environment)")
	batchCmd.Flags().
		IntP("workers", "w", 0, "Concurrent jobs (default from environment)")
	batchCmd.Flags().
		StringP("format", "f", "ass", "Output format (ass, ssa, srt)")
	batchCmd.Flags().Bool("dry-run", false, "List the pairs without merging")
}

var videoExtensions = map[string]bool{
	".mkv": true, ".mp4": true, ".avi": true, ".m4v": true, ".mov": true,
}

// findVideos walks root and returns every video file found.
func findVideos(root string) ([]string, error) {
	var videos []string
	err := filepath.WalkDir(root, func(path string, d os.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if !d.IsDir() && videoExtensions[strings.ToLower(filepath.Ext(path))] {
			videos = append(videos, path)
		}
		return nil
	})
	return videos, err
}

// pickSubtitle returns the sidecar whose filename language tag normalizes
// to want, preferring exact tags over untagged files.
func pickSubtitle(sidecars []plex.SidecarSubtitle, want language.Language) string {
	for _, sidecar := range sidecars {
		if language.Normalize(sidecar.Language) == want {
			return sidecar.Path
		}
	}
	return ""
}

func runBatch(cmd *cobra.Command, args []string) error {
	ctx := context.Background()

	settings, err := config.Load(ctx)
	if err != nil {
		return err
	}

	primaryLang, _ := cmd.Flags().GetString("primary-lang")
	if primaryLang == "" {
		primaryLang = settings.PrimaryLanguage
	}
	secondaryLang, _ := cmd.Flags().GetString("secondary-lang")
	if secondaryLang == "" {
		secondaryLang = settings.SecondaryLanguage
	}

	workers, _ := cmd.Flags().GetInt("workers")
	if workers <= 0 {
		workers = settings.MaxWorkers
	}

	format, _ := cmd.Flags().GetString("format")
	dryRun, _ := cmd.Flags().GetBool("dry-run")

	cfg := dualsub.DefaultConfig()
	cfg.OutputFormat = dualsub.OutputFormat(strings.ToLower(format))
	cfg.PrimaryColor = settings.PrimaryColor
	cfg.SecondaryColor = settings.SecondaryColor
	cfg.PrimaryFontSize = settings.PrimaryFontSize
	cfg.SecondaryFontSize = settings.SecondaryFontSize
	cfg.FontName = settings.FontName
	cfg.PrimaryLanguage = primaryLang
	cfg.SecondaryLanguage = secondaryLang
	cfg.EnableSync = settings.SyncEnabled
	cfg.EnableLanguageDetection = settings.EnableLanguageDetection
	cfg.SyncOptions.Timeout = time.Duration(settings.SyncTimeoutSec) * time.Second
	cfg.SyncOptions.MaxOffsetSeconds = settings.MaxOffsetSeconds
	cfg.SyncOptions.BulkMode = true
	if err := cfg.Validate(); err != nil {
		return err
	}

	videos, err := findVideos(args[0])
	if err != nil {
		return fmt.Errorf("scan failed: %w", err)
	}

	wantPrimary := language.Normalize(primaryLang)
	wantSecondary := language.Normalize(secondaryLang)

	var requests []batch.Request
	skipped := 0
	for _, videoPath := range videos {
		sidecars, err := plex.SidecarSubtitles(videoPath)
		if err != nil {
			logger.Warnw("skipping video", "video", videoPath, "error", err)
			skipped++
			continue
		}

		base := strings.TrimSuffix(videoPath, filepath.Ext(videoPath))
		outputPath := base + ".dual." + format
		if _, err := os.Stat(outputPath); err == nil {
			skipped++
			continue
		}

		primaryPath := pickSubtitle(sidecars, wantPrimary)
		secondaryPath := pickSubtitle(sidecars, wantSecondary)
		if primaryPath == "" || secondaryPath == "" {
			skipped++
			continue
		}

		requests = append(requests, batch.Request{
			PrimaryPath:   primaryPath,
			SecondaryPath: secondaryPath,
			OutputPath:    outputPath,
			VideoPath:     videoPath,
			Config:        cfg,
		})
	}

	fmt.Printf("%d videos found, %d pairs to process, %d skipped\n",
		len(videos), len(requests), skipped)

	if dryRun {
		for _, req := range requests {
			fmt.Printf("  %s + %s -> %s\n",
				filepath.Base(req.PrimaryPath),
				filepath.Base(req.SecondaryPath),
				filepath.Base(req.OutputPath))
		}
		return nil
	}
	if len(requests) == 0 {
		return nil
	}

	pool := batch.NewPool(newCreator(settings), workers, logger)
	results := pool.Run(ctx, requests)

	succeeded, failed := batch.Summary(results)
	fmt.Printf("Done: %d succeeded, %d failed\n", succeeded, failed)
	for _, r := range results {
		if !r.Outcome.Success {
			fmt.Printf("  FAILED %s: %s\n", r.Request.OutputPath, r.Outcome.Err)
		}
	}

	if failed > 0 {
		return fmt.Errorf("%d of %d jobs failed", failed, len(results))
	}
	return nil
}
