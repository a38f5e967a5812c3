package cli

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/mkotas/dualsub/internal/config"
	"github.com/mkotas/dualsub/internal/dualsub"
	"github.com/mkotas/dualsub/internal/language"
	"github.com/mkotas/dualsub/internal/syncer"
	"github.com/mkotas/dualsub/internal/video"
)

var mergeCmd = &cobra.Command{
	Use:   "merge [primary_subtitle] [secondary_subtitle]",
	Short: "Merge two subtitle files into one dual-language file",
	Long: `Merge two subtitle tracks into a single dual-language subtitle file.

The secondary track is synchronized against the primary before merging,
falling back through the available sync methods. Styled output (ass, ssa)
positions the tracks independently; srt output prefixes each line with a
language tag instead.

Examples:
  dualsub merge episode.ja.srt episode.en.srt
  dualsub merge episode.ja.ass episode.en.srt -o episode.dual.ass
  dualsub merge a.srt b.srt --format srt --no-sync
  dualsub merge a.srt b.srt --video episode.mkv --sync-method ffsubsync`,
	Args: cobra.ExactArgs(2),
	RunE: runMerge,
}

func init() {
	rootCmd.AddCommand(mergeCmd)

	mergeCmd.Flags().
		StringP("format", "f", "ass", "Output format (ass, ssa, srt)")
	mergeCmd.Flags().
		String("video", "", "Video file for timing validation")
	mergeCmd.Flags().
		String("primary-position", "bottom", "Primary track position (top, bottom)")
	mergeCmd.Flags().
		String("secondary-position", "top", "Secondary track position (top, bottom)")
	mergeCmd.Flags().
		String("primary-color", "", "Primary track color as #RRGGBB")
	mergeCmd.Flags().
		String("secondary-color", "", "Secondary track color as #RRGGBB")
	mergeCmd.Flags().
		String("sync-method", "", "Sync method (ffsubsync, fast_align, auto_align, manual_offset)")
	mergeCmd.Flags().
		Int64("offset-ms", 0, "Manual offset in milliseconds (manual_offset only)")
	mergeCmd.Flags().Bool("no-sync", false, "Skip synchronization")
	mergeCmd.Flags().Bool("no-detect", false, "Skip language detection")
	mergeCmd.Flags().
		String("primary-lang", "", "Declared primary language hint")
	mergeCmd.Flags().
		String("secondary-lang", "", "Declared secondary language hint")
}

// configForMerge folds environment settings and flags into one merge config.
func configForMerge(cmd *cobra.Command, settings *config.Settings) (dualsub.Config, error) {
	cfg := dualsub.DefaultConfig()
	cfg.PrimaryColor = settings.PrimaryColor
	cfg.SecondaryColor = settings.SecondaryColor
	cfg.PrimaryFontSize = settings.PrimaryFontSize
	cfg.SecondaryFontSize = settings.SecondaryFontSize
	cfg.FontName = settings.FontName
	cfg.PrimaryLanguage = settings.PrimaryLanguage
	cfg.SecondaryLanguage = settings.SecondaryLanguage
	cfg.EnableSync = settings.SyncEnabled
	cfg.EnableLanguageDetection = settings.EnableLanguageDetection
	cfg.SyncOptions.Timeout = time.Duration(settings.SyncTimeoutSec) * time.Second
	cfg.SyncOptions.MaxOffsetSeconds = settings.MaxOffsetSeconds

	format, _ := cmd.Flags().GetString("format")
	cfg.OutputFormat = dualsub.OutputFormat(strings.ToLower(format))

	primaryPos, _ := cmd.Flags().GetString("primary-position")
	secondaryPos, _ := cmd.Flags().GetString("secondary-position")
	cfg.PrimaryPosition = dualsub.Position(primaryPos)
	cfg.SecondaryPosition = dualsub.Position(secondaryPos)

	if color, _ := cmd.Flags().GetString("primary-color"); color != "" {
		cfg.PrimaryColor = color
	}
	if color, _ := cmd.Flags().GetString("secondary-color"); color != "" {
		cfg.SecondaryColor = color
	}

	if noSync, _ := cmd.Flags().GetBool("no-sync"); noSync {
		cfg.EnableSync = false
	}
	if noDetect, _ := cmd.Flags().GetBool("no-detect"); noDetect {
		cfg.EnableLanguageDetection = false
	}

	if method, _ := cmd.Flags().GetString("sync-method"); method != "" {
		cfg.SyncMethod = syncer.Method(method)
	}
	if offset, _ := cmd.Flags().GetInt64("offset-ms"); offset != 0 {
		cfg.SyncMethod = syncer.MethodManualOffset
		cfg.SyncOptions.OffsetMS = offset
	}
	if lang, _ := cmd.Flags().GetString("primary-lang"); lang != "" {
		cfg.PrimaryLanguage = lang
	}
	if lang, _ := cmd.Flags().GetString("secondary-lang"); lang != "" {
		cfg.SecondaryLanguage = lang
	}

	return cfg, cfg.Validate()
}

func newCreator(settings *config.Settings) *dualsub.Creator {
	return dualsub.NewCreator(
		syncer.NewSynchronizer(logger),
		language.NewDetector(),
		video.FFProbe{},
		logger,
		settings.TempDir,
	)
}

func runMerge(cmd *cobra.Command, args []string) error {
	ctx := context.Background()

	settings, err := config.Load(ctx)
	if err != nil {
		return err
	}

	cfg, err := configForMerge(cmd, settings)
	if err != nil {
		return err
	}

	primaryPath, secondaryPath := args[0], args[1]
	videoPath, _ := cmd.Flags().GetString("video")

	outputPath, _ := cmd.Flags().GetString("output")
	if outputPath == "" {
		ext := "." + string(cfg.OutputFormat)
		base := strings.TrimSuffix(primaryPath, filepath.Ext(primaryPath))
		outputPath = base + ".dual" + ext
	}

	creator := newCreator(settings)
	result := creator.CreateDual(ctx, primaryPath, secondaryPath, outputPath, cfg, videoPath)

	for _, warning := range result.Warnings {
		logger.Warnw("merge warning", "warning", warning)
	}

	if !result.Success {
		return fmt.Errorf("merge failed: %s", result.Err)
	}

	absOutput, _ := filepath.Abs(result.OutputPath)
	fmt.Printf("Dual subtitle created: %s\n", absOutput)
	fmt.Printf(
		"  %d primary + %d secondary lines, %d total (%s)\n",
		result.PrimaryLines, result.SecondaryLines, result.TotalLines, result.Format,
	)
	if result.SyncPerformed {
		fmt.Printf("  synchronized with %s\n", result.SyncMethod)
	}
	for key, detection := range result.Languages {
		fmt.Printf(
			"  %s language: %s (%.0f%% via %s)\n",
			key, detection.Language, detection.Confidence*100, detection.Method,
		)
	}

	return nil
}
