package cli

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/mkotas/dualsub/internal/syncer"
)

var syncCmd = &cobra.Command{
	Use:   "sync [reference_subtitle] [target_subtitle]",
	Short: "Synchronize a subtitle file against a reference track",
	Long: `Synchronize the target subtitle's timing against a reference track.

Without --method the available methods are tried in preference order
(ffsubsync, fast_align, auto_align, manual_offset) until one succeeds.
With --method the named method runs alone and failure is final.

Examples:
  dualsub sync episode.ja.srt episode.en.srt
  dualsub sync a.srt b.srt --method ffsubsync --timeout 300
  dualsub sync a.srt b.srt --method manual_offset --offset-ms 1500
  dualsub sync a.srt b.srt --bulk`,
	Args: cobra.ExactArgs(2),
	RunE: runSync,
}

func init() {
	rootCmd.AddCommand(syncCmd)

	syncCmd.Flags().
		StringP("method", "m", "", "Sync method (ffsubsync, fast_align, auto_align, manual_offset)")
	syncCmd.Flags().
		Int64("offset-ms", 0, "Offset in milliseconds for manual_offset")
	syncCmd.Flags().
		Int("timeout", 0, "Timeout in seconds for external tools")
	syncCmd.Flags().
		Int("max-offset", 0, "Maximum offset in seconds ffsubsync may apply")
	syncCmd.Flags().
		Bool("bulk", false, "Bulk mode: tighter timeout, voice-activity detection")
	syncCmd.Flags().
		Bool("no-fallback", false, "Fail instead of trying other methods")
}

func runSync(cmd *cobra.Command, args []string) error {
	referencePath, targetPath := args[0], args[1]

	method, _ := cmd.Flags().GetString("method")
	offsetMS, _ := cmd.Flags().GetInt64("offset-ms")
	timeoutSec, _ := cmd.Flags().GetInt("timeout")
	maxOffset, _ := cmd.Flags().GetInt("max-offset")
	bulk, _ := cmd.Flags().GetBool("bulk")
	noFallback, _ := cmd.Flags().GetBool("no-fallback")

	outputPath, _ := cmd.Flags().GetString("output")
	if outputPath == "" {
		ext := filepath.Ext(targetPath)
		outputPath = strings.TrimSuffix(targetPath, ext) + ".synced" + ext
	}

	opts := syncer.Options{
		MaxOffsetSeconds: maxOffset,
		BulkMode:         bulk,
		OffsetMS:         offsetMS,
	}
	if timeoutSec > 0 {
		opts.Timeout = time.Duration(timeoutSec) * time.Second
	}

	synchronizer := syncer.NewSynchronizer(logger)

	ctx := context.Background()
	result, err := synchronizer.SyncSubtitles(
		ctx, referencePath, targetPath, outputPath,
		syncer.Method(method), !noFallback, opts,
	)
	if err != nil {
		return fmt.Errorf("sync failed: %w", err)
	}
	if !result.Success {
		return fmt.Errorf("sync failed: %s", result.Err)
	}

	absOutput, _ := filepath.Abs(result.OutputPath)
	fmt.Printf("Synchronized with %s: %s\n", result.Method, absOutput)
	fmt.Printf("  confidence: %.0f%%\n", result.Confidence*100)
	if result.OffsetMS != nil {
		fmt.Printf("  applied offset: %+dms\n", *result.OffsetMS)
	}

	return nil
}
