package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/mkotas/dualsub/internal/language"
)

var detectCmd = &cobra.Command{
	Use:   "detect [subtitle_file...]",
	Short: "Detect the language of subtitle files",
	Long: `Detect the language of one or more subtitle files from their text.

Script patterns (kana, hangul, han, cyrillic) are checked first, then
trigram analysis. A declared language passed with --language is weighed
against the detected one. Chinese is refined into Simplified (zh-CN) or
Traditional (zh-TW) by script indicators.

Examples:
  dualsub detect episode.srt
  dualsub detect -l ja *.srt`,
	Args: cobra.MinimumNArgs(1),
	RunE: runDetect,
}

func init() {
	rootCmd.AddCommand(detectCmd)
}

func runDetect(cmd *cobra.Command, args []string) error {
	declared, _ := cmd.Flags().GetString("language")
	detector := language.NewDetector()

	failed := 0
	for _, path := range args {
		result, err := detector.DetectFile(path, declared)
		if err != nil {
			fmt.Printf("%s: detection failed: %v\n", path, err)
			failed++
			continue
		}

		fmt.Printf(
			"%s: %s (%.0f%% via %s)",
			path, result.Language, result.Confidence*100, result.Method,
		)
		if result.Alternative != language.Unknown && result.Alternative != "" {
			fmt.Printf(", alternative %s", result.Alternative)
		}
		fmt.Println()
	}

	if failed == len(args) {
		return fmt.Errorf("all %d files failed detection", failed)
	}
	return nil
}
