package cli

import (
	"github.com/mkotas/dualsub/internal/logging"
	"github.com/spf13/cobra"
)

var (
	verbose bool
	logger  *logging.Logger
)

var rootCmd = &cobra.Command{
	Use:   "dualsub",
	Short: "Dual-language subtitle creator for your media library",
	Long: `Dualsub merges two subtitle tracks into a single dual-language
subtitle file, synchronizing their timing along the way.

It supports SRT, VTT and ASS/SSA inputs, styled ASS/SSA or plain SRT
output, automatic language detection, and batch processing of whole
libraries, including direct Plex Media Server traversal.`,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		logger = logging.NewLogger(verbose)
	},
}

func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().
		BoolVarP(&verbose, "verbose", "v", false, "Enable verbose output")
	rootCmd.PersistentFlags().StringP("output", "o", "", "Output file path")
	rootCmd.PersistentFlags().
		StringP("language", "l", "", "Language code (e.g., en, ja, zh-CN)")
}
