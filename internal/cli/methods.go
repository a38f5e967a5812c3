package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/mkotas/dualsub/internal/syncer"
)

var methodsCmd = &cobra.Command{
	Use:   "methods",
	Short: "List available synchronization methods",
	Long: `List the synchronization methods usable on this machine, in the
order the automatic fallback chain tries them. Methods backed by external
tools only appear when the tool is installed.`,
	Args: cobra.NoArgs,
	RunE: runMethods,
}

func init() {
	rootCmd.AddCommand(methodsCmd)
}

func runMethods(cmd *cobra.Command, args []string) error {
	synchronizer := syncer.NewSynchronizer(logger)

	available := synchronizer.AvailableMethods()
	if len(available) == 0 {
		return fmt.Errorf("no synchronization methods available")
	}

	descriptions := synchronizer.Descriptions()
	fmt.Println("Available sync methods (in fallback order):")
	for _, method := range available {
		fmt.Printf("  %-14s %s\n", method, descriptions[method])
	}

	return nil
}
