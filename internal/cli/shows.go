package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/mkotas/dualsub/internal/config"
	"github.com/mkotas/dualsub/internal/plex"
)

var showsCmd = &cobra.Command{
	Use:   "shows",
	Short: "List TV shows from your Plex server",
	Long: `List the shows in a Plex TV library, or the episodes of one show
with their media paths and sidecar subtitles.

Requires PLEX_URL and PLEX_TOKEN in the environment. The library defaults
to the first TV section; override with PLEX_TV_LIBRARY or --library.

Examples:
  dualsub shows
  dualsub shows --library Anime
  dualsub shows --episodes "Frieren"`,
	Args: cobra.NoArgs,
	RunE: runShows,
}

func init() {
	rootCmd.AddCommand(showsCmd)

	showsCmd.Flags().String("library", "", "Plex TV library name")
	showsCmd.Flags().
		String("episodes", "", "List episodes of the named show instead")
}

func runShows(cmd *cobra.Command, args []string) error {
	ctx := context.Background()

	settings, err := config.Load(ctx)
	if err != nil {
		return err
	}
	if !settings.HasPlex() {
		return fmt.Errorf("PLEX_URL and PLEX_TOKEN must be set")
	}

	library, _ := cmd.Flags().GetString("library")
	if library == "" {
		library = settings.PlexLibrary
	}

	client := plex.NewClient(settings.PlexURL, settings.PlexToken)

	info, err := client.ServerInfo(ctx)
	if err != nil {
		return fmt.Errorf("cannot reach Plex server: %w", err)
	}
	logger.Infow("Connected to Plex", "server", info.Name, "version", info.Version)

	shows, err := client.Shows(ctx, library)
	if err != nil {
		return err
	}

	showTitle, _ := cmd.Flags().GetString("episodes")
	if showTitle == "" {
		fmt.Printf("%d shows:\n", len(shows))
		for _, show := range shows {
			if show.Year > 0 {
				fmt.Printf("  %s (%d)\n", show.Title, show.Year)
			} else {
				fmt.Printf("  %s\n", show.Title)
			}
		}
		return nil
	}

	var ratingKey string
	for _, show := range shows {
		if show.Title == showTitle {
			ratingKey = show.RatingKey
			break
		}
	}
	if ratingKey == "" {
		return fmt.Errorf("show %q not found in library", showTitle)
	}

	episodes, err := client.Episodes(ctx, ratingKey)
	if err != nil {
		return err
	}

	fmt.Printf("%d episodes of %s:\n", len(episodes), showTitle)
	for _, episode := range episodes {
		fmt.Printf("  S%02dE%02d %s\n", episode.Season, episode.Episode, episode.Title)
		if episode.FilePath == "" {
			continue
		}
		fmt.Printf("    %s\n", episode.FilePath)

		sidecars, err := plex.SidecarSubtitles(episode.FilePath)
		if err != nil {
			logger.Debugw("sidecar scan failed", "path", episode.FilePath, "error", err)
			continue
		}
		for _, sidecar := range sidecars {
			if sidecar.Language != "" {
				fmt.Printf("    subtitle [%s]: %s\n", sidecar.Language, sidecar.Path)
			} else {
				fmt.Printf("    subtitle: %s\n", sidecar.Path)
			}
		}
	}

	return nil
}
