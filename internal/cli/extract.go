package cli

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/mkotas/dualsub/internal/video"
)

var extractCmd = &cobra.Command{
	Use:   "extract [video_file]",
	Short: "Extract an embedded subtitle stream to an external SRT file",
	Long: `Extract an embedded subtitle stream from a video file.

Without --stream the video's subtitle streams are listed so an index
can be chosen. With --stream the named stream is demuxed to an SRT
file next to the video, named like the sidecar files the merge and
batch commands pick up (video.en.srt, video.ja.forced.srt).

Examples:
  dualsub extract episode.mkv
  dualsub extract episode.mkv --stream 3 --lang ja
  dualsub extract episode.mkv --stream 4 --lang en --forced`,
	Args: cobra.ExactArgs(1),
	RunE: runExtract,
}

func init() {
	rootCmd.AddCommand(extractCmd)

	extractCmd.Flags().
		Int("stream", -1, "Absolute stream index to extract")
	extractCmd.Flags().
		String("lang", "en", "Language code for the output filename")
	extractCmd.Flags().
		Bool("forced", false, "Mark the output as a forced subtitle track")
}

func runExtract(cmd *cobra.Command, args []string) error {
	videoPath := args[0]

	streamIndex, _ := cmd.Flags().GetInt("stream")
	lang, _ := cmd.Flags().GetString("lang")
	forced, _ := cmd.Flags().GetBool("forced")

	probe := video.FFProbe{}
	info, err := probe.Probe(videoPath)
	if err != nil {
		return fmt.Errorf("probing video: %w", err)
	}

	if streamIndex < 0 {
		if len(info.Subtitles) == 0 {
			return fmt.Errorf("no embedded subtitle streams in %s", videoPath)
		}
		fmt.Printf("Subtitle streams in %s:\n", filepath.Base(videoPath))
		for _, s := range info.Subtitles {
			fmt.Printf("  %s\n", describeStream(s))
		}
		fmt.Println("\nRe-run with --stream <index> to extract one.")
		return nil
	}

	found := false
	for _, s := range info.Subtitles {
		if s.Index == streamIndex {
			found = true
			if s.Language != "" {
				lang = s.Language
			}
			break
		}
	}
	if !found {
		return fmt.Errorf("stream %d is not a subtitle stream in %s", streamIndex, videoPath)
	}

	outputPath, _ := cmd.Flags().GetString("output")
	if outputPath == "" {
		outputPath = sidecarName(videoPath, lang, forced)
	}

	if err := probe.ExtractSubtitleStream(videoPath, streamIndex, outputPath); err != nil {
		return fmt.Errorf("extraction failed: %w", err)
	}

	absOutput, _ := filepath.Abs(outputPath)
	fmt.Printf("Extracted stream %d: %s\n", streamIndex, absOutput)
	return nil
}

// sidecarName builds the external subtitle path the batch scanner
// recognizes: video.<lang>.srt, or video.<lang>.forced.srt.
func sidecarName(videoPath, lang string, forced bool) string {
	base := strings.TrimSuffix(videoPath, filepath.Ext(videoPath))
	suffix := ""
	if forced {
		suffix = ".forced"
	}
	return base + "." + lang + suffix + ".srt"
}

func describeStream(s video.SubtitleStream) string {
	desc := fmt.Sprintf("[%d] %s", s.Index, s.Codec)
	if s.Language != "" {
		desc += " " + s.Language
	}
	if s.Title != "" {
		desc += " (" + s.Title + ")"
	}
	if s.Forced {
		desc += " forced"
	}
	return desc
}
