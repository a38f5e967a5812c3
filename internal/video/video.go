// Package video probes media files for the metadata the merge pipeline
// needs and extracts embedded subtitle streams. It shells out to
// ffprobe/ffmpeg via ffmpeg-go; no transcoding happens here.
package video

import (
	"encoding/json"
	"fmt"
	"os"
	"strconv"
	"time"

	ffmpeg "github.com/u2takey/ffmpeg-go"

	"github.com/mkotas/dualsub/internal/errs"
)

// media file information
type Info struct {
	Path      string
	Duration  time.Duration
	Width     int
	Height    int
	Codec     string
	HasAudio  bool
	Subtitles []SubtitleStream
}

// one embedded subtitle stream; Index is the absolute ffmpeg stream
// index, usable directly in a -map 0:N selector
type SubtitleStream struct {
	Index    int
	Codec    string
	Language string
	Title    string
	Forced   bool
}

// Prober abstracts duration probing so the merge engine can be tested
// without ffprobe installed.
type Prober interface {
	Probe(path string) (*Info, error)
}

// ffprobe-backed prober
type FFProbe struct{}

func (FFProbe) Probe(path string) (*Info, error) {
	out, err := ffmpeg.Probe(path)
	if err != nil {
		return nil, errs.Wrap(errs.ErrVideoProcessing, path, err)
	}
	info, err := parseProbeOutput(out)
	if err != nil {
		return nil, errs.Wrap(errs.ErrVideoProcessing, path, err)
	}
	info.Path = path
	return info, nil
}

// ExtractSubtitleStream demuxes one embedded subtitle stream to an
// external SRT file. streamIndex is the absolute stream index as
// reported by Probe.
func (FFProbe) ExtractSubtitleStream(videoPath string, streamIndex int, outputPath string) error {
	if _, err := os.Stat(videoPath); os.IsNotExist(err) {
		return errs.Wrap(errs.ErrVideoProcessing, videoPath, err)
	}

	kwargs := ffmpeg.KwArgs{
		"map": fmt.Sprintf("0:%d", streamIndex),
		"f":   "srt", // force SRT for downstream compatibility
	}

	err := ffmpeg.Input(videoPath).
		Output(outputPath, kwargs).
		OverWriteOutput().
		Run()
	if err != nil {
		return errs.Wrap(errs.ErrVideoProcessing, videoPath,
			fmt.Errorf("extracting stream %d: %w", streamIndex, err))
	}
	return nil
}

// JSON shape emitted by ffprobe -show_format -show_streams
type probeOutput struct {
	Format struct {
		Duration string `json:"duration"`
	} `json:"format"`
	Streams []struct {
		Index       int    `json:"index"`
		CodecType   string `json:"codec_type"`
		CodecName   string `json:"codec_name"`
		Width       int    `json:"width"`
		Height      int    `json:"height"`
		Duration    string `json:"duration"`
		Disposition struct {
			Forced int `json:"forced"`
		} `json:"disposition"`
		Tags struct {
			Language string `json:"language"`
			Title    string `json:"title"`
		} `json:"tags"`
	} `json:"streams"`
}

func parseProbeOutput(raw string) (*Info, error) {
	var probe probeOutput
	if err := json.Unmarshal([]byte(raw), &probe); err != nil {
		return nil, err
	}

	info := &Info{}

	duration := probe.Format.Duration
	for _, stream := range probe.Streams {
		switch stream.CodecType {
		case "video":
			info.Width = stream.Width
			info.Height = stream.Height
			info.Codec = stream.CodecName
			if duration == "" {
				duration = stream.Duration
			}
		case "audio":
			info.HasAudio = true
		case "subtitle":
			info.Subtitles = append(info.Subtitles, SubtitleStream{
				Index:    stream.Index,
				Codec:    stream.CodecName,
				Language: stream.Tags.Language,
				Title:    stream.Tags.Title,
				Forced:   stream.Disposition.Forced != 0,
			})
		}
	}

	if duration != "" {
		seconds, err := strconv.ParseFloat(duration, 64)
		if err != nil {
			return nil, err
		}
		info.Duration = time.Duration(seconds * float64(time.Second))
	}

	return info, nil
}
