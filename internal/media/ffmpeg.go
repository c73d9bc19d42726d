package media

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/dasolkim7/speaker-diarization/internal/runner"
	"github.com/dasolkim7/speaker-diarization/pkg/log"
)

type ffmpeg struct {
	ffmpegCmd  string
	ffprobeCmd string
	runner     runner.Runner
}

// NewFfmpeg builds a Transcoder around the ffmpeg binary. ffprobe is
// expected next to it.
func NewFfmpeg(ffmpegPath string, r runner.Runner) ffmpeg {
	if ffmpegPath == "" {
		ffmpegPath = "ffmpeg"
	}
	return ffmpeg{
		ffmpegCmd:  ffmpegPath,
		ffprobeCmd: siblingProbe(ffmpegPath),
		runner:     r,
	}
}

// ToAudio transcodes the audio track of input into output. The container
// and codec follow the output extension; bitrate is passed as -b:a.
func (ff ffmpeg) ToAudio(ctx context.Context, input, output, bitrate string) error {
	if err := os.MkdirAll(filepath.Dir(output), 0o755); err != nil {
		return fmt.Errorf("create audio directory: %w", err)
	}
	if _, err := ff.runner.Run(ctx, ff.ffmpegCmd, ff.transcodeArgs(input, output, bitrate)...); err != nil {
		return fmt.Errorf("transcode %s: %w", filepath.Base(input), err)
	}

	streams, err := ff.ReadAudioStreams(ctx, output)
	if err != nil {
		return err
	}
	if len(streams) == 0 {
		return fmt.Errorf("transcode %s: output has no audio stream", filepath.Base(input))
	}
	return nil
}

// ReadAudioStreams lists the audio streams ffprobe finds in path.
func (ff ffmpeg) ReadAudioStreams(ctx context.Context, path string) (AudioStreams, error) {
	res, err := ff.runner.Run(ctx, ff.ffprobeCmd, ff.readProbeArgs(path)...)
	if err != nil {
		log.Error("Failed to run ffprobe: %v", err)
		return nil, fmt.Errorf("probe %s: %w", filepath.Base(path), err)
	}

	var probeResult struct {
		Streams []struct {
			CodecType  string `json:"codec_type"`
			CodecName  string `json:"codec_name"`
			SampleRate string `json:"sample_rate"`
			Channels   int    `json:"channels"`
			BitRate    string `json:"bit_rate"`
		} `json:"streams"`
	}

	if err := json.Unmarshal([]byte(res.Stdout), &probeResult); err != nil {
		log.Error("Failed to parse ffprobe output: %v", err)
		return nil, fmt.Errorf("parse ffprobe output: %w", err)
	}

	streams := make(AudioStreams, 0)
	for _, stream := range probeResult.Streams {
		if stream.CodecType != "audio" {
			continue
		}
		streams = append(streams, AudioStream{
			Codec:      stream.CodecName,
			SampleRate: stream.SampleRate,
			Channels:   stream.Channels,
			BitRate:    stream.BitRate,
		})
	}
	return streams, nil
}

func (ffmpeg) readProbeArgs(path string) []string {
	return []string{
		"-v", "quiet",
		"-print_format", "json",
		"-show_streams",
		"-select_streams", "a",
		path,
	}
}

func (ffmpeg) transcodeArgs(input, output, bitrate string) []string {
	args := []string{
		"-hide_banner",
		"-nostdin",
		"-y",
		"-i", input,
		"-vn", // drop any video stream
	}
	if codec := codecForExt(filepath.Ext(output)); codec != "" {
		args = append(args, "-codec:a", codec)
	}
	if bitrate != "" {
		args = append(args, "-b:a", bitrate)
	}
	return append(args, output)
}

func codecForExt(ext string) string {
	switch strings.ToLower(strings.TrimPrefix(ext, ".")) {
	case "mp3":
		return "libmp3lame"
	case "m4a", "aac":
		return "aac"
	case "opus":
		return "libopus"
	case "wav":
		return "pcm_s16le"
	default:
		return ""
	}
}

// siblingProbe derives the ffprobe path from a configured ffmpeg path.
func siblingProbe(ffmpegPath string) string {
	dir, base := filepath.Split(ffmpegPath)
	if !strings.Contains(base, "ffmpeg") {
		return "ffprobe"
	}
	return dir + strings.Replace(base, "ffmpeg", "ffprobe", 1)
}
