package media

import "context"

// AudioStream describes one audio stream reported by ffprobe.
type AudioStream struct {
	Codec      string `json:"codec"`
	SampleRate string `json:"sample_rate"`
	Channels   int    `json:"channels"`
	BitRate    string `json:"bit_rate"`
}

type AudioStreams []AudioStream

// Transcoder converts downloaded media into the fixed audio format used for
// local transcription.
type Transcoder interface {
	ToAudio(ctx context.Context, input, output, bitrate string) error
	ReadAudioStreams(ctx context.Context, path string) (AudioStreams, error)
}
