package transcript

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dasolkim7/speaker-diarization/internal/captions"
	"github.com/dasolkim7/speaker-diarization/internal/media"
	"github.com/dasolkim7/speaker-diarization/internal/video"
)

type fakeTracks struct {
	tracks   captions.TrackList
	listErr  error
	text     string
	fetched  [][]string
}

func (f *fakeTracks) ListTracks(ctx context.Context, videoID string) (captions.TrackList, error) {
	return f.tracks, f.listErr
}

func (f *fakeTracks) FetchTranscript(ctx context.Context, videoID string, languages []string) (string, error) {
	f.fetched = append(f.fetched, languages)
	return f.text, nil
}

func TestParseSource(t *testing.T) {
	s, err := ParseSource("youtube")
	require.NoError(t, err)
	assert.Equal(t, SourceCaptions, s)

	s, err = ParseSource(" Whisper ")
	require.NoError(t, err)
	assert.Equal(t, SourceLocal, s)

	_, err = ParseSource("vimeo")
	assert.Error(t, err)
}

func TestCaptionStrategy_Acquire(t *testing.T) {
	client := &fakeTracks{
		tracks: captions.TrackList{
			{LanguageCode: "ja", Language: "Japanese"},
			{LanguageCode: "en", Language: "English"},
		},
		text: "Hello everyone and welcome back.\n Today we talk about the weather.",
	}
	s := NewCaptionStrategy(client, []string{"ko", "en"})

	res, err := s.Acquire(context.Background(), Request{Video: video.VideoRef{ID: "abcdefghijk"}})
	require.NoError(t, err)
	assert.Equal(t, SourceCaptions, res.Source)
	assert.Equal(t, "Hello everyone and welcome back.\n Today we talk about the weather.", res.Text)
	assert.Equal(t, [][]string{{"ko", "en"}}, client.fetched)
	assert.Len(t, res.Tracks, 2)
	assert.Equal(t, "- [language] Japanese, [language code] ja\n- [language] English, [language code] en", res.TrackSummary)
	require.NotNil(t, res.Track)
	assert.Equal(t, "en", res.Track.LanguageCode)
	assert.Equal(t, "en", res.Language)
}

func TestCaptionStrategy_NoPreferredLanguage(t *testing.T) {
	client := &fakeTracks{tracks: captions.TrackList{{LanguageCode: "ja"}, {LanguageCode: "fr"}}}
	s := NewCaptionStrategy(client, []string{"ko", "en"})

	res, err := s.Acquire(context.Background(), Request{Video: video.VideoRef{ID: "abcdefghijk"}})
	var noTrack *captions.NoTrackError
	require.True(t, errors.As(err, &noTrack))
	assert.Empty(t, client.fetched)
	assert.Len(t, res.Tracks, 2, "track list is kept for display")
	assert.Contains(t, res.TrackSummary, "[language code] fr")
	assert.Empty(t, res.Text)
}

func TestCaptionStrategy_ListFailure(t *testing.T) {
	client := &fakeTracks{listErr: captions.ErrNoCaptions}
	_, err := NewCaptionStrategy(client, []string{"ko"}).Acquire(context.Background(), Request{Video: video.VideoRef{ID: "abcdefghijk"}})
	assert.ErrorIs(t, err, captions.ErrNoCaptions)
}

type fakeDownloader struct {
	err error
}

func (f fakeDownloader) Download(ctx context.Context, videoURL, dir, id string) (string, error) {
	if f.err != nil {
		return "", f.err
	}
	path := filepath.Join(dir, id+".source.webm")
	return path, os.WriteFile(path, []byte("webm"), 0o644)
}

type fakeTranscoder struct {
	err error
}

func (f fakeTranscoder) ToAudio(ctx context.Context, input, output, bitrate string) error {
	if f.err != nil {
		return f.err
	}
	return os.WriteFile(output, []byte("mp3"), 0o644)
}

func (f fakeTranscoder) ReadAudioStreams(ctx context.Context, path string) (media.AudioStreams, error) {
	return media.AudioStreams{{Codec: "mp3"}}, nil
}

type fakeModel struct {
	text  string
	err   error
	heard string
}

func (f *fakeModel) Transcribe(ctx context.Context, audioPath string) (string, error) {
	f.heard = audioPath
	return f.text, f.err
}

func TestLocalStrategy_Acquire(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "audio")
	model := &fakeModel{text: "안녕하세요 여러분 오늘은 날씨에 대해 이야기하겠습니다"}
	s := NewLocalStrategy(LocalConfig{AudioDir: dir, Format: "mp3", Bitrate: "192k"}, fakeDownloader{}, fakeTranscoder{}, model)

	res, err := s.Acquire(context.Background(), Request{URL: "https://youtu.be/abcdefghijk", Video: video.VideoRef{ID: "abcdefghijk"}})
	require.NoError(t, err)

	want := filepath.Join(dir, "abcdefghijk.mp3")
	assert.Equal(t, want, res.AudioPath)
	assert.FileExists(t, want)
	assert.NoFileExists(t, filepath.Join(dir, "abcdefghijk.source.webm"))
	assert.Equal(t, want, model.heard)
	assert.Equal(t, SourceLocal, res.Source)
	assert.Equal(t, "ko", res.Language)
}

func TestLocalStrategy_Failures(t *testing.T) {
	tests := []struct {
		name       string
		downloader fakeDownloader
		transcoder fakeTranscoder
		model      *fakeModel
		wantErr    string
	}{
		{
			name:       "download",
			downloader: fakeDownloader{err: errors.New("HTTP Error 403")},
			model:      &fakeModel{},
			wantErr:    "download audio",
		},
		{
			name:       "transcode",
			transcoder: fakeTranscoder{err: errors.New("exit status 1")},
			model:      &fakeModel{},
			wantErr:    "extract audio",
		},
		{
			name:    "recognition",
			model:   &fakeModel{err: errors.New("out of memory")},
			wantErr: "speech recognition",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			dir := t.TempDir()
			s := NewLocalStrategy(LocalConfig{AudioDir: dir}, tt.downloader, tt.transcoder, tt.model)
			_, err := s.Acquire(context.Background(), Request{Video: video.VideoRef{ID: "abcdefghijk"}})
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
			assert.NoFileExists(t, filepath.Join(dir, "abcdefghijk.source.webm"))
		})
	}
}

func TestStore_SaveOverwrites(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "subtitles")
	store := NewStore(dir)

	path, err := store.Save("abcdefghijk", "first version that is rather long")
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, "abcdefghijk.txt"), path)

	_, err = store.Save("abcdefghijk", "second")
	require.NoError(t, err)

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "second", string(data))
}

func TestStore_RejectsBadIDs(t *testing.T) {
	store := NewStore(t.TempDir())
	for _, id := range []string{"", "../etc", "a/b", `a\b`, ".."} {
		_, err := store.Save(id, "x")
		assert.Error(t, err, id)
	}
}
