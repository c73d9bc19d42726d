package file

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestOutputPath(t *testing.T) {
	assert.Equal(t, "/tmp/whisper-1/abc.json", OutputPath("/tmp/whisper-1", "audio/abc.mp3", ".json"))
	assert.Equal(t, "/tmp/w/abc.source.json", OutputPath("/tmp/w", "/a/abc.source.webm", "json"))
	assert.Equal(t, "/tmp/w/abc.json", OutputPath("/tmp/w", "abc", ".json"))
	assert.Equal(t, "/tmp/w/.hidden.json", OutputPath("/tmp/w", ".hidden", ".json"))
}

func TestFindOlderThan(t *testing.T) {
	dir := t.TempDir()
	old := filepath.Join(dir, "old.mp3")
	fresh := filepath.Join(dir, "fresh.mp3")
	require.NoError(t, os.WriteFile(old, []byte("a"), 0o644))
	require.NoError(t, os.WriteFile(fresh, []byte("b"), 0o644))

	now := time.Now()
	require.NoError(t, os.Chtimes(old, now.Add(-48*time.Hour), now.Add(-48*time.Hour)))

	files, err := FindOlderThan(dir, now.Add(-24*time.Hour))
	require.NoError(t, err)
	assert.Equal(t, []string{old}, files)
}

func TestFindOlderThan_MissingDir(t *testing.T) {
	files, err := FindOlderThan(filepath.Join(t.TempDir(), "nope"), time.Now())
	require.NoError(t, err)
	assert.Empty(t, files)
}
