package scene

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestWatcherReportsSceneWrites(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "scene.yaml")
	require.NoError(t, os.WriteFile(path, []byte("sprites: []\n"), 0o644))

	w, err := Watch(path)
	require.NoError(t, err)
	defer w.Close()

	// Other files in the directory are ignored.
	require.NoError(t, os.WriteFile(filepath.Join(dir, "notes.txt"), []byte("x"), 0o644))
	require.NoError(t, os.WriteFile(path, []byte("sprites: []\nplayer: \"\"\n"), 0o644))

	select {
	case got := <-w.Events:
		abs, _ := filepath.Abs(path)
		require.Equal(t, abs, got)
	case <-time.After(5 * time.Second):
		t.Fatal("no reload event")
	}

	require.NoError(t, w.Close())
	require.NoError(t, w.Close())
}
