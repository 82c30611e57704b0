package watcher

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func awaitReload(t *testing.T, w *Watcher, timeout time.Duration) string {
	t.Helper()
	select {
	case path := <-w.Reloads():
		return path
	case <-time.After(timeout):
		t.Fatal("no reload delivered")
		return ""
	}
}

func TestReloadAfterWrite(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "pattern.png")
	require.NoError(t, os.WriteFile(path, []byte("v1"), 0o644))

	w, err := New(path, 50*time.Millisecond)
	require.NoError(t, err)
	defer w.Close()

	require.NoError(t, os.WriteFile(path, []byte("v2"), 0o644))

	got := awaitReload(t, w, 5*time.Second)
	abs, _ := filepath.Abs(path)
	require.Equal(t, abs, got)
}

func TestReloadAfterRename(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "pattern.png")
	require.NoError(t, os.WriteFile(path, []byte("v1"), 0o644))

	w, err := New(path, 50*time.Millisecond)
	require.NoError(t, err)
	defer w.Close()

	// Replace via rename, the way editors save.
	tmp := filepath.Join(dir, ".pattern.png.tmp")
	require.NoError(t, os.WriteFile(tmp, []byte("v2"), 0o644))
	require.NoError(t, os.Rename(tmp, path))

	awaitReload(t, w, 5*time.Second)
}

func TestRapidWritesCoalesce(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "pattern.png")
	require.NoError(t, os.WriteFile(path, []byte("v1"), 0o644))

	w, err := New(path, 100*time.Millisecond)
	require.NoError(t, err)
	defer w.Close()

	for i := 0; i < 5; i++ {
		require.NoError(t, os.WriteFile(path, []byte{byte(i)}, 0o644))
		time.Sleep(10 * time.Millisecond)
	}

	awaitReload(t, w, 5*time.Second)

	// The burst settled once; no second reload should follow.
	select {
	case <-w.Reloads():
		t.Fatal("coalesced burst delivered a second reload")
	case <-time.After(300 * time.Millisecond):
	}
}

func TestIgnoresSiblingFiles(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "pattern.png")
	require.NoError(t, os.WriteFile(path, []byte("v1"), 0o644))

	w, err := New(path, 50*time.Millisecond)
	require.NoError(t, err)
	defer w.Close()

	require.NoError(t, os.WriteFile(filepath.Join(dir, "other.png"), []byte("x"), 0o644))

	select {
	case <-w.Reloads():
		t.Fatal("sibling file write must not trigger a reload")
	case <-time.After(300 * time.Millisecond):
	}
}

func TestCloseStopsDelivery(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "pattern.png")
	require.NoError(t, os.WriteFile(path, []byte("v1"), 0o644))

	w, err := New(path, 50*time.Millisecond)
	require.NoError(t, err)
	require.NoError(t, w.Close())
}

func TestMissingDirectory(t *testing.T) {
	_, err := New(filepath.Join(t.TempDir(), "absent", "pattern.png"), 50*time.Millisecond)
	require.Error(t, err)
}
