package desktop

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSaverWritesFile(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "downloads")
	s := Saver{Dir: dir}

	path, err := s.Save("resposta_vivi_2026-10-19.txt", []byte("PERGUNTA: oi"))
	require.NoError(t, err)

	assert.Equal(t, filepath.Join(dir, "resposta_vivi_2026-10-19.txt"), path)
	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "PERGUNTA: oi", string(data))
}

func TestSaverNeverOverwrites(t *testing.T) {
	dir := t.TempDir()
	s := Saver{Dir: dir}

	var paths []string
	for _, body := range []string{"one", "two", "three"} {
		path, err := s.Save("resposta_vivi_2026-10-19.txt", []byte(body))
		require.NoError(t, err)
		paths = append(paths, filepath.Base(path))
	}

	assert.Equal(t, []string{
		"resposta_vivi_2026-10-19.txt",
		"resposta_vivi_2026-10-19 (1).txt",
		"resposta_vivi_2026-10-19 (2).txt",
	}, paths)

	first, err := os.ReadFile(filepath.Join(dir, paths[0]))
	require.NoError(t, err)
	assert.Equal(t, "one", string(first))
}

func TestSaverRemovesPartialFileOnWriteError(t *testing.T) {
	// Hand back an already closed file so the write fails after creation.
	openFile = func(name string, flag int, perm os.FileMode) (*os.File, error) {
		f, err := os.OpenFile(name, flag, perm)
		if err != nil {
			return nil, err
		}
		f.Close()
		return f, nil
	}
	t.Cleanup(func() { openFile = os.OpenFile })

	dir := t.TempDir()
	_, err := Saver{Dir: dir}.Save("resposta_vivi_2026-10-19.txt", []byte("PERGUNTA: oi"))
	require.Error(t, err)

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	assert.Empty(t, entries)
}
