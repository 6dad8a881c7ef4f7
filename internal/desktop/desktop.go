// Package desktop adapts the system clipboard and the file system to the
// chat controller's action ports.
package desktop

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/atotto/clipboard"
)

// openFile is swapped in tests to simulate write failures.
var openFile = os.OpenFile

// maxDuplicates caps the " (n)" suffixes tried before giving up.
const maxDuplicates = 1000

// Clipboard writes to the system clipboard.
type Clipboard struct{}

// WriteAll copies text to the clipboard. It fails when no clipboard
// utility is available (e.g. headless Linux without xclip/xsel).
func (Clipboard) WriteAll(text string) error {
	if clipboard.Unsupported {
		return errors.New("clipboard unsupported on this system")
	}
	if err := clipboard.WriteAll(text); err != nil {
		return fmt.Errorf("write clipboard: %w", err)
	}
	return nil
}

// Saver writes downloads into a directory.
type Saver struct {
	Dir string
}

// Save writes data under name inside s.Dir, creating the directory when
// needed. Existing files are never replaced: "a.txt" becomes "a (1).txt",
// "a (2).txt" and so on. Returns the path written.
func (s Saver) Save(name string, data []byte) (string, error) {
	dir := s.Dir
	if dir == "" {
		dir = "."
	}
	if err := os.MkdirAll(dir, 0755); err != nil {
		return "", fmt.Errorf("create download directory: %w", err)
	}

	ext := filepath.Ext(name)
	stem := strings.TrimSuffix(name, ext)
	candidate := name
	for i := 1; i <= maxDuplicates; i++ {
		path := filepath.Join(dir, candidate)
		f, err := openFile(path, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0644)
		if errors.Is(err, fs.ErrExist) {
			candidate = fmt.Sprintf("%s (%d)%s", stem, i, ext)
			continue
		}
		if err != nil {
			return "", fmt.Errorf("create %s: %w", path, err)
		}
		if _, err := f.Write(data); err != nil {
			f.Close()
			os.Remove(path)
			return "", fmt.Errorf("write %s: %w", path, err)
		}
		if err := f.Close(); err != nil {
			os.Remove(path)
			return "", fmt.Errorf("close %s: %w", path, err)
		}
		return path, nil
	}
	return "", fmt.Errorf("too many copies of %s in %s", name, dir)
}
