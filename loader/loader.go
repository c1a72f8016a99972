// Package loader reads files into tab content and decorates tabs with a
// language and an icon.
package loader

import (
	"fmt"
	"os"
	"path/filepath"
)

// Content is a file read for a new tab.
type Content struct {
	Path        string
	Text        string
	DisplayName string
	Language    string // "" when the extension is not recognised
}

// ReadError reports a file that could not be read. It unwraps to the OS
// error, so errors.Is(err, fs.ErrNotExist) works.
type ReadError struct {
	Path string
	Err  error
}

func (e *ReadError) Error() string {
	return fmt.Sprintf("read %s: %v", e.Path, e.Err)
}

func (e *ReadError) Unwrap() error {
	return e.Err
}

// LoadFile reads path as text. Failures are returned as *ReadError.
func LoadFile(path string) (Content, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return Content{}, &ReadError{Path: path, Err: err}
	}
	info, err := os.Stat(abs)
	if err != nil {
		return Content{}, &ReadError{Path: abs, Err: err}
	}
	if info.IsDir() {
		return Content{}, &ReadError{Path: abs, Err: fmt.Errorf("is a directory")}
	}
	data, err := os.ReadFile(abs)
	if err != nil {
		return Content{}, &ReadError{Path: abs, Err: err}
	}

	name := filepath.Base(abs)
	lang, _ := DetectLanguage(name)
	return Content{
		Path:        abs,
		Text:        string(data),
		DisplayName: name,
		Language:    lang,
	}, nil
}
