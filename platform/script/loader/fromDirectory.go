package loader

import (
	"fmt"
	"io"
	"net/url"
	"os"
	"path/filepath"
	"strings"
)

// FromDirectory refers to a directory of scripts rather than a single script.
// It carries no content; engines use it to start an empty environment whose
// working directory is the directory, so later snippets can include
// siblings.
type FromDirectory struct {
	path      string
	sourceURL *url.URL
}

// NewFromDirectory creates a directory source. The path must be absolute and
// must name an existing directory.
func NewFromDirectory(path string) (*FromDirectory, error) {
	path = strings.TrimPrefix(path, "file://")
	if !filepath.IsAbs(path) {
		return nil, fmt.Errorf("%w: relative paths are not supported: %s", ErrScriptNotAvailable, path)
	}
	path = filepath.Clean(path)

	info, err := os.Stat(path)
	if err != nil {
		return nil, fmt.Errorf("%w: no directory at %s: %w", ErrScriptNotAvailable, path, err)
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("%w: not a directory: %s", ErrScriptNotAvailable, path)
	}

	return &FromDirectory{
		path:      path,
		sourceURL: &url.URL{Scheme: "file", Path: filepath.ToSlash(path) + "/"},
	}, nil
}

func (l *FromDirectory) String() string {
	return fmt.Sprintf("loader.FromDirectory{Path: %s}", l.path)
}

// GetReader always fails with ErrIsDirectory.
func (l *FromDirectory) GetReader() (io.ReadCloser, error) {
	return nil, fmt.Errorf("%w: %s", ErrIsDirectory, l.path)
}

// GetSourceURL returns the file:// URL of the directory.
func (l *FromDirectory) GetSourceURL() *url.URL {
	return l.sourceURL
}

// GetWorkingDir returns the directory itself.
func (l *FromDirectory) GetWorkingDir() string {
	return l.path
}
