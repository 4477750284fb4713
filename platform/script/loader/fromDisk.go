package loader

import (
	"fmt"
	"io"
	"net/url"
	"os"
	"path/filepath"
	"strings"

	"github.com/robbyt/go-scriptbridge/internal/helpers"
)

// FromDisk loads a script from a local file.
type FromDisk struct {
	path      string
	sourceURL *url.URL
}

// NewFromDisk creates a loader for the file at path. The path may carry a
// file:// prefix and must be absolute. The file must exist and must not be a
// directory; use NewFromDirectory for directories.
func NewFromDisk(path string) (*FromDisk, error) {
	path = strings.TrimPrefix(path, "file://")

	if strings.HasPrefix(path, "http://") || strings.HasPrefix(path, "https://") {
		return nil, fmt.Errorf("%w: %s", ErrSchemeUnsupported, path)
	}

	if !filepath.IsAbs(path) {
		return nil, fmt.Errorf("%w: relative paths are not supported: %s", ErrScriptNotAvailable, path)
	}

	path = filepath.Clean(path)
	if path == "/" || path == "\\" {
		return nil, fmt.Errorf("%w: path is empty or invalid", ErrScriptNotAvailable)
	}

	info, err := os.Stat(path)
	if err != nil {
		return nil, fmt.Errorf("%w: no script file at %s: %w", ErrScriptNotAvailable, path, err)
	}
	if info.IsDir() {
		return nil, fmt.Errorf("%w: %s", ErrIsDirectory, path)
	}

	return &FromDisk{
		path:      path,
		sourceURL: &url.URL{Scheme: "file", Path: filepath.ToSlash(path)},
	}, nil
}

func (l *FromDisk) String() string {
	noChkSum := fmt.Sprintf("loader.FromDisk{Path: %s}", l.path)

	reader, err := l.GetReader()
	if err != nil {
		return noChkSum
	}
	defer func() { _ = reader.Close() }()

	digest, err := helpers.ReaderDigest(reader)
	if err != nil {
		return noChkSum
	}
	return fmt.Sprintf("loader.FromDisk{Path: %s, SHA256: %s}", l.path, digest)
}

// GetReader opens the file.
func (l *FromDisk) GetReader() (io.ReadCloser, error) {
	return os.Open(l.path)
}

// GetSourceURL returns the file:// URL of the script.
func (l *FromDisk) GetSourceURL() *url.URL {
	return l.sourceURL
}

// GetPath returns the absolute, cleaned path of the script.
func (l *FromDisk) GetPath() string {
	return l.path
}

// GetWorkingDir returns the directory containing the script.
func (l *FromDisk) GetWorkingDir() string {
	return filepath.Dir(l.path)
}
