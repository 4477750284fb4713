// Package loader locates script sources for the bridge: local files and
// directories, packaged resources, remote URLs and in-memory content.
package loader

import (
	"io"
	"net/url"
)

// Loader supplies script source to an engine.
type Loader interface {
	// GetReader returns a fresh reader over the script content. The caller
	// closes it.
	GetReader() (io.ReadCloser, error)

	// GetSourceURL identifies where the content came from.
	GetSourceURL() *url.URL
}

// WorkingDirer is implemented by loaders backed by the local filesystem.
// Engines use the returned directory to resolve relative paths in scripts.
type WorkingDirer interface {
	GetWorkingDir() string
}

// WorkingDir returns the working directory for l, or "" when l is not backed
// by the local filesystem.
func WorkingDir(l Loader) string {
	if wd, ok := l.(WorkingDirer); ok {
		return wd.GetWorkingDir()
	}
	return ""
}
