package loader

import (
	"fmt"
	"io"
	"io/fs"
	"net/url"
	"path"
	"strings"
)

// FromFS loads a packaged resource, such as a file in an embed.FS.
type FromFS struct {
	fsys      fs.FS
	name      string
	sourceURL *url.URL
}

// NewFromFS creates a loader for name inside fsys. A leading "/" is ignored
// and the name must refer to a regular file.
func NewFromFS(fsys fs.FS, name string) (*FromFS, error) {
	if fsys == nil {
		return nil, fmt.Errorf("%w: filesystem is nil", ErrScriptNotAvailable)
	}

	name = path.Clean(strings.TrimPrefix(name, "/"))
	if !fs.ValidPath(name) || name == "." {
		return nil, fmt.Errorf("%w: invalid resource name %q", ErrScriptNotAvailable, name)
	}

	info, err := fs.Stat(fsys, name)
	if err != nil {
		return nil, fmt.Errorf("%w: no resource %q: %w", ErrScriptNotAvailable, name, err)
	}
	if info.IsDir() {
		return nil, fmt.Errorf("%w: %s", ErrIsDirectory, name)
	}

	return &FromFS{
		fsys:      fsys,
		name:      name,
		sourceURL: &url.URL{Scheme: "classpath", Path: "/" + name},
	}, nil
}

func (l *FromFS) String() string {
	return fmt.Sprintf("loader.FromFS{Name: %s}", l.name)
}

// GetReader opens the resource.
func (l *FromFS) GetReader() (io.ReadCloser, error) {
	return l.fsys.Open(l.name)
}

// GetSourceURL returns the classpath:/ URL of the resource.
func (l *FromFS) GetSourceURL() *url.URL {
	return l.sourceURL
}
