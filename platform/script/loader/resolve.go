package loader

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
)

// ClasspathPrefix marks a reference to a packaged resource.
const ClasspathPrefix = "classpath:/"

// ResolveOptions tells Resolve where packaged resources live and how to
// fetch remote scripts. The zero value resolves local paths and remote URLs
// with default HTTP options, and rejects classpath references.
type ResolveOptions struct {
	// ResourceDir is a directory on disk that classpath:/ references are
	// resolved against. Takes precedence over ResourceFS.
	ResourceDir string

	// ResourceFS is a filesystem, typically an embed.FS, that classpath:/
	// references are resolved against. Only files can be loaded from it.
	ResourceFS fs.FS

	// HTTP configures fetching of http:// and https:// references.
	HTTP *HTTPOptions
}

// Resolve turns a reference string into a Loader using prefix rules:
//
//   - "classpath:/path" resolves path against ResourceDir or ResourceFS, and
//     may name a file or (with ResourceDir) a directory
//   - "http://..." and "https://..." are fetched immediately, and the
//     returned loader serves the downloaded bytes
//   - anything else is a local file or directory path; relative paths are
//     made absolute against the process working directory
//
// Directories resolve to *FromDirectory, files to *FromDisk or *FromFS.
func Resolve(ctx context.Context, ref string, opts *ResolveOptions) (Loader, error) {
	if opts == nil {
		opts = &ResolveOptions{}
	}

	ref = strings.TrimSpace(ref)
	if ref == "" {
		return nil, fmt.Errorf("%w: reference is empty", ErrScriptNotAvailable)
	}

	switch {
	case strings.HasPrefix(ref, ClasspathPrefix):
		return resolveResource(strings.TrimPrefix(ref, ClasspathPrefix), opts)
	case strings.HasPrefix(ref, "http://"), strings.HasPrefix(ref, "https://"):
		return fetchRemote(ctx, ref, opts.HTTP)
	default:
		return resolveLocal(ref)
	}
}

func resolveResource(name string, opts *ResolveOptions) (Loader, error) {
	if opts.ResourceDir != "" {
		root, err := filepath.Abs(opts.ResourceDir)
		if err != nil {
			return nil, fmt.Errorf("%w: invalid resource directory %q: %w", ErrScriptNotAvailable, opts.ResourceDir, err)
		}
		return resolveLocal(filepath.Join(root, filepath.FromSlash(name)))
	}

	if opts.ResourceFS != nil {
		l, err := NewFromFS(opts.ResourceFS, name)
		if errors.Is(err, ErrIsDirectory) {
			return nil, fmt.Errorf("%w: directory resources need a resource directory on disk", err)
		}
		return l, err
	}

	return nil, fmt.Errorf("%w: no resource root configured for %s%s", ErrScriptNotAvailable, ClasspathPrefix, name)
}

func fetchRemote(ctx context.Context, rawURL string, options *HTTPOptions) (Loader, error) {
	remote, err := NewFromHTTPWithOptions(rawURL, options)
	if err != nil {
		return nil, err
	}

	body, err := remote.GetReaderWithContext(ctx)
	if err != nil {
		return nil, err
	}
	defer func() { _ = body.Close() }()

	content, err := io.ReadAll(body)
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", rawURL, err)
	}
	return newFromBytesWithURL(content, remote.GetSourceURL())
}

func resolveLocal(path string) (Loader, error) {
	path = strings.TrimPrefix(path, "file://")
	if !filepath.IsAbs(path) {
		abs, err := filepath.Abs(path)
		if err != nil {
			return nil, fmt.Errorf("%w: failed to resolve relative path %q: %w", ErrScriptNotAvailable, path, err)
		}
		path = abs
	}

	info, err := os.Stat(path)
	if err != nil {
		return nil, fmt.Errorf("%w: no script file or directory at %s", ErrScriptNotAvailable, path)
	}
	if info.IsDir() {
		return NewFromDirectory(path)
	}
	return NewFromDisk(path)
}
