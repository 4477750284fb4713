package loader

import (
	"bytes"
	"fmt"
	"io"
	"net/url"
	"strings"

	"github.com/robbyt/go-scriptbridge/internal/helpers"
)

// inline is script content held in memory under a synthetic source URL of
// the form scheme://host/<short content hash>.
type inline struct {
	content   []byte
	sourceURL *url.URL
}

func newInline(content []byte, scheme, host string) (inline, error) {
	if len(bytes.TrimSpace(content)) == 0 {
		return inline{}, fmt.Errorf("%w: content is empty or contains only whitespace", ErrScriptNotAvailable)
	}
	u := &url.URL{Scheme: scheme, Host: host, Path: "/" + helpers.ShortHash(content)}
	return inline{content: content, sourceURL: u}, nil
}

// GetReader returns a new reader over the stored content.
func (s inline) GetReader() (io.ReadCloser, error) {
	return io.NopCloser(bytes.NewReader(s.content)), nil
}

// GetSourceURL returns the source URL of the script.
func (s inline) GetSourceURL() *url.URL {
	return s.sourceURL
}

// FromBytes serves script content held in memory.
type FromBytes struct {
	inline
}

// NewFromBytes creates a loader over content. Empty or whitespace-only content
// is rejected.
func NewFromBytes(content []byte) (*FromBytes, error) {
	s, err := newInline(content, "bytes", "inline")
	if err != nil {
		return nil, err
	}
	return &FromBytes{s}, nil
}

// newFromBytesWithURL keeps the URL content was fetched from, so eagerly
// downloaded scripts still report their origin.
func newFromBytesWithURL(content []byte, sourceURL *url.URL) (*FromBytes, error) {
	l, err := NewFromBytes(content)
	if err != nil {
		return nil, err
	}
	if sourceURL != nil {
		l.sourceURL = sourceURL
	}
	return l, nil
}

func (l *FromBytes) String() string {
	return fmt.Sprintf("loader.FromBytes{Bytes: %d}", len(l.content))
}

// FromString serves script content from a string, whitespace included.
type FromString struct {
	inline
}

func NewFromString(content string) (*FromString, error) {
	s, err := newInline([]byte(content), "string", "inline")
	if err != nil {
		return nil, err
	}
	return &FromString{s}, nil
}

func (l *FromString) String() string {
	return fmt.Sprintf("loader.FromString{Chars: %d}", len(l.content))
}

// FromIoReader buffers everything read from an io.Reader, such as stdin or a
// request body, so the script can be compiled more than once.
type FromIoReader struct {
	inline
}

// NewFromIoReader drains reader. sourceName becomes the host part of the
// source URL ("unnamed" when empty).
func NewFromIoReader(reader io.Reader, sourceName string) (*FromIoReader, error) {
	if reader == nil {
		return nil, fmt.Errorf("%w: reader is nil", ErrScriptNotAvailable)
	}
	content, err := io.ReadAll(reader)
	if err != nil {
		return nil, fmt.Errorf("failed to read from reader: %w", err)
	}

	sourceName = strings.TrimSpace(sourceName)
	if sourceName == "" {
		sourceName = "unnamed"
	}
	s, err := newInline(content, "reader", sourceName)
	if err != nil {
		return nil, err
	}
	return &FromIoReader{s}, nil
}

func (l *FromIoReader) String() string {
	return fmt.Sprintf("loader.FromIoReader{Bytes: %d, Source: %s}", len(l.content), l.sourceURL)
}
