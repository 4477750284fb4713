package loader

import (
	"bytes"
	"io"
	"net/url"

	"github.com/stretchr/testify/mock"
)

// MockLoader is a testify mock of Loader.
type MockLoader struct {
	mock.Mock
}

func (m *MockLoader) GetSourceURL() *url.URL {
	u, _ := m.Called().Get(0).(*url.URL)
	return u
}

func (m *MockLoader) GetReader() (io.ReadCloser, error) {
	args := m.Called()
	r, _ := args.Get(0).(io.ReadCloser)
	return r, args.Error(1)
}

// NewMockLoaderWithContent returns a MockLoader whose GetReader serves
// content. Expectations for GetSourceURL are left to the caller.
func NewMockLoaderWithContent(content []byte) *MockLoader {
	m := new(MockLoader)
	m.On("GetReader").Return(io.NopCloser(bytes.NewReader(content)), nil)
	return m
}

// MockDirLoader is a MockLoader that also reports a working directory, for
// exercising code that resolves paths relative to a script.
type MockDirLoader struct {
	MockLoader
}

func (m *MockDirLoader) GetWorkingDir() string {
	return m.Called().String(0)
}

// NewMockDirLoader returns a MockDirLoader serving content from dir.
func NewMockDirLoader(content []byte, dir string) *MockDirLoader {
	m := new(MockDirLoader)
	m.On("GetReader").Return(io.NopCloser(bytes.NewReader(content)), nil)
	m.On("GetSourceURL").Return(&url.URL{Scheme: "mock", Path: dir + "/main.js"}).Maybe()
	m.On("GetWorkingDir").Return(dir)
	return m
}
