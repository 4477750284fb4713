package options

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/robbyt/go-scriptbridge/platform/script/loader"
	"github.com/robbyt/go-scriptbridge/platform/script/loader/httpauth"
)

// FileConfig is the YAML form of an engine configuration:
//
//	resource_dir: scripts
//	globals:
//	  site: example.com
//	http:
//	  timeout: 5s
//	  bearer_token: secret
type FileConfig struct {
	ResourceDir string         `yaml:"resource_dir"`
	Globals     map[string]any `yaml:"globals"`
	HTTP        *HTTPConfig    `yaml:"http"`
}

// HTTPConfig is the http block of a FileConfig.
type HTTPConfig struct {
	Timeout            time.Duration     `yaml:"timeout"`
	BearerToken        string            `yaml:"bearer_token"`
	Username           string            `yaml:"username"`
	Password           string            `yaml:"password"`
	Headers            map[string]string `yaml:"headers"`
	InsecureSkipVerify bool              `yaml:"insecure_skip_verify"`

	auth httpauth.Authenticator
}

// LoadFileConfig reads and parses a YAML configuration file. A relative
// resource_dir is taken relative to the file's directory.
func LoadFileConfig(path string) (*FileConfig, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}
	fc, err := ParseFileConfig(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	if fc.ResourceDir != "" && !filepath.IsAbs(fc.ResourceDir) {
		fc.ResourceDir = filepath.Join(filepath.Dir(path), fc.ResourceDir)
	}
	return fc, nil
}

// ParseFileConfig parses YAML configuration.
func ParseFileConfig(data []byte) (*FileConfig, error) {
	var fc FileConfig
	if err := yaml.Unmarshal(data, &fc); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}
	if fc.HTTP != nil {
		if fc.HTTP.Timeout < 0 {
			return nil, fmt.Errorf("http timeout cannot be negative: %s", fc.HTTP.Timeout)
		}
		auth, err := httpauth.FromCredentials(fc.HTTP.BearerToken, fc.HTTP.Username, fc.HTTP.Password)
		if err != nil {
			return nil, fmt.Errorf("http: %w", err)
		}
		fc.HTTP.auth = auth
	}
	return &fc, nil
}

// Options converts the file configuration into engine options.
func (fc *FileConfig) Options() []Option {
	var opts []Option
	if fc.ResourceDir != "" {
		opts = append(opts, WithResourceDir(fc.ResourceDir))
	}
	if len(fc.Globals) > 0 {
		opts = append(opts, WithGlobals(fc.Globals))
	}
	if fc.HTTP != nil {
		opts = append(opts, WithHTTPOptions(fc.HTTP.loaderOptions()))
	}
	return opts
}

func (h *HTTPConfig) loaderOptions() *loader.HTTPOptions {
	opts := loader.DefaultHTTPOptions()
	if h.Timeout > 0 {
		opts = opts.WithTimeout(h.Timeout)
	}
	if h.auth != nil {
		opts = opts.WithAuthenticator(h.auth)
	}
	for k, v := range h.Headers {
		opts = opts.WithHeader(k, v)
	}
	opts.InsecureSkipVerify = h.InsecureSkipVerify
	return opts
}

// WithConfigFile applies the settings of a YAML configuration file. Options
// given after it override the file.
func WithConfigFile(path string) Option {
	return func(c *Config) error {
		fc, err := LoadFileConfig(path)
		if err != nil {
			return err
		}
		for _, opt := range fc.Options() {
			if err := opt(c); err != nil {
				return fmt.Errorf("%s: %w", path, err)
			}
		}
		return nil
	}
}
