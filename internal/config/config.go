package config

import (
	"bytes"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/vango-dev/sitekit/internal/errors"
)

const (
	// ConfigFileName is the name of the configuration file.
	ConfigFileName = "sitekit.yaml"

	// DefaultPort is the default preview server port.
	DefaultPort = 4000

	// DefaultHost is the default preview server host.
	DefaultHost = "localhost"

	// DefaultOutput is the default build output directory.
	DefaultOutput = "dist"

	// DefaultContentDir is the default content directory.
	DefaultContentDir = "content"
)

// Config represents the complete sitekit.yaml configuration.
type Config struct {
	// Name is the project name.
	Name string `yaml:"name,omitempty"`

	Site    SiteConfig    `yaml:"site,omitempty"`
	Content ContentConfig `yaml:"content,omitempty"`
	Server  ServerConfig  `yaml:"server,omitempty"`
	Build   BuildConfig   `yaml:"build,omitempty"`
	Publish PublishConfig `yaml:"publish,omitempty"`

	// configPath stores the path where the config was loaded from.
	configPath string
}

// SiteConfig describes the rendered site.
type SiteConfig struct {
	// Title is appended to every page title.
	Title string `yaml:"title,omitempty"`

	// BasePath is the URL path the site is mounted under (default: "/").
	BasePath string `yaml:"basePath,omitempty"`

	// Lang is the document language (default: "en").
	Lang string `yaml:"lang,omitempty"`

	StyleSheets []string `yaml:"stylesheets,omitempty"`
	Scripts     []string `yaml:"scripts,omitempty"`
}

// ContentConfig says where pages are read from. When S3.Bucket is set the
// bucket is used instead of Dir.
type ContentConfig struct {
	Dir string   `yaml:"dir,omitempty"`
	S3  S3Config `yaml:"s3,omitempty"`
}

// S3Config addresses objects in a bucket.
type S3Config struct {
	Bucket string `yaml:"bucket,omitempty"`
	Prefix string `yaml:"prefix,omitempty"`
	Region string `yaml:"region,omitempty"`
}

// ServerConfig contains preview server settings.
type ServerConfig struct {
	Host string `yaml:"host,omitempty"`
	Port int    `yaml:"port,omitempty"`

	// Metrics exposes /metrics when true (default: true).
	Metrics *bool `yaml:"metrics,omitempty"`
}

// BuildConfig contains static build settings.
type BuildConfig struct {
	Output string `yaml:"output,omitempty"`
}

// PublishConfig is the bucket rendered pages are uploaded to.
type PublishConfig = S3Config

// New returns a configuration with default values.
func New() *Config {
	c := &Config{}
	c.applyDefaults()
	return c
}

// Load reads configuration from the specified directory.
func Load(dir string) (*Config, error) {
	return LoadFile(filepath.Join(dir, ConfigFileName))
}

// LoadFile reads configuration from the specified file path and applies
// defaults and environment overrides.
func LoadFile(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, errors.New("E001").
				WithFile(path).
				WithSuggestion("Create sitekit.yaml at the project root or pass --config")
		}
		return nil, errors.New("E002").WithFile(path).Wrap(err)
	}

	cfg := &Config{}
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(cfg); err != nil && err != io.EOF {
		return nil, errors.New("E002").
			WithFile(path).
			WithSuggestion("Check that sitekit.yaml is valid YAML").
			Wrap(err)
	}

	cfg.configPath = path
	cfg.applyDefaults()
	if err := cfg.ApplyEnv(os.LookupEnv); err != nil {
		return nil, err
	}
	return cfg, nil
}

// ApplyEnv overrides fields from environment variables read through lookup.
func (c *Config) ApplyEnv(lookup func(string) (string, bool)) error {
	if v, ok := lookup("SITEKIT_PORT"); ok && v != "" {
		port, err := strconv.Atoi(v)
		if err != nil {
			return errors.New("E002").
				WithDetail("SITEKIT_PORT must be an integer, got " + strconv.Quote(v))
		}
		c.Server.Port = port
	}
	if v, ok := lookup("SITEKIT_BASE_PATH"); ok && v != "" {
		c.Site.BasePath = v
	}
	if v, ok := lookup("SITEKIT_S3_BUCKET"); ok && v != "" {
		c.Publish.Bucket = v
	}
	if v, ok := lookup("SITEKIT_S3_PREFIX"); ok {
		c.Publish.Prefix = v
	}
	return nil
}

// applyDefaults fills in default values for empty fields.
func (c *Config) applyDefaults() {
	if c.Site.BasePath == "" {
		c.Site.BasePath = "/"
	}
	if c.Site.Lang == "" {
		c.Site.Lang = "en"
	}
	if c.Content.Dir == "" {
		c.Content.Dir = DefaultContentDir
	}
	if c.Server.Host == "" {
		c.Server.Host = DefaultHost
	}
	if c.Server.Port == 0 {
		c.Server.Port = DefaultPort
	}
	if c.Server.Metrics == nil {
		on := true
		c.Server.Metrics = &on
	}
	if c.Build.Output == "" {
		c.Build.Output = DefaultOutput
	}
}

// Validate checks if the configuration is valid.
func (c *Config) Validate() error {
	if c.Server.Port < 0 || c.Server.Port > 65535 {
		return errors.New("E002").
			WithFile(c.configPath).
			WithDetail("server.port must be between 0 and 65535")
	}
	if !strings.HasPrefix(c.Site.BasePath, "/") {
		return errors.New("E002").
			WithFile(c.configPath).
			WithDetail("site.basePath must start with \"/\"")
	}
	return nil
}

// Path returns the path where the config was loaded from.
func (c *Config) Path() string {
	return c.configPath
}

// Dir returns the directory containing the config file.
func (c *Config) Dir() string {
	if c.configPath == "" {
		return ""
	}
	return filepath.Dir(c.configPath)
}

// Address returns the host:port the preview server listens on.
func (c *Config) Address() string {
	return c.Server.Host + ":" + strconv.Itoa(c.Server.Port)
}

// MetricsEnabled reports whether the preview server exposes /metrics.
func (c *Config) MetricsEnabled() bool {
	return c.Server.Metrics == nil || *c.Server.Metrics
}

// ContentPath returns the absolute path to the content directory.
func (c *Config) ContentPath() string {
	return c.resolve(c.Content.Dir)
}

// OutputPath returns the absolute path to the build output directory.
func (c *Config) OutputPath() string {
	return c.resolve(c.Build.Output)
}

func (c *Config) resolve(path string) string {
	if filepath.IsAbs(path) {
		return path
	}
	return filepath.Join(c.Dir(), path)
}

// Exists checks if a config file exists in the given directory.
func Exists(dir string) bool {
	_, err := os.Stat(filepath.Join(dir, ConfigFileName))
	return err == nil
}

// FindProjectRoot walks up directories to find the project root.
// Returns the directory containing sitekit.yaml, or E001 if there is none.
func FindProjectRoot(startDir string) (string, error) {
	dir, err := filepath.Abs(startDir)
	if err != nil {
		return "", err
	}

	for {
		if Exists(dir) {
			return dir, nil
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			return "", errors.New("E001").
				WithDetail("No sitekit.yaml found in " + startDir + " or any parent directory")
		}
		dir = parent
	}
}

// LoadFromWorkingDir loads configuration from the nearest sitekit.yaml at or
// above the working directory.
func LoadFromWorkingDir() (*Config, error) {
	wd, err := os.Getwd()
	if err != nil {
		return nil, err
	}
	root, err := FindProjectRoot(wd)
	if err != nil {
		return nil, err
	}
	return Load(root)
}
