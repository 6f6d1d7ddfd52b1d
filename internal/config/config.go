package config

import (
	"encoding/json"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/rokoui/roko/internal/errors"
)

const (
	// ConfigFileName is the name of the configuration file.
	ConfigFileName = "roko.json"

	// DefaultPort is the default development server port.
	DefaultPort = 8080

	// DefaultHost is the default development server host.
	DefaultHost = "localhost"

	// DefaultInputSuffix marks template source files.
	DefaultInputSuffix = ".roko.go"

	// DefaultOutputSuffix replaces DefaultInputSuffix in generated files.
	DefaultOutputSuffix = "_gen.go"

	// DefaultBuildTag excludes template sources from normal builds.
	DefaultBuildTag = "roko"

	// DefaultCommandPackage is imported by generated command wrappers.
	DefaultCommandPackage = "github.com/rokoui/roko/pkg/command"

	// DefaultPollInterval is the dev watcher polling interval.
	DefaultPollInterval = "250ms"

	// DefaultWasmOutput is where roko dev writes the WebAssembly binary.
	DefaultWasmOutput = "web/app.wasm"
)

// Config represents the complete roko.json configuration.
type Config struct {
	// Name is the project name.
	Name string `json:"name,omitempty"`

	// Gen contains code generation configuration.
	Gen GenConfig `json:"gen,omitempty"`

	// Dev contains development server configuration.
	Dev DevConfig `json:"dev,omitempty"`

	// configPath stores the path where the config was loaded from.
	configPath string
	// dir is the project directory when no file was loaded.
	dir string
}

// GenConfig contains template compiler settings.
type GenConfig struct {
	// Include lists the directories searched for template sources.
	Include []string `json:"include,omitempty"`

	// Ignore lists directory names skipped during discovery.
	Ignore []string `json:"ignore,omitempty"`

	// InputSuffix identifies template source files.
	InputSuffix string `json:"inputSuffix,omitempty"`

	// OutputSuffix replaces InputSuffix to name the generated file.
	OutputSuffix string `json:"outputSuffix,omitempty"`

	// BuildTag is the constraint that keeps template sources out of
	// normal builds. It is stripped from generated files.
	BuildTag string `json:"buildTag,omitempty"`

	// CommandPackage is the import path of the command runtime.
	CommandPackage string `json:"commandPackage,omitempty"`
}

// DevConfig contains development server settings.
type DevConfig struct {
	// Port is the port to run the dev server on.
	Port int `json:"port,omitempty"`

	// Host is the host to bind to.
	Host string `json:"host,omitempty"`

	// Static is the directory served by the dev server.
	Static string `json:"static,omitempty"`

	// HotReload enables browser reload after regeneration.
	HotReload bool `json:"hotReload,omitempty"`

	// Metrics exposes /metrics on the dev server.
	Metrics bool `json:"metrics,omitempty"`

	// PollInterval is the watcher polling interval (e.g., "250ms").
	PollInterval string `json:"pollInterval,omitempty"`

	// Build is the package compiled to WebAssembly after each
	// regeneration (e.g., "./cmd/web"). Empty disables the build.
	Build string `json:"build,omitempty"`

	// Output is where the WebAssembly binary is written.
	Output string `json:"output,omitempty"`

	// Tags are extra build tags passed to go build.
	Tags []string `json:"tags,omitempty"`
}

// New creates a new Config with default values.
func New() *Config {
	return &Config{
		Gen: GenConfig{
			Include:        []string{"."},
			Ignore:         []string{"vendor", "node_modules", "testdata"},
			InputSuffix:    DefaultInputSuffix,
			OutputSuffix:   DefaultOutputSuffix,
			BuildTag:       DefaultBuildTag,
			CommandPackage: DefaultCommandPackage,
		},
		Dev: DevConfig{
			Port:         DefaultPort,
			Host:         DefaultHost,
			Static:       "web",
			HotReload:    true,
			Metrics:      true,
			PollInterval: DefaultPollInterval,
		},
	}
}

// Load reads configuration from the specified directory.
// It looks for roko.json in the directory.
func Load(dir string) (*Config, error) {
	configPath := filepath.Join(dir, ConfigFileName)
	return LoadFile(configPath)
}

// LoadOrDefault loads roko.json from dir, falling back to defaults rooted
// at dir when the file does not exist.
func LoadOrDefault(dir string) (*Config, error) {
	if !Exists(dir) {
		cfg := New()
		cfg.dir = dir
		return cfg, nil
	}
	return Load(dir)
}

// LoadFile reads configuration from the specified file path.
func LoadFile(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, errors.New("RE121").
				WithDetail("No roko.json found in " + filepath.Dir(path))
		}
		return nil, errors.New("RE120").Wrap(err)
	}

	cfg := New()
	if err := json.Unmarshal(data, cfg); err != nil {
		return nil, errors.New("RE120").
			WithDetail("Failed to parse roko.json: " + err.Error())
	}

	cfg.configPath = path
	cfg.applyDefaults()

	return cfg, nil
}

// Save writes the configuration to the file it was loaded from.
func (c *Config) Save() error {
	if c.configPath == "" {
		return errors.Newf(errors.CategoryConfig, "no config path set")
	}
	return c.SaveTo(c.configPath)
}

// SaveTo writes the configuration to the specified path.
func (c *Config) SaveTo(path string) error {
	data, err := json.MarshalIndent(c, "", "  ")
	if err != nil {
		return errors.New("RE120").Wrap(err)
	}

	// Add newline at end of file
	data = append(data, '\n')

	if err := os.WriteFile(path, data, 0644); err != nil {
		return errors.New("RE120").Wrap(err)
	}

	c.configPath = path
	return nil
}

// Path returns the path where the config was loaded from.
func (c *Config) Path() string {
	return c.configPath
}

// Dir returns the project directory: the directory containing the config
// file, or the directory passed to LoadOrDefault.
func (c *Config) Dir() string {
	if c.configPath == "" {
		return c.dir
	}
	return filepath.Dir(c.configPath)
}

// applyDefaults fills in default values for empty fields.
func (c *Config) applyDefaults() {
	// Gen
	if len(c.Gen.Include) == 0 {
		c.Gen.Include = []string{"."}
	}
	if c.Gen.InputSuffix == "" {
		c.Gen.InputSuffix = DefaultInputSuffix
	}
	if c.Gen.OutputSuffix == "" {
		c.Gen.OutputSuffix = DefaultOutputSuffix
	}
	if c.Gen.BuildTag == "" {
		c.Gen.BuildTag = DefaultBuildTag
	}
	if c.Gen.CommandPackage == "" {
		c.Gen.CommandPackage = DefaultCommandPackage
	}

	// Dev
	if c.Dev.Port == 0 {
		c.Dev.Port = DefaultPort
	}
	if c.Dev.Host == "" {
		c.Dev.Host = DefaultHost
	}
	if c.Dev.PollInterval == "" {
		c.Dev.PollInterval = DefaultPollInterval
	}
	if c.Dev.Build != "" && c.Dev.Output == "" {
		c.Dev.Output = DefaultWasmOutput
	}
}

// Validate checks if the configuration is valid.
func (c *Config) Validate() error {
	if c.Dev.Port < 0 || c.Dev.Port > 65535 {
		return errors.New("RE122").
			WithDetail("dev.port must be between 0 and 65535")
	}
	if !strings.HasSuffix(c.Gen.InputSuffix, ".go") {
		return errors.New("RE122").
			WithDetailf("gen.inputSuffix %q must end in .go", c.Gen.InputSuffix)
	}
	if !strings.HasSuffix(c.Gen.OutputSuffix, ".go") {
		return errors.New("RE122").
			WithDetailf("gen.outputSuffix %q must end in .go", c.Gen.OutputSuffix)
	}
	if c.Gen.InputSuffix == c.Gen.OutputSuffix {
		return errors.New("RE122").
			WithDetail("gen.inputSuffix and gen.outputSuffix must differ")
	}
	if !isIdent(c.Gen.BuildTag) {
		return errors.New("RE122").
			WithDetailf("gen.buildTag %q is not a valid build tag", c.Gen.BuildTag)
	}
	if d, err := time.ParseDuration(c.Dev.PollInterval); err != nil || d <= 0 {
		return errors.New("RE122").
			WithDetailf("dev.pollInterval %q must be a positive duration", c.Dev.PollInterval)
	}
	return nil
}

func isIdent(s string) bool {
	if s == "" {
		return false
	}
	for i, r := range s {
		switch {
		case r == '_' || r == '.' || (r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z'):
		case r >= '0' && r <= '9' && i > 0:
		default:
			return false
		}
	}
	return true
}

// DevAddress returns the address string for the dev server.
func (c *Config) DevAddress() string {
	return c.Dev.Host + ":" + strconv.Itoa(c.Dev.Port)
}

// DevURL returns the full URL for the dev server.
func (c *Config) DevURL() string {
	return "http://" + c.DevAddress()
}

// PollInterval returns the parsed watcher interval, falling back to the
// default when the configured value is invalid.
func (c *Config) PollInterval() time.Duration {
	d, err := time.ParseDuration(c.Dev.PollInterval)
	if err != nil || d <= 0 {
		d, _ = time.ParseDuration(DefaultPollInterval)
	}
	return d
}

// IncludePaths returns the absolute template search roots.
func (c *Config) IncludePaths() []string {
	paths := make([]string, 0, len(c.Gen.Include))
	for _, p := range c.Gen.Include {
		paths = append(paths, c.resolve(p))
	}
	return paths
}

// WasmOutputPath returns the absolute path of the WebAssembly binary, or
// "" when no build package is configured.
func (c *Config) WasmOutputPath() string {
	if c.Dev.Build == "" {
		return ""
	}
	out := c.Dev.Output
	if out == "" {
		out = DefaultWasmOutput
	}
	return c.resolve(out)
}

// StaticPath returns the absolute path to the static directory.
func (c *Config) StaticPath() string {
	if c.Dev.Static == "" {
		return ""
	}
	return c.resolve(c.Dev.Static)
}

func (c *Config) resolve(path string) string {
	if filepath.IsAbs(path) {
		return path
	}
	return filepath.Join(c.Dir(), path)
}

// Exists checks if a config file exists in the given directory.
func Exists(dir string) bool {
	path := filepath.Join(dir, ConfigFileName)
	_, err := os.Stat(path)
	return err == nil
}

// FindProjectRoot walks up directories to find the project root.
// Returns the directory containing roko.json, or an error if not found.
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
			return "", errors.New("RE121").
				WithDetail("No roko.json found in " + startDir + " or any parent directory")
		}
		dir = parent
	}
}

// LoadFromWorkingDir loads configuration from the project containing the
// current working directory.
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
