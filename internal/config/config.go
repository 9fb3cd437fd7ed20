package config

import (
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"slices"
	"strings"

	"github.com/spf13/viper"

	"name-recon/internal/index"
	"name-recon/internal/proposal"
)

// Config represents the application configuration
type Config struct {
	Input       InputConfig       `mapstructure:"input"`
	Registry    RegistryConfig    `mapstructure:"registry"`
	Indexing    IndexingConfig    `mapstructure:"indexing"`
	Proposers   map[string]bool   `mapstructure:"proposers"`
	Codec       index.CodecConfig `mapstructure:"codec"`
	LoggerTypes []string          `mapstructure:"logger_types"`
	Output      OutputConfig      `mapstructure:"output"`
}

// InputConfig holds the class dump locations
type InputConfig struct {
	Paths       []string `mapstructure:"paths"`        // Dump files or directories
	ExcludeDirs []string `mapstructure:"exclude_dirs"` // Directories to skip while scanning
}

// RegistryConfig holds the type registry files, applied in order
type RegistryConfig struct {
	Paths []string `mapstructure:"paths"`
}

// IndexingConfig holds indexer settings
type IndexingConfig struct {
	Workers   int             `mapstructure:"workers"`    // Parallel class visitors, 0 = number of CPUs
	CacheSize int             `mapstructure:"cache_size"` // Per-session analysis cache entries
	Toggles   map[string]bool `mapstructure:"toggles"`    // Index name -> enabled
}

// OutputConfig holds output settings
type OutputConfig struct {
	Dir         string   `mapstructure:"dir"`          // Output directory
	FileName    string   `mapstructure:"file_name"`    // Report file name (without extension)
	Formats     []string `mapstructure:"formats"`      // Report formats: yaml, xlsx
	MappingFile string   `mapstructure:"mapping_file"` // Mapping file read by rename/replay and written by every command
}

// Load reads the configuration from a file or uses defaults.
// If configPath is empty, it looks for "config.yaml" in the current directory.
func Load(configPath string) (*Config, error) {
	v := viper.New()
	setDefaults(v)

	if configPath == "" {
		configPath = "config.yaml"
	}
	v.SetConfigFile(configPath)

	if err := v.ReadInConfig(); err != nil {
		if os.IsNotExist(err) || strings.Contains(err.Error(), "no such file") ||
			strings.Contains(err.Error(), "cannot find") {
			fmt.Println("==========================================")
			fmt.Println("Config file not found. Using defaults:")
			fmt.Println("  Input:  ./classes")
			fmt.Println("  Output: ./output")
			fmt.Println("==========================================")
		} else {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	} else {
		fmt.Printf("Loaded config from: %s\n", v.ConfigFileUsed())
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	if err := cfg.normalizePaths(); err != nil {
		return nil, err
	}

	if err := cfg.EnsureOutputDir(); err != nil {
		return nil, err
	}

	return &cfg, nil
}

// setDefaults configures sensible default values
func setDefaults(v *viper.Viper) {
	v.SetDefault("input.paths", []string{"./classes"})
	v.SetDefault("input.exclude_dirs", []string{
		"**/.git/**",
		"**/.svn/**",
		"**/build/**",
	})

	v.SetDefault("registry.paths", []string{})

	v.SetDefault("indexing.workers", 0)
	v.SetDefault("indexing.cache_size", index.DefaultCacheSize)
	v.SetDefault("indexing.toggles", map[string]bool{})

	v.SetDefault("proposers", map[string]bool{})

	codec := index.DefaultCodecConfig()
	v.SetDefault("codec.field_builders", methodRefs(codec.FieldBuilders))
	v.SetDefault("codec.getter_binders", methodRefs(codec.GetterBinders))
	v.SetDefault("codec.builder_types", codec.BuilderTypes)

	v.SetDefault("logger_types", index.DefaultLoggerTypes)

	v.SetDefault("output.dir", "./output")
	v.SetDefault("output.file_name", "name-recon-report")
	v.SetDefault("output.formats", []string{"yaml"})
	v.SetDefault("output.mapping_file", "mappings.yaml")
}

func methodRefs(refs []index.MethodRef) []map[string]string {
	out := make([]map[string]string, len(refs))
	for i, r := range refs {
		out[i] = map[string]string{"owner": r.Owner, "name": r.Name}
	}
	return out
}

// normalizePaths converts relative paths to absolute paths
func (c *Config) normalizePaths() error {
	for i, p := range c.Input.Paths {
		abs, err := filepath.Abs(p)
		if err != nil {
			return fmt.Errorf("failed to resolve input path %s: %w", p, err)
		}
		c.Input.Paths[i] = abs
	}
	for i, p := range c.Registry.Paths {
		abs, err := filepath.Abs(p)
		if err != nil {
			return fmt.Errorf("failed to resolve registry path %s: %w", p, err)
		}
		c.Registry.Paths[i] = abs
	}

	absOutput, err := filepath.Abs(c.Output.Dir)
	if err != nil {
		return fmt.Errorf("failed to resolve output.dir: %w", err)
	}
	c.Output.Dir = absOutput

	return nil
}

// EnsureOutputDir creates the output directory if it doesn't exist
func (c *Config) EnsureOutputDir() error {
	if err := os.MkdirAll(c.Output.Dir, 0755); err != nil {
		return fmt.Errorf("failed to create output directory: %w", err)
	}
	return nil
}

// GetOutputPath returns the full path of a report with the given extension
func (c *Config) GetOutputPath(ext string) string {
	return filepath.Join(c.Output.Dir, c.Output.FileName+"."+ext)
}

// GetMappingPath returns the mapping file path. Relative names live in the output directory.
func (c *Config) GetMappingPath() string {
	if filepath.IsAbs(c.Output.MappingFile) {
		return c.Output.MappingFile
	}
	return filepath.Join(c.Output.Dir, c.Output.MappingFile)
}

// IndexOptions converts the indexing settings into indexer options
func (c *Config) IndexOptions() index.Options {
	workers := c.Indexing.Workers
	if workers <= 0 {
		workers = runtime.NumCPU()
	}
	return index.Options{
		Workers:     workers,
		CacheSize:   c.Indexing.CacheSize,
		Toggles:     index.Toggles(c.Indexing.Toggles),
		Codec:       c.Codec,
		LoggerTypes: c.LoggerTypes,
	}
}

// ProposerToggles returns the proposer switches
func (c *Config) ProposerToggles() proposal.Toggles {
	return proposal.Toggles(c.Proposers)
}

// Validate checks if the configuration is valid
func (c *Config) Validate() error {
	if len(c.Input.Paths) == 0 {
		return fmt.Errorf("input.paths must contain at least one path")
	}
	for _, p := range c.Input.Paths {
		if _, err := os.Stat(p); os.IsNotExist(err) {
			return fmt.Errorf("input path does not exist: %s", p)
		}
	}
	for _, p := range c.Registry.Paths {
		if _, err := os.Stat(p); os.IsNotExist(err) {
			return fmt.Errorf("registry file does not exist: %s", p)
		}
	}

	if c.Indexing.Workers < 0 {
		return fmt.Errorf("indexing.workers cannot be negative")
	}
	if c.Indexing.CacheSize <= 0 {
		return fmt.Errorf("indexing.cache_size must be positive")
	}
	for name := range c.Indexing.Toggles {
		if !slices.Contains(index.AllNames, name) {
			return fmt.Errorf("unknown index in indexing.toggles: %s", name)
		}
	}
	for id := range c.Proposers {
		if !slices.Contains(proposal.Order, id) {
			return fmt.Errorf("unknown proposer in proposers: %s", id)
		}
	}
	for _, f := range c.Output.Formats {
		if !slices.Contains(SupportedFormats, strings.ToLower(f)) {
			return fmt.Errorf("unsupported output format: %s", f)
		}
	}

	if c.Output.FileName == "" {
		return fmt.Errorf("output.file_name cannot be empty")
	}
	if c.Output.MappingFile == "" {
		return fmt.Errorf("output.mapping_file cannot be empty")
	}

	return nil
}

// SupportedFormats lists the report formats accepted in output.formats
var SupportedFormats = []string{"yaml", "yml", "xlsx", "excel"}

// Print displays the current configuration
func (c *Config) Print() {
	fmt.Println("=== Name Recon Configuration ===")
	fmt.Printf("Input Paths:      %v\n", c.Input.Paths)
	fmt.Printf("Exclude Dirs:     %v\n", c.Input.ExcludeDirs)
	fmt.Printf("Registries:       %v\n", c.Registry.Paths)
	fmt.Printf("Workers:          %d\n", c.Indexing.Workers)
	fmt.Printf("Cache Size:       %d\n", c.Indexing.CacheSize)
	fmt.Printf("Index Toggles:    %v\n", c.Indexing.Toggles)
	fmt.Printf("Proposer Toggles: %v\n", c.Proposers)
	fmt.Printf("Logger Types:     %v\n", c.LoggerTypes)
	fmt.Printf("Output Directory: %s\n", c.Output.Dir)
	fmt.Printf("Output Formats:   %v\n", c.Output.Formats)
	fmt.Printf("Mapping File:     %s\n", c.GetMappingPath())
	fmt.Println("================================")
}
