package config

import (
	"os"
	"path/filepath"
	"testing"

	"name-recon/internal/index"
	"name-recon/internal/proposal"
)

func TestLoadConfigWithDefaults(t *testing.T) {
	cfg, err := Load("nonexistent.yaml")
	if err != nil {
		t.Fatalf("Failed to load config with defaults: %v", err)
	}
	defer os.RemoveAll(cfg.Output.Dir)

	if len(cfg.Input.Paths) != 1 || !filepath.IsAbs(cfg.Input.Paths[0]) {
		t.Errorf("Expected one absolute input path, got %v", cfg.Input.Paths)
	}
	if cfg.Indexing.CacheSize != index.DefaultCacheSize {
		t.Errorf("CacheSize = %d, expected %d", cfg.Indexing.CacheSize, index.DefaultCacheSize)
	}
	if len(cfg.Codec.FieldBuilders) != len(index.DefaultCodecConfig().FieldBuilders) {
		t.Errorf("Expected default field builders, got %v", cfg.Codec.FieldBuilders)
	}
	if cfg.Codec.GetterBinders[0] != (index.MethodRef{Owner: "com/mojang/serialization/MapCodec", Name: "forGetter"}) {
		t.Errorf("Unexpected getter binder %v", cfg.Codec.GetterBinders[0])
	}
	if len(cfg.LoggerTypes) != len(index.DefaultLoggerTypes) {
		t.Errorf("Expected default logger types, got %v", cfg.LoggerTypes)
	}
	if cfg.Output.FileName == "" || cfg.Output.MappingFile == "" {
		t.Error("Expected output names to be set")
	}

	cfg.Print()
}

func TestLoadConfigFile(t *testing.T) {
	tmpDir := t.TempDir()
	path := filepath.Join(tmpDir, "config.yaml")
	doc := `
input:
  paths: [` + tmpDir + `]
indexing:
  workers: 3
  toggles:
    delegate: false
proposers:
  simple_subtype: false
codec:
  field_builders:
    - {owner: my/Codec, name: field}
  getter_binders:
    - {owner: my/Codec, name: getter}
  builder_types: [my/Codec]
output:
  dir: ` + filepath.Join(tmpDir, "out") + `
  formats: [yaml, xlsx]
`
	if err := os.WriteFile(path, []byte(doc), 0644); err != nil {
		t.Fatalf("Failed to write config: %v", err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Failed to load config: %v", err)
	}
	if err := cfg.Validate(); err != nil {
		t.Fatalf("Expected valid config: %v", err)
	}

	opts := cfg.IndexOptions()
	if opts.Workers != 3 {
		t.Errorf("Workers = %d, expected 3", opts.Workers)
	}
	if opts.Toggles.Enabled(index.NameDelegate) {
		t.Error("Expected delegate index to be disabled")
	}
	if !opts.Toggles.Enabled(index.NameLambda) {
		t.Error("Expected lambda index to stay enabled")
	}
	if len(opts.Codec.FieldBuilders) != 1 || opts.Codec.FieldBuilders[0].Owner != "my/Codec" {
		t.Errorf("Unexpected field builders %v", opts.Codec.FieldBuilders)
	}
	if cfg.ProposerToggles().Enabled(proposal.IDSimpleSubtype) {
		t.Error("Expected simple_subtype proposer to be disabled")
	}
	if _, err := os.Stat(cfg.Output.Dir); err != nil {
		t.Errorf("Expected output directory to be created: %v", err)
	}
}

func TestOutputPaths(t *testing.T) {
	cfg := &Config{
		Output: OutputConfig{
			Dir:         "/tmp/output",
			FileName:    "test-report",
			MappingFile: "mappings.yaml",
		},
	}

	if got, want := cfg.GetOutputPath("xlsx"), filepath.Join("/tmp/output", "test-report.xlsx"); got != want {
		t.Errorf("GetOutputPath() = %s, expected %s", got, want)
	}
	if got, want := cfg.GetMappingPath(), filepath.Join("/tmp/output", "mappings.yaml"); got != want {
		t.Errorf("GetMappingPath() = %s, expected %s", got, want)
	}

	cfg.Output.MappingFile = "/var/names.yaml"
	if got := cfg.GetMappingPath(); got != "/var/names.yaml" {
		t.Errorf("GetMappingPath() = %s, expected the absolute path", got)
	}
}

func TestValidate(t *testing.T) {
	tmpDir := t.TempDir()

	valid := func() *Config {
		return &Config{
			Input:    InputConfig{Paths: []string{tmpDir}},
			Indexing: IndexingConfig{CacheSize: 16},
			Output:   OutputConfig{FileName: "report", MappingFile: "mappings.yaml", Formats: []string{"yaml"}},
		}
	}

	tests := []struct {
		name      string
		mutate    func(*Config)
		shouldErr bool
	}{
		{"Valid config", func(*Config) {}, false},
		{"No input paths", func(c *Config) { c.Input.Paths = nil }, true},
		{"Nonexistent input", func(c *Config) { c.Input.Paths = []string{"/nonexistent/directory"} }, true},
		{"Nonexistent registry", func(c *Config) { c.Registry.Paths = []string{"/nonexistent/types.yaml"} }, true},
		{"Negative workers", func(c *Config) { c.Indexing.Workers = -1 }, true},
		{"Zero cache", func(c *Config) { c.Indexing.CacheSize = 0 }, true},
		{"Unknown index", func(c *Config) { c.Indexing.Toggles = map[string]bool{"bogus": true} }, true},
		{"Unknown proposer", func(c *Config) { c.Proposers = map[string]bool{"bogus": false} }, true},
		{"Known proposer", func(c *Config) { c.Proposers = map[string]bool{proposal.IDLambda: false} }, false},
		{"Unsupported format", func(c *Config) { c.Output.Formats = []string{"docx"} }, true},
		{"Empty output filename", func(c *Config) { c.Output.FileName = "" }, true},
		{"Empty mapping file", func(c *Config) { c.Output.MappingFile = "" }, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := valid()
			tt.mutate(cfg)
			err := cfg.Validate()
			if tt.shouldErr && err == nil {
				t.Error("Expected error but got nil")
			}
			if !tt.shouldErr && err != nil {
				t.Errorf("Expected no error but got: %v", err)
			}
		})
	}
}
