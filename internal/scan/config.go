package scan

import (
	"fmt"
	"os"

	yaml "gopkg.in/yaml.v3"
)

// FileConfig is the YAML scan profile accepted by the scan command. Every
// field maps to a flag; explicit flags win over the file.
type FileConfig struct {
	Output      string   `yaml:"output"`
	Report      string   `yaml:"report"`
	Workers     int      `yaml:"workers"`
	ChunkSize   string   `yaml:"chunkSize"`
	MaxScanSize string   `yaml:"maxScanSize"`
	Ext         []string `yaml:"ext"`
	NoProgress  bool     `yaml:"noProgress"`
	LogLevel    string   `yaml:"logLevel"`
}

// LoadConfig reads and parses a YAML scan profile.
func LoadConfig(path string) (*FileConfig, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config %q: %w", path, err)
	}

	var cfg FileConfig
	if err := yaml.Unmarshal(raw, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config %q: %w", path, err)
	}
	return &cfg, nil
}
