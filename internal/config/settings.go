package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/viper"

	"github.com/inodb/vibe-exome/internal/score"
)

// DefaultAssembly is the genome assembly used when none is configured.
const DefaultAssembly = "GRCh38"

// Settings are the user-level options stored in ~/.vibe-exome.yaml.
type Settings struct {
	// DataDir holds downloaded reference data, one subdirectory per assembly.
	DataDir  string `mapstructure:"dataDir"`
	Assembly string `mapstructure:"assembly"`
	// GTF overrides the GENCODE file found under DataDir.
	GTF string `mapstructure:"gtf"`
	// Biotypes restricts known genes, e.g. [protein_coding]. Empty keeps all.
	Biotypes []string `mapstructure:"biotypes"`

	FrequencyDB       string `mapstructure:"frequencyDB"`
	AlphaMissense     string `mapstructure:"alphaMissense"`
	PreloadPathogenic bool   `mapstructure:"preloadPathogenicity"`
	ResultsDB         string `mapstructure:"resultsDB"`

	Workers int           `mapstructure:"workers"`
	Weights score.Weights `mapstructure:"weights"`
}

// DefaultDataDir returns ~/.vibe-exome, or "" when the home directory is
// unknown.
func DefaultDataDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(home, ".vibe-exome")
}

// SetDefaults registers the default settings on v.
func SetDefaults(v *viper.Viper) {
	v.SetDefault("dataDir", DefaultDataDir())
	v.SetDefault("assembly", DefaultAssembly)
	v.SetDefault("workers", 0)
	v.SetDefault("weights.variant", score.DefaultWeights().Variant)
	v.SetDefault("weights.priority", score.DefaultWeights().Priority)
}

// LoadSettings decodes the settings held by v.
func LoadSettings(v *viper.Viper) (Settings, error) {
	var s Settings
	if err := v.Unmarshal(&s); err != nil {
		return Settings{}, fmt.Errorf("decode settings: %w", err)
	}
	if err := s.Weights.Validate(); err != nil {
		return Settings{}, fmt.Errorf("settings: %w", err)
	}
	if s.Workers < 0 {
		return Settings{}, fmt.Errorf("settings: workers must not be negative, got %d", s.Workers)
	}
	return s, nil
}

// AssemblyDir is the directory holding reference data for the assembly.
func (s Settings) AssemblyDir() string {
	return filepath.Join(s.DataDir, strings.ToLower(s.Assembly))
}

// GeneCacheDir is where the known-gene cache for the assembly is kept.
func (s Settings) GeneCacheDir() string {
	return filepath.Join(s.AssemblyDir(), "cache")
}

// FindGTF returns the configured GTF, or the first GENCODE annotation file
// under AssemblyDir.
func (s Settings) FindGTF() (string, bool) {
	if s.GTF != "" {
		return s.GTF, true
	}
	pattern := "gencode.v*.annotation.gtf.gz"
	if strings.EqualFold(s.Assembly, "GRCh37") {
		pattern = "gencode.v*lift37.annotation.gtf.gz"
	}
	matches, err := filepath.Glob(filepath.Join(s.AssemblyDir(), pattern))
	if err != nil || len(matches) == 0 {
		return "", false
	}
	return matches[0], true
}

var settingKeys = []string{
	"dataDir", "assembly", "gtf", "biotypes",
	"frequencyDB", "alphaMissense", "preloadPathogenicity", "resultsDB",
	"workers", "weights.variant", "weights.priority",
}

// Keys lists the setting keys accepted in the user config.
func Keys() []string {
	return append([]string(nil), settingKeys...)
}

// CanonicalKey returns the configured spelling of key, matched without
// regard to case.
func CanonicalKey(key string) (string, bool) {
	for _, k := range settingKeys {
		if strings.EqualFold(k, key) {
			return k, true
		}
	}
	return "", false
}
