// Package config reads analysis files and user settings.
package config

import (
	"fmt"
	"path/filepath"

	"github.com/go-viper/mapstructure/v2"
	"github.com/spf13/viper"

	"github.com/inodb/vibe-exome/internal/analysis"
	"github.com/inodb/vibe-exome/internal/model"
	"github.com/inodb/vibe-exome/internal/pedigree"
	"github.com/inodb/vibe-exome/internal/score"
)

// AnalysisFile is the decoded form of an analysis YAML file. Relative paths
// are resolved against the file's directory.
type AnalysisFile struct {
	VCF              string           `mapstructure:"vcf"`
	PED              string           `mapstructure:"ped"`
	Proband          string           `mapstructure:"proband"`
	InheritanceModes []string         `mapstructure:"inheritanceModes"`
	ScoringMode      string           `mapstructure:"scoringMode"`
	Weights          *score.Weights   `mapstructure:"weights"`
	PassOnly         bool             `mapstructure:"passOnly"`
	Steps            []map[string]any `mapstructure:"steps"`

	dir string
}

// LoadAnalysis reads an analysis file. The format follows the extension
// (YAML, JSON or TOML).
func LoadAnalysis(path string) (*AnalysisFile, error) {
	v := viper.New()
	v.SetConfigFile(path)
	if err := v.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("read analysis file %s: %w", path, err)
	}

	var f AnalysisFile
	if err := v.Unmarshal(&f, func(dc *mapstructure.DecoderConfig) {
		dc.ErrorUnused = true
	}); err != nil {
		return nil, fmt.Errorf("decode analysis file %s: %w", path, err)
	}
	if f.VCF == "" {
		return nil, fmt.Errorf("analysis file %s: vcf is required", path)
	}
	f.dir = filepath.Dir(path)
	return &f, nil
}

// Resolve returns p relative to the analysis file's directory unless it is
// absolute or empty.
func (f *AnalysisFile) Resolve(p string) string {
	if p == "" || filepath.IsAbs(p) {
		return p
	}
	return filepath.Join(f.dir, p)
}

// Modes parses the requested modes of inheritance.
func (f *AnalysisFile) Modes() ([]model.ModeOfInheritance, error) {
	modes := make([]model.ModeOfInheritance, 0, len(f.InheritanceModes))
	for _, s := range f.InheritanceModes {
		m, err := model.ParseModeOfInheritance(s)
		if err != nil {
			return nil, err
		}
		modes = append(modes, m)
	}
	return modes, nil
}

// Analysis builds the runnable analysis: it loads the pedigree and every
// resource a step names. defaults supplies the weights when the file sets
// none.
func (f *AnalysisFile) Analysis(defaults score.Weights) (analysis.Analysis, error) {
	modes, err := f.Modes()
	if err != nil {
		return analysis.Analysis{}, err
	}
	mode, err := score.ParseMode(f.ScoringMode)
	if err != nil {
		return analysis.Analysis{}, err
	}

	weights := defaults
	if f.Weights != nil {
		weights = *f.Weights
	}

	var ped *pedigree.Pedigree
	if f.PED != "" {
		ped, err = pedigree.Load(f.Resolve(f.PED))
		if err != nil {
			return analysis.Analysis{}, err
		}
	}

	steps, err := DecodeSteps(f.Steps, modes, f.Resolve)
	if err != nil {
		return analysis.Analysis{}, err
	}

	return analysis.Analysis{
		VCFPath:          f.Resolve(f.VCF),
		Pedigree:         ped,
		Proband:          f.Proband,
		InheritanceModes: modes,
		ScoringMode:      mode,
		Weights:          weights,
		Steps:            steps,
		PassOnly:         f.PassOnly,
	}, nil
}
