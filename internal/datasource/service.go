// Package datasource combines the reference data stores that supply
// frequency and pathogenicity data to the variant filters.
package datasource

import (
	"fmt"

	"github.com/inodb/vibe-exome/internal/datasource/alphamissense"
	"github.com/inodb/vibe-exome/internal/datasource/frequency"
	"github.com/inodb/vibe-exome/internal/model"
)

// Service looks up variant data in the configured stores. A nil store
// yields empty data rather than an error.
type Service struct {
	frequencies *frequency.Store
	missense    *alphamissense.Store
}

// NewService creates a data service over the given stores, either of which
// may be nil.
func NewService(frequencies *frequency.Store, missense *alphamissense.Store) *Service {
	return &Service{frequencies: frequencies, missense: missense}
}

// Frequency returns the population frequencies of v. Variants absent from
// the store get empty, non-nil data.
func (s *Service) Frequency(v *model.Variant) (*model.FrequencyData, error) {
	if s.frequencies == nil {
		return &model.FrequencyData{}, nil
	}
	data, ok, err := s.frequencies.Lookup(v.Chrom, v.Pos, v.Ref, v.Alt)
	if err != nil {
		return nil, fmt.Errorf("frequency lookup %s: %w", v.Key(), err)
	}
	if !ok {
		return &model.FrequencyData{}, nil
	}
	return data, nil
}

// Pathogenicity returns predictor scores for v. AlphaMissense only scores
// missense SNVs; everything else gets empty, non-nil data.
func (s *Service) Pathogenicity(v *model.Variant) (*model.PathogenicityData, error) {
	data := &model.PathogenicityData{}
	if s.missense == nil || v.Effect != model.EffectMissense || !v.IsSNV() {
		return data, nil
	}
	if r, ok := s.missense.Lookup(v.Chrom, v.Pos, v.Ref, v.Alt); ok {
		data.Scores = append(data.Scores, model.PathogenicityScore{
			Source: alphamissense.SourceName,
			Score:  r.Score,
			Class:  r.Class,
		})
	}
	return data, nil
}

// Close closes the underlying stores.
func (s *Service) Close() error {
	var firstErr error
	if s.frequencies != nil {
		if err := s.frequencies.Close(); err != nil {
			firstErr = err
		}
	}
	if s.missense != nil {
		if err := s.missense.Close(); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	return firstErr
}
