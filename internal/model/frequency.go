package model

import "math"

// Frequency is a population allele frequency, in percent.
type Frequency struct {
	Source  string
	Percent float64
}

// FrequencyData holds the known population frequencies of a variant.
type FrequencyData struct {
	RsID        string
	Frequencies []Frequency
}

// RepresentedInDatabase reports whether the variant has an rsID or any
// frequency record, regardless of value.
func (f *FrequencyData) RepresentedInDatabase() bool {
	if f == nil {
		return false
	}
	return f.RsID != "" || len(f.Frequencies) > 0
}

// MaxFreq returns the highest known frequency in percent, or 0 without data.
func (f *FrequencyData) MaxFreq() float64 {
	if f == nil {
		return 0
	}
	maxFreq := 0.0
	for _, freq := range f.Frequencies {
		maxFreq = math.Max(maxFreq, freq.Percent)
	}
	return maxFreq
}

// Score maps the maximum frequency onto [0, 1]: 1 for unseen variants,
// decaying to 0 at 2%.
func (f *FrequencyData) Score() float64 {
	maxFreq := f.MaxFreq()
	switch {
	case maxFreq <= 0:
		return 1
	case maxFreq > 2:
		return 0
	default:
		return 1.13533 - 0.13533*math.Exp(maxFreq)
	}
}
