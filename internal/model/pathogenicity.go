package model

// PathogenicityScore is one predictor's score in [0, 1], higher is more damaging.
type PathogenicityScore struct {
	Source string // e.g. "alphamissense"
	Score  float64
	Class  string // predictor-specific label, may be empty
}

// PathogenicityData holds predictor scores for a variant.
type PathogenicityData struct {
	Scores []PathogenicityScore
}

// HasPredictedScore reports whether any predictor scored the variant.
func (p *PathogenicityData) HasPredictedScore() bool {
	return p != nil && len(p.Scores) > 0
}

// MostPathogenicScore returns the highest predictor score, or 0 without data.
func (p *PathogenicityData) MostPathogenicScore() float64 {
	if p == nil {
		return 0
	}
	best := 0.0
	for _, s := range p.Scores {
		best = max(best, s.Score)
	}
	return best
}
