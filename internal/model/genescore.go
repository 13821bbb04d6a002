package model

// GeneScore is the outcome of scoring one gene under one mode of inheritance.
// Values are fixed at construction.
type GeneScore struct {
	Identifier    GeneIdentifier
	Mode          ModeOfInheritance
	CombinedScore float64
	VariantScore  float64
	PriorityScore float64

	contributing []*Variant
}

// NewGeneScore copies the contributing variants so later changes to the
// caller's slice do not leak in.
func NewGeneScore(id GeneIdentifier, mode ModeOfInheritance, combined, variantScore, priorityScore float64, contributing []*Variant) GeneScore {
	return GeneScore{
		Identifier:    id,
		Mode:          mode,
		CombinedScore: combined,
		VariantScore:  variantScore,
		PriorityScore: priorityScore,
		contributing:  append([]*Variant(nil), contributing...),
	}
}

// ContributingVariants returns the variants counted towards the score.
func (s GeneScore) ContributingVariants() []*Variant {
	return append([]*Variant(nil), s.contributing...)
}
