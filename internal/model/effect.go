// Package model holds the variant, gene and score types shared by the
// analysis pipeline.
package model

import "strings"

// VariantEffect is a Sequence Ontology consequence term.
type VariantEffect string

// Variant effects, most to least severe.
const (
	EffectStopGained       VariantEffect = "stop_gained"
	EffectFrameshift       VariantEffect = "frameshift_variant"
	EffectStopLost         VariantEffect = "stop_lost"
	EffectStartLost        VariantEffect = "start_lost"
	EffectSpliceAcceptor   VariantEffect = "splice_acceptor_variant"
	EffectSpliceDonor      VariantEffect = "splice_donor_variant"
	EffectMissense         VariantEffect = "missense_variant"
	EffectInframeInsertion VariantEffect = "inframe_insertion"
	EffectInframeDeletion  VariantEffect = "inframe_deletion"
	EffectSpliceRegion     VariantEffect = "splice_region_variant"
	EffectSynonymous       VariantEffect = "synonymous_variant"
	EffectStopRetained     VariantEffect = "stop_retained_variant"
	EffectStartRetained    VariantEffect = "start_retained_variant"
	EffectCodingSequence   VariantEffect = "coding_sequence_variant"
	Effect5PrimeUTR        VariantEffect = "5_prime_UTR_variant"
	Effect3PrimeUTR        VariantEffect = "3_prime_UTR_variant"
	EffectNonCodingExon    VariantEffect = "non_coding_transcript_exon_variant"
	EffectIntron           VariantEffect = "intron_variant"
	EffectUpstreamGene     VariantEffect = "upstream_gene_variant"
	EffectDownstreamGene   VariantEffect = "downstream_gene_variant"
	EffectIntergenic       VariantEffect = "intergenic_variant"
	EffectSequenceVariant  VariantEffect = "sequence_variant"
)

// Impact levels for variant effects.
const (
	ImpactHigh     = "HIGH"
	ImpactModerate = "MODERATE"
	ImpactLow      = "LOW"
	ImpactModifier = "MODIFIER"
)

// ParseEffect returns the most severe term of a comma or ampersand separated
// consequence string, e.g. "splice_region_variant&intron_variant".
func ParseEffect(consequence string) VariantEffect {
	best := VariantEffect("")
	for _, term := range strings.FieldsFunc(consequence, func(r rune) bool { return r == ',' || r == '&' }) {
		e := VariantEffect(strings.TrimSpace(term))
		if best == "" || e.DefaultPathogenicityScore() > best.DefaultPathogenicityScore() {
			best = e
		}
	}
	if best == "" {
		return EffectSequenceVariant
	}
	return best
}

// Impact returns the impact level for the effect.
func (e VariantEffect) Impact() string {
	switch e {
	case EffectStopGained, EffectFrameshift, EffectStopLost, EffectStartLost,
		EffectSpliceAcceptor, EffectSpliceDonor:
		return ImpactHigh
	case EffectMissense, EffectInframeInsertion, EffectInframeDeletion:
		return ImpactModerate
	case EffectSynonymous, EffectSpliceRegion, EffectStopRetained,
		EffectStartRetained, EffectCodingSequence:
		return ImpactLow
	default:
		return ImpactModifier
	}
}

// IsOffExome reports whether the effect lies outside coding sequence and
// canonical splice sites.
func (e VariantEffect) IsOffExome() bool {
	switch e {
	case EffectIntron, EffectUpstreamGene, EffectDownstreamGene, EffectIntergenic,
		Effect5PrimeUTR, Effect3PrimeUTR, EffectNonCodingExon:
		return true
	}
	return false
}

// DefaultPathogenicityScore is the pathogenicity assumed for the effect when
// no predictor score is available.
func (e VariantEffect) DefaultPathogenicityScore() float64 {
	switch e {
	case EffectStopGained:
		return 1.0
	case EffectFrameshift, EffectStartLost, EffectSpliceAcceptor, EffectSpliceDonor:
		return 0.95
	case EffectStopLost:
		return 0.9
	case EffectInframeInsertion, EffectInframeDeletion:
		return 0.85
	case EffectMissense:
		return 0.6
	case EffectSpliceRegion:
		return 0.8
	case EffectCodingSequence:
		return 0.5
	case EffectSynonymous, EffectStopRetained, EffectStartRetained:
		return 0.1
	default:
		return 0
	}
}
