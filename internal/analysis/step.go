// Package analysis runs an ordered list of filter and prioritiser steps over
// the variants of a VCF and scores the resulting genes.
package analysis

import (
	"fmt"

	"github.com/inodb/vibe-exome/internal/filter"
	"github.com/inodb/vibe-exome/internal/prioritise"
)

// Kind says what a step operates on.
type Kind int

// Step kinds. The zero Kind is invalid.
const (
	KindVariantFilter Kind = iota + 1
	KindGeneFilter
	KindPrioritiser
)

func (k Kind) String() string {
	switch k {
	case KindVariantFilter:
		return "VARIANT_FILTER"
	case KindGeneFilter:
		return "GENE_FILTER"
	case KindPrioritiser:
		return "PRIORITISER"
	default:
		return fmt.Sprintf("Kind(%d)", int(k))
	}
}

// StepType is the execution category steps are grouped by.
type StepType int

// Step types.
const (
	StepVariantFilter StepType = iota
	StepGeneOnlyDependent
	StepInheritanceModeDependent
)

func (t StepType) String() string {
	switch t {
	case StepVariantFilter:
		return "VARIANT_FILTER"
	case StepGeneOnlyDependent:
		return "GENE_ONLY_DEPENDENT"
	case StepInheritanceModeDependent:
		return "INHERITANCE_MODE_DEPENDENT"
	default:
		return fmt.Sprintf("StepType(%d)", int(t))
	}
}

// Step is one analysis step: exactly one of a variant filter, a gene filter
// or a prioritiser, tagged by Kind. Steps are built with the constructors
// below and never change afterwards.
type Step struct {
	kind          Kind
	variantFilter filter.VariantFilter
	geneFilter    filter.GeneFilter
	prioritiser   prioritise.Prioritiser
}

// VariantFilterStep wraps a variant filter.
func VariantFilterStep(f filter.VariantFilter) Step {
	return Step{kind: KindVariantFilter, variantFilter: f}
}

// GeneFilterStep wraps a gene filter.
func GeneFilterStep(f filter.GeneFilter) Step {
	return Step{kind: KindGeneFilter, geneFilter: f}
}

// PrioritiserStep wraps a prioritiser.
func PrioritiserStep(p prioritise.Prioritiser) Step {
	return Step{kind: KindPrioritiser, prioritiser: p}
}

// Kind returns the step kind.
func (s Step) Kind() Kind { return s.kind }

// VariantFilter returns the payload of a KindVariantFilter step, nil otherwise.
func (s Step) VariantFilter() filter.VariantFilter { return s.variantFilter }

// GeneFilter returns the payload of a KindGeneFilter step, nil otherwise.
func (s Step) GeneFilter() filter.GeneFilter { return s.geneFilter }

// Prioritiser returns the payload of a KindPrioritiser step, nil otherwise.
func (s Step) Prioritiser() prioritise.Prioritiser { return s.prioritiser }

// DependsOnInheritanceModes reports whether the step reads inheritance mode
// compatibility.
func (s Step) DependsOnInheritanceModes() bool {
	switch s.kind {
	case KindVariantFilter, KindPrioritiser:
		return false
	case KindGeneFilter:
		return s.geneFilter.DependsOnInheritanceModes()
	default:
		panic(fmt.Sprintf("analysis: unknown step kind %v", s.kind))
	}
}

// Type returns the grouping category. Inheritance dependence takes
// precedence over the kind.
func (s Step) Type() StepType {
	if s.DependsOnInheritanceModes() {
		return StepInheritanceModeDependent
	}
	switch s.kind {
	case KindVariantFilter:
		return StepVariantFilter
	case KindGeneFilter, KindPrioritiser:
		return StepGeneOnlyDependent
	default:
		panic(fmt.Sprintf("analysis: unknown step kind %v", s.kind))
	}
}

// Name identifies the step in logs and errors.
func (s Step) Name() string {
	switch s.kind {
	case KindVariantFilter:
		return string(s.variantFilter.Type())
	case KindGeneFilter:
		return string(s.geneFilter.Type())
	case KindPrioritiser:
		return string(s.prioritiser.Type()) + "_PRIORITISER"
	default:
		panic(fmt.Sprintf("analysis: unknown step kind %v", s.kind))
	}
}
