package model

import (
	"fmt"
	"strings"
)

// ModeOfInheritance describes a transmission pattern a gene's variants may fit.
type ModeOfInheritance int

// Modes of inheritance. ModeAny matches every filter-passing variant.
const (
	ModeAny ModeOfInheritance = iota
	ModeAutosomalDominant
	ModeAutosomalRecessive
	ModeXDominant
	ModeXRecessive
)

var modeNames = map[ModeOfInheritance]string{
	ModeAny:                "ANY",
	ModeAutosomalDominant:  "AUTOSOMAL_DOMINANT",
	ModeAutosomalRecessive: "AUTOSOMAL_RECESSIVE",
	ModeXDominant:          "X_DOMINANT",
	ModeXRecessive:         "X_RECESSIVE",
}

func (m ModeOfInheritance) String() string {
	if s, ok := modeNames[m]; ok {
		return s
	}
	return fmt.Sprintf("ModeOfInheritance(%d)", int(m))
}

// Abbreviation returns the short form used in reports (AD, AR, XD, XR, ANY).
func (m ModeOfInheritance) Abbreviation() string {
	switch m {
	case ModeAutosomalDominant:
		return "AD"
	case ModeAutosomalRecessive:
		return "AR"
	case ModeXDominant:
		return "XD"
	case ModeXRecessive:
		return "XR"
	default:
		return "ANY"
	}
}

// ParseModeOfInheritance accepts full names or abbreviations, case-insensitively.
func ParseModeOfInheritance(s string) (ModeOfInheritance, error) {
	s = strings.ToUpper(strings.TrimSpace(s))
	for m, name := range modeNames {
		if s == name || s == m.Abbreviation() {
			return m, nil
		}
	}
	return ModeAny, fmt.Errorf("unknown mode of inheritance %q", s)
}
