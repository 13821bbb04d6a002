package analysis

import (
	"fmt"

	"github.com/inodb/vibe-exome/internal/filter"
	"github.com/inodb/vibe-exome/internal/model"
)

// ValidationError reports a step list that cannot run.
type ValidationError struct {
	Index  int    // position of the offending step
	Step   string // step name
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid analysis step %d (%s): %s", e.Index+1, e.Step, e.Reason)
}

// CheckSteps validates a step list against the requested modes of
// inheritance before anything runs:
//   - inheritance-dependent steps need at least one mode other than ANY;
//   - a priority score filter needs a prioritiser of its type earlier on.
func CheckSteps(steps []Step, modes []model.ModeOfInheritance) error {
	concreteMode := false
	for _, m := range modes {
		if m != model.ModeAny {
			concreteMode = true
		}
	}

	prioritised := make(map[model.PriorityType]bool)
	for i, s := range steps {
		if s.DependsOnInheritanceModes() && !concreteMode {
			return &ValidationError{Index: i, Step: s.Name(), Reason: "requires at least one mode of inheritance"}
		}
		switch s.Kind() {
		case KindPrioritiser:
			prioritised[s.Prioritiser().Type()] = true
		case KindGeneFilter:
			if f, ok := s.GeneFilter().(*filter.PriorityScoreFilter); ok && !prioritised[f.Prioritiser] {
				return &ValidationError{
					Index:  i,
					Step:   s.Name(),
					Reason: fmt.Sprintf("no %s prioritiser runs before it", f.Prioritiser),
				}
			}
		}
	}
	return nil
}
