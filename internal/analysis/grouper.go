package analysis

// GroupSteps splits steps into maximal runs of adjacent steps with the same
// Type. Concatenating the groups gives back the input; runs of the same type
// separated by another type stay apart.
func GroupSteps(steps []Step) [][]Step {
	var groups [][]Step
	start := 0
	for i := 1; i <= len(steps); i++ {
		if i == len(steps) || steps[i].Type() != steps[start].Type() {
			groups = append(groups, steps[start:i:i])
			start = i
		}
	}
	return groups
}
