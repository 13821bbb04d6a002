// Package phenotype loads precomputed gene-to-phenotype match scores.
package phenotype

import (
	"bufio"
	"fmt"
	"os"
	"strconv"
	"strings"
)

// Match is the phenotype similarity of one gene to the patient.
type Match struct {
	Symbol      string
	Score       float64 // in [0, 1]
	Description string  // e.g. best matching disease or model
}

// Scores maps gene symbol to its phenotype match.
type Scores map[string]Match

// Load reads a tab-separated score table of symbol, score and an optional
// description. Lines starting with '#' are comments. Scores outside [0, 1]
// are rejected.
func Load(path string) (Scores, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open phenotype scores: %w", err)
	}
	defer f.Close()

	scores := make(Scores)
	scanner := bufio.NewScanner(f)
	lineNum := 0
	for scanner.Scan() {
		lineNum++
		line := scanner.Text()
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}

		fields := strings.Split(line, "\t")
		if len(fields) < 2 {
			return nil, fmt.Errorf("phenotype scores line %d: expected symbol and score", lineNum)
		}
		score, err := strconv.ParseFloat(strings.TrimSpace(fields[1]), 64)
		if err != nil {
			return nil, fmt.Errorf("phenotype scores line %d: invalid score: %w", lineNum, err)
		}
		if score < 0 || score > 1 {
			return nil, fmt.Errorf("phenotype scores line %d: score %g outside [0, 1]", lineNum, score)
		}

		m := Match{Symbol: strings.TrimSpace(fields[0]), Score: score}
		if len(fields) > 2 {
			m.Description = strings.TrimSpace(fields[2])
		}
		scores[m.Symbol] = m
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("reading phenotype scores: %w", err)
	}
	return scores, nil
}
