// Package pedigree describes the individuals of a sequenced family and reads
// them from PED files.
package pedigree

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"sort"
	"strings"
)

// Sex of an individual.
type Sex int

// Sexes, coded as in PED column 5.
const (
	SexUnknown Sex = iota
	SexMale
	SexFemale
)

// Affection status, coded as in PED column 6.
type Affection int

// Affection statuses.
const (
	AffectionUnknown Affection = iota
	Unaffected
	Affected
)

// Individual is one member of the pedigree. Name matches the VCF sample column.
type Individual struct {
	Family    string
	Name      string
	Father    string // "" when not in the pedigree
	Mother    string
	Sex       Sex
	Affection Affection
}

// IsAffected reports whether the individual is affected.
func (i Individual) IsAffected() bool { return i.Affection == Affected }

// Pedigree is an immutable set of individuals keyed by name.
type Pedigree struct {
	members map[string]Individual
	names   []string
}

// New builds a pedigree, rejecting duplicate names and parents that are
// missing from the pedigree.
func New(individuals []Individual) (*Pedigree, error) {
	p := &Pedigree{members: make(map[string]Individual, len(individuals))}
	for _, ind := range individuals {
		if ind.Name == "" {
			return nil, fmt.Errorf("pedigree: individual without a name")
		}
		if _, dup := p.members[ind.Name]; dup {
			return nil, fmt.Errorf("pedigree: duplicate individual %q", ind.Name)
		}
		p.members[ind.Name] = ind
		p.names = append(p.names, ind.Name)
	}
	for _, ind := range individuals {
		for _, parent := range []string{ind.Father, ind.Mother} {
			if parent == "" {
				continue
			}
			if _, ok := p.members[parent]; !ok {
				return nil, fmt.Errorf("pedigree: parent %q of %q not in pedigree", parent, ind.Name)
			}
		}
	}
	sort.Strings(p.names)
	return p, nil
}

// SingleSample returns the pedigree of one affected individual of unknown sex.
func SingleSample(name string) *Pedigree {
	p, _ := New([]Individual{{Family: "FAM", Name: name, Affection: Affected}})
	return p
}

// Individuals returns the members ordered by name.
func (p *Pedigree) Individuals() []Individual {
	out := make([]Individual, len(p.names))
	for i, n := range p.names {
		out[i] = p.members[n]
	}
	return out
}

// Get returns a member by name.
func (p *Pedigree) Get(name string) (Individual, bool) {
	ind, ok := p.members[name]
	return ind, ok
}

// Affected returns the affected members ordered by name.
func (p *Pedigree) Affected() []Individual {
	var out []Individual
	for _, ind := range p.Individuals() {
		if ind.IsAffected() {
			out = append(out, ind)
		}
	}
	return out
}

// Unaffected returns the members known to be unaffected, ordered by name.
func (p *Pedigree) Unaffected() []Individual {
	var out []Individual
	for _, ind := range p.Individuals() {
		if ind.Affection == Unaffected {
			out = append(out, ind)
		}
	}
	return out
}

// Size returns the number of individuals.
func (p *Pedigree) Size() int { return len(p.names) }

// CheckSamples verifies every pedigree member has a VCF sample column.
func (p *Pedigree) CheckSamples(sampleNames []string) error {
	present := make(map[string]bool, len(sampleNames))
	for _, s := range sampleNames {
		present[s] = true
	}
	var missing []string
	for _, n := range p.names {
		if !present[n] {
			missing = append(missing, n)
		}
	}
	if len(missing) > 0 {
		return fmt.Errorf("pedigree individuals missing from VCF: %s", strings.Join(missing, ", "))
	}
	return nil
}

// Load reads a PED file.
func Load(path string) (*Pedigree, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open ped file: %w", err)
	}
	defer f.Close()

	return Parse(f)
}

// Parse reads PED content: six whitespace-separated columns per line
// (family, individual, father, mother, sex, affection). Lines starting with
// '#' are comments; "0" means unknown parent.
func Parse(r io.Reader) (*Pedigree, error) {
	scanner := bufio.NewScanner(r)
	var individuals []Individual
	lineNum := 0
	for scanner.Scan() {
		lineNum++
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		fields := strings.Fields(line)
		if len(fields) < 6 {
			return nil, &ParseError{Line: lineNum, Message: fmt.Sprintf("expected 6 columns, found %d", len(fields))}
		}
		ind := Individual{
			Family: fields[0],
			Name:   fields[1],
			Father: parent(fields[2]),
			Mother: parent(fields[3]),
		}
		switch fields[4] {
		case "1":
			ind.Sex = SexMale
		case "2":
			ind.Sex = SexFemale
		}
		switch fields[5] {
		case "1":
			ind.Affection = Unaffected
		case "2":
			ind.Affection = Affected
		case "0", "-9":
		default:
			return nil, &ParseError{Line: lineNum, Message: fmt.Sprintf("invalid affection status %q", fields[5])}
		}
		individuals = append(individuals, ind)
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("scan ped file: %w", err)
	}
	if len(individuals) == 0 {
		return nil, &ParseError{Line: lineNum, Message: "no individuals"}
	}
	return New(individuals)
}

func parent(field string) string {
	if field == "0" || field == "." {
		return ""
	}
	return field
}

// ParseError represents an error in a PED file with line context.
type ParseError struct {
	Line    int
	Message string
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("ped parse error at line %d: %s", e.Line, e.Message)
}
