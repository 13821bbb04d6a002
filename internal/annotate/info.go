package annotate

import (
	"strings"

	"github.com/inodb/vibe-exome/internal/model"
)

// consequenceFormat is the field layout of a CSQ or ANN INFO value.
type consequenceFormat struct {
	key         string
	allele      int
	consequence int
	symbol      int
	geneID      int
}

// Default layouts when the header does not declare one.
var (
	vepFormat = consequenceFormat{key: "CSQ", allele: 0, consequence: 1, symbol: 3, geneID: 4}
	annFormat = consequenceFormat{key: "ANN", allele: 0, consequence: 1, symbol: 3, geneID: 4}
)

// Field names that identify columns in declared layouts.
var (
	alleleFields      = []string{"Allele"}
	consequenceFields = []string{"Consequence", "Annotation"}
	symbolFields      = []string{"SYMBOL", "Gene_Name"}
	geneIDFields      = []string{"Gene", "Gene_ID"}
)

// parseFormatLine reads the "Format: a|b|c" (VEP) or "'a | b | c'" (SnpEff)
// layout from an ##INFO header line for CSQ or ANN.
func parseFormatLine(line string) (consequenceFormat, bool) {
	var f consequenceFormat
	switch {
	case strings.HasPrefix(line, "##INFO=<ID=CSQ,"):
		f = vepFormat
	case strings.HasPrefix(line, "##INFO=<ID=ANN,"):
		f = annFormat
	default:
		return consequenceFormat{}, false
	}

	_, desc, ok := strings.Cut(line, "Description=\"")
	if !ok {
		return f, true
	}
	desc, _, _ = strings.Cut(desc, "\"")
	if i := strings.Index(desc, "Format: "); i >= 0 {
		desc = desc[i+len("Format: "):]
	} else if i := strings.Index(desc, "'"); i >= 0 {
		desc = strings.Trim(desc[i:], "' ")
	} else {
		return f, true
	}

	fields := strings.Split(desc, "|")
	for i := range fields {
		fields[i] = strings.TrimSpace(fields[i])
	}
	f.allele = fieldIndex(fields, alleleFields, f.allele)
	f.consequence = fieldIndex(fields, consequenceFields, f.consequence)
	f.symbol = fieldIndex(fields, symbolFields, f.symbol)
	f.geneID = fieldIndex(fields, geneIDFields, f.geneID)
	return f, true
}

func fieldIndex(fields, names []string, fallback int) int {
	for i, f := range fields {
		for _, n := range names {
			if f == n {
				return i
			}
		}
	}
	return fallback
}

// consequenceEntry is one allele/transcript entry of a CSQ or ANN value.
type consequenceEntry struct {
	allele string
	effect model.VariantEffect
	symbol string
	geneID string
}

func (f consequenceFormat) entries(value string) []consequenceEntry {
	var out []consequenceEntry
	for _, raw := range strings.Split(value, ",") {
		cols := strings.Split(raw, "|")
		out = append(out, consequenceEntry{
			allele: column(cols, f.allele),
			effect: model.ParseEffect(column(cols, f.consequence)),
			symbol: column(cols, f.symbol),
			geneID: column(cols, f.geneID),
		})
	}
	return out
}

func column(cols []string, i int) string {
	if i < 0 || i >= len(cols) {
		return ""
	}
	return cols[i]
}

// mostSevere returns the most severe entry for alt. Entries for other
// alleles are ignored unless none match; the earlier entry wins ties.
func mostSevere(entries []consequenceEntry, ref, alt string) (consequenceEntry, bool) {
	trimmed := trimmedAllele(ref, alt)
	var matching []consequenceEntry
	for _, e := range entries {
		if e.allele == alt || e.allele == trimmed {
			matching = append(matching, e)
		}
	}
	if len(matching) == 0 {
		matching = entries
	}
	if len(matching) == 0 {
		return consequenceEntry{}, false
	}

	best := matching[0]
	for _, e := range matching[1:] {
		if e.effect.DefaultPathogenicityScore() > best.effect.DefaultPathogenicityScore() {
			best = e
		}
	}
	return best, true
}

// trimmedAllele returns alt without the base shared with ref, "-" when
// nothing remains, the way VEP writes indel alleles.
func trimmedAllele(ref, alt string) string {
	if len(ref) == 0 || len(alt) == 0 || ref[0] != alt[0] {
		return alt
	}
	if len(alt) == 1 {
		return "-"
	}
	return alt[1:]
}
