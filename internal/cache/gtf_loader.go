package cache

import (
	"bufio"
	"compress/gzip"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
)

// GTFLoader loads gene records from GENCODE GTF files.
type GTFLoader struct {
	path     string
	biotypes map[string]bool
}

// NewGTFLoader creates a new GTF loader.
func NewGTFLoader(path string) *GTFLoader {
	return &GTFLoader{path: path}
}

// SetBiotypes restricts loading to genes of the given biotypes. An empty
// list loads every gene.
func (l *GTFLoader) SetBiotypes(biotypes []string) {
	l.biotypes = nil
	if len(biotypes) == 0 {
		return
	}
	l.biotypes = make(map[string]bool, len(biotypes))
	for _, b := range biotypes {
		l.biotypes[b] = true
	}
}

// Load reads every gene feature from the GTF file, in file order.
func (l *GTFLoader) Load() ([]KnownGene, error) {
	f, err := os.Open(l.path)
	if err != nil {
		return nil, fmt.Errorf("open GTF file: %w", err)
	}
	defer f.Close()

	var reader io.Reader = f

	// Handle gzipped files
	if strings.HasSuffix(l.path, ".gz") {
		gz, err := gzip.NewReader(f)
		if err != nil {
			return nil, fmt.Errorf("open gzip reader: %w", err)
		}
		defer gz.Close()
		reader = gz
	}

	return l.parseGTF(reader)
}

// parseGTF collects "gene" features; transcript-level lines are skipped.
func (l *GTFLoader) parseGTF(reader io.Reader) ([]KnownGene, error) {
	scanner := bufio.NewScanner(reader)
	// Increase buffer size for long lines
	buf := make([]byte, 0, 64*1024)
	scanner.Buffer(buf, 1024*1024)

	var genes []KnownGene
	for scanner.Scan() {
		line := scanner.Text()

		if strings.HasPrefix(line, "#") || line == "" {
			continue
		}

		// Cheap check on the feature column before splitting the attributes.
		fields := strings.SplitN(line, "\t", 9)
		if len(fields) < 9 || fields[2] != "gene" {
			continue
		}

		g, err := parseGeneLine(fields)
		if err != nil {
			continue // Skip malformed lines
		}
		if g.Symbol == "" {
			continue
		}
		if l.biotypes != nil && !l.biotypes[g.Biotype] {
			continue
		}
		genes = append(genes, g)
	}

	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("scan GTF: %w", err)
	}

	return genes, nil
}

// parseGeneLine converts the nine GTF columns of a gene feature.
func parseGeneLine(fields []string) (KnownGene, error) {
	start, err := strconv.ParseInt(fields[3], 10, 64)
	if err != nil {
		return KnownGene{}, fmt.Errorf("parse start: %w", err)
	}

	end, err := strconv.ParseInt(fields[4], 10, 64)
	if err != nil {
		return KnownGene{}, fmt.Errorf("parse end: %w", err)
	}

	attrs := parseAttributes(fields[8])
	return KnownGene{
		ID:      stripVersion(attrs["gene_id"]),
		Symbol:  attrs["gene_name"],
		Chrom:   normalizeChrom(fields[0]),
		From:    start,
		To:      end,
		Strand:  parseStrand(fields[6]),
		Biotype: attrs["gene_type"],
	}, nil
}

// parseAttributes parses GTF attribute column.
// Format: key "value"; key "value"; ...
func parseAttributes(attrStr string) map[string]string {
	attrs := make(map[string]string)

	for _, part := range strings.Split(attrStr, ";") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}

		key, value, ok := strings.Cut(part, " ")
		if !ok {
			continue
		}

		attrs[key] = strings.Trim(strings.TrimSpace(value), "\"")
	}

	return attrs
}

// parseStrand converts strand string to int8.
func parseStrand(s string) int8 {
	if s == "-" {
		return -1
	}
	return 1
}

// stripVersion removes the version suffix from an Ensembl ID.
// e.g., "ENSG00000133703.14" -> "ENSG00000133703"
func stripVersion(id string) string {
	if idx := strings.LastIndex(id, "."); idx != -1 {
		return id[:idx]
	}
	return id
}

// normalizeChrom normalizes chromosome names by removing "chr" prefix.
func normalizeChrom(chrom string) string {
	if strings.HasPrefix(chrom, "chr") {
		return chrom[3:]
	}
	return chrom
}
