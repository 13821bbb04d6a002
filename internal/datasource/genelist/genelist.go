// Package genelist loads curated disease gene lists such as the OncoKB
// cancerGeneList.tsv.
package genelist

import (
	"bufio"
	"fmt"
	"os"
	"strings"
)

// Entry holds the annotations of one listed gene.
type Entry struct {
	HugoSymbol string
	GeneType   string // e.g. "ONCOGENE", "TSG" or "ONCOGENE,TSG"
}

// List maps Hugo Symbol to Entry.
type List map[string]*Entry

// Contains returns true if the gene is listed.
func (l List) Contains(gene string) bool {
	_, ok := l[gene]
	return ok
}

// symbolColumns are accepted names for the gene symbol column.
var symbolColumns = []string{"Hugo Symbol", "Gene Symbol", "Symbol", "Gene"}

// Load reads a TSV gene list. The header must contain a symbol column
// ("Hugo Symbol", "Gene Symbol", "Symbol" or "Gene"); a "Gene Type" column
// is read when present.
func Load(path string) (List, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open gene list: %w", err)
	}
	defer f.Close()

	scanner := bufio.NewScanner(f)

	// Read header to find column indices
	if !scanner.Scan() {
		if err := scanner.Err(); err != nil {
			return nil, fmt.Errorf("reading gene list: %w", err)
		}
		return nil, fmt.Errorf("gene list: empty file")
	}
	header := strings.Split(strings.TrimPrefix(scanner.Text(), "#"), "\t")

	symbolIdx := -1
	geneTypeIdx := -1
	for i, col := range header {
		col = strings.TrimSpace(col)
		if col == "Gene Type" {
			geneTypeIdx = i
			continue
		}
		for _, name := range symbolColumns {
			if col == name && symbolIdx < 0 {
				symbolIdx = i
			}
		}
	}
	if symbolIdx < 0 {
		return nil, fmt.Errorf("gene list: missing 'Hugo Symbol' column")
	}

	list := make(List)
	for scanner.Scan() {
		fields := strings.Split(scanner.Text(), "\t")
		if len(fields) <= symbolIdx {
			continue
		}
		hugo := strings.TrimSpace(fields[symbolIdx])
		if hugo == "" {
			continue
		}
		e := &Entry{HugoSymbol: hugo}
		if geneTypeIdx >= 0 && geneTypeIdx < len(fields) {
			e.GeneType = strings.TrimSpace(fields[geneTypeIdx])
		}
		list[hugo] = e
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("reading gene list: %w", err)
	}

	return list, nil
}
