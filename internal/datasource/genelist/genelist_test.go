package genelist

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const cancerGeneList = "Hugo Symbol\tEntrez Gene ID\tGene Type\tOncoKB Annotated\n" +
	"ABL1\t25\tONCOGENE\tYes\n" +
	"KRAS\t3845\tONCOGENE\tYes\n" +
	"TP53\t7157\tTSG\tYes\n" +
	"BRCA1\t672\tTSG\tYes\n" +
	"\t0\tTSG\tNo\n" +
	"SHORT\n"

func writeList(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "cancerGeneList.tsv")
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return path
}

func TestLoad(t *testing.T) {
	list, err := Load(writeList(t, cancerGeneList))
	require.NoError(t, err)
	assert.Len(t, list, 5)

	tests := []struct {
		gene     string
		geneType string
	}{
		{"ABL1", "ONCOGENE"},
		{"KRAS", "ONCOGENE"},
		{"TP53", "TSG"},
		{"BRCA1", "TSG"},
		{"SHORT", ""},
	}
	for _, tt := range tests {
		t.Run(tt.gene, func(t *testing.T) {
			e, ok := list[tt.gene]
			require.True(t, ok, "gene %s should be listed", tt.gene)
			assert.Equal(t, tt.gene, e.HugoSymbol)
			assert.Equal(t, tt.geneType, e.GeneType)
		})
	}
}

func TestLoad_SymbolOnly(t *testing.T) {
	list, err := Load(writeList(t, "#Symbol\nFGFR2\nFGFR3\n"))
	require.NoError(t, err)
	assert.True(t, list.Contains("FGFR2"))
	assert.True(t, list.Contains("FGFR3"))
	assert.False(t, list.Contains("TP53"))
}

func TestLoad_Errors(t *testing.T) {
	_, err := Load("/nonexistent/path.tsv")
	assert.Error(t, err)

	_, err = Load(writeList(t, ""))
	assert.Error(t, err)

	_, err = Load(writeList(t, "Name\tType\nTP53\tTSG\n"))
	assert.Error(t, err)
}
