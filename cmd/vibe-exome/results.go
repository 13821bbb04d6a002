package main

import (
	"fmt"
	"os"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/inodb/vibe-exome/internal/duckdb"
)

func newResultsCmd() *cobra.Command {
	var (
		dbPath string
		limit  int
		gene   string
	)

	cmd := &cobra.Command{
		Use:   "results [run-id]",
		Short: "Query stored analysis results",
		Long: `List stored runs, or show the top genes of one run. With --gene, show
the variants of that gene instead.`,
		Example: `  vibe-exome results
  vibe-exome results 6f1c2a8e-0d3b-4c55-9a47-2f7e3b1d9c10 --limit 20
  vibe-exome results 6f1c2a8e-0d3b-4c55-9a47-2f7e3b1d9c10 --gene FGFR2`,
		Args: func(cmd *cobra.Command, args []string) error {
			if err := cobra.MaximumNArgs(1)(cmd, args); err != nil {
				return usageError{err}
			}
			if gene != "" && len(args) == 0 {
				return usageError{fmt.Errorf("--gene needs a run id")}
			}
			return nil
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			if dbPath == "" {
				dbPath = viper.GetString("resultsDB")
			}
			if dbPath == "" {
				return usageError{fmt.Errorf("no results database: use --db or vibe-exome config set resultsDB <path>")}
			}
			if _, err := os.Stat(dbPath); err != nil {
				return err
			}

			store, err := duckdb.Open(dbPath)
			if err != nil {
				return err
			}
			defer store.Close()

			tw := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
			defer tw.Flush()

			switch {
			case len(args) == 0:
				return listRuns(tw, store)
			case gene != "":
				return showVariants(tw, store, args[0], gene)
			default:
				return showGenes(tw, store, args[0], limit)
			}
		},
	}

	cmd.Flags().StringVar(&dbPath, "db", "", "Results DuckDB file (default: resultsDB setting)")
	cmd.Flags().IntVarP(&limit, "limit", "n", 10, "Number of genes to show, 0 for all")
	cmd.Flags().StringVar(&gene, "gene", "", "Show the variants of this gene")

	return cmd
}

func listRuns(tw *tabwriter.Writer, store *duckdb.Store) error {
	runs, err := store.Runs()
	if err != nil {
		return err
	}
	fmt.Fprintln(tw, "RUN_ID\tCREATED\tVCF\tPROBAND\tSCORING\tMODES\tGENES\tVARIANTS")
	for _, r := range runs {
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\t%s\t%d\t%d\n",
			r.RunID, r.CreatedAt.Format("2006-01-02 15:04"), r.VCF, r.Proband,
			r.ScoringMode, strings.Join(r.Modes, ","), r.Genes, r.Variants)
	}
	return nil
}

func showGenes(tw *tabwriter.Writer, store *duckdb.Store, runID string, limit int) error {
	genes, err := store.TopGenes(runID, limit)
	if err != nil {
		return err
	}
	if len(genes) == 0 {
		return fmt.Errorf("no genes stored for run %s", runID)
	}
	fmt.Fprintln(tw, "RANK\tGENE\tMOI\tCOMBINED\tPRIORITY\tVARIANT\tPASSED")
	for _, g := range genes {
		fmt.Fprintf(tw, "%d\t%s\t%s\t%.4f\t%.4f\t%.4f\t%t\n",
			g.Rank, g.GeneSymbol, g.Mode, g.CombinedScore, g.PriorityScore, g.VariantScore, g.Passed)
	}
	return nil
}

func showVariants(tw *tabwriter.Writer, store *duckdb.Store, runID, gene string) error {
	variants, err := store.VariantsForGene(runID, gene)
	if err != nil {
		return err
	}
	fmt.Fprintln(tw, "VARIANT\tEFFECT\tSCORE\tPASSED\tFAILED\tCONTRIBUTES")
	for _, v := range variants {
		fmt.Fprintf(tw, "%s:%d:%s>%s\t%s\t%.4f\t%t\t%s\t%s\n",
			v.Chrom, v.Pos, v.Ref, v.Alt, v.Effect, v.Score, v.Passed,
			strings.Join(v.FailedFilters, ","), strings.Join(v.ContributingModes, ","))
	}
	return nil
}
