package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"

	"github.com/inodb/vibe-exome/internal/analysis"
	"github.com/inodb/vibe-exome/internal/annotate"
	"github.com/inodb/vibe-exome/internal/cache"
	"github.com/inodb/vibe-exome/internal/config"
	"github.com/inodb/vibe-exome/internal/datasource"
	"github.com/inodb/vibe-exome/internal/datasource/alphamissense"
	"github.com/inodb/vibe-exome/internal/datasource/frequency"
	"github.com/inodb/vibe-exome/internal/duckdb"
	"github.com/inodb/vibe-exome/internal/filter"
	"github.com/inodb/vibe-exome/internal/output"
)

type analyseOptions struct {
	outputFile   string
	variantsFile string
	resultsDB    string
	gtf          string
	workers      int
	noCache      bool
}

func newAnalyseCmd(logger func() *zap.Logger) *cobra.Command {
	var opts analyseOptions

	cmd := &cobra.Command{
		Use:     "analyse <analysis.yml>",
		Aliases: []string{"analyze"},
		Short:   "Run an analysis and rank candidate genes",
		Long: `Run the filter and prioritiser steps of an analysis file over its VCF and
write the ranked genes as tab-separated text.

Known genes come from the GENCODE GTF found under the data directory
(see "vibe-exome download") or the gtf setting.`,
		Example: `  vibe-exome analyse analysis.yml
  vibe-exome analyse -o genes.tsv --variants variants.tsv analysis.yml
  vibe-exome analyse --results-db results.duckdb analysis.yml`,
		Args: func(cmd *cobra.Command, args []string) error {
			if err := cobra.ExactArgs(1)(cmd, args); err != nil {
				return usageError{err}
			}
			return nil
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			log := logger()
			defer log.Sync() //nolint:errcheck
			return runAnalyse(ctx, log, args[0], opts)
		},
	}

	cmd.Flags().StringVarP(&opts.outputFile, "output", "o", "", "Gene output file (default: stdout)")
	cmd.Flags().StringVar(&opts.variantsFile, "variants", "", "Also write every loaded variant to this file")
	cmd.Flags().StringVar(&opts.resultsDB, "results-db", "", "Store results in this DuckDB file (default: resultsDB setting)")
	cmd.Flags().StringVar(&opts.gtf, "gtf", "", "GENCODE GTF with known genes (default: from the data directory)")
	cmd.Flags().IntVar(&opts.workers, "workers", -1, "Worker goroutines, 0 for all CPUs (default: workers setting)")
	cmd.Flags().BoolVar(&opts.noCache, "no-cache", false, "Parse the GTF even when a cached gene list exists")

	return cmd
}

func runAnalyse(ctx context.Context, log *zap.Logger, analysisPath string, opts analyseOptions) error {
	settings, err := config.LoadSettings(viper.GetViper())
	if err != nil {
		return err
	}
	if opts.gtf != "" {
		settings.GTF = opts.gtf
	}
	if opts.workers >= 0 {
		settings.Workers = opts.workers
	}
	if opts.resultsDB != "" {
		settings.ResultsDB = opts.resultsDB
	}

	file, err := config.LoadAnalysis(analysisPath)
	if err != nil {
		return usageError{err}
	}
	a, err := file.Analysis(settings.Weights)
	if err != nil {
		return usageError{err}
	}
	if err := analysis.CheckSteps(a.Steps, a.InheritanceModes); err != nil {
		return usageError{err}
	}

	knownGenes, err := loadKnownGenes(log, settings, opts.noCache)
	if err != nil {
		return err
	}

	data, err := openDataService(log, settings)
	if err != nil {
		return err
	}
	defer data.Close()

	annotator := annotate.NewRegionAnnotator(knownGenes)
	annotator.SetLogger(log)

	runner := analysis.NewRunner(knownGenes, annotator, data)
	runner.SetLogger(log)
	runner.SetWorkers(settings.Workers)

	res, err := runner.Run(ctx, a)
	if err != nil {
		return err
	}
	log.Info("analysis complete",
		zap.String("run_id", res.RunID.String()),
		zap.Int("genes", len(res.Genes)),
		zap.Int("variants", len(res.Variants)))
	logFilterStats(log, "variant filter", res.VariantFilterStats)
	logFilterStats(log, "gene filter", res.GeneFilterStats)

	if err := writeGenes(opts.outputFile, res); err != nil {
		return err
	}
	if opts.variantsFile != "" {
		if err := writeVariants(opts.variantsFile, res); err != nil {
			return err
		}
	}

	if settings.ResultsDB != "" {
		store, err := duckdb.Open(settings.ResultsDB)
		if err != nil {
			return err
		}
		defer store.Close()
		if err := store.WriteResults(ctx, res); err != nil {
			return fmt.Errorf("store results: %w", err)
		}
		log.Info("results stored", zap.String("db", settings.ResultsDB), zap.String("run_id", res.RunID.String()))
	}
	return nil
}

func loadKnownGenes(log *zap.Logger, settings config.Settings, noCache bool) ([]cache.KnownGene, error) {
	gtfPath, found := settings.FindGTF()
	if !found {
		return nil, fmt.Errorf("no GENCODE GTF found for %s; run: vibe-exome download --assembly %s",
			settings.Assembly, settings.Assembly)
	}

	if noCache {
		loader := cache.NewGTFLoader(gtfPath)
		loader.SetBiotypes(settings.Biotypes)
		genes, err := loader.Load()
		if err != nil {
			return nil, err
		}
		log.Info("loaded known genes", zap.String("gtf", gtfPath), zap.Int("genes", len(genes)))
		return genes, nil
	}

	genes, cached, err := cache.LoadKnownGenes(gtfPath, settings.GeneCacheDir(), settings.Biotypes)
	if err != nil {
		return nil, err
	}
	log.Info("loaded known genes",
		zap.String("gtf", gtfPath),
		zap.Int("genes", len(genes)),
		zap.Bool("cached", cached))
	return genes, nil
}

// openDataService opens the configured reference stores. Missing settings
// leave the matching data unavailable.
func openDataService(log *zap.Logger, settings config.Settings) (*datasource.Service, error) {
	var (
		freqs    *frequency.Store
		missense *alphamissense.Store
		err      error
	)
	if settings.FrequencyDB != "" {
		freqs, err = frequency.Open(settings.FrequencyDB)
		if err != nil {
			return nil, err
		}
		log.Info("frequency data", zap.String("db", settings.FrequencyDB))
	}
	if settings.AlphaMissense != "" {
		missense, err = alphamissense.Open(settings.AlphaMissense)
		if err != nil {
			if freqs != nil {
				freqs.Close()
			}
			return nil, err
		}
		if settings.PreloadPathogenic {
			if err := missense.PreloadToMemory(); err != nil {
				log.Warn("could not preload AlphaMissense scores", zap.Error(err))
			}
		}
		log.Info("pathogenicity data", zap.String("db", settings.AlphaMissense))
	}
	return datasource.NewService(freqs, missense), nil
}

func writeGenes(path string, res *analysis.Results) error {
	out := os.Stdout
	if path != "" {
		f, err := os.Create(path)
		if err != nil {
			return fmt.Errorf("create gene output: %w", err)
		}
		defer f.Close()
		out = f
	}
	return output.NewGeneTSVWriter(out).WriteAll(res.Genes)
}

func writeVariants(path string, res *analysis.Results) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create variant output: %w", err)
	}
	defer f.Close()

	w := output.NewVariantTSVWriter(f)
	if err := w.WriteHeader(); err != nil {
		return err
	}
	for _, v := range res.Variants {
		if err := w.Write(v); err != nil {
			return fmt.Errorf("write variant %s: %w", v.Key(), err)
		}
	}
	return w.Flush()
}

func logFilterStats(log *zap.Logger, kind string, stats filter.Stats) {
	for _, t := range stats.Types() {
		c := stats[t]
		log.Info(kind,
			zap.String("filter", string(t)),
			zap.Int("passed", c.Passed),
			zap.Int("failed", c.Failed))
	}
}
