package main

import (
	"fmt"
	"path/filepath"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"

	"github.com/inodb/vibe-exome/internal/config"
	"github.com/inodb/vibe-exome/internal/datasource/alphamissense"
	"github.com/inodb/vibe-exome/internal/datasource/frequency"
)

func newLoadCmd(logger func() *zap.Logger) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "load",
		Short: "Import reference data into DuckDB",
		Long: `Import reference data TSV files into the DuckDB stores used by the
frequency and pathogenicity filters. Existing data in the store is replaced.`,
	}

	cmd.AddCommand(newLoadStoreCmd(logger, "frequency", "frequencyDB",
		"Import population frequencies (#CHROM POS REF ALT RSID SOURCE FREQ)",
		func(db, tsv string) (int64, error) {
			s, err := frequency.Open(db)
			if err != nil {
				return 0, err
			}
			defer s.Close()
			if err := s.Load(tsv); err != nil {
				return 0, err
			}
			return s.Count()
		}))

	cmd.AddCommand(newLoadStoreCmd(logger, "alphamissense", "alphaMissense",
		"Import AlphaMissense hg38 substitution scores (AlphaMissense_hg38.tsv.gz)",
		func(db, tsv string) (int64, error) {
			s, err := alphamissense.Open(db)
			if err != nil {
				return 0, err
			}
			defer s.Close()
			if err := s.Load(tsv); err != nil {
				return 0, err
			}
			return s.Count()
		}))

	return cmd
}

// newLoadStoreCmd builds a load subcommand writing to the DuckDB file named
// by the --db flag or the settingKey setting.
func newLoadStoreCmd(logger func() *zap.Logger, name, settingKey, short string, load func(db, tsv string) (int64, error)) *cobra.Command {
	var dbPath string

	cmd := &cobra.Command{
		Use:   name + " <file.tsv[.gz]>",
		Short: short,
		Args: func(cmd *cobra.Command, args []string) error {
			if err := cobra.ExactArgs(1)(cmd, args); err != nil {
				return usageError{err}
			}
			return nil
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			log := logger()
			defer log.Sync() //nolint:errcheck

			if dbPath == "" {
				dbPath = viper.GetString(settingKey)
			}
			if dbPath == "" {
				settings, err := config.LoadSettings(viper.GetViper())
				if err != nil {
					return err
				}
				dbPath = filepath.Join(settings.AssemblyDir(), name+".duckdb")
			}

			start := time.Now()
			log.Info("loading", zap.String("source", name), zap.String("tsv", args[0]), zap.String("db", dbPath))
			n, err := load(dbPath, args[0])
			if err != nil {
				return fmt.Errorf("load %s: %w", name, err)
			}
			log.Info("loaded",
				zap.String("source", name),
				zap.Int64("rows", n),
				zap.Duration("elapsed", time.Since(start).Round(time.Millisecond)))

			if viper.GetString(settingKey) == "" {
				fmt.Printf("To use this data, run:\n  vibe-exome config set %s %s\n", settingKey, dbPath)
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&dbPath, "db", "", fmt.Sprintf("DuckDB file (default: %s setting, or %s.duckdb in the data directory)", settingKey, name))
	return cmd
}
