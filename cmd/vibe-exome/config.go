package main

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"

	"github.com/inodb/vibe-exome/internal/config"
)

func newConfigCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Manage vibe-exome configuration",
		Long: "Show, get, or set configuration values. Config is stored in ~/.vibe-exome.yaml.\n\nKeys: " +
			strings.Join(config.Keys(), ", "),
		Example: `  vibe-exome config                                    # show effective settings
  vibe-exome config set frequencyDB ~/data/freq.duckdb # use population frequencies
  vibe-exome config set weights.priority 2             # favour phenotype evidence
  vibe-exome config set biotypes protein_coding,lncRNA # restrict known genes
  vibe-exome config get assembly`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return showSettings(cmd.OutOrStdout(), viper.GetViper())
		},
	}

	cmd.AddCommand(&cobra.Command{
		Use:   "set <key> <value>",
		Short: "Set a configuration value",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			path, err := setSetting(viper.GetViper(), args[0], args[1])
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Set %s = %s in %s\n", args[0], args[1], path)
			return nil
		},
	})
	cmd.AddCommand(&cobra.Command{
		Use:   "get <key>",
		Short: "Get a configuration value",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return getSetting(cmd.OutOrStdout(), viper.GetViper(), args[0])
		},
	})

	return cmd
}

// showSettings prints every setting, defaults included, as YAML.
func showSettings(w io.Writer, v *viper.Viper) error {
	out, err := yaml.Marshal(v.AllSettings())
	if err != nil {
		return fmt.Errorf("marshaling config: %w", err)
	}
	if cfg := v.ConfigFileUsed(); cfg != "" {
		fmt.Fprintf(w, "# %s\n", cfg)
	}
	_, err = w.Write(out)
	return err
}

// setSetting stores value under key, validates the resulting settings and
// writes the config file. It returns the file written.
func setSetting(v *viper.Viper, key, value string) (string, error) {
	canonical, ok := config.CanonicalKey(key)
	if !ok {
		return "", usageError{fmt.Errorf("unknown key %q (keys: %s)", key, strings.Join(config.Keys(), ", "))}
	}

	switch {
	case canonical == "biotypes":
		var biotypes []string
		for _, b := range strings.Split(value, ",") {
			if b = strings.TrimSpace(b); b != "" {
				biotypes = append(biotypes, b)
			}
		}
		v.Set(canonical, biotypes)
	case value == "true" || value == "yes" || value == "on":
		v.Set(canonical, true)
	case value == "false" || value == "no" || value == "off":
		v.Set(canonical, false)
	default:
		if n, err := strconv.ParseFloat(value, 64); err == nil {
			v.Set(canonical, n)
		} else {
			v.Set(canonical, value)
		}
	}

	if _, err := config.LoadSettings(v); err != nil {
		return "", usageError{err}
	}

	cfgFile := v.ConfigFileUsed()
	if cfgFile == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("cannot determine home directory: %w", err)
		}
		cfgFile = filepath.Join(home, ".vibe-exome.yaml")
	}
	if err := v.WriteConfigAs(cfgFile); err != nil {
		return "", fmt.Errorf("writing config: %w", err)
	}
	return cfgFile, nil
}

func getSetting(w io.Writer, v *viper.Viper, key string) error {
	canonical, ok := config.CanonicalKey(key)
	if !ok {
		return usageError{fmt.Errorf("unknown key %q", key)}
	}
	val := v.Get(canonical)
	if val == nil {
		return fmt.Errorf("key %q is not set", canonical)
	}
	if list, ok := val.([]string); ok {
		val = strings.Join(list, ",")
	}
	fmt.Fprintln(w, val)
	return nil
}
