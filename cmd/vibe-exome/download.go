package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/cenkalti/backoff"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"

	"github.com/inodb/vibe-exome/internal/cache"
	"github.com/inodb/vibe-exome/internal/config"
)

// GENCODE FTP URLs
const (
	gencodeBaseURL = "https://ftp.ebi.ac.uk/pub/databases/gencode/Gencode_human/release_46"
	gencodeVersion = "v46"
)

// maxDownloadRetries bounds the attempts per file after the first.
const maxDownloadRetries = 4

// getGENCODEURL returns the GTF URL for the given assembly.
func getGENCODEURL(assembly string) string {
	if strings.EqualFold(assembly, "GRCh37") {
		return fmt.Sprintf("%s/GRCh37_mapping/gencode.%slift37.annotation.gtf.gz", gencodeBaseURL, gencodeVersion)
	}
	return fmt.Sprintf("%s/gencode.%s.annotation.gtf.gz", gencodeBaseURL, gencodeVersion)
}

func newDownloadCmd(logger func() *zap.Logger) *cobra.Command {
	var (
		assembly  string
		outputDir string
		noCache   bool
	)

	cmd := &cobra.Command{
		Use:   "download",
		Short: "Download GENCODE gene annotations",
		Long: `Download the GENCODE GTF that defines the known genes and build the
gene cache from it. Files already present are kept.

File downloaded:
  gencode.v46.annotation.gtf.gz (~50MB for GRCh38)`,
		Example: `  vibe-exome download
  vibe-exome download --assembly GRCh37
  vibe-exome download --output /data/vibe-exome`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			log := logger()
			defer log.Sync() //nolint:errcheck

			settings, err := config.LoadSettings(viper.GetViper())
			if err != nil {
				return err
			}
			if outputDir != "" {
				settings.DataDir = outputDir
			}
			if assembly != "" {
				settings.Assembly = assembly
			}
			switch strings.ToUpper(settings.Assembly) {
			case "GRCH37", "GRCH38":
			default:
				return usageError{fmt.Errorf("unsupported assembly %q: use GRCh37 or GRCh38", settings.Assembly)}
			}
			if settings.DataDir == "" {
				return errors.New("cannot determine data directory: use --output")
			}

			destDir := settings.AssemblyDir()
			if err := os.MkdirAll(destDir, 0755); err != nil {
				return fmt.Errorf("create directory %s: %w", destDir, err)
			}

			gtfURL := getGENCODEURL(settings.Assembly)
			gtfFile := filepath.Join(destDir, filepath.Base(gtfURL))
			fmt.Printf("Downloading GENCODE %s annotations for %s...\n", gencodeVersion, settings.Assembly)
			fmt.Printf("Destination: %s\n\n", destDir)

			if err := downloadWithRetry(cmd.Context(), log, gtfURL, gtfFile); err != nil {
				return fmt.Errorf("download GTF: %w", err)
			}

			n, cached, err := buildGeneCache(gtfFile, settings.GeneCacheDir(), noCache)
			if err != nil {
				return err
			}
			if n > 0 && !cached {
				fmt.Printf("  Cached %d genes in %s\n", n, settings.GeneCacheDir())
			}

			fmt.Printf("\nDownload complete!\n")
			fmt.Printf("To analyse a sample, run:\n")
			fmt.Printf("  vibe-exome analyse analysis.yml\n")
			return nil
		},
	}

	cmd.Flags().StringVar(&assembly, "assembly", "", "Genome assembly: GRCh37 or GRCh38 (default: assembly setting)")
	cmd.Flags().StringVar(&outputDir, "output", "", "Output directory (default: dataDir setting, ~/.vibe-exome)")
	cmd.Flags().BoolVar(&noCache, "no-cache", false, "Skip building the gene cache and remove any existing one")

	return cmd
}

// buildGeneCache caches the known genes of gtfFile in dir and returns how
// many there are. With skip set it only removes an existing cache, which
// would describe an earlier GTF.
func buildGeneCache(gtfFile, dir string, skip bool) (int, bool, error) {
	if skip {
		cache.NewGeneCache(dir).Clear()
		return 0, false, nil
	}
	genes, cached, err := cache.LoadKnownGenes(gtfFile, dir, nil)
	if err != nil {
		return 0, false, fmt.Errorf("build gene cache: %w", err)
	}
	return len(genes), cached, nil
}

// downloadWithRetry retries transient failures with exponential backoff.
// HTTP 4xx responses are not retried.
func downloadWithRetry(ctx context.Context, log *zap.Logger, url, destPath string) error {
	b := backoff.NewExponentialBackOff()
	b.InitialInterval = 2 * time.Second
	b.MaxElapsedTime = 10 * time.Minute

	attempt := 0
	return backoff.Retry(func() error {
		attempt++
		if err := ctx.Err(); err != nil {
			return backoff.Permanent(err)
		}
		err := downloadFile(ctx, url, destPath)
		if err != nil {
			var se *statusError
			if errors.As(err, &se) && se.code >= 400 && se.code < 500 {
				return backoff.Permanent(err)
			}
			log.Warn("download failed, retrying",
				zap.String("url", url),
				zap.Int("attempt", attempt),
				zap.Error(err))
		}
		return err
	}, backoff.WithMaxRetries(b, maxDownloadRetries))
}

// statusError is a non-200 HTTP response.
type statusError struct {
	code   int
	status string
}

func (e *statusError) Error() string { return "HTTP error: " + e.status }

// downloadFile downloads a file from URL to the destination path with progress.
func downloadFile(ctx context.Context, url, destPath string) error {
	if info, err := os.Stat(destPath); err == nil {
		fmt.Printf("  %s already exists (%s), skipping\n", filepath.Base(destPath), formatSize(info.Size()))
		return nil
	}

	fmt.Printf("  Downloading %s...\n", filepath.Base(destPath))

	client := &http.Client{
		Timeout: 30 * time.Minute,
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}
	resp, err := client.Do(req)
	if err != nil {
		return fmt.Errorf("HTTP request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return &statusError{code: resp.StatusCode, status: resp.Status}
	}

	tmpPath := destPath + ".tmp"
	f, err := os.Create(tmpPath)
	if err != nil {
		return fmt.Errorf("create file: %w", err)
	}

	var downloaded int64
	pw := &progressWriter{
		total:      resp.ContentLength,
		downloaded: &downloaded,
		lastPrint:  time.Now(),
	}

	_, err = io.Copy(f, io.TeeReader(resp.Body, pw))
	f.Close()

	if err != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("download failed: %w", err)
	}

	if err := os.Rename(tmpPath, destPath); err != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("rename file: %w", err)
	}

	fmt.Printf("\n    Done: %s\n", formatSize(downloaded))
	return nil
}

// progressWriter tracks download progress.
type progressWriter struct {
	total      int64
	downloaded *int64
	lastPrint  time.Time
}

func (pw *progressWriter) Write(p []byte) (int, error) {
	n := len(p)
	*pw.downloaded += int64(n)

	if time.Since(pw.lastPrint) > time.Second {
		if pw.total > 0 {
			pct := float64(*pw.downloaded) / float64(pw.total) * 100
			fmt.Printf("\r    Progress: %s / %s (%.1f%%)  ",
				formatSize(*pw.downloaded), formatSize(pw.total), pct)
		} else {
			fmt.Printf("\r    Progress: %s  ", formatSize(*pw.downloaded))
		}
		pw.lastPrint = time.Now()
	}

	return n, nil
}

// formatSize formats bytes as human-readable size.
func formatSize(bytes int64) string {
	const unit = 1024
	if bytes < unit {
		return fmt.Sprintf("%d B", bytes)
	}
	div, exp := int64(unit), 0
	for n := bytes / unit; n >= unit; n /= unit {
		div *= unit
		exp++
	}
	return fmt.Sprintf("%.1f %cB", float64(bytes)/float64(div), "KMGTPE"[exp])
}
