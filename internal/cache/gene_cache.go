package cache

import (
	"encoding/gob"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"
)

// FileFingerprint holds stat-based identity for a file.
type FileFingerprint struct {
	Path    string
	Size    int64
	ModTime time.Time
}

// StatFile creates a FileFingerprint from an on-disk file.
func StatFile(path string) (FileFingerprint, error) {
	info, err := os.Stat(path)
	if err != nil {
		return FileFingerprint{}, err
	}
	return FileFingerprint{
		Path:    path,
		Size:    info.Size(),
		ModTime: info.ModTime(),
	}, nil
}

// GeneCache manages gob-serialized known genes on disk, stored alongside
// the GENCODE source file:
//
//	~/.vibe-exome/{assembly}/genes.gob       (serialized genes)
//	~/.vibe-exome/{assembly}/genes.gob.meta  (source file fingerprint)
type GeneCache struct {
	dir string
}

// NewGeneCache creates a gene cache for the given directory.
func NewGeneCache(dir string) *GeneCache {
	return &GeneCache{dir: dir}
}

func (gc *GeneCache) gobPath() string {
	return filepath.Join(gc.dir, "genes.gob")
}

func (gc *GeneCache) metaPath() string {
	return filepath.Join(gc.dir, "genes.gob.meta")
}

// Valid checks whether the cached genes were built from the given GTF.
func (gc *GeneCache) Valid(gtf FileFingerprint) bool {
	meta, err := gc.readMeta()
	if err != nil {
		return false
	}

	if meta["gtf_size"] != strconv.FormatInt(gtf.Size, 10) ||
		meta["gtf_modtime"] != gtf.ModTime.UTC().Format(time.RFC3339Nano) {
		return false
	}

	if _, err := os.Stat(gc.gobPath()); err != nil {
		return false
	}
	return true
}

// Load reads the serialized genes.
func (gc *GeneCache) Load() ([]KnownGene, error) {
	f, err := os.Open(gc.gobPath())
	if err != nil {
		return nil, fmt.Errorf("open gene cache: %w", err)
	}
	defer f.Close()

	var genes []KnownGene
	if err := gob.NewDecoder(f).Decode(&genes); err != nil {
		return nil, fmt.Errorf("decode gene cache: %w", err)
	}
	return genes, nil
}

// Write serializes genes to disk and records the GTF fingerprint.
func (gc *GeneCache) Write(genes []KnownGene, gtf FileFingerprint) error {
	if err := os.MkdirAll(gc.dir, 0755); err != nil {
		return fmt.Errorf("create gene cache directory: %w", err)
	}

	f, err := os.Create(gc.gobPath())
	if err != nil {
		return fmt.Errorf("create gene cache: %w", err)
	}

	if err := gob.NewEncoder(f).Encode(genes); err != nil {
		f.Close()
		os.Remove(gc.gobPath())
		return fmt.Errorf("encode gene cache: %w", err)
	}
	if err := f.Close(); err != nil {
		return fmt.Errorf("close gene cache: %w", err)
	}

	return gc.writeMeta(gtf)
}

// Clear removes the cached gene files.
func (gc *GeneCache) Clear() {
	os.Remove(gc.gobPath())
	os.Remove(gc.metaPath())
}

func (gc *GeneCache) writeMeta(gtf FileFingerprint) error {
	lines := []string{
		"gtf_size=" + strconv.FormatInt(gtf.Size, 10),
		"gtf_modtime=" + gtf.ModTime.UTC().Format(time.RFC3339Nano),
		"created_at=" + time.Now().UTC().Format(time.RFC3339),
		"",
	}
	return os.WriteFile(gc.metaPath(), []byte(strings.Join(lines, "\n")), 0644)
}

func (gc *GeneCache) readMeta() (map[string]string, error) {
	data, err := os.ReadFile(gc.metaPath())
	if err != nil {
		return nil, err
	}

	meta := make(map[string]string)
	for _, line := range strings.Split(string(data), "\n") {
		if k, v, ok := strings.Cut(line, "="); ok {
			meta[k] = v
		}
	}
	return meta, nil
}

// LoadKnownGenes returns the genes of a GTF file, using the on-disk cache
// in dir when it matches the file and refreshing it otherwise.
func LoadKnownGenes(gtfPath, dir string, biotypes []string) ([]KnownGene, bool, error) {
	fp, err := StatFile(gtfPath)
	if err != nil {
		return nil, false, fmt.Errorf("stat GTF file: %w", err)
	}

	gc := NewGeneCache(dir)
	if len(biotypes) == 0 && gc.Valid(fp) {
		if genes, err := gc.Load(); err == nil {
			return genes, true, nil
		}
	}

	loader := NewGTFLoader(gtfPath)
	loader.SetBiotypes(biotypes)
	genes, err := loader.Load()
	if err != nil {
		return nil, false, err
	}

	if len(biotypes) == 0 {
		if err := gc.Write(genes, fp); err != nil {
			return genes, false, fmt.Errorf("write gene cache: %w", err)
		}
	}
	return genes, false, nil
}
