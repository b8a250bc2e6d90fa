// Package library loads BibTeX databases from disk, with transparent xz
// decompression and an LRU cache keyed by content hash.
package library

import (
	"bytes"
	"encoding/hex"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/ulikunitz/xz"
	"github.com/zeebo/blake3"

	"github.com/FocuswithJustin/bibtex/core/bibtex"
	"github.com/FocuswithJustin/bibtex/core/cache"
)

// Loader reads and parses bibliography files. Re-loading a file whose
// content is unchanged returns the cached document without re-parsing.
type Loader struct {
	cache *cache.DocumentCache
}

// NewLoader creates a loader caching up to maxEntries parsed documents.
func NewLoader(maxEntries int) *Loader {
	config := cache.DefaultConfig()
	config.MaxSize = maxEntries
	return &Loader{cache: cache.NewDocumentCache(config)}
}

// Load reads, decompresses and parses the file at path. Files with an .xz
// extension are decompressed first; the cache key is the BLAKE3 hash of the
// decompressed content, so renamed or recompressed copies still hit.
func (l *Loader) Load(path string) (*bibtex.Bibtex, error) {
	data, err := ReadSource(path)
	if err != nil {
		return nil, err
	}

	sum := blake3.Sum256(data)
	key := hex.EncodeToString(sum[:])
	if doc, ok := l.cache.Get(key); ok {
		return doc, nil
	}

	doc, err := bibtex.Parse(string(data))
	if err != nil {
		return nil, err
	}
	l.cache.Put(key, doc)
	return doc, nil
}

// Stats returns the loader's cache statistics.
func (l *Loader) Stats() cache.Stats {
	return l.cache.Stats()
}

// ReadSource reads a bibliography file, decompressing .xz transparently.
func ReadSource(path string) ([]byte, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", path, err)
	}
	if !strings.EqualFold(filepath.Ext(path), ".xz") {
		return data, nil
	}
	r, err := xz.NewReader(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("failed to decompress %s: %w", path, err)
	}
	decompressed, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("failed to decompress %s: %w", path, err)
	}
	return decompressed, nil
}
