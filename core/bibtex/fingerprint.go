package bibtex

import (
	"encoding/hex"
	"fmt"
	"sort"

	"github.com/zeebo/blake3"
)

// Fingerprint returns the BLAKE3 digest of a canonical rendering of the
// document. Two documents built from equal input have equal fingerprints,
// so the digest works as a cache or change-detection key.
func (b *Bibtex) Fingerprint() string {
	h := blake3.New()

	writeSection := func(name string, items []string) {
		fmt.Fprintf(h, "%s:%d\n", name, len(items))
		for _, item := range items {
			fmt.Fprintf(h, "%d:%s\n", len(item), item)
		}
	}

	writeSection("comments", b.comments)
	writeSection("preambles", b.preambles)

	names := make([]string, 0, len(b.variables))
	for name := range b.variables {
		names = append(names, name)
	}
	sort.Strings(names)
	fmt.Fprintf(h, "variables:%d\n", len(names))
	for _, name := range names {
		value := b.variables[name]
		fmt.Fprintf(h, "%d:%s=%d:%s\n", len(name), name, len(value), value)
	}

	fmt.Fprintf(h, "bibliographies:%d\n", len(b.bibliographies))
	for _, bib := range b.bibliographies {
		fmt.Fprintf(h, "%d:%s %d:%s\n", len(bib.entryType), bib.entryType, len(bib.citationKey), bib.citationKey)
		keys := make([]string, 0, len(bib.tags))
		for key := range bib.tags {
			keys = append(keys, key)
		}
		sort.Strings(keys)
		for _, key := range keys {
			value := bib.tags[key]
			fmt.Fprintf(h, "%d:%s=%d:%s\n", len(key), key, len(value), value)
		}
	}

	return hex.EncodeToString(h.Sum(nil))
}
