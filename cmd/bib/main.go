// Command bib is the CLI tool for the bibtex library.
// It parses BibTeX databases, imports BibTeXML, and maintains a SQLite
// index of resolved bibliographies.
package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"time"

	"github.com/alecthomas/kong"
	"github.com/google/uuid"

	"github.com/FocuswithJustin/bibtex/core/bibtex"
	"github.com/FocuswithJustin/bibtex/core/store"
	"github.com/FocuswithJustin/bibtex/internal/formats/bibtexml"
	"github.com/FocuswithJustin/bibtex/internal/library"
	"github.com/FocuswithJustin/bibtex/internal/logging"
)

const version = "0.1.0"

// CLI defines the command-line interface for bib.
var CLI struct {
	// Global flags
	LogLevel  string `name:"log-level" default:"info" enum:"debug,info,warn,error" help:"Log level"`
	LogFormat string `name:"log-format" default:"text" enum:"text,json" help:"Log output format"`

	Parse   ParseCmd   `cmd:"" help:"Parse a BibTeX file and print the resolved document as JSON"`
	Raw     RawCmd     `cmd:"" help:"Print the raw entry stream of a BibTeX file without resolution"`
	Convert ConvertCmd `cmd:"" help:"Import a BibTeXML file and print the resolved document as JSON"`
	Index   IndexCmd   `cmd:"" help:"Index resolved bibliographies into a SQLite database"`
	Lookup  LookupCmd  `cmd:"" help:"Look up an indexed bibliography by citation key"`
	Keys    KeysCmd    `cmd:"" help:"List indexed citation keys"`
	Version VersionCmd `cmd:"" help:"Print version information"`
}

// runCtx carries the per-invocation request ID for logging.
var runCtx = context.Background()

// ParseCmd parses a BibTeX file and prints the resolved document.
type ParseCmd struct {
	Path string `arg:"" help:"BibTeX file (.bib or .bib.xz)" type:"existingfile"`
}

func (c *ParseCmd) Run() error {
	start := time.Now()
	doc, err := library.NewLoader(1).Load(c.Path)
	if err != nil {
		logging.ParseError(runCtx, c.Path, err)
		return err
	}
	logging.ParseEvent(runCtx, c.Path, len(doc.Bibliographies()), time.Since(start))
	return printJSON(renderDocument(doc))
}

// RawCmd prints the unresolved entry stream.
type RawCmd struct {
	Path string `arg:"" help:"BibTeX file (.bib or .bib.xz)" type:"existingfile"`
}

func (c *RawCmd) Run() error {
	data, err := library.ReadSource(c.Path)
	if err != nil {
		return err
	}
	entries, err := bibtex.RawParse(string(data))
	if err != nil {
		logging.ParseError(runCtx, c.Path, err)
		return err
	}
	return printJSON(renderRawEntries(entries))
}

// ConvertCmd imports a BibTeXML file.
type ConvertCmd struct {
	Path string `arg:"" help:"BibTeXML file" type:"existingfile"`
}

func (c *ConvertCmd) Run() error {
	f, err := os.Open(c.Path)
	if err != nil {
		return fmt.Errorf("failed to open %s: %w", c.Path, err)
	}
	defer f.Close()

	doc, err := bibtexml.Import(f)
	if err != nil {
		logging.ParseError(runCtx, c.Path, err)
		return err
	}
	logging.ParseEvent(runCtx, c.Path, len(doc.Bibliographies()), 0, "format", "bibtexml")
	return printJSON(renderDocument(doc))
}

// IndexCmd indexes resolved bibliographies into SQLite.
type IndexCmd struct {
	Path string `arg:"" help:"BibTeX file (.bib or .bib.xz)" type:"existingfile"`
	DB   string `name:"db" default:"bibliography.db" help:"SQLite database path"`
}

func (c *IndexCmd) Run() error {
	doc, err := library.NewLoader(1).Load(c.Path)
	if err != nil {
		logging.ParseError(runCtx, c.Path, err)
		return err
	}

	st, err := store.Open(c.DB)
	if err != nil {
		return err
	}
	defer st.Close()

	if err := st.Index(doc); err != nil {
		return err
	}
	logging.IndexEvent(runCtx, c.DB, len(doc.Bibliographies()), "source", c.Path)
	return nil
}

// LookupCmd prints one indexed bibliography.
type LookupCmd struct {
	Key string `arg:"" help:"Citation key"`
	DB  string `name:"db" default:"bibliography.db" help:"SQLite database path"`
}

func (c *LookupCmd) Run() error {
	st, err := store.OpenReadOnly(c.DB)
	if err != nil {
		return err
	}
	defer st.Close()

	rec, err := st.Lookup(c.Key)
	if err != nil {
		return err
	}
	if rec == nil {
		return fmt.Errorf("citation key %q is not indexed in %s", c.Key, c.DB)
	}
	return printJSON(rec)
}

// KeysCmd lists indexed citation keys.
type KeysCmd struct {
	DB string `name:"db" default:"bibliography.db" help:"SQLite database path"`
}

func (c *KeysCmd) Run() error {
	st, err := store.OpenReadOnly(c.DB)
	if err != nil {
		return err
	}
	defer st.Close()

	keys, err := st.Keys()
	if err != nil {
		return err
	}
	for _, key := range keys {
		fmt.Println(key)
	}
	return nil
}

// VersionCmd prints version information.
type VersionCmd struct{}

func (c *VersionCmd) Run() error {
	info := store.GetInfo()
	fmt.Printf("bib version %s (sqlite driver: %s/%s)\n", version, info.DriverName, info.DriverType)
	return nil
}

func printJSON(v any) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to encode output: %w", err)
	}
	fmt.Println(string(data))
	return nil
}

func main() {
	ctx := kong.Parse(&CLI,
		kong.Name("bib"),
		kong.Description("BibTeX parsing and bibliography indexing tool"),
		kong.UsageOnError(),
	)

	logging.InitLogger(parseLevel(CLI.LogLevel), parseFormat(CLI.LogFormat))
	runCtx = logging.WithRequestID(context.Background(), uuid.NewString())

	err := ctx.Run()
	ctx.FatalIfErrorf(err)
}

func parseLevel(level string) logging.Level {
	switch level {
	case "debug":
		return logging.LevelDebug
	case "warn":
		return logging.LevelWarn
	case "error":
		return logging.LevelError
	default:
		return logging.LevelInfo
	}
}

func parseFormat(format string) logging.Format {
	if format == "json" {
		return logging.FormatJSON
	}
	return logging.FormatText
}
