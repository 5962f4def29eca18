package main

import (
	"context"
	"io"
	"log/slog"

	"github.com/alecthomas/kong"
	"github.com/fwojciec/wikitree"
	"github.com/fwojciec/wikitree/sqlite"
)

// Dependencies holds all services and configuration for command execution.
type Dependencies struct {
	Ctx    context.Context
	Stdout io.Writer
	Stderr io.Writer
	Logger *slog.Logger

	// Set when a database is configured.
	DB    *sqlite.DB
	Runs  wikitree.RunService
	Pages wikitree.PageService

	// Set for the fetch command.
	Dumps wikitree.DumpService
}

func (d *Dependencies) logger() *slog.Logger {
	if d.Logger == nil {
		return slog.New(slog.DiscardHandler)
	}
	return d.Logger
}

// CLI defines the command-line interface structure for Kong.
type CLI struct {
	Config   kong.ConfigFlag `help:"Load flag values from a YAML file"`
	DB       string          `name:"db" env:"WIKITREE_DB" help:"SQLite database storing runs and converted pages"`
	LogLevel string          `name:"log-level" env:"WIKITREE_LOG_LEVEL" enum:"debug,info,warn,error" default:"warn" help:"Minimum level of log messages (${enum})"`

	Parse ParseCmd `cmd:"" help:"Convert the pages of dumps into section trees"`
	Show  ShowCmd  `cmd:"" help:"Print the stored trees of a page"`
	Info  InfoCmd  `cmd:"" help:"Print the site information of a dump"`
	Fetch FetchCmd `cmd:"" help:"Download a dump from a Wikimedia mirror"`
}

// ParseCmd is the "parse" subcommand.
type ParseCmd struct {
	Dumps  []string `arg:"" name:"dump" help:"Dump files (.xml or .xml.bz2); glob patterns such as dumps/**/*.bz2 are expanded"`
	Out    string   `short:"o" name:"out" help:"Path of the JSON output"`
	Errors string   `short:"e" name:"errors" help:"Path of the error log (default: next to the output, or stderr)"`
	Std    bool     `short:"s" name:"std" help:"Print the output on stdout"`

	Bra        string `short:"b" name:"bra" default:"{{" help:"Opening marker of bracketed expressions"`
	Ket        string `short:"k" name:"ket" default:"}}" help:"Closing marker of bracketed expressions"`
	KeepEmpty  bool   `short:"a" name:"add-empty" help:"Keep empty contents"`
	ContentKey string `short:"c" name:"content-key" default:"content" help:"Key holding the content of a section"`
	DefaultKey string `short:"d" name:"default-key" default:"unnamed" help:"Key of sections without a title"`
	Norm       string `short:"n" name:"norm" help:"Normalize section titles to this segment of their {{...}} expression"`
	Template   string `short:"t" name:"template" help:"Only extract bracketed expressions with this name"`
	Extract    string `short:"x" name:"extract" help:"Segment index (i), slice (i:j or i:) or attribute regex selecting extracted values"`
	Strict     bool   `short:"i" name:"strict" help:"Reject pages with an out of range segment index instead of logging it"`

	ProgressPeriod int  `name:"progress-period" default:"100000" help:"XML elements between two progress updates"`
	Dedup          bool `help:"Skip pages whose title was already written (Bloom filter; rare false positives are skipped too)"`
	Concurrency    int  `default:"1" help:"Number of pages converted at once"`
	StripMarkup    bool `name:"strip-markup" help:"Drop HTML comments, tags and <ref> bodies before extraction"`
}

// ShowCmd is the "show" subcommand.
type ShowCmd struct {
	Title string `arg:"" help:"Page title"`
	Run   string `help:"Only show the page from this run"`
	Limit int    `default:"10" help:"Maximum number of stored pages to print"`
}

// InfoCmd is the "info" subcommand.
type InfoCmd struct {
	Dump string `arg:"" type:"existingfile" help:"Dump file (.xml or .xml.bz2)"`
}

// FetchCmd is the "fetch" subcommand.
type FetchCmd struct {
	Wiki   string `arg:"" help:"Wiki database name, such as frwiktionary"`
	Date   string `default:"latest" help:"Dump run (YYYYMMDD or latest)"`
	Kind   string `default:"pages-articles" help:"Dump kind, such as pages-articles or pages-meta-current"`
	Dir    string `short:"r" name:"root" default:"." type:"path" help:"Directory receiving the dump"`
	Mirror string `default:"https://dumps.wikimedia.org" env:"WIKITREE_MIRROR" help:"Base URL of the dump mirror"`
	List   bool   `help:"List the XML files of the run instead of downloading"`
}
