package main

import (
	"context"
	"fmt"
	"io"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/bmatcuk/doublestar/v4"
	"github.com/fwojciec/wikitree"
	"github.com/fwojciec/wikitree/bloom"
	"github.com/fwojciec/wikitree/fs"
	"github.com/fwojciec/wikitree/html"
	"github.com/fwojciec/wikitree/ingest"
	wjson "github.com/fwojciec/wikitree/json"
	wslog "github.com/fwojciec/wikitree/slog"
	"github.com/fwojciec/wikitree/sqlite"
	"github.com/fwojciec/wikitree/xml"
)

// Run executes the parse command.
func (c *ParseCmd) Run(deps *Dependencies) (err error) {
	if c.Out == "" && !c.Std {
		return wikitree.Errorf(wikitree.EINVALID, "an output path (-o) is required unless printing to stdout (-s)")
	}

	builder, err := c.Builder()
	if err != nil {
		fmt.Fprintf(deps.Stderr, "error: %s\n", wikitree.ErrorMessage(err))
		return err
	}

	dumps, err := ExpandDumps(c.Dumps)
	if err != nil {
		fmt.Fprintf(deps.Stderr, "error: %s\n", wikitree.ErrorMessage(err))
		return err
	}

	var sinks []io.Writer
	if c.Out != "" {
		out, cerr := fs.CreateOutput(c.Out)
		if cerr != nil {
			return fmt.Errorf("create output: %w", cerr)
		}
		defer func() {
			if err != nil {
				_ = out.Abort()
				return
			}
			err = out.Commit()
		}()
		sinks = append(sinks, out)
	}
	if c.Std {
		sinks = append(sinks, deps.Stdout)
	}

	errOut := deps.Stderr
	if path := c.errorsPath(); path != "" {
		f, cerr := fs.CreateOutput(path)
		if cerr != nil {
			return fmt.Errorf("create error log: %w", cerr)
		}
		// Rows written before a failure are kept.
		defer func() {
			if cerr := f.Commit(); err == nil {
				err = cerr
			}
		}()
		errOut = f
	}

	records := wjson.NewRecordWriter(io.MultiWriter(sinks...))
	errLog := fs.NewErrorLog(errOut)

	var seen wikitree.TitleSet
	if c.Dedup {
		seen = bloom.NewFilter(bloom.DefaultCapacity, bloom.DefaultFalsePositiveRate)
	}

	total := &ingest.Result{}
	for _, path := range dumps {
		res, err := c.ingest(deps, path, builder, records, errLog, seen)
		addResult(total, res)
		if err != nil {
			_ = errLog.Close()
			return fmt.Errorf("%s: %w", path, err)
		}
	}

	if err := records.Close(); err != nil {
		return fmt.Errorf("close output: %w", err)
	}
	if err := errLog.Close(); err != nil {
		return fmt.Errorf("close error log: %w", err)
	}

	if !c.Std {
		fmt.Fprintln(deps.Stderr, formatSummary(total))
	}
	return nil
}

// ingest converts one dump. Records are also stored when a database is
// configured, as one run per dump.
func (c *ParseCmd) ingest(deps *Dependencies, path string, builder *wikitree.Builder, records wikitree.RecordWriter, errs wikitree.ErrorWriter, seen wikitree.TitleSet) (res *ingest.Result, err error) {
	dump, err := fs.OpenDump(path)
	if err != nil {
		return nil, err
	}
	defer dump.Close()

	var opts []xml.Option
	if !c.Std {
		line := &progressLine{w: deps.Stderr, name: filepath.Base(path)}
		opts = append(opts, xml.WithProgress(c.ProgressPeriod, line.update))
		defer line.done()
	}

	if deps.DB != nil {
		run := &wikitree.Run{Source: path}
		if err := deps.Runs.CreateRun(deps.Ctx, run); err != nil {
			return nil, fmt.Errorf("create run: %w", err)
		}

		store := sqlite.NewRunWriter(deps.DB, run.ID, 0)
		defer func() {
			// The writer's transaction must end before the run is updated.
			if cerr := store.Close(); err == nil && cerr != nil {
				err = fmt.Errorf("store pages: %w", cerr)
				return
			}
			var upd wikitree.RunUpdate
			if res != nil {
				upd = wikitree.RunUpdate{Records: res.Records, Failed: res.Failed}
			}
			if ferr := deps.Runs.FinishRun(context.WithoutCancel(deps.Ctx), run.ID, upd); err == nil && ferr != nil {
				err = fmt.Errorf("finish run: %w", ferr)
			}
		}()

		records = wikitree.MultiRecordWriter(records, store)
		errs = wikitree.MultiErrorWriter(errs, store)
	}

	logger := deps.logger().With("dump", path)
	in := &ingest.Ingester{
		Pages:       wslog.NewLoggingPageSource(xml.NewPageReader(dump, opts...), logger),
		Builder:     builder,
		Records:     wslog.NewLoggingRecordWriter(records, logger),
		Errors:      wslog.NewLoggingErrorWriter(errs, logger),
		Seen:        seen,
		Logger:      logger,
		Concurrency: c.Concurrency,
	}
	return in.Run(deps.Ctx)
}

// errorsPath returns where error rows go: the -e path, a file next to the
// output, or "" for stderr.
func (c *ParseCmd) errorsPath() string {
	if c.Errors != "" {
		return c.Errors
	}
	if c.Out != "" {
		return strings.TrimSuffix(c.Out, ".json") + ".errors.tsv"
	}
	return ""
}

// Builder returns the section tree builder configured by the flags.
func (c *ParseCmd) Builder() (*wikitree.Builder, error) {
	brackets := wikitree.Brackets{Open: c.Bra, Close: c.Ket}
	if err := brackets.Validate(); err != nil {
		return nil, err
	}

	engine := wikitree.NewBracketEngine()
	engine.Strict = c.Strict

	opts := []wikitree.Option{
		wikitree.WithKeepEmptyContent(c.KeepEmpty),
		wikitree.WithContentKey(c.ContentKey),
		wikitree.WithDefaultKey(c.DefaultKey),
	}

	if c.Norm != "" {
		i, err := strconv.Atoi(c.Norm)
		if err != nil {
			return nil, wikitree.Errorf(wikitree.EINVALID, "invalid title index %q", c.Norm)
		}
		opts = append(opts, wikitree.WithTitleNormalizer(
			engine.TitleNormalizer(wikitree.Index(i), wikitree.TemplateBrackets),
		))
	}

	var extractor wikitree.ContentExtractor
	if c.Template != "" || c.Extract != "" {
		normalizer := wikitree.IdentitySpan
		if c.Extract != "" {
			selector, err := wikitree.ParseSelector(c.Extract)
			if err != nil {
				return nil, err
			}
			normalizer = engine.Normalizer(selector, nil, brackets)
		}
		extractor = engine.ContentExtractor(c.Template, brackets, normalizer, c.KeepEmpty)
	}
	if c.StripMarkup {
		extractor = html.NewStripper().Wrap(extractor)
	}
	if extractor != nil {
		opts = append(opts, wikitree.WithContentExtractor(extractor))
	}

	return wikitree.NewBuilder(opts...), nil
}

// ExpandDumps expands glob patterns in paths, keeping their order. A path
// without glob syntax is kept as is even when it does not exist, so that
// opening it reports the error.
func ExpandDumps(paths []string) ([]string, error) {
	var dumps []string
	for _, p := range paths {
		if !strings.ContainsAny(p, "*?[{") {
			dumps = append(dumps, p)
			continue
		}
		matches, err := doublestar.FilepathGlob(p)
		if err != nil {
			return nil, wikitree.Errorf(wikitree.EINVALID, "invalid pattern %q", p)
		}
		if len(matches) == 0 {
			return nil, wikitree.Errorf(wikitree.ENOTFOUND, "no dump matches %q", p)
		}
		dumps = append(dumps, matches...)
	}
	return dumps, nil
}

func addResult(total, res *ingest.Result) {
	if res == nil {
		return
	}
	total.Pages += res.Pages
	total.Records += res.Records
	total.Failed += res.Failed
	total.Duplicates += res.Duplicates
	total.StreamErrors += res.StreamErrors
}
