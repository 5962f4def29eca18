// Package ingest drives the conversion of a dump: it pulls pages from a
// source, builds their section trees and routes each page to the record
// writer or the error log.
package ingest

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"time"

	"github.com/fwojciec/wikitree"
	"golang.org/x/sync/errgroup"
)

// Ingester converts every page of a source.
//
// A page that fails to convert produces exactly one error row and no record;
// the run carries on with the next page. Malformed dump fragments are
// logged and skipped. The run stops on read or write errors and on errors
// for which wikitree.IsFatal reports true.
//
// Ingester does not close its writers.
type Ingester struct {
	Pages   wikitree.PageSource
	Builder *wikitree.Builder
	Records wikitree.RecordWriter
	Errors  wikitree.ErrorWriter

	// Seen, if set, skips pages whose title was already written.
	Seen wikitree.TitleSet

	Logger *slog.Logger

	// Concurrency is the number of pages converted at once. Values below 2
	// convert pages one at a time. Records are written in dump order either
	// way; with more than one worker the Builder's strategies must be safe
	// for concurrent use.
	Concurrency int
}

// Result holds the outcome of a run.
type Result struct {
	Pages        int // pages read
	Records      int // records written
	Failed       int // error rows written
	Duplicates   int // pages skipped by Seen
	StreamErrors int // malformed fragments skipped
}

// outcome is the conversion of one page.
type outcome struct {
	tree *wikitree.SectionTree
	err  error
}

// Run converts pages until the source is exhausted.
func (in *Ingester) Run(ctx context.Context) (*Result, error) {
	if in.Pages == nil || in.Builder == nil || in.Records == nil || in.Errors == nil {
		return nil, wikitree.Errorf(wikitree.EINVALID, "ingester requires pages, builder, records and errors")
	}

	start := time.Now()
	res := &Result{}

	var err error
	if in.Concurrency > 1 {
		err = in.runConcurrent(ctx, res)
	} else {
		err = in.runSequential(ctx, res)
	}

	in.logger().Info("ingest finished",
		"pages", res.Pages,
		"records", res.Records,
		"failed", res.Failed,
		"duplicates", res.Duplicates,
		"stream_errors", res.StreamErrors,
		"duration", time.Since(start),
		"error", err,
	)
	return res, err
}

func (in *Ingester) logger() *slog.Logger {
	if in.Logger == nil {
		return slog.New(slog.DiscardHandler)
	}
	return in.Logger
}

func (in *Ingester) runSequential(ctx context.Context, res *Result) error {
	for {
		if err := ctx.Err(); err != nil {
			return err
		}

		page, err := in.Pages.Next(ctx)
		if err == io.EOF {
			return nil
		} else if err != nil {
			if err := in.sourceError(err, res); err != nil {
				return err
			}
			continue
		}

		if err := in.handle(ctx, page, in.build(page), res); err != nil {
			return err
		}
	}
}

// job is one slot in dump order: a page being converted or a source error.
type job struct {
	page *wikitree.Page
	err  error
	out  chan outcome
}

// runConcurrent converts pages in a bounded worker pool. A single producer
// reads the source and queues jobs in dump order; the caller's goroutine
// consumes them in that same order.
func (in *Ingester) runConcurrent(ctx context.Context, res *Result) error {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	var g errgroup.Group
	g.SetLimit(in.Concurrency)

	pending := make(chan *job, in.Concurrency)
	produced := make(chan struct{})

	go func() {
		defer close(produced)
		defer close(pending)

		for ctx.Err() == nil {
			page, err := in.Pages.Next(ctx)
			if err == io.EOF {
				return
			}

			j := &job{page: page, err: err}
			if err == nil {
				j.out = make(chan outcome, 1)
				g.Go(func() error {
					j.out <- in.build(page)
					return nil
				})
			}

			select {
			case pending <- j:
			case <-ctx.Done():
				return
			}

			var se *wikitree.StreamError
			if err != nil && !errors.As(err, &se) {
				return
			}
		}
	}()

	err := in.consume(ctx, pending, res)

	cancel()
	for range pending {
	}
	<-produced
	_ = g.Wait()

	return err
}

func (in *Ingester) consume(ctx context.Context, pending <-chan *job, res *Result) error {
	for j := range pending {
		if j.err != nil {
			if err := in.sourceError(j.err, res); err != nil {
				return err
			}
			continue
		}
		if err := in.handle(ctx, j.page, <-j.out, res); err != nil {
			return err
		}
	}
	return ctx.Err()
}

func (in *Ingester) build(page *wikitree.Page) outcome {
	tree, err := in.Builder.Build(page.Text, page.Path())
	return outcome{tree: tree, err: err}
}

// sourceError counts malformed dump fragments and returns any other error.
// Fragments are logged by the page source decorator.
func (in *Ingester) sourceError(err error, res *Result) error {
	var se *wikitree.StreamError
	if errors.As(err, &se) {
		res.StreamErrors++
		return nil
	}
	return fmt.Errorf("read page: %w", err)
}

// handle writes the record or the error row for one converted page.
func (in *Ingester) handle(ctx context.Context, page *wikitree.Page, o outcome, res *Result) error {
	res.Pages++

	if o.err != nil {
		if wikitree.IsFatal(o.err) {
			return fmt.Errorf("page %q: %w", page.Title, o.err)
		}
		perr := pageError(page, o.err)
		in.logger().Debug("page failed", "title", page.Title, "kind", perr.Kind, "localization", perr.Localization)
		if err := in.Errors.WriteError(ctx, perr); err != nil {
			return fmt.Errorf("write error row: %w", err)
		}
		res.Failed++
		return nil
	}

	if in.Seen != nil {
		if in.Seen.Test(page.Title) {
			in.logger().Debug("duplicate page skipped", "title", page.Title)
			res.Duplicates++
			return nil
		}
		in.Seen.Add(page.Title)
	}

	if err := in.Records.WriteRecord(ctx, &wikitree.Record{Page: page, Content: o.tree}); err != nil {
		return fmt.Errorf("write record: %w", err)
	}
	res.Records++
	return nil
}

// pageError turns a page failure into an error row. Failures other than
// parse errors are reported under their error code, localized at the page.
func pageError(page *wikitree.Page, err error) *wikitree.ParseError {
	var perr *wikitree.ParseError
	if errors.As(err, &perr) {
		return perr
	}
	msg := err.Error()
	var e *wikitree.Error
	if errors.As(err, &e) {
		msg = e.Message
	}
	return wikitree.NewParseError(wikitree.ErrorKind(wikitree.ErrorCode(err)), page.Path(), msg)
}
