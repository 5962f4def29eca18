package main

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/fwojciec/wikitree"
	"github.com/fwojciec/wikitree/fs"
)

// Run downloads the dump of the selected kind, or lists the run's files.
func (c *FetchCmd) Run(deps *Dependencies) (err error) {
	if deps.Dumps == nil {
		return wikitree.Errorf(wikitree.EINTERNAL, "dump service not configured")
	}

	files, err := deps.Dumps.FindDumpFiles(deps.Ctx, c.Wiki, c.Date)
	if err != nil {
		return fmt.Errorf("%s/%s: %w", c.Wiki, c.Date, err)
	}

	if c.List {
		for _, f := range files {
			fmt.Fprintf(deps.Stdout, "%s\t%s\n", f.Name, f.URL)
		}
		return nil
	}

	file, err := selectDump(files, c.Kind)
	if err != nil {
		return err
	}

	out, err := fs.CreateOutput(filepath.Join(c.Dir, file.Name))
	if err != nil {
		return err
	}
	defer func() {
		if err != nil {
			_ = out.Abort()
			return
		}
		err = out.Commit()
	}()

	line := &progressLine{w: deps.Stderr, name: file.Name}
	n, err := deps.Dumps.Download(deps.Ctx, file, out, line.update)
	line.done()
	if err != nil {
		return err
	}

	fmt.Fprintf(deps.Stderr, "%s %s\n", out.Path(), dimStyle.Render(formatBytes(n)))
	return nil
}

// selectDump returns the compressed dump of the given kind.
func selectDump(files []*wikitree.DumpFile, kind string) (*wikitree.DumpFile, error) {
	suffix := "-" + kind + ".xml.bz2"
	for _, f := range files {
		if strings.HasSuffix(f.Name, suffix) {
			return f, nil
		}
	}
	return nil, wikitree.Errorf(wikitree.ENOTFOUND, "no %s dump in run", kind)
}
