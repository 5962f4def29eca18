package main

import (
	"bytes"
	"encoding/json"
	"fmt"

	"github.com/fwojciec/wikitree"
	wjson "github.com/fwojciec/wikitree/json"
)

// Run executes the show command.
func (c *ShowCmd) Run(deps *Dependencies) error {
	if deps.Pages == nil {
		fmt.Fprintln(deps.Stderr, "error: show reads from a database. Set --db or WIKITREE_DB.")
		return wikitree.Errorf(wikitree.EINVALID, "no database configured")
	}

	filter := wikitree.PageFilter{Title: &c.Title, Limit: c.Limit}
	if c.Run != "" {
		filter.RunID = &c.Run
	}

	pages, err := deps.Pages.FindPages(deps.Ctx, filter)
	if err != nil {
		fmt.Fprintf(deps.Stderr, "error: %s\n", wikitree.ErrorMessage(err))
		return err
	}

	if len(pages) == 0 {
		fmt.Fprintf(deps.Stderr, "error: page %q not found. Use 'wikitree parse --db' to store pages.\n", c.Title)
		return wikitree.Errorf(wikitree.ENOTFOUND, "page %q not found", c.Title)
	}

	for _, p := range pages {
		var buf bytes.Buffer
		if err := json.Indent(&buf, []byte(p.Content), "", wjson.Indent); err != nil {
			return fmt.Errorf("stored page %s: %w", p.ID, err)
		}

		fmt.Fprintf(deps.Stdout, "%s  %s\n", titleStyle.Render(p.Title), dimStyle.Render(fmt.Sprintf(
			"id %s  ns %s  run %s  hash %s", orNone(p.PageID), p.Namespace, p.RunID, p.ContentHash,
		)))
		fmt.Fprintln(deps.Stdout, buf.String())
	}

	return nil
}

func orNone(s string) string {
	if s == "" {
		return "-"
	}
	return s
}
