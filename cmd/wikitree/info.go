package main

import (
	"fmt"

	"github.com/fwojciec/wikitree"
	"github.com/fwojciec/wikitree/fs"
	"github.com/fwojciec/wikitree/xml"
)

// Run executes the info command.
func (c *InfoCmd) Run(deps *Dependencies) error {
	dump, err := fs.OpenDump(c.Dump)
	if err != nil {
		fmt.Fprintf(deps.Stderr, "error: %v\n", err)
		return err
	}
	defer dump.Close()

	info, err := xml.ReadSiteInfo(dump)
	if err != nil {
		fmt.Fprintf(deps.Stderr, "error: %s\n", wikitree.ErrorMessage(err))
		return err
	}

	fmt.Fprintf(deps.Stdout, "%s %s\n", dimStyle.Render("Site:     "), titleStyle.Render(info.SiteName))
	fmt.Fprintf(deps.Stdout, "%s %s\n", dimStyle.Render("Database: "), info.DBName)
	fmt.Fprintf(deps.Stdout, "%s %s\n", dimStyle.Render("Base:     "), info.Base)
	fmt.Fprintf(deps.Stdout, "%s %s\n", dimStyle.Render("Generator:"), info.Generator)
	fmt.Fprintf(deps.Stdout, "%s %s\n", dimStyle.Render("Size:     "), formatBytes(dump.Size()))

	fmt.Fprintf(deps.Stdout, "\nNamespaces (%d):\n", len(info.Namespaces))
	for _, ns := range info.Namespaces {
		name := ns.Name
		if name == "" {
			name = "(main)"
		}
		fmt.Fprintf(deps.Stdout, "  %6s  %s\n", ns.Key, name)
	}

	return nil
}
