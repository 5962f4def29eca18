// Package wikitree converts wiki pages from XML dumps into ordered section
// trees. It locates headings, normalizes template and link expressions with
// caller-supplied strategies, and streams one record per page.
//
// This package contains domain types, the section tree builder and the
// bracket expression engine. Implementations of the surrounding I/O live in
// subdirectories named after their primary dependency (e.g., xml/, sqlite/,
// bloom/).
package wikitree
