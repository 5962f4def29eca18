package wikitree

import "strings"

// ContextPath is the chain of section titles from the page root down to the
// section being processed. It is used to localize errors and is handed
// read-only to every strategy.
type ContextPath []string

// Push returns a new path with title appended. The receiver is not modified
// and the result never shares its backing array.
func (p ContextPath) Push(title string) ContextPath {
	out := make(ContextPath, len(p), len(p)+1)
	copy(out, p)
	return append(out, title)
}

// String renders the path slash-joined.
func (p ContextPath) String() string {
	return strings.Join(p, "/")
}
