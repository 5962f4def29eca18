package wikitree

import "strings"

// ErrorHeader is the header row of a tab-delimited error log.
const ErrorHeader = "error\tlocalization\texpression\n"

// FormatErrorRow formats a parse error as one tab-delimited row terminated
// by a newline: kind, localization, expression.
func FormatErrorRow(e *ParseError) string {
	return strings.Join([]string{
		string(e.Kind),
		e.Localization,
		EscapeNewlines(e.Expression),
	}, "\t") + "\n"
}
