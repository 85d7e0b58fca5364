// File: backend/internal/shell/quote.go
package shell

import "strings"

// Quote renders s as one complete PowerShell single-quoted string literal.
// Inside single quotes the interpreter treats every character literally
// except the quote itself, which is escaped by doubling. Every value
// interpolated into a generated script goes through this function exactly
// once; call sites never hand-write quotes around it.
func Quote(s string) string {
	return "'" + strings.ReplaceAll(s, "'", "''") + "'"
}

// QuoteList renders names as a PowerShell array literal of quoted strings,
// e.g. @('alpha', 'bob''s list').
func QuoteList(names []string) string {
	quoted := make([]string, len(names))
	for i, name := range names {
		quoted[i] = Quote(name)
	}
	return "@(" + strings.Join(quoted, ", ") + ")"
}
