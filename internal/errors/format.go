package errors

import (
	"strings"
)

// Format renders err for terminal display: a header naming the kind, then the
// hint when one is attached.
func Format(err error) string {
	if err == nil {
		return ""
	}

	var b strings.Builder
	e, ok := As(err)
	if !ok {
		b.WriteString("Error: ")
		b.WriteString(err.Error())
		return b.String()
	}

	b.WriteString("Error [")
	b.WriteString(e.Kind.String())
	b.WriteString("]: ")
	b.WriteString(err.Error())

	if e.Suggestion != "" {
		b.WriteString("\n\n  Hint: ")
		b.WriteString(e.Suggestion)
	}
	return b.String()
}
