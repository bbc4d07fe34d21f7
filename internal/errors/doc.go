// Package errors provides the structured, actionable errors reported by the
// adaptmax CLI.
//
// Every failure a user can act on carries a Kind (target exists, template not
// found, folder creation failed, ...), the path or template it concerns, and
// an optional hint:
//
//	err := errors.New(errors.TemplateNotFound).
//	    WithPath("webapp").
//	    WithSuggestion("Available templates: basic, node-api")
//
//	fmt.Fprintln(os.Stderr, errors.Format(err))
//	// Error [template-not-found]: template not found: webapp
//	//
//	//   Hint: Available templates: basic, node-api
//
// Kinds map to distinct process exit codes through ExitCode.
package errors
