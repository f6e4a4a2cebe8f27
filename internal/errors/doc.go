// Package errors provides structured, actionable error messages for sitekit.
//
// Every error carries a stable code (e.g. "E010") mapped to a category, a
// short message, a longer explanation and a documentation URL. Errors can
// wrap an underlying cause and carry the file they relate to.
//
// # Error Categories
//
//   - config: sitekit.yaml is missing or invalid
//   - usage: a component was called incorrectly (programmer misuse)
//   - content: a content file failed to decode or validate
//   - publish: rendered output could not be written
//   - http: preview server lookups
//
// # Usage
//
//	err := errors.New("E020").
//	    WithFile("content/home.yaml").
//	    WithSuggestion("Add a headline to the hero block").
//	    Wrap(cause)
//
//	fmt.Println(err.Format())
package errors
