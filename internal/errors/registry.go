package errors

import "sort"

// ErrorTemplate defines a registered error type.
type ErrorTemplate struct {
	Category Category
	Message  string
	Detail   string
	DocURL   string
}

const docBase = "https://sitekit.vango.dev/docs/errors/"

// registry maps error codes to their templates.
var registry = map[string]ErrorTemplate{
	// Config (E001-E009)
	"E001": {
		Category: CategoryConfig,
		Message:  "Config file not found",
		Detail:   "No sitekit.yaml was found in the working directory or any of its parents.",
		DocURL:   docBase + "E001",
	},
	"E002": {
		Category: CategoryConfig,
		Message:  "Invalid config",
		Detail:   "sitekit.yaml could not be decoded or contains values out of range.",
		DocURL:   docBase + "E002",
	},

	// Usage (E010-E019)
	"E010": {
		Category: CategoryUsage,
		Message:  "Media query observer created without a query",
		Detail:   "mediaquery.Observe and Observation.SetQuery require a non-empty query string such as \"(max-width: 896px)\".",
		DocURL:   docBase + "E010",
	},

	// Content (E020-E029)
	"E020": {
		Category: CategoryContent,
		Message:  "Invalid content",
		Detail:   "A content file failed to decode or did not pass validation.",
		DocURL:   docBase + "E020",
	},
	"E021": {
		Category: CategoryContent,
		Message:  "Content source failure",
		Detail:   "The content source could not list or open a file.",
		DocURL:   docBase + "E021",
	},

	// Publish (E030-E039)
	"E030": {
		Category: CategoryPublish,
		Message:  "Publish failed",
		Detail:   "A rendered page could not be written to the output store.",
		DocURL:   docBase + "E030",
	},

	// HTTP (E040-E049)
	"E040": {
		Category: CategoryHTTP,
		Message:  "Page not found",
		Detail:   "No content page has the requested slug.",
		DocURL:   docBase + "E040",
	},
}

// Lookup returns the template registered for code.
func Lookup(code string) (ErrorTemplate, bool) {
	t, ok := registry[code]
	return t, ok
}

// Codes returns every registered error code in ascending order.
func Codes() []string {
	codes := make([]string, 0, len(registry))
	for code := range registry {
		codes = append(codes, code)
	}
	sort.Strings(codes)
	return codes
}
