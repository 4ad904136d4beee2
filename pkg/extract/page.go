// Package extract reads candidate field values off the host CRM page.
//
// The host page is reached through the small Page read surface so the same
// strategies run against a live browser tab (pkg/browser), a saved HTML
// snapshot (HTMLPage) or an in-memory fixture (MapPage).
package extract

import "strings"

// Page is the read-only lookup surface of the host page.
// Implementations return trimmed values; ok is false when nothing matched.
type Page interface {
	// QueryText returns the text content of the index-th element matching
	// selector, in document order.
	QueryText(selector string, index int) (text string, ok bool)

	// InputValue returns the value of the input whose name attribute is name.
	InputValue(name string) (value string, ok bool)
}

// MapPage is an in-memory Page. Texts maps a selector to its matches in
// document order; Inputs maps an input name to its value.
type MapPage struct {
	Texts  map[string][]string
	Inputs map[string]string
}

// QueryText implements Page.
func (p MapPage) QueryText(selector string, index int) (string, bool) {
	matches := p.Texts[selector]
	if index < 0 || index >= len(matches) {
		return "", false
	}
	return strings.TrimSpace(matches[index]), true
}

// InputValue implements Page.
func (p MapPage) InputValue(name string) (string, bool) {
	v, ok := p.Inputs[name]
	if !ok {
		return "", false
	}
	return strings.TrimSpace(v), true
}

func input(p Page, name string) string {
	v, _ := p.InputValue(name)
	return v
}

// joinNonEmpty joins the non-empty parts with sep.
func joinNonEmpty(sep string, parts ...string) string {
	kept := parts[:0:0]
	for _, p := range parts {
		if p != "" {
			kept = append(kept, p)
		}
	}
	return strings.Join(kept, sep)
}
