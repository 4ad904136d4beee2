package browser

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/entrhq/apptcapture/pkg/extract"
	"github.com/entrhq/apptcapture/pkg/logging"
	"github.com/gobwas/glob"
	"github.com/playwright-community/playwright-go"
)

var _ extract.Page = (*Session)(nil)

// Session is an attached host tab. It implements extract.Page.
type Session struct {
	// Browser is the CDP connection
	Browser playwright.Browser

	// Page is the selected host tab
	Page playwright.Page

	// URL of the tab when it was selected
	URL string

	AttachedAt time.Time

	logger *logging.Logger
}

// QueryText returns the trimmed text content of the index-th element matching
// selector.
func (s *Session) QueryText(selector string, index int) (string, bool) {
	elements, err := s.Page.QuerySelectorAll(selector)
	if err != nil {
		s.logger.Warnf("query %s: %v", selector, err)
		return "", false
	}
	defer func() {
		for _, el := range elements {
			_ = el.Dispose()
		}
	}()

	if index < 0 || index >= len(elements) {
		return "", false
	}
	text, err := elements[index].TextContent()
	if err != nil {
		s.logger.Warnf("text of %s[%d]: %v", selector, index, err)
		return "", false
	}
	return strings.TrimSpace(text), true
}

// InputValue returns the trimmed live value of the input named name.
func (s *Session) InputValue(name string) (string, bool) {
	selector := "input[name=" + strconv.Quote(name) + "]"
	el, err := s.Page.QuerySelector(selector)
	if err != nil {
		s.logger.Warnf("query %s: %v", selector, err)
		return "", false
	}
	if el == nil {
		return "", false
	}
	defer func() { _ = el.Dispose() }()

	value, err := el.InputValue()
	if err != nil {
		s.logger.Warnf("value of %s: %v", selector, err)
		return "", false
	}
	return strings.TrimSpace(value), true
}

// Content returns the tab's current serialized HTML.
func (s *Session) Content() (string, error) {
	html, err := s.Page.Content()
	if err != nil {
		return "", fmt.Errorf("failed to read page content: %w", err)
	}
	return html, nil
}

// close disconnects without closing the operator's tabs.
func (s *Session) close() {
	if s.Browser != nil {
		if err := s.Browser.Close(); err != nil {
			s.logger.Warnf("disconnect: %v", err)
		}
	}
}

// SelectTab returns the index of the first url matching the glob pattern.
func SelectTab(urls []string, pattern string) (int, error) {
	g, err := glob.Compile(pattern)
	if err != nil {
		return -1, fmt.Errorf("browser: invalid host pattern %q: %w", pattern, err)
	}
	for i, u := range urls {
		if g.Match(u) {
			return i, nil
		}
	}
	return -1, fmt.Errorf("%w: %s (%d tabs open)", ErrNoMatchingTab, pattern, len(urls))
}
