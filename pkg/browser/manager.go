package browser

import (
	"context"
	"errors"
	"fmt"
	"io"
	"sync"
	"time"

	"github.com/entrhq/apptcapture/pkg/logging"
	"github.com/playwright-community/playwright-go"
)

// Defaults for Attach.
const (
	DefaultEndpoint    = "http://localhost:9222"
	DefaultHostPattern = "https://app.gohighlevel.com/*"
	DefaultTimeout     = 10 * time.Second
)

var (
	// ErrNotInitialized is returned by Attach before Initialize.
	ErrNotInitialized = errors.New("browser: session manager not initialized")
	// ErrNoMatchingTab is returned when no open tab matches the host pattern.
	ErrNoMatchingTab = errors.New("browser: no open tab matches host pattern")
)

// AttachOptions configures Attach.
type AttachOptions struct {
	// Endpoint is the CDP URL of the running browser.
	Endpoint string
	// HostPattern is a glob over tab URLs.
	HostPattern string
	// Timeout bounds the connection and every DOM query.
	Timeout time.Duration
}

func (o AttachOptions) withDefaults() AttachOptions {
	if o.Endpoint == "" {
		o.Endpoint = DefaultEndpoint
	}
	if o.HostPattern == "" {
		o.HostPattern = DefaultHostPattern
	}
	if o.Timeout <= 0 {
		o.Timeout = DefaultTimeout
	}
	return o
}

// SessionManager owns the Playwright driver and the attached session.
type SessionManager struct {
	mu          sync.Mutex
	playwright  *playwright.Playwright
	session     *Session
	initialized bool
	logger      *logging.Logger
}

// NewSessionManager creates a session manager.
func NewSessionManager(logger *logging.Logger) *SessionManager {
	if logger == nil {
		logger = logging.Discard()
	}
	return &SessionManager{logger: logger}
}

// Initialize installs and starts the Playwright driver.
func (m *SessionManager) Initialize() error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.initialized {
		return nil
	}

	// Driver output would corrupt the TUI.
	opts := &playwright.RunOptions{
		Verbose:             false,
		SkipInstallBrowsers: true,
		Stdout:              io.Discard,
		Stderr:              io.Discard,
	}

	if err := playwright.Install(opts); err != nil {
		return fmt.Errorf("failed to install playwright: %w", err)
	}

	pw, err := playwright.Run(opts)
	if err != nil {
		return fmt.Errorf("failed to start playwright: %w", err)
	}

	m.playwright = pw
	m.initialized = true
	return nil
}

// Attach connects to the running browser and selects the host tab. Attaching
// again replaces the previous session.
func (m *SessionManager) Attach(ctx context.Context, opts AttachOptions) (*Session, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	opts = opts.withDefaults()

	m.mu.Lock()
	defer m.mu.Unlock()

	if !m.initialized {
		return nil, ErrNotInitialized
	}
	if m.session != nil {
		m.session.close()
		m.session = nil
	}

	timeout := float64(opts.Timeout.Milliseconds())
	browser, err := m.playwright.Chromium.ConnectOverCDP(opts.Endpoint, playwright.BrowserTypeConnectOverCDPOptions{
		Timeout: &timeout,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to connect to %s: %w", opts.Endpoint, err)
	}

	var pages []playwright.Page
	var urls []string
	for _, bc := range browser.Contexts() {
		for _, p := range bc.Pages() {
			pages = append(pages, p)
			urls = append(urls, p.URL())
		}
	}
	m.logger.Debugf("connected to %s, %d open tabs", opts.Endpoint, len(pages))

	idx, err := SelectTab(urls, opts.HostPattern)
	if err != nil {
		_ = browser.Close()
		return nil, err
	}

	page := pages[idx]
	page.SetDefaultTimeout(timeout)

	session := &Session{
		Browser:    browser,
		Page:       page,
		URL:        urls[idx],
		AttachedAt: time.Now(),
		logger:     m.logger,
	}
	m.session = session
	m.logger.Infof("attached to tab %s", session.URL)
	return session, nil
}

// Session returns the attached session, or nil.
func (m *SessionManager) Session() *Session {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.session
}

// Shutdown disconnects from the browser and stops Playwright. The operator's
// browser and its tabs stay open.
func (m *SessionManager) Shutdown() error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.session != nil {
		m.session.close()
		m.session = nil
	}

	if m.initialized && m.playwright != nil {
		if err := m.playwright.Stop(); err != nil {
			return fmt.Errorf("failed to stop playwright: %w", err)
		}
		m.initialized = false
	}
	return nil
}
