// Package main provides the appointment capture panel.
// It reads the contact shown in a running CRM browser tab, lets the operator
// finish the appointment details in the terminal, then copies a shareable
// summary and saves the full contact history as CSV.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/entrhq/apptcapture/pkg/browser"
	"github.com/entrhq/apptcapture/pkg/capture"
	"github.com/entrhq/apptcapture/pkg/clipboard"
	"github.com/entrhq/apptcapture/pkg/config"
	"github.com/entrhq/apptcapture/pkg/executor/cli"
	"github.com/entrhq/apptcapture/pkg/executor/headless"
	"github.com/entrhq/apptcapture/pkg/executor/tui"
	"github.com/entrhq/apptcapture/pkg/extract"
	"github.com/entrhq/apptcapture/pkg/logging"
	"github.com/entrhq/apptcapture/pkg/persist"
	"github.com/entrhq/apptcapture/pkg/storage"
)

const version = "0.1.0"

// Flags holds the command line options
type Flags struct {
	ConfigPath  string
	PageFile    string
	Headless    string
	CDPEndpoint string
	Export      bool
	ShowVersion bool
}

func main() {
	flags := parseFlags()

	if flags.ShowVersion {
		fmt.Printf("apptcapture v%s\n", version)
		return
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, flags); err != nil {
		stop()
		log.Fatalf("Application error: %v", err)
	}
}

// parseFlags parses command line flags
func parseFlags() *Flags {
	f := &Flags{}

	flag.StringVar(&f.ConfigPath, "config", "", "Path to config file (default: $APPTCAPTURE_HOME/config.yaml)")
	flag.StringVar(&f.PageFile, "page-file", "", "Read the contact from a saved HTML page instead of the browser")
	flag.StringVar(&f.Headless, "headless", "", "Save once without the panel, using values from this YAML file")
	flag.StringVar(&f.CDPEndpoint, "cdp", "", "Browser DevTools endpoint (overrides browser.cdp_endpoint)")
	flag.BoolVar(&f.Export, "export", false, "Print the full contact history as CSV and exit")
	flag.BoolVar(&f.ShowVersion, "version", false, "Show version and exit")

	flag.Usage = func() {
		fmt.Fprintf(os.Stderr, "apptcapture - appointment capture panel\n\n")
		fmt.Fprintf(os.Stderr, "Usage: apptcapture [options]\n\n")
		fmt.Fprintf(os.Stderr, "Options:\n")
		flag.PrintDefaults()
		fmt.Fprintf(os.Stderr, "\nEnvironment Variables:\n")
		fmt.Fprintf(os.Stderr, "  %s   Settings, state and log directory (default: ~/.apptcapture)\n", config.HomeEnv)
		fmt.Fprintf(os.Stderr, "\nExamples:\n")
		fmt.Fprintf(os.Stderr, "  apptcapture                              # Attach to the browser on :9222\n")
		fmt.Fprintf(os.Stderr, "  apptcapture -cdp http://localhost:9333\n")
		fmt.Fprintf(os.Stderr, "  apptcapture -page-file contact.html\n")
		fmt.Fprintf(os.Stderr, "  apptcapture -headless capture.yaml -page-file contact.html\n")
		fmt.Fprintf(os.Stderr, "  apptcapture -export > contacts.csv\n")
	}

	flag.Parse()
	return f
}

// run executes the main application logic
func run(ctx context.Context, flags *Flags) error {
	home := config.Home()
	cfg, err := config.Load(flags.ConfigPath)
	if err != nil {
		return err
	}
	if flags.CDPEndpoint != "" {
		cfg.Browser.CDPEndpoint = flags.CDPEndpoint
	}

	if err := logging.SetDirectory(config.LogDir(home)); err != nil {
		log.Printf("Warning: %v", err)
	}
	logger, err := logging.NewLogger("main")
	if err != nil {
		log.Printf("Warning: logging to stderr: %v", err)
	}
	defer logger.Close()

	store, err := storage.Open(cfg.Storage.Driver, cfg.StoragePath(home))
	if err != nil {
		return fmt.Errorf("failed to open store: %w", err)
	}
	defer store.Close()

	if flags.Export {
		out, err := capture.ExportCSV(ctx, store, nil)
		if err != nil {
			return fmt.Errorf("failed to export history: %w", err)
		}
		_, err = fmt.Fprint(os.Stdout, out)
		return err
	}

	page, release := openPage(ctx, flags, cfg, logger)
	defer release()

	downloader, err := persist.NewFolderDownloader(cfg.DownloadsDir)
	if err != nil {
		return fmt.Errorf("failed to prepare downloads folder: %w", err)
	}

	if !clipboard.Available() {
		logger.Warnf("no system clipboard; saves will report a copy failure")
	}

	deps := capture.Deps{
		Store:         store,
		Clipboard:     clipboard.System{},
		Downloader:    downloader,
		Logger:        logger,
		RequireFields: cfg.Validation.RequireFields,
	}

	if flags.Headless != "" {
		return runHeadless(ctx, flags.Headless, deps, page, logger)
	}

	executor := tui.NewExecutor(deps, page, cfg.UI.PromptDelay, logger)
	return executor.Run(ctx)
}

// runHeadless saves once using values from a YAML file
func runHeadless(ctx context.Context, path string, deps capture.Deps, page extract.Page, logger *logging.Logger) error {
	hcfg, err := headless.LoadConfig(path)
	if err != nil {
		return err
	}

	prompter := cli.NewPrompter(cli.WithWriter(os.Stderr))
	executor, err := headless.NewExecutor(deps, page, hcfg,
		headless.WithPrompter(prompter),
		headless.WithPicker(prompter),
		headless.WithLogger(logger),
	)
	if err != nil {
		return err
	}

	runErr := executor.Run(ctx)
	cli.PrintReport(os.Stderr, executor.Report(), runErr)
	return runErr
}

// openPage returns the page to extract from. Attach failures fall back to an
// empty panel so the operator can still type the contact in.
func openPage(ctx context.Context, flags *Flags, cfg config.Config, logger *logging.Logger) (extract.Page, func()) {
	nop := func() {}

	if flags.PageFile != "" {
		p, err := extract.LoadHTMLFile(flags.PageFile)
		if err != nil {
			logger.Errorf("load page file: %v", err)
			return nil, nop
		}
		return p, nop
	}

	mgr := browser.NewSessionManager(logger.With("browser"))
	if err := mgr.Initialize(); err != nil {
		logger.Errorf("start playwright: %v", err)
		return nil, nop
	}
	release := func() {
		if err := mgr.Shutdown(); err != nil {
			logger.Warnf("browser shutdown: %v", err)
		}
	}

	sess, err := mgr.Attach(ctx, browser.AttachOptions{
		Endpoint:    cfg.Browser.CDPEndpoint,
		HostPattern: cfg.Browser.HostPattern,
		Timeout:     cfg.Browser.Timeout,
	})
	if err != nil {
		if errors.Is(err, browser.ErrNoMatchingTab) {
			logger.Warnf("no CRM tab open; opening empty panel")
		} else {
			logger.Errorf("attach to browser: %v", err)
		}
		return nil, release
	}
	return sess, release
}
