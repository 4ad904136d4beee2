package headless

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"
)

// ArtifactWriter handles writing execution artifacts
type ArtifactWriter struct {
	outputDir string
	config    ArtifactConfig
}

// NewArtifactWriter creates a new artifact writer
func NewArtifactWriter(outputDir string, config ArtifactConfig) *ArtifactWriter {
	return &ArtifactWriter{
		outputDir: outputDir,
		config:    config,
	}
}

// WriteAll writes all configured artifact formats
func (w *ArtifactWriter) WriteAll(summary *ExecutionSummary) error {
	if err := os.MkdirAll(w.outputDir, 0o750); err != nil {
		return fmt.Errorf("failed to create output directory: %w", err)
	}

	if w.config.JSON {
		if err := w.WriteExecutionJSON(summary); err != nil {
			return err
		}
	}
	if w.config.Markdown {
		if err := w.WriteSummaryMarkdown(summary); err != nil {
			return err
		}
	}
	return nil
}

// WriteExecutionJSON writes the full execution summary as JSON
func (w *ArtifactWriter) WriteExecutionJSON(summary *ExecutionSummary) error {
	path := filepath.Join(w.outputDir, "execution.json")

	data, err := json.MarshalIndent(summary, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal execution summary: %w", err)
	}

	if writeErr := os.WriteFile(path, data, 0o600); writeErr != nil {
		return fmt.Errorf("failed to write execution JSON: %w", writeErr)
	}
	return nil
}

// WriteSummaryMarkdown writes a human-readable markdown summary
func (w *ArtifactWriter) WriteSummaryMarkdown(summary *ExecutionSummary) error {
	path := filepath.Join(w.outputDir, "summary.md")
	if err := os.WriteFile(path, []byte(renderMarkdown(summary)), 0o600); err != nil {
		return fmt.Errorf("failed to write summary markdown: %w", err)
	}
	return nil
}

func renderMarkdown(summary *ExecutionSummary) string {
	var md strings.Builder

	md.WriteString("# Capture Summary\n\n")
	md.WriteString(fmt.Sprintf("**Status:** %s\n\n", summary.Status))
	md.WriteString(fmt.Sprintf("**Started:** %s\n\n", summary.StartTime.Format(time.RFC3339)))
	md.WriteString(fmt.Sprintf("**Duration:** %s\n\n", summary.Duration))

	md.WriteString("## Result\n\n")
	if summary.Error != "" {
		md.WriteString(fmt.Sprintf("❌ **Error:** %s\n\n", summary.Error))
	} else {
		md.WriteString(fmt.Sprintf("✅ %s\n\n", summary.Message))
	}

	md.WriteString("## Details\n\n")
	if summary.Strategy != "" {
		md.WriteString(fmt.Sprintf("- **Extracted via:** %s\n", summary.Strategy))
	}
	if summary.Outcome != "" {
		md.WriteString(fmt.Sprintf("- **Outcome:** %s\n", summary.Outcome))
	}
	if summary.FileName != "" {
		md.WriteString(fmt.Sprintf("- **File:** %s\n", summary.FileName))
	}
	if summary.Directory != "" {
		md.WriteString(fmt.Sprintf("- **Directory:** %s\n", summary.Directory))
	}
	md.WriteString(fmt.Sprintf("- **Contacts in history:** %d\n", summary.LedgerLen))

	if summary.Preview != "" {
		md.WriteString("\n## Preview\n\n```\n")
		md.WriteString(summary.Preview)
		md.WriteString("\n```\n")
	}
	return md.String()
}

// ExecutionSummary contains a complete summary of a headless capture
type ExecutionSummary struct {
	Status    string        `json:"status"`
	Error     string        `json:"error,omitempty"`
	Message   string        `json:"message,omitempty"`
	StartTime time.Time     `json:"start_time"`
	EndTime   time.Time     `json:"end_time"`
	Duration  time.Duration `json:"duration"`
	Strategy  string        `json:"strategy,omitempty"`
	Appended  bool          `json:"appended"`
	Outcome   string        `json:"outcome,omitempty"`
	FileName  string        `json:"file_name,omitempty"`
	Directory string        `json:"directory,omitempty"`
	LedgerLen int           `json:"ledger_len"`
	Preview   string        `json:"preview,omitempty"`
}
