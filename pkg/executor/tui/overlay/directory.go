package overlay

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/entrhq/apptcapture/pkg/executor/tui/types"
	"github.com/entrhq/apptcapture/pkg/persist"
)

// DirectoryOverlay asks for the folder CSV files are written into. The
// path is checked before the overlay closes; Esc cancels.
type DirectoryOverlay struct {
	*BaseOverlay
	input    textinput.Model
	reply    chan<- types.DirectoryReply
	errText  string
	answered bool
}

// NewDirectoryOverlay creates the overlay, prefilled with initial.
func NewDirectoryOverlay(initial string, reply chan<- types.DirectoryReply, width int) *DirectoryOverlay {
	ti := textinput.New()
	ti.Placeholder = "~/Documents/Leads"
	ti.Prompt = "📁 "
	ti.CharLimit = 4096
	ti.Width = bodyWidth(width) - 4
	ti.SetValue(initial)
	ti.CursorEnd()
	ti.Focus()

	d := &DirectoryOverlay{input: ti, reply: reply}
	d.BaseOverlay = NewBaseOverlay(BaseOverlayConfig{
		Width: width,
		Title: "Choose Directory",
		OnClose: func() tea.Cmd {
			d.send(types.DirectoryReply{Err: persist.ErrCancelled})
			return nil
		},
		RenderBody:   d.renderBody,
		RenderFooter: func() string { return types.OverlayHelpStyle.Render("Enter: Select • Esc: Cancel") },
	})
	return d
}

// Update implements types.Overlay.
func (d *DirectoryOverlay) Update(msg tea.Msg) (types.Overlay, tea.Cmd) {
	if keyMsg, ok := msg.(tea.KeyMsg); ok {
		if d.isCloseKey(keyMsg) {
			return nil, d.close()
		}
		if keyMsg.String() == keyEnter {
			dir, err := persist.OpenDirectory(expandHome(d.input.Value()))
			if err != nil {
				d.errText = err.Error()
				return d, nil
			}
			d.send(types.DirectoryReply{Directory: dir})
			return nil, nil
		}
	}

	if _, ok := msg.(tea.KeyMsg); ok {
		d.errText = ""
	}
	var cmd tea.Cmd
	d.input, cmd = d.input.Update(msg)
	return d, cmd
}

// Value returns the typed path.
func (d *DirectoryOverlay) Value() string { return d.input.Value() }

// Err returns the last validation error shown.
func (d *DirectoryOverlay) Err() string { return d.errText }

func (d *DirectoryOverlay) send(r types.DirectoryReply) {
	if d.answered {
		return
	}
	d.answered = true
	select {
	case d.reply <- r:
	default:
	}
}

func (d *DirectoryOverlay) renderBody() string {
	lines := []string{
		types.OverlayBodyStyle.Render("Folder to save contact files in:"),
		d.input.View(),
	}
	if d.errText != "" {
		lines = append(lines, types.OverlayErrorStyle.Width(bodyWidth(d.Width())).Render(d.errText))
	}
	return lipgloss.JoinVertical(lipgloss.Left, lines...)
}

func expandHome(path string) string {
	path = strings.TrimSpace(path)
	if path == "~" || strings.HasPrefix(path, "~/") {
		if home, err := os.UserHomeDir(); err == nil {
			return filepath.Join(home, strings.TrimPrefix(path, "~"))
		}
	}
	return path
}
