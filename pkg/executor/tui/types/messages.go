package types

import (
	"github.com/entrhq/apptcapture/pkg/capture"
	"github.com/entrhq/apptcapture/pkg/persist"
)

// ConfirmRequestMsg asks the panel to show a yes/no overlay. The answer is
// sent on Reply exactly once.
type ConfirmRequestMsg struct {
	Message string
	Reply   chan<- bool
}

// DirectoryReply is the outcome of a directory overlay.
type DirectoryReply struct {
	Directory persist.Directory
	Err       error
}

// DirectoryRequestMsg asks the panel to show the directory overlay.
type DirectoryRequestMsg struct {
	Reply chan<- DirectoryReply
}

// SaveDoneMsg carries the result of a save.
type SaveDoneMsg struct {
	Report capture.Report
	Err    error
}

// DirectoryDoneMsg carries the result of a directory selection.
type DirectoryDoneMsg struct {
	Name string
	Err  error
}

// FirstRunMsg fires once after the panel has rendered.
type FirstRunMsg struct{}

// ToastMsg is a message type for showing toast notifications
type ToastMsg struct {
	Message string
	IsError bool
}
