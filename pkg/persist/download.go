package persist

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// Downloader hands a file to the operator without a directory capability.
// It returns where the file ended up.
type Downloader interface {
	Download(ctx context.Context, name string, data []byte, mimeType string) (string, error)
}

// maxDownloadSuffix bounds the "name (n).ext" search.
const maxDownloadSuffix = 1000

// FolderDownloader drops files into a downloads folder. Like a browser
// download it never overwrites: a taken name becomes "name (1).ext".
type FolderDownloader struct {
	Dir string
}

// NewFolderDownloader returns a downloader for dir, defaulting to
// ~/Downloads when dir is empty.
func NewFolderDownloader(dir string) (*FolderDownloader, error) {
	if dir == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, fmt.Errorf("persist: locate home directory: %w", err)
		}
		dir = filepath.Join(home, "Downloads")
	}
	return &FolderDownloader{Dir: dir}, nil
}

// Download implements Downloader.
func (d *FolderDownloader) Download(ctx context.Context, name string, data []byte, _ string) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	if err := os.MkdirAll(d.Dir, 0o750); err != nil {
		return "", fmt.Errorf("persist: create downloads folder: %w", err)
	}

	ext := filepath.Ext(name)
	stem := strings.TrimSuffix(name, ext)
	for i := 0; i < maxDownloadSuffix; i++ {
		candidate := name
		if i > 0 {
			candidate = fmt.Sprintf("%s (%d)%s", stem, i, ext)
		}
		path := filepath.Join(d.Dir, candidate)
		f, err := os.OpenFile(path, os.O_CREATE|os.O_EXCL|os.O_WRONLY, 0o644)
		if errors.Is(err, os.ErrExist) {
			continue
		}
		if err != nil {
			return "", fmt.Errorf("persist: download %s: %w", candidate, err)
		}
		if _, err := f.Write(data); err != nil {
			f.Close()
			return "", fmt.Errorf("persist: download %s: %w", candidate, err)
		}
		if err := f.Close(); err != nil {
			return "", fmt.Errorf("persist: download %s: %w", candidate, err)
		}
		return path, nil
	}
	return "", fmt.Errorf("persist: download %s: too many copies in %s", name, d.Dir)
}
