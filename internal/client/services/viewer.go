package services

import (
	"context"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"runtime"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/staffvault/pdfportal/internal/client/api"
	"github.com/staffvault/pdfportal/internal/client/models"
	"github.com/staffvault/pdfportal/internal/logging"
)

// cleanupDelay bounds disk growth from repeated opens: each materialized
// PDF lives for one minute, long enough for the viewer to have mapped it.
const cleanupDelay = 60 * time.Second

// Viewer implements the employee-facing file flow: list visible files,
// download one, materialize it as a transient temp file, and hand it to the
// OS viewer. The temp file's lifetime is deliberately short: a timer
// deletes it after cleanupDelay, and Close sweeps anything still pending
// at shutdown. A file whose timer never fires (process killed) is left for
// the OS temp cleanup.
type Viewer struct {
	client api.Client
	dir    string
	log    logging.Logger

	// launch opens path with the platform viewer; replaced in tests.
	launch func(path string) error

	// delay is cleanupDelay, shortened in tests.
	delay time.Duration

	mu      sync.Mutex
	pending map[string]*time.Timer
}

func NewViewer(client api.Client, dir string, log logging.Logger) *Viewer {
	return &Viewer{
		client:  client,
		dir:     dir,
		log:     log,
		launch:  launchViewer,
		delay:   cleanupDelay,
		pending: make(map[string]*time.Timer),
	}
}

// List returns the files visible to the current identity.
func (v *Viewer) List(ctx context.Context) ([]models.FileSummary, error) {
	files, err := v.client.MyFiles(ctx)
	if err != nil {
		return nil, fmt.Errorf("list files: %w", err)
	}
	return files, nil
}

// Open downloads the file, writes it to a transient path, and starts the
// OS viewer on it. Nothing is written to disk when the download fails
// (e.g. a 404 for a file the caller cannot see).
func (v *Viewer) Open(ctx context.Context, f models.FileSummary) error {
	data, err := v.client.DownloadFile(ctx, f.ID)
	if err != nil {
		return fmt.Errorf("download %s: %w", f.ID, err)
	}

	path := filepath.Join(v.dir, uuid.NewString()+".pdf")
	if err := os.WriteFile(path, data, 0o600); err != nil {
		return fmt.Errorf("write %s: %w", path, err)
	}

	if err := v.launch(path); err != nil {
		_ = os.Remove(path)
		return fmt.Errorf("open viewer: %w", err)
	}

	v.scheduleCleanup(ctx, path)
	return nil
}

func (v *Viewer) scheduleCleanup(ctx context.Context, path string) {
	v.mu.Lock()
	defer v.mu.Unlock()

	v.pending[path] = time.AfterFunc(v.delay, func() {
		if err := os.Remove(path); err != nil && !os.IsNotExist(err) {
			v.log.Warn(ctx, "failed to remove transient pdf", "path", path, "error", err)
		}
		v.mu.Lock()
		delete(v.pending, path)
		v.mu.Unlock()
	})
}

// Close stops outstanding timers and removes any transient files still on
// disk. Called on app shutdown so a normal exit does not leak downloads.
func (v *Viewer) Close() {
	v.mu.Lock()
	defer v.mu.Unlock()

	for path, timer := range v.pending {
		timer.Stop()
		_ = os.Remove(path)
		delete(v.pending, path)
	}
}

func launchViewer(path string) error {
	var cmd *exec.Cmd
	switch runtime.GOOS {
	case "darwin":
		cmd = exec.Command("open", path)
	case "windows":
		cmd = exec.Command("cmd", "/c", "start", "", path)
	default:
		cmd = exec.Command("xdg-open", path)
	}
	return cmd.Start()
}
