package ingest

import (
	"context"
	"errors"
	"io/fs"
	"log/slog"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/biasharafund/discounting/constants"
)

// WatchConfig controls discovery of invoice documents dropped under the
// intake roots.
type WatchConfig struct {
	Roots       []string      // directories to watch (recursive)
	InitialScan bool          // if true, walk roots and emit existing files
	Debounce    time.Duration // coalesce rapid update/rename bursts
}

// StartWatcher watches the roots recursively and emits the path of every
// supported invoice document that appears or changes. It returns a path
// channel and an error channel; both close when ctx is cancelled.
func StartWatcher(ctx context.Context, cfg WatchConfig, logger *slog.Logger) (<-chan string, <-chan error, error) {
	if logger == nil {
		logger = slog.Default()
	}
	if len(cfg.Roots) == 0 {
		return nil, nil, errors.New("no intake roots provided")
	}

	evCh := make(chan string, 256)
	errCh := make(chan error, 1)

	w, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, nil, err
	}

	addRoot := func(root string) error {
		return filepath.WalkDir(root, func(path string, d fs.DirEntry, walkErr error) error {
			if walkErr != nil {
				return walkErr
			}
			if d.IsDir() {
				return w.Add(path)
			}
			if cfg.InitialScan && supported(path) {
				select {
				case evCh <- path:
				default:
				}
			}
			return nil
		})
	}
	for _, r := range cfg.Roots {
		if err := addRoot(r); err != nil {
			_ = w.Close()
			return nil, nil, err
		}
	}

	go func() {
		defer close(evCh)
		defer close(errCh)
		defer func() { _ = w.Close() }()

		var timer *time.Timer
		pending := map[string]struct{}{}

		// the debounce timer only signals; pending is touched by this
		// goroutine alone
		flushCh := make(chan struct{}, 1)
		signalFlush := func() {
			select {
			case flushCh <- struct{}{}:
			default:
			}
		}

		flush := func() {
			for p := range pending {
				select {
				case evCh <- p:
				default:
				}
				delete(pending, p)
			}
		}

		for {
			select {
			case <-ctx.Done():
				return
			case <-flushCh:
				flush()
			case e := <-w.Events:
				if e.Op&fsnotify.Create == fsnotify.Create {
					// a new subdirectory must be watched too; non-dirs
					// fail the Add and are ignored
					_ = w.Add(e.Name)
				}
				if supported(e.Name) && e.Op&(fsnotify.Create|fsnotify.Write|fsnotify.Rename) != 0 {
					pending[e.Name] = struct{}{}
					if cfg.Debounce > 0 {
						if timer != nil {
							timer.Stop()
						}
						timer = time.AfterFunc(cfg.Debounce, signalFlush)
					} else {
						flush()
					}
				}
			case werr, ok := <-w.Errors:
				if !ok {
					return
				}
				logger.Error("watcher error", "error", werr)
				select {
				case errCh <- werr:
				default:
				}
			}
		}
	}()

	return evCh, errCh, nil
}

func supported(path string) bool {
	return constants.IsSupportedExt(constants.NormalizeExt(filepath.Ext(path)))
}
