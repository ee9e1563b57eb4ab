package repat

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"
	"go.uber.org/zap"

	"github.com/gnolang/repat/formatter"
	tt "github.com/gnolang/repat/internal/types"
	"github.com/gnolang/repat/scanner"
)

// debounceDelay coalesces bursts of writes to one file into one run.
const debounceDelay = 100 * time.Millisecond

// Watch re-runs the engine for every changed fragment file under root
// until the context is cancelled.
func (r *Runner) Watch(ctx context.Context, root string) error {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("creating watcher: %w", err)
	}
	defer watcher.Close()

	err = filepath.Walk(root, func(path string, info os.FileInfo, err error) error {
		if err != nil {
			return err
		}
		if info.IsDir() {
			return watcher.Add(path)
		}
		return nil
	})
	if err != nil {
		return fmt.Errorf("error adding directory to watcher: %w", err)
	}

	r.logger.Info("watching for fragment changes", zap.String("root", root))

	for {
		select {
		case <-ctx.Done():
			return nil
		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			r.handleFileEvent(event)
		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			r.logger.Error("watch error", zap.Error(err))
		}
	}
}

func (r *Runner) handleFileEvent(event fsnotify.Event) {
	if event.Op&fsnotify.Write != fsnotify.Write {
		return
	}
	if filepath.Ext(event.Name) != scanner.DefaultExtension {
		return
	}

	// wait for a while after the change so multiple writes count as one
	time.Sleep(debounceDelay)

	if suggestions, ok := r.cache.Get(event.Name); ok {
		r.reportSuggestions(event.Name, suggestions)
		return
	}

	suggestions, err := r.engine.Run(event.Name)
	if err != nil {
		r.logger.Error("error processing file", zap.String("file", event.Name), zap.Error(err))
		return
	}
	if err := r.cache.Set(event.Name, suggestions); err != nil {
		r.logger.Debug("could not cache suggestions", zap.String("file", event.Name), zap.Error(err))
	}
	r.reportSuggestions(event.Name, suggestions)
}

func (r *Runner) reportSuggestions(filename string, suggestions []tt.Suggestion) {
	if len(suggestions) == 0 {
		r.logger.Info("no rewrites found", zap.String("file", filename))
		return
	}

	r.logger.Info("found rewrites",
		zap.Int("count", len(suggestions)),
		zap.String("file", filename))

	snippet, err := formatter.ReadSourceCode(filename)
	if err != nil {
		r.logger.Error("error reading source file", zap.String("file", filename), zap.Error(err))
		return
	}
	fmt.Println(formatter.GenerateFormattedSuggestion(suggestions, snippet))
}
