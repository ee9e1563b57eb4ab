package repat

import (
	"context"
	"errors"
	"fmt"
	"os"
	"runtime"
	"sort"

	"github.com/schollz/progressbar/v3"
	"go.uber.org/zap"

	tt "github.com/gnolang/repat/internal/types"
	"github.com/gnolang/repat/scanner"
)

// ProcessFile runs the engine over one fragment file.
func ProcessFile(engine RewriteEngine, filePath string) ([]tt.Suggestion, error) {
	return engine.Run(filePath)
}

// ProcessSource runs the engine over one in-memory fragment source.
func ProcessSource(engine RewriteEngine, source []byte) ([]tt.Suggestion, error) {
	return engine.RunSource(source)
}

// ProcessSources applies the processor to each source in order.
func ProcessSources(
	ctx context.Context,
	logger *zap.Logger,
	engine RewriteEngine,
	sources [][]byte,
	processor func(RewriteEngine, []byte) ([]tt.Suggestion, error),
) ([]tt.Suggestion, error) {
	var allSuggestions []tt.Suggestion
	for i, source := range sources {
		if err := ctx.Err(); err != nil {
			return allSuggestions, err
		}
		suggestions, err := processor(engine, source)
		if err != nil {
			if logger != nil {
				logger.Error("Error processing source", zap.Int("source", i), zap.Error(err))
			}
			return nil, err
		}
		allSuggestions = append(allSuggestions, suggestions...)
	}

	return allSuggestions, nil
}

// ProcessFiles applies the processor to each path, aggregating the
// suggestions.
func ProcessFiles(
	ctx context.Context,
	logger *zap.Logger,
	engine RewriteEngine,
	paths []string,
	processor func(RewriteEngine, string) ([]tt.Suggestion, error),
) ([]tt.Suggestion, error) {
	var allSuggestions []tt.Suggestion
	for _, path := range paths {
		suggestions, err := ProcessPath(ctx, logger, engine, path, processor)
		if err != nil {
			if logger != nil {
				logger.Error("Error processing path", zap.String("path", path), zap.Error(err))
			}
			return nil, err
		}
		allSuggestions = append(allSuggestions, suggestions...)
	}

	return allSuggestions, nil
}

// ProcessPath processes one file, or one directory tree discovered via
// the scanner. Directory entries fan out over a bounded worker pool;
// per-file failures are logged and joined into the returned error while
// the remaining files still process.
func ProcessPath(
	ctx context.Context,
	logger *zap.Logger,
	engine RewriteEngine,
	path string,
	processor func(RewriteEngine, string) ([]tt.Suggestion, error),
) ([]tt.Suggestion, error) {
	info, err := os.Stat(path)
	if err != nil {
		return nil, fmt.Errorf("error accessing %s: %w", path, err)
	}

	if !info.IsDir() {
		return processor(engine, path)
	}

	files, err := scanner.New(path).Scan()
	if err != nil {
		return nil, fmt.Errorf("error scanning %s: %w", path, err)
	}
	if len(files) == 0 {
		return nil, nil
	}

	resultChan := make(chan []tt.Suggestion, len(files))
	errorChan := make(chan error, len(files))

	// limit the number of workers
	maxWorkers := runtime.NumCPU()
	sem := make(chan struct{}, maxWorkers)

	bar := newProgressBar(path, len(files))

	dispatched := 0
	var ctxErr error
	for _, file := range files {
		if err := ctx.Err(); err != nil {
			ctxErr = err
			break
		}
		select {
		case <-ctx.Done():
			ctxErr = ctx.Err()
		case sem <- struct{}{}:
			dispatched++
			go func(fp string) {
				defer func() { <-sem }()

				suggestions, err := processor(engine, fp)
				if err != nil {
					if logger != nil {
						logger.Error("Error processing file", zap.String("file", fp), zap.Error(err))
					}
					errorChan <- err
					resultChan <- nil
				} else {
					resultChan <- suggestions
					errorChan <- nil
				}
				if bar != nil {
					bar.Add(1)
				}
			}(file.Path)
		}
	}

	// Collect everything dispatched, even after a cancel, so no worker
	// is left behind.
	var suggestions []tt.Suggestion
	var errs []error
	for range dispatched {
		if err := <-errorChan; err != nil {
			errs = append(errs, err)
		}
		if result := <-resultChan; result != nil {
			suggestions = append(suggestions, result...)
		}
	}
	if bar != nil {
		fmt.Fprintln(os.Stderr)
	}

	sort.Slice(suggestions, func(i, j int) bool {
		a, b := suggestions[i], suggestions[j]
		if a.Filename != b.Filename {
			return a.Filename < b.Filename
		}
		if a.Start.Line != b.Start.Line {
			return a.Start.Line < b.Start.Line
		}
		return a.Start.Column < b.Start.Column
	})

	if ctxErr != nil {
		return suggestions, ctxErr
	}
	return suggestions, errors.Join(errs...)
}

// GroupByFile indexes suggestions by their filename.
func GroupByFile(suggestions []tt.Suggestion) map[string][]tt.Suggestion {
	byFile := make(map[string][]tt.Suggestion)
	for _, sugg := range suggestions {
		byFile[sugg.Filename] = append(byFile[sugg.Filename], sugg)
	}
	return byFile
}

// ProcessFiles runs the engine over the given files and directories.
func (r *Runner) ProcessFiles(ctx context.Context, paths []string) ([]tt.Suggestion, error) {
	return ProcessFiles(ctx, r.logger, r.engine, paths, ProcessFile)
}

// ProcessPath runs the engine over one file or directory tree.
func (r *Runner) ProcessPath(ctx context.Context, path string) ([]tt.Suggestion, error) {
	return ProcessPath(ctx, r.logger, r.engine, path, ProcessFile)
}

// newProgressBar returns a progress bar writing to stderr, or nil when
// stderr is not a terminal.
func newProgressBar(description string, total int) *progressbar.ProgressBar {
	fi, err := os.Stderr.Stat()
	if err != nil || fi.Mode()&os.ModeCharDevice == 0 {
		return nil
	}
	return progressbar.NewOptions(total,
		progressbar.OptionSetDescription(description),
		progressbar.OptionSetWriter(os.Stderr),
		progressbar.OptionEnableColorCodes(true),
		progressbar.OptionSetWidth(40),
		progressbar.OptionShowCount(),
		progressbar.OptionSetTheme(progressbar.Theme{
			Saucer:        "[green]=[reset]",
			SaucerHead:    "[green]>[reset]",
			SaucerPadding: " ",
			BarStart:      "[",
			BarEnd:        "]",
		}))
}
