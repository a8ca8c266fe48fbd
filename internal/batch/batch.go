// Package batch extracts several playlists concurrently.
package batch

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strings"
	"sync"

	"github.com/k0kubun/go-ansi"
	"github.com/schollz/progressbar/v3"
	"github.com/smoodsie/beatsync-codex/internal/domain"
	"github.com/smoodsie/beatsync-codex/internal/output"
	"github.com/smoodsie/beatsync-codex/internal/playlist"
	"github.com/smoodsie/beatsync-codex/internal/progress"
	"github.com/smoodsie/beatsync-codex/internal/storage"
)

const (
	DefaultWorkers = 4
	MaxWorkers     = 10
)

var ErrNoURLs = errors.New("no playlist URLs given")

type Extractor interface {
	Extract(ctx context.Context, url string, tracker *progress.ProgressTracker) (*domain.Playlist, error)
}

type Options struct {
	URLs       []string
	Format     output.Format
	MaxWorkers int
	// Progress receives the progress bar; nil means the terminal.
	Progress io.Writer
}

// Result is the outcome for one URL.
type Result struct {
	URL      string
	Playlist *domain.Playlist
	Location string
	Err      error
}

type Runner struct {
	extractor Extractor
	store     storage.Storage
}

func NewRunner(extractor Extractor, store storage.Storage) *Runner {
	return &Runner{extractor: extractor, store: store}
}

// Run extracts and saves every URL. A failing URL does not stop the others;
// results come back in input order.
func (r *Runner) Run(ctx context.Context, opts Options) ([]Result, error) {
	if len(opts.URLs) == 0 {
		return nil, ErrNoURLs
	}

	maxWorkers := opts.MaxWorkers
	if maxWorkers < 1 || maxWorkers > MaxWorkers {
		slog.Warn("invalid max workers, using default", "maxWorkers", opts.MaxWorkers, "default", DefaultWorkers)
		maxWorkers = DefaultWorkers
	}

	writer := opts.Progress
	if writer == nil {
		writer = ansi.NewAnsiStdout()
	}
	bar := progressbar.NewOptions(
		len(opts.URLs),
		progressbar.OptionSetWriter(writer),
		progressbar.OptionEnableColorCodes(true),
		progressbar.OptionSetTheme(progressbar.ThemeASCII),
		progressbar.OptionFullWidth(),
		progressbar.OptionShowCount(),
		progressbar.OptionSetDescription("[cyan]Extracting playlists...[reset]"),
	)

	results := make([]Result, len(opts.URLs))
	semaphore := make(chan struct{}, maxWorkers)
	var wg sync.WaitGroup

	for i, url := range opts.URLs {
		wg.Add(1)
		go func(i int, url string) {
			defer func() {
				bar.Add(1)
				wg.Done()
			}()

			results[i].URL = url
			select {
			case semaphore <- struct{}{}:
			case <-ctx.Done():
				results[i].Err = ctx.Err()
				return
			}
			defer func() { <-semaphore }()

			results[i].Playlist, results[i].Location, results[i].Err = r.process(ctx, url, opts.Format)
		}(i, url)
	}

	wg.Wait()
	bar.Finish()
	fmt.Fprintln(writer)

	failed := 0
	for _, res := range results {
		if res.Err != nil {
			failed++
			slog.Error("Playlist failed", "url", res.URL, "error", res.Err)
		}
	}
	slog.Info("Batch finished", "playlists", len(results), "failed", failed)
	return results, nil
}

func (r *Runner) process(ctx context.Context, url string, format output.Format) (*domain.Playlist, string, error) {
	result, err := r.extractor.Extract(ctx, url, nil)
	if err != nil {
		return nil, "", err
	}
	if err := playlist.RequireTracks(result); err != nil {
		return result, "", fmt.Errorf("%s: %w", url, err)
	}

	name := output.FileName(result.Name, format, result.ExtractedAt)
	location, err := output.Save(ctx, r.store, name, format, result.Tracks)
	if err != nil {
		return result, "", err
	}
	return result, location, nil
}

// ReadURLs reads one URL per line. Blank lines and lines starting with '#'
// are skipped.
func ReadURLs(r io.Reader) ([]string, error) {
	var urls []string
	scanner := bufio.NewScanner(r)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		urls = append(urls, line)
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("failed to read URL list: %w", err)
	}
	return urls, nil
}
