package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"os/signal"

	"github.com/smoodsie/beatsync-codex/config"
	"github.com/smoodsie/beatsync-codex/internal/batch"
	"github.com/smoodsie/beatsync-codex/internal/domain"
	"github.com/smoodsie/beatsync-codex/internal/fetch"
	"github.com/smoodsie/beatsync-codex/internal/output"
	"github.com/smoodsie/beatsync-codex/internal/playlist"
	"github.com/smoodsie/beatsync-codex/internal/storage"
)

func main() {
	configPath := flag.String("config", "", "Path to the YAML config (defaults to $"+config.EnvConfigPath+")")
	outputName := flag.String("output", "", "Output file name (single playlist only)")
	format := flag.String("format", "", "Output format: json or csv (defaults to config)")
	htmlPath := flag.String("html", "", "Read page markup from a local file instead of fetching")
	urlFile := flag.String("urls", "", "File with one playlist URL per line ('-' for stdin)")
	maxWorkers := flag.Int("workers", batch.DefaultWorkers, "Maximum concurrent extractions")

	flag.Usage = func() {
		fmt.Fprintf(flag.CommandLine.Output(), "Usage of %s: [flags] <playlist-url>...\n", os.Args[0])
		flag.PrintDefaults()
	}
	flag.Parse()

	cfg, err := config.LoadFromEnv(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load configuration: %v\n", err)
		os.Exit(1)
	}

	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.Level(cfg.LogLevel)}))
	slog.SetDefault(logger)

	if *format == "" {
		*format = cfg.Output.Format
	}
	outFormat, err := output.ParseFormat(*format)
	if err != nil {
		slog.Error("Invalid output format", "error", err)
		os.Exit(1)
	}

	urls := flag.Args()
	if *urlFile != "" {
		listed, err := readURLFile(*urlFile)
		if err != nil {
			slog.Error("Failed to read URL list", "error", err)
			os.Exit(1)
		}
		urls = append(urls, listed...)
	}

	if *htmlPath == "" && len(urls) == 0 {
		flag.Usage()
		os.Exit(1)
	}
	if *outputName != "" && len(urls) > 1 {
		slog.Error("-output can only be used with a single playlist")
		os.Exit(1)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	store, err := storage.New(ctx, cfg.Storage)
	if err != nil {
		slog.Error("Failed to create storage", "error", err)
		os.Exit(1)
	}

	service := playlist.NewService(fetch.New(cfg.Fetch))

	switch {
	case *htmlPath != "":
		markup, err := os.ReadFile(*htmlPath)
		if err != nil {
			slog.Error("Failed to read markup", "path", *htmlPath, "error", err)
			os.Exit(1)
		}
		sourceURL := ""
		if len(urls) > 0 {
			sourceURL = urls[0]
		}
		err = saveOne(ctx, store, service.ExtractHTML(string(markup), sourceURL), *outputName, outFormat)
		exitOnError(err)
	case *outputName != "":
		result, err := service.Extract(ctx, urls[0], nil)
		exitOnError(err)
		exitOnError(saveOne(ctx, store, result, *outputName, outFormat))
	default:
		runner := batch.NewRunner(service, store)
		results, err := runner.Run(ctx, batch.Options{
			URLs:       urls,
			Format:     outFormat,
			MaxWorkers: *maxWorkers,
		})
		exitOnError(err)

		failed := false
		for _, res := range results {
			if res.Err != nil {
				failed = true
				continue
			}
			fmt.Printf("%s -> %s (%d tracks)\n", res.URL, res.Location, len(res.Playlist.Tracks))
		}
		if failed {
			os.Exit(1)
		}
	}
}

func saveOne(ctx context.Context, store storage.Storage, result *domain.Playlist, name string, format output.Format) error {
	if err := playlist.RequireTracks(result); err != nil {
		return err
	}
	if name == "" {
		name = output.FileName(result.Name, format, result.ExtractedAt)
	}
	location, err := output.Save(ctx, store, name, format, result.Tracks)
	if err != nil {
		return err
	}
	fmt.Printf("%s (%d tracks)\n", location, len(result.Tracks))
	return nil
}

func readURLFile(path string) ([]string, error) {
	if path == "-" {
		return batch.ReadURLs(os.Stdin)
	}
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return batch.ReadURLs(f)
}

func exitOnError(err error) {
	if err == nil {
		return
	}
	if errors.Is(err, playlist.ErrNoTracks) {
		slog.Error("No tracks extracted", "error", err)
	} else {
		slog.Error("Extraction failed", "error", err)
	}
	os.Exit(1)
}
