// Package output serializes extracted tracks.
package output

import (
	"context"
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"regexp"
	"strings"
	"time"

	"github.com/smoodsie/beatsync-codex/internal/domain"
	"github.com/smoodsie/beatsync-codex/internal/storage"
)

type Format string

const (
	FormatJSON Format = "json"
	FormatCSV  Format = "csv"
)

// timestampLayout renders DDMMYYYY_HH_MM_SS.
const timestampLayout = "02012006_15_04_05"

var (
	unsafeNameChars = regexp.MustCompile(`[^a-zA-Z0-9_\s-]`)
	whitespaceRuns  = regexp.MustCompile(`\s+`)
)

func ParseFormat(s string) (Format, error) {
	switch Format(strings.ToLower(strings.TrimSpace(s))) {
	case "", FormatJSON:
		return FormatJSON, nil
	case FormatCSV:
		return FormatCSV, nil
	}
	return "", fmt.Errorf("unsupported output format: %s", s)
}

func (f Format) Extension() string {
	return "." + string(f)
}

// Encode writes tracks to w. JSON is an indented array; CSV has a header row
// in track field order.
func Encode(w io.Writer, format Format, tracks []domain.Track) error {
	if tracks == nil {
		tracks = []domain.Track{}
	}

	switch format {
	case FormatJSON:
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		enc.SetEscapeHTML(false)
		return enc.Encode(tracks)
	case FormatCSV:
		cw := csv.NewWriter(w)
		if err := cw.Write(domain.TrackFields); err != nil {
			return err
		}
		for _, track := range tracks {
			if err := cw.Write(track.Values()); err != nil {
				return err
			}
		}
		cw.Flush()
		return cw.Error()
	}
	return fmt.Errorf("unsupported output format: %s", format)
}

// SanitizeName keeps letters, digits, underscores and dashes, turning
// whitespace runs into underscores.
func SanitizeName(name string) string {
	safe := unsafeNameChars.ReplaceAllString(name, "")
	safe = whitespaceRuns.ReplaceAllString(safe, "_")
	safe = strings.Trim(safe, "_")
	if safe == "" {
		return "playlist"
	}
	return safe
}

// FileName builds "<name>_DDMMYYYY_HH_MM_SS.<ext>".
func FileName(playlistName string, format Format, now time.Time) string {
	return fmt.Sprintf("%s_%s%s", SanitizeName(playlistName), now.Format(timestampLayout), format.Extension())
}

// Save writes tracks under name and returns the stored location.
func Save(ctx context.Context, store storage.Storage, name string, format Format, tracks []domain.Track) (string, error) {
	w, err := store.Writer(ctx, name)
	if err != nil {
		return "", fmt.Errorf("failed to open %s: %w", name, err)
	}

	if err := Encode(w, format, tracks); err != nil {
		w.Close()
		return "", fmt.Errorf("failed to encode %s: %w", name, err)
	}
	if err := w.Close(); err != nil {
		return "", fmt.Errorf("failed to write %s: %w", name, err)
	}

	location := store.Location(name)
	slog.Info("Playlist saved", "location", location, "tracks", len(tracks), "format", string(format))
	return location, nil
}
