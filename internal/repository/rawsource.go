// Package repository holds the concrete store implementations behind
// the domain repository interfaces: JSON files for local deployments,
// ClickHouse for the history series, Kafka for anomaly publication.
package repository

import (
	"errors"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/sgeorgiev1993-gif/kingscross-hospitality-ai/internal/normalize"
	applogger "github.com/sgeorgiev1993-gif/kingscross-hospitality-ai/pkg/logger"
)

// FileRawSource reads the latest raw collector snapshots from the data
// directory. A missing file is a normal condition; the fetchers run on
// their own schedule and may not have produced anything yet.
type FileRawSource struct {
	dir     string
	weather string
	transit string
	events  string
	venues  string
	l       *applogger.Logger
}

func NewFileRawSource(dir, weather, transit, events, venues string, l *applogger.Logger) *FileRawSource {
	return &FileRawSource{dir: dir, weather: weather, transit: transit, events: events, venues: venues, l: l}
}

// Load returns the raw bytes per source, nil for absent files.
func (s *FileRawSource) Load() normalize.RawSnapshots {
	return normalize.RawSnapshots{
		Weather: s.read(s.weather),
		Transit: s.read(s.transit),
		Events:  s.read(s.events),
		Venues:  s.read(s.venues),
	}
}

func (s *FileRawSource) read(name string) []byte {
	if name == "" {
		return nil
	}
	raw, err := os.ReadFile(filepath.Join(s.dir, name))
	if err != nil {
		if !errors.Is(err, fs.ErrNotExist) && s.l != nil {
			s.l.Warn("raw snapshot unreadable",
				applogger.String("file", name),
				applogger.Error(err),
			)
		}
		return nil
	}
	return raw
}
