package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sync"

	"github.com/DeafMist/quiet-radar/internal/models"
)

// File names used inside the data directory.
const (
	HistoryFile = "history.json"
	ReportFile  = "output.json"
)

// File keeps the ledger and the latest report as JSON documents in a
// directory. Writes go through a temp file and a rename.
type File struct {
	dir string
	mu  sync.RWMutex
}

// NewFile creates dir if needed and returns a store rooted at it.
func NewFile(dir string) (*File, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create data dir: %w", err)
	}
	return &File{dir: dir}, nil
}

func (f *File) LoadHistory(_ context.Context) (models.History, error) {
	f.mu.RLock()
	defer f.mu.RUnlock()

	var h models.History
	if err := f.read(HistoryFile, &h); err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return models.History{Days: []models.DaySnapshot{}}, nil
		}
		return models.History{}, err
	}
	if h.Days == nil {
		h.Days = []models.DaySnapshot{}
	}
	return h, nil
}

func (f *File) SaveHistory(_ context.Context, h models.History) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.write(HistoryFile, h)
}

func (f *File) SaveReport(_ context.Context, r models.Report) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.write(ReportFile, r)
}

func (f *File) LatestReport(_ context.Context) (*models.Report, error) {
	f.mu.RLock()
	defer f.mu.RUnlock()

	var r models.Report
	if err := f.read(ReportFile, &r); err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, models.ErrReportNotFound
		}
		return nil, err
	}
	return &r, nil
}

// Ping checks that the data directory is still there.
func (f *File) Ping(_ context.Context) error {
	info, err := os.Stat(f.dir)
	if err != nil {
		return fmt.Errorf("stat data dir: %w", err)
	}
	if !info.IsDir() {
		return fmt.Errorf("data dir %s is not a directory", f.dir)
	}
	return nil
}

func (f *File) Close() error { return nil }

func (f *File) read(name string, v any) error {
	data, err := os.ReadFile(filepath.Join(f.dir, name))
	if err != nil {
		return err
	}
	if err := json.Unmarshal(data, v); err != nil {
		return fmt.Errorf("decode %s: %w", name, err)
	}
	return nil
}

func (f *File) write(name string, v any) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("encode %s: %w", name, err)
	}

	tmp, err := os.CreateTemp(f.dir, name+".*.tmp")
	if err != nil {
		return fmt.Errorf("create temp for %s: %w", name, err)
	}
	defer os.Remove(tmp.Name())

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return fmt.Errorf("write %s: %w", name, err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("close %s: %w", name, err)
	}
	if err := os.Rename(tmp.Name(), filepath.Join(f.dir, name)); err != nil {
		return fmt.Errorf("replace %s: %w", name, err)
	}
	return nil
}
