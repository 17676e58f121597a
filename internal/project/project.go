// Package project reads and writes workspace files (.salesproj).
//
// A workspace remembers which database and background map were open and
// the last report, so a session can be reopened or exported from the
// command line. The map view is not saved; every scene load starts at the
// identity transform.
package project

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"
)

// Extension is the workspace file suffix.
const Extension = ".salesproj"

// CurrentVersion is written to new files. Older versions are read as-is.
const CurrentVersion = 1

// ErrUnsupportedVersion is returned for files written by a newer release.
var ErrUnsupportedVersion = errors.New("unsupported workspace version")

// File is a workspace on disk. Paths are stored relative to the file.
type File struct {
	Version  int       `json:"version"`
	Name     string    `json:"name"`
	Created  time.Time `json:"created"`
	Modified time.Time `json:"modified"`

	DatabasePath   string `json:"database,omitempty"`
	BackgroundPath string `json:"background,omitempty"`

	Report string `json:"report,omitempty"`
}

// New creates an empty workspace.
func New(name string) *File {
	now := time.Now()
	return &File{
		Version:  CurrentVersion,
		Name:     name,
		Created:  now,
		Modified: now,
	}
}

// Load reads a workspace file.
func Load(path string) (*File, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	var f File
	if err := json.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("parse workspace %s: %w", path, err)
	}
	if f.Version > CurrentVersion {
		return nil, fmt.Errorf("%s: %w %d", path, ErrUnsupportedVersion, f.Version)
	}
	return &f, nil
}

// Save writes the workspace to path, updating Modified.
func (f *File) Save(path string) error {
	f.Modified = time.Now()
	if f.Version == 0 {
		f.Version = CurrentVersion
	}

	data, err := json.MarshalIndent(f, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}

// SetDatabase stores dbPath relative to the workspace at projectPath.
func (f *File) SetDatabase(projectPath, dbPath string) {
	f.DatabasePath = relativeTo(projectPath, dbPath)
	f.Modified = time.Now()
}

// SetBackground stores imagePath relative to the workspace at projectPath.
func (f *File) SetBackground(projectPath, imagePath string) {
	f.BackgroundPath = relativeTo(projectPath, imagePath)
	f.Modified = time.Now()
}

// Database returns the absolute database path, or "".
func (f *File) Database(projectPath string) string {
	return resolve(projectPath, f.DatabasePath)
}

// Background returns the absolute background image path, or "".
func (f *File) Background(projectPath string) string {
	return resolve(projectPath, f.BackgroundPath)
}

func relativeTo(projectPath, path string) string {
	if path == "" {
		return ""
	}
	rel, err := filepath.Rel(filepath.Dir(projectPath), path)
	if err != nil {
		return path
	}
	return rel
}

func resolve(projectPath, path string) string {
	if path == "" {
		return ""
	}
	if filepath.IsAbs(path) {
		return path
	}
	return filepath.Join(filepath.Dir(projectPath), path)
}
