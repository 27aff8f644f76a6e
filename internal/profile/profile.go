// Package profile reads and writes the JSON profile file.
package profile

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/gofrs/flock"

	"github.com/prabalesh/procdeck/internal/models"
)

var (
	ErrNotFound  = errors.New("profile not found")
	ErrMalformed = errors.New("malformed profile")
	ErrEmptyArgs = errors.New("process has no arguments")
)

// Load reads and validates the profile at path.
func Load(path string) (*models.Profile, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("%w: %s", ErrNotFound, path)
		}
		return nil, fmt.Errorf("reading profile: %w", err)
	}
	return Decode(data)
}

// Decode parses and validates profile JSON.
func Decode(data []byte) (*models.Profile, error) {
	var p models.Profile
	if err := json.Unmarshal(data, &p); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformed, err)
	}
	if err := Validate(&p); err != nil {
		return nil, err
	}
	return &p, nil
}

// Validate checks that every process has an argument list.
func Validate(p *models.Profile) error {
	for gi, g := range p.Groups {
		for pi, spec := range g.Processes {
			if len(spec.Args) == 0 {
				return fmt.Errorf("group %d (%q) process %d: %w", gi, g.Name, pi, ErrEmptyArgs)
			}
		}
	}
	return nil
}

// Encode renders the profile with two-space indentation. Nil slices are
// written as empty arrays.
func Encode(p *models.Profile) ([]byte, error) {
	out := models.Profile{Groups: make([]models.Group, 0, len(p.Groups))}
	for _, g := range p.Groups {
		procs := g.Processes
		if procs == nil {
			procs = []models.ProcessSpec{}
		}
		out.Groups = append(out.Groups, models.Group{Name: g.Name, Processes: procs})
	}
	return json.MarshalIndent(out, "", "  ")
}

// Save validates p and writes it to path atomically. Concurrent savers are
// serialized through an advisory lock next to the file, removed once the
// write is done.
func Save(path string, p *models.Profile) error {
	if err := Validate(p); err != nil {
		return err
	}
	data, err := Encode(p)
	if err != nil {
		return fmt.Errorf("encoding profile: %w", err)
	}

	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("creating profile directory: %w", err)
	}
	lock := flock.New(path + ".lock")
	if err := lock.Lock(); err != nil {
		return fmt.Errorf("locking profile: %w", err)
	}
	defer func() {
		_ = os.Remove(lock.Path())
		_ = lock.Unlock()
	}()

	return atomicWrite(path, data)
}

func atomicWrite(path string, data []byte) error {
	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, data, 0o644); err != nil {
		return fmt.Errorf("writing profile: %w", err)
	}
	if err := os.Rename(tmp, path); err != nil {
		_ = os.Remove(tmp)
		return fmt.Errorf("replacing profile: %w", err)
	}
	return nil
}
