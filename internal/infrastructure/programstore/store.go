package programstore

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/alex-galey/coach-mcp/internal/program"
	"github.com/goccy/go-yaml"
)

// Store persists the workout program as a single YAML file. Writes happen
// after every applied proposal so a restart resumes from the last applied
// state.
type Store struct {
	path   string
	logger *slog.Logger
}

// NewStore creates a store for the given file path.
func NewStore(path string, logger *slog.Logger) *Store {
	return &Store{
		path:   path,
		logger: logger,
	}
}

// Load reads and validates the program file.
func (s *Store) Load() (program.Program, error) {
	data, err := os.ReadFile(s.path)
	if err != nil {
		return program.Program{}, fmt.Errorf("failed to read program file: %w", err)
	}

	var p program.Program
	if err := yaml.Unmarshal(data, &p); err != nil {
		return program.Program{}, fmt.Errorf("failed to parse program file %s: %w", s.path, err)
	}

	if p.ID == "" {
		return program.Program{}, fmt.Errorf("program file %s has no id", s.path)
	}
	if err := p.CheckInvariants(); err != nil {
		return program.Program{}, fmt.Errorf("program file %s is inconsistent: %w", s.path, err)
	}

	return p, nil
}

// Save writes the program to the file, creating parent directories as
// needed. The file is written through a temporary name and renamed so a
// crash mid-write never leaves a truncated program behind.
func (s *Store) Save(p program.Program) error {
	data, err := yaml.Marshal(p)
	if err != nil {
		return fmt.Errorf("failed to serialize program: %w", err)
	}

	dir := filepath.Dir(s.path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("failed to create program directory: %w", err)
	}

	tmp := s.path + ".tmp"
	if err := os.WriteFile(tmp, data, 0o644); err != nil {
		return fmt.Errorf("failed to write program file: %w", err)
	}
	if err := os.Rename(tmp, s.path); err != nil {
		return fmt.Errorf("failed to replace program file: %w", err)
	}

	s.logger.Debug("Program saved", "path", s.path, "version", p.Version)
	return nil
}

// LoadOrCreate loads the program file, creating a fresh empty program with
// the given name when no file exists yet.
func (s *Store) LoadOrCreate(name string) (program.Program, error) {
	if _, err := os.Stat(s.path); os.IsNotExist(err) {
		p := program.New(name)
		if err := s.Save(p); err != nil {
			return program.Program{}, err
		}
		s.logger.Info("Created new program", "name", name, "path", s.path)
		return p, nil
	}
	return s.Load()
}
