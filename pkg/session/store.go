package session

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/afero"
	"gopkg.in/yaml.v3"
)

func NewStore(fs afero.Fs, file string) *Store {
	return &Store{fs: fs, file: file}
}

type Store struct {
	fs   afero.Fs
	file string
}

// Load returns the stored settings, or the defaults when nothing was saved yet.
func (s *Store) Load() (Settings, error) {
	bs, err := afero.ReadFile(s.fs, s.file)
	if err != nil {
		if os.IsNotExist(err) {
			return Default(), nil
		}
		return Settings{}, err
	}

	settings := Default()
	if err := yaml.Unmarshal(bs, &settings); err != nil {
		return Settings{}, fmt.Errorf("parse %s failed: %w", s.file, err)
	}

	return settings, nil
}

func (s *Store) Save(settings Settings) error {
	bs, err := yaml.Marshal(settings)
	if err != nil {
		return err
	}

	if dir := filepath.Dir(s.file); dir != "." {
		if err := s.fs.MkdirAll(dir, 0755); err != nil {
			return err
		}
	}

	return afero.WriteFile(s.fs, s.file, bs, 0644)
}
