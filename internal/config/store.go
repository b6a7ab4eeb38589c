package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"
)

// Store is the persisted-override source. Implementations must treat read
// failures as "no value present" at the resolver level, never as fatal.
type Store interface {
	Get(kind Kind) (string, bool, error)
	Set(kind Kind, value string) error
	Delete(kind Kind) error
}

// fileData is the on-disk shape: one JSON blob holding every override,
// namespaced by kind.
type fileData struct {
	Overrides map[string]string `json:"overrides"`
}

// FileStore persists overrides as a single JSON file under the widget home
// directory. The file is shared between widget instances on the same machine;
// writes from one instance are not pushed to another.
type FileStore struct {
	mu   sync.Mutex
	path string
}

func NewFileStore() (*FileStore, error) {
	path, err := configPath()
	if err != nil {
		return nil, fmt.Errorf("failed to get config path: %w", err)
	}
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return nil, fmt.Errorf("failed to create config directory: %w", err)
	}
	return &FileStore{path: path}, nil
}

// NewFileStoreAt is used by tests to point the store at a scratch directory.
func NewFileStoreAt(path string) *FileStore {
	return &FileStore{path: path}
}

func (s *FileStore) Get(kind Kind) (string, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	data, err := s.load()
	if err != nil {
		return "", false, err
	}
	v, ok := data.Overrides[string(kind)]
	return v, ok, nil
}

func (s *FileStore) Set(kind Kind, value string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	data, err := s.load()
	if err != nil {
		// Start fresh rather than refusing to persist over a corrupt file.
		data = &fileData{}
	}
	if data.Overrides == nil {
		data.Overrides = make(map[string]string)
	}
	data.Overrides[string(kind)] = value
	return s.save(data)
}

func (s *FileStore) Delete(kind Kind) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	data, err := s.load()
	if err != nil {
		return err
	}
	delete(data.Overrides, string(kind))
	return s.save(data)
}

func (s *FileStore) load() (*fileData, error) {
	raw, err := os.ReadFile(s.path)
	if os.IsNotExist(err) {
		return &fileData{Overrides: make(map[string]string)}, nil
	}
	if err != nil {
		return nil, err
	}
	var data fileData
	if err := json.Unmarshal(raw, &data); err != nil {
		return nil, err
	}
	if data.Overrides == nil {
		data.Overrides = make(map[string]string)
	}
	return &data, nil
}

func (s *FileStore) save(data *fileData) error {
	raw, err := json.MarshalIndent(data, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(s.path, raw, 0600)
}

func configPath() (string, error) {
	var configDir string

	// Use VOICEORB_HOME if set, otherwise the user's home directory.
	if orbHome := os.Getenv("VOICEORB_HOME"); orbHome != "" {
		configDir = orbHome
	} else {
		homeDir, err := os.UserHomeDir()
		if err != nil {
			return "", err
		}
		configDir = homeDir
	}

	return filepath.Join(configDir, ".voiceorb", "config.json"), nil
}

// LogPath is where the widget writes its rotated log file, next to the
// config blob.
func LogPath() (string, error) {
	path, err := configPath()
	if err != nil {
		return "", err
	}
	return filepath.Join(filepath.Dir(path), "voiceorb.log"), nil
}
