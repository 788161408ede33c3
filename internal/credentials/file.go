package credentials

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sync"

	"gopkg.in/yaml.v3"
)

const (
	fileMode = 0o600
	dirMode  = 0o700
)

// fileContent is the on-disk layout of a FileStore
type fileContent struct {
	Services map[string]Credential `yaml:"services"`
}

// FileStore is a Store persisted as a YAML file readable only by its owner.
// The file is re-read on every call and replaced atomically on every write.
type FileStore struct {
	path string
	mu   sync.Mutex
}

// NewFileStore creates a store backed by path; the file is created on first write
func NewFileStore(path string) *FileStore {
	return &FileStore{path: path}
}

// Path returns the backing file location
func (s *FileStore) Path() string {
	return s.path
}

// Set stores or replaces the credential for service
func (s *FileStore) Set(service, username, password string) error {
	if err := validate(service, username, password); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	content, err := s.load()
	if err != nil {
		return err
	}
	content.Services[service] = Credential{Username: username, Password: password}
	return s.save(content)
}

// Get returns the credential for service
func (s *FileStore) Get(service string) (Credential, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	content, err := s.load()
	if err != nil {
		return Credential{}, err
	}
	cred, ok := content.Services[service]
	if !ok {
		return Credential{}, missing(service)
	}
	return cred, nil
}

// Delete removes the credential for service
func (s *FileStore) Delete(service string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	content, err := s.load()
	if err != nil {
		return err
	}
	if _, ok := content.Services[service]; !ok {
		return missing(service)
	}
	delete(content.Services, service)
	return s.save(content)
}

// ListServices returns all stored services sorted
func (s *FileStore) ListServices() ([]string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	content, err := s.load()
	if err != nil {
		return nil, err
	}
	return sortedKeys(content.Services), nil
}

func (s *FileStore) load() (*fileContent, error) {
	content := &fileContent{}

	data, err := os.ReadFile(s.path)
	switch {
	case errors.Is(err, fs.ErrNotExist):
	case err != nil:
		return nil, fmt.Errorf("failed to read credentials file: %w", err)
	default:
		if err := yaml.Unmarshal(data, content); err != nil {
			return nil, fmt.Errorf("failed to parse credentials file %s: %w", s.path, err)
		}
	}

	if content.Services == nil {
		content.Services = make(map[string]Credential)
	}
	return content, nil
}

func (s *FileStore) save(content *fileContent) error {
	data, err := yaml.Marshal(content)
	if err != nil {
		return fmt.Errorf("failed to encode credentials: %w", err)
	}

	dir := filepath.Dir(s.path)
	if err := os.MkdirAll(dir, dirMode); err != nil {
		return fmt.Errorf("failed to create credentials directory: %w", err)
	}

	tmp, err := os.CreateTemp(dir, ".credentials-*.yaml")
	if err != nil {
		return fmt.Errorf("failed to create temporary credentials file: %w", err)
	}
	tmpName := tmp.Name()
	defer os.Remove(tmpName) // no-op after a successful rename

	if err := tmp.Chmod(fileMode); err != nil {
		tmp.Close()
		return fmt.Errorf("failed to restrict credentials file: %w", err)
	}
	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return fmt.Errorf("failed to write credentials file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("failed to write credentials file: %w", err)
	}

	if err := os.Rename(tmpName, s.path); err != nil {
		return fmt.Errorf("failed to replace credentials file: %w", err)
	}
	return nil
}
