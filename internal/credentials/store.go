// Package credentials keeps registry credentials keyed by service, the
// registry base URL including its scheme.
package credentials

import (
	"errors"
	"fmt"
	"net"
	"sort"
	"strings"
	"sync"

	"github.com/ataraskov/pocket-registry/internal/api"
)

var (
	// ErrMissingCredentials indicates no entry is stored for a service
	ErrMissingCredentials = errors.New("no credentials stored for service")
	// ErrIncompleteCredentials indicates an empty username or password
	ErrIncompleteCredentials = errors.New("username and password are required")
)

// Credential is the username/password pair stored for one service
type Credential struct {
	Username string `yaml:"username"`
	Password string `yaml:"password"`
}

// Store is the secure storage contract the browser depends on
type Store interface {
	Set(service, username, password string) error
	// Get returns ErrMissingCredentials when nothing is stored for service
	Get(service string) (Credential, error)
	// Delete returns ErrMissingCredentials when nothing is stored for service
	Delete(service string) error
	// ListServices returns the stored services in ascending order
	ListServices() ([]string, error)
}

// ServiceURL builds the service key for a registry the way the add form
// composes it: scheme from secure, then host, then an optional port.
func ServiceURL(host, port string, secure bool) (string, error) {
	host = strings.TrimSpace(host)
	port = strings.TrimSpace(port)
	if host == "" {
		return "", fmt.Errorf("%w: host is required", api.ErrInvalidHostname)
	}

	scheme := "http://"
	if secure {
		scheme = "https://"
	}

	address := host
	if port != "" {
		address = net.JoinHostPort(host, port)
	}

	service := scheme + address
	if err := api.ValidateHostname(service); err != nil {
		return "", err
	}
	return service, nil
}

// Endpoint resolves a stored service into an explicit API endpoint
func Endpoint(store Store, service string) (api.Endpoint, error) {
	cred, err := store.Get(service)
	if err != nil {
		return api.Endpoint{}, err
	}
	return api.Endpoint{
		Hostname: service,
		Username: cred.Username,
		Password: cred.Password,
	}, nil
}

func validate(service, username, password string) error {
	if err := api.ValidateHostname(service); err != nil {
		return err
	}
	if username == "" || password == "" {
		return ErrIncompleteCredentials
	}
	return nil
}

func missing(service string) error {
	return fmt.Errorf("%w: %s", ErrMissingCredentials, service)
}

// MemoryStore is a Store held in process memory
type MemoryStore struct {
	mu      sync.RWMutex
	entries map[string]Credential
}

// NewMemoryStore creates an empty in-memory store
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{entries: make(map[string]Credential)}
}

// Set stores or replaces the credential for service
func (s *MemoryStore) Set(service, username, password string) error {
	if err := validate(service, username, password); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.entries[service] = Credential{Username: username, Password: password}
	return nil
}

// Get returns the credential for service
func (s *MemoryStore) Get(service string) (Credential, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	cred, ok := s.entries[service]
	if !ok {
		return Credential{}, missing(service)
	}
	return cred, nil
}

// Delete removes the credential for service
func (s *MemoryStore) Delete(service string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.entries[service]; !ok {
		return missing(service)
	}
	delete(s.entries, service)
	return nil
}

// ListServices returns all stored services sorted
func (s *MemoryStore) ListServices() ([]string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return sortedKeys(s.entries), nil
}

func sortedKeys(entries map[string]Credential) []string {
	services := make([]string, 0, len(entries))
	for service := range entries {
		services = append(services, service)
	}
	sort.Strings(services)
	return services
}
