package save

import (
	"errors"
	"fmt"
	"log"
	"strings"

	"github.com/quasilyte/gdata/v2"
	"gopkg.in/yaml.v3"
)

var ErrInvalidKey = errors.New("save: invalid key")

const portalObject = "portals"

// Backend is the subset of *gdata.Manager the store needs.
type Backend interface {
	ObjectPropExists(objectKey, propKey string) bool
	LoadObjectProp(objectKey, propKey string) ([]byte, error)
	SaveObjectProp(objectKey, propKey string, data []byte) error
}

// PortalRecord is the persisted state of one portal.
type PortalRecord struct {
	Open        bool `yaml:"open"`
	Transitions int  `yaml:"transitions"`
}

// Store saves portal records as YAML. Without a backend it keeps records
// in memory only.
type Store struct {
	backend Backend
	memory  map[string]PortalRecord
}

// Open opens the per-user data directory for appName. Failing to open it
// is not fatal: the returned store runs in memory.
func Open(appName string) *Store {
	m, err := gdata.Open(gdata.Config{AppName: appName})
	if err != nil {
		log.Printf("save: gdata unavailable, state will not persist: %v", err)
		return NewStore(nil)
	}
	return NewStore(m)
}

func NewStore(backend Backend) *Store {
	return &Store{backend: backend, memory: map[string]PortalRecord{}}
}

// Persistent reports whether records outlive the process.
func (s *Store) Persistent() bool {
	return s != nil && s.backend != nil
}

// LoadPortal returns the record stored under key. ok is false when nothing
// was saved yet.
func (s *Store) LoadPortal(key string) (PortalRecord, bool, error) {
	if err := validKey(key); err != nil {
		return PortalRecord{}, false, err
	}
	if s.backend == nil {
		rec, ok := s.memory[key]
		return rec, ok, nil
	}
	if !s.backend.ObjectPropExists(portalObject, key) {
		return PortalRecord{}, false, nil
	}
	data, err := s.backend.LoadObjectProp(portalObject, key)
	if err != nil {
		return PortalRecord{}, false, fmt.Errorf("save: load %s: %w", key, err)
	}
	var rec PortalRecord
	if err := yaml.Unmarshal(data, &rec); err != nil {
		return PortalRecord{}, false, fmt.Errorf("save: unmarshal %s: %w", key, err)
	}
	return rec, true, nil
}

func (s *Store) SavePortal(key string, rec PortalRecord) error {
	if err := validKey(key); err != nil {
		return err
	}
	if s.backend == nil {
		s.memory[key] = rec
		return nil
	}
	data, err := yaml.Marshal(rec)
	if err != nil {
		return fmt.Errorf("save: marshal %s: %w", key, err)
	}
	if err := s.backend.SaveObjectProp(portalObject, key, data); err != nil {
		return fmt.Errorf("save: write %s: %w", key, err)
	}
	return nil
}

func validKey(key string) error {
	if strings.TrimSpace(key) == "" || strings.ContainsAny(key, `/\.`) {
		return fmt.Errorf("%w: %q", ErrInvalidKey, key)
	}
	return nil
}
