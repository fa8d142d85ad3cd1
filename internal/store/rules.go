package store

import (
	"log"
	"sync"
	"time"

	"github.com/i474232898/crop-advisor/internal/crop"
)

// LoadFunc reads a rule set from path.
type LoadFunc func(path string) ([]crop.Rule, error)

// RuleStore is a concurrency-safe, process-wide cache of the crop rule set.
// The cached slice is shared by all readers and must not be modified.
type RuleStore struct {
	mu sync.RWMutex

	path string
	load LoadFunc

	loaded   bool
	rules    []crop.Rule
	err      error
	loadedAt time.Time
}

// NewRuleStore creates a store reading path with crop.LoadRules.
// Nothing is read until the first Reload or Rules call.
func NewRuleStore(path string) *RuleStore {
	return NewRuleStoreWithLoader(path, crop.LoadRules)
}

// NewRuleStoreWithLoader creates a store that reads rules with load.
func NewRuleStoreWithLoader(path string, load LoadFunc) *RuleStore {
	return &RuleStore{
		path: path,
		load: load,
	}
}

// Path returns the rule resource this store reads.
func (s *RuleStore) Path() string {
	return s.path
}

// Reload reads the rule resource and replaces the cached state. A failed
// load is remembered, so readers see the error until a later load succeeds.
// The last good rules are not kept after a failed load.
func (s *RuleStore) Reload() error {
	rules, err := s.load(s.path)

	s.mu.Lock()
	defer s.mu.Unlock()

	s.loaded = true
	s.loadedAt = time.Now().UTC()
	s.rules = rules
	s.err = err
	if err != nil {
		s.rules = nil
		return err
	}
	log.Printf("INFO: loaded %d crop rules from %s", len(rules), s.path)
	return nil
}

// Rules returns the cached rules, loading them on first use.
func (s *RuleStore) Rules() ([]crop.Rule, error) {
	s.mu.RLock()
	if s.loaded {
		defer s.mu.RUnlock()
		return s.rules, s.err
	}
	s.mu.RUnlock()

	if err := s.Reload(); err != nil {
		return nil, err
	}
	return s.Rules()
}

// LoadedAt returns when the cached state was last replaced; zero if never.
func (s *RuleStore) LoadedAt() time.Time {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.loadedAt
}
