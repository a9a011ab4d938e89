package pipeline

import (
	"fmt"
	"os"
	"strings"
	"sync"
	"time"

	"github.com/rs/zerolog/log"
)

// Store caches parsed datasets so repeated tool calls against the same
// file do not re-parse it. Entries are invalidated when the file's
// modification time changes. The cache holds parsed input only; computed
// curves and simulations are never stored.
type Store struct {
	mu            sync.Mutex
	maxRows       int
	opportunities map[string]cachedEntry[OpportunityTable]
	values        map[string]cachedEntry[ValueTable]
}

type cachedEntry[T any] struct {
	data    T
	modTime time.Time
}

// NewStore creates a dataset store. maxRows bounds the accepted row
// count per table; pass 0 for no limit.
func NewStore(maxRows int) *Store {
	return &Store{
		maxRows:       maxRows,
		opportunities: make(map[string]cachedEntry[OpportunityTable]),
		values:        make(map[string]cachedEntry[ValueTable]),
	}
}

// Opportunities loads and caches a survival-domain CSV.
func (s *Store) Opportunities(path string) (OpportunityTable, error) {
	return load(s, s.opportunities, path, func(f *os.File) (OpportunityTable, error) {
		return LoadOpportunities(f, s.maxRows)
	})
}

// DealValues loads and caches a distribution-domain file. Files ending
// in .json use the sample-data JSON shape; anything else is parsed as
// CSV.
func (s *Store) DealValues(path string) (ValueTable, error) {
	return load(s, s.values, path, func(f *os.File) (ValueTable, error) {
		if isJSONPath(path) {
			return LoadDealValuesJSON(f, s.maxRows)
		}
		return LoadDealValues(f, s.maxRows)
	})
}

func load[T any](s *Store, cache map[string]cachedEntry[T], path string, parse func(*os.File) (T, error)) (T, error) {
	var zero T

	info, err := os.Stat(path)
	if err != nil {
		return zero, fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}

	s.mu.Lock()
	entry, ok := cache[path]
	s.mu.Unlock()
	if ok && entry.modTime.Equal(info.ModTime()) {
		log.Debug().Str("path", path).Msg("Dataset served from cache")
		return entry.data, nil
	}

	f, err := os.Open(path)
	if err != nil {
		return zero, fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}
	defer f.Close()

	data, err := parse(f)
	if err != nil {
		return zero, err
	}

	s.mu.Lock()
	cache[path] = cachedEntry[T]{data: data, modTime: info.ModTime()}
	s.mu.Unlock()

	log.Info().Str("path", path).Msg("Dataset loaded")
	return data, nil
}

func isJSONPath(path string) bool {
	return strings.HasSuffix(path, ".json")
}
