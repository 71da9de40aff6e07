package history

import (
	_ "embed"
	"encoding/json"
	"fmt"
	"sort"
)

//go:embed data/history.json
var embeddedDataset []byte

// Store is the in-memory date-keyed dataset. Records are loaded once at
// construction and never mutated, so concurrent reads from any number of
// in-flight requests need no locking.
type Store struct {
	records map[string]Record
	keys    []string
}

// NewStore loads the embedded dataset.
func NewStore() (*Store, error) {
	return NewStoreFromJSON(embeddedDataset)
}

// NewStoreFromJSON builds a store from raw dataset JSON: a mapping of MM-DD
// keys to records. Keys failing the date format are rejected at load time so
// bad data never becomes reachable.
func NewStoreFromJSON(data []byte) (*Store, error) {
	var records map[string]Record
	if err := json.Unmarshal(data, &records); err != nil {
		return nil, fmt.Errorf("parse dataset: %w", err)
	}

	keys := make([]string, 0, len(records))
	for key, rec := range records {
		if !ValidDateKey(key) {
			return nil, fmt.Errorf("dataset key %q is not a valid MM-DD date", key)
		}
		records[key] = normalize(rec)
		keys = append(keys, key)
	}
	sort.Strings(keys)

	return &Store{records: records, keys: keys}, nil
}

// normalize guarantees the non-nil slice invariant on every stored record.
func normalize(rec Record) Record {
	if rec.Events == nil {
		rec.Events = []Event{}
	}
	if rec.Birthdays == nil {
		rec.Birthdays = []Person{}
	}
	if rec.Deaths == nil {
		rec.Deaths = []Person{}
	}
	return rec
}

// Record returns the record for a canonical date key, or the empty record
// when the key is absent. It never fails.
func (s *Store) Record(key string) Record {
	if rec, ok := s.records[key]; ok {
		return rec
	}
	return EmptyRecord()
}

// Has reports whether any data exists for the key.
func (s *Store) Has(key string) bool {
	_, ok := s.records[key]
	return ok
}

// Keys returns all known date keys in sorted order.
func (s *Store) Keys() []string {
	return s.keys
}

// Len returns the number of dates with data.
func (s *Store) Len() int {
	return len(s.records)
}
