package history

import "time"

// MaxBatchDates caps the batch lookup input length.
const MaxBatchDates = 7

// Service exposes the lookup operations the API handlers need. It wraps the
// read-only store so handlers never touch storage directly.
type Service struct {
	store *Store
}

func NewService(store *Store) *Service {
	return &Service{store: store}
}

// Record returns the record for a canonical MM-DD key. found is false when
// the store has no data for the key; the returned record is still the
// well-formed empty shape in that case.
func (s *Service) Record(key string) (Record, bool) {
	return s.store.Record(key), s.store.Has(key)
}

// Batch resolves up to MaxBatchDates keys. Keys that fail date validation or
// have no data are silently skipped, they simply do not appear in the result.
// Callers enforce the length cap before calling; Batch itself never errors.
func (s *Service) Batch(keys []string) map[string]Record {
	results := make(map[string]Record)
	for _, key := range keys {
		if ValidDateKey(key) && s.store.Has(key) {
			results[key] = s.store.Record(key)
		}
	}
	return results
}

// Today returns the record for the server's current date.
func (s *Service) Today(now time.Time) (string, Record) {
	key := TodayKey(now)
	return key, s.store.Record(key)
}

// Keys returns all date keys that have data, sorted.
func (s *Service) Keys() []string {
	return s.store.Keys()
}
