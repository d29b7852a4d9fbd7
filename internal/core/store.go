package core

// store.go holds the in-memory record collection.
//
// The store is append-only: records keep insertion order, duplicates are
// allowed and nothing is ever edited or removed. It does not validate.
// Submit validates before calling Append; Import calls AppendMany with
// decoded records as they are.

import (
	"sync"

	"github.com/JonMunkholm/roster/internal/student"
)

// RecordStore is an ordered, append-only collection of student records.
// The zero value is ready to use.
type RecordStore struct {
	mu      sync.RWMutex
	records []student.Record
}

// NewRecordStore creates a store, optionally seeded with records.
func NewRecordStore(seed ...student.Record) *RecordStore {
	s := &RecordStore{}
	s.records = append(s.records, seed...)
	return s
}

// Append adds one record at the end.
func (s *RecordStore) Append(rec student.Record) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.records = append(s.records, rec)
}

// AppendMany adds records at the end in the given order. Readers see either
// none or all of them.
func (s *RecordStore) AppendMany(recs []student.Record) {
	if len(recs) == 0 {
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.records = append(s.records, recs...)
}

// All returns a copy of the records in insertion order.
func (s *RecordStore) All() []student.Record {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]student.Record, len(s.records))
	copy(out, s.records)
	return out
}

// Count returns the number of stored records.
func (s *RecordStore) Count() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.records)
}
