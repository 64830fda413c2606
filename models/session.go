package models

import "time"

// ImportSession is the editable working set produced by the matching engine.
// Sessions are treated as immutable values: every mutation replaces the whole
// session with a fresh copy instead of splicing slices in place.
type ImportSession struct {
	Supplier  string          `json:"supplier"`
	Records   []MatchedRecord `json:"records"`
	Unmatched []Asset         `json:"unmatched"`
	CreatedAt time.Time       `json:"createdAt"`
}

// Clone returns a deep copy of the session (records get their own asset slices)
func (s *ImportSession) Clone() *ImportSession {
	clone := &ImportSession{
		Supplier:  s.Supplier,
		Records:   make([]MatchedRecord, len(s.Records)),
		Unmatched: make([]Asset, len(s.Unmatched)),
		CreatedAt: s.CreatedAt,
	}
	for i, rec := range s.Records {
		clone.Records[i] = rec.CloneAssets()
	}
	copy(clone.Unmatched, s.Unmatched)
	return clone
}

// FindRecord returns the index of the record with the given key, or -1
func (s *ImportSession) FindRecord(key string) int {
	for i := range s.Records {
		if s.Records[i].Key() == key {
			return i
		}
	}
	return -1
}
