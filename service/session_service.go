package service

import (
	"fmt"
	"log"
	"strings"
	"sync"
	"time"

	"github.com/BartJoris/live-babetteconcept-sub001/models"
)

// SessionService holds the mutable working set of one import: the staged
// inputs before matching and the matched session afterwards. The session is
// an immutable value; every mutation clones it, edits the clone, and swaps
// the pointer, so readers never observe a half-edited state.
type SessionService struct {
	mu      sync.RWMutex
	records []models.CatalogRecord
	assets  []models.Asset
	current *models.ImportSession
}

// SessionFilter is a read-only view filter over the session.
// Match: "" | "matched" | "unmatched". Conflict: "" | "existing" | "clean" | "unknown".
type SessionFilter struct {
	Match    string
	Conflict string
	Query    string
}

// NewSessionService creates a new SessionService
func NewSessionService() *SessionService {
	return &SessionService{}
}

// StageRecords replaces the staged catalog records (de-duplicated, first wins)
func (s *SessionService) StageRecords(records []models.CatalogRecord) int {
	deduped := models.DedupeRecords(records)
	s.mu.Lock()
	s.records = deduped
	s.mu.Unlock()
	log.Printf("📋 Staged %d catalog records (%d duplicates dropped)", len(deduped), len(records)-len(deduped))
	return len(deduped)
}

// StageAssets appends parsed photo assets to the staging area
func (s *SessionService) StageAssets(assets []models.Asset) int {
	s.mu.Lock()
	s.assets = append(s.assets, assets...)
	total := len(s.assets)
	s.mu.Unlock()
	return total
}

// StagedInputs returns the staged records and assets
func (s *SessionService) StagedInputs() ([]models.CatalogRecord, []models.Asset) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.records, s.assets
}

// Replace installs a freshly matched session
func (s *SessionService) Replace(session *models.ImportSession) {
	s.mu.Lock()
	s.current = session
	s.mu.Unlock()
}

// Current returns the current session snapshot, or nil before matching ran.
// Callers must treat the snapshot as read-only.
func (s *SessionService) Current() *models.ImportSession {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.current
}

// Reset discards the whole session including staged inputs
func (s *SessionService) Reset() {
	s.mu.Lock()
	s.records = nil
	s.assets = nil
	s.current = nil
	s.mu.Unlock()
	log.Printf("🗑️  Import session discarded")
}

// mutate clones the current session, applies fn to the clone, and swaps it
// in. fn returning an error leaves the current session untouched.
func (s *SessionService) mutate(fn func(*models.ImportSession) error) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.current == nil {
		return fmt.Errorf("no active import session")
	}
	clone := s.current.Clone()
	if err := fn(clone); err != nil {
		return err
	}
	s.current = clone
	return nil
}

// ToggleSelect flips the selection flag of one record. Selecting requires a
// non-empty asset list and a non-committed record; deselecting is always
// allowed.
func (s *SessionService) ToggleSelect(key string) error {
	return s.mutate(func(session *models.ImportSession) error {
		i := session.FindRecord(key)
		if i < 0 {
			return fmt.Errorf("record %s not found", key)
		}
		rec := &session.Records[i]
		if rec.Selected {
			rec.Selected = false
			return nil
		}
		if rec.Committed {
			return fmt.Errorf("record %s is already synchronized", key)
		}
		if len(rec.Assets) == 0 {
			return fmt.Errorf("record %s has no photos to synchronize", key)
		}
		rec.Selected = true
		return nil
	})
}

// SelectAll selects every non-committed record that has photos
func (s *SessionService) SelectAll() error {
	return s.mutate(func(session *models.ImportSession) error {
		for i := range session.Records {
			rec := &session.Records[i]
			rec.Selected = !rec.Committed && len(rec.Assets) > 0
		}
		return nil
	})
}

// DeselectAll clears the selection on every record
func (s *SessionService) DeselectAll() error {
	return s.mutate(func(session *models.ImportSession) error {
		for i := range session.Records {
			session.Records[i].Selected = false
		}
		return nil
	})
}

// AddAsset manually attaches a photo to a record (appended at the end) and
// forces the record selected. The photo is taken out of the unmatched set
// when present there.
func (s *SessionService) AddAsset(key string, asset models.Asset) error {
	return s.mutate(func(session *models.ImportSession) error {
		i := session.FindRecord(key)
		if i < 0 {
			return fmt.Errorf("record %s not found", key)
		}
		rec := &session.Records[i]
		if rec.Committed {
			return fmt.Errorf("record %s is already synchronized", key)
		}
		for _, existing := range rec.Assets {
			if existing.Filename == asset.Filename {
				return fmt.Errorf("photo %s already attached to %s", asset.Filename, key)
			}
		}
		rec.Assets = append(rec.Assets, asset)
		rec.Selected = true

		var unmatched []models.Asset
		for _, u := range session.Unmatched {
			if u.Filename != asset.Filename {
				unmatched = append(unmatched, u)
			}
		}
		session.Unmatched = unmatched
		return nil
	})
}

// UnmatchedAsset looks up a staged unmatched photo by filename
func (s *SessionService) UnmatchedAsset(filename string) (models.Asset, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.current == nil {
		return models.Asset{}, false
	}
	for _, a := range s.current.Unmatched {
		if a.Filename == filename {
			return a, true
		}
	}
	return models.Asset{}, false
}

// RemoveAsset detaches a photo from a record. Non-shared photos go back to
// the unmatched set; a record left without photos is deselected.
func (s *SessionService) RemoveAsset(key, filename string) error {
	return s.mutate(func(session *models.ImportSession) error {
		i := session.FindRecord(key)
		if i < 0 {
			return fmt.Errorf("record %s not found", key)
		}
		rec := &session.Records[i]
		idx := -1
		for j, a := range rec.Assets {
			if a.Filename == filename {
				idx = j
				break
			}
		}
		if idx < 0 {
			return fmt.Errorf("photo %s not attached to %s", filename, key)
		}
		removed := rec.Assets[idx]
		rec.Assets = append(rec.Assets[:idx], rec.Assets[idx+1:]...)
		if len(rec.Assets) == 0 {
			rec.Selected = false
		}
		if removed.Category == models.AssetProduct {
			session.Unmatched = append(session.Unmatched, removed)
		}
		return nil
	})
}

// MoveAsset reorders a record's photo list; position 0 is the cover image
func (s *SessionService) MoveAsset(key string, from, to int) error {
	return s.mutate(func(session *models.ImportSession) error {
		i := session.FindRecord(key)
		if i < 0 {
			return fmt.Errorf("record %s not found", key)
		}
		rec := &session.Records[i]
		if from < 0 || from >= len(rec.Assets) || to < 0 || to >= len(rec.Assets) {
			return fmt.Errorf("move out of range: %d -> %d with %d photos", from, to, len(rec.Assets))
		}
		asset := rec.Assets[from]
		rec.Assets = append(rec.Assets[:from], rec.Assets[from+1:]...)
		rec.Assets = append(rec.Assets[:to], append([]models.Asset{asset}, rec.Assets[to:]...)...)
		return nil
	})
}

// SelectedPending returns the records the next batch run will process:
// selected, not yet committed, with at least one photo.
func (s *SessionService) SelectedPending() []models.MatchedRecord {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.current == nil {
		return nil
	}
	var pending []models.MatchedRecord
	for _, rec := range s.current.Records {
		if rec.Selected && !rec.Committed && len(rec.Assets) > 0 {
			pending = append(pending, rec.CloneAssets())
		}
	}
	return pending
}

// MarkCommitted records a successful synchronization: the record leaves the
// actionable pending set until an explicit session reset.
func (s *SessionService) MarkCommitted(key string) error {
	return s.mutate(func(session *models.ImportSession) error {
		i := session.FindRecord(key)
		if i < 0 {
			return fmt.Errorf("record %s not found", key)
		}
		rec := &session.Records[i]
		rec.Committed = true
		rec.Selected = false
		rec.LastError = ""
		rec.External.Checked = true
		rec.External.HasExistingAssets = true
		return nil
	})
}

// MarkFailed captures a record-level failure: the record stays pending but
// deselected, with the reason attached for a future retry.
func (s *SessionService) MarkFailed(key, reason string) error {
	return s.mutate(func(session *models.ImportSession) error {
		i := session.FindRecord(key)
		if i < 0 {
			return fmt.Errorf("record %s not found", key)
		}
		rec := &session.Records[i]
		rec.Selected = false
		rec.LastError = reason
		return nil
	})
}

// FilterRecords returns a read-only filtered view of the session's records.
// Filtering never mutates stored state.
func (s *SessionService) FilterRecords(filter SessionFilter) []models.MatchedRecord {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.current == nil {
		return nil
	}

	var result []models.MatchedRecord
	for _, rec := range s.current.Records {
		if filter.Match == "matched" && len(rec.Assets) == 0 {
			continue
		}
		if filter.Match == "unmatched" && len(rec.Assets) > 0 {
			continue
		}
		switch filter.Conflict {
		case "existing":
			if !rec.External.Checked || !rec.External.HasExistingAssets {
				continue
			}
		case "clean":
			if !rec.External.Checked || rec.External.HasExistingAssets {
				continue
			}
		case "unknown":
			if rec.External.Checked {
				continue
			}
		}
		if filter.Query != "" && !recordMatchesQuery(rec, filter.Query) {
			continue
		}
		result = append(result, rec)
	}
	return result
}

func recordMatchesQuery(rec models.MatchedRecord, query string) bool {
	q := strings.ToLower(query)
	return strings.Contains(strings.ToLower(rec.Record.ReferenceCode), q) ||
		strings.Contains(strings.ToLower(rec.Record.VariantLabel), q) ||
		strings.Contains(strings.ToLower(rec.Record.VariantCode), q) ||
		strings.Contains(strings.ToLower(rec.Record.DisplayName), q)
}

// CreateSession builds and installs a session value from matcher output
func (s *SessionService) CreateSession(supplier string, records []models.MatchedRecord, unmatched []models.Asset) *models.ImportSession {
	session := &models.ImportSession{
		Supplier:  supplier,
		Records:   records,
		Unmatched: unmatched,
		CreatedAt: time.Now(),
	}
	s.Replace(session)
	return session
}
