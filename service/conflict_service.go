package service

import (
	"context"
	"log"

	"golang.org/x/sync/errgroup"

	"github.com/BartJoris/live-babetteconcept-sub001/models"
	"github.com/BartJoris/live-babetteconcept-sub001/utils"
)

// defaultLookupConcurrency bounds parallel catalog lookups. Lookups are
// read-only and independent per record, so a small pool is safe.
const defaultLookupConcurrency = 4

// ConflictService annotates matched records with the catalog's view of them,
// so the import never silently overwrites existing product images.
type ConflictService struct {
	client      CatalogClientInterface
	normalizer  *utils.ColorNormalizer
	concurrency int
}

// NewConflictService creates a new ConflictService
func NewConflictService(client CatalogClientInterface, normalizer *utils.ColorNormalizer) *ConflictService {
	return &ConflictService{
		client:      client,
		normalizer:  normalizer,
		concurrency: defaultLookupConcurrency,
	}
}

// AnnotateRecords looks up every record with photos in the catalog and fills
// in its external state, then derives the default selection: a record is
// auto-selected only when it has photos and the catalog reports no existing
// images. Lookups are best-effort: a failed lookup leaves the record in the
// "unknown" state (not auto-selected) instead of failing the whole pass.
func (s *ConflictService) AnnotateRecords(ctx context.Context, creds models.Credentials, records []models.MatchedRecord) []models.MatchedRecord {
	annotated := make([]models.MatchedRecord, len(records))
	copy(annotated, records)

	group, ctx := errgroup.WithContext(ctx)
	group.SetLimit(s.concurrency)

	for i := range annotated {
		if len(annotated[i].Assets) == 0 {
			continue
		}
		i := i
		group.Go(func() error {
			rec := &annotated[i]
			entries, err := s.client.Lookup(ctx, creds, rec.Record.ReferenceCode, rec.Record.VariantLabel)
			if err != nil {
				log.Printf("⚠️  Lookup failed for %s / %s: %v", rec.Record.ReferenceCode, rec.Record.VariantLabel, err)
				rec.External = models.ExternalState{}
				return nil
			}
			if entry, ok := s.BestMatch(entries, rec.Record.VariantLabel); ok {
				rec.External = models.ExternalState{
					Checked:            true,
					HasExistingAssets:  entry.HasExistingAssets,
					ExistingAssetCount: entry.ExistingAssetCount,
					ExternalID:         entry.ExternalID,
				}
			} else {
				rec.External = models.ExternalState{}
			}
			return nil
		})
	}
	_ = group.Wait()

	for i := range annotated {
		rec := &annotated[i]
		rec.Selected = len(rec.Assets) > 0 && rec.External.Checked && !rec.External.HasExistingAssets
	}

	log.Printf("🔎 Conflict check done: %d records annotated, %d auto-selected",
		len(annotated), countSelected(annotated))
	return annotated
}

// BestMatch picks the catalog entry for a record among lookup candidates:
// the first entry whose variant label fuzzily equals the record's, otherwise
// the first entry returned.
func (s *ConflictService) BestMatch(entries []models.CatalogEntry, variantLabel string) (models.CatalogEntry, bool) {
	return bestEntry(s.normalizer, entries, variantLabel)
}

func countSelected(records []models.MatchedRecord) int {
	count := 0
	for _, r := range records {
		if r.Selected {
			count++
		}
	}
	return count
}
