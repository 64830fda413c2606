package service

import (
	"log"
	"sort"

	"github.com/BartJoris/live-babetteconcept-sub001/models"
	"github.com/BartJoris/live-babetteconcept-sub001/utils"
)

// MatchingService assigns photo assets to catalog records.
// Implements MatchingServiceInterface
type MatchingService struct {
	normalizer *utils.ColorNormalizer
}

// NewMatchingService creates a new MatchingService
func NewMatchingService(normalizer *utils.ColorNormalizer) *MatchingService {
	return &MatchingService{normalizer: normalizer}
}

// Ensure MatchingService implements MatchingServiceInterface
var _ MatchingServiceInterface = (*MatchingService)(nil)

// Match pairs catalog records with photo assets in two passes and returns
// the matched records plus the product photos nothing claimed.
//
// Pass 1 assigns product-category assets exclusively: a record claims an
// asset on exact reference equality plus normalized variant equality, and
// the asset leaves the pool. Pass 2 attaches shared lifestyle assets: the
// asset's reference set must contain the record's reference and its variant
// token must be absent or equal; shared assets never leave the pool.
//
// Records are processed in (referenceCode, variantCode) order so a reference
// collision always resolves to the first record in sorted order. Re-running
// Match on unmodified inputs yields an identical result.
func (s *MatchingService) Match(records []models.CatalogRecord, assets []models.Asset) ([]models.MatchedRecord, []models.Asset) {
	deduped := models.DedupeRecords(records)
	sorted := make([]models.CatalogRecord, len(deduped))
	copy(sorted, deduped)
	sort.SliceStable(sorted, func(i, j int) bool {
		if sorted[i].ReferenceCode != sorted[j].ReferenceCode {
			return sorted[i].ReferenceCode < sorted[j].ReferenceCode
		}
		return sorted[i].VariantCode < sorted[j].VariantCode
	})

	var pool []models.Asset
	var shared []models.Asset
	for _, a := range assets {
		switch a.Category {
		case models.AssetShared:
			shared = append(shared, a)
		case models.AssetProduct:
			pool = append(pool, a)
		}
	}

	matched := make([]models.MatchedRecord, 0, len(sorted))
	for _, record := range sorted {
		rec := models.MatchedRecord{Record: record}

		// Pass 1: exclusive product photos
		var remaining []models.Asset
		for _, asset := range pool {
			if asset.ReferenceCode == record.ReferenceCode &&
				s.normalizer.Equal(asset.VariantToken, record.VariantLabel) {
				rec.Assets = append(rec.Assets, asset)
			} else {
				remaining = append(remaining, asset)
			}
		}
		pool = remaining
		sortAssetsBySequence(rec.Assets)

		// Pass 2: shared lifestyle photos, appended after the exclusive ones
		var lifestyle []models.Asset
		for _, asset := range shared {
			if !asset.HasReference(record.ReferenceCode) {
				continue
			}
			if asset.VariantToken != "" &&
				!s.normalizer.Equal(asset.VariantToken, record.VariantLabel) {
				continue
			}
			lifestyle = append(lifestyle, asset)
		}
		sortAssetsBySequence(lifestyle)
		rec.Assets = append(rec.Assets, lifestyle...)

		matched = append(matched, rec)
	}

	log.Printf("🔍 Matching done: %d records, %d with photos, %d photos unclaimed",
		len(matched), countWithAssets(matched), len(pool))

	return matched, pool
}

func sortAssetsBySequence(assets []models.Asset) {
	sort.SliceStable(assets, func(i, j int) bool {
		return assets[i].Sequence < assets[j].Sequence
	})
}

func countWithAssets(records []models.MatchedRecord) int {
	count := 0
	for _, r := range records {
		if len(r.Assets) > 0 {
			count++
		}
	}
	return count
}
