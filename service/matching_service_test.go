package service

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/BartJoris/live-babetteconcept-sub001/models"
	"github.com/BartJoris/live-babetteconcept-sub001/utils"
)

func newTestMatcher() *MatchingService {
	return NewMatchingService(utils.NewColorNormalizer(models.DefaultSupplierProfile()))
}

func productAsset(filename, ref, variant string, seq int) models.Asset {
	return models.Asset{
		Filename:      filename,
		ReferenceCode: ref,
		VariantToken:  variant,
		Sequence:      seq,
		Category:      models.AssetProduct,
	}
}

func sharedAsset(filename string, refs []string, variant string, seq int) models.Asset {
	return models.Asset{
		Filename:       filename,
		ReferenceCodes: refs,
		VariantToken:   variant,
		Sequence:       seq,
		Category:       models.AssetShared,
	}
}

func assetFilenames(assets []models.Asset) []string {
	names := make([]string, len(assets))
	for i, a := range assets {
		names[i] = a.Filename
	}
	return names
}

func TestMatchExclusiveAssets(t *testing.T) {
	matcher := newTestMatcher()

	records := []models.CatalogRecord{
		{ReferenceCode: "AD207B", VariantCode: "01", VariantLabel: "LIZERON", DisplayName: "Robe Lizeron"},
	}
	assets := []models.Asset{
		productAsset("AD207B-lizeron-2.jpg", "AD207B", "lizeron", 2),
		productAsset("AD207B-lizeron-1.jpg", "AD207B", "lizeron", 1),
		productAsset("AD019-creme-1.jpg", "AD019", "creme", 1),
	}

	matched, unmatched := matcher.Match(records, assets)
	require.Len(t, matched, 1)

	// The two lizeron photos attach in sequence order, the creme photo stays unmatched
	assert.Equal(t, []string{"AD207B-lizeron-1.jpg", "AD207B-lizeron-2.jpg"}, assetFilenames(matched[0].Assets))
	require.Len(t, unmatched, 1)
	assert.Equal(t, "AD019-creme-1.jpg", unmatched[0].Filename)
}

func TestMatchSharedAssets(t *testing.T) {
	matcher := newTestMatcher()

	records := []models.CatalogRecord{
		{ReferenceCode: "AD019", VariantCode: "02", VariantLabel: "CREME"},
		{ReferenceCode: "AD009", VariantCode: "02", VariantLabel: "CREME"},
	}
	lifestyle := sharedAsset("EMILE IDA E26 AD019 AD009 creme (1).jpg", []string{"AD019", "AD009"}, "EMILE IDA creme", 1)

	matched, unmatched := matcher.Match(records, []models.Asset{lifestyle})
	require.Len(t, matched, 2)
	assert.Empty(t, unmatched)

	// The shared photo attaches to both records without leaving the pool
	for _, rec := range matched {
		require.Len(t, rec.Assets, 1, "record %s should carry the shared photo", rec.Key())
		assert.Equal(t, lifestyle.Filename, rec.Assets[0].Filename)
	}
}

func TestMatchSharedAssetWithoutVariantMatchesAnyVariant(t *testing.T) {
	matcher := newTestMatcher()

	records := []models.CatalogRecord{
		{ReferenceCode: "AD019", VariantCode: "01", VariantLabel: "LIZERON"},
		{ReferenceCode: "AD019", VariantCode: "02", VariantLabel: "CREME"},
	}
	lifestyle := sharedAsset("AD019 (1).jpg", []string{"AD019"}, "", 1)

	matched, _ := matcher.Match(records, []models.Asset{lifestyle})
	require.Len(t, matched, 2)
	for _, rec := range matched {
		assert.Len(t, rec.Assets, 1)
	}
}

func TestMatchSharedAssetVariantMismatchSkipsRecord(t *testing.T) {
	matcher := newTestMatcher()

	records := []models.CatalogRecord{
		{ReferenceCode: "AD019", VariantCode: "01", VariantLabel: "LIZERON"},
	}
	lifestyle := sharedAsset("AD019 creme (1).jpg", []string{"AD019"}, "creme", 1)

	matched, _ := matcher.Match(records, []models.Asset{lifestyle})
	require.Len(t, matched, 1)
	assert.Empty(t, matched[0].Assets)
}

func TestMatchSharedAppendedAfterExclusive(t *testing.T) {
	matcher := newTestMatcher()

	records := []models.CatalogRecord{
		{ReferenceCode: "AD019", VariantCode: "02", VariantLabel: "CREME"},
	}
	assets := []models.Asset{
		sharedAsset("AD019 creme (1).jpg", []string{"AD019"}, "creme", 1),
		productAsset("AD019-creme-2.jpg", "AD019", "creme", 2),
		productAsset("AD019-creme-1.jpg", "AD019", "creme", 1),
	}

	matched, _ := matcher.Match(records, assets)
	require.Len(t, matched, 1)
	// Exclusive photos first in sequence order, then the shared photo
	assert.Equal(t,
		[]string{"AD019-creme-1.jpg", "AD019-creme-2.jpg", "AD019 creme (1).jpg"},
		assetFilenames(matched[0].Assets))
}

func TestMatchExclusiveAssetOwnedByAtMostOneRecord(t *testing.T) {
	matcher := newTestMatcher()

	// Two records could claim the same photo; the first in sorted
	// (reference, variant code) order wins
	records := []models.CatalogRecord{
		{ReferenceCode: "AD019", VariantCode: "09", VariantLabel: "CREME"},
		{ReferenceCode: "AD019", VariantCode: "02", VariantLabel: "CREME"},
	}
	assets := []models.Asset{
		productAsset("AD019-creme-1.jpg", "AD019", "creme", 1),
	}

	matched, unmatched := matcher.Match(records, assets)
	require.Len(t, matched, 2)
	assert.Empty(t, unmatched)

	assert.Equal(t, "02", matched[0].Record.VariantCode)
	assert.Len(t, matched[0].Assets, 1)
	assert.Empty(t, matched[1].Assets)
}

func TestMatchNormalizedVariantEquality(t *testing.T) {
	matcher := newTestMatcher()

	records := []models.CatalogRecord{
		{ReferenceCode: "AD100", VariantCode: "01", VariantLabel: "GARIGUETTE"},
	}
	assets := []models.Asset{
		productAsset("AD100-guariguette-1.jpg", "AD100", "guariguette", 1),
	}

	matched, unmatched := matcher.Match(records, assets)
	require.Len(t, matched, 1)
	assert.Len(t, matched[0].Assets, 1, "alias spellings must match")
	assert.Empty(t, unmatched)
}

func TestMatchDeduplicatesRecords(t *testing.T) {
	matcher := newTestMatcher()

	records := []models.CatalogRecord{
		{ReferenceCode: "AD019", VariantCode: "02", VariantLabel: "CREME", DisplayName: "first"},
		{ReferenceCode: "AD019", VariantCode: "02", VariantLabel: "CREME", DisplayName: "second"},
	}

	matched, _ := matcher.Match(records, nil)
	require.Len(t, matched, 1)
	assert.Equal(t, "first", matched[0].Record.DisplayName, "first occurrence wins")
}

func TestMatchIsIdempotent(t *testing.T) {
	matcher := newTestMatcher()

	records := []models.CatalogRecord{
		{ReferenceCode: "AD207B", VariantCode: "01", VariantLabel: "LIZERON"},
		{ReferenceCode: "AD019", VariantCode: "02", VariantLabel: "CREME"},
	}
	assets := []models.Asset{
		productAsset("AD207B-lizeron-1.jpg", "AD207B", "lizeron", 1),
		productAsset("AD019-creme-1.jpg", "AD019", "creme", 1),
		sharedAsset("AD019 AD207B (1).jpg", []string{"AD019", "AD207B"}, "", 1),
	}

	matched1, unmatched1 := matcher.Match(records, assets)
	matched2, unmatched2 := matcher.Match(records, assets)

	assert.Equal(t, matched1, matched2)
	assert.Equal(t, unmatched1, unmatched2)
}
