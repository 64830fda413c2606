package service

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/BartJoris/live-babetteconcept-sub001/models"
)

// newSessionFixture installs a session with two matched records (the second
// without photos) and one unmatched photo.
func newSessionFixture() (*SessionService, *models.ImportSession) {
	svc := NewSessionService()
	records := []models.MatchedRecord{
		{
			Record: models.CatalogRecord{ReferenceCode: "AD019", VariantCode: "02", VariantLabel: "CREME", DisplayName: "Robe Emile"},
			Assets: []models.Asset{
				{Filename: "AD019-creme-1.jpg", Sequence: 1, Category: models.AssetProduct},
				{Filename: "AD019-creme-2.jpg", Sequence: 2, Category: models.AssetProduct},
			},
			External: models.ExternalState{Checked: true, ExternalID: 11},
			Selected: true,
		},
		{
			Record:   models.CatalogRecord{ReferenceCode: "AD207B", VariantCode: "01", VariantLabel: "LIZERON", DisplayName: "Robe Lizeron"},
			External: models.ExternalState{Checked: true, HasExistingAssets: true, ExistingAssetCount: 3, ExternalID: 22},
		},
	}
	unmatched := []models.Asset{
		{Filename: "AD500-marine-1.jpg", ReferenceCode: "AD500", VariantToken: "marine", Sequence: 1, Category: models.AssetProduct},
	}
	session := svc.CreateSession("default", records, unmatched)
	return svc, session
}

func TestToggleSelect(t *testing.T) {
	svc, _ := newSessionFixture()

	// Deselect is always allowed
	require.NoError(t, svc.ToggleSelect("AD01902"))
	assert.False(t, svc.Current().Records[0].Selected)

	// Re-select a record with photos
	require.NoError(t, svc.ToggleSelect("AD01902"))
	assert.True(t, svc.Current().Records[0].Selected)

	// Selecting a record without photos is refused
	err := svc.ToggleSelect("AD207B01")
	require.Error(t, err)
	assert.False(t, svc.Current().Records[1].Selected)

	// Unknown key
	require.Error(t, svc.ToggleSelect("nope"))
}

func TestToggleSelectCommittedRecord(t *testing.T) {
	svc, _ := newSessionFixture()
	require.NoError(t, svc.MarkCommitted("AD01902"))

	err := svc.ToggleSelect("AD01902")
	require.Error(t, err)
	assert.False(t, svc.Current().Records[0].Selected)
}

func TestSelectAllAndDeselectAll(t *testing.T) {
	svc, _ := newSessionFixture()

	require.NoError(t, svc.SelectAll())
	records := svc.Current().Records
	assert.True(t, records[0].Selected, "record with photos gets selected")
	assert.False(t, records[1].Selected, "record without photos stays deselected")

	require.NoError(t, svc.DeselectAll())
	for _, rec := range svc.Current().Records {
		assert.False(t, rec.Selected)
	}
}

func TestSelectAllSkipsCommitted(t *testing.T) {
	svc, _ := newSessionFixture()
	require.NoError(t, svc.MarkCommitted("AD01902"))

	require.NoError(t, svc.SelectAll())
	assert.False(t, svc.Current().Records[0].Selected)
}

func TestAddAssetForcesSelection(t *testing.T) {
	svc, _ := newSessionFixture()
	require.NoError(t, svc.DeselectAll())

	photo, ok := svc.UnmatchedAsset("AD500-marine-1.jpg")
	require.True(t, ok)
	require.NoError(t, svc.AddAsset("AD207B01", photo))

	session := svc.Current()
	rec := session.Records[1]
	require.Len(t, rec.Assets, 1)
	assert.Equal(t, "AD500-marine-1.jpg", rec.Assets[0].Filename)
	assert.True(t, rec.Selected, "manual attach implies intent to synchronize")
	assert.Empty(t, session.Unmatched, "photo leaves the unmatched set")
}

func TestAddAssetRejectsDuplicateFilename(t *testing.T) {
	svc, _ := newSessionFixture()

	err := svc.AddAsset("AD01902", models.Asset{Filename: "AD019-creme-1.jpg"})
	require.Error(t, err)
	assert.Len(t, svc.Current().Records[0].Assets, 2)
}

func TestRemoveAssetReturnsProductPhotoToUnmatched(t *testing.T) {
	svc, _ := newSessionFixture()

	require.NoError(t, svc.RemoveAsset("AD01902", "AD019-creme-1.jpg"))

	session := svc.Current()
	rec := session.Records[0]
	require.Len(t, rec.Assets, 1)
	assert.Equal(t, "AD019-creme-2.jpg", rec.Assets[0].Filename)
	assert.True(t, rec.Selected, "record still has a photo")

	// The detached photo is recoverable from the unmatched set
	_, ok := svc.UnmatchedAsset("AD019-creme-1.jpg")
	assert.True(t, ok)

	// Removing the last photo deselects the record
	require.NoError(t, svc.RemoveAsset("AD01902", "AD019-creme-2.jpg"))
	rec = svc.Current().Records[0]
	assert.Empty(t, rec.Assets)
	assert.False(t, rec.Selected)
}

func TestRemoveSharedAssetNotReturnedToUnmatched(t *testing.T) {
	svc, _ := newSessionFixture()
	shared := models.Asset{Filename: "lookbook (1).jpg", ReferenceCodes: []string{"AD019"}, Category: models.AssetShared}
	require.NoError(t, svc.AddAsset("AD01902", shared))

	require.NoError(t, svc.RemoveAsset("AD01902", "lookbook (1).jpg"))
	_, ok := svc.UnmatchedAsset("lookbook (1).jpg")
	assert.False(t, ok, "shared photos do not go back to the unmatched set")
}

func TestMoveAsset(t *testing.T) {
	svc, _ := newSessionFixture()

	require.NoError(t, svc.MoveAsset("AD01902", 1, 0))
	rec := svc.Current().Records[0]
	assert.Equal(t, "AD019-creme-2.jpg", rec.Assets[0].Filename, "moved photo becomes the cover")
	assert.Equal(t, "AD019-creme-1.jpg", rec.Assets[1].Filename)

	require.Error(t, svc.MoveAsset("AD01902", 0, 5))
	require.Error(t, svc.MoveAsset("AD01902", -1, 0))
}

func TestSnapshotImmutability(t *testing.T) {
	svc, _ := newSessionFixture()

	before := svc.Current()
	require.NoError(t, svc.RemoveAsset("AD01902", "AD019-creme-1.jpg"))

	// The earlier snapshot still shows both photos
	assert.Len(t, before.Records[0].Assets, 2)
	assert.Len(t, svc.Current().Records[0].Assets, 1)
	assert.NotSame(t, before, svc.Current())
}

func TestMutationErrorLeavesSessionUntouched(t *testing.T) {
	svc, _ := newSessionFixture()

	before := svc.Current()
	require.Error(t, svc.MoveAsset("AD01902", 0, 99))
	assert.Same(t, before, svc.Current())
}

func TestSelectedPending(t *testing.T) {
	svc, _ := newSessionFixture()

	pending := svc.SelectedPending()
	require.Len(t, pending, 1)
	assert.Equal(t, "AD01902", pending[0].Key())

	// Committed records leave the pending set
	require.NoError(t, svc.MarkCommitted("AD01902"))
	assert.Empty(t, svc.SelectedPending())
}

func TestMarkCommitted(t *testing.T) {
	svc, _ := newSessionFixture()

	require.NoError(t, svc.MarkCommitted("AD01902"))
	rec := svc.Current().Records[0]
	assert.True(t, rec.Committed)
	assert.False(t, rec.Selected)
	assert.True(t, rec.External.HasExistingAssets, "a committed record now has catalog images")
}

func TestMarkFailed(t *testing.T) {
	svc, _ := newSessionFixture()

	require.NoError(t, svc.MarkFailed("AD01902", "catalog unreachable"))
	rec := svc.Current().Records[0]
	assert.False(t, rec.Committed, "failed records stay pending")
	assert.False(t, rec.Selected)
	assert.Equal(t, "catalog unreachable", rec.LastError)
}

func TestFilterRecords(t *testing.T) {
	svc, _ := newSessionFixture()

	all := svc.FilterRecords(SessionFilter{})
	assert.Len(t, all, 2)

	matched := svc.FilterRecords(SessionFilter{Match: "matched"})
	require.Len(t, matched, 1)
	assert.Equal(t, "AD01902", matched[0].Key())

	unmatched := svc.FilterRecords(SessionFilter{Match: "unmatched"})
	require.Len(t, unmatched, 1)
	assert.Equal(t, "AD207B01", unmatched[0].Key())

	existing := svc.FilterRecords(SessionFilter{Conflict: "existing"})
	require.Len(t, existing, 1)
	assert.Equal(t, "AD207B01", existing[0].Key())

	clean := svc.FilterRecords(SessionFilter{Conflict: "clean"})
	require.Len(t, clean, 1)
	assert.Equal(t, "AD01902", clean[0].Key())

	assert.Empty(t, svc.FilterRecords(SessionFilter{Conflict: "unknown"}))

	byQuery := svc.FilterRecords(SessionFilter{Query: "lizeron"})
	require.Len(t, byQuery, 1)
	assert.Equal(t, "AD207B01", byQuery[0].Key())

	assert.Empty(t, svc.FilterRecords(SessionFilter{Query: "does-not-exist"}))
}

func TestFilterRecordsIsReadOnly(t *testing.T) {
	svc, _ := newSessionFixture()

	before := svc.Current()
	_ = svc.FilterRecords(SessionFilter{Match: "matched", Conflict: "clean", Query: "robe"})
	assert.Same(t, before, svc.Current(), "filtering must not replace the session")
}

func TestStagingAndReset(t *testing.T) {
	svc := NewSessionService()

	count := svc.StageRecords([]models.CatalogRecord{
		{ReferenceCode: "AD019", VariantCode: "02"},
		{ReferenceCode: "AD019", VariantCode: "02"},
		{ReferenceCode: "AD207B", VariantCode: "01"},
	})
	assert.Equal(t, 2, count, "staging dedupes by unique key")

	total := svc.StageAssets([]models.Asset{{Filename: "a.jpg"}})
	total = svc.StageAssets([]models.Asset{{Filename: "b.jpg"}})
	assert.Equal(t, 2, total, "asset staging accumulates")

	records, assets := svc.StagedInputs()
	assert.Len(t, records, 2)
	assert.Len(t, assets, 2)

	svc.Reset()
	records, assets = svc.StagedInputs()
	assert.Empty(t, records)
	assert.Empty(t, assets)
	assert.Nil(t, svc.Current())
}

func TestMutationsWithoutSession(t *testing.T) {
	svc := NewSessionService()

	require.Error(t, svc.ToggleSelect("AD01902"))
	require.Error(t, svc.SelectAll())
	require.Error(t, svc.MarkCommitted("AD01902"))
	assert.Nil(t, svc.FilterRecords(SessionFilter{}))
	assert.Nil(t, svc.SelectedPending())
}
