package service

import (
	"context"
	"fmt"
	"sync"

	"github.com/BartJoris/live-babetteconcept-sub001/models"
)

// uploadCall records one UploadAsset invocation for later inspection
type uploadCall struct {
	ExternalID  int64
	DisplayName string
	Sequence    int
	IsPrimary   bool
}

// fakeCatalogClient is a scripted CatalogClientInterface for tests: lookups
// are served from a map keyed by reference code, uploads are recorded and can
// be forced to fail per catalog entry.
type fakeCatalogClient struct {
	mu         sync.Mutex
	entries    map[string][]models.CatalogEntry
	lookupErrs map[string]error
	failUpload map[int64]bool
	failFirst  map[int64]int

	lookups []string
	uploads []uploadCall
}

var _ CatalogClientInterface = (*fakeCatalogClient)(nil)

func newFakeCatalogClient() *fakeCatalogClient {
	return &fakeCatalogClient{
		entries:    map[string][]models.CatalogEntry{},
		lookupErrs: map[string]error{},
		failUpload: map[int64]bool{},
		failFirst:  map[int64]int{},
	}
}

func (f *fakeCatalogClient) Lookup(ctx context.Context, creds models.Credentials, referenceCode, variantLabel string) ([]models.CatalogEntry, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.lookups = append(f.lookups, referenceCode)
	if err, ok := f.lookupErrs[referenceCode]; ok {
		return nil, err
	}
	return f.entries[referenceCode], nil
}

func (f *fakeCatalogClient) UploadAsset(ctx context.Context, creds models.Credentials, externalID int64, payload []byte, displayName string, sequence int, isPrimary bool) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.failUpload[externalID] {
		return fmt.Errorf("upload rejected for entry %d", externalID)
	}
	if f.failFirst[externalID] > 0 {
		f.failFirst[externalID]--
		return fmt.Errorf("transient upload error for entry %d", externalID)
	}
	f.uploads = append(f.uploads, uploadCall{
		ExternalID:  externalID,
		DisplayName: displayName,
		Sequence:    sequence,
		IsPrimary:   isPrimary,
	})
	return nil
}

func (f *fakeCatalogClient) recordedUploads() []uploadCall {
	f.mu.Lock()
	defer f.mu.Unlock()
	uploads := make([]uploadCall, len(f.uploads))
	copy(uploads, f.uploads)
	return uploads
}
