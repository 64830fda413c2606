package service

import (
	"context"

	"github.com/BartJoris/live-babetteconcept-sub001/models"
)

// CatalogClientInterface defines the contract for the external catalog service
type CatalogClientInterface interface {
	// Lookup returns the catalog entries matching a reference code and
	// variant label, including whether each already carries images
	Lookup(ctx context.Context, creds models.Credentials, referenceCode, variantLabel string) ([]models.CatalogEntry, error)
	// UploadAsset pushes one image to the catalog entry. isPrimary marks the
	// cover image and must be true only for the first upload of a record.
	UploadAsset(ctx context.Context, creds models.Credentials, externalID int64, payload []byte, displayName string, sequence int, isPrimary bool) error
}
