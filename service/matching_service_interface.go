package service

import "github.com/BartJoris/live-babetteconcept-sub001/models"

// MatchingServiceInterface defines the contract for asset-to-record matching
type MatchingServiceInterface interface {
	// Match assigns assets to records in two passes (exclusive product photos,
	// then shared lifestyle photos) and returns the unclaimed product photos
	Match(records []models.CatalogRecord, assets []models.Asset) ([]models.MatchedRecord, []models.Asset)
}
