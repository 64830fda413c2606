package repository

import (
	"context"

	"github.com/BartJoris/live-babetteconcept-sub001/models"
)

// BatchLogRepositoryInterface defines the contract for batch result persistence
type BatchLogRepositoryInterface interface {
	Insert(ctx context.Context, supplier string, result models.BatchResult) error
	ListRecent(ctx context.Context, limit int) ([]models.BatchResult, error)
}
