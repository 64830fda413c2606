package repository

import (
	"context"
	"fmt"
	"log"

	"github.com/BartJoris/live-babetteconcept-sub001/db"
	"github.com/BartJoris/live-babetteconcept-sub001/models"
)

// BatchLogRepository persists per-record batch outcomes so results survive
// restarts and can seed retry queues.
// Implements BatchLogRepositoryInterface
type BatchLogRepository struct{}

// NewBatchLogRepository creates a new BatchLogRepository
func NewBatchLogRepository() *BatchLogRepository {
	return &BatchLogRepository{}
}

// Ensure BatchLogRepository implements BatchLogRepositoryInterface
var _ BatchLogRepositoryInterface = (*BatchLogRepository)(nil)

// Insert stores one batch result row
func (r *BatchLogRepository) Insert(ctx context.Context, supplier string, result models.BatchResult) error {
	query := `
		INSERT INTO batch_results (
			supplier, record_key, display_name, success, assets_uploaded, error, ran_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7)
	`
	_, err := db.DB.ExecContext(ctx, query,
		supplier,
		result.RecordKey,
		result.DisplayName,
		result.Success,
		result.AssetsUploaded,
		result.Error,
		result.RanAt,
	)
	if err != nil {
		log.Printf("❌ Error inserting batch result for %s: %v", result.RecordKey, err)
		return fmt.Errorf("failed to insert batch result: %w", err)
	}
	return nil
}

// ListRecent returns the most recent batch results, newest first
func (r *BatchLogRepository) ListRecent(ctx context.Context, limit int) ([]models.BatchResult, error) {
	if limit <= 0 {
		limit = 100
	}
	query := `
		SELECT record_key, display_name, success, assets_uploaded, error, ran_at
		FROM batch_results
		ORDER BY ran_at DESC
		LIMIT $1
	`
	rows, err := db.DB.QueryContext(ctx, query, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to query batch results: %w", err)
	}
	defer rows.Close()

	var results []models.BatchResult
	for rows.Next() {
		var result models.BatchResult
		if err := rows.Scan(
			&result.RecordKey,
			&result.DisplayName,
			&result.Success,
			&result.AssetsUploaded,
			&result.Error,
			&result.RanAt,
		); err != nil {
			return nil, fmt.Errorf("failed to scan batch result: %w", err)
		}
		results = append(results, result)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read batch results: %w", err)
	}
	return results, nil
}
