package service

import (
	"context"
	"fmt"
	"log"
	"sync"
	"time"

	"github.com/BartJoris/live-babetteconcept-sub001/db"
	"github.com/BartJoris/live-babetteconcept-sub001/models"
	"github.com/BartJoris/live-babetteconcept-sub001/repository"
	"github.com/BartJoris/live-babetteconcept-sub001/utils"
)

// perCallTimeout bounds every single catalog call during a batch run.
// A timed-out call becomes a per-asset or per-record failure, never a
// fatal abort of the whole batch.
const perCallTimeout = 45 * time.Second

// BatchService synchronizes selected records to the catalog service.
// State machine: idle -> confirming -> running -> done. The confirming step
// is forced whenever a selected record would overwrite existing catalog
// images; it is the only hard gate in the system.
type BatchService struct {
	mu         sync.Mutex
	state      models.BatchState
	results    []models.BatchResult
	session    *SessionService
	client     CatalogClientInterface
	normalizer *utils.ColorNormalizer
	logRepo    repository.BatchLogRepositoryInterface
}

// NewBatchService creates a new BatchService. logRepo may be nil when no
// database is configured; results are then kept in memory only.
func NewBatchService(session *SessionService, client CatalogClientInterface, normalizer *utils.ColorNormalizer, logRepo repository.BatchLogRepositoryInterface) *BatchService {
	return &BatchService{
		state:      models.BatchIdle,
		session:    session,
		client:     client,
		normalizer: normalizer,
		logRepo:    logRepo,
	}
}

// State returns the current state of the synchronizer
func (b *BatchService) State() models.BatchState {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.state
}

// Results returns the accumulated batch result log
func (b *BatchService) Results() []models.BatchResult {
	b.mu.Lock()
	defer b.mu.Unlock()
	results := make([]models.BatchResult, len(b.results))
	copy(results, b.results)
	return results
}

// Start begins a batch run over the selected pending records. When any
// selected record already carries catalog images, the run stops in the
// confirming state and Confirm must be called to proceed.
func (b *BatchService) Start(ctx context.Context, creds models.Credentials) (models.BatchState, error) {
	b.mu.Lock()
	if b.state == models.BatchRunning {
		b.mu.Unlock()
		return models.BatchRunning, fmt.Errorf("a batch is already running")
	}

	pending := b.session.SelectedPending()
	if len(pending) == 0 {
		b.state = models.BatchIdle
		b.mu.Unlock()
		return models.BatchIdle, fmt.Errorf("no records selected for synchronization")
	}

	for _, rec := range pending {
		if rec.External.Checked && rec.External.HasExistingAssets {
			b.state = models.BatchConfirming
			b.mu.Unlock()
			log.Printf("⚠️  Batch needs confirmation: selected records would overwrite existing catalog images")
			return models.BatchConfirming, nil
		}
	}
	b.state = models.BatchRunning
	b.mu.Unlock()

	b.run(ctx, creds, pending)
	return models.BatchDone, nil
}

// Confirm acknowledges the overwrite warning and runs the batch
func (b *BatchService) Confirm(ctx context.Context, creds models.Credentials) (models.BatchState, error) {
	b.mu.Lock()
	if b.state != models.BatchConfirming {
		b.mu.Unlock()
		return b.state, fmt.Errorf("nothing to confirm (state is %s)", b.state)
	}
	pending := b.session.SelectedPending()
	if len(pending) == 0 {
		b.state = models.BatchIdle
		b.mu.Unlock()
		return models.BatchIdle, fmt.Errorf("no records selected for synchronization")
	}
	b.state = models.BatchRunning
	b.mu.Unlock()

	b.run(ctx, creds, pending)
	return models.BatchDone, nil
}

// run processes the pending records strictly sequentially. Ordering matters
// twice over: the first uploaded asset becomes the cover image, and the
// catalog service does not serialize concurrent writes to one product.
// Cancellation stops before the next record; the record in flight finishes.
func (b *BatchService) run(ctx context.Context, creds models.Credentials, pending []models.MatchedRecord) {
	log.Printf("🔄 Batch run started: %d records", len(pending))
	ranAt := time.Now()

	for _, rec := range pending {
		if ctx.Err() != nil {
			log.Printf("⚠️  Batch interrupted, %s and later records not started", rec.Key())
			break
		}
		result := b.syncRecord(creds, rec)
		result.RanAt = ranAt

		if result.Success {
			if err := b.session.MarkCommitted(rec.Key()); err != nil {
				log.Printf("❌ Failed to mark %s committed: %v", rec.Key(), err)
			}
		} else {
			if err := b.session.MarkFailed(rec.Key(), result.Error); err != nil {
				log.Printf("❌ Failed to record failure for %s: %v", rec.Key(), err)
			}
		}

		b.mu.Lock()
		b.results = append(b.results, result)
		b.mu.Unlock()
		b.persistResult(result)
	}

	b.mu.Lock()
	b.state = models.BatchDone
	b.mu.Unlock()
	log.Printf("🎉 Batch run finished")
}

// syncRecord re-resolves the catalog target and uploads the record's photos
// in order. The record succeeds when at least one photo uploads; individual
// photo failures only reduce the uploaded count.
func (b *BatchService) syncRecord(creds models.Credentials, rec models.MatchedRecord) models.BatchResult {
	result := models.BatchResult{
		RecordKey:   rec.Key(),
		DisplayName: rec.Record.DisplayName,
	}

	// Re-resolve the target: catalog state may have changed since the
	// conflict check ran
	lookupCtx, cancel := context.WithTimeout(context.Background(), perCallTimeout)
	entries, err := b.client.Lookup(lookupCtx, creds, rec.Record.ReferenceCode, rec.Record.VariantLabel)
	cancel()
	if err != nil {
		result.Error = fmt.Sprintf("catalog lookup failed: %v", err)
		log.Printf("❌ %s: %s", rec.Key(), result.Error)
		return result
	}
	target, ok := bestEntry(b.normalizer, entries, rec.Record.VariantLabel)
	if !ok {
		result.Error = fmt.Sprintf("no catalog entry for %s / %s", rec.Record.ReferenceCode, rec.Record.VariantLabel)
		log.Printf("❌ %s: %s", rec.Key(), result.Error)
		return result
	}

	var lastErr error
	for i, asset := range rec.Assets {
		payload := asset.Payload
		if optimized, err := PrepareUpload(payload); err == nil {
			payload = optimized
		} else {
			log.Printf("⚠️  Could not optimize %s, uploading original: %v", asset.Filename, err)
		}

		uploadCtx, cancel := context.WithTimeout(context.Background(), perCallTimeout)
		err := b.client.UploadAsset(uploadCtx, creds, target.ExternalID, payload, rec.Record.DisplayName, asset.Sequence, i == 0)
		cancel()
		if err != nil {
			lastErr = err
			log.Printf("❌ Upload failed for %s (%s): %v", rec.Key(), asset.Filename, err)
			continue
		}
		result.AssetsUploaded++
	}

	if result.AssetsUploaded == 0 {
		result.Error = fmt.Sprintf("no photos uploaded: %v", lastErr)
		return result
	}
	result.Success = true
	log.Printf("✅ Synchronized %s: %d/%d photos uploaded", rec.Key(), result.AssetsUploaded, len(rec.Assets))
	return result
}

func (b *BatchService) persistResult(result models.BatchResult) {
	if b.logRepo == nil || !db.Enabled() {
		return
	}
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	supplier := ""
	if session := b.session.Current(); session != nil {
		supplier = session.Supplier
	}
	if err := b.logRepo.Insert(ctx, supplier, result); err != nil {
		log.Printf("⚠️  Could not persist batch result for %s: %v", result.RecordKey, err)
	}
}

// bestEntry mirrors the conflict checker's candidate selection: first fuzzy
// variant match, else the first entry returned.
func bestEntry(normalizer *utils.ColorNormalizer, entries []models.CatalogEntry, variantLabel string) (models.CatalogEntry, bool) {
	if len(entries) == 0 {
		return models.CatalogEntry{}, false
	}
	for _, entry := range entries {
		if normalizer.Equal(entry.VariantLabel, variantLabel) {
			return entry, true
		}
	}
	return entries[0], true
}
