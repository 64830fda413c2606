package controller

import (
	"encoding/json"
	"fmt"
	"io"
	"log"
	"net/http"
	"os"
	"strconv"

	"github.com/BartJoris/live-babetteconcept-sub001/db"
	"github.com/BartJoris/live-babetteconcept-sub001/models"
	"github.com/BartJoris/live-babetteconcept-sub001/repository"
	"github.com/BartJoris/live-babetteconcept-sub001/service"
	"github.com/BartJoris/live-babetteconcept-sub001/utils"
)

// maxUploadSize caps a single photo upload request (64 MB)
const maxUploadSize = 64 << 20

// ImportController handles HTTP requests for the supplier photo import flow
type ImportController struct {
	supplier     string
	parser       *utils.FilenameParser
	sessions     *service.SessionService
	matcher      service.MatchingServiceInterface
	conflicts    *service.ConflictService
	batch        *service.BatchService
	reports      *service.ReportService
	driveService service.DriveServiceInterface
	batchLogRepo repository.BatchLogRepositoryInterface
}

// NewImportController creates a new ImportController. driveService and
// batchLogRepo may be nil when Drive / the database are not configured.
func NewImportController(
	supplier string,
	parser *utils.FilenameParser,
	sessions *service.SessionService,
	matcher service.MatchingServiceInterface,
	conflicts *service.ConflictService,
	batch *service.BatchService,
	reports *service.ReportService,
	driveService service.DriveServiceInterface,
	batchLogRepo repository.BatchLogRepositoryInterface,
) *ImportController {
	return &ImportController{
		supplier:     supplier,
		parser:       parser,
		sessions:     sessions,
		matcher:      matcher,
		conflicts:    conflicts,
		batch:        batch,
		reports:      reports,
		driveService: driveService,
		batchLogRepo: batchLogRepo,
	}
}

// credentials builds the catalog credentials for one request: explicit
// headers win, environment variables are the fallback
func credentials(r *http.Request) models.Credentials {
	creds := models.Credentials{
		APIKey:    r.Header.Get("X-Catalog-Api-Key"),
		SessionID: r.Header.Get("X-Catalog-Session"),
	}
	if creds.APIKey == "" {
		creds.APIKey = os.Getenv("CATALOG_API_KEY")
	}
	return creds
}

func writeJSON(w http.ResponseWriter, status int, payload interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		log.Printf("❌ Failed to encode response: %v", err)
	}
}

// LoadRecords handles POST /admin/import/records
// Accepts the de-duplicated record list produced by the price-list extraction step
func (c *ImportController) LoadRecords(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	var records []models.CatalogRecord
	if err := json.NewDecoder(r.Body).Decode(&records); err != nil {
		http.Error(w, fmt.Sprintf("Invalid request body: %v", err), http.StatusBadRequest)
		return
	}

	count := c.sessions.StageRecords(records)
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"status":  "success",
		"records": count,
	})
}

// UploadAssets handles POST /admin/import/assets
// Accepts a multipart upload of product photos and parses their filenames
func (c *ImportController) UploadAssets(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	if err := r.ParseMultipartForm(maxUploadSize); err != nil {
		http.Error(w, fmt.Sprintf("Invalid multipart request: %v", err), http.StatusBadRequest)
		return
	}

	var assets []models.Asset
	parsed := 0
	for _, headers := range r.MultipartForm.File {
		for _, header := range headers {
			file, err := header.Open()
			if err != nil {
				http.Error(w, fmt.Sprintf("Failed to read upload %s: %v", header.Filename, err), http.StatusBadRequest)
				return
			}
			data, err := io.ReadAll(file)
			file.Close()
			if err != nil {
				http.Error(w, fmt.Sprintf("Failed to read upload %s: %v", header.Filename, err), http.StatusBadRequest)
				return
			}
			assets = append(assets, c.parseAsset(header.Filename, data, &parsed))
		}
	}

	total := c.sessions.StageAssets(assets)
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"status": "success",
		"staged": len(assets),
		"parsed": parsed,
		"total":  total,
	})
}

// LoadDriveAssets handles GET /admin/import/assets/load?folderId=...
// Pulls product photos from a shared Google Drive folder
func (c *ImportController) LoadDriveAssets(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}
	if c.driveService == nil {
		http.Error(w, "Google Drive is not configured", http.StatusServiceUnavailable)
		return
	}

	folderID := r.URL.Query().Get("folderId")
	if folderID == "" {
		http.Error(w, "folderId parameter is required", http.StatusBadRequest)
		return
	}

	photos, err := c.driveService.ListFolderPhotos(folderID)
	if err != nil {
		http.Error(w, fmt.Sprintf("Failed to load photos from Drive: %v", err), http.StatusInternalServerError)
		return
	}

	var assets []models.Asset
	parsed := 0
	for _, photo := range photos {
		assets = append(assets, c.parseAsset(photo.Name, photo.Data, &parsed))
	}

	total := c.sessions.StageAssets(assets)
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"status": "success",
		"staged": len(assets),
		"parsed": parsed,
		"total":  total,
	})
}

// parseAsset derives the structured key for one photo. Files no rule can
// parse are staged anyway: they surface in the unmatched set for manual
// assignment instead of being dropped.
func (c *ImportController) parseAsset(filename string, data []byte, parsed *int) models.Asset {
	asset, ok := c.parser.Parse(filename)
	if !ok {
		log.Printf("⚠️  Could not parse filename %s, staging for manual review", filename)
		asset = models.Asset{Filename: filename, Category: models.AssetProduct}
	} else {
		*parsed++
	}
	asset.Payload = data
	return asset
}

// RunMatch handles POST /admin/import/match
// Runs the matching engine and the conflict check, then installs the session
func (c *ImportController) RunMatch(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	records, assets := c.sessions.StagedInputs()
	if len(records) == 0 {
		http.Error(w, "No catalog records loaded", http.StatusBadRequest)
		return
	}

	matched, unmatched := c.matcher.Match(records, assets)
	matched = c.conflicts.AnnotateRecords(r.Context(), credentials(r), matched)
	session := c.sessions.CreateSession(c.supplier, matched, unmatched)

	writeJSON(w, http.StatusOK, session)
}

// GetSession handles GET /admin/import/session?match=&conflict=&q=
// Returns a filtered read-only view of the current session
func (c *ImportController) GetSession(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	session := c.sessions.Current()
	if session == nil {
		http.Error(w, "No active import session", http.StatusNotFound)
		return
	}

	filter := service.SessionFilter{
		Match:    r.URL.Query().Get("match"),
		Conflict: r.URL.Query().Get("conflict"),
		Query:    r.URL.Query().Get("q"),
	}
	records := c.sessions.FilterRecords(filter)

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"supplier":  session.Supplier,
		"records":   records,
		"unmatched": session.Unmatched,
		"createdAt": session.CreatedAt,
	})
}

// ToggleSelect handles POST /admin/import/session/select
func (c *ImportController) ToggleSelect(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	var req struct {
		Key string `json:"key"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.Key == "" {
		http.Error(w, "key is required", http.StatusBadRequest)
		return
	}

	if err := c.sessions.ToggleSelect(req.Key); err != nil {
		http.Error(w, err.Error(), http.StatusConflict)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "success"})
}

// SelectAll handles POST /admin/import/session/select-all
func (c *ImportController) SelectAll(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}
	if err := c.sessions.SelectAll(); err != nil {
		http.Error(w, err.Error(), http.StatusConflict)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "success"})
}

// DeselectAll handles POST /admin/import/session/deselect-all
func (c *ImportController) DeselectAll(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}
	if err := c.sessions.DeselectAll(); err != nil {
		http.Error(w, err.Error(), http.StatusConflict)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "success"})
}

// AddAsset handles POST /admin/import/session/assets/add
// Attaches an unmatched photo to a record (manual correction)
func (c *ImportController) AddAsset(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	var req struct {
		Key      string `json:"key"`
		Filename string `json:"filename"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.Key == "" || req.Filename == "" {
		http.Error(w, "key and filename are required", http.StatusBadRequest)
		return
	}

	asset, ok := c.sessions.UnmatchedAsset(req.Filename)
	if !ok {
		http.Error(w, fmt.Sprintf("photo %s is not in the unmatched set", req.Filename), http.StatusNotFound)
		return
	}
	if err := c.sessions.AddAsset(req.Key, asset); err != nil {
		http.Error(w, err.Error(), http.StatusConflict)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "success"})
}

// RemoveAsset handles POST /admin/import/session/assets/remove
func (c *ImportController) RemoveAsset(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	var req struct {
		Key      string `json:"key"`
		Filename string `json:"filename"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.Key == "" || req.Filename == "" {
		http.Error(w, "key and filename are required", http.StatusBadRequest)
		return
	}

	if err := c.sessions.RemoveAsset(req.Key, req.Filename); err != nil {
		http.Error(w, err.Error(), http.StatusConflict)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "success"})
}

// MoveAsset handles POST /admin/import/session/assets/move
// Reorders a record's photo list; position 0 becomes the cover image
func (c *ImportController) MoveAsset(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	var req struct {
		Key  string `json:"key"`
		From *int   `json:"from"`
		To   *int   `json:"to"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.Key == "" || req.From == nil || req.To == nil {
		http.Error(w, "key, from and to are required", http.StatusBadRequest)
		return
	}

	if err := c.sessions.MoveAsset(req.Key, *req.From, *req.To); err != nil {
		http.Error(w, err.Error(), http.StatusConflict)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "success"})
}

// StartBatch handles POST /admin/import/batch/start
// Responds with state "confirming" when the overwrite gate triggers
func (c *ImportController) StartBatch(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	state, err := c.batch.Start(r.Context(), credentials(r))
	if err != nil {
		writeJSON(w, http.StatusConflict, map[string]interface{}{
			"state": state,
			"error": err.Error(),
		})
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"state":   state,
		"results": c.batch.Results(),
	})
}

// ConfirmBatch handles POST /admin/import/batch/confirm
// Acknowledges the overwrite warning and runs the batch
func (c *ImportController) ConfirmBatch(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	state, err := c.batch.Confirm(r.Context(), credentials(r))
	if err != nil {
		writeJSON(w, http.StatusConflict, map[string]interface{}{
			"state": state,
			"error": err.Error(),
		})
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"state":   state,
		"results": c.batch.Results(),
	})
}

// GetBatchResults handles GET /admin/import/batch/results?limit=
// Returns the persisted log when a database is configured, otherwise the
// in-memory log of this process
func (c *ImportController) GetBatchResults(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	if c.batchLogRepo != nil && db.Enabled() {
		limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))
		results, err := c.batchLogRepo.ListRecent(r.Context(), limit)
		if err != nil {
			http.Error(w, fmt.Sprintf("Failed to load batch results: %v", err), http.StatusInternalServerError)
			return
		}
		writeJSON(w, http.StatusOK, results)
		return
	}
	writeJSON(w, http.StatusOK, c.batch.Results())
}

// GetBatchReport handles GET /admin/import/batch/report.pdf
func (c *ImportController) GetBatchReport(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	pdf, err := c.reports.GeneratePDF(r.Context(), c.supplier, c.batch.Results())
	if err != nil {
		http.Error(w, fmt.Sprintf("Failed to generate report: %v", err), http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/pdf")
	w.Header().Set("Content-Disposition", `attachment; filename="import-report.pdf"`)
	w.WriteHeader(http.StatusOK)
	if _, err := w.Write(pdf); err != nil {
		log.Printf("❌ Failed to write PDF response: %v", err)
	}
}

// ResetSession handles POST /admin/import/reset
// Discards the whole session; committed flags are gone with it
func (c *ImportController) ResetSession(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}
	c.sessions.Reset()
	writeJSON(w, http.StatusOK, map[string]string{"status": "success"})
}
