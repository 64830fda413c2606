package router

import (
	"net/http"

	"github.com/BartJoris/live-babetteconcept-sub001/app/controller"
)

type Controllers struct {
	Import *controller.ImportController
}

// pingHandler handles GET /ping
func pingHandler(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	w.Write([]byte(`{"status":"ok"}`))
}

func SetupRoutes(controllers *Controllers) {
	// Ping endpoint
	http.HandleFunc("/ping", pingHandler)

	// Input staging
	http.HandleFunc("/admin/import/records", controllers.Import.LoadRecords)
	http.HandleFunc("/admin/import/assets", controllers.Import.UploadAssets)
	http.HandleFunc("/admin/import/assets/load", controllers.Import.LoadDriveAssets)

	// Matching and session view
	http.HandleFunc("/admin/import/match", controllers.Import.RunMatch)
	http.HandleFunc("/admin/import/session", controllers.Import.GetSession)

	// Session edits
	http.HandleFunc("/admin/import/session/select", controllers.Import.ToggleSelect)
	http.HandleFunc("/admin/import/session/select-all", controllers.Import.SelectAll)
	http.HandleFunc("/admin/import/session/deselect-all", controllers.Import.DeselectAll)
	http.HandleFunc("/admin/import/session/assets/add", controllers.Import.AddAsset)
	http.HandleFunc("/admin/import/session/assets/remove", controllers.Import.RemoveAsset)
	http.HandleFunc("/admin/import/session/assets/move", controllers.Import.MoveAsset)

	// Batch synchronization
	http.HandleFunc("/admin/import/batch/start", controllers.Import.StartBatch)
	http.HandleFunc("/admin/import/batch/confirm", controllers.Import.ConfirmBatch)
	http.HandleFunc("/admin/import/batch/results", controllers.Import.GetBatchResults)
	http.HandleFunc("/admin/import/batch/report.pdf", controllers.Import.GetBatchReport)

	// Session lifecycle
	http.HandleFunc("/admin/import/reset", controllers.Import.ResetSession)
}
