package app

import (
	"fmt"
	"log"
	"os"
	"time"

	"github.com/BartJoris/live-babetteconcept-sub001/app/controller"
	"github.com/BartJoris/live-babetteconcept-sub001/app/router"
	"github.com/BartJoris/live-babetteconcept-sub001/db"
	"github.com/BartJoris/live-babetteconcept-sub001/repository"
	"github.com/BartJoris/live-babetteconcept-sub001/service"
	"github.com/BartJoris/live-babetteconcept-sub001/utils"
)

// Initialize initializes the application
func Initialize() error {
	// Database is optional: without it, batch results only live in memory
	enabled, err := db.InitDB()
	if err != nil {
		return fmt.Errorf("failed to initialize database: %w", err)
	}
	var batchLogRepo repository.BatchLogRepositoryInterface
	if enabled {
		batchLogRepo = repository.NewBatchLogRepository()
	} else {
		log.Printf("⚠️  No database configured, batch results will not be persisted")
	}

	// Catalog service endpoint
	catalogURL := os.Getenv("CATALOG_URL")
	if catalogURL == "" {
		return fmt.Errorf("CATALOG_URL environment variable is not set")
	}
	catalogClient := service.NewCatalogClient(catalogURL, 30*time.Second)

	// Supplier profile: alias table, qualifiers and reference pattern
	profiles, err := service.NewProfileService(os.Getenv("SUPPLIER_PROFILE_DIR"))
	if err != nil {
		return fmt.Errorf("failed to load supplier profiles: %w", err)
	}
	supplier := os.Getenv("SUPPLIER_PROFILE")
	if supplier == "" {
		supplier = "default"
	}
	profile := profiles.Get(supplier)

	parser, err := utils.NewFilenameParser(profile)
	if err != nil {
		return fmt.Errorf("failed to build filename parser: %w", err)
	}
	normalizer := utils.NewColorNormalizer(profile)

	// Google Drive is optional: without credentials, photos arrive by upload only
	var driveService service.DriveServiceInterface
	if credentialsPath := os.Getenv("GOOGLE_APPLICATION_CREDENTIALS"); credentialsPath != "" {
		ds, err := service.NewDriveService(credentialsPath)
		if err != nil {
			return err
		}
		driveService = ds
	} else {
		log.Printf("⚠️  GOOGLE_APPLICATION_CREDENTIALS not set, Drive photo loading disabled")
	}

	// Core services
	sessions := service.NewSessionService()
	matcher := service.NewMatchingService(normalizer)
	conflicts := service.NewConflictService(catalogClient, normalizer)
	batch := service.NewBatchService(sessions, catalogClient, normalizer, batchLogRepo)
	reports := service.NewReportService()

	// Create controllers
	controllers := &router.Controllers{
		Import: controller.NewImportController(
			profile.Name,
			parser,
			sessions,
			matcher,
			conflicts,
			batch,
			reports,
			driveService,
			batchLogRepo,
		),
	}

	// Setup routes using standard http router
	router.SetupRoutes(controllers)

	return nil
}
