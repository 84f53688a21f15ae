package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gorilla/mux"
	_ "github.com/joho/godotenv/autoload"

	"antiques-directory/internal/admin"
	"antiques-directory/internal/auth"
	"antiques-directory/internal/directory"
	"antiques-directory/internal/geocode"
	"antiques-directory/internal/hours"
	"antiques-directory/internal/importer"
	"antiques-directory/internal/suggest"
	"antiques-directory/pkg/circuit"
	"antiques-directory/pkg/config"
	"antiques-directory/pkg/container"
	"antiques-directory/pkg/database"
	"antiques-directory/pkg/health"
	metricsPkg "antiques-directory/pkg/metrics"
)

func main() {
	importCSV := flag.String("import-csv", "", "import places from a CSV file and exit")
	importJSON := flag.String("import-json", "", "import places from a JSON file and exit")
	importCurator := flag.Int("import-curator", 0, "curator id recorded for imported rows")
	flag.Parse()

	// Build container and register providers
	c := container.New()

	// Config (singleton)
	_ = c.Provide(func() *config.Config { return config.Load() }, true)

	// Database (singleton)
	_ = c.Provide(func(cfg *config.Config) (*database.DB, error) {
		return database.NewWithConfig(cfg.DatabaseURL, cfg)
	}, true)

	// Hours cache and evaluation service (singletons)
	_ = c.Provide(func(cfg *config.Config) *hours.Cache {
		return hours.NewCache(cfg.HoursCacheTTL, nil)
	}, true)
	_ = c.Provide(func(db *database.DB, cache *hours.Cache, cfg *config.Config) *directory.HoursService {
		return directory.NewHoursService(db, cache, cfg.ClosingSoonMinutes, nil)
	}, true)

	// External clients (singletons). Missing keys disable the feature rather
	// than failing startup.
	_ = c.Provide(func(cfg *config.Config) (*geocode.Geocoder, error) {
		if cfg.GoogleMapsAPIKey == "" {
			log.Println("GOOGLE_MAPS_API_KEY not set; geocoding disabled")
			return nil, nil
		}
		breaker := circuit.New(circuit.Config{
			Name:             "googlemaps",
			OperationTimeout: 10 * time.Second,
		})
		return geocode.NewGeocoder(cfg.GoogleMapsAPIKey, breaker)
	}, true)
	_ = c.Provide(func(cfg *config.Config) *suggest.HoursReviewer {
		if cfg.OpenAIAPIKey == "" {
			log.Println("OPENAI_API_KEY not set; hours suggestions disabled")
			return nil
		}
		breaker := circuit.New(circuit.Config{
			Name:             "openai",
			OperationTimeout: cfg.OpenAITimeout,
		})
		return suggest.NewHoursReviewer(cfg.OpenAIAPIKey, cfg.OpenAIModel, cfg.OpenAITimeout, breaker)
	}, true)

	var cfg *config.Config
	if err := c.Resolve(&cfg); err != nil {
		log.Fatal("config resolve:", err)
	}
	log.Println("Starting antiques directory")

	var (
		db       *database.DB
		svc      *directory.HoursService
		geocoder *geocode.Geocoder
		reviewer *suggest.HoursReviewer
	)
	if err := c.Resolve(&db); err != nil {
		log.Fatal("db resolve:", err)
	}
	defer db.Close()
	if err := c.Resolve(&svc); err != nil {
		log.Fatal("hours service resolve:", err)
	}
	if err := c.Resolve(&geocoder); err != nil {
		log.Fatal("geocoder resolve:", err)
	}
	if err := c.Resolve(&reviewer); err != nil {
		log.Fatal("reviewer resolve:", err)
	}

	// Import mode runs to completion and exits.
	if *importCSV != "" || *importJSON != "" {
		runImport(db, geocoder, *importCSV, *importJSON, *importCurator)
		return
	}

	// Load templates
	if err := directory.LoadTemplates(PublicTemplates()); err != nil {
		log.Fatal("Failed to load public templates:", err)
	}
	if err := admin.LoadTemplates(AdminTemplates()); err != nil {
		log.Fatal("Failed to load admin templates:", err)
	}
	directory.SetBasePath(cfg.BasePath)
	admin.SetBasePath(cfg.BasePath)

	// Curator IP roster for admin authentication
	curatorResolver := auth.NewCuratorResolver(cfg.CuratorsYAMLPath)
	curatorAuth := auth.NewCuratorAuthMiddleware(curatorResolver, admin.RenderUnauthorized)

	// HTTP routing
	router := mux.NewRouter()

	router.HandleFunc("/", directory.HomeHandler(db, svc, cfg.ListingPageSize)).Methods("GET")
	router.HandleFunc("/map", directory.MapHandler(db, svc, cfg.GoogleMapsAPIKey)).Methods("GET")
	router.HandleFunc("/places/{slug}", directory.PlaceDetailHandler(db, svc)).Methods("GET")
	router.HandleFunc("/api/places", directory.APIPlacesHandler(db, svc, cfg.ListingPageSize)).Methods("GET")
	router.HandleFunc("/api/places/{id:[0-9]+}/hours", directory.APIPlaceHoursHandler(db, svc)).Methods("GET")

	adminRouter := router.PathPrefix("/admin").Subrouter()
	adminRouter.Use(curatorAuth.Handler)
	adminRouter.HandleFunc("", admin.DashboardHandler(db)).Methods("GET")
	adminRouter.HandleFunc("/places", admin.PlacesHandler(db)).Methods("GET")
	adminRouter.HandleFunc("/places", admin.CreatePlaceHandler(db, svc)).Methods("POST")
	adminRouter.HandleFunc("/places/new", admin.NewPlaceHandler(db)).Methods("GET")
	adminRouter.HandleFunc("/places/{id:[0-9]+}/edit", admin.EditPlaceHandler(db)).Methods("GET")
	adminRouter.HandleFunc("/places/{id:[0-9]+}", admin.UpdatePlaceHandler(db, svc)).Methods("POST")
	adminRouter.HandleFunc("/places/{id:[0-9]+}/delete", admin.DeletePlaceHandler(db, svc)).Methods("POST")
	adminRouter.HandleFunc("/places/{id:[0-9]+}/hours", admin.EditHoursHandler(db, svc)).Methods("GET")
	adminRouter.HandleFunc("/places/{id:[0-9]+}/hours", admin.UpdateHoursHandler(db, svc)).Methods("POST")
	adminRouter.HandleFunc("/places/{id:[0-9]+}/parse-hours", admin.ParseHoursHandler(db, svc, reviewer)).Methods("POST")
	adminRouter.HandleFunc("/places/{id:[0-9]+}/geocode", admin.GeocodeHandler(db, geocoder)).Methods("POST")
	adminRouter.HandleFunc("/specialties", admin.SpecialtiesHandler(db)).Methods("GET")
	adminRouter.HandleFunc("/specialties", admin.CreateSpecialtyHandler(db)).Methods("POST")
	adminRouter.HandleFunc("/specialties/{id:[0-9]+}/delete", admin.DeleteSpecialtyHandler(db)).Methods("POST")

	staticPath := cfg.BasePath + "static/"
	router.PathPrefix(staticPath).Handler(http.StripPrefix(staticPath, http.FileServer(http.FS(Static()))))
	server := &http.Server{Addr: ":" + cfg.Port, Handler: router}

	// Ops server: metrics and health on a separate port.
	healthMgr := health.NewManager(5 * time.Second)
	healthMgr.Register(health.Checker{Name: "mysql", Check: db.Ping})

	opsMux := http.NewServeMux()
	if cfg.MetricsEnabled {
		opsMux.Handle(cfg.MetricsPath, metricsPkg.Handler())
	}
	opsMux.HandleFunc("/healthz", healthMgr.LivenessHandler())
	opsMux.HandleFunc("/readyz", healthMgr.ReadinessHandler())
	opsServer := &http.Server{Addr: ":" + cfg.MetricsPort, Handler: opsMux}
	go func() {
		fmt.Printf("Ops server (metrics/health) starting on port %s\n", cfg.MetricsPort)
		if err := opsServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Printf("Ops HTTP server error: %v", err)
		}
	}()

	// Graceful shutdown context
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go func() {
		sigChan := make(chan os.Signal, 1)
		signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
		<-sigChan
		log.Println("Received shutdown signal, initiating graceful shutdown...")
		cancel()
	}()

	go func() {
		fmt.Printf("Server starting on port %s\n", cfg.Port)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal("HTTP server error:", err)
		}
	}()

	<-ctx.Done()

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Printf("HTTP server shutdown error: %v", err)
	}
	if err := opsServer.Shutdown(shutdownCtx); err != nil {
		log.Printf("Ops HTTP server shutdown error: %v", err)
	}
	log.Println("Application shutdown complete")
}

// runImport loads one import file, prints the per-row report and exits the
// process with a non-zero status when any row failed.
func runImport(db *database.DB, geocoder *geocode.Geocoder, csvPath, jsonPath string, curator int) {
	im := importer.New(db, geocoder, curator)
	ctx := context.Background()

	var (
		report *importer.Report
		err    error
	)
	if csvPath != "" {
		report, err = im.ImportCSV(ctx, csvPath)
	} else {
		report, err = im.ImportJSON(ctx, jsonPath)
	}
	if err != nil {
		log.Fatal("Import failed:", err)
	}

	for _, row := range report.Rows {
		switch {
		case row.Err != nil:
			log.Printf("line %d: %q failed: %v", row.Line, row.Name, row.Err)
		case len(row.Skipped) > 0:
			for _, s := range row.Skipped {
				log.Printf("line %d: %q imported as place %d, skipped hours segment %q (%s)",
					row.Line, row.Name, row.PlaceID, s.Segment, s.Reason)
			}
		default:
			log.Printf("line %d: %q imported as place %d", row.Line, row.Name, row.PlaceID)
		}
	}
	log.Printf("Import complete: %d imported, %d failed", report.Imported, report.Failed)
	if report.Failed > 0 {
		os.Exit(1)
	}
}
