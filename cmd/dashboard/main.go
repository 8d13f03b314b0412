package main

import (
	"context"
	"flag"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"lt-line-dashboard/internal/application"
	"lt-line-dashboard/internal/domain"
	"lt-line-dashboard/internal/infrastructure/maplib"
	"lt-line-dashboard/internal/infrastructure/repositories"
	"lt-line-dashboard/internal/observability/metrics"
	"lt-line-dashboard/internal/ports/api"
	"lt-line-dashboard/internal/ports/ws"
	"lt-line-dashboard/pkg/maplayer"
)

func main() {
	var (
		addr       = flag.String("addr", ":8080", "HTTP server address")
		libraryURL = flag.String("library-url", "https://unpkg.com/leaflet@1.9.4/dist/leaflet.js", "Map library asset URL")
		tileURL    = flag.String("tile-url", "https://tile.openstreetmap.org/{z}/{x}/{y}.png", "Tile server URL template")
		csvPrefix  = flag.String("csv-prefix", "lt-line-report", "CSV export filename prefix")
	)
	flag.Parse()

	metrics.Init()

	// Реєстр та журнал живуть у пам'яті й скидаються при перезапуску
	lineRepo := repositories.NewMemoryLineRepository(domain.SeedLines())
	notificationLog := repositories.NewRingNotificationLog(repositories.DefaultNotificationCapacity)

	renderer := maplayer.NewRenderer()
	loader := maplib.NewLoader(*libraryURL, *tileURL, nil)

	eventHandler := ws.NewEventHandler()

	lineService := application.NewLineService(lineRepo, notificationLog, renderer, eventHandler, nil)
	mapService := application.NewMapService(loader, renderer, notificationLog)
	reportService := application.NewReportService(lineRepo, application.DefaultUptimeWeights(), *csvPrefix)

	// Облік шарів має існувати ще до готовності мапи
	if err := lineService.SyncAll(context.Background()); err != nil {
		log.Fatalf("Error seeding map layers: %v", err)
	}

	lineHandler := api.NewLineHandler(lineService)
	mapHandler := api.NewMapHandler(mapService)
	reportHandler := api.NewReportHandler(reportService)
	notificationHandler := api.NewNotificationHandler(notificationLog)

	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(middleware.Timeout(60 * time.Second))

	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   []string{"*"},
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", "X-CSRF-Token"},
		ExposedHeaders:   []string{"Link", "Content-Disposition"},
		AllowCredentials: true,
		MaxAge:           300,
	}))

	r.Route("/api", func(r chi.Router) {
		r.Route("/v1", func(r chi.Router) {
			lineHandler.RegisterRoutes(r)
			mapHandler.RegisterRoutes(r)
			reportHandler.RegisterRoutes(r)
			notificationHandler.RegisterRoutes(r)

			r.Get("/ws/events", eventHandler.HandleConnection)
		})
	})

	r.Handle("/metrics", promhttp.Handler())

	log.Printf("Starting server on %s", *addr)

	srv := &http.Server{
		Addr:    *addr,
		Handler: r,
	}
	go func() {
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("Error starting server: %v", err)
		}
	}()

	c := make(chan os.Signal, 1)
	signal.Notify(c, os.Interrupt, syscall.SIGTERM)

	<-c
	log.Println("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		log.Fatalf("Error during server shutdown: %v", err)
	}

	log.Println("Server gracefully stopped")
}
