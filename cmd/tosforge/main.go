package main

import (
	"context"
	"log"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/joho/godotenv"

	api "github.com/bayanihan-edu/tosforge/internal/api/http"
	"github.com/bayanihan-edu/tosforge/internal/auth"
	"github.com/bayanihan-edu/tosforge/internal/config"
	"github.com/bayanihan-edu/tosforge/internal/db"
	"github.com/bayanihan-edu/tosforge/internal/history"
	"github.com/bayanihan-edu/tosforge/internal/melc"
	"github.com/bayanihan-edu/tosforge/internal/metrics"
	"github.com/bayanihan-edu/tosforge/internal/quiz"
	"github.com/bayanihan-edu/tosforge/internal/rbac"
	"github.com/bayanihan-edu/tosforge/internal/storage"
)

func main() {
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("config: %v", err)
	}

	// --- DB ---
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	dbh, err := db.Open(ctx, db.Driver(cfg.DBDriver), cfg.DBDSN)
	if err != nil {
		log.Fatalf("db open failed: %v", err)
	}

	bank := melc.NewSQLBank(dbh)
	if err := bank.Seed(ctx); err != nil {
		log.Fatalf("melc seed failed: %v", err)
	}
	hist := history.NewSQLStore(dbh)

	blobs, err := storage.NewFSStore(cfg.OutputDir)
	if err != nil {
		log.Fatalf("blob store: %v", err)
	}

	// --- AI provider (optional) ---
	var provider quiz.Provider
	switch cfg.AIProvider {
	case "anthropic":
		provider = quiz.NewAnthropicProvider(cfg.AnthropicAPIKey, cfg.AIModel)
	case "openai":
		provider = quiz.NewOpenAIProvider(cfg.AIBaseURL, cfg.OpenAIAPIKey, cfg.AIModel)
	}

	deps := api.GenerateDeps{
		Bank:      bank,
		Generator: quiz.NewGenerator(),
		Provider:  provider,
		AITimeout: cfg.AITimeout,
		Blobs:     blobs,
		History:   hist,
	}

	// --- Router ---
	r := chi.NewRouter()
	r.Use(middleware.RequestID, middleware.RealIP, middleware.Logger, middleware.Recoverer)
	r.Use(middleware.Timeout(2 * time.Minute))
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   cfg.CORSOrigins,
		AllowedMethods:   []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders:   []string{"Authorization", "Content-Type"},
		ExposedHeaders:   []string{"Content-Disposition", "X-Export-Id", "X-Provider-Warning"},
		AllowCredentials: true,
		MaxAge:           300,
	}))

	var authSvc *auth.Service
	if cfg.EnableAuth {
		authSvc = auth.NewService(cfg.AuthSecret, cfg.AdminUser, cfg.AdminPassHash)
		r.Post("/auth/login", auth.LoginHandler(authSvc))
	}

	r.Group(func(pr chi.Router) {
		if authSvc != nil {
			pr.Use(auth.JWTMiddleware(authSvc))
		}

		pr.Get("/api/subjects", api.ListSubjectsHandler(bank))
		pr.Get("/api/subjects/{subject}/grades", api.ListGradesHandler(bank))
		pr.Get("/api/subjects/{subject}/grades/{grade}/quarters", api.ListQuartersHandler(bank))
		pr.Get("/api/competencies", api.ListCompetenciesHandler(bank))

		if authSvc != nil {
			pr.With(rbac.Require("melc:add")).
				Post("/api/competencies", api.AddCompetencyHandler(bank))
			pr.With(rbac.Require("tos:preview")).
				Post("/api/tos", api.Timed("tos_preview", api.PreviewTOSHandler(bank)))
			pr.With(rbac.Require("tos:generate")).
				Post("/api/generate", api.Timed("generate", api.GenerateHandler(deps)))
			pr.With(rbac.Require("exports:list")).
				Get("/api/exports", api.ListExportsHandler(hist))
			pr.With(rbac.Require("exports:download")).
				Get("/api/exports/{exportID}/download", api.DownloadExportHandler(hist, blobs))
		} else {
			pr.Post("/api/competencies", api.AddCompetencyHandler(bank))
			pr.Post("/api/tos", api.Timed("tos_preview", api.PreviewTOSHandler(bank)))
			pr.Post("/api/generate", api.Timed("generate", api.GenerateHandler(deps)))
			pr.Get("/api/exports", api.ListExportsHandler(hist))
			pr.Get("/api/exports/{exportID}/download", api.DownloadExportHandler(hist, blobs))
		}
	})

	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) { w.WriteHeader(200) })
	r.Get("/readyz", func(w http.ResponseWriter, r *http.Request) {
		if err := dbh.PingContext(r.Context()); err != nil {
			http.Error(w, "db not ready", http.StatusServiceUnavailable)
			return
		}
		w.WriteHeader(200)
	})
	r.Method(http.MethodGet, "/metrics", metrics.Handler())

	// Built-in form.
	r.Handle("/*", api.WebHandler())

	providerName := "none"
	if provider != nil {
		providerName = provider.Name()
	}
	log.Printf("listening on %s (db=%s, ai=%s, auth=%v)", cfg.Addr, cfg.DBDriver, providerName, cfg.EnableAuth)
	log.Fatal(http.ListenAndServe(cfg.Addr, r))
}
