package main

import (
	"context"
	"log"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"

	"managertc/internal/db"
	"managertc/internal/domain/attendance"
	"managertc/internal/domain/auth"
	"managertc/internal/domain/employee"
	"managertc/internal/domain/payroll"
	"managertc/internal/domain/payslip"
	"managertc/internal/platform/config"
	cryptoutil "managertc/internal/platform/crypto"
	"managertc/internal/platform/email"
	"managertc/internal/platform/jobs"
	authhandler "managertc/internal/transport/http/handlers/auth"
	payrollhandler "managertc/internal/transport/http/handlers/payroll"
	"managertc/internal/transport/http/middleware"
)

func main() {
	cfg := config.Load()
	if err := cfg.Validate(); err != nil {
		log.Fatalf("config invalid: %v", err)
	}

	ctx := context.Background()
	pool, err := db.Connect(ctx, cfg)
	if err != nil {
		log.Fatalf("db connect failed: %v", err)
	}
	defer pool.Close()

	if cfg.RunMigrations {
		if err := db.Migrate(ctx, pool, "migrations"); err != nil {
			log.Fatalf("migrations failed: %v", err)
		}
	}

	cryptoSvc, err := cryptoutil.New(cfg.DataEncryptionKey)
	if err != nil {
		log.Fatalf("crypto init failed: %v", err)
	}

	employees := employee.NewStore(pool)
	attendanceStore := attendance.NewStore(pool)
	records := payroll.NewStore(pool)
	calculator := payroll.NewCalculator(employees, attendanceStore, records, payroll.DefaultRates())

	files := payslip.NewFSStore(cfg.PayslipDir, cryptoSvc)
	renderer := payslip.NewRenderer(records, employees, files, email.New(cfg), payslip.Config{
		CompanyName:    cfg.CompanyName,
		CompanyAddress: cfg.CompanyAddress,
		EmailFrom:      cfg.EmailFrom,
		EmailEnabled:   cfg.EmailEnabled,
	})

	jobService := jobs.New(pool, cfg, calculator)
	jobService.Start(ctx)

	router := chi.NewRouter()
	router.Use(middleware.RequestID)
	router.Use(middleware.Logger)
	router.Use(chimiddleware.Recoverer)
	router.Use(chimiddleware.RequestSize(cfg.MaxBodyBytes))
	router.Use(middleware.Auth(cfg.JWTSecret))

	router.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})

	router.Get("/readyz", func(w http.ResponseWriter, r *http.Request) {
		ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
		defer cancel()
		if err := pool.Ping(ctx); err != nil {
			http.Error(w, "db not ready", http.StatusServiceUnavailable)
			return
		}
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ready"))
	})

	router.Route("/api/v1", func(r chi.Router) {
		authhandler.NewHandler(auth.NewService(pool, cfg.JWTSecret)).RegisterRoutes(r)
		payrollhandler.NewHandler(calculator, records, renderer, files).RegisterRoutes(r)
	})

	log.Printf("payroll server listening on %s", cfg.Addr)
	if err := http.ListenAndServe(cfg.Addr, router); err != nil {
		log.Fatalf("server failed: %v", err)
	}
}
