package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/labstack/echo/v4"
	"gorm.io/gorm"

	"plantdoctor/config"
	"plantdoctor/database"
	"plantdoctor/router"

	// AI backends
	"plantdoctor/pkg/ai"

	// Diagnosis
	diagCtrlImp "plantdoctor/pkg/diagnosis/controllerImp"
	diagSvcImp "plantdoctor/pkg/diagnosis/serviceImp"

	// Audit store
	analysisCtrlImp "plantdoctor/pkg/analysis/controllerImp"
	analysisRepo "plantdoctor/pkg/analysis/repository"
	analysisRepoImp "plantdoctor/pkg/analysis/repositoryImp"

	// Health
	healthCtrlImp "plantdoctor/pkg/health/controllerImp"
)

func main() {
	// 1) Config + prompts
	cfg := config.Load()
	prompts, err := config.LoadPrompts(cfg.PromptsPath)
	if err != nil {
		log.Fatalf("prompts: %v", err)
	}

	// 2) LLM; without a credential the server still starts and every analyze
	// call reports the misconfiguration
	var llm ai.Client
	if cfg.HasCredential() {
		llm, err = ai.New(context.Background(), cfg)
		if err != nil {
			log.Fatalf("llm: %v", err)
		}
		log.Printf("[ai] backend=%s model=%s", cfg.LLMBackend, cfg.LLMModel)
	}
	svc := diagSvcImp.NewDiagnosisService(llm, prompts, diagSvcImp.Options{
		Timeout:      cfg.UpstreamTimeout,
		StrictSchema: cfg.StrictSchema,
	})

	// 3) Optional audit store (sqlite)
	var (
		db        *gorm.DB
		audit     analysisRepo.AnalysisRepository
		auditCtrl interface {
			List(echo.Context) error
			Export(echo.Context) error
		}
	)
	if cfg.AuditEnabled() {
		db, err = database.OpenSQLite(cfg.DBPath)
		if err != nil {
			log.Fatalf("db: %v", err)
		}
		audit = analysisRepoImp.New(db)
		auditCtrl = analysisCtrlImp.New(audit)
	}

	// 4) Controllers
	dCtrl := diagCtrlImp.New(svc, audit, cfg.LLMBackend, cfg.LLMModel)
	hCtrl := healthCtrlImp.NewHealthCtrl(db, svc.Configured(), cfg.LLMBackend, cfg.LLMModel)

	// 5) Echo
	e := echo.New()
	e.HideBanner = true
	router.New(e, cfg, dCtrl, hCtrl, auditCtrl)
	if cfg.StaticDir != "" {
		if _, err := os.Stat(cfg.StaticDir); err != nil {
			log.Printf("WARN: static dir not found: %v", err)
		} else {
			e.Static("/static", cfg.StaticDir)
		}
	}

	// 6) Start
	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           e,
		ReadHeaderTimeout: 5 * time.Second,
	}
	go func() {
		log.Printf("listening on :%s", cfg.Port)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal(err)
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)
	<-stop

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		log.Printf("shutdown: %v", err)
	}
	if db != nil {
		if sqlDB, err := db.DB(); err == nil {
			_ = sqlDB.Close()
		}
	}
}
