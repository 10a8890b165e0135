package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/civicworks/udcpr-compliance/internal/application"
	auditapp "github.com/civicworks/udcpr-compliance/internal/application/audit"
	municipalapp "github.com/civicworks/udcpr-compliance/internal/application/municipal"
	notifapp "github.com/civicworks/udcpr-compliance/internal/application/notifications"
	projectsapp "github.com/civicworks/udcpr-compliance/internal/application/projects"
	reviewapp "github.com/civicworks/udcpr-compliance/internal/application/review"
	rulesapp "github.com/civicworks/udcpr-compliance/internal/application/rules"
	"github.com/civicworks/udcpr-compliance/internal/config"
	openaiParser "github.com/civicworks/udcpr-compliance/internal/infra/ai/openai"
	rulecache "github.com/civicworks/udcpr-compliance/internal/infra/cache"
	mysqlp "github.com/civicworks/udcpr-compliance/internal/infra/db/mysql"
	engineClient "github.com/civicworks/udcpr-compliance/internal/infra/engine"
	"github.com/civicworks/udcpr-compliance/internal/infra/httpserver"
	"github.com/civicworks/udcpr-compliance/internal/infra/retention"
	minioStore "github.com/civicworks/udcpr-compliance/internal/infra/storage"
	"github.com/civicworks/udcpr-compliance/internal/middleware"
)

func main() {
	// path config.yaml
	path := "config.yaml"
	if v := os.Getenv("CONFIG_PATH"); v != "" {
		path = v
	}

	// load config
	cfg, err := config.Load(path)
	if err != nil {
		log.Fatalf("config load error: %v", err)
	}

	ctx := context.Background()

	// connect MySQL
	db, err := mysqlp.Connect(ctx, cfg.MySQLDSN())
	if err != nil {
		log.Fatalf("mysql connect error: %v", err)
	}
	defer db.Close()

	// init repos
	projectRepo := mysqlp.NewProjectRepository(db)
	ruleRepo := mysqlp.NewRuleRepository(db)
	auditRepo := mysqlp.NewAuditRepository(db)
	notifRepo := mysqlp.NewNotificationRepository(db)

	// init minio (staging + approved corpus + page images)
	store, err := minioStore.New(ctx,
		cfg.Minio.Endpoint,
		cfg.Minio.Region,
		cfg.Minio.BucketName,
		cfg.Minio.AccessKey,
		cfg.Minio.SecretKey,
		cfg.Minio.UseSSL,
	)
	if err != nil {
		log.Fatalf("minio init error: %v", err)
	}

	// init rule engine client
	engineTimeout := 10 * time.Second
	if cfg.Engine.TimeoutSeconds > 0 {
		engineTimeout = time.Duration(cfg.Engine.TimeoutSeconds) * time.Second
	}
	engine := engineClient.NewClient(cfg.Engine.BaseURL, engineTimeout)

	// init clause logic parser
	parser := openaiParser.NewClient(cfg.OpenAI.APIKey, cfg.OpenAI.Model)

	// query cache
	cache := rulecache.New(
		time.Duration(cfg.Cache.TTLSeconds)*time.Second,
		time.Duration(cfg.Cache.CleanupSeconds)*time.Second,
	)

	clock := application.SystemClock{}

	// init services
	auditSvc := &auditapp.Service{Repo: auditRepo, Clock: clock}
	notifSvc := &notifapp.Service{Repo: notifRepo, Clock: clock}
	reviewSvc := &reviewapp.Service{
		Batches:  store,
		Approved: store,
		Rules:    ruleRepo,
		Images:   store,
		Parser:   parser,
		Audit:    auditSvc,
		Cache:    cache,
		Clock:    clock,
	}
	rulesSvc := &rulesapp.Service{
		Repo:   ruleRepo,
		Corpus: store,
		Cache:  cache,
	}
	projectsSvc := &projectsapp.Service{
		Repo:          projectRepo,
		Engine:        engine,
		EngineTimeout: engineTimeout,
		Audit:         auditSvc,
		Notify:        notifSvc,
		ReviewerIDs:   cfg.Reviewers,
		Clock:         clock,
	}
	municipalSvc := &municipalapp.Service{
		Repo:   projectRepo,
		Audit:  auditSvc,
		Notify: notifSvc,
		Clock:  clock,
	}

	// retention sweeper (audit + notifications)
	sweeper := retention.NewSweeper(auditRepo, notifRepo, cfg.Retention.Days)
	if err := sweeper.Start(cfg.Retention.Schedule); err != nil {
		log.Fatalf("retention schedule error: %v", err)
	}
	defer sweeper.Stop()

	// health checks
	checkers := map[string]middleware.HealthChecker{
		"database": &middleware.DatabaseHealthChecker{DB: db},
	}
	if cfg.Engine.BaseURL != "" {
		checkers["rule_engine"] = &middleware.HTTPHealthChecker{URL: cfg.Engine.BaseURL + "/health"}
	}

	// init router
	handler := httpserver.NewRouter(httpserver.Deps{
		Review:    reviewSvc,
		Rules:     rulesSvc,
		Projects:  projectsSvc,
		Municipal: municipalSvc,
		Audit:     auditSvc,
		Notify:    notifSvc,
		Health:    middleware.HealthHandler(checkers),
	})

	mux := chi.NewRouter()
	if len(cfg.Auth.APIKeys) > 0 {
		mux.Use(middleware.APIKeyAuth(cfg.Auth.APIKeys))
	}
	if cfg.RateLimit.Capacity > 0 {
		mux.Use(middleware.RateLimitMiddleware(cfg.RateLimit.Capacity, cfg.RateLimit.RefillRate))
	}
	mux.Mount("/", handler)

	addr := fmt.Sprintf(":%d", cfg.Server.Port)
	srv := &http.Server{
		Addr:         addr,
		Handler:      mux,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// run server
	go func() {
		log.Printf("server listening on %s", addr)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("server error: %v", err)
		}
	}()

	// graceful shutdown
	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)
	<-stop
	log.Println("shutting down server...")

	ctx2, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx2); err != nil {
		log.Printf("shutdown error: %v", err)
	}
}
