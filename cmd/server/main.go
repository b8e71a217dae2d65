package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"portal-backend/internal/config"
	apphttp "portal-backend/internal/http"
	"portal-backend/internal/report"
	"portal-backend/internal/repository/sqlite"
	"portal-backend/internal/service"
)

func main() {
	logger := logrus.New()
	logger.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})

	cfg, err := config.Load()
	if err != nil {
		logger.Fatalf("load config: %v", err)
	}
	configureLogger(logger, cfg)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	db, err := sqlite.Open(cfg.Database.Path)
	if err != nil {
		logger.Fatalf("open database: %v", err)
	}
	defer db.Close()

	userRepo := sqlite.NewUserRepository(db)
	itemRepo := sqlite.NewItemRepository(db)
	contactRepo := sqlite.NewContactRepository(db)
	accessRepo := sqlite.NewAccessLogRepository(db)

	if err := userRepo.Init(ctx); err != nil {
		logger.Fatalf("init user repository: %v", err)
	}
	if err := itemRepo.Init(ctx); err != nil {
		logger.Fatalf("init item repository: %v", err)
	}
	if err := contactRepo.Init(ctx); err != nil {
		logger.Fatalf("init contact repository: %v", err)
	}
	if err := accessRepo.Init(ctx); err != nil {
		logger.Fatalf("init access log repository: %v", err)
	}

	fonts, err := loadFonts(cfg)
	if err != nil {
		logger.Fatalf("load report fonts: %v", err)
	}
	renderer, err := report.NewRenderer(report.Options{
		Brand:    cfg.Report.Brand,
		Locale:   cfg.Report.Locale,
		Compress: cfg.Report.Compress,
		Fonts:    fonts,
	})
	if err != nil {
		logger.Fatalf("setup report renderer: %v", err)
	}

	owner := service.DefaultOwner{
		Username: cfg.Defaults.OwnerUsername,
		Email:    cfg.Defaults.OwnerEmail,
	}
	services := apphttp.Services{
		Users:     service.NewUserService(userRepo, itemRepo),
		Items:     service.NewItemService(itemRepo, userRepo, owner, logger),
		Contacts:  service.NewContactService(contactRepo),
		Access:    service.NewAccessService(accessRepo, userRepo),
		Dashboard: service.NewDashboardService(userRepo, itemRepo, contactRepo, accessRepo, time.Now),
		Reports:   service.NewReportService(userRepo, itemRepo, renderer, logger),
	}

	gin.SetMode(gin.ReleaseMode)
	router := gin.New()
	router.Use(gin.Recovery())
	handler := apphttp.NewHandler(services, apphttp.Options{
		AllowedOrigins: cfg.CORS.Origins,
		TrustedProxies: cfg.Server.TrustedProxies,
		AutoAccessLog:  cfg.AccessLog.Auto,
		Logger:         logger,
	})
	if err := handler.RegisterRoutes(router); err != nil {
		logger.Fatalf("register routes: %v", err)
	}

	srv := &http.Server{
		Addr:    cfg.Server.Addr,
		Handler: router,
	}

	go func() {
		logger.Infof("listening on %s", cfg.Server.Addr)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatalf("http server: %v", err)
		}
	}()

	<-ctx.Done()
	logger.Info("shutting down...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Warnf("http shutdown: %v", err)
	}

	logger.Info("bye")
}

// loadFonts reads the configured TrueType files. Unset paths keep the renderer's
// built-in fonts.
func loadFonts(cfg config.Config) (report.Fonts, error) {
	var fonts report.Fonts
	for _, f := range []struct {
		path string
		dst  *[]byte
	}{
		{cfg.Report.FontRegular, &fonts.Regular},
		{cfg.Report.FontBold, &fonts.Bold},
	} {
		if f.path == "" {
			continue
		}
		data, err := os.ReadFile(f.path)
		if err != nil {
			return report.Fonts{}, err
		}
		*f.dst = data
	}
	return fonts, nil
}

func configureLogger(logger *logrus.Logger, cfg config.Config) {
	if cfg.Log.Format == "json" {
		logger.SetFormatter(&logrus.JSONFormatter{})
	}
	level, err := logrus.ParseLevel(cfg.Log.Level)
	if err != nil {
		logger.Warnf("unknown log level %q, using info", cfg.Log.Level)
		level = logrus.InfoLevel
	}
	logger.SetLevel(level)
}
