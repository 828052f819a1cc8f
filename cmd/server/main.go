package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"
	_ "time/tzdata"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/mamadbah2/ganado/internal/config"
	"github.com/mamadbah2/ganado/internal/repository/mongodb"
	"github.com/mamadbah2/ganado/internal/repository/sheets"
	"github.com/mamadbah2/ganado/internal/scheduler"
	"github.com/mamadbah2/ganado/internal/server/handlers"
	"github.com/mamadbah2/ganado/internal/server/router"
	cashsvc "github.com/mamadbah2/ganado/internal/service/cash"
	catalogsvc "github.com/mamadbah2/ganado/internal/service/catalog"
	commandsvc "github.com/mamadbah2/ganado/internal/service/commands"
	"github.com/mamadbah2/ganado/internal/service/export"
	reportingsvc "github.com/mamadbah2/ganado/internal/service/reporting"
	salessvc "github.com/mamadbah2/ganado/internal/service/sales"
	sessionsvc "github.com/mamadbah2/ganado/internal/service/session"
	whatsappsvc "github.com/mamadbah2/ganado/internal/service/whatsapp"
	"github.com/mamadbah2/ganado/pkg/clients/cloudinary"
	whatsappclient "github.com/mamadbah2/ganado/pkg/clients/whatsapp"
	"github.com/mamadbah2/ganado/pkg/logger"
)

func main() {
	decimal.MarshalJSONWithoutQuotes = true

	cfg, err := config.Load("")
	if err != nil {
		panic(err)
	}

	baseLogger := logger.Must(logger.New(cfg.Server.LogLevel))
	defer func() { _ = baseLogger.Sync() }()

	zap.ReplaceGlobals(baseLogger)

	loc, err := cfg.Reporting.Location()
	if err != nil {
		baseLogger.Fatal("invalid report timezone", zap.Error(err))
	}

	connectCtx, cancelConnect := context.WithTimeout(context.Background(), 15*time.Second)
	mongoRepo, err := mongodb.NewMongoDBRepository(connectCtx, cfg.MongoDB.URI, cfg.MongoDB.DBName, logger.Named(baseLogger, "repo.mongodb"))
	cancelConnect()
	if err != nil {
		baseLogger.Fatal("failed to init mongodb repository", zap.Error(err))
	}
	defer func() {
		if err := mongoRepo.Close(context.Background()); err != nil {
			baseLogger.Error("failed to close mongodb connection", zap.Error(err))
		}
	}()

	var uploader cloudinary.Uploader
	if cfg.Media.Enabled() {
		uploader = cloudinary.NewClient(cfg.Media)
		baseLogger.Info("media uploads enabled", zap.String("folder", cfg.Media.Folder))
	} else {
		baseLogger.Warn("cloudinary credentials missing, media uploads disabled")
	}

	recorder := salessvc.NewRecorder(mongoRepo, mongoRepo, cfg.Store, logger.Named(baseLogger, "svc.sales")).WithLocation(loc)
	if cfg.MongoDB.Transactions {
		recorder.WithTransactor(mongoRepo)
	}
	if cfg.Sheets.Enabled() {
		sheetsRepo, err := sheets.NewGoogleSheetRepository(context.Background(), cfg.Sheets, logger.Named(baseLogger, "repo.sheets"))
		if err != nil {
			baseLogger.Fatal("failed to init sheets repository", zap.Error(err))
		}
		recorder.WithMirror(sheetsRepo)
	} else {
		baseLogger.Info("google sheets mirror disabled")
	}

	sessions := sessionsvc.NewManager(cfg.Server.SessionTTL)
	catalogSvc := catalogsvc.NewService(mongoRepo, uploader, cfg.Media.MaxFiles, logger.Named(baseLogger, "svc.catalog"))
	ledger := cashsvc.NewLedger(mongoRepo, logger.Named(baseLogger, "svc.cash"))
	reportingSvc := reportingsvc.NewService(mongoRepo, mongoRepo, mongoRepo, cfg.Reporting.Currency, loc, logger.Named(baseLogger, "svc.reporting"))

	routes := router.Handlers{
		Session:   handlers.NewSessionHandler(sessions, logger.Named(baseLogger, "handlers.session")),
		Livestock: handlers.NewLivestockHandler(catalogSvc, logger.Named(baseLogger, "handlers.livestock")),
		Sales: handlers.NewSalesHandler(recorder, reportingSvc, export.SnapshotOptions{
			StoreName: cfg.Store.SellerName,
			Currency:  cfg.Reporting.Currency,
		}, logger.Named(baseLogger, "handlers.sales")),
		Cash: handlers.NewCashHandler(ledger, reportingSvc, logger.Named(baseLogger, "handlers.cash")),
	}

	var notifier scheduler.Notifier
	if cfg.WhatsApp.Enabled() {
		commandDispatcher := commandsvc.NewService(reportingSvc, logger.Named(baseLogger, "svc.commands"))
		whatsClient := whatsappclient.NewClient(cfg.WhatsApp)
		messagingSvc := whatsappsvc.NewMetaWhatsAppService(cfg.WhatsApp, whatsClient, commandDispatcher, logger.Named(baseLogger, "svc.whatsapp"))
		routes.Webhook = handlers.NewWebhookHandler(messagingSvc, logger.Named(baseLogger, "handlers.whatsapp"))
		notifier = messagingSvc
	} else {
		baseLogger.Warn("whatsapp token missing, owner bot and notifications disabled")
	}

	engine := router.New(routes, logger.Named(baseLogger, "router"))

	sched, err := scheduler.NewScheduler(cfg.Reporting, reportingSvc, mongoRepo, notifier, logger.Named(baseLogger, "scheduler"))
	if err != nil {
		baseLogger.Fatal("failed to init scheduler", zap.Error(err))
	}
	if err := sched.Start(); err != nil {
		baseLogger.Fatal("failed to start scheduler", zap.Error(err))
	}
	defer sched.Stop()

	srv := &http.Server{
		Addr:         ":" + cfg.Server.Port,
		Handler:      engine,
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 60 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	go func() {
		baseLogger.Info("server starting", zap.String("port", cfg.Server.Port))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			baseLogger.Fatal("http server crashed", zap.Error(err))
		}
	}()

	<-ctx.Done()
	baseLogger.Info("shutdown signal received")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		baseLogger.Error("graceful shutdown failed", zap.Error(err))
	}
}
