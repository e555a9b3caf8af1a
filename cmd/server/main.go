package main

import (
	"context"
	"log"
	"time"

	"github.com/valyala/fasthttp"
	"go.uber.org/zap"

	apiHandler "github.com/kabulqd1101/kanban/api/handler"
	"github.com/kabulqd1101/kanban/internal/config"
	"github.com/kabulqd1101/kanban/internal/infrastructure/genai"
	"github.com/kabulqd1101/kanban/internal/infrastructure/monitor"
	"github.com/kabulqd1101/kanban/internal/infrastructure/reportstore"
	"github.com/kabulqd1101/kanban/internal/middleware"
	"github.com/kabulqd1101/kanban/internal/router"
	"github.com/kabulqd1101/kanban/internal/seed"
	"github.com/kabulqd1101/kanban/internal/services"
	"github.com/kabulqd1101/kanban/internal/services/lifecycle"
	"github.com/kabulqd1101/kanban/pkg/httpcontext"
	"github.com/kabulqd1101/kanban/pkg/logger"
	"github.com/kabulqd1101/kanban/repository/memory"
	boardUC "github.com/kabulqd1101/kanban/usecase/board"
	reportUC "github.com/kabulqd1101/kanban/usecase/report"
	taskUC "github.com/kabulqd1101/kanban/usecase/task"
	userUC "github.com/kabulqd1101/kanban/usecase/user"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("config error: %v", err)
	}

	zapLogger, err := logger.New(logger.Config{
		Level:    cfg.Logger.Level,
		Encoding: cfg.Logger.Encoding,
	})
	if err != nil {
		log.Fatalf("logger error: %v", err)
	}
	defer zapLogger.Sync()

	appCtx, cancel := context.WithCancel(context.Background())
	defer cancel()

	manager := lifecycle.New(cfg.Context.ShutdownTimeout, zapLogger)
	manager.Listen(cancel)

	boardData, err := seed.Load(cfg.Board.SeedPath)
	if err != nil {
		zapLogger.Fatal("seed data failed to load", zap.Error(err))
	}
	zapLogger.Info("board seeded",
		zap.Int("users", len(boardData.Users)),
		zap.Int("tasks", len(boardData.Tasks)))

	currentUserID := cfg.Board.CurrentUserID
	if currentUserID == "" {
		currentUserID = boardData.Users[0].ID
	}

	userRepo := memory.NewUserRepository(boardData.Users)
	taskRepo := memory.NewTaskRepository(boardData.Tasks)

	archive, err := reportstore.Open(cfg.Archive.Path, "reports")
	if err != nil {
		zapLogger.Fatal("failed to open report archive", zap.Error(err))
	}
	manager.Register("report_archive", func(ctx context.Context) error {
		return archive.Close()
	})

	generator := genai.NewOpenAIClient(cfg.Report.APIKey, cfg.Report.Model, zapLogger)
	if !generator.Configured() {
		zapLogger.Warn("no API key configured, report generation will return the fixed failure message")
	}

	mon := monitor.New(archive, generator, 10*time.Second, zapLogger)
	mon.Start()
	manager.Register("monitor", func(ctx context.Context) error {
		mon.Stop()
		return nil
	})

	userUseCase := userUC.New(userRepo, zapLogger)
	taskUseCase := taskUC.New(taskRepo, userRepo, zapLogger)
	boardService := boardUC.New(taskRepo, userRepo, zapLogger)
	reportService := reportUC.New(taskRepo, userRepo, generator, archive, zapLogger)

	scheduler := services.NewReportScheduler(reportService, archive, zapLogger, services.SchedulerConfig{
		Spec:      cfg.Report.Schedule,
		Timeout:   cfg.Report.Timeout,
		Retention: time.Duration(cfg.Archive.RetentionHours) * time.Hour,
	})
	scheduler.Start()
	manager.Register("report_scheduler", func(ctx context.Context) error {
		scheduler.Stop(ctx)
		return nil
	})

	ctxAdapter := httpcontext.NewAdapter(cfg.Context.RequestTimeout)

	handlers := router.Handlers{
		User:   apiHandler.NewUserHandler(userUseCase, ctxAdapter, zapLogger),
		Task:   apiHandler.NewTaskHandler(taskUseCase, ctxAdapter, zapLogger),
		Board:  apiHandler.NewBoardHandler(boardService, ctxAdapter, zapLogger),
		Report: apiHandler.NewReportHandler(reportService, ctxAdapter, zapLogger),
		Health: apiHandler.NewHealthHandler(mon, ctxAdapter, zapLogger),
	}

	actingUser := middleware.ActingUser(userRepo, currentUserID, zapLogger)
	r := router.New(handlers, actingUser)

	server := &fasthttp.Server{
		Handler:      r.Handler,
		ReadTimeout:  cfg.HTTP.ReadTimeout,
		WriteTimeout: cfg.HTTP.WriteTimeout,
		IdleTimeout:  cfg.HTTP.IdleTimeout,
		Name:         cfg.AppName,
	}

	go func() {
		zapLogger.Info("server started", zap.String("address", cfg.Address()))
		if err := server.ListenAndServe(cfg.Address()); err != nil {
			zapLogger.Fatal("server crashed", zap.Error(err))
		}
	}()

	manager.Register("http_server", func(ctx context.Context) error {
		return server.Shutdown()
	})

	<-appCtx.Done()

	if err := manager.Shutdown(context.Background()); err != nil {
		zapLogger.Error("graceful shutdown error", zap.Error(err))
	}
}
