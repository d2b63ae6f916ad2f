package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"

	"github.com/Chafic123/Attendance-Backend/config"
	"github.com/Chafic123/Attendance-Backend/internal/api/handler"
	"github.com/Chafic123/Attendance-Backend/internal/api/router"
	"github.com/Chafic123/Attendance-Backend/internal/repository"
	"github.com/Chafic123/Attendance-Backend/internal/service"
	"github.com/Chafic123/Attendance-Backend/pkg/database"
	"github.com/Chafic123/Attendance-Backend/pkg/jwt"
	applogger "github.com/Chafic123/Attendance-Backend/pkg/logger"
	"github.com/Chafic123/Attendance-Backend/pkg/mail"
	"github.com/Chafic123/Attendance-Backend/pkg/pdf"
	"github.com/Chafic123/Attendance-Backend/pkg/redis"
)

func main() {
	// 1. config
	cfg, err := config.Load(os.Getenv("ATTEND_CONFIG"))
	if err != nil {
		fmt.Fprintf(os.Stderr, "load config: %v\n", err)
		os.Exit(1)
	}

	// 2. logger
	logger, err := applogger.NewLogger(&cfg.Log)
	if err != nil {
		fmt.Fprintf(os.Stderr, "init logger: %v\n", err)
		os.Exit(1)
	}
	defer logger.Sync()

	logger.Info("starting attendance server",
		zap.Int("port", cfg.Server.Port),
		zap.String("log_level", cfg.Log.Level),
	)

	// 3. database
	db, err := database.NewDB(&cfg.Database, cfg.Log.Level, logger)
	if err != nil {
		logger.Fatal("connect database", zap.Error(err))
	}
	sqlDB, err := db.DB()
	if err != nil {
		logger.Fatal("get sql.DB", zap.Error(err))
	}
	if err := database.RunMigrations(sqlDB, logger); err != nil {
		logger.Fatal("run migrations", zap.Error(err))
	}

	// 4. redis is optional; without it tokens cannot be revoked
	rdb, err := redis.NewClient(&cfg.Redis, logger)
	if err != nil {
		logger.Warn("redis unavailable, token revocation and rate limiting disabled", zap.Error(err))
		rdb = nil
	}

	// 5. wiring: repository → service → handler
	jwtMgr := jwt.NewManager(&cfg.Auth)
	repo := repository.NewRepository(db)

	deps := service.Deps{
		Config:   cfg,
		Repo:     repo,
		JWT:      jwtMgr,
		Mailer:   mail.NewSender(&cfg.Mail, logger),
		Renderer: pdf.NewRenderer(&cfg.Report),
		Logger:   logger,
	}
	if rdb != nil {
		deps.Tokens = rdb
	}
	svc := service.NewService(deps)
	h := handler.NewHandler(svc)

	engine, err := router.Setup(cfg, h, jwtMgr, rdb, repo, logger)
	if err != nil {
		logger.Fatal("setup router", zap.Error(err))
	}

	// 6. serve with graceful shutdown
	srv := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Server.Port),
		Handler:      engine,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 60 * time.Second, // reports and exports
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		logger.Info("http server listening", zap.String("addr", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatal("http server", zap.Error(err))
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	sig := <-quit

	logger.Info("shutting down", zap.String("signal", sig.String()))

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		logger.Error("server shutdown", zap.Error(err))
	}

	if err := sqlDB.Close(); err != nil {
		logger.Error("close database", zap.Error(err))
	}
	if rdb != nil {
		_ = rdb.Close()
	}

	logger.Info("server stopped")
}
