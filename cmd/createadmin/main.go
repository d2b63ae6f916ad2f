// Command createadmin bootstraps an administrator account.
//
//	createadmin -email admin@school.edu -first Ada -last Admin -password '...'
//
// The password may also be supplied through ATTEND_ADMIN_PASSWORD.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"time"

	"go.uber.org/zap"

	"github.com/Chafic123/Attendance-Backend/config"
	"github.com/Chafic123/Attendance-Backend/internal/repository"
	"github.com/Chafic123/Attendance-Backend/internal/service"
	"github.com/Chafic123/Attendance-Backend/pkg/database"
	"github.com/Chafic123/Attendance-Backend/pkg/jwt"
	applogger "github.com/Chafic123/Attendance-Backend/pkg/logger"
)

func main() {
	var (
		configPath = flag.String("config", os.Getenv("ATTEND_CONFIG"), "path to config file")
		email      = flag.String("email", "", "admin email (required)")
		first      = flag.String("first", "System", "first name")
		last       = flag.String("last", "Administrator", "last name")
		password   = flag.String("password", os.Getenv("ATTEND_ADMIN_PASSWORD"), "initial password (min 8 characters)")
		migrate    = flag.Bool("migrate", true, "run migrations before creating the account")
	)
	flag.Parse()

	if *email == "" || len(*password) < 8 {
		flag.Usage()
		os.Exit(2)
	}

	cfg, err := config.Load(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "load config: %v\n", err)
		os.Exit(1)
	}
	logger, err := applogger.NewLogger(&cfg.Log)
	if err != nil {
		fmt.Fprintf(os.Stderr, "init logger: %v\n", err)
		os.Exit(1)
	}
	defer logger.Sync()

	db, err := database.NewDB(&cfg.Database, cfg.Log.Level, logger)
	if err != nil {
		logger.Fatal("connect database", zap.Error(err))
	}
	sqlDB, err := db.DB()
	if err != nil {
		logger.Fatal("get sql.DB", zap.Error(err))
	}
	defer sqlDB.Close()

	if *migrate {
		if err := database.RunMigrations(sqlDB, logger); err != nil {
			logger.Fatal("run migrations", zap.Error(err))
		}
	}

	svc := service.NewService(service.Deps{
		Config: cfg,
		Repo:   repository.NewRepository(db),
		JWT:    jwt.NewManager(&cfg.Auth),
		Logger: logger,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	user, err := svc.Admin.CreateAdmin(ctx, *first, *last, *email, *password)
	if err != nil {
		logger.Fatal("create admin", zap.Error(err))
	}
	logger.Info("admin created", zap.String("user_id", user.ID), zap.String("email", user.Email))
}
