package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/memorylane/dailyquestion/pkg/config"
	"github.com/memorylane/dailyquestion/pkg/dependency_container"
	"github.com/memorylane/dailyquestion/pkg/infra/auth/jwt"
	"github.com/memorylane/dailyquestion/pkg/infra/database"
	infraLogger "github.com/memorylane/dailyquestion/pkg/infra/logger"
	_ "github.com/memorylane/dailyquestion/pkg/infra/migrations"
	"github.com/memorylane/dailyquestion/pkg/infra/prometheus"
	"github.com/memorylane/dailyquestion/pkg/server"
	"github.com/memorylane/dailyquestion/pkg/server/router"
	"github.com/sirupsen/logrus"
)

const defaultTokenTTL = 24 * time.Hour

func main() {
	envFile := os.Getenv("ENV_FILE")
	if envFile == "" {
		envFile = ".env"
	}
	if err := godotenv.Load(envFile); err != nil {
		log.Println("no .env file found, using system environment variables")
	}

	configPath := os.Getenv("CONFIG_PATH")
	if configPath == "" {
		configPath = "./config"
	}
	if err := config.Load(configPath); err != nil {
		log.Fatalf("failed to load config: %v", err)
	}
	cfg := config.GetConfig()

	switch getCommand() {
	case "token":
		if err := issueToken(cfg, os.Args[2:]); err != nil {
			log.Fatalf("failed to issue token: %v", err)
		}
	default:
		serve(cfg)
	}
}

func serve(cfg *config.Config) {
	ctx := context.Background()

	logger, closeLogger, err := infraLogger.NewLogger("api")
	if err != nil {
		log.Fatalf("failed to initialize logger: %v", err)
	}
	defer closeLogger()
	config.SetLogger(logger)

	if cfg.Metrics.Enabled {
		prometheus.Initialize(prometheus.MetricsConfig{
			EnableLatency:  cfg.Metrics.EnableLatency,
			EnableScores:   cfg.Metrics.EnableScores,
			EnableUpstream: cfg.Metrics.EnableUpstream,
		})
	}

	db, err := database.NewDB(logger, &database.Config{
		Host:     cfg.Database.Host,
		Port:     cfg.Database.Port,
		User:     cfg.Database.User,
		Password: cfg.Database.Password,
		DBName:   cfg.Database.DBName,
		SSLMode:  cfg.Database.SSLMode,
		MaxConns: cfg.Database.MaxConns,
	})
	if err != nil {
		logger.WithError(err).Error("failed to initialize database")
		return
	}
	defer func() {
		if err := db.Close(); err != nil {
			logger.WithError(err).Warn("failed to close database")
		}
	}()

	container, err := dependency_container.NewContainer(ctx, dependency_container.ContainerDI{
		Cfg:    cfg,
		Logger: logger,
		DB:     db,
	})
	if err != nil {
		logger.WithError(err).Error("failed to build dependencies")
		return
	}
	defer container.Close()

	srv := server.NewAPIServer(server.APIServerDI{
		Config: cfg,
		Logger: logger,
		Routers: []router.ServerRouter{
			router.NewAPIRouter(container.MiddlewareTransport, container.HandlerTransport, os.Getenv("SWAGGER_URL")),
		},
	})

	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.Run()
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)

	select {
	case sig := <-quit:
		logger.WithField("signal", sig.String()).Info("shutting down server")
	case err := <-errCh:
		if err != nil {
			logger.WithError(err).Error("server failed")
		}
	}
	if err := srv.Shutdown(); err != nil {
		logger.WithError(err).Error("error shutting down server")
		return
	}
	logger.Info("server gracefully stopped")
}

// issueToken prints an admin bearer token: token <subject> [ttl].
func issueToken(cfg *config.Config, args []string) error {
	if len(args) < 1 {
		return fmt.Errorf("usage: %s token <subject> [ttl]", os.Args[0])
	}
	ttl := defaultTokenTTL
	if len(args) > 1 {
		parsed, err := time.ParseDuration(args[1])
		if err != nil {
			return fmt.Errorf("invalid ttl %q: %w", args[1], err)
		}
		ttl = parsed
	}
	token, err := jwt.NewJwtManager(cfg.Server.SecretKey).CreateToken(args[0], jwt.RoleAdmin, ttl)
	if err != nil {
		return err
	}
	logrus.WithFields(logrus.Fields{"subject": args[0], "ttl": ttl.String()}).Info("issued admin token")
	fmt.Println(token)
	return nil
}

func getCommand() string {
	if len(os.Args) > 1 {
		return os.Args[1]
	}
	return "serve"
}
