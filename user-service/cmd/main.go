package main

import (
	"context"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/urfave/cli/v3"
	"os"
	"os/signal"
	"syscall"
	"wishlist-microservices/internal/config"
	"wishlist-microservices/internal/database"
	"wishlist-microservices/internal/events"
	"wishlist-microservices/internal/server"
	"wishlist-microservices/user-service/internal/api"
	"wishlist-microservices/user-service/internal/repository"
	"wishlist-microservices/user-service/internal/service"
	"wishlist-microservices/user-service/migrations"
)

var defaults = config.Defaults{
	Service:    "user-service",
	Port:       "8001",
	DBName:     "user_db",
	KafkaTopic: "user-topic",
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	root := &cli.Command{
		Name:  "user-service",
		Usage: "Users, friends and interests",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "env-file", Usage: "path to a .env file (default .env if present)"},
		},
		Commands: []*cli.Command{
			{
				Name:   "serve",
				Usage:  "Run the HTTP server",
				Action: serve,
			},
			{
				Name:   "migrate",
				Usage:  "Create or upgrade the database schema",
				Action: migrate,
			},
		},
		Action: serve,
	}

	if err := root.Run(ctx, os.Args); err != nil {
		log.Fatal().Err(err).Msg("user-service")
	}
}

func loadConfig(cmd *cli.Command) (*config.Config, error) {
	cfg, err := config.LoadFile(cmd.String("env-file"), defaults)
	if err != nil {
		return nil, err
	}
	if level, err := zerolog.ParseLevel(cfg.LogLevel); err == nil {
		zerolog.SetGlobalLevel(level)
	}
	return cfg, nil
}

func migrate(ctx context.Context, cmd *cli.Command) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	db, err := database.Open(ctx, cfg.DB)
	if err != nil {
		return err
	}
	defer db.Close()

	return migrations.Up(ctx, db, cfg.DB.Driver)
}

func serve(ctx context.Context, cmd *cli.Command) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	db, err := database.Open(ctx, cfg.DB)
	if err != nil {
		return err
	}
	defer db.Close()

	publisher := events.NewPublisher(cfg.KafkaBrokers, cfg.KafkaTopic)
	defer publisher.Close()

	userRepo := repository.NewUserRepository(db)
	userService := service.NewUserService(userRepo, publisher)
	userHandler := api.NewUserHandler(userService)

	e := server.New(server.Options{
		Service:      cfg.Service,
		HealthPrefix: "/users",
		RateLimit:    cfg.RateLimit,
		RateBurst:    cfg.RateBurst,
	})
	api.RegisterRoutes(e, userHandler)

	log.Info().Str("addr", cfg.Addr()).Msg("user-service listening")
	return server.Run(ctx, e, cfg.Addr())
}
