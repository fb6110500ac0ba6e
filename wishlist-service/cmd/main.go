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
	"wishlist-microservices/wishlist-service/internal/api"
	"wishlist-microservices/wishlist-service/internal/client"
	"wishlist-microservices/wishlist-service/internal/idempotency"
	"wishlist-microservices/wishlist-service/internal/repository"
	"wishlist-microservices/wishlist-service/internal/service"
	"wishlist-microservices/wishlist-service/migrations"
)

var defaults = config.Defaults{
	Service:    "wishlist-service",
	Port:       "8002",
	DBName:     "wishlist_db",
	KafkaTopic: "wishlist-topic",
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	root := &cli.Command{
		Name:  "wishlist-service",
		Usage: "Wishlists and gifts",
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
		log.Fatal().Err(err).Msg("wishlist-service")
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

	guard := idempotency.New(cfg.RedisAddr)
	if rg, ok := guard.(*idempotency.RedisGuard); ok {
		defer rg.Close()
	}

	userClient := client.NewUserClient(cfg.UserServiceURL, cfg.UserServiceTimeout)
	wishlistRepo := repository.NewWishlistRepository(db)
	wishlistService := service.NewWishlistService(wishlistRepo, userClient, publisher)
	wishlistHandler := api.NewWishlistHandler(wishlistService, guard)

	e := server.New(server.Options{
		Service:      cfg.Service,
		HealthPrefix: "/wishlists",
		RateLimit:    cfg.RateLimit,
		RateBurst:    cfg.RateBurst,
	})
	api.RegisterRoutes(e, wishlistHandler)

	log.Info().Str("addr", cfg.Addr()).Str("user_service", cfg.UserServiceURL).Msg("wishlist-service listening")
	return server.Run(ctx, e, cfg.Addr())
}
