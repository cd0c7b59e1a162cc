package main

import (
	"context"
	"fmt"
	"log"

	"storefront/core"
)

func main() {
	cfg := core.Load()
	ctx := context.Background()

	logCloser, err := core.SetupLogging(cfg, "api.log")
	if err != nil {
		log.Fatalf("failed to setup logging: %v", err)
	}
	defer logCloser.Close()

	db, err := core.Connect(ctx, cfg.DatabaseURL)
	if err != nil {
		log.Fatalf("failed to connect database: %v", err)
	}
	defer db.Close()

	redisClient, err := core.NewRedisClient(cfg.RedisURL)
	if err != nil {
		log.Fatalf("failed to connect redis: %v", err)
	}
	defer redisClient.Close()

	userRepo := core.NewPgUserRepository(db)
	if err := userRepo.EnsureSchema(ctx); err != nil {
		log.Fatalf("ensure schema failed: %v", err)
	}
	if err := core.BootstrapMember(ctx, userRepo, cfg); err != nil {
		log.Fatalf("bootstrap member failed: %v", err)
	}

	authService := core.NewRepositoryAuthService(userRepo)
	tokens := core.NewRedisTokenStore(redisClient, cfg.TokenTTL)

	router := core.NewAPIRouter(cfg, authService, tokens)

	addr := fmt.Sprintf(":%s", cfg.Port)
	log.Printf("starting auth api on %s", addr)
	if err := router.Run(addr); err != nil {
		log.Fatalf("server failed: %v", err)
	}
}
