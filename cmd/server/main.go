// Command main is the entry point for the Meriter backend server.
package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"meriter/internal/bootstrap"
	"meriter/internal/config"
	"meriter/internal/server"
)

// @title Meriter API
// @version 1.0
// @description Community governance API with merit quotas, voting permissions, polls, investments and the tappalka minigame
// @termsOfService http://swagger.io/terms/

// @contact.name API Support
// @contact.email support@meriter.dev

// @license.name MIT
// @license.url https://opensource.org/licenses/MIT

// @host localhost:8390
// @BasePath /api
// @schemes http https

// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
// @description Type "Bearer" followed by a space and JWT token.

func main() {
	// Load configuration
	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	// Establish DB/Redis and ensure built-in communities exist
	db, redisClient, err := bootstrap.InitRuntime(cfg, bootstrap.Options{SeedBuiltIns: true})
	if err != nil {
		log.Fatalf("Failed to initialize runtime: %v", err)
	}

	srv, err := server.NewServerWithDeps(cfg, db, redisClient)
	if err != nil {
		log.Fatalf("Failed to create server: %v", err)
	}

	// Graceful shutdown
	go func() {
		sigChan := make(chan os.Signal, 1)
		signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
		<-sigChan

		log.Println("Shutting down server...")
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()

		if err := srv.Shutdown(ctx); err != nil {
			log.Printf("Server resource shutdown error: %v", err)
		}
	}()

	log.Fatal(srv.Start())
}
