package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"classroom-signaling/internal/api"
	"classroom-signaling/internal/chat"
	"classroom-signaling/internal/config"
	"classroom-signaling/internal/database"
	"classroom-signaling/internal/identity"
	"classroom-signaling/internal/live"
	"classroom-signaling/internal/ws"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}
	if cfg.IsProduction() && cfg.JWTSecret == "" {
		log.Fatal("JWT_SECRET is required in production")
	}

	// Chat history lives in MongoDB when configured; classroom rooms are
	// always in-memory only.
	chatRepo := chat.Repository(chat.NewMemoryRepository())
	var mongoDB *database.MongoDB
	if cfg.MongoURI != "" {
		mongoDB, err = database.Connect(cfg.MongoURI, cfg.MongoDB)
		if err != nil {
			log.Fatalf("❌ MongoDB connection error: %v", err)
		}
		chatRepo = chat.NewMongoRepository(mongoDB)
	} else {
		log.Printf("⚠️ MONGO_URI not set, chat history is in-memory only")
	}

	auth := identity.NewAuthenticator(cfg.JWTSecret, !cfg.IsProduction())
	hub := live.NewHub(chat.NewService(chatRepo))
	wsHandler := ws.NewHandler(hub, auth, cfg)
	server := api.NewServer(cfg, hub, wsHandler)

	go func() {
		log.Printf("🚀 Server running on %s (env: %s)", cfg.Port, cfg.Env)
		if err := server.Start(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("Server error: %v", err)
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)
	<-stop

	log.Println("🛑 Server shutting down...")
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := server.Shutdown(ctx); err != nil {
		log.Printf("Shutdown error: %v", err)
	}
	if mongoDB != nil {
		if err := mongoDB.Close(); err != nil {
			log.Printf("MongoDB close error: %v", err)
		}
		log.Println("🔴 MongoDB connection closed")
	}
}
