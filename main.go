package main

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"math/rand"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"sparkd_server/config"
	"sparkd_server/middleware"
	"sparkd_server/routes"
	"sparkd_server/services"
	"sparkd_server/socket"

	"github.com/gorilla/mux"
	"github.com/rs/cors"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// Initialize DynamoDB client and service
	log.Println("Initializing DynamoDB client...")
	dynamoClient := services.InitializeDynamoDBClient(cfg.AWS.Region)
	dynamoService := &services.DynamoService{Client: dynamoClient}
	log.Println("DynamoDB client initialized.")

	// Optional candidate-exclusion cache
	var cache *services.ExclusionCache
	if cfg.Redis.Addr != "" {
		cache = &services.ExclusionCache{
			Client: services.NewRedisClient(cfg.Redis.Addr, cfg.Redis.Password, cfg.Redis.DB),
			TTL:    cfg.Redis.TTL,
		}
		log.Printf("Redis exclusion cache enabled at %s", cfg.Redis.Addr)
	}

	// Optional profile photo presigner
	var photos *services.PhotoService
	if cfg.AWS.S3Bucket != "" {
		photos = services.NewPhotoService(cfg.AWS.Region, cfg.AWS.S3Bucket)
	}

	// Socket.IO notification emitter
	notifier := socket.NewServer()
	go func() {
		if err := notifier.Serve(); err != nil {
			log.Printf("❌ Socket.IO server error: %v", err)
		}
	}()
	defer notifier.Close()

	// Initialize Services
	profileService := services.NewProfileService(dynamoService, cache, photos,
		rand.New(rand.NewSource(time.Now().UnixNano())))
	matchService := &services.MatchService{Dynamo: dynamoService, Notifier: notifier}
	interactionService := &services.InteractionService{Dynamo: dynamoService, Matches: matchService, Cache: cache}
	rewindService := &services.RewindService{Dynamo: dynamoService, Matches: matchService, Cache: cache}
	chatService := &services.ChatService{Dynamo: dynamoService, Matches: matchService, Notifier: notifier}
	engagementService := services.NewEngagementService(dynamoService, matchService, chatService, profileService,
		cfg.Greeting.MinDelay, cfg.Greeting.MaxDelay,
		rand.New(rand.NewSource(time.Now().UnixNano())))

	// Deferred greeting delivery survives restarts: tasks are in DynamoDB.
	worker := services.NewGreetingWorker(dynamoService, chatService, cfg.Greeting.PollInterval,
		rand.New(rand.NewSource(time.Now().UnixNano())))
	go worker.Run(ctx)

	// Initialize the router
	r := mux.NewRouter()

	// Register a welcome route
	r.HandleFunc("/", func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprintln(w, "Welcome to Sparkd")
	}).Methods("GET")

	// Register a health check endpoint
	r.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(map[string]string{"status": "healthy"})
	}).Methods("GET")

	r.Handle("/socket.io/", notifier.Handler())

	// Webhook stays outside the identity middleware
	routes.RegisterWebhookRoutes(r, engagementService, cfg.Webhook.Secret)

	// Authenticated API
	api := r.PathPrefix("/api").Subrouter()
	api.Use(middleware.Auth(cfg.Auth.JWTSecret))
	routes.RegisterProfileRoutes(api, profileService)
	routes.RegisterSwipeRoutes(api, interactionService, rewindService)
	routes.RegisterMatchRoutes(api, matchService, profileService)
	routes.RegisterChatRoutes(api, chatService)

	// Add CORS middleware
	corsHandler := cors.New(cors.Options{
		AllowedOrigins:   []string{"*"},
		AllowedMethods:   []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Content-Type", "Authorization"},
		AllowCredentials: true,
	}).Handler(r)

	server := &http.Server{
		Addr:    ":" + cfg.Server.Port,
		Handler: corsHandler,
	}

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := server.Shutdown(shutdownCtx); err != nil {
			log.Printf("❌ Server shutdown error: %v", err)
		}
	}()

	log.Printf("Starting server on port %s...", cfg.Server.Port)
	if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		log.Fatal(err)
	}
}
