package main

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gorilla/mux"
	"github.com/rs/cors"

	"github.com/Harshvardhan-91/Gaming-website-sub000/config"
	"github.com/Harshvardhan-91/Gaming-website-sub000/controllers"
	"github.com/Harshvardhan-91/Gaming-website-sub000/middleware"
	"github.com/Harshvardhan-91/Gaming-website-sub000/routes"
	"github.com/Harshvardhan-91/Gaming-website-sub000/services"
	"github.com/Harshvardhan-91/Gaming-website-sub000/socket"
	"github.com/Harshvardhan-91/Gaming-website-sub000/utils"
)

func main() {
	cfg := config.Load()

	// Initialize DynamoDB client and services
	log.Println("Initializing DynamoDB client...")
	dynamoClient := services.InitializeDynamoDBClient()
	dynamoService := &services.DynamoService{Client: dynamoClient}
	log.Println("DynamoDB client initialized.")

	userProfileService := &services.UserProfileService{Dynamo: dynamoService}
	listingService := &services.ListingService{Dynamo: dynamoService}
	conversationService := &services.ConversationService{
		Dynamo:   dynamoService,
		Users:    userProfileService,
		Listings: listingService,
	}
	s3Service := services.NewS3Service()
	jwtService := utils.NewJWTService(cfg.JWTSecret)

	// Realtime layer: hub, presence tracker, delivery tracker
	hub := socket.NewHub()
	presenceTracker := services.NewPresenceTracker(hub)
	deliveryTracker := services.NewDeliveryTracker()
	socket.RegisterHandlers(hub, conversationService, presenceTracker, deliveryTracker, jwtService)

	ctx, cancel := context.WithCancel(context.Background())
	go presenceTracker.Run(ctx)
	go deliveryTracker.Run(ctx)

	io := hub.Server()
	go func() {
		if err := io.Serve(); err != nil {
			log.Printf("Socket server error: %v", err)
		}
	}()

	// Initialize the router
	r := mux.NewRouter()

	r.HandleFunc("/", func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprintln(w, "Welcome to the marketplace chat service")
	}).Methods("GET")

	r.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(map[string]string{"status": "healthy"})
	}).Methods("GET")

	r.PathPrefix("/socket.io/").Handler(io)

	// Register routes
	auth := middleware.Auth(jwtService)
	chatController := controllers.NewChatController(conversationService, hub)
	routes.RegisterChatRoutes(r, chatController, auth)
	attachmentController := controllers.NewAttachmentController(s3Service)
	routes.RegisterAttachmentRoutes(r, attachmentController, auth)

	// Add CORS middleware
	corsHandler := cors.New(cors.Options{
		AllowedOrigins:   []string{"*"}, // Adjust for specific domains if needed
		AllowedMethods:   []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Content-Type", "Authorization"},
		AllowCredentials: true,
	}).Handler(r)

	srv := &http.Server{
		Addr:    ":" + cfg.Port,
		Handler: corsHandler,
	}

	go func() {
		log.Printf("Starting server on port %s...\n", cfg.Port)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("Server failed: %v", err)
		}
	}()

	// Shut down the typing sweep, the socket server, and the HTTP
	// listener in that order on SIGINT/SIGTERM.
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Println("Shutting down...")

	cancel()
	io.Close()

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Printf("Forced shutdown: %v", err)
	}
	log.Println("Server stopped.")
}
