package main

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"net/http"
	"os"
	"strconv"
	"time"

	"tably_server/routes"
	"tably_server/services"
	"tably_server/socket"

	"github.com/gorilla/mux"
	"github.com/rs/cors"
)

func main() {
	// Initialize DynamoDB client and service
	log.Println("Initializing DynamoDB client...")
	dynamoClient := services.InitializeDynamoDBClient()
	dynamoService := &services.DynamoService{Client: dynamoClient}
	log.Println("DynamoDB client initialized.")

	// Load the archetype catalog (immutable reference data)
	archetypes := services.LoadArchetypeTable(context.Background())

	// Initialize Services
	matchStore := &services.MatchStore{Dynamo: dynamoService}
	profileService := &services.UserProfileService{Dynamo: dynamoService}
	thresholdService := &services.ThresholdService{Dynamo: dynamoService}
	builder := &services.GroupBuilder{
		Compatibility: &services.CompatibilityService{Archetypes: archetypes},
		Quality:       &services.GroupScoreService{Archetypes: archetypes},
	}
	ledger := &services.MatchLedger{Store: matchStore}

	// Socket server broadcasts match events to per-pool rooms
	socketServer := socket.NewSocketServer()
	go func() {
		if err := socketServer.Serve(); err != nil {
			log.Printf("❌ Socket server error: %v", err)
		}
	}()
	defer socketServer.Close()

	coordinator := &services.ScanCoordinator{
		Store:    matchStore,
		Profiles: profileService,
		Policy:   thresholdService,
		Builder:  builder,
		Ledger:   ledger,
		Events:   &socket.Broadcaster{Server: socketServer},
	}

	// Set up the server port
	port := os.Getenv("PORT")
	if port == "" {
		port = "8080"
	}
	log.Printf("Using server port: %s\n", port)

	// Initialize the router
	r := mux.NewRouter()

	// Register a welcome route
	r.HandleFunc("/", func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprintln(w, "Welcome to Tably")
	}).Methods("GET")

	// Register a health check endpoint
	r.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		response := map[string]string{"status": "healthy"}
		json.NewEncoder(w).Encode(response)
	}).Methods("GET")

	// Register routes
	routes.RegisterScanRoutes(r, coordinator)
	routes.RegisterAuditRoutes(r, matchStore)
	routes.RegisterGroupRoutes(r, matchStore)
	r.Handle("/socket.io/", socketServer)

	// Periodic driver: sweep all active pools on a fixed interval
	interval := 60
	if raw := os.Getenv("SCAN_INTERVAL_MINUTES"); raw != "" {
		if parsed, err := strconv.Atoi(raw); err == nil && parsed > 0 {
			interval = parsed
		}
	}
	ticker := time.NewTicker(time.Duration(interval) * time.Minute)
	defer ticker.Stop()
	go func() {
		for range ticker.C {
			coordinator.ScanAllActivePools(context.Background(), "scheduler")
		}
	}()
	log.Printf("Scheduled scans every %d minutes", interval)

	// Add CORS middleware
	corsHandler := cors.New(cors.Options{
		AllowedOrigins:   []string{"*"}, // Adjust for specific domains if needed
		AllowedMethods:   []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Content-Type", "Authorization"},
		AllowCredentials: true,
	}).Handler(r)

	// Start the HTTP server
	log.Printf("Starting server on port %s...\n", port)
	log.Fatal(http.ListenAndServe(":"+port, corsHandler))
}
