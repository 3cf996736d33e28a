package main

import (
	"log"
	"net/http"
	"os"

	"github.com/edubridge/backend/internal/assessment"
	"github.com/edubridge/backend/internal/auth"
	"github.com/edubridge/backend/internal/bank"
	"github.com/edubridge/backend/internal/database"
	"github.com/edubridge/backend/internal/middleware"
	"github.com/edubridge/backend/internal/tiers"
	"github.com/gorilla/mux"
	"github.com/joho/godotenv"
	"github.com/rs/cors"
)

func main() {
	// .env is optional; real deployments set the environment directly.
	if err := godotenv.Load(); err == nil {
		log.Println("Loaded environment from .env")
	}

	// Initialize database
	db, err := database.Connect()
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	defer db.Close()

	if err := database.Migrate(db); err != nil {
		log.Fatalf("Failed to run migrations: %v", err)
	}

	// Load the content bank; a schema failure here is a packaging bug.
	contentBank, err := bank.Load()
	if err != nil {
		log.Fatalf("Failed to load content bank: %v", err)
	}
	log.Printf("Content bank loaded: %d entries", contentBank.Size())

	generators := buildGenerators()

	// Initialize handlers
	authHandler := auth.NewHandler(db)
	assessmentHandler := assessment.NewHandler(assessment.NewStore(db), contentBank, generators)

	// Setup router
	r := mux.NewRouter()
	api := r.PathPrefix("/api/v1").Subrouter()

	// Public routes
	api.HandleFunc("/auth/register", authHandler.Register).Methods("POST")
	api.HandleFunc("/auth/login", authHandler.Login).Methods("POST")

	// Protected routes
	protected := api.PathPrefix("").Subrouter()
	protected.Use(middleware.AuthMiddleware)
	protected.HandleFunc("/auth/me", authHandler.GetCurrentUser).Methods("GET")
	protected.HandleFunc("/assessment/question", assessmentHandler.NextQuestion).Methods("POST")
	protected.HandleFunc("/assessment/answer", assessmentHandler.SubmitAnswer).Methods("POST")
	protected.HandleFunc("/assessment/sequence", assessmentHandler.GetSequence).Methods("GET")
	protected.HandleFunc("/assessment/session/{id}", assessmentHandler.EndSession).Methods("DELETE")

	// Health check
	r.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte(`{"status":"ok"}`))
	}).Methods("GET")

	// CORS
	c := cors.New(cors.Options{
		AllowedOrigins:   []string{"*"},
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Authorization", "Content-Type"},
		AllowCredentials: true,
	})

	handler := c.Handler(r)

	port := os.Getenv("PORT")
	if port == "" {
		port = "8080"
	}

	log.Printf("Server starting on :%s", port)
	if err := http.ListenAndServe(":"+port, handler); err != nil {
		log.Fatalf("Server failed: %v", err)
	}
}

// buildGenerators wires the upstream tiers from the environment, in
// priority order. A tier with no configured endpoint is simply absent;
// with none configured every question comes from the bank.
func buildGenerators() []tiers.Generator {
	var generators []tiers.Generator

	if endpoint := os.Getenv("CURRICULUM_API_URL"); endpoint != "" {
		generators = append(generators, tiers.NewCurriculumClient(endpoint, os.Getenv("CURRICULUM_API_KEY")))
		log.Println("Tier enabled: curriculum at", endpoint)
	}
	if endpoint := os.Getenv("LOCAL_MODEL_URL"); endpoint != "" {
		generators = append(generators, tiers.NewLocalModelClient(endpoint, os.Getenv("LOCAL_MODEL_KEY"), os.Getenv("LOCAL_MODEL_NAME")))
		log.Println("Tier enabled: local_model at", endpoint)
	}
	if endpoint := os.Getenv("BRAIN_SERVICE_URL"); endpoint != "" {
		generators = append(generators, tiers.NewBrainClient(endpoint))
		log.Println("Tier enabled: brain at", endpoint)
	}

	if len(generators) == 0 {
		log.Println("No generation tiers configured, serving from content bank only")
	}
	return generators
}
