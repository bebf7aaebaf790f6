package main

import (
	"log"
	"net/http"
	"os"
	"strconv"
	"time"

	"bloom_server/controllers"
	"bloom_server/middleware"
	"bloom_server/routes"
	"bloom_server/services"
	"bloom_server/socket"

	"github.com/gorilla/mux"
	"github.com/rs/cors"
)

func main() {
	// Initialize DynamoDB client and service
	log.Println("Initializing DynamoDB client...")
	dynamoClient := services.InitializeDynamoDBClient()
	dynamoService := &services.DynamoService{Client: dynamoClient}
	log.Println("DynamoDB client initialized.")

	// Initialize Services
	userService := &services.UserService{Dynamo: dynamoService}
	interactionService := &services.InteractionService{Dynamo: dynamoService}
	notificationService := &services.NotificationService{
		Interactions: interactionService,
		Users:        userService,
	}

	mailService := &services.MailService{
		Host:     os.Getenv("SMTP_HOST"),
		Port:     envInt("SMTP_PORT", 587),
		Username: os.Getenv("SMTP_USER"),
		Password: os.Getenv("SMTP_PASS"),
		From:     envString("MAIL_FROM", "bloom@skillpass.org"),
	}

	authService := &services.AuthService{
		Dynamo:    dynamoService,
		Users:     userService,
		Mail:      mailService,
		JWTSecret: []byte(os.Getenv("JWT_SECRET")),
		BaseURL:   envString("APP_BASE_URL", "http://localhost:8080"),
	}

	generateService := &services.GenerateService{
		Dynamo:  dynamoService,
		APIKey:  os.Getenv("GROQ_API_KEY"),
		BaseURL: envString("GROQ_BASE_URL", "https://api.groq.com/openai/v1"),
		Model:   envString("GROQ_MODEL", "llama-3.1-8b-instant"),
		HTTP:    &http.Client{},
	}

	// Realtime signal push
	socketServer := socket.NewServer()
	go func() {
		if err := socketServer.Serve(); err != nil {
			log.Fatalf("Socket.IO serve error: %v", err)
		}
	}()

	// Signal matching engine with its process-local stores
	signalService := &services.SignalService{
		Location:  services.NewMemoryLocationStore(envDuration("LOCATION_MAX_AGE", 0)),
		Seen:      services.NewMemorySignalCache(),
		Ledger:    interactionService,
		Users:     userService,
		Scorer:    services.NewScoreClient(envString("SCORE_API_URL", "https://bloom-nsrj.onrender.com")),
		Pusher:    socketServer,
		Radius:    envFloat("SIGNAL_RADIUS_METERS", services.DefaultSignalRadiusMeters),
		Threshold: envFloat("SIGNAL_SCORE_THRESHOLD", services.DefaultScoreThreshold),
	}

	s3Client, err := services.InitializeS3Client(os.Getenv("AWS_REGION"))
	if err != nil {
		log.Fatalf("Failed to initialize S3 client: %v", err)
	}
	mediaService := &services.MediaService{Client: s3Client, Bucket: os.Getenv("S3_BUCKET_NAME")}

	// Set up the server port
	port := envString("PORT", "8080")
	log.Printf("Using server port: %s\n", port)

	// Initialize the router
	r := mux.NewRouter()

	r.HandleFunc("/", controllers.WelcomeHandler).Methods("GET")
	r.HandleFunc("/health", controllers.HealthCheckHandler).Methods("GET")

	r.Handle("/socket.io/", socketServer.Handler())

	// Register routes
	requireAuth := middleware.RequireAuth(authService, userService)
	routes.RegisterAuthRoutes(r, authService, requireAuth)
	routes.RegisterLocationRoutes(r, signalService, requireAuth)
	routes.RegisterProfileRoutes(r, generateService, userService, notificationService, requireAuth)
	routes.RegisterInteractionRoutes(r, interactionService, requireAuth)
	routes.RegisterMediaRoutes(r, mediaService, requireAuth)

	// Add CORS middleware
	corsHandler := cors.New(cors.Options{
		AllowedOrigins:   []string{"*"}, // Adjust for specific domains if needed
		AllowedMethods:   []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Content-Type", "Authorization"},
		AllowCredentials: true,
	}).Handler(r)

	// Start the HTTP server
	log.Printf("Starting server on port %s...\n", port)
	serveErr := http.ListenAndServe(":"+port, corsHandler)
	socketServer.Close()
	log.Fatalf("Server stopped: %v", serveErr)
}

func envString(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func envInt(key string, fallback int) int {
	if v := os.Getenv(key); v != "" {
		if parsed, err := strconv.Atoi(v); err == nil {
			return parsed
		}
		log.Printf("Invalid value for %s, using default %d", key, fallback)
	}
	return fallback
}

func envFloat(key string, fallback float64) float64 {
	if v := os.Getenv(key); v != "" {
		if parsed, err := strconv.ParseFloat(v, 64); err == nil {
			return parsed
		}
		log.Printf("Invalid value for %s, using default %g", key, fallback)
	}
	return fallback
}

func envDuration(key string, fallback time.Duration) time.Duration {
	if v := os.Getenv(key); v != "" {
		if parsed, err := time.ParseDuration(v); err == nil {
			return parsed
		}
		log.Printf("Invalid value for %s, using default %s", key, fallback)
	}
	return fallback
}
