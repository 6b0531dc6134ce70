package main

import (
	"campus-server/handlers"
	"campus-server/middleware"
	"campus-server/services"
	"context"
	"log"
	"net/http"
	"os"
	"strconv"

	"github.com/gorilla/mux"
	"github.com/joho/godotenv"
	"github.com/redis/go-redis/v9"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using default configuration")
	}

	mongoURI := os.Getenv("MONGO_URI")
	if mongoURI == "" {
		log.Fatal("MONGO_URI environment variable is not set")
	}
	jwtSecret := os.Getenv("JWT_SECRET")
	if jwtSecret == "" {
		log.Fatal("JWT_SECRET environment variable is not set")
	}

	// Connect to MongoDB
	client, err := mongo.Connect(context.Background(), options.Client().ApplyURI(mongoURI))
	if err != nil {
		log.Fatalf("MongoDB connection failed: %v", err)
	}
	if err := client.Ping(context.Background(), nil); err != nil {
		log.Fatalf("Failed to ping MongoDB: %v", err)
	}
	log.Println("Connected to MongoDB")
	db := client.Database("campus")

	// Redis
	redisAddr := os.Getenv("REDIS_ADDR")
	if redisAddr == "" {
		redisAddr = "localhost:6379"
	}
	redisDB := 0
	if redisDBStr := os.Getenv("REDIS_DB"); redisDBStr != "" {
		redisDB, err = strconv.Atoi(redisDBStr)
		if err != nil {
			log.Fatalf("Invalid REDIS_DB value: %v", err)
		}
	}
	redisClient := redis.NewClient(&redis.Options{
		Addr: redisAddr,
		DB:   redisDB,
	})
	if err := redisClient.Ping(context.Background()).Err(); err != nil {
		log.Fatalf("Failed to connect to Redis: %v", err)
	}

	// Initialize services and handlers
	imageService, err := services.NewImageService(db)
	if err != nil {
		log.Fatalf("Failed to initialize image storage: %v", err)
	}
	userService := services.NewUserService(db, redisClient, jwtSecret)
	friendService := services.NewFriendService(client, db, redisClient)
	eventService := services.NewEventService(db, redisClient)
	orgService := services.NewOrgService(db)
	categoryService := services.NewCategoryService(db)

	authHandler := handlers.NewAuthHandler(userService, imageService)
	userHandler := handlers.NewUserHandler(userService, eventService, imageService)
	friendHandler := handlers.NewFriendHandler(friendService)
	eventHandler := handlers.NewEventHandler(eventService, userService, imageService)
	orgHandler := handlers.NewOrgHandler(orgService, categoryService)

	r := mux.NewRouter()

	// CORS middleware
	allowedOrigins := []string{"http://localhost:3000", "http://localhost:5173"}
	if frontendURL := os.Getenv("FRONTEND_URL"); frontendURL != "" {
		allowedOrigins = append(allowedOrigins, frontendURL)
	}
	r.Use(middleware.CORSMiddleware(allowedOrigins))
	r.Use(middleware.LoggingMiddleware())
	r.Use(middleware.ErrorMiddleware())

	// Routes

	// Public user routes
	userRouter := r.PathPrefix("/users").Subrouter()
	userRouter.HandleFunc("", authHandler.RegisterUser).Methods("POST", "OPTIONS")
	userRouter.HandleFunc("/login", authHandler.LoginUser).Methods("POST", "OPTIONS")
	userRouter.HandleFunc("/image/{id}", userHandler.GetUserImage).Methods("GET", "OPTIONS")

	// Authenticated user routes
	authedUsers := r.PathPrefix("/users").Subrouter()
	authedUsers.Use(middleware.JWTMiddleware(jwtSecret))
	authedUsers.HandleFunc("", userHandler.ListUsers).Methods("GET", "OPTIONS")
	authedUsers.HandleFunc("/send-friend-request", friendHandler.SendFriendRequest).Methods("POST", "OPTIONS")
	authedUsers.HandleFunc("/accept-friend-request", friendHandler.AcceptFriendRequest).Methods("POST", "OPTIONS")
	authedUsers.HandleFunc("/decline-friend-request", friendHandler.DeclineFriendRequest).Methods("POST", "OPTIONS")
	authedUsers.HandleFunc("/remove-friend", friendHandler.RemoveFriend).Methods("POST", "OPTIONS")
	authedUsers.HandleFunc("/friend-status/{id}", friendHandler.FriendStatus).Methods("GET", "OPTIONS")
	authedUsers.HandleFunc("/saved-events/{eventId}", userHandler.SaveEvent).Methods("POST", "OPTIONS")
	authedUsers.HandleFunc("/saved-events/{eventId}", userHandler.UnsaveEvent).Methods("DELETE", "OPTIONS")
	authedUsers.HandleFunc("/{id}", userHandler.GetUser).Methods("GET", "OPTIONS")
	authedUsers.HandleFunc("/{id}", userHandler.UpdateUser).Methods("PUT", "OPTIONS")
	authedUsers.HandleFunc("/{id}", userHandler.DeleteUser).Methods("DELETE", "OPTIONS")

	// Event routes
	eventRouter := r.PathPrefix("/events").Subrouter()
	eventRouter.HandleFunc("/image/{id}", eventHandler.GetEventImage).Methods("GET", "OPTIONS")

	authedEvents := r.PathPrefix("/events").Subrouter()
	authedEvents.Use(middleware.JWTMiddleware(jwtSecret))
	authedEvents.HandleFunc("", eventHandler.ListEvents).Methods("GET", "OPTIONS")
	authedEvents.HandleFunc("", eventHandler.CreateEvent).Methods("POST", "OPTIONS")
	authedEvents.HandleFunc("/recommended", eventHandler.RecommendedEvents).Methods("GET", "OPTIONS")
	authedEvents.HandleFunc("/user/{userId}", eventHandler.ListEventsByUser).Methods("GET", "OPTIONS")
	authedEvents.HandleFunc("/{id}/image", eventHandler.UploadEventImage).Methods("POST", "OPTIONS")
	authedEvents.HandleFunc("/{id}", eventHandler.GetEvent).Methods("GET", "OPTIONS")
	authedEvents.HandleFunc("/{id}", eventHandler.UpdateEvent).Methods("PUT", "OPTIONS")
	authedEvents.HandleFunc("/{id}", eventHandler.DeleteEvent).Methods("DELETE", "OPTIONS")

	// Org and category routes
	orgRouter := r.PathPrefix("/orgs").Subrouter()
	orgRouter.Use(middleware.JWTMiddleware(jwtSecret))
	orgRouter.HandleFunc("", orgHandler.ListOrgs).Methods("GET", "OPTIONS")
	orgRouter.HandleFunc("", orgHandler.CreateOrg).Methods("POST", "OPTIONS")
	orgRouter.HandleFunc("/{id}", orgHandler.GetOrg).Methods("GET", "OPTIONS")

	categoryRouter := r.PathPrefix("/categories").Subrouter()
	categoryRouter.Use(middleware.JWTMiddleware(jwtSecret))
	categoryRouter.HandleFunc("", orgHandler.ListCategories).Methods("GET", "OPTIONS")

	port := os.Getenv("PORT")
	if port == "" {
		port = "3001"
	}
	log.Printf("Server starting on :%s", port)
	log.Fatal(http.ListenAndServe(":"+port, r))
}
