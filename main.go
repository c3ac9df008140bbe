package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"strconv"

	"github.com/gorilla/mux"
	"github.com/joho/godotenv"
	"github.com/redis/go-redis/v9"

	"pickmeup-server/handlers"
	"pickmeup-server/middleware"
	"pickmeup-server/services"
	"pickmeup-server/store"
)

func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using environment as-is")
	}

	mongoURI := os.Getenv("MONGODB_URI")
	if mongoURI == "" {
		log.Fatal("MONGODB_URI environment variable is not set")
	}
	jwtSecret := os.Getenv("JWT_SECRET")
	if jwtSecret == "" {
		log.Fatal("JWT_SECRET environment variable is not set")
	}
	redisAddr := os.Getenv("REDIS_ADDR")
	if redisAddr == "" {
		log.Fatal("REDIS_ADDR environment variable is not set")
	}
	redisDB := 0
	if v := os.Getenv("REDIS_DB"); v != "" {
		db, err := strconv.Atoi(v)
		if err != nil {
			log.Fatalf("Invalid REDIS_DB value: %v", err)
		}
		redisDB = db
	}
	listenAddr := os.Getenv("LISTEN_ADDR")
	if listenAddr == "" {
		listenAddr = ":8080"
	}

	mongoClient, err := store.Connect(context.Background(), mongoURI)
	if err != nil {
		log.Fatalf("MongoDB connection failed: %v", err)
	}
	log.Println("Connected to MongoDB")

	redisClient := redis.NewClient(&redis.Options{Addr: redisAddr, DB: redisDB})
	if err := redisClient.Ping(context.Background()).Err(); err != nil {
		log.Fatalf("Failed to connect to Redis: %v", err)
	}
	log.Println("Connected to Redis")

	userStore := store.NewMongoUserStore(mongoClient, "pickmeup")
	shareStore := store.NewMongoShareStore(mongoClient, "pickmeup")
	cache := store.NewRedisCache(redisClient)

	authService := services.NewAuthService(userStore, cache, jwtSecret)
	friendService := services.NewFriendService(userStore)
	shareService := services.NewShareService(shareStore, userStore, cache)
	locationService := services.NewLocationService(userStore, cache)

	authHandler := handlers.NewAuthHandler(authService)
	friendHandler := handlers.NewFriendHandler(friendService)
	shareHandler := handlers.NewShareHandler(shareService)
	locationHandler := handlers.NewLocationHandler(locationService)

	r := mux.NewRouter()

	allowedOrigins := []string{"http://localhost:3000", "http://localhost:5173"}
	r.Use(middleware.CORSMiddleware(allowedOrigins))
	r.Use(middleware.ErrorMiddleware())

	// Auth routes
	authRouter := r.PathPrefix("/auth").Subrouter()
	authRouter.HandleFunc("/register", authHandler.Register).Methods("POST", "OPTIONS")
	authRouter.HandleFunc("/login", authHandler.Login).Methods("POST", "OPTIONS")

	authed := middleware.JWTMiddleware(jwtSecret, userStore, cache)
	authRouter.Handle("/logout", authed(http.HandlerFunc(authHandler.Logout))).Methods("POST", "OPTIONS")

	// Friend routes
	friendRouter := r.PathPrefix("/friends").Subrouter()
	friendRouter.Use(authed)
	friendRouter.HandleFunc("/search", friendHandler.Search).Methods("GET", "OPTIONS")
	friendRouter.HandleFunc("/requests", friendHandler.ListIncoming).Methods("GET", "OPTIONS")
	friendRouter.HandleFunc("/send-request", friendHandler.SendRequest).Methods("POST", "OPTIONS")
	friendRouter.HandleFunc("/accept-request", friendHandler.AcceptRequest).Methods("POST", "OPTIONS")
	friendRouter.HandleFunc("/reject-request", friendHandler.RejectRequest).Methods("POST", "OPTIONS")
	friendRouter.HandleFunc("/unfriend", friendHandler.Unfriend).Methods("POST", "OPTIONS")
	friendRouter.HandleFunc("", friendHandler.ListFriends).Methods("GET", "OPTIONS")

	// Location share routes
	shareRouter := r.PathPrefix("/shares").Subrouter()
	shareRouter.Use(authed)
	shareRouter.HandleFunc("/send", shareHandler.Send).Methods("POST", "OPTIONS")
	shareRouter.HandleFunc("/received", shareHandler.Received).Methods("GET", "OPTIONS")
	shareRouter.HandleFunc("/clear", shareHandler.ClearAll).Methods("DELETE", "OPTIONS")
	shareRouter.HandleFunc("/{id}", shareHandler.Discard).Methods("DELETE", "OPTIONS")

	// Location routes
	userRouter := r.PathPrefix("/user").Subrouter()
	userRouter.Use(authed)
	userRouter.HandleFunc("/ping", locationHandler.Ping).Methods("POST", "OPTIONS")
	userRouter.HandleFunc("/nearby-friends", locationHandler.NearbyFriends).Methods("GET", "OPTIONS")

	log.Printf("Server starting on %s", listenAddr)
	log.Fatal(http.ListenAndServe(listenAddr, r))
}
