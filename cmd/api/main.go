// cmd/api/main.go
// Main entry point for the matching API
// This file bootstraps all components and starts the server

package main

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/go-redis/redis/v8"
	"github.com/gorilla/mux"
	"github.com/jmoiron/sqlx"
	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/hobbyhive/hobbyhive-backend/internal/auth"
	"github.com/hobbyhive/hobbyhive-backend/internal/common/database"
	"github.com/hobbyhive/hobbyhive-backend/internal/config"
	"github.com/hobbyhive/hobbyhive-backend/internal/matching"
)

var startTime = time.Now()

func main() {
	log.SetFlags(log.Ldate | log.Ltime | log.Lshortfile)

	log.Println("Starting HobbyHive Matching API")

	// 1. Load environment variables
	if err := godotenv.Load(); err != nil {
		log.Printf("Warning: no .env file found (%v), using environment variables", err)
	}

	// 2. Load and validate configuration
	cfg := config.Load()
	if err := cfg.Validate(); err != nil {
		log.Fatal("Configuration validation failed: ", err)
	}

	// 3. Connect to PostgreSQL
	db, err := database.NewPostgresDBFromURL(cfg.DatabaseURL)
	if err != nil {
		log.Fatal("Failed to connect to PostgreSQL: ", err)
	}
	defer db.Close()
	log.Println("Connected to PostgreSQL")

	// 4. Connect to Redis (optional, used for match event notifications)
	var redisClient *redis.Client
	if cfg.RedisURL != "" {
		redisClient, err = database.NewRedisClientFromURL(cfg.RedisURL)
		if err != nil {
			log.Printf("Warning: Redis unavailable (%v), match notifications disabled", err)
			redisClient = nil
		} else {
			defer redisClient.Close()
			log.Println("Connected to Redis")
		}
	}

	// 5. Run database migrations
	if err := runMigrations(db); err != nil {
		log.Fatal("Failed to run migrations: ", err)
	}
	log.Println("Database migrations completed")

	// 6. Initialize matching engine
	repo := matching.NewPostgresRepository(db)
	profileStore := matching.NewPostgresProfileStore(db)

	var notifier matching.Notifier
	if redisClient != nil {
		notifier = matching.NewRedisNotifier(redisClient, cfg.MatchEventsChannel)
	} else {
		notifier = matching.NopNotifier{}
	}

	matchingService := matching.NewService(repo, profileStore, notifier)
	matchingHandler := matching.NewHandler(matchingService)
	log.Println("Matching engine initialized")

	// 7. Setup routes
	authMiddleware := auth.NewMiddleware(cfg.JWTSecret)

	router := mux.NewRouter()
	router.HandleFunc("/health", healthCheck).Methods("GET")
	router.Handle("/metrics", promhttp.Handler()).Methods("GET")

	matching.RegisterRoutes(router, matchingHandler, authMiddleware)

	router.Use(loggingMiddleware)
	router.Use(corsMiddleware)

	// 8. Create and start HTTP server
	srv := &http.Server{
		Addr:         fmt.Sprintf(":%s", cfg.Port),
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		log.Printf("Server starting on http://localhost%s (environment: %s)", srv.Addr, cfg.Environment)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal("Failed to start server: ", err)
		}
	}()

	// Wait for interrupt signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Println("Shutdown signal received...")

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		log.Fatal("Server forced to shutdown: ", err)
	}

	log.Println("Server exited gracefully")
}

// healthCheck returns server health status
func healthCheck(w http.ResponseWriter, r *http.Request) {
	response := map[string]interface{}{
		"status":    "healthy",
		"timestamp": time.Now().Format(time.RFC3339),
		"uptime":    time.Since(startTime).String(),
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	json.NewEncoder(w).Encode(response)
}

// loggingMiddleware logs all requests
func loggingMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()

		wrapped := &responseWriter{ResponseWriter: w, statusCode: http.StatusOK}
		next.ServeHTTP(wrapped, r)

		duration := time.Since(start)
		log.Printf("%s %s [%d] %v", r.Method, r.RequestURI, wrapped.statusCode, duration)
	})
}

// responseWriter wraps http.ResponseWriter to capture status code
type responseWriter struct {
	http.ResponseWriter
	statusCode int
}

func (rw *responseWriter) WriteHeader(code int) {
	rw.statusCode = code
	rw.ResponseWriter.WriteHeader(code)
}

// corsMiddleware handles CORS
func corsMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, PUT, DELETE, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization")

		if r.Method == "OPTIONS" {
			w.WriteHeader(http.StatusOK)
			return
		}

		next.ServeHTTP(w, r)
	})
}

// runMigrations executes database migrations
func runMigrations(db *sqlx.DB) error {
	migrations := []string{
		// Profiles table; populated by the profile service, read here for
		// candidate discovery and scoring
		`CREATE TABLE IF NOT EXISTS profiles (
			user_id BIGINT PRIMARY KEY,
			display_name VARCHAR(100) NOT NULL,
			age INTEGER NOT NULL,
			location_lat DOUBLE PRECISION NOT NULL DEFAULT 0,
			location_lng DOUBLE PRECISION NOT NULL DEFAULT 0,
			interests TEXT[] NOT NULL DEFAULT '{}',
			hobbies TEXT[] NOT NULL DEFAULT '{}',
			last_active TIMESTAMP WITH TIME ZONE DEFAULT CURRENT_TIMESTAMP,
			is_visible BOOLEAN DEFAULT TRUE
		)`,

		// Per-user swipe preferences
		`CREATE TABLE IF NOT EXISTS swipe_preferences (
			user_id BIGINT PRIMARY KEY,
			min_age INTEGER NOT NULL,
			max_age INTEGER NOT NULL,
			max_distance_km DOUBLE PRECISION NOT NULL,
			is_visible BOOLEAN NOT NULL DEFAULT TRUE,
			require_common_interests BOOLEAN NOT NULL DEFAULT FALSE,
			only_show_active_users BOOLEAN NOT NULL DEFAULT FALSE,
			updated_at TIMESTAMP WITH TIME ZONE DEFAULT CURRENT_TIMESTAMP
		)`,

		// Swipes; the unique constraint makes repeat swipes on the same
		// target fail loudly instead of silently overwriting
		`CREATE TABLE IF NOT EXISTS swipes (
			id BIGSERIAL PRIMARY KEY,
			swiper_id BIGINT NOT NULL,
			target_id BIGINT NOT NULL,
			action VARCHAR(20) NOT NULL,
			created_at TIMESTAMP WITH TIME ZONE DEFAULT CURRENT_TIMESTAMP,
			CONSTRAINT unique_swipe UNIQUE(swiper_id, target_id)
		)`,

		// Matches; rows are stored with user_a_id < user_b_id and the unique
		// constraint guarantees at most one match per pair under races
		`CREATE TABLE IF NOT EXISTS matches (
			id BIGSERIAL PRIMARY KEY,
			user_a_id BIGINT NOT NULL,
			user_b_id BIGINT NOT NULL,
			match_quality INTEGER NOT NULL DEFAULT 0,
			super_match BOOLEAN NOT NULL DEFAULT FALSE,
			created_at TIMESTAMP WITH TIME ZONE DEFAULT CURRENT_TIMESTAMP,
			CONSTRAINT unique_match_pair UNIQUE(user_a_id, user_b_id)
		)`,

		// Indexes
		`CREATE INDEX IF NOT EXISTS idx_profiles_age ON profiles(age)`,
		`CREATE INDEX IF NOT EXISTS idx_profiles_last_active ON profiles(last_active DESC)`,
		`CREATE INDEX IF NOT EXISTS idx_swipes_swiper ON swipes(swiper_id)`,
		`CREATE INDEX IF NOT EXISTS idx_swipes_target ON swipes(target_id)`,
		`CREATE INDEX IF NOT EXISTS idx_swipes_created_at ON swipes(created_at DESC)`,
		`CREATE INDEX IF NOT EXISTS idx_matches_user_a ON matches(user_a_id)`,
		`CREATE INDEX IF NOT EXISTS idx_matches_user_b ON matches(user_b_id)`,
	}

	for i, migration := range migrations {
		if _, err := db.Exec(migration); err != nil {
			if !strings.Contains(err.Error(), "already exists") {
				return fmt.Errorf("migration %d failed: %w", i+1, err)
			}
		}
	}

	return nil
}
