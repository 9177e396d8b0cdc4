package main

import (
	"context"
	"database/sql"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gorilla/mux"
	_ "github.com/lib/pq"
	"github.com/sirupsen/logrus"
	"github.com/sweetflow/sweetflow/internal/auth"
	"github.com/sweetflow/sweetflow/internal/bucket"
	"github.com/sweetflow/sweetflow/internal/clients"
	"github.com/sweetflow/sweetflow/internal/events"
	"github.com/sweetflow/sweetflow/internal/orders"
	"github.com/sweetflow/sweetflow/internal/profiles"
	"github.com/sweetflow/sweetflow/internal/stats"
	"github.com/sweetflow/sweetflow/internal/store"
)

func main() {
	logger := logrus.New()
	logger.SetFormatter(&logrus.JSONFormatter{})
	if level, err := logrus.ParseLevel(getEnv("LOG_LEVEL", "info")); err == nil {
		logger.SetLevel(level)
	}

	// Database configuration
	dbHost := getEnv("DB_HOST", "localhost")
	dbPort := getEnv("DB_PORT", "5432")
	dbUser := getEnv("DB_USER", "sweetflow")
	dbPassword := getEnv("DB_PASSWORD", "sweetflow")
	dbName := getEnv("DB_NAME", "sweetflow")

	// Optional collaborators
	kafkaBrokers := getEnv("KAFKA_BROKERS", "")
	bucketURL := getEnv("BUCKET_URL", "")

	port := getEnv("PORT", "8080")

	dsn := fmt.Sprintf("host=%s port=%s user=%s password=%s dbname=%s sslmode=disable",
		dbHost, dbPort, dbUser, dbPassword, dbName)

	db, err := sql.Open("postgres", dsn)
	if err != nil {
		logger.WithError(err).Fatal("Failed to connect to database")
	}
	defer db.Close()

	// Wait for database to be ready
	for i := 0; i < 30; i++ {
		if err := db.Ping(); err == nil {
			logger.Info("Database connection established")
			break
		}
		logger.Info("Waiting for database...")
		time.Sleep(2 * time.Second)
	}

	pg := store.NewPostgres(db)
	if err := pg.CreateTables(context.Background()); err != nil {
		logger.WithError(err).Fatal("Failed to create tables")
	}

	// Services
	authService := auth.NewService(pg, logger)
	orderService := orders.NewService(pg, logger)
	clientService := clients.NewService(pg, logger)
	profileService := profiles.NewService(pg, logger)
	statsService := stats.NewService(pg, logger)

	orderService.SetInvalidator(statsService)

	if kafkaBrokers != "" {
		producer, err := events.NewKafkaProducer(kafkaBrokers, logger)
		if err != nil {
			logger.WithError(err).Fatal("Failed to create Kafka producer")
		}
		defer producer.Close()
		orderService.SetPublisher(producer)
		logger.WithField("brokers", kafkaBrokers).Info("Order event publishing enabled")
	} else {
		logger.Info("KAFKA_BROKERS not set - order event publishing disabled")
	}

	if bucketURL != "" {
		profileService.SetBucket(bucket.NewClient(bucketURL, logger))
		logger.WithField("url", bucketURL).Info("Logo storage configured")
	} else {
		logger.Info("BUCKET_URL not set - logo uploads disabled")
	}

	// Routes
	router := mux.NewRouter()
	router.Use(loggingMiddleware(logger))
	router.HandleFunc("/health", healthCheck(db)).Methods("GET")
	auth.NewHandler(authService, logger).Register(router)

	protected := router.PathPrefix("/").Subrouter()
	protected.Use(auth.Middleware(pg, logger))
	orders.NewHandler(orderService, logger).Register(protected)
	clients.NewHandler(clientService, logger).Register(protected)
	profiles.NewHandler(profileService, logger).Register(protected)
	stats.NewHandler(statsService, logger).Register(protected)

	srv := &http.Server{
		Addr:         ":" + port,
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		logger.WithField("port", port).Info("Starting sweetflow API")
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.WithError(err).Fatal("Failed to start server")
		}
	}()

	// Graceful shutdown
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)
	<-sigChan

	logger.Info("Shutting down server...")
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		logger.WithError(err).Error("Server forced to shutdown")
	}

	logger.Info("Server gracefully stopped")
}

func healthCheck(db *sql.DB) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		if err := db.Ping(); err != nil {
			w.WriteHeader(http.StatusServiceUnavailable)
			w.Write([]byte(`{"status":"unhealthy","service":"sweetflow"}`))
			return
		}
		w.WriteHeader(http.StatusOK)
		w.Write([]byte(`{"status":"healthy","service":"sweetflow"}`))
	}
}

func loggingMiddleware(logger *logrus.Logger) mux.MiddlewareFunc {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()

			next.ServeHTTP(w, r)

			logger.WithFields(logrus.Fields{
				"method":   r.Method,
				"path":     r.URL.Path,
				"remote":   r.RemoteAddr,
				"duration": time.Since(start).Milliseconds(),
			}).Info("Request completed")
		})
	}
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}
