package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gorilla/mux"
	"github.com/joho/godotenv"
	"github.com/rs/cors"
	"go.uber.org/zap"

	"edulearn-server/internal/attempt"
	"edulearn-server/internal/auth"
	"edulearn-server/internal/content"
	"edulearn-server/internal/models"
	"edulearn-server/internal/payment"
	"edulearn-server/internal/progress"
	"edulearn-server/internal/subscription"
	"edulearn-server/pkg/cache"
	"edulearn-server/pkg/database"
	"edulearn-server/pkg/localstore"
	"edulearn-server/pkg/logger"
)

func mustEnv(key string) string {
	v := os.Getenv(key)
	if v == "" {
		logger.Log.Fatal("missing required environment variable", zap.String("key", key))
	}
	return v
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func main() {
	// A missing .env is fine in production; the deployment sets the
	// environment directly.
	_ = godotenv.Load()

	logger.Init(os.Getenv("DEBUG") == "true")
	defer logger.Log.Sync()
	log := logger.Log

	// Secrets and database credentials must come from the environment;
	// there are no compiled-in fallbacks.
	jwtSecret := mustEnv("JWT_SECRET")

	dbConfig := &database.Config{
		Host:     mustEnv("DB_HOST"),
		Port:     mustEnv("DB_PORT"),
		User:     mustEnv("DB_USER"),
		Password: mustEnv("DB_PASSWORD"),
		DBName:   mustEnv("DB_NAME"),
		SSLMode:  envOr("DB_SSLMODE", "disable"),
	}

	db, err := database.NewPostgresDB(dbConfig)
	if err != nil {
		log.Fatal("failed to connect to database", zap.Error(err))
	}
	err = db.AutoMigrate(
		&models.User{},
		&models.Subscription{},
		&models.Subject{},
		&models.Video{},
		&models.Quiz{},
		&models.Question{},
		&models.QuizResult{},
		&models.Progress{},
		&models.Payment{},
	)
	if err != nil {
		log.Fatal("failed to migrate database", zap.Error(err))
	}

	var redisCache *cache.RedisCache
	if addr := os.Getenv("REDIS_ADDR"); addr != "" {
		redisCache = cache.NewRedisCache(addr)
	} else {
		log.Info("REDIS_ADDR not set, running without cache")
	}

	files, err := localstore.New(envOr("LOCAL_STORE_DIR", "data"), 150*time.Millisecond)
	if err != nil {
		log.Fatal("failed to open local store", zap.Error(err))
	}

	// Stores and services
	contentService := content.NewService(
		content.NewRemoteStore(db),
		content.NewLocalStore(files),
		redisCache,
		log,
	)
	subscriptionService := subscription.NewService(
		subscription.NewRemoteRepository(db),
		subscription.NewLocalRepository(files),
		log,
	)
	authService := auth.NewService(
		auth.NewRemoteRepository(db),
		auth.NewLocalRepository(files),
		subscriptionService,
		jwtSecret,
		log,
	)
	paymentService := payment.NewService(
		payment.DefaultRegistry(),
		payment.NewRemoteRepository(db),
		payment.NewLocalRepository(files),
		subscriptionService,
		log,
	)
	progressService := progress.NewService(
		progress.NewRemoteRepository(db),
		progress.NewLocalRepository(files),
		log,
	)
	engine := attempt.NewEngine(contentService, log)
	hub := attempt.NewHub(engine, log)

	// Handlers
	authHandler := auth.NewHandler(authService)
	contentHandler := content.NewHandler(contentService)
	attemptHandler := attempt.NewHandler(engine, contentService)
	paymentHandler := payment.NewHandler(paymentService)
	progressHandler := progress.NewHandler(progressService, contentService)

	router := mux.NewRouter()

	// Auth routes - no JWT required
	router.HandleFunc("/api/auth/register", authHandler.Register).Methods("POST", "OPTIONS")
	router.HandleFunc("/api/auth/login", authHandler.Login).Methods("POST", "OPTIONS")

	// Everything under /api beyond auth requires a valid token
	api := router.PathPrefix("/api").Subrouter()
	api.Use(auth.JWTMiddleware(jwtSecret))

	api.HandleFunc("/auth/me", authHandler.Me).Methods("GET", "OPTIONS")

	// Plans and payments: reachable without a subscription, since this is
	// how one is acquired
	api.HandleFunc("/plans", paymentHandler.Plans).Methods("GET", "OPTIONS")
	api.HandleFunc("/payments/initiate", paymentHandler.Initiate).Methods("POST", "OPTIONS")
	api.HandleFunc("/payments/verify", paymentHandler.Verify).Methods("POST", "OPTIONS")
	api.HandleFunc("/subscription/cancel", paymentHandler.CancelSubscription).Methods("POST", "OPTIONS")

	// Content reads: students need an active subscription, admins pass
	gated := api.NewRoute().Subrouter()
	gated.Use(auth.RequireSubscription(authService))

	gated.HandleFunc("/subjects", contentHandler.ListSubjects).Methods("GET", "OPTIONS")
	gated.HandleFunc("/subjects/{subjectId}", contentHandler.GetSubject).Methods("GET", "OPTIONS")
	gated.HandleFunc("/subjects/{subjectId}/videos", contentHandler.ListVideos).Methods("GET", "OPTIONS")
	gated.HandleFunc("/subjects/{subjectId}/quizzes", contentHandler.ListQuizzes).Methods("GET", "OPTIONS")
	gated.HandleFunc("/videos/{videoId}", contentHandler.GetVideo).Methods("GET", "OPTIONS")
	gated.HandleFunc("/quizzes/{quizId}", contentHandler.GetQuiz).Methods("GET", "OPTIONS")

	// Quiz attempts
	gated.HandleFunc("/quizzes/{quizId}/attempts", attemptHandler.Start).Methods("POST", "OPTIONS")
	gated.HandleFunc("/attempts/{attemptId}", attemptHandler.Get).Methods("GET", "OPTIONS")
	gated.HandleFunc("/attempts/{attemptId}/answers", attemptHandler.SelectAnswer).Methods("POST", "OPTIONS")
	gated.HandleFunc("/attempts/{attemptId}/submit", attemptHandler.Submit).Methods("POST", "OPTIONS")
	api.HandleFunc("/results", attemptHandler.MyResults).Methods("GET", "OPTIONS")

	// Video progress
	gated.HandleFunc("/progress", progressHandler.Mark).Methods("POST", "OPTIONS")
	api.HandleFunc("/progress", progressHandler.List).Methods("GET", "OPTIONS")
	gated.HandleFunc("/subjects/{subjectId}/progress", progressHandler.BySubject).Methods("GET", "OPTIONS")

	// Admin CRUD
	admin := api.NewRoute().Subrouter()
	admin.Use(auth.AdminOnly)

	admin.HandleFunc("/subjects", contentHandler.CreateSubject).Methods("POST", "OPTIONS")
	admin.HandleFunc("/subjects/{subjectId}", contentHandler.UpdateSubject).Methods("PUT", "OPTIONS")
	admin.HandleFunc("/subjects/{subjectId}", contentHandler.DeleteSubject).Methods("DELETE", "OPTIONS")
	admin.HandleFunc("/subjects/{subjectId}/videos", contentHandler.CreateVideo).Methods("POST", "OPTIONS")
	admin.HandleFunc("/videos/{videoId}", contentHandler.UpdateVideo).Methods("PUT", "OPTIONS")
	admin.HandleFunc("/videos/{videoId}", contentHandler.DeleteVideo).Methods("DELETE", "OPTIONS")
	admin.HandleFunc("/subjects/{subjectId}/quizzes", contentHandler.CreateQuiz).Methods("POST", "OPTIONS")
	admin.HandleFunc("/quizzes/{quizId}", contentHandler.UpdateQuiz).Methods("PUT", "OPTIONS")
	admin.HandleFunc("/quizzes/{quizId}", contentHandler.DeleteQuiz).Methods("DELETE", "OPTIONS")

	// WebSocket ticker for in-flight attempts. The attempt id is an
	// unguessable UUID handed out at start, which is what scopes access.
	router.HandleFunc("/ws/attempts/{attemptId}", hub.HandleWebSocket)

	corsMiddleware := cors.New(cors.Options{
		AllowedOrigins:   []string{envOr("CORS_ORIGIN", "http://localhost:3000")},
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Content-Type", "Authorization", "X-Requested-With"},
		ExposedHeaders:   []string{"Content-Length"},
		AllowCredentials: true,
		MaxAge:           300,
	})
	handler := corsMiddleware.Handler(router)

	srv := &http.Server{
		Addr:         ":" + envOr("PORT", "8080"),
		Handler:      handler,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
	}

	go func() {
		log.Info("server starting", zap.String("addr", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal("server failed", zap.Error(err))
		}
	}()

	c := make(chan os.Signal, 1)
	signal.Notify(c, os.Interrupt, syscall.SIGTERM)
	<-c

	ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		log.Warn("server forced to shutdown", zap.Error(err))
	}
	log.Info("server shutdown gracefully")
}
