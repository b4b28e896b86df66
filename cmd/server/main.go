package main

import (
	"context"
	"database/sql"
	"fmt"
	"log"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware"
	_ "github.com/lib/pq"
	"github.com/pressly/goose/v3"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/redis/go-redis/v9"

	"github.com/irfan106/its-your-story/internal/api/middleware"
	"github.com/irfan106/its-your-story/internal/api/routes"
	"github.com/irfan106/its-your-story/internal/config"
	"github.com/irfan106/its-your-story/internal/core/comments"
	"github.com/irfan106/its-your-story/internal/core/feeds"
	"github.com/irfan106/its-your-story/internal/core/follows"
	"github.com/irfan106/its-your-story/internal/core/likes"
	"github.com/irfan106/its-your-story/internal/core/posts"
	"github.com/irfan106/its-your-story/internal/core/users"
	"github.com/irfan106/its-your-story/internal/core/views"
	"github.com/irfan106/its-your-story/internal/docstore"
	pgstore "github.com/irfan106/its-your-story/internal/docstore/postgres"
	"github.com/irfan106/its-your-story/internal/monitoring"
	"github.com/irfan106/its-your-story/internal/notify"
)

func main() {
	cfg := config.Load()
	logger := slog.New(slog.NewTextHandler(os.Stdout, nil))

	db, err := sql.Open("postgres", cfg.DatabaseURL)
	if err != nil {
		log.Fatal("Failed to connect to database:", err)
	}
	defer db.Close()

	if err := db.Ping(); err != nil {
		log.Fatal("Failed to ping database:", err)
	}

	log.Println("Connected to database")

	// Run migrations
	if err := goose.SetDialect("postgres"); err != nil {
		log.Fatal("Failed to set goose dialect:", err)
	}
	if err := goose.Up(db, "internal/db/migrations"); err != nil {
		log.Fatal("Failed to run migrations:", err)
	}

	log.Println("Migrations completed successfully")

	var store docstore.Store = pgstore.New(db)

	// Real-time fan-out: redis when configured, in-process broker otherwise
	var publisher notify.Publisher
	if cfg.RedisAddr != "" {
		redisClient := redis.NewClient(&redis.Options{Addr: cfg.RedisAddr})
		publisher = notify.NewRedisPublisher(redisClient)
		log.Println("Publishing engagement events to redis at", cfg.RedisAddr)
	} else {
		publisher = notify.NewBroker()
	}

	monitoring.Register(prometheus.DefaultRegisterer)

	// Services
	userService := users.NewService(store, logger)
	postService := posts.NewService(store, logger)
	followService := follows.NewService(store, publisher, logger)
	likeService := likes.NewService(store, publisher, logger)
	viewService := views.NewService(store, logger)
	feedService := feeds.NewService(store, logger)
	commentService := comments.NewService(store, publisher, logger)

	authMiddleware := middleware.NewAuthMiddleware([]byte(cfg.AuthSecret))

	r := chi.NewRouter()
	r.Use(chiMiddleware.Logger)
	r.Use(chiMiddleware.Recoverer)
	r.Use(chiMiddleware.RequestID)

	routes.RegisterUserRoutes(r, userService, authMiddleware)
	routes.RegisterFollowRoutes(r, followService, authMiddleware)
	routes.RegisterLikeRoutes(r, likeService, authMiddleware)
	routes.RegisterPostRoutes(r, postService, likeService, viewService, authMiddleware)
	routes.RegisterCommentRoutes(r, commentService, authMiddleware)
	routes.RegisterFeedRoutes(r, feedService, authMiddleware)

	r.Handle("/metrics", promhttp.Handler())
	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("OK"))
	})

	server := &http.Server{
		Addr:    ":" + cfg.Port,
		Handler: r,
	}

	go func() {
		fmt.Printf("its-your-story server starting on port %s\n", cfg.Port)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal("Server failed:", err)
		}
	}()

	// Drain in-flight requests on SIGINT/SIGTERM before exiting
	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)
	<-stop

	log.Println("Shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Printf("Graceful shutdown failed: %v", err)
	}
}
