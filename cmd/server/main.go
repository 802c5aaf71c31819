package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"golang.org/x/time/rate"

	"github.com/sujalbistaa/blogicum/internal/blog"
	"github.com/sujalbistaa/blogicum/internal/config"
	"github.com/sujalbistaa/blogicum/internal/db"
	routes "github.com/sujalbistaa/blogicum/internal/http"
	"github.com/sujalbistaa/blogicum/internal/media"
	"github.com/sujalbistaa/blogicum/internal/ws"
)

func main() {
	// Production sets variables directly, so a missing .env is fine.
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, reading from environment")
	}

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Invalid configuration: %v", err)
	}
	if cfg.GinMode != "" {
		gin.SetMode(cfg.GinMode)
	}

	database, err := db.Init(cfg.DatabaseURL)
	if err != nil {
		log.Fatalf("Failed to initialize database: %v", err)
	}

	resolver, err := media.NewResolver(cfg.MediaBaseURL)
	if err != nil {
		log.Fatalf("Invalid MEDIA_BASE_URL: %v", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	hub := ws.NewHub()
	go hub.Run(ctx)

	service := blog.NewService(database,
		blog.WithPageSize(cfg.PostsPerPage),
		blog.WithNotifier(&routes.HubNotifier{Hub: hub, Media: resolver}),
	)

	limiter := routes.NewIPRateLimiter(rate.Limit(cfg.RateLimitRPS), cfg.RateLimitBurst)
	go limiter.PruneEvery(ctx, 10*time.Minute)

	router := gin.New()
	router.Use(gin.Logger(), gin.Recovery())
	env := &routes.Env{Blog: service, Media: resolver, LoginURL: cfg.LoginURL}
	routes.SetupRoutes(router, env, hub, limiter, routes.RouteConfig{
		CORSOrigin: cfg.CORSOrigin,
		AdminToken: cfg.AdminToken,
	})

	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           router,
		ReadHeaderTimeout: 5 * time.Second,
	}

	go func() {
		log.Printf("Server listening on :%s", cfg.Port)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("listen: %s\n", err)
		}
	}()

	<-ctx.Done()
	log.Println("Shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Fatal("Server forced to shutdown:", err)
	}

	log.Println("Server exiting")
	os.Exit(0)
}
