package main

import (
	"context"
	"database/sql"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/hibiken/asynq"
	"github.com/joho/godotenv"
	_ "github.com/lib/pq"
	config "github.com/postcue/postcue/configs"
	"github.com/postcue/postcue/internal/api/handlers"
	"github.com/postcue/postcue/internal/calendar"
	"github.com/postcue/postcue/internal/engine"
	job "github.com/postcue/postcue/internal/jobs"
	"github.com/postcue/postcue/internal/models"
	"github.com/postcue/postcue/internal/publish"
	"github.com/postcue/postcue/internal/queue"
	"github.com/postcue/postcue/internal/repository"
	"github.com/postcue/postcue/internal/service"
	"github.com/postcue/postcue/internal/store"
	"github.com/robfig/cron"
)

func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("Warning: Failed to load environment variables", err)
	}

	cfg := config.LoadConfig()

	db, err := sql.Open("postgres", cfg.PostgresURI)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	defer closeDB(db)

	if err := db.Ping(); err != nil {
		log.Fatalf("Database is unreachable: %v", err)
	}

	ctx := context.Background()
	if err := repository.EnsureSchema(ctx, db); err != nil {
		log.Fatalf("Failed to create schema: %v", err)
	}

	redisConn := asynq.RedisClientOpt{Addr: cfg.RedisURI}
	client := asynq.NewClient(redisConn)
	defer client.Close()

	app := fiber.New(fiber.Config{
		ReadTimeout:  10 * time.Minute,
		WriteTimeout: 10 * time.Minute,
		BodyLimit:    100 * 1024 * 1024, // 100 MB
		ErrorHandler: func(c *fiber.Ctx, err error) error {
			log.Printf("Error: %v", err)
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": err.Error()})
		},
	})

	app.Use(logger.New())
	app.Use(cors.New(cors.Config{
		AllowOriginsFunc: func(origin string) bool {
			return true
		},
		AllowMethods:     "GET,POST,PUT,DELETE,OPTIONS",
		AllowHeaders:     "Origin, Content-Type, Accept, Authorization",
		AllowCredentials: true,
		MaxAge:           3600,
	}))

	itemRepo := repository.NewContentItemRepository(db)
	platformRepo := repository.NewPlatformRepository(db)
	historyRepo := repository.NewDeliveryHistoryRepository(db)

	if err := seedPlatforms(ctx, platformRepo); err != nil {
		log.Fatalf("Failed to seed platforms: %v", err)
	}

	itemStore := store.NewStore(itemRepo, platformRepo)
	transitionEngine := engine.New(itemStore)

	dispatcher := publish.NewLogDispatcher()
	trigger := queue.NewTrigger(client)
	coordinator := publish.NewCoordinator(transitionEngine, dispatcher, trigger, historyRepo)

	mediaService := service.NewMediaService(*cfg)

	api := app.Group("/api")

	post := handlers.NewPostHandler(itemStore, transitionEngine, coordinator, historyRepo)
	api.Post("/posts", post.CreatePost)
	api.Get("/posts", post.ListPosts)
	api.Get("/posts/:id", post.GetPost)
	api.Put("/posts/:id", post.UpdatePost)
	api.Delete("/posts/:id", post.RemovePost)
	api.Post("/posts/:id/publish", post.PublishPost)
	api.Post("/posts/:id/revert", post.RevertPost)
	api.Get("/posts/:id/deliveries", post.ListDeliveries)

	initialItems, err := itemStore.List(ctx, store.Filter{})
	if err != nil {
		log.Fatalf("Failed to load content items: %v", err)
	}
	calendarView := calendar.NewView(itemStore, initialItems, calendar.Filter{})

	cal := handlers.NewCalendarHandler(itemStore, calendarView)
	api.Get("/calendar/events", cal.GetEvents)

	platform := handlers.NewPlatformHandler(platformRepo)
	api.Get("/platforms", platform.ListPlatforms)

	media := handlers.NewMediaHandler(mediaService)
	api.Post("/media/upload", media.UploadMedia)

	// cron jobs
	sweepJob := job.NewOverdueSweepJob(itemRepo, coordinator)

	c := cron.New()
	c.AddFunc("@every 00h05m00s", sweepJob.SweepOverdue)
	c.Start()

	go func() {
		server := asynq.NewServer(redisConn, asynq.Config{
			Concurrency: 10,
		})

		worker := queue.NewWorker(itemStore, coordinator)
		mux := asynq.NewServeMux()
		mux.HandleFunc(queue.TaskTypePublishItem, worker.HandlePublishItemTask)

		log.Println("Starting the Asynq server...")
		if err := server.Run(mux); err != nil {
			log.Fatalf("Could not start Asynq server: %v", err)
		}
	}()

	go func() {
		if err := app.Listen(cfg.ServerAddr); err != nil {
			log.Fatalf("Failed to start server: %v", err)
		}
	}()
	log.Printf("Server is running on %s", cfg.ServerAddr)

	gracefulShutdown(app, db)
}

func seedPlatforms(ctx context.Context, pr repository.PlatformRepository) error {
	defaults := []models.PlatformBinding{
		{ID: "instagram", Name: "Instagram", LogoURL: "/logos/instagram.svg"},
		{ID: "tiktok", Name: "TikTok", LogoURL: "/logos/tiktok.svg"},
		{ID: "youtube", Name: "YouTube", LogoURL: "/logos/youtube.svg"},
		{ID: "facebook", Name: "Facebook", LogoURL: "/logos/facebook.svg"},
		{ID: "x", Name: "X", LogoURL: "/logos/x.svg"},
	}
	for i := range defaults {
		if err := pr.Upsert(ctx, &defaults[i]); err != nil {
			return err
		}
	}
	return nil
}

func closeDB(db *sql.DB) {
	fmt.Fprint(os.Stdout, "Closing database connection... ")
	if err := db.Close(); err != nil {
		fmt.Fprintf(os.Stderr, "Failed to close database: %v", err)
		return
	}
	fmt.Fprintln(os.Stdout, "Done")
}

func gracefulShutdown(app *fiber.App, db *sql.DB) {
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)

	<-quit
	log.Println("Shutting down server...")

	if err := app.Shutdown(); err != nil {
		log.Fatalf("Failed to shut down server: %v", err)
	}

	closeDB(db)
	log.Println("Server shutdown complete.")
}
