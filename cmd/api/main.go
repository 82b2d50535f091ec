package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"

	"hireflow/talent-matcher/internal/config"
	"hireflow/talent-matcher/internal/handlers"
	"hireflow/talent-matcher/internal/repositories"
	"hireflow/talent-matcher/internal/services"
)

func main() {
	// Load configuration
	cfg := config.Load()
	log.Println("✅ Config loaded successfully")

	// Initialize database
	db, err := config.InitDatabase(cfg)
	if err != nil {
		log.Fatalf("❌ Failed to initialize database: %v", err)
	}

	// Initialize repositories
	candidateRepo := repositories.NewCandidateRepository(db)
	jobRepo := repositories.NewJobRepository(db)
	log.Println("✅ Repositories initialized successfully")

	// Initialize services
	storageService := services.NewResumeStorage(cfg.Storage.UploadPath)
	if err := storageService.EnsureUploadDir(); err != nil {
		log.Fatalf("❌ Failed to create upload directory: %v", err)
	}

	resumeParser := services.NewResumeParser()
	textBuilder := services.NewTextBuilder()
	explainer := services.NewExplainer()
	log.Println("✅ Services initialized successfully")

	// Initialize embedding provider
	embedder, err := services.NewEmbeddingService(cfg.Embedding)
	if err != nil {
		log.Fatalf("❌ Failed to initialize embedding provider: %v", err)
	}
	log.Printf("✅ Embedding provider initialized (%s)\n", cfg.Embedding.Provider)

	// Initialize vector store
	var vectorStore services.VectorStore
	switch cfg.Matching.VectorBackend {
	case "memory":
		vectorStore = services.NewMemoryVectorStore()
	default:
		vectorStore, err = services.NewQdrantVectorStore(cfg.Qdrant, cfg.Embedding.VectorSize)
		if err != nil {
			log.Fatalf("❌ Failed to initialize Qdrant: %v", err)
		}
	}

	if err := vectorStore.EnsureReady(context.Background()); err != nil {
		log.Fatalf("❌ Failed to initialize vector store: %v", err)
	}
	log.Printf("✅ Vector store initialized (%s)\n", cfg.Matching.VectorBackend)

	// Initialize matching engine
	matcher := services.NewMatcherService(
		candidateRepo,
		jobRepo,
		textBuilder,
		explainer,
		embedder,
		vectorStore,
		services.NewVectorSearcher(vectorStore),
		services.NewKeywordSearcher(candidateRepo, textBuilder, explainer),
		cfg.Matching,
	)
	log.Println("✅ Matching engine initialized")

	// Initialize embedding worker
	worker := services.NewEmbeddingWorker(
		candidateRepo,
		matcher,
		cfg.Worker.Concurrency,
		cfg.Worker.PollInterval,
	)
	worker.Start(context.Background())

	// Initialize handlers
	searchHandler := handlers.NewSearchHandler(matcher)
	candidateHandler := handlers.NewCandidateHandler(
		candidateRepo,
		storageService,
		resumeParser,
		worker,
		cfg.Storage.MaxFileSize,
	)
	log.Println("✅ Handlers initialized")

	// Create Fiber app
	app := fiber.New(fiber.Config{
		AppName:      "Talent Matcher API",
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 30 * time.Second,
		BodyLimit:    int(cfg.Storage.MaxFileSize),
		ErrorHandler: customErrorHandler,
	})

	// Middleware
	app.Use(recover.New())
	app.Use(logger.New(logger.Config{
		Format:     "[${time}] ${status} - ${latency} ${method} ${path}\n",
		TimeFormat: "2006-01-02 15:04:05",
	}))

	app.Use(cors.New(cors.Config{
		AllowOrigins: "*",
		AllowMethods: "GET,POST,PUT,DELETE,OPTIONS",
		AllowHeaders: "Origin, Content-Type, Accept, Authorization, X-Tenant-ID",
	}))

	// Routes
	api := app.Group("/api/v1")

	// Health check
	api.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{
			"status": "healthy",
			"time":   time.Now(),
		})
	})

	// API endpoints
	api.Post("/search", searchHandler.HandleSearch)
	api.Get("/jobs/:id/matches", searchHandler.HandleJobMatches)
	api.Get("/candidates/:id/similar", searchHandler.HandleSimilarCandidates)
	api.Post("/recommendations", searchHandler.HandleRecommendations)
	api.Post("/candidates/:id/embedding", candidateHandler.HandleRefreshEmbedding)
	api.Post("/candidates/:id/resume", candidateHandler.HandleResumeUpload)

	// Root route
	app.Get("/", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{
			"message": "Talent Matcher API",
			"version": "1.0.0",
			"endpoints": []string{
				"POST /api/v1/search",
				"GET /api/v1/jobs/:id/matches",
				"GET /api/v1/candidates/:id/similar",
				"POST /api/v1/recommendations",
				"POST /api/v1/candidates/:id/embedding",
				"POST /api/v1/candidates/:id/resume",
			},
		})
	})

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		<-quit
		log.Println("\n🛑 Shutting down server...")
		worker.Stop()
		if err := app.Shutdown(); err != nil {
			log.Printf("❌ Server forced to shutdown: %v", err)
		}
	}()

	// Start server
	addr := fmt.Sprintf(":%s", cfg.Server.Port)
	log.Printf("🚀 Server starting on %s\n", addr)

	if err := app.Listen(addr); err != nil {
		log.Fatalf("❌ Failed to start server: %v", err)
	}
}

func customErrorHandler(c *fiber.Ctx, err error) error {
	code := fiber.StatusInternalServerError

	if e, ok := err.(*fiber.Error); ok {
		code = e.Code
	}

	return c.Status(code).JSON(fiber.Map{
		"error": err.Error(),
		"code":  code,
	})
}
