package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"

	"formcoach-backend/cmd"
	"formcoach-backend/internal/analysis"
	"formcoach-backend/internal/api"
	"formcoach-backend/internal/frames"
	"formcoach-backend/internal/generation"
	"formcoach-backend/internal/jobs"
	"formcoach-backend/internal/llm"
	"formcoach-backend/internal/media"
	"formcoach-backend/internal/messaging"
)

type APIConfig struct {
	Storage cmd.StorageConfig

	APIPort          string `env:"API_PORT" envDefault:"8000"`
	AllowedOrigins   string `env:"CORS_ALLOWED_ORIGINS" envDefault:"*"`
	RabbitMQURL      string `env:"RABBITMQ_URL"`
	OpenAIChatModel  string `env:"OPENAI_CHAT_MODEL" envDefault:"gpt-4o"`
	OpenAIImageModel string `env:"OPENAI_IMAGE_MODEL" envDefault:"dall-e-3"`
	FFmpegPath       string `env:"FFMPEG_PATH" envDefault:"ffmpeg"`
	DemoAssetPath    string `env:"DEMO_ASSET_PATH" envDefault:"./assets/demo_squat.jpg"`
	MaxUploadBytes   int64  `env:"MAX_UPLOAD_BYTES" envDefault:"209715200"`
}

func main() {
	log.Println("Starting API Server...")

	cmd.LoadEnvFile()

	var cfg APIConfig
	if err := env.Parse(&cfg); err != nil {
		log.Fatalf("error parsing config: %v", err)
	}

	ctx := context.Background()

	objects, err := cmd.NewObjectStore(ctx, cfg.Storage)
	if err != nil {
		log.Fatalf("Failed to create object store: %v", err)
	}

	chat := llm.NewOpenAIChat(cfg.OpenAIChatModel)
	images := llm.NewOpenAIImages(cfg.OpenAIImageModel)

	ingestor := media.NewIngestor(objects, cfg.MaxUploadBytes)
	extractor := frames.NewExtractor(cfg.FFmpegPath, cfg.DemoAssetPath)
	pipeline := analysis.NewPipeline(chat, images, analysis.NewImageMirror(objects))
	store := jobs.NewStore(objects)

	// Without a broker the queue runs in process alongside the API, which
	// keeps single node deployments to one binary.
	var publisher messaging.Publisher
	if cfg.RabbitMQURL != "" {
		rabbitPublisher, err := messaging.NewRabbitMQPublisher(cfg.RabbitMQURL)
		if err != nil {
			log.Fatalf("Failed to connect to RabbitMQ: %v", err)
		}
		publisher = rabbitPublisher
	} else {
		log.Println("RABBITMQ_URL not set, running analysis worker in process")
		queue := messaging.NewInMemoryQueue()
		publisher = queue

		worker := jobs.NewWorker(queue, store, ingestor, extractor, pipeline)
		go worker.Run(ctx)
	}
	defer publisher.Close()

	// --- Chi Router Setup ---
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(middleware.Timeout(5 * time.Minute))
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: strings.Split(cfg.AllowedOrigins, ","),
		AllowedMethods: []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders: []string{"Accept", "Authorization", "Content-Type"},
	}))

	analysisService := api.NewMovementAnalysisService(ingestor, extractor, pipeline, store, publisher)
	analysisService.AddRoutes(r)

	generationService := api.NewGenerationService(generation.NewGenerator(chat))
	generationService.AddRoutes(r)

	// --- Start HTTP Server ---
	server := &http.Server{
		Addr:    ":" + cfg.APIPort,
		Handler: r,
	}

	// Goroutine for graceful shutdown
	go func() {
		quit := make(chan os.Signal, 1)
		signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
		<-quit
		log.Println("Shutting down server...")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()

		if err := server.Shutdown(shutdownCtx); err != nil {
			log.Fatalf("Server forced to shutdown: %v", err)
		}
	}()

	log.Printf("API server listening on port %s", cfg.APIPort)
	if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		log.Fatalf("Could not listen on %s: %v\n", cfg.APIPort, err)
	}

	log.Println("Server stopped.")
}
