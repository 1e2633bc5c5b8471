package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/caarlos0/env/v11"

	"formcoach-backend/cmd"
	"formcoach-backend/internal/analysis"
	"formcoach-backend/internal/frames"
	"formcoach-backend/internal/jobs"
	"formcoach-backend/internal/llm"
	"formcoach-backend/internal/media"
	"formcoach-backend/internal/messaging"
)

type WorkerConfig struct {
	Storage cmd.StorageConfig

	RabbitMQURL      string `env:"RABBITMQ_URL,notEmpty,required"`
	OpenAIChatModel  string `env:"OPENAI_CHAT_MODEL" envDefault:"gpt-4o"`
	OpenAIImageModel string `env:"OPENAI_IMAGE_MODEL" envDefault:"dall-e-3"`
	FFmpegPath       string `env:"FFMPEG_PATH" envDefault:"ffmpeg"`
	DemoAssetPath    string `env:"DEMO_ASSET_PATH" envDefault:"./assets/demo_squat.jpg"`
}

func main() {
	log.Println("Starting Worker Process...")

	cmd.LoadEnvFile()

	var cfg WorkerConfig
	if err := env.Parse(&cfg); err != nil {
		log.Fatalf("error parsing config: %v", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	objects, err := cmd.NewObjectStore(ctx, cfg.Storage)
	if err != nil {
		log.Fatalf("Failed to create object store: %v", err)
	}

	receiver, err := messaging.NewRabbitMQReceiver(cfg.RabbitMQURL)
	if err != nil {
		log.Fatalf("Failed to connect to RabbitMQ: %v", err)
	}
	defer receiver.Close()

	chat := llm.NewOpenAIChat(cfg.OpenAIChatModel)
	images := llm.NewOpenAIImages(cfg.OpenAIImageModel)

	ingestor := media.NewIngestor(objects, 0)
	extractor := frames.NewExtractor(cfg.FFmpegPath, cfg.DemoAssetPath)
	pipeline := analysis.NewPipeline(chat, images, analysis.NewImageMirror(objects))
	store := jobs.NewStore(objects)

	worker := jobs.NewWorker(receiver, store, ingestor, extractor, pipeline)
	go worker.Run(ctx)

	log.Println("Worker started. Waiting for tasks. Press Ctrl+C to exit.")

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Println("Shutdown signal received, stopping worker...")
	cancel()

	log.Println("Worker process stopped.")
}
