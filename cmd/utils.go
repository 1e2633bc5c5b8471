package cmd

import (
	"context"
	"flag"
	"fmt"
	"log"

	"github.com/joho/godotenv"

	"formcoach-backend/internal/storage"
)

func LoadEnvFile() {
	var configPath string

	flag.StringVar(&configPath, "env", "", "path to load env from")
	flag.Parse()

	if configPath == "" {
		log.Printf("no env file specified, using os.Environ only")
		return
	}

	log.Printf("loading env from file %s", configPath)
	err := godotenv.Load(configPath)
	if err != nil {
		log.Fatalf("error loading .env file '%s': %v", configPath, err)
	}
}

// StorageConfig is the env surface shared by the api and worker binaries.
type StorageConfig struct {
	Backend           string `env:"STORAGE_BACKEND" envDefault:"local"`
	LocalDir          string `env:"LOCAL_STORAGE_DIR" envDefault:"./data"`
	S3EndpointURL     string `env:"S3_ENDPOINT_URL"`
	S3Region          string `env:"AWS_REGION"`
	S3AccessKeyID     string `env:"AWS_ACCESS_KEY_ID"`
	S3SecretAccessKey string `env:"AWS_SECRET_ACCESS_KEY"`
	MediaBucketName   string `env:"MEDIA_BUCKET_NAME" envDefault:"formcoach-media"`
}

// NewObjectStore builds the object store the config selects, local disk by
// default or S3/MinIO when STORAGE_BACKEND=s3.
func NewObjectStore(ctx context.Context, cfg StorageConfig) (storage.ObjectStore, error) {
	switch cfg.Backend {
	case "local", "":
		return storage.NewLocalObjectStore(cfg.LocalDir)
	case "s3":
		return storage.NewS3ObjectStore(ctx, storage.S3ClientConfig{
			Endpoint:        cfg.S3EndpointURL,
			Region:          cfg.S3Region,
			Bucket:          cfg.MediaBucketName,
			AccessKeyID:     cfg.S3AccessKeyID,
			SecretAccessKey: cfg.S3SecretAccessKey,
		})
	default:
		return nil, fmt.Errorf("unknown storage backend %q, expected 'local' or 's3'", cfg.Backend)
	}
}
