package main

import (
	"context"
	"flag"
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus"

	"github.com/avilamfg/exhibit-backend/internal/imagegen"
	product "github.com/avilamfg/exhibit-backend/internal/products"
	"github.com/avilamfg/exhibit-backend/pkg/config"
	"github.com/avilamfg/exhibit-backend/pkg/db"
	"github.com/avilamfg/exhibit-backend/pkg/logger"
	"github.com/avilamfg/exhibit-backend/pkg/metrics"
	"github.com/avilamfg/exhibit-backend/pkg/storage/gcs"
)

func main() {
	ctx := context.Background()
	logg := logger.New(logger.Options{ServiceName: "genimage"})

	_ = godotenv.Load()

	productID := flag.Int64("product", 0, "product id to generate an image for")
	prompt := flag.String("prompt", "", "prompt override (derived from the product name when empty)")
	flag.Parse()

	if *productID <= 0 {
		fmt.Fprintln(os.Stderr, "usage: genimage -product <id> [-prompt <text>]")
		os.Exit(1)
	}

	cfg, err := config.Load()
	requireResource(ctx, logg, "config", err)

	logg = logger.New(logger.Options{
		ServiceName: "genimage",
		Level:       logger.ParseLevel(cfg.App.LogLevel),
		WarnStack:   cfg.App.LogWarnStack,
	})

	if cfg.Replicate.APIToken == "" {
		fmt.Fprintln(os.Stderr, "EXHIBIT_REPLICATE_API_TOKEN is required")
		os.Exit(1)
	}

	replicateClient, err := imagegen.NewClient(cfg.Replicate)
	requireResource(ctx, logg, "replicate client", err)

	dbClient, err := db.New(ctx, cfg.DB, logg)
	requireResource(ctx, logg, "database", err)
	defer dbClient.Close()

	gcsClient, err := gcs.NewClient(ctx, cfg.GCS, cfg.GCP, logg)
	requireResource(ctx, logg, "object storage", err)

	productRepo := product.NewRepository(dbClient.DB())

	record, err := productRepo.FindByID(ctx, *productID)
	requireResource(ctx, logg, "product lookup", err)

	if *prompt == "" {
		*prompt = imagegen.DefaultPrompt(record.Name)
	}

	generator, err := imagegen.NewGenerator(imagegen.GeneratorParams{
		Replicate:     replicateClient,
		Storage:       gcsClient,
		Products:      productRepo,
		Logger:        logg,
		Metrics:       metrics.NewJobMetrics(prometheus.NewRegistry()),
		Bucket:        cfg.GCS.BucketName,
		PublicBaseURL: cfg.GCS.PublicBaseURL,
		PollInterval:  cfg.Replicate.PollInterval,
		PollTimeout:   cfg.Replicate.PollTimeout,
	})
	requireResource(ctx, logg, "image generator", err)

	imageURL, err := generator.Generate(ctx, *productID, *prompt)
	if err != nil {
		logg.Error(ctx, "image generation failed", err)
		os.Exit(1)
	}

	fmt.Println("image generated:", imageURL)
}

func requireResource(ctx context.Context, logg *logger.Logger, resource string, err error) {
	if err == nil {
		return
	}
	logg.Error(ctx, fmt.Sprintf("resource not working: %s", resource), err)
	os.Exit(1)
}
