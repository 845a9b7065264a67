package imagegen

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/avilamfg/exhibit-backend/pkg/logger"
	"github.com/avilamfg/exhibit-backend/pkg/metrics"
)

const jobName = "image-generation"

const defaultNegativePrompt = "blurry, low quality, distorted, watermark, text, logo, ugly, amateur"

// DefaultPrompt renders the catalog-style prompt for a product name.
func DefaultPrompt(productName string) string {
	return fmt.Sprintf(
		"Professional product photograph of %s, clean white background, studio lighting, high quality, 4K, detailed, B2B product catalog style",
		productName,
	)
}

type predictionAPI interface {
	CreatePrediction(ctx context.Context, input PredictionInput) (*Prediction, error)
	GetPrediction(ctx context.Context, getURL string) (*Prediction, error)
	DownloadOutput(ctx context.Context, url string) ([]byte, error)
}

type objectUploader interface {
	UploadObject(ctx context.Context, bucket, object, contentType string, payload []byte) error
}

type productImageUpdater interface {
	UpdateImageURL(ctx context.Context, id int64, url string) error
}

// GeneratorParams collects the generator dependencies.
type GeneratorParams struct {
	Replicate     predictionAPI
	Storage       objectUploader
	Products      productImageUpdater
	Logger        *logger.Logger
	Metrics       *metrics.JobMetrics
	Bucket        string
	PublicBaseURL string
	PollInterval  time.Duration
	PollTimeout   time.Duration
}

// Generator runs one prediction end to end: create, poll, download, upload,
// point the product row at the stored object. It runs single-threaded and
// does not retry beyond the poll loop.
type Generator struct {
	replicate     predictionAPI
	storage       objectUploader
	products      productImageUpdater
	logg          *logger.Logger
	metrics       *metrics.JobMetrics
	bucket        string
	publicBaseURL string
	pollInterval  time.Duration
	pollTimeout   time.Duration
}

// NewGenerator constructs a generator instance.
func NewGenerator(params GeneratorParams) (*Generator, error) {
	if params.Replicate == nil {
		return nil, fmt.Errorf("replicate client required")
	}
	if params.Storage == nil {
		return nil, fmt.Errorf("storage client required")
	}
	if params.Products == nil {
		return nil, fmt.Errorf("product repository required")
	}
	if params.Logger == nil {
		return nil, fmt.Errorf("logger required")
	}
	if params.Bucket == "" {
		return nil, fmt.Errorf("bucket required")
	}
	if params.PollInterval <= 0 {
		return nil, fmt.Errorf("poll interval must be positive")
	}
	if params.PollTimeout <= 0 {
		return nil, fmt.Errorf("poll timeout must be positive")
	}
	return &Generator{
		replicate:     params.Replicate,
		storage:       params.Storage,
		products:      params.Products,
		logg:          params.Logger,
		metrics:       params.Metrics,
		bucket:        params.Bucket,
		publicBaseURL: strings.TrimRight(params.PublicBaseURL, "/"),
		pollInterval:  params.PollInterval,
		pollTimeout:   params.PollTimeout,
	}, nil
}

// Generate produces an image for the product and stores its public URL on the
// product row. Returns the stored URL.
func (g *Generator) Generate(ctx context.Context, productID int64, prompt string) (string, error) {
	start := time.Now()
	url, err := g.generate(ctx, productID, prompt)
	g.metrics.ObserveDuration(jobName, time.Since(start))
	if err != nil {
		g.metrics.IncFailure(jobName)
		return "", err
	}
	g.metrics.IncSuccess(jobName)
	return url, nil
}

func (g *Generator) generate(ctx context.Context, productID int64, prompt string) (string, error) {
	if productID <= 0 {
		return "", fmt.Errorf("product id must be positive")
	}
	if strings.TrimSpace(prompt) == "" {
		return "", fmt.Errorf("prompt is required")
	}

	ctx = g.logg.WithField(ctx, "product_id", productID)
	g.logg.Info(ctx, "imagegen.prediction_starting")

	prediction, err := g.replicate.CreatePrediction(ctx, PredictionInput{
		Prompt:            prompt,
		NegativePrompt:    defaultNegativePrompt,
		Width:             1024,
		Height:            1024,
		NumOutputs:        1,
		Scheduler:         "K_EULER",
		NumInferenceSteps: 30,
		GuidanceScale:     7.5,
	})
	if err != nil {
		return "", fmt.Errorf("create prediction: %w", err)
	}

	ctx = g.logg.WithField(ctx, "prediction_id", prediction.ID)

	prediction, err = g.waitForPrediction(ctx, prediction)
	if err != nil {
		return "", err
	}
	if prediction.Status != StatusSucceeded {
		return "", fmt.Errorf("prediction %s ended %s: %s", prediction.ID, prediction.Status, prediction.Error)
	}
	if len(prediction.Output) == 0 {
		return "", fmt.Errorf("prediction %s produced no output", prediction.ID)
	}

	payload, err := g.replicate.DownloadOutput(ctx, prediction.Output[0])
	if err != nil {
		return "", fmt.Errorf("download output: %w", err)
	}

	objectKey := fmt.Sprintf("products/product-%d-%d.png", productID, time.Now().UnixMilli())
	if err := g.storage.UploadObject(ctx, g.bucket, objectKey, "image/png", payload); err != nil {
		return "", fmt.Errorf("upload image: %w", err)
	}

	imageURL := objectKey
	if g.publicBaseURL != "" {
		imageURL = g.publicBaseURL + "/" + objectKey
	}
	if err := g.products.UpdateImageURL(ctx, productID, imageURL); err != nil {
		return "", fmt.Errorf("update product image url: %w", err)
	}

	g.logg.Info(g.logg.WithField(ctx, "image_url", imageURL), "imagegen.product_updated")
	return imageURL, nil
}

// waitForPrediction polls on a fixed interval until the prediction reaches a
// terminal state or the timeout elapses.
func (g *Generator) waitForPrediction(ctx context.Context, prediction *Prediction) (*Prediction, error) {
	if prediction.IsTerminal() {
		return prediction, nil
	}

	deadline := time.NewTimer(g.pollTimeout)
	defer deadline.Stop()
	ticker := time.NewTicker(g.pollInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-deadline.C:
			return nil, fmt.Errorf("prediction %s timed out after %s", prediction.ID, g.pollTimeout)
		case <-ticker.C:
			refreshed, err := g.replicate.GetPrediction(ctx, prediction.URLs.Get)
			if err != nil {
				return nil, fmt.Errorf("poll prediction: %w", err)
			}
			g.logg.Debug(g.logg.WithField(ctx, "status", refreshed.Status), "imagegen.poll")
			if refreshed.IsTerminal() {
				return refreshed, nil
			}
			prediction = refreshed
		}
	}
}
