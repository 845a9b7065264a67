package media

import (
	"context"
	"fmt"
	"path"
	"strings"
	"time"
	"unicode"

	"github.com/avilamfg/exhibit-backend/pkg/db/models"
	"github.com/avilamfg/exhibit-backend/pkg/enums"
	pkgerrors "github.com/avilamfg/exhibit-backend/pkg/errors"
	"github.com/google/uuid"
)

type mediaRepository interface {
	Create(ctx context.Context, media *models.Media) (*models.Media, error)
	Delete(ctx context.Context, id uuid.UUID) error
}

type gcsClient interface {
	SignedURL(bucket, object, contentType string, expires time.Duration) (string, error)
}

// Service exposes media-presign semantics for the admin dashboard.
type Service interface {
	PresignUpload(ctx context.Context, adminID uuid.UUID, input PresignInput) (*PresignOutput, error)
}

type service struct {
	repo           mediaRepository
	gcs            gcsClient
	bucket         string
	uploadTTL      time.Duration
	publicBaseURL  string
	maxUploadBytes int64
}

// NewService constructs a media service backed by the provided repository and GCS signer.
func NewService(repo mediaRepository, gcsClient gcsClient, bucket, publicBaseURL string, uploadTTL time.Duration, maxUploadMB int) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("media repository required")
	}
	if gcsClient == nil {
		return nil, fmt.Errorf("gcs client required")
	}
	if bucket == "" {
		return nil, fmt.Errorf("gcs bucket required")
	}
	if uploadTTL <= 0 {
		return nil, fmt.Errorf("upload ttl must be positive")
	}
	if maxUploadMB <= 0 {
		return nil, fmt.Errorf("max upload size must be positive")
	}
	return &service{
		repo:           repo,
		gcs:            gcsClient,
		bucket:         bucket,
		uploadTTL:      uploadTTL,
		publicBaseURL:  strings.TrimRight(publicBaseURL, "/"),
		maxUploadBytes: int64(maxUploadMB) * 1024 * 1024,
	}, nil
}

// PresignInput models the payload required to request an upload URL.
type PresignInput struct {
	Kind      enums.MediaKind
	MimeType  string
	FileName  string
	SizeBytes int64
}

// PresignOutput contains the data returned after creating a media record. The
// public URL is where the object will be served from once the client finishes
// the PUT.
type PresignOutput struct {
	MediaID      uuid.UUID `json:"media_id"`
	ObjectKey    string    `json:"object_key"`
	SignedPUTURL string    `json:"signed_put_url"`
	ContentType  string    `json:"content_type"`
	PublicURL    string    `json:"public_url,omitempty"`
	ExpiresAt    time.Time `json:"expires_at"`
}

var allowedImageMimes = []string{"image/png", "image/jpeg", "image/webp", "image/gif"}

func (s *service) PresignUpload(ctx context.Context, adminID uuid.UUID, input PresignInput) (*PresignOutput, error) {
	if adminID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "admin identity missing")
	}

	if input.Kind == "" || !input.Kind.IsValid() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "invalid media kind")
	}

	fileName := strings.TrimSpace(input.FileName)
	if fileName == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "file_name is required")
	}

	if input.SizeBytes <= 0 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "size_bytes must be positive")
	}
	if input.SizeBytes > s.maxUploadBytes {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, fmt.Sprintf("size_bytes must be at most %d bytes", s.maxUploadBytes))
	}

	mimeType := strings.TrimSpace(input.MimeType)
	if mimeType == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "mime_type is required")
	}
	if !isAllowedMime(mimeType) {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "mime_type not allowed")
	}

	mediaID := uuid.New()
	objectKey := buildObjectKey(input.Kind, mediaID, fileName)
	publicURL := s.publicURLFor(objectKey)

	mediaRow := &models.Media{
		ID:        mediaID,
		AdminID:   &adminID,
		Kind:      input.Kind,
		ObjectKey: objectKey,
		FileName:  fileName,
		MimeType:  mimeType,
		SizeBytes: input.SizeBytes,
	}
	if publicURL != "" {
		mediaRow.URL = &publicURL
	}

	if _, err := s.repo.Create(ctx, mediaRow); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "persist media row")
	}

	expiresAt := time.Now().Add(s.uploadTTL)
	signedURL, err := s.gcs.SignedURL(s.bucket, objectKey, mimeType, s.uploadTTL)
	if err != nil {
		_ = s.repo.Delete(ctx, mediaID)
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "sign upload url")
	}

	return &PresignOutput{
		MediaID:      mediaID,
		ObjectKey:    objectKey,
		SignedPUTURL: signedURL,
		ContentType:  mimeType,
		PublicURL:    publicURL,
		ExpiresAt:    expiresAt,
	}, nil
}

func (s *service) publicURLFor(objectKey string) string {
	if s.publicBaseURL == "" {
		return ""
	}
	return s.publicBaseURL + "/" + objectKey
}

func isAllowedMime(mimeType string) bool {
	for _, candidate := range allowedImageMimes {
		if strings.EqualFold(candidate, mimeType) {
			return true
		}
	}
	return false
}

func buildObjectKey(kind enums.MediaKind, id uuid.UUID, fileName string) string {
	cleanName := sanitizeFileName(fileName)
	if cleanName == "" {
		cleanName = id.String()
	}
	return fmt.Sprintf("media/%s/%s/%s", kind, id.String(), cleanName)
}

func sanitizeFileName(name string) string {
	if name == "" {
		return ""
	}
	clean := path.Base(strings.TrimSpace(name))
	if clean == "" {
		return ""
	}
	var b strings.Builder
	b.Grow(len(clean))
	for _, r := range clean {
		switch {
		case r == '/' || r == '\\' || unicode.IsControl(r):
			continue
		case unicode.IsSpace(r):
			b.WriteRune('-')
		default:
			b.WriteRune(r)
		}
	}
	return strings.Trim(b.String(), "-_.")
}
