package media

import (
	"context"
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/avilamfg/exhibit-backend/pkg/db/models"
	"github.com/avilamfg/exhibit-backend/pkg/enums"
	pkgerrors "github.com/avilamfg/exhibit-backend/pkg/errors"
	"github.com/google/uuid"
)

type stubMediaRepo struct {
	created   *models.Media
	deleteID  uuid.UUID
	createErr error
	deleteErr error
}

func (s *stubMediaRepo) Create(ctx context.Context, media *models.Media) (*models.Media, error) {
	if s.createErr != nil {
		return nil, s.createErr
	}
	s.created = media
	return media, nil
}

func (s *stubMediaRepo) Delete(ctx context.Context, id uuid.UUID) error {
	s.deleteID = id
	return s.deleteErr
}

type stubGCS struct {
	url          string
	err          error
	lastBucket   string
	lastObject   string
	lastMimeType string
}

func (s *stubGCS) SignedURL(bucket, object, contentType string, expires time.Duration) (string, error) {
	s.lastBucket = bucket
	s.lastObject = object
	s.lastMimeType = contentType
	if s.err != nil {
		return "", s.err
	}
	return s.url, nil
}

func newTestService(t *testing.T, repo *stubMediaRepo, gcs *stubGCS) Service {
	t.Helper()
	svc, err := NewService(repo, gcs, "exhibit-media", "https://cdn.avilamfg.com", time.Minute, 20)
	if err != nil {
		t.Fatalf("NewService: %v", err)
	}
	return svc
}

func TestPresignUploadSuccess(t *testing.T) {
	t.Parallel()

	repo := &stubMediaRepo{}
	gcs := &stubGCS{url: "https://signed.example"}
	svc := newTestService(t, repo, gcs)

	adminID := uuid.New()
	out, err := svc.PresignUpload(context.Background(), adminID, PresignInput{
		Kind:      enums.MediaKindProductImage,
		MimeType:  "image/png",
		FileName:  "bracket photo.png",
		SizeBytes: 1024,
	})
	if err != nil {
		t.Fatalf("PresignUpload: %v", err)
	}
	if out.SignedPUTURL != "https://signed.example" {
		t.Fatalf("unexpected signed url %q", out.SignedPUTURL)
	}
	if gcs.lastBucket != "exhibit-media" || gcs.lastMimeType != "image/png" {
		t.Fatalf("unexpected signer call: %s %s", gcs.lastBucket, gcs.lastMimeType)
	}
	if !strings.HasPrefix(out.ObjectKey, "media/product_image/") {
		t.Fatalf("unexpected object key %q", out.ObjectKey)
	}
	if strings.Contains(out.ObjectKey, " ") {
		t.Fatalf("object key should not contain spaces: %q", out.ObjectKey)
	}
	if out.PublicURL != "https://cdn.avilamfg.com/"+out.ObjectKey {
		t.Fatalf("unexpected public url %q", out.PublicURL)
	}
	if repo.created == nil || repo.created.AdminID == nil || *repo.created.AdminID != adminID {
		t.Fatal("expected media row tied to the admin")
	}
}

func TestPresignUploadValidation(t *testing.T) {
	t.Parallel()

	svc := newTestService(t, &stubMediaRepo{}, &stubGCS{url: "https://signed.example"})
	adminID := uuid.New()

	cases := []struct {
		name  string
		input PresignInput
	}{
		{"bad kind", PresignInput{Kind: "banner", MimeType: "image/png", FileName: "a.png", SizeBytes: 10}},
		{"missing file name", PresignInput{Kind: enums.MediaKindSiteAsset, MimeType: "image/png", SizeBytes: 10}},
		{"zero size", PresignInput{Kind: enums.MediaKindSiteAsset, MimeType: "image/png", FileName: "a.png"}},
		{"oversize", PresignInput{Kind: enums.MediaKindSiteAsset, MimeType: "image/png", FileName: "a.png", SizeBytes: 21 * 1024 * 1024}},
		{"bad mime", PresignInput{Kind: enums.MediaKindSiteAsset, MimeType: "application/zip", FileName: "a.zip", SizeBytes: 10}},
	}
	for _, tc := range cases {
		_, err := svc.PresignUpload(context.Background(), adminID, tc.input)
		typed := pkgerrors.As(err)
		if typed == nil || typed.Code() != pkgerrors.CodeValidation {
			t.Fatalf("%s: expected validation error, got %v", tc.name, err)
		}
	}
}

func TestPresignUploadSignFailureRollsBack(t *testing.T) {
	t.Parallel()

	repo := &stubMediaRepo{}
	gcs := &stubGCS{err: fmt.Errorf("signer offline")}
	svc := newTestService(t, repo, gcs)

	_, err := svc.PresignUpload(context.Background(), uuid.New(), PresignInput{
		Kind:      enums.MediaKindProductImage,
		MimeType:  "image/jpeg",
		FileName:  "a.jpg",
		SizeBytes: 10,
	})
	typed := pkgerrors.As(err)
	if typed == nil || typed.Code() != pkgerrors.CodeDependency {
		t.Fatalf("expected dependency error, got %v", err)
	}
	if repo.created == nil || repo.deleteID != repo.created.ID {
		t.Fatal("expected created media row to be rolled back")
	}
}
