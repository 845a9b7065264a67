package controllers

import (
	"net/http"

	"github.com/google/uuid"

	"github.com/avilamfg/exhibit-backend/api/middleware"
	"github.com/avilamfg/exhibit-backend/api/responses"
	"github.com/avilamfg/exhibit-backend/api/validators"
	mediasvc "github.com/avilamfg/exhibit-backend/internal/media"
	"github.com/avilamfg/exhibit-backend/pkg/enums"
	pkgerrors "github.com/avilamfg/exhibit-backend/pkg/errors"
	"github.com/avilamfg/exhibit-backend/pkg/logger"
)

type presignUploadRequest struct {
	Kind      string `json:"kind" validate:"required"`
	MimeType  string `json:"mime_type" validate:"required"`
	FileName  string `json:"file_name" validate:"required"`
	SizeBytes int64  `json:"size_bytes" validate:"required,min=1"`
}

// PresignUpload issues a signed PUT URL for an admin image upload.
func PresignUpload(svc mediasvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "media service unavailable"))
			return
		}

		adminID, err := uuid.Parse(middleware.AdminIDFromContext(r.Context()))
		if err != nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeUnauthorized, "admin context missing"))
			return
		}

		var payload presignUploadRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		kind, err := enums.ParseMediaKind(payload.Kind)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeValidation, "invalid media kind"))
			return
		}

		out, err := svc.PresignUpload(r.Context(), adminID, mediasvc.PresignInput{
			Kind:      kind,
			MimeType:  payload.MimeType,
			FileName:  payload.FileName,
			SizeBytes: payload.SizeBytes,
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, out)
	}
}
