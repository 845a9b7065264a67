package controllers

import (
	"encoding/json"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/avilamfg/exhibit-backend/api/responses"
	"github.com/avilamfg/exhibit-backend/api/validators"
	inquirysvc "github.com/avilamfg/exhibit-backend/internal/inquiries"
	pkgerrors "github.com/avilamfg/exhibit-backend/pkg/errors"
	"github.com/avilamfg/exhibit-backend/pkg/logger"
	"github.com/avilamfg/exhibit-backend/pkg/pagination"
)

// CreateInquiry handles the public inquiry intake. Field presence checks and
// the email shape live in the service so the per-field details envelope is
// produced there.
func CreateInquiry(svc inquirysvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "inquiry service unavailable"))
			return
		}

		var payload inquirysvc.CreateInquiryInput
		if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid JSON body"))
			return
		}

		created, err := svc.CreateInquiry(r.Context(), payload)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccessStatus(w, http.StatusCreated, "Inquiry submitted successfully", map[string]any{
			"id": created.ID,
		})
	}
}

// ListInquiries returns one cursor page of inquiries for the admin dashboard.
func ListInquiries(svc inquirysvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "inquiry service unavailable"))
			return
		}

		limit, err := validators.ParseQueryInt(r, "limit", 0, 0, pagination.MaxLimit)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		input := inquirysvc.ListInquiriesInput{
			Pagination: pagination.Params{
				Limit:  limit,
				Cursor: strings.TrimSpace(r.URL.Query().Get("cursor")),
			},
		}
		if status := strings.TrimSpace(r.URL.Query().Get("status")); status != "" {
			input.Status = &status
		}

		result, err := svc.ListInquiries(r.Context(), input)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, result)
	}
}

// GetInquiry returns a single inquiry.
func GetInquiry(svc inquirysvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "inquiry service unavailable"))
			return
		}

		id, err := validators.ParsePathID(chi.URLParam(r, "inquiryId"))
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		dto, err := svc.GetInquiry(r.Context(), id)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, dto)
	}
}

type updateInquiryStatusRequest struct {
	Status string `json:"status" validate:"required"`
}

// UpdateInquiryStatus moves the inquiry through the moderation flow.
func UpdateInquiryStatus(svc inquirysvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "inquiry service unavailable"))
			return
		}

		id, err := validators.ParsePathID(chi.URLParam(r, "inquiryId"))
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var payload updateInquiryStatusRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		if err := svc.UpdateInquiryStatus(r.Context(), id, payload.Status); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, map[string]any{"id": id, "status": payload.Status})
	}
}

// DeleteInquiry removes the inquiry. The router guards this with the
// super-admin role.
func DeleteInquiry(svc inquirysvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "inquiry service unavailable"))
			return
		}

		id, err := validators.ParsePathID(chi.URLParam(r, "inquiryId"))
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		if err := svc.DeleteInquiry(r.Context(), id); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, map[string]any{"id": id})
	}
}
