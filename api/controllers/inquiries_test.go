package controllers

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"

	inquirysvc "github.com/avilamfg/exhibit-backend/internal/inquiries"
	pkgerrors "github.com/avilamfg/exhibit-backend/pkg/errors"
	"github.com/avilamfg/exhibit-backend/pkg/logger"
)

type stubInquiryService struct {
	created     *inquirysvc.InquiryDTO
	createErr   error
	createInput inquirysvc.CreateInquiryInput
	listResult  *inquirysvc.InquiryListResult
	listErr     error
	got         *inquirysvc.InquiryDTO
	getErr      error
	statusID    int64
	statusValue string
	statusErr   error
	deletedID   int64
	deleteErr   error
}

func (s *stubInquiryService) CreateInquiry(ctx context.Context, input inquirysvc.CreateInquiryInput) (*inquirysvc.InquiryDTO, error) {
	s.createInput = input
	if s.createErr != nil {
		return nil, s.createErr
	}
	return s.created, nil
}

func (s *stubInquiryService) GetInquiry(ctx context.Context, id int64) (*inquirysvc.InquiryDTO, error) {
	if s.getErr != nil {
		return nil, s.getErr
	}
	return s.got, nil
}

func (s *stubInquiryService) ListInquiries(ctx context.Context, input inquirysvc.ListInquiriesInput) (*inquirysvc.InquiryListResult, error) {
	if s.listErr != nil {
		return nil, s.listErr
	}
	return s.listResult, nil
}

func (s *stubInquiryService) UpdateInquiryStatus(ctx context.Context, id int64, status string) error {
	s.statusID = id
	s.statusValue = status
	return s.statusErr
}

func (s *stubInquiryService) DeleteInquiry(ctx context.Context, id int64) error {
	s.deletedID = id
	return s.deleteErr
}

func testLogger() *logger.Logger {
	return logger.New(logger.Options{ServiceName: "controllers-test", Output: io.Discard})
}

func withURLParam(req *http.Request, key, value string) *http.Request {
	routeCtx := chi.NewRouteContext()
	routeCtx.URLParams.Add(key, value)
	return req.WithContext(context.WithValue(req.Context(), chi.RouteCtxKey, routeCtx))
}

func decodeEnvelope(t *testing.T, rec *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var envelope map[string]any
	if err := json.Unmarshal(rec.Body.Bytes(), &envelope); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	return envelope
}

func TestCreateInquiry(t *testing.T) {
	logg := testLogger()

	t.Run("success", func(t *testing.T) {
		stub := &stubInquiryService{created: &inquirysvc.InquiryDTO{ID: 42}}
		body := `{"name":"Maria","email":"maria@avilamfg.com","message":"Quote please"}`
		req := httptest.NewRequest(http.MethodPost, "/api/inquiries", strings.NewReader(body))
		rec := httptest.NewRecorder()

		CreateInquiry(stub, logg).ServeHTTP(rec, req)

		if rec.Code != http.StatusCreated {
			t.Fatalf("expected 201, got %d", rec.Code)
		}
		envelope := decodeEnvelope(t, rec)
		if envelope["success"] != true {
			t.Fatalf("expected success envelope, got %v", envelope)
		}
		if envelope["message"] != "Inquiry submitted successfully" {
			t.Fatalf("unexpected message %v", envelope["message"])
		}
		data := envelope["data"].(map[string]any)
		if data["id"] != float64(42) {
			t.Fatalf("expected id 42, got %v", data["id"])
		}
		if stub.createInput.Email != "maria@avilamfg.com" {
			t.Fatalf("payload not forwarded: %+v", stub.createInput)
		}
	})

	t.Run("validation details surface", func(t *testing.T) {
		stub := &stubInquiryService{
			createErr: pkgerrors.New(pkgerrors.CodeValidation, "name, email and message are required").
				WithDetails(map[string]bool{"name": true, "email": false, "message": false}),
		}
		req := httptest.NewRequest(http.MethodPost, "/api/inquiries", strings.NewReader(`{"name":"Maria"}`))
		rec := httptest.NewRecorder()

		CreateInquiry(stub, logg).ServeHTTP(rec, req)

		if rec.Code != http.StatusBadRequest {
			t.Fatalf("expected 400, got %d", rec.Code)
		}
		envelope := decodeEnvelope(t, rec)
		errBlock := envelope["error"].(map[string]any)
		if errBlock["code"] != "VALIDATION_ERROR" {
			t.Fatalf("unexpected code %v", errBlock["code"])
		}
		details := errBlock["details"].(map[string]any)
		if details["name"] != true || details["email"] != false {
			t.Fatalf("unexpected details %v", details)
		}
	})

	t.Run("malformed json", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodPost, "/api/inquiries", strings.NewReader(`{`))
		rec := httptest.NewRecorder()

		CreateInquiry(&stubInquiryService{}, logg).ServeHTTP(rec, req)

		if rec.Code != http.StatusBadRequest {
			t.Fatalf("expected 400 for malformed body, got %d", rec.Code)
		}
	})
}

func TestGetInquiry(t *testing.T) {
	logg := testLogger()

	t.Run("success", func(t *testing.T) {
		stub := &stubInquiryService{got: &inquirysvc.InquiryDTO{ID: 9, Name: "Maria"}}
		req := withURLParam(httptest.NewRequest(http.MethodGet, "/api/inquiries/9", nil), "inquiryId", "9")
		rec := httptest.NewRecorder()

		GetInquiry(stub, logg).ServeHTTP(rec, req)

		if rec.Code != http.StatusOK {
			t.Fatalf("expected 200, got %d", rec.Code)
		}
	})

	t.Run("not found", func(t *testing.T) {
		stub := &stubInquiryService{getErr: pkgerrors.New(pkgerrors.CodeNotFound, "inquiry not found")}
		req := withURLParam(httptest.NewRequest(http.MethodGet, "/api/inquiries/9", nil), "inquiryId", "9")
		rec := httptest.NewRecorder()

		GetInquiry(stub, logg).ServeHTTP(rec, req)

		if rec.Code != http.StatusNotFound {
			t.Fatalf("expected 404, got %d", rec.Code)
		}
	})

	t.Run("invalid id", func(t *testing.T) {
		req := withURLParam(httptest.NewRequest(http.MethodGet, "/api/inquiries/abc", nil), "inquiryId", "abc")
		rec := httptest.NewRecorder()

		GetInquiry(&stubInquiryService{}, logg).ServeHTTP(rec, req)

		if rec.Code != http.StatusBadRequest {
			t.Fatalf("expected 400 for invalid id, got %d", rec.Code)
		}
	})
}

func TestUpdateInquiryStatus(t *testing.T) {
	logg := testLogger()

	stub := &stubInquiryService{}
	body := `{"status":"completed"}`
	req := withURLParam(httptest.NewRequest(http.MethodPut, "/api/inquiries/5/status", strings.NewReader(body)), "inquiryId", "5")
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()

	UpdateInquiryStatus(stub, logg).ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}
	if stub.statusID != 5 || stub.statusValue != "completed" {
		t.Fatalf("unexpected service call: id=%d status=%q", stub.statusID, stub.statusValue)
	}
}

func TestDeleteInquiry(t *testing.T) {
	logg := testLogger()

	stub := &stubInquiryService{}
	req := withURLParam(httptest.NewRequest(http.MethodDelete, "/api/inquiries/77", nil), "inquiryId", "77")
	rec := httptest.NewRecorder()

	DeleteInquiry(stub, logg).ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	if stub.deletedID != 77 {
		t.Fatalf("expected delete for 77, got %d", stub.deletedID)
	}
}

func TestListInquiries(t *testing.T) {
	logg := testLogger()

	stub := &stubInquiryService{listResult: &inquirysvc.InquiryListResult{
		Inquiries:  []inquirysvc.InquiryDTO{{ID: 2}, {ID: 1}},
		NextCursor: "abc",
	}}
	req := httptest.NewRequest(http.MethodGet, "/api/inquiries?limit=2", nil)
	rec := httptest.NewRecorder()

	ListInquiries(stub, logg).ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	envelope := decodeEnvelope(t, rec)
	data := envelope["data"].(map[string]any)
	if data["next_cursor"] != "abc" {
		t.Fatalf("expected cursor in payload, got %v", data)
	}
}
