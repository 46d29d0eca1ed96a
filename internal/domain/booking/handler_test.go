package booking

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/opd/opd/internal/platform/auth"
)

func newBookingServer(t *testing.T) (*echo.Echo, *fixture) {
	t.Helper()
	f := newFixture()
	h := NewHandler(f.svc, zerolog.Nop())
	e := echo.New()
	api := e.Group("/api/v1", auth.DevAuthMiddleware())
	h.RegisterRoutes(api)
	return e, f
}

func do(e *echo.Echo, method, path, body string) *httptest.ResponseRecorder {
	var req *http.Request
	if body == "" {
		req = httptest.NewRequest(method, path, nil)
	} else {
		req = httptest.NewRequest(method, path, strings.NewReader(body))
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	}
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)
	return rec
}

func TestAttachPatientHandler(t *testing.T) {
	e, f := newBookingServer(t)
	path := "/api/v1/visits/" + f.visitID.String() + "/patients"
	body := `{"patient_id":"` + f.patientID.String() + `"}`

	rec := do(e, http.MethodPost, path, body)
	if rec.Code != http.StatusCreated {
		t.Fatalf("status = %d, body = %s", rec.Code, rec.Body.String())
	}
	var got Record
	if err := json.Unmarshal(rec.Body.Bytes(), &got); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if got.Status != StatusPending {
		t.Fatalf("status = %s, want pending", got.Status)
	}

	// second attach of the same pair
	rec = do(e, http.MethodPost, path, body)
	if rec.Code != http.StatusConflict {
		t.Fatalf("repeat status = %d, want 409", rec.Code)
	}

	rec = do(e, http.MethodPost, path, `{}`)
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("missing patient_id status = %d, want 400", rec.Code)
	}
}

func TestListVisitPatientsHandler(t *testing.T) {
	e, f := newBookingServer(t)
	path := "/api/v1/visits/" + f.visitID.String() + "/patients"

	rec := do(e, http.MethodGet, path, "")
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
	var resp struct {
		Patients []PatientBooking `json:"patients"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(resp.Patients) != 0 {
		t.Fatalf("patients = %d, want 0", len(resp.Patients))
	}

	do(e, http.MethodPost, path, `{"patient_id":"`+f.patientID.String()+`"}`)
	rec = do(e, http.MethodGet, path, "")
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(resp.Patients) != 1 {
		t.Fatalf("patients = %d, want 1", len(resp.Patients))
	}

	rec = do(e, http.MethodGet, "/api/v1/visits/"+uuid.NewString()+"/patients", "")
	if rec.Code != http.StatusNotFound {
		t.Fatalf("unknown visit status = %d, want 404", rec.Code)
	}
}
