package booking

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/opd/opd/internal/domain/patient"
	"github.com/opd/opd/internal/domain/visit"
	"github.com/opd/opd/internal/platform/apierrors"
	"github.com/opd/opd/internal/platform/auth"
)

type pairKey struct{ patientID, visitID uuid.UUID }

type mockRepo struct {
	records map[pairKey]*Record
	order   []pairKey
}

func newMockRepo() *mockRepo {
	return &mockRepo{records: make(map[pairKey]*Record)}
}

func (m *mockRepo) Attach(_ context.Context, rec *Record) error {
	key := pairKey{rec.PatientID, rec.VisitID}
	if _, ok := m.records[key]; ok {
		return ErrAlreadyBooked
	}
	rec.ID = uuid.New()
	rec.CreatedAt = time.Now()
	cp := *rec
	m.records[key] = &cp
	m.order = append(m.order, key)
	return nil
}

func (m *mockRepo) ListForVisit(_ context.Context, visitID uuid.UUID) ([]*PatientBooking, error) {
	var out []*PatientBooking
	for i := len(m.order) - 1; i >= 0; i-- {
		if m.order[i].visitID == visitID {
			out = append(out, &PatientBooking{Booking: *m.records[m.order[i]]})
		}
	}
	return out, nil
}

type mockVisits struct{ visits map[uuid.UUID]*visit.Visit }

func (m *mockVisits) Get(_ context.Context, id uuid.UUID) (*visit.Visit, error) {
	v, ok := m.visits[id]
	if !ok {
		return nil, apierrors.NotFound("visit")
	}
	return v, nil
}

type mockPatients struct{ patients map[uuid.UUID]*patient.Patient }

func (m *mockPatients) Get(_ context.Context, id uuid.UUID) (*patient.Patient, error) {
	p, ok := m.patients[id]
	if !ok {
		return nil, apierrors.NotFound("patient")
	}
	return p, nil
}

type fixture struct {
	svc       *Service
	repo      *mockRepo
	visits    *mockVisits
	visitID   uuid.UUID
	patientID uuid.UUID
}

func newFixture() *fixture {
	visitID, patientID := uuid.New(), uuid.New()
	visits := &mockVisits{visits: map[uuid.UUID]*visit.Visit{
		visitID: {
			ID:     visitID,
			Date:   time.Date(2025, 6, 4, 0, 0, 0, 0, time.UTC),
			Status: visit.StatusOpen,
		},
	}}
	patients := &mockPatients{patients: map[uuid.UUID]*patient.Patient{
		patientID: {ID: patientID, HospitalID: "WS100", Name: "Asha Rao", Phone: "9000000001"},
	}}
	repo := newMockRepo()
	return &fixture{
		svc:       NewService(repo, visits, patients),
		repo:      repo,
		visits:    visits,
		visitID:   visitID,
		patientID: patientID,
	}
}

func staffCtx(userID string) context.Context {
	return context.WithValue(context.Background(), auth.UserIDKey, userID)
}

func TestAttachPatient(t *testing.T) {
	f := newFixture()

	rec, err := f.svc.Attach(staffCtx("staff-7"), f.visitID, f.patientID)
	if err != nil {
		t.Fatalf("attach: %v", err)
	}
	if rec.Status != StatusPending {
		t.Fatalf("status = %s, want pending", rec.Status)
	}
	if rec.CreatedBy == nil || *rec.CreatedBy != "staff-7" {
		t.Fatalf("created_by = %v, want staff-7", rec.CreatedBy)
	}
	if rec.Date == nil || !rec.Date.Equal(time.Date(2025, 6, 4, 0, 0, 0, 0, time.UTC)) {
		t.Fatalf("date snapshot = %v", rec.Date)
	}
}

func TestAttachPatientTwice(t *testing.T) {
	f := newFixture()

	if _, err := f.svc.Attach(staffCtx("staff-7"), f.visitID, f.patientID); err != nil {
		t.Fatalf("first attach: %v", err)
	}
	_, err := f.svc.Attach(staffCtx("staff-7"), f.visitID, f.patientID)
	if !errors.Is(err, ErrAlreadyBooked) {
		t.Fatalf("expected ErrAlreadyBooked, got %v", err)
	}
	// exactly one record survives
	got, _ := f.svc.ListPatientsForVisit(staffCtx("staff-7"), f.visitID)
	if len(got) != 1 {
		t.Fatalf("records = %d, want 1", len(got))
	}
}

func TestAttachUnknownEnds(t *testing.T) {
	f := newFixture()

	if _, err := f.svc.Attach(staffCtx("x"), uuid.New(), f.patientID); !errors.Is(err, apierrors.ErrNotFound) {
		t.Fatalf("unknown visit: %v", err)
	}
	if _, err := f.svc.Attach(staffCtx("x"), f.visitID, uuid.New()); !errors.Is(err, apierrors.ErrNotFound) {
		t.Fatalf("unknown patient: %v", err)
	}
}

func TestAttachWithoutCaller(t *testing.T) {
	f := newFixture()

	rec, err := f.svc.Attach(context.Background(), f.visitID, f.patientID)
	if err != nil {
		t.Fatalf("attach: %v", err)
	}
	if rec.CreatedBy != nil {
		t.Fatalf("created_by should be nil without an authenticated caller, got %v", *rec.CreatedBy)
	}
}

func TestBookingStatusIndependentOfVisit(t *testing.T) {
	f := newFixture()

	if _, err := f.svc.Attach(staffCtx("x"), f.visitID, f.patientID); err != nil {
		t.Fatalf("attach: %v", err)
	}
	// closing the visit does not touch any booking record
	f.visits.visits[f.visitID].Status = visit.StatusClosed

	got, err := f.svc.ListPatientsForVisit(staffCtx("x"), f.visitID)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(got) != 1 || got[0].Booking.Status != StatusPending {
		t.Fatalf("booking status changed with visit status: %+v", got)
	}
}

func TestListPatientsUnknownVisit(t *testing.T) {
	f := newFixture()
	if _, err := f.svc.ListPatientsForVisit(context.Background(), uuid.New()); !errors.Is(err, apierrors.ErrNotFound) {
		t.Fatalf("expected not found, got %v", err)
	}
}
