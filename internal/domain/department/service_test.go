package department

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"

	"github.com/opd/opd/internal/platform/apierrors"
)

type mockRepo struct {
	depts  map[uuid.UUID]*Department
	days   map[uuid.UUID][]string
	visits map[uuid.UUID]bool

	txDepth int
}

func newMockRepo() *mockRepo {
	return &mockRepo{
		depts:  make(map[uuid.UUID]*Department),
		days:   make(map[uuid.UUID][]string),
		visits: make(map[uuid.UUID]bool),
	}
}

func (m *mockRepo) Create(_ context.Context, d *Department) error {
	d.ID = uuid.New()
	cp := *d
	m.depts[d.ID] = &cp
	return nil
}

func (m *mockRepo) GetByID(_ context.Context, id uuid.UUID) (*Department, error) {
	d, ok := m.depts[id]
	if !ok {
		return nil, apierrors.NotFound("department")
	}
	cp := *d
	cp.Days = append([]string(nil), m.days[id]...)
	return &cp, nil
}

func (m *mockRepo) Update(_ context.Context, d *Department) error {
	if _, ok := m.depts[d.ID]; !ok {
		return apierrors.NotFound("department")
	}
	cp := *d
	m.depts[d.ID] = &cp
	return nil
}

func (m *mockRepo) Delete(_ context.Context, id uuid.UUID) error {
	if _, ok := m.depts[id]; !ok {
		return apierrors.NotFound("department")
	}
	delete(m.depts, id)
	delete(m.days, id)
	return nil
}

func (m *mockRepo) List(_ context.Context, _ string, _, _ int) ([]*Department, int, error) {
	var out []*Department
	for _, d := range m.depts {
		out = append(out, d)
	}
	return out, len(out), nil
}

func (m *mockRepo) Days(_ context.Context, id uuid.UUID) ([]string, error) {
	return m.days[id], nil
}

func (m *mockRepo) ReplaceDays(_ context.Context, id uuid.UUID, days []string) error {
	m.days[id] = append([]string(nil), days...)
	return nil
}

func (m *mockRepo) AllDays(_ context.Context) ([]string, error) {
	seen := map[string]bool{}
	var out []string
	for _, days := range m.days {
		for _, d := range days {
			if !seen[d] {
				seen[d] = true
				out = append(out, d)
			}
		}
	}
	return out, nil
}

func (m *mockRepo) HasVisits(_ context.Context, id uuid.UUID) (bool, error) {
	return m.visits[id], nil
}

func passthroughAtomic(m *mockRepo) func(context.Context, func(context.Context) error) error {
	return func(ctx context.Context, fn func(context.Context) error) error {
		m.txDepth++
		defer func() { m.txDepth-- }()
		return fn(ctx)
	}
}

func newTestService(m *mockRepo) *Service {
	return NewService(m, passthroughAtomic(m))
}

func TestCreateDepartment(t *testing.T) {
	m := newMockRepo()
	svc := newTestService(m)

	d := &Department{Name: "Cardiology", MaxPatients: 30, Days: []string{"Wed", "Mon", "Mon"}}
	if err := svc.Create(context.Background(), d); err != nil {
		t.Fatalf("create: %v", err)
	}
	if d.ID == uuid.Nil {
		t.Fatal("expected id to be assigned")
	}
	// days deduplicated and put in week order
	got, _ := m.Days(context.Background(), d.ID)
	if len(got) != 2 || got[0] != "Mon" || got[1] != "Wed" {
		t.Fatalf("unexpected days: %v", got)
	}
}

func TestCreateDepartmentValidation(t *testing.T) {
	svc := newTestService(newMockRepo())
	cases := []struct {
		name string
		dept Department
	}{
		{"missing name", Department{MaxPatients: 10, Days: []string{"Mon"}}},
		{"zero capacity", Department{Name: "ENT", Days: []string{"Mon"}}},
		{"negative capacity", Department{Name: "ENT", MaxPatients: -1, Days: []string{"Mon"}}},
		{"no days", Department{Name: "ENT", MaxPatients: 10}},
		{"unknown day", Department{Name: "ENT", MaxPatients: 10, Days: []string{"Funday"}}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			err := svc.Create(context.Background(), &tc.dept)
			if !apierrors.IsValidation(err) {
				t.Fatalf("expected validation error, got %v", err)
			}
		})
	}
}

func TestUpdateDepartmentReplacesDays(t *testing.T) {
	m := newMockRepo()
	svc := newTestService(m)

	d := &Department{Name: "Ortho", MaxPatients: 20, Days: []string{"Mon", "Tue"}}
	if err := svc.Create(context.Background(), d); err != nil {
		t.Fatalf("create: %v", err)
	}

	d.Days = []string{"Tue", "Fri"}
	d.MaxPatients = 25
	if err := svc.Update(context.Background(), d); err != nil {
		t.Fatalf("update: %v", err)
	}

	got, err := svc.Get(context.Background(), d.ID)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if got.MaxPatients != 25 {
		t.Fatalf("max_patients = %d, want 25", got.MaxPatients)
	}
	if len(got.Days) != 2 || got.Days[0] != "Tue" || got.Days[1] != "Fri" {
		t.Fatalf("unexpected days after update: %v", got.Days)
	}
}

func TestUpdateMissingDepartment(t *testing.T) {
	svc := newTestService(newMockRepo())
	d := &Department{ID: uuid.New(), Name: "ENT", MaxPatients: 5, Days: []string{"Mon"}}
	if err := svc.Update(context.Background(), d); !errors.Is(err, apierrors.ErrNotFound) {
		t.Fatalf("expected not found, got %v", err)
	}
}

func TestDeleteDepartmentWithVisits(t *testing.T) {
	m := newMockRepo()
	svc := newTestService(m)

	d := &Department{Name: "Medicine", MaxPatients: 40, Days: []string{"Sun"}}
	if err := svc.Create(context.Background(), d); err != nil {
		t.Fatalf("create: %v", err)
	}
	m.visits[d.ID] = true

	if err := svc.Delete(context.Background(), d.ID); !errors.Is(err, apierrors.ErrConflict) {
		t.Fatalf("expected conflict, got %v", err)
	}
	if _, err := svc.Get(context.Background(), d.ID); err != nil {
		t.Fatalf("department should survive blocked delete: %v", err)
	}

	m.visits[d.ID] = false
	if err := svc.Delete(context.Background(), d.ID); err != nil {
		t.Fatalf("delete: %v", err)
	}
}

func TestAllowedWeekdayIndices(t *testing.T) {
	m := newMockRepo()
	svc := newTestService(m)

	d := &Department{Name: "Surgery", MaxPatients: 15, Days: []string{"Fri", "Mon", "Wed"}}
	if err := svc.Create(context.Background(), d); err != nil {
		t.Fatalf("create: %v", err)
	}

	indices, err := svc.AllowedWeekdayIndices(context.Background(), d.ID)
	if err != nil {
		t.Fatalf("indices: %v", err)
	}
	want := []int{1, 3, 5}
	if len(indices) != len(want) {
		t.Fatalf("indices = %v, want %v", indices, want)
	}
	for i := range want {
		if indices[i] != want[i] {
			t.Fatalf("indices = %v, want %v", indices, want)
		}
	}

	if _, err := svc.AllowedWeekdayIndices(context.Background(), uuid.New()); !errors.Is(err, apierrors.ErrNotFound) {
		t.Fatalf("expected not found for unknown department, got %v", err)
	}
}

func TestAcceptsVisitsOn(t *testing.T) {
	m := newMockRepo()
	svc := newTestService(m)

	d := &Department{Name: "Derma", MaxPatients: 10, Days: []string{"Tue"}}
	if err := svc.Create(context.Background(), d); err != nil {
		t.Fatalf("create: %v", err)
	}

	ok, err := svc.AcceptsVisitsOn(context.Background(), d.ID, 2)
	if err != nil || !ok {
		t.Fatalf("Tuesday should be allowed: ok=%v err=%v", ok, err)
	}
	ok, err = svc.AcceptsVisitsOn(context.Background(), d.ID, 0)
	if err != nil || ok {
		t.Fatalf("Sunday should be rejected: ok=%v err=%v", ok, err)
	}
}

func TestAllVisitDays(t *testing.T) {
	m := newMockRepo()
	svc := newTestService(m)

	a := &Department{Name: "A", MaxPatients: 5, Days: []string{"Wed", "Mon"}}
	b := &Department{Name: "B", MaxPatients: 5, Days: []string{"Mon", "Sat"}}
	for _, d := range []*Department{a, b} {
		if err := svc.Create(context.Background(), d); err != nil {
			t.Fatalf("create: %v", err)
		}
	}

	days, err := svc.AllVisitDays(context.Background())
	if err != nil {
		t.Fatalf("all days: %v", err)
	}
	want := []string{"Mon", "Wed", "Sat"}
	if len(days) != len(want) {
		t.Fatalf("days = %v, want %v", days, want)
	}
	for i := range want {
		if days[i] != want[i] {
			t.Fatalf("days = %v, want %v", days, want)
		}
	}
}
