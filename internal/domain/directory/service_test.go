package directory

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
)

// -- Mock Repositories --

type mockDoctorRepo struct {
	doctors map[uuid.UUID]*Doctor
	order   []uuid.UUID
}

func newMockDoctorRepo() *mockDoctorRepo {
	return &mockDoctorRepo{doctors: make(map[uuid.UUID]*Doctor)}
}

func (m *mockDoctorRepo) Create(_ context.Context, d *Doctor) error {
	d.ID = uuid.New()
	d.CreatedAt = time.Now()
	m.doctors[d.ID] = d
	m.order = append(m.order, d.ID)
	return nil
}

func (m *mockDoctorRepo) GetByID(_ context.Context, id uuid.UUID) (*Doctor, error) {
	d, ok := m.doctors[id]
	if !ok {
		return nil, ErrDoctorNotFound
	}
	return d, nil
}

func (m *mockDoctorRepo) List(_ context.Context) ([]*Doctor, error) {
	var result []*Doctor
	for _, id := range m.order {
		if d, ok := m.doctors[id]; ok {
			result = append(result, d)
		}
	}
	return result, nil
}

func (m *mockDoctorRepo) Count(_ context.Context) (int, error) {
	return len(m.doctors), nil
}

func (m *mockDoctorRepo) Delete(_ context.Context, id uuid.UUID) error {
	if _, ok := m.doctors[id]; !ok {
		return ErrDoctorNotFound
	}
	delete(m.doctors, id)
	return nil
}

type mockPatientRepo struct {
	patients map[uuid.UUID]*Patient
	order    []uuid.UUID
}

func newMockPatientRepo() *mockPatientRepo {
	return &mockPatientRepo{patients: make(map[uuid.UUID]*Patient)}
}

func (m *mockPatientRepo) Create(_ context.Context, p *Patient) error {
	p.ID = uuid.New()
	p.CreatedAt = time.Now()
	m.patients[p.ID] = p
	m.order = append(m.order, p.ID)
	return nil
}

func (m *mockPatientRepo) GetByID(_ context.Context, id uuid.UUID) (*Patient, error) {
	p, ok := m.patients[id]
	if !ok {
		return nil, ErrPatientNotFound
	}
	return p, nil
}

func (m *mockPatientRepo) GetByEmail(_ context.Context, email string) (*Patient, error) {
	for _, id := range m.order {
		if p, ok := m.patients[id]; ok && p.Email == email {
			return p, nil
		}
	}
	return nil, ErrPatientNotFound
}

func (m *mockPatientRepo) GetOrCreate(ctx context.Context, key PatientKey) (*Patient, bool, error) {
	for _, id := range m.order {
		p, ok := m.patients[id]
		if !ok {
			continue
		}
		switch key.Kind {
		case KeyExplicitName:
			if strings.EqualFold(p.FirstName, key.FirstName) {
				return p, false, nil
			}
		case KeyIdentityAccount:
			if p.UserID != nil && *p.UserID == key.UserID {
				return p, false, nil
			}
		case KeyAnonymous:
			if p.Email == AnonymousEmail {
				return p, false, nil
			}
		}
	}
	p := key.NewPatient()
	if err := m.Create(ctx, p); err != nil {
		return nil, false, err
	}
	return p, true, nil
}

func newTestService() (*Service, *mockDoctorRepo, *mockPatientRepo) {
	doctors := newMockDoctorRepo()
	patients := newMockPatientRepo()
	return NewService(doctors, patients), doctors, patients
}

// -- Doctors --

func TestCreateDoctor(t *testing.T) {
	svc, _, _ := newTestService()
	d := &Doctor{Name: "Dr. Lee", Specialization: "Cardiology"}
	if err := svc.CreateDoctor(context.Background(), d); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if d.ID == uuid.Nil {
		t.Error("expected doctor id to be assigned")
	}
}

func TestCreateDoctor_NameRequired(t *testing.T) {
	svc, _, _ := newTestService()
	err := svc.CreateDoctor(context.Background(), &Doctor{Specialization: "Cardiology"})
	if err == nil {
		t.Error("expected error for missing name")
	}
}

func TestCreateDoctor_SpecializationRequired(t *testing.T) {
	svc, _, _ := newTestService()
	err := svc.CreateDoctor(context.Background(), &Doctor{Name: "Dr. Lee"})
	if err == nil {
		t.Error("expected error for missing specialization")
	}
}

func TestCreateDoctor_NoDedup(t *testing.T) {
	svc, _, _ := newTestService()
	a := &Doctor{Name: "Dr. Lee", Specialization: "Cardiology"}
	b := &Doctor{Name: "Dr. Lee", Specialization: "Cardiology"}
	svc.CreateDoctor(context.Background(), a)
	svc.CreateDoctor(context.Background(), b)
	if a.ID == b.ID {
		t.Error("expected two distinct rows for same name")
	}
	doctors, _ := svc.ListDoctors(context.Background())
	if len(doctors) != 2 {
		t.Errorf("expected 2 doctors, got %d", len(doctors))
	}
}

func TestListDoctors_StorageOrder(t *testing.T) {
	svc, _, _ := newTestService()
	names := []string{"Dr. A", "Dr. B", "Dr. C"}
	for _, n := range names {
		svc.CreateDoctor(context.Background(), &Doctor{Name: n, Specialization: "General"})
	}
	doctors, err := svc.ListDoctors(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	for i, d := range doctors {
		if d.Name != names[i] {
			t.Errorf("position %d: expected %s, got %s", i, names[i], d.Name)
		}
	}
}

func TestDeleteDoctor_NotFound(t *testing.T) {
	svc, _, _ := newTestService()
	if err := svc.DeleteDoctor(context.Background(), uuid.New()); err != ErrDoctorNotFound {
		t.Errorf("expected ErrDoctorNotFound, got %v", err)
	}
}

// -- Patients --

func TestRegisterPatient(t *testing.T) {
	svc, _, _ := newTestService()
	p, created, err := svc.RegisterPatient(context.Background(), "Jane Doe", "jane@x.com", "555")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !created {
		t.Error("expected new patient")
	}
	if p.FirstName != "Jane" || p.LastName != "Doe" {
		t.Errorf("unexpected name split: %q %q", p.FirstName, p.LastName)
	}
	if p.Phone != "555" {
		t.Errorf("expected phone 555, got %q", p.Phone)
	}
}

func TestRegisterPatient_IdempotentByEmail(t *testing.T) {
	svc, _, _ := newTestService()
	first, created, err := svc.RegisterPatient(context.Background(), "Jane Doe", "jane@x.com", "")
	if err != nil || !created {
		t.Fatalf("first registration failed: created=%v err=%v", created, err)
	}

	second, created, err := svc.RegisterPatient(context.Background(), "Janet Doe", "jane@x.com", "555")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if created {
		t.Error("expected existing patient to be reused")
	}
	if second.ID != first.ID {
		t.Errorf("expected same patient id, got %s and %s", first.ID, second.ID)
	}
	// The existing record is returned unchanged.
	if second.FirstName != "Jane" {
		t.Errorf("expected original first name Jane, got %s", second.FirstName)
	}
}

func TestRegisterPatient_MissingFields(t *testing.T) {
	svc, _, _ := newTestService()
	if _, _, err := svc.RegisterPatient(context.Background(), "", "jane@x.com", ""); err == nil {
		t.Error("expected error for missing name")
	}
	if _, _, err := svc.RegisterPatient(context.Background(), "Jane", "", ""); err == nil {
		t.Error("expected error for missing email")
	}
}
