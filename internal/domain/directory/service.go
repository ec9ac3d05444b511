package directory

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
)

type Service struct {
	doctors  DoctorRepository
	patients PatientRepository
}

func NewService(doctors DoctorRepository, patients PatientRepository) *Service {
	return &Service{doctors: doctors, patients: patients}
}

// -- Doctors --

func (s *Service) ListDoctors(ctx context.Context) ([]*Doctor, error) {
	return s.doctors.List(ctx)
}

// CreateDoctor always creates a new row; doctors are not deduplicated by name.
func (s *Service) CreateDoctor(ctx context.Context, d *Doctor) error {
	if d.Name == "" {
		return fmt.Errorf("%w: name is required", ErrInvalidInput)
	}
	if d.Specialization == "" {
		return fmt.Errorf("%w: specialization is required", ErrInvalidInput)
	}
	return s.doctors.Create(ctx, d)
}

// DeleteDoctor removes the doctor and, via the repository transaction, every
// appointment that references it.
func (s *Service) DeleteDoctor(ctx context.Context, id uuid.UUID) error {
	return s.doctors.Delete(ctx, id)
}

// -- Patients --

// RegisterPatient creates a patient from a free-form name, email and optional
// phone. Registration is idempotent by exact email: when a patient with the
// email already exists it is returned unchanged and created is false.
func (s *Service) RegisterPatient(ctx context.Context, name, email, phone string) (*Patient, bool, error) {
	if name == "" || email == "" {
		return nil, false, fmt.Errorf("%w: name and email are required", ErrInvalidInput)
	}

	existing, err := s.patients.GetByEmail(ctx, email)
	if err == nil {
		return existing, false, nil
	}
	if !errors.Is(err, ErrPatientNotFound) {
		return nil, false, err
	}

	first, last := SplitName(name)
	p := &Patient{
		FirstName: first,
		LastName:  last,
		Email:     email,
		Phone:     phone,
	}
	if err := s.patients.Create(ctx, p); err != nil {
		return nil, false, err
	}
	return p, true, nil
}

func (s *Service) GetPatient(ctx context.Context, id uuid.UUID) (*Patient, error) {
	return s.patients.GetByID(ctx, id)
}
