package booking

import (
	"context"

	"github.com/google/uuid"

	"github.com/clinicapp/clinic/internal/domain/directory"
	"github.com/clinicapp/clinic/internal/platform/auth"
)

// BookInput carries everything a booking request may supply. Name and
// Phone are optional; Identity is the authenticated caller, if any.
type BookInput struct {
	DoctorID uuid.UUID
	Date     string
	Time     string
	Name     string
	Phone    string
	Identity *auth.Identity
}

type Service struct {
	appointments AppointmentRepository
	doctors      directory.DoctorRepository
	patients     directory.PatientRepository
}

func NewService(appointments AppointmentRepository, doctors directory.DoctorRepository, patients directory.PatientRepository) *Service {
	return &Service{appointments: appointments, doctors: doctors, patients: patients}
}

// Book resolves the doctor, validates the slot, resolves the patient record
// for the caller and creates the appointment. The doctor lookup comes first:
// an unknown doctor is reported even when the slot is also malformed, and
// leaves no side effects behind.
func (s *Service) Book(ctx context.Context, in BookInput) (*AppointmentDetail, error) {
	doctor, err := s.doctors.GetByID(ctx, in.DoctorID)
	if err != nil {
		return nil, err
	}

	date, err := NormalizeDate(in.Date)
	if err != nil {
		return nil, err
	}
	timeOfDay, err := NormalizeTime(in.Time)
	if err != nil {
		return nil, err
	}

	key := directory.ResolvePatientKey(in.Name, in.Phone, in.Identity)
	patient, _, err := s.patients.GetOrCreate(ctx, key)
	if err != nil {
		return nil, err
	}

	appt := &Appointment{
		DoctorID:  doctor.ID,
		PatientID: patient.ID,
		Date:      date,
		TimeOfDay: timeOfDay,
	}
	if err := s.appointments.Create(ctx, appt); err != nil {
		return nil, err
	}
	return appt.detail(doctor, patient), nil
}

func (s *Service) ListAppointments(ctx context.Context) ([]*AppointmentDetail, error) {
	return s.appointments.ListDetails(ctx)
}

func (s *Service) CancelAppointment(ctx context.Context, id uuid.UUID) error {
	return s.appointments.Delete(ctx, id)
}
