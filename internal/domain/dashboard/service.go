package dashboard

import (
	"context"

	"github.com/clinicapp/clinic/internal/domain/booking"
	"github.com/clinicapp/clinic/internal/domain/directory"
)

// upcomingLimit caps the appointment preview on the dashboard.
const upcomingLimit = 5

// Summary is the dashboard payload. UpcomingAppointments holds the earliest
// scheduled slots regardless of whether they are already in the past; the
// clients own any further filtering.
type Summary struct {
	TotalAppointments    int                          `json:"total_appointments"`
	TotalDoctors         int                          `json:"total_doctors"`
	UpcomingAppointments []*booking.AppointmentDetail `json:"upcoming_appointments"`
}

type Service struct {
	doctors      directory.DoctorRepository
	appointments booking.AppointmentRepository
}

func NewService(doctors directory.DoctorRepository, appointments booking.AppointmentRepository) *Service {
	return &Service{doctors: doctors, appointments: appointments}
}

func (s *Service) GetDashboard(ctx context.Context) (*Summary, error) {
	totalAppointments, err := s.appointments.Count(ctx)
	if err != nil {
		return nil, err
	}
	totalDoctors, err := s.doctors.Count(ctx)
	if err != nil {
		return nil, err
	}
	upcoming, err := s.appointments.Upcoming(ctx, upcomingLimit)
	if err != nil {
		return nil, err
	}
	if upcoming == nil {
		upcoming = []*booking.AppointmentDetail{}
	}
	return &Summary{
		TotalAppointments:    totalAppointments,
		TotalDoctors:         totalDoctors,
		UpcomingAppointments: upcoming,
	}, nil
}
