package booking

import (
	"context"

	"github.com/google/uuid"
)

type AppointmentRepository interface {
	Create(ctx context.Context, a *Appointment) error
	// Delete removes the appointment unconditionally. Returns
	// ErrAppointmentNotFound when the id does not exist.
	Delete(ctx context.Context, id uuid.UUID) error
	// ListDetails returns all appointments in storage order with doctor and
	// patient names joined in.
	ListDetails(ctx context.Context) ([]*AppointmentDetail, error)
	Count(ctx context.Context) (int, error)
	// Upcoming returns the chronologically earliest appointments ordered by
	// (date, time), at most limit of them.
	Upcoming(ctx context.Context, limit int) ([]*AppointmentDetail, error)
}
