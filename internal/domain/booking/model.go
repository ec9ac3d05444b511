package booking

import (
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/clinicapp/clinic/internal/domain/directory"
)

var (
	ErrAppointmentNotFound = errors.New("appointment not found")
	ErrInvalidInput        = errors.New("invalid input")
)

const (
	dateLayout = "2006-01-02"
	timeLayout = "15:04"
)

// Appointment maps to the appointments table. Date and TimeOfDay keep the
// wire formats "YYYY-MM-DD" and "HH:MM".
type Appointment struct {
	ID        uuid.UUID `db:"id" json:"id"`
	DoctorID  uuid.UUID `db:"doctor_id" json:"doctor"`
	PatientID uuid.UUID `db:"patient_id" json:"patient"`
	Date      string    `db:"date" json:"date"`
	TimeOfDay string    `db:"time_of_day" json:"time"`
	CreatedAt time.Time `db:"created_at" json:"-"`
}

// AppointmentDetail is an appointment enriched with the display names the
// clients render. The names are derived at read time, never stored.
type AppointmentDetail struct {
	ID          uuid.UUID `json:"id"`
	DoctorID    uuid.UUID `json:"doctor"`
	DoctorName  string    `json:"doctor_name"`
	PatientID   uuid.UUID `json:"patient"`
	PatientName string    `json:"patient_name"`
	Date        string    `json:"date"`
	Time        string    `json:"time"`
}

func (a *Appointment) detail(d *directory.Doctor, p *directory.Patient) *AppointmentDetail {
	return &AppointmentDetail{
		ID:          a.ID,
		DoctorID:    a.DoctorID,
		DoctorName:  d.Name,
		PatientID:   a.PatientID,
		PatientName: p.DisplayName(),
		Date:        a.Date,
		Time:        a.TimeOfDay,
	}
}

// NormalizeDate validates a calendar date and returns it as "YYYY-MM-DD".
func NormalizeDate(s string) (string, error) {
	t, err := time.Parse(dateLayout, s)
	if err != nil {
		return "", fmt.Errorf("%w: invalid date %q", ErrInvalidInput, s)
	}
	return t.Format(dateLayout), nil
}

// NormalizeTime validates a time of day ("HH:MM", seconds tolerated) and
// returns it as "HH:MM".
func NormalizeTime(s string) (string, error) {
	t, err := time.Parse(timeLayout, s)
	if err != nil {
		t, err = time.Parse("15:04:05", s)
	}
	if err != nil {
		return "", fmt.Errorf("%w: invalid time %q", ErrInvalidInput, s)
	}
	return t.Format(timeLayout), nil
}
