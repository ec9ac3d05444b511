package booking

import (
	"context"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type appointmentRepoPG struct{ pool *pgxpool.Pool }

func NewAppointmentRepoPG(pool *pgxpool.Pool) AppointmentRepository {
	return &appointmentRepoPG{pool: pool}
}

const detailCols = `
	a.id, a.doctor_id, d.name, a.patient_id,
	trim(p.first_name || ' ' || p.last_name),
	to_char(a.date, 'YYYY-MM-DD'), to_char(a.time_of_day, 'HH24:MI')`

func scanDetail(row pgx.Row) (*AppointmentDetail, error) {
	var det AppointmentDetail
	err := row.Scan(&det.ID, &det.DoctorID, &det.DoctorName, &det.PatientID,
		&det.PatientName, &det.Date, &det.Time)
	return &det, err
}

func (r *appointmentRepoPG) Create(ctx context.Context, a *Appointment) error {
	a.ID = uuid.New()
	return r.pool.QueryRow(ctx, `
		INSERT INTO appointments (id, doctor_id, patient_id, date, time_of_day)
		VALUES ($1, $2, $3, $4::date, $5::time)
		RETURNING created_at`,
		a.ID, a.DoctorID, a.PatientID, a.Date, a.TimeOfDay).Scan(&a.CreatedAt)
}

func (r *appointmentRepoPG) Delete(ctx context.Context, id uuid.UUID) error {
	tag, err := r.pool.Exec(ctx, `DELETE FROM appointments WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrAppointmentNotFound
	}
	return nil
}

func (r *appointmentRepoPG) ListDetails(ctx context.Context) ([]*AppointmentDetail, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT `+detailCols+`
		FROM appointments a
		JOIN doctors d ON d.id = a.doctor_id
		JOIN patients p ON p.id = a.patient_id
		ORDER BY a.created_at`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var items []*AppointmentDetail
	for rows.Next() {
		det, err := scanDetail(rows)
		if err != nil {
			return nil, err
		}
		items = append(items, det)
	}
	return items, rows.Err()
}

func (r *appointmentRepoPG) Count(ctx context.Context) (int, error) {
	var n int
	err := r.pool.QueryRow(ctx, `SELECT COUNT(*) FROM appointments`).Scan(&n)
	return n, err
}

func (r *appointmentRepoPG) Upcoming(ctx context.Context, limit int) ([]*AppointmentDetail, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT `+detailCols+`
		FROM appointments a
		JOIN doctors d ON d.id = a.doctor_id
		JOIN patients p ON p.id = a.patient_id
		ORDER BY a.date, a.time_of_day
		LIMIT $1`, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var items []*AppointmentDetail
	for rows.Next() {
		det, err := scanDetail(rows)
		if err != nil {
			return nil, err
		}
		items = append(items, det)
	}
	return items, rows.Err()
}
