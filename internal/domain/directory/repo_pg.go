package directory

import (
	"context"
	"errors"
	"strings"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// =========== Doctor Repository ===========

type doctorRepoPG struct{ pool *pgxpool.Pool }

func NewDoctorRepoPG(pool *pgxpool.Pool) DoctorRepository { return &doctorRepoPG{pool: pool} }

const doctorCols = `id, name, specialization, created_at`

func scanDoctor(row pgx.Row) (*Doctor, error) {
	var d Doctor
	err := row.Scan(&d.ID, &d.Name, &d.Specialization, &d.CreatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrDoctorNotFound
	}
	return &d, err
}

func (r *doctorRepoPG) Create(ctx context.Context, d *Doctor) error {
	d.ID = uuid.New()
	return r.pool.QueryRow(ctx, `
		INSERT INTO doctors (id, name, specialization)
		VALUES ($1, $2, $3)
		RETURNING created_at`,
		d.ID, d.Name, d.Specialization).Scan(&d.CreatedAt)
}

func (r *doctorRepoPG) GetByID(ctx context.Context, id uuid.UUID) (*Doctor, error) {
	return scanDoctor(r.pool.QueryRow(ctx,
		`SELECT `+doctorCols+` FROM doctors WHERE id = $1`, id))
}

func (r *doctorRepoPG) List(ctx context.Context) ([]*Doctor, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT `+doctorCols+` FROM doctors ORDER BY created_at`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var items []*Doctor
	for rows.Next() {
		d, err := scanDoctor(rows)
		if err != nil {
			return nil, err
		}
		items = append(items, d)
	}
	return items, rows.Err()
}

func (r *doctorRepoPG) Count(ctx context.Context) (int, error) {
	var n int
	err := r.pool.QueryRow(ctx, `SELECT COUNT(*) FROM doctors`).Scan(&n)
	return n, err
}

func (r *doctorRepoPG) Delete(ctx context.Context, id uuid.UUID) error {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx)

	// Dependent appointments go first so the doctor delete never trips the
	// foreign key, and both disappear in the same commit.
	if _, err := tx.Exec(ctx,
		`DELETE FROM appointments WHERE doctor_id = $1`, id); err != nil {
		return err
	}

	tag, err := tx.Exec(ctx, `DELETE FROM doctors WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrDoctorNotFound
	}

	return tx.Commit(ctx)
}

// =========== Patient Repository ===========

type patientRepoPG struct{ pool *pgxpool.Pool }

func NewPatientRepoPG(pool *pgxpool.Pool) PatientRepository { return &patientRepoPG{pool: pool} }

const patientCols = `id, user_id, first_name, last_name, phone, email, created_at`

func scanPatient(row pgx.Row) (*Patient, error) {
	var p Patient
	err := row.Scan(&p.ID, &p.UserID, &p.FirstName, &p.LastName, &p.Phone, &p.Email, &p.CreatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrPatientNotFound
	}
	return &p, err
}

func (r *patientRepoPG) Create(ctx context.Context, p *Patient) error {
	p.ID = uuid.New()
	return r.pool.QueryRow(ctx, `
		INSERT INTO patients (id, user_id, first_name, last_name, phone, email)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING created_at`,
		p.ID, p.UserID, p.FirstName, p.LastName, p.Phone, p.Email).Scan(&p.CreatedAt)
}

func (r *patientRepoPG) GetByID(ctx context.Context, id uuid.UUID) (*Patient, error) {
	return scanPatient(r.pool.QueryRow(ctx,
		`SELECT `+patientCols+` FROM patients WHERE id = $1`, id))
}

func (r *patientRepoPG) GetByEmail(ctx context.Context, email string) (*Patient, error) {
	return scanPatient(r.pool.QueryRow(ctx,
		`SELECT `+patientCols+` FROM patients WHERE email = $1 ORDER BY created_at LIMIT 1`, email))
}

func (r *patientRepoPG) GetOrCreate(ctx context.Context, key PatientKey) (*Patient, bool, error) {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return nil, false, err
	}
	defer tx.Rollback(ctx)

	// Serialize concurrent get-or-create calls for the same resolved key.
	// The advisory lock is released at commit/rollback.
	if _, err := tx.Exec(ctx,
		`SELECT pg_advisory_xact_lock(hashtext($1))`, key.LockString()); err != nil {
		return nil, false, err
	}

	p, err := r.findByKey(ctx, tx, key)
	if err == nil {
		return p, false, tx.Commit(ctx)
	}
	if !errors.Is(err, ErrPatientNotFound) {
		return nil, false, err
	}

	p = key.NewPatient()
	p.ID = uuid.New()
	if err := tx.QueryRow(ctx, `
		INSERT INTO patients (id, user_id, first_name, last_name, phone, email)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING created_at`,
		p.ID, p.UserID, p.FirstName, p.LastName, p.Phone, p.Email).Scan(&p.CreatedAt); err != nil {
		return nil, false, err
	}
	return p, true, tx.Commit(ctx)
}

func (r *patientRepoPG) findByKey(ctx context.Context, tx pgx.Tx, key PatientKey) (*Patient, error) {
	switch key.Kind {
	case KeyExplicitName:
		return scanPatient(tx.QueryRow(ctx, `
			SELECT `+patientCols+` FROM patients
			WHERE lower(first_name) = $1
			ORDER BY created_at LIMIT 1`, strings.ToLower(key.FirstName)))
	case KeyIdentityAccount:
		return scanPatient(tx.QueryRow(ctx,
			`SELECT `+patientCols+` FROM patients WHERE user_id = $1`, key.UserID))
	default:
		return scanPatient(tx.QueryRow(ctx, `
			SELECT `+patientCols+` FROM patients
			WHERE email = $1
			ORDER BY created_at LIMIT 1`, AnonymousEmail))
	}
}
