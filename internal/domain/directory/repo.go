package directory

import (
	"context"

	"github.com/google/uuid"
)

type DoctorRepository interface {
	Create(ctx context.Context, d *Doctor) error
	GetByID(ctx context.Context, id uuid.UUID) (*Doctor, error)
	List(ctx context.Context) ([]*Doctor, error)
	Count(ctx context.Context) (int, error)
	// Delete removes the doctor and every appointment referencing it in one
	// transaction, so readers never observe an appointment whose doctor is
	// gone. Returns ErrDoctorNotFound when the id does not exist.
	Delete(ctx context.Context, id uuid.UUID) error
}

type PatientRepository interface {
	Create(ctx context.Context, p *Patient) error
	GetByID(ctx context.Context, id uuid.UUID) (*Patient, error)
	GetByEmail(ctx context.Context, email string) (*Patient, error)
	// GetOrCreate returns the patient matching the key, creating it when
	// absent. Safe under concurrent callers resolving the same key: at most
	// one row is ever created per key.
	GetOrCreate(ctx context.Context, key PatientKey) (*Patient, bool, error)
}
