package directory

import (
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/clinicapp/clinic/internal/platform/auth"
)

var (
	ErrDoctorNotFound  = errors.New("doctor not found")
	ErrPatientNotFound = errors.New("patient not found")
	ErrInvalidInput    = errors.New("invalid input")
)

// AnonymousEmail keys the single shared patient record used for bookings that
// carry neither a name nor an authenticated identity.
const AnonymousEmail = "anonymous@clinic.com"

// Doctor maps to the doctors table.
type Doctor struct {
	ID             uuid.UUID `db:"id" json:"id"`
	Name           string    `db:"name" json:"name"`
	Specialization string    `db:"specialization" json:"specialization"`
	CreatedAt      time.Time `db:"created_at" json:"created_at"`
}

// Patient maps to the patients table. UserID links the record to at most one
// identity account; it is nil for walk-in and anonymous patients.
type Patient struct {
	ID        uuid.UUID  `db:"id" json:"id"`
	UserID    *uuid.UUID `db:"user_id" json:"user_id,omitempty"`
	FirstName string     `db:"first_name" json:"first_name"`
	LastName  string     `db:"last_name" json:"last_name"`
	Phone     string     `db:"phone" json:"phone"`
	Email     string     `db:"email" json:"email"`
	CreatedAt time.Time  `db:"created_at" json:"created_at"`
}

// DisplayName renders "first last", without a trailing space when the last
// name is empty.
func (p *Patient) DisplayName() string {
	return strings.TrimSpace(p.FirstName + " " + p.LastName)
}

// SplitName divides a free-form name into a first name (the first
// whitespace-delimited token) and a last name (the remainder, possibly empty).
func SplitName(name string) (first, last string) {
	name = strings.TrimSpace(name)
	first, last, found := strings.Cut(name, " ")
	if !found {
		return name, ""
	}
	return first, strings.TrimSpace(last)
}

// PatientKeyKind discriminates the ways a booking can identify its patient.
type PatientKeyKind int

const (
	// KeyExplicitName matches by first name, case-insensitively. Two people
	// sharing a first name collide on the same record; callers accept that.
	KeyExplicitName PatientKeyKind = iota
	// KeyIdentityAccount matches by the linked identity account.
	KeyIdentityAccount
	// KeyAnonymous matches the shared anonymous placeholder record.
	KeyAnonymous
)

// PatientKey identifies the patient a booking should attach to, together with
// the record to create when no match exists.
type PatientKey struct {
	Kind      PatientKeyKind
	FirstName string
	LastName  string
	Phone     string
	Email     string
	UserID    uuid.UUID
}

// ResolvePatientKey decides which patient a booking belongs to. Priority:
// an explicit display name wins over the caller's identity, which wins over
// the shared anonymous record. Pure; hits no storage.
func ResolvePatientKey(displayName, phone string, identity *auth.Identity) PatientKey {
	if strings.TrimSpace(displayName) != "" {
		first, last := SplitName(displayName)
		return PatientKey{
			Kind:      KeyExplicitName,
			FirstName: first,
			LastName:  last,
			Phone:     phone,
			Email:     strings.ToLower(first) + "@patient.com",
		}
	}

	if identity != nil {
		key := PatientKey{
			Kind:      KeyIdentityAccount,
			UserID:    identity.UserID,
			FirstName: identity.FirstName,
			LastName:  identity.LastName,
			Email:     identity.Email,
		}
		if key.FirstName == "" {
			key.FirstName = "Unknown"
		}
		if key.LastName == "" {
			key.LastName = "Patient"
		}
		if key.Email == "" {
			key.Email = "patient@clinic.com"
		}
		return key
	}

	return PatientKey{
		Kind:      KeyAnonymous,
		FirstName: "Anonymous",
		LastName:  "Patient",
		Email:     AnonymousEmail,
	}
}

// NewPatient builds the row to insert when the key matches no existing record.
func (k PatientKey) NewPatient() *Patient {
	p := &Patient{
		FirstName: k.FirstName,
		LastName:  k.LastName,
		Phone:     k.Phone,
		Email:     k.Email,
	}
	if k.Kind == KeyIdentityAccount {
		uid := k.UserID
		p.UserID = &uid
	}
	return p
}

// LockString returns a stable key for serializing concurrent get-or-create
// calls that resolve to the same patient.
func (k PatientKey) LockString() string {
	switch k.Kind {
	case KeyExplicitName:
		return "patient:name:" + strings.ToLower(k.FirstName)
	case KeyIdentityAccount:
		return "patient:user:" + k.UserID.String()
	default:
		return "patient:anonymous"
	}
}
