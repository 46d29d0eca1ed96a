package patient

import (
	"time"

	"github.com/google/uuid"
)

// Patient is a registry record created once during the booking flow. Both
// HospitalID and Phone are globally unique. Gender is persisted upper-case.
type Patient struct {
	ID         uuid.UUID  `db:"id" json:"id"`
	HospitalID string     `db:"hospital_id" json:"hospital_id"`
	Name       string     `db:"name" json:"name"`
	Gender     *string    `db:"gender" json:"gender,omitempty"`
	DOB        *time.Time `db:"dob" json:"dob,omitempty"`
	Address    *string    `db:"address" json:"address,omitempty"`
	City       *string    `db:"city" json:"city,omitempty"`
	District   string     `db:"district" json:"district"`
	State      *string    `db:"state" json:"state,omitempty"`
	PinCode    *string    `db:"pin_code" json:"pin_code,omitempty"`
	Phone      string     `db:"phone" json:"phone"`
	CreatedAt  time.Time  `db:"created_at" json:"created_at"`
	UpdatedAt  time.Time  `db:"updated_at" json:"updated_at"`
}
