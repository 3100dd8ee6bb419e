package models

import "time"

// Driver is the authenticated user of the site.
type Driver struct {
	ID            int64     `json:"id"`
	Username      string    `json:"username"`
	Password      string    `json:"-"`
	FirstName     string    `json:"first_name"`
	LastName      string    `json:"last_name"`
	Email         string    `json:"email"`
	LicenseNumber string    `json:"license_number"`
	IsStaff       bool      `json:"is_staff"`
	IsSuperuser   bool      `json:"is_superuser"`
	IsActive      bool      `json:"is_active"`
	DateJoined    time.Time `json:"date_joined"`

	Cars []*Car `json:"cars,omitempty"`
}

func (d Driver) String() string {
	return d.Username + " (" + d.FirstName + " " + d.LastName + ")"
}

// CanAccessAdmin mirrors the admin gate: active staff superusers only.
func (d Driver) CanAccessAdmin() bool {
	return d.IsActive && d.IsStaff && d.IsSuperuser
}
