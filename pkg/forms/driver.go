package forms

import "strings"

// DriverCreationForm is the user-creation form extended with the licence number.
type DriverCreationForm struct {
	Username      string `form:"username" validate:"required,max=150,username"`
	Password1     string `form:"password1" validate:"required,min=8"`
	Password2     string `form:"password2" validate:"required,eqfield=Password1"`
	FirstName     string `form:"first_name" validate:"max=150"`
	LastName      string `form:"last_name" validate:"max=150"`
	LicenseNumber string `form:"license_number" validate:"required,max=255"`
}

var driverCreationMessages = map[string]string{
	"username_required":       "This field is required.",
	"username_max":            "Ensure this value has at most 150 characters.",
	"username_username":       "Enter a valid username. This value may contain only letters, numbers, and @/./+/-/_ characters.",
	"password1_required":      "This field is required.",
	"password1_min":           "This password is too short. It must contain at least 8 characters.",
	"password2_required":      "This field is required.",
	"password2_eqfield":       "The two password fields didn't match.",
	"first_name_max":          "Ensure this value has at most 150 characters.",
	"last_name_max":           "Ensure this value has at most 150 characters.",
	"license_number_required": "This field is required.",
	"license_number_max":      "Ensure this value has at most 255 characters.",
}

// Validate returns nil when the form is valid.
func (f *DriverCreationForm) Validate() FieldErrors {
	f.Username = strings.TrimSpace(f.Username)
	return validateStruct(f, driverCreationMessages)
}

// CleanedData returns the submitted values keyed by form field.
func (f DriverCreationForm) CleanedData() map[string]string {
	return map[string]string{
		"username":       f.Username,
		"password1":      f.Password1,
		"password2":      f.Password2,
		"first_name":     f.FirstName,
		"last_name":      f.LastName,
		"license_number": f.LicenseNumber,
	}
}

type DriverLicenseUpdateForm struct {
	LicenseNumber string `form:"license_number" validate:"required,max=255"`
}

func (f *DriverLicenseUpdateForm) Validate() FieldErrors {
	f.LicenseNumber = strings.TrimSpace(f.LicenseNumber)
	return validateStruct(f, map[string]string{
		"license_number_required": "This field is required.",
		"license_number_max":      "Ensure this value has at most 255 characters.",
	})
}

// DriverAdminForm is the admin change form. Checkboxes arrive only when ticked.
type DriverAdminForm struct {
	Username      string `form:"username" validate:"required,max=150,username"`
	FirstName     string `form:"first_name" validate:"max=150"`
	LastName      string `form:"last_name" validate:"max=150"`
	Email         string `form:"email" validate:"omitempty,email,max=254"`
	LicenseNumber string `form:"license_number" validate:"required,max=255"`
	IsActive      bool   `form:"is_active"`
	IsStaff       bool   `form:"is_staff"`
	IsSuperuser   bool   `form:"is_superuser"`
}

func (f *DriverAdminForm) Validate() FieldErrors {
	f.Username = strings.TrimSpace(f.Username)
	f.Email = strings.ToLower(strings.TrimSpace(f.Email))
	return validateStruct(f, map[string]string{
		"username_required":       "This field is required.",
		"username_username":       "Enter a valid username. This value may contain only letters, numbers, and @/./+/-/_ characters.",
		"email_email":             "Enter a valid email address.",
		"license_number_required": "This field is required.",
	})
}

type LoginForm struct {
	Username string `form:"username" validate:"required"`
	Password string `form:"password" validate:"required"`
}

func (f *LoginForm) Validate() FieldErrors {
	f.Username = strings.TrimSpace(f.Username)
	return validateStruct(f, map[string]string{
		"username_required": "This field is required.",
		"password_required": "This field is required.",
	})
}
