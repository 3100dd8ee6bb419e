package forms

import "strings"

type ManufacturerForm struct {
	Name    string `form:"name" validate:"required,max=255"`
	Country string `form:"country" validate:"required,max=255"`
}

func (f *ManufacturerForm) Validate() FieldErrors {
	f.Name = strings.TrimSpace(f.Name)
	f.Country = strings.TrimSpace(f.Country)
	return validateStruct(f, map[string]string{
		"name_required":    "This field is required.",
		"name_max":         "Ensure this value has at most 255 characters.",
		"country_required": "This field is required.",
		"country_max":      "Ensure this value has at most 255 characters.",
	})
}

// CarForm carries the chosen drivers as repeated "drivers" values.
type CarForm struct {
	Model          string  `form:"model" validate:"required,max=255"`
	ManufacturerID int64   `form:"manufacturer" validate:"required,gt=0"`
	DriverIDs      []int64 `form:"drivers" validate:"dive,gt=0"`
}

func (f *CarForm) Validate() FieldErrors {
	f.Model = strings.TrimSpace(f.Model)
	return validateStruct(f, map[string]string{
		"model_required":        "This field is required.",
		"model_max":             "Ensure this value has at most 255 characters.",
		"manufacturer_required": "This field is required.",
		"manufacturer_gt":       "Select a valid choice.",
	})
}
