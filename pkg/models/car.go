package models

type Car struct {
	ID             int64  `json:"id"`
	Model          string `json:"model"`
	ManufacturerID int64  `json:"manufacturer_id"`

	// Filled by reads that join or prefetch.
	Manufacturer *Manufacturer `json:"manufacturer,omitempty"`
	Drivers      []*Driver     `json:"drivers,omitempty"`
}

func (c Car) String() string {
	return c.Model
}

// HasDriver reports whether the driver is assigned to the car.
// Only meaningful when Drivers was loaded.
func (c Car) HasDriver(driverID int64) bool {
	for _, d := range c.Drivers {
		if d.ID == driverID {
			return true
		}
	}
	return false
}
