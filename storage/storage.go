package storage

import (
	"context"
	"errors"
	"strings"

	"taxiservice/pkg/models"
)

// ErrUniqueViolation is returned by repositories when a unique column would be duplicated.
var ErrUniqueViolation = errors.New("unique constraint violated")

type IStorage interface {
	Manufacturer() IManufacturerStorage
	Car() ICarStorage
	Driver() IDriverStorage
	Ping(ctx context.Context) error
	Close()
}

// Resetter is implemented by stores that can wipe all fleet data.
type Resetter interface {
	Reset(ctx context.Context) error
}

// Lookups return (nil, nil) when the row does not exist.
// A non-empty search keeps rows whose text column contains it, ignoring case.

type IManufacturerStorage interface {
	Create(ctx context.Context, m *models.Manufacturer) (*models.Manufacturer, error)
	Update(ctx context.Context, m *models.Manufacturer) error
	GetByID(ctx context.Context, id int64) (*models.Manufacturer, error)
	GetAll(ctx context.Context, name string) ([]*models.Manufacturer, error)
	Delete(ctx context.Context, id int64) error
	Count(ctx context.Context) (int, error)
}

type ICarStorage interface {
	Create(ctx context.Context, car *models.Car, driverIDs []int64) (*models.Car, error)
	Update(ctx context.Context, car *models.Car, driverIDs []int64) error
	GetByID(ctx context.Context, id int64) (*models.Car, error)
	GetAll(ctx context.Context, model string) ([]*models.Car, error)
	GetByDriver(ctx context.Context, driverID int64) ([]*models.Car, error)
	Delete(ctx context.Context, id int64) error
	Count(ctx context.Context) (int, error)
	AddDriver(ctx context.Context, carID, driverID int64) error
	RemoveDriver(ctx context.Context, carID, driverID int64) error
}

type IDriverStorage interface {
	Create(ctx context.Context, d *models.Driver) (*models.Driver, error)
	Update(ctx context.Context, d *models.Driver) error
	UpdateLicense(ctx context.Context, id int64, licenseNumber string) error
	GetByID(ctx context.Context, id int64) (*models.Driver, error)
	GetByUsername(ctx context.Context, username string) (*models.Driver, error)
	GetAll(ctx context.Context, username string) ([]*models.Driver, error)
	GetByCar(ctx context.Context, carID int64) ([]*models.Driver, error)
	Delete(ctx context.Context, id int64) error
	Count(ctx context.Context) (int, error)
}

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

// ContainsPattern turns free text into a LIKE pattern (ESCAPE '\') matching it anywhere.
func ContainsPattern(s string) string {
	return "%" + likeEscaper.Replace(s) + "%"
}
