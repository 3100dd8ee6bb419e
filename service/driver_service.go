package service

import (
	"context"
	"errors"

	"taxiservice/pkg/auth"
	"taxiservice/pkg/forms"
	"taxiservice/pkg/logger"
	"taxiservice/pkg/models"
	"taxiservice/storage"
)

type DriverService interface {
	List(ctx context.Context, username string) ([]*models.Driver, error)
	// Get loads the driver with their cars.
	Get(ctx context.Context, id int64) (*models.Driver, error)
	Create(ctx context.Context, form forms.DriverCreationForm) (*models.Driver, error)
	CreateSuperuser(ctx context.Context, username, email, password, licenseNumber string) (*models.Driver, error)
	UpdateLicense(ctx context.Context, id int64, form forms.DriverLicenseUpdateForm) error
	AdminUpdate(ctx context.Context, id int64, form forms.DriverAdminForm) (*models.Driver, error)
	Delete(ctx context.Context, id int64) error
	Count(ctx context.Context) (int, error)
}

type driverService struct {
	drivers storage.IDriverStorage
	cars    storage.ICarStorage
	log     logger.ILogger
}

func NewDriverService(stg storage.IStorage, log logger.ILogger) DriverService {
	return &driverService{
		drivers: stg.Driver(),
		cars:    stg.Car(),
		log:     log,
	}
}

func (s *driverService) List(ctx context.Context, username string) ([]*models.Driver, error) {
	return s.drivers.GetAll(ctx, username)
}

func (s *driverService) Get(ctx context.Context, id int64) (*models.Driver, error) {
	d, err := s.drivers.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if d == nil {
		return nil, ErrNotFound
	}
	if d.Cars, err = s.cars.GetByDriver(ctx, id); err != nil {
		return nil, err
	}
	return d, nil
}

func (s *driverService) create(ctx context.Context, d *models.Driver, password string) (*models.Driver, error) {
	hashed, err := auth.HashPassword(password)
	if err != nil {
		s.log.Error("failed to hash password", logger.Error(err))
		return nil, err
	}
	d.Password = hashed

	created, err := s.drivers.Create(ctx, d)
	if errors.Is(err, storage.ErrUniqueViolation) {
		return nil, ErrUsernameTaken
	}
	if err != nil {
		return nil, err
	}
	s.log.Info("driver created",
		logger.Int64("id", created.ID),
		logger.String("username", created.Username),
		logger.Bool("superuser", created.IsSuperuser))
	return created, nil
}

func (s *driverService) Create(ctx context.Context, form forms.DriverCreationForm) (*models.Driver, error) {
	return s.create(ctx, &models.Driver{
		Username:      form.Username,
		FirstName:     form.FirstName,
		LastName:      form.LastName,
		LicenseNumber: form.LicenseNumber,
		IsActive:      true,
	}, form.Password1)
}

func (s *driverService) CreateSuperuser(ctx context.Context, username, email, password, licenseNumber string) (*models.Driver, error) {
	return s.create(ctx, &models.Driver{
		Username:      username,
		Email:         email,
		LicenseNumber: licenseNumber,
		IsStaff:       true,
		IsSuperuser:   true,
		IsActive:      true,
	}, password)
}

func (s *driverService) UpdateLicense(ctx context.Context, id int64, form forms.DriverLicenseUpdateForm) error {
	d, err := s.drivers.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if d == nil {
		return ErrNotFound
	}
	return s.drivers.UpdateLicense(ctx, id, form.LicenseNumber)
}

func (s *driverService) AdminUpdate(ctx context.Context, id int64, form forms.DriverAdminForm) (*models.Driver, error) {
	d, err := s.drivers.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if d == nil {
		return nil, ErrNotFound
	}

	d.Username = form.Username
	d.FirstName = form.FirstName
	d.LastName = form.LastName
	d.Email = form.Email
	d.LicenseNumber = form.LicenseNumber
	d.IsActive = form.IsActive
	d.IsStaff = form.IsStaff
	d.IsSuperuser = form.IsSuperuser

	err = s.drivers.Update(ctx, d)
	if errors.Is(err, storage.ErrUniqueViolation) {
		return nil, ErrUsernameTaken
	}
	if err != nil {
		return nil, err
	}
	return d, nil
}

func (s *driverService) Delete(ctx context.Context, id int64) error {
	d, err := s.drivers.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if d == nil {
		return ErrNotFound
	}
	return s.drivers.Delete(ctx, id)
}

func (s *driverService) Count(ctx context.Context) (int, error) {
	return s.drivers.Count(ctx)
}
