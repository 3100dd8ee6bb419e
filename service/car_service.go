package service

import (
	"context"

	"taxiservice/pkg/forms"
	"taxiservice/pkg/logger"
	"taxiservice/pkg/models"
	"taxiservice/storage"
)

type CarService interface {
	List(ctx context.Context, model string) ([]*models.Car, error)
	// Get loads the car with its manufacturer and drivers.
	Get(ctx context.Context, id int64) (*models.Car, error)
	Create(ctx context.Context, form forms.CarForm) (*models.Car, error)
	Update(ctx context.Context, id int64, form forms.CarForm) (*models.Car, error)
	Delete(ctx context.Context, id int64) error
	// ToggleAssign adds the driver to the car, or removes them when already assigned.
	// It reports whether the driver is assigned afterwards.
	ToggleAssign(ctx context.Context, carID, driverID int64) (bool, error)
	Count(ctx context.Context) (int, error)
}

type carService struct {
	cars          storage.ICarStorage
	drivers       storage.IDriverStorage
	manufacturers storage.IManufacturerStorage
	log           logger.ILogger
}

func NewCarService(stg storage.IStorage, log logger.ILogger) CarService {
	return &carService{
		cars:          stg.Car(),
		drivers:       stg.Driver(),
		manufacturers: stg.Manufacturer(),
		log:           log,
	}
}

func (s *carService) List(ctx context.Context, model string) ([]*models.Car, error) {
	return s.cars.GetAll(ctx, model)
}

func (s *carService) Get(ctx context.Context, id int64) (*models.Car, error) {
	car, err := s.cars.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if car == nil {
		return nil, ErrNotFound
	}
	if car.Drivers, err = s.drivers.GetByCar(ctx, id); err != nil {
		return nil, err
	}
	return car, nil
}

// checkRefs makes sure the manufacturer and every driver exist before writing.
func (s *carService) checkRefs(ctx context.Context, form forms.CarForm) error {
	m, err := s.manufacturers.GetByID(ctx, form.ManufacturerID)
	if err != nil {
		return err
	}
	if m == nil {
		return ErrNotFound
	}
	for _, id := range form.DriverIDs {
		d, err := s.drivers.GetByID(ctx, id)
		if err != nil {
			return err
		}
		if d == nil {
			return ErrNotFound
		}
	}
	return nil
}

func (s *carService) Create(ctx context.Context, form forms.CarForm) (*models.Car, error) {
	if err := s.checkRefs(ctx, form); err != nil {
		return nil, err
	}
	car, err := s.cars.Create(ctx, &models.Car{Model: form.Model, ManufacturerID: form.ManufacturerID}, form.DriverIDs)
	if err != nil {
		return nil, err
	}
	s.log.Info("car created", logger.Int64("id", car.ID), logger.String("model", car.Model))
	return car, nil
}

func (s *carService) Update(ctx context.Context, id int64, form forms.CarForm) (*models.Car, error) {
	car, err := s.cars.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if car == nil {
		return nil, ErrNotFound
	}
	if err := s.checkRefs(ctx, form); err != nil {
		return nil, err
	}
	car.Model, car.ManufacturerID = form.Model, form.ManufacturerID
	if err := s.cars.Update(ctx, car, form.DriverIDs); err != nil {
		return nil, err
	}
	return car, nil
}

func (s *carService) Delete(ctx context.Context, id int64) error {
	car, err := s.cars.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if car == nil {
		return ErrNotFound
	}
	return s.cars.Delete(ctx, id)
}

func (s *carService) ToggleAssign(ctx context.Context, carID, driverID int64) (bool, error) {
	car, err := s.Get(ctx, carID)
	if err != nil {
		return false, err
	}
	if car.HasDriver(driverID) {
		return false, s.cars.RemoveDriver(ctx, carID, driverID)
	}
	return true, s.cars.AddDriver(ctx, carID, driverID)
}

func (s *carService) Count(ctx context.Context) (int, error) {
	return s.cars.Count(ctx)
}
