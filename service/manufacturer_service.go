package service

import (
	"context"
	"errors"

	"taxiservice/pkg/forms"
	"taxiservice/pkg/logger"
	"taxiservice/pkg/models"
	"taxiservice/storage"
)

type ManufacturerService interface {
	List(ctx context.Context, name string) ([]*models.Manufacturer, error)
	Get(ctx context.Context, id int64) (*models.Manufacturer, error)
	Create(ctx context.Context, form forms.ManufacturerForm) (*models.Manufacturer, error)
	Update(ctx context.Context, id int64, form forms.ManufacturerForm) (*models.Manufacturer, error)
	Delete(ctx context.Context, id int64) error
	Count(ctx context.Context) (int, error)
}

type manufacturerService struct {
	stg storage.IManufacturerStorage
	log logger.ILogger
}

func NewManufacturerService(stg storage.IStorage, log logger.ILogger) ManufacturerService {
	return &manufacturerService{
		stg: stg.Manufacturer(),
		log: log,
	}
}

func (s *manufacturerService) List(ctx context.Context, name string) ([]*models.Manufacturer, error) {
	return s.stg.GetAll(ctx, name)
}

func (s *manufacturerService) Get(ctx context.Context, id int64) (*models.Manufacturer, error) {
	m, err := s.stg.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if m == nil {
		return nil, ErrNotFound
	}
	return m, nil
}

func (s *manufacturerService) Create(ctx context.Context, form forms.ManufacturerForm) (*models.Manufacturer, error) {
	m, err := s.stg.Create(ctx, &models.Manufacturer{Name: form.Name, Country: form.Country})
	if errors.Is(err, storage.ErrUniqueViolation) {
		return nil, ErrManufacturerExists
	}
	if err != nil {
		return nil, err
	}
	s.log.Info("manufacturer created", logger.Int64("id", m.ID), logger.String("name", m.Name))
	return m, nil
}

func (s *manufacturerService) Update(ctx context.Context, id int64, form forms.ManufacturerForm) (*models.Manufacturer, error) {
	m, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	m.Name, m.Country = form.Name, form.Country

	err = s.stg.Update(ctx, m)
	if errors.Is(err, storage.ErrUniqueViolation) {
		return nil, ErrManufacturerExists
	}
	if err != nil {
		return nil, err
	}
	return m, nil
}

func (s *manufacturerService) Delete(ctx context.Context, id int64) error {
	if _, err := s.Get(ctx, id); err != nil {
		return err
	}
	if err := s.stg.Delete(ctx, id); err != nil {
		return err
	}
	s.log.Info("manufacturer deleted", logger.Int64("id", id))
	return nil
}

func (s *manufacturerService) Count(ctx context.Context) (int, error) {
	return s.stg.Count(ctx)
}
