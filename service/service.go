package service

import (
	"taxiservice/pkg/logger"
	"taxiservice/storage"
)

type ServiceError string

func (e ServiceError) Error() string { return string(e) }

const (
	ErrNotFound           ServiceError = "not found"
	ErrInvalidCredentials ServiceError = "please enter a correct username and password"
	ErrUserInactive       ServiceError = "this account is inactive"
	ErrUsernameTaken      ServiceError = "a user with that username already exists"
	ErrManufacturerExists ServiceError = "manufacturer with this name already exists"
)

type IServiceManager interface {
	Manufacturer() ManufacturerService
	Car() CarService
	Driver() DriverService
	Auth() AuthService
}

type service struct {
	manufacturerService ManufacturerService
	carService          CarService
	driverService       DriverService
	authService         AuthService
}

func New(stg storage.IStorage, log logger.ILogger) IServiceManager {
	return &service{
		manufacturerService: NewManufacturerService(stg, log),
		carService:          NewCarService(stg, log),
		driverService:       NewDriverService(stg, log),
		authService:         NewAuthService(stg, log),
	}
}

func (s *service) Manufacturer() ManufacturerService {
	return s.manufacturerService
}

func (s *service) Car() CarService {
	return s.carService
}

func (s *service) Driver() DriverService {
	return s.driverService
}

func (s *service) Auth() AuthService {
	return s.authService
}
