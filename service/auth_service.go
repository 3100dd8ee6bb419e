package service

import (
	"context"

	"taxiservice/pkg/auth"
	"taxiservice/pkg/logger"
	"taxiservice/pkg/models"
	"taxiservice/storage"
)

type AuthService interface {
	Authenticate(ctx context.Context, username, password string) (*models.Driver, error)
	// CurrentDriver resolves a session's driver; inactive or deleted drivers yield ErrNotFound.
	CurrentDriver(ctx context.Context, id int64) (*models.Driver, error)
}

type authService struct {
	drivers storage.IDriverStorage
	log     logger.ILogger
}

func NewAuthService(stg storage.IStorage, log logger.ILogger) AuthService {
	return &authService{
		drivers: stg.Driver(),
		log:     log,
	}
}

func (s *authService) Authenticate(ctx context.Context, username, password string) (*models.Driver, error) {
	d, err := s.drivers.GetByUsername(ctx, username)
	if err != nil {
		return nil, err
	}
	if d == nil {
		auth.CheckPasswordForUnknownUser(password)
		s.log.Warning("authentication failed", logger.String("username", username))
		return nil, ErrInvalidCredentials
	}
	if !auth.CheckPassword(d.Password, password) {
		s.log.Warning("authentication failed", logger.String("username", username))
		return nil, ErrInvalidCredentials
	}
	if !d.IsActive {
		s.log.Warning("inactive driver tried to log in", logger.Int64("id", d.ID))
		return nil, ErrUserInactive
	}
	s.log.Info("authentication succeeded", logger.Int64("id", d.ID))
	return d, nil
}

func (s *authService) CurrentDriver(ctx context.Context, id int64) (*models.Driver, error) {
	d, err := s.drivers.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if d == nil || !d.IsActive {
		return nil, ErrNotFound
	}
	return d, nil
}
