package services

import (
	"context"

	"tecawayBack/internal/geo"
	"tecawayBack/internal/models"
)

type LocationRepo interface {
	SetLocation(ctx context.Context, loc models.Location) error
	GetLocation(ctx context.Context, userID int) (models.Location, error)
	ClearLocation(ctx context.Context, userID int) error
}

type LocationCache interface {
	Set(ctx context.Context, userID int, c geo.Coordinates) error
	Get(ctx context.Context, userID int) (*geo.Coordinates, error)
	Remove(ctx context.Context, userID int) error
}

// LocationService keeps user coordinates in MySQL with a Redis copy for fast lookups.
type LocationService struct {
	Repo   LocationRepo
	Cache  LocationCache
	Logger Logger
}

// SetLocation updates coordinates for a user.
func (s *LocationService) SetLocation(ctx context.Context, userID int, c geo.Coordinates) error {
	if !geo.IsValidCoordinates(&c) {
		return models.ErrInvalidLocation
	}
	lat, lon := c.Latitude, c.Longitude
	if err := s.Repo.SetLocation(ctx, models.Location{UserID: userID, Latitude: &lat, Longitude: &lon}); err != nil {
		return err
	}
	s.cacheSet(ctx, userID, c)
	return nil
}

// GetLocation returns stored coordinates for a user.
func (s *LocationService) GetLocation(ctx context.Context, userID int) (models.Location, error) {
	return s.Repo.GetLocation(ctx, userID)
}

func (s *LocationService) ClearLocation(ctx context.Context, userID int) error {
	if err := s.Repo.ClearLocation(ctx, userID); err != nil {
		return err
	}
	if s.Cache != nil {
		if err := s.Cache.Remove(ctx, userID); err != nil {
			loggerOrNop(s.Logger).Errorf("location cache remove user=%d: %v", userID, err)
		}
	}
	return nil
}

// CurrentLocation returns the user's usable position or nil when none is known.
func (s *LocationService) CurrentLocation(ctx context.Context, userID int) (*geo.Coordinates, error) {
	log := loggerOrNop(s.Logger)
	if s.Cache != nil {
		c, err := s.Cache.Get(ctx, userID)
		if err != nil {
			log.Errorf("location cache get user=%d: %v", userID, err)
		} else if c != nil {
			return c, nil
		}
	}

	loc, err := s.Repo.GetLocation(ctx, userID)
	if err != nil {
		return nil, err
	}
	c := geo.NewCoordinates(loc.Latitude, loc.Longitude)
	if !geo.IsValidCoordinates(c) {
		return nil, nil
	}
	s.cacheSet(ctx, userID, *c)
	return c, nil
}

func (s *LocationService) cacheSet(ctx context.Context, userID int, c geo.Coordinates) {
	if s.Cache == nil {
		return
	}
	if err := s.Cache.Set(ctx, userID, c); err != nil {
		loggerOrNop(s.Logger).Errorf("location cache set user=%d: %v", userID, err)
	}
}
