package services

import (
	"context"
	"errors"

	"tecawayBack/internal/models"
)

type ConsentRepo interface {
	GetConsent(ctx context.Context, userID int) (models.Consent, error)
	SaveConsent(ctx context.Context, c models.Consent) (models.Consent, error)
}

type ConsentService struct {
	Repo ConsentRepo
}

// Get returns the stored choices, or the necessary-only default when the user never chose.
func (s *ConsentService) Get(ctx context.Context, userID int) (models.Consent, error) {
	c, err := s.Repo.GetConsent(ctx, userID)
	if errors.Is(err, models.ErrNoRecord) {
		return models.Consent{UserID: userID, Necessary: true}, nil
	}
	if err != nil {
		return models.Consent{}, err
	}
	c.Necessary = true
	return c, nil
}

func (s *ConsentService) Save(ctx context.Context, userID int, req models.ConsentRequest) (models.Consent, error) {
	return s.Repo.SaveConsent(ctx, models.Consent{
		UserID:    userID,
		Necessary: true,
		Analytics: req.Analytics,
		Marketing: req.Marketing,
	})
}
