package repositories

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"tecawayBack/internal/models"
)

type ConsentRepository struct {
	DB *sql.DB
}

// GetConsent returns models.ErrNoRecord when the user never answered the banner.
func (r *ConsentRepository) GetConsent(ctx context.Context, userID int) (models.Consent, error) {
	c := models.Consent{UserID: userID, Necessary: true}
	var updated time.Time
	err := r.DB.QueryRowContext(ctx,
		`SELECT analytics, marketing, updated_at FROM consents WHERE user_id = ?`, userID,
	).Scan(&c.Analytics, &c.Marketing, &updated)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return c, models.ErrNoRecord
		}
		return c, err
	}
	c.UpdatedAt = &updated
	return c, nil
}

func (r *ConsentRepository) SaveConsent(ctx context.Context, c models.Consent) (models.Consent, error) {
	now := time.Now()
	query := `
		INSERT INTO consents (user_id, analytics, marketing, updated_at)
		VALUES (?, ?, ?, ?)
		ON DUPLICATE KEY UPDATE analytics = VALUES(analytics), marketing = VALUES(marketing), updated_at = VALUES(updated_at)
	`
	if _, err := r.DB.ExecContext(ctx, query, c.UserID, c.Analytics, c.Marketing, now); err != nil {
		return models.Consent{}, err
	}
	c.Necessary = true
	c.UpdatedAt = &now
	return c, nil
}
