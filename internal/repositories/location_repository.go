package repositories

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"tecawayBack/internal/models"
)

// LocationRepository handles persistence for user locations.
type LocationRepository struct {
	DB *sql.DB
}

// SetLocation stores the latest coordinates for a user.
func (r *LocationRepository) SetLocation(ctx context.Context, loc models.Location) error {
	query := `UPDATE users SET latitude = ?, longitude = ?, updated_at = ? WHERE id = ?`
	result, err := r.DB.ExecContext(ctx, query, loc.Latitude, loc.Longitude, time.Now(), loc.UserID)
	if err != nil {
		return err
	}
	return requireRow(result, ErrUserNotFound)
}

// GetLocation retrieves last known coordinates for a user.
func (r *LocationRepository) GetLocation(ctx context.Context, userID int) (models.Location, error) {
	loc := models.Location{UserID: userID}
	var lat, lon sql.NullString
	err := r.DB.QueryRowContext(ctx, `SELECT latitude, longitude FROM users WHERE id = ?`, userID).Scan(&lat, &lon)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return loc, ErrUserNotFound
		}
		return loc, err
	}
	loc.Latitude = toFloatPtr(lat)
	loc.Longitude = toFloatPtr(lon)
	return loc, nil
}

// ClearLocation removes coordinates.
func (r *LocationRepository) ClearLocation(ctx context.Context, userID int) error {
	_, err := r.DB.ExecContext(ctx, `UPDATE users SET latitude = NULL, longitude = NULL, updated_at = ? WHERE id = ?`, time.Now(), userID)
	return err
}
