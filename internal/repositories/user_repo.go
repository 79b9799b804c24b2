package repositories

import (
	"context"
	"database/sql"
	"errors"
	"strings"
	"time"

	"github.com/go-sql-driver/mysql"

	"tecawayBack/internal/geo"
	"tecawayBack/internal/models"
)

var (
	ErrUserNotFound = models.ErrUserNotFound
)

const (
	mysqlDuplicateEntry = 1062 // ER_DUP_ENTRY
	mysqlNoReferenced   = 1452 // ER_NO_REFERENCED_ROW_2
)

type UserRepository struct {
	DB *sql.DB
}

const userColumns = `id, email, name, password, title, description, town, country, can_move, photo, latitude, longitude, roles, created_at, updated_at`

type rowScanner interface {
	Scan(dest ...any) error
}

func scanUser(row rowScanner) (models.User, error) {
	var (
		user     models.User
		lat, lon sql.NullString
		roles    string
	)
	err := row.Scan(
		&user.ID, &user.Email, &user.Name, &user.Password,
		&user.Title, &user.Description, &user.Town, &user.Country,
		&user.CanMove, &user.Photo, &lat, &lon, &roles,
		&user.CreatedAt, &user.UpdatedAt,
	)
	if err != nil {
		return models.User{}, err
	}
	user.Latitude = toFloatPtr(lat)
	user.Longitude = toFloatPtr(lon)
	user.Roles = splitRoles(roles)
	return user, nil
}

func toFloatPtr(value sql.NullString) *float64 {
	if !value.Valid {
		return nil
	}
	return geo.ParseCoordinate(&value.String)
}

func splitRoles(raw string) []string {
	roles := make([]string, 0)
	for _, r := range strings.Split(raw, ",") {
		if r = strings.TrimSpace(r); r != "" {
			roles = append(roles, r)
		}
	}
	return roles
}

func mysqlErrorIs(err error, number uint16) bool {
	var me *mysql.MySQLError
	return errors.As(err, &me) && me.Number == number
}

func isDuplicate(err error) bool            { return mysqlErrorIs(err, mysqlDuplicateEntry) }
func isForeignKeyViolation(err error) bool { return mysqlErrorIs(err, mysqlNoReferenced) }

func (r *UserRepository) CreateUser(ctx context.Context, user models.User) (models.User, error) {
	query := `
		INSERT INTO users (email, name, password, title, description, town, country, can_move, latitude, longitude, roles, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`
	now := time.Now()
	user.CreatedAt = &now
	user.UpdatedAt = &now

	result, err := r.DB.ExecContext(ctx, query,
		user.Email, user.Name, user.Password, user.Title, user.Description, user.Town, user.Country,
		user.CanMove, user.Latitude, user.Longitude, strings.Join(user.Roles, ","), now, now,
	)
	if err != nil {
		if isDuplicate(err) {
			return models.User{}, models.ErrDuplicateEmail
		}
		return models.User{}, err
	}

	id, err := result.LastInsertId()
	if err != nil {
		return models.User{}, err
	}
	user.ID = int(id)
	return user, nil
}

func (r *UserRepository) GetUserByID(ctx context.Context, id int) (models.User, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE id = ?`
	user, err := scanUser(r.DB.QueryRowContext(ctx, query, id))
	if errors.Is(err, sql.ErrNoRows) {
		return models.User{}, ErrUserNotFound
	}
	return user, err
}

func (r *UserRepository) GetUserByEmail(ctx context.Context, email string) (models.User, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE email = ?`
	user, err := scanUser(r.DB.QueryRowContext(ctx, query, email))
	if errors.Is(err, sql.ErrNoRows) {
		return models.User{}, ErrUserNotFound
	}
	return user, err
}

// UpdateUser writes the editable profile columns.
func (r *UserRepository) UpdateUser(ctx context.Context, user models.User) (models.User, error) {
	query := `
		UPDATE users
		SET name = ?, title = ?, description = ?, town = ?, country = ?, can_move = ?, latitude = ?, longitude = ?, updated_at = ?
		WHERE id = ?
	`
	now := time.Now()
	result, err := r.DB.ExecContext(ctx, query,
		user.Name, user.Title, user.Description, user.Town, user.Country, user.CanMove,
		user.Latitude, user.Longitude, now, user.ID,
	)
	if err != nil {
		return models.User{}, err
	}
	if err := requireRow(result, ErrUserNotFound); err != nil {
		return models.User{}, err
	}
	user.UpdatedAt = &now
	return user, nil
}

func (r *UserRepository) UpdatePhoto(ctx context.Context, userID int, photo string) error {
	result, err := r.DB.ExecContext(ctx, `UPDATE users SET photo = ?, updated_at = ? WHERE id = ?`, photo, time.Now(), userID)
	if err != nil {
		return err
	}
	return requireRow(result, ErrUserNotFound)
}

func (r *UserRepository) DeleteUser(ctx context.Context, id int) error {
	result, err := r.DB.ExecContext(ctx, `DELETE FROM users WHERE id = ?`, id)
	if err != nil {
		return err
	}
	return requireRow(result, ErrUserNotFound)
}

// GetTechnicians returns every user holding the technician role, newest first.
func (r *UserRepository) GetTechnicians(ctx context.Context) ([]models.User, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE FIND_IN_SET(?, roles) > 0 ORDER BY created_at DESC`
	rows, err := r.DB.QueryContext(ctx, query, models.RoleTechnician)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	users := make([]models.User, 0)
	for rows.Next() {
		u, err := scanUser(rows)
		if err != nil {
			return nil, err
		}
		users = append(users, u)
	}
	return users, rows.Err()
}

func (r *UserRepository) SetSession(ctx context.Context, userID int, session models.Session) error {
	query := `UPDATE users SET refresh_token = ?, expires_at = ? WHERE id = ?`
	result, err := r.DB.ExecContext(ctx, query, session.RefreshToken, session.ExpiresAt, userID)
	if err != nil {
		return err
	}
	return requireRow(result, ErrUserNotFound)
}

// GetSessionByToken finds the owner of a refresh token.
func (r *UserRepository) GetSessionByToken(ctx context.Context, token string) (models.Session, error) {
	query := `SELECT id, roles, refresh_token, expires_at FROM users WHERE refresh_token = ?`

	var (
		session models.Session
		roles   string
	)
	err := r.DB.QueryRowContext(ctx, query, token).Scan(&session.UserID, &roles, &session.RefreshToken, &session.ExpiresAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return models.Session{}, models.ErrInvalidToken
		}
		return models.Session{}, err
	}
	if rs := splitRoles(roles); len(rs) > 0 {
		session.Role = rs[0]
	}
	return session, nil
}

func (r *UserRepository) ClearSession(ctx context.Context, userID int) error {
	_, err := r.DB.ExecContext(ctx, `UPDATE users SET refresh_token = NULL, expires_at = NULL WHERE id = ?`, userID)
	return err
}

func requireRow(result sql.Result, notFound error) error {
	n, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return notFound
	}
	return nil
}
