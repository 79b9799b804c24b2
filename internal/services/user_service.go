package services

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"tecawayBack/internal/geo"
	"tecawayBack/internal/metrics"
	"tecawayBack/internal/models"
	"tecawayBack/internal/search"
	"tecawayBack/internal/storage"
)

const (
	defaultAccessTTL  = 15 * time.Minute
	defaultRefreshTTL = 30 * 24 * time.Hour
	maxPhotoBytes     = 5 << 20
)

type UserRepo interface {
	CreateUser(ctx context.Context, user models.User) (models.User, error)
	GetUserByID(ctx context.Context, id int) (models.User, error)
	GetUserByEmail(ctx context.Context, email string) (models.User, error)
	UpdateUser(ctx context.Context, user models.User) (models.User, error)
	UpdatePhoto(ctx context.Context, userID int, photo string) error
	DeleteUser(ctx context.Context, id int) error
	GetTechnicians(ctx context.Context) ([]models.User, error)
	SetSession(ctx context.Context, userID int, session models.Session) error
	GetSessionByToken(ctx context.Context, token string) (models.Session, error)
	ClearSession(ctx context.Context, userID int) error
}

type TokenIssuer interface {
	NewJWT(userID int, role string, ttl time.Duration) (string, error)
	NewRefreshToken() (string, error)
}

type Geocoder interface {
	Geocode(ctx context.Context, query string) (*geo.Coordinates, error)
}

type UserService struct {
	UserRepo   UserRepo
	Tokens     TokenIssuer
	Photos     storage.PhotoStorage
	Geocoder   Geocoder
	Locations  LocationCache
	Logger     Logger
	AccessTTL  time.Duration
	RefreshTTL time.Duration
	now        func() time.Time
}

func (s *UserService) clock() time.Time {
	if s.now != nil {
		return s.now()
	}
	return time.Now()
}

func (s *UserService) SignUp(ctx context.Context, req models.SignUpRequest) (models.SignUpResponse, error) {
	req.Email = strings.ToLower(strings.TrimSpace(req.Email))
	req.Name = strings.TrimSpace(req.Name)
	if err := validateRequest(req); err != nil {
		return models.SignUpResponse{}, err
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return models.SignUpResponse{}, err
	}

	role := req.Role
	if role == "" {
		role = models.RoleClient
	}
	user := models.User{
		Email:    req.Email,
		Name:     req.Name,
		Password: string(hash),
		Roles:    []string{role},
	}
	if req.Town != "" {
		user.Town = &req.Town
	}
	if req.Country != "" {
		user.Country = &req.Country
	}
	s.resolveTown(ctx, &user)

	created, err := s.UserRepo.CreateUser(ctx, user)
	if err != nil {
		return models.SignUpResponse{}, err
	}
	s.syncLocationCache(ctx, created)

	tokens, err := s.issueTokens(ctx, created.ID, role)
	if err != nil {
		return models.SignUpResponse{}, err
	}
	return models.SignUpResponse{User: created, Tokens: tokens}, nil
}

func (s *UserService) SignIn(ctx context.Context, req models.SignInRequest) (models.Tokens, error) {
	req.Email = strings.ToLower(strings.TrimSpace(req.Email))
	if err := validateRequest(req); err != nil {
		return models.Tokens{}, err
	}

	user, err := s.UserRepo.GetUserByEmail(ctx, req.Email)
	if errors.Is(err, models.ErrUserNotFound) {
		return models.Tokens{}, models.ErrInvalidCredentials
	}
	if err != nil {
		return models.Tokens{}, err
	}
	if bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(req.Password)) != nil {
		return models.Tokens{}, models.ErrInvalidCredentials
	}

	return s.issueTokens(ctx, user.ID, primaryRole(user))
}

// Refresh exchanges a valid refresh token for a new pair; the old refresh token stops working.
func (s *UserService) Refresh(ctx context.Context, refreshToken string) (models.Tokens, error) {
	if refreshToken == "" {
		return models.Tokens{}, models.ErrInvalidToken
	}
	session, err := s.UserRepo.GetSessionByToken(ctx, refreshToken)
	if err != nil {
		return models.Tokens{}, err
	}
	if !session.ExpiresAt.After(s.clock()) {
		return models.Tokens{}, models.ErrInvalidToken
	}
	return s.issueTokens(ctx, session.UserID, session.Role)
}

func (s *UserService) SignOut(ctx context.Context, userID int) error {
	return s.UserRepo.ClearSession(ctx, userID)
}

func (s *UserService) issueTokens(ctx context.Context, userID int, role string) (models.Tokens, error) {
	accessTTL, refreshTTL := s.AccessTTL, s.RefreshTTL
	if accessTTL <= 0 {
		accessTTL = defaultAccessTTL
	}
	if refreshTTL <= 0 {
		refreshTTL = defaultRefreshTTL
	}

	access, err := s.Tokens.NewJWT(userID, role, accessTTL)
	if err != nil {
		return models.Tokens{}, fmt.Errorf("sign access token: %w", err)
	}
	refresh, err := s.Tokens.NewRefreshToken()
	if err != nil {
		return models.Tokens{}, fmt.Errorf("refresh token: %w", err)
	}

	err = s.UserRepo.SetSession(ctx, userID, models.Session{
		UserID:       userID,
		Role:         role,
		RefreshToken: refresh,
		ExpiresAt:    s.clock().Add(refreshTTL),
	})
	if err != nil {
		return models.Tokens{}, err
	}
	return models.Tokens{AccessToken: access, RefreshToken: refresh}, nil
}

func primaryRole(u models.User) string {
	if len(u.Roles) == 0 {
		return models.RoleClient
	}
	return u.Roles[0]
}

func (s *UserService) GetUser(ctx context.Context, id int) (models.User, error) {
	return s.UserRepo.GetUserByID(ctx, id)
}

// GetTechnicians returns the technician directory, newest first.
func (s *UserService) GetTechnicians(ctx context.Context) ([]models.User, error) {
	list, err := s.UserRepo.GetTechnicians(ctx)
	if err != nil {
		return nil, fmt.Errorf("load technicians: %w", err)
	}
	return search.Sort(list, models.SortRecent, nil), nil
}

// UpdateProfile applies the non-nil fields of req. Coordinates must come in
// pairs and be valid; a changed town without coordinates is geocoded.
func (s *UserService) UpdateProfile(ctx context.Context, actor models.Actor, id int, req models.UpdateProfileRequest) (models.User, error) {
	if !actor.CanEdit(id) {
		return models.User{}, models.ErrForbidden
	}
	if err := validateRequest(req); err != nil {
		return models.User{}, err
	}

	user, err := s.UserRepo.GetUserByID(ctx, id)
	if err != nil {
		return models.User{}, err
	}

	townChanged := req.Town != nil && (user.Town == nil || *user.Town != *req.Town)

	if req.Name != nil {
		user.Name = strings.TrimSpace(*req.Name)
	}
	if req.Title != nil {
		user.Title = req.Title
	}
	if req.Description != nil {
		user.Description = req.Description
	}
	if req.Town != nil {
		user.Town = req.Town
	}
	if req.Country != nil {
		user.Country = req.Country
	}
	if req.CanMove != nil {
		user.CanMove = *req.CanMove
	}

	switch {
	case req.Latitude != nil || req.Longitude != nil:
		c := geo.NewCoordinates(req.Latitude, req.Longitude)
		if !geo.IsValidCoordinates(c) {
			return models.User{}, models.ErrInvalidLocation
		}
		user.Latitude, user.Longitude = req.Latitude, req.Longitude
	case townChanged:
		user.Latitude, user.Longitude = nil, nil
		s.resolveTown(ctx, &user)
	}

	updated, err := s.UserRepo.UpdateUser(ctx, user)
	if err != nil {
		return models.User{}, err
	}
	s.syncLocationCache(ctx, updated)
	return updated, nil
}

// resolveTown fills missing coordinates from the town name. Failures are logged, not returned.
func (s *UserService) resolveTown(ctx context.Context, user *models.User) {
	if s.Geocoder == nil || user.Town == nil || strings.TrimSpace(*user.Town) == "" {
		return
	}
	if geo.IsValidCoordinates(user.Coordinates()) {
		return
	}

	query := *user.Town
	if user.Country != nil && *user.Country != "" {
		query += ", " + *user.Country
	}
	c, err := s.Geocoder.Geocode(ctx, query)
	if err != nil {
		metrics.GeocodeFailures.Inc()
		loggerOrNop(s.Logger).Errorf("geocode %q: %v", query, err)
		return
	}
	lat, lon := c.Latitude, c.Longitude
	user.Latitude, user.Longitude = &lat, &lon
}

func (s *UserService) syncLocationCache(ctx context.Context, user models.User) {
	if s.Locations == nil {
		return
	}
	var err error
	if c := user.Coordinates(); geo.IsValidCoordinates(c) {
		err = s.Locations.Set(ctx, user.ID, *c)
	} else {
		err = s.Locations.Remove(ctx, user.ID)
	}
	if err != nil {
		loggerOrNop(s.Logger).Errorf("location cache user=%d: %v", user.ID, err)
	}
}

// UploadPhoto stores the picture and records its URL on the profile.
func (s *UserService) UploadPhoto(ctx context.Context, actor models.Actor, id int, filename string, body []byte) (string, error) {
	if !actor.CanEdit(id) {
		return "", models.ErrForbidden
	}
	if s.Photos == nil {
		return "", storage.ErrStorageDisabled
	}
	if len(body) == 0 || len(body) > maxPhotoBytes {
		return "", fmt.Errorf("%w: photo must be between 1 byte and 5 MB", models.ErrInvalidInput)
	}

	ext := strings.ToLower(filepath.Ext(filename))
	if ext == "" {
		ext = ".jpg"
	}
	url, err := s.Photos.Upload(ctx, fmt.Sprintf("users/%d", id), uuid.NewString()+ext, body)
	if err != nil {
		return "", err
	}
	if err := s.UserRepo.UpdatePhoto(ctx, id, url); err != nil {
		return "", err
	}
	return url, nil
}

func (s *UserService) DeleteUser(ctx context.Context, actor models.Actor, id int) error {
	if !actor.CanEdit(id) {
		return models.ErrForbidden
	}
	if err := s.UserRepo.DeleteUser(ctx, id); err != nil {
		return err
	}
	if s.Locations != nil {
		if err := s.Locations.Remove(ctx, id); err != nil {
			loggerOrNop(s.Logger).Errorf("location cache user=%d: %v", id, err)
		}
	}
	return nil
}
