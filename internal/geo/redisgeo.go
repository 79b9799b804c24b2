package geo

import (
	"context"
	"fmt"

	"github.com/redis/go-redis/v9"
)

const userLocationsKey = "tecaway:locations:users"

// LocationCache keeps the last known coordinates of users in a Redis GEO set.
type LocationCache struct {
	rdb *redis.Client
	key string
}

// NewLocationCache creates a cache backed by rdb.
func NewLocationCache(rdb *redis.Client) *LocationCache {
	return &LocationCache{rdb: rdb, key: userLocationsKey}
}

func memberName(userID int) string {
	return fmt.Sprintf("user:%d", userID)
}

// Set stores coordinates for the user. Invalid points are rejected.
func (l *LocationCache) Set(ctx context.Context, userID int, c Coordinates) error {
	if !IsValidCoordinates(&c) {
		return fmt.Errorf("location cache: invalid coords lat=%.8f lon=%.8f", c.Latitude, c.Longitude)
	}
	// Redis GEO cannot index the poles; such points are only kept in MySQL.
	if c.Latitude > 85.05112878 || c.Latitude < -85.05112878 {
		return l.Remove(ctx, userID)
	}
	return l.rdb.GeoAdd(ctx, l.key, &redis.GeoLocation{
		Name:      memberName(userID),
		Longitude: c.Longitude,
		Latitude:  c.Latitude,
	}).Err()
}

// Get returns the cached coordinates of a user, or nil if none are stored.
func (l *LocationCache) Get(ctx context.Context, userID int) (*Coordinates, error) {
	pos, err := l.rdb.GeoPos(ctx, l.key, memberName(userID)).Result()
	if err != nil {
		if err == redis.Nil {
			return nil, nil
		}
		return nil, err
	}
	if len(pos) == 0 || pos[0] == nil {
		return nil, nil
	}
	return &Coordinates{Latitude: pos[0].Latitude, Longitude: pos[0].Longitude}, nil
}

// Remove drops the user's coordinates.
func (l *LocationCache) Remove(ctx context.Context, userID int) error {
	return l.rdb.ZRem(ctx, l.key, memberName(userID)).Err()
}
