package search

import (
	"slices"
	"strings"
	"time"

	"golang.org/x/text/collate"
	"golang.org/x/text/language"

	"tecawayBack/internal/geo"
	"tecawayBack/internal/models"
)

var sortLabels = map[models.SortType]string{
	models.SortRecent:   "Más recientes",
	models.SortName:     "Nombre (A-Z)",
	models.SortDistance: "Distancia",
}

// ParseSortType maps client input to a sort type. Unknown values are kept as
// given so Sort leaves the order untouched for them.
func ParseSortType(raw string) models.SortType {
	s := strings.ToLower(strings.TrimSpace(raw))
	if s == "" {
		return models.SortRecent
	}
	return models.SortType(s)
}

// AvailableSortOptions lists the sort choices; distance needs a location.
func AvailableSortOptions(hasLocation bool) []models.SortOption {
	opts := []models.SortOption{
		{Value: models.SortRecent, Label: sortLabels[models.SortRecent]},
		{Value: models.SortName, Label: sortLabels[models.SortName]},
	}
	if hasLocation {
		opts = append(opts, models.SortOption{Value: models.SortDistance, Label: sortLabels[models.SortDistance]})
	}
	return opts
}

// Sort returns a sorted copy of list. The input is never modified.
func Sort(list []models.User, sortType models.SortType, userLocation *geo.Coordinates) []models.User {
	switch sortType {
	case models.SortRecent:
		return sortRecent(list)
	case models.SortName:
		return sortName(list)
	case models.SortDistance:
		if userLocation == nil {
			return sortRecent(list)
		}
		return sortDistance(list, *userLocation)
	default:
		return cloneSlice(list)
	}
}

// Missing creation dates sort as the Unix epoch.
var epoch = time.Unix(0, 0)

func createdAtOrEpoch(u models.User) time.Time {
	if u.CreatedAt == nil {
		return epoch
	}
	return *u.CreatedAt
}

func sortRecent(list []models.User) []models.User {
	out := cloneSlice(list)
	slices.SortStableFunc(out, func(a, b models.User) int {
		return createdAtOrEpoch(b).Compare(createdAtOrEpoch(a))
	})
	return out
}

func sortName(list []models.User) []models.User {
	out := cloneSlice(list)
	c := collate.New(language.Spanish, collate.IgnoreCase)
	slices.SortStableFunc(out, func(a, b models.User) int {
		return c.CompareString(a.Name, b.Name)
	})
	return out
}

func sortDistance(list []models.User, from geo.Coordinates) []models.User {
	type ranked struct {
		user models.User
		dist *float64
	}
	items := make([]ranked, 0, len(list))
	for _, u := range list {
		items = append(items, ranked{user: u, dist: CalculateDistanceToTechnician(&from, u)})
	}

	slices.SortStableFunc(items, func(a, b ranked) int {
		switch {
		case a.dist == nil && b.dist == nil:
			return 0
		case a.dist == nil:
			return 1
		case b.dist == nil:
			return -1
		case *a.dist < *b.dist:
			return -1
		case *a.dist > *b.dist:
			return 1
		}
		return 0
	})

	out := make([]models.User, 0, len(items))
	for _, it := range items {
		out = append(out, it.user)
	}
	return out
}
