package search

import (
	"math"

	"tecawayBack/internal/geo"
	"tecawayBack/internal/models"
)

const (
	// Technicians willing to relocate are matched much further away than the
	// requested radius: twice the radius, and never less than this floor.
	mobileMinRangeKm      = 1000.0
	mobileRangeMultiplier = 2.0
)

// effectiveRange is the distance a technician may be from the searcher.
func effectiveRange(tech models.User, radiusKm float64) float64 {
	if tech.CanMove {
		return math.Max(mobileMinRangeKm, radiusKm*mobileRangeMultiplier)
	}
	return radiusKm
}

// FilterByDistance keeps technicians within range of userLocation. Without a
// location or a radius the input is returned unchanged. Technicians without
// valid coordinates never pass a distance constraint.
func FilterByDistance(techs []models.User, userLocation *geo.Coordinates, radiusKm *float64) []models.User {
	if userLocation == nil || radiusKm == nil {
		return techs
	}

	out := make([]models.User, 0, len(techs))
	for _, t := range techs {
		coords := t.Coordinates()
		if !geo.IsValidCoordinates(coords) {
			continue
		}
		if geo.CalculateDistance(*userLocation, *coords) <= effectiveRange(t, *radiusKm) {
			out = append(out, t)
		}
	}
	return out
}

// CalculateDistanceToTechnician returns nil when either side has no usable position.
func CalculateDistanceToTechnician(userLocation *geo.Coordinates, tech models.User) *float64 {
	if userLocation == nil {
		return nil
	}
	coords := tech.Coordinates()
	if !geo.IsValidCoordinates(coords) {
		return nil
	}
	d := geo.CalculateDistance(*userLocation, *coords)
	return &d
}

// EnrichWithDistance attaches distances where they can be computed.
func EnrichWithDistance(list []models.User, userLocation *geo.Coordinates) []models.TechnicianWithDistance {
	out := make([]models.TechnicianWithDistance, 0, len(list))
	for _, t := range list {
		entry := models.TechnicianWithDistance{User: t}
		if d := CalculateDistanceToTechnician(userLocation, t); d != nil {
			entry.Distance = d
			entry.DistanceLabel = geo.FormatDistance(*d)
		}
		out = append(out, entry)
	}
	return out
}
