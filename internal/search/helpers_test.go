package search

import (
	"time"

	"tecawayBack/internal/models"
)

func ptr[T any](v T) *T { return &v }

func day(s string) *time.Time {
	t, err := time.Parse("2006-01-02", s)
	if err != nil {
		panic(err)
	}
	return &t
}

func names(list []models.User) []string {
	out := make([]string, 0, len(list))
	for _, u := range list {
		out = append(out, u.Name)
	}
	return out
}

func tech(id int, name string, opts ...func(*models.User)) models.User {
	u := models.User{ID: id, Name: name, Roles: []string{models.RoleTechnician}}
	for _, o := range opts {
		o(&u)
	}
	return u
}

func at(lat, lon float64) func(*models.User) {
	return func(u *models.User) {
		u.Latitude = ptr(lat)
		u.Longitude = ptr(lon)
	}
}

func mobile(u *models.User) { u.CanMove = true }

func inTown(town string) func(*models.User) {
	return func(u *models.User) { u.Town = ptr(town) }
}

func created(s string) func(*models.User) {
	return func(u *models.User) { u.CreatedAt = day(s) }
}
