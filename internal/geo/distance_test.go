package geo

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
)

var (
	madrid    = Coordinates{Latitude: 40.4168, Longitude: -3.7038}
	barcelona = Coordinates{Latitude: 41.3851, Longitude: 2.1734}
)

func TestIsValidCoordinates(t *testing.T) {
	cases := []struct {
		name string
		in   *Coordinates
		want bool
	}{
		{"nil", nil, false},
		{"upper bounds", &Coordinates{Latitude: 90, Longitude: 180}, true},
		{"lower bounds", &Coordinates{Latitude: -90, Longitude: -180}, true},
		{"latitude above range", &Coordinates{Latitude: 90.0001, Longitude: 0}, false},
		{"longitude below range", &Coordinates{Latitude: 0, Longitude: -180.5}, false},
		{"nan", &Coordinates{Latitude: math.NaN(), Longitude: 0}, false},
		{"madrid", &madrid, true},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, IsValidCoordinates(tc.in))
		})
	}
}

func TestCalculateDistanceSymmetryAndIdentity(t *testing.T) {
	points := []Coordinates{
		madrid,
		barcelona,
		{Latitude: -33.8688, Longitude: 151.2093},
		{Latitude: 90, Longitude: 0},
		{Latitude: 0.0001, Longitude: -179.9999},
	}

	for _, a := range points {
		assert.Equal(t, 0.0, CalculateDistance(a, a))
		for _, b := range points {
			assert.Equal(t, CalculateDistance(a, b), CalculateDistance(b, a), "%v <-> %v", a, b)
		}
	}
}

func TestCalculateDistanceMadridBarcelona(t *testing.T) {
	d := CalculateDistance(madrid, barcelona)

	assert.InDelta(t, 504, d, 2)
	assert.Equal(t, math.Round(d*10)/10, d, "rounded to one decimal")
}

func TestFormatDistance(t *testing.T) {
	cases := []struct {
		km   float64
		want string
	}{
		{0.5, "500 m"},
		{0, "0 m"},
		{0.0124, "12 m"},
		{5.234, "5.2 km"},
		{1, "1.0 km"},
		{504.3, "504.3 km"},
	}

	for _, tc := range cases {
		assert.Equal(t, tc.want, FormatDistance(tc.km))
	}
}

func TestParseCoordinate(t *testing.T) {
	str := func(s string) *string { return &s }

	assert.Nil(t, ParseCoordinate(nil))
	assert.Nil(t, ParseCoordinate(str("")))
	assert.Nil(t, ParseCoordinate(str("north")))
	if v := ParseCoordinate(str(" 40.4168 ")); assert.NotNil(t, v) {
		assert.Equal(t, 40.4168, *v)
	}
}

func TestNewCoordinates(t *testing.T) {
	lat, lon := 1.5, 2.5

	assert.Nil(t, NewCoordinates(&lat, nil))
	assert.Nil(t, NewCoordinates(nil, &lon))
	assert.Equal(t, &Coordinates{Latitude: 1.5, Longitude: 2.5}, NewCoordinates(&lat, &lon))
}
