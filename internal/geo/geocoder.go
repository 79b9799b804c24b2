package geo

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"
)

const (
	defaultGeocoderURL = "https://nominatim.openstreetmap.org"
	geocodeTimeout     = 7 * time.Second
	geocoderUserAgent  = "tecaway-backend/1.0"
)

// ErrNoGeocodeResult is returned when the provider knows no place for the query.
var ErrNoGeocodeResult = errors.New("geocode: no results")

// Geocoder resolves free-form places ("Madrid, España") to coordinates using a
// Nominatim compatible search API.
type Geocoder struct {
	httpClient *http.Client
	baseURL    string
	language   string
}

// NewGeocoder constructs a geocoder. Empty baseURL uses the public Nominatim instance.
func NewGeocoder(httpClient *http.Client, baseURL, language string) *Geocoder {
	if httpClient == nil {
		httpClient = &http.Client{Timeout: 5 * time.Second}
	}
	if baseURL == "" {
		baseURL = defaultGeocoderURL
	}
	if language == "" {
		language = "es"
	}
	return &Geocoder{httpClient: httpClient, baseURL: strings.TrimRight(baseURL, "/"), language: language}
}

// tryParseLatLon returns the point if query looks like "lat,lon".
func tryParseLatLon(query string) (Coordinates, bool) {
	q := strings.TrimSpace(query)
	sep := ","
	if strings.Contains(q, ";") {
		sep = ";"
	}
	parts := strings.Split(q, sep)
	if len(parts) != 2 {
		return Coordinates{}, false
	}
	lat, err1 := strconv.ParseFloat(strings.TrimSpace(parts[0]), 64)
	lon, err2 := strconv.ParseFloat(strings.TrimSpace(parts[1]), 64)
	if err1 != nil || err2 != nil {
		return Coordinates{}, false
	}
	c := Coordinates{Latitude: lat, Longitude: lon}
	if !IsValidCoordinates(&c) {
		return Coordinates{}, false
	}
	return c, true
}

// Geocode returns the best match for query.
func (g *Geocoder) Geocode(ctx context.Context, query string) (*Coordinates, error) {
	if strings.TrimSpace(query) == "" {
		return nil, errors.New("geocode: empty query")
	}
	if c, ok := tryParseLatLon(query); ok {
		return &c, nil
	}

	ctx, cancel := context.WithTimeout(ctx, geocodeTimeout)
	defer cancel()

	params := url.Values{}
	params.Set("q", query)
	params.Set("format", "json")
	params.Set("limit", "1")
	params.Set("accept-language", g.language)

	endpoint := fmt.Sprintf("%s/search?%s", g.baseURL, params.Encode())
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, fmt.Errorf("geocode: build request: %w", err)
	}
	req.Header.Set("User-Agent", geocoderUserAgent)
	req.Header.Set("Accept", "application/json")

	resp, err := g.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("geocode: do request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 300 {
		b, _ := io.ReadAll(io.LimitReader(resp.Body, 4<<10))
		return nil, fmt.Errorf("geocode: http %s: %s", resp.Status, strings.TrimSpace(string(b)))
	}

	var payload []struct {
		Lat string `json:"lat"`
		Lon string `json:"lon"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return nil, fmt.Errorf("geocode: decode: %w", err)
	}
	if len(payload) == 0 {
		return nil, ErrNoGeocodeResult
	}

	lat := ParseCoordinate(&payload[0].Lat)
	lon := ParseCoordinate(&payload[0].Lon)
	c := NewCoordinates(lat, lon)
	if !IsValidCoordinates(c) {
		return nil, fmt.Errorf("geocode: invalid coordinates %q,%q", payload[0].Lat, payload[0].Lon)
	}
	return c, nil
}
