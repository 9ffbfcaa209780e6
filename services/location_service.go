package services

import (
	"SnapPlate/config/environment"
	"SnapPlate/models"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"
)

const locationTimeout = 10 * time.Second

var ErrLocationUnavailable = errors.New("location unavailable")

// LocationResolver looks up an approximate position for a client address.
type LocationResolver interface {
	Resolve(ctx context.Context, clientIP string) (*models.LocationData, error)
}

// LocationService wraps a resolver with a single-attempt, fixed-timeout
// lookup. Failures are best-effort: callers log them and scan without a
// location bias.
type LocationService struct {
	Resolver LocationResolver
}

func NewLocationService() *LocationService {
	return &LocationService{
		Resolver: NewIPLocationResolver(),
	}
}

func (s *LocationService) GetLocation(ctx context.Context, clientIP string) (*models.LocationData, error) {
	if s.Resolver == nil {
		return nil, ErrLocationUnavailable
	}

	ctx, cancel := context.WithTimeout(ctx, locationTimeout)
	defer cancel()

	location, err := s.Resolver.Resolve(ctx, clientIP)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrLocationUnavailable, err)
	}
	return location, nil
}

// IPLocationResolver resolves coordinates from an IP geolocation endpoint
// that answers {"latitude": ..., "longitude": ...}.
type IPLocationResolver struct {
	Endpoint string
	Client   *http.Client
}

func NewIPLocationResolver() *IPLocationResolver {
	return &IPLocationResolver{
		Endpoint: environment.GetGeolocationURL(),
		Client:   &http.Client{},
	}
}

func (r *IPLocationResolver) Resolve(ctx context.Context, clientIP string) (*models.LocationData, error) {
	if r.Endpoint == "" {
		return nil, errors.New("no geolocation endpoint configured")
	}

	lookupURL := r.Endpoint + "?ip=" + url.QueryEscape(clientIP)
	req, err := http.NewRequestWithContext(ctx, "GET", lookupURL, nil)
	if err != nil {
		return nil, err
	}

	resp, err := r.Client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		return nil, fmt.Errorf("geolocation request failed with status %d: %s", resp.StatusCode, string(body))
	}

	var location models.LocationData
	if err := json.NewDecoder(resp.Body).Decode(&location); err != nil {
		return nil, fmt.Errorf("error parsing geolocation response: %w", err)
	}
	return &location, nil
}
