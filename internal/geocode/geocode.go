// Package geocode resolves delivery addresses to coordinates.
package geocode

import (
	"context"
	"encoding/json"
	"fmt"
	"math"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/Beka01247/brewline/internal/domain"
	"go.uber.org/zap"
)

const earthRadiusKm = 6371.0

type Config struct {
	BaseURL      string
	UserAgent    string
	ShopLocation domain.Location
	Timeout      time.Duration
}

// Client queries a Nominatim-compatible search endpoint.
type Client struct {
	baseURL   string
	userAgent string
	shop      domain.Location
	http      *http.Client
	logger    *zap.SugaredLogger
}

func New(cfg Config, logger *zap.SugaredLogger) *Client {
	if cfg.Timeout <= 0 {
		cfg.Timeout = 5 * time.Second
	}

	return &Client{
		baseURL:   cfg.BaseURL,
		userAgent: cfg.UserAgent,
		shop:      cfg.ShopLocation,
		http:      &http.Client{Timeout: cfg.Timeout},
		logger:    logger,
	}
}

type searchResult struct {
	Lat string `json:"lat"`
	Lon string `json:"lon"`
}

// Locate never fails: when the address cannot be resolved it returns the
// shop's coordinates.
func (c *Client) Locate(ctx context.Context, address string) domain.Location {
	loc, err := c.lookup(ctx, address)
	if err != nil {
		c.logger.Warnw("geocoding failed, using shop location", "address", address, "error", err)
		return c.shop
	}

	return loc
}

func (c *Client) ShopLocation() domain.Location {
	return c.shop
}

func (c *Client) lookup(ctx context.Context, address string) (domain.Location, error) {
	if c.baseURL == "" {
		return domain.Location{}, fmt.Errorf("geocoder not configured")
	}

	q := url.Values{}
	q.Set("q", address)
	q.Set("format", "json")
	q.Set("limit", "1")

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/search?"+q.Encode(), nil)
	if err != nil {
		return domain.Location{}, fmt.Errorf("failed to build request: %w", err)
	}
	if c.userAgent != "" {
		req.Header.Set("User-Agent", c.userAgent)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return domain.Location{}, fmt.Errorf("failed to query geocoder: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return domain.Location{}, fmt.Errorf("geocoder returned %d", resp.StatusCode)
	}

	var results []searchResult
	if err := json.NewDecoder(resp.Body).Decode(&results); err != nil {
		return domain.Location{}, fmt.Errorf("failed to decode geocoder response: %w", err)
	}
	if len(results) == 0 {
		return domain.Location{}, fmt.Errorf("no match for address")
	}

	lat, err := strconv.ParseFloat(results[0].Lat, 64)
	if err != nil {
		return domain.Location{}, fmt.Errorf("invalid latitude: %w", err)
	}
	lon, err := strconv.ParseFloat(results[0].Lon, 64)
	if err != nil {
		return domain.Location{}, fmt.Errorf("invalid longitude: %w", err)
	}

	return domain.Location{Lat: lat, Lon: lon}, nil
}

// Distance returns the great-circle distance between two points in km.
func Distance(a, b domain.Location) float64 {
	lat1 := degreesToRadians(a.Lat)
	lon1 := degreesToRadians(a.Lon)
	lat2 := degreesToRadians(b.Lat)
	lon2 := degreesToRadians(b.Lon)

	dlat := lat2 - lat1
	dlon := lon2 - lon1
	h := math.Pow(math.Sin(dlat/2), 2) + math.Cos(lat1)*math.Cos(lat2)*math.Pow(math.Sin(dlon/2), 2)

	return earthRadiusKm * 2 * math.Atan2(math.Sqrt(h), math.Sqrt(1-h))
}

func degreesToRadians(degrees float64) float64 {
	return degrees * math.Pi / 180
}
