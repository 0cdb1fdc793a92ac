package geo

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/mvoronov/geobot/pkg/errors"
)

// Geocoder resolves a region name to its geometry.
type Geocoder interface {
	Lookup(ctx context.Context, name string) (RegionGeometry, error)
}

// Client talks to the Yandex geocode HTTP API. Failed requests are retried a
// fixed number of times with linear backoff; exhaustion surfaces as
// LOOKUP_FAILED and leaves the caller free to retry the whole guess.
type Client struct {
	baseURL    string
	apiKey     string
	httpClient *http.Client
	retries    int
	backoff    time.Duration
}

func NewClient(baseURL, apiKey string, timeout time.Duration, retries int) *Client {
	if baseURL == "" {
		baseURL = "https://geocode-maps.yandex.ru/1.x/"
	}
	if timeout <= 0 {
		timeout = 5 * time.Second
	}
	if retries < 0 {
		retries = 0
	}
	return &Client{
		baseURL:    baseURL,
		apiKey:     apiKey,
		httpClient: &http.Client{Timeout: timeout},
		retries:    retries,
		backoff:    500 * time.Millisecond,
	}
}

type geocodeResponse struct {
	Response struct {
		GeoObjectCollection struct {
			FeatureMember []struct {
				GeoObject struct {
					Point struct {
						Pos string `json:"pos"`
					} `json:"Point"`
					BoundedBy struct {
						Envelope struct {
							LowerCorner string `json:"lowerCorner"`
							UpperCorner string `json:"upperCorner"`
						} `json:"Envelope"`
					} `json:"boundedBy"`
				} `json:"GeoObject"`
			} `json:"featureMember"`
		} `json:"GeoObjectCollection"`
	} `json:"response"`
}

// Lookup resolves name to its center point and envelope size.
func (c *Client) Lookup(ctx context.Context, name string) (RegionGeometry, error) {
	var lastErr error
	for attempt := 0; attempt <= c.retries; attempt++ {
		if attempt > 0 {
			select {
			case <-ctx.Done():
				return RegionGeometry{}, errors.Wrap(ctx.Err(), errors.ErrCodeLookupFailed, "geocoder lookup canceled")
			case <-time.After(time.Duration(attempt) * c.backoff):
			}
		}

		geometry, err := c.lookupOnce(ctx, name)
		if err == nil {
			return geometry, nil
		}
		lastErr = err
		// Unknown names never resolve, retrying only burns quota
		if errors.Is(err, errors.ErrCodeNotFound) {
			break
		}
	}

	return RegionGeometry{}, errors.Wrap(lastErr, errors.ErrCodeLookupFailed, fmt.Sprintf("geocoder lookup failed for %q", name))
}

func (c *Client) lookupOnce(ctx context.Context, name string) (RegionGeometry, error) {
	values := url.Values{}
	values.Set("geocode", name)
	values.Set("format", "json")
	if c.apiKey != "" {
		values.Set("apikey", c.apiKey)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"?"+values.Encode(), nil)
	if err != nil {
		return RegionGeometry{}, err
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return RegionGeometry{}, err
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 300 {
		return RegionGeometry{}, fmt.Errorf("geocoder status %d", resp.StatusCode)
	}

	var payload geocodeResponse
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return RegionGeometry{}, err
	}

	members := payload.Response.GeoObjectCollection.FeatureMember
	if len(members) == 0 {
		return RegionGeometry{}, errors.New(errors.ErrCodeNotFound, "no geo object for name")
	}

	obj := members[0].GeoObject
	lon, lat, err := parseLonLat(obj.Point.Pos)
	if err != nil {
		return RegionGeometry{}, err
	}
	lowerLon, lowerLat, err := parseLonLat(obj.BoundedBy.Envelope.LowerCorner)
	if err != nil {
		return RegionGeometry{}, err
	}
	upperLon, upperLat, err := parseLonLat(obj.BoundedBy.Envelope.UpperCorner)
	if err != nil {
		return RegionGeometry{}, err
	}

	return RegionGeometry{
		Lon:    lon,
		Lat:    lat,
		Width:  upperLon - lowerLon,
		Height: upperLat - lowerLat,
	}, nil
}

// parseLonLat splits a "lon lat" pair as the geocoder encodes points.
func parseLonLat(pos string) (float64, float64, error) {
	fields := strings.Fields(pos)
	if len(fields) != 2 {
		return 0, 0, fmt.Errorf("malformed position %q", pos)
	}
	lon, err := strconv.ParseFloat(fields[0], 64)
	if err != nil {
		return 0, 0, fmt.Errorf("malformed longitude %q", fields[0])
	}
	lat, err := strconv.ParseFloat(fields[1], 64)
	if err != nil {
		return 0, 0, fmt.Errorf("malformed latitude %q", fields[1])
	}
	return lon, lat, nil
}
