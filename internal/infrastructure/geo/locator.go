package geo

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"

	"github.com/sngm3741/facts-finders/api/internal/factsfinder/domain"
)

// StaticLocator returns a configured coordinate pair. A zero value with no
// coordinates behaves like a device without location support.
type StaticLocator struct {
	Latitude  *float64
	Longitude *float64
}

// Locate は設定済みの座標を返す。片方でも欠けていれば ErrLocation。
func (l StaticLocator) Locate(_ context.Context) (domain.Position, error) {
	if l.Latitude == nil || l.Longitude == nil {
		return domain.Position{}, fmt.Errorf("%w: location not supported", domain.ErrLocation)
	}
	return domain.Position{Latitude: *l.Latitude, Longitude: *l.Longitude}, nil
}

// HTTPLocator resolves the caller's position through an ip-api compatible endpoint.
type HTTPLocator struct {
	httpClient *http.Client
	endpoint   string
}

type ipAPIResponse struct {
	Status  string   `json:"status"`
	Message string   `json:"message"`
	Lat     *float64 `json:"lat"`
	Lon     *float64 `json:"lon"`
}

func NewHTTPLocator(endpoint string, httpClient *http.Client) *HTTPLocator {
	if httpClient == nil {
		httpClient = http.DefaultClient
	}
	return &HTTPLocator{httpClient: httpClient, endpoint: endpoint}
}

// Locate fails with ErrLocation on transport errors, non-200 replies and
// any status other than "success".
func (l *HTTPLocator) Locate(ctx context.Context) (domain.Position, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, l.endpoint, nil)
	if err != nil {
		return domain.Position{}, fmt.Errorf("%w: %v", domain.ErrLocation, err)
	}
	resp, err := l.httpClient.Do(req)
	if err != nil {
		return domain.Position{}, fmt.Errorf("%w: %v", domain.ErrLocation, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return domain.Position{}, fmt.Errorf("%w: status %d", domain.ErrLocation, resp.StatusCode)
	}

	var payload ipAPIResponse
	if err := json.NewDecoder(io.LimitReader(resp.Body, 64<<10)).Decode(&payload); err != nil {
		return domain.Position{}, fmt.Errorf("%w: decode response: %v", domain.ErrLocation, err)
	}
	if payload.Status != "success" {
		return domain.Position{}, fmt.Errorf("%w: %s %s", domain.ErrLocation, payload.Status, payload.Message)
	}
	if payload.Lat == nil || payload.Lon == nil {
		return domain.Position{}, fmt.Errorf("%w: response has no coordinates", domain.ErrLocation)
	}
	return domain.Position{Latitude: *payload.Lat, Longitude: *payload.Lon}, nil
}
