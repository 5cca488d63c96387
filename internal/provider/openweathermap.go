package provider

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/fakhrymubarak/weather-cache/internal/model"
	"github.com/sony/gobreaker"
	"golang.org/x/time/rate"
)

// OpenWeatherMapName is the provider identity used in cache keys.
const OpenWeatherMapName = "openweathermap"

// Custom error types
var (
	ErrLocationNotFound = errors.New("location not found")
	ErrAPIKeyMissing    = errors.New("API key missing")
	ErrExternalAPI      = errors.New("external API error")
)

// Settings configures the OpenWeatherMap provider.
type Settings struct {
	APIURL string
	APIKey string
	// Units is metric, imperial or standard.
	Units string
	Lang  string
	// Rate and Burst throttle outbound requests. A zero Rate disables throttling.
	Rate  float64
	Burst int
}

// OpenWeatherMap fetches current weather from the OpenWeatherMap API.
type OpenWeatherMap struct {
	settings   Settings
	httpClient *http.Client
	limiter    *rate.Limiter
	breaker    *gobreaker.CircuitBreaker
}

// NewOpenWeatherMap creates the provider. The optional client replaces
// http.DefaultClient.
func NewOpenWeatherMap(settings Settings, httpClient ...*http.Client) *OpenWeatherMap {
	client := http.DefaultClient
	if len(httpClient) > 0 && httpClient[0] != nil {
		client = httpClient[0]
	}
	if settings.Units == "" {
		settings.Units = "metric"
	}

	limiter := rate.NewLimiter(rate.Inf, 0)
	if settings.Rate > 0 {
		burst := settings.Burst
		if burst <= 0 {
			burst = 1
		}
		limiter = rate.NewLimiter(rate.Limit(settings.Rate), burst)
	}

	return &OpenWeatherMap{
		settings:   settings,
		httpClient: client,
		limiter:    limiter,
		breaker: gobreaker.NewCircuitBreaker(gobreaker.Settings{
			Name:        OpenWeatherMapName,
			MaxRequests: 1,
			Interval:    time.Minute,
			Timeout:     30 * time.Second,
			ReadyToTrip: func(counts gobreaker.Counts) bool {
				return counts.ConsecutiveFailures >= 5
			},
			// A missing city says nothing about the upstream's health.
			IsSuccessful: func(err error) bool {
				return err == nil || errors.Is(err, ErrLocationNotFound)
			},
		}),
	}
}

func (p *OpenWeatherMap) Name() string {
	return OpenWeatherMapName
}

// Fetch retrieves the current weather for city. A city made only of digits is
// treated as an OpenWeatherMap city ID, anything else as a city name.
func (p *OpenWeatherMap) Fetch(ctx context.Context, city string) (*model.WeatherRecord, error) {
	if p.settings.APIKey == "" {
		return nil, ErrAPIKeyMissing
	}
	if err := p.limiter.Wait(ctx); err != nil {
		return nil, err
	}

	result, err := p.breaker.Execute(func() (interface{}, error) {
		return p.fetchFromExternalAPI(ctx, city)
	})
	if err != nil {
		return nil, err
	}
	return result.(*model.WeatherRecord), nil
}

func (p *OpenWeatherMap) fetchFromExternalAPI(ctx context.Context, city string) (*model.WeatherRecord, error) {
	values := url.Values{}
	if isCityID(city) {
		values.Set("id", city)
	} else {
		values.Set("q", city)
	}
	values.Set("appid", p.settings.APIKey)
	values.Set("units", p.settings.Units)
	if p.settings.Lang != "" {
		values.Set("lang", p.settings.Lang)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, p.settings.APIURL+"?"+values.Encode(), nil)
	if err != nil {
		return nil, err
	}
	resp, err := p.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrExternalAPI, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		if resp.StatusCode == http.StatusNotFound {
			return nil, ErrLocationNotFound
		}
		return nil, fmt.Errorf("%w: status %d", ErrExternalAPI, resp.StatusCode)
	}

	var data openWeatherMapResponse
	if err := json.NewDecoder(resp.Body).Decode(&data); err != nil {
		return nil, fmt.Errorf("%w: decode response: %v", ErrExternalAPI, err)
	}
	return data.toRecord(city, p.settings.Units), nil
}

func isCityID(city string) bool {
	if city == "" {
		return false
	}
	return strings.Trim(city, "0123456789") == ""
}
