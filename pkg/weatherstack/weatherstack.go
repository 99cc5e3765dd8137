package weatherstack

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"
)

const maxResponseSizeBytes = 1 << 20

type Config struct {
	BaseURL   string        `envconfig:"BASE_URL" split_words:"true" default:"https://api.weatherstack.com"`
	AccessKey string        `envconfig:"ACCESS_KEY" split_words:"true" required:"true"`
	Timeout   time.Duration `envconfig:"TIMEOUT" split_words:"true" default:"20s"`
}

// Option customizes Client.
type Option func(*Client)

func WithHTTPClient(client *http.Client) Option {
	return func(c *Client) {
		if client != nil {
			c.httpClient = client
		}
	}
}

// Client fetches current conditions from the Weatherstack REST API.
type Client struct {
	baseURL    string
	accessKey  string
	httpClient *http.Client
}

func NewClient(cfg Config, opts ...Option) (*Client, error) {
	baseURL := strings.TrimRight(strings.TrimSpace(cfg.BaseURL), "/")
	if baseURL == "" {
		return nil, errors.New("weatherstack base url is required")
	}
	if _, err := url.ParseRequestURI(baseURL); err != nil {
		return nil, fmt.Errorf("invalid weatherstack url: %w", err)
	}

	accessKey := strings.TrimSpace(cfg.AccessKey)
	if accessKey == "" {
		return nil, errors.New("weatherstack access key is required")
	}

	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 20 * time.Second
	}

	client := &Client{
		baseURL:   baseURL,
		accessKey: accessKey,
		httpClient: &http.Client{
			Timeout: timeout,
		},
	}

	for _, opt := range opts {
		if opt != nil {
			opt(client)
		}
	}

	return client, nil
}

func MustNew(cfg Config, opts ...Option) *Client {
	client, err := NewClient(cfg, opts...)
	if err != nil {
		panic(err)
	}
	return client
}

type Location struct {
	Name      string `json:"name"`
	Region    string `json:"region"`
	Country   string `json:"country"`
	Localtime string `json:"localtime"`
}

type Current struct {
	ObservationTime     string   `json:"observation_time"`
	Temperature         int      `json:"temperature"`
	Feelslike           int      `json:"feelslike"`
	WeatherDescriptions []string `json:"weather_descriptions"`
	WindSpeed           int      `json:"wind_speed"`
	WindDir             string   `json:"wind_dir"`
	Humidity            int      `json:"humidity"`
}

// Observation keeps only the fields the assistant interprets; the upstream
// payload carries far more.
type Observation struct {
	Location Location `json:"location"`
	Current  Current  `json:"current"`
}

type apiError struct {
	Code int    `json:"code"`
	Type string `json:"type"`
	Info string `json:"info"`
}

type currentResponse struct {
	Success  *bool     `json:"success,omitempty"`
	Error    *apiError `json:"error,omitempty"`
	Location *Location `json:"location,omitempty"`
	Current  *Current  `json:"current,omitempty"`
}

// CurrentWeather fetches live conditions for a city, with an optional country
// hint to disambiguate the query.
func (c *Client) CurrentWeather(ctx context.Context, city, country string) (*Observation, error) {
	city = strings.TrimSpace(city)
	if city == "" {
		return nil, errors.New("city is required")
	}

	query := city
	if country = strings.TrimSpace(country); country != "" {
		query = city + ", " + country
	}

	params := url.Values{}
	params.Set("access_key", c.accessKey)
	params.Set("query", query)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/current?"+params.Encode(), nil)
	if err != nil {
		return nil, fmt.Errorf("build weatherstack request: %w", err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("execute weatherstack request: %w", err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseSizeBytes))
	if err != nil {
		return nil, fmt.Errorf("read weatherstack response: %w", err)
	}

	if resp.StatusCode < http.StatusOK || resp.StatusCode >= http.StatusMultipleChoices {
		return nil, fmt.Errorf("weatherstack http status=%d body=%s", resp.StatusCode, string(raw))
	}

	var parsed currentResponse
	if err := json.Unmarshal(raw, &parsed); err != nil {
		return nil, fmt.Errorf("decode weatherstack response: %w", err)
	}

	// Weatherstack reports failures with a 200 status and an error object.
	if parsed.Error != nil {
		return nil, fmt.Errorf("weatherstack error type=%s info=%s", parsed.Error.Type, parsed.Error.Info)
	}
	if parsed.Location == nil || parsed.Current == nil {
		return nil, errors.New("unexpected weatherstack response: missing location or current")
	}

	return &Observation{
		Location: *parsed.Location,
		Current:  *parsed.Current,
	}, nil
}
