package geocode

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"time"
)

// SearchBoxClient talks to the Mapbox Search Box API (suggest + retrieve)
type SearchBoxClient struct {
	apiURL       string
	accessToken  string
	sessionToken string
	language     string
	country      string
	proximity    string
	types        string
	limit        int
	client       *http.Client
}

// SearchBoxConfig holds configuration for the Search Box client
type SearchBoxConfig struct {
	APIURL       string
	AccessToken  string
	SessionToken string
	Country      string // ISO 3166 alpha-2, e.g. "AU"
	Proximity    string // "lon,lat" bias
	Types        string // comma-separated feature types
	Limit        int
	Timeout      time.Duration
}

// NewSearchBoxClient creates a new Search Box client
func NewSearchBoxClient(config SearchBoxConfig) *SearchBoxClient {
	timeout := config.Timeout
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	limit := config.Limit
	if limit <= 0 {
		limit = 5
	}

	return &SearchBoxClient{
		apiURL:       config.APIURL,
		accessToken:  config.AccessToken,
		sessionToken: config.SessionToken,
		language:     "en",
		country:      config.Country,
		proximity:    config.Proximity,
		types:        config.Types,
		limit:        limit,
		client: &http.Client{
			Timeout: timeout,
		},
	}
}

// Suggestion is one entry of a suggest response
type Suggestion struct {
	MapboxID       string `json:"mapbox_id"`
	Name           string `json:"name"`
	FullAddress    string `json:"full_address"`
	PlaceFormatted string `json:"place_formatted"`
	FeatureType    string `json:"feature_type"`
}

// SuggestResponse represents the suggest endpoint response
type SuggestResponse struct {
	Suggestions []Suggestion `json:"suggestions"`
	Attribution string       `json:"attribution"`
}

// FeatureProperties holds the address fields of a retrieved feature
type FeatureProperties struct {
	MapboxID       string `json:"mapbox_id"`
	Name           string `json:"name"`
	FullAddress    string `json:"full_address"`
	PlaceFormatted string `json:"place_formatted"`
	FeatureType    string `json:"feature_type"`
}

// Geometry is a GeoJSON point, [lon, lat]
type Geometry struct {
	Type        string    `json:"type"`
	Coordinates []float64 `json:"coordinates"`
}

// Feature is a fully resolved place
type Feature struct {
	Type       string            `json:"type"`
	Geometry   Geometry          `json:"geometry"`
	Properties FeatureProperties `json:"properties"`
}

// RetrieveResponse represents the retrieve endpoint response
type RetrieveResponse struct {
	Type     string    `json:"type"`
	Features []Feature `json:"features"`
}

// Suggest returns up to the configured limit of suggestions for a partial query
func (s *SearchBoxClient) Suggest(ctx context.Context, query string) ([]Suggestion, error) {
	params := s.baseParams()
	params.Set("q", query)
	params.Set("language", s.language)
	params.Set("limit", strconv.Itoa(s.limit))
	if s.country != "" {
		params.Set("country", s.country)
	}
	if s.proximity != "" {
		params.Set("proximity", s.proximity)
	}
	if s.types != "" {
		params.Set("types", s.types)
	}

	var result SuggestResponse
	if err := s.get(ctx, "/suggest", params, &result); err != nil {
		return nil, fmt.Errorf("suggest %q: %w", query, err)
	}

	if len(result.Suggestions) > s.limit {
		result.Suggestions = result.Suggestions[:s.limit]
	}

	return result.Suggestions, nil
}

// Retrieve fetches the full details of a suggestion by its id
func (s *SearchBoxClient) Retrieve(ctx context.Context, id string) (*Feature, error) {
	if id == "" {
		return nil, fmt.Errorf("retrieve: empty id")
	}

	var result RetrieveResponse
	if err := s.get(ctx, "/retrieve/"+url.PathEscape(id), s.baseParams(), &result); err != nil {
		return nil, fmt.Errorf("retrieve %s: %w", id, err)
	}

	if len(result.Features) == 0 {
		return nil, fmt.Errorf("retrieve %s: no features returned", id)
	}

	return &result.Features[0], nil
}

// GetName returns the provider name
func (s *SearchBoxClient) GetName() string {
	return "Mapbox Search Box"
}

func (s *SearchBoxClient) baseParams() url.Values {
	params := url.Values{}
	params.Set("access_token", s.accessToken)
	if s.sessionToken != "" {
		params.Set("session_token", s.sessionToken)
	}
	return params
}

func (s *SearchBoxClient) get(ctx context.Context, path string, params url.Values, out interface{}) error {
	endpoint := s.apiURL + path + "?" + params.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := s.client.Do(req)
	if err != nil {
		return fmt.Errorf("failed to send request: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("failed to read response: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return fmt.Errorf("unexpected status %d: %s", resp.StatusCode, truncate(string(body), 200))
	}

	if err := json.Unmarshal(body, out); err != nil {
		return fmt.Errorf("failed to parse response: %w", err)
	}

	return nil
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n] + "..."
}
