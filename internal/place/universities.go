package place

import (
	"context"
	"net/http"
	"net/url"

	gojson "github.com/goccy/go-json"
)

const universityLimit = 10

// defaultUniversityEndpoints mirror the Hipolabs deployment; the plain-http
// mirror papers over its recurring TLS certificate lapses.
var defaultUniversityEndpoints = []string{
	"https://universities.hipolabs.com/search",
	"http://universities.hipolabs.com/search",
}

// UniversityClient resolves US university names for profile setup.
type UniversityClient struct {
	endpoints []string
	http      *http.Client
}

func NewUniversityClient(endpoints ...string) *UniversityClient {
	if len(endpoints) == 0 {
		endpoints = defaultUniversityEndpoints
	}
	return &UniversityClient{
		endpoints: endpoints,
		http:      &http.Client{Timeout: requestTimeout},
	}
}

// Search returns up to ten distinct university names. Endpoints are tried in
// order; only when every one fails is the error surfaced.
func (c *UniversityClient) Search(ctx context.Context, name string) ([]string, error) {
	if len(name) < minQueryLength {
		return []string{}, nil
	}

	params := url.Values{}
	params.Set("name", name)
	params.Set("country", "United States")
	query := params.Encode()

	for _, endpoint := range c.endpoints {
		names, err := c.fetch(ctx, endpoint+"?"+query)
		if err != nil {
			continue
		}
		return names, nil
	}
	return nil, ErrUpstream
}

func (c *UniversityClient) fetch(ctx context.Context, rawURL string) ([]string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return nil, err
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, ErrUpstream
	}

	var payload []struct {
		Name string `json:"name"`
	}
	if err := gojson.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return nil, err
	}

	seen := map[string]bool{}
	names := []string{}
	for _, school := range payload {
		if school.Name == "" || seen[school.Name] {
			continue
		}
		seen[school.Name] = true
		names = append(names, school.Name)
		if len(names) == universityLimit {
			break
		}
	}
	return names, nil
}
