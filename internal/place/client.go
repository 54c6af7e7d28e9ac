package place

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"time"

	gojson "github.com/goccy/go-json"
	"github.com/redis/go-redis/v9"
	gobreaker "github.com/sony/gobreaker/v2"
	"golang.org/x/time/rate"

	"github.com/joeyShea/travel-map/internal/metrics"
)

// Nominatim's usage policy allows one request per second, so every upstream
// call goes through the shared limiter. The breaker keeps a flapping
// upstream from queueing work behind the limiter.
const (
	nominatimRPS     = 1
	nominatimBurst   = 1
	breakerTimeout   = 30 * time.Second
	breakerFailures  = 5
	requestTimeout   = 10 * time.Second
	searchCacheTTL   = 10 * time.Minute
	userAgent        = "travel-map/1.0"
	minQueryLength   = 2
	cityFetchLimit   = 12
	addrFetchLimit   = 8
	cityResultLimit  = 8
	addrResultLimit  = 6
	viewboxLonOffset = 0.35
	viewboxLatOffset = 0.25
)

var ErrUpstream = errors.New("place lookup upstream failed")

type nominatimResult struct {
	DisplayName string `json:"display_name"`
	Lat         string `json:"lat"`
	Lon         string `json:"lon"`
	Type        string `json:"type"`
	AddressType string `json:"addresstype"`
	Address     struct {
		CountryCode string `json:"country_code"`
	} `json:"address"`
}

// Client proxies Nominatim with a rate limiter, a circuit breaker and an
// optional redis response cache.
type Client struct {
	baseURL  string
	http     *http.Client
	limiter  *rate.Limiter
	breaker  *gobreaker.CircuitBreaker[[]byte]
	cache    *redis.Client
	cacheTTL time.Duration
}

// NewClient builds a Nominatim proxy. cache may be nil.
func NewClient(baseURL string, cache *redis.Client) *Client {
	settings := gobreaker.Settings{
		Name:    "nominatim",
		Timeout: breakerTimeout,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= breakerFailures
		},
	}
	return &Client{
		baseURL:  baseURL,
		http:     &http.Client{Timeout: requestTimeout},
		limiter:  rate.NewLimiter(rate.Limit(nominatimRPS), nominatimBurst),
		breaker:  gobreaker.NewCircuitBreaker[[]byte](settings),
		cache:    cache,
		cacheTTL: searchCacheTTL,
	}
}

// Search runs a forward geocode. Results are US-only with county-like rows
// dropped and county/zip segments stripped from labels. In city mode the
// results are filtered to city-like types, falling back to the unfiltered
// list when the filter leaves nothing.
func (c *Client) Search(ctx context.Context, query, mode string, nearLat, nearLon *float64) ([]Option, error) {
	if mode != "city" {
		mode = "address"
	}
	metrics.PlaceSearchTotal.WithLabelValues(mode).Inc()

	if len(query) < minQueryLength {
		return []Option{}, nil
	}

	cacheKey := searchCacheKey(query, mode, nearLat, nearLon)
	if cached, ok := c.cached(ctx, cacheKey); ok {
		return cached, nil
	}

	params := url.Values{}
	params.Set("q", query)
	params.Set("format", "jsonv2")
	params.Set("addressdetails", "1")
	params.Set("countrycodes", "us")
	if mode == "city" {
		params.Set("limit", strconv.Itoa(cityFetchLimit))
	} else {
		params.Set("limit", strconv.Itoa(addrFetchLimit))
	}
	if mode == "address" && nearLat != nil && nearLon != nil {
		left := *nearLon - viewboxLonOffset
		right := *nearLon + viewboxLonOffset
		top := *nearLat + viewboxLatOffset
		bottom := *nearLat - viewboxLatOffset
		params.Set("viewbox", fmt.Sprintf("%g,%g,%g,%g", left, top, right, bottom))
		params.Set("bounded", "1")
	}

	body, err := c.fetch(ctx, c.baseURL+"/search?"+params.Encode())
	if err != nil {
		metrics.PlaceSearchErrorsTotal.Inc()
		return nil, ErrUpstream
	}

	var raw []nominatimResult
	if err := gojson.Unmarshal(body, &raw); err != nil {
		metrics.PlaceSearchErrorsTotal.Inc()
		return nil, ErrUpstream
	}

	base := make([]Option, 0, len(raw))
	cityLike := make([]bool, 0, len(raw))
	for _, item := range raw {
		lat, latErr := strconv.ParseFloat(item.Lat, 64)
		lon, lonErr := strconv.ParseFloat(item.Lon, 64)
		if item.DisplayName == "" || latErr != nil || lonErr != nil {
			continue
		}
		if item.Address.CountryCode != "us" {
			continue
		}
		if isCountyLike(item.Type) || isCountyLike(item.AddressType) {
			continue
		}
		label := normalizeLabel(item.DisplayName)
		if label == "" {
			continue
		}
		base = append(base, Option{Label: label, Latitude: lat, Longitude: lon, Address: label})
		cityLike = append(cityLike, cityLikeTypes[item.AddressType] || cityLikeTypes[item.Type])
	}

	places := base
	limit := addrResultLimit
	if mode == "city" {
		limit = cityResultLimit
		filtered := make([]Option, 0, len(base))
		for i, p := range base {
			if cityLike[i] {
				filtered = append(filtered, p)
			}
		}
		if len(filtered) > 0 {
			places = filtered
		}
	}
	if len(places) > limit {
		places = places[:limit]
	}

	c.store(ctx, cacheKey, places)
	return places, nil
}

// Reverse resolves a coordinate to one normalized address at street zoom.
func (c *Client) Reverse(ctx context.Context, lat, lon float64) (Option, error) {
	params := url.Values{}
	params.Set("format", "jsonv2")
	params.Set("lat", strconv.FormatFloat(lat, 'f', -1, 64))
	params.Set("lon", strconv.FormatFloat(lon, 'f', -1, 64))
	params.Set("zoom", "18")
	params.Set("addressdetails", "1")

	body, err := c.fetch(ctx, c.baseURL+"/reverse?"+params.Encode())
	if err != nil {
		metrics.PlaceSearchErrorsTotal.Inc()
		return Option{}, ErrUpstream
	}

	var payload struct {
		DisplayName string `json:"display_name"`
	}
	if err := gojson.Unmarshal(body, &payload); err != nil || payload.DisplayName == "" {
		metrics.PlaceSearchErrorsTotal.Inc()
		return Option{}, ErrUpstream
	}

	label := removeZipCodeSegments(payload.DisplayName)
	if label == "" {
		metrics.PlaceSearchErrorsTotal.Inc()
		return Option{}, ErrUpstream
	}

	return Option{Label: label, Address: label, Latitude: lat, Longitude: lon}, nil
}

func (c *Client) fetch(ctx context.Context, rawURL string) ([]byte, error) {
	if err := c.limiter.Wait(ctx); err != nil {
		return nil, err
	}
	return c.breaker.Execute(func() ([]byte, error) {
		req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
		if err != nil {
			return nil, err
		}
		req.Header.Set("User-Agent", userAgent)

		resp, err := c.http.Do(req)
		if err != nil {
			return nil, err
		}
		defer resp.Body.Close()

		if resp.StatusCode != http.StatusOK {
			return nil, fmt.Errorf("upstream status %d", resp.StatusCode)
		}
		return io.ReadAll(resp.Body)
	})
}

func searchCacheKey(query, mode string, nearLat, nearLon *float64) string {
	near := ""
	if nearLat != nil && nearLon != nil {
		near = fmt.Sprintf("%g,%g", *nearLat, *nearLon)
	}
	return fmt.Sprintf("place:search:%s:%s:%s", mode, query, near)
}

func (c *Client) cached(ctx context.Context, key string) ([]Option, bool) {
	if c.cache == nil {
		return nil, false
	}
	raw, err := c.cache.Get(ctx, key).Bytes()
	if err != nil {
		metrics.PlaceCacheMissesTotal.Inc()
		return nil, false
	}
	var places []Option
	if err := gojson.Unmarshal(raw, &places); err != nil {
		metrics.PlaceCacheMissesTotal.Inc()
		return nil, false
	}
	metrics.PlaceCacheHitsTotal.Inc()
	return places, true
}

func (c *Client) store(ctx context.Context, key string, places []Option) {
	if c.cache == nil {
		return
	}
	raw, err := gojson.Marshal(places)
	if err != nil {
		return
	}
	c.cache.Set(ctx, key, raw, c.cacheTTL)
}
