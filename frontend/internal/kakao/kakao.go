package kakao

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"slices"
	"strconv"
	"strings"
	"time"

	internal_errors "github.com/tastelink/tastelink/shared/errors"
	"github.com/tastelink/tastelink/shared/logger"
	"golang.org/x/time/rate"
)

const (
	DefaultBaseURL = "https://dapi.kakao.com"
	DefaultKeyword = "맛집"
	DefaultRadius  = 3000

	keywordPath = "/v2/local/search/keyword.json"
	addressPath = "/v2/local/search/address.json"
)

// Radii offered by the place finder, in meters.
var Radii = []int{1000, 3000, 5000, 10000}

var (
	ErrNotConfigured  = &internal_errors.ErrorWithStatusCode{Message: "지도 검색이 설정되지 않았습니다.", StatusCode: http.StatusServiceUnavailable}
	ErrRegionNotFound = &internal_errors.ErrorWithStatusCode{Message: "지역을 찾을 수 없어요. 예) 부산 해운대, 대전 은행동", StatusCode: http.StatusNotFound}
)

type LatLng struct {
	Lat float64 `json:"lat"`
	Lng float64 `json:"lng"`
}

// KeywordQuery is one place search. Nationwide drops Center and Radius.
type KeywordQuery struct {
	Query      string
	Center     LatLng
	Radius     int
	Nationwide bool
}

// Place is a keyword search document as Kakao returns it.
type Place struct {
	ID                string `json:"id"`
	PlaceName         string `json:"place_name"`
	CategoryName      string `json:"category_name"`
	CategoryGroupName string `json:"category_group_name"`
	Phone             string `json:"phone"`
	AddressName       string `json:"address_name"`
	RoadAddressName   string `json:"road_address_name"`
	X                 string `json:"x"`
	Y                 string `json:"y"`
	PlaceURL          string `json:"place_url"`
	Distance          string `json:"distance"`
}

type searchResponse[T any] struct {
	Documents []T `json:"documents"`
}

type addressDocument struct {
	AddressName string `json:"address_name"`
	X           string `json:"x"`
	Y           string `json:"y"`
}

// Client calls the Kakao Local REST API with a REST key.
type Client struct {
	BaseURL    string
	RestKey    string
	HttpClient *http.Client

	limiter *rate.Limiter
	log     *slog.Logger
}

func New(baseURL, restKey string, timeout time.Duration) *Client {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	return &Client{
		BaseURL:    strings.TrimRight(baseURL, "/"),
		RestKey:    restKey,
		HttpClient: &http.Client{Timeout: timeout},
		limiter:    rate.NewLimiter(rate.Limit(10), 10),
		log:        logger.Component("kakao"),
	}
}

// Configured reports whether a REST key is present.
func (c *Client) Configured() bool {
	return c.RestKey != ""
}

// NormalizeRadius maps anything outside Radii to DefaultRadius.
func NormalizeRadius(r int) int {
	if slices.Contains(Radii, r) {
		return r
	}
	return DefaultRadius
}

func (q KeywordQuery) values() url.Values {
	v := url.Values{}
	query := strings.TrimSpace(q.Query)
	if query == "" {
		query = DefaultKeyword
	}
	v.Set("query", query)
	if !q.Nationwide {
		v.Set("x", strconv.FormatFloat(q.Center.Lng, 'f', -1, 64))
		v.Set("y", strconv.FormatFloat(q.Center.Lat, 'f', -1, 64))
		v.Set("radius", strconv.Itoa(NormalizeRadius(q.Radius)))
		v.Set("sort", "distance")
	}
	return v
}

func (c *Client) get(ctx context.Context, path string, params url.Values, out any) error {
	if !c.Configured() {
		return ErrNotConfigured
	}
	if err := c.limiter.Wait(ctx); err != nil {
		return fmt.Errorf("map search unavailable: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.BaseURL+path+"?"+params.Encode(), nil)
	if err != nil {
		return fmt.Errorf("failed to create map search request: %w", err)
	}
	req.Header.Set("Authorization", "KakaoAK "+c.RestKey)

	resp, err := c.HttpClient.Do(req)
	if err != nil {
		c.log.Warn("kakao request failed", "path", path, "error", err)
		return fmt.Errorf("map search unavailable: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		snippet, _ := io.ReadAll(io.LimitReader(resp.Body, 256))
		c.log.Warn("kakao rejected request", "path", path, "status", resp.StatusCode, "body", string(snippet))
		return &internal_errors.ErrorWithStatusCode{
			Message:    fmt.Sprintf("map search failed: kakao answered %d", resp.StatusCode),
			StatusCode: http.StatusBadGateway,
		}
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("failed to decode map search response: %w", err)
	}
	return nil
}

// SearchKeyword runs a keyword place search. An empty query searches DefaultKeyword.
func (c *Client) SearchKeyword(ctx context.Context, q KeywordQuery) ([]Place, error) {
	var body searchResponse[Place]
	if err := c.get(ctx, keywordPath, q.values(), &body); err != nil {
		return nil, err
	}
	if body.Documents == nil {
		return []Place{}, nil
	}
	return body.Documents, nil
}

// Geocode resolves an address or region name to its first match.
func (c *Client) Geocode(ctx context.Context, address string) (LatLng, error) {
	address = strings.TrimSpace(address)
	if address == "" {
		return LatLng{}, ErrRegionNotFound
	}
	var body searchResponse[addressDocument]
	if err := c.get(ctx, addressPath, url.Values{"query": {address}}, &body); err != nil {
		return LatLng{}, err
	}
	if len(body.Documents) == 0 {
		return LatLng{}, ErrRegionNotFound
	}
	lat, errLat := strconv.ParseFloat(body.Documents[0].Y, 64)
	lng, errLng := strconv.ParseFloat(body.Documents[0].X, 64)
	if errLat != nil || errLng != nil {
		return LatLng{}, ErrRegionNotFound
	}
	return LatLng{Lat: lat, Lng: lng}, nil
}
