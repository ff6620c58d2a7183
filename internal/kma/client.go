package kma

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"sort"
	"time"

	"github.com/jonboulle/clockwork"
	"github.com/sony/gobreaker"
)

const resultCodeOK = "00"

// Client fetches short-term forecast bulletins from the KMA VilageFcst API.
type Client struct {
	serviceKey string
	baseURL    string
	httpCfg    HTTPClientConfig
	circuit    *gobreaker.CircuitBreaker
	clock      clockwork.Clock
}

// NewClient creates a Client. The clock drives reference-stamp selection so
// tests can freeze it.
func NewClient(client *http.Client, serviceKey, baseURL string, clock clockwork.Clock) *Client {
	cb := gobreaker.NewCircuitBreaker(gobreaker.Settings{
		Name:        "kma",
		MaxRequests: 5,
		Interval:    1 * time.Minute,
		Timeout:     2 * time.Minute,
	})

	if clock == nil {
		clock = clockwork.NewRealClock()
	}

	return &Client{
		serviceKey: serviceKey,
		baseURL:    baseURL,
		httpCfg: HTTPClientConfig{
			Client: client,
			Backoff: BackoffConfig{
				MaxRetries:      3,
				InitialInterval: 500 * time.Millisecond,
				MaxInterval:     5 * time.Second,
			},
		},
		circuit: cb,
		clock:   clock,
	}
}

// FetchBulletin requests the newest bulletin for the grid coordinate and
// reshapes the flat item list into per-hour category maps. Every failure
// mode comes back as an *UpstreamError.
func (c *Client) FetchBulletin(ctx context.Context, nx, ny int) (Bulletin, error) {
	if c.serviceKey == "" {
		return Bulletin{}, formatError("service key is not configured", nil)
	}

	baseDate, baseTime := BaseDateTime(c.clock.Now())

	buildRequest := func() (*http.Request, error) {
		values := url.Values{}
		values.Set("serviceKey", c.serviceKey)
		values.Set("pageNo", "1")
		values.Set("numOfRows", "1000")
		values.Set("dataType", "JSON")
		values.Set("base_date", baseDate)
		values.Set("base_time", baseTime)
		values.Set("nx", fmt.Sprintf("%d", nx))
		values.Set("ny", fmt.Sprintf("%d", ny))

		u := fmt.Sprintf("%s?%s", c.baseURL, values.Encode())
		req, err := http.NewRequest(http.MethodGet, u, nil)
		if err != nil {
			return nil, err
		}
		return req, nil
	}

	resp, err := doRequestWithResilience(ctx, c.httpCfg, c.circuit, buildRequest)
	if err != nil {
		return Bulletin{}, unavailable("request failed", err)
	}
	defer resp.Body.Close()

	var payload struct {
		Response struct {
			Header struct {
				ResultCode string `json:"resultCode"`
				ResultMsg  string `json:"resultMsg"`
			} `json:"header"`
			Body struct {
				Items struct {
					Item []struct {
						FcstDate  string `json:"fcstDate"`
						FcstTime  string `json:"fcstTime"`
						Category  string `json:"category"`
						FcstValue string `json:"fcstValue"`
					} `json:"item"`
				} `json:"items"`
			} `json:"body"`
		} `json:"response"`
	}

	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return Bulletin{}, formatError("undecodable response body", err)
	}

	header := payload.Response.Header
	if header.ResultCode != resultCodeOK {
		return Bulletin{}, formatError(
			fmt.Sprintf("result %s: %s", header.ResultCode, header.ResultMsg), nil)
	}

	items := payload.Response.Body.Items.Item
	if len(items) == 0 {
		return Bulletin{}, formatError("empty item list", nil)
	}

	// Reshape the flat (date, time, category, value) triples into one
	// category map per forecast hour.
	byStamp := make(map[string]*Hour)
	for _, item := range items {
		stamp := item.FcstDate + item.FcstTime
		hour, ok := byStamp[stamp]
		if !ok {
			hour = &Hour{
				Date:    item.FcstDate,
				Time:    item.FcstTime,
				Weather: make(map[string]string),
			}
			byStamp[stamp] = hour
		}
		hour.Weather[item.Category] = item.FcstValue
	}

	stamps := make([]string, 0, len(byStamp))
	for stamp := range byStamp {
		stamps = append(stamps, stamp)
	}
	sort.Strings(stamps)

	hours := make([]Hour, 0, len(stamps))
	for _, stamp := range stamps {
		hours = append(hours, *byStamp[stamp])
	}

	return Bulletin{
		BaseDate: baseDate,
		BaseTime: baseTime,
		Nx:       nx,
		Ny:       ny,
		Hours:    hours,
	}, nil
}
