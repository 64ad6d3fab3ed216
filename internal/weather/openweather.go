// README: OpenWeatherMap current-conditions client.
package weather

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"medidrop/internal/types"
)

const (
	DefaultBaseURL = "https://api.openweathermap.org"
	provider       = "openweather"
)

type Client struct {
	apiKey  string
	baseURL string
	session *http.Client
}

func NewClient(apiKey, baseURL string, timeout time.Duration) *Client {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	return &Client{
		apiKey:  apiKey,
		baseURL: strings.TrimRight(baseURL, "/"),
		session: &http.Client{Timeout: timeout},
	}
}

type currentResponse struct {
	Weather []struct {
		Main string `json:"main"`
	} `json:"weather"`
}

// Current returns weather[0].main for p, e.g. "Rain" or "Clouds".
func (c *Client) Current(ctx context.Context, p types.Point) (string, error) {
	q := url.Values{}
	q.Set("lat", strconv.FormatFloat(p.Lat, 'f', -1, 64))
	q.Set("lon", strconv.FormatFloat(p.Lng, 'f', -1, 64))
	q.Set("appid", c.apiKey)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/data/2.5/weather?"+q.Encode(), nil)
	if err != nil {
		return "", types.NewProviderError(provider, types.ReasonMalformed, fmt.Errorf("create request: %w", err))
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.session.Do(req)
	if err != nil {
		return "", types.NewProviderError(provider, types.ReasonNetwork, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 400 {
		b, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return "", types.NewProviderError(provider, types.ReasonStatus,
			fmt.Errorf("status %d: %s", resp.StatusCode, strings.TrimSpace(string(b))))
	}

	var body currentResponse
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return "", types.NewProviderError(provider, types.ReasonMalformed, fmt.Errorf("decode: %w", err))
	}
	if len(body.Weather) == 0 || body.Weather[0].Main == "" {
		return "", types.NewProviderError(provider, types.ReasonNoResult, fmt.Errorf("empty weather list"))
	}
	return body.Weather[0].Main, nil
}
