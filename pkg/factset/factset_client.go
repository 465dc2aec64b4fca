package factset

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"indexcap/internal/logger"
	"io"
	"net/http"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/sony/gobreaker"
)

const DefaultFormulaUrl = "https://api.factset.com/formula-api/v1/cross-sectional"

var ErrRateLimited = errors.New("factset rate limit exceeded")

type regionConfig struct {
	universeID   string
	sharesSymbol string
	currency     string
}

var regions = map[string]regionConfig{
	"CPH": {universeID: "187183", sharesSymbol: "OMXCALLS", currency: "DKK"},
	"HEL": {universeID: "180553", sharesSymbol: "OMXHALLS", currency: "EUR"},
	"STO": {universeID: "OMXSALLS", sharesSymbol: "OMXSALLS", currency: "SEK"},
}

func lookupRegion(region string) (string, regionConfig) {
	r := strings.ToUpper(strings.TrimSpace(region))
	if c, ok := regions[r]; ok {
		return r, c
	}
	// unknown regions read the Copenhagen universe
	return r, regions["CPH"]
}

// UniverseExpression is the FactSet screen selecting a region's
// all-share universe. FORMULA_UNIVERSE_<REGION> overrides it.
func UniverseExpression(region string) string {
	r, c := lookupRegion(region)
	if override := os.Getenv("FORMULA_UNIVERSE_" + r); override != "" {
		return override
	}
	return fmt.Sprintf("(FG_CONSTITUENTS(%s,0,CLOSE))=1", c.universeID)
}

func Formulas(region string) []string {
	_, c := lookupRegion(region)
	return []string{
		`FSYM_TICKER_EXCHANGE(0,"ID")`,
		"FG_COMPANY_NAME",
		"FG_PRICE(NOW)",
		fmt.Sprintf("EXG_OMX_SHARES(0,%s,PI,%s,ND)", c.sharesSymbol, c.currency),
		"P_VOLUME_AVG(0,-1/0/0,0)",
	}
}

// Security is one row of the cross-sectional response. Numeric fields
// are passed through as FactSet sent them (number, string or nil).
type Security struct {
	Ticker       string
	Name         string
	Price        any
	Shares       any
	Avg30dVolume any
}

type Client struct {
	HttpClient     *http.Client
	UsernameSerial string
	ApiKey         string
	FormulaUrl     string

	MaxRetries int
	Sleep      func(time.Duration)

	breaker *gobreaker.CircuitBreaker
}

func NewClient(usernameSerial, apiKey, formulaUrl string) *Client {
	if formulaUrl == "" {
		formulaUrl = DefaultFormulaUrl
	}
	return &Client{
		HttpClient:     &http.Client{Timeout: 60 * time.Second},
		UsernameSerial: usernameSerial,
		ApiKey:         apiKey,
		FormulaUrl:     formulaUrl,
		MaxRetries:     4,
		Sleep:          time.Sleep,
		breaker: gobreaker.NewCircuitBreaker(gobreaker.Settings{
			Name:     "factset",
			Interval: 60 * time.Second,
			Timeout:  60 * time.Second,
			ReadyToTrip: func(counts gobreaker.Counts) bool {
				return counts.ConsecutiveFailures >= 3
			},
		}),
	}
}

type requestData struct {
	Universe          string   `json:"universe"`
	Formulas          []string `json:"formulas"`
	Flatten           string   `json:"flatten"`
	UniverseExclusion []string `json:"universeExclusion"`
}

type formulaResponse struct {
	Data []map[string]any `json:"data"`
}

// GetConstituents fetches the region's universe with price, share count
// and 30 day average volume per security
func (c *Client) GetConstituents(ctx context.Context, region string) ([]Security, error) {
	payload, err := json.Marshal(map[string]requestData{
		"data": {
			Universe:          UniverseExpression(region),
			Formulas:          Formulas(region),
			Flatten:           "Y",
			UniverseExclusion: []string{"NONEQUITY"},
		},
	})
	if err != nil {
		return nil, fmt.Errorf("failed to marshal formula request: %w", err)
	}

	var out any
	if c.breaker != nil {
		out, err = c.breaker.Execute(func() (any, error) {
			return c.post(ctx, payload)
		})
	} else {
		out, err = c.post(ctx, payload)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to fetch %s constituents: %w", region, err)
	}

	return parseRows(out.(*formulaResponse).Data), nil
}

func (c *Client) post(ctx context.Context, payload []byte) (*formulaResponse, error) {
	for attempt := 0; ; attempt++ {
		req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.FormulaUrl, bytes.NewReader(payload))
		if err != nil {
			return nil, err
		}
		req.SetBasicAuth(c.UsernameSerial, c.ApiKey)
		req.Header.Set("Accept", "application/json")
		req.Header.Set("Content-Type", "application/json")

		response, err := c.HttpClient.Do(req)
		if err != nil {
			return nil, err
		}
		responseBytes, err := io.ReadAll(response.Body)
		response.Body.Close()
		if err != nil {
			return nil, fmt.Errorf("received status code %d and failed to read body: %w", response.StatusCode, err)
		}

		if response.StatusCode == http.StatusTooManyRequests {
			if attempt >= c.MaxRetries {
				return nil, ErrRateLimited
			}
			wait := retryWait(response.Header, attempt)
			logger.Warn("factset rate limit hit, sleeping %s (attempt %d/%d)", wait, attempt+1, c.MaxRetries)
			c.sleep(wait)
			continue
		}
		if response.StatusCode != http.StatusOK {
			return nil, fmt.Errorf("failed with status code %d: %s", response.StatusCode, truncate(string(responseBytes), 800))
		}

		out := formulaResponse{}
		if err := json.Unmarshal(responseBytes, &out); err != nil {
			return nil, fmt.Errorf("failed to decode formula response: %w", err)
		}
		return &out, nil
	}
}

func (c *Client) sleep(d time.Duration) {
	if c.Sleep != nil {
		c.Sleep(d)
		return
	}
	time.Sleep(d)
}

// retryWait honours Retry-After, then falls back to exponential
// backoff capped at 8s
func retryWait(h http.Header, attempt int) time.Duration {
	if v := h.Get("Retry-After"); v != "" {
		if secs, err := strconv.ParseFloat(v, 64); err == nil && secs > 0 {
			return time.Duration(secs * float64(time.Second))
		}
	}
	wait := 1500 * time.Millisecond << attempt
	if wait > 8*time.Second {
		wait = 8 * time.Second
	}
	return wait
}

// parseRows maps response columns by prefix since FactSet names them
// either by formula or by a snake-cased version of it
func parseRows(rows []map[string]any) []Security {
	out := make([]Security, 0, len(rows))
	for _, row := range rows {
		s := Security{}
		for key, value := range row {
			k := strings.ToLower(key)
			switch {
			case strings.HasPrefix(k, "fsym_ticker_exchange"):
				s.Ticker = toString(value)
			case strings.HasPrefix(k, "fg_company_name"):
				s.Name = toString(value)
			case strings.HasPrefix(k, "fg_price"):
				s.Price = value
			case strings.HasPrefix(k, "exg_omx_shares"):
				s.Shares = value
			case strings.HasPrefix(k, "p_volume_avg"):
				s.Avg30dVolume = value
			}
		}
		if s.Ticker == "" {
			continue
		}
		out = append(out, s)
	}
	return out
}

func toString(v any) string {
	if v == nil {
		return ""
	}
	if s, ok := v.(string); ok {
		return s
	}
	return fmt.Sprintf("%v", v)
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n]
}
