package browse

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"sync"
	"time"
)

// ErrStale marks a response superseded by a newer fetch cycle. Callers drop
// the result and keep whatever the newest cycle delivered.
var ErrStale = errors.New("browse: response superseded by a newer fetch")

// Vehicle is the wire shape of one listing as the browse API returns it.
// Timestamps stay plain strings — no live date objects cross the boundary.
type Vehicle struct {
	ID          string   `json:"id"`
	Title       string   `json:"title"`
	Brand       string   `json:"brand"`
	Model       string   `json:"model"`
	Description string   `json:"description"`
	Category    string   `json:"category"`
	Price       float64  `json:"price"`
	OldPrice    *float64 `json:"old_price,omitempty"`
	Year        int      `json:"year"`
	Mileage     *int64   `json:"mileage,omitempty"`
	RangeMiles  *int64   `json:"range_miles,omitempty"`
	Images      []string `json:"images"`
	VideoURL    *string  `json:"video_url,omitempty"`
	Location    string   `json:"location"`
	City        string   `json:"city"`
	State       string   `json:"state"`
	SellerEmail string   `json:"seller_email"`
	SellerType  string   `json:"seller_type"`
	Sold        bool     `json:"sold"`
	CreatedAt   string   `json:"created_at"`
	UpdatedAt   string   `json:"updated_at"`
}

// Result is one delivered page. Loaded distinguishes an explicit empty result
// set from "not yet loaded", so callers render "No results" instead of a spinner.
type Result struct {
	Vehicles   []Vehicle
	Total      int
	TotalPages int
	Loaded     bool
}

// Fetcher issues one request per fetch cycle against the listings endpoint.
// Each cycle carries a monotonically increasing generation; a slow response
// that resolves after a newer cycle returns ErrStale instead of data, so stale
// pages can never overwrite newer state.
type Fetcher struct {
	BaseURL  string
	Client   *http.Client
	PageSize int

	mu  sync.Mutex
	gen uint64
}

func (f *Fetcher) httpClient() *http.Client {
	if f.Client != nil {
		return f.Client
	}
	return &http.Client{Timeout: 15 * time.Second}
}

func (f *Fetcher) pageSize() int {
	if f.PageSize > 0 {
		return f.PageSize
	}
	return 12
}

type envelope struct {
	Status string `json:"status"`
	Data   struct {
		Vehicles []Vehicle `json:"vehicles"`
		Total    int       `json:"total"`
	} `json:"data"`
	Error struct {
		Message string `json:"message"`
	} `json:"error"`
}

// Fetch runs one cycle for the given filter state. No automatic retry: errors
// surface to the caller, who owns the retry affordance.
func (f *Fetcher) Fetch(ctx context.Context, state FilterState) (*Result, error) {
	f.mu.Lock()
	f.gen++
	myGen := f.gen
	f.mu.Unlock()

	values := state.Values()
	if state.Page > 1 {
		values.Set("page", strconv.Itoa(state.Page))
	}
	if f.pageSize() != 12 {
		values.Set("limit", strconv.Itoa(f.pageSize()))
	}
	url := f.BaseURL + "/api/v1/listings"
	if enc := values.Encode(); enc != "" {
		url += "?" + enc
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, err
	}
	resp, err := f.httpClient().Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	var env envelope
	if err := json.NewDecoder(resp.Body).Decode(&env); err != nil {
		return nil, fmt.Errorf("browse: decode response: %w", err)
	}

	f.mu.Lock()
	stale := myGen != f.gen
	f.mu.Unlock()
	if stale {
		return nil, ErrStale
	}

	if resp.StatusCode != http.StatusOK {
		msg := env.Error.Message
		if msg == "" {
			msg = resp.Status
		}
		return nil, fmt.Errorf("browse: listings request failed: %s", msg)
	}

	result := &Result{
		Vehicles: env.Data.Vehicles,
		Total:    env.Data.Total,
		Loaded:   true,
	}
	if result.Vehicles == nil {
		result.Vehicles = []Vehicle{}
	}
	result.TotalPages = (result.Total + f.pageSize() - 1) / f.pageSize()
	return result, nil
}
