package browse

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func listingsResponse(total int, vehicles ...Vehicle) map[string]interface{} {
	return map[string]interface{}{
		"status":  "success",
		"message": "Listings fetched successfully",
		"data": map[string]interface{}{
			"vehicles": vehicles,
			"total":    total,
		},
	}
}

func TestFetch_Success(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/v1/listings", r.URL.Path)
		assert.Equal(t, "ev-car", r.URL.Query().Get("category"))
		json.NewEncoder(w).Encode(listingsResponse(25,
			Vehicle{ID: "1", Title: "2021 Tesla Model 3"},
			Vehicle{ID: "2", Title: "2020 Nissan Leaf"},
		))
	}))
	defer srv.Close()

	f := &Fetcher{BaseURL: srv.URL}
	state := DefaultState()
	state.Category = "ev-car"

	result, err := f.Fetch(context.Background(), state)
	require.NoError(t, err)
	assert.True(t, result.Loaded)
	assert.Len(t, result.Vehicles, 2)
	assert.Equal(t, 25, result.Total)
	assert.Equal(t, 3, result.TotalPages, "25 results at 12 per page is 3 pages")
}

func TestFetch_EmptyResultIsLoaded(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(listingsResponse(0))
	}))
	defer srv.Close()

	f := &Fetcher{BaseURL: srv.URL}
	result, err := f.Fetch(context.Background(), DefaultState())
	require.NoError(t, err)
	assert.True(t, result.Loaded, "an explicit empty result is loaded, not pending")
	assert.NotNil(t, result.Vehicles)
	assert.Empty(t, result.Vehicles)
	assert.Equal(t, 0, result.TotalPages)
}

func TestFetch_ServerError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
		json.NewEncoder(w).Encode(map[string]interface{}{
			"status": "error",
			"error":  map[string]interface{}{"message": "Internal Server Error", "statusCode": 500},
		})
	}))
	defer srv.Close()

	f := &Fetcher{BaseURL: srv.URL}
	_, err := f.Fetch(context.Background(), DefaultState())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "Internal Server Error")
}

func TestFetch_StaleResponseDiscarded(t *testing.T) {
	firstArrived := make(chan struct{})
	releaseFirst := make(chan struct{})

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Query().Get("search") == "slow" {
			close(firstArrived)
			<-releaseFirst
			json.NewEncoder(w).Encode(listingsResponse(1, Vehicle{ID: "stale"}))
			return
		}
		json.NewEncoder(w).Encode(listingsResponse(1, Vehicle{ID: "fresh"}))
	}))
	defer srv.Close()

	f := &Fetcher{BaseURL: srv.URL}

	slowState := DefaultState()
	slowState.Search = "slow"

	type fetchOut struct {
		result *Result
		err    error
	}
	done := make(chan fetchOut, 1)
	go func() {
		r, err := f.Fetch(context.Background(), slowState)
		done <- fetchOut{r, err}
	}()

	// Wait for the slow request to be in flight, then run a newer cycle.
	<-firstArrived
	fresh, err := f.Fetch(context.Background(), DefaultState())
	require.NoError(t, err)
	require.Len(t, fresh.Vehicles, 1)
	assert.Equal(t, "fresh", fresh.Vehicles[0].ID)

	// Let the old response land; it must be discarded, not delivered.
	close(releaseFirst)
	out := <-done
	assert.Nil(t, out.result)
	assert.True(t, errors.Is(out.err, ErrStale))
}

func TestFetch_PageAndLimitParams(t *testing.T) {
	var gotPage, gotLimit string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPage = r.URL.Query().Get("page")
		gotLimit = r.URL.Query().Get("limit")
		json.NewEncoder(w).Encode(listingsResponse(0))
	}))
	defer srv.Close()

	f := &Fetcher{BaseURL: srv.URL, PageSize: 24}
	state := DefaultState()
	state.SetPage(2)

	_, err := f.Fetch(context.Background(), state)
	require.NoError(t, err)
	assert.Equal(t, "2", gotPage)
	assert.Equal(t, "24", gotLimit)
}
