package feed_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/alejandrodnm/bbfs/internal/adapters/feed"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const sample = `[{"date": "2024-01-01", "day": "Senin", "result": "0712"},
{"date": "2024-01-02", "day": "Selasa", "result": "4821"}]`

func newTestClient() *feed.Client {
	return feed.NewClient(feed.Config{
		Timeout:       2 * time.Second,
		RatePerSecond: 1000,
		MaxRetries:    2,
		RetryWait:     time.Millisecond,
	})
}

func TestFetchDraws_Success(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodGet, r.Method)
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(sample))
	}))
	defer srv.Close()

	recs, err := newTestClient().FetchDraws(context.Background(), srv.URL)
	require.NoError(t, err)
	require.Len(t, recs, 2)
	assert.Equal(t, "4821", recs[1].Result)
}

func TestFetchDraws_RetriesServerErrors(t *testing.T) {
	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch calls.Add(1) {
		case 1:
			w.WriteHeader(http.StatusServiceUnavailable)
		case 2:
			w.WriteHeader(http.StatusTooManyRequests)
		default:
			w.Write([]byte(sample))
		}
	}))
	defer srv.Close()

	recs, err := newTestClient().FetchDraws(context.Background(), srv.URL)
	require.NoError(t, err)
	assert.Len(t, recs, 2)
	assert.Equal(t, int32(3), calls.Load())
}

func TestFetchDraws_GivesUpAfterRetries(t *testing.T) {
	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer srv.Close()

	_, err := newTestClient().FetchDraws(context.Background(), srv.URL)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "500")
	assert.Equal(t, int32(3), calls.Load())
}

func TestFetchDraws_ClientErrorNotRetried(t *testing.T) {
	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		http.Error(w, "no such feed", http.StatusNotFound)
	}))
	defer srv.Close()

	_, err := newTestClient().FetchDraws(context.Background(), srv.URL)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "404")
	assert.Contains(t, err.Error(), "no such feed")
	assert.Equal(t, int32(1), calls.Load())
}

func TestFetchDraws_ParseError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("maintenance"))
	}))
	defer srv.Close()

	_, err := newTestClient().FetchDraws(context.Background(), srv.URL)
	assert.ErrorIs(t, err, feed.ErrNoDraws)
}

func TestFetchDraws_ContextCancelled(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(sample))
	}))
	defer srv.Close()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := newTestClient().FetchDraws(ctx, srv.URL)
	assert.ErrorIs(t, err, context.Canceled)
}
