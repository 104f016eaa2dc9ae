package cardimages

import (
	"context"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestClient(t *testing.T, handler http.HandlerFunc) (*Client, *int32) {
	t.Helper()
	var calls int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&calls, 1)
		handler(w, r)
	}))
	t.Cleanup(srv.Close)

	c := NewClient(Options{BaseURL: srv.URL, APIKey: "key", RateInterval: time.Millisecond})
	c.backoff = time.Millisecond
	return c, &calls
}

func TestLookupCardImage(t *testing.T) {
	c, calls := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/cards", r.URL.Path)
		assert.Equal(t, `name:"Pikachu"`, r.URL.Query().Get("q"))
		assert.Equal(t, "1", r.URL.Query().Get("pageSize"))
		assert.Equal(t, "key", r.Header.Get("X-Api-Key"))
		_, _ = w.Write([]byte(`{"data":[{"id":"sv1-54","name":"Pikachu","images":{"small":"s.png","large":"l.png"}}]}`))
	})

	img, err := c.LookupCardImage(context.Background(), "Pikachu SVI 54")
	require.NoError(t, err)
	require.NotNil(t, img)
	assert.Equal(t, "sv1-54", img.ID)
	assert.Equal(t, "l.png", img.LargeURL)

	// served from cache, case-insensitively
	_, err = c.LookupCardImage(context.Background(), "pikachu")
	require.NoError(t, err)
	assert.Equal(t, int32(1), atomic.LoadInt32(calls))
}

func TestLookupCardImage_MissIsCachedUntilExpiry(t *testing.T) {
	c, calls := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"data":[]}`))
	})
	now := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	c.now = func() time.Time { return now }

	img, err := c.LookupCardImage(context.Background(), "Missingno")
	require.NoError(t, err)
	assert.Nil(t, img)
	_, _ = c.LookupCardImage(context.Background(), "Missingno")
	assert.Equal(t, int32(1), atomic.LoadInt32(calls))

	now = now.Add(25 * time.Hour)
	_, _ = c.LookupCardImage(context.Background(), "Missingno")
	assert.Equal(t, int32(2), atomic.LoadInt32(calls))
}

func TestLookupCardImage_RetriesServerErrors(t *testing.T) {
	var n int32
	c, calls := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		switch atomic.AddInt32(&n, 1) {
		case 1:
			w.WriteHeader(http.StatusTooManyRequests)
		case 2:
			w.WriteHeader(http.StatusBadGateway)
		default:
			_, _ = w.Write([]byte(`{"data":[{"id":"x","name":"Iono"}]}`))
		}
	})

	img, err := c.LookupCardImage(context.Background(), "Iono")
	require.NoError(t, err)
	require.NotNil(t, img)
	assert.Equal(t, int32(3), atomic.LoadInt32(calls))
}

func TestLookupCardImage_GivesUp(t *testing.T) {
	c, calls := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusServiceUnavailable)
	})

	_, err := c.LookupCardImage(context.Background(), "Iono")
	assert.ErrorContains(t, err, "max retries exceeded")
	assert.Equal(t, int32(maxRetries+1), atomic.LoadInt32(calls))
}

func TestLookupCardImage_ClientErrorNotRetried(t *testing.T) {
	c, calls := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
	})

	_, err := c.LookupCardImage(context.Background(), "Iono")
	assert.ErrorContains(t, err, "unexpected status 400")
	assert.Equal(t, int32(1), atomic.LoadInt32(calls))
}

func TestLookupCardImage_BlankName(t *testing.T) {
	c, calls := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {})
	img, err := c.LookupCardImage(context.Background(), "   ")
	assert.NoError(t, err)
	assert.Nil(t, img)
	assert.Zero(t, atomic.LoadInt32(calls))
}
