package store

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"jobboard-engine/internal/limiter"
)

func TestLoad_HTTPRetriesServerErrors(t *testing.T) {
	body, err := os.ReadFile(filepath.Join("testdata", "data.json"))
	require.NoError(t, err)

	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if calls.Add(1) == 1 {
			http.Error(w, "try later", http.StatusServiceUnavailable)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write(body)
	}))
	defer srv.Close()

	st, err := Load(context.Background(), srv.URL+"/data.json", LoadOptions{
		Retries: 2,
		Limiter: limiter.NewHostLimiter(100, 5),
	})
	require.NoError(t, err)
	assert.Equal(t, 10, st.Len())
	assert.Equal(t, int32(2), calls.Load())
}

func TestLoad_HTTPClientErrorIsNotRetried(t *testing.T) {
	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		http.NotFound(w, r)
	}))
	defer srv.Close()

	_, err := Load(context.Background(), srv.URL+"/data.json", LoadOptions{Retries: 3})
	require.Error(t, err)

	var le *LoadError
	assert.True(t, errors.As(err, &le))
	assert.Equal(t, int32(1), calls.Load())
}

func TestLoad_HTTPSendsBearerToken(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get("Authorization") != "Bearer s3cret" {
			http.Error(w, "unauthorized", http.StatusUnauthorized)
			return
		}
		_, _ = w.Write([]byte(`[{"company":"Manage","position":"Fullstack Developer","languages":["Python"],"tools":["React"]}]`))
	}))
	defer srv.Close()

	_, err := Load(context.Background(), srv.URL, LoadOptions{})
	require.Error(t, err)

	st, err := Load(context.Background(), srv.URL, LoadOptions{Token: "s3cret"})
	require.NoError(t, err)
	assert.Equal(t, []string{"React"}, st.All()[0].Tools)
}

func TestLoad_HTMLOverHTTP(t *testing.T) {
	page, err := os.ReadFile(filepath.Join("testdata", "listing.html"))
	require.NoError(t, err)

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/html")
		_, _ = w.Write(page)
	}))
	defer srv.Close()

	st, err := Load(context.Background(), "html+"+srv.URL, LoadOptions{})
	require.NoError(t, err)
	assert.Equal(t, 2, st.Len())
}

func TestLoad_HTTPUnreachable(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	url := srv.URL
	srv.Close()

	_, err := Load(context.Background(), url, LoadOptions{})
	var le *LoadError
	assert.True(t, errors.As(err, &le))
}
