package searchapi

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/assortcheck/backend/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewClient(t *testing.T) {
	client := NewClient("http://dlp-{env}-search-api.example.com:4000", 30*time.Second)

	assert.NotNil(t, client)
	assert.Equal(t, "http://dlp-{env}-search-api.example.com:4000", client.hostTemplate)
	assert.NotNil(t, client.httpClient)
	assert.NotNil(t, client.rateLimiter)
	assert.False(t, client.debug)
	assert.Equal(t, 30*time.Second, client.httpClient.Timeout)
}

func TestNewClient_DefaultTimeout(t *testing.T) {
	client := NewClient("http://search.example.com", 0)

	assert.Equal(t, 30*time.Second, client.httpClient.Timeout)
}

func TestSetDebug(t *testing.T) {
	client := NewClient("http://search.example.com", time.Second)

	assert.False(t, client.debug)

	client.SetDebug(true)
	assert.True(t, client.debug)

	client.SetDebug(false)
	assert.False(t, client.debug)
}

func TestEndpointURL(t *testing.T) {
	client := NewClient("http://dlp-{env}-search-api.example.com:4000", time.Second)

	url := client.endpointURL(domain.EnvStaging, "croma")
	assert.Equal(t, "http://dlp-staging-search-api.example.com:4000/search?shop_id=croma", url)
}

func TestEndpointURL_EscapesShopID(t *testing.T) {
	client := NewClient("http://search.example.com", time.Second)

	url := client.endpointURL(domain.EnvProd, "shop with spaces")
	assert.Equal(t, "http://search.example.com/search?shop_id=shop+with+spaces", url)
}

func TestSearch_Success(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/search", r.URL.Path)
		assert.Equal(t, "croma", r.URL.Query().Get("shop_id"))
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))

		body, err := io.ReadAll(r.Body)
		require.NoError(t, err)

		var req map[string]interface{}
		require.NoError(t, json.Unmarshal(body, &req))
		assert.Equal(t, "ai laptops", req["query"])
		assert.Equal(t, float64(400), req["size"])
		assert.Equal(t, false, req["force_exploding_variants"])

		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"products": [
			{"product_id": "p-1", "title": "Samsung AI Laptop", "description": "HDR10+ display", "price": 999},
			{"product_id": "p-2", "title": "Generic Mouse"}
		]}`))
	}))
	defer server.Close()

	client := NewClient(server.URL, 5*time.Second)
	ctx := context.Background()

	products, err := client.Search(ctx, "croma", domain.EnvProd, "ai laptops", 400)

	require.NoError(t, err)
	require.Len(t, products, 2)
	assert.Equal(t, "p-1", products[0].ID)
	assert.Equal(t, "Samsung AI Laptop", products[0].Title)
	assert.Equal(t, "HDR10+ display", products[0].Description)
	assert.Equal(t, "p-2", products[1].ID)
	assert.Equal(t, domain.FieldPlaceholder, products[1].Description)
}

func TestSearch_FullPayloadRetained(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"products": [
			{"product_id": "p-1", "title": "TV", "attributes": {"panel": "HDR10+"}}
		]}`))
	}))
	defer server.Close()

	client := NewClient(server.URL, 5*time.Second)

	products, err := client.Search(context.Background(), "croma", domain.EnvProd, "tv", 10)

	require.NoError(t, err)
	require.Len(t, products, 1)
	// Nested attribute values must survive into the matchable text
	assert.Contains(t, products[0].SearchText(), "hdr10+")
}

func TestSearch_APIError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
		w.Write([]byte("upstream exploded"))
	}))
	defer server.Close()

	client := NewClient(server.URL, 5*time.Second)

	products, err := client.Search(context.Background(), "croma", domain.EnvProd, "laptops", 10)

	assert.Nil(t, products)
	var apiErr *domain.APIError
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, http.StatusInternalServerError, apiErr.StatusCode)
	assert.Equal(t, "upstream exploded", apiErr.Body)
}

func TestSearch_SingleAttempt(t *testing.T) {
	attempts := 0

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		attempts++
		w.WriteHeader(http.StatusServiceUnavailable)
	}))
	defer server.Close()

	client := NewClient(server.URL, 5*time.Second)

	_, err := client.Search(context.Background(), "croma", domain.EnvProd, "laptops", 10)

	assert.Error(t, err)
	assert.Equal(t, 1, attempts) // no automatic retries
}

func TestSearch_EmptyProducts(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"products": []}`))
	}))
	defer server.Close()

	client := NewClient(server.URL, 5*time.Second)

	products, err := client.Search(context.Background(), "croma", domain.EnvProd, "no such thing", 10)

	assert.Nil(t, products)
	var emptyErr *domain.EmptyResultsError
	require.ErrorAs(t, err, &emptyErr)
	assert.Equal(t, "no such thing", emptyErr.Query)
}

func TestSearch_MissingProductsField(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"took_ms": 12}`))
	}))
	defer server.Close()

	client := NewClient(server.URL, 5*time.Second)

	_, err := client.Search(context.Background(), "croma", domain.EnvProd, "laptops", 10)

	var emptyErr *domain.EmptyResultsError
	require.ErrorAs(t, err, &emptyErr)
}

func TestSearch_ConnectionRefused(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	server.Close() // nothing listening anymore

	client := NewClient(server.URL, 5*time.Second)

	products, err := client.Search(context.Background(), "croma", domain.EnvProd, "laptops", 10)

	assert.Nil(t, products)
	var netErr *domain.NetworkError
	require.ErrorAs(t, err, &netErr)
	assert.False(t, netErr.Timeout)
}

func TestSearch_Timeout(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		time.Sleep(500 * time.Millisecond)
	}))
	defer server.Close()

	client := NewClient(server.URL, 50*time.Millisecond)

	products, err := client.Search(context.Background(), "croma", domain.EnvProd, "laptops", 10)

	assert.Nil(t, products)
	var netErr *domain.NetworkError
	require.ErrorAs(t, err, &netErr)
	assert.True(t, netErr.Timeout)
}

func TestSearch_InvalidJSON(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte("not json"))
	}))
	defer server.Close()

	client := NewClient(server.URL, 5*time.Second)

	products, err := client.Search(context.Background(), "croma", domain.EnvProd, "laptops", 10)

	assert.Nil(t, products)
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "failed to decode response")
}

func TestSearch_RequestCreationError(t *testing.T) {
	client := NewClient("://invalid-url", 5*time.Second)

	products, err := client.Search(context.Background(), "croma", domain.EnvProd, "laptops", 10)

	assert.Nil(t, products)
	assert.Error(t, err)
}

func TestReadLimitedBody(t *testing.T) {
	t.Run("reads within limit", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Write([]byte("short content"))
		}))
		defer server.Close()

		resp, err := http.Get(server.URL)
		require.NoError(t, err)
		defer resp.Body.Close()

		body, err := readLimitedBody(resp.Body, 1000)
		require.NoError(t, err)
		assert.Equal(t, "short content", string(body))
	})

	t.Run("truncates beyond limit", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			for i := 0; i < 100; i++ {
				w.Write([]byte("0123456789"))
			}
		}))
		defer server.Close()

		resp, err := http.Get(server.URL)
		require.NoError(t, err)
		defer resp.Body.Close()

		body, err := readLimitedBody(resp.Body, 100)
		require.NoError(t, err)
		assert.Len(t, body, 100)
	})
}
