package dataset

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strconv"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/shopyard/importer/internal/domain"
)

func fakeStoreFixture(id int, title string) map[string]any {
	return map[string]any{
		"id":          id,
		"title":       title,
		"price":       109.95,
		"description": "Your perfect pack for everyday use.",
		"category":    "men's clothing",
		"image":       "https://fakestoreapi.com/img/81fPKd-2AYL.jpg",
		"rating":      map[string]any{"rate": 3.9, "count": 120},
	}
}

func TestFakeStoreFetchByID(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/1", r.URL.Path)
		json.NewEncoder(w).Encode(fakeStoreFixture(1, "Fjallraven Backpack"))
	}))
	defer server.Close()

	client := NewFakeStoreClient(server.URL, 5*time.Second)
	result, err := client.FetchProduct(context.Background(), "1")
	require.NoError(t, err)

	p := result.Product
	assert.Equal(t, "Fjallraven Backpack", p.Name)
	assert.InDelta(t, 109.95, p.SalePrice, 0.0001)
	assert.Equal(t, "USD", p.Currency)
	assert.Equal(t, "men-s-clothing", p.Category)

	// Stock comes from rating.count, the only stock-like signal
	require.NotNil(t, p.Stock)
	assert.Equal(t, 120, *p.Stock)
	assert.Equal(t, 3.9, p.Metadata["rating"])

	assert.Equal(t, "FAKESTORE-1", p.SuggestedSKU)
	assert.Equal(t, DatasetFakeStore, result.Raw.Dataset)
}

func TestFakeStoreFetchByIDNotFound(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	}))
	defer server.Close()

	client := NewFakeStoreClient(server.URL, 5*time.Second)
	result, err := client.FetchProduct(context.Background(), "99")

	assert.Nil(t, result)
	require.ErrorIs(t, err, domain.ErrProductNotFound)
	assert.Contains(t, err.Error(), "1-20")
	assert.Contains(t, err.Error(), "random")
}

func TestFakeStoreFetchByIDEmptyBody(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("null"))
	}))
	defer server.Close()

	client := NewFakeStoreClient(server.URL, 5*time.Second)
	result, err := client.FetchProduct(context.Background(), "21")

	assert.Nil(t, result)
	assert.ErrorIs(t, err, domain.ErrProductNotFound)
}

func TestFakeStoreRandom(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id, err := strconv.Atoi(strings.TrimPrefix(r.URL.Path, "/"))
		require.NoError(t, err)
		assert.GreaterOrEqual(t, id, 1)
		assert.LessOrEqual(t, id, 20)
		json.NewEncoder(w).Encode(fakeStoreFixture(id, "Random Pick"))
	}))
	defer server.Close()

	client := NewFakeStoreClient(server.URL, 5*time.Second)
	result, err := client.FetchProduct(context.Background(), "random")
	require.NoError(t, err)

	assert.Equal(t, "Random Pick", result.Product.Name)
}

func TestFakeStoreSearchByTitle(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/", r.URL.Path)
		json.NewEncoder(w).Encode([]map[string]any{
			fakeStoreFixture(1, "Fjallraven Backpack"),
			fakeStoreFixture(2, "Mens Casual T-Shirt"),
		})
	}))
	defer server.Close()

	client := NewFakeStoreClient(server.URL, 5*time.Second)
	result, err := client.FetchProduct(context.Background(), "casual t-shirt")
	require.NoError(t, err)

	assert.Equal(t, "Mens Casual T-Shirt", result.Product.Name)
	assert.Equal(t, server.URL+"/2", result.Product.SourceURL)
}

func TestFakeStoreSearchNoMatch(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode([]map[string]any{
			fakeStoreFixture(1, "Fjallraven Backpack"),
			fakeStoreFixture(2, "Mens Casual T-Shirt"),
		})
	}))
	defer server.Close()

	client := NewFakeStoreClient(server.URL, 5*time.Second)
	result, err := client.FetchProduct(context.Background(), "submarine")

	assert.Nil(t, result)
	require.ErrorIs(t, err, domain.ErrProductNotFound)
	assert.Contains(t, err.Error(), "submarine")
	assert.Contains(t, err.Error(), "between 1 and 2")
}

func TestFakeStoreEmptyReferenceDefaultsToFirst(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/1", r.URL.Path)
		json.NewEncoder(w).Encode(fakeStoreFixture(1, "First Product"))
	}))
	defer server.Close()

	client := NewFakeStoreClient(server.URL, 5*time.Second)
	result, err := client.FetchProduct(context.Background(), "")
	require.NoError(t, err)

	assert.Equal(t, "First Product", result.Product.Name)
}
