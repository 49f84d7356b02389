package catalog

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/xenking/outdoor-shop/internal/domain/product"
)

func TestFetchProducts(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/api/products", r.URL.Path)
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`[
			{"id":"p1","name":"Camping Tent","description":"2-person tent","price":129.99,"imageUrl":"/CampingTent.jpg"},
			{"id":"p2","name":"Headlamp","description":"Bright LED headlamp","price":24.99,"imageUrl":"/Headlamp.jpg"}
		]`))
	}))
	defer srv.Close()

	products, err := NewClient(srv.URL).FetchProducts(context.Background())

	require.NoError(t, err)
	require.Len(t, products, 2)
	assert.Equal(t, "p1", products[0].ID)
	assert.Equal(t, "Camping Tent", products[0].Name)
	assert.True(t, decimal.RequireFromString("129.99").Equal(products[0].Price))
	assert.Equal(t, "/Headlamp.jpg", products[1].ImageURL)
}

func TestFetchProducts_ServerError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, `{"message":"Server error fetching products"}`, http.StatusInternalServerError)
	}))
	defer srv.Close()

	_, err := NewClient(srv.URL).FetchProducts(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unexpected status 500")
}

func TestFilter(t *testing.T) {
	products := []product.Product{
		{ID: "p1", Name: "Camping Tent", Description: "Lightweight 2-person tent"},
		{ID: "p2", Name: "Headlamp", Description: "Bright LED headlamp"},
		{ID: "p3", Name: "Water Bottle", Description: "Keeps drinks cool"},
	}

	assert.Len(t, Filter(products, ""), 3)

	byName := Filter(products, "tent")
	require.Len(t, byName, 1)
	assert.Equal(t, "p1", byName[0].ID)

	byDescription := Filter(products, "LED")
	require.Len(t, byDescription, 1)
	assert.Equal(t, "p2", byDescription[0].ID)

	caseInsensitive := Filter(products, "WATER")
	require.Len(t, caseInsensitive, 1)
	assert.Equal(t, "p3", caseInsensitive[0].ID)

	assert.Empty(t, Filter(products, "kayak"))
}
