//go:build integration

package integration

import (
	"io"
	"net/http"
	"strings"
	"testing"
)

func TestListProducts(t *testing.T) {
	resp := doGet(t, "/api/products")
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected 200, got %d", resp.StatusCode)
	}

	products := decodeJSON[[]productResponse](t, resp)
	if len(products) != 9 {
		t.Fatalf("expected 9 products, got %d", len(products))
	}
}

func TestListProducts_Fields(t *testing.T) {
	resp := doGet(t, "/api/products")
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected 200, got %d", resp.StatusCode)
	}

	products := decodeJSON[[]productResponse](t, resp)

	var backpack *productResponse
	for i := range products {
		if products[i].ID == "hiking-backpack" {
			backpack = &products[i]
			break
		}
	}

	if backpack == nil {
		t.Fatal("product 'hiking-backpack' not found")
	}
	if backpack.Name != "Hiking Backpack" {
		t.Errorf("name: got %q, want %q", backpack.Name, "Hiking Backpack")
	}
	if backpack.Price != 79.99 {
		t.Errorf("price: got %v, want 79.99", backpack.Price)
	}
	if backpack.Description == "" {
		t.Error("description is empty")
	}
	if backpack.ImageURL == "" {
		t.Error("imageUrl is empty")
	}
}

func TestStatusEndpoint(t *testing.T) {
	resp := doGet(t, "/")
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected 200, got %d", resp.StatusCode)
	}

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		t.Fatalf("read body: %v", err)
	}
	if !strings.Contains(string(data), "API is running") {
		t.Errorf("unexpected status body: %q", data)
	}
}
