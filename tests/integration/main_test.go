//go:build integration
// +build integration

package integration

import (
	"encoding/json"
	"fmt"
	"net/http"
	"testing"
)

func TestHealthz(t *testing.T) {
	baseURL := envOrDefault("INTEGRATION_BASE_URL", "http://localhost:8080")
	resp, err := http.Get(fmt.Sprintf("%s/healthz", baseURL))
	if err != nil {
		t.Fatalf("health check request failed: %v", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		t.Fatalf("unexpected status code: %d", resp.StatusCode)
	}
}

func TestPing(t *testing.T) {
	baseURL := envOrDefault("INTEGRATION_BASE_URL", "http://localhost:8080")
	resp, err := http.Get(fmt.Sprintf("%s/v1/ping", baseURL))
	if err != nil {
		t.Fatalf("ping request failed: %v", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		t.Fatalf("dependencies unhealthy: status %d", resp.StatusCode)
	}
}

func TestCatalogHasEnoughCountries(t *testing.T) {
	baseURL := envOrDefault("INTEGRATION_BASE_URL", "http://localhost:8080")
	resp, err := http.Get(fmt.Sprintf("%s/v1/catalog", baseURL))
	if err != nil {
		t.Fatalf("catalog request failed: %v", err)
	}
	defer resp.Body.Close()

	var out struct {
		Count int `json:"count"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		t.Fatalf("decode catalog: %v", err)
	}
	if out.Count < 3 {
		t.Fatalf("catalog too small to play: %d countries", out.Count)
	}
}

func TestErrorResponses(t *testing.T) {
	baseURL := envOrDefault("INTEGRATION_BASE_URL", "http://localhost:8080")
	sess := createSession(t, baseURL)

	tests := []struct {
		name   string
		method string
		path   string
		token  string
		body   interface{}
		status int
		code   string
	}{
		{"missing token", http.MethodGet, "/v1/game", "", nil, http.StatusUnauthorized, "invalid_token"},
		{"garbage token", http.MethodGet, "/v1/game", "garbage", nil, http.StatusUnauthorized, "invalid_token"},
		{"answer before start", http.MethodPost, "/v1/game/answer", sess.Token, map[string]int{"slot": 0}, http.StatusConflict, "game_not_in_progress"},
		{"missing slot", http.MethodPost, "/v1/game/answer", sess.Token, map[string]string{}, http.StatusBadRequest, "missing_field"},
		{"wrong method", http.MethodGet, "/v1/game/start", sess.Token, nil, http.StatusMethodNotAllowed, "method_not_allowed"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resp := doJSON(t, tt.method, baseURL+tt.path, tt.token, tt.body)
			defer resp.Body.Close()

			if resp.StatusCode != tt.status {
				t.Fatalf("expected status %d, got %d", tt.status, resp.StatusCode)
			}
			var out struct {
				Error string `json:"error"`
			}
			if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
				t.Fatalf("decode error body: %v", err)
			}
			if out.Error != tt.code {
				t.Fatalf("expected code %q, got %q", tt.code, out.Error)
			}
		})
	}
}
