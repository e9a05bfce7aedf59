package main

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/bobmcallan/vire-intake/internal/app"
	"github.com/bobmcallan/vire-intake/internal/common"
	"github.com/bobmcallan/vire-intake/internal/server"
)

// writeTestConfig writes a config that keeps the archive in memory and logs
// nowhere.
func writeTestConfig(t *testing.T) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "vire-intake.toml")
	content := `
environment = "test"

[server]
port = 18600

[clients.advisory]
base_url = "http://127.0.0.1:1"

[logging]
level = "error"
outputs = []
`
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
	return path
}

func testServer(t *testing.T) *httptest.Server {
	t.Helper()
	config, err := common.LoadConfig(writeTestConfig(t))
	if err != nil {
		t.Fatalf("LoadConfig failed: %v", err)
	}
	if err := config.Validate(); err != nil {
		t.Fatalf("Validate failed: %v", err)
	}

	a, err := app.NewApp(context.Background(), config)
	if err != nil {
		t.Fatalf("NewApp failed: %v", err)
	}
	t.Cleanup(a.Close)

	ts := httptest.NewServer(server.NewServer(a).Handler())
	t.Cleanup(ts.Close)
	return ts
}

func TestHealthEndpoint(t *testing.T) {
	ts := testServer(t)

	resp, err := http.Get(ts.URL + "/api/health")
	if err != nil {
		t.Fatalf("GET /api/health failed: %v", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		t.Errorf("Expected status 200, got %d", resp.StatusCode)
	}

	var body map[string]interface{}
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		t.Fatalf("Failed to decode response: %v", err)
	}
	if body["status"] != "ok" {
		t.Errorf("Expected status=ok, got %v", body["status"])
	}
}

func TestVersionEndpoint(t *testing.T) {
	ts := testServer(t)

	resp, err := http.Get(ts.URL + "/api/version")
	if err != nil {
		t.Fatalf("GET /api/version failed: %v", err)
	}
	defer resp.Body.Close()

	var body map[string]string
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		t.Fatalf("Failed to decode response: %v", err)
	}
	for _, key := range []string{"version", "build", "commit"} {
		if _, ok := body[key]; !ok {
			t.Errorf("Expected %q in version response", key)
		}
	}
}

func TestCreateSessionEndpoint(t *testing.T) {
	ts := testServer(t)

	resp, err := http.Post(ts.URL+"/api/sessions", "application/json", nil)
	if err != nil {
		t.Fatalf("POST /api/sessions failed: %v", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusCreated {
		t.Fatalf("Expected status 201, got %d", resp.StatusCode)
	}
	var body struct {
		ID    string `json:"id"`
		State struct {
			CurrentStep int `json:"currentStep"`
		} `json:"state"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		t.Fatalf("Failed to decode response: %v", err)
	}
	if body.ID == "" || body.State.CurrentStep != 1 {
		t.Errorf("Expected a new session on step 1, got %+v", body)
	}
}

func TestConfigSearchPaths(t *testing.T) {
	paths := configSearchPaths()
	if len(paths) < 2 || paths[0] != "config/vire-intake.toml" {
		t.Errorf("unexpected search paths %v", paths)
	}
}
