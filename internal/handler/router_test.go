package handler

import (
	"math/rand"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/mkarren/terrarium/internal/model/persona"
	"github.com/mkarren/terrarium/internal/service/director"
	worldservice "github.com/mkarren/terrarium/internal/service/world"
)

func setupRouter() http.Handler {
	worldSvc := worldservice.NewService()
	d := director.New(worldSvc, director.Config{}, rand.New(rand.NewSource(1)))
	return NewRouter(persona.NewMemoryStore(persona.Seed()), worldSvc, d)
}

func TestRoutesAreWired(t *testing.T) {
	r := setupRouter()

	paths := []string{
		"/api/health",
		"/api/personas",
		"/api/world/state",
		"/api/world/inhabitants",
		"/api/world/messages",
		"/api/world/memory",
		"/api/agents",
	}

	for _, path := range paths {
		req := httptest.NewRequest(http.MethodGet, path, nil)
		resp := httptest.NewRecorder()
		r.ServeHTTP(resp, req)
		if resp.Code != http.StatusOK {
			t.Fatalf("expected 200 from %s, got %d", path, resp.Code)
		}
	}
}

func TestCORSHeadersArePresent(t *testing.T) {
	r := setupRouter()

	req := httptest.NewRequest(http.MethodOptions, "/api/health", nil)
	resp := httptest.NewRecorder()
	r.ServeHTTP(resp, req)

	if resp.Code != http.StatusNoContent {
		t.Fatalf("expected 204 for preflight, got %d", resp.Code)
	}
	if origin := resp.Header().Get("Access-Control-Allow-Origin"); origin != "*" {
		t.Fatalf("expected wildcard origin, got %q", origin)
	}
}
