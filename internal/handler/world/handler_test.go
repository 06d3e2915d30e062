package world

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"

	"github.com/mkarren/terrarium/internal/model/world"
	worldservice "github.com/mkarren/terrarium/internal/service/world"
)

func setupRouter() (*chi.Mux, *worldservice.Service) {
	svc := worldservice.NewService()
	r := chi.NewRouter()
	New(svc).RegisterRoutes(r)
	return r, svc
}

func do(r *chi.Mux, method, path string, body any) *httptest.ResponseRecorder {
	var reader io.Reader
	if body != nil {
		payload, _ := json.Marshal(body)
		reader = bytes.NewReader(payload)
	}
	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	resp := httptest.NewRecorder()
	r.ServeHTTP(resp, req)
	return resp
}

func TestEnterMintsAnID(t *testing.T) {
	r, _ := setupRouter()

	resp := do(r, http.MethodPost, "/world/inhabitants", map[string]string{"name": "Ava"})
	if resp.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d", resp.Code)
	}

	var ev world.Event
	if err := json.Unmarshal(resp.Body.Bytes(), &ev); err != nil {
		t.Fatalf("decode event: %v", err)
	}
	if ev.Type != world.TypeEnter {
		t.Fatalf("expected enter event, got %s", ev.Type)
	}
	if ev.Sequence != 1 {
		t.Fatalf("expected sequence 1, got %d", ev.Sequence)
	}
	if ev.Inhabitant == nil || ev.Inhabitant.ID == "" {
		t.Fatalf("expected a minted inhabitant id, got %+v", ev.Inhabitant)
	}
	if ev.Inhabitant.Kind != world.KindHuman {
		t.Fatalf("expected kind to default to human, got %s", ev.Inhabitant.Kind)
	}
}

func TestEnterValidation(t *testing.T) {
	r, _ := setupRouter()

	if resp := do(r, http.MethodPost, "/world/inhabitants", map[string]string{}); resp.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 for missing name, got %d", resp.Code)
	}
	if resp := do(r, http.MethodPost, "/world/inhabitants", map[string]string{"name": "Ava", "kind": "spirit"}); resp.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 for unknown kind, got %d", resp.Code)
	}

	req := httptest.NewRequest(http.MethodPost, "/world/inhabitants", bytes.NewReader([]byte("not-json")))
	resp := httptest.NewRecorder()
	r.ServeHTTP(resp, req)
	if resp.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 for malformed body, got %d", resp.Code)
	}
}

func TestLeaveUnknownInhabitant(t *testing.T) {
	r, _ := setupRouter()

	if resp := do(r, http.MethodDelete, "/world/inhabitants/ghost", nil); resp.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", resp.Code)
	}
}

func TestMessageFlow(t *testing.T) {
	r, _ := setupRouter()

	do(r, http.MethodPost, "/world/inhabitants", map[string]string{"id": "ava", "name": "Ava"})
	do(r, http.MethodPost, "/world/inhabitants", map[string]string{"id": "brook", "name": "Brook"})

	resp := do(r, http.MethodPost, "/world/messages", world.MessageInput{From: "ava", To: "brook", Content: "The tide pools glow at night."})
	if resp.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d", resp.Code)
	}

	var ev world.Event
	if err := json.Unmarshal(resp.Body.Bytes(), &ev); err != nil {
		t.Fatalf("decode event: %v", err)
	}
	if ev.Classification != world.Fork {
		t.Fatalf("expected a fork, got %s", ev.Classification)
	}
	if ev.Sequence != 3 {
		t.Fatalf("expected sequence 3, got %d", ev.Sequence)
	}

	var msgs []world.Event
	resp = do(r, http.MethodGet, "/world/messages", nil)
	if err := json.Unmarshal(resp.Body.Bytes(), &msgs); err != nil {
		t.Fatalf("decode messages: %v", err)
	}
	if len(msgs) != 1 || msgs[0].ID != ev.ID {
		t.Fatalf("expected the recorded message back, got %+v", msgs)
	}

	var state world.State
	resp = do(r, http.MethodGet, "/world/state", nil)
	if err := json.Unmarshal(resp.Body.Bytes(), &state); err != nil {
		t.Fatalf("decode state: %v", err)
	}
	if state.ActiveInhabitants != 2 || state.MessageCount != 1 || state.EventCount != 3 {
		t.Fatalf("unexpected state: %+v", state)
	}

	var edges map[string]world.RelationshipEdge
	resp = do(r, http.MethodGet, "/world/relationships/ava", nil)
	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", resp.Code)
	}
	if err := json.Unmarshal(resp.Body.Bytes(), &edges); err != nil {
		t.Fatalf("decode edges: %v", err)
	}
	edge, ok := edges["brook"]
	if !ok {
		t.Fatalf("expected an edge toward brook, got %+v", edges)
	}
	if edge.Interactions != 1 || edge.Entanglement != 0.1 {
		t.Fatalf("unexpected edge: %+v", edge)
	}
}

func TestMessageSenderValidation(t *testing.T) {
	r, _ := setupRouter()

	if resp := do(r, http.MethodPost, "/world/messages", world.MessageInput{From: "ghost", Content: "hello"}); resp.Code != http.StatusNotFound {
		t.Fatalf("expected 404 for unknown sender, got %d", resp.Code)
	}
	if resp := do(r, http.MethodPost, "/world/messages", world.MessageInput{Content: "hello"}); resp.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 for missing sender, got %d", resp.Code)
	}
}

func TestRecentMessagesRejectsBadLimit(t *testing.T) {
	r, _ := setupRouter()

	if resp := do(r, http.MethodGet, "/world/messages?limit=zero", nil); resp.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 for a word, got %d", resp.Code)
	}
	if resp := do(r, http.MethodGet, "/world/messages?limit=-3", nil); resp.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 for a negative limit, got %d", resp.Code)
	}
}

func TestRelationshipsUnknownInhabitant(t *testing.T) {
	r, _ := setupRouter()

	if resp := do(r, http.MethodGet, "/world/relationships/ghost", nil); resp.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", resp.Code)
	}
}
