package stream

import (
	"bufio"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/mkarren/terrarium/internal/model/world"
	worldservice "github.com/mkarren/terrarium/internal/service/world"
)

func TestPublishReachesSubscribers(t *testing.T) {
	w := worldservice.NewService()
	h := New(w)

	ch := h.subscribe()
	defer h.unsubscribe(ch)

	if _, err := w.Enter(context.Background(), world.Inhabitant{ID: "ava", Name: "Ava"}); err != nil {
		t.Fatalf("enter: %v", err)
	}

	select {
	case env := <-ch:
		if env.name != worldservice.EventEnter {
			t.Fatalf("expected %s, got %s", worldservice.EventEnter, env.name)
		}
		if env.event.Inhabitant == nil || env.event.Inhabitant.ID != "ava" {
			t.Fatalf("unexpected event payload: %+v", env.event)
		}
	default:
		t.Fatal("expected an event in the subscriber channel")
	}
}

func TestSlowSubscribersMissEventsInsteadOfBlocking(t *testing.T) {
	w := worldservice.NewService()
	h := New(w)

	ch := h.subscribe()
	defer h.unsubscribe(ch)

	ctx := context.Background()
	if _, err := w.Enter(ctx, world.Inhabitant{ID: "ava", Name: "Ava"}); err != nil {
		t.Fatalf("enter: %v", err)
	}
	for i := 0; i < clientBuffer+5; i++ {
		if _, err := w.ProcessMessage(ctx, world.MessageInput{From: "ava", Content: "again"}); err != nil {
			t.Fatalf("message %d: %v", i, err)
		}
	}

	if len(ch) != clientBuffer {
		t.Fatalf("expected a full buffer of %d, got %d", clientBuffer, len(ch))
	}
}

func TestStreamDeliversEventsOverHTTP(t *testing.T) {
	w := worldservice.NewService()
	h := New(w)

	r := chi.NewRouter()
	h.RegisterRoutes(r)
	srv := httptest.NewServer(r)
	defer srv.Close()

	client := &http.Client{Timeout: 2 * time.Second}
	resp, err := client.Get(srv.URL + "/world/stream")
	if err != nil {
		t.Fatalf("open stream: %v", err)
	}
	defer resp.Body.Close()

	if ct := resp.Header.Get("Content-Type"); ct != "text/event-stream" {
		t.Fatalf("expected an event stream, got %q", ct)
	}

	if _, err := w.Enter(context.Background(), world.Inhabitant{ID: "ava", Name: "Ava"}); err != nil {
		t.Fatalf("enter: %v", err)
	}

	reader := bufio.NewReader(resp.Body)
	var name, data string
	for data == "" {
		line, err := reader.ReadString('\n')
		if err != nil {
			t.Fatalf("read stream: %v", err)
		}
		line = strings.TrimRight(line, "\n")
		switch {
		case strings.HasPrefix(line, "event: "):
			name = strings.TrimPrefix(line, "event: ")
		case strings.HasPrefix(line, "data: "):
			data = strings.TrimPrefix(line, "data: ")
		}
	}

	if name != worldservice.EventEnter {
		t.Fatalf("expected %s, got %s", worldservice.EventEnter, name)
	}

	var ev world.Event
	if err := json.Unmarshal([]byte(data), &ev); err != nil {
		t.Fatalf("decode event: %v", err)
	}
	if ev.Type != world.TypeEnter || ev.Inhabitant == nil || ev.Inhabitant.ID != "ava" {
		t.Fatalf("unexpected event: %+v", ev)
	}
}
