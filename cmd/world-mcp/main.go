// world-mcp exposes a terrarium world as an MCP stdio server.
//
// The world runs in-process with its full agent cast. Tool callers join
// as human inhabitants, speak, and read the log; agents react on their
// own goroutine between calls.
//
// Environment variables:
//
//	WORLD_SEED      — pin the world's randomness for reproducible runs
//	PERSONAS_FILE   — YAML persona catalog (default: built-in cast)
//
// Usage:
//
//	go install github.com/mkarren/terrarium/cmd/world-mcp
//	world-mcp
package main

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"math/rand"
	"os"
	"os/signal"
	"strconv"
	"strings"
	"syscall"
	"time"

	"github.com/google/uuid"
	"github.com/modelcontextprotocol/go-sdk/mcp"

	personaModel "github.com/mkarren/terrarium/internal/model/persona"
	"github.com/mkarren/terrarium/internal/model/world"
	"github.com/mkarren/terrarium/internal/service/agent"
	"github.com/mkarren/terrarium/internal/service/director"
	worldservice "github.com/mkarren/terrarium/internal/service/world"
)

func main() {
	seed := time.Now().UnixNano()
	if raw := strings.TrimSpace(os.Getenv("WORLD_SEED")); raw != "" {
		parsed, err := strconv.ParseInt(raw, 10, 64)
		if err != nil {
			log.Fatalf("invalid WORLD_SEED value %q: %v", raw, err)
		}
		seed = parsed
	}
	rng := rand.New(rand.NewSource(seed))

	personas := personaModel.Seed()
	if path := strings.TrimSpace(os.Getenv("PERSONAS_FILE")); path != "" {
		var err error
		personas, err = personaModel.LoadFile(path)
		if err != nil {
			log.Fatalf("load persona catalog: %v", err)
		}
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	worldSvc := worldservice.NewService()
	d := director.New(worldSvc, director.Config{}, rand.New(rand.NewSource(rng.Int63())))
	for _, p := range personas {
		inh := world.Inhabitant{ID: p.ID, Name: p.Name, Kind: world.KindAgent}
		if err := d.Register(ctx, agent.New(inh, p, rand.New(rand.NewSource(rng.Int63())))); err != nil {
			log.Fatalf("register agent %s: %v", p.ID, err)
		}
	}
	go d.Run(ctx)

	server := mcp.NewServer(&mcp.Implementation{
		Name:    "world-mcp",
		Version: "1.0.0",
	}, nil)

	// --- Tool: world_enter ---
	mcp.AddTool(server, &mcp.Tool{
		Name:        "world_enter",
		Description: "Join the world as a human inhabitant. Returns the enter event carrying the inhabitant id to speak as.",
	}, enterHandler(worldSvc))

	// --- Tool: world_leave ---
	mcp.AddTool(server, &mcp.Tool{
		Name:        "world_leave",
		Description: "Leave the world. Relationships survive departure and are waiting on re-entry.",
	}, leaveHandler(worldSvc))

	// --- Tool: world_say ---
	mcp.AddTool(server, &mcp.Tool{
		Name:        "world_say",
		Description: "Say something, to one inhabitant or to the whole world. Returns the recorded event; agent reactions land in the log shortly after.",
	}, sayHandler(worldSvc))

	// --- Tool: world_state ---
	mcp.AddTool(server, &mcp.Tool{
		Name:        "world_state",
		Description: "Summarize the world: who is present and how much has happened.",
	}, stateHandler(worldSvc))

	// --- Tool: world_recent ---
	mcp.AddTool(server, &mcp.Tool{
		Name:        "world_recent",
		Description: "Read the most recent messages in chronological order.",
	}, recentHandler(worldSvc))

	// --- Tool: world_relationships ---
	mcp.AddTool(server, &mcp.Tool{
		Name:        "world_relationships",
		Description: "Read one inhabitant's outgoing relationship edges: model tier, entanglement, and interaction counts.",
	}, relationshipsHandler(worldSvc))

	if err := server.Run(ctx, &mcp.StdioTransport{}); err != nil {
		log.Fatalf("world-mcp: %v", err)
	}
}

// --- Input types ---

type enterInput struct {
	Name string `json:"name"         jsonschema:"Display name to join the world with"`
	ID   string `json:"id,omitempty" jsonschema:"Optional stable id. A fresh one is minted when empty"`
}

type leaveInput struct {
	ID string `json:"id" jsonschema:"Inhabitant id returned by world_enter"`
}

type sayInput struct {
	From    string `json:"from"              jsonschema:"Sender inhabitant id"`
	To      string `json:"to,omitempty"      jsonschema:"Recipient inhabitant id. Empty broadcasts to the world"`
	Content string `json:"content"           jsonschema:"What to say"`
	ReplyTo string `json:"replyTo,omitempty" jsonschema:"Optional id of the message being answered"`
}

type stateInput struct{}

type recentInput struct {
	Limit int `json:"limit,omitempty" jsonschema:"Max messages to return (default 20)"`
}

type relationshipsInput struct {
	ID string `json:"id" jsonschema:"Inhabitant id whose outgoing edges to read"`
}

// --- Handlers ---

func enterHandler(w *worldservice.Service) func(context.Context, *mcp.CallToolRequest, enterInput) (*mcp.CallToolResult, any, error) {
	return func(ctx context.Context, req *mcp.CallToolRequest, input enterInput) (*mcp.CallToolResult, any, error) {
		id := input.ID
		if id == "" {
			id = uuid.NewString()
		}

		ev, err := w.Enter(ctx, world.Inhabitant{ID: id, Name: input.Name, Kind: world.KindHuman})
		if err != nil {
			return textResult(fmt.Sprintf("error: %v", err)), nil, nil
		}
		return textResult(jsonString(ev)), nil, nil
	}
}

func leaveHandler(w *worldservice.Service) func(context.Context, *mcp.CallToolRequest, leaveInput) (*mcp.CallToolResult, any, error) {
	return func(ctx context.Context, req *mcp.CallToolRequest, input leaveInput) (*mcp.CallToolResult, any, error) {
		ev, err := w.Leave(ctx, input.ID)
		if err != nil {
			return textResult(fmt.Sprintf("error: %v", err)), nil, nil
		}
		return textResult(jsonString(ev)), nil, nil
	}
}

func sayHandler(w *worldservice.Service) func(context.Context, *mcp.CallToolRequest, sayInput) (*mcp.CallToolResult, any, error) {
	return func(ctx context.Context, req *mcp.CallToolRequest, input sayInput) (*mcp.CallToolResult, any, error) {
		if input.From == "" {
			return textResult(`{"error": "from is required"}`), nil, nil
		}

		ev, err := w.ProcessMessage(ctx, world.MessageInput{
			From:    input.From,
			To:      input.To,
			Content: input.Content,
			ReplyTo: input.ReplyTo,
		})
		if err != nil {
			return textResult(fmt.Sprintf("error: %v", err)), nil, nil
		}
		return textResult(jsonString(ev)), nil, nil
	}
}

func stateHandler(w *worldservice.Service) func(context.Context, *mcp.CallToolRequest, stateInput) (*mcp.CallToolResult, any, error) {
	return func(ctx context.Context, req *mcp.CallToolRequest, input stateInput) (*mcp.CallToolResult, any, error) {
		return textResult(jsonString(w.State(ctx))), nil, nil
	}
}

func recentHandler(w *worldservice.Service) func(context.Context, *mcp.CallToolRequest, recentInput) (*mcp.CallToolResult, any, error) {
	return func(ctx context.Context, req *mcp.CallToolRequest, input recentInput) (*mcp.CallToolResult, any, error) {
		limit := input.Limit
		if limit <= 0 {
			limit = worldservice.DefaultRecentLimit
		}
		return textResult(jsonString(w.RecentMessages(ctx, limit))), nil, nil
	}
}

func relationshipsHandler(w *worldservice.Service) func(context.Context, *mcp.CallToolRequest, relationshipsInput) (*mcp.CallToolResult, any, error) {
	return func(ctx context.Context, req *mcp.CallToolRequest, input relationshipsInput) (*mcp.CallToolResult, any, error) {
		edges, err := w.Relationships(ctx, input.ID)
		if err != nil {
			return textResult(fmt.Sprintf("error: %v", err)), nil, nil
		}
		return textResult(jsonString(edges)), nil, nil
	}
}

// --- Helpers ---

func textResult(text string) *mcp.CallToolResult {
	return &mcp.CallToolResult{
		Content: []mcp.Content{
			&mcp.TextContent{Text: text},
		},
	}
}

func jsonString(v any) string {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Sprintf(`{"error": "marshal: %v"}`, err)
	}
	return string(data)
}
