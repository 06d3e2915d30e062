package main

import (
	"context"
	"errors"
	"log"
	"math/rand"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"github.com/mkarren/terrarium/internal/config"
	"github.com/mkarren/terrarium/internal/handler"
	personaModel "github.com/mkarren/terrarium/internal/model/persona"
	"github.com/mkarren/terrarium/internal/model/world"
	"github.com/mkarren/terrarium/internal/service/agent"
	"github.com/mkarren/terrarium/internal/service/director"
	worldservice "github.com/mkarren/terrarium/internal/service/world"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// Load .env file
	if err := godotenv.Load(); err != nil {
		log.Printf("warning: failed to load .env file: %v", err)
		log.Println("continuing with system environment variables only")
	}

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load configuration: %v", err)
	}

	// Load the persona catalog, falling back to the built-in cast.
	personas := personaModel.Seed()
	if cfg.World.PersonasFile != "" {
		personas, err = personaModel.LoadFile(cfg.World.PersonasFile)
		if err != nil {
			log.Fatalf("failed to load persona catalog: %v", err)
		}
		log.Printf("loaded %d personas from %s", len(personas), cfg.World.PersonasFile)
	}
	personaStore := personaModel.NewMemoryStore(personas)

	// One master seed drives every stream of randomness, so a pinned
	// WORLD_SEED reproduces a whole run.
	seed := cfg.World.SeedValue()
	log.Printf("world seed %d", seed)
	rng := rand.New(rand.NewSource(seed))

	worldSvc := worldservice.NewService()
	d := director.New(worldSvc, director.Config{
		DelayMin:      cfg.Director.DelayMin,
		DelayMax:      cfg.Director.DelayMax,
		InitiateEvery: cfg.Director.InitiateEvery,
	}, rand.New(rand.NewSource(rng.Int63())))

	for _, p := range personas {
		inh := world.Inhabitant{ID: p.ID, Name: p.Name, Kind: world.KindAgent}
		a := agent.New(inh, p, rand.New(rand.NewSource(rng.Int63())))
		if err := d.Register(ctx, a); err != nil {
			log.Fatalf("failed to register agent %s: %v", p.ID, err)
		}
	}

	go d.Run(ctx)

	router := handler.NewRouter(personaStore, worldSvc, d)

	startServer(ctx, cfg.Server, router)
}

func startServer(ctx context.Context, serverCfg config.ServerConfig, router http.Handler) {
	addr := serverCfg.Addr
	srv := &http.Server{
		Addr:              addr,
		Handler:           router,
		ReadHeaderTimeout: 5 * time.Second,
		IdleTimeout:       120 * time.Second,
	}

	log.Printf("terrarium listening on %s", addr)
	if err := runServer(ctx, srv); err != nil {
		log.Fatalf("server error: %v", err)
	}
}

func runServer(ctx context.Context, srv *http.Server) error {
	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.ListenAndServe()
	}()

	select {
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		_ = srv.Shutdown(shutdownCtx)
		err := <-errCh
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	}
}
