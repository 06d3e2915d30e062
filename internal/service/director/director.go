package director

import (
	"context"
	"log"
	"math/rand"
	"sort"
	"sync"
	"time"

	"github.com/mkarren/terrarium/internal/model/world"
	"github.com/mkarren/terrarium/internal/service/agent"
	worldservice "github.com/mkarren/terrarium/internal/service/world"
)

// Config controls the pacing of agent activity.
type Config struct {
	// DelayMin and DelayMax bound the random pause before an agent
	// reacts to a message. A DelayMax of zero disables the pause.
	DelayMin time.Duration
	DelayMax time.Duration

	// InitiateEvery is how often idle agents are offered a chance to
	// start a conversation. Zero disables initiation entirely.
	InitiateEvery time.Duration
}

type task func()

// queueDepth bounds pending agent work. When the queue is full new
// work is dropped rather than blocking the world's emit path.
const queueDepth = 1024

// Director owns the agent roster and drives every agent reaction
// through a single goroutine, so agents never race each other into
// the world.
type Director struct {
	world *worldservice.Service
	cfg   Config

	rngMu sync.Mutex
	rng   *rand.Rand

	mu     sync.RWMutex
	agents map[string]*agent.Agent

	tasks chan task
}

// New wires a director to a world. Every message the world publishes
// is fanned out to the roster; replies flow back through
// ProcessMessage on the director's goroutine.
func New(w *worldservice.Service, cfg Config, rng *rand.Rand) *Director {
	d := &Director{
		world:  w,
		cfg:    cfg,
		rng:    rng,
		agents: make(map[string]*agent.Agent),
		tasks:  make(chan task, queueDepth),
	}
	w.On(worldservice.EventMessage, d.fanOut)
	return d
}

// Register enters the agent into the world and adds it to the roster.
func (d *Director) Register(ctx context.Context, a *agent.Agent) error {
	if _, err := d.world.Enter(ctx, world.Inhabitant{ID: a.ID(), Name: a.Name(), Kind: world.KindAgent}); err != nil {
		return err
	}

	d.mu.Lock()
	d.agents[a.ID()] = a
	d.mu.Unlock()

	log.Printf("[director] %s joined the world", a.Name())
	return nil
}

// IDs returns the roster's agent ids in stable order.
func (d *Director) IDs() []string {
	d.mu.RLock()
	defer d.mu.RUnlock()

	ids := make([]string, 0, len(d.agents))
	for id := range d.agents {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}

// Snapshot exposes one agent's mind for inspection.
func (d *Director) Snapshot(id string) (agent.Snapshot, bool) {
	d.mu.RLock()
	a, ok := d.agents[id]
	d.mu.RUnlock()
	if !ok {
		return agent.Snapshot{}, false
	}
	return a.Snapshot(), true
}

// Run works the task queue until the context is cancelled. Initiation
// ticks share the same loop, so a burst of replies delays the next
// opener instead of overlapping it.
func (d *Director) Run(ctx context.Context) {
	var tick <-chan time.Time
	if d.cfg.InitiateEvery > 0 {
		ticker := time.NewTicker(d.cfg.InitiateEvery)
		defer ticker.Stop()
		tick = ticker.C
	}

	log.Printf("[director] running with %d agents", len(d.IDs()))
	for {
		select {
		case <-ctx.Done():
			return
		case fn := <-d.tasks:
			fn()
		case <-tick:
			d.initiateAll()
		}
	}
}

// fanOut schedules a reaction for every agent except the sender.
// It runs on the world's emit path and must not block.
func (d *Director) fanOut(ev world.Event) {
	d.mu.RLock()
	ids := make([]string, 0, len(d.agents))
	for id := range d.agents {
		if id == ev.From {
			continue
		}
		ids = append(ids, id)
	}
	d.mu.RUnlock()
	sort.Strings(ids)

	for _, id := range ids {
		id := id
		fn := func() { d.decide(id, ev) }
		if delay := d.drawDelay(); delay > 0 {
			time.AfterFunc(delay, func() { d.enqueue(fn) })
			continue
		}
		d.enqueue(fn)
	}
}

func (d *Director) drawDelay() time.Duration {
	if d.cfg.DelayMax <= 0 {
		return 0
	}
	min := d.cfg.DelayMin
	if min < 0 {
		min = 0
	}
	if d.cfg.DelayMax <= min {
		return min
	}
	d.rngMu.Lock()
	defer d.rngMu.Unlock()
	return min + time.Duration(d.rng.Int63n(int64(d.cfg.DelayMax-min)))
}

func (d *Director) enqueue(fn task) {
	select {
	case d.tasks <- fn:
	default:
		log.Printf("[director] task queue full, dropping work")
	}
}

// decide runs one agent's full reaction to one message. The world
// state is read at execution time, not at scheduling time, so delayed
// reactions see the room as it is when they finally fire.
func (d *Director) decide(id string, ev world.Event) {
	d.mu.RLock()
	a, ok := d.agents[id]
	d.mu.RUnlock()
	if !ok {
		return
	}

	ctx := context.Background()
	reply := a.DecideAndRespond(ev, d.world.State(ctx))
	if reply == nil {
		return
	}
	if _, err := d.world.ProcessMessage(ctx, *reply); err != nil {
		log.Printf("[director] dropping reply from %s: %v", a.Name(), err)
	}
}

func (d *Director) initiateAll() {
	d.mu.RLock()
	ids := make([]string, 0, len(d.agents))
	agents := make(map[string]*agent.Agent, len(d.agents))
	for id, a := range d.agents {
		ids = append(ids, id)
		agents[id] = a
	}
	d.mu.RUnlock()
	sort.Strings(ids)

	ctx := context.Background()
	for _, id := range ids {
		opener := agents[id].Initiate(d.world.State(ctx))
		if opener == nil {
			continue
		}
		if _, err := d.world.ProcessMessage(ctx, *opener); err != nil {
			log.Printf("[director] dropping opener from %s: %v", agents[id].Name(), err)
		}
	}
}
