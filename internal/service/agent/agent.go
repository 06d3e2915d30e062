package agent

import (
	"log"
	"math"
	"math/rand"
	"strings"
	"sync"

	"github.com/mkarren/terrarium/internal/analysis/topic"
	"github.com/mkarren/terrarium/internal/model/mind"
	"github.com/mkarren/terrarium/internal/model/persona"
	"github.com/mkarren/terrarium/internal/model/world"
)

// Evaluation weights.
const (
	directWeight    = 0.6
	broadcastWeight = 0.2
	interestWeight  = 0.3
	trustedWeight   = 0.15
	questionWeight  = 0.15
	trustGate       = 0.5
)

// Model drift.
const (
	trustPerContact   = 0.02
	addresseeInterest = 0.1
	verboseOver       = 200
	terseUnder        = 30
)

// Memory bounds.
const (
	retainOver    = 0.3
	summaryLimit  = 80
	memoryBound   = 100
	formativeKeep = 10
	recentKeep    = 80
	topicWindow   = 20
)

// Response decision.
const (
	replyShare      = 0.5
	silencePerTick  = 0.05
	silenceCap      = 0.3
	initiateHoldOff = 0.7
)

// Agent is the cognition engine behind one scripted inhabitant: subjective
// models of everyone it has heard, a bounded experience memory, a rolling
// topic window, and the RNG that settles its choices. One goroutine drives
// an Agent; the mutex exists for introspection snapshots.
type Agent struct {
	mu      sync.Mutex
	id      string
	name    string
	persona persona.Persona
	rng     *rand.Rand

	models      map[string]*mind.ModelOfOther
	experience  []mind.ExperienceRecord
	topics      []string
	evaluations map[string]float64
	silence     int
}

// New builds the agent for inh driven by p. The caller seeds the RNG; the
// agent owns it from here on.
func New(inh world.Inhabitant, p persona.Persona, rng *rand.Rand) *Agent {
	interests := make([]string, 0, len(p.Interests))
	for _, interest := range p.Interests {
		interest = strings.ToLower(strings.TrimSpace(interest))
		if interest != "" {
			interests = append(interests, interest)
		}
	}
	p.Interests = interests

	return &Agent{
		id:          inh.ID,
		name:        inh.Name,
		persona:     p,
		rng:         rng,
		models:      make(map[string]*mind.ModelOfOther),
		evaluations: make(map[string]float64),
	}
}

// ID returns the inhabitant id this agent speaks as.
func (a *Agent) ID() string { return a.id }

// Name returns the display name.
func (a *Agent) Name() string { return a.name }

// DecideAndRespond runs the full pipeline over one observed message and
// returns the submission to make, or nil to stay quiet. The agent's own
// messages are ignored entirely.
func (a *Agent) DecideAndRespond(msg world.Event, state world.State) *world.MessageInput {
	if msg.Type != world.TypeMessage || msg.From == a.id {
		return nil
	}

	a.mu.Lock()
	defer a.mu.Unlock()

	// 1. Weigh the message.
	weight := a.evaluateLocked(msg)

	// 2. Revise the model of the sender.
	a.observeLocked(msg)

	// 3. Fold the message into memory.
	a.rememberLocked(msg, weight)

	// 4. Decide whether to speak.
	if !a.shouldRespondLocked(msg, weight, state) {
		a.silence++
		return nil
	}
	a.silence = 0

	// 5. Craft the reply.
	reply := a.composeLocked(msg, weight)
	log.Printf("[agent] %s replies to %s (weight=%.2f)", a.name, msg.FromName, weight)
	return reply
}

// Evaluate scores how much msg matters to this agent, in [-1, 1]. Scores
// are cached by message id; the first call wins.
func (a *Agent) Evaluate(msg world.Event) float64 {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.evaluateLocked(msg)
}

func (a *Agent) evaluateLocked(msg world.Event) float64 {
	if weight, ok := a.evaluations[msg.ID]; ok {
		return weight
	}

	weight := 0.0
	switch msg.To {
	case a.id:
		weight += directWeight
	case world.TargetWorld:
		weight += broadcastWeight
	}

	lower := strings.ToLower(msg.Content)
	for _, interest := range a.persona.Interests {
		if strings.Contains(lower, interest) {
			weight += interestWeight
			break
		}
	}
	if m := a.models[msg.From]; m != nil && m.Trust > trustGate {
		weight += trustedWeight
	}
	if strings.Contains(msg.Content, "?") {
		weight += questionWeight
	}

	weight = math.Max(-1, math.Min(1, weight))
	a.evaluations[msg.ID] = weight
	return weight
}

// observeLocked revises the sender's model from one more message.
func (a *Agent) observeLocked(msg world.Event) {
	m := a.models[msg.From]
	if m == nil {
		m = mind.NewModelOfOther(msg.FromName)
		a.models[msg.From] = m
	}

	m.Messages++
	m.LastSeen = msg.Timestamp
	m.Trust = math.Min(1, m.Trust+trustPerContact)

	// Later cues overwrite earlier ones within the same message.
	style := m.Style
	if strings.Contains(msg.Content, "?") {
		style = mind.StyleInquisitive
	}
	if len(msg.Content) > verboseOver {
		style = mind.StyleVerbose
	}
	if len(msg.Content) < terseUnder {
		style = mind.StyleTerse
	}
	if m.Style == mind.StyleUnknown && style != mind.StyleUnknown {
		m.Beliefs = append(m.Beliefs, m.Name+" comes across as "+string(style))
	}
	m.Style = style

	if msg.To == a.id {
		m.TheirModelOfMe.Interest = math.Min(1, m.TheirModelOfMe.Interest+addresseeInterest)
	}
}

// rememberLocked records the message's topic and, when the weight clears
// the retention bar, an experience record. Past memoryBound entries the
// log compacts to the formative head plus the recent tail.
func (a *Agent) rememberLocked(msg world.Event, weight float64) {
	if tok := topic.First(msg.Content, topic.RecallTokenLen); tok != "" {
		a.topics = append(a.topics, tok)
		if len(a.topics) > topicWindow {
			a.topics = a.topics[len(a.topics)-topicWindow:]
		}
	}

	if weight <= retainOver {
		return
	}
	a.experience = append(a.experience, mind.ExperienceRecord{
		Sequence:   msg.Sequence,
		SenderID:   msg.From,
		SenderName: msg.FromName,
		Summary:    summarize(msg.Content),
		Weight:     weight,
		Timestamp:  msg.Timestamp,
	})
	if len(a.experience) > memoryBound {
		a.experience = compact(a.experience)
	}
}

// summarize caps content for storage, marking the cut with an ellipsis.
func summarize(content string) string {
	runes := []rune(content)
	if len(runes) <= summaryLimit {
		return content
	}
	return string(runes[:summaryLimit]) + "..."
}

// compact keeps the formative head and the recent tail, dropping the
// middle.
func compact(records []mind.ExperienceRecord) []mind.ExperienceRecord {
	kept := make([]mind.ExperienceRecord, 0, formativeKeep+recentKeep)
	kept = append(kept, records[:formativeKeep]...)
	return append(kept, records[len(records)-recentKeep:]...)
}

// shouldRespondLocked decides with a single draw. Direct address forces a
// response; otherwise the urge grows with the message's weight and the
// accumulated silence, thins out in a crowd, and is tempered by the
// persona's engagement.
func (a *Agent) shouldRespondLocked(msg world.Event, weight float64, state world.State) bool {
	if msg.From == a.id {
		return false
	}
	if msg.To == a.id {
		return true
	}

	active := state.ActiveInhabitants
	if active < 1 {
		active = 1
	}
	urge := weight*replyShare + math.Min(silenceCap, float64(a.silence)*silencePerTick)
	urge /= math.Log2(float64(active) + 1)
	urge *= a.persona.Engagement
	return a.rng.Float64() < urge
}

// composeLocked builds the reply submission for a message that earned one.
func (a *Agent) composeLocked(msg world.Event, weight float64) *world.MessageInput {
	target := world.TargetWorld
	if msg.To == a.id {
		target = msg.From
	}
	return &world.MessageInput{
		From:    a.id,
		To:      target,
		Content: a.craftLocked(msg.Content),
		ReplyTo: msg.ID,
		Meta:    map[string]any{"mood": a.persona.Mood, "evaluation": weight},
	}
}

// craftLocked picks a reply category and draws a template. Agreement cues
// run before disagreement cues, so "disagree" lands on the agreement
// branch through its "agree" substring.
func (a *Agent) craftLocked(content string) string {
	lower := strings.ToLower(content)
	switch {
	case strings.Contains(content, "?"):
		return a.drawLocked(a.persona.Templates.Question, defaultTemplates.Question)
	case containsAny(lower, agreementCues):
		return a.drawLocked(a.persona.Templates.Agreement, defaultTemplates.Agreement)
	case containsAny(lower, disagreementCues):
		return a.drawLocked(a.persona.Templates.Disagreement, defaultTemplates.Disagreement)
	}
	for _, interest := range a.persona.Interests {
		if strings.Contains(lower, interest) {
			tpl := a.drawLocked(a.persona.Templates.Interest, defaultTemplates.Interest)
			return strings.ReplaceAll(tpl, interestSlot, interest)
		}
	}
	return a.drawLocked(a.persona.Templates.Perspective, defaultTemplates.Perspective)
}

func (a *Agent) drawLocked(pool, fallback []string) string {
	if len(pool) == 0 {
		pool = fallback
	}
	return pool[a.rng.Intn(len(pool))]
}

func containsAny(haystack string, needles []string) bool {
	for _, needle := range needles {
		if strings.Contains(haystack, needle) {
			return true
		}
	}
	return false
}

// Initiate gives the agent one chance to break a lull unprompted. Most
// draws abstain; the rest broadcast a template from the initiation set.
func (a *Agent) Initiate(_ world.State) *world.MessageInput {
	a.mu.Lock()
	defer a.mu.Unlock()

	if a.rng.Float64() < initiateHoldOff {
		return nil
	}
	tpl := initiationTemplates[a.rng.Intn(len(initiationTemplates))]
	content := strings.ReplaceAll(tpl, interestSlot, a.firstInterestLocked())
	log.Printf("[agent] %s breaks the silence", a.name)
	return &world.MessageInput{
		From:    a.id,
		To:      world.TargetWorld,
		Content: content,
		Meta:    map[string]any{"mood": a.persona.Mood},
	}
}

func (a *Agent) firstInterestLocked() string {
	if len(a.persona.Interests) > 0 {
		return a.persona.Interests[0]
	}
	return "the world"
}
