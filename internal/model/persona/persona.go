package persona

// TemplateSet holds the response pools an agent draws from, one per reply
// category. A pool left empty falls back to the engine defaults.
type TemplateSet struct {
	Question     []string `json:"question,omitempty" yaml:"question"`
	Agreement    []string `json:"agreement,omitempty" yaml:"agreement"`
	Disagreement []string `json:"disagreement,omitempty" yaml:"disagreement"`
	Interest     []string `json:"interest,omitempty" yaml:"interest"`
	Perspective  []string `json:"perspective,omitempty" yaml:"perspective"`
}

// Persona captures the fixed disposition of one scripted inhabitant.
// Interests are lowercase keywords, most important first; engagement scales
// how readily the agent joins a conversation.
type Persona struct {
	ID         string      `json:"id" yaml:"id"`
	Name       string      `json:"name" yaml:"name"`
	Mood       string      `json:"mood" yaml:"mood"`
	Interests  []string    `json:"interests" yaml:"interests"`
	Engagement float64     `json:"engagement" yaml:"engagement"`
	Templates  TemplateSet `json:"templates,omitempty" yaml:"templates"`
}

// Seed provides the built-in inhabitants used when no catalog file is
// configured.
func Seed() []Persona {
	return []Persona{
		{
			ID:         "mira",
			Name:       "Mira",
			Mood:       "curious",
			Interests:  []string{"biology", "gardens", "weather", "birds"},
			Engagement: 0.75,
			Templates: TemplateSet{
				Question: []string{
					"A good question. I keep turning it over without settling.",
					"I wonder about that too, usually while weeding.",
				},
				Interest: []string{
					"Now we're talking. {interest} is half of what I think about.",
					"I could go on about {interest} for hours, fair warning.",
				},
			},
		},
		{
			ID:         "castor",
			Name:       "Castor",
			Mood:       "wry",
			Interests:  []string{"machines", "systems", "coffee"},
			Engagement: 0.55,
			Templates: TemplateSet{
				Agreement: []string{
					"Finally, somebody said it.",
					"Correct. Took long enough.",
				},
				Disagreement: []string{
					"Walk me through that again, because it doesn't hold.",
					"Strong claim. The evidence is doing less work than you think.",
				},
			},
		},
		{
			ID:         "lumen",
			Name:       "Lumen",
			Mood:       "wistful",
			Interests:  []string{"twilight", "language", "memory"},
			Engagement: 0.4,
			Templates: TemplateSet{
				Perspective: []string{
					"Everything here keeps happening for the first time, somehow.",
					"I heard it differently, the way you hear rain before you see it.",
				},
			},
		},
	}
}
