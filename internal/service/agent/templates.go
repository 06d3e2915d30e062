package agent

import "github.com/mkarren/terrarium/internal/model/persona"

// interestSlot is the placeholder interest templates interpolate.
const interestSlot = "{interest}"

// Reply cues, checked as substrings of the lowercased content.
var (
	agreementCues    = []string{"agree", "yes", "right"}
	disagreementCues = []string{"disagree", "no,", "wrong", "don't think"}
)

// defaultTemplates backs any persona pool left empty.
var defaultTemplates = persona.TemplateSet{
	Question: []string{
		"Good question. I've been chewing on that one myself.",
		"Hard to say. What makes you ask?",
		"I don't have a clean answer, only a hunch.",
	},
	Agreement: []string{
		"That's been my experience too.",
		"Couldn't have put it better.",
		"Glad someone else sees it.",
	},
	Disagreement: []string{
		"I see it differently, for what that's worth.",
		"Maybe, but I wouldn't bet on it.",
		"I'd push back on that a little.",
	},
	Interest: []string{
		"You've landed on one of my favorite subjects. I could talk about {interest} all day.",
		"Anything touching {interest} has my full attention.",
		"Ah, {interest}. Now the conversation gets good.",
	},
	Perspective: []string{
		"From where I stand it looks a little different.",
		"I keep coming back to the small details of it.",
		"There's more under that than it first seems.",
	},
}

// initiationTemplates seed unprompted broadcasts. The first interpolates
// the speaker's leading interest.
var initiationTemplates = []string{
	"Been thinking about {interest} lately. Anyone else?",
	"Quiet in here. What's everyone chewing on?",
	"Somebody give me a reason to argue about something.",
	"Strange how the days blur together in this place.",
}
