package topic

import "testing"

func TestFirstPicksTheFirstLongToken(t *testing.T) {
	cases := []struct {
		content string
		minLen  int
		want    string
	}{
		{"Biology fascinates me", 4, "biology"},
		{"an ox DOG ran past", 2, "dog"},
		{"so it goes", 4, ""},
		{"", 4, ""},
		{"   spaced    OUT   words   ", 5, "spaced"},
		{"short short lengthy", 5, "lengthy"},
	}
	for _, tc := range cases {
		if got := First(tc.content, tc.minLen); got != tc.want {
			t.Fatalf("First(%q, %d) = %q, want %q", tc.content, tc.minLen, got, tc.want)
		}
	}
}

func TestClassifyFreshTopicIsFork(t *testing.T) {
	recent := []string{"the weather turned", "cold again today"}
	if got := Classify("Biology question for the room", recent); got != Fork {
		t.Fatalf("expected fork, got %s", got)
	}
}

func TestClassifyRepeatedTopicIsPerturbation(t *testing.T) {
	recent := []string{"Biology fascinates me", "sure does"}
	if got := Classify("biology again, sorry", recent); got != Perturbation {
		t.Fatalf("expected perturbation, got %s", got)
	}
}

func TestClassifyTopiclessMessageIsPerturbation(t *testing.T) {
	if got := Classify("ok go on", nil); got != Perturbation {
		t.Fatalf("expected perturbation for topicless content, got %s", got)
	}
}

func TestClassifyIsCaseInsensitive(t *testing.T) {
	recent := []string{"TIDES pull hard tonight"}
	if got := Classify("tides again", recent); got != Perturbation {
		t.Fatalf("expected perturbation across case, got %s", got)
	}
}
