package jokes

import (
	"fmt"
	"strings"

	errs "jokesdk/pkg/errors"
)

// Joke is a single joke from the Sample APIs jokes service
type Joke struct {
	ID        int    `json:"id"`
	Type      string `json:"type,omitempty"`
	Setup     string `json:"setup"`
	Punchline string `json:"punchline"`
}

// Validate normalizes the joke in place and rejects jokes missing a setup
// or punchline.
func (j *Joke) Validate() error {
	j.Setup = strings.TrimSpace(j.Setup)
	j.Punchline = strings.TrimSpace(j.Punchline)

	if j.Setup == "" {
		return errs.NewValidation("joke setup cannot be empty")
	}
	if j.Punchline == "" {
		return errs.NewValidation("joke punchline cannot be empty")
	}
	return nil
}

func (j Joke) String() string {
	return fmt.Sprintf("%s - %s", j.Setup, j.Punchline)
}

// inappropriateWords drives the IsClean heuristic
var inappropriateWords = []string{"damn", "hell", "stupid", "idiot", "dumb", "crap"}

// IsClean reports whether the joke looks family-friendly. It is a basic
// word-list heuristic, not a content rating.
func (j Joke) IsClean() bool {
	text := strings.ToLower(j.Setup + " " + j.Punchline)
	for _, word := range inappropriateWords {
		if strings.Contains(text, word) {
			return false
		}
	}
	return true
}

// FilterClean returns the family-friendly subset of jokes
func FilterClean(list []Joke) []Joke {
	var clean []Joke
	for _, joke := range list {
		if joke.IsClean() {
			clean = append(clean, joke)
		}
	}
	return clean
}

// FilterByType returns the jokes whose type matches, case-insensitively
func FilterByType(list []Joke, jokeType string) []Joke {
	var filtered []Joke
	for _, joke := range list {
		if strings.EqualFold(joke.Type, jokeType) {
			filtered = append(filtered, joke)
		}
	}
	return filtered
}
