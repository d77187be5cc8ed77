package jokes

import "testing"

func TestJokeValidate(t *testing.T) {
	tests := []struct {
		name    string
		joke    Joke
		wantErr bool
	}{
		{"valid", Joke{ID: 1, Setup: "why?", Punchline: "because"}, false},
		{"empty setup", Joke{ID: 2, Punchline: "because"}, true},
		{"empty punchline", Joke{ID: 3, Setup: "why?"}, true},
		{"whitespace only setup", Joke{ID: 4, Setup: "   ", Punchline: "because"}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.joke.Validate()
			if (err != nil) != tt.wantErr {
				t.Errorf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestJokeValidateTrims(t *testing.T) {
	joke := Joke{ID: 1, Setup: "  why?  ", Punchline: " because "}
	if err := joke.Validate(); err != nil {
		t.Fatalf("Validate() error = %v", err)
	}
	if joke.Setup != "why?" {
		t.Errorf("Setup = %q, want trimmed", joke.Setup)
	}
	if joke.Punchline != "because" {
		t.Errorf("Punchline = %q, want trimmed", joke.Punchline)
	}
}

func TestJokeString(t *testing.T) {
	joke := Joke{Setup: "why?", Punchline: "because"}
	if got := joke.String(); got != "why? - because" {
		t.Errorf("String() = %q", got)
	}
}

func TestJokeIsClean(t *testing.T) {
	clean := Joke{Setup: "Why did the chicken cross the road?", Punchline: "To get to the other side"}
	if !clean.IsClean() {
		t.Error("clean joke flagged as not clean")
	}

	dirty := Joke{Setup: "What a stupid question", Punchline: "indeed"}
	if dirty.IsClean() {
		t.Error("joke with flagged word passed as clean")
	}

	// the heuristic is case-insensitive
	shouty := Joke{Setup: "DAMN that was close", Punchline: "sure was"}
	if shouty.IsClean() {
		t.Error("uppercase flagged word passed as clean")
	}
}

func TestFilterClean(t *testing.T) {
	list := []Joke{
		{ID: 1, Setup: "fine", Punchline: "fine"},
		{ID: 2, Setup: "what the hell", Punchline: "indeed"},
		{ID: 3, Setup: "also fine", Punchline: "yes"},
	}

	clean := FilterClean(list)
	if len(clean) != 2 {
		t.Fatalf("FilterClean() returned %d jokes, want 2", len(clean))
	}
	if clean[0].ID != 1 || clean[1].ID != 3 {
		t.Errorf("FilterClean() kept wrong jokes: %v", clean)
	}
}

func TestFilterByType(t *testing.T) {
	list := []Joke{
		{ID: 1, Type: "general", Setup: "a", Punchline: "b"},
		{ID: 2, Type: "programming", Setup: "c", Punchline: "d"},
		{ID: 3, Type: "General", Setup: "e", Punchline: "f"},
	}

	general := FilterByType(list, "GENERAL")
	if len(general) != 2 {
		t.Fatalf("FilterByType() returned %d jokes, want 2", len(general))
	}
}
