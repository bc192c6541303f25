package textutil

import "testing"

func TestNormalizeTitle(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{"plain", "Intro Lecture", "intro lecture"},
		{"duration mm:ss", "Intro Lecture (12:34)", "intro lecture"},
		{"duration h:mm:ss", "Intro Lecture (1:02:03)", "intro lecture"},
		{"read only", "Quiz 1 (Read Only)", "quiz 1"},
		{"numeric id dash", "Welcome Video - 123456", "welcome video"},
		{"numeric id en dash", "Welcome Video – 98765", "welcome video"},
		{"numeric id hash", "Welcome Video #20231", "welcome video"},
		{"short trailing number kept", "Week 12", "week 12"},
		{"stacked suffixes", "Lab 2 (Read Only) (05:00)", "lab 2"},
		{"id then duration", "Lab 2 - 44521 (05:00)", "lab 2"},
		{"punctuation", "Module 3: Cells & Tissues!", "module 3 cells tissues"},
		{"whitespace", "  Multiple   spaces\there ", "multiple spaces here"},
		{"case folding", "STRASSE Straße", "strasse strasse"},
		{"accents kept", "Café Noir", "café noir"},
		{"empty", "", ""},
		{"only punctuation", "!!! ---", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := NormalizeTitle(tt.input); got != tt.want {
				t.Errorf("NormalizeTitle(%q) = %q, want %q", tt.input, got, tt.want)
			}
		})
	}
}

func TestNormalizeTitleEquivalences(t *testing.T) {
	pairs := [][2]string{
		{"Intro Lecture (12:34)", "Intro Lecture"},
		{"Quiz 1 (Read Only)", "Quiz 1"},
		{"quiz 1 (read only)", "QUIZ 1"},
	}
	for _, p := range pairs {
		if NormalizeTitle(p[0]) != NormalizeTitle(p[1]) {
			t.Errorf("NormalizeTitle(%q) = %q, NormalizeTitle(%q) = %q; want equal",
				p[0], NormalizeTitle(p[0]), p[1], NormalizeTitle(p[1]))
		}
	}
}

func TestNormalizeTitleIdempotent(t *testing.T) {
	inputs := []string{
		"Intro Lecture (12:34)",
		"Quiz 1 (Read Only)",
		"Lecture - 123456",
		"İstanbul Notes",
		"a_b-c|d",
		"Part 1 - (Read Only) - 00012345",
		"Ünïcödé ﬁle",
		"Ⅻ roman numerals",
		"  ",
		"(10:00)",
	}
	for _, in := range inputs {
		once := NormalizeTitle(in)
		twice := NormalizeTitle(once)
		if once != twice {
			t.Errorf("NormalizeTitle not idempotent for %q: %q then %q", in, once, twice)
		}
	}
}

func TestTokenize(t *testing.T) {
	got := Tokenize("Week 1: Intro (10:00)")
	want := []string{"week", "1", "intro"}
	if len(got) != len(want) {
		t.Fatalf("Tokenize() = %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("Tokenize()[%d] = %q, want %q", i, got[i], want[i])
		}
	}
}
