package generator

import (
	"strings"
	"testing"
	"unicode/utf8"
)

func testConfig() Config {
	return Config{
		Name:     "TechBot",
		Tone:     "professional",
		Topics:   []string{"technology", "AI"},
		Hashtags: []string{"#Tech", "#AI"},
	}
}

func TestGeneratePostReturnsCannedResponse(t *testing.T) {
	gen := New(testConfig())

	for i := 0; i < 20; i++ {
		post := gen.GeneratePost("technology")

		found := false
		for _, canned := range cannedResponses {
			if post == formatPost(canned) {
				found = true
				break
			}
		}
		if !found {
			t.Errorf("generated post is not from the canned corpus: %q", post)
		}
	}
}

func TestGeneratePostRespectsLimit(t *testing.T) {
	gen := New(testConfig())

	for i := 0; i < 20; i++ {
		post := gen.GeneratePost("AI")
		if n := utf8.RuneCountInString(post); n > MaxPostLength {
			t.Errorf("post exceeds %d characters: %d", MaxPostLength, n)
		}
	}
}

func TestFormatPostTruncation(t *testing.T) {
	long := strings.Repeat("a", 400)
	got := formatPost(long)

	if utf8.RuneCountInString(got) != MaxPostLength {
		t.Errorf("expected truncated length %d, got %d", MaxPostLength, utf8.RuneCountInString(got))
	}
	if !strings.HasSuffix(got, "...") {
		t.Errorf("expected truncated post to end with ellipsis, got %q", got[len(got)-10:])
	}
	if got[:MaxPostLength-3] != long[:MaxPostLength-3] {
		t.Error("truncation altered the kept prefix")
	}
}

func TestFormatPostKeepsShortText(t *testing.T) {
	short := "A short post. #Tech"
	if got := formatPost(short); got != short {
		t.Errorf("short post should pass through unchanged, got %q", got)
	}
}

func TestFormatPostCollapsesWhitespace(t *testing.T) {
	got := formatPost("Hello   world\n\nagain\t!")
	want := "Hello world again !"
	if got != want {
		t.Errorf("expected %q, got %q", want, got)
	}
}

func TestSeededGeneratorIsDeterministic(t *testing.T) {
	cfg := testConfig()

	a := NewWithSeed(cfg, 42)
	b := NewWithSeed(cfg, 42)

	for i := 0; i < 10; i++ {
		postA := a.GeneratePost("technology")
		postB := b.GeneratePost("technology")
		if postA != postB {
			t.Fatalf("seeded generators diverged at step %d: %q vs %q", i, postA, postB)
		}
	}
}

func TestBuildPromptFallsBackToProfessionalGuide(t *testing.T) {
	cfg := testConfig()
	cfg.Tone = "sarcastic"

	gen := NewWithSeed(cfg, 1)
	prompt := gen.buildPrompt("AI")

	if !strings.Contains(prompt, toneGuides["professional"]) {
		t.Errorf("unknown tone should fall back to professional guide, got %q", prompt)
	}
}
