package generator

import (
	"fmt"
	"math/rand"
	"strings"
	"time"
)

// MaxPostLength is the hard cap applied to generated content
const MaxPostLength = 280

// Config describes the persona a generator writes as
type Config struct {
	Name     string   `json:"name"`
	Tone     string   `json:"tone"`
	Topics   []string `json:"topics"`
	Hashtags []string `json:"hashtags"`
}

var toneGuides = map[string]string{
	"professional": "Use formal language and industry terminology",
	"casual":       "Keep it relaxed and conversational",
	"friendly":     "Be warm and approachable",
	"enthusiastic": "Be energetic and upbeat",
	"analytical":   "Lead with data and careful reasoning",
}

// cannedResponses is the stand-in corpus used until a real generation
// service is wired in. The uniform random pick over it is deliberate,
// documented behavior, not a bug.
var cannedResponses = []string{
	"Exciting developments in AI today! New breakthroughs in natural language processing are revolutionizing how we interact with machines. #AI #Innovation",
	"The future of technology is here! Quantum computing advances promise to transform industries across the board. #Tech #Future",
	"Breaking: Major advancements in machine learning algorithms show promising results in healthcare applications. #AI #Healthcare #Innovation",
}

// Generator produces posts for a single bot configuration
type Generator struct {
	cfg Config
	rng *rand.Rand
}

// New creates a time-seeded Generator for cfg
func New(cfg Config) *Generator {
	return NewWithSeed(cfg, time.Now().UnixNano())
}

// NewWithSeed creates a Generator with a fixed seed; output is
// deterministic for a given seed.
func NewWithSeed(cfg Config, seed int64) *Generator {
	return &Generator{
		cfg: cfg,
		rng: rand.New(rand.NewSource(seed)),
	}
}

// Config returns the configuration the generator was built with
func (g *Generator) Config() Config {
	return g.cfg
}

// GeneratePost returns one canned response formatted to the post limit.
// The prompt is built for parity with a future model-backed generator but
// is not sent anywhere.
func (g *Generator) GeneratePost(topic string) string {
	_ = g.buildPrompt(topic)

	response := cannedResponses[g.rng.Intn(len(cannedResponses))]
	return formatPost(response)
}

// buildPrompt assembles the instruction string a real generation service
// would receive.
func (g *Generator) buildPrompt(topic string) string {
	guide, ok := toneGuides[g.cfg.Tone]
	if !ok {
		guide = toneGuides["professional"]
	}

	var b strings.Builder
	fmt.Fprintf(&b, "Create a %s social media post about %s.\n", g.cfg.Tone, topic)
	fmt.Fprintf(&b, "Tone guide: %s\n", guide)
	fmt.Fprintf(&b, "Include these hashtags where relevant: %s\n", strings.Join(g.cfg.Hashtags, ", "))
	fmt.Fprintf(&b, "Focus on these topics: %s\n", strings.Join(g.cfg.Topics, ", "))
	fmt.Fprintf(&b, "Keep it under %d characters.\n", MaxPostLength)
	b.WriteString("Make it engaging and informative.")
	return b.String()
}

// formatPost collapses whitespace and hard-truncates to MaxPostLength,
// keeping the first 277 characters and appending "..." when over limit.
func formatPost(text string) string {
	formatted := strings.Join(strings.Fields(text), " ")

	runes := []rune(formatted)
	if len(runes) > MaxPostLength {
		formatted = string(runes[:MaxPostLength-3]) + "..."
	}
	return formatted
}
