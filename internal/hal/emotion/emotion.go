// Package emotion defines the emotional classification capability. The
// reference implementation is a lexical keyword matcher; the contract only
// requires that intensity stays in [0, 1] and that ordinary text never
// produces an error, falling back to "neutral" at intensity 0 when no signal
// is found.
package emotion

import (
	"strings"

	lru "github.com/hashicorp/golang-lru/v2"
)

// Output is the result of analyzing a piece of text.
type Output struct {
	PrimaryEmotion string
	Intensity      float32
}

// Analyzer is the emotional classification capability. Implementations own
// no shared mutable state visible to callers and may be invoked from
// concurrent callers without synchronization.
type Analyzer interface {
	Analyze(text string) (Output, error)
}

// lexiconEntry maps trigger keywords to an emotion at a fixed intensity.
// Entries are matched in order: the first entry with any keyword present in
// the input wins.
type lexiconEntry struct {
	emotion   string
	intensity float32
	keywords  []string
}

var defaultLexicon = []lexiconEntry{
	{emotion: "joy", intensity: 0.8, keywords: []string{"happy", "joy"}},
	{emotion: "sorrow", intensity: 0.7, keywords: []string{"sad", "sorrow"}},
	{emotion: "anger", intensity: 0.9, keywords: []string{"angry", "anger"}},
	{emotion: "fear", intensity: 0.6, keywords: []string{"fear"}},
}

// analysisCacheSize bounds the memoization cache. Analysis is a pure
// function of its input, so cached results never go stale.
const analysisCacheSize = 512

// LexiconAnalyzer classifies text by case-insensitive keyword matching
// against an ordered lexicon, memoizing results in an LRU cache.
type LexiconAnalyzer struct {
	lexicon []lexiconEntry
	cache   *lru.Cache[string, Output]
}

// NewLexiconAnalyzer creates an analyzer over the default lexicon.
func NewLexiconAnalyzer() *LexiconAnalyzer {
	// lru.New only fails for a non-positive size.
	cache, _ := lru.New[string, Output](analysisCacheSize)
	return &LexiconAnalyzer{
		lexicon: defaultLexicon,
		cache:   cache,
	}
}

// Analyze implements Analyzer. It never fails for ordinary text input.
func (a *LexiconAnalyzer) Analyze(text string) (Output, error) {
	if out, ok := a.cache.Get(text); ok {
		return out, nil
	}

	lower := strings.ToLower(text)
	out := Output{PrimaryEmotion: "neutral", Intensity: 0.0}
	for _, entry := range a.lexicon {
		if containsAny(lower, entry.keywords) {
			out = Output{PrimaryEmotion: entry.emotion, Intensity: entry.intensity}
			break
		}
	}

	a.cache.Add(text, out)
	return out, nil
}

func containsAny(s string, keywords []string) bool {
	for _, kw := range keywords {
		if strings.Contains(s, kw) {
			return true
		}
	}
	return false
}
