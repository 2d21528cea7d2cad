// Package preset answers a fixed set of questions without calling the backend.
package preset

import "strings"

// Entry is one canned question with its answer
type Entry struct {
	Question string
	Answer   string
}

// defaultEntries is the built-in question list, in display order
var defaultEntries = []Entry{
	{
		Question: "What is photosynthesis?",
		Answer:   "Photosynthesis is the process by which green plants and some other organisms use sunlight to synthesize foods with the help of chlorophyll pigments.",
	},
	{
		Question: "How does evaporation work?",
		Answer:   "Evaporation is the process by which water changes from a liquid to a gas or vapor.",
	},
	{
		Question: "What is the water cycle?",
		Answer:   "The water cycle describes how water evaporates from the surface of the earth, rises into the atmosphere, cools and condenses into rain or snow in clouds, and falls again to the surface as precipitation.",
	},
	{
		Question: "Define gravity.",
		Answer:   "Gravity is a force which tries to pull two objects toward each other. Anything which has mass also has a gravitational pull.",
	},
	{
		Question: "What are the three states of matter?",
		Answer:   "The three states of matter are solid, liquid, and gas.",
	},
	{
		Question: "What is the solar system?",
		Answer:   "The solar system consists of the Sun and everything that orbits, or travels around, the Sun.",
	},
	{
		Question: "How do plants breathe?",
		Answer:   "Plants breathe through tiny pores called stomata, located on the underside of their leaves.",
	},
	{
		Question: "What is an atom?",
		Answer:   "An atom is the smallest unit of ordinary matter that forms a chemical element.",
	},
	{
		Question: "Why is the sky blue?",
		Answer:   "The sky is blue because of Rayleigh scattering. As sunlight reaches Earth's atmosphere, it is scattered in all directions by all the gases and particles in the air.",
	},
	{
		Question: "What is force?",
		Answer:   "A force is a push or a pull upon an object resulting from the object's interaction with another object.",
	},
}

// trailingPunct is the set stripped from the end of a normalized string
const trailingPunct = "?.,!"

// Normalize lowercases s, trims surrounding whitespace and strips any
// trailing run of ? . , ! characters. It is only used for comparison.
func Normalize(s string) string {
	s = strings.TrimSpace(strings.ToLower(s))
	return strings.TrimRight(s, trailingPunct)
}

// Matcher looks up canned answers. It is immutable after construction and
// safe for concurrent use.
type Matcher struct {
	entries []Entry
	index   map[string]int
}

// NewMatcher builds a matcher over entries. When two questions normalize to
// the same key the first one wins.
func NewMatcher(entries []Entry) *Matcher {
	m := &Matcher{
		entries: make([]Entry, len(entries)),
		index:   make(map[string]int, len(entries)),
	}
	copy(m.entries, entries)

	for i, e := range m.entries {
		key := Normalize(e.Question)
		if _, exists := m.index[key]; !exists {
			m.index[key] = i
		}
	}
	return m
}

var defaultMatcher = NewMatcher(defaultEntries)

// Default returns the process-wide matcher over the built-in questions
func Default() *Matcher {
	return defaultMatcher
}

// Match returns the answer for input, or ok=false when input is not one of
// the preset questions after normalization.
func (m *Matcher) Match(input string) (string, bool) {
	e, ok := m.Lookup(input)
	if !ok {
		return "", false
	}
	return e.Answer, true
}

// Lookup is like Match but returns the whole entry
func (m *Matcher) Lookup(input string) (Entry, bool) {
	i, ok := m.index[Normalize(input)]
	if !ok {
		return Entry{}, false
	}
	return m.entries[i], true
}

// Entries returns a copy of the entries in display order
func (m *Matcher) Entries() []Entry {
	out := make([]Entry, len(m.entries))
	copy(out, m.entries)
	return out
}

// Questions returns just the question texts in display order
func (m *Matcher) Questions() []string {
	qs := make([]string, len(m.entries))
	for i, e := range m.entries {
		qs[i] = e.Question
	}
	return qs
}

// Len returns the number of entries
func (m *Matcher) Len() int {
	return len(m.entries)
}
