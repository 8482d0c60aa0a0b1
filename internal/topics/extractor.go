package topics

import "strings"

// DefaultTopic is returned when no taxonomy entry matches the content.
const DefaultTopic = "general advice"

// Entry maps one topic label to the seed keywords that vote for it.
type Entry struct {
	Topic    string
	Keywords []string
}

// DefaultTaxonomy returns the built-in topic table. Order matters: ties
// resolve to the earliest entry, so the table must stay stable.
func DefaultTaxonomy() []Entry {
	return []Entry{
		{Topic: "productivity", Keywords: []string{"productiv", "focus", "efficien", "procrastinat", "organiz"}},
		{Topic: "fitness", Keywords: []string{"workout", "gym", "exercise", "fitness", "nutrition"}},
		{Topic: "business", Keywords: []string{"business", "money", "entrepreneur", "startup", "invest"}},
		{Topic: "social media", Keywords: []string{"content", "follower", "viral", "engagement", "platform"}},
		{Topic: "personal development", Keywords: []string{"mindset", "growth", "habit", "confiden", "motivat"}},
		{Topic: "technology", Keywords: []string{"tech", "software", "app", "digital", "gadget"}},
		{Topic: "relationships", Keywords: []string{"relationship", "dating", "partner", "communicat", "friend"}},
		{Topic: "creativity", Keywords: []string{"creativ", "design", "writing", "music", "imagin"}},
	}
}

// Extractor labels a script's dominant topic by keyword voting.
type Extractor struct {
	taxonomy []Entry
}

// NewExtractor constructs an extractor over the given taxonomy.
// A nil taxonomy falls back to DefaultTaxonomy.
func NewExtractor(taxonomy []Entry) *Extractor {
	if taxonomy == nil {
		taxonomy = DefaultTaxonomy()
	}
	return &Extractor{taxonomy: taxonomy}
}

// Extract returns the highest-scoring topic for the content. Each lowercased
// token votes for a topic when it contains one of the topic's seed keywords
// as a substring. Ties go to the earliest taxonomy entry; a zero score for
// every topic yields DefaultTopic.
func (e *Extractor) Extract(content string) string {
	tokens := strings.Fields(strings.ToLower(content))
	if len(tokens) == 0 {
		return DefaultTopic
	}

	best := DefaultTopic
	bestScore := 0
	for _, entry := range e.taxonomy {
		score := 0
		for _, token := range tokens {
			for _, keyword := range entry.Keywords {
				if strings.Contains(token, keyword) {
					score++
					break
				}
			}
		}
		if score > bestScore {
			best = entry.Topic
			bestScore = score
		}
	}
	return best
}
