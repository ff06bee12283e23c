package corpus

import (
	"sort"
	"strings"
)

// TopicCount pairs a sub-category name with the number of schemes that
// declare it.
type TopicCount struct {
	Name  string `json:"name"`
	Count int    `json:"count"`
}

// Catalog holds per-state and Central sub-category counts derived from the
// enriched corpus. It is immutable after construction.
type Catalog struct {
	stateTopics map[string]map[string]int // lower state -> topic -> count
	stateNames  map[string]string         // lower state -> canonical
	central     map[string]int            // topic -> count
	allTopics   []string                  // unique topic names, sorted
}

// BuildCatalog derives the sub-category catalog from enriched records.
func BuildCatalog(records []EnrichedRecord) *Catalog {
	c := &Catalog{
		stateTopics: make(map[string]map[string]int),
		stateNames:  make(map[string]string),
		central:     make(map[string]int),
	}

	topicSet := make(map[string]bool)
	for _, rec := range records {
		for _, topic := range rec.SubCategories {
			topic = strings.TrimSpace(topic)
			if topic == "" {
				continue
			}
			topicSet[topic] = true

			if rec.IsCentral() {
				c.central[topic]++
				continue
			}
			key := strings.ToLower(rec.State)
			if c.stateTopics[key] == nil {
				c.stateTopics[key] = make(map[string]int)
				c.stateNames[key] = rec.State
			}
			c.stateTopics[key][topic]++
		}
	}

	for topic := range topicSet {
		c.allTopics = append(c.allTopics, topic)
	}
	sort.Strings(c.allTopics)

	return c
}

// Topics returns every distinct sub-category name, sorted.
func (c *Catalog) Topics() []string {
	out := make([]string, len(c.allTopics))
	copy(out, c.allTopics)
	return out
}

// StateTopics returns the sub-categories of the given state's own schemes,
// sorted by count descending, name ascending on ties. Unknown states return
// an empty list.
func (c *Catalog) StateTopics(state string) []TopicCount {
	return sortTopics(c.stateTopics[strings.ToLower(state)])
}

// CentralTopics returns the sub-categories of Central schemes, sorted by
// count descending, name ascending on ties.
func (c *Catalog) CentralTopics() []TopicCount {
	return sortTopics(c.central)
}

// StateTopicCount looks up the count of a state sub-category,
// case-insensitively. The second return reports whether the topic exists
// for that state.
func (c *Catalog) StateTopicCount(state, topic string) (int, bool) {
	topics := c.stateTopics[strings.ToLower(state)]
	for name, count := range topics {
		if strings.EqualFold(name, topic) {
			return count, true
		}
	}
	return 0, false
}

// CentralTopicCount looks up the count of a Central sub-category,
// case-insensitively.
func (c *Catalog) CentralTopicCount(topic string) (int, bool) {
	for name, count := range c.central {
		if strings.EqualFold(name, topic) {
			return count, true
		}
	}
	return 0, false
}

// CanonicalTopic resolves a case-insensitive topic name to its canonical
// spelling in the corpus.
func (c *Catalog) CanonicalTopic(topic string) (string, bool) {
	for _, name := range c.allTopics {
		if strings.EqualFold(name, topic) {
			return name, true
		}
	}
	return "", false
}

func sortTopics(counts map[string]int) []TopicCount {
	out := make([]TopicCount, 0, len(counts))
	for name, count := range counts {
		out = append(out, TopicCount{Name: name, Count: count})
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Count != out[j].Count {
			return out[i].Count > out[j].Count
		}
		return out[i].Name < out[j].Name
	})
	return out
}
