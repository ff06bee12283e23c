package dialog

import (
	"sort"
	"strings"

	"github.com/agrimitra-ai/scheme-engine/internal/corpus"
	"github.com/agrimitra-ai/scheme-engine/internal/profile"
)

// displayList builds the numbered topic list exactly as it is shown to the
// user: state topics first (count descending, name ascending on ties),
// then Central topics not already listed, restricted by scope preference.
// Numeric selections re-derive this same list, so it must stay
// deterministic.
func displayList(catalog *corpus.Catalog, state string, scope profile.Scope) []corpus.TopicCount {
	stateTopics := catalog.StateTopics(state)
	centralTopics := catalog.CentralTopics()

	switch scope {
	case profile.ScopeStateOnly:
		return stateTopics
	case profile.ScopeCentralOnly:
		return centralTopics
	}

	list := make([]corpus.TopicCount, 0, len(stateTopics)+len(centralTopics))
	seen := make(map[string]bool)
	for _, t := range stateTopics {
		list = append(list, t)
		seen[strings.ToLower(t.Name)] = true
	}
	for _, t := range centralTopics {
		if !seen[strings.ToLower(t.Name)] {
			list = append(list, t)
		}
	}
	return list
}

// mapSelection resolves a 1-based numeric selection against the display
// list. Out-of-range numbers report failure without side effects.
func mapSelection(catalog *corpus.Catalog, state string, scope profile.Scope, n int) (string, bool) {
	list := displayList(catalog, state, scope)
	if n < 1 || n > len(list) {
		return "", false
	}
	return list[n-1].Name, true
}

// resolveTopic finds the sub-category a query refers to. Stages, in order:
// exact phrase (longest sub-category first), all significant words present,
// majority word overlap, then the fixed keyword map.
func resolveTopic(catalog *corpus.Catalog, lower string) string {
	topics := catalog.Topics()
	sorted := make([]string, len(topics))
	copy(sorted, topics)
	sort.Slice(sorted, func(i, j int) bool {
		if len(sorted[i]) != len(sorted[j]) {
			return len(sorted[i]) > len(sorted[j])
		}
		return sorted[i] < sorted[j]
	})

	// Exact phrase match.
	for _, topic := range sorted {
		if strings.Contains(lower, strings.ToLower(topic)) {
			return topic
		}
	}

	// All significant words present; prefer the match with more words.
	best := ""
	bestWords := 0
	for _, topic := range sorted {
		words := topicWords(topic, 2)
		if len(words) == 0 {
			continue
		}
		all := true
		for _, w := range words {
			if !strings.Contains(lower, w) {
				all = false
				break
			}
		}
		if all && len(words) > bestWords {
			best = topic
			bestWords = len(words)
		}
	}
	if best != "" {
		return best
	}

	// Majority overlap: more than half of the topic's longer words.
	best = ""
	bestScore := 0.0
	for _, topic := range sorted {
		words := topicWords(topic, 3)
		if len(words) == 0 {
			continue
		}
		matches := 0
		for _, w := range words {
			if strings.Contains(lower, w) {
				matches++
			}
		}
		score := float64(matches) / float64(len(words))
		if score > 0.5 && score > bestScore {
			best = topic
			bestScore = score
		}
	}
	if best != "" {
		return best
	}

	// Keyword map, restricted to topics the corpus actually declares.
	if hint := profile.ExtractTopicHint(lower); hint != "" {
		if canonical, ok := catalog.CanonicalTopic(hint); ok {
			return canonical
		}
	}
	return ""
}

// topicWords returns the lower-cased words of a topic longer than minLen.
func topicWords(topic string, minLen int) []string {
	var out []string
	for _, w := range strings.Fields(strings.ToLower(topic)) {
		if len(w) > minLen {
			out = append(out, w)
		}
	}
	return out
}
