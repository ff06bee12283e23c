package dialog

import (
	"fmt"
	"regexp"
	"strings"
)

// The engine is stateless between turns. The host echoes a context marker
// back inside the follow-up text, and the marker alone reconstructs the
// prior turn state.
var (
	selectionMarkerRe = regexp.MustCompile(`\s*\(selecting from sub-categories for ([^)]+)\)`)
	scopeMarkerRe     = regexp.MustCompile(`\s*\(choosing scheme type for (.+) in ([^)]+)\)`)
)

// FormatSelectionMarker renders the marker attached to a topic list.
func FormatSelectionMarker(state string) string {
	return fmt.Sprintf("(selecting from sub-categories for %s)", state)
}

// FormatScopeMarker renders the marker attached to a scope choice.
func FormatScopeMarker(topic, state string) string {
	return fmt.Sprintf("(choosing scheme type for %s in %s)", topic, state)
}

// parseMarker strips a context marker from the turn text and returns the
// cleaned text plus whatever the marker carried. The scope-choice marker is
// tried first since it is the more specific of the two.
func parseMarker(text string) (clean, state, topic string) {
	if m := scopeMarkerRe.FindStringSubmatch(text); m != nil {
		topic = strings.TrimSpace(m[1])
		state = strings.TrimSpace(m[2])
		clean = strings.TrimSpace(scopeMarkerRe.ReplaceAllString(text, ""))
		return clean, state, topic
	}
	if m := selectionMarkerRe.FindStringSubmatch(text); m != nil {
		state = strings.TrimSpace(m[1])
		clean = strings.TrimSpace(selectionMarkerRe.ReplaceAllString(text, ""))
		return clean, state, ""
	}
	return strings.TrimSpace(text), "", ""
}
